package core

import "fmt"

// monthNames maps two-digit month codes from file names to the localized
// month names used in the persisted tables. Signatures are compared after
// this mapping on both sides; skipping it on either side makes every
// signature silently miss.
var monthNames = map[string]string{
	"01": "Januari", "02": "Februari", "03": "Maret", "04": "April",
	"05": "Mei", "06": "Juni", "07": "Juli", "08": "Agustus",
	"09": "September", "10": "Oktober", "11": "November", "12": "Desember",
}

var monthNumbers = map[string]int{
	"Januari": 1, "Februari": 2, "Maret": 3, "April": 4,
	"Mei": 5, "Juni": 6, "Juli": 7, "Agustus": 8,
	"September": 9, "Oktober": 10, "November": 11, "Desember": 12,
}

// MonthName maps a numeric month code ("01".."12") to its localized name.
// Unmapped codes pass through unchanged, matching the permissive handling
// of malformed card file names.
func MonthName(code string) string {
	if name, ok := monthNames[code]; ok {
		return name
	}
	return code
}

// MonthNumber returns the 1-based month number for a localized month name,
// or 0 when the name is not one of the twelve known months.
func MonthNumber(name string) int {
	return monthNumbers[name]
}

// MonthKey builds the sortable calendar-month bucket ("2024-06") used by
// time-bucketed aggregation and the cross-domain join. Returns "" when the
// month name is unknown, which keeps unparseable periods out of joins.
func MonthKey(year, monthName string) string {
	n := MonthNumber(monthName)
	if n == 0 || year == "" || year == "Unknown" {
		return ""
	}
	return fmt.Sprintf("%s-%02d", year, n)
}
