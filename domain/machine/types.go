package machine

import (
	"strconv"
	"strings"
)

// Record is one normalized row of the combined machine-usage table. The
// source sheets are entirely data, so extraction is a pass-through: every
// original column survives in Extra, with provenance and the two metric
// columns lifted into typed fields.
type Record struct {
	SourceFile   string  // Nama_File_Asal
	SourceFolder string  // Asal_Folder
	Year         string  // Tahun
	Month        string  // Bulan (localized name from the file name)
	Store        string  // Center
	Machine      string  // GT_FINAL
	Category     string  // Kategori Game
	Activations  float64 // Jumlah Diaktifkan
	CreditUsed   float64 // Kredit yg Digunakan

	// Extra preserves source columns that have no typed field.
	Extra map[string]string
}

// Fixed columns of the combined machine table, in output order. Extra
// columns follow in sorted order.
var Columns = []string{
	"Nama_File_Asal", "Asal_Folder", "Tahun", "Bulan",
	"Center", "GT_FINAL", "Kategori Game", "Jumlah Diaktifkan", "Kredit yg Digunakan",
}

// kiddieExclusions lists machine labels excluded from machine-domain views;
// those rides are covered by the card domain's Kiddie Land section.
var kiddieExclusions = map[string]struct{}{
	"KIDDIE LAND":          {},
	"KIDDIE LAND 1 JAM":    {},
	"KIDDIELAND MINI":      {},
	"KIDDIELAND SEPUASNYA": {},
	"KIDDIE ZONE 1 JAM":    {},
}

// IsExcluded reports whether the record's machine label is on the fixed
// exclusion list.
func (r Record) IsExcluded() bool {
	_, ok := kiddieExclusions[strings.ToUpper(strings.TrimSpace(r.Machine))]
	return ok
}

// ExcludeKiddie drops excluded machine labels from a record set.
func ExcludeKiddie(records []Record) []Record {
	kept := make([]Record, 0, len(records))
	for _, r := range records {
		if !r.IsExcluded() {
			kept = append(kept, r)
		}
	}
	return kept
}

// ParseMetric normalizes a machine metric cell to a float64. Sheets exported
// through the remote-sheet path carry localized number formatting, so dots
// are thousands separators and a comma is the decimal mark: "1.234" is 1234
// and "1.234,5" is 1234.5, never one-point-two. The cleanup runs
// unconditionally before parsing; anything still unparsable coerces to 0.
func ParseMetric(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" {
		return 0
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	return 0
}
