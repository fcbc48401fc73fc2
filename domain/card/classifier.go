package card

import (
	"math"
	"strings"

	"cardops/domain/core"
)

// UnknownSection is the section accumulator's reset value at the start of
// every worksheet.
const UnknownSection = "Unknown"

// maxHeaderLen guards section-header matching against long free-text cells
// that merely contain a section keyword.
const maxHeaderLen = 50

// ClassificationKind discriminates what a worksheet row turned out to be.
type ClassificationKind int

const (
	// Skip marks noise: blank leads, column headers, total rows, rows whose
	// key field fails the layout's validity rule. Expected in free-form
	// sheets, so skipping is silent.
	Skip ClassificationKind = iota
	// SectionHeader marks a row that changes the current section; it never
	// contributes a data record itself.
	SectionHeader
	// DataRow marks a row that yields one normalized record.
	DataRow
)

// Classification is the outcome of classifying one raw row.
type Classification struct {
	Kind    ClassificationKind
	Section string // set when Kind == SectionHeader
	Fields  Fields // set when Kind == DataRow
}

// Fields holds the typed values extracted from a data row.
type Fields struct {
	Package    string
	Quantity   float64
	TotalSales float64
	CreditIn   float64
	BonusIn    float64
}

// Classify decides whether a raw row is a section header, a data row, or
// noise, reading positional columns according to the given layout. Short
// rows read missing columns as empty cells rather than erroring.
func Classify(row []core.Cell, layout Layout) Classification {
	col0 := core.CellAt(row, 0)
	col2 := core.CellAt(row, 2)

	if section, ok := sectionOf(col0); ok {
		return Classification{Kind: SectionHeader, Section: section}
	}

	if col0.Kind == core.CellEmpty {
		return Classification{Kind: Skip}
	}
	if strings.EqualFold(col0.Text, "paket") {
		return Classification{Kind: Skip}
	}
	if strings.Contains(strings.ToLower(col2.Text), "total") {
		return Classification{Kind: Skip}
	}

	qtyCell := core.CellAt(row, layout.QuantityCol)
	var qty float64
	if layout.StrictQuantity {
		v, ok := core.StrictFloat(qtyCell)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			return Classification{Kind: Skip}
		}
		qty = v
	} else {
		qty = core.SafeFloat(qtyCell)
	}

	return Classification{
		Kind: DataRow,
		Fields: Fields{
			Package:    col0.Text,
			Quantity:   qty,
			TotalSales: core.SafeFloat(core.CellAt(row, layout.SalesCol)),
			CreditIn:   core.SafeFloat(core.CellAt(row, layout.CreditCol)),
			BonusIn:    core.SafeFloat(core.CellAt(row, layout.BonusCol)),
		},
	}
}

// sectionOf matches the small fixed set of section-header patterns against
// the first cell of a row.
func sectionOf(col0 core.Cell) (string, bool) {
	if col0.Kind != core.CellText {
		return "", false
	}
	text := col0.Text
	switch {
	case strings.Contains(text, "Kiddie Land") && len(text) < maxHeaderLen:
		return "Kiddie Land", true
	case strings.Contains(text, "Zone") && strings.Contains(text, "2000"):
		return "Zone 2000", true
	case (strings.Contains(text, "Staf") || strings.Contains(text, "Staff")) && len(text) < maxHeaderLen:
		return "Staf", true
	}
	return "", false
}
