package core

import (
	"strconv"
	"strings"
)

// CellKind discriminates the value held by a spreadsheet cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellText
	CellNumber
)

// Cell is one spreadsheet cell after decoding. Position is the only
// addressing mechanism in the source sheets, so a Cell carries no
// column identity of its own.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// ParseCell decodes a raw cell string into a tagged Cell. Whitespace-only
// cells are Empty; anything strconv accepts as a float is a Number (the
// original text is retained for callers that need it).
func ParseCell(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Cell{Kind: CellEmpty}
	}
	if v, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Cell{Kind: CellNumber, Text: trimmed, Number: v}
	}
	return Cell{Kind: CellText, Text: trimmed}
}

// ParseRow decodes a raw worksheet row into cells.
func ParseRow(raw []string) []Cell {
	cells := make([]Cell, len(raw))
	for i, r := range raw {
		cells[i] = ParseCell(r)
	}
	return cells
}

// SafeFloat coerces a cell to a float64 under the pipeline's silent-coercion
// policy: blank, whitespace-only, the literal dash "-", and unparsable values
// all become 0.0. This is a deliberate business rule (robustness over
// data-quality signal), so every monetary field goes through this one function.
func SafeFloat(c Cell) float64 {
	switch c.Kind {
	case CellNumber:
		return c.Number
	case CellText:
		if c.Text == "-" {
			return 0.0
		}
		if v, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64); err == nil {
			return v
		}
		return 0.0
	default:
		return 0.0
	}
}

// StrictFloat reports the numeric value of a cell and whether it parsed as a
// finite number. Used where a layout treats an unparsable key field as grounds
// for rejecting the whole row.
func StrictFloat(c Cell) (float64, bool) {
	switch c.Kind {
	case CellNumber:
		return c.Number, true
	case CellText:
		if v, err := strconv.ParseFloat(strings.TrimSpace(c.Text), 64); err == nil {
			return v, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// CellAt returns the cell at position idx, or an Empty cell when the row is
// too short. Short rows are expected in the source sheets and must read as
// defaults rather than erroring.
func CellAt(row []Cell, idx int) Cell {
	if idx < 0 || idx >= len(row) {
		return Cell{Kind: CellEmpty}
	}
	return row[idx]
}
