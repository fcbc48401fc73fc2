package excel

import (
	"cardops/domain/card"
	"cardops/domain/core"
	"cardops/domain/dataset"
)

// Store name lives at a fixed cell of every card export (row 5, column F).
const (
	storeNameRow = 4
	storeNameCol = 5
)

// CardExtractor reads one card-domain worksheet into normalized records,
// folding the section accumulator through the rows in order. Section
// assignment depends on having seen prior rows, so iteration is strictly
// sequential within a file.
type CardExtractor struct {
	layout card.Layout
}

// NewCardExtractor builds an extractor for the given layout version.
func NewCardExtractor(version card.LayoutVersion) *CardExtractor {
	return &CardExtractor{layout: card.LayoutFor(version)}
}

// Extract reads the file named by meta and emits its normalized records.
// Only a file that cannot be opened or read at all is an error; malformed
// rows inside it are silently skipped.
func (e *CardExtractor) Extract(meta dataset.CardFileMeta) ([]card.Record, error) {
	rows, err := readFirstSheet(meta.Path)
	if err != nil {
		return nil, err
	}
	return e.extractRows(rows, meta), nil
}

func (e *CardExtractor) extractRows(rows [][]string, meta dataset.CardFileMeta) []card.Record {
	storeName := metadataCell(rows, storeNameRow, storeNameCol)
	if storeName == "" {
		storeName = "Unknown"
	}
	monthName := meta.MonthName()

	var records []card.Record
	section := card.UnknownSection
	for _, raw := range rows {
		c := card.Classify(core.ParseRow(raw), e.layout)
		switch c.Kind {
		case card.SectionHeader:
			section = c.Section
		case card.DataRow:
			records = append(records, card.Record{
				SourceFolder:  meta.Folder,
				StoreInternal: storeName,
				Year:          meta.Year,
				Month:         monthName,
				CardType:      section,
				Package:       c.Fields.Package,
				Quantity:      c.Fields.Quantity,
				TotalSales:    c.Fields.TotalSales,
				CreditIn:      c.Fields.CreditIn,
				BonusIn:       c.Fields.BonusIn,
			})
		}
	}
	return records
}
