package excel

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// readFirstSheet opens a workbook and returns the raw rows of its first
// sheet. The source exports carry their data on the first sheet regardless
// of its name.
func readFirstSheet(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

// metadataCell reads a fixed-position metadata cell from raw rows, with ""
// for anything out of range.
func metadataCell(rows [][]string, rowIdx, colIdx int) string {
	if rowIdx >= len(rows) || colIdx >= len(rows[rowIdx]) {
		return ""
	}
	return strings.TrimSpace(rows[rowIdx][colIdx])
}
