package excel

import (
	"strings"

	"cardops/domain/dataset"
	"cardops/domain/machine"
)

// MachineExtractor reads one machine-domain worksheet. The whole sheet is
// data (header row + rows), so extraction is a pass-through merge: every
// source column survives, and the known metric/identity columns are lifted
// into typed fields.
type MachineExtractor struct{}

func NewMachineExtractor() *MachineExtractor {
	return &MachineExtractor{}
}

// Extract reads the file named by meta and emits one record per data row.
func (e *MachineExtractor) Extract(meta dataset.MachineFileMeta) ([]machine.Record, error) {
	rows, err := readFirstSheet(meta.Path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	var records []machine.Record
	for _, raw := range rows[1:] {
		rec := machine.Record{
			SourceFile:   meta.FileName,
			SourceFolder: meta.Folder,
			Year:         meta.Year,
			Month:        meta.Month,
			Extra:        make(map[string]string),
		}
		empty := true
		for i, header := range headers {
			var cell string
			if i < len(raw) {
				cell = strings.TrimSpace(raw[i])
			}
			if cell != "" {
				empty = false
			}
			switch header {
			case "Center", "Center_MAPPED": // fixed historical rename
				rec.Store = cell
			case "GT_FINAL":
				rec.Machine = cell
			case "Kategori Game":
				rec.Category = cell
			case "Jumlah Diaktifkan":
				rec.Activations = machine.ParseMetric(cell)
			case "Kredit yg Digunakan":
				rec.CreditUsed = machine.ParseMetric(cell)
			case "":
			default:
				rec.Extra[header] = cell
			}
		}
		if empty {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
