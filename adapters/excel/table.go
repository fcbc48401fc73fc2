package excel

import (
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"cardops/domain/card"
	"cardops/domain/core"
	"cardops/domain/machine"
)

// CardTableStore persists the combined card table as a named-column .xlsx
// grid and reads it back for incremental runs.
type CardTableStore struct{}

func NewCardTableStore() *CardTableStore {
	return &CardTableStore{}
}

// Write saves records under the fixed column order.
func (s *CardTableStore) Write(path string, records []card.Record) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(card.Columns))
	for i, c := range card.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range records {
		row := []interface{}{
			r.SourceFolder, r.StoreInternal, r.Year, r.Month,
			r.CardType, r.Package, r.Quantity, r.TotalSales, r.CreditIn, r.BonusIn,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save table: %w", err)
	}
	return nil
}

// Read loads a previously written table. Columns are matched by header
// name, so tables written before a column existed read back with that field
// zeroed (schema evolution tolerance). Rows that are blank across all
// tracked columns are dropped.
func (s *CardTableStore) Read(path string) ([]card.Record, error) {
	rows, err := readFirstSheet(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, nil
	}

	idx := headerIndex(rows[0])
	var records []card.Record
	for _, raw := range rows[1:] {
		r := card.Record{
			SourceFolder:  columnText(raw, idx, "Folder_Asal"),
			StoreInternal: columnText(raw, idx, "Nama_Toko_Internal"),
			Year:          columnText(raw, idx, "Tahun"),
			Month:         columnText(raw, idx, "Bulan"),
			CardType:      columnText(raw, idx, "Tipe_Kartu"),
			Package:       columnText(raw, idx, "Paket"),
			Quantity:      columnFloat(raw, idx, "Frekuensi"),
			TotalSales:    columnFloat(raw, idx, "Total_Sales"),
			CreditIn:      columnFloat(raw, idx, "Masuk_Kredit"),
			BonusIn:       columnFloat(raw, idx, "Masuk_Bonus"),
		}
		if r.IsEmpty() {
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

// MachineTableStore persists the combined machine table. Fixed columns come
// first, pass-through extras follow in sorted order.
type MachineTableStore struct{}

func NewMachineTableStore() *MachineTableStore {
	return &MachineTableStore{}
}

func (s *MachineTableStore) Write(path string, records []machine.Record) error {
	extras := extraColumns(records)
	columns := append(append([]string{}, machine.Columns...), extras...)

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range records {
		row := []interface{}{
			r.SourceFile, r.SourceFolder, r.Year, r.Month,
			r.Store, r.Machine, r.Category, r.Activations, r.CreditUsed,
		}
		for _, extra := range extras {
			row = append(row, r.Extra[extra])
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save table: %w", err)
	}
	return nil
}

func (s *MachineTableStore) Read(path string) ([]machine.Record, error) {
	rows, err := readFirstSheet(path)
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, nil
	}

	idx := headerIndex(rows[0])
	fixed := make(map[string]struct{}, len(machine.Columns))
	for _, c := range machine.Columns {
		fixed[c] = struct{}{}
	}

	var records []machine.Record
	for _, raw := range rows[1:] {
		r := machine.Record{
			SourceFile:   columnText(raw, idx, "Nama_File_Asal"),
			SourceFolder: columnText(raw, idx, "Asal_Folder"),
			Year:         columnText(raw, idx, "Tahun"),
			Month:        columnText(raw, idx, "Bulan"),
			Store:        columnText(raw, idx, "Center"),
			Machine:      columnText(raw, idx, "GT_FINAL"),
			Category:     columnText(raw, idx, "Kategori Game"),
			Activations:  columnFloat(raw, idx, "Jumlah Diaktifkan"),
			CreditUsed:   columnFloat(raw, idx, "Kredit yg Digunakan"),
			Extra:        make(map[string]string),
		}
		empty := r.SourceFile == "" && r.Store == "" && r.Machine == "" &&
			r.Activations == 0 && r.CreditUsed == 0
		for header := range idx {
			if _, isFixed := fixed[header]; isFixed {
				continue
			}
			if v := columnText(raw, idx, header); v != "" {
				r.Extra[header] = v
				empty = false
			}
		}
		if empty {
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

func extraColumns(records []machine.Record) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		for k := range r.Extra {
			seen[k] = struct{}{}
		}
	}
	extras := make([]string, 0, len(seen))
	for k := range seen {
		extras = append(extras, k)
	}
	sort.Strings(extras)
	return extras
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h != "" {
			idx[h] = i
		}
	}
	return idx
}

func columnText(row []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func columnFloat(row []string, idx map[string]int, name string) float64 {
	return core.SafeFloat(core.ParseCell(columnText(row, idx, name)))
}
