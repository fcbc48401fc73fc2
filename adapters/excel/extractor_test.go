package excel

import (
	"path/filepath"
	"testing"

	"cardops/domain/card"
	"cardops/domain/dataset"
)

func testMeta() dataset.CardFileMeta {
	meta, _ := dataset.ParseCardFileName(filepath.Join("raw_data", "StoreA", "2024_06_Laporan.xlsx"))
	return meta
}

// sheetWith builds raw rows shaped like a card export: metadata block, then
// the positional body handed in.
func sheetWith(storeName string, body ...[]string) [][]string {
	rows := make([][]string, 4)
	metaRow := make([]string, 6)
	metaRow[5] = storeName
	rows = append(rows, metaRow)
	return append(rows, body...)
}

func dataRow(pkg, qty string) []string {
	raw := make([]string, 18)
	raw[0] = pkg
	raw[8] = qty
	raw[9] = "100000"
	raw[17] = "50000"
	return raw
}

func TestExtractRows_SectionAssignment(t *testing.T) {
	e := NewCardExtractor(card.LayoutV1)
	rows := sheetWith("TOKO RAMAYANA 123",
		[]string{"Kiddie Land Area"},
		dataRow("Paket A", "1"),
		dataRow("Paket B", "2"),
		dataRow("Paket C", "3"),
		[]string{"Staf Only"},
		dataRow("Paket D", "4"),
		dataRow("Paket E", "5"),
	)

	records := e.extractRows(rows, testMeta())
	if len(records) != 5 {
		t.Fatalf("got %d records, want 5", len(records))
	}
	for i, want := range []string{"Kiddie Land", "Kiddie Land", "Kiddie Land", "Staf", "Staf"} {
		if records[i].CardType != want {
			t.Errorf("record %d section = %q, want %q", i, records[i].CardType, want)
		}
	}
}

func TestExtractRows_MetadataAndDefaults(t *testing.T) {
	e := NewCardExtractor(card.LayoutV1)

	records := e.extractRows(sheetWith("TOKO RAMAYANA 123", dataRow("Paket A", "2")), testMeta())
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	r := records[0]
	if r.StoreInternal != "TOKO RAMAYANA 123" {
		t.Errorf("store internal = %q", r.StoreInternal)
	}
	if r.SourceFolder != "StoreA" || r.Year != "2024" || r.Month != "Juni" {
		t.Errorf("provenance = %s/%s/%s, want StoreA/2024/Juni", r.SourceFolder, r.Year, r.Month)
	}
	if r.CardType != card.UnknownSection {
		t.Errorf("section before any header = %q, want %q", r.CardType, card.UnknownSection)
	}
	if r.TotalSales != 100000 || r.CreditIn != 50000 {
		t.Errorf("monetary fields = %v/%v", r.TotalSales, r.CreditIn)
	}
}

func TestExtractRows_MissingStoreName(t *testing.T) {
	e := NewCardExtractor(card.LayoutV1)

	records := e.extractRows(sheetWith("", dataRow("Paket A", "1")), testMeta())
	if len(records) != 1 || records[0].StoreInternal != "Unknown" {
		t.Fatalf("blank store cell should read as Unknown, got %+v", records)
	}
}

func TestExtractRows_NoiseIsSilentlySkipped(t *testing.T) {
	e := NewCardExtractor(card.LayoutV1)
	totalRow := make([]string, 18)
	totalRow[0] = "Sub"
	totalRow[2] = "Total Semua"
	totalRow[8] = "99"

	rows := sheetWith("TOKO",
		[]string{"PAKET"},            // column header
		dataRow("Paket A", "Gratis"), // unparsable quantity under strict layout
		totalRow,
		dataRow("Paket B", "3"),
	)

	records := e.extractRows(rows, testMeta())
	if len(records) != 1 || records[0].Package != "Paket B" {
		t.Fatalf("expected only Paket B to survive, got %+v", records)
	}
}
