package excel

import (
	"path/filepath"
	"testing"

	"cardops/domain/card"
	"cardops/domain/machine"
)

func TestCardTableStore_RoundTrip(t *testing.T) {
	store := NewCardTableStore()
	path := filepath.Join(t.TempDir(), "combined.xlsx")

	in := []card.Record{
		{
			SourceFolder: "StoreA", StoreInternal: "TOKO 1", Year: "2024", Month: "Juni",
			CardType: "Zone 2000", Package: "Paket 50K",
			Quantity: 4, TotalSales: 200000, CreditIn: 180000, BonusIn: 20000,
		},
		{
			SourceFolder: "StoreB", StoreInternal: "TOKO 2", Year: "2024", Month: "Juli",
			CardType: "Kiddie Land", Package: "Paket 25K",
			Quantity: 1, TotalSales: 25000,
		},
	}

	if err := store.Write(path, in); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	out, err := store.Read(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(out) != len(in) {
		t.Fatalf("round trip returned %d records, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("record %d mismatch:\n got %+v\nwant %+v", i, out[i], in[i])
		}
	}
}

func TestCardTableStore_ReadMissingFile(t *testing.T) {
	store := NewCardTableStore()
	if _, err := store.Read(filepath.Join(t.TempDir(), "absent.xlsx")); err == nil {
		t.Fatal("reading a missing table must surface an error for the caller to downgrade")
	}
}

func TestMachineTableStore_RoundTripWithExtras(t *testing.T) {
	store := NewMachineTableStore()
	path := filepath.Join(t.TempDir(), "machines.xlsx")

	in := []machine.Record{
		{
			SourceFile: "Laporan_Juni_2024.xlsx", SourceFolder: "data-mesin",
			Year: "2024", Month: "Juni",
			Store: "StoreA", Machine: "MachineX", Category: "Arcade",
			Activations: 40, CreditUsed: 120,
			Extra: map[string]string{"Lokasi Lantai": "2"},
		},
	}

	if err := store.Write(path, in); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	out, err := store.Read(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d records, want 1", len(out))
	}
	r := out[0]
	if r.Store != "StoreA" || r.Machine != "MachineX" || r.Activations != 40 || r.CreditUsed != 120 {
		t.Errorf("typed fields mismatch: %+v", r)
	}
	if r.Extra["Lokasi Lantai"] != "2" {
		t.Errorf("pass-through column lost: %+v", r.Extra)
	}
}
