package dataset

import (
	"path/filepath"
	"testing"
)

func TestParseCardFileName_TokenSplit(t *testing.T) {
	meta, ok := ParseCardFileName(filepath.Join("raw_data", "StoreA", "2024_06_Laporan.xlsx"))
	if !ok {
		t.Fatal("regular file should parse")
	}
	if meta.Year != "2024" || meta.MonthCode != "06" {
		t.Errorf("year/month = %s/%s, want 2024/06", meta.Year, meta.MonthCode)
	}
	if meta.Folder != "StoreA" {
		t.Errorf("folder = %q, want StoreA", meta.Folder)
	}
	if meta.Signature() != Signature("StoreA_2024_Juni") {
		t.Errorf("signature = %q, want StoreA_2024_Juni", meta.Signature())
	}
}

func TestParseCardFileName_PermissiveDefaults(t *testing.T) {
	meta, ok := ParseCardFileName(filepath.Join("raw_data", "StoreB", "laporan.xlsx"))
	if !ok {
		t.Fatal("malformed card names are defaulted, not rejected")
	}
	if meta.Year != "Unknown" || meta.MonthCode != "Unknown" {
		t.Errorf("year/month = %s/%s, want Unknown/Unknown", meta.Year, meta.MonthCode)
	}
}

func TestParseCardFileName_LockFile(t *testing.T) {
	if _, ok := ParseCardFileName("raw_data/StoreA/~$2024_06_Laporan.xlsx"); ok {
		t.Error("Excel lock files must be skipped")
	}
}

func TestParseMachineFileName_Strict(t *testing.T) {
	meta, ok := ParseMachineFileName(filepath.Join("data-mesin", "Laporan_Agustus_2024.xlsx"))
	if !ok {
		t.Fatal("standard machine name should parse")
	}
	if meta.Month != "Agustus" || meta.Year != "2024" {
		t.Errorf("month/year = %s/%s, want Agustus/2024", meta.Month, meta.Year)
	}

	// Machine domain skips non-conforming names entirely.
	if _, ok := ParseMachineFileName("data-mesin/Laporan_2024.xlsx"); ok {
		t.Error("short machine names must be skipped, not defaulted")
	}
	if _, ok := ParseMachineFileName("data-mesin/notes.txt"); ok {
		t.Error("non-Excel files must be skipped")
	}
}

func TestSignatureSet_ShouldProcess(t *testing.T) {
	set := SignatureSet{}
	sig := NewSignature("StoreA", "2024", "Juni")

	if !set.ShouldProcess(sig) {
		t.Error("unseen signature should be processed")
	}
	set.Add(sig)
	if set.ShouldProcess(sig) {
		t.Error("recorded signature should be skipped")
	}
}
