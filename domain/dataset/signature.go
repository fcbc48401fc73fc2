package dataset

import (
	"path/filepath"
	"strings"

	"cardops/domain/core"
)

// Signature identifies one source file for incremental-load deduplication:
// origin folder + year + localized month name. Dedup is file-granularity; a
// changed row inside a file does not trigger reprocessing unless the whole
// file's signature is absent from the historical table.
type Signature string

// NewSignature builds a signature from already-localized parts.
func NewSignature(folder, year, monthName string) Signature {
	return Signature(folder + "_" + year + "_" + monthName)
}

// SignatureSet is the set of signatures present in the historical output.
type SignatureSet map[Signature]struct{}

func (s SignatureSet) Add(sig Signature) { s[sig] = struct{}{} }

func (s SignatureSet) Has(sig Signature) bool {
	_, ok := s[sig]
	return ok
}

// ShouldProcess reports whether a candidate file is new to the historical
// table.
func (s SignatureSet) ShouldProcess(sig Signature) bool {
	return !s.Has(sig)
}

// CardFileMeta is what a card-domain file name and location contribute to
// every record extracted from it.
type CardFileMeta struct {
	Path      string
	FileName  string
	Folder    string // parent directory name
	Year      string
	MonthCode string // two-digit code from the file name
}

// MonthName returns the localized month name for the file's month code;
// unmapped codes (including "Unknown") pass through.
func (m CardFileMeta) MonthName() string {
	return core.MonthName(m.MonthCode)
}

// Signature returns the file's incremental-load identity. The month code is
// mapped to its localized name first; the historical table stores names, and
// signatures silently never match unless both sides normalize.
func (m CardFileMeta) Signature() Signature {
	return NewSignature(m.Folder, m.Year, m.MonthName())
}

// ParseCardFileName derives card file metadata from a path. File names
// encode year and month as the first two underscore-delimited tokens
// ("2024_06_StoreA.xlsx"); names with fewer tokens default to
// Unknown/Unknown rather than being rejected. Excel lock files ("~$...")
// report ok=false and are never processed.
func ParseCardFileName(path string) (CardFileMeta, bool) {
	name := filepath.Base(path)
	if strings.HasPrefix(name, "~$") {
		return CardFileMeta{}, false
	}

	meta := CardFileMeta{
		Path:      path,
		FileName:  name,
		Folder:    filepath.Base(filepath.Dir(path)),
		Year:      "Unknown",
		MonthCode: "Unknown",
	}

	parts := strings.Split(name, "_")
	if len(parts) >= 2 {
		meta.Year = parts[0]
		meta.MonthCode = parts[1]
	}
	return meta, true
}

// MachineFileMeta is what a machine-domain file name contributes to its
// records.
type MachineFileMeta struct {
	Path     string
	FileName string
	Folder   string
	Year     string
	Month    string // localized month name straight from the file name
}

// ParseMachineFileName derives machine file metadata from a path. Machine
// file names follow "Prefix_MonthName_Year.xlsx"; unlike the card domain,
// names that do not match are skipped entirely (ok=false), not defaulted.
func ParseMachineFileName(path string) (MachineFileMeta, bool) {
	name := filepath.Base(path)
	if strings.HasPrefix(name, "~$") {
		return MachineFileMeta{}, false
	}

	ext := filepath.Ext(name)
	if ext != ".xlsx" && ext != ".xls" {
		return MachineFileMeta{}, false
	}

	stem := strings.TrimSuffix(name, ext)
	parts := strings.Split(stem, "_")
	if len(parts) < 3 {
		return MachineFileMeta{}, false
	}

	return MachineFileMeta{
		Path:     path,
		FileName: name,
		Folder:   filepath.Base(filepath.Dir(path)),
		Month:    parts[1],
		Year:     parts[2],
	}, true
}
