package app

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	apperrors "cardops/internal/errors"

	"cardops/domain/card"
	"cardops/domain/dataset"
	"cardops/domain/machine"
	"cardops/internal/logging"
	"cardops/ports"
)

// IngestService runs the batch extraction pipeline for both domains:
// discovery, signature-based skip, bounded parallel extraction, append-only
// merge, and a single write of the combined table. Failures are isolated at
// file granularity; no single file aborts a run.
type IngestService struct {
	cardExtractor    ports.CardExtractor
	machineExtractor ports.MachineExtractor
	cardStore        ports.CardTableStore
	machineStore     ports.MachineTableStore
	log              *logging.Logger
	workers          int
}

// NewIngestService wires the pipeline. workers bounds concurrent file
// extraction; extraction is independent per file and the final order is made
// deterministic by sorting on file path.
func NewIngestService(
	cardExtractor ports.CardExtractor,
	machineExtractor ports.MachineExtractor,
	cardStore ports.CardTableStore,
	machineStore ports.MachineTableStore,
	log *logging.Logger,
	workers int,
) *IngestService {
	if workers < 1 {
		workers = 1
	}
	return &IngestService{
		cardExtractor:    cardExtractor,
		machineExtractor: machineExtractor,
		cardStore:        cardStore,
		machineStore:     machineStore,
		log:              log,
		workers:          workers,
	}
}

// Report summarizes one ingest run.
type Report struct {
	RunID          string `json:"run_id"`
	Domain         string `json:"domain"`
	FilesFound     int    `json:"files_found"`
	FilesSkipped   int    `json:"files_skipped"`
	FilesProcessed int    `json:"files_processed"`
	FilesFailed    int    `json:"files_failed"`
	RowsAppended   int    `json:"rows_appended"`
	RowsTotal      int    `json:"rows_total"`
	Wrote          bool   `json:"wrote"`
	BackupPath     string `json:"backup_path,omitempty"`
}

// RunCard executes an incremental card-domain load: files whose signature
// is already present in the historical output are skipped whole; new files
// are extracted and appended. The output is rewritten only when new records
// exist, so re-running over unchanged inputs leaves it untouched.
func (s *IngestService) RunCard(ctx context.Context, sourceDir, outputPath string) (Report, error) {
	report := Report{RunID: uuid.NewString(), Domain: "card"}

	history := s.loadCardHistory(outputPath)
	signatures := cardSignatures(history)

	files, err := discoverWorkbooks(sourceDir, true)
	if err != nil {
		return report, apperrors.IngestFailed(err, "card source discovery failed")
	}

	var candidates []dataset.CardFileMeta
	for _, path := range files {
		meta, ok := dataset.ParseCardFileName(path)
		if !ok {
			continue
		}
		report.FilesFound++
		if !signatures.ShouldProcess(meta.Signature()) {
			report.FilesSkipped++
			continue
		}
		candidates = append(candidates, meta)
	}

	newRecords := s.extractCards(ctx, candidates, &report)
	report.RowsAppended = len(newRecords)

	merged := mergeCards(history, newRecords)
	report.RowsTotal = len(merged)

	if len(newRecords) == 0 {
		s.log.Info("card ingest: no new files (found=%d skipped=%d)", report.FilesFound, report.FilesSkipped)
		return report, nil
	}

	if err := s.writeCards(outputPath, merged, &report); err != nil {
		return report, err
	}
	s.log.Info("card ingest: processed=%d skipped=%d rows=%d", report.FilesProcessed, report.FilesSkipped, report.RowsTotal)
	return report, nil
}

// RunMachine executes a full machine-domain merge. The machine table is
// rebuilt from scratch on every run; only file names that match the strict
// "Prefix_MonthName_Year" pattern contribute.
func (s *IngestService) RunMachine(ctx context.Context, sourceDir, outputPath string) (Report, error) {
	report := Report{RunID: uuid.NewString(), Domain: "machine"}

	files, err := discoverWorkbooks(sourceDir, false)
	if err != nil {
		return report, apperrors.IngestFailed(err, "machine source discovery failed")
	}

	var candidates []dataset.MachineFileMeta
	for _, path := range files {
		meta, ok := dataset.ParseMachineFileName(path)
		if !ok {
			report.FilesSkipped++
			continue
		}
		report.FilesFound++
		candidates = append(candidates, meta)
	}

	records := s.extractMachines(ctx, candidates, &report)
	report.RowsAppended = len(records)
	report.RowsTotal = len(records)

	if len(records) == 0 {
		s.log.Warn("machine ingest: no usable files in %s", sourceDir)
		return report, nil
	}

	if err := s.writeMachines(outputPath, records, &report); err != nil {
		return report, err
	}
	s.log.Info("machine ingest: processed=%d rows=%d", report.FilesProcessed, report.RowsTotal)
	return report, nil
}

// loadCardHistory reads the prior combined table. Missing or corrupt
// history downgrades to a fresh full load, never a failure; only genuine
// corruption warrants a warning.
func (s *IngestService) loadCardHistory(outputPath string) []card.Record {
	history, err := s.cardStore.Read(outputPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("could not read existing table %s: %v (starting fresh)", outputPath, err)
		}
		return nil
	}
	return history
}

func (s *IngestService) extractCards(ctx context.Context, candidates []dataset.CardFileMeta, report *Report) []card.Record {
	type result struct {
		path    string
		records []card.Record
	}

	var mu sync.Mutex
	var results []result

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, meta := range candidates {
		meta := meta
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return nil
			}
			records, err := s.cardExtractor.Extract(meta)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.FilesFailed++
				s.log.Warn("skipping unreadable file %s: %v", meta.FileName, err)
				return nil
			}
			report.FilesProcessed++
			results = append(results, result{path: meta.Path, records: records})
			return nil
		})
	}
	// Workers never return errors; failures are counted per file above.
	_ = g.Wait()

	// Concatenation order must not depend on parallel completion order.
	sort.Slice(results, func(i, j int) bool { return results[i].path < results[j].path })

	var records []card.Record
	for _, r := range results {
		records = append(records, r.records...)
	}
	return records
}

func (s *IngestService) extractMachines(ctx context.Context, candidates []dataset.MachineFileMeta, report *Report) []machine.Record {
	type result struct {
		path    string
		records []machine.Record
	}

	var mu sync.Mutex
	var results []result

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, meta := range candidates {
		meta := meta
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return nil
			}
			records, err := s.machineExtractor.Extract(meta)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.FilesFailed++
				s.log.Warn("skipping unreadable file %s: %v", meta.FileName, err)
				return nil
			}
			report.FilesProcessed++
			results = append(results, result{path: meta.Path, records: records})
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].path < results[j].path })

	var records []machine.Record
	for _, r := range results {
		records = append(records, r.records...)
	}
	return records
}

// writeCards persists the combined table, falling back to a backup path
// when the primary write fails (commonly the file being open in Excel). The
// run still counts as successful when the backup lands.
func (s *IngestService) writeCards(path string, records []card.Record, report *Report) error {
	if err := s.cardStore.Write(path, records); err != nil {
		backup := backupPath(path)
		s.log.Error("failed to save %s: %v (writing backup %s)", path, err, backup)
		if backupErr := s.cardStore.Write(backup, records); backupErr != nil {
			return apperrors.IngestFailed(backupErr, "backup write failed")
		}
		report.Wrote = true
		report.BackupPath = backup
		return nil
	}
	report.Wrote = true
	return nil
}

func (s *IngestService) writeMachines(path string, records []machine.Record, report *Report) error {
	if err := s.machineStore.Write(path, records); err != nil {
		backup := backupPath(path)
		s.log.Error("failed to save %s: %v (writing backup %s)", path, err, backup)
		if backupErr := s.machineStore.Write(backup, records); backupErr != nil {
			return apperrors.IngestFailed(backupErr, "backup write failed")
		}
		report.Wrote = true
		report.BackupPath = backup
		return nil
	}
	report.Wrote = true
	return nil
}

// mergeCards appends new records to history and drops rows that are blank
// across all tracked columns. Append-only: no row-level upsert or conflict
// resolution.
func mergeCards(history, fresh []card.Record) []card.Record {
	merged := make([]card.Record, 0, len(history)+len(fresh))
	for _, r := range history {
		if !r.IsEmpty() {
			merged = append(merged, r)
		}
	}
	for _, r := range fresh {
		if !r.IsEmpty() {
			merged = append(merged, r)
		}
	}
	return merged
}

// cardSignatures derives the incremental-load signature set from the
// persisted table. Months in the table already carry localized names, the
// same normalization candidate files go through.
func cardSignatures(records []card.Record) dataset.SignatureSet {
	set := dataset.SignatureSet{}
	for _, r := range records {
		set.Add(dataset.NewSignature(r.SourceFolder, r.Year, r.Month))
	}
	return set
}

// discoverWorkbooks lists Excel files under root, recursively for the card
// tree and flat for the machine directory.
func discoverWorkbooks(root string, recursive bool) ([]string, error) {
	var files []string
	if recursive {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isWorkbook(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() && isWorkbook(e.Name()) {
				files = append(files, filepath.Join(root, e.Name()))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}

func isWorkbook(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".xlsx" || ext == ".xls"
}

// backupPath prefixes the file name with BACKUP_ in the same directory.
func backupPath(path string) string {
	return filepath.Join(filepath.Dir(path), "BACKUP_"+filepath.Base(path))
}
