package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"cardops/domain/machine"
	"cardops/ports"
)

// machineRepository implements the MachineRepository interface
type machineRepository struct {
	db *sqlx.DB
}

// NewMachineRepository creates a new machine table repository
func NewMachineRepository(db *sqlx.DB) ports.MachineRepository {
	return &machineRepository{db: db}
}

const machineSchema = `CREATE TABLE IF NOT EXISTS machine_readings (
	id BIGSERIAL PRIMARY KEY,
	source_file TEXT NOT NULL,
	source_folder TEXT NOT NULL,
	year TEXT NOT NULL,
	month TEXT NOT NULL,
	store TEXT NOT NULL,
	machine TEXT NOT NULL,
	category TEXT NOT NULL,
	activations DOUBLE PRECISION NOT NULL DEFAULT 0,
	credit_used DOUBLE PRECISION NOT NULL DEFAULT 0,
	extra JSONB
)`

// EnsureMachineSchema creates the mirrored machine table when missing.
func EnsureMachineSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, machineSchema); err != nil {
		return fmt.Errorf("failed to ensure machine schema: %w", err)
	}
	return nil
}

// ReplaceAll swaps the mirrored table for the given record set in one
// transaction. Pass-through columns ride along as JSON.
func (r *machineRepository) ReplaceAll(ctx context.Context, records []machine.Record) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM machine_readings"); err != nil {
		return fmt.Errorf("failed to clear machine table: %w", err)
	}

	query := `INSERT INTO machine_readings (
		source_file, source_folder, year, month, store, machine, category,
		activations, credit_used, extra
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	for _, rec := range records {
		extraJSON, err := json.Marshal(rec.Extra)
		if err != nil {
			return fmt.Errorf("failed to marshal extra columns: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query,
			rec.SourceFile, rec.SourceFolder, rec.Year, rec.Month,
			rec.Store, rec.Machine, rec.Category,
			rec.Activations, rec.CreditUsed, extraJSON,
		); err != nil {
			return fmt.Errorf("failed to insert machine record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit machine records: %w", err)
	}
	return nil
}

// List returns the mirrored machine table in insertion order.
func (r *machineRepository) List(ctx context.Context) ([]machine.Record, error) {
	query := `SELECT
		source_file, source_folder, year, month, store, machine, category,
		activations, credit_used, COALESCE(extra, '{}'::jsonb)
	FROM machine_readings ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list machine records: %w", err)
	}
	defer rows.Close()

	var records []machine.Record
	for rows.Next() {
		var rec machine.Record
		var extraJSON []byte
		if err := rows.Scan(
			&rec.SourceFile, &rec.SourceFolder, &rec.Year, &rec.Month,
			&rec.Store, &rec.Machine, &rec.Category,
			&rec.Activations, &rec.CreditUsed, &extraJSON,
		); err != nil {
			return nil, fmt.Errorf("failed to scan machine record: %w", err)
		}
		if len(extraJSON) > 0 {
			if err := json.Unmarshal(extraJSON, &rec.Extra); err != nil {
				return nil, fmt.Errorf("failed to unmarshal extra columns: %w", err)
			}
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate machine records: %w", err)
	}
	return records, nil
}
