package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"cardops/domain/card"
	"cardops/ports"
)

// cardRepository implements the CardRepository interface
type cardRepository struct {
	db *sqlx.DB
}

// NewCardRepository creates a new card table repository
func NewCardRepository(db *sqlx.DB) ports.CardRepository {
	return &cardRepository{db: db}
}

// Schema is the DDL for the mirrored card table.
const cardSchema = `CREATE TABLE IF NOT EXISTS card_transactions (
	id BIGSERIAL PRIMARY KEY,
	source_folder TEXT NOT NULL,
	store_internal TEXT NOT NULL,
	year TEXT NOT NULL,
	month TEXT NOT NULL,
	card_type TEXT NOT NULL,
	package TEXT NOT NULL,
	quantity DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_sales DOUBLE PRECISION NOT NULL DEFAULT 0,
	credit_in DOUBLE PRECISION NOT NULL DEFAULT 0,
	bonus_in DOUBLE PRECISION NOT NULL DEFAULT 0
)`

// EnsureCardSchema creates the mirrored card table when missing.
func EnsureCardSchema(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, cardSchema); err != nil {
		return fmt.Errorf("failed to ensure card schema: %w", err)
	}
	return nil
}

// ReplaceAll swaps the mirrored table for the given record set in one
// transaction. The merge semantics live upstream in the ingest service; the
// mirror only ever holds the latest combined table.
func (r *cardRepository) ReplaceAll(ctx context.Context, records []card.Record) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM card_transactions"); err != nil {
		return fmt.Errorf("failed to clear card table: %w", err)
	}

	query := `INSERT INTO card_transactions (
		source_folder, store_internal, year, month, card_type, package,
		quantity, total_sales, credit_in, bonus_in
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	for _, rec := range records {
		if _, err := tx.ExecContext(ctx, query,
			rec.SourceFolder, rec.StoreInternal, rec.Year, rec.Month,
			rec.CardType, rec.Package,
			rec.Quantity, rec.TotalSales, rec.CreditIn, rec.BonusIn,
		); err != nil {
			return fmt.Errorf("failed to insert card record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit card records: %w", err)
	}
	return nil
}

// List returns the mirrored card table in insertion order.
func (r *cardRepository) List(ctx context.Context) ([]card.Record, error) {
	query := `SELECT
		source_folder, store_internal, year, month, card_type, package,
		quantity, total_sales, credit_in, bonus_in
	FROM card_transactions ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list card records: %w", err)
	}
	defer rows.Close()

	var records []card.Record
	for rows.Next() {
		var rec card.Record
		if err := rows.Scan(
			&rec.SourceFolder, &rec.StoreInternal, &rec.Year, &rec.Month,
			&rec.CardType, &rec.Package,
			&rec.Quantity, &rec.TotalSales, &rec.CreditIn, &rec.BonusIn,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate card records: %w", err)
	}
	return records, nil
}
