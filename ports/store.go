package ports

import (
	"context"

	"cardops/domain/card"
	"cardops/domain/machine"
)

// CardTableStore persists and reloads the combined card table. The same
// store backs incremental runs: signatures are derived from whatever it
// reads back.
type CardTableStore interface {
	Read(path string) ([]card.Record, error)
	Write(path string, records []card.Record) error
}

// MachineTableStore persists and reloads the combined machine table.
type MachineTableStore interface {
	Read(path string) ([]machine.Record, error)
	Write(path string, records []machine.Record) error
}

// CardRepository mirrors the merged card table into a database for the
// dashboard query surface.
type CardRepository interface {
	ReplaceAll(ctx context.Context, records []card.Record) error
	List(ctx context.Context) ([]card.Record, error)
}

// MachineRepository mirrors the merged machine table.
type MachineRepository interface {
	ReplaceAll(ctx context.Context, records []machine.Record) error
	List(ctx context.Context) ([]machine.Record, error)
}
