package ports

import (
	"cardops/domain/card"
	"cardops/domain/dataset"
	"cardops/domain/machine"
)

// CardExtractor turns one card-domain source file into normalized records.
// An unopenable or unparsable file returns an error; the caller logs a
// warning, contributes zero records, and the batch continues.
type CardExtractor interface {
	Extract(meta dataset.CardFileMeta) ([]card.Record, error)
}

// MachineExtractor turns one machine-domain source file into normalized
// records (straight pass-through merge, no row classification).
type MachineExtractor interface {
	Extract(meta dataset.MachineFileMeta) ([]machine.Record, error)
}
