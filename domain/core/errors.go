package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrNoHistory signals a missing or unreadable historical table. Callers
	// treat it as "fresh full load", never as a fatal condition.
	ErrNoHistory = errors.New("no historical table available")

	// ErrNotComputable marks aggregation results that are defined but carry
	// no value (empty join intersection, zero variance). The dashboard must
	// render a neutral state, not crash.
	ErrNotComputable = errors.New("result not computable")

	ErrUnknownMetric    = errors.New("unknown metric column")
	ErrUnknownDimension = errors.New("unknown grouping dimension")
	ErrInsufficientData = errors.New("insufficient data for analysis")
)

func NewUnknownMetricError(metric string) error {
	return fmt.Errorf("%w: %s", ErrUnknownMetric, metric)
}

func NewUnknownDimensionError(dim string) error {
	return fmt.Errorf("%w: %s", ErrUnknownDimension, dim)
}

// IsNotComputable reports whether err marks a defined-but-empty result.
func IsNotComputable(err error) bool {
	return errors.Is(err, ErrNotComputable)
}
