package analytics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"cardops/domain/core"
)

// CorrelationResult is the sample Pearson correlation between a machine
// metric and card revenue over the inner-joined (store, month) aggregates.
// Valid is false when fewer than 2 paired observations exist or either
// series has zero variance; the dashboard renders a neutral state instead of
// crashing.
type CorrelationResult struct {
	R     float64 `json:"r"`
	N     int     `json:"n"`
	Valid bool    `json:"valid"`
}

// Correlate pairs the chosen machine metric with card revenue per joined
// (store, month) and computes Pearson r.
func Correlate(cards, machines Table, machineMetric string) (CorrelationResult, error) {
	if !machines.HasMetric(machineMetric) {
		return CorrelationResult{}, core.NewUnknownMetricError(machineMetric)
	}

	joined := joinStoreMonth(cards, machines)

	type pair struct{ x, y float64 }
	byStoreMonth := make(map[string]*pair)
	var order []string
	for _, j := range joined {
		key := j.Store + keySep + j.MonthKey
		p, ok := byStoreMonth[key]
		if !ok {
			p = &pair{y: j.Revenue}
			byStoreMonth[key] = p
			order = append(order, key)
		}
		// Revenue is already the (store, month) aggregate; machine rows for
		// the same store-month repeat it, so only the metric accumulates.
		switch machineMetric {
		case MetricActivations:
			p.x += j.Activations
		case MetricCreditUsed:
			p.x += j.CreditUsed
		}
	}

	xs := make([]float64, 0, len(order))
	ys := make([]float64, 0, len(order))
	for _, key := range order {
		xs = append(xs, byStoreMonth[key].x)
		ys = append(ys, byStoreMonth[key].y)
	}

	result := CorrelationResult{N: len(xs)}
	if len(xs) < 2 {
		return result, nil
	}

	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return result, nil // zero variance: defined but marked invalid
	}

	result.R = r
	result.Valid = true
	return result, nil
}
