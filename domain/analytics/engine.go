package analytics

import (
	"sort"
	"strings"

	"cardops/domain/core"
)

// keySep joins composite group keys; unit separator keeps dimension values
// containing underscores or dashes from colliding.
const keySep = "\x1f"

// Group is one aggregated output row: the grouping-dimension values and the
// summed metric.
type Group struct {
	Dims  map[string]string `json:"dims"`
	Value float64           `json:"value"`
	Count int               `json:"count"`
}

// Aggregate groups rows by the ordered dimension list and sums the metric.
// Output order is deterministic (sorted composite key) regardless of input
// order. Unknown names return core.ErrUnknownDimension / ErrUnknownMetric.
func Aggregate(t Table, groupBy []string, metric string) ([]Group, error) {
	for _, dim := range groupBy {
		if !t.HasDim(dim) {
			return nil, core.NewUnknownDimensionError(dim)
		}
	}
	if !t.HasMetric(metric) {
		return nil, core.NewUnknownMetricError(metric)
	}

	groups := make(map[string]*Group)
	for _, row := range t.Rows {
		parts := make([]string, len(groupBy))
		for i, dim := range groupBy {
			parts[i] = row.Dims[dim]
		}
		key := strings.Join(parts, keySep)

		g, ok := groups[key]
		if !ok {
			dims := make(map[string]string, len(groupBy))
			for _, dim := range groupBy {
				dims[dim] = row.Dims[dim]
			}
			g = &Group{Dims: dims}
			groups[key] = g
		}
		g.Value += row.Metrics[metric]
		g.Count++
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Group, 0, len(groups))
	for _, k := range keys {
		out = append(out, *groups[k])
	}
	return out, nil
}

// joinedRow is one machine aggregate matched with the card revenue of the
// same (store, month). Produced by an inner join: store-months present in
// only one domain are intentionally dropped, so stores absent from the
// intersection vanish from efficiency and correlation views.
type joinedRow struct {
	Store       string
	Machine     string
	MonthKey    string
	Revenue     float64
	Activations float64
	CreditUsed  float64
}

// joinStoreMonth builds the cross-domain inner join: card revenue per
// (store, month) against machine usage per (store, machine, month).
func joinStoreMonth(cards, machines Table) []joinedRow {
	revenue := make(map[string]float64)
	revGroups, err := Aggregate(cards, []string{DimStore, DimMonthKey}, MetricRevenue)
	if err != nil {
		return nil
	}
	for _, g := range revGroups {
		if g.Dims[DimMonthKey] == "" {
			continue
		}
		revenue[g.Dims[DimStore]+keySep+g.Dims[DimMonthKey]] = g.Value
	}

	type usage struct {
		activations float64
		creditUsed  float64
	}
	machineUsage := make(map[string]*usage)
	for _, row := range machines.Rows {
		monthKey := row.Dims[DimMonthKey]
		if monthKey == "" {
			continue
		}
		key := row.Dims[DimStore] + keySep + row.Dims[DimMachine] + keySep + monthKey
		u, ok := machineUsage[key]
		if !ok {
			u = &usage{}
			machineUsage[key] = u
		}
		u.activations += row.Metrics[MetricActivations]
		u.creditUsed += row.Metrics[MetricCreditUsed]
	}

	keys := make([]string, 0, len(machineUsage))
	for k := range machineUsage {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var joined []joinedRow
	for _, k := range keys {
		parts := strings.SplitN(k, keySep, 3)
		store, mach, monthKey := parts[0], parts[1], parts[2]
		rev, ok := revenue[store+keySep+monthKey]
		if !ok {
			continue // inner join: no card revenue for this store-month
		}
		u := machineUsage[k]
		joined = append(joined, joinedRow{
			Store:       store,
			Machine:     mach,
			MonthKey:    monthKey,
			Revenue:     rev,
			Activations: u.activations,
			CreditUsed:  u.creditUsed,
		})
	}
	return joined
}

// EfficiencyStatus is the quantile-based 3-way bucket of an efficiency ratio.
type EfficiencyStatus string

const (
	StatusHigh   EfficiencyStatus = "HIGH"
	StatusNormal EfficiencyStatus = "NORMAL"
	StatusLow    EfficiencyStatus = "LOW"
)

// EfficiencyRecord relates a machine's credit usage to its store's card
// revenue over the joined store-months.
type EfficiencyRecord struct {
	Store       string           `json:"store"`
	Machine     string           `json:"machine"`
	CreditUsed  float64          `json:"credit_used"`
	Revenue     float64          `json:"revenue"`
	Activations float64          `json:"activations"`
	Ratio       float64          `json:"ratio"`
	Status      EfficiencyStatus `json:"status"`
}

// EfficiencyMatrix computes ratio = revenue / credit_used per (store,
// machine) over the inner-joined store-months and classifies each ratio
// against the 33rd/67th percentile of the current scope. Thresholds are
// recomputed per call, so identical ratios can classify differently under
// different filters. Groups with zero credit usage are excluded before the
// ratio, not clamped. An empty intersection yields an empty slice.
func EfficiencyMatrix(cards, machines Table) []EfficiencyRecord {
	joined := joinStoreMonth(cards, machines)

	type acc struct {
		credit, revenue, activations float64
	}
	byMachine := make(map[string]*acc)
	for _, j := range joined {
		key := j.Store + keySep + j.Machine
		a, ok := byMachine[key]
		if !ok {
			a = &acc{}
			byMachine[key] = a
		}
		a.credit += j.CreditUsed
		a.revenue += j.Revenue
		a.activations += j.Activations
	}

	keys := make([]string, 0, len(byMachine))
	for k := range byMachine {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	records := make([]EfficiencyRecord, 0, len(byMachine))
	ratios := make([]float64, 0, len(byMachine))
	for _, k := range keys {
		a := byMachine[k]
		if a.credit == 0 {
			continue // ratio undefined, row excluded
		}
		parts := strings.SplitN(k, keySep, 2)
		rec := EfficiencyRecord{
			Store:       parts[0],
			Machine:     parts[1],
			CreditUsed:  a.credit,
			Revenue:     a.revenue,
			Activations: a.activations,
			Ratio:       a.revenue / a.credit,
		}
		records = append(records, rec)
		ratios = append(ratios, rec.Ratio)
	}

	if len(records) == 0 {
		return records
	}

	q33 := Quantile(ratios, 0.33)
	q67 := Quantile(ratios, 0.67)
	for i := range records {
		switch {
		case records[i].Ratio <= q33:
			records[i].Status = StatusLow
		case records[i].Ratio >= q67:
			records[i].Status = StatusHigh
		default:
			records[i].Status = StatusNormal
		}
	}
	return records
}
