package analytics

import (
	"cardops/domain/card"
	"cardops/domain/core"
	"cardops/domain/machine"
)

// Dimension and metric names exposed to the dashboard query surface.
const (
	DimStore         = "store"
	DimStoreInternal = "store_internal"
	DimCardType      = "card_type"
	DimPackage       = "package"
	DimMachine       = "machine"
	DimCategory      = "category"
	DimYear          = "year"
	DimMonth         = "month"
	DimMonthKey      = "month_key"

	MetricRevenue     = "revenue"
	MetricQuantity    = "quantity"
	MetricCreditIn    = "credit_in"
	MetricBonusIn     = "bonus_in"
	MetricActivations = "activations"
	MetricCreditUsed  = "credit_used"
)

// Row is one record flattened to named dimensions and metrics. The query
// layer is stateless; rows are rebuilt from the merged tables and every
// aggregate is recomputed per request.
type Row struct {
	Dims    map[string]string
	Metrics map[string]float64
}

// Table is an in-memory record set with its schema. Aggregation validates
// requested names against the schema so unknown metrics fail fast instead of
// summing silent zeros.
type Table struct {
	DimNames    []string
	MetricNames []string
	Rows        []Row
}

func (t Table) HasDim(name string) bool {
	for _, d := range t.DimNames {
		if d == name {
			return true
		}
	}
	return false
}

func (t Table) HasMetric(name string) bool {
	for _, m := range t.MetricNames {
		if m == name {
			return true
		}
	}
	return false
}

// CardTable flattens normalized card records for querying.
func CardTable(records []card.Record) Table {
	t := Table{
		DimNames:    []string{DimStore, DimStoreInternal, DimCardType, DimPackage, DimYear, DimMonth, DimMonthKey},
		MetricNames: []string{MetricRevenue, MetricQuantity, MetricCreditIn, MetricBonusIn},
		Rows:        make([]Row, 0, len(records)),
	}
	for _, r := range records {
		t.Rows = append(t.Rows, Row{
			Dims: map[string]string{
				DimStore:         r.SourceFolder,
				DimStoreInternal: r.StoreInternal,
				DimCardType:      r.CardType,
				DimPackage:       r.Package,
				DimYear:          r.Year,
				DimMonth:         r.Month,
				DimMonthKey:      core.MonthKey(r.Year, r.Month),
			},
			Metrics: map[string]float64{
				MetricRevenue:  r.TotalSales,
				MetricQuantity: r.Quantity,
				MetricCreditIn: r.CreditIn,
				MetricBonusIn:  r.BonusIn,
			},
		})
	}
	return t
}

// MachineTable flattens normalized machine records for querying.
func MachineTable(records []machine.Record) Table {
	t := Table{
		DimNames:    []string{DimStore, DimMachine, DimCategory, DimYear, DimMonth, DimMonthKey},
		MetricNames: []string{MetricActivations, MetricCreditUsed},
		Rows:        make([]Row, 0, len(records)),
	}
	for _, r := range records {
		t.Rows = append(t.Rows, Row{
			Dims: map[string]string{
				DimStore:    r.Store,
				DimMachine:  r.Machine,
				DimCategory: r.Category,
				DimYear:     r.Year,
				DimMonth:    r.Month,
				DimMonthKey: core.MonthKey(r.Year, r.Month),
			},
			Metrics: map[string]float64{
				MetricActivations: r.Activations,
				MetricCreditUsed:  r.CreditUsed,
			},
		})
	}
	return t
}

// Filter narrows a table before aggregation. Empty slices mean "all"; the
// month-key bounds are inclusive and compare lexicographically ("2024-06").
type Filter struct {
	Stores     []string
	CardTypes  []string
	Categories []string
	Machines   []string
	Packages   []string
	FromMonth  string
	ToMonth    string
}

// Apply returns a table containing only rows that pass the filter.
// Selections on dimensions the table does not carry are ignored, so one
// filter can scope both domains: a card-type selection narrows the card
// table and leaves the machine table whole, and vice versa for categories
// and machines. Rows without a resolvable month key drop out whenever a
// month bound is set.
func (f Filter) Apply(t Table) Table {
	selections := []struct {
		dim    string
		values []string
	}{
		{DimStore, f.Stores},
		{DimCardType, f.CardTypes},
		{DimCategory, f.Categories},
		{DimMachine, f.Machines},
		{DimPackage, f.Packages},
	}

	out := Table{DimNames: t.DimNames, MetricNames: t.MetricNames}
	for _, row := range t.Rows {
		keep := true
		for _, sel := range selections {
			if len(sel.values) == 0 || !t.HasDim(sel.dim) {
				continue
			}
			if !matches(row.Dims[sel.dim], sel.values) {
				keep = false
				break
			}
		}
		if !keep {
			continue
		}
		if f.FromMonth != "" || f.ToMonth != "" {
			key := row.Dims[DimMonthKey]
			if key == "" {
				continue
			}
			if f.FromMonth != "" && key < f.FromMonth {
				continue
			}
			if f.ToMonth != "" && key > f.ToMonth {
				continue
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func matches(value string, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, s := range selected {
		if s == value {
			return true
		}
	}
	return false
}
