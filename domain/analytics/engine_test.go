package analytics

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"cardops/domain/card"
	"cardops/domain/core"
	"cardops/domain/machine"
)

func cardRecord(store, month string, revenue, qty float64) card.Record {
	return card.Record{
		SourceFolder: store,
		Year:         "2024",
		Month:        month,
		CardType:     "Zone 2000",
		Package:      "Paket 50K",
		Quantity:     qty,
		TotalSales:   revenue,
	}
}

func machineRecord(store, mach, month string, activations, credit float64) machine.Record {
	return machine.Record{
		Store:       store,
		Machine:     mach,
		Category:    "Arcade",
		Year:        "2024",
		Month:       month,
		Activations: activations,
		CreditUsed:  credit,
	}
}

func TestAggregate_SumAndOrder(t *testing.T) {
	table := CardTable([]card.Record{
		cardRecord("StoreB", "Juni", 200, 2),
		cardRecord("StoreA", "Juni", 100, 1),
		cardRecord("StoreA", "Juni", 50, 1),
		cardRecord("StoreA", "Juli", 70, 1),
	})

	groups, err := Aggregate(table, []string{DimStore, DimMonthKey}, MetricRevenue)
	require.NoError(t, err)
	require.Len(t, groups, 3)

	// Deterministic sorted-key order: StoreA/2024-06, StoreA/2024-07, StoreB/2024-06.
	require.Equal(t, "StoreA", groups[0].Dims[DimStore])
	require.Equal(t, "2024-06", groups[0].Dims[DimMonthKey])
	require.Equal(t, 150.0, groups[0].Value)
	require.Equal(t, 2, groups[0].Count)
	require.Equal(t, 70.0, groups[1].Value)
	require.Equal(t, "StoreB", groups[2].Dims[DimStore])
}

func TestAggregate_UnknownNames(t *testing.T) {
	table := CardTable(nil)

	_, err := Aggregate(table, []string{"warehouse"}, MetricRevenue)
	require.True(t, errors.Is(err, core.ErrUnknownDimension))

	_, err = Aggregate(table, []string{DimStore}, "margin")
	require.True(t, errors.Is(err, core.ErrUnknownMetric))
}

func TestEfficiencyMatrix_InnerJoinDropsUnmatchedStores(t *testing.T) {
	cards := CardTable([]card.Record{
		cardRecord("StoreA", "Juni", 1000, 10),
	})
	machines := MachineTable([]machine.Record{
		machineRecord("StoreA", "MachineX", "Juni", 40, 100),
		machineRecord("StoreB", "MachineY", "Juni", 20, 50), // no card data: dropped
	})

	records := EfficiencyMatrix(cards, machines)
	require.Len(t, records, 1, "StoreB must vanish from the intersection")
	require.Equal(t, "StoreA", records[0].Store)
	require.Equal(t, "MachineX", records[0].Machine)
	require.Equal(t, 10.0, records[0].Ratio)
}

func TestEfficiencyMatrix_ZeroCreditExcluded(t *testing.T) {
	cards := CardTable([]card.Record{
		cardRecord("StoreA", "Juni", 1000, 10),
	})
	machines := MachineTable([]machine.Record{
		machineRecord("StoreA", "MachineX", "Juni", 40, 100),
		machineRecord("StoreA", "MachineZ", "Juni", 5, 0), // undefined ratio
	})

	records := EfficiencyMatrix(cards, machines)
	require.Len(t, records, 1)
	require.Equal(t, "MachineX", records[0].Machine)
}

func TestEfficiencyMatrix_QuantileClassification(t *testing.T) {
	// Ten machines in one store with ratios 1..10: thresholds q33=3.97 and
	// q67=7.03 put 1-3 LOW, 4-7 NORMAL, 8-10 HIGH.
	var cards []card.Record
	var machines []machine.Record
	cards = append(cards, cardRecord("StoreA", "Juni", 100, 1))
	for i := 1; i <= 10; i++ {
		machines = append(machines, machineRecord("StoreA", machineName(i), "Juni", 1, 100/float64(i)))
	}

	records := EfficiencyMatrix(CardTable(cards), MachineTable(machines))
	require.Len(t, records, 10)

	byStatus := map[EfficiencyStatus]int{}
	for _, r := range records {
		byStatus[r.Status]++
		switch {
		case r.Ratio <= 3.97:
			require.Equal(t, StatusLow, r.Status, "ratio %v", r.Ratio)
		case r.Ratio >= 7.03:
			require.Equal(t, StatusHigh, r.Status, "ratio %v", r.Ratio)
		default:
			require.Equal(t, StatusNormal, r.Status, "ratio %v", r.Ratio)
		}
	}
	require.Equal(t, 3, byStatus[StatusLow])
	require.Equal(t, 4, byStatus[StatusNormal])
	require.Equal(t, 3, byStatus[StatusHigh])
}

func machineName(i int) string {
	return string(rune('A'+i-1)) + "-machine"
}

func TestEfficiencyMatrix_EmptyIntersection(t *testing.T) {
	cards := CardTable([]card.Record{cardRecord("StoreA", "Juni", 100, 1)})
	machines := MachineTable([]machine.Record{machineRecord("StoreB", "M", "Juli", 1, 10)})

	records := EfficiencyMatrix(cards, machines)
	require.Empty(t, records)
}

func TestCorrelate_PerfectLinear(t *testing.T) {
	months := []string{"Januari", "Februari", "Maret", "April", "Mei", "Juni"}
	var cards []card.Record
	var machines []machine.Record
	for i, m := range months {
		activations := float64((i + 1) * 10)
		cards = append(cards, cardRecord("StoreA", m, 3*activations, 1))
		machines = append(machines, machineRecord("StoreA", "MachineX", m, activations, 50))
	}

	result, err := Correlate(CardTable(cards), MachineTable(machines), MetricActivations)
	require.NoError(t, err)
	require.True(t, result.Valid)
	require.Equal(t, 6, result.N)
	require.InDelta(t, 1.0, result.R, 1e-9)
}

func TestCorrelate_TooFewPairs(t *testing.T) {
	cards := CardTable([]card.Record{cardRecord("StoreA", "Juni", 100, 1)})
	machines := MachineTable([]machine.Record{machineRecord("StoreA", "M", "Juni", 10, 5)})

	result, err := Correlate(cards, machines, MetricActivations)
	require.NoError(t, err)
	require.False(t, result.Valid)
	require.Equal(t, 1, result.N)
}

func TestCorrelate_ZeroVariance(t *testing.T) {
	var cards []card.Record
	var machines []machine.Record
	for _, m := range []string{"Juni", "Juli", "Agustus"} {
		cards = append(cards, cardRecord("StoreA", m, 500, 1)) // constant revenue
		machines = append(machines, machineRecord("StoreA", "M", m, 10, 5))
	}

	result, err := Correlate(CardTable(cards), MachineTable(machines), MetricCreditUsed)
	require.NoError(t, err)
	require.False(t, result.Valid, "zero variance must mark the result invalid")
}

func TestCorrelate_UnknownMetric(t *testing.T) {
	_, err := Correlate(CardTable(nil), MachineTable(nil), "uptime")
	require.True(t, errors.Is(err, core.ErrUnknownMetric))
}

func TestFilter_MonthRangeAndDims(t *testing.T) {
	table := CardTable([]card.Record{
		cardRecord("StoreA", "Mei", 10, 1),
		cardRecord("StoreA", "Juni", 20, 1),
		cardRecord("StoreB", "Juni", 30, 1),
		cardRecord("StoreA", "Juli", 40, 1),
	})

	filtered := Filter{
		Stores:    []string{"StoreA"},
		FromMonth: "2024-06",
		ToMonth:   "2024-07",
	}.Apply(table)

	require.Len(t, filtered.Rows, 2)
	total := 0.0
	for _, r := range filtered.Rows {
		total += r.Metrics[MetricRevenue]
	}
	require.Equal(t, 60.0, total)
}

func TestFilter_IgnoresDimensionsTheTableLacks(t *testing.T) {
	machines := MachineTable([]machine.Record{
		machineRecord("StoreA", "MachineX", "Juni", 40, 100),
		machineRecord("StoreB", "MachineY", "Juni", 20, 50),
	})

	// Card-type and package selections must not empty a machine table.
	filtered := Filter{CardTypes: []string{"Zone 2000"}, Packages: []string{"Paket 50K"}}.Apply(machines)
	require.Len(t, filtered.Rows, 2)

	cards := CardTable([]card.Record{cardRecord("StoreA", "Juni", 100, 1)})
	filtered = Filter{Categories: []string{"Arcade"}, Machines: []string{"MachineX"}}.Apply(cards)
	require.Len(t, filtered.Rows, 1)

	// Shared dimensions still narrow both tables.
	filtered = Filter{Stores: []string{"StoreB"}}.Apply(machines)
	require.Len(t, filtered.Rows, 1)
	require.Equal(t, "MachineY", filtered.Rows[0].Dims[DimMachine])
}

func TestSummarize(t *testing.T) {
	table := CardTable([]card.Record{
		cardRecord("StoreA", "Juni", 1000, 4),
		cardRecord("StoreB", "Juni", 500, 1),
	})

	s := Summarize(table)
	require.Equal(t, 1500.0, s.TotalRevenue)
	require.Equal(t, 5.0, s.TotalTransactions)
	require.Equal(t, 300.0, s.AverageTicket)
	require.Equal(t, 2, s.ActiveStores)
}
