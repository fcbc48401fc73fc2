package analytics

import "github.com/montanaflynn/stats"

// SummaryResult carries the dashboard headline metrics for the current card
// filter scope.
type SummaryResult struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalTransactions float64 `json:"total_transactions"`
	AverageTicket     float64 `json:"average_ticket"`
	ActiveStores      int     `json:"active_stores"`
}

// Summarize computes headline totals over a filtered card table.
func Summarize(cards Table) SummaryResult {
	revenues := make([]float64, 0, len(cards.Rows))
	quantities := make([]float64, 0, len(cards.Rows))
	storeSet := make(map[string]struct{})
	for _, row := range cards.Rows {
		revenues = append(revenues, row.Metrics[MetricRevenue])
		quantities = append(quantities, row.Metrics[MetricQuantity])
		if s := row.Dims[DimStore]; s != "" {
			storeSet[s] = struct{}{}
		}
	}

	totalRevenue, _ := stats.Sum(revenues)
	totalQty, _ := stats.Sum(quantities)

	result := SummaryResult{
		TotalRevenue:      totalRevenue,
		TotalTransactions: totalQty,
		ActiveStores:      len(storeSet),
	}
	if totalQty > 0 {
		result.AverageTicket = totalRevenue / totalQty
	}
	return result
}
