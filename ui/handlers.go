package ui

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"cardops/domain/analytics"
	"cardops/domain/core"
	"cardops/internal/format"
)

func (a *App) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		a.log.Error("failed to encode response: %v", err)
	}
}

func (a *App) writeError(w http.ResponseWriter, status int, err error) {
	a.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// statusFor maps domain errors to HTTP codes: schema misuse is the caller's
// fault, everything else is ours.
func statusFor(err error) int {
	if errors.Is(err, core.ErrUnknownMetric) || errors.Is(err, core.ErrUnknownDimension) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// filterFromQuery builds the table filter shared by every endpoint. List
// parameters are comma-separated; month bounds use the "2006-01" key form.
func filterFromQuery(r *http.Request) analytics.Filter {
	q := r.URL.Query()
	return analytics.Filter{
		Stores:     splitList(q.Get("stores")),
		CardTypes:  splitList(q.Get("types")),
		Categories: splitList(q.Get("categories")),
		Machines:   splitList(q.Get("machines")),
		Packages:   splitList(q.Get("packages")),
		FromMonth:  q.Get("from"),
		ToMonth:    q.Get("to"),
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":       "ok",
		"card_rows":    len(a.cards.Rows),
		"machine_rows": len(a.machines.Rows),
	})
}

// handleCardSummary returns the headline totals for the filtered card scope,
// with display-ready Rupiah strings alongside the raw values.
func (a *App) handleCardSummary(w http.ResponseWriter, r *http.Request) {
	scope := filterFromQuery(r).Apply(a.cards)
	summary := analytics.Summarize(scope)

	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_revenue":          summary.TotalRevenue,
		"total_revenue_display":  format.Rupiah(summary.TotalRevenue),
		"total_revenue_compact":  format.Compact(summary.TotalRevenue),
		"total_transactions":     summary.TotalTransactions,
		"average_ticket":         summary.AverageTicket,
		"average_ticket_display": format.Rupiah(summary.AverageTicket),
		"active_stores":          summary.ActiveStores,
	})
}

func (a *App) handleCardTrend(w http.ResponseWriter, r *http.Request) {
	a.handleTrend(w, r, a.cards, analytics.MetricRevenue)
}

func (a *App) handleMachineTrend(w http.ResponseWriter, r *http.Request) {
	a.handleTrend(w, r, a.machines, analytics.MetricCreditUsed)
}

// handleTrend aggregates the filtered table by the requested dimensions
// (month by default) and metric. Unknown names are rejected up front rather
// than summing silent zeros.
func (a *App) handleTrend(w http.ResponseWriter, r *http.Request, t analytics.Table, defaultMetric string) {
	q := r.URL.Query()

	metric := q.Get("metric")
	if metric == "" {
		metric = defaultMetric
	}
	groupBy := splitList(q.Get("group_by"))
	if len(groupBy) == 0 {
		groupBy = []string{analytics.DimMonthKey}
	}

	scope := filterFromQuery(r).Apply(t)
	groups, err := analytics.Aggregate(scope, groupBy, metric)
	if err != nil {
		a.writeError(w, statusFor(err), err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"metric":   metric,
		"group_by": groupBy,
		"groups":   groups,
	})
}

func (a *App) handleCardRanking(w http.ResponseWriter, r *http.Request) {
	a.handleRanking(w, r, a.cards, analytics.DimStore, analytics.MetricRevenue)
}

func (a *App) handleMachineRanking(w http.ResponseWriter, r *http.Request) {
	a.handleRanking(w, r, a.machines, analytics.DimMachine, analytics.MetricCreditUsed)
}

// handleRanking returns the top groups of one dimension ordered by summed
// metric, descending. Ties keep the aggregate's sorted-key order so the
// ranking is stable across requests.
func (a *App) handleRanking(w http.ResponseWriter, r *http.Request, t analytics.Table, defaultDim, defaultMetric string) {
	q := r.URL.Query()

	dimension := q.Get("dimension")
	if dimension == "" {
		dimension = defaultDim
	}
	metric := q.Get("metric")
	if metric == "" {
		metric = defaultMetric
	}
	limit := 10
	if raw := q.Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	scope := filterFromQuery(r).Apply(t)
	groups, err := analytics.Aggregate(scope, []string{dimension}, metric)
	if err != nil {
		a.writeError(w, statusFor(err), err)
		return
	}

	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Value > groups[j].Value })
	if len(groups) > limit {
		groups = groups[:limit]
	}

	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"dimension": dimension,
		"metric":    metric,
		"groups":    groups,
	})
}

// handleMachineHeatmap returns credit usage per (store, machine) cell for the
// filtered machine scope.
func (a *App) handleMachineHeatmap(w http.ResponseWriter, r *http.Request) {
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = analytics.MetricCreditUsed
	}

	scope := filterFromQuery(r).Apply(a.machines)
	groups, err := analytics.Aggregate(scope, []string{analytics.DimStore, analytics.DimMachine}, metric)
	if err != nil {
		a.writeError(w, statusFor(err), err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"metric": metric,
		"cells":  groups,
	})
}

// handleEfficiency returns the cross-domain efficiency matrix. Classification
// thresholds are quantiles of the current filtered scope, so the same machine
// can land in a different bucket under a different filter.
func (a *App) handleEfficiency(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)
	records := analytics.EfficiencyMatrix(filter.Apply(a.cards), filter.Apply(a.machines))

	if records == nil {
		records = []analytics.EfficiencyRecord{}
	}
	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(records),
		"records": records,
	})
}

// handleCorrelation returns Pearson r between a machine metric and card
// revenue over joined (store, month) pairs. An empty or degenerate pairing
// is a neutral valid=false payload, not an error.
func (a *App) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	metric := r.URL.Query().Get("metric")
	if metric == "" {
		metric = analytics.MetricActivations
	}

	filter := filterFromQuery(r)
	result, err := analytics.Correlate(filter.Apply(a.cards), filter.Apply(a.machines), metric)
	if err != nil {
		a.writeError(w, statusFor(err), err)
		return
	}

	a.writeJSON(w, http.StatusOK, map[string]interface{}{
		"metric": metric,
		"r":      result.R,
		"n":      result.N,
		"valid":  result.Valid,
	})
}
