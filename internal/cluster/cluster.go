// Package cluster detects cluster buys: multiple distinct insiders
// buying the same issuer within a bounded date span.
package cluster

import (
	"sort"
	"time"

	"form4scan/internal/models"
)

// Detect reports every ticker whose BUY transactions involve at least
// two distinct insiders within windowDays (inclusive). The span test
// is global per ticker: earliest BUY to latest BUY, not a sliding
// window over subsets, so a group stretched past the window never
// clusters even when a subset of it would. Output order follows the
// first appearance of each ticker in the input, which makes results
// deterministic for identical input.
//
// Detect builds its grouping locally and never mutates the input.
func Detect(txs []models.Transaction, windowDays int) []models.Cluster {
	byTicker := make(map[string][]models.Transaction)
	var order []string
	for _, tx := range txs {
		if tx.Type != models.Buy {
			continue
		}
		if _, seen := byTicker[tx.Ticker]; !seen {
			order = append(order, tx.Ticker)
		}
		byTicker[tx.Ticker] = append(byTicker[tx.Ticker], tx)
	}

	clusters := make([]models.Cluster, 0)
	for _, ticker := range order {
		buys := byTicker[ticker]
		if len(buys) < 2 {
			continue
		}
		sort.SliceStable(buys, func(i, j int) bool {
			return dateOrEpoch(buys[i].Date).Before(dateOrEpoch(buys[j].Date))
		})
		insiders := distinctInsiders(buys)
		if len(insiders) < 2 {
			// One person buying repeatedly is not a cluster signal.
			continue
		}
		if spanDays(buys) > windowDays {
			continue
		}
		clusters = append(clusters, models.Cluster{
			Ticker:   ticker,
			Count:    len(insiders),
			Insiders: insiders,
			Buys:     buys,
		})
	}
	return clusters
}

// distinctInsiders returns the unique insider names in first-seen
// order over the date-sorted group.
func distinctInsiders(buys []models.Transaction) []string {
	seen := make(map[string]bool)
	var names []string
	for _, b := range buys {
		if !seen[b.Insider] {
			seen[b.Insider] = true
			names = append(names, b.Insider)
		}
	}
	return names
}

// spanDays is the whole-day distance between the earliest and latest
// BUY of a date-sorted group, fractional days truncated.
func spanDays(buys []models.Transaction) int {
	first := dateOrEpoch(buys[0].Date)
	last := dateOrEpoch(buys[len(buys)-1].Date)
	return int(last.Sub(first).Hours() / 24)
}

// dateOrEpoch keeps date comparison total: records without a date
// order as the oldest possible value.
func dateOrEpoch(t *time.Time) time.Time {
	if t == nil {
		return time.Unix(0, 0).UTC()
	}
	return *t
}
