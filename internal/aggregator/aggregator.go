// Package aggregator merges parsed transactions across filings into
// one display-ordered collection.
package aggregator

import (
	"sort"
	"time"

	"form4scan/internal/form4"
	"form4scan/internal/models"
)

// Collect runs the filing parser over each document in input order and
// appends all results into a single sequence. No dedup is performed:
// a transaction reported in two filings is counted twice.
func Collect(docs []string) []models.Transaction {
	all := make([]models.Transaction, 0)
	for _, doc := range docs {
		all = append(all, form4.Parse(doc)...)
	}
	return all
}

// SortByDateDesc orders the collection most-recent-first for display.
// Records without a date compare as the oldest possible value and sink
// to the bottom; ties keep their merge order.
func SortByDateDesc(txs []models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return dateOrEpoch(txs[i].Date).After(dateOrEpoch(txs[j].Date))
	})
}

func dateOrEpoch(t *time.Time) time.Time {
	if t == nil {
		return time.Unix(0, 0).UTC()
	}
	return *t
}
