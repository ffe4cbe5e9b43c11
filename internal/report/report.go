// Package report renders the transaction table and cluster lines.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"form4scan/internal/models"
)

const rowFormat = "%-12s  %-28s  %-20s  %-4s  %12s  %14s  %-6s\n"

// WriteTable prints the fixed-column transaction table: Date, Insider,
// Title (truncated to 20), Type, Shares (thousands-grouped), Value
// (currency, no decimals), Ticker.
func WriteTable(w io.Writer, txs []models.Transaction) {
	fmt.Fprintf(w, rowFormat, "Date", "Insider", "Title", "Type", "Shares", "Value", "Ticker")
	fmt.Fprintf(w, rowFormat, dashes(12), dashes(28), dashes(20), dashes(4), dashes(12), dashes(14), dashes(6))
	for _, tx := range txs {
		fmt.Fprintf(w, rowFormat,
			dateString(tx.Date),
			truncate(tx.Insider, 28),
			truncate(tx.Title, 20),
			tx.Type,
			humanize.Comma(int64(tx.Shares)),
			valueString(tx.Value),
			tx.Ticker,
		)
	}
}

// WriteClusters prints one line per detected cluster.
func WriteClusters(w io.Writer, clusters []models.Cluster, windowDays int) {
	for _, c := range clusters {
		fmt.Fprintf(w, "%s: %d insiders bought within %d days (%s)\n",
			c.Ticker, c.Count, windowDays, strings.Join(c.Insiders, ", "))
	}
}

func dateString(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02")
}

func valueString(v *float64) string {
	if v == nil {
		return "-"
	}
	return "$" + humanize.Comma(int64(*v))
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func dashes(n int) string {
	return strings.Repeat("-", n)
}
