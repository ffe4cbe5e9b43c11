// Package scan composes the retrieval layer with the parsing and
// detection core into one pipeline run, shared by the CLI and the API.
package scan

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"form4scan/internal/aggregator"
	"form4scan/internal/cluster"
	"form4scan/internal/models"
	"form4scan/internal/sec"
)

type Options struct {
	// Ticker scans one issuer's recent Form 4 filings. Ignored when
	// RecentDays is set.
	Ticker string
	// RecentDays scans all issuers' filings from the last N days.
	RecentDays int
	WindowDays int
	MaxFilings int
}

type Result struct {
	Transactions []models.Transaction `json:"transactions"`
	Clusters     []models.Cluster     `json:"clusters"`
	FilingCount  int                  `json:"filing_count"`
}

// Run fetches the candidate filings, parses them into transactions
// sorted most-recent-first and detects cluster buys. Any retrieval
// failure aborts the run with a single wrapped error; the core stages
// cannot fail.
func Run(ctx context.Context, client *sec.Client, opts Options) (*Result, error) {
	tracer := otel.Tracer("form4scan")
	ctx, span := tracer.Start(ctx, "scan")
	defer span.End()
	span.SetAttributes(
		attribute.String("scan.ticker", opts.Ticker),
		attribute.Int("scan.recent_days", opts.RecentDays),
	)

	var refs []sec.FilingRef
	var err error
	if opts.RecentDays > 0 {
		refs, err = client.RecentFilings(ctx, opts.RecentDays, opts.MaxFilings)
	} else {
		var cik string
		cik, err = client.ResolveCIK(ctx, opts.Ticker)
		if err == nil {
			refs, err = client.TickerFilings(ctx, cik, opts.MaxFilings)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("locate filings: %w", err)
	}
	slog.Debug("located filings", "count", len(refs))

	ctx, fetchSpan := tracer.Start(ctx, "fetch-documents")
	docs := make([]string, 0, len(refs))
	for _, ref := range refs {
		body, err := client.FetchDocument(ctx, ref)
		if err != nil {
			fetchSpan.End()
			return nil, fmt.Errorf("fetch filings: %w", err)
		}
		docs = append(docs, body)
	}
	fetchSpan.End()

	_, detectSpan := tracer.Start(ctx, "parse-and-detect")
	txs := aggregator.Collect(docs)
	aggregator.SortByDateDesc(txs)
	clusters := cluster.Detect(txs, opts.WindowDays)
	detectSpan.SetAttributes(
		attribute.Int("scan.transactions", len(txs)),
		attribute.Int("scan.clusters", len(clusters)),
	)
	detectSpan.End()

	return &Result{
		Transactions: txs,
		Clusters:     clusters,
		FilingCount:  len(docs),
	}, nil
}
