package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"form4scan/internal/cache"
	"form4scan/internal/config"
	"form4scan/internal/models"
	"form4scan/internal/report"
	"form4scan/internal/scan"
	"form4scan/internal/sec"
	"form4scan/internal/telemetry"
)

func init() {
	godotenv.Load(".env")
}

func main() {
	recentDays := flag.Int("recent", 0, "Scan all Form 4 filings from the last N days instead of one ticker")
	windowDays := flag.Int("window", config.ClusterWindowDays, "Cluster window in days")
	maxFilings := flag.Int("max", config.MaxFilings, "Maximum filings to fetch per run")
	csvPath := flag.String("csv", "", "Write the transaction table to CSV")
	noCache := flag.Bool("no-cache", false, "Bypass the filing cache")
	flag.Usage = usage
	flag.Parse()

	ticker := strings.ToUpper(strings.TrimSpace(flag.Arg(0)))
	if ticker == "" && *recentDays <= 0 {
		usage()
		os.Exit(1)
	}

	level := slog.LevelWarn
	if config.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	ctx := context.Background()
	shutdown, err := telemetry.Init(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tracing setup failed: %v\n", err)
		os.Exit(1)
	}
	defer shutdown(ctx)

	var store *cache.Store
	if !*noCache {
		store, err = cache.Open(config.DataDir)
		if err != nil {
			slog.Warn("filing cache unavailable, fetching without it", "err", err)
			store = nil
		} else {
			defer store.Close()
			store.Prune()
		}
	}

	client := sec.New(store)
	res, err := scan.Run(ctx, client, scan.Options{
		Ticker:     ticker,
		RecentDays: *recentDays,
		WindowDays: *windowDays,
		MaxFilings: *maxFilings,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "scan failed: %v\n", err)
		os.Exit(1)
	}

	if len(res.Transactions) == 0 {
		fmt.Printf("No open-market insider transactions found in %d filings.\n", res.FilingCount)
		return
	}
	report.WriteTable(os.Stdout, res.Transactions)
	if len(res.Clusters) > 0 {
		fmt.Println("\nCluster buys:")
		report.WriteClusters(os.Stdout, res.Clusters, *windowDays)
	}

	if *csvPath != "" {
		if err := writeCSV(*csvPath, res.Transactions); err != nil {
			fmt.Fprintf(os.Stderr, "Could not write CSV: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nWrote %s.\n", *csvPath)
	}
}

func writeCSV(path string, txs []models.Transaction) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	w.Write([]string{"date", "insider", "title", "type", "shares", "price", "value", "ticker"})
	for _, tx := range txs {
		date, value := "", ""
		if tx.Date != nil {
			date = tx.Date.Format("2006-01-02")
		}
		if tx.Value != nil {
			value = fmt.Sprintf("%.0f", *tx.Value)
		}
		w.Write([]string{
			date,
			tx.Insider,
			tx.Title,
			string(tx.Type),
			fmt.Sprintf("%.0f", tx.Shares),
			fmt.Sprintf("%.2f", tx.Price),
			value,
			tx.Ticker,
		})
	}
	w.Flush()
	return w.Error()
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  scan <TICKER> [flags]     Recent Form 4 activity for one issuer
  scan --recent <days>      Form 4 activity across all issuers

Flags:
`)
	flag.PrintDefaults()
}
