package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"form4scan/internal/cache"
	"form4scan/internal/config"
	"form4scan/internal/scan"
	"form4scan/internal/sec"
	"form4scan/internal/telemetry"
)

func init() {
	godotenv.Load(".env")
}

var client *sec.Client

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	ctx := context.Background()
	shutdown, err := telemetry.Init(ctx)
	if err == nil {
		defer shutdown(ctx)
	}

	store, err := cache.Open(config.DataDir)
	if err != nil {
		slog.Warn("filing cache unavailable", "err", err)
		store = nil
	} else {
		defer store.Close()
	}
	client = sec.New(store)

	http.HandleFunc("/api/scan", securityHeaders(rateLimitScan(handleScan)))
	http.HandleFunc("/api/recent", securityHeaders(rateLimitScan(handleRecent)))
	http.HandleFunc("/api/health", securityHeaders(handleHealth))

	port := "8000"
	if p := os.Getenv("PORT"); p != "" {
		port = p
	}
	slog.Info("listening", "port", port)
	http.ListenAndServe(":"+port, nil)
}

func handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	ticker := strings.ToUpper(strings.TrimSpace(q.Get("ticker")))
	if ticker == "" {
		jsonError(w, http.StatusBadRequest, "ticker is required")
		return
	}
	runScan(w, r, scan.Options{
		Ticker:     ticker,
		WindowDays: clamp(parseInt(q.Get("window"), config.ClusterWindowDays), 1, 90),
		MaxFilings: clamp(parseInt(q.Get("max"), config.MaxFilings), 1, 50),
	})
}

func handleRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	runScan(w, r, scan.Options{
		RecentDays: clamp(parseInt(q.Get("days"), 7), 1, 30),
		WindowDays: clamp(parseInt(q.Get("window"), config.ClusterWindowDays), 1, 90),
		MaxFilings: clamp(parseInt(q.Get("max"), config.MaxFilings), 1, 50),
	})
}

func runScan(w http.ResponseWriter, r *http.Request, opts scan.Options) {
	res, err := scan.Run(r.Context(), client, opts)
	if err != nil {
		slog.Error("scan failed", "err", err)
		jsonError(w, http.StatusBadGateway, err.Error())
		return
	}
	jsonResponse(w, map[string]interface{}{
		"ticker":       opts.Ticker,
		"recent_days":  opts.RecentDays,
		"window_days":  opts.WindowDays,
		"filing_count": res.FilingCount,
		"transactions": res.Transactions,
		"clusters":     res.Clusters,
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, map[string]string{"status": "ok"})
}

func jsonResponse(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
