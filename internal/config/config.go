package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load(".env")
}

func Get(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func GetOr(key, defaultVal string) string {
	if v := Get(key); v != "" {
		return v
	}
	return defaultVal
}

func GetBool(key, defaultVal string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		v = defaultVal
	}
	return v == "1" || v == "true" || v == "yes"
}

var (
	// EDGAR rejects requests without a declarative User-Agent.
	SECUserAgent = GetOr("SEC_USER_AGENT", "form4scan/1.0 (contact: ops@form4scan.dev)")

	DataDir      = GetOr("FORM4_DATA_DIR", "data")
	TraceEnabled = GetBool("FORM4_TRACE", "false")
	Debug        = GetBool("FORM4_DEBUG", "false")

	// EDGAR allows ~10 req/s; one request per 150ms keeps headroom.
	RequestInterval   = 150 * time.Millisecond
	MaxFilings        = 15
	ClusterWindowDays = 7
	CacheMaxAge       = 24 * time.Hour
)
