package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"form4scan/internal/models"
)

func TestWriteTable(t *testing.T) {
	d := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	v := 1234567.0
	txs := []models.Transaction{
		{
			Ticker:  "AAPL",
			Insider: "Doe Jane Q",
			Title:   "Executive Vice President of Engineering",
			Type:    models.Buy,
			Shares:  123456,
			Price:   10,
			Value:   &v,
			Date:    &d,
		},
		{
			Ticker:  "MSFT",
			Insider: "Roe Richard",
			Type:    models.Sell,
			Shares:  250,
		},
	}

	var buf bytes.Buffer
	WriteTable(&buf, txs)
	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4, "header, rule, two rows")

	assert.Contains(t, lines[0], "Date")
	assert.Contains(t, lines[0], "Ticker")

	row := lines[2]
	assert.Contains(t, row, "2024-03-11")
	assert.Contains(t, row, "Executive Vice Presi", "title truncated to 20 characters")
	assert.NotContains(t, row, "Executive Vice Presid")
	assert.Contains(t, row, "123,456", "shares thousands-grouped")
	assert.Contains(t, row, "$1,234,567", "value currency-formatted without decimals")
	assert.Contains(t, row, "BUY")

	row = lines[3]
	assert.Contains(t, row, "SELL")
	assert.Contains(t, row, "-", "missing date and value render as dashes")
}

func TestWriteClusters(t *testing.T) {
	clusters := []models.Cluster{
		{Ticker: "X", Count: 2, Insiders: []string{"A", "B"}},
		{Ticker: "Y", Count: 3, Insiders: []string{"C", "D", "E"}},
	}
	var buf bytes.Buffer
	WriteClusters(&buf, clusters, 7)
	out := buf.String()
	assert.Contains(t, out, "X: 2 insiders bought within 7 days (A, B)")
	assert.Contains(t, out, "Y: 3 insiders bought within 7 days (C, D, E)")
}

func TestWriteTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	WriteTable(&buf, nil)
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 2, "header and rule only")
}
