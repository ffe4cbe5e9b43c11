package models

import "time"

type TxType string

const (
	Buy  TxType = "BUY"
	Sell TxType = "SELL"
)

// Transaction is one non-derivative open-market trade extracted from an
// ownership filing. Only purchase (code P) and sale (code S) blocks
// produce a record; records are never mutated after creation.
type Transaction struct {
	Ticker  string     `json:"ticker"`
	Insider string     `json:"insider"`
	Title   string     `json:"title,omitempty"`
	Type    TxType     `json:"type"`
	Shares  float64    `json:"shares"`
	Price   float64    `json:"price"`
	Value   *float64   `json:"value,omitempty"`
	Date    *time.Time `json:"date,omitempty"`
}

// Cluster is a derived view over the BUY transactions of one ticker:
// at least two distinct insiders buying within the detection window.
type Cluster struct {
	Ticker   string        `json:"ticker"`
	Count    int           `json:"count"`
	Insiders []string      `json:"insiders"`
	Buys     []Transaction `json:"buys"`
}
