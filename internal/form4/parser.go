// Package form4 extracts non-derivative transactions from SEC
// ownership filings (Form 4 XML).
package form4

import (
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"form4scan/internal/models"
)

// Parse converts one raw filing document into zero or more transaction
// records, in document order. It is total over arbitrary text: a
// document that is not well-formed markup yields an empty result, and
// every missing or malformed field degrades to its zero value. Only
// transaction codes P and S produce a record.
//
// Filings can nest several reporting owners; only the first owner
// block's identity and title are read and applied to every transaction
// in the document.
func Parse(doc string) []models.Transaction {
	tree := etree.NewDocument()
	if err := tree.ReadFromString(doc); err != nil {
		return nil
	}
	root := tree.Root()
	if root == nil {
		return nil
	}

	ticker := strings.ToUpper(elemText(root, "issuer/issuerTradingSymbol"))

	var insider, title string
	if owner := root.FindElement("reportingOwner"); owner != nil {
		insider = NormalizeName(elemText(owner, "reportingOwnerId/rptOwnerName"))
		title = ownerTitle(owner)
	}

	var out []models.Transaction
	for _, tx := range root.FindElements("nonDerivativeTable/nonDerivativeTransaction") {
		var txType models.TxType
		switch valueText(tx, "transactionCoding/transactionCode") {
		case "P":
			txType = models.Buy
		case "S":
			txType = models.Sell
		default:
			// Grants, exercises, gifts etc. are never reported.
			continue
		}
		shares := optionalNumber(tx,
			"transactionAmounts/transactionShares",
			"transactionAmounts/shares")
		price := optionalNumber(tx,
			"transactionAmounts/transactionPricePerShare",
			"transactionAmounts/pricePerShare")
		var value *float64
		if shares > 0 && price > 0 {
			v := shares * price
			value = &v
		}
		out = append(out, models.Transaction{
			Ticker:  ticker,
			Insider: insider,
			Title:   title,
			Type:    txType,
			Shares:  shares,
			Price:   price,
			Value:   value,
			Date:    optionalDate(tx, "transactionDate"),
		})
	}
	return out
}

// ownerTitle derives the role string from a reportingOwner block. An
// explicit officer title wins over the director and ten-percent-owner
// flags even when both are set.
func ownerTitle(owner *etree.Element) string {
	rel := owner.FindElement("reportingOwnerRelationship")
	if rel == nil {
		return ""
	}
	if t := valueText(rel, "officerTitle"); t != "" {
		return t
	}
	if boolFlag(rel, "isDirector") {
		return "Director"
	}
	if boolFlag(rel, "isTenPercentOwner") {
		return "10% Owner"
	}
	return ""
}

// elemText returns the trimmed text of the first element found at the
// given paths, or "".
func elemText(e *etree.Element, paths ...string) string {
	for _, p := range paths {
		if el := e.FindElement(p); el != nil {
			if s := strings.TrimSpace(el.Text()); s != "" {
				return s
			}
		}
	}
	return ""
}

// valueText reads an element whose payload may sit in a nested <value>
// child or directly in the element text. Both shapes occur in filings.
func valueText(e *etree.Element, paths ...string) string {
	for _, p := range paths {
		if s := elemText(e, p+"/value"); s != "" {
			return s
		}
		if s := elemText(e, p); s != "" {
			return s
		}
	}
	return ""
}

// optionalNumber reads the first parseable non-negative number at the
// given paths. Missing or malformed values are 0, never an error.
func optionalNumber(e *etree.Element, paths ...string) float64 {
	s := valueText(e, paths...)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// optionalDate reads a YYYY-MM-DD date, tolerating trailing time
// portions. Missing or malformed values are nil.
func optionalDate(e *etree.Element, paths ...string) *time.Time {
	s := valueText(e, paths...)
	if s == "" {
		return nil
	}
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}

// boolFlag treats "1" and "true" as set; filings use both forms.
func boolFlag(e *etree.Element, path string) bool {
	switch strings.ToLower(valueText(e, path)) {
	case "1", "true":
		return true
	}
	return false
}
