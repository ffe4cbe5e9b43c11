package form4

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"form4scan/internal/models"
)

const fullFiling = `<?xml version="1.0"?>
<ownershipDocument>
  <issuer>
    <issuerCik>0000320193</issuerCik>
    <issuerName>Apple Inc.</issuerName>
    <issuerTradingSymbol>aapl</issuerTradingSymbol>
  </issuer>
  <reportingOwner>
    <reportingOwnerId>
      <rptOwnerCik>0001214128</rptOwnerCik>
      <rptOwnerName>DOE JANE Q</rptOwnerName>
    </reportingOwnerId>
    <reportingOwnerRelationship>
      <isDirector>1</isDirector>
      <isOfficer>1</isOfficer>
      <officerTitle>Chief Executive Officer</officerTitle>
    </reportingOwnerRelationship>
  </reportingOwner>
  <nonDerivativeTable>
    <nonDerivativeTransaction>
      <transactionDate><value>2024-03-11</value></transactionDate>
      <transactionCoding><transactionCode>P</transactionCode></transactionCoding>
      <transactionAmounts>
        <transactionShares><value>100</value></transactionShares>
        <transactionPricePerShare><value>10</value></transactionPricePerShare>
      </transactionAmounts>
    </nonDerivativeTransaction>
    <nonDerivativeTransaction>
      <transactionDate><value>2024-03-12</value></transactionDate>
      <transactionCoding><transactionCode>A</transactionCode></transactionCoding>
      <transactionAmounts>
        <transactionShares><value>5000</value></transactionShares>
        <transactionPricePerShare><value>0</value></transactionPricePerShare>
      </transactionAmounts>
    </nonDerivativeTransaction>
    <nonDerivativeTransaction>
      <transactionDate><value>2024-03-13</value></transactionDate>
      <transactionCoding><transactionCode>S</transactionCode></transactionCoding>
      <transactionAmounts>
        <transactionShares><value>250</value></transactionShares>
      </transactionAmounts>
    </nonDerivativeTransaction>
  </nonDerivativeTable>
</ownershipDocument>`

func TestParseFullFiling(t *testing.T) {
	txs := Parse(fullFiling)
	require.Len(t, txs, 2, "code A block must be dropped")

	buy := txs[0]
	assert.Equal(t, "AAPL", buy.Ticker)
	assert.Equal(t, "Doe Jane Q", buy.Insider)
	assert.Equal(t, "Chief Executive Officer", buy.Title, "officer title wins over director flag")
	assert.Equal(t, models.Buy, buy.Type)
	assert.Equal(t, 100.0, buy.Shares)
	assert.Equal(t, 10.0, buy.Price)
	require.NotNil(t, buy.Value)
	assert.Equal(t, 1000.0, *buy.Value)
	require.NotNil(t, buy.Date)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), *buy.Date)

	sell := txs[1]
	assert.Equal(t, models.Sell, sell.Type)
	assert.Equal(t, 250.0, sell.Shares)
	assert.Equal(t, 0.0, sell.Price, "missing price coerces to zero")
	assert.Nil(t, sell.Value, "value stays null when price is unknown")
}

func TestParseTitleDerivation(t *testing.T) {
	tests := []struct {
		name         string
		relationship string
		want         string
	}{
		{
			name:         "director flag",
			relationship: `<isDirector>1</isDirector>`,
			want:         "Director",
		},
		{
			name:         "director flag boolean form",
			relationship: `<isDirector>true</isDirector>`,
			want:         "Director",
		},
		{
			name:         "ten percent owner",
			relationship: `<isDirector>0</isDirector><isTenPercentOwner>1</isTenPercentOwner>`,
			want:         "10% Owner",
		},
		{
			name:         "officer title beats both flags",
			relationship: `<isDirector>1</isDirector><isTenPercentOwner>1</isTenPercentOwner><officerTitle>CFO</officerTitle>`,
			want:         "CFO",
		},
		{
			name:         "nothing set",
			relationship: `<isDirector>0</isDirector>`,
			want:         "",
		},
		{
			name:         "false flags",
			relationship: `<isDirector>false</isDirector><isTenPercentOwner>false</isTenPercentOwner>`,
			want:         "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := `<ownershipDocument>
			  <issuer><issuerTradingSymbol>X</issuerTradingSymbol></issuer>
			  <reportingOwner>
			    <reportingOwnerId><rptOwnerName>SMITH ALICE</rptOwnerName></reportingOwnerId>
			    <reportingOwnerRelationship>` + tt.relationship + `</reportingOwnerRelationship>
			  </reportingOwner>
			  <nonDerivativeTable>
			    <nonDerivativeTransaction>
			      <transactionDate><value>2024-01-02</value></transactionDate>
			      <transactionCoding><transactionCode>P</transactionCode></transactionCoding>
			      <transactionAmounts>
			        <transactionShares><value>10</value></transactionShares>
			        <transactionPricePerShare><value>5</value></transactionPricePerShare>
			      </transactionAmounts>
			    </nonDerivativeTransaction>
			  </nonDerivativeTable>
			</ownershipDocument>`
			txs := Parse(doc)
			require.Len(t, txs, 1)
			assert.Equal(t, tt.want, txs[0].Title)
		})
	}
}

func TestParseFallbackFieldNames(t *testing.T) {
	doc := `<ownershipDocument>
	  <issuer><issuerTradingSymbol>X</issuerTradingSymbol></issuer>
	  <nonDerivativeTable>
	    <nonDerivativeTransaction>
	      <transactionDate>2024-02-01</transactionDate>
	      <transactionCoding><transactionCode>P</transactionCode></transactionCoding>
	      <transactionAmounts>
	        <shares><value>42</value></shares>
	        <pricePerShare><value>3.5</value></pricePerShare>
	      </transactionAmounts>
	    </nonDerivativeTransaction>
	  </nonDerivativeTable>
	</ownershipDocument>`
	txs := Parse(doc)
	require.Len(t, txs, 1)
	assert.Equal(t, 42.0, txs[0].Shares, "fallback shares element")
	assert.Equal(t, 3.5, txs[0].Price, "fallback price element")
	require.NotNil(t, txs[0].Date, "flat date without nested value element")
	assert.Equal(t, "2024-02-01", txs[0].Date.Format("2006-01-02"))
}

func TestParseDegradesToDefaults(t *testing.T) {
	doc := `<ownershipDocument>
	  <nonDerivativeTable>
	    <nonDerivativeTransaction>
	      <transactionCoding><transactionCode>S</transactionCode></transactionCoding>
	    </nonDerivativeTransaction>
	  </nonDerivativeTable>
	</ownershipDocument>`
	txs := Parse(doc)
	require.Len(t, txs, 1)
	tx := txs[0]
	assert.Empty(t, tx.Ticker)
	assert.Empty(t, tx.Insider)
	assert.Empty(t, tx.Title)
	assert.Equal(t, 0.0, tx.Shares)
	assert.Equal(t, 0.0, tx.Price)
	assert.Nil(t, tx.Value)
	assert.Nil(t, tx.Date)
}

func TestParseEmptyAndMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty string", ""},
		{"not markup", "plain text, no tags at all"},
		{"truncated markup", "<ownershipDocument><issuer><issuerTradingSymbol>X</issuer"},
		{"no transactions", `<ownershipDocument><issuer><issuerTradingSymbol>X</issuerTradingSymbol></issuer></ownershipDocument>`},
		{"derivative only", `<ownershipDocument><derivativeTable><derivativeTransaction><transactionCoding><transactionCode>M</transactionCode></transactionCoding></derivativeTransaction></derivativeTable></ownershipDocument>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, Parse(tt.doc))
		})
	}
}

func TestParseMalformedNumbersCoerceToZero(t *testing.T) {
	doc := `<ownershipDocument>
	  <issuer><issuerTradingSymbol>X</issuerTradingSymbol></issuer>
	  <nonDerivativeTable>
	    <nonDerivativeTransaction>
	      <transactionDate><value>not-a-date</value></transactionDate>
	      <transactionCoding><transactionCode>P</transactionCode></transactionCoding>
	      <transactionAmounts>
	        <transactionShares><value>lots</value></transactionShares>
	        <transactionPricePerShare><value>-4</value></transactionPricePerShare>
	      </transactionAmounts>
	    </nonDerivativeTransaction>
	  </nonDerivativeTable>
	</ownershipDocument>`
	txs := Parse(doc)
	require.Len(t, txs, 1)
	assert.Equal(t, 0.0, txs[0].Shares)
	assert.Equal(t, 0.0, txs[0].Price, "negative price treated as absent")
	assert.Nil(t, txs[0].Value)
	assert.Nil(t, txs[0].Date)
}

func TestParseFirstOwnerAppliesToAll(t *testing.T) {
	doc := `<ownershipDocument>
	  <issuer><issuerTradingSymbol>X</issuerTradingSymbol></issuer>
	  <reportingOwner>
	    <reportingOwnerId><rptOwnerName>FIRST OWNER</rptOwnerName></reportingOwnerId>
	  </reportingOwner>
	  <reportingOwner>
	    <reportingOwnerId><rptOwnerName>SECOND OWNER</rptOwnerName></reportingOwnerId>
	  </reportingOwner>
	  <nonDerivativeTable>
	    <nonDerivativeTransaction>
	      <transactionCoding><transactionCode>P</transactionCode></transactionCoding>
	    </nonDerivativeTransaction>
	    <nonDerivativeTransaction>
	      <transactionCoding><transactionCode>S</transactionCode></transactionCoding>
	    </nonDerivativeTransaction>
	  </nonDerivativeTable>
	</ownershipDocument>`
	txs := Parse(doc)
	require.Len(t, txs, 2)
	assert.Equal(t, "First Owner", txs[0].Insider)
	assert.Equal(t, "First Owner", txs[1].Insider)
}

func TestParsePreservesDocumentOrder(t *testing.T) {
	doc := `<ownershipDocument>
	  <issuer><issuerTradingSymbol>X</issuerTradingSymbol></issuer>
	  <nonDerivativeTable>
	    <nonDerivativeTransaction>
	      <transactionDate><value>2024-05-02</value></transactionDate>
	      <transactionCoding><transactionCode>S</transactionCode></transactionCoding>
	    </nonDerivativeTransaction>
	    <nonDerivativeTransaction>
	      <transactionDate><value>2024-05-01</value></transactionDate>
	      <transactionCoding><transactionCode>P</transactionCode></transactionCoding>
	    </nonDerivativeTransaction>
	  </nonDerivativeTable>
	</ownershipDocument>`
	txs := Parse(doc)
	require.Len(t, txs, 2)
	assert.Equal(t, models.Sell, txs[0].Type)
	assert.Equal(t, models.Buy, txs[1].Type)
}
