// Package sec is the EDGAR retrieval layer: it locates Form 4 filings
// for a ticker or a recent date window and hands raw document text to
// the parsing core. All pacing, caching and error surfacing for the
// pipeline's inbound side lives here.
package sec

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"form4scan/internal/cache"
	"form4scan/internal/config"
	"form4scan/internal/httpclient"
)

// FilingRef locates one filing document in the EDGAR archive.
type FilingRef struct {
	CIK        string // numeric, no leading zeros
	Accession  string // dashed form, e.g. 0000320193-24-000005
	PrimaryDoc string // primary document filename, may be empty
	FilingDate string
}

type Client struct {
	userAgent string
	limiter   *rate.Limiter
	store     *cache.Store

	tickersURL string
	dataURL    string
	archiveURL string
	searchURL  string
}

// New returns an EDGAR client. store may be nil to bypass the filing
// cache. Requests are serialized at one per config.RequestInterval.
func New(store *cache.Store) *Client {
	return &Client{
		userAgent:  config.SECUserAgent,
		limiter:    rate.NewLimiter(rate.Every(config.RequestInterval), 1),
		store:      store,
		tickersURL: "https://www.sec.gov/files/company_tickers.json",
		dataURL:    "https://data.sec.gov/submissions/",
		archiveURL: "https://www.sec.gov/Archives/edgar/data/",
		searchURL:  "https://efts.sec.gov/LATEST/search-index",
	}
}

func (c *Client) get(ctx context.Context, u string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	resp, err := httpclient.GetWithUA(ctx, u, c.userAgent)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %d", u, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// ResolveCIK maps a trading symbol to its zero-padded 10-digit CIK.
func (c *Client) ResolveCIK(ctx context.Context, ticker string) (string, error) {
	body, err := c.get(ctx, c.tickersURL)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", ticker, err)
	}
	var listing map[string]struct {
		CIK    int64  `json:"cik_str"`
		Ticker string `json:"ticker"`
	}
	if err := json.Unmarshal(body, &listing); err != nil {
		return "", fmt.Errorf("resolve %s: decode company listing: %w", ticker, err)
	}
	want := strings.ToUpper(strings.TrimSpace(ticker))
	for _, e := range listing {
		if strings.ToUpper(e.Ticker) == want {
			return fmt.Sprintf("%010d", e.CIK), nil
		}
	}
	return "", fmt.Errorf("resolve %s: ticker not found in EDGAR company listing", ticker)
}

// TickerFilings returns up to max recent Form 4 filing references for
// a company, newest first per the submissions feed. Amended filings
// (4/A) are not included.
func (c *Client) TickerFilings(ctx context.Context, cik10 string, max int) ([]FilingRef, error) {
	body, err := c.get(ctx, c.dataURL+"CIK"+cik10+".json")
	if err != nil {
		return nil, fmt.Errorf("company submissions: %w", err)
	}
	var sub struct {
		Filings struct {
			Recent struct {
				AccessionNumber []string `json:"accessionNumber"`
				Form            []string `json:"form"`
				PrimaryDocument []string `json:"primaryDocument"`
				FilingDate      []string `json:"filingDate"`
			} `json:"recent"`
		} `json:"filings"`
	}
	if err := json.Unmarshal(body, &sub); err != nil {
		return nil, fmt.Errorf("company submissions: decode: %w", err)
	}
	rec := sub.Filings.Recent
	cik := strings.TrimLeft(cik10, "0")
	var refs []FilingRef
	for i, form := range rec.Form {
		if form != "4" || i >= len(rec.AccessionNumber) {
			continue
		}
		ref := FilingRef{CIK: cik, Accession: rec.AccessionNumber[i]}
		if i < len(rec.PrimaryDocument) {
			ref.PrimaryDoc = rec.PrimaryDocument[i]
		}
		if i < len(rec.FilingDate) {
			ref.FilingDate = rec.FilingDate[i]
		}
		refs = append(refs, ref)
		if len(refs) >= max {
			break
		}
	}
	return refs, nil
}

// RecentFilings finds up to max Form 4 filings across all issuers from
// the last days days, via EDGAR full-text search.
func (c *Client) RecentFilings(ctx context.Context, days, max int) ([]FilingRef, error) {
	now := time.Now()
	params := url.Values{}
	params.Set("q", `"form 4"`)
	params.Set("forms", "4")
	params.Set("dateRange", "custom")
	params.Set("startdt", now.AddDate(0, 0, -days).Format("2006-01-02"))
	params.Set("enddt", now.Format("2006-01-02"))
	body, err := c.get(ctx, c.searchURL+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("full-text search: %w", err)
	}
	var res struct {
		Hits struct {
			Hits []struct {
				ID     string `json:"_id"` // "<accession>:<filename>"
				Source struct {
					CIKs     []string `json:"ciks"`
					FileDate string   `json:"file_date"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("full-text search: decode: %w", err)
	}
	var refs []FilingRef
	for _, hit := range res.Hits.Hits {
		accession, filename, ok := strings.Cut(hit.ID, ":")
		if !ok || len(hit.Source.CIKs) == 0 {
			continue
		}
		refs = append(refs, FilingRef{
			CIK:        strings.TrimLeft(hit.Source.CIKs[0], "0"),
			Accession:  accession,
			PrimaryDoc: filename,
			FilingDate: hit.Source.FileDate,
		})
		if len(refs) >= max {
			break
		}
	}
	return refs, nil
}

// FetchDocument returns the raw XML text of a filing. When the ref's
// primary document is missing or not XML, the accession's index is
// consulted to locate one. Fetched bodies go through the cache when a
// store is configured.
func (c *Client) FetchDocument(ctx context.Context, ref FilingRef) (string, error) {
	dir := c.archiveURL + ref.CIK + "/" + strings.ReplaceAll(ref.Accession, "-", "") + "/"
	doc := ref.PrimaryDoc
	if !strings.HasSuffix(strings.ToLower(doc), ".xml") {
		resolved, err := c.resolveIndex(ctx, dir)
		if err != nil {
			return "", err
		}
		doc = resolved
	}
	u := dir + doc
	if c.store != nil {
		if body, ok := c.store.Get(u); ok {
			slog.Debug("filing cache hit", "url", u)
			return body, nil
		}
	}
	body, err := c.get(ctx, u)
	if err != nil {
		return "", fmt.Errorf("filing %s: %w", ref.Accession, err)
	}
	if c.store != nil {
		c.store.Put(u, string(body))
	}
	return string(body), nil
}

// resolveIndex picks the first XML document listed in an accession
// directory index that is not itself an index file.
func (c *Client) resolveIndex(ctx context.Context, dir string) (string, error) {
	body, err := c.get(ctx, dir+"index.json")
	if err != nil {
		return "", fmt.Errorf("filing index: %w", err)
	}
	var idx struct {
		Directory struct {
			Item []struct {
				Name string `json:"name"`
			} `json:"item"`
		} `json:"directory"`
	}
	if err := json.Unmarshal(body, &idx); err != nil {
		return "", fmt.Errorf("filing index: decode: %w", err)
	}
	for _, item := range idx.Directory.Item {
		name := strings.ToLower(item.Name)
		if strings.HasSuffix(name, ".xml") && !strings.Contains(name, "index") {
			return item.Name, nil
		}
	}
	return "", fmt.Errorf("filing index: no XML document listed")
}
