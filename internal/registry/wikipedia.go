package registry

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// constituentsURL is the Wikipedia page listing current S&P 500 members.
const constituentsURL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"

// ConstituentFetcher scrapes the live S&P 500 constituent list.
type ConstituentFetcher struct {
	client *resty.Client
	url    string
}

// NewConstituentFetcher creates a fetcher with a preconfigured HTTP client.
func NewConstituentFetcher() *ConstituentFetcher {
	client := resty.New()
	client.SetTimeout(30 * time.Second)
	client.SetHeader("User-Agent", "Mozilla/5.0 (compatible; stockdata/1.0)")

	return &ConstituentFetcher{
		client: client,
		url:    constituentsURL,
	}
}

// SetBaseURL overrides the scrape target. Used in tests.
func (f *ConstituentFetcher) SetBaseURL(url string) {
	f.url = url
}

// FetchSP500 downloads and parses the constituents table, returning ticker
// symbols in page order, normalized to Yahoo symbology (dots become dashes,
// e.g. BRK.B -> BRK-B).
func (f *ConstituentFetcher) FetchSP500(ctx context.Context) ([]string, error) {
	resp, err := f.client.R().SetContext(ctx).Get(f.url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch constituents page: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("constituents page returned status %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.String()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse constituents page: %w", err)
	}

	tickers := parseConstituentsTable(doc)
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no tickers found in constituents table")
	}
	return tickers, nil
}

// parseConstituentsTable pulls the first cell of every row in the
// constituents table. The page keeps the table id stable.
func parseConstituentsTable(doc *goquery.Document) []string {
	var tickers []string
	seen := make(map[string]struct{})

	doc.Find("table#constituents tbody tr").Each(func(_ int, row *goquery.Selection) {
		cell := row.Find("td").First()
		symbol := strings.TrimSpace(cell.Text())
		if symbol == "" {
			return
		}
		symbol = NormalizeSymbol(symbol)
		if _, ok := seen[symbol]; ok {
			return
		}
		seen[symbol] = struct{}{}
		tickers = append(tickers, symbol)
	})

	return tickers
}

// NormalizeSymbol converts an exchange-style symbol to Yahoo symbology.
func NormalizeSymbol(symbol string) string {
	return strings.ReplaceAll(strings.TrimSpace(symbol), ".", "-")
}
