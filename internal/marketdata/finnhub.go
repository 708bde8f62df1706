package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"
)

// FinnhubClient fetches current quotes and company news from Finnhub.
// It implements QuoteSource and NewsSource.
type FinnhubClient struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	apiKey     string
}

// NewFinnhubClient creates a Finnhub client. The API key is injected by
// the caller; the client never reads the environment.
func NewFinnhubClient(httpClient *http.Client, baseURL, apiKey string) *FinnhubClient {
	return &FinnhubClient{httpClient: httpClient, baseURL: baseURL, apiKey: apiKey}
}

// finnhubQuote is the Finnhub /quote response. Only the current price is used.
type finnhubQuote struct {
	Current float64 `json:"c"`
}

// finnhubNewsItem is a single item from the Finnhub /company-news response.
type finnhubNewsItem struct {
	Headline string `json:"headline"`
	URL      string `json:"url"`
	Source   string `json:"source"`
	Datetime int64  `json:"datetime"`
	Summary  string `json:"summary"`
}

// Quote returns the current price for a ticker in cents.
// Finnhub reports 0 for unknown symbols; that is treated as unavailable.
func (c *FinnhubClient) Quote(ctx context.Context, ticker string) (int64, error) {
	if c.apiKey == "" {
		return 0, fmt.Errorf("finnhub: API key not configured")
	}

	endpoint := fmt.Sprintf("%s/quote?symbol=%s&token=%s", c.baseURL, url.QueryEscape(ticker), c.apiKey)

	var quote finnhubQuote
	if err := c.getJSON(ctx, endpoint, &quote); err != nil {
		return 0, err
	}
	if quote.Current == 0 {
		return 0, fmt.Errorf("finnhub: no quote for %s", ticker)
	}

	return int64(math.Round(quote.Current * 100)), nil
}

// CompanyNews returns company news for a ticker over the given date range.
func (c *FinnhubClient) CompanyNews(ctx context.Context, ticker string, from, to time.Time) ([]Article, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("finnhub: API key not configured")
	}

	endpoint := fmt.Sprintf("%s/company-news?symbol=%s&from=%s&to=%s&token=%s",
		c.baseURL, url.QueryEscape(ticker), from.Format(DateFormat), to.Format(DateFormat), c.apiKey)

	var items []finnhubNewsItem
	if err := c.getJSON(ctx, endpoint, &items); err != nil {
		return nil, err
	}

	articles := make([]Article, 0, len(items))
	for _, item := range items {
		if item.Headline == "" {
			continue
		}
		articles = append(articles, Article{
			Headline:    item.Headline,
			URL:         item.URL,
			Source:      item.Source,
			PublishedAt: item.Datetime,
			Summary:     item.Summary,
		})
	}
	return articles, nil
}

// getJSON performs a GET request and decodes the JSON response into out.
func (c *FinnhubClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("finnhub: building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("finnhub: http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("finnhub: unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("finnhub: decoding response: %w", err)
	}
	return nil
}
