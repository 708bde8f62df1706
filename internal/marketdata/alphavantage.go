package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"
)

const intradayTimeLayout = "2006-01-02 15:04:05"

// compactCoverageDays is the calendar span the compact output size is
// guaranteed to cover. Compact returns the last 100 trading days, which
// spans roughly 140 calendar days; wider ranges need the full series.
const compactCoverageDays = 140

// AlphaVantageClient fetches daily close histories and intraday series
// from Alpha Vantage. It implements PriceHistorySource and IntradaySource.
type AlphaVantageClient struct {
	httpClient *http.Client
	baseURL    string // overridable for tests
	apiKey     string
}

// NewAlphaVantageClient creates an Alpha Vantage client with an injected API key.
func NewAlphaVantageClient(httpClient *http.Client, baseURL, apiKey string) *AlphaVantageClient {
	return &AlphaVantageClient{httpClient: httpClient, baseURL: baseURL, apiKey: apiKey}
}

// avDailyResponse is the TIME_SERIES_DAILY response envelope.
type avDailyResponse struct {
	TimeSeries map[string]avBar `json:"Time Series (Daily)"`
	Note       string           `json:"Note"`
}

// avIntradayResponse is the TIME_SERIES_INTRADAY response envelope.
type avIntradayResponse struct {
	TimeSeries map[string]avBar `json:"Time Series (5min)"`
	Note       string           `json:"Note"`
}

// avBar holds the OHLC fields Alpha Vantage returns per timestamp.
// Only the close is used.
type avBar struct {
	Close string `json:"4. close"`
}

// History returns daily closing prices in cents keyed by calendar day,
// restricted to [from, to]. The mapping is sparse; weekends and holidays
// carry no entry. Rate-limit notes from Alpha Vantage surface as errors.
func (c *AlphaVantageClient) History(ctx context.Context, ticker string, from, to time.Time) (map[string]int64, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("alphavantage: API key not configured")
	}

	outputSize := "compact"
	if to.Sub(from) > compactCoverageDays*24*time.Hour {
		outputSize = "full"
	}
	endpoint := fmt.Sprintf("%s?function=TIME_SERIES_DAILY&symbol=%s&outputsize=%s&apikey=%s",
		c.baseURL, url.QueryEscape(ticker), outputSize, c.apiKey)

	var daily avDailyResponse
	if err := c.getJSON(ctx, endpoint, &daily); err != nil {
		return nil, err
	}
	if len(daily.TimeSeries) == 0 {
		if daily.Note != "" {
			return nil, fmt.Errorf("alphavantage: rate limited: %s", daily.Note)
		}
		return map[string]int64{}, nil
	}

	fromKey := from.Format(DateFormat)
	toKey := to.Format(DateFormat)

	history := make(map[string]int64)
	for day, bar := range daily.TimeSeries {
		if day < fromKey || day > toKey {
			continue
		}
		close, err := strconv.ParseFloat(bar.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("alphavantage: bad close %q for %s on %s: %w", bar.Close, ticker, day, err)
		}
		history[day] = int64(math.Round(close * 100))
	}
	return history, nil
}

// Intraday returns the 5-minute intraday series for a ticker, ascending
// by timestamp. Labels are "MM-DD HH:MM" for chart display.
func (c *AlphaVantageClient) Intraday(ctx context.Context, ticker string) ([]ChartPoint, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("alphavantage: API key not configured")
	}

	endpoint := fmt.Sprintf("%s?function=TIME_SERIES_INTRADAY&symbol=%s&interval=5min&apikey=%s",
		c.baseURL, url.QueryEscape(ticker), c.apiKey)

	var intraday avIntradayResponse
	if err := c.getJSON(ctx, endpoint, &intraday); err != nil {
		return nil, err
	}
	if len(intraday.TimeSeries) == 0 {
		if intraday.Note != "" {
			return nil, fmt.Errorf("alphavantage: rate limited: %s", intraday.Note)
		}
		return nil, nil
	}

	timestamps := make([]string, 0, len(intraday.TimeSeries))
	for ts := range intraday.TimeSeries {
		timestamps = append(timestamps, ts)
	}
	sort.Strings(timestamps)

	points := make([]ChartPoint, 0, len(timestamps))
	for _, ts := range timestamps {
		parsed, err := time.Parse(intradayTimeLayout, ts)
		if err != nil {
			return nil, fmt.Errorf("alphavantage: bad timestamp %q for %s: %w", ts, ticker, err)
		}
		price, err := strconv.ParseFloat(intraday.TimeSeries[ts].Close, 64)
		if err != nil {
			return nil, fmt.Errorf("alphavantage: bad close %q for %s at %s: %w", intraday.TimeSeries[ts].Close, ticker, ts, err)
		}
		points = append(points, ChartPoint{
			Date:  parsed.Format("01-02 15:04"),
			Price: price,
		})
	}
	return points, nil
}

// getJSON performs a GET request and decodes the JSON response into out.
func (c *AlphaVantageClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("alphavantage: building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("alphavantage: http request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("alphavantage: unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("alphavantage: decoding response: %w", err)
	}
	return nil
}
