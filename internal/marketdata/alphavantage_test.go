package marketdata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

const dailyFixture = `{
  "Time Series (Daily)": {
    "2024-06-03": {"1. open": "191.00", "4. close": "194.03"},
    "2024-06-04": {"1. open": "194.50", "4. close": "194.35"},
    "2024-06-07": {"1. open": "194.00", "4. close": "196.89"},
    "2024-05-20": {"1. open": "189.00", "4. close": "191.04"}
  }
}`

const intradayFixture = `{
  "Time Series (5min)": {
    "2024-06-14 09:35:00": {"4. close": "190.10"},
    "2024-06-14 09:30:00": {"4. close": "189.50"},
    "2024-06-14 09:40:00": {"4. close": "190.45"}
  }
}`

func newAVMockServer(body string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func TestAlphaVantageClient_History(t *testing.T) {
	t.Run("filters_window_and_converts_to_cents", func(t *testing.T) {
		server := newAVMockServer(dailyFixture)
		defer server.Close()

		c := NewAlphaVantageClient(server.Client(), server.URL, "test-key")
		from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)

		history, err := c.History(context.Background(), "AAPL", from, to)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// 2024-05-20 falls before the window and is dropped.
		if len(history) != 3 {
			t.Fatalf("expected 3 entries, got %d: %v", len(history), history)
		}
		if history["2024-06-03"] != 19403 || history["2024-06-07"] != 19689 {
			t.Errorf("unexpected closes: %v", history)
		}
		if _, ok := history["2024-05-20"]; ok {
			t.Error("expected out-of-window day to be dropped")
		}
	})

	t.Run("output_size_scales_with_range", func(t *testing.T) {
		var gotOutputSize string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotOutputSize = r.URL.Query().Get("outputsize")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(dailyFixture))
		}))
		defer server.Close()

		c := NewAlphaVantageClient(server.Client(), server.URL, "test-key")
		to := time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC)

		// A month fits in the compact output.
		_, err := c.History(context.Background(), "AAPL", to.AddDate(0, -1, 0), to)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotOutputSize != "compact" {
			t.Errorf("expected compact output for a one-month range, got %q", gotOutputSize)
		}

		// A year exceeds the ~100 trading days compact returns, so the
		// full series is requested.
		_, err = c.History(context.Background(), "AAPL", to.AddDate(-1, 0, 0), to)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotOutputSize != "full" {
			t.Errorf("expected full output for a one-year range, got %q", gotOutputSize)
		}
	})

	t.Run("rate_limit_note_is_error", func(t *testing.T) {
		server := newAVMockServer(`{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`)
		defer server.Close()

		c := NewAlphaVantageClient(server.Client(), server.URL, "test-key")
		_, err := c.History(context.Background(), "AAPL", time.Now(), time.Now())
		if err == nil || !strings.Contains(err.Error(), "rate limited") {
			t.Errorf("expected rate-limit error, got: %v", err)
		}
	})

	t.Run("unknown_symbol_yields_empty_map", func(t *testing.T) {
		server := newAVMockServer(`{}`)
		defer server.Close()

		c := NewAlphaVantageClient(server.Client(), server.URL, "test-key")
		history, err := c.History(context.Background(), "FAKESYM", time.Now(), time.Now())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(history) != 0 {
			t.Errorf("expected empty history, got %v", history)
		}
	})

	t.Run("missing_api_key", func(t *testing.T) {
		c := NewAlphaVantageClient(http.DefaultClient, "http://unused", "")
		_, err := c.History(context.Background(), "AAPL", time.Now(), time.Now())
		if err == nil || !strings.Contains(err.Error(), "API key") {
			t.Errorf("expected API key error, got: %v", err)
		}
	})
}

func TestAlphaVantageClient_Intraday(t *testing.T) {
	t.Run("ascending_order_with_display_labels", func(t *testing.T) {
		server := newAVMockServer(intradayFixture)
		defer server.Close()

		c := NewAlphaVantageClient(server.Client(), server.URL, "test-key")
		points, err := c.Intraday(context.Background(), "AAPL")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(points) != 3 {
			t.Fatalf("expected 3 points, got %d", len(points))
		}

		wantDates := []string{"06-14 09:30", "06-14 09:35", "06-14 09:40"}
		wantPrices := []float64{189.50, 190.10, 190.45}
		for i := range points {
			if points[i].Date != wantDates[i] || points[i].Price != wantPrices[i] {
				t.Errorf("point %d: got %+v, want %s %g", i, points[i], wantDates[i], wantPrices[i])
			}
		}
	})

	t.Run("empty_series", func(t *testing.T) {
		server := newAVMockServer(`{}`)
		defer server.Close()

		c := NewAlphaVantageClient(server.Client(), server.URL, "test-key")
		points, err := c.Intraday(context.Background(), "AAPL")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(points) != 0 {
			t.Errorf("expected no points, got %v", points)
		}
	})

	t.Run("rate_limit_note_is_error", func(t *testing.T) {
		server := newAVMockServer(`{"Note": "rate limit reached"}`)
		defer server.Close()

		c := NewAlphaVantageClient(server.Client(), server.URL, "test-key")
		_, err := c.Intraday(context.Background(), "AAPL")
		if err == nil || !strings.Contains(err.Error(), "rate limited") {
			t.Errorf("expected rate-limit error, got: %v", err)
		}
	})
}
