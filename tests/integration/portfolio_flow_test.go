package integration

import (
	"fmt"
	"net/http"
	"testing"
	"time"
)

func TestPortfolioFlow_BuySellFIFO(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "fifo@test.com", "password123")

	// Two buys of the same ticker at different dates and costs.
	rec := app.request("POST", "/api/v1/portfolio/add",
		`{"ticker":"AAPL","quantity":5,"price":10000,"company_name":"Apple Inc","date":"2024-01-01"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first buy failed: %d %s", rec.Code, rec.Body.String())
	}
	rec = app.request("POST", "/api/v1/portfolio/add",
		`{"ticker":"AAPL","quantity":10,"price":12000,"company_name":"Apple Inc","date":"2024-02-01"}`, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("second buy failed: %d %s", rec.Code, rec.Body.String())
	}

	// Sell 12: drains the January lot and 7 from the February one.
	rec = app.request("POST", "/api/v1/portfolio/remove",
		`{"ticker":"AAPL","quantity":12}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("sell failed: %d %s", rec.Code, rec.Body.String())
	}
	sellResult := parseJSON(t, rec)
	if sellResult["quantity_sold"].(float64) != 12 {
		t.Errorf("expected quantity_sold 12, got %v", sellResult["quantity_sold"])
	}

	// One lot remains: 3 shares at 12000 from 2024-02-01.
	rec = app.request("GET", "/api/v1/portfolio/lots", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("list lots failed: %d %s", rec.Code, rec.Body.String())
	}
	lotsResult := parseJSON(t, rec)
	data := lotsResult["data"].([]interface{})
	if len(data) != 1 {
		t.Fatalf("expected 1 remaining lot, got %d", len(data))
	}
	lot := data[0].(map[string]interface{})
	if lot["quantity"].(float64) != 3 || lot["unit_cost"].(float64) != 12000 {
		t.Errorf("expected 3 shares at 12000, got %v at %v", lot["quantity"], lot["unit_cost"])
	}
}

func TestPortfolioFlow_SellGuards(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "guards@test.com", "password123")

	// Selling with no holdings at all.
	rec := app.request("POST", "/api/v1/portfolio/remove",
		`{"ticker":"AAPL","quantity":1}`, token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for no holdings, got %d: %s", rec.Code, rec.Body.String())
	}

	app.request("POST", "/api/v1/portfolio/add",
		`{"ticker":"AAPL","quantity":5,"price":10000,"date":"2024-01-01"}`, token)

	// Oversell leaves the ledger untouched.
	rec = app.request("POST", "/api/v1/portfolio/remove",
		`{"ticker":"AAPL","quantity":6}`, token)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for oversell, got %d: %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	errObj := result["error"].(map[string]interface{})
	if errObj["code"] != "INSUFFICIENT_SHARES" {
		t.Errorf("expected INSUFFICIENT_SHARES, got %v", errObj["code"])
	}

	rec = app.request("GET", "/api/v1/portfolio/lots", "", token)
	lots := parseJSON(t, rec)
	if lots["total_items"].(float64) != 1 {
		t.Errorf("expected lot untouched after failed sell, got %v", lots["total_items"])
	}
}

func TestPortfolioFlow_Snapshot(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "snapshot@test.com", "password123")

	app.Market.quotes["AAPL"] = 12500

	app.request("POST", "/api/v1/portfolio/add",
		`{"ticker":"AAPL","quantity":2,"price":10000,"date":"2024-01-01"}`, token)
	// MSFT has no quote; its lot is valued at cost.
	app.request("POST", "/api/v1/portfolio/add",
		`{"ticker":"MSFT","quantity":1,"price":40000,"date":"2024-01-01"}`, token)

	rec := app.request("GET", "/api/v1/portfolio", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("snapshot failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)

	if result["total_value"].(float64) != 2*12500+40000 {
		t.Errorf("expected total_value %d, got %v", 2*12500+40000, result["total_value"])
	}
	if result["total_cost"].(float64) != 2*10000+40000 {
		t.Errorf("expected total_cost %d, got %v", 2*10000+40000, result["total_cost"])
	}
	if result["overall_gain_loss"].(float64) != 5000 {
		t.Errorf("expected overall_gain_loss 5000, got %v", result["overall_gain_loss"])
	}

	holdings := result["holdings"].([]interface{})
	if len(holdings) != 2 {
		t.Fatalf("expected 2 holdings, got %d", len(holdings))
	}
}

func TestPortfolioFlow_History(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "history@test.com", "password123")

	day := func(offset int) string {
		return time.Now().UTC().AddDate(0, 0, offset).Format("2006-01-02")
	}
	app.Market.histories["AAPL"] = map[string]int64{
		day(-3): 11000,
		day(-1): 12000,
	}

	app.request("POST", "/api/v1/portfolio/add",
		`{"ticker":"AAPL","quantity":2,"price":10000,"date":"2020-01-01"}`, token)

	rec := app.request("GET", "/api/v1/portfolio/history?days=3", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("history failed: %d %s", rec.Code, rec.Body.String())
	}
	points := parseJSONArray(t, rec)
	if len(points) != 4 {
		t.Fatalf("expected 4 points, got %d", len(points))
	}

	wantValues := []float64{22000, 22000, 24000, 24000}
	for i, want := range wantValues {
		p := points[i].(map[string]interface{})
		if p["value"].(float64) != want {
			t.Errorf("point %d (%v): expected %g, got %v", i, p["date"], want, p["value"])
		}
	}

	// An empty portfolio gets an empty series.
	otherToken, _ := app.registerUser(t, "empty@test.com", "password123")
	rec = app.request("GET", "/api/v1/portfolio/history", "", otherToken)
	if rec.Code != http.StatusOK {
		t.Fatalf("history failed: %d %s", rec.Code, rec.Body.String())
	}
	if got := parseJSONArray(t, rec); len(got) != 0 {
		t.Errorf("expected empty series for empty portfolio, got %d points", len(got))
	}
}

func TestPortfolioFlow_UserIsolation(t *testing.T) {
	app := setupApp(t)
	tokenA, _ := app.registerUser(t, "alice@test.com", "password123")
	tokenB, _ := app.registerUser(t, "bob@test.com", "password123")

	app.request("POST", "/api/v1/portfolio/add",
		`{"ticker":"AAPL","quantity":5,"price":10000,"date":"2024-01-01"}`, tokenA)

	// Bob cannot see or sell Alice's shares.
	rec := app.request("GET", "/api/v1/portfolio/lots", "", tokenB)
	lots := parseJSON(t, rec)
	if lots["total_items"].(float64) != 0 {
		t.Errorf("expected no lots for second user, got %v", lots["total_items"])
	}

	rec = app.request("POST", "/api/v1/portfolio/remove",
		`{"ticker":"AAPL","quantity":1}`, tokenB)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for second user's sell, got %d", rec.Code)
	}
}

func TestStockFlow_NewsAndChart(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "stock@test.com", "password123")

	app.Market.articles = nil
	for i := 0; i < 3; i++ {
		app.Market.articles = append(app.Market.articles, articleFixture(fmt.Sprintf("Company announces plan %d", i)))
	}

	rec := app.request("GET", "/api/v1/stock/aapl", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("news failed: %d %s", rec.Code, rec.Body.String())
	}
	result := parseJSON(t, rec)
	if result["ticker"] != "AAPL" {
		t.Errorf("expected ticker AAPL, got %v", result["ticker"])
	}
	if news := result["news"].([]interface{}); len(news) != 3 {
		t.Errorf("expected 3 articles, got %d", len(news))
	}

	// No chart data configured.
	rec = app.request("GET", "/api/v1/stock/AAPL/history", "", token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for empty chart, got %d", rec.Code)
	}
}
