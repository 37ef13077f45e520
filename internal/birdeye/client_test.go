package birdeye

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tgaskin/birdwatch-backend/internal/httputil"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	c, err := NewClient("test-key-1234567890", Options{
		BaseURL: baseURL,
		Chain:   "solana",
		Timeout: 5 * time.Second,
		Retry:   httputil.RetryConfig{MaxAttempts: 1, BaseDelay: 10 * time.Millisecond, MaxDelay: 50 * time.Millisecond},
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClient_RequiresKey(t *testing.T) {
	if _, err := NewClient("", Options{}); err == nil {
		t.Fatal("expected error for missing API key")
	}
}

func TestTokenList_SendsHeadersAndParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-API-KEY"); got != "test-key-1234567890" {
			t.Errorf("X-API-KEY: got %q", got)
		}
		if got := r.Header.Get("x-chain"); got != "solana" {
			t.Errorf("x-chain: got %q", got)
		}
		if r.URL.Path != "/defi/tokenlist" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("sort_by") != "v24hUSD" || q.Get("sort_type") != "asc" {
			t.Errorf("sort params: got %q/%q", q.Get("sort_by"), q.Get("sort_type"))
		}
		if q.Get("limit") != "5" || q.Get("offset") != "10" {
			t.Errorf("pagination: got limit=%q offset=%q", q.Get("limit"), q.Get("offset"))
		}
		w.Write([]byte(`{"success":true,"data":{"tokens":[
			{"address":"So11111111111111111111111111111111111111112","symbol":"SOL","name":"Wrapped SOL","price":147.32,"v24hUSD":1250000000,"v24hChangePercent":3.4,"mc":68000000000},
			{"address":"EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v","symbol":"USDC","name":"USD Coin","price":1.0,"v24hUSD":900000000,"v24hChangePercent":0.01,"mc":32000000000}
		]}}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	tokens, err := c.TokenList(context.Background(), TokenListParams{
		SortBy: "v24hUSD", SortType: "asc", Limit: 5, Offset: 10,
	})
	if err != nil {
		t.Fatalf("TokenList: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if tokens[0].Symbol != "SOL" || tokens[0].Price != 147.32 {
		t.Fatalf("unexpected first token: %+v", tokens[0])
	}
}

func TestTokenList_ItemsFieldFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"items":[{"symbol":"BONK","price":0.000021}]}}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	tokens, err := c.TokenList(context.Background(), TokenListParams{})
	if err != nil {
		t.Fatalf("TokenList: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Symbol != "BONK" {
		t.Fatalf("unexpected tokens: %+v", tokens)
	}
}

func TestTokenList_RejectsBadSortType(t *testing.T) {
	c := testClient(t, "http://localhost:1")
	if _, err := c.TokenList(context.Background(), TokenListParams{SortType: "sideways"}); err == nil {
		t.Fatal("expected error for invalid sort type")
	}
}

func TestTokenList_SuccessFalseEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"invalid api key"}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.TokenList(context.Background(), TokenListParams{})
	if err == nil {
		t.Fatal("expected error on success:false")
	}
	t.Logf("envelope failure surfaced: %v", err)
}

func TestTokenList_EmptyDataDoesNotFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{}}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	tokens, err := c.TokenList(context.Background(), TokenListParams{})
	if err != nil {
		t.Fatalf("TokenList: %v", err)
	}
	if tokens == nil || len(tokens) != 0 {
		t.Fatalf("expected empty slice, got %#v", tokens)
	}
}

func TestTokenList_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.TokenList(context.Background(), TokenListParams{})
	if !errors.Is(err, httputil.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestValidateKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "1" {
			t.Errorf("expected limit=1, got %q", r.URL.Query().Get("limit"))
		}
		if r.Header.Get("X-API-KEY") == "bad-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"success":true,"data":{"tokens":[{"symbol":"SOL"}]}}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	if err := c.ValidateKey(context.Background()); err != nil {
		t.Fatalf("ValidateKey: %v", err)
	}

	bad, _ := NewClient("bad-key", Options{BaseURL: srv.URL, Retry: httputil.RetryConfig{MaxAttempts: 1}})
	err := bad.ValidateKey(context.Background())
	if !errors.Is(err, httputil.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestPriceHistory_SendsParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/defi/history_price" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("address") != "So11111111111111111111111111111111111111112" {
			t.Errorf("address: got %q", q.Get("address"))
		}
		if q.Get("address_type") != "token" || q.Get("type") != "1h" {
			t.Errorf("type params: got %q/%q", q.Get("address_type"), q.Get("type"))
		}
		if q.Get("time_from") != "1000" || q.Get("time_to") != "2000" {
			t.Errorf("time range: got %q..%q", q.Get("time_from"), q.Get("time_to"))
		}
		w.Write([]byte(`{"success":true,"data":{"items":[
			{"unixTime":1000,"value":1.0},
			{"unixTime":1500,"value":1.2},
			{"unixTime":2000,"value":1.1}
		]}}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	points, err := c.PriceHistory(context.Background(), HistoryParams{
		Address:  "So11111111111111111111111111111111111111112",
		Interval: "1h",
		TimeFrom: 1000,
		TimeTo:   2000,
	})
	if err != nil {
		t.Fatalf("PriceHistory: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[1].UnixTime != 1500 || points[1].Value != 1.2 {
		t.Fatalf("unexpected point: %+v", points[1])
	}
}

func TestPriceHistory_Validation(t *testing.T) {
	c := testClient(t, "http://localhost:1")

	if _, err := c.PriceHistory(context.Background(), HistoryParams{Interval: "1h", TimeFrom: 1, TimeTo: 2}); err == nil {
		t.Fatal("expected error for missing address")
	}
	if _, err := c.PriceHistory(context.Background(), HistoryParams{Address: "x", Interval: "7m", TimeFrom: 1, TimeTo: 2}); err == nil {
		t.Fatal("expected error for invalid interval")
	}
	if _, err := c.PriceHistory(context.Background(), HistoryParams{Address: "x", Interval: "1h", AddressType: "wallet", TimeFrom: 1, TimeTo: 2}); err == nil {
		t.Fatal("expected error for invalid address type")
	}
	if _, err := c.PriceHistory(context.Background(), HistoryParams{Address: "x", Interval: "1h", TimeFrom: 2, TimeTo: 1}); err == nil {
		t.Fatal("expected error for inverted time range")
	}
}

func TestPriceHistory_EmptySeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"items":[]}}`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	points, err := c.PriceHistory(context.Background(), HistoryParams{
		Address: "x", Interval: "5m", TimeFrom: 1, TimeTo: 2,
	})
	if err != nil {
		t.Fatalf("PriceHistory: %v", err)
	}
	if len(points) != 0 {
		t.Fatalf("expected empty series, got %d points", len(points))
	}
}

func TestPriceHistory_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json at all`))
	}))
	defer srv.Close()

	c := testClient(t, srv.URL)
	_, err := c.PriceHistory(context.Background(), HistoryParams{
		Address: "x", Interval: "5m", TimeFrom: 1, TimeTo: 2,
	})
	if err == nil {
		t.Fatal("expected decode error on malformed body")
	}
	t.Logf("malformed body surfaced: %v", err)
}

func TestHistoryParamsForDays(t *testing.T) {
	p := HistoryParamsForDays("addr", "1h", 7)
	if p.TimeTo-p.TimeFrom != 7*24*60*60 {
		t.Fatalf("expected 7 day range, got %d seconds", p.TimeTo-p.TimeFrom)
	}

	// daysBack <= 0 falls back to one day
	p = HistoryParamsForDays("addr", "1h", 0)
	if p.TimeTo-p.TimeFrom != 24*60*60 {
		t.Fatalf("expected 1 day range, got %d seconds", p.TimeTo-p.TimeFrom)
	}
}
