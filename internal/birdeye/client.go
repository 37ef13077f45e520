package birdeye

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tgaskin/birdwatch-backend/internal/httputil"
	"github.com/tgaskin/birdwatch-backend/internal/models"
)

const DefaultBaseURL = "https://public-api.birdeye.so"

// Client talks to the Birdeye public API. All requests carry the API key
// and chain headers; responses share a {success, message, data} envelope.
type Client struct {
	apiKey     string
	chain      string
	baseURL    string
	httpClient *http.Client
	retry      httputil.RetryConfig
}

type Options struct {
	BaseURL string
	Chain   string
	Timeout time.Duration
	Retry   httputil.RetryConfig
}

func NewClient(apiKey string, opts Options) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	chain := opts.Chain
	if chain == "" {
		chain = "solana"
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	retry := opts.Retry
	if retry.MaxAttempts <= 0 {
		retry = httputil.DefaultRetry
	}

	return &Client{
		apiKey:     apiKey,
		chain:      chain,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		retry:      retry,
	}, nil
}

// envelope is the common Birdeye response wrapper. A 200 with success=false
// still means the call failed; the message says why.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// ValidateKey issues a minimal token list request and reports whether the
// configured key is accepted by the provider.
func (c *Client) ValidateKey(ctx context.Context) error {
	_, err := c.TokenList(ctx, TokenListParams{Limit: 1})
	if err != nil {
		return fmt.Errorf("key validation: %w", err)
	}
	return nil
}

type TokenListParams struct {
	SortBy   string // e.g. "price", "v24hUSD", "v24hChangePercent", "mc"
	SortType string // "asc" or "desc"
	Limit    int
	Offset   int
}

func (p TokenListParams) withDefaults() TokenListParams {
	if p.SortBy == "" {
		p.SortBy = "v24hChangePercent"
	}
	if p.SortType == "" {
		p.SortType = "desc"
	}
	if p.Limit <= 0 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// TokenList fetches one page of the provider's token list, sorted as
// requested. The offset/limit pair is passed straight through.
func (c *Client) TokenList(ctx context.Context, params TokenListParams) ([]models.Token, error) {
	params = params.withDefaults()
	if params.SortType != "asc" && params.SortType != "desc" {
		return nil, fmt.Errorf("sort type must be asc or desc, got %q", params.SortType)
	}

	q := url.Values{}
	q.Set("sort_by", params.SortBy)
	q.Set("sort_type", params.SortType)
	q.Set("limit", strconv.Itoa(params.Limit))
	q.Set("offset", strconv.Itoa(params.Offset))

	data, err := c.get(ctx, "/defi/tokenlist", q)
	if err != nil {
		return nil, fmt.Errorf("token list: %w", err)
	}

	var body struct {
		Tokens []models.Token `json:"tokens"`
		Items  []models.Token `json:"items"`
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, fmt.Errorf("token list: decode data: %w", err)
		}
	}

	tokens := body.Tokens
	if tokens == nil {
		tokens = body.Items
	}
	if tokens == nil {
		tokens = []models.Token{}
	}
	return tokens, nil
}

type HistoryParams struct {
	Address     string
	AddressType string // "token" or "pair"
	Interval    string // 1m, 5m, 15m, 30m, 1h, 1d
	TimeFrom    int64  // unix seconds
	TimeTo      int64  // unix seconds
}

var validIntervals = map[string]bool{
	"1m": true, "5m": true, "15m": true, "30m": true, "1h": true, "1d": true,
}

// HistoryParamsForDays builds a params struct covering the last daysBack
// days ending now.
func HistoryParamsForDays(address, interval string, daysBack int) HistoryParams {
	if daysBack <= 0 {
		daysBack = 1
	}
	now := time.Now().Unix()
	return HistoryParams{
		Address:  address,
		Interval: interval,
		TimeFrom: now - int64(daysBack)*24*60*60,
		TimeTo:   now,
	}
}

// PriceHistory fetches the historical price series for a token address over
// the given time range. An empty series from the provider is returned as an
// empty slice.
func (c *Client) PriceHistory(ctx context.Context, params HistoryParams) ([]models.PricePoint, error) {
	if params.Address == "" {
		return nil, fmt.Errorf("token address is required")
	}
	interval := params.Interval
	if interval == "" {
		interval = "5m"
	}
	if !validIntervals[interval] {
		return nil, fmt.Errorf("invalid interval %q (want one of 1m 5m 15m 30m 1h 1d)", interval)
	}
	addressType := params.AddressType
	if addressType == "" {
		addressType = "token"
	}
	if addressType != "token" && addressType != "pair" {
		return nil, fmt.Errorf("address type must be token or pair, got %q", addressType)
	}
	if params.TimeFrom >= params.TimeTo {
		return nil, fmt.Errorf("time_from (%d) must be before time_to (%d)", params.TimeFrom, params.TimeTo)
	}

	q := url.Values{}
	q.Set("address", params.Address)
	q.Set("address_type", addressType)
	q.Set("type", interval)
	q.Set("time_from", strconv.FormatInt(params.TimeFrom, 10))
	q.Set("time_to", strconv.FormatInt(params.TimeTo, 10))

	data, err := c.get(ctx, "/defi/history_price", q)
	if err != nil {
		return nil, fmt.Errorf("price history: %w", err)
	}

	var body struct {
		Items []models.PricePoint `json:"items"`
	}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &body); err != nil {
			return nil, fmt.Errorf("price history: decode data: %w", err)
		}
	}
	if body.Items == nil {
		body.Items = []models.PricePoint{}
	}
	return body.Items, nil
}

// get performs an authenticated GET against path with query params and
// unwraps the response envelope.
func (c *Client) get(ctx context.Context, path string, q url.Values) (json.RawMessage, error) {
	reqURL := c.baseURL + path
	if len(q) > 0 {
		reqURL += "?" + q.Encode()
	}

	resp, err := httputil.Do(ctx, c.httpClient, c.retry, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("accept", "application/json")
		req.Header.Set("x-chain", c.chain)
		req.Header.Set("X-API-KEY", c.apiKey)
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "provider reported failure"
		}
		return nil, fmt.Errorf("API error: %s", msg)
	}
	return env.Data, nil
}
