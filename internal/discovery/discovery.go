// Package discovery finds ERC-20 migration candidates: top tokens from the
// CoinGecko markets API with a curated fallback list.
package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds one API request.
const DefaultTimeout = 15 * time.Second

// defaultBaseURL is the public CoinGecko v3 API.
const defaultBaseURL = "https://api.coingecko.com/api/v3"

// lookupPause spaces per-coin detail requests to stay inside the free-tier
// rate limit.
const lookupPause = 250 * time.Millisecond

// Token is one discovered migration candidate.
type Token struct {
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	MarketCapRank uint32 `json:"market_cap_rank,omitempty"`
}

// Discovery lists candidate tokens for analysis.
type Discovery struct {
	client  *http.Client
	baseURL string
	pause   time.Duration
}

// Option configures Discovery.
type Option func(*Discovery)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(d *Discovery) {
		d.client = client
	}
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(url string) Option {
	return func(d *Discovery) {
		d.baseURL = url
	}
}

// WithLookupPause overrides the delay between per-coin detail requests.
func WithLookupPause(pause time.Duration) Option {
	return func(d *Discovery) {
		d.pause = pause
	}
}

// New creates a token discovery client.
func New(opts ...Option) *Discovery {
	d := &Discovery{
		client:  &http.Client{Timeout: DefaultTimeout},
		baseURL: defaultBaseURL,
		pause:   lookupPause,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type marketItem struct {
	ID            string `json:"id"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	MarketCapRank uint32 `json:"market_cap_rank"`
}

type coinDetail struct {
	Platforms map[string]string `json:"platforms"`
}

// Discover returns up to limit candidates, live from the API when it
// answers, otherwise from the curated list.
func (d *Discovery) Discover(ctx context.Context, limit int) []Token {
	tokens, err := d.fromAPI(ctx, limit)
	if err == nil && len(tokens) > 0 {
		return tokens
	}
	return CuratedFallback(limit)
}

// fromAPI fetches top ethereum-ecosystem tokens by market cap, then resolves
// each coin's contract address.
func (d *Discovery) fromAPI(ctx context.Context, limit int) ([]Token, error) {
	pageSize := limit
	if pageSize > 100 {
		pageSize = 100
	}

	url := fmt.Sprintf(
		"%s/coins/markets?vs_currency=usd&category=ethereum-ecosystem&order=market_cap_desc&per_page=%d&page=1",
		d.baseURL, pageSize)

	var items []marketItem
	if err := d.getJSON(ctx, url, &items); err != nil {
		return nil, err
	}

	tokens := make([]Token, 0, len(items))
	for i, item := range items {
		if i >= limit {
			break
		}

		address, err := d.ethAddress(ctx, item.ID)
		if err == nil && address != "" {
			tokens = append(tokens, Token{
				Symbol:        strings.ToUpper(item.Symbol),
				Name:          item.Name,
				Address:       address,
				MarketCapRank: item.MarketCapRank,
			})
		}

		select {
		case <-ctx.Done():
			return tokens, ctx.Err()
		case <-time.After(d.pause):
		}
	}

	return tokens, nil
}

// ethAddress resolves the Ethereum contract address for a coin ID. Returns
// "" when the coin has no usable Ethereum deployment.
func (d *Discovery) ethAddress(ctx context.Context, coinID string) (string, error) {
	url := fmt.Sprintf(
		"%s/coins/%s?localization=false&tickers=false&community_data=false&developer_data=false",
		d.baseURL, coinID)

	var detail coinDetail
	if err := d.getJSON(ctx, url, &detail); err != nil {
		return "", err
	}

	addr := detail.Platforms["ethereum"]
	if !strings.HasPrefix(addr, "0x") || len(addr) != 42 {
		return "", nil
	}
	return addr, nil
}

func (d *Discovery) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("discovery request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("discovery status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode discovery response: %w", err)
	}
	return nil
}
