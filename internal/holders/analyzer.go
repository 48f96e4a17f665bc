// Package holders fetches top-holder lists from Etherscan-family block
// explorers and computes ownership concentration.
package holders

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"token-migration-lab/internal/domain"
)

// DefaultTimeout bounds one explorer request.
const DefaultTimeout = 15 * time.Second

// explorerURLs maps chains to their Etherscan-family API endpoints.
var explorerURLs = map[domain.Chain]string{
	domain.ChainEthereum:  "https://api.etherscan.io/api",
	domain.ChainPolygon:   "https://api.polygonscan.com/api",
	domain.ChainArbitrum:  "https://api.arbiscan.io/api",
	domain.ChainOptimism:  "https://api-optimistic.etherscan.io/api",
	domain.ChainBase:      "https://api.basescan.org/api",
	domain.ChainBSC:       "https://api.bscscan.com/api",
	domain.ChainAvalanche: "https://api.snowtrace.io/api",
}

// Analyzer fetches holder concentration from a block explorer. Holder data
// requires an API key; without one the caller should skip this stage.
type Analyzer struct {
	apiKey  string
	client  *http.Client
	baseURL string // overrides explorerURLs when set, for tests
}

// AnalyzerOption configures Analyzer.
type AnalyzerOption func(*Analyzer)

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) AnalyzerOption {
	return func(a *Analyzer) {
		a.client = client
	}
}

// WithBaseURL overrides the per-chain explorer endpoint.
func WithBaseURL(url string) AnalyzerOption {
	return func(a *Analyzer) {
		a.baseURL = url
	}
}

// NewAnalyzer creates a holder analyzer with the given explorer API key.
func NewAnalyzer(apiKey string, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		apiKey: apiKey,
		client: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// HasKey reports whether an explorer API key is configured.
func (a *Analyzer) HasKey() bool {
	return a.apiKey != ""
}

type explorerResponse struct {
	Status string          `json:"status"`
	Result json.RawMessage `json:"result"`
}

type explorerHolder struct {
	Address string `json:"TokenHolderAddress"`
	Balance string `json:"TokenHolderQuantity"`
}

// TopHolders fetches the top 10 holders and computes concentration
// percentages relative to the fetched set.
func (a *Analyzer) TopHolders(ctx context.Context, address string, chain domain.Chain) (*domain.HolderData, error) {
	if a.apiKey == "" {
		return nil, fmt.Errorf("explorer API key required for holder data")
	}

	baseURL := a.baseURL
	if baseURL == "" {
		var ok bool
		baseURL, ok = explorerURLs[chain]
		if !ok {
			return nil, fmt.Errorf("no explorer endpoint for chain %s", chain)
		}
	}

	url := fmt.Sprintf(
		"%s?module=token&action=tokenholderlist&contractaddress=%s&page=1&offset=10&apikey=%s",
		baseURL, address, a.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch holder data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("explorer status %d", resp.StatusCode)
	}

	var envelope explorerResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("parse holder response: %w", err)
	}

	if envelope.Status != "1" {
		var msg string
		_ = json.Unmarshal(envelope.Result, &msg)
		if msg == "" {
			msg = "unknown error"
		}
		return nil, fmt.Errorf("explorer API error: %s", msg)
	}

	var raw []explorerHolder
	if err := json.Unmarshal(envelope.Result, &raw); err != nil {
		return nil, fmt.Errorf("parse holder list: %w", err)
	}

	return concentration(raw), nil
}

// concentration turns raw explorer holders into percentage shares of the
// fetched set. Unparseable balances count as zero.
func concentration(raw []explorerHolder) *domain.HolderData {
	var total float64
	for _, h := range raw {
		balance, err := strconv.ParseFloat(h.Balance, 64)
		if err == nil {
			total += balance
		}
	}

	holders := make([]domain.HolderInfo, 0, len(raw))
	var top10 float64

	for _, h := range raw {
		balance, err := strconv.ParseFloat(h.Balance, 64)
		if err != nil {
			balance = 0
		}

		var pct float64
		if total > 0 {
			pct = balance / total * 100
		}
		top10 += pct

		holders = append(holders, domain.HolderInfo{
			Address:    h.Address,
			Balance:    h.Balance,
			Percentage: pct,
		})
	}

	return &domain.HolderData{
		TopHolders:         holders,
		Top10Concentration: top10,
	}
}
