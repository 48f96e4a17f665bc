// Package volume estimates daily transfer activity and derives bridge rate
// limit recommendations. Activity comes from a block explorer, from recorded
// transfer samples, or falls back to a supply-based estimate.
package volume

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"token-migration-lab/internal/domain"
)

// DefaultTimeout bounds one explorer request.
const DefaultTimeout = 15 * time.Second

// highVolumeThreshold is the daily transfer count above which tighter
// per-transaction limits are suggested.
const highVolumeThreshold = 1000

var explorerURLs = map[domain.Chain]string{
	domain.ChainEthereum:  "https://api.etherscan.io/api",
	domain.ChainPolygon:   "https://api.polygonscan.com/api",
	domain.ChainArbitrum:  "https://api.arbiscan.io/api",
	domain.ChainOptimism:  "https://api-optimistic.etherscan.io/api",
	domain.ChainBase:      "https://api.basescan.org/api",
	domain.ChainBSC:       "https://api.bscscan.com/api",
	domain.ChainAvalanche: "https://api.snowtrace.io/api",
}

// Analyzer derives rate limit recommendations from transfer activity.
type Analyzer struct {
	apiKey  string
	client  *http.Client
	baseURL string
	now     func() time.Time
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

// WithClock overrides the time source.
func WithClock(now func() time.Time) AnalyzerOption {
	return func(a *Analyzer) {
		a.now = now
	}
}

// NewAnalyzer creates a volume analyzer. An empty API key switches every
// analysis to the supply-based fallback.
func NewAnalyzer(apiKey string, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		apiKey: apiKey,
		client: &http.Client{Timeout: DefaultTimeout},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

type explorerResponse struct {
	Status string          `json:"status"`
	Result json.RawMessage `json:"result"`
}

type transferTx struct {
	TimeStamp string `json:"timeStamp"`
	Value     string `json:"value"`
}

// Analyze fetches the last 100 transfers and derives a recommendation.
// Explorer failures and empty histories degrade to the supply fallback
// rather than failing the analysis.
func (a *Analyzer) Analyze(ctx context.Context, address string, chain domain.Chain, decimals uint8, totalSupply string) (*domain.RateLimitRecommendation, error) {
	if a.apiKey == "" {
		return fallback(totalSupply, "no explorer API key configured"), nil
	}

	baseURL := a.baseURL
	if baseURL == "" {
		var ok bool
		baseURL, ok = explorerURLs[chain]
		if !ok {
			return fallback(totalSupply, fmt.Sprintf("no explorer endpoint for chain %s", chain)), nil
		}
	}

	url := fmt.Sprintf(
		"%s?module=account&action=tokentx&contractaddress=%s&page=1&offset=100&sort=desc&apikey=%s",
		baseURL, address, a.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fallback(totalSupply, "explorer unreachable"), nil
	}
	defer resp.Body.Close()

	var envelope explorerResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fallback(totalSupply, "unparseable explorer response"), nil
	}

	if envelope.Status != "1" {
		return fallback(totalSupply, "no transfer history available"), nil
	}

	var transfers []transferTx
	if err := json.Unmarshal(envelope.Result, &transfers); err != nil || len(transfers) == 0 {
		return fallback(totalSupply, "no transfer history available"), nil
	}

	count, dailyVolume := a.estimateDailyActivity(transfers, decimals)
	return recommend(count, dailyVolume, totalSupply), nil
}

// FromSamples derives a recommendation from recorded transfer samples,
// typically read back from the transfer sample store. Sample amounts are
// already in whole tokens.
func (a *Analyzer) FromSamples(samples []domain.TransferSample, totalSupply string) *domain.RateLimitRecommendation {
	if len(samples) == 0 {
		return fallback(totalSupply, "no recorded transfer samples")
	}

	cutoff := a.now().Add(-24 * time.Hour).UnixMilli()

	var count uint64
	var dailyVolume float64
	for _, s := range samples {
		if s.TimestampMs >= cutoff {
			count++
			dailyVolume += s.Amount
		}
	}

	if count == 0 {
		return fallback(totalSupply, "no transfer samples in the last 24h")
	}
	return recommend(count, dailyVolume, totalSupply)
}

// estimateDailyActivity counts transfers and volume in the trailing 24h.
// When the most recent 100 transfers are all older than a day, the full
// sample is extrapolated to a daily rate instead.
func (a *Analyzer) estimateDailyActivity(transfers []transferTx, decimals uint8) (uint64, float64) {
	now := uint64(a.now().Unix())
	oneDayAgo := now - 86400
	divisor := math.Pow10(int(decimals))

	var count uint64
	var volume float64

	for _, tx := range transfers {
		ts, err := strconv.ParseUint(tx.TimeStamp, 10, 64)
		if err != nil || ts < oneDayAgo {
			continue
		}
		count++
		if v, err := strconv.ParseFloat(tx.Value, 64); err == nil {
			volume += v / divisor
		}
	}

	if count == 0 && len(transfers) > 0 {
		oldest := now
		if ts, err := strconv.ParseUint(transfers[len(transfers)-1].TimeStamp, 10, 64); err == nil {
			oldest = ts
		}
		span := now - oldest
		if span < 1 {
			span = 1
		}

		rate := float64(len(transfers)) / float64(span)
		count = uint64(rate * 86400)

		var total float64
		for _, tx := range transfers {
			if v, err := strconv.ParseFloat(tx.Value, 64); err == nil {
				total += v / divisor
			}
		}
		volume = total * 86400 / float64(span)
	}

	return count, volume
}

// recommend applies the sizing rules: daily limit is 10% of daily volume
// floored at 0.1% of supply, per-tx limit is 1% of the daily limit.
func recommend(dailyTransfers uint64, dailyVolume float64, totalSupply string) *domain.RateLimitRecommendation {
	supply, err := strconv.ParseFloat(totalSupply, 64)
	if err != nil {
		supply = 1_000_000_000
	}

	volumeLimit := math.Max(dailyVolume*0.1, 1)
	supplyFloor := supply * 0.001
	daily := uint64(math.Max(volumeLimit, supplyFloor))
	perTx := uint64(math.Max(float64(daily)*0.01, 1))

	highVolume := dailyTransfers > highVolumeThreshold

	var reasoning string
	if dailyVolume > 0 {
		activity := "Moderate activity, standard limits appropriate."
		if highVolume {
			activity = "High activity, consider tighter per-tx limits."
		}
		reasoning = fmt.Sprintf(
			"Token moves ~%.0f tokens/day across ~%d transfers. Recommended limit: %d tokens/day (10%% of volume). %s",
			dailyVolume, dailyTransfers, daily, activity)
	} else {
		reasoning = fmt.Sprintf(
			"No recent transfer activity detected. Using supply-based fallback: %d tokens/day (0.1%% of supply).",
			daily)
	}

	return &domain.RateLimitRecommendation{
		DailyTransfers:        dailyTransfers,
		RecommendedDailyLimit: daily,
		RecommendedPerTxLimit: perTx,
		Reasoning:             reasoning,
		HighVolumeWarning:     highVolume,
	}
}

// fallback builds a supply-only recommendation.
func fallback(totalSupply, reason string) *domain.RateLimitRecommendation {
	supply, err := strconv.ParseFloat(totalSupply, 64)
	if err != nil {
		supply = 1_000_000_000
	}

	daily := uint64(math.Max(supply*0.001, 1))
	perTx := uint64(math.Max(float64(daily)*0.01, 1))

	return &domain.RateLimitRecommendation{
		DailyTransfers:        0,
		RecommendedDailyLimit: daily,
		RecommendedPerTxLimit: perTx,
		Reasoning: fmt.Sprintf(
			"Supply-based estimate (%s): %d tokens/day (0.1%% of supply).",
			reason, daily),
		HighVolumeWarning: false,
	}
}
