package volume

import (
	"context"
	"time"

	"token-migration-lab/internal/domain"
	"token-migration-lab/internal/storage"
)

// StoreSource derives rate limit recommendations from recorded transfer
// samples, falling back to the explorer-backed analyzer when no samples
// exist for the token.
type StoreSource struct {
	store    storage.TransferSampleStore
	fallback *Analyzer
	now      func() time.Time
}

// NewStoreSource creates a sample-backed volume source. fallback handles
// tokens without recorded samples and must not be nil.
func NewStoreSource(store storage.TransferSampleStore, fallback *Analyzer) *StoreSource {
	return &StoreSource{
		store:    store,
		fallback: fallback,
		now:      time.Now,
	}
}

// WithSourceClock overrides the time source.
func (s *StoreSource) WithSourceClock(now func() time.Time) *StoreSource {
	s.now = now
	s.fallback.now = now
	return s
}

// Analyze reads the trailing 24h of samples for the token. Store errors
// degrade to the fallback path rather than failing the analysis.
func (s *StoreSource) Analyze(ctx context.Context, address string, chain domain.Chain, decimals uint8, totalSupply string) (*domain.RateLimitRecommendation, error) {
	end := s.now().UnixMilli()
	start := s.now().Add(-24 * time.Hour).UnixMilli()

	samples, err := s.store.GetByToken(ctx, chain, address, start, end)
	if err != nil || len(samples) == 0 {
		return s.fallback.Analyze(ctx, address, chain, decimals, totalSupply)
	}

	flat := make([]domain.TransferSample, len(samples))
	for i, sample := range samples {
		flat[i] = *sample
	}
	return s.fallback.FromSamples(flat, totalSupply), nil
}
