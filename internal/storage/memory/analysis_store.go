package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"token-migration-lab/internal/domain"
	"token-migration-lab/internal/storage"
)

// AnalysisStore is an in-memory implementation of storage.AnalysisStore.
type AnalysisStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Analysis // keyed by analysis_id
}

// NewAnalysisStore creates a new in-memory analysis store.
func NewAnalysisStore() *AnalysisStore {
	return &AnalysisStore{
		data: make(map[string]*domain.Analysis),
	}
}

// Insert adds a new analysis. Returns ErrDuplicateKey if analysis_id exists.
func (s *AnalysisStore) Insert(_ context.Context, a *domain.Analysis) error {
	if a == nil || a.AnalysisID == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[a.AnalysisID]; exists {
		return storage.ErrDuplicateKey
	}

	// Store a copy to prevent external mutation
	analysisCopy := *a
	s.data[a.AnalysisID] = &analysisCopy
	return nil
}

// GetByID retrieves an analysis by its ID. Returns ErrNotFound if not exists.
func (s *AnalysisStore) GetByID(_ context.Context, analysisID string) (*domain.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.data[analysisID]
	if !exists {
		return nil, storage.ErrNotFound
	}

	analysisCopy := *a
	return &analysisCopy, nil
}

// GetByToken retrieves all analyses for a token, ordered by analyzed_at ASC.
func (s *AnalysisStore) GetByToken(_ context.Context, chain domain.Chain, address string) ([]*domain.Analysis, error) {
	addr := strings.ToLower(address)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Analysis
	for _, a := range s.data {
		if a.Token.Chain == chain && strings.ToLower(a.Token.Address) == addr {
			analysisCopy := *a
			result = append(result, &analysisCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].AnalyzedAt < result[j].AnalyzedAt
	})

	return result, nil
}

// Latest retrieves the most recent analysis for a token.
func (s *AnalysisStore) Latest(ctx context.Context, chain domain.Chain, address string) (*domain.Analysis, error) {
	all, err := s.GetByToken(ctx, chain, address)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, storage.ErrNotFound
	}
	return all[len(all)-1], nil
}

// ListRecent retrieves up to limit analyses across all tokens, newest first.
func (s *AnalysisStore) ListRecent(_ context.Context, limit int) ([]*domain.Analysis, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Analysis, 0, len(s.data))
	for _, a := range s.data {
		analysisCopy := *a
		result = append(result, &analysisCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].AnalyzedAt != result[j].AnalyzedAt {
			return result[i].AnalyzedAt > result[j].AnalyzedAt
		}
		return result[i].AnalysisID < result[j].AnalysisID
	})

	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// Verify interface compliance at compile time.
var _ storage.AnalysisStore = (*AnalysisStore)(nil)
