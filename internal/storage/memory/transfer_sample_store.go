package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"token-migration-lab/internal/domain"
	"token-migration-lab/internal/storage"
)

// TransferSampleStore is an in-memory implementation of storage.TransferSampleStore.
type TransferSampleStore struct {
	mu   sync.RWMutex
	data map[string]*domain.TransferSample // keyed by chain|token|tx_hash|log_index
}

// NewTransferSampleStore creates a new in-memory transfer sample store.
func NewTransferSampleStore() *TransferSampleStore {
	return &TransferSampleStore{
		data: make(map[string]*domain.TransferSample),
	}
}

func sampleKey(s *domain.TransferSample) string {
	return fmt.Sprintf("%s|%s|%s|%d", s.Chain, strings.ToLower(s.Token), s.TxHash, s.LogIndex)
}

// InsertBulk adds multiple samples. Fails entire batch on any duplicate.
func (s *TransferSampleStore) InsertBulk(_ context.Context, samples []*domain.TransferSample) error {
	if len(samples) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Validate the whole batch before writing anything
	seen := make(map[string]struct{}, len(samples))
	for _, sample := range samples {
		if sample == nil || sample.Token == "" || sample.TxHash == "" {
			return storage.ErrInvalidInput
		}
		k := sampleKey(sample)
		if _, dup := seen[k]; dup {
			return storage.ErrDuplicateKey
		}
		if _, exists := s.data[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	for _, sample := range samples {
		sampleCopy := *sample
		s.data[sampleKey(sample)] = &sampleCopy
	}
	return nil
}

// GetByToken retrieves samples within [start, end], ordered by timestamp ASC.
func (s *TransferSampleStore) GetByToken(_ context.Context, chain domain.Chain, token string, start, end int64) ([]*domain.TransferSample, error) {
	addr := strings.ToLower(token)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TransferSample
	for _, sample := range s.data {
		if sample.Chain == chain && strings.ToLower(sample.Token) == addr &&
			sample.TimestampMs >= start && sample.TimestampMs <= end {
			sampleCopy := *sample
			result = append(result, &sampleCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].TimestampMs != result[j].TimestampMs {
			return result[i].TimestampMs < result[j].TimestampMs
		}
		return result[i].LogIndex < result[j].LogIndex
	})

	return result, nil
}

// CountByToken returns the total number of samples recorded for a token.
func (s *TransferSampleStore) CountByToken(_ context.Context, chain domain.Chain, token string) (uint64, error) {
	addr := strings.ToLower(token)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var count uint64
	for _, sample := range s.data {
		if sample.Chain == chain && strings.ToLower(sample.Token) == addr {
			count++
		}
	}
	return count, nil
}

// Verify interface compliance at compile time.
var _ storage.TransferSampleStore = (*TransferSampleStore)(nil)
