package storage

import (
	"context"

	"token-migration-lab/internal/domain"
)

// AnalysisStore provides access to analyses storage.
type AnalysisStore interface {
	// Insert adds a new analysis. Returns ErrDuplicateKey if analysis_id exists.
	Insert(ctx context.Context, a *domain.Analysis) error

	// GetByID retrieves an analysis by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, analysisID string) (*domain.Analysis, error)

	// GetByToken retrieves all analyses for a token, ordered by analyzed_at ASC.
	GetByToken(ctx context.Context, chain domain.Chain, address string) ([]*domain.Analysis, error)

	// Latest retrieves the most recent analysis for a token. Returns ErrNotFound if none exist.
	Latest(ctx context.Context, chain domain.Chain, address string) (*domain.Analysis, error)

	// ListRecent retrieves up to limit analyses across all tokens, newest first.
	ListRecent(ctx context.Context, limit int) ([]*domain.Analysis, error)
}

// TransferSampleStore provides access to transfer_samples storage.
type TransferSampleStore interface {
	// InsertBulk adds multiple samples. Fails entire batch on duplicate
	// (chain, token, tx_hash, log_index).
	InsertBulk(ctx context.Context, samples []*domain.TransferSample) error

	// GetByToken retrieves samples for a token within [start, end] millisecond
	// timestamps (inclusive), ordered by timestamp ASC.
	GetByToken(ctx context.Context, chain domain.Chain, token string, start, end int64) ([]*domain.TransferSample, error)

	// CountByToken returns the total number of samples recorded for a token.
	CountByToken(ctx context.Context, chain domain.Chain, token string) (uint64, error)
}
