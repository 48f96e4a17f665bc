package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"token-migration-lab/internal/domain"
	"token-migration-lab/internal/storage"
)

// AnalysisStore implements storage.AnalysisStore using PostgreSQL.
// Scalar columns carry the queryable fields; the full record is kept as a
// JSONB payload so schema churn in nested structures never needs a
// migration.
type AnalysisStore struct {
	pool *Pool
}

// NewAnalysisStore creates a new AnalysisStore.
func NewAnalysisStore(pool *Pool) *AnalysisStore {
	return &AnalysisStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AnalysisStore = (*AnalysisStore)(nil)

// Insert adds a new analysis. Returns ErrDuplicateKey if analysis_id exists.
func (s *AnalysisStore) Insert(ctx context.Context, a *domain.Analysis) error {
	if a == nil || a.AnalysisID == "" {
		return storage.ErrInvalidInput
	}

	payload, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal analysis payload: %w", err)
	}

	query := `
		INSERT INTO analyses (
			analysis_id, chain, address, symbol, risk_total, risk_rating,
			recommended_mode, is_compatible, analyzed_at, payload
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = s.pool.Exec(ctx, query,
		a.AnalysisID,
		string(a.Token.Chain),
		strings.ToLower(a.Token.Address),
		a.Token.Symbol,
		a.RiskScore.Total,
		string(a.RiskScore.Rating),
		string(a.Compatibility.RecommendedMode),
		a.Compatibility.IsCompatible,
		a.AnalyzedAt,
		payload,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// GetByID retrieves an analysis by its ID. Returns ErrNotFound if not exists.
func (s *AnalysisStore) GetByID(ctx context.Context, analysisID string) (*domain.Analysis, error) {
	query := `
		SELECT payload
		FROM analyses
		WHERE analysis_id = $1
	`

	row := s.pool.QueryRow(ctx, query, analysisID)
	a, err := scanAnalysis(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get analysis by id: %w", err)
	}
	return a, nil
}

// GetByToken retrieves all analyses for a token, ordered by analyzed_at ASC.
func (s *AnalysisStore) GetByToken(ctx context.Context, chain domain.Chain, address string) ([]*domain.Analysis, error) {
	query := `
		SELECT payload
		FROM analyses
		WHERE chain = $1 AND address = $2
		ORDER BY analyzed_at ASC, analysis_id ASC
	`

	rows, err := s.pool.Query(ctx, query, string(chain), strings.ToLower(address))
	if err != nil {
		return nil, fmt.Errorf("get analyses by token: %w", err)
	}
	defer rows.Close()

	return scanAnalyses(rows)
}

// Latest retrieves the most recent analysis for a token.
func (s *AnalysisStore) Latest(ctx context.Context, chain domain.Chain, address string) (*domain.Analysis, error) {
	query := `
		SELECT payload
		FROM analyses
		WHERE chain = $1 AND address = $2
		ORDER BY analyzed_at DESC, analysis_id DESC
		LIMIT 1
	`

	row := s.pool.QueryRow(ctx, query, string(chain), strings.ToLower(address))
	a, err := scanAnalysis(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get latest analysis: %w", err)
	}
	return a, nil
}

// ListRecent retrieves up to limit analyses across all tokens, newest first.
func (s *AnalysisStore) ListRecent(ctx context.Context, limit int) ([]*domain.Analysis, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT payload
		FROM analyses
		ORDER BY analyzed_at DESC, analysis_id DESC
		LIMIT $1
	`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent analyses: %w", err)
	}
	defer rows.Close()

	return scanAnalyses(rows)
}

func scanAnalysis(row pgx.Row) (*domain.Analysis, error) {
	var payload []byte
	if err := row.Scan(&payload); err != nil {
		return nil, err
	}

	var a domain.Analysis
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("unmarshal analysis payload: %w", err)
	}
	return &a, nil
}

func scanAnalyses(rows pgx.Rows) ([]*domain.Analysis, error) {
	var result []*domain.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("scan analysis row: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate analysis rows: %w", err)
	}
	return result, nil
}
