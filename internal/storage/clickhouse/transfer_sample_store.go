package clickhouse

import (
	"context"
	"fmt"
	"strings"

	"token-migration-lab/internal/domain"
	"token-migration-lab/internal/storage"
)

// TransferSampleStore implements storage.TransferSampleStore using ClickHouse.
type TransferSampleStore struct {
	conn *Conn
}

// NewTransferSampleStore creates a new TransferSampleStore.
func NewTransferSampleStore(conn *Conn) *TransferSampleStore {
	return &TransferSampleStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TransferSampleStore = (*TransferSampleStore)(nil)

// InsertBulk adds multiple samples. Fails entire batch on duplicate
// (chain, token, tx_hash, log_index).
func (s *TransferSampleStore) InsertBulk(ctx context.Context, samples []*domain.TransferSample) error {
	if len(samples) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		chain    domain.Chain
		token    string
		txHash   string
		logIndex uint32
	}
	seen := make(map[key]struct{}, len(samples))
	for _, sample := range samples {
		if sample == nil || sample.Token == "" || sample.TxHash == "" {
			return storage.ErrInvalidInput
		}
		k := key{sample.Chain, strings.ToLower(sample.Token), sample.TxHash, sample.LogIndex}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, sample := range samples {
		exists, err := s.exists(ctx, sample)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO transfer_samples (
			chain, token, tx_hash, log_index, block_number, amount, timestamp_ms
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, sample := range samples {
		err = batch.Append(
			string(sample.Chain),
			strings.ToLower(sample.Token),
			sample.TxHash,
			sample.LogIndex,
			sample.BlockNumber,
			sample.Amount,
			sample.TimestampMs,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByToken retrieves samples within [start, end], ordered by timestamp ASC.
func (s *TransferSampleStore) GetByToken(ctx context.Context, chain domain.Chain, token string, start, end int64) ([]*domain.TransferSample, error) {
	query := `
		SELECT chain, token, tx_hash, log_index, block_number, amount, timestamp_ms
		FROM transfer_samples
		WHERE chain = ? AND token = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC, log_index ASC
	`

	rows, err := s.conn.Query(ctx, query, string(chain), strings.ToLower(token), start, end)
	if err != nil {
		return nil, fmt.Errorf("get samples by token: %w", err)
	}
	defer rows.Close()

	var result []*domain.TransferSample
	for rows.Next() {
		var sample domain.TransferSample
		var chainStr string
		err := rows.Scan(
			&chainStr,
			&sample.Token,
			&sample.TxHash,
			&sample.LogIndex,
			&sample.BlockNumber,
			&sample.Amount,
			&sample.TimestampMs,
		)
		if err != nil {
			return nil, fmt.Errorf("scan sample row: %w", err)
		}
		sample.Chain = domain.Chain(chainStr)
		result = append(result, &sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sample rows: %w", err)
	}

	return result, nil
}

// CountByToken returns the total number of samples recorded for a token.
func (s *TransferSampleStore) CountByToken(ctx context.Context, chain domain.Chain, token string) (uint64, error) {
	query := `
		SELECT count()
		FROM transfer_samples
		WHERE chain = ? AND token = ?
	`

	var count uint64
	row := s.conn.QueryRow(ctx, query, string(chain), strings.ToLower(token))
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count samples by token: %w", err)
	}
	return count, nil
}

func (s *TransferSampleStore) exists(ctx context.Context, sample *domain.TransferSample) (bool, error) {
	query := `
		SELECT count()
		FROM transfer_samples
		WHERE chain = ? AND token = ? AND tx_hash = ? AND log_index = ?
	`

	var count uint64
	row := s.conn.QueryRow(ctx, query,
		string(sample.Chain), strings.ToLower(sample.Token), sample.TxHash, sample.LogIndex)
	if err := row.Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
