package clickhouse

import (
	"context"
	"errors"
	"testing"

	"token-migration-lab/internal/domain"
	"token-migration-lab/internal/storage"
)

func sampleTransfer(txHash string, logIndex uint32, ts int64) *domain.TransferSample {
	return &domain.TransferSample{
		Chain:       domain.ChainEthereum,
		Token:       "0xdac17f958d2ee523a2206206994597c13d831ec7",
		TxHash:      txHash,
		LogIndex:    logIndex,
		BlockNumber: 19000000,
		Amount:      1500.5,
		TimestampMs: ts,
	}
}

func TestTransferSampleStore_InsertBulkAndGet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTransferSampleStore(conn)
	ctx := context.Background()

	samples := []*domain.TransferSample{
		sampleTransfer("0xaaa", 0, 300),
		sampleTransfer("0xbbb", 1, 100),
		sampleTransfer("0xccc", 2, 200),
	}

	if err := store.InsertBulk(ctx, samples); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByToken(ctx, domain.ChainEthereum,
		"0xDAC17F958D2ee523a2206206994597C13D831ec7", 0, 1000)
	if err != nil {
		t.Fatalf("GetByToken failed: %v", err)
	}

	if len(got) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(got))
	}
	if got[0].TimestampMs != 100 || got[2].TimestampMs != 300 {
		t.Error("expected ascending timestamp order")
	}
	if got[0].Amount != 1500.5 {
		t.Errorf("amount mismatch: got %f", got[0].Amount)
	}
}

func TestTransferSampleStore_TimeRange(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTransferSampleStore(conn)
	ctx := context.Background()

	samples := []*domain.TransferSample{
		sampleTransfer("0xaaa", 0, 100),
		sampleTransfer("0xbbb", 0, 200),
		sampleTransfer("0xccc", 0, 300),
	}
	if err := store.InsertBulk(ctx, samples); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	got, err := store.GetByToken(ctx, domain.ChainEthereum,
		"0xdac17f958d2ee523a2206206994597c13d831ec7", 100, 200)
	if err != nil {
		t.Fatalf("GetByToken failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected inclusive bounds to match 2 samples, got %d", len(got))
	}
}

func TestTransferSampleStore_DuplicateInBatch(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTransferSampleStore(conn)
	ctx := context.Background()

	samples := []*domain.TransferSample{
		sampleTransfer("0xaaa", 0, 100),
		sampleTransfer("0xaaa", 0, 100),
	}

	err := store.InsertBulk(ctx, samples)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestTransferSampleStore_DuplicateAgainstExisting(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTransferSampleStore(conn)
	ctx := context.Background()

	if err := store.InsertBulk(ctx, []*domain.TransferSample{sampleTransfer("0xaaa", 0, 100)}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	err := store.InsertBulk(ctx, []*domain.TransferSample{sampleTransfer("0xaaa", 0, 999)})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestTransferSampleStore_CountByToken(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTransferSampleStore(conn)
	ctx := context.Background()

	samples := []*domain.TransferSample{
		sampleTransfer("0xaaa", 0, 100),
		sampleTransfer("0xbbb", 0, 200),
	}
	other := sampleTransfer("0xccc", 0, 100)
	other.Token = "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"

	if err := store.InsertBulk(ctx, append(samples, other)); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	count, err := store.CountByToken(ctx, domain.ChainEthereum,
		"0xdac17f958d2ee523a2206206994597c13d831ec7")
	if err != nil {
		t.Fatalf("CountByToken failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 samples, got %d", count)
	}
}

func TestTransferSampleStore_EmptyBatch(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTransferSampleStore(conn)

	if err := store.InsertBulk(context.Background(), nil); err != nil {
		t.Errorf("empty batch must be a no-op, got %v", err)
	}
}
