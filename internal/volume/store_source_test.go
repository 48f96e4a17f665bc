package volume

import (
	"context"
	"testing"
	"time"

	"token-migration-lab/internal/domain"
	"token-migration-lab/internal/storage/memory"
)

func TestStoreSource_Analyze(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	token := "0xdac17f958d2ee523a2206206994597c13d831ec7"

	store := memory.NewTransferSampleStore()
	err := store.InsertBulk(context.Background(), []*domain.TransferSample{
		{
			Chain: domain.ChainEthereum, Token: token,
			TxHash: "0xaa", LogIndex: 0, Amount: 600000,
			TimestampMs: now.Add(-2 * time.Hour).UnixMilli(),
		},
		{
			Chain: domain.ChainEthereum, Token: token,
			TxHash: "0xbb", LogIndex: 1, Amount: 400000,
			TimestampMs: now.Add(-6 * time.Hour).UnixMilli(),
		},
	})
	if err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	src := NewStoreSource(store, NewAnalyzer("")).WithSourceClock(func() time.Time { return now })

	rec, err := src.Analyze(context.Background(), token, domain.ChainEthereum, 6, "100000000")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if rec.DailyTransfers != 2 {
		t.Errorf("expected 2 daily transfers, got %d", rec.DailyTransfers)
	}
	// 10% of the 1M daily volume beats the 0.1% supply floor.
	if rec.RecommendedDailyLimit != 100000 {
		t.Errorf("expected daily limit 100000, got %d", rec.RecommendedDailyLimit)
	}
}

func TestStoreSource_Analyze_NoSamplesFallsBack(t *testing.T) {
	store := memory.NewTransferSampleStore()
	src := NewStoreSource(store, NewAnalyzer(""))

	rec, err := src.Analyze(context.Background(), "0xdac17f958d2ee523a2206206994597c13d831ec7", domain.ChainEthereum, 6, "1000000")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	// Keyless fallback analyzer recommends 0.1% of supply.
	if rec.RecommendedDailyLimit != 1000 {
		t.Errorf("expected supply-based limit 1000, got %d", rec.RecommendedDailyLimit)
	}
}
