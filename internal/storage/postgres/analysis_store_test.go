package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"token-migration-lab/internal/domain"
	"token-migration-lab/internal/storage"
)

func sampleAnalysis(id string, analyzedAt int64) *domain.Analysis {
	return &domain.Analysis{
		AnalysisID: id,
		Token: domain.TokenMetadata{
			Address:     "0xdac17f958d2ee523a2206206994597c13d831ec7",
			Chain:       domain.ChainEthereum,
			Name:        "Tether USD",
			Symbol:      "USDT",
			Decimals:    6,
			TotalSupply: "48999156520373530",
		},
		Capabilities: domain.TokenCapabilities{
			HasMint:      true,
			HasPause:     true,
			HasBlacklist: true,
		},
		Compatibility: domain.CompatibilityVerdict{
			IsCompatible:    true,
			RecommendedMode: domain.ModeLocking,
			Issues: []domain.CompatibilityIssue{
				{
					Severity: domain.SeverityWarning,
					Code:     domain.IssuePausable,
					Title:    "Pausable token",
				},
			},
			DestinationDecimals: 6,
		},
		RiskScore: domain.RiskScore{
			Total:  45,
			Rating: domain.RiskMedium,
			Components: domain.RiskComponents{
				TokenFeatures: 7,
				BridgeStatus:  15,
			},
		},
		AnalyzedAt: analyzedAt,
	}
}

func TestAnalysisStore_InsertAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewAnalysisStore(pool)
	ctx := context.Background()

	a := sampleAnalysis("abc123", 1704067200000)
	if err := store.Insert(ctx, a); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := store.GetByID(ctx, "abc123")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if got.Token.Symbol != "USDT" {
		t.Errorf("Symbol mismatch: got %s", got.Token.Symbol)
	}
	if got.RiskScore.Total != 45 {
		t.Errorf("risk total mismatch: got %d", got.RiskScore.Total)
	}
	if len(got.Compatibility.Issues) != 1 {
		t.Fatalf("expected 1 issue, got %d", len(got.Compatibility.Issues))
	}
	if got.Compatibility.Issues[0].Severity != domain.SeverityWarning {
		t.Errorf("severity did not round-trip: got %v", got.Compatibility.Issues[0].Severity)
	}
	if got.Compatibility.RecommendedMode != domain.ModeLocking {
		t.Errorf("mode mismatch: got %s", got.Compatibility.RecommendedMode)
	}
}

func TestAnalysisStore_DuplicateKey(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewAnalysisStore(pool)
	ctx := context.Background()

	a := sampleAnalysis("abc123", 1704067200000)
	if err := store.Insert(ctx, a); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.Insert(ctx, a)
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestAnalysisStore_NotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewAnalysisStore(pool)

	_, err := store.GetByID(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestAnalysisStore_GetByTokenAndLatest(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewAnalysisStore(pool)
	ctx := context.Background()

	for _, at := range []int64{300, 100, 200} {
		a := sampleAnalysis(fmt.Sprintf("id-%d", at), at)
		if err := store.Insert(ctx, a); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	// Checksummed input address must still match the lowercased column
	got, err := store.GetByToken(ctx, domain.ChainEthereum, "0xdAC17F958D2ee523a2206206994597C13D831ec7")
	if err != nil {
		t.Fatalf("GetByToken failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 analyses, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].AnalyzedAt > got[i].AnalyzedAt {
			t.Error("expected ascending analyzed_at order")
		}
	}

	latest, err := store.Latest(ctx, domain.ChainEthereum, "0xdac17f958d2ee523a2206206994597c13d831ec7")
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if latest.AnalyzedAt != 300 {
		t.Errorf("expected newest analysis, got analyzed_at=%d", latest.AnalyzedAt)
	}

	_, err = store.Latest(ctx, domain.ChainPolygon, "0xdac17f958d2ee523a2206206994597c13d831ec7")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unseen chain, got %v", err)
	}
}

func TestAnalysisStore_ListRecent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewAnalysisStore(pool)
	ctx := context.Background()

	for _, at := range []int64{100, 200, 300, 400} {
		if err := store.Insert(ctx, sampleAnalysis(fmt.Sprintf("id-%d", at), at)); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	got, err := store.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 analyses, got %d", len(got))
	}
	if got[0].AnalyzedAt != 400 || got[1].AnalyzedAt != 300 {
		t.Errorf("expected newest first, got %d then %d", got[0].AnalyzedAt, got[1].AnalyzedAt)
	}

	if _, err := store.ListRecent(ctx, 0); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for limit 0, got %v", err)
	}
}

func TestAnalysisStore_InvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewAnalysisStore(pool)
	ctx := context.Background()

	if err := store.Insert(ctx, nil); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for nil, got %v", err)
	}
	if err := store.Insert(ctx, &domain.Analysis{}); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("Expected ErrInvalidInput for empty ID, got %v", err)
	}
}
