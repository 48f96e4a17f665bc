package idhash

import (
	"testing"

	"token-migration-lab/internal/domain"
)

const (
	usdtHash = "b8c7c57c8b4ae0b0b08a2f6b0a1f9e7a1a40d17cf3cd6dd9e985e0c9f8d0a011"
	usdcHash = "0d4983d1ff1325ba2c8c1f772da0e3f169cbe07f5f15dfdfcbaf7a7fd9a4e762"
)

func TestComputeAnalysisID(t *testing.T) {
	got := ComputeAnalysisID(domain.ChainEthereum, "0xdac17f958d2ee523a2206206994597c13d831ec7", usdtHash)

	if len(got) != 64 {
		t.Errorf("ComputeAnalysisID() length = %d, want 64", len(got))
	}

	got2 := ComputeAnalysisID(domain.ChainEthereum, "0xdac17f958d2ee523a2206206994597c13d831ec7", usdtHash)
	if got != got2 {
		t.Errorf("ComputeAnalysisID() not deterministic: %s != %s", got, got2)
	}
}

func TestComputeAnalysisID_CaseInsensitiveAddress(t *testing.T) {
	lower := ComputeAnalysisID(domain.ChainEthereum, "0xdac17f958d2ee523a2206206994597c13d831ec7", usdtHash)
	checksummed := ComputeAnalysisID(domain.ChainEthereum, "0xdAC17F958D2ee523a2206206994597C13D831ec7", usdtHash)

	if lower != checksummed {
		t.Error("analysis ID must not depend on address casing")
	}
}

func TestComputeAnalysisID_DifferentInputsDiffer(t *testing.T) {
	base := ComputeAnalysisID(domain.ChainEthereum, "0xdac17f958d2ee523a2206206994597c13d831ec7", usdtHash)

	variants := []string{
		ComputeAnalysisID(domain.ChainPolygon, "0xdac17f958d2ee523a2206206994597c13d831ec7", usdtHash),
		ComputeAnalysisID(domain.ChainEthereum, "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", usdtHash),
		ComputeAnalysisID(domain.ChainEthereum, "0xdac17f958d2ee523a2206206994597c13d831ec7", usdcHash),
	}

	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d collided with base ID", i)
		}
	}
}
