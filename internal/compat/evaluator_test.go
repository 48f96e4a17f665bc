package compat

import (
	"testing"

	"token-migration-lab/internal/domain"
)

func sampleToken(decimals uint8) domain.TokenMetadata {
	return domain.TokenMetadata{
		Address:     "0x0000000000000000000000000000000000000001",
		Chain:       domain.ChainEthereum,
		Name:        "Test",
		Symbol:      "TEST",
		Decimals:    decimals,
		TotalSupply: "1000000",
	}
}

func hasIssue(issues []domain.CompatibilityIssue, code string, sev domain.Severity) bool {
	for _, i := range issues {
		if i.Code == code && i.Severity == sev {
			return true
		}
	}
	return false
}

func TestEvaluate_HighDecimalsWarning(t *testing.T) {
	e := NewEvaluator()

	v := e.Evaluate(sampleToken(18), domain.TokenCapabilities{}, domain.BytecodeProfile{})
	if !v.DecimalTrimmingRequired {
		t.Error("18 decimals should require trimming")
	}
	if v.DestinationDecimals != 8 {
		t.Errorf("destination decimals = %d, want 8", v.DestinationDecimals)
	}
	if !hasIssue(v.Issues, domain.IssueDecimalTrim, domain.SeverityWarning) {
		t.Error("DECIMAL_TRIM warning missing")
	}
	if !v.IsCompatible {
		t.Error("trimming alone should not block compatibility")
	}
}

func TestEvaluate_NoTrimmingWithinCeiling(t *testing.T) {
	e := NewEvaluator()

	for _, d := range []uint8{0, 6, 8} {
		v := e.Evaluate(sampleToken(d), domain.TokenCapabilities{}, domain.BytecodeProfile{})
		if v.DecimalTrimmingRequired {
			t.Errorf("decimals=%d should not require trimming", d)
		}
		if v.DestinationDecimals != d {
			t.Errorf("decimals=%d: destination = %d, want source precision", d, v.DestinationDecimals)
		}
	}
}

func TestEvaluate_NineDecimals(t *testing.T) {
	e := NewEvaluator()

	v := e.Evaluate(sampleToken(9), domain.TokenCapabilities{}, domain.BytecodeProfile{})
	if !v.DecimalTrimmingRequired {
		t.Error("9 decimals should require trimming")
	}
	if v.DestinationDecimals != 8 {
		t.Errorf("destination decimals = %d, want 8", v.DestinationDecimals)
	}
}

func TestEvaluate_RebasingVeto(t *testing.T) {
	e := NewEvaluator()

	// Rebasing vetoes regardless of every other flag being favorable
	caps := domain.TokenCapabilities{IsRebasing: true, HasBurn: true, HasPermit: true}
	v := e.Evaluate(sampleToken(6), caps, domain.BytecodeProfile{})

	if v.IsCompatible {
		t.Error("rebasing token must be non-compatible")
	}
	if !hasIssue(v.Issues, domain.IssueRebasing, domain.SeverityError) {
		t.Error("REBASING error missing")
	}
}

func TestEvaluate_FeeOnTransferError(t *testing.T) {
	e := NewEvaluator()

	profile := domain.BytecodeProfile{HasFeePattern: true}
	v := e.Evaluate(sampleToken(6), domain.TokenCapabilities{}, profile)

	if v.IsCompatible {
		t.Error("fee-on-transfer token must be non-compatible")
	}
	if !hasIssue(v.Issues, domain.IssueFeeOnTransfer, domain.SeverityError) {
		t.Error("FEE_ON_TRANSFER error missing")
	}
}

func TestEvaluate_WarningsDoNotBlock(t *testing.T) {
	e := NewEvaluator()

	caps := domain.TokenCapabilities{HasPause: true, HasBlacklist: true}
	profile := domain.BytecodeProfile{HasSelfdestruct: true}
	v := e.Evaluate(sampleToken(6), caps, profile)

	if !v.IsCompatible {
		t.Error("warnings alone should not block compatibility")
	}
	if !hasIssue(v.Issues, domain.IssuePausable, domain.SeverityWarning) {
		t.Error("PAUSABLE warning missing")
	}
	if !hasIssue(v.Issues, domain.IssueBlacklist, domain.SeverityWarning) {
		t.Error("BLACKLIST warning missing")
	}
	if !hasIssue(v.Issues, domain.IssueSelfdestruct, domain.SeverityWarning) {
		t.Error("SELFDESTRUCT warning missing")
	}
}

func TestEvaluate_ModeSelection(t *testing.T) {
	e := NewEvaluator()

	burn := e.Evaluate(sampleToken(6), domain.TokenCapabilities{HasBurn: true}, domain.BytecodeProfile{})
	if burn.RecommendedMode != domain.ModeBurning {
		t.Errorf("burnable token mode = %s, want burning", burn.RecommendedMode)
	}

	// Mint alone never enables burning mode
	mintOnly := e.Evaluate(sampleToken(6), domain.TokenCapabilities{HasMint: true}, domain.BytecodeProfile{})
	if mintOnly.RecommendedMode != domain.ModeLocking {
		t.Errorf("mint-only token mode = %s, want locking", mintOnly.RecommendedMode)
	}

	plain := e.Evaluate(sampleToken(6), domain.TokenCapabilities{}, domain.BytecodeProfile{})
	if plain.RecommendedMode != domain.ModeLocking {
		t.Errorf("plain token mode = %s, want locking", plain.RecommendedMode)
	}
}

func TestEvaluate_InfoIssues(t *testing.T) {
	e := NewEvaluator()

	caps := domain.TokenCapabilities{HasMint: true, HasBurn: true}
	profile := domain.BytecodeProfile{IsProxy: true, ProxyType: domain.ProxyTransparentUpgradeable}
	v := e.Evaluate(sampleToken(6), caps, profile)

	if !v.IsCompatible {
		t.Error("info issues should not block compatibility")
	}
	if !hasIssue(v.Issues, domain.IssueMintable, domain.SeverityInfo) {
		t.Error("MINTABLE info missing")
	}
	if !hasIssue(v.Issues, domain.IssueBurnable, domain.SeverityInfo) {
		t.Error("BURNABLE info missing")
	}
	if !hasIssue(v.Issues, domain.IssueProxy, domain.SeverityInfo) {
		t.Error("PROXY info missing")
	}
}

func TestEvaluate_DeterministicIssueOrder(t *testing.T) {
	e := NewEvaluator()

	caps := domain.TokenCapabilities{IsRebasing: true, HasPause: true, HasBurn: true}
	profile := domain.BytecodeProfile{HasFeePattern: true, HasSelfdestruct: true}
	v := e.Evaluate(sampleToken(18), caps, profile)

	want := []string{
		domain.IssueDecimalTrim,
		domain.IssueRebasing,
		domain.IssueFeeOnTransfer,
		domain.IssuePausable,
		domain.IssueBurnable,
		domain.IssueSelfdestruct,
	}
	if len(v.Issues) != len(want) {
		t.Fatalf("issue count = %d, want %d", len(v.Issues), len(want))
	}
	for i, code := range want {
		if v.Issues[i].Code != code {
			t.Errorf("issue[%d] = %s, want %s", i, v.Issues[i].Code, code)
		}
	}
}
