package analyzer

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"token-migration-lab/internal/domain"
	"token-migration-lab/internal/storage/memory"
)

const (
	selName        = "0x06fdde03"
	selSymbol      = "0x95d89b41"
	selDecimals    = "0x313ce567"
	selTotalSupply = "0x18160ddd"
)

// usdcResponses holds standard ABI encodings for name "USD Coin",
// symbol "USDC", decimals 6 and a total supply of 1000000.
var usdcResponses = map[string]string{
	selName: "0x" +
		"0000000000000000000000000000000000000000000000000000000000000020" +
		"0000000000000000000000000000000000000000000000000000000000000008" +
		"55534420436f696e000000000000000000000000000000000000000000000000",
	selSymbol: "0x" +
		"0000000000000000000000000000000000000000000000000000000000000020" +
		"0000000000000000000000000000000000000000000000000000000000000004" +
		"5553444300000000000000000000000000000000000000000000000000000000",
	selDecimals:    "0x0000000000000000000000000000000000000000000000000000000000000006",
	selTotalSupply: "0x00000000000000000000000000000000000000000000000000000000000f4240",
}

// mintBurnCode is contract bytecode carrying mint and burn selectors with no
// delegatecall or selfdestruct bytes anywhere in the hex stream.
const mintBurnCode = "0x608060405240c10f1942966c68606060405200000000"

type stubRPC struct {
	calls    map[string]string
	callErrs map[string]error
	code     map[string]string
	codeErrs map[string]error
	impl     string
	implErr  error
}

func (s *stubRPC) EthCall(_ context.Context, _, data string) (string, error) {
	if err, ok := s.callErrs[data]; ok {
		return "", err
	}
	resp, ok := s.calls[data]
	if !ok {
		return "", fmt.Errorf("unexpected calldata %s", data)
	}
	return resp, nil
}

func (s *stubRPC) GetCode(_ context.Context, address string) (string, error) {
	if err, ok := s.codeErrs[address]; ok {
		return "", err
	}
	code, ok := s.code[address]
	if !ok {
		return "", fmt.Errorf("unexpected address %s", address)
	}
	return code, nil
}

func (s *stubRPC) ImplementationAddress(_ context.Context, _ string) (string, error) {
	return s.impl, s.implErr
}

type stubBridges struct {
	status domain.BridgeStatus
	err    error
}

func (s *stubBridges) Check(_ context.Context, _ string, _ domain.Chain) (domain.BridgeStatus, error) {
	return s.status, s.err
}

type stubHolders struct {
	data *domain.HolderData
	err  error
}

func (s *stubHolders) HasKey() bool { return true }

func (s *stubHolders) TopHolders(_ context.Context, _ string, _ domain.Chain) (*domain.HolderData, error) {
	return s.data, s.err
}

type stubVolume struct {
	rec *domain.RateLimitRecommendation
	err error
}

func (s *stubVolume) Analyze(_ context.Context, _ string, _ domain.Chain, _ uint8, _ string) (*domain.RateLimitRecommendation, error) {
	return s.rec, s.err
}

func TestService_Analyze(t *testing.T) {
	addr := "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"
	rpc := &stubRPC{
		calls: usdcResponses,
		code:  map[string]string{addr: mintBurnCode},
	}
	bridgeStatus := domain.BridgeStatus{
		AlreadyOnDestination: true,
		DestinationAddress:   "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		Provider:             "Wormhole",
		Kind:                 domain.BridgeNative,
		Attested:             true,
	}
	holderData := &domain.HolderData{
		TopHolders:         []domain.HolderInfo{{Address: "0x01", Balance: "600", Percentage: 60}},
		Top10Concentration: 100,
	}
	rateLimit := &domain.RateLimitRecommendation{
		DailyTransfers:        120,
		RecommendedDailyLimit: 50000,
		RecommendedPerTxLimit: 500,
	}
	store := memory.NewAnalysisStore()

	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := New(Options{
		RPC:           rpc,
		Bridges:       &stubBridges{status: bridgeStatus},
		Holders:       &stubHolders{data: holderData},
		Volume:        &stubVolume{rec: rateLimit},
		AnalysisStore: store,
		Clock:         func() time.Time { return fixed },
	})

	analysis, err := svc.Analyze(context.Background(), "0xA0b86991c6218B36c1d19D4a2e9Eb0cE3606eB48", domain.ChainEthereum)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if len(analysis.AnalysisID) != 64 {
		t.Errorf("expected 64-char analysis ID, got %q", analysis.AnalysisID)
	}
	if analysis.Token.Symbol != "USDC" || analysis.Token.Decimals != 6 {
		t.Errorf("unexpected metadata: %+v", analysis.Token)
	}
	if analysis.Token.Address != addr {
		t.Errorf("expected normalized address, got %s", analysis.Token.Address)
	}
	if !analysis.Capabilities.HasMint || !analysis.Capabilities.HasBurn {
		t.Errorf("expected mint and burn capabilities, got %+v", analysis.Capabilities)
	}
	if analysis.Compatibility.RecommendedMode != domain.ModeBurning {
		t.Errorf("expected burning mode for burnable token, got %s", analysis.Compatibility.RecommendedMode)
	}
	if !analysis.BridgeStatus.AlreadyOnDestination || analysis.BridgeStatus.Provider != "Wormhole" {
		t.Errorf("bridge status not carried through: %+v", analysis.BridgeStatus)
	}
	if analysis.HolderData == nil || analysis.HolderData.Top10Concentration != 100 {
		t.Errorf("holder data not carried through: %+v", analysis.HolderData)
	}
	if analysis.RateLimit == nil || analysis.RateLimit.RecommendedDailyLimit != 50000 {
		t.Errorf("rate limit not carried through: %+v", analysis.RateLimit)
	}
	if analysis.RiskScore.Total < 0 || analysis.RiskScore.Total > 100 {
		t.Errorf("risk total out of range: %d", analysis.RiskScore.Total)
	}
	if analysis.AnalyzedAt != fixed.UnixMilli() {
		t.Errorf("expected analyzed_at %d, got %d", fixed.UnixMilli(), analysis.AnalyzedAt)
	}

	stored, err := store.Latest(context.Background(), domain.ChainEthereum, addr)
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if stored.AnalysisID != analysis.AnalysisID {
		t.Errorf("stored analysis ID mismatch: %s vs %s", stored.AnalysisID, analysis.AnalysisID)
	}
}

func TestService_Analyze_UnchangedBytecodeKeepsID(t *testing.T) {
	addr := "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48"
	rpc := &stubRPC{
		calls: usdcResponses,
		code:  map[string]string{addr: mintBurnCode},
	}
	store := memory.NewAnalysisStore()

	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := New(Options{
		RPC:           rpc,
		Bridges:       &stubBridges{},
		AnalysisStore: store,
		Clock: func() time.Time {
			clock = clock.Add(time.Minute)
			return clock
		},
	})

	first, err := svc.Analyze(context.Background(), addr, domain.ChainEthereum)
	if err != nil {
		t.Fatalf("first Analyze failed: %v", err)
	}
	if first.Bytecode.CodeHash == "" {
		t.Fatal("expected code hash on bytecode profile")
	}

	// Same bytecode at a later time: same ID, and the duplicate insert
	// must not fail the run.
	second, err := svc.Analyze(context.Background(), addr, domain.ChainEthereum)
	if err != nil {
		t.Fatalf("second Analyze failed: %v", err)
	}
	if second.AnalysisID != first.AnalysisID {
		t.Errorf("ID changed for unchanged bytecode: %s vs %s", first.AnalysisID, second.AnalysisID)
	}
	if second.AnalyzedAt <= first.AnalyzedAt {
		t.Errorf("expected later analyzed_at, got %d then %d", first.AnalyzedAt, second.AnalyzedAt)
	}
}

func TestService_Analyze_ProxyImplementation(t *testing.T) {
	addr := "0xdac17f958d2ee523a2206206994597c13d831ec7"
	implAddr := "0x1111111111111111111111111111111111111111"

	// EIP-1167 minimal proxy runtime pointing at implAddr.
	proxyCode := "0x363d3d373d3d3d363d73" + strings.TrimPrefix(implAddr, "0x") +
		"5af43d82803e903d91602b57fd5bf3"
	// Implementation carries pause and blacklist selectors.
	implCode := "0x60806040528456cb593f4ba83a" + "f9f92be4" + "6060604052"

	rpc := &stubRPC{
		calls: usdcResponses,
		code: map[string]string{
			addr:     proxyCode,
			implAddr: implCode,
		},
		impl: implAddr,
	}

	svc := New(Options{
		RPC:     rpc,
		Bridges: &stubBridges{},
	})

	analysis, err := svc.Analyze(context.Background(), addr, domain.ChainEthereum)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if !analysis.Bytecode.IsProxy {
		t.Error("expected proxy profile")
	}
	if analysis.Bytecode.ProxyType != domain.ProxyMinimal {
		t.Errorf("expected minimal proxy, got %s", analysis.Bytecode.ProxyType)
	}
	if analysis.Bytecode.ImplementationAddress != implAddr {
		t.Errorf("expected implementation %s, got %s", implAddr, analysis.Bytecode.ImplementationAddress)
	}
	if !analysis.Capabilities.HasPause || !analysis.Capabilities.HasBlacklist {
		t.Errorf("expected capabilities from implementation code, got %+v", analysis.Capabilities)
	}
	if !analysis.Capabilities.IsUpgradeable {
		t.Error("expected upgradeable capability for resolved proxy")
	}
}

func TestService_Analyze_ProxyImplementationUnresolvable(t *testing.T) {
	addr := "0xdac17f958d2ee523a2206206994597c13d831ec7"
	proxyCode := "0x363d3d373d3d3d363d731111111111111111111111111111111111111111" +
		"5af43d82803e903d91602b57fd5bf3"

	rpc := &stubRPC{
		calls:   usdcResponses,
		code:    map[string]string{addr: proxyCode},
		implErr: fmt.Errorf("slot read failed"),
	}

	svc := New(Options{
		RPC:     rpc,
		Bridges: &stubBridges{},
	})

	analysis, err := svc.Analyze(context.Background(), addr, domain.ChainEthereum)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	// Falls back to the proxy shim capabilities.
	if !analysis.Bytecode.IsProxy {
		t.Error("expected proxy profile")
	}
	if analysis.Bytecode.ImplementationAddress != "" {
		t.Errorf("expected no implementation address, got %s", analysis.Bytecode.ImplementationAddress)
	}
	if analysis.Capabilities.HasPause {
		t.Error("expected no pause capability from shim code")
	}
}

func TestService_Analyze_InvalidAddress(t *testing.T) {
	svc := New(Options{RPC: &stubRPC{}, Bridges: &stubBridges{}})

	_, err := svc.Analyze(context.Background(), "not-an-address", domain.ChainEthereum)
	if err == nil {
		t.Fatal("expected error for invalid address")
	}
}

func TestService_Analyze_NoContractCode(t *testing.T) {
	addr := "0xdac17f958d2ee523a2206206994597c13d831ec7"
	rpc := &stubRPC{
		calls: usdcResponses,
		code:  map[string]string{addr: "0x"},
	}

	svc := New(Options{RPC: rpc, Bridges: &stubBridges{}})

	_, err := svc.Analyze(context.Background(), addr, domain.ChainEthereum)
	if err == nil {
		t.Fatal("expected error for address with no code")
	}
}

func TestService_Analyze_MetadataFailure(t *testing.T) {
	addr := "0xdac17f958d2ee523a2206206994597c13d831ec7"
	rpc := &stubRPC{
		calls:    usdcResponses,
		callErrs: map[string]error{selDecimals: fmt.Errorf("execution reverted")},
		code:     map[string]string{addr: mintBurnCode},
	}

	svc := New(Options{RPC: rpc, Bridges: &stubBridges{}})

	_, err := svc.Analyze(context.Background(), addr, domain.ChainEthereum)
	if err == nil {
		t.Fatal("expected error when metadata resolution fails")
	}
}

func TestService_Analyze_DegradedEnvironment(t *testing.T) {
	addr := "0xdac17f958d2ee523a2206206994597c13d831ec7"
	rpc := &stubRPC{
		calls: usdcResponses,
		code:  map[string]string{addr: mintBurnCode},
	}

	svc := New(Options{
		RPC:     rpc,
		Bridges: &stubBridges{err: fmt.Errorf("registry unreachable")},
		Holders: &stubHolders{err: fmt.Errorf("explorer down")},
		Volume:  &stubVolume{err: fmt.Errorf("explorer down")},
	})

	analysis, err := svc.Analyze(context.Background(), addr, domain.ChainEthereum)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if analysis.BridgeStatus.AlreadyOnDestination {
		t.Error("expected zero-value bridge status on lookup failure")
	}
	if analysis.HolderData != nil {
		t.Errorf("expected nil holder data, got %+v", analysis.HolderData)
	}
	if analysis.RateLimit != nil {
		t.Errorf("expected nil rate limit, got %+v", analysis.RateLimit)
	}
	if analysis.RiskScore.Components.HolderConcentration == 0 {
		t.Error("expected unknown-holder risk contribution to be nonzero")
	}
}
