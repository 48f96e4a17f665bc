// Package analyzer coordinates a full token compatibility analysis.
// It coordinates: metadata ∥ bytecode → compatibility → bridge ∥ holders ∥ volume → risk
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"token-migration-lab/internal/bytecode"
	"token-migration-lab/internal/compat"
	"token-migration-lab/internal/domain"
	"token-migration-lab/internal/evm"
	"token-migration-lab/internal/idhash"
	"token-migration-lab/internal/observability"
	"token-migration-lab/internal/risk"
	"token-migration-lab/internal/storage"
)

// RPC is the EVM node surface the analyzer needs.
type RPC interface {
	EthCall(ctx context.Context, to, data string) (string, error)
	GetCode(ctx context.Context, address string) (string, error)
	ImplementationAddress(ctx context.Context, proxyAddress string) (string, error)
}

// BridgeChecker reports whether a token is already bridged to the destination chain.
type BridgeChecker interface {
	Check(ctx context.Context, address string, chain domain.Chain) (domain.BridgeStatus, error)
}

// HolderSource fetches top-holder concentration data from a block explorer.
type HolderSource interface {
	HasKey() bool
	TopHolders(ctx context.Context, address string, chain domain.Chain) (*domain.HolderData, error)
}

// VolumeSource estimates transfer activity and recommends rate limits.
type VolumeSource interface {
	Analyze(ctx context.Context, address string, chain domain.Chain, decimals uint8, totalSupply string) (*domain.RateLimitRecommendation, error)
}

// Service runs the analysis pipeline for one token at a time.
type Service struct {
	rpc     RPC
	bridges BridgeChecker
	holders HolderSource
	volume  VolumeSource

	// Optional persistence. Nil means analyses are not stored.
	store storage.AnalysisStore

	now     func() time.Time
	verbose bool
}

// Options for creating Service.
type Options struct {
	// Required collaborators
	RPC     RPC
	Bridges BridgeChecker

	// Optional collaborators. Nil disables the corresponding stage.
	Holders HolderSource
	Volume  VolumeSource

	// Optional persistence
	AnalysisStore storage.AnalysisStore

	// Options
	Clock   func() time.Time // defaults to time.Now
	Verbose bool
}

// New creates a new Service.
func New(opts Options) *Service {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Service{
		rpc:     opts.RPC,
		bridges: opts.Bridges,
		holders: opts.Holders,
		volume:  opts.Volume,
		store:   opts.AnalysisStore,
		now:     now,
		verbose: opts.Verbose,
	}
}

// Analyze runs the full pipeline for one token.
// Stages:
//  1. Resolve metadata and fetch bytecode (parallel)
//  2. Profile bytecode, resolve proxy implementation if present
//  3. Evaluate compatibility rules
//  4. Check bridge status, holders, volume (parallel, degradable)
//  5. Score risk and assemble the immutable record
func (s *Service) Analyze(ctx context.Context, address string, chain domain.Chain) (*domain.Analysis, error) {
	started := s.now()

	addr, err := evm.NormalizeAddress(address)
	if err != nil {
		observability.RecordAnalysisFailed(string(chain), "normalize")
		return nil, fmt.Errorf("normalize address: %w", err)
	}

	// Stage 1: metadata and bytecode in parallel
	s.log("Stage 1: resolving metadata and bytecode for %s on %s", addr, chain)
	meta, code, err := s.resolveToken(ctx, addr, chain)
	if err != nil {
		observability.RecordAnalysisFailed(string(chain), "resolve")
		return nil, err
	}

	// Stage 2: bytecode profile and capabilities
	analyzer := bytecode.NewAnalyzer()
	profile := analyzer.Analyze(code)
	caps := analyzer.DetectCapabilities(code)

	if profile.IsProxy {
		implCode := s.resolveImplementation(ctx, addr, &profile)
		if implCode != "" {
			// Capabilities live in the implementation, not the proxy shim.
			caps = analyzer.DetectCapabilities(implCode)
			caps.IsUpgradeable = true
		}
	}
	s.log("Stage 2: %d bytes, proxy=%v, complexity=%s", profile.SizeBytes, profile.IsProxy, profile.Complexity)

	// Stage 3: compatibility rules
	verdict := compat.NewEvaluator().Evaluate(*meta, caps, profile)
	s.log("Stage 3: compatible=%v, mode=%s, %d issues", verdict.IsCompatible, verdict.RecommendedMode, len(verdict.Issues))

	// Stage 4: bridge, holders, volume in parallel. These stages degrade:
	// a failure leaves the field absent instead of failing the analysis.
	bridgeStatus, holderData, rateLimit := s.resolveEnvironment(ctx, addr, chain, meta)

	// Stage 5: risk score and assembly
	score := risk.NewScorer().Score(*meta, caps, profile, bridgeStatus, holderData)
	analyzedAt := s.now().UnixMilli()

	analysis := &domain.Analysis{
		AnalysisID:    idhash.ComputeAnalysisID(chain, addr, profile.CodeHash),
		Token:         *meta,
		Capabilities:  caps,
		Bytecode:      profile,
		Compatibility: verdict,
		BridgeStatus:  bridgeStatus,
		RiskScore:     score,
		HolderData:    holderData,
		RateLimit:     rateLimit,
		AnalyzedAt:    analyzedAt,
	}

	if s.store != nil {
		if err := s.store.Insert(ctx, analysis); err != nil && !errors.Is(err, storage.ErrDuplicateKey) {
			observability.RecordAnalysisFailed(string(chain), "persist")
			return nil, fmt.Errorf("persist analysis: %w", err)
		}
	}

	observability.RecordAnalysisCompleted(string(chain), meta.Symbol, score.Total, s.now().Sub(started).Seconds())
	s.log("Analysis complete: %s risk=%d (%s)", meta.Symbol, score.Total, score.Rating)

	return analysis, nil
}

// resolveToken fetches metadata and bytecode concurrently. Both are required;
// either failure aborts the analysis.
func (s *Service) resolveToken(ctx context.Context, addr string, chain domain.Chain) (*domain.TokenMetadata, string, error) {
	var (
		meta *domain.TokenMetadata
		code string
	)

	errs := make(chan error, 2)
	go func() {
		var err error
		meta, err = evm.NewMetadataResolver(s.rpc).Resolve(ctx, addr, chain)
		if err != nil {
			err = fmt.Errorf("resolve metadata: %w", err)
		}
		errs <- err
	}()
	go func() {
		var err error
		code, err = s.rpc.GetCode(ctx, addr)
		if err != nil {
			err = fmt.Errorf("fetch bytecode: %w", err)
		}
		errs <- err
	}()

	for i := 0; i < 2; i++ {
		if err := <-errs; err != nil {
			return nil, "", err
		}
	}

	if code == "" || code == "0x" {
		return nil, "", fmt.Errorf("no contract code at %s on %s", addr, chain)
	}
	return meta, code, nil
}

// resolveImplementation reads the EIP-1967 slot and fetches the implementation
// bytecode. Failures leave the proxy profile as-is and return "".
func (s *Service) resolveImplementation(ctx context.Context, addr string, profile *domain.BytecodeProfile) string {
	impl, err := s.rpc.ImplementationAddress(ctx, addr)
	if err != nil || impl == "" {
		return ""
	}
	profile.ImplementationAddress = impl

	code, err := s.rpc.GetCode(ctx, impl)
	if err != nil {
		return ""
	}
	return code
}

// resolveEnvironment runs the degradable stages concurrently. Bridge lookup
// failures fall back to the zero-value status; holders and volume stay nil.
func (s *Service) resolveEnvironment(ctx context.Context, addr string, chain domain.Chain, meta *domain.TokenMetadata) (domain.BridgeStatus, *domain.HolderData, *domain.RateLimitRecommendation) {
	var (
		bridgeStatus domain.BridgeStatus
		holderData   *domain.HolderData
		rateLimit    *domain.RateLimitRecommendation
	)

	done := make(chan struct{}, 3)
	go func() {
		status, err := s.bridges.Check(ctx, addr, chain)
		if err != nil {
			s.log("bridge check failed: %v", err)
		} else {
			bridgeStatus = status
		}
		done <- struct{}{}
	}()
	go func() {
		if s.holders != nil && s.holders.HasKey() {
			data, err := s.holders.TopHolders(ctx, addr, chain)
			if err != nil {
				s.log("holder analysis failed: %v", err)
			} else {
				holderData = data
			}
		}
		done <- struct{}{}
	}()
	go func() {
		if s.volume != nil {
			rec, err := s.volume.Analyze(ctx, addr, chain, meta.Decimals, meta.TotalSupply)
			if err != nil {
				s.log("volume analysis failed: %v", err)
			} else {
				rateLimit = rec
			}
		}
		done <- struct{}{}
	}()

	for i := 0; i < 3; i++ {
		<-done
	}
	return bridgeStatus, holderData, rateLimit
}

func (s *Service) log(format string, args ...interface{}) {
	if s.verbose {
		log.Printf("[analyzer] "+format, args...)
	}
}
