// Package risk computes the composite migration risk score.
package risk

import "token-migration-lab/internal/domain"

// Component maxima. Each sub-score is clamped to its bound before summing.
const (
	maxDecimalScore  = 20
	maxFeatureScore  = 25
	maxBytecodeScore = 20
	maxHolderScore   = 15
	maxBridgeScore   = 20
)

// Scorer combines token signals into a bounded composite score.
// Pure and deterministic: identical inputs always score identically.
type Scorer struct{}

// NewScorer creates a risk scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score computes the full risk score. holders may be nil; absence feeds the
// documented unknown-risk path, it is not an error.
func (s *Scorer) Score(
	token domain.TokenMetadata,
	caps domain.TokenCapabilities,
	profile domain.BytecodeProfile,
	bridge domain.BridgeStatus,
	holders *domain.HolderData,
) domain.RiskScore {
	return domain.ScoreFromComponents(domain.RiskComponents{
		DecimalHandling:     scoreDecimals(token.Decimals),
		TokenFeatures:       scoreFeatures(caps, profile),
		BytecodeComplexity:  scoreBytecode(profile),
		HolderConcentration: scoreHolders(holders),
		BridgeStatus:        scoreBridge(bridge),
	})
}

// scoreDecimals bands by source precision (0-20). The scale is non-linear:
// every decimal beyond the destination ceiling costs more.
func scoreDecimals(decimals uint8) int {
	switch {
	case decimals <= 8:
		return 0
	case decimals == 9:
		return 3
	case decimals <= 12:
		return 8
	case decimals <= 15:
		return 14
	default:
		return maxDecimalScore
	}
}

// scoreFeatures scores token feature risk (0-25). Rebasing short-circuits to
// the maximum with nothing else added; other flags are additive.
func scoreFeatures(caps domain.TokenCapabilities, profile domain.BytecodeProfile) int {
	if caps.IsRebasing {
		return maxFeatureScore
	}

	score := 0
	if profile.HasFeePattern {
		score += 15
	}
	if caps.HasPause {
		score += 3
	}
	if caps.HasBlacklist {
		score += 4
	}
	if profile.HasSelfdestruct {
		score += 3
	}

	return min(score, maxFeatureScore)
}

// scoreBytecode scores from the complexity class plus a proxy surcharge (0-20).
func scoreBytecode(profile domain.BytecodeProfile) int {
	var score int
	switch profile.Complexity {
	case domain.ComplexityModerate:
		score = 8
	case domain.ComplexityComplex:
		score = 15
	}

	if profile.IsProxy {
		score += 5
	}

	return min(score, maxBytecodeScore)
}

// scoreHolders scores concentration risk (0-15). Missing data is unknown
// risk, deliberately scored above zero. A single holder above 50% dominates
// every other figure.
func scoreHolders(holders *domain.HolderData) int {
	if holders == nil {
		return 5
	}

	if len(holders.TopHolders) > 0 && holders.TopHolders[0].Percentage > 50.0 {
		return maxHolderScore
	}

	switch c := holders.Top10Concentration; {
	case c < 50.0:
		return 0
	case c < 70.0:
		return 5
	case c < 85.0:
		return 10
	default:
		return maxHolderScore
	}
}

// scoreBridge scores existing destination presence (0-20). An existing
// deployment means coordination risk, not a blocker.
func scoreBridge(bridge domain.BridgeStatus) int {
	if bridge.AlreadyOnDestination {
		return 15
	}
	if bridge.Attested {
		return 5
	}
	return 0
}
