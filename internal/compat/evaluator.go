// Package compat evaluates whether a token can be safely bridged via a
// lock/burn-and-mint transfer and under which operating mode.
package compat

import (
	"fmt"

	"token-migration-lab/internal/domain"
)

// MaxDestinationDecimals is the decimal precision ceiling on the destination
// chain. SPL mints support 9, the transfer protocol caps at 8.
const MaxDestinationDecimals = 8

// Evaluator applies the fixed compatibility rule set. It is stateless and
// pure; the only accumulating state during one evaluation is the issue list.
type Evaluator struct{}

// NewEvaluator creates a compatibility evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate runs every applicable rule in fixed order and produces the
// verdict. The token is compatible iff no Error-severity issue fired.
func (e *Evaluator) Evaluate(
	token domain.TokenMetadata,
	caps domain.TokenCapabilities,
	profile domain.BytecodeProfile,
) domain.CompatibilityVerdict {
	var issues []domain.CompatibilityIssue

	trimRequired, destDecimals := e.checkDecimals(token.Decimals, &issues)
	e.checkRebasing(caps, &issues)
	e.checkFeatures(caps, profile, &issues)
	e.checkBytecode(profile, &issues)

	isCompatible := true
	for _, issue := range issues {
		if issue.Severity == domain.SeverityError {
			isCompatible = false
			break
		}
	}

	return domain.CompatibilityVerdict{
		IsCompatible:            isCompatible,
		RecommendedMode:         e.recommendMode(caps),
		Issues:                  issues,
		DecimalTrimmingRequired: trimRequired,
		DestinationDecimals:     destDecimals,
	}
}

// checkDecimals caps destination precision at MaxDestinationDecimals and
// warns when source amounts will be trimmed.
func (e *Evaluator) checkDecimals(decimals uint8, issues *[]domain.CompatibilityIssue) (bool, uint8) {
	if decimals <= MaxDestinationDecimals {
		return false, decimals
	}

	*issues = append(*issues, domain.CompatibilityIssue{
		Severity: domain.SeverityWarning,
		Code:     domain.IssueDecimalTrim,
		Title:    "Decimal Trimming Required",
		Description: fmt.Sprintf(
			"Token has %d decimals but the transfer protocol supports max %d. "+
				"Amounts will be trimmed, potentially causing precision loss.",
			decimals, MaxDestinationDecimals),
		Recommendation: fmt.Sprintf(
			"The destination token will use %d decimals. Ensure your application "+
				"handles the decimal difference correctly.",
			MaxDestinationDecimals),
	})
	return true, MaxDestinationDecimals
}

// checkRebasing is a hard veto: locked balances on the source chain would
// desync from minted supply on the destination.
func (e *Evaluator) checkRebasing(caps domain.TokenCapabilities, issues *[]domain.CompatibilityIssue) {
	if !caps.IsRebasing {
		return
	}

	*issues = append(*issues, domain.CompatibilityIssue{
		Severity: domain.SeverityError,
		Code:     domain.IssueRebasing,
		Title:    "Rebasing Token Detected",
		Description: "This token rebases (adjusts balances without transfers). " +
			"When bridged in locking mode, locked tokens on the source chain " +
			"will desync from minted tokens on the destination, causing loss of funds.",
		Recommendation: "Rebasing tokens are incompatible with native transfers. Consider " +
			"wrapping the token in a non-rebasing wrapper (e.g. wstETH for stETH) " +
			"before bridging.",
	})
}

func (e *Evaluator) checkFeatures(
	caps domain.TokenCapabilities,
	profile domain.BytecodeProfile,
	issues *[]domain.CompatibilityIssue,
) {
	if profile.HasFeePattern {
		*issues = append(*issues, domain.CompatibilityIssue{
			Severity: domain.SeverityError,
			Code:     domain.IssueFeeOnTransfer,
			Title:    "Fee-on-Transfer Detected",
			Description: "Token appears to charge fees on transfers. " +
				"This is incompatible with lock/burn-and-mint bridging as the fee " +
				"mechanism cannot be replicated across chains.",
			Recommendation: "Consider deploying a wrapper token without fees, " +
				"or use a different bridging solution.",
		})
	}

	if caps.HasPause {
		*issues = append(*issues, domain.CompatibilityIssue{
			Severity: domain.SeverityWarning,
			Code:     domain.IssuePausable,
			Title:    "Pausable Token",
			Description: "Token can be paused by owner. If paused during " +
				"a bridge transfer, funds could be locked.",
			Recommendation: "Ensure pause functionality won't interfere with " +
				"bridge operations. Consider governance controls.",
		})
	}

	if caps.HasBlacklist {
		*issues = append(*issues, domain.CompatibilityIssue{
			Severity: domain.SeverityWarning,
			Code:     domain.IssueBlacklist,
			Title:    "Blacklist Functionality",
			Description: "Token has blacklist capability. Blacklisted addresses " +
				"cannot transfer tokens, which could affect bridge operations.",
			Recommendation: "Ensure bridge contracts are not blacklistable. " +
				"Document blacklist policy for users.",
		})
	}

	if caps.HasMint {
		*issues = append(*issues, domain.CompatibilityIssue{
			Severity:    domain.SeverityInfo,
			Code:        domain.IssueMintable,
			Title:       "Mintable Token",
			Description: "Token has mint capability on the source chain.",
			Recommendation: "Mint capability alone does not enable burning mode. " +
				"Burning mode requires burn capability so the bridge manager can burn tokens.",
		})
	}

	if caps.HasBurn {
		*issues = append(*issues, domain.CompatibilityIssue{
			Severity:       domain.SeverityInfo,
			Code:           domain.IssueBurnable,
			Title:          "Burnable Token",
			Description:    "Token supports burning, compatible with burning mode.",
			Recommendation: "Burning mode is the preferred bridge configuration.",
		})
	}
}

func (e *Evaluator) checkBytecode(profile domain.BytecodeProfile, issues *[]domain.CompatibilityIssue) {
	if profile.HasSelfdestruct {
		*issues = append(*issues, domain.CompatibilityIssue{
			Severity: domain.SeverityWarning,
			Code:     domain.IssueSelfdestruct,
			Title:    "Self-destruct Capability",
			Description: "Contract contains selfdestruct opcode. If triggered, " +
				"bridged tokens could become worthless.",
			Recommendation: "Review contract for selfdestruct conditions. " +
				"Ensure it cannot be called maliciously.",
		})
	}

	if profile.IsProxy {
		*issues = append(*issues, domain.CompatibilityIssue{
			Severity: domain.SeverityInfo,
			Code:     domain.IssueProxy,
			Title:    "Upgradeable Proxy",
			Description: fmt.Sprintf(
				"Contract is an upgradeable proxy (%s). Implementation can change over time.",
				profile.ProxyType.DisplayName()),
			Recommendation: "Monitor for upgrades. Bridge integration should be " +
				"re-verified after any implementation changes.",
		})
	}
}

// recommendMode picks Burning iff burn capability is present. Burning mode
// needs the bridge manager to hold burn rights on the source token; mint
// alone is not enough, so everything else defaults to custody/locking.
func (e *Evaluator) recommendMode(caps domain.TokenCapabilities) domain.TransferMode {
	if caps.HasBurn {
		return domain.ModeBurning
	}
	return domain.ModeLocking
}
