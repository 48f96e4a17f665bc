// Package reporting renders analysis records for humans and machines:
// markdown reports, JSON output, CSV ranking exports and bridge deployment
// configuration files.
package reporting

import (
	"fmt"
	"strings"
	"time"

	"token-migration-lab/internal/domain"
)

// RenderMarkdown renders a single analysis as a Markdown report.
func RenderMarkdown(a *domain.Analysis) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# %s (%s) on %s\n\n", a.Token.Name, a.Token.Symbol, a.Token.Chain))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", time.UnixMilli(a.AnalyzedAt).UTC().Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Analysis ID: `%s`\n\n", a.AnalysisID))

	// Token Information
	sb.WriteString("## Token Information\n\n")
	sb.WriteString("| Field | Value |\n")
	sb.WriteString("|-------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Address | `%s` |\n", a.Token.Address))
	sb.WriteString(fmt.Sprintf("| Decimals | %d |\n", a.Token.Decimals))
	sb.WriteString(fmt.Sprintf("| Total Supply | %s |\n", a.Token.TotalSupply))
	sb.WriteString("\n")

	// Capabilities
	sb.WriteString("## Capabilities\n\n")
	sb.WriteString("| Capability | Present |\n")
	sb.WriteString("|------------|--------|\n")
	sb.WriteString(fmt.Sprintf("| Mintable | %s |\n", yesNo(a.Capabilities.HasMint)))
	sb.WriteString(fmt.Sprintf("| Burnable | %s |\n", yesNo(a.Capabilities.HasBurn)))
	sb.WriteString(fmt.Sprintf("| Pausable | %s |\n", yesNo(a.Capabilities.HasPause)))
	sb.WriteString(fmt.Sprintf("| Blacklist | %s |\n", yesNo(a.Capabilities.HasBlacklist)))
	sb.WriteString(fmt.Sprintf("| Permit (EIP-2612) | %s |\n", yesNo(a.Capabilities.HasPermit)))
	sb.WriteString(fmt.Sprintf("| Upgradeable | %s |\n", yesNo(a.Capabilities.IsUpgradeable)))
	sb.WriteString("\n")

	// Bytecode
	sb.WriteString("## Bytecode Analysis\n\n")
	sb.WriteString(fmt.Sprintf("- Size: %d bytes (%s)\n", a.Bytecode.SizeBytes, a.Bytecode.Complexity.DisplayName()))
	sb.WriteString(fmt.Sprintf("- Proxy: %s", yesNo(a.Bytecode.IsProxy)))
	if a.Bytecode.IsProxy {
		sb.WriteString(fmt.Sprintf(" (%s)", a.Bytecode.ProxyType.DisplayName()))
	}
	sb.WriteString("\n")
	if a.Bytecode.ImplementationAddress != "" {
		sb.WriteString(fmt.Sprintf("- Implementation: `%s`\n", a.Bytecode.ImplementationAddress))
	}
	if a.Bytecode.HasSelfdestruct {
		sb.WriteString("- WARNING: selfdestruct opcode present\n")
	}
	if a.Bytecode.HasFeePattern {
		sb.WriteString("- WARNING: fee-on-transfer pattern detected\n")
	}
	sb.WriteString("\n")

	// Bridge Status
	sb.WriteString("## Bridge Status\n\n")
	if a.BridgeStatus.AlreadyOnDestination {
		sb.WriteString(fmt.Sprintf("Token already exists on %s.\n\n", domain.DestinationChain))
		if a.BridgeStatus.DestinationAddress != "" {
			sb.WriteString(fmt.Sprintf("- Destination Address: `%s`\n", a.BridgeStatus.DestinationAddress))
		}
		if a.BridgeStatus.DestinationClass != "" {
			sb.WriteString(fmt.Sprintf("- Mint Account: %s\n", a.BridgeStatus.DestinationClass.DisplayName()))
		}
		if a.BridgeStatus.Provider != "" {
			sb.WriteString(fmt.Sprintf("- Bridge: %s\n", a.BridgeStatus.Provider))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString(fmt.Sprintf("No existing %s presence.\n\n", domain.DestinationChain))
	}

	// Compatibility
	sb.WriteString("## Compatibility\n\n")
	if a.Compatibility.IsCompatible {
		sb.WriteString("**Status: Compatible**\n\n")
	} else {
		sb.WriteString("**Status: Not Compatible**\n\n")
	}
	sb.WriteString(fmt.Sprintf("Recommended mode: %s\n\n", a.Compatibility.RecommendedMode.DisplayName()))
	if a.Compatibility.DecimalTrimmingRequired {
		sb.WriteString(fmt.Sprintf("Decimals: %d → %d (trimming required)\n\n",
			a.Token.Decimals, a.Compatibility.DestinationDecimals))
	}
	if len(a.Compatibility.Issues) > 0 {
		sb.WriteString("| Severity | Code | Issue | Recommendation |\n")
		sb.WriteString("|----------|------|-------|----------------|\n")
		for _, issue := range a.Compatibility.Issues {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
				issue.Severity, issue.Code, issue.Title, issue.Recommendation))
		}
		sb.WriteString("\n")
	} else {
		sb.WriteString("No issues found.\n\n")
	}

	// Risk Score
	sb.WriteString("## Risk Score\n\n")
	sb.WriteString(fmt.Sprintf("**%d/100 (%s Risk)**\n\n", a.RiskScore.Total, a.RiskScore.Rating.DisplayName()))
	sb.WriteString("| Component | Score | Max |\n")
	sb.WriteString("|-----------|-------|-----|\n")
	sb.WriteString(fmt.Sprintf("| Decimal handling | %d | 20 |\n", a.RiskScore.Components.DecimalHandling))
	sb.WriteString(fmt.Sprintf("| Token features | %d | 25 |\n", a.RiskScore.Components.TokenFeatures))
	sb.WriteString(fmt.Sprintf("| Bytecode complexity | %d | 20 |\n", a.RiskScore.Components.BytecodeComplexity))
	sb.WriteString(fmt.Sprintf("| Holder concentration | %d | 15 |\n", a.RiskScore.Components.HolderConcentration))
	sb.WriteString(fmt.Sprintf("| Bridge status | %d | 20 |\n", a.RiskScore.Components.BridgeStatus))
	sb.WriteString("\n")

	// Holders
	if a.HolderData != nil {
		sb.WriteString("## Holder Concentration\n\n")
		sb.WriteString(fmt.Sprintf("Top holder concentration: %.2f%%\n\n", a.HolderData.Top10Concentration))
		if len(a.HolderData.TopHolders) > 0 {
			sb.WriteString("| Holder | Share |\n")
			sb.WriteString("|--------|-------|\n")
			for _, h := range a.HolderData.TopHolders {
				sb.WriteString(fmt.Sprintf("| `%s` | %.2f%% |\n", h.Address, h.Percentage))
			}
			sb.WriteString("\n")
		}
	}

	// Rate Limits
	if a.RateLimit != nil {
		sb.WriteString("## Rate Limit Recommendation\n\n")
		sb.WriteString(fmt.Sprintf("- Daily limit: %d tokens\n", a.RateLimit.RecommendedDailyLimit))
		sb.WriteString(fmt.Sprintf("- Per-transaction limit: %d tokens\n", a.RateLimit.RecommendedPerTxLimit))
		sb.WriteString(fmt.Sprintf("- Basis: %s\n", a.RateLimit.Reasoning))
		if a.RateLimit.HighVolumeWarning {
			sb.WriteString("- WARNING: high transfer volume, review limits before deployment\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
