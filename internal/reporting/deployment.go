package reporting

import (
	"encoding/json"
	"fmt"
	"strings"

	"token-migration-lab/internal/domain"
)

// DeploymentConfig is the bridge deployment descriptor (deployment.json).
type DeploymentConfig struct {
	Version string         `json:"version"`
	Network NetworkSection `json:"network"`
	Chains  ChainsSection  `json:"chains"`
}

// NetworkSection names the target network environment.
type NetworkSection struct {
	Type string `json:"type"`
}

// ChainsSection pairs the source and destination chain configurations.
type ChainsSection struct {
	Source      ChainConfig `json:"source"`
	Destination ChainConfig `json:"destination"`
}

// ChainConfig describes one side of the bridge deployment.
type ChainConfig struct {
	Chain       string      `json:"chain"`
	Token       TokenConfig `json:"token"`
	NTTManager  string      `json:"ntt_manager,omitempty"`
	Transceiver string      `json:"transceiver,omitempty"`
}

// TokenConfig describes the token on one chain. Address is empty on the
// destination until the mint is deployed.
type TokenConfig struct {
	Address  string `json:"address,omitempty"`
	Decimals uint8  `json:"decimals"`
	Mode     string `json:"mode"`
}

// NewDeploymentConfig builds the deployment descriptor from an analysis.
// The destination side always burns: in locking mode the source escrows
// and the destination mints/burns wrapped supply; in burning mode both
// sides burn.
func NewDeploymentConfig(a *domain.Analysis) DeploymentConfig {
	sourceMode := strings.ToLower(string(a.Compatibility.RecommendedMode))

	return DeploymentConfig{
		Version: "1.0.0",
		Network: NetworkSection{Type: "mainnet"},
		Chains: ChainsSection{
			Source: ChainConfig{
				Chain: string(a.Token.Chain),
				Token: TokenConfig{
					Address:  a.Token.Address,
					Decimals: a.Token.Decimals,
					Mode:     sourceMode,
				},
			},
			Destination: ChainConfig{
				Chain: domain.DestinationChain,
				Token: TokenConfig{
					Decimals: a.Compatibility.DestinationDecimals,
					Mode:     "burning",
				},
			},
		},
	}
}

// RenderDeploymentJSON renders the deployment descriptor as indented JSON.
func RenderDeploymentJSON(a *domain.Analysis) (string, error) {
	data, err := json.MarshalIndent(NewDeploymentConfig(a), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal deployment config: %w", err)
	}
	return string(data), nil
}

// DeploymentCommands returns the NTT CLI command sequence for the analyzed
// token, ready to paste into a shell script.
func DeploymentCommands(a *domain.Analysis) []string {
	mode := strings.ToLower(string(a.Compatibility.RecommendedMode))
	chain := string(a.Token.Chain)

	dailyLimit := uint64(1000000)
	if a.RateLimit != nil {
		dailyLimit = a.RateLimit.RecommendedDailyLimit
	}

	return []string{
		"# NTT Deployment Commands",
		"",
		"# 1. Initialize project",
		"ntt init",
		"",
		fmt.Sprintf("# 2. Add source chain (%s)", chain),
		fmt.Sprintf("ntt add-chain %s --mode %s --token %s", chain, mode, a.Token.Address),
		"",
		fmt.Sprintf("# 3. Add destination chain (%s)", domain.DestinationChain),
		fmt.Sprintf("ntt add-chain %s --mode burning --decimals %d", domain.DestinationChain, a.Compatibility.DestinationDecimals),
		"",
		"# 4. Deploy contracts",
		"ntt deploy",
		"",
		"# 5. Configure rate limits (adjust as needed)",
		fmt.Sprintf("ntt configure-limits --daily-limit %d", dailyLimit),
	}
}
