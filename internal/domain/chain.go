package domain

import "fmt"

// Chain identifies a supported EVM source network.
type Chain string

// Supported source chains.
const (
	ChainEthereum  Chain = "ethereum"
	ChainPolygon   Chain = "polygon"
	ChainArbitrum  Chain = "arbitrum"
	ChainOptimism  Chain = "optimism"
	ChainBase      Chain = "base"
	ChainAvalanche Chain = "avalanche"
	ChainBSC       Chain = "bsc"
)

// DestinationChain is the fixed migration target.
const DestinationChain = "solana"

// ParseChain resolves a user-supplied chain name, accepting common aliases.
func ParseChain(s string) (Chain, error) {
	switch s {
	case "ethereum", "eth":
		return ChainEthereum, nil
	case "polygon", "matic":
		return ChainPolygon, nil
	case "arbitrum", "arb":
		return ChainArbitrum, nil
	case "optimism", "op":
		return ChainOptimism, nil
	case "base":
		return ChainBase, nil
	case "avalanche", "avax":
		return ChainAvalanche, nil
	case "bsc", "bnb":
		return ChainBSC, nil
	default:
		return "", fmt.Errorf("unknown chain: %s", s)
	}
}

// DefaultRPCURL returns a public JSON-RPC endpoint for the chain.
// These are rate-limited community endpoints, suitable for one-off analysis runs.
func (c Chain) DefaultRPCURL() string {
	switch c {
	case ChainEthereum:
		return "https://ethereum-rpc.publicnode.com"
	case ChainPolygon:
		return "https://polygon-bor-rpc.publicnode.com"
	case ChainArbitrum:
		return "https://arbitrum-one-rpc.publicnode.com"
	case ChainOptimism:
		return "https://optimism-rpc.publicnode.com"
	case ChainBase:
		return "https://base-rpc.publicnode.com"
	case ChainAvalanche:
		return "https://avalanche-c-chain-rpc.publicnode.com"
	case ChainBSC:
		return "https://bsc-rpc.publicnode.com"
	default:
		return ""
	}
}

// DisplayName returns the human-readable chain name.
func (c Chain) DisplayName() string {
	switch c {
	case ChainEthereum:
		return "Ethereum"
	case ChainPolygon:
		return "Polygon"
	case ChainArbitrum:
		return "Arbitrum"
	case ChainOptimism:
		return "Optimism"
	case ChainBase:
		return "Base"
	case ChainAvalanche:
		return "Avalanche"
	case ChainBSC:
		return "BSC"
	default:
		return string(c)
	}
}
