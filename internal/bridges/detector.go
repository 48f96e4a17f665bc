package bridges

import (
	"context"
	"strings"

	"token-migration-lab/internal/domain"
)

// Entry maps a source-chain token to an existing destination representation.
type Entry struct {
	SourceAddress      string
	DestinationAddress string
	Provider           string
	Kind               domain.BridgeKind
}

// knownBridged lists major tokens that already have a destination-chain
// representation. The live registry covers the long tail; this table keeps
// the flagship assets working without network access.
var knownBridged = []Entry{
	{
		SourceAddress:      "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", // USDC
		DestinationAddress: "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		Provider:           "Native",
		Kind:               domain.BridgeNative,
	},
	{
		SourceAddress:      "0xdac17f958d2ee523a2206206994597c13d831ec7", // USDT
		DestinationAddress: "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB",
		Provider:           "Wormhole",
		Kind:               domain.BridgeWrapped,
	},
	{
		SourceAddress:      "0x2260fac5e5542a773aa44fbcfedf7c193bc2c599", // WBTC
		DestinationAddress: "3NZ9JMVBmGAqocybic2c7LQCJScmgsAZ6vQqTDzcqmJh",
		Provider:           "Wormhole",
		Kind:               domain.BridgeWrapped,
	},
	{
		SourceAddress:      "0x6b175474e89094c44da98b954eedeac495271d0f", // DAI
		DestinationAddress: "EjmyN6qEC1Tf1JxiG1ae7UTJhUxSwk1TCCb39Aqc1ckQ",
		Provider:           "Wormhole",
		Kind:               domain.BridgeWrapped,
	},
}

// knownAttested lists tokens with an existing token bridge attestation.
var knownAttested = map[string]bool{
	"0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48": true, // USDC
	"0xdac17f958d2ee523a2206206994597c13d831ec7": true, // USDT
	"0x2260fac5e5542a773aa44fbcfedf7c193bc2c599": true, // WBTC
	"0x6b175474e89094c44da98b954eedeac495271d0f": true, // DAI
	"0x1f9840a85d5af5bf1d1762f925bdaddc4201f984": true, // UNI
	"0x514910771af9ca656af840dff83e8264ecf986ca": true, // LINK
}

// Registry resolves tokens not covered by the curated table.
type Registry interface {
	Lookup(ctx context.Context, sourceAddress string) (*Entry, error)
}

// Detector reports existing destination-chain presence for a token.
type Detector struct {
	registry Registry
}

// DetectorOption configures a Detector.
type DetectorOption func(*Detector)

// WithRegistry sets a live registry used after the curated table misses.
func WithRegistry(r Registry) DetectorOption {
	return func(d *Detector) {
		d.registry = r
	}
}

// NewDetector creates a bridge detector.
func NewDetector(opts ...DetectorOption) *Detector {
	d := &Detector{}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Check looks the token up in the curated table, then in the live registry
// when one is configured. Registry failures degrade to "not found" so an
// analysis never fails on a bridge lookup.
func (d *Detector) Check(ctx context.Context, address string, _ domain.Chain) (domain.BridgeStatus, error) {
	addr := strings.ToLower(strings.TrimSpace(address))
	attested := knownAttested[addr]

	for _, e := range knownBridged {
		if e.SourceAddress == addr {
			class, _ := ClassifyDestinationAddress(e.DestinationAddress)
			return domain.BridgeStatus{
				AlreadyOnDestination: true,
				DestinationAddress:   e.DestinationAddress,
				DestinationClass:     class,
				Provider:             e.Provider,
				Kind:                 e.Kind,
				Attested:             attested,
			}, nil
		}
	}

	if d.registry != nil {
		entry, err := d.registry.Lookup(ctx, addr)
		if err == nil && entry != nil {
			if class, cerr := ClassifyDestinationAddress(entry.DestinationAddress); cerr == nil {
				kind := entry.Kind
				if kind == "" {
					kind = domain.BridgeWrapped
				}
				return domain.BridgeStatus{
					AlreadyOnDestination: true,
					DestinationAddress:   entry.DestinationAddress,
					DestinationClass:     class,
					Provider:             entry.Provider,
					Kind:                 kind,
					Attested:             attested || kind == domain.BridgeWrapped,
				}, nil
			}
		}
	}

	return domain.BridgeStatus{Attested: attested}, nil
}
