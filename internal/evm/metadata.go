package evm

import (
	"context"
	"fmt"
	"strings"

	"token-migration-lab/internal/abi"
	"token-migration-lab/internal/domain"
)

// ERC-20 function selectors.
const (
	selName        = "0x06fdde03" // name()
	selSymbol      = "0x95d89b41" // symbol()
	selDecimals    = "0x313ce567" // decimals()
	selTotalSupply = "0x18160ddd" // totalSupply()
)

// Caller is the narrow RPC surface the resolver needs.
type Caller interface {
	EthCall(ctx context.Context, to, data string) (string, error)
}

// MetadataResolver fetches ERC-20 token identity via read-only calls.
type MetadataResolver struct {
	rpc Caller
}

// NewMetadataResolver creates a metadata resolver on top of an RPC caller.
func NewMetadataResolver(rpc Caller) *MetadataResolver {
	return &MetadataResolver{rpc: rpc}
}

// NormalizeAddress validates a 20-byte address and returns the canonical
// lowercase 0x-prefixed form. The 0x prefix is optional on input and case
// is ignored.
func NormalizeAddress(address string) (string, error) {
	a := strings.TrimSpace(address)
	a = strings.TrimPrefix(strings.TrimPrefix(a, "0x"), "0X")

	if len(a) != 40 {
		return "", fmt.Errorf("address must be 40 hex digits, got %d", len(a))
	}
	for _, ch := range a {
		if !isHexDigit(ch) {
			return "", fmt.Errorf("address contains invalid character %q", ch)
		}
	}

	return "0x" + strings.ToLower(a), nil
}

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// Resolve fetches name, symbol, decimals and total supply with four parallel
// calls and assembles the immutable metadata record.
func (r *MetadataResolver) Resolve(ctx context.Context, address string, chain domain.Chain) (*domain.TokenMetadata, error) {
	addr, err := NormalizeAddress(address)
	if err != nil {
		return nil, fmt.Errorf("normalize address: %w", err)
	}

	var (
		name, symbol, totalSupply string
		decimals                  uint8
	)

	errs := make(chan error, 4)
	go func() {
		var err error
		name, err = r.fetchString(ctx, addr, selName, "name")
		errs <- err
	}()
	go func() {
		var err error
		symbol, err = r.fetchString(ctx, addr, selSymbol, "symbol")
		errs <- err
	}()
	go func() {
		var err error
		decimals, err = r.fetchDecimals(ctx, addr)
		errs <- err
	}()
	go func() {
		var err error
		totalSupply, err = r.fetchTotalSupply(ctx, addr)
		errs <- err
	}()

	for i := 0; i < 4; i++ {
		if err := <-errs; err != nil {
			return nil, err
		}
	}

	return &domain.TokenMetadata{
		Address:     addr,
		Chain:       chain,
		Name:        name,
		Symbol:      symbol,
		Decimals:    decimals,
		TotalSupply: totalSupply,
	}, nil
}

func (r *MetadataResolver) fetchString(ctx context.Context, addr, selector, field string) (string, error) {
	raw, err := r.rpc.EthCall(ctx, addr, selector)
	if err != nil {
		return "", fmt.Errorf("fetch token %s: %w", field, err)
	}
	s, err := abi.DecodeString(raw)
	if err != nil {
		return "", fmt.Errorf("decode token %s: %w", field, err)
	}
	return s, nil
}

func (r *MetadataResolver) fetchDecimals(ctx context.Context, addr string) (uint8, error) {
	raw, err := r.rpc.EthCall(ctx, addr, selDecimals)
	if err != nil {
		return 0, fmt.Errorf("fetch token decimals: %w", err)
	}
	d, err := abi.DecodeByte(raw)
	if err != nil {
		return 0, fmt.Errorf("decode token decimals: %w", err)
	}
	return d, nil
}

func (r *MetadataResolver) fetchTotalSupply(ctx context.Context, addr string) (string, error) {
	raw, err := r.rpc.EthCall(ctx, addr, selTotalSupply)
	if err != nil {
		return "", fmt.Errorf("fetch total supply: %w", err)
	}
	s, err := abi.DecodeUint(raw)
	if err != nil {
		return "", fmt.Errorf("decode total supply: %w", err)
	}
	return s, nil
}
