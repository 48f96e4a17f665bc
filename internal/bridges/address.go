// Package bridges detects existing destination-chain representations of a
// token: a curated table of major bridged assets, an optional live registry
// lookup, and attestation checks.
package bridges

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"

	"token-migration-lab/internal/domain"
)

// fieldPrime is 2^255 - 19 in little-endian byte order.
var fieldPrime = [32]byte{
	0xed, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x7f,
}

// ClassifyDestinationAddress validates a base58 destination-chain address
// and reports whether its 32 bytes decode to a point on the ed25519 curve.
// Mint accounts created from keypairs are on curve; program-derived mints
// are not. Non-canonical encodings (y coordinate at or above the field
// prime) classify as off curve: keypairs never produce them.
func ClassifyDestinationAddress(address string) (domain.AddressClass, error) {
	raw, err := base58.Decode(address)
	if err != nil {
		return "", fmt.Errorf("decode base58 address: %w", err)
	}
	if len(raw) != 32 {
		return "", fmt.Errorf("destination address must be 32 bytes, got %d", len(raw))
	}

	if !canonicalY(raw) {
		return domain.AddressOffCurve, nil
	}
	if _, err := new(edwards25519.Point).SetBytes(raw); err != nil {
		return domain.AddressOffCurve, nil
	}
	return domain.AddressOnCurve, nil
}

// canonicalY reports whether the encoded y coordinate, sign bit masked off,
// is below the field prime. SetBytes accepts reduced non-canonical values,
// so the strict check has to happen before decoding.
func canonicalY(raw []byte) bool {
	var y [32]byte
	copy(y[:], raw)
	y[31] &= 0x7f
	for i := 31; i >= 0; i-- {
		if y[i] != fieldPrime[i] {
			return y[i] < fieldPrime[i]
		}
	}
	return false
}

// ValidDestinationAddress reports whether the string is a well-formed
// 32-byte base58 address, on curve or not.
func ValidDestinationAddress(address string) bool {
	_, err := ClassifyDestinationAddress(address)
	return err == nil
}
