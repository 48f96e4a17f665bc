// Package abi decodes hex-encoded EVM call-return data into typed values.
// It covers only the narrow shapes token metadata calls return: unsigned
// integers up to 256 bits, single bytes, and dynamically encoded strings.
package abi

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// DecodeUint decodes a hex-encoded unsigned integer into its decimal string.
// Values up to 64 bits take a machine-word fast path; anything larger falls
// back to manual hex-to-decimal conversion so full 256-bit supplies decode
// exactly. Empty or all-zero input decodes to "0".
func DecodeUint(hexStr string) (string, error) {
	h := strings.TrimPrefix(hexStr, "0x")

	if h == "" || allZero(h) {
		return "0", nil
	}

	trimmed := strings.TrimLeft(h, "0")

	// Fits in uint64
	if len(trimmed) <= 16 {
		v, err := strconv.ParseUint(trimmed, 16, 64)
		if err != nil {
			return "", fmt.Errorf("parse uint: %w", err)
		}
		return strconv.FormatUint(v, 10), nil
	}

	return hexToDecimal(trimmed)
}

// DecodeByte decodes a hex-encoded uint8. The value sits in the last byte of
// a 32-byte word; empty or zero input yields 0.
func DecodeByte(hexStr string) (uint8, error) {
	h := strings.TrimPrefix(hexStr, "0x")

	if h == "" {
		return 0, nil
	}

	trimmed := strings.TrimLeft(h, "0")
	if trimmed == "" {
		return 0, nil
	}

	v, err := strconv.ParseUint(trimmed, 16, 8)
	if err != nil {
		return 0, fmt.Errorf("parse byte: %w", err)
	}
	return uint8(v), nil
}

// DecodeString decodes a dynamically encoded string: a 32-byte offset word,
// a 32-byte length word, then the UTF-8 payload padded to 32 bytes.
// Responses shorter than the two-word header are treated as non-standard and
// fall back to extracting printable ASCII from the whole input.
// A zero length yields the empty string.
func DecodeString(hexStr string) (string, error) {
	h := strings.TrimPrefix(hexStr, "0x")

	if len(h) < 128 {
		return extractASCII(h), nil
	}

	lengthHex := strings.TrimLeft(h[64:128], "0")
	var length uint64
	if lengthHex != "" {
		v, err := strconv.ParseUint(lengthHex, 16, 32)
		if err != nil {
			return "", fmt.Errorf("parse string length: %w", err)
		}
		length = v
	}

	if length == 0 {
		return "", nil
	}

	dataStart := uint64(128)
	dataEnd := dataStart + length*2
	if dataEnd > uint64(len(h)) {
		dataEnd = uint64(len(h))
	}
	dataHex := h[dataStart:dataEnd]
	if len(dataHex)%2 != 0 {
		dataHex = dataHex[:len(dataHex)-1]
	}

	b, err := hex.DecodeString(dataHex)
	if err != nil {
		return "", fmt.Errorf("decode string payload: %w", err)
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("string payload is not valid UTF-8")
	}
	return string(b), nil
}

// hexToDecimal converts a hex digit string to a decimal string of any width.
// Digits accumulate least-significant-first in a base-10 array that is
// multiplied by 16 and incremented per input digit, then reversed for output.
func hexToDecimal(h string) (string, error) {
	result := []uint8{0}

	for _, ch := range h {
		digit, err := hexDigit(ch)
		if err != nil {
			return "", err
		}

		// result = result*16 + digit
		carry := uint16(digit)
		for i := range result {
			v := uint16(result[i])*16 + carry
			result[i] = uint8(v % 10)
			carry = v / 10
		}
		for carry > 0 {
			result = append(result, uint8(carry%10))
			carry /= 10
		}
	}

	out := make([]byte, len(result))
	for i, d := range result {
		out[len(result)-1-i] = '0' + d
	}
	return string(out), nil
}

func hexDigit(ch rune) (uint8, error) {
	switch {
	case ch >= '0' && ch <= '9':
		return uint8(ch - '0'), nil
	case ch >= 'a' && ch <= 'f':
		return uint8(ch-'a') + 10, nil
	case ch >= 'A' && ch <= 'F':
		return uint8(ch-'A') + 10, nil
	default:
		return 0, fmt.Errorf("invalid hex digit %q", ch)
	}
}

// extractASCII pulls printable ASCII runs out of a non-standard response.
// Malformed hex pairs are skipped rather than failing; this path is a
// documented lenient fallback.
func extractASCII(h string) string {
	var sb strings.Builder
	for i := 0; i+2 <= len(h); i += 2 {
		v, err := strconv.ParseUint(h[i:i+2], 16, 8)
		if err != nil {
			continue
		}
		if v >= 0x20 && v <= 0x7e {
			sb.WriteByte(byte(v))
		}
	}
	return strings.TrimSpace(sb.String())
}

func allZero(h string) bool {
	for _, ch := range h {
		if ch != '0' {
			return false
		}
	}
	return true
}
