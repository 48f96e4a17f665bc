// Package bytecode derives a capability and risk feature set from raw
// contract bytecode. Detection is substring matching over the hex stream:
// it cannot tell real opcodes from inline push data, which is accepted
// because consumers treat every flag as a warning signal, not proof.
package bytecode

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"token-migration-lab/internal/domain"
)

// Function selectors for token capability detection.
const (
	selMint         = "40c10f19" // mint(address,uint256)
	selBurn         = "42966c68" // burn(uint256)
	selBurnFrom     = "79cc6790" // burnFrom(address,uint256)
	selPause        = "8456cb59" // pause()
	selUnpause      = "3f4ba83a" // unpause()
	selBlacklist    = "f9f92be4" // blacklist(address)
	selAddBlacklist = "44337ea1" // addBlacklist(address)
	selPermit       = "d505accf" // permit(address,address,uint256,uint256,uint8,bytes32,bytes32)
)

// Opcodes of interest, as hex byte strings.
const (
	opDelegatecall = "f4"
	opSelfdestruct = "ff"
)

// minimalProxyPrefix is the EIP-1167 clone bytecode prefix.
const minimalProxyPrefix = "363d3d373d3d3d363d73"

// feeSelectors are known fee-setter function selectors. Only explicit
// setters are matched to keep false positives down.
var feeSelectors = []string{
	"69fe0e2d", // setFee(uint256)
	"c0b0fda2", // setTaxFee(uint256)
	"e01af92c", // setTaxRate(uint256)
	"f41e60c5", // setFees(uint256)
}

// Complexity class thresholds in bytes.
const (
	simpleMaxBytes   = 5 * 1024
	moderateMaxBytes = 15 * 1024
)

// Proxy size heuristics in bytes.
const (
	eip1967MaxBytes     = 1000
	transparentMaxBytes = 5000
)

// Analyzer inspects contract bytecode. It is stateless; no operation fails.
type Analyzer struct{}

// NewAnalyzer creates a bytecode analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze produces the full bytecode profile. Empty bytecode yields the
// zero-value profile with Simple complexity.
func (a *Analyzer) Analyze(bytecodeHex string) domain.BytecodeProfile {
	code := strings.ToLower(strings.TrimPrefix(bytecodeHex, "0x"))
	sizeBytes := len(code) / 2

	if sizeBytes == 0 {
		return domain.BytecodeProfile{Complexity: domain.ComplexitySimple}
	}

	isProxy, proxyType := a.detectProxy(code)
	codeHash := sha256.Sum256([]byte(code))

	return domain.BytecodeProfile{
		SizeBytes:       sizeBytes,
		CodeHash:        hex.EncodeToString(codeHash[:]),
		IsProxy:         isProxy,
		ProxyType:       proxyType,
		HasSelfdestruct: strings.Contains(code, opSelfdestruct),
		HasDelegatecall: strings.Contains(code, opDelegatecall),
		HasFeePattern:   a.detectFeePattern(code),
		Complexity:      complexityForSize(sizeBytes),
	}
}

// DetectCapabilities matches capability selectors independently. Absence of
// a selector means the capability is absent, never an error. Rebasing cannot
// be derived from bytecode and is left unset.
func (a *Analyzer) DetectCapabilities(bytecodeHex string) domain.TokenCapabilities {
	code := strings.ToLower(strings.TrimPrefix(bytecodeHex, "0x"))

	isProxy, _ := a.detectProxy(code)

	return domain.TokenCapabilities{
		HasMint:       strings.Contains(code, selMint),
		HasBurn:       strings.Contains(code, selBurn) || strings.Contains(code, selBurnFrom),
		HasPause:      strings.Contains(code, selPause) || strings.Contains(code, selUnpause),
		HasBlacklist:  strings.Contains(code, selBlacklist) || strings.Contains(code, selAddBlacklist),
		HasPermit:     strings.Contains(code, selPermit),
		IsUpgradeable: isProxy,
	}
}

// detectProxy classifies the proxy pattern in priority order. True slot
// inspection needs a live storage read, so size plus delegatecall presence
// serves as a cheap, deliberately imprecise discriminator.
func (a *Analyzer) detectProxy(code string) (bool, domain.ProxyType) {
	if strings.HasPrefix(code, minimalProxyPrefix) {
		return true, domain.ProxyMinimal
	}

	size := len(code) / 2
	hasDelegatecall := strings.Contains(code, opDelegatecall)

	if hasDelegatecall && size < eip1967MaxBytes {
		return true, domain.ProxyEIP1967
	}
	if hasDelegatecall && size < transparentMaxBytes {
		return true, domain.ProxyTransparentUpgradeable
	}

	return false, ""
}

func (a *Analyzer) detectFeePattern(code string) bool {
	for _, sel := range feeSelectors {
		if strings.Contains(code, sel) {
			return true
		}
	}
	return false
}

func complexityForSize(sizeBytes int) domain.Complexity {
	switch {
	case sizeBytes < simpleMaxBytes:
		return domain.ComplexitySimple
	case sizeBytes < moderateMaxBytes:
		return domain.ComplexityModerate
	default:
		return domain.ComplexityComplex
	}
}
