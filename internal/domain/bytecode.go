package domain

// ProxyType classifies a detected proxy pattern.
type ProxyType string

// Proxy pattern kinds.
const (
	ProxyMinimal                ProxyType = "minimal"     // EIP-1167 clone
	ProxyEIP1967                ProxyType = "eip1967"     // small bytecode + delegatecall
	ProxyTransparentUpgradeable ProxyType = "transparent" // larger upgradeable proxy
	ProxyUnknown                ProxyType = "unknown"
)

// DisplayName returns the human-readable proxy kind.
func (p ProxyType) DisplayName() string {
	switch p {
	case ProxyMinimal:
		return "Minimal Proxy (Clone)"
	case ProxyEIP1967:
		return "EIP-1967"
	case ProxyTransparentUpgradeable:
		return "Transparent Upgradeable"
	default:
		return "Unknown Proxy"
	}
}

// Complexity is a coarse size-based bytecode complexity class.
type Complexity string

// Complexity classes. Thresholds: Simple <5KB, Moderate 5-15KB, Complex >15KB.
const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// DisplayName returns the complexity class with its size band.
func (c Complexity) DisplayName() string {
	switch c {
	case ComplexityModerate:
		return "Moderate (5-15KB)"
	case ComplexityComplex:
		return "Complex (>15KB)"
	default:
		return "Simple (<5KB)"
	}
}

// BytecodeProfile is the capability/risk feature set derived from raw bytecode.
// Derived once per analysis, read-only afterwards.
type BytecodeProfile struct {
	SizeBytes             int        `json:"size_bytes"`
	CodeHash              string     `json:"code_hash,omitempty"` // SHA-256 of the deployed bytecode, hex

	IsProxy               bool       `json:"is_proxy"`
	ProxyType             ProxyType  `json:"proxy_type,omitempty"`
	ImplementationAddress string     `json:"implementation_address,omitempty"` // resolved by caller via storage read
	HasSelfdestruct       bool       `json:"has_selfdestruct"`
	HasDelegatecall       bool       `json:"has_delegatecall"`
	HasFeePattern         bool       `json:"has_fee_pattern"`
	Complexity            Complexity `json:"complexity"`
}
