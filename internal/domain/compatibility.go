package domain

// Severity ranks compatibility issues. Higher values are more severe.
type Severity int

// Issue severities.
const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

// String returns the uppercase severity label.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// MarshalJSON encodes severity as its label.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes a severity label. Unknown labels decode as INFO.
func (s *Severity) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"ERROR"`:
		*s = SeverityError
	case `"WARNING"`:
		*s = SeverityWarning
	default:
		*s = SeverityInfo
	}
	return nil
}

// Issue codes emitted by the compatibility evaluator, in rule firing order.
const (
	IssueDecimalTrim   = "DECIMAL_TRIM"
	IssueRebasing      = "REBASING"
	IssueFeeOnTransfer = "FEE_ON_TRANSFER"
	IssuePausable      = "PAUSABLE"
	IssueBlacklist     = "BLACKLIST"
	IssueMintable      = "MINTABLE"
	IssueBurnable      = "BURNABLE"
	IssueSelfdestruct  = "SELFDESTRUCT"
	IssueProxy         = "PROXY"
)

// CompatibilityIssue is one detected concern. Issues accumulate in a fixed
// order so verdicts are deterministic for identical inputs.
type CompatibilityIssue struct {
	Severity       Severity `json:"severity"`
	Code           string   `json:"code"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Recommendation string   `json:"recommendation"`
}

// TransferMode is the bridge operating mode on the source chain.
type TransferMode string

// Transfer modes.
const (
	// ModeLocking custodies tokens on the source chain and mints on the destination.
	ModeLocking TransferMode = "locking"
	// ModeBurning burns tokens on the source chain and mints on the destination.
	// Requires burn authority on the source token.
	ModeBurning TransferMode = "burning"
)

// DisplayName returns the capitalized mode label.
func (m TransferMode) DisplayName() string {
	if m == ModeBurning {
		return "Burning"
	}
	return "Locking"
}

// CompatibilityVerdict is the evaluator output for one token.
// IsCompatible is true iff no Error-severity issue was emitted.
type CompatibilityVerdict struct {
	IsCompatible            bool                 `json:"is_compatible"`
	RecommendedMode         TransferMode         `json:"recommended_mode"`
	Issues                  []CompatibilityIssue `json:"issues"`
	DecimalTrimmingRequired bool                 `json:"decimal_trimming_required"`
	DestinationDecimals     uint8                `json:"destination_decimals"`
}
