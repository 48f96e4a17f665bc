package domain

// Analysis is the complete immutable record produced for one token.
// Corresponds to the analyses table in PostgreSQL.
type Analysis struct {
	AnalysisID    string                   `json:"analysis_id"` // deterministic hash
	Token         TokenMetadata            `json:"token"`
	Capabilities  TokenCapabilities        `json:"capabilities"`
	Bytecode      BytecodeProfile          `json:"bytecode"`
	Compatibility CompatibilityVerdict     `json:"compatibility"`
	BridgeStatus  BridgeStatus             `json:"bridge_status"`
	RiskScore     RiskScore                `json:"risk_score"`
	HolderData    *HolderData              `json:"holder_data,omitempty"`
	RateLimit     *RateLimitRecommendation `json:"rate_limit,omitempty"`
	AnalyzedAt    int64                    `json:"analyzed_at"` // Unix timestamp in milliseconds
}
