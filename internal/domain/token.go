package domain

// TokenMetadata holds ERC-20 token identity resolved from on-chain calls.
// Produced once by the metadata resolver and never mutated afterwards.
type TokenMetadata struct {
	Address     string `json:"address"` // canonical lowercase hex, 0x-prefixed
	Chain       Chain  `json:"chain"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Decimals    uint8  `json:"decimals"`
	TotalSupply string `json:"total_supply"` // arbitrary-precision decimal string
}

// TokenCapabilities is the feature vector detected for a token.
// Flags are independent and non-exclusive. IsRebasing cannot be derived
// from bytecode and must be supplied by an external source.
type TokenCapabilities struct {
	HasMint       bool `json:"has_mint"`
	HasBurn       bool `json:"has_burn"`
	HasPause      bool `json:"has_pause"`
	HasBlacklist  bool `json:"has_blacklist"`
	HasPermit     bool `json:"has_permit"`
	IsUpgradeable bool `json:"is_upgradeable"`
	IsRebasing    bool `json:"is_rebasing"`
}
