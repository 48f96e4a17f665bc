package domain

// RateLimitRecommendation suggests bridge rate limits from transfer activity.
type RateLimitRecommendation struct {
	DailyTransfers        uint64 `json:"daily_transfers"`
	RecommendedDailyLimit uint64 `json:"recommended_daily_limit"`  // whole tokens
	RecommendedPerTxLimit uint64 `json:"recommended_per_tx_limit"` // whole tokens
	Reasoning             string `json:"reasoning"`
	HighVolumeWarning     bool   `json:"high_volume_warning"`
}

// TransferSample is one observed ERC-20 transfer, recorded by the watch
// ingester for volume estimation.
// Corresponds to the transfer_samples table in ClickHouse.
type TransferSample struct {
	Chain       Chain   `json:"chain"`
	Token       string  `json:"token"` // lowercase hex token address
	TxHash      string  `json:"tx_hash"`
	LogIndex    uint32  `json:"log_index"`
	BlockNumber uint64  `json:"block_number"`
	Amount      float64 `json:"amount"` // whole tokens, decimals applied
	TimestampMs int64   `json:"timestamp_ms"`
}
