package domain

// HolderInfo is one entry in the top-holder list.
type HolderInfo struct {
	Address    string  `json:"address"`
	Balance    string  `json:"balance"` // raw balance as decimal string
	Percentage float64 `json:"percentage"`
}

// HolderData is the holder-concentration snapshot from a block explorer.
// Absent entirely when no explorer credentials are configured; the risk
// scorer treats absence as unknown risk, not as zero.
type HolderData struct {
	TopHolders         []HolderInfo `json:"top_holders"` // ordered, largest first
	Top10Concentration float64      `json:"top_10_concentration"`
	TotalHolders       *int64       `json:"total_holders,omitempty"`
}
