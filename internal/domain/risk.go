package domain

// RiskRating buckets the composite score: Low <=33, Medium <=66, High >66.
type RiskRating string

// Risk ratings.
const (
	RiskLow    RiskRating = "low"
	RiskMedium RiskRating = "medium"
	RiskHigh   RiskRating = "high"
)

// DisplayName returns the capitalized rating label.
func (r RiskRating) DisplayName() string {
	switch r {
	case RiskMedium:
		return "Medium"
	case RiskHigh:
		return "High"
	default:
		return "Low"
	}
}

// RiskComponents are the five independently bounded sub-scores.
// Each stays within its documented maximum; the scorer clamps, never wraps.
type RiskComponents struct {
	DecimalHandling     int `json:"decimal_handling"`     // 0-20
	TokenFeatures       int `json:"token_features"`       // 0-25
	BytecodeComplexity  int `json:"bytecode_complexity"`  // 0-20
	HolderConcentration int `json:"holder_concentration"` // 0-15
	BridgeStatus        int `json:"bridge_status"`        // 0-20
}

// RiskScore is the composite migration risk for one token.
// Lower is safer.
type RiskScore struct {
	Total      int            `json:"total"` // 0-100
	Rating     RiskRating     `json:"rating"`
	Components RiskComponents `json:"components"`
}

// ScoreFromComponents sums the sub-scores, clamps to [0,100] and assigns
// the rating band.
func ScoreFromComponents(c RiskComponents) RiskScore {
	total := c.DecimalHandling + c.TokenFeatures + c.BytecodeComplexity +
		c.HolderConcentration + c.BridgeStatus
	if total > 100 {
		total = 100
	}

	rating := RiskLow
	switch {
	case total > 66:
		rating = RiskHigh
	case total > 33:
		rating = RiskMedium
	}

	return RiskScore{
		Total:      total,
		Rating:     rating,
		Components: c,
	}
}
