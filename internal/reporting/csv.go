package reporting

import (
	"fmt"
	"sort"
	"strings"

	"token-migration-lab/internal/domain"
)

// RankByRisk orders analyses by ascending risk total, so the strongest
// migration candidates come first. Ties break on symbol for stable output.
func RankByRisk(analyses []*domain.Analysis) []*domain.Analysis {
	ranked := make([]*domain.Analysis, len(analyses))
	copy(ranked, analyses)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].RiskScore.Total != ranked[j].RiskScore.Total {
			return ranked[i].RiskScore.Total < ranked[j].RiskScore.Total
		}
		return ranked[i].Token.Symbol < ranked[j].Token.Symbol
	})
	return ranked
}

// RenderCSV renders a ranked analysis list as CSV string.
func RenderCSV(analyses []*domain.Analysis) string {
	var sb strings.Builder

	// Header
	sb.WriteString("rank,symbol,name,chain,address,risk_total,risk_rating,is_compatible,")
	sb.WriteString("recommended_mode,decimals,issues,already_on_destination\n")

	// Rows
	for i, a := range analyses {
		sb.WriteString(fmt.Sprintf("%d,%s,%s,%s,%s,%d,%s,%t,%s,%d,%d,%t\n",
			i+1,
			csvEscape(a.Token.Symbol),
			csvEscape(a.Token.Name),
			a.Token.Chain,
			a.Token.Address,
			a.RiskScore.Total,
			a.RiskScore.Rating,
			a.Compatibility.IsCompatible,
			a.Compatibility.RecommendedMode,
			a.Token.Decimals,
			len(a.Compatibility.Issues),
			a.BridgeStatus.AlreadyOnDestination,
		))
	}

	return sb.String()
}

// csvEscape quotes a field containing commas or quotes.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
