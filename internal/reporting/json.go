package reporting

import (
	"encoding/json"
	"fmt"

	"token-migration-lab/internal/domain"
)

// RenderJSON renders an analysis as indented JSON.
func RenderJSON(a *domain.Analysis) (string, error) {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal analysis: %w", err)
	}
	return string(data), nil
}
