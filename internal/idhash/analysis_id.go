// Package idhash computes deterministic record identifiers.
package idhash

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"token-migration-lab/internal/domain"
)

// ComputeAnalysisID computes a deterministic analysis_id using SHA256.
// Formula: SHA256(chain|address|code-hash)
// Returns hex-encoded hash (64 characters).
//
// Re-analyzing a token whose bytecode has not changed yields the same ID,
// so stores can treat the repeat insert as a duplicate. The address is
// lowercased first so the ID does not depend on checksum casing of the
// input.
func ComputeAnalysisID(chain domain.Chain, address, codeHash string) string {
	data := fmt.Sprintf("%s|%s|%s",
		string(chain),
		strings.ToLower(address),
		codeHash,
	)

	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:])
}
