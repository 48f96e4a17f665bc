package bridges

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"token-migration-lab/internal/domain"
)

// DefaultRegistryTimeout bounds a single registry lookup.
const DefaultRegistryTimeout = 10 * time.Second

// HTTPRegistry looks up bridged-token entries from a token list service.
type HTTPRegistry struct {
	baseURL string
	client  *http.Client
}

// RegistryOption configures HTTPRegistry.
type RegistryOption func(*HTTPRegistry)

// WithRegistryHTTPClient sets a custom http.Client.
func WithRegistryHTTPClient(client *http.Client) RegistryOption {
	return func(r *HTTPRegistry) {
		r.client = client
	}
}

// NewHTTPRegistry creates a registry client for the given base URL.
func NewHTTPRegistry(baseURL string, opts ...RegistryOption) *HTTPRegistry {
	r := &HTTPRegistry{
		baseURL: baseURL,
		client:  &http.Client{Timeout: DefaultRegistryTimeout},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type registryEntry struct {
	DestinationAddress string `json:"destination_address"`
	Provider           string `json:"provider"`
	Kind               string `json:"kind"`
}

// Lookup fetches the bridged entry for a source-chain address. A 404 means
// the token is not bridged and returns (nil, nil).
func (r *HTTPRegistry) Lookup(ctx context.Context, sourceAddress string) (*Entry, error) {
	url := fmt.Sprintf("%s/tokens/%s", r.baseURL, sourceAddress)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry status %d", resp.StatusCode)
	}

	var entry registryEntry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		return nil, fmt.Errorf("decode registry response: %w", err)
	}

	return &Entry{
		SourceAddress:      sourceAddress,
		DestinationAddress: entry.DestinationAddress,
		Provider:           entry.Provider,
		Kind:               domain.BridgeKind(entry.Kind),
	}, nil
}
