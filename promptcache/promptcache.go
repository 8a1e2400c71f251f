// Package promptcache caches language model responses keyed by a fingerprint
// of the model ID and the full call, so repeated prompts skip the API.
package promptcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/promptfoundry/bedrocklab"
)

// DefaultTTL is how long cached responses stay valid unless configured
// otherwise.
const DefaultTTL = 5 * time.Minute

// Key fingerprints a call against a model ID. The fingerprint is the SHA-256
// of the model ID and the canonical JSON encoding of the call, so any change
// to the prompt or sampling parameters produces a new key.
func Key(modelID string, call bedrocklab.Call) (string, error) {
	payload, err := json.Marshal(call)
	if err != nil {
		return "", fmt.Errorf("failed to marshal call for cache key: %w", err)
	}

	h := sha256.New()
	h.Write([]byte(modelID))
	h.Write([]byte{0})
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Store is a TTL-bounded response store. Get returns ok=false for missing or
// expired entries.
type Store interface {
	Get(ctx context.Context, key string) (*bedrocklab.Response, bool, error)
	Set(ctx context.Context, key string, response *bedrocklab.Response) error
	Flush(ctx context.Context) error
}

// Stats counts cache activity for a session.
type Stats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Stored int64 `json:"stored"`
}

// HitRate returns the fraction of lookups served from the cache.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
