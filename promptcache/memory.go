package promptcache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/promptfoundry/bedrocklab"
)

// DefaultMaxEntries bounds the in-memory store so a long session cannot grow
// without limit.
const DefaultMaxEntries = 1024

// MemoryStore is an in-process Store on an expirable LRU. Entries expire
// after the TTL and the oldest entries are evicted past the size cap.
type MemoryStore struct {
	cache *expirable.LRU[string, *bedrocklab.Response]
}

// NewMemoryStore creates a memory store with the given TTL. A zero or
// negative TTL uses DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		cache: expirable.NewLRU[string, *bedrocklab.Response](DefaultMaxEntries, nil, ttl),
	}
}

// Get returns the cached response for the key, if present and unexpired.
func (s *MemoryStore) Get(_ context.Context, key string) (*bedrocklab.Response, bool, error) {
	response, ok := s.cache.Get(key)
	return response, ok, nil
}

// Set stores a response under the key.
func (s *MemoryStore) Set(_ context.Context, key string, response *bedrocklab.Response) error {
	s.cache.Add(key, response)
	return nil
}

// Flush drops all entries.
func (s *MemoryStore) Flush(_ context.Context) error {
	s.cache.Purge()
	return nil
}

// Len returns the number of live entries.
func (s *MemoryStore) Len() int {
	return s.cache.Len()
}
