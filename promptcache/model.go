package promptcache

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/promptfoundry/bedrocklab"
)

// Model wraps a language model with a response cache. Generate consults the
// store first and populates it on a miss. Tool-calling turns are never
// cached: tool results vary between invocations, so replaying them would be
// wrong. Stream always passes through.
type Model struct {
	inner bedrocklab.LanguageModel
	store Store

	hits   atomic.Int64
	misses atomic.Int64
	stored atomic.Int64
}

// Wrap creates a caching wrapper around a language model.
func Wrap(inner bedrocklab.LanguageModel, store Store) *Model {
	return &Model{inner: inner, store: store}
}

// Model returns the wrapped model's ID.
func (m *Model) Model() string { return m.inner.Model() }

// Provider returns the wrapped model's provider name.
func (m *Model) Provider() string { return m.inner.Provider() }

// cacheable reports whether a call's response may be served from cache.
func cacheable(call bedrocklab.Call) bool {
	return len(call.Tools) == 0
}

// Generate serves the call from the cache when possible, generating and
// storing otherwise.
func (m *Model) Generate(ctx context.Context, call bedrocklab.Call) (*bedrocklab.Response, error) {
	if !cacheable(call) {
		return m.inner.Generate(ctx, call)
	}

	key, err := Key(m.inner.Model(), call)
	if err != nil {
		return nil, err
	}

	cached, ok, err := m.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if ok {
		m.hits.Add(1)
		log.Debug().Str("key", key[:12]).Msg("prompt cache hit")
		return cached, nil
	}

	m.misses.Add(1)
	log.Debug().Str("key", key[:12]).Msg("prompt cache miss")

	response, err := m.inner.Generate(ctx, call)
	if err != nil {
		return nil, err
	}

	// The response is already generated and paid for; a store failure is
	// not worth losing it over.
	if err := m.store.Set(ctx, key, response); err != nil {
		log.Warn().Err(err).Msg("failed to store response in prompt cache")
		return response, nil
	}
	m.stored.Add(1)

	return response, nil
}

// Stream passes through to the wrapped model; streamed responses are not
// cached.
func (m *Model) Stream(ctx context.Context, call bedrocklab.Call) (bedrocklab.StreamResponse, error) {
	return m.inner.Stream(ctx, call)
}

// Stats returns a snapshot of cache activity.
func (m *Model) Stats() Stats {
	return Stats{
		Hits:   m.hits.Load(),
		Misses: m.misses.Load(),
		Stored: m.stored.Load(),
	}
}
