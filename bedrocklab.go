// Package bedrocklab is the course library for the AWS Bedrock labs: a small
// provider-neutral core for prompts, responses, streaming, and tools, with
// capability packages for caching, retrieval, guardrails, agents, routing,
// and cost monitoring built on top of it.
package bedrocklab

import (
	"context"
)

// Provider represents a provider of language models.
type Provider interface {
	Name() string
	LanguageModel(ctx context.Context, modelID string) (LanguageModel, error)
}
