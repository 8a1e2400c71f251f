// Package bedrock implements the bedrocklab provider interfaces on the AWS
// Bedrock Runtime Converse and InvokeModel APIs.
package bedrock

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/promptfoundry/bedrocklab"
)

const (
	// Name is the name of the Bedrock provider.
	Name = "bedrock"

	// DefaultModelID is the course's default chat model.
	DefaultModelID = "amazon.nova-lite-v1:0"

	// DefaultEmbeddingModelID is the course's default embedding model.
	DefaultEmbeddingModelID = "amazon.titan-embed-text-v2:0"
)

// ConverseAPI is the subset of the Bedrock Runtime client used by language
// models. Satisfied by *bedrockruntime.Client.
type ConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
	ConverseStream(ctx context.Context, params *bedrockruntime.ConverseStreamInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseStreamOutput, error)
}

// InvokeAPI is the subset of the Bedrock Runtime client used by embedding
// models. Satisfied by *bedrockruntime.Client.
type InvokeAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

type options struct {
	region                  string
	profile                 string
	client                  *bedrockruntime.Client
	disableInferenceProfile bool
}

// Option defines a function that configures Bedrock provider options.
type Option = func(*options)

// WithRegion overrides the region resolved from the AWS credential chain.
func WithRegion(region string) Option {
	return func(o *options) {
		o.region = region
	}
}

// WithProfile selects a shared-config profile.
func WithProfile(profile string) Option {
	return func(o *options) {
		o.profile = profile
	}
}

// WithClient supplies a preconstructed Bedrock Runtime client, bypassing the
// AWS credential chain. Mainly useful in tests.
func WithClient(client *bedrockruntime.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithoutInferenceProfile disables the cross-region inference profile prefix
// on model IDs, invoking the model in the configured region only.
func WithoutInferenceProfile() Option {
	return func(o *options) {
		o.disableInferenceProfile = true
	}
}

type provider struct {
	options options
}

// New creates a new Bedrock provider with the given options.
func New(opts ...Option) bedrocklab.Provider {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &provider{options: o}
}

// Name returns the provider name.
func (p *provider) Name() string { return Name }

// loadClient resolves the Bedrock Runtime client and region, honoring an
// injected client over the default credential chain.
func (p *provider) loadClient(ctx context.Context) (*bedrockruntime.Client, string, error) {
	if p.options.client != nil {
		return p.options.client, p.options.region, nil
	}

	var loadOpts []func(*config.LoadOptions) error
	if p.options.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(p.options.region))
	}
	if p.options.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(p.options.profile))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	return bedrockruntime.NewFromConfig(cfg), cfg.Region, nil
}

// LanguageModel creates a Converse-backed language model for the given model
// ID, applying the cross-region inference profile prefix unless disabled.
func (p *provider) LanguageModel(ctx context.Context, modelID string) (bedrocklab.LanguageModel, error) {
	client, region, err := p.loadClient(ctx)
	if err != nil {
		return nil, err
	}

	if !p.options.disableInferenceProfile {
		modelID = applyRegionPrefix(modelID, region)
	}

	return &languageModel{
		modelID:  modelID,
		provider: Name,
		client:   client,
	}, nil
}

// EmbeddingModel creates a Titan embeddings model for the given model ID.
// Embedding models are invoked per region and never use inference profiles.
func (p *provider) EmbeddingModel(ctx context.Context, modelID string) (bedrocklab.EmbeddingModel, error) {
	client, _, err := p.loadClient(ctx)
	if err != nil {
		return nil, err
	}

	return &embeddingModel{
		modelID:  modelID,
		provider: Name,
		client:   client,
	}, nil
}
