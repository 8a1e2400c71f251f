package bedrock

import (
	"github.com/promptfoundry/bedrocklab"
)

// ProviderOptions are Bedrock-specific options attached to a call under the
// provider name.
type ProviderOptions struct {
	// Guardrail attaches a managed guardrail to the Converse request so the
	// service filters input and output inline.
	Guardrail *GuardrailOptions `json:"guardrail,omitempty"`
}

// GuardrailOptions identifies a managed guardrail.
type GuardrailOptions struct {
	ID      string `json:"id"`
	Version string `json:"version"`
}

// NewProviderOptions wraps Bedrock options for use in a call.
func NewProviderOptions(opts ProviderOptions) bedrocklab.ProviderOptions {
	return bedrocklab.ProviderOptions{
		Name: opts,
	}
}

// ParseOptions extracts Bedrock-specific options from a call's provider
// options. Returns nil when no Bedrock options are present.
func ParseOptions(providerOptions bedrocklab.ProviderOptions) (*ProviderOptions, error) {
	raw, ok := providerOptions[Name]
	if !ok {
		return nil, nil
	}
	if typed, ok := raw.(*ProviderOptions); ok {
		return typed, nil
	}
	if typed, ok := raw.(ProviderOptions); ok {
		return &typed, nil
	}
	rawMap, ok := raw.(map[string]any)
	if !ok {
		return nil, nil
	}

	var opts ProviderOptions
	if err := bedrocklab.ParseOptions(rawMap, &opts); err != nil {
		return nil, err
	}
	return &opts, nil
}
