// Package cost estimates and tracks Bedrock spend: a local pricing table
// for per-call estimates, Cost Explorer for billed spend, and CloudWatch
// for invocation metrics.
package cost

import "github.com/promptfoundry/bedrocklab"

// Pricing is USD per 1K tokens.
type Pricing struct {
	InputPer1K  float64
	OutputPer1K float64
}

// On-demand us-east-1 list prices. Embedding models only bill input.
var defaultPricing = map[string]Pricing{
	"amazon.nova-micro-v1:0":                    {InputPer1K: 0.000035, OutputPer1K: 0.00014},
	"amazon.nova-lite-v1:0":                     {InputPer1K: 0.00006, OutputPer1K: 0.00024},
	"amazon.nova-pro-v1:0":                      {InputPer1K: 0.0008, OutputPer1K: 0.0032},
	"anthropic.claude-3-5-sonnet-20241022-v2:0": {InputPer1K: 0.003, OutputPer1K: 0.015},
	"anthropic.claude-3-5-haiku-20241022-v1:0":  {InputPer1K: 0.0008, OutputPer1K: 0.004},
	"amazon.titan-embed-text-v2:0":              {InputPer1K: 0.00002},
}

// Breakdown is an estimated cost split.
type Breakdown struct {
	InputUSD  float64
	OutputUSD float64
	TotalUSD  float64
}

// ResolvePricing looks up the pricing for a model ID, ignoring any
// cross-region inference profile prefix. ok is false for unknown models.
func ResolvePricing(modelID string) (Pricing, bool) {
	if pricing, ok := defaultPricing[modelID]; ok {
		return pricing, true
	}
	// "us.amazon.nova-lite-v1:0" prices the same as the bare ID.
	for _, prefix := range []string{"us.", "eu.", "ap."} {
		if len(modelID) > len(prefix) && modelID[:len(prefix)] == prefix {
			if pricing, ok := defaultPricing[modelID[len(prefix):]]; ok {
				return pricing, true
			}
		}
	}
	return Pricing{}, false
}

// Estimate converts token usage into USD for a model. Unknown models get a
// zero breakdown and ok=false.
func Estimate(modelID string, usage bedrocklab.Usage) (Breakdown, bool) {
	pricing, ok := ResolvePricing(modelID)
	if !ok {
		return Breakdown{}, false
	}

	breakdown := Breakdown{
		InputUSD:  float64(usage.InputTokens) / 1000 * pricing.InputPer1K,
		OutputUSD: float64(usage.OutputTokens) / 1000 * pricing.OutputPer1K,
	}
	breakdown.TotalUSD = breakdown.InputUSD + breakdown.OutputUSD
	return breakdown, true
}
