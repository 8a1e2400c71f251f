// Package router picks Bedrock models for queries and orders pending work:
// a query router scores complexity into a model tier, and a priority router
// schedules requests by priority class.
package router

// Tier is a capability/cost class of the Nova model family.
type Tier string

const (
	// TierMicro is the cheapest tier, for trivial lookups.
	TierMicro Tier = "micro"
	// TierLite is the default mid tier.
	TierLite Tier = "lite"
	// TierPro is the most capable tier, for multi-step reasoning.
	TierPro Tier = "pro"
)

// ModelID returns the Bedrock model ID for the tier.
func (t Tier) ModelID() string {
	switch t {
	case TierMicro:
		return "amazon.nova-micro-v1:0"
	case TierPro:
		return "amazon.nova-pro-v1:0"
	default:
		return "amazon.nova-lite-v1:0"
	}
}
