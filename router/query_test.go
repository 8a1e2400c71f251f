package router

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueryRouterRoute(t *testing.T) {
	t.Parallel()

	router := NewQueryRouter()

	testCases := []struct {
		name  string
		query string
		tier  Tier
	}{
		{
			name:  "trivial lookup goes to micro",
			query: "capital of France",
			tier:  TierMicro,
		},
		{
			name:  "single reasoning keyword with length goes to lite",
			query: "explain what a knowledge base is and when I would want to use one",
			tier:  TierLite,
		},
		{
			name: "multi-step reasoning goes to pro",
			query: "Compare the trade-offs between prompt caching and a knowledge base, " +
				"explain how each affects latency and cost, and design a plan for " +
				"migrating our current setup? What would you do first?",
			tier: TierPro,
		},
		{
			name:  "code fence plus debug keyword goes to lite or above",
			query: "debug this\n```go\npanic(\"boom\")\n```",
			tier:  TierLite,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			decision := router.Route(tc.query)
			require.Equal(t, tc.tier, decision.Tier)
			require.Equal(t, tc.tier.ModelID(), decision.ModelID)
		})
	}
}

func TestQueryRouterKeywordsMatchWholeWords(t *testing.T) {
	t.Parallel()

	router := NewQueryRouter()

	// "show" and "anyhow" contain "how" but are not reasoning keywords.
	decision := router.Route("show the menu anyhow")
	for _, signal := range decision.Signals {
		require.NotContains(t, signal, "reasoning keyword")
	}
	require.Equal(t, TierMicro, decision.Tier)

	// Punctuation next to a keyword does not hide it.
	decision = router.Route("how?")
	require.Contains(t, strings.Join(decision.Signals, "; "), "reasoning keyword: how")

	// Phrases still match inside the query.
	decision = router.Route("please walk me through the setup")
	require.Contains(t, strings.Join(decision.Signals, "; "), "reasoning keyword: walk me through")
}

func TestQueryRouterDeterministic(t *testing.T) {
	t.Parallel()

	router := NewQueryRouter()
	query := "Why does this happen? How do I fix it?"

	first := router.Route(query)
	second := router.Route(query)
	require.Equal(t, first, second)
}

func TestQueryRouterSignals(t *testing.T) {
	t.Parallel()

	router := NewQueryRouter()
	decision := router.Route("Explain why this fails? And how do I fix it? " + strings.Repeat("context ", 31))

	require.NotEmpty(t, decision.Signals)
	joined := strings.Join(decision.Signals, "; ")
	require.Contains(t, joined, "reasoning keyword: explain")
	require.Contains(t, joined, "multi-part question")
	require.Contains(t, joined, "medium query")
	require.Equal(t, TierPro, decision.Tier)
}

func TestQueryRouterCustomThresholds(t *testing.T) {
	t.Parallel()

	// Everything at least lite.
	router := &QueryRouter{LiteThreshold: 0, ProThreshold: 100}
	require.Equal(t, TierLite, router.Route("hi").Tier)
}

func TestTierModelID(t *testing.T) {
	t.Parallel()

	require.Equal(t, "amazon.nova-micro-v1:0", TierMicro.ModelID())
	require.Equal(t, "amazon.nova-lite-v1:0", TierLite.ModelID())
	require.Equal(t, "amazon.nova-pro-v1:0", TierPro.ModelID())
}
