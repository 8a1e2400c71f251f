package router

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// reasoningKeywords suggest multi-step work when they appear in a query.
var reasoningKeywords = []string{
	"explain", "why", "how", "compare", "analyze", "design", "plan",
	"step by step", "walk me through", "trade-off", "tradeoff", "prove",
	"debug", "refactor", "optimize",
}

// Decision is the query router's verdict.
type Decision struct {
	Tier    Tier
	ModelID string
	Score   int
	// Signals names the heuristics that contributed to the score.
	Signals []string
}

// QueryRouter scores query complexity into a model tier. Scoring is
// deterministic for a given input.
type QueryRouter struct {
	// LiteThreshold is the minimum score routed to Lite; below it goes
	// to Micro.
	LiteThreshold int
	// ProThreshold is the minimum score routed to Pro.
	ProThreshold int
}

// NewQueryRouter returns a router with the default thresholds: trivial
// single-sentence lookups route to Micro, multi-step reasoning to Pro.
func NewQueryRouter() *QueryRouter {
	return &QueryRouter{LiteThreshold: 2, ProThreshold: 5}
}

// Route scores the query and picks a tier.
func (r *QueryRouter) Route(query string) Decision {
	score, signals := r.score(query)

	tier := TierMicro
	switch {
	case score >= r.ProThreshold:
		tier = TierPro
	case score >= r.LiteThreshold:
		tier = TierLite
	}

	decision := Decision{
		Tier:    tier,
		ModelID: tier.ModelID(),
		Score:   score,
		Signals: signals,
	}
	log.Debug().
		Str("tier", string(tier)).
		Int("score", score).
		Strs("signals", signals).
		Msg("routed query")
	return decision
}

func (r *QueryRouter) score(query string) (int, []string) {
	var score int
	var signals []string
	lower := strings.ToLower(query)

	// Single-word keywords match whole words only, so "show" never counts
	// as "how". Phrases still match as substrings.
	tokens := make(map[string]bool)
	for _, field := range strings.Fields(lower) {
		tokens[strings.Trim(field, ".,;:!?()[]{}\"'`")] = true
	}

	words := len(strings.Fields(query))
	switch {
	case words > 100:
		score += 3
		signals = append(signals, fmt.Sprintf("long query (%d words)", words))
	case words > 30:
		score += 2
		signals = append(signals, fmt.Sprintf("medium query (%d words)", words))
	case words > 12:
		score++
		signals = append(signals, fmt.Sprintf("multi-sentence query (%d words)", words))
	}

	for _, keyword := range reasoningKeywords {
		matched := tokens[keyword]
		if !matched && strings.Contains(keyword, " ") {
			matched = strings.Contains(lower, keyword)
		}
		if matched {
			score++
			signals = append(signals, "reasoning keyword: "+keyword)
		}
	}

	if strings.Contains(query, "```") {
		score += 2
		signals = append(signals, "code fence")
	}

	if questions := strings.Count(query, "?"); questions > 1 {
		score++
		signals = append(signals, fmt.Sprintf("multi-part question (%d)", questions))
	}

	return score, signals
}
