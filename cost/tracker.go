package cost

import (
	"sort"
	"sync"

	"github.com/promptfoundry/bedrocklab"
)

// ModelSpend is accumulated usage and cost for one model.
type ModelSpend struct {
	ModelID      string
	Calls        int64
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
	USD          float64
}

// Tracker accumulates usage and estimated USD per model across a session.
// Safe for concurrent use.
type Tracker struct {
	mu       sync.Mutex
	byModel  map[string]*ModelSpend
	totalUSD float64
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{byModel: map[string]*ModelSpend{}}
}

// Record adds one call's usage for a model. Unknown models accumulate
// tokens with zero cost.
func (t *Tracker) Record(modelID string, usage bedrocklab.Usage) {
	breakdown, _ := Estimate(modelID, usage)

	t.mu.Lock()
	defer t.mu.Unlock()

	spend, ok := t.byModel[modelID]
	if !ok {
		spend = &ModelSpend{ModelID: modelID}
		t.byModel[modelID] = spend
	}
	spend.Calls++
	spend.InputTokens += usage.InputTokens
	spend.OutputTokens += usage.OutputTokens
	spend.TotalTokens += usage.TotalTokens
	spend.USD += breakdown.TotalUSD
	t.totalUSD += breakdown.TotalUSD
}

// Report is a point-in-time snapshot of tracked spend.
type Report struct {
	// Models is sorted by descending USD, ties by model ID.
	Models   []ModelSpend
	TotalUSD float64
}

// Report snapshots the tracker.
func (t *Tracker) Report() Report {
	t.mu.Lock()
	defer t.mu.Unlock()

	report := Report{TotalUSD: t.totalUSD}
	for _, spend := range t.byModel {
		report.Models = append(report.Models, *spend)
	}
	sort.Slice(report.Models, func(i, j int) bool {
		if report.Models[i].USD != report.Models[j].USD {
			return report.Models[i].USD > report.Models[j].USD
		}
		return report.Models[i].ModelID < report.Models[j].ModelID
	})
	return report
}
