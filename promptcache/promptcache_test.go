package promptcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/promptfoundry/bedrocklab"
)

// fakeModel counts Generate calls and returns a fixed response.
type fakeModel struct {
	calls    int
	response *bedrocklab.Response
}

func (f *fakeModel) Model() string    { return "amazon.nova-lite-v1:0" }
func (f *fakeModel) Provider() string { return "bedrock" }

func (f *fakeModel) Generate(ctx context.Context, call bedrocklab.Call) (*bedrocklab.Response, error) {
	f.calls++
	return f.response, nil
}

func (f *fakeModel) Stream(ctx context.Context, call bedrocklab.Call) (bedrocklab.StreamResponse, error) {
	return func(yield func(bedrocklab.StreamPart) bool) {}, nil
}

func textResponse(text string) *bedrocklab.Response {
	return &bedrocklab.Response{
		Content:      bedrocklab.ResponseContent{bedrocklab.TextContent{Text: text}},
		FinishReason: bedrocklab.FinishReasonStop,
		Usage:        bedrocklab.Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15},
	}
}

func TestKey_Deterministic(t *testing.T) {
	t.Parallel()

	call := bedrocklab.Call{
		Prompt:      bedrocklab.Prompt{bedrocklab.NewUserMessage("hello")},
		Temperature: bedrocklab.Opt(0.5),
	}

	first, err := Key("amazon.nova-lite-v1:0", call)
	require.NoError(t, err)
	second, err := Key("amazon.nova-lite-v1:0", call)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Len(t, first, 64)
}

func TestKey_VariesWithInputs(t *testing.T) {
	t.Parallel()

	base := bedrocklab.Call{Prompt: bedrocklab.Prompt{bedrocklab.NewUserMessage("hello")}}
	baseKey, err := Key("amazon.nova-lite-v1:0", base)
	require.NoError(t, err)

	otherModel, err := Key("amazon.nova-pro-v1:0", base)
	require.NoError(t, err)
	require.NotEqual(t, baseKey, otherModel)

	otherPrompt := bedrocklab.Call{Prompt: bedrocklab.Prompt{bedrocklab.NewUserMessage("goodbye")}}
	otherPromptKey, err := Key("amazon.nova-lite-v1:0", otherPrompt)
	require.NoError(t, err)
	require.NotEqual(t, baseKey, otherPromptKey)

	otherTemp := base
	otherTemp.Temperature = bedrocklab.Opt(0.9)
	otherTempKey, err := Key("amazon.nova-lite-v1:0", otherTemp)
	require.NoError(t, err)
	require.NotEqual(t, baseKey, otherTempKey)
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore(time.Minute)

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Set(ctx, "key", textResponse("cached")))

	got, ok, err := store.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "cached", got.Content.Text())

	require.NoError(t, store.Flush(ctx))
	require.Zero(t, store.Len())
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewMemoryStore(30 * time.Millisecond)

	require.NoError(t, store.Set(ctx, "key", textResponse("cached")))

	_, ok, err := store.Get(ctx, "key")
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(80 * time.Millisecond)

	_, ok, err = store.Get(ctx, "key")
	require.NoError(t, err)
	require.False(t, ok, "expired entry should be a miss")
}

func TestModel_HitSkipsInnerModel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	inner := &fakeModel{response: textResponse("generated")}
	model := Wrap(inner, NewMemoryStore(time.Minute))

	call := bedrocklab.Call{Prompt: bedrocklab.Prompt{bedrocklab.NewUserMessage("hello")}}

	first, err := model.Generate(ctx, call)
	require.NoError(t, err)
	require.Equal(t, "generated", first.Content.Text())
	require.Equal(t, 1, inner.calls)

	second, err := model.Generate(ctx, call)
	require.NoError(t, err)
	require.Equal(t, "generated", second.Content.Text())
	require.Equal(t, 1, inner.calls, "second call should be served from cache")

	stats := model.Stats()
	require.Equal(t, int64(1), stats.Hits)
	require.Equal(t, int64(1), stats.Misses)
	require.Equal(t, int64(1), stats.Stored)
	require.InDelta(t, 0.5, stats.HitRate(), 0.001)
}

func TestModel_ToolCallsBypassCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	inner := &fakeModel{response: textResponse("generated")}
	model := Wrap(inner, NewMemoryStore(time.Minute))

	call := bedrocklab.Call{
		Prompt: bedrocklab.Prompt{bedrocklab.NewUserMessage("hello")},
		Tools: []bedrocklab.Tool{
			bedrocklab.FunctionTool{Name: "clock", InputSchema: map[string]any{"type": "object"}},
		},
	}

	_, err := model.Generate(ctx, call)
	require.NoError(t, err)
	_, err = model.Generate(ctx, call)
	require.NoError(t, err)

	require.Equal(t, 2, inner.calls, "tool-calling turns must not be cached")
	require.Zero(t, model.Stats().Hits+model.Stats().Misses)
}

// failingStore misses every Get and errors on every Set.
type failingStore struct{}

func (failingStore) Get(_ context.Context, _ string) (*bedrocklab.Response, bool, error) {
	return nil, false, nil
}

func (failingStore) Set(_ context.Context, _ string, _ *bedrocklab.Response) error {
	return errors.New("store unavailable")
}

func (failingStore) Flush(_ context.Context) error { return nil }

func TestModel_StoreFailureStillReturnsResponse(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	inner := &fakeModel{response: textResponse("generated")}
	model := Wrap(inner, failingStore{})

	call := bedrocklab.Call{Prompt: bedrocklab.Prompt{bedrocklab.NewUserMessage("hello")}}

	response, err := model.Generate(ctx, call)
	require.NoError(t, err)
	require.Equal(t, "generated", response.Content.Text())
	require.Zero(t, model.Stats().Stored)
}

func TestStats_HitRateEmpty(t *testing.T) {
	t.Parallel()

	require.Zero(t, Stats{}.HitRate())
}
