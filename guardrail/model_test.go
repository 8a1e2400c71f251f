package guardrail

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/require"

	"github.com/promptfoundry/bedrocklab"
)

type fakeModel struct {
	calls int
	reply string
}

func (f *fakeModel) Generate(context.Context, bedrocklab.Call) (*bedrocklab.Response, error) {
	f.calls++
	return &bedrocklab.Response{
		Content:      bedrocklab.ResponseContent{bedrocklab.TextContent{Text: f.reply}},
		FinishReason: bedrocklab.FinishReasonStop,
	}, nil
}

func (f *fakeModel) Stream(context.Context, bedrocklab.Call) (bedrocklab.StreamResponse, error) {
	f.calls++
	return func(yield func(bedrocklab.StreamPart) bool) {
		yield(bedrocklab.StreamPart{Type: bedrocklab.StreamPartTypeTextDelta, Delta: f.reply})
	}, nil
}

func (f *fakeModel) Provider() string { return "fake" }
func (f *fakeModel) Model() string    { return "fake-model" }

func userCall(text string) bedrocklab.Call {
	return bedrocklab.Call{Prompt: bedrocklab.Prompt{bedrocklab.NewUserMessage(text)}}
}

func TestModelGenerate(t *testing.T) {
	t.Parallel()

	t.Run("clean input and output pass through", func(t *testing.T) {
		t.Parallel()
		fake := &fakeApplyAPI{outputs: []*bedrockruntime.ApplyGuardrailOutput{passOutput()}}
		inner := &fakeModel{reply: "fine answer"}
		model := Wrap(inner, newTestAssessor(t, fake))

		response, err := model.Generate(context.Background(), userCall("hello"))
		require.NoError(t, err)
		require.Equal(t, "fine answer", response.Content.Text())
		require.Equal(t, 1, inner.calls)
		require.Len(t, fake.inputs, 2, "input and output both assessed")
	})

	t.Run("blocked input skips the model", func(t *testing.T) {
		t.Parallel()
		fake := &fakeApplyAPI{outputs: []*bedrockruntime.ApplyGuardrailOutput{interveneOutput("Sorry, no.")}}
		inner := &fakeModel{reply: "should never appear"}
		model := Wrap(inner, newTestAssessor(t, fake))

		response, err := model.Generate(context.Background(), userCall("bad question"))
		require.NoError(t, err)
		require.Equal(t, "Sorry, no.", response.Content.Text())
		require.Equal(t, bedrocklab.FinishReasonContentFilter, response.FinishReason)
		require.Zero(t, inner.calls)
	})

	t.Run("intervened output is replaced", func(t *testing.T) {
		t.Parallel()
		fake := &fakeApplyAPI{outputs: []*bedrockruntime.ApplyGuardrailOutput{
			passOutput(),
			interveneOutput(""),
		}}
		inner := &fakeModel{reply: "leaked secret"}
		model := Wrap(inner, newTestAssessor(t, fake))

		response, err := model.Generate(context.Background(), userCall("tell me"))
		require.NoError(t, err)
		require.Equal(t, DefaultBlockedMessage, response.Content.Text())
		require.Equal(t, bedrocklab.FinishReasonContentFilter, response.FinishReason)
		require.Equal(t, 1, inner.calls)
	})
}

func TestModelStream(t *testing.T) {
	t.Parallel()

	t.Run("blocked input yields canned stream", func(t *testing.T) {
		t.Parallel()
		fake := &fakeApplyAPI{outputs: []*bedrockruntime.ApplyGuardrailOutput{interveneOutput("Nope.")}}
		inner := &fakeModel{reply: "streamed text"}
		model := Wrap(inner, newTestAssessor(t, fake))

		stream, err := model.Stream(context.Background(), userCall("bad question"))
		require.NoError(t, err)

		var parts []bedrocklab.StreamPart
		stream(func(part bedrocklab.StreamPart) bool {
			parts = append(parts, part)
			return true
		})
		require.Len(t, parts, 2)
		require.Equal(t, "Nope.", parts[0].Delta)
		require.Equal(t, bedrocklab.FinishReasonContentFilter, parts[1].FinishReason)
		require.Zero(t, inner.calls)
	})

	t.Run("clean input streams from the model", func(t *testing.T) {
		t.Parallel()
		fake := &fakeApplyAPI{outputs: []*bedrockruntime.ApplyGuardrailOutput{passOutput()}}
		inner := &fakeModel{reply: "streamed text"}
		model := Wrap(inner, newTestAssessor(t, fake))

		stream, err := model.Stream(context.Background(), userCall("hello"))
		require.NoError(t, err)

		var got string
		stream(func(part bedrocklab.StreamPart) bool {
			got += part.Delta
			return true
		})
		require.Equal(t, "streamed text", got)
		require.Equal(t, 1, inner.calls)
	})
}
