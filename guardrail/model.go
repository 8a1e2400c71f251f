package guardrail

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/promptfoundry/bedrocklab"
)

// DefaultBlockedMessage is used when the guardrail intervenes without
// providing replacement text.
const DefaultBlockedMessage = "Sorry, I can't help with that request."

// Model wraps a language model with guardrail checks on both sides of the
// call: user input is assessed before generation and model output after.
type Model struct {
	inner    bedrocklab.LanguageModel
	assessor *Assessor
}

var _ bedrocklab.LanguageModel = (*Model)(nil)

// Wrap applies the assessor's guardrail around a language model.
func Wrap(inner bedrocklab.LanguageModel, assessor *Assessor) *Model {
	return &Model{inner: inner, assessor: assessor}
}

func (m *Model) Provider() string { return m.inner.Provider() }
func (m *Model) Model() string    { return m.inner.Model() }

// Generate assesses the latest user input, generates, and assesses the
// output. An intervened input skips the model call entirely; an intervened
// output is replaced by the guardrail's text.
func (m *Model) Generate(ctx context.Context, call bedrocklab.Call) (*bedrocklab.Response, error) {
	if input := lastUserText(call.Prompt); input != "" {
		assessment, err := m.assessor.AssessInput(ctx, input)
		if err != nil {
			return nil, err
		}
		if assessment.Intervened() {
			log.Warn().
				Str("guardrail_id", m.assessor.guardrailID).
				Strs("reasons", assessment.Reasons).
				Msg("guardrail blocked input")
			return blockedResponse(assessment), nil
		}
	}

	response, err := m.inner.Generate(ctx, call)
	if err != nil {
		return nil, err
	}

	output := response.Content.Text()
	if output == "" {
		return response, nil
	}
	assessment, err := m.assessor.AssessOutput(ctx, output)
	if err != nil {
		return nil, err
	}
	if assessment.Intervened() {
		log.Warn().
			Str("guardrail_id", m.assessor.guardrailID).
			Strs("reasons", assessment.Reasons).
			Msg("guardrail intervened on output")
		response.Content = bedrocklab.ResponseContent{
			bedrocklab.TextContent{Text: blockedText(assessment)},
		}
		response.FinishReason = bedrocklab.FinishReasonContentFilter
	}
	return response, nil
}

// Stream assesses the latest user input before streaming. A blocked input
// yields the guardrail's replacement text as a single-part stream. Streamed
// output is not re-assessed; use the guardrail configuration on the Converse
// call itself for inline stream filtering.
func (m *Model) Stream(ctx context.Context, call bedrocklab.Call) (bedrocklab.StreamResponse, error) {
	if input := lastUserText(call.Prompt); input != "" {
		assessment, err := m.assessor.AssessInput(ctx, input)
		if err != nil {
			return nil, err
		}
		if assessment.Intervened() {
			log.Warn().
				Str("guardrail_id", m.assessor.guardrailID).
				Strs("reasons", assessment.Reasons).
				Msg("guardrail blocked input")
			return blockedStream(assessment), nil
		}
	}
	return m.inner.Stream(ctx, call)
}

func blockedText(assessment *Assessment) string {
	if assessment.MaskedText != "" {
		return assessment.MaskedText
	}
	return DefaultBlockedMessage
}

func blockedResponse(assessment *Assessment) *bedrocklab.Response {
	return &bedrocklab.Response{
		Content: bedrocklab.ResponseContent{
			bedrocklab.TextContent{Text: blockedText(assessment)},
		},
		FinishReason: bedrocklab.FinishReasonContentFilter,
	}
}

func blockedStream(assessment *Assessment) bedrocklab.StreamResponse {
	return func(yield func(bedrocklab.StreamPart) bool) {
		if !yield(bedrocklab.StreamPart{
			Type:  bedrocklab.StreamPartTypeTextDelta,
			Delta: blockedText(assessment),
		}) {
			return
		}
		yield(bedrocklab.StreamPart{
			Type:         bedrocklab.StreamPartTypeFinish,
			FinishReason: bedrocklab.FinishReasonContentFilter,
		})
	}
}

// lastUserText returns the text of the most recent user message.
func lastUserText(prompt bedrocklab.Prompt) string {
	for i := len(prompt) - 1; i >= 0; i-- {
		if prompt[i].Role == bedrocklab.MessageRoleUser {
			return prompt[i].Text()
		}
	}
	return ""
}
