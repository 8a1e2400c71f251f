package bedrock

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/promptfoundry/bedrocklab"
)

// languageModel implements bedrocklab.LanguageModel on the Bedrock Runtime
// Converse and ConverseStream APIs.
type languageModel struct {
	modelID  string
	provider string
	client   ConverseAPI
}

// Model returns the model ID, including any inference profile prefix.
func (m *languageModel) Model() string {
	return m.modelID
}

// Provider returns the provider name.
func (m *languageModel) Provider() string {
	return m.provider
}

// Generate implements non-streaming generation via the Converse API.
func (m *languageModel) Generate(ctx context.Context, call bedrocklab.Call) (*bedrocklab.Response, error) {
	request, warnings, err := m.prepareConverseRequest(call)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare converse request: %w", err)
	}

	output, err := m.client.Converse(ctx, request)
	if err != nil {
		return nil, ConvertAWSError(err)
	}

	response, err := m.convertConverseResponse(output, warnings)
	if err != nil {
		return nil, fmt.Errorf("failed to convert converse response: %w", err)
	}

	return response, nil
}

// Stream implements streaming generation via the ConverseStream API.
func (m *languageModel) Stream(ctx context.Context, call bedrocklab.Call) (bedrocklab.StreamResponse, error) {
	request, warnings, err := m.prepareConverseStreamRequest(call)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare converse stream request: %w", err)
	}

	output, err := m.client.ConverseStream(ctx, request)
	if err != nil {
		return nil, ConvertAWSError(err)
	}

	return m.handleConverseStream(output, warnings), nil
}

// handleConverseStream drains the ConverseStream event stream and yields
// bedrocklab.StreamPart events.
func (m *languageModel) handleConverseStream(output *bedrockruntime.ConverseStreamOutput, warnings []bedrocklab.CallWarning) bedrocklab.StreamResponse {
	return func(yield func(bedrocklab.StreamPart) bool) {
		if len(warnings) > 0 {
			if !yield(bedrocklab.StreamPart{
				Type:     bedrocklab.StreamPartTypeWarnings,
				Warnings: warnings,
			}) {
				return
			}
		}

		var currentToolCallID string
		var currentToolCallName string
		var currentToolCallInput string
		var usage bedrocklab.Usage
		var finishReason bedrocklab.FinishReason

		stream := output.GetStream()
		if stream == nil {
			yield(bedrocklab.StreamPart{
				Type:  bedrocklab.StreamPartTypeError,
				Error: fmt.Errorf("stream is nil"),
			})
			return
		}

		for event := range stream.Events() {
			switch e := event.(type) {
			case *types.ConverseStreamOutputMemberContentBlockStart:
				if e.Value.Start != nil {
					switch start := e.Value.Start.(type) {
					case *types.ContentBlockStartMemberToolUse:
						if start.Value.ToolUseId != nil {
							currentToolCallID = *start.Value.ToolUseId
						}
						if start.Value.Name != nil {
							currentToolCallName = *start.Value.Name
						}
						currentToolCallInput = ""

						if !yield(bedrocklab.StreamPart{
							Type:         bedrocklab.StreamPartTypeToolInputStart,
							ID:           currentToolCallID,
							ToolCallName: currentToolCallName,
						}) {
							return
						}
					}
				}

			case *types.ConverseStreamOutputMemberContentBlockDelta:
				if e.Value.Delta != nil {
					switch delta := e.Value.Delta.(type) {
					case *types.ContentBlockDeltaMemberText:
						if !yield(bedrocklab.StreamPart{
							Type:  bedrocklab.StreamPartTypeTextDelta,
							Delta: delta.Value,
						}) {
							return
						}
					case *types.ContentBlockDeltaMemberToolUse:
						if delta.Value.Input != nil {
							deltaText := *delta.Value.Input
							currentToolCallInput += deltaText

							if !yield(bedrocklab.StreamPart{
								Type:  bedrocklab.StreamPartTypeToolInputDelta,
								ID:    currentToolCallID,
								Delta: deltaText,
							}) {
								return
							}
						}
					}
				}

			case *types.ConverseStreamOutputMemberContentBlockStop:
				if currentToolCallID != "" {
					if !yield(bedrocklab.StreamPart{
						Type:          bedrocklab.StreamPartTypeToolInputEnd,
						ID:            currentToolCallID,
						ToolCallInput: currentToolCallInput,
					}) {
						return
					}

					currentToolCallID = ""
					currentToolCallName = ""
					currentToolCallInput = ""
				}

			case *types.ConverseStreamOutputMemberMessageStart:
				// No per-message bookkeeping needed.

			case *types.ConverseStreamOutputMemberMessageStop:
				if e.Value.StopReason != "" {
					finishReason = convertStopReason(e.Value.StopReason)
				}

			case *types.ConverseStreamOutputMemberMetadata:
				if e.Value.Usage != nil {
					usage = convertUsage(e.Value.Usage)
				}

			default:
				// Unknown event type, skip it.
			}
		}

		if err := stream.Err(); err != nil {
			yield(bedrocklab.StreamPart{
				Type:  bedrocklab.StreamPartTypeError,
				Error: ConvertAWSError(err),
			})
			return
		}

		yield(bedrocklab.StreamPart{
			Type:         bedrocklab.StreamPartTypeFinish,
			Usage:        usage,
			FinishReason: finishReason,
		})
	}
}
