package bedrock

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"

	"github.com/promptfoundry/bedrocklab"
)

// converseParams is the shared request shape of Converse and ConverseStream.
type converseParams struct {
	messages         []types.Message
	system           []types.SystemContentBlock
	inferenceConfig  *types.InferenceConfiguration
	additionalFields document.Interface
	toolConfig       *types.ToolConfiguration
	guardrailConfig  *types.GuardrailConfiguration
}

// prepareConverseParams converts a bedrocklab.Call into the pieces shared by
// the Converse and ConverseStream request types. It returns the params, any
// warnings, and an error if conversion fails.
func (m *languageModel) prepareConverseParams(call bedrocklab.Call) (*converseParams, []bedrocklab.CallWarning, error) {
	var warnings []bedrocklab.CallWarning

	messages, systemBlocks, err := convertMessages(call.Prompt)
	if err != nil {
		return nil, warnings, fmt.Errorf("failed to convert messages: %w", err)
	}

	inferenceConfig := &types.InferenceConfiguration{}
	if call.MaxOutputTokens != nil {
		inferenceConfig.MaxTokens = aws.Int32(int32(*call.MaxOutputTokens))
	}
	if call.Temperature != nil {
		inferenceConfig.Temperature = aws.Float32(float32(*call.Temperature))
	}
	if call.TopP != nil {
		inferenceConfig.TopP = aws.Float32(float32(*call.TopP))
	}

	// The Converse inference config has no top_k slot, so it travels in
	// the additional model request fields. Claude models honor it there;
	// Nova models ignore it everywhere, which deserves a warning.
	var additionalFields document.Interface
	if call.TopK != nil {
		additionalFields = document.NewLazyDocument(map[string]any{
			"top_k": *call.TopK,
		})
		if isNovaModel(m.modelID) {
			warnings = append(warnings, bedrocklab.CallWarning{
				Type:    bedrocklab.CallWarningTypeUnsupportedSetting,
				Setting: "top_k",
				Message: "top_k parameter is ignored by Amazon Nova models",
			})
		}
	}

	params := &converseParams{
		messages:         messages,
		system:           systemBlocks,
		inferenceConfig:  inferenceConfig,
		additionalFields: additionalFields,
	}

	if len(call.Tools) > 0 {
		toolConfig, toolWarnings := convertTools(call.Tools, call.ToolChoice)
		params.toolConfig = toolConfig
		warnings = append(warnings, toolWarnings...)
	}

	providerOpts, err := ParseOptions(call.ProviderOptions)
	if err != nil {
		return nil, warnings, fmt.Errorf("failed to parse provider options: %w", err)
	}
	if providerOpts != nil && providerOpts.Guardrail != nil {
		params.guardrailConfig = &types.GuardrailConfiguration{
			GuardrailIdentifier: aws.String(providerOpts.Guardrail.ID),
			GuardrailVersion:    aws.String(providerOpts.Guardrail.Version),
		}
	}

	return params, warnings, nil
}

// prepareConverseRequest converts a bedrocklab.Call to a Converse API request.
func (m *languageModel) prepareConverseRequest(call bedrocklab.Call) (*bedrockruntime.ConverseInput, []bedrocklab.CallWarning, error) {
	params, warnings, err := m.prepareConverseParams(call)
	if err != nil {
		return nil, warnings, err
	}

	return &bedrockruntime.ConverseInput{
		ModelId:                      aws.String(m.modelID),
		Messages:                     params.messages,
		System:                       params.system,
		InferenceConfig:              params.inferenceConfig,
		AdditionalModelRequestFields: params.additionalFields,
		ToolConfig:                   params.toolConfig,
		GuardrailConfig:              params.guardrailConfig,
	}, warnings, nil
}

// prepareConverseStreamRequest converts a bedrocklab.Call to a ConverseStream
// API request.
func (m *languageModel) prepareConverseStreamRequest(call bedrocklab.Call) (*bedrockruntime.ConverseStreamInput, []bedrocklab.CallWarning, error) {
	params, warnings, err := m.prepareConverseParams(call)
	if err != nil {
		return nil, warnings, err
	}

	request := &bedrockruntime.ConverseStreamInput{
		ModelId:                      aws.String(m.modelID),
		Messages:                     params.messages,
		System:                       params.system,
		InferenceConfig:              params.inferenceConfig,
		AdditionalModelRequestFields: params.additionalFields,
		ToolConfig:                   params.toolConfig,
	}
	if params.guardrailConfig != nil {
		request.GuardrailConfig = &types.GuardrailStreamConfiguration{
			GuardrailIdentifier: params.guardrailConfig.GuardrailIdentifier,
			GuardrailVersion:    params.guardrailConfig.GuardrailVersion,
		}
	}

	return request, warnings, nil
}

// convertMessages converts bedrocklab messages to Converse API messages and
// system blocks.
func convertMessages(prompt bedrocklab.Prompt) ([]types.Message, []types.SystemContentBlock, error) {
	var messages []types.Message
	var systemBlocks []types.SystemContentBlock

	for _, msg := range prompt {
		switch msg.Role {
		case bedrocklab.MessageRoleSystem:
			for _, part := range msg.Content {
				if textPart, ok := bedrocklab.AsMessagePart[bedrocklab.TextPart](part); ok {
					systemBlocks = append(systemBlocks, &types.SystemContentBlockMemberText{
						Value: textPart.Text,
					})
				}
			}

		case bedrocklab.MessageRoleUser, bedrocklab.MessageRoleAssistant:
			contentBlocks, err := convertMessageContent(msg.Content)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to convert message content: %w", err)
			}

			role := types.ConversationRoleUser
			if msg.Role == bedrocklab.MessageRoleAssistant {
				role = types.ConversationRoleAssistant
			}

			messages = append(messages, types.Message{
				Role:    role,
				Content: contentBlocks,
			})

		case bedrocklab.MessageRoleTool:
			// The Converse API expects tool results in a user message.
			contentBlocks, err := convertMessageContent(msg.Content)
			if err != nil {
				return nil, nil, fmt.Errorf("failed to convert tool message content: %w", err)
			}

			messages = append(messages, types.Message{
				Role:    types.ConversationRoleUser,
				Content: contentBlocks,
			})
		}
	}

	return messages, systemBlocks, nil
}

// convertMessageContent converts bedrocklab message parts to Converse API
// content blocks.
func convertMessageContent(content []bedrocklab.MessagePart) ([]types.ContentBlock, error) {
	var blocks []types.ContentBlock

	for _, part := range content {
		switch part.GetType() {
		case bedrocklab.ContentTypeText:
			if textPart, ok := bedrocklab.AsMessagePart[bedrocklab.TextPart](part); ok {
				blocks = append(blocks, &types.ContentBlockMemberText{
					Value: textPart.Text,
				})
			}

		case bedrocklab.ContentTypeFile:
			if filePart, ok := bedrocklab.AsMessagePart[bedrocklab.FilePart](part); ok {
				// Only image attachments are supported by the Converse API.
				if isImageMediaType(filePart.MediaType) {
					imageBlock, err := convertImageAttachment(filePart)
					if err != nil {
						return nil, fmt.Errorf("failed to convert image attachment: %w", err)
					}
					blocks = append(blocks, imageBlock)
				}
			}

		case bedrocklab.ContentTypeToolCall:
			if toolCallPart, ok := bedrocklab.AsMessagePart[bedrocklab.ToolCallPart](part); ok {
				toolUseBlock, err := convertToolCall(toolCallPart)
				if err != nil {
					return nil, fmt.Errorf("failed to convert tool call: %w", err)
				}
				blocks = append(blocks, toolUseBlock)
			}

		case bedrocklab.ContentTypeToolResult:
			if toolResultPart, ok := bedrocklab.AsMessagePart[bedrocklab.ToolResultPart](part); ok {
				toolResultBlock, err := convertToolResult(toolResultPart)
				if err != nil {
					return nil, fmt.Errorf("failed to convert tool result: %w", err)
				}
				blocks = append(blocks, toolResultBlock)
			}
		}
	}

	return blocks, nil
}

// isImageMediaType checks if a media type is an image type.
func isImageMediaType(mediaType string) bool {
	switch mediaType {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

// imageFormatForMediaType maps a media type to the Converse image format.
func imageFormatForMediaType(mediaType string) (types.ImageFormat, error) {
	switch mediaType {
	case "image/jpeg", "image/jpg":
		return types.ImageFormatJpeg, nil
	case "image/png":
		return types.ImageFormatPng, nil
	case "image/gif":
		return types.ImageFormatGif, nil
	case "image/webp":
		return types.ImageFormatWebp, nil
	default:
		return "", fmt.Errorf("unsupported image media type: %s", mediaType)
	}
}

// convertImageAttachment converts a bedrocklab FilePart to a Converse image
// block.
func convertImageAttachment(filePart bedrocklab.FilePart) (types.ContentBlock, error) {
	format, err := imageFormatForMediaType(filePart.MediaType)
	if err != nil {
		return nil, err
	}

	return &types.ContentBlockMemberImage{
		Value: types.ImageBlock{
			Format: format,
			Source: &types.ImageSourceMemberBytes{
				Value: filePart.Data,
			},
		},
	}, nil
}

// convertToolCall converts a bedrocklab ToolCallPart to a Converse tool use
// block.
func convertToolCall(toolCallPart bedrocklab.ToolCallPart) (types.ContentBlock, error) {
	var inputMap map[string]any
	if err := json.Unmarshal([]byte(toolCallPart.Input), &inputMap); err != nil {
		return nil, fmt.Errorf("failed to parse tool call input: %w", err)
	}

	return &types.ContentBlockMemberToolUse{
		Value: types.ToolUseBlock{
			ToolUseId: aws.String(toolCallPart.ToolCallID),
			Name:      aws.String(toolCallPart.ToolName),
			Input:     document.NewLazyDocument(inputMap),
		},
	}, nil
}

// convertToolResult converts a bedrocklab ToolResultPart to a Converse tool
// result block.
func convertToolResult(toolResultPart bedrocklab.ToolResultPart) (types.ContentBlock, error) {
	var contentBlocks []types.ToolResultContentBlock

	switch output := toolResultPart.Output.(type) {
	case bedrocklab.ToolResultOutputContentText:
		contentBlocks = append(contentBlocks, &types.ToolResultContentBlockMemberText{
			Value: output.Text,
		})

	case bedrocklab.ToolResultOutputContentError:
		errorText := "Error"
		if output.Error != nil {
			errorText = output.Error.Error()
		}
		contentBlocks = append(contentBlocks, &types.ToolResultContentBlockMemberText{
			Value: errorText,
		})

	case bedrocklab.ToolResultOutputContentMedia:
		if output.MediaType != "" && isImageMediaType(output.MediaType) {
			imageData, err := base64.StdEncoding.DecodeString(output.Data)
			if err != nil {
				return nil, fmt.Errorf("failed to decode image data: %w", err)
			}

			format, err := imageFormatForMediaType(output.MediaType)
			if err != nil {
				return nil, err
			}

			contentBlocks = append(contentBlocks, &types.ToolResultContentBlockMemberImage{
				Value: types.ImageBlock{
					Format: format,
					Source: &types.ImageSourceMemberBytes{
						Value: imageData,
					},
				},
			})
		}

		if output.Text != "" {
			contentBlocks = append(contentBlocks, &types.ToolResultContentBlockMemberText{
				Value: output.Text,
			})
		}
	}

	return &types.ContentBlockMemberToolResult{
		Value: types.ToolResultBlock{
			ToolUseId: aws.String(toolResultPart.ToolCallID),
			Content:   contentBlocks,
		},
	}, nil
}

// convertTools converts bedrocklab tools to a Converse tool configuration.
func convertTools(tools []bedrocklab.Tool, toolChoice *bedrocklab.ToolChoice) (*types.ToolConfiguration, []bedrocklab.CallWarning) {
	var warnings []bedrocklab.CallWarning
	var toolSpecs []types.Tool

	for _, tool := range tools {
		funcTool, ok := tool.(bedrocklab.FunctionTool)
		if !ok {
			warnings = append(warnings, bedrocklab.CallWarning{
				Type:    bedrocklab.CallWarningTypeUnsupportedTool,
				Tool:    tool,
				Message: fmt.Sprintf("provider-defined tools are not supported by the Converse API: %s", tool.GetName()),
			})
			continue
		}

		toolSpecs = append(toolSpecs, &types.ToolMemberToolSpec{
			Value: types.ToolSpecification{
				Name:        aws.String(funcTool.Name),
				Description: aws.String(funcTool.Description),
				InputSchema: &types.ToolInputSchemaMemberJson{
					Value: document.NewLazyDocument(funcTool.InputSchema),
				},
			},
		})
	}

	toolConfig := &types.ToolConfiguration{
		Tools: toolSpecs,
	}

	if toolChoice != nil {
		switch *toolChoice {
		case bedrocklab.ToolChoiceAuto:
			toolConfig.ToolChoice = &types.ToolChoiceMemberAuto{
				Value: types.AutoToolChoice{},
			}
		case bedrocklab.ToolChoiceRequired:
			toolConfig.ToolChoice = &types.ToolChoiceMemberAny{
				Value: types.AnyToolChoice{},
			}
		case bedrocklab.ToolChoiceNone:
			// No tool choice means don't include tools at all.
			return nil, warnings
		default:
			toolConfig.ToolChoice = &types.ToolChoiceMemberTool{
				Value: types.SpecificToolChoice{
					Name: aws.String(string(*toolChoice)),
				},
			}
		}
	}

	return toolConfig, warnings
}

// convertConverseResponse converts a Converse API response to a
// bedrocklab.Response.
func (m *languageModel) convertConverseResponse(output *bedrockruntime.ConverseOutput, warnings []bedrocklab.CallWarning) (*bedrocklab.Response, error) {
	if output == nil {
		return nil, fmt.Errorf("converse output is nil")
	}

	var content bedrocklab.ResponseContent
	if output.Output != nil {
		message := output.Output.(*types.ConverseOutputMemberMessage).Value
		for _, block := range message.Content {
			converted, err := convertContentBlock(block)
			if err != nil {
				return nil, fmt.Errorf("failed to convert content block: %w", err)
			}
			if converted != nil {
				content = append(content, converted)
			}
		}
	}

	var usage bedrocklab.Usage
	if output.Usage != nil {
		usage = convertUsage(output.Usage)
	}

	return &bedrocklab.Response{
		Content:      content,
		FinishReason: convertStopReason(output.StopReason),
		Usage:        usage,
		Warnings:     warnings,
	}, nil
}

// convertUsage converts Converse token usage, including prompt cache reads.
func convertUsage(u *types.TokenUsage) bedrocklab.Usage {
	var usage bedrocklab.Usage
	if u.InputTokens != nil {
		usage.InputTokens = int64(*u.InputTokens)
	}
	if u.OutputTokens != nil {
		usage.OutputTokens = int64(*u.OutputTokens)
	}
	if u.TotalTokens != nil {
		usage.TotalTokens = int64(*u.TotalTokens)
	}
	if u.CacheReadInputTokens != nil {
		usage.CacheReadTokens = int64(*u.CacheReadInputTokens)
	}
	return usage
}

// convertContentBlock converts a Converse API content block to bedrocklab
// response content.
func convertContentBlock(block types.ContentBlock) (bedrocklab.Content, error) {
	switch b := block.(type) {
	case *types.ContentBlockMemberText:
		return bedrocklab.TextContent{
			Text: b.Value,
		}, nil

	case *types.ContentBlockMemberToolUse:
		inputBytes, err := json.Marshal(b.Value.Input)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tool input: %w", err)
		}

		return bedrocklab.ToolCallContent{
			ToolCallID: aws.ToString(b.Value.ToolUseId),
			ToolName:   aws.ToString(b.Value.Name),
			Input:      string(inputBytes),
		}, nil

	case *types.ContentBlockMemberImage:
		var data []byte
		if imageSource, ok := b.Value.Source.(*types.ImageSourceMemberBytes); ok {
			data = imageSource.Value
		}

		mediaType := "image/jpeg"
		switch b.Value.Format {
		case types.ImageFormatPng:
			mediaType = "image/png"
		case types.ImageFormatGif:
			mediaType = "image/gif"
		case types.ImageFormatWebp:
			mediaType = "image/webp"
		}

		return bedrocklab.FileContent{
			MediaType: mediaType,
			Data:      data,
		}, nil

	default:
		// Unknown content block type, skip it.
		return nil, nil
	}
}

// convertStopReason converts a Converse API stop reason to a
// bedrocklab.FinishReason.
func convertStopReason(stopReason types.StopReason) bedrocklab.FinishReason {
	switch stopReason {
	case types.StopReasonEndTurn, types.StopReasonStopSequence:
		return bedrocklab.FinishReasonStop
	case types.StopReasonMaxTokens:
		return bedrocklab.FinishReasonLength
	case types.StopReasonToolUse:
		return bedrocklab.FinishReasonToolCalls
	case types.StopReasonGuardrailIntervened, types.StopReasonContentFiltered:
		return bedrocklab.FinishReasonContentFilter
	default:
		return bedrocklab.FinishReasonUnknown
	}
}
