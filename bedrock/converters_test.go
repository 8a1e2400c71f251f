package bedrock

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/stretchr/testify/require"

	"github.com/promptfoundry/bedrocklab"
)

func TestConvertMessages_SystemAndConversation(t *testing.T) {
	t.Parallel()

	prompt := bedrocklab.Prompt{
		bedrocklab.NewSystemMessage("You are a helpful assistant."),
		bedrocklab.NewUserMessage("Hello"),
		bedrocklab.NewAssistantMessage(bedrocklab.TextPart{Text: "Hi there"}),
	}

	messages, systemBlocks, err := convertMessages(prompt)
	require.NoError(t, err)

	require.Len(t, systemBlocks, 1)
	systemText, ok := systemBlocks[0].(*types.SystemContentBlockMemberText)
	require.True(t, ok)
	require.Equal(t, "You are a helpful assistant.", systemText.Value)

	require.Len(t, messages, 2)
	require.Equal(t, types.ConversationRoleUser, messages[0].Role)
	require.Equal(t, types.ConversationRoleAssistant, messages[1].Role)
}

func TestConvertMessages_ToolResultBecomesUserMessage(t *testing.T) {
	t.Parallel()

	prompt := bedrocklab.Prompt{
		bedrocklab.NewToolResultMessage(bedrocklab.ToolResultPart{
			ToolCallID: "call-1",
			Output:     bedrocklab.ToolResultOutputContentText{Text: "42"},
		}),
	}

	messages, _, err := convertMessages(prompt)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	require.Equal(t, types.ConversationRoleUser, messages[0].Role)

	block, ok := messages[0].Content[0].(*types.ContentBlockMemberToolResult)
	require.True(t, ok)
	require.Equal(t, "call-1", aws.ToString(block.Value.ToolUseId))
}

func TestConvertToolCall_InvalidInput(t *testing.T) {
	t.Parallel()

	_, err := convertToolCall(bedrocklab.ToolCallPart{
		ToolCallID: "call-1",
		ToolName:   "calculator",
		Input:      "not json",
	})
	require.Error(t, err)
}

func TestConvertTools(t *testing.T) {
	t.Parallel()

	tools := []bedrocklab.Tool{
		bedrocklab.FunctionTool{
			Name:        "clock",
			Description: "Returns the current time.",
			InputSchema: map[string]any{"type": "object"},
		},
	}

	toolConfig, warnings := convertTools(tools, nil)
	require.Empty(t, warnings)
	require.NotNil(t, toolConfig)
	require.Len(t, toolConfig.Tools, 1)

	spec, ok := toolConfig.Tools[0].(*types.ToolMemberToolSpec)
	require.True(t, ok)
	require.Equal(t, "clock", aws.ToString(spec.Value.Name))
}

func TestConvertTools_ToolChoice(t *testing.T) {
	t.Parallel()

	tools := []bedrocklab.Tool{
		bedrocklab.FunctionTool{Name: "clock", InputSchema: map[string]any{"type": "object"}},
	}

	t.Run("auto", func(t *testing.T) {
		choice := bedrocklab.ToolChoiceAuto
		toolConfig, _ := convertTools(tools, &choice)
		require.IsType(t, &types.ToolChoiceMemberAuto{}, toolConfig.ToolChoice)
	})

	t.Run("required", func(t *testing.T) {
		choice := bedrocklab.ToolChoiceRequired
		toolConfig, _ := convertTools(tools, &choice)
		require.IsType(t, &types.ToolChoiceMemberAny{}, toolConfig.ToolChoice)
	})

	t.Run("none drops tools", func(t *testing.T) {
		choice := bedrocklab.ToolChoiceNone
		toolConfig, _ := convertTools(tools, &choice)
		require.Nil(t, toolConfig)
	})

	t.Run("specific tool", func(t *testing.T) {
		choice := bedrocklab.SpecificToolChoice("clock")
		toolConfig, _ := convertTools(tools, &choice)
		specific, ok := toolConfig.ToolChoice.(*types.ToolChoiceMemberTool)
		require.True(t, ok)
		require.Equal(t, "clock", aws.ToString(specific.Value.Name))
	})
}

func TestPrepareConverseRequest_InferenceConfig(t *testing.T) {
	t.Parallel()

	model := &languageModel{modelID: "us.amazon.nova-lite-v1:0", provider: Name}

	request, warnings, err := model.prepareConverseRequest(bedrocklab.Call{
		Prompt:          bedrocklab.Prompt{bedrocklab.NewUserMessage("hi")},
		MaxOutputTokens: bedrocklab.Opt(int64(256)),
		Temperature:     bedrocklab.Opt(0.7),
		TopP:            bedrocklab.Opt(0.9),
	})
	require.NoError(t, err)
	require.Empty(t, warnings)

	require.Equal(t, "us.amazon.nova-lite-v1:0", aws.ToString(request.ModelId))
	require.Equal(t, int32(256), aws.ToInt32(request.InferenceConfig.MaxTokens))
	require.InDelta(t, 0.7, float64(aws.ToFloat32(request.InferenceConfig.Temperature)), 0.001)
	require.InDelta(t, 0.9, float64(aws.ToFloat32(request.InferenceConfig.TopP)), 0.001)
	require.Nil(t, request.GuardrailConfig)
}

func TestPrepareConverseRequest_TopKWarning(t *testing.T) {
	t.Parallel()

	t.Run("nova ignores top_k and warns", func(t *testing.T) {
		t.Parallel()
		model := &languageModel{modelID: "us.amazon.nova-lite-v1:0", provider: Name}

		request, warnings, err := model.prepareConverseRequest(bedrocklab.Call{
			Prompt: bedrocklab.Prompt{bedrocklab.NewUserMessage("hi")},
			TopK:   bedrocklab.Opt(int64(40)),
		})
		require.NoError(t, err)
		require.NotNil(t, request.AdditionalModelRequestFields)

		require.Len(t, warnings, 1)
		require.Equal(t, bedrocklab.CallWarningTypeUnsupportedSetting, warnings[0].Type)
		require.Equal(t, "top_k", warnings[0].Setting)
	})

	t.Run("claude honors top_k without warning", func(t *testing.T) {
		t.Parallel()
		model := &languageModel{modelID: "us.anthropic.claude-3-5-sonnet-20241022-v2:0", provider: Name}

		request, warnings, err := model.prepareConverseRequest(bedrocklab.Call{
			Prompt: bedrocklab.Prompt{bedrocklab.NewUserMessage("hi")},
			TopK:   bedrocklab.Opt(int64(40)),
		})
		require.NoError(t, err)
		require.NotNil(t, request.AdditionalModelRequestFields)
		require.Empty(t, warnings)
	})
}

func TestPrepareConverseRequest_GuardrailPassthrough(t *testing.T) {
	t.Parallel()

	model := &languageModel{modelID: "us.amazon.nova-lite-v1:0", provider: Name}

	request, _, err := model.prepareConverseRequest(bedrocklab.Call{
		Prompt: bedrocklab.Prompt{bedrocklab.NewUserMessage("hi")},
		ProviderOptions: NewProviderOptions(ProviderOptions{
			Guardrail: &GuardrailOptions{ID: "gr-123", Version: "1"},
		}),
	})
	require.NoError(t, err)
	require.NotNil(t, request.GuardrailConfig)
	require.Equal(t, "gr-123", aws.ToString(request.GuardrailConfig.GuardrailIdentifier))
	require.Equal(t, "1", aws.ToString(request.GuardrailConfig.GuardrailVersion))
}

func TestConvertStopReason(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		stopReason types.StopReason
		expected   bedrocklab.FinishReason
	}{
		{types.StopReasonEndTurn, bedrocklab.FinishReasonStop},
		{types.StopReasonStopSequence, bedrocklab.FinishReasonStop},
		{types.StopReasonMaxTokens, bedrocklab.FinishReasonLength},
		{types.StopReasonToolUse, bedrocklab.FinishReasonToolCalls},
		{types.StopReasonGuardrailIntervened, bedrocklab.FinishReasonContentFilter},
		{types.StopReasonContentFiltered, bedrocklab.FinishReasonContentFilter},
		{types.StopReason("mystery"), bedrocklab.FinishReasonUnknown},
	}

	for _, tc := range testCases {
		t.Run(string(tc.stopReason), func(t *testing.T) {
			require.Equal(t, tc.expected, convertStopReason(tc.stopReason))
		})
	}
}

func TestConvertUsage(t *testing.T) {
	t.Parallel()

	usage := convertUsage(&types.TokenUsage{
		InputTokens:          aws.Int32(100),
		OutputTokens:         aws.Int32(50),
		TotalTokens:          aws.Int32(150),
		CacheReadInputTokens: aws.Int32(80),
	})

	require.Equal(t, int64(100), usage.InputTokens)
	require.Equal(t, int64(50), usage.OutputTokens)
	require.Equal(t, int64(150), usage.TotalTokens)
	require.Equal(t, int64(80), usage.CacheReadTokens)
}
