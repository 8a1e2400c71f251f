package bedrocklab

import (
	"context"
	"strings"
)

// LanguageModel represents a model that can generate text and call tools.
type LanguageModel interface {
	Generate(ctx context.Context, call Call) (*Response, error)
	Stream(ctx context.Context, call Call) (StreamResponse, error)

	Provider() string
	Model() string
}

// ProviderOptions carries provider-specific options keyed by provider name.
type ProviderOptions map[string]any

// ToolType identifies the kind of a tool definition.
type ToolType string

const (
	// ToolTypeFunction is a client-executed function tool.
	ToolTypeFunction ToolType = "function"
	// ToolTypeProviderDefined is a tool implemented by the provider itself.
	ToolTypeProviderDefined ToolType = "provider_defined"
)

// Tool is a tool definition passed to the model.
type Tool interface {
	GetType() ToolType
	GetName() string
}

// FunctionTool is a client-executed tool described by a JSON schema.
type FunctionTool struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

func (FunctionTool) GetType() ToolType { return ToolTypeFunction }

// GetName returns the tool name.
func (t FunctionTool) GetName() string { return t.Name }

// ToolChoice controls how the model may use tools. The zero values
// ToolChoiceAuto, ToolChoiceRequired and ToolChoiceNone are special; any
// other value names a specific tool.
type ToolChoice string

const (
	ToolChoiceAuto     ToolChoice = "auto"
	ToolChoiceRequired ToolChoice = "required"
	ToolChoiceNone     ToolChoice = "none"
)

// SpecificToolChoice forces the model to call the named tool.
func SpecificToolChoice(name string) ToolChoice { return ToolChoice(name) }

// Call is a provider-neutral generation request.
type Call struct {
	Prompt          Prompt          `json:"prompt"`
	MaxOutputTokens *int64          `json:"max_output_tokens,omitempty"`
	Temperature     *float64        `json:"temperature,omitempty"`
	TopP            *float64        `json:"top_p,omitempty"`
	TopK            *int64          `json:"top_k,omitempty"`
	Tools           []Tool          `json:"-"`
	ToolChoice      *ToolChoice     `json:"tool_choice,omitempty"`
	ProviderOptions ProviderOptions `json:"provider_options,omitempty"`
}

// CallWarningType identifies why a call setting produced a warning.
type CallWarningType string

const (
	CallWarningTypeUnsupportedSetting CallWarningType = "unsupported_setting"
	CallWarningTypeUnsupportedTool    CallWarningType = "unsupported_tool"
	CallWarningTypeOther              CallWarningType = "other"
)

// CallWarning reports a call setting the provider could not honor.
type CallWarning struct {
	Type    CallWarningType `json:"type"`
	Setting string          `json:"setting,omitempty"`
	Tool    Tool            `json:"-"`
	Message string          `json:"message"`
}

// FinishReason describes why generation stopped.
type FinishReason string

const (
	FinishReasonStop          FinishReason = "stop"
	FinishReasonLength        FinishReason = "length"
	FinishReasonToolCalls     FinishReason = "tool_calls"
	FinishReasonContentFilter FinishReason = "content_filter"
	FinishReasonError         FinishReason = "error"
	FinishReasonUnknown       FinishReason = "unknown"
)

// Usage reports token accounting for one call.
type Usage struct {
	InputTokens     int64 `json:"input_tokens"`
	OutputTokens    int64 `json:"output_tokens"`
	TotalTokens     int64 `json:"total_tokens"`
	CacheReadTokens int64 `json:"cache_read_tokens,omitempty"`
}

// Add accumulates another usage into this one.
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.TotalTokens += other.TotalTokens
	u.CacheReadTokens += other.CacheReadTokens
}

// Content is one piece of a response.
type Content interface {
	GetType() ContentType
}

// TextContent is generated text.
type TextContent struct {
	Text string `json:"text"`
}

func (TextContent) GetType() ContentType { return ContentTypeText }

// ToolCallContent is a tool invocation emitted by the model.
type ToolCallContent struct {
	ToolCallID string `json:"tool_call_id"`
	ToolName   string `json:"tool_name"`
	Input      string `json:"input"`
}

func (ToolCallContent) GetType() ContentType { return ContentTypeToolCall }

// FileContent is binary content emitted by the model.
type FileContent struct {
	MediaType string `json:"media_type"`
	Data      []byte `json:"data"`
}

func (FileContent) GetType() ContentType { return ContentTypeFile }

// ResponseContent is the ordered content of a response.
type ResponseContent []Content

// Text concatenates the text content of the response.
func (c ResponseContent) Text() string {
	var sb strings.Builder
	for _, content := range c {
		if tc, ok := content.(TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}

// ToolCalls returns the tool calls in the response, in order.
func (c ResponseContent) ToolCalls() []ToolCallContent {
	var calls []ToolCallContent
	for _, content := range c {
		if tc, ok := content.(ToolCallContent); ok {
			calls = append(calls, tc)
		}
	}
	return calls
}

// Response is a provider-neutral generation result.
type Response struct {
	Content      ResponseContent `json:"content"`
	FinishReason FinishReason    `json:"finish_reason"`
	Usage        Usage           `json:"usage"`
	Warnings     []CallWarning   `json:"warnings,omitempty"`
}

// StreamPartType identifies the kind of a stream event.
type StreamPartType string

const (
	StreamPartTypeTextDelta      StreamPartType = "text_delta"
	StreamPartTypeToolInputStart StreamPartType = "tool_input_start"
	StreamPartTypeToolInputDelta StreamPartType = "tool_input_delta"
	StreamPartTypeToolInputEnd   StreamPartType = "tool_input_end"
	StreamPartTypeWarnings       StreamPartType = "warnings"
	StreamPartTypeFinish         StreamPartType = "finish"
	StreamPartTypeError          StreamPartType = "error"
)

// StreamPart is one event of a streaming response.
type StreamPart struct {
	Type          StreamPartType `json:"type"`
	Delta         string         `json:"delta,omitempty"`
	ID            string         `json:"id,omitempty"`
	ToolCallName  string         `json:"tool_call_name,omitempty"`
	ToolCallInput string         `json:"tool_call_input,omitempty"`
	Warnings      []CallWarning  `json:"warnings,omitempty"`
	Usage         Usage          `json:"usage,omitzero"`
	FinishReason  FinishReason   `json:"finish_reason,omitempty"`
	Error         error          `json:"-"`
}

// StreamResponse is a push iterator over stream parts.
type StreamResponse func(yield func(StreamPart) bool)
