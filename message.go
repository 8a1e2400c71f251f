package bedrocklab

// MessageRole identifies the author of a message.
type MessageRole string

const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
	MessageRoleTool      MessageRole = "tool"
)

// ContentType identifies the kind of a message part.
type ContentType string

const (
	ContentTypeText       ContentType = "text"
	ContentTypeReasoning  ContentType = "reasoning"
	ContentTypeFile       ContentType = "file"
	ContentTypeToolCall   ContentType = "tool_call"
	ContentTypeToolResult ContentType = "tool_result"
)

// MessagePart is one piece of a message's content.
type MessagePart interface {
	GetType() ContentType
}

// AsMessagePart narrows a MessagePart to a concrete part type.
func AsMessagePart[T MessagePart](part MessagePart) (T, bool) {
	v, ok := part.(T)
	return v, ok
}

// TextPart is plain text content.
type TextPart struct {
	Text string `json:"text"`
}

func (TextPart) GetType() ContentType { return ContentTypeText }

// ReasoningPart is model reasoning content surfaced by providers that
// expose extended thinking.
type ReasoningPart struct {
	Text      string `json:"text"`
	Signature string `json:"signature,omitempty"`
}

func (ReasoningPart) GetType() ContentType { return ContentTypeReasoning }

// FilePart is binary content such as an image attachment.
type FilePart struct {
	MediaType string `json:"media_type"`
	Data      []byte `json:"data"`
}

func (FilePart) GetType() ContentType { return ContentTypeFile }

// ToolCallPart is a tool invocation requested by the model. Input is the
// raw JSON-encoded arguments.
type ToolCallPart struct {
	ToolCallID string `json:"tool_call_id"`
	ToolName   string `json:"tool_name"`
	Input      string `json:"input"`
}

func (ToolCallPart) GetType() ContentType { return ContentTypeToolCall }

// ToolResultContentType identifies the kind of a tool result output.
type ToolResultContentType string

const (
	ToolResultContentTypeText  ToolResultContentType = "text"
	ToolResultContentTypeError ToolResultContentType = "error"
	ToolResultContentTypeMedia ToolResultContentType = "media"
)

// ToolResultOutputContent is the output payload of a tool execution.
type ToolResultOutputContent interface {
	GetType() ToolResultContentType
}

// ToolResultOutputContentText is a successful text tool result.
type ToolResultOutputContentText struct {
	Text string `json:"text"`
}

func (ToolResultOutputContentText) GetType() ToolResultContentType {
	return ToolResultContentTypeText
}

// ToolResultOutputContentError is a failed tool execution.
type ToolResultOutputContentError struct {
	Error error `json:"-"`
}

func (ToolResultOutputContentError) GetType() ToolResultContentType {
	return ToolResultContentTypeError
}

// ToolResultOutputContentMedia is a tool result carrying base64 media,
// optionally with accompanying text.
type ToolResultOutputContentMedia struct {
	Data      string `json:"data"`
	MediaType string `json:"media_type"`
	Text      string `json:"text,omitempty"`
}

func (ToolResultOutputContentMedia) GetType() ToolResultContentType {
	return ToolResultContentTypeMedia
}

// ToolResultPart carries the result of a tool call back to the model.
type ToolResultPart struct {
	ToolCallID string
	Output     ToolResultOutputContent
}

func (ToolResultPart) GetType() ContentType { return ContentTypeToolResult }

// Message is a single turn in a conversation.
type Message struct {
	Role    MessageRole
	Content []MessagePart
}

// Prompt is an ordered conversation history.
type Prompt []Message

// NewSystemMessage builds a system message from text.
func NewSystemMessage(text string) Message {
	return Message{
		Role:    MessageRoleSystem,
		Content: []MessagePart{TextPart{Text: text}},
	}
}

// NewUserMessage builds a user message from text.
func NewUserMessage(text string) Message {
	return Message{
		Role:    MessageRoleUser,
		Content: []MessagePart{TextPart{Text: text}},
	}
}

// NewAssistantMessage builds an assistant message from the given parts.
func NewAssistantMessage(parts ...MessagePart) Message {
	return Message{
		Role:    MessageRoleAssistant,
		Content: parts,
	}
}

// NewToolResultMessage builds a tool message from the given result parts.
func NewToolResultMessage(parts ...MessagePart) Message {
	return Message{
		Role:    MessageRoleTool,
		Content: parts,
	}
}

// Text concatenates the text parts of a message.
func (m Message) Text() string {
	var out string
	for _, part := range m.Content {
		if tp, ok := AsMessagePart[TextPart](part); ok {
			out += tp.Text
		}
	}
	return out
}
