package bedrocklab

import (
	"encoding/json"
	"fmt"
)

// messagePartJSON is the type-tagged envelope used to serialize MessagePart
// values, which are interfaces and need a discriminator to round-trip.
type messagePartJSON struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// toolResultOutputJSON is the envelope for ToolResultOutputContent values.
type toolResultOutputJSON struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON implements custom JSON marshaling for Message.
func (m Message) MarshalJSON() ([]byte, error) {
	contentJSON := make([]messagePartJSON, len(m.Content))
	for i, part := range m.Content {
		partData, err := json.Marshal(part)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal message part %d: %w", i, err)
		}
		contentJSON[i] = messagePartJSON{
			Type: string(part.GetType()),
			Data: partData,
		}
	}

	return json.Marshal(&struct {
		Role    MessageRole       `json:"role"`
		Content []messagePartJSON `json:"content"`
	}{
		Role:    m.Role,
		Content: contentJSON,
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for Message.
func (m *Message) UnmarshalJSON(data []byte) error {
	aux := &struct {
		Role    MessageRole       `json:"role"`
		Content []messagePartJSON `json:"content"`
	}{}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	m.Role = aux.Role
	m.Content = make([]MessagePart, len(aux.Content))

	for i, partJSON := range aux.Content {
		var part MessagePart
		var err error

		switch ContentType(partJSON.Type) {
		case ContentTypeText:
			var tp TextPart
			err = json.Unmarshal(partJSON.Data, &tp)
			part = tp
		case ContentTypeReasoning:
			var rp ReasoningPart
			err = json.Unmarshal(partJSON.Data, &rp)
			part = rp
		case ContentTypeFile:
			var fp FilePart
			err = json.Unmarshal(partJSON.Data, &fp)
			part = fp
		case ContentTypeToolCall:
			var tcp ToolCallPart
			err = json.Unmarshal(partJSON.Data, &tcp)
			part = tcp
		case ContentTypeToolResult:
			var trp ToolResultPart
			err = json.Unmarshal(partJSON.Data, &trp)
			part = trp
		default:
			return fmt.Errorf("unknown message part type: %s", partJSON.Type)
		}

		if err != nil {
			return fmt.Errorf("failed to unmarshal message part %d of type %s: %w", i, partJSON.Type, err)
		}

		m.Content[i] = part
	}

	return nil
}

// MarshalJSON implements custom JSON marshaling for ToolResultPart.
func (t ToolResultPart) MarshalJSON() ([]byte, error) {
	outputData, err := json.Marshal(t.Output)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tool result output: %w", err)
	}

	return json.Marshal(&struct {
		ToolCallID string               `json:"tool_call_id"`
		Output     toolResultOutputJSON `json:"output"`
	}{
		ToolCallID: t.ToolCallID,
		Output: toolResultOutputJSON{
			Type: string(t.Output.GetType()),
			Data: outputData,
		},
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for ToolResultPart.
func (t *ToolResultPart) UnmarshalJSON(data []byte) error {
	aux := &struct {
		ToolCallID string               `json:"tool_call_id"`
		Output     toolResultOutputJSON `json:"output"`
	}{}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	t.ToolCallID = aux.ToolCallID

	var output ToolResultOutputContent
	var err error

	switch ToolResultContentType(aux.Output.Type) {
	case ToolResultContentTypeText:
		var textOutput ToolResultOutputContentText
		err = json.Unmarshal(aux.Output.Data, &textOutput)
		output = textOutput
	case ToolResultContentTypeError:
		var errorOutput ToolResultOutputContentError
		err = json.Unmarshal(aux.Output.Data, &errorOutput)
		output = errorOutput
	case ToolResultContentTypeMedia:
		var mediaOutput ToolResultOutputContentMedia
		err = json.Unmarshal(aux.Output.Data, &mediaOutput)
		output = mediaOutput
	default:
		return fmt.Errorf("unknown tool result output type: %s", aux.Output.Type)
	}

	if err != nil {
		return fmt.Errorf("failed to unmarshal tool result output: %w", err)
	}

	t.Output = output
	return nil
}

// MarshalJSON implements custom JSON marshaling for ResponseContent.
func (c ResponseContent) MarshalJSON() ([]byte, error) {
	contentJSON := make([]messagePartJSON, len(c))
	for i, content := range c {
		data, err := json.Marshal(content)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response content %d: %w", i, err)
		}
		contentJSON[i] = messagePartJSON{
			Type: string(content.GetType()),
			Data: data,
		}
	}
	return json.Marshal(contentJSON)
}

// UnmarshalJSON implements custom JSON unmarshaling for ResponseContent.
func (c *ResponseContent) UnmarshalJSON(data []byte) error {
	var envelopes []messagePartJSON
	if err := json.Unmarshal(data, &envelopes); err != nil {
		return err
	}

	*c = make(ResponseContent, len(envelopes))
	for i, envelope := range envelopes {
		var content Content
		var err error

		switch ContentType(envelope.Type) {
		case ContentTypeText:
			var tc TextContent
			err = json.Unmarshal(envelope.Data, &tc)
			content = tc
		case ContentTypeToolCall:
			var tcc ToolCallContent
			err = json.Unmarshal(envelope.Data, &tcc)
			content = tcc
		case ContentTypeFile:
			var fc FileContent
			err = json.Unmarshal(envelope.Data, &fc)
			content = fc
		default:
			return fmt.Errorf("unknown response content type: %s", envelope.Type)
		}

		if err != nil {
			return fmt.Errorf("failed to unmarshal response content %d of type %s: %w", i, envelope.Type, err)
		}

		(*c)[i] = content
	}

	return nil
}

// MarshalJSON implements custom JSON marshaling for ToolResultOutputContentError.
func (t ToolResultOutputContentError) MarshalJSON() ([]byte, error) {
	var errorStr string
	if t.Error != nil {
		errorStr = t.Error.Error()
	}

	return json.Marshal(&struct {
		Error string `json:"error"`
	}{
		Error: errorStr,
	})
}

// UnmarshalJSON implements custom JSON unmarshaling for ToolResultOutputContentError.
func (t *ToolResultOutputContentError) UnmarshalJSON(data []byte) error {
	aux := &struct {
		Error string `json:"error"`
	}{}

	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}

	if aux.Error != "" {
		t.Error = fmt.Errorf("%s", aux.Error)
	}

	return nil
}
