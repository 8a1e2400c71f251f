package bedrocklab

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// Schema is a JSON schema describing tool input.
type Schema struct {
	Type        string             `json:"type,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Required    []string           `json:"required,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Description string             `json:"description,omitempty"`
	Enum        []any              `json:"enum,omitempty"`
}

// ToolInfo is the metadata of an agent tool.
type ToolInfo struct {
	Name        string
	Description string
	Parameters  map[string]any
	Required    []string
}

// FunctionTool converts the tool info into a model-facing tool definition.
func (info ToolInfo) FunctionTool() FunctionTool {
	schema := map[string]any{
		"type":       "object",
		"properties": info.Parameters,
	}
	if len(info.Required) > 0 {
		schema["required"] = info.Required
	}
	return FunctionTool{
		Name:        info.Name,
		Description: info.Description,
		InputSchema: schema,
	}
}

// ToolCall is a single tool invocation handed to a tool.
type ToolCall struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Input string `json:"input"`
}

// ToolResponse is the result of a tool execution.
type ToolResponse struct {
	Content string `json:"content"`
	IsError bool   `json:"is_error"`
}

// NewTextResponse creates a successful text response.
func NewTextResponse(content string) ToolResponse {
	return ToolResponse{Content: content}
}

// NewTextErrorResponse creates an error response.
func NewTextErrorResponse(content string) ToolResponse {
	return ToolResponse{Content: content, IsError: true}
}

// AgentTool is a tool that can be executed on behalf of a language model.
type AgentTool interface {
	Info() ToolInfo
	Run(ctx context.Context, call ToolCall) (ToolResponse, error)
}

// NewAgentTool creates a typed tool from a function, generating the input
// schema from the input struct's fields and tags.
func NewAgentTool[TInput any](
	name string,
	description string,
	fn func(ctx context.Context, input TInput, call ToolCall) (ToolResponse, error),
) AgentTool {
	var input TInput
	schema := generateSchema(reflect.TypeOf(input))

	return &funcTool[TInput]{
		name:        name,
		description: description,
		fn:          fn,
		schema:      schema,
	}
}

type funcTool[TInput any] struct {
	name        string
	description string
	fn          func(ctx context.Context, input TInput, call ToolCall) (ToolResponse, error)
	schema      Schema
}

func (t *funcTool[TInput]) Info() ToolInfo {
	required := t.schema.Required
	if required == nil {
		required = []string{}
	}
	params := make(map[string]any, len(t.schema.Properties))
	for name, prop := range t.schema.Properties {
		params[name] = schemaToMap(*prop)
	}
	return ToolInfo{
		Name:        t.name,
		Description: t.description,
		Parameters:  params,
		Required:    required,
	}
}

func (t *funcTool[TInput]) Run(ctx context.Context, call ToolCall) (ToolResponse, error) {
	var input TInput
	if err := json.Unmarshal([]byte(call.Input), &input); err != nil {
		// Models occasionally emit truncated or sloppy JSON. Try a repair
		// pass before giving up.
		repaired, _, repairErr := ParsePartialJSON(call.Input)
		if repairErr != nil {
			return NewTextErrorResponse(fmt.Sprintf("invalid parameters: %s", err)), nil
		}
		data, marshalErr := json.Marshal(repaired)
		if marshalErr != nil {
			return NewTextErrorResponse(fmt.Sprintf("invalid parameters: %s", err)), nil
		}
		if err := json.Unmarshal(data, &input); err != nil {
			return NewTextErrorResponse(fmt.Sprintf("invalid parameters: %s", err)), nil
		}
	}
	return t.fn(ctx, input, call)
}

// schemaToMap converts a Schema to its JSON Schema map representation.
func schemaToMap(schema Schema) map[string]any {
	result := make(map[string]any)
	if schema.Type != "" {
		result["type"] = schema.Type
	}
	if schema.Description != "" {
		result["description"] = schema.Description
	}
	if len(schema.Enum) > 0 {
		result["enum"] = schema.Enum
	}
	if schema.Properties != nil {
		props := make(map[string]any, len(schema.Properties))
		for name, prop := range schema.Properties {
			props[name] = schemaToMap(*prop)
		}
		result["properties"] = props
	}
	if len(schema.Required) > 0 {
		result["required"] = schema.Required
	}
	if schema.Items != nil {
		result["items"] = schemaToMap(*schema.Items)
	}
	return result
}

func generateSchema(t reflect.Type) Schema {
	return generateSchemaRecursive(t, make(map[reflect.Type]bool))
}

func generateSchemaRecursive(t reflect.Type, visited map[reflect.Type]bool) Schema {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if visited[t] {
		return Schema{Type: "object"}
	}
	visited[t] = true
	defer delete(visited, t)

	switch t.Kind() {
	case reflect.String:
		return Schema{Type: "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return Schema{Type: "number"}
	case reflect.Bool:
		return Schema{Type: "boolean"}
	case reflect.Slice, reflect.Array:
		itemSchema := generateSchemaRecursive(t.Elem(), visited)
		return Schema{Type: "array", Items: &itemSchema}
	case reflect.Struct:
		schema := Schema{
			Type:       "object",
			Properties: make(map[string]*Schema),
		}
		for i := range t.NumField() {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			jsonTag := field.Tag.Get("json")
			if jsonTag == "-" {
				continue
			}

			fieldName := field.Name
			required := true
			if jsonTag != "" {
				parts := strings.Split(jsonTag, ",")
				if parts[0] != "" {
					fieldName = parts[0]
				}
				if slices.Contains(parts[1:], "omitempty") {
					required = false
				}
			} else {
				fieldName = toSnakeCase(fieldName)
			}

			fieldSchema := generateSchemaRecursive(field.Type, visited)
			if desc := field.Tag.Get("description"); desc != "" {
				fieldSchema.Description = desc
			}
			if enumTag := field.Tag.Get("enum"); enumTag != "" {
				values := strings.Split(enumTag, ",")
				fieldSchema.Enum = make([]any, len(values))
				for i, v := range values {
					fieldSchema.Enum[i] = strings.TrimSpace(v)
				}
			}

			schema.Properties[fieldName] = &fieldSchema
			if required {
				schema.Required = append(schema.Required, fieldName)
			}
		}
		return schema
	default:
		return Schema{Type: "object"}
	}
}

func toSnakeCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteByte('_')
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}
