// Package agent runs a tool-calling loop on top of a language model: the
// model requests tools, the agent executes them and feeds the results back
// until the model answers in plain text.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/promptfoundry/bedrocklab"
)

// DefaultMaxSteps bounds the generate/execute loop.
const DefaultMaxSteps = 8

// ErrMaxStepsExceeded is returned when the model keeps requesting tools
// past the step cap.
var ErrMaxStepsExceeded = errors.New("agent: max steps exceeded")

// Step is one generate/execute round of the loop.
type Step struct {
	Text        string
	ToolCalls   []bedrocklab.ToolCallContent
	ToolResults []bedrocklab.ToolResponse
	Usage       bedrocklab.Usage
}

// Result is the outcome of an agent run.
type Result struct {
	// Text is the model's final plain-text answer.
	Text  string
	Steps []Step
	Usage bedrocklab.Usage
}

// Agent drives a language model through tool use.
type Agent struct {
	model        bedrocklab.LanguageModel
	tools        map[string]bedrocklab.AgentTool
	toolDefs     []bedrocklab.Tool
	systemPrompt string
	maxSteps     int
}

// Option configures an agent.
type Option = func(*Agent)

// WithSystemPrompt sets the agent's system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(a *Agent) {
		a.systemPrompt = prompt
	}
}

// WithMaxSteps overrides the step cap.
func WithMaxSteps(n int) Option {
	return func(a *Agent) {
		a.maxSteps = n
	}
}

// WithTools registers tools with the agent.
func WithTools(tools ...bedrocklab.AgentTool) Option {
	return func(a *Agent) {
		for _, tool := range tools {
			info := tool.Info()
			a.tools[info.Name] = tool
			a.toolDefs = append(a.toolDefs, info.FunctionTool())
		}
	}
}

// New creates an agent around a language model.
func New(model bedrocklab.LanguageModel, opts ...Option) *Agent {
	a := &Agent{
		model:    model,
		tools:    map[string]bedrocklab.AgentTool{},
		maxSteps: DefaultMaxSteps,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run executes the loop for one user input. The returned result carries the
// final answer and the per-step transcript.
func (a *Agent) Run(ctx context.Context, input string) (*Result, error) {
	prompt := bedrocklab.Prompt{}
	if a.systemPrompt != "" {
		prompt = append(prompt, bedrocklab.NewSystemMessage(a.systemPrompt))
	}
	prompt = append(prompt, bedrocklab.NewUserMessage(input))

	result := &Result{}
	for step := 0; step < a.maxSteps; step++ {
		response, err := a.model.Generate(ctx, bedrocklab.Call{
			Prompt: prompt,
			Tools:  a.toolDefs,
		})
		if err != nil {
			return nil, err
		}
		result.Usage.Add(response.Usage)

		current := Step{
			Text:      response.Content.Text(),
			ToolCalls: response.Content.ToolCalls(),
			Usage:     response.Usage,
		}

		if len(current.ToolCalls) == 0 {
			result.Steps = append(result.Steps, current)
			result.Text = current.Text
			return result, nil
		}

		prompt = append(prompt, assistantMessage(response.Content))

		var resultParts []bedrocklab.MessagePart
		for _, call := range current.ToolCalls {
			toolResponse := a.execute(ctx, call)
			current.ToolResults = append(current.ToolResults, toolResponse)
			resultParts = append(resultParts, toolResultPart(call.ToolCallID, toolResponse))
		}
		prompt = append(prompt, bedrocklab.NewToolResultMessage(resultParts...))

		result.Steps = append(result.Steps, current)
	}

	return result, fmt.Errorf("%w: %d", ErrMaxStepsExceeded, a.maxSteps)
}

// execute runs one tool call. Failures become error tool-results fed back
// to the model instead of aborting the run.
func (a *Agent) execute(ctx context.Context, call bedrocklab.ToolCallContent) bedrocklab.ToolResponse {
	tool, ok := a.tools[call.ToolName]
	if !ok {
		return bedrocklab.NewTextErrorResponse(fmt.Sprintf("unknown tool: %s", call.ToolName))
	}

	start := time.Now()
	response, err := tool.Run(ctx, bedrocklab.ToolCall{
		ID:    call.ToolCallID,
		Name:  call.ToolName,
		Input: call.Input,
	})
	duration := time.Since(start)

	if err != nil {
		log.Warn().
			Str("tool", call.ToolName).
			Dur("duration", duration).
			Err(err).
			Msg("tool execution failed")
		return bedrocklab.NewTextErrorResponse(err.Error())
	}

	log.Debug().
		Str("tool", call.ToolName).
		Dur("duration", duration).
		Bool("is_error", response.IsError).
		Msg("tool executed")
	return response
}

// assistantMessage converts response content into an assistant turn.
func assistantMessage(content bedrocklab.ResponseContent) bedrocklab.Message {
	var parts []bedrocklab.MessagePart
	for _, c := range content {
		switch c := c.(type) {
		case bedrocklab.TextContent:
			parts = append(parts, bedrocklab.TextPart{Text: c.Text})
		case bedrocklab.ToolCallContent:
			parts = append(parts, bedrocklab.ToolCallPart{
				ToolCallID: c.ToolCallID,
				ToolName:   c.ToolName,
				Input:      c.Input,
			})
		}
	}
	return bedrocklab.NewAssistantMessage(parts...)
}

func toolResultPart(toolCallID string, response bedrocklab.ToolResponse) bedrocklab.ToolResultPart {
	var output bedrocklab.ToolResultOutputContent
	if response.IsError {
		output = bedrocklab.ToolResultOutputContentError{Error: errors.New(response.Content)}
	} else {
		output = bedrocklab.ToolResultOutputContentText{Text: response.Content}
	}
	return bedrocklab.ToolResultPart{
		ToolCallID: toolCallID,
		Output:     output,
	}
}
