package agent

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/promptfoundry/bedrocklab"
)

type clockInput struct {
	// Timezone is an IANA name like "Europe/Berlin". Defaults to UTC.
	Timezone string `json:"timezone,omitempty" description:"IANA timezone name, defaults to UTC"`
}

// ClockTool reports the current time, optionally in a given timezone.
func ClockTool() bedrocklab.AgentTool {
	return NewClockTool(time.Now)
}

// NewClockTool is ClockTool with an injectable clock.
func NewClockTool(now func() time.Time) bedrocklab.AgentTool {
	return bedrocklab.NewAgentTool(
		"current_time",
		"Returns the current date and time. Accepts an optional IANA timezone.",
		func(_ context.Context, input clockInput, _ bedrocklab.ToolCall) (bedrocklab.ToolResponse, error) {
			loc := time.UTC
			if input.Timezone != "" {
				var err error
				loc, err = time.LoadLocation(input.Timezone)
				if err != nil {
					return bedrocklab.NewTextErrorResponse(fmt.Sprintf("unknown timezone %q", input.Timezone)), nil
				}
			}
			return bedrocklab.NewTextResponse(now().In(loc).Format(time.RFC1123)), nil
		},
	)
}

type calculatorInput struct {
	Operation string  `json:"operation" description:"One of add, subtract, multiply, divide"`
	A         float64 `json:"a" description:"Left operand"`
	B         float64 `json:"b" description:"Right operand"`
}

// CalculatorTool does basic arithmetic on two operands.
func CalculatorTool() bedrocklab.AgentTool {
	return bedrocklab.NewAgentTool(
		"calculator",
		"Performs basic arithmetic: add, subtract, multiply, divide.",
		func(_ context.Context, input calculatorInput, _ bedrocklab.ToolCall) (bedrocklab.ToolResponse, error) {
			var result float64
			switch strings.ToLower(input.Operation) {
			case "add":
				result = input.A + input.B
			case "subtract":
				result = input.A - input.B
			case "multiply":
				result = input.A * input.B
			case "divide":
				if input.B == 0 {
					return bedrocklab.NewTextErrorResponse("division by zero"), nil
				}
				result = input.A / input.B
			default:
				return bedrocklab.NewTextErrorResponse(fmt.Sprintf("unknown operation %q", input.Operation)), nil
			}
			return bedrocklab.NewTextResponse(strconv.FormatFloat(result, 'f', -1, 64)), nil
		},
	)
}
