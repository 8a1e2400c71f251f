package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promptfoundry/bedrocklab/agent"
)

var agentModel string

var agentCmd = &cobra.Command{
	Use:   "agent [task]",
	Short: "Run the tool-use agent with the built-in tools",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		model, err := languageModel(ctx, agentModel)
		if err != nil {
			return err
		}

		a := agent.New(model,
			agent.WithSystemPrompt("You are a helpful assistant. Use the available tools when they help."),
			agent.WithMaxSteps(cfg.AgentMaxSteps),
			agent.WithTools(agent.ClockTool(), agent.CalculatorTool()),
		)

		result, err := a.Run(ctx, strings.Join(args, " "))
		if err != nil {
			return err
		}

		for i, step := range result.Steps {
			for j, call := range step.ToolCalls {
				fmt.Printf("step %d: %s(%s)", i+1, call.ToolName, call.Input)
				if j < len(step.ToolResults) {
					fmt.Printf(" -> %s", step.ToolResults[j].Content)
				}
				fmt.Println()
			}
		}
		fmt.Printf("\n%s\n", result.Text)
		fmt.Printf("\ntokens: %d in / %d out over %d steps\n",
			result.Usage.InputTokens, result.Usage.OutputTokens, len(result.Steps))
		return nil
	},
}

func init() {
	agentCmd.Flags().StringVarP(&agentModel, "model", "m", "", "model ID (defaults to BEDROCKLAB_MODEL_ID)")
	rootCmd.AddCommand(agentCmd)
}
