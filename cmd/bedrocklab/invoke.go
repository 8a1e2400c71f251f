package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promptfoundry/bedrocklab"
)

var (
	invokeModel       string
	invokeStream      bool
	invokeMaxTokens   int64
	invokeTemperature float64
	invokeSystem      string
)

var invokeCmd = &cobra.Command{
	Use:   "invoke [prompt]",
	Short: "Send one prompt to a Bedrock model",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		model, err := languageModel(ctx, invokeModel)
		if err != nil {
			return err
		}

		call := bedrocklab.Call{
			Prompt:          buildPrompt(invokeSystem, strings.Join(args, " ")),
			MaxOutputTokens: &invokeMaxTokens,
		}
		if cmd.Flags().Changed("temperature") {
			call.Temperature = &invokeTemperature
		}

		if invokeStream {
			return streamToStdout(ctx, model, call)
		}

		response, err := model.Generate(ctx, call)
		if err != nil {
			return err
		}
		fmt.Println(response.Content.Text())
		printUsage(model.Model(), response.Usage)
		return nil
	},
}

func init() {
	invokeCmd.Flags().StringVarP(&invokeModel, "model", "m", "", "model ID (defaults to BEDROCKLAB_MODEL_ID)")
	invokeCmd.Flags().BoolVar(&invokeStream, "stream", false, "stream the response")
	invokeCmd.Flags().Int64Var(&invokeMaxTokens, "max-tokens", 1024, "maximum output tokens")
	invokeCmd.Flags().Float64VarP(&invokeTemperature, "temperature", "t", 0.7, "sampling temperature")
	invokeCmd.Flags().StringVar(&invokeSystem, "system", "", "system prompt")
	rootCmd.AddCommand(invokeCmd)
}

func buildPrompt(system, user string) bedrocklab.Prompt {
	var prompt bedrocklab.Prompt
	if system != "" {
		prompt = append(prompt, bedrocklab.NewSystemMessage(system))
	}
	return append(prompt, bedrocklab.NewUserMessage(user))
}

// streamToStdout runs a streaming call and prints deltas as they arrive.
func streamToStdout(ctx context.Context, model bedrocklab.LanguageModel, call bedrocklab.Call) error {
	stream, err := model.Stream(ctx, call)
	if err != nil {
		return err
	}

	var streamErr error
	var usage bedrocklab.Usage
	stream(func(part bedrocklab.StreamPart) bool {
		switch part.Type {
		case bedrocklab.StreamPartTypeTextDelta:
			fmt.Print(part.Delta)
		case bedrocklab.StreamPartTypeFinish:
			usage = part.Usage
		case bedrocklab.StreamPartTypeError:
			streamErr = part.Error
			return false
		}
		return true
	})
	fmt.Println()
	if streamErr != nil {
		return streamErr
	}
	printUsage(model.Model(), usage)
	return nil
}

func printUsage(modelID string, usage bedrocklab.Usage) {
	fmt.Printf("\n[%s] tokens: %d in / %d out", modelID, usage.InputTokens, usage.OutputTokens)
	if usage.CacheReadTokens > 0 {
		fmt.Printf(" (%d cache reads)", usage.CacheReadTokens)
	}
	fmt.Println()
}
