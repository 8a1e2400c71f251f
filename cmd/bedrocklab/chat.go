package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/promptfoundry/bedrocklab"
	"github.com/promptfoundry/bedrocklab/cost"
)

var (
	chatModel          string
	chatPublishMetrics bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive streaming chat with a running cost footer",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		model, err := languageModel(ctx, chatModel)
		if err != nil {
			return err
		}

		tracker := cost.NewTracker()
		sessionID := uuid.NewString()
		prompt := bedrocklab.Prompt{}
		scanner := bufio.NewScanner(os.Stdin)

		fmt.Printf("Chatting with %s (session %s). Empty line or Ctrl-D to quit.\n", model.Model(), sessionID)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			input := strings.TrimSpace(scanner.Text())
			if input == "" {
				break
			}

			prompt = append(prompt, bedrocklab.NewUserMessage(input))
			stream, err := model.Stream(ctx, bedrocklab.Call{Prompt: prompt})
			if err != nil {
				return err
			}

			var reply strings.Builder
			var streamErr error
			stream(func(part bedrocklab.StreamPart) bool {
				switch part.Type {
				case bedrocklab.StreamPartTypeTextDelta:
					fmt.Print(part.Delta)
					reply.WriteString(part.Delta)
				case bedrocklab.StreamPartTypeFinish:
					tracker.Record(model.Model(), part.Usage)
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

			prompt = append(prompt, bedrocklab.NewAssistantMessage(bedrocklab.TextPart{Text: reply.String()}))

			report := tracker.Report()
			fmt.Printf("[session: $%.6f]\n\n", report.TotalUSD)
		}
		if err := scanner.Err(); err != nil {
			return err
		}

		if chatPublishMetrics {
			awsCfg, err := loadAWSConfig(ctx)
			if err != nil {
				return err
			}
			metrics := cost.NewMetrics(cloudwatch.NewFromConfig(awsCfg))
			if err := metrics.PublishSession(ctx, sessionID, tracker.Report()); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	chatCmd.Flags().StringVarP(&chatModel, "model", "m", "", "model ID (defaults to BEDROCKLAB_MODEL_ID)")
	chatCmd.Flags().BoolVar(&chatPublishMetrics, "publish-metrics", false, "publish session usage to CloudWatch on exit")
	rootCmd.AddCommand(chatCmd)
}
