package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promptfoundry/bedrocklab"
	"github.com/promptfoundry/bedrocklab/guardrail"
)

var guardrailAssessOnly bool

var guardrailCmd = &cobra.Command{
	Use:   "guardrail [prompt]",
	Short: "Run a guarded generation, or just assess a prompt",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if cfg.GuardrailID == "" {
			return fmt.Errorf("BEDROCKLAB_GUARDRAIL_ID is not set")
		}

		var opts []guardrail.Option
		if cfg.Region != "" {
			opts = append(opts, guardrail.WithRegion(cfg.Region))
		}
		assessor, err := guardrail.NewAssessor(ctx, cfg.GuardrailID, cfg.GuardrailVersion, opts...)
		if err != nil {
			return err
		}

		text := strings.Join(args, " ")
		if guardrailAssessOnly {
			assessment, err := assessor.AssessInput(ctx, text)
			if err != nil {
				return err
			}
			fmt.Printf("action: %s\n", assessment.Action)
			for _, reason := range assessment.Reasons {
				fmt.Printf("  - %s\n", reason)
			}
			if assessment.MaskedText != "" {
				fmt.Printf("replacement: %s\n", assessment.MaskedText)
			}
			return nil
		}

		inner, err := languageModel(ctx, "")
		if err != nil {
			return err
		}
		model := guardrail.Wrap(inner, assessor)

		response, err := model.Generate(ctx, bedrocklab.Call{Prompt: buildPrompt("", text)})
		if err != nil {
			return err
		}
		fmt.Println(response.Content.Text())
		if response.FinishReason == bedrocklab.FinishReasonContentFilter {
			fmt.Println("\n(guardrail intervened)")
		}
		return nil
	},
}

func init() {
	guardrailCmd.Flags().BoolVar(&guardrailAssessOnly, "assess-only", false, "assess the prompt without generating")
	rootCmd.AddCommand(guardrailCmd)
}
