package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promptfoundry/bedrocklab"
)

var embedDimensions int64

var embedCmd = &cobra.Command{
	Use:   "embed [text]",
	Short: "Embed text and print the vector head",
	Long:  "Embeds the arguments, or stdin when no arguments are given.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		text := strings.Join(args, " ")
		if text == "" {
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			text = strings.TrimSpace(string(data))
		}
		if text == "" {
			return fmt.Errorf("nothing to embed")
		}

		model, err := embeddingModel(ctx)
		if err != nil {
			return err
		}

		call := bedrocklab.EmbeddingCall{Input: &text}
		if cmd.Flags().Changed("dimensions") {
			call.Dimensions = &embedDimensions
		}
		response, err := model.Embed(ctx, call)
		if err != nil {
			return err
		}

		vector := response.Embeddings[0].Vector
		head := vector
		if len(head) > 8 {
			head = head[:8]
		}
		fmt.Printf("model: %s\ndimensions: %d\ntokens: %d\nhead: %v\n",
			response.Model, len(vector), response.Usage.InputTokens, head)
		return nil
	},
}

func init() {
	embedCmd.Flags().Int64Var(&embedDimensions, "dimensions", 0, "output dimensions (model-dependent)")
	rootCmd.AddCommand(embedCmd)
}
