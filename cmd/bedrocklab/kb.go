package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/promptfoundry/bedrocklab/knowledgebase"
)

var (
	kbRetrieveOnly bool
	kbTopK         int32
	kbModelARN     string
)

var kbCmd = &cobra.Command{
	Use:   "kb [question]",
	Short: "Query a managed Bedrock knowledge base",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if cfg.KnowledgeBaseID == "" {
			return fmt.Errorf("BEDROCKLAB_KNOWLEDGE_BASE_ID is not set")
		}

		var opts []knowledgebase.Option
		if cfg.Region != "" {
			opts = append(opts, knowledgebase.WithRegion(cfg.Region))
		}
		client, err := knowledgebase.New(ctx, cfg.KnowledgeBaseID, opts...)
		if err != nil {
			return err
		}

		question := args[0]
		if kbRetrieveOnly {
			results, err := client.Retrieve(ctx, question, kbTopK)
			if err != nil {
				return err
			}
			for i, result := range results {
				fmt.Printf("[%d] score %.3f  %s\n%s\n\n", i+1, result.Score, result.SourceURI, result.Content)
			}
			return nil
		}

		modelARN := kbModelARN
		if modelARN == "" {
			modelARN = fmt.Sprintf("arn:aws:bedrock:%s::foundation-model/%s", cfg.Region, cfg.ModelID)
		}
		answer, err := client.Ask(ctx, question, modelARN)
		if err != nil {
			return err
		}

		fmt.Println(answer.Text)
		if len(answer.Citations) > 0 {
			fmt.Println("\nCitations:")
			for _, citation := range answer.Citations {
				for _, uri := range citation.SourceURIs {
					fmt.Printf("  %s\n", uri)
				}
			}
		}
		fmt.Printf("\nsession: %s\n", answer.SessionID)
		return nil
	},
}

func init() {
	kbCmd.Flags().BoolVar(&kbRetrieveOnly, "retrieve-only", false, "print raw retrieval results without generation")
	kbCmd.Flags().Int32VarP(&kbTopK, "top-k", "k", 4, "number of passages to retrieve")
	kbCmd.Flags().StringVar(&kbModelARN, "model-arn", "", "model ARN for generation")
	rootCmd.AddCommand(kbCmd)
}
