// Command bedrocklab is the course CLI: each subcommand is one lab against
// AWS Bedrock.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptfoundry/bedrocklab"
	"github.com/promptfoundry/bedrocklab/bedrock"
	"github.com/promptfoundry/bedrocklab/config"
	"github.com/promptfoundry/bedrocklab/internal/logx"
)

var (
	flagRegion  string
	flagVerbose bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "bedrocklab",
	Short:         "Hands-on labs for AWS Bedrock",
	Long:          "bedrocklab bundles the course labs: model invocation, prompt caching,\nRAG, guardrails, agents, routing, and cost monitoring.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if flagRegion != "" {
			cfg.Region = flagRegion
		}
		logx.Init(logx.Opts{
			Environment: logx.Environment(cfg.Env),
			Verbose:     flagVerbose,
		})
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRegion, "region", "", "AWS region (overrides AWS_REGION)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// newProvider builds the Bedrock provider from the resolved config.
func newProvider() bedrocklab.Provider {
	var opts []bedrock.Option
	if cfg.Region != "" {
		opts = append(opts, bedrock.WithRegion(cfg.Region))
	}
	return bedrock.New(opts...)
}

func languageModel(ctx context.Context, modelID string) (bedrocklab.LanguageModel, error) {
	if modelID == "" {
		modelID = cfg.ModelID
	}
	return newProvider().LanguageModel(ctx, modelID)
}

func embeddingModel(ctx context.Context) (bedrocklab.EmbeddingModel, error) {
	provider, ok := newProvider().(bedrocklab.EmbeddingProvider)
	if !ok {
		return nil, fmt.Errorf("provider does not support embeddings")
	}
	return provider.EmbeddingModel(ctx, cfg.EmbeddingModelID)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
