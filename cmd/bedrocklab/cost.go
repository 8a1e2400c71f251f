package main

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/spf13/cobra"

	"github.com/promptfoundry/bedrocklab"
	"github.com/promptfoundry/bedrocklab/cost"
)

var (
	costDays         int
	costMetricName   string
	costMetricModel  string
	costMetricPeriod time.Duration

	estimateModel  string
	estimateInput  int64
	estimateOutput int64
)

var costCmd = &cobra.Command{
	Use:   "cost",
	Short: "Bedrock cost monitoring",
}

var costReportCmd = &cobra.Command{
	Use:   "report",
	Short: "Billed Bedrock spend from Cost Explorer",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		awsCfg, err := loadAWSConfig(ctx)
		if err != nil {
			return err
		}

		explorer := cost.NewExplorer(costexplorer.NewFromConfig(awsCfg))
		end := time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
		start := end.AddDate(0, 0, -costDays)

		report, err := explorer.BedrockSpend(ctx, start, end)
		if err != nil {
			return err
		}

		for _, day := range report.Days {
			fmt.Printf("%s  $%.4f\n", day.Date.Format(time.DateOnly), day.USD)
		}
		fmt.Printf("total ($, last %d days): %.4f\n", costDays, report.TotalUSD)
		return nil
	},
}

var costMetricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Bedrock invocation metrics from CloudWatch",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		awsCfg, err := loadAWSConfig(ctx)
		if err != nil {
			return err
		}

		metrics := cost.NewMetrics(cloudwatch.NewFromConfig(awsCfg))
		end := time.Now().UTC()
		start := end.AddDate(0, 0, -costDays)

		datapoints, err := metrics.InvocationMetrics(ctx, costMetricName, costMetricModel, start, end, costMetricPeriod)
		if err != nil {
			return err
		}
		if len(datapoints) == 0 {
			fmt.Println("no datapoints")
			return nil
		}
		for _, dp := range datapoints {
			fmt.Printf("%s  sum=%.1f avg=%.1f\n", dp.Timestamp.Format(time.RFC3339), dp.Sum, dp.Average)
		}
		return nil
	},
}

var costEstimateCmd = &cobra.Command{
	Use:   "estimate",
	Short: "Offline token-cost math from the local pricing table",
	RunE: func(_ *cobra.Command, _ []string) error {
		modelID := estimateModel
		if modelID == "" {
			modelID = cfg.ModelID
		}
		usage := bedrocklab.Usage{InputTokens: estimateInput, OutputTokens: estimateOutput}

		breakdown, ok := cost.Estimate(modelID, usage)
		if !ok {
			return fmt.Errorf("no pricing for model %q", modelID)
		}
		fmt.Printf("model: %s\ninput:  $%.6f (%d tokens)\noutput: $%.6f (%d tokens)\ntotal:  $%.6f\n",
			modelID, breakdown.InputUSD, estimateInput, breakdown.OutputUSD, estimateOutput, breakdown.TotalUSD)
		return nil
	},
}

func loadAWSConfig(ctx context.Context) (aws.Config, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	return awsconfig.LoadDefaultConfig(ctx, loadOpts...)
}

func init() {
	costCmd.PersistentFlags().IntVar(&costDays, "days", 7, "how many days back to report")
	costMetricsCmd.Flags().StringVar(&costMetricName, "metric", cost.MetricInvocations, "metric name (Invocations, InputTokenCount, OutputTokenCount, InvocationLatency)")
	costMetricsCmd.Flags().StringVar(&costMetricModel, "model", "", "restrict to one model ID")
	costMetricsCmd.Flags().DurationVar(&costMetricPeriod, "period", time.Hour, "aggregation period")
	costEstimateCmd.Flags().StringVarP(&estimateModel, "model", "m", "", "model ID (defaults to BEDROCKLAB_MODEL_ID)")
	costEstimateCmd.Flags().Int64Var(&estimateInput, "input-tokens", 1000, "input token count")
	costEstimateCmd.Flags().Int64Var(&estimateOutput, "output-tokens", 1000, "output token count")
	costCmd.AddCommand(costReportCmd, costMetricsCmd, costEstimateCmd)
	rootCmd.AddCommand(costCmd)
}
