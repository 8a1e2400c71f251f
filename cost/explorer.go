package cost

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer/types"

	"github.com/promptfoundry/bedrocklab/bedrock"
)

// bedrockServiceName is the Cost Explorer SERVICE dimension value.
const bedrockServiceName = "Amazon Bedrock"

// CostExplorerAPI is the subset of the Cost Explorer client used here.
// Satisfied by *costexplorer.Client.
type CostExplorerAPI interface {
	GetCostAndUsage(ctx context.Context, params *costexplorer.GetCostAndUsageInput, optFns ...func(*costexplorer.Options)) (*costexplorer.GetCostAndUsageOutput, error)
}

// DailySpend is one day of billed Bedrock spend.
type DailySpend struct {
	Date time.Time
	USD  float64
}

// SpendReport is billed Bedrock spend over a date range.
type SpendReport struct {
	Start    time.Time
	End      time.Time
	Days     []DailySpend
	TotalUSD float64
}

// Explorer reads billed spend from Cost Explorer.
type Explorer struct {
	client CostExplorerAPI
}

// NewExplorer wraps a Cost Explorer client.
func NewExplorer(client CostExplorerAPI) *Explorer {
	return &Explorer{client: client}
}

// BedrockSpend fetches daily unblended Bedrock cost for [start, end). Cost
// Explorer treats the end date as exclusive.
func (e *Explorer) BedrockSpend(ctx context.Context, start, end time.Time) (*SpendReport, error) {
	output, err := e.client.GetCostAndUsage(ctx, &costexplorer.GetCostAndUsageInput{
		TimePeriod: &types.DateInterval{
			Start: aws.String(start.Format(time.DateOnly)),
			End:   aws.String(end.Format(time.DateOnly)),
		},
		Granularity: types.GranularityDaily,
		Metrics:     []string{"UnblendedCost"},
		Filter: &types.Expression{
			Dimensions: &types.DimensionValues{
				Key:    types.DimensionService,
				Values: []string{bedrockServiceName},
			},
		},
		GroupBy: []types.GroupDefinition{
			{Type: types.GroupDefinitionTypeDimension, Key: aws.String("SERVICE")},
		},
	})
	if err != nil {
		return nil, bedrock.ConvertAWSError(err)
	}

	report := &SpendReport{Start: start, End: end}
	for _, result := range output.ResultsByTime {
		day := DailySpend{}
		if result.TimePeriod != nil && result.TimePeriod.Start != nil {
			if parsed, err := time.Parse(time.DateOnly, *result.TimePeriod.Start); err == nil {
				day.Date = parsed
			}
		}
		for _, group := range result.Groups {
			day.USD += metricAmount(group.Metrics)
		}
		if len(result.Groups) == 0 {
			day.USD = metricAmount(result.Total)
		}
		report.Days = append(report.Days, day)
		report.TotalUSD += day.USD
	}

	sort.Slice(report.Days, func(i, j int) bool {
		return report.Days[i].Date.Before(report.Days[j].Date)
	})
	return report, nil
}

func metricAmount(metrics map[string]types.MetricValue) float64 {
	value, ok := metrics["UnblendedCost"]
	if !ok || value.Amount == nil {
		return 0
	}
	amount, err := strconv.ParseFloat(*value.Amount, 64)
	if err != nil {
		return 0
	}
	return amount
}
