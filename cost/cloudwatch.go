package cost

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/promptfoundry/bedrocklab/bedrock"
)

const (
	// bedrockNamespace is where Bedrock publishes invocation metrics.
	bedrockNamespace = "AWS/Bedrock"

	// SessionNamespace is where per-session custom metrics go.
	SessionNamespace = "BedrockLab/Sessions"
)

// Bedrock invocation metric names.
const (
	MetricInvocations       = "Invocations"
	MetricInputTokenCount   = "InputTokenCount"
	MetricOutputTokenCount  = "OutputTokenCount"
	MetricInvocationLatency = "InvocationLatency"
)

// CloudWatchAPI is the subset of the CloudWatch client used here.
// Satisfied by *cloudwatch.Client.
type CloudWatchAPI interface {
	GetMetricStatistics(ctx context.Context, params *cloudwatch.GetMetricStatisticsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricStatisticsOutput, error)
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Datapoint is one aggregated metric sample.
type Datapoint struct {
	Timestamp time.Time
	Sum       float64
	Average   float64
}

// Metrics reads Bedrock invocation metrics and publishes custom session
// metrics.
type Metrics struct {
	client CloudWatchAPI
}

// NewMetrics wraps a CloudWatch client.
func NewMetrics(client CloudWatchAPI) *Metrics {
	return &Metrics{client: client}
}

// InvocationMetrics fetches one AWS/Bedrock metric for a model over
// [start, end], aggregated into period-sized buckets.
func (m *Metrics) InvocationMetrics(ctx context.Context, metricName, modelID string, start, end time.Time, period time.Duration) ([]Datapoint, error) {
	input := &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String(bedrockNamespace),
		MetricName: aws.String(metricName),
		StartTime:  aws.Time(start),
		EndTime:    aws.Time(end),
		Period:     aws.Int32(int32(period / time.Second)),
		Statistics: []types.Statistic{types.StatisticSum, types.StatisticAverage},
	}
	if modelID != "" {
		input.Dimensions = []types.Dimension{
			{Name: aws.String("ModelId"), Value: aws.String(modelID)},
		}
	}

	output, err := m.client.GetMetricStatistics(ctx, input)
	if err != nil {
		return nil, bedrock.ConvertAWSError(err)
	}

	datapoints := make([]Datapoint, 0, len(output.Datapoints))
	for _, dp := range output.Datapoints {
		point := Datapoint{}
		if dp.Timestamp != nil {
			point.Timestamp = *dp.Timestamp
		}
		if dp.Sum != nil {
			point.Sum = *dp.Sum
		}
		if dp.Average != nil {
			point.Average = *dp.Average
		}
		datapoints = append(datapoints, point)
	}
	return datapoints, nil
}

// PublishSession pushes a session's tracked usage as custom metrics, one
// set of datums per model.
func (m *Metrics) PublishSession(ctx context.Context, sessionID string, report Report) error {
	if len(report.Models) == 0 {
		return nil
	}

	now := time.Now()
	var data []types.MetricDatum
	for _, spend := range report.Models {
		dimensions := []types.Dimension{
			{Name: aws.String("SessionId"), Value: aws.String(sessionID)},
			{Name: aws.String("ModelId"), Value: aws.String(spend.ModelID)},
		}
		data = append(data,
			types.MetricDatum{
				MetricName: aws.String("Calls"),
				Timestamp:  aws.Time(now),
				Value:      aws.Float64(float64(spend.Calls)),
				Unit:       types.StandardUnitCount,
				Dimensions: dimensions,
			},
			types.MetricDatum{
				MetricName: aws.String("TotalTokens"),
				Timestamp:  aws.Time(now),
				Value:      aws.Float64(float64(spend.TotalTokens)),
				Unit:       types.StandardUnitCount,
				Dimensions: dimensions,
			},
			types.MetricDatum{
				MetricName: aws.String("EstimatedUSD"),
				Timestamp:  aws.Time(now),
				Value:      aws.Float64(spend.USD),
				Unit:       types.StandardUnitNone,
				Dimensions: dimensions,
			},
		)
	}

	_, err := m.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(SessionNamespace),
		MetricData: data,
	})
	if err != nil {
		return bedrock.ConvertAWSError(err)
	}
	return nil
}
