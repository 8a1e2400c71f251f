package cost

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/stretchr/testify/require"

	"github.com/promptfoundry/bedrocklab"
)

type fakeCloudWatch struct {
	getInput  *cloudwatch.GetMetricStatisticsInput
	getOutput *cloudwatch.GetMetricStatisticsOutput
	putInput  *cloudwatch.PutMetricDataInput
}

func (f *fakeCloudWatch) GetMetricStatistics(_ context.Context, params *cloudwatch.GetMetricStatisticsInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricStatisticsOutput, error) {
	f.getInput = params
	return f.getOutput, nil
}

func (f *fakeCloudWatch) PutMetricData(_ context.Context, params *cloudwatch.PutMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error) {
	f.putInput = params
	return &cloudwatch.PutMetricDataOutput{}, nil
}

func TestInvocationMetrics(t *testing.T) {
	t.Parallel()

	when := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	fake := &fakeCloudWatch{
		getOutput: &cloudwatch.GetMetricStatisticsOutput{
			Datapoints: []types.Datapoint{
				{Timestamp: aws.Time(when), Sum: aws.Float64(42), Average: aws.Float64(7)},
			},
		},
	}
	metrics := NewMetrics(fake)

	datapoints, err := metrics.InvocationMetrics(context.Background(),
		MetricInvocations, "amazon.nova-lite-v1:0",
		when.Add(-time.Hour), when, 5*time.Minute)
	require.NoError(t, err)
	require.Len(t, datapoints, 1)
	require.Equal(t, when, datapoints[0].Timestamp)
	require.InDelta(t, 42.0, datapoints[0].Sum, 1e-9)
	require.InDelta(t, 7.0, datapoints[0].Average, 1e-9)

	require.Equal(t, "AWS/Bedrock", *fake.getInput.Namespace)
	require.Equal(t, MetricInvocations, *fake.getInput.MetricName)
	require.Equal(t, int32(300), *fake.getInput.Period)
	require.Len(t, fake.getInput.Dimensions, 1)
	require.Equal(t, "ModelId", *fake.getInput.Dimensions[0].Name)
}

func TestInvocationMetricsNoModelDimension(t *testing.T) {
	t.Parallel()

	fake := &fakeCloudWatch{getOutput: &cloudwatch.GetMetricStatisticsOutput{}}
	metrics := NewMetrics(fake)

	_, err := metrics.InvocationMetrics(context.Background(),
		MetricInputTokenCount, "", time.Now().Add(-time.Hour), time.Now(), time.Minute)
	require.NoError(t, err)
	require.Empty(t, fake.getInput.Dimensions)
}

func TestPublishSession(t *testing.T) {
	t.Parallel()

	fake := &fakeCloudWatch{}
	metrics := NewMetrics(fake)

	tracker := NewTracker()
	tracker.Record("amazon.nova-lite-v1:0", bedrocklab.Usage{InputTokens: 1000, OutputTokens: 500, TotalTokens: 1500})

	require.NoError(t, metrics.PublishSession(context.Background(), "session-1", tracker.Report()))

	require.Equal(t, SessionNamespace, *fake.putInput.Namespace)
	require.Len(t, fake.putInput.MetricData, 3)

	names := make([]string, 0, 3)
	for _, datum := range fake.putInput.MetricData {
		names = append(names, *datum.MetricName)
		require.Len(t, datum.Dimensions, 2)
	}
	require.ElementsMatch(t, []string{"Calls", "TotalTokens", "EstimatedUSD"}, names)
}

func TestPublishSessionEmptyReport(t *testing.T) {
	t.Parallel()

	fake := &fakeCloudWatch{}
	metrics := NewMetrics(fake)

	require.NoError(t, metrics.PublishSession(context.Background(), "session-1", Report{}))
	require.Nil(t, fake.putInput, "no API call for an empty report")
}
