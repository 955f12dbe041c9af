package observability

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// PutMetricDataAPI is the part of the CloudWatch client used to publish metrics
type PutMetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchMetrics publishes query metrics to CloudWatch.
// Lambda has no scrape target, so this replaces /metrics there.
type CloudWatchMetrics struct {
	namespace string
	client    PutMetricDataAPI
	logger    *zap.Logger
}

// NewCloudWatchMetrics creates a CloudWatch publisher for namespace
func NewCloudWatchMetrics(namespace string, client PutMetricDataAPI, logger *zap.Logger) *CloudWatchMetrics {
	return &CloudWatchMetrics{
		namespace: namespace,
		client:    client,
		logger:    logger,
	}
}

// RecordQuery publishes QueryLatency and QueryCount for one handled query.
// Publish failures are logged and never reach the caller.
func (m *CloudWatchMetrics) RecordQuery(ctx context.Context, query string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	now := time.Now()
	dimensions := []types.Dimension{
		{Name: aws.String("Query"), Value: aws.String(query)},
		{Name: aws.String("Status"), Value: aws.String(status)},
	}

	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String("QueryLatency"),
				Value:      aws.Float64(float64(duration.Milliseconds())),
				Unit:       types.StandardUnitMilliseconds,
				Timestamp:  aws.Time(now),
				Dimensions: dimensions,
			},
			{
				MetricName: aws.String("QueryCount"),
				Value:      aws.Float64(1),
				Unit:       types.StandardUnitCount,
				Timestamp:  aws.Time(now),
				Dimensions: dimensions,
			},
		},
	}

	if _, putErr := m.client.PutMetricData(ctx, input); putErr != nil {
		m.logger.Warn("Failed to publish CloudWatch metrics",
			zap.String("query", query),
			zap.Error(putErr),
		)
	}
}
