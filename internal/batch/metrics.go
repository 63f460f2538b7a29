package batch

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"shipnotify/internal/types"
)

// MetricResult labels the outcome dimension on delivery metrics.
type MetricResult string

const (
	ResultSent      MetricResult = "sent"
	ResultFailed    MetricResult = "failed"
	ResultEscalated MetricResult = "escalated"
)

// Metrics records batch delivery outcomes. A no-op implementation backs
// local runs; CloudWatch backs deployed ones.
type Metrics interface {
	RecordDelivery(ctx context.Context, channel types.MailerKind, result MetricResult)
	RecordEscalation(ctx context.Context)
}

// NopMetrics discards all measurements.
type NopMetrics struct{}

func (NopMetrics) RecordDelivery(context.Context, types.MailerKind, MetricResult) {}
func (NopMetrics) RecordEscalation(context.Context)                               {}

// metricNamespace is the CloudWatch namespace for all batch metrics.
const metricNamespace = "ShipNotify"

// CloudWatchAPI abstracts the CloudWatch PutMetricData operation for
// testability.
type CloudWatchAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchMetrics implements Metrics by emitting CloudWatch metrics.
// Metric failures are logged and swallowed; telemetry must never break
// the batch.
type CloudWatchMetrics struct {
	client CloudWatchAPI
	logger types.Logger
}

// NewCloudWatchMetrics creates a CloudWatchMetrics publisher.
func NewCloudWatchMetrics(client CloudWatchAPI, logger types.Logger) *CloudWatchMetrics {
	return &CloudWatchMetrics{client: client, logger: logger}
}

// RecordDelivery emits a DeliveryAttempt metric with Channel and Result
// dimensions.
func (m *CloudWatchMetrics) RecordDelivery(ctx context.Context, channel types.MailerKind, result MetricResult) {
	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(metricNamespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String("DeliveryAttempt"),
				Value:      aws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{
					{Name: aws.String("Channel"), Value: aws.String(string(channel))},
					{Name: aws.String("Result"), Value: aws.String(string(result))},
				},
			},
		},
	}
	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		m.logger.Error("failed to record delivery metric",
			"error", err.Error(),
			"channel", string(channel),
			"result", string(result),
		)
	}
}

// RecordEscalation counts an internal escalation pair.
func (m *CloudWatchMetrics) RecordEscalation(ctx context.Context) {
	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(metricNamespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String("InternalEscalation"),
				Value:      aws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
			},
		},
	}
	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		m.logger.Error("failed to record escalation metric", "error", err.Error())
	}
}

// Compile-time assertions.
var (
	_ Metrics = (*CloudWatchMetrics)(nil)
	_ Metrics = NopMetrics{}
)
