package telemetry

import (
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	MessagesPublished metric.Int64Counter
	MessagesConsumed  metric.Int64Counter

	OrdersProcessed   metric.Int64Counter
	ProductsProcessed metric.Int64Counter
	ProcessingTime    metric.Float64Histogram
	OrderValueCents   metric.Int64Histogram
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	published, err := meter.Int64Counter("messages_published_total",
		metric.WithDescription("Total messages published to Kafka"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, err
	}

	consumed, err := meter.Int64Counter("messages_consumed_total",
		metric.WithDescription("Total messages consumed from Kafka"),
		metric.WithUnit("{message}"),
	)
	if err != nil {
		return nil, err
	}

	ordersProcessed, err := meter.Int64Counter("orders_processed_total",
		metric.WithDescription("Total orders dispatched through the processors"),
		metric.WithUnit("{order}"),
	)
	if err != nil {
		return nil, err
	}

	productsProcessed, err := meter.Int64Counter("products_processed_total",
		metric.WithDescription("Total products seen by dispatch, by product type"),
		metric.WithUnit("{product}"),
	)
	if err != nil {
		return nil, err
	}

	procTime, err := meter.Float64Histogram("order_processing_duration_seconds",
		metric.WithDescription("Duration of one dispatch across all processors"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.0005, 0.001, 0.005, 0.01, 0.05, 0.1),
	)
	if err != nil {
		return nil, err
	}

	orderValue, err := meter.Int64Histogram("order_value_cents",
		metric.WithDescription("Order value in cents"),
		metric.WithUnit("cents"),
		metric.WithExplicitBucketBoundaries(100, 500, 1000, 5000, 10000, 50000),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		MessagesPublished: published,
		MessagesConsumed:  consumed,
		OrdersProcessed:   ordersProcessed,
		ProductsProcessed: productsProcessed,
		ProcessingTime:    procTime,
		OrderValueCents:   orderValue,
	}, nil
}
