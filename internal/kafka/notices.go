package kafka

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"order-processing/internal/models"
	"order-processing/internal/processor"
	"order-processing/internal/telemetry"
)

// NoticeEvent is the wire form of a fulfillment notice.
type NoticeEvent struct {
	ID          string             `json:"id"`
	OrderID     int                `json:"order_id"`
	ProductID   int                `json:"product_id"`
	ProductType models.ProductType `json:"product_type"`
	Kind        processor.Kind     `json:"kind"`
	Text        string             `json:"text"`
	CreatedAt   time.Time          `json:"created_at"`
}

// NoticePublisher is a processor.Sink that publishes notices keyed by order id.
type NoticePublisher struct {
	producer *Producer
	metrics  *telemetry.Metrics
}

// NewNoticePublisher wraps producer; metrics may be nil.
func NewNoticePublisher(producer *Producer, metrics *telemetry.Metrics) *NoticePublisher {
	return &NoticePublisher{producer: producer, metrics: metrics}
}

func (p *NoticePublisher) Emit(ctx context.Context, n processor.Notice) error {
	event := NoticeEvent{
		ID:          uuid.NewString(),
		OrderID:     n.OrderID,
		ProductID:   n.ProductID,
		ProductType: n.ProductType,
		Kind:        n.Kind,
		Text:        n.Text,
		CreatedAt:   time.Now().UTC(),
	}
	if err := p.producer.Publish(ctx, strconv.Itoa(n.OrderID), event); err != nil {
		return err
	}
	if p.metrics != nil {
		p.metrics.MessagesPublished.Add(ctx, 1, metric.WithAttributes(
			attribute.String("topic", p.producer.Topic()),
			attribute.String("kind", string(n.Kind)),
		))
	}
	return nil
}
