package order

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"order-processing/internal/models"
	"order-processing/internal/processor"
	"order-processing/internal/telemetry"
)

// Service routes every order through all registered processors.
type Service struct {
	processors []processor.Processor
	metrics    *telemetry.Metrics
	log        *zap.Logger
	tracer     trace.Tracer
}

// NewService copies processors; the registration order is fixed from here on.
// metrics may be nil.
func NewService(processors []processor.Processor, metrics *telemetry.Metrics, log *zap.Logger, tracer trace.Tracer) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("order")
	}
	ps := make([]processor.Processor, len(processors))
	copy(ps, processors)
	return &Service{processors: ps, metrics: metrics, log: log, tracer: tracer}
}

// ProcessOrder invokes every processor exactly once, in registration order,
// whatever the order contains. Only a nil order is rejected.
func (s *Service) ProcessOrder(ctx context.Context, order *models.Order) error {
	if order == nil {
		return &OrderError{Op: "ProcessOrder", Err: ErrInvalidOrder}
	}
	start := time.Now()

	ctx, span := s.tracer.Start(ctx, "ProcessOrder",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.Int("order.id", order.ID),
			attribute.String("order.customer_id", order.CustomerID.String()),
			attribute.Int("order.products_count", len(order.Products)),
		),
	)
	defer span.End()

	for _, p := range s.processors {
		pctx, pspan := s.tracer.Start(ctx, "Processor."+p.Name())
		p.Process(pctx, order)
		pspan.End()
	}
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.OrdersProcessed.Add(ctx, 1)
		for _, p := range order.Products {
			s.metrics.ProductsProcessed.Add(ctx, 1,
				metric.WithAttributes(attribute.String("product_type", p.Type.String())),
			)
		}
		s.metrics.ProcessingTime.Record(ctx, elapsed.Seconds())
		s.metrics.OrderValueCents.Record(ctx, order.Total().Shift(2).IntPart())
	}

	span.SetStatus(codes.Ok, "")
	s.log.Info("order processed",
		zap.Int("order_id", order.ID),
		zap.String("customer_id", order.CustomerID.String()),
		zap.Int("products", len(order.Products)),
		zap.Duration("duration", elapsed),
	)
	return nil
}

// Processors returns the registered processor names in order.
func (s *Service) Processors() []string {
	names := make([]string, len(s.processors))
	for i, p := range s.processors {
		names[i] = p.Name()
	}
	return names
}
