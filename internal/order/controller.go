package order

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"order-processing/internal/models"
	"order-processing/internal/processor"
	"order-processing/internal/telemetry"
)

type Controller struct {
	service *Service
	metrics *telemetry.HTTPMetrics
	log     *zap.Logger
	tracer  trace.Tracer
}

func NewController(service *Service, metrics *telemetry.HTTPMetrics, log *zap.Logger, tracer trace.Tracer) *Controller {
	return &Controller{service: service, metrics: metrics, log: log, tracer: tracer}
}

// Routes registers the order endpoints on r.
func (ct *Controller) Routes(r fiber.Router) {
	r.Post("/orders", ct.Create)
	r.Post("/orders/examples", ct.ProcessExamples)
}

type orderResult struct {
	OrderID int                `json:"order_id"`
	Notices []processor.Notice `json:"notices"`
}

func (ct *Controller) Create(c *fiber.Ctx) error {
	ctx, span := ct.tracer.Start(c.UserContext(), "Controller.CreateOrder",
		trace.WithSpanKind(trace.SpanKindServer),
	)
	defer span.End()

	var order models.Order
	if err := c.BodyParser(&order); err != nil {
		ct.metrics.OrdersReceived.WithLabelValues("invalid").Inc()
		if errors.Is(err, models.ErrUnknownProductType) {
			span.SetStatus(codes.Error, "unknown product type")
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		span.SetStatus(codes.Error, "invalid body")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}

	if customerID, ok := order.CustomerID.Get(); ok && customerID != "" {
		if member, err := baggage.NewMember("customer_id", customerID); err == nil {
			if bag, err := baggage.New(member); err == nil {
				ctx = baggage.ContextWithBaggage(ctx, bag)
			}
		}
	}

	rec := processor.NewRecorder()
	if err := ct.service.ProcessOrder(processor.WithRecorder(ctx, rec), &order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ct.metrics.OrdersReceived.WithLabelValues("error").Inc()
		ct.log.Error("failed to process order", zap.Int("order_id", order.ID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
	}

	notices := rec.Notices()
	ct.metrics.OrdersReceived.WithLabelValues("ok").Inc()
	ct.metrics.NoticesReturned.Add(float64(len(notices)))
	span.SetStatus(codes.Ok, "")
	return c.Status(fiber.StatusOK).JSON(orderResult{OrderID: order.ID, Notices: notices})
}

func (ct *Controller) ProcessExamples(c *fiber.Ctx) error {
	ctx, span := ct.tracer.Start(c.UserContext(), "Controller.ProcessExamples",
		trace.WithSpanKind(trace.SpanKindServer),
	)
	defer span.End()

	var results []orderResult
	for _, order := range ExampleOrders() {
		rec := processor.NewRecorder()
		if err := ct.service.ProcessOrder(processor.WithRecorder(ctx, rec), order); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			ct.log.Error("failed to process example order", zap.Int("order_id", order.ID), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
		}
		notices := rec.Notices()
		ct.metrics.OrdersReceived.WithLabelValues("ok").Inc()
		ct.metrics.NoticesReturned.Add(float64(len(notices)))
		results = append(results, orderResult{OrderID: order.ID, Notices: notices})
	}

	span.SetStatus(codes.Ok, "")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"orders": results})
}
