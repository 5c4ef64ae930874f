package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"order-processing/internal/config"
	"order-processing/internal/kafka"
	"order-processing/internal/models"
	"order-processing/internal/order"
	"order-processing/internal/telemetry"
)

var (
	log     *zap.Logger
	tracer  trace.Tracer
	metrics *telemetry.Metrics
)

// producer publishes the example orders once and exits.
func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		meter    metric.Meter
		shutdown func(context.Context)
	)

	log, tracer, meter, shutdown, err = telemetry.Setup(ctx, telemetry.Options{
		ServiceName: "producer",
		Endpoint:    cfg.Telemetry.Endpoint,
	})
	if err != nil {
		panic("failed to initialize telemetry: " + err.Error())
	}
	defer shutdown(context.Background())

	metrics, err = telemetry.NewMetrics(meter)
	if err != nil {
		panic("failed to create metrics: " + err.Error())
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down producer...")
		cancel()
	}()

	kc := cfg.Kafka
	if err := kafka.CreateTopics(ctx, kc.Brokers[0], kc.Partitions, kc.Replication, kc.OrdersTopic); err != nil {
		log.Warn("failed to create topic (may already exist)", zap.Error(err))
	}

	producer := kafka.NewProducer(kc.Brokers, kc.OrdersTopic)
	defer producer.Close()

	log.Info("producer started", zap.Strings("brokers", kc.Brokers), zap.String("topic", kc.OrdersTopic))

	published := 0
	for _, o := range order.ExampleOrders() {
		if ctx.Err() != nil {
			break
		}
		if publishOrder(ctx, producer, o) {
			published++
		}
	}
	log.Info("example orders published", zap.Int("count", published))
}

func publishOrder(ctx context.Context, producer *kafka.Producer, o *models.Order) bool {
	ctx, span := tracer.Start(ctx, "publish-order",
		trace.WithAttributes(attribute.Int("order.id", o.ID)),
	)
	defer span.End()

	if err := producer.Publish(ctx, strconv.Itoa(o.ID), o); err != nil {
		span.RecordError(err)
		log.Error("failed to publish order", zap.Int("order_id", o.ID), zap.Error(err))
		return false
	}

	metrics.MessagesPublished.Add(ctx, 1,
		metric.WithAttributes(attribute.String("topic", producer.Topic())),
	)

	log.Info("order published",
		zap.Int("order_id", o.ID),
		zap.Int("products", len(o.Products)),
	)
	return true
}
