package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"order-processing/internal/config"
	"order-processing/internal/kafka"
	"order-processing/internal/order"
	"order-processing/internal/processor"
	"order-processing/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log, tracer, meter, shutdown, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: "consumer",
		Endpoint:    cfg.Telemetry.Endpoint,
	})
	if err != nil {
		panic("failed to initialize telemetry: " + err.Error())
	}
	defer shutdown(context.Background())

	metrics, err := telemetry.NewMetrics(meter)
	if err != nil {
		panic("failed to create metrics: " + err.Error())
	}

	kc := cfg.Kafka
	if err := kafka.CreateTopics(ctx, kc.Brokers[0], kc.Partitions, kc.Replication, kc.OrdersTopic, kc.NoticesTopic); err != nil {
		log.Warn("failed to create topics (may already exist)", zap.Error(err))
	}

	noticeProducer := kafka.NewProducer(kc.Brokers, kc.NoticesTopic)
	defer noticeProducer.Close()

	sink := processor.NewMultiSink(
		processor.NewWriterSink(os.Stdout),
		kafka.NewNoticePublisher(noticeProducer, metrics),
	)
	svc := order.NewService(processor.Defaults(sink, log), metrics, log, tracer)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down consumer...")
		cancel()
	}()

	orderConsumer := kafka.NewConsumer(kc.Brokers, kc.OrdersTopic, kc.GroupID, log)
	defer orderConsumer.Close()

	log.Info("consumer started",
		zap.String("orders_topic", kc.OrdersTopic),
		zap.String("notices_topic", kc.NoticesTopic),
		zap.String("group_id", kc.GroupID),
	)

	consumed := metric.WithAttributes(attribute.String("topic", kc.OrdersTopic))
	handle := func(ctx context.Context, key, value []byte) error {
		metrics.MessagesConsumed.Add(ctx, 1, consumed)
		return svc.HandleMessage(ctx, key, value)
	}

	if err := orderConsumer.Listen(ctx, handle); err != nil {
		log.Error("order consumer error", zap.Error(err))
	}
}
