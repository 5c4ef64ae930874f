package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"order-processing/internal/config"
	"order-processing/internal/order"
	"order-processing/internal/processor"
	"order-processing/internal/shell"
	"order-processing/internal/telemetry"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// stdout carries the notices, so logs go to stderr and only when they matter
	log, tracer, meter, shutdown, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName:  "order-shell",
		Endpoint:     cfg.Telemetry.Endpoint,
		Console:      os.Stderr,
		ConsoleLevel: zapcore.WarnLevel,
	})
	if err != nil {
		panic("failed to initialize telemetry: " + err.Error())
	}
	defer shutdown(context.Background())

	metrics, err := telemetry.NewMetrics(meter)
	if err != nil {
		panic("failed to create metrics: " + err.Error())
	}

	sink := processor.NewWriterSink(os.Stdout)
	svc := order.NewService(processor.Defaults(sink, log), metrics, log, tracer)

	if err := shell.New(os.Stdin, os.Stdout, svc).Run(ctx); err != nil {
		log.Error("shell stopped", zap.Error(err))
	}
}
