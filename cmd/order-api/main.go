package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"go.uber.org/zap"

	"order-processing/internal/config"
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
		ServiceName: "order-api",
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
	httpMetrics := telemetry.NewHTTPMetrics()

	// notices go to stdout and back to the request that produced them
	sink := processor.NewMultiSink(processor.NewWriterSink(os.Stdout), processor.CaptureSink{})
	svc := order.NewService(processor.Defaults(sink, log), metrics, log, tracer)
	ctrl := order.NewController(svc, httpMetrics, log, tracer)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(otelfiber.Middleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", adaptor.HTTPHandler(httpMetrics.Handler()))
	ctrl.Routes(app)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down order-api...")
		_ = app.Shutdown()
		cancel()
	}()

	log.Info("order-api listening",
		zap.String("addr", cfg.HTTP.Addr),
		zap.Strings("processors", svc.Processors()),
	)
	if err := app.Listen(cfg.HTTP.Addr); err != nil {
		log.Error("server error", zap.Error(err))
	}
}
