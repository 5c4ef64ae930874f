package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"order-processing/internal/config"
	"order-processing/internal/models"
	"order-processing/internal/telemetry"
)

var customers = []string{"CUST001", "CUST002", "CUST003", "CUST004", "CUST005"}
var agents = []string{"AGENT001", "AGENT002"}

var names = map[models.ProductType][]string{
	models.Physical:          {"Headphones", "Mouse", "Keyboard", "Monitor"},
	models.Book:              {"Clean Code", "Design Patterns", "The Go Programming Language"},
	models.Membership:        {"Premium Membership", "Basic Membership"},
	models.MembershipUpgrade: {"Premium Plus Upgrade"},
	models.Video:             {"Learning to Ski", "Cooking Basics", "Gardening 101"},
}

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log, _, _, shutdown, err := telemetry.Setup(ctx, telemetry.Options{
		ServiceName: "load-gen",
		Endpoint:    cfg.Telemetry.Endpoint,
	})
	if err != nil {
		panic("failed to initialize telemetry: " + err.Error())
	}
	defer shutdown(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Info("shutting down load-gen...")
		cancel()
	}()

	addr := cfg.LoadGen.TargetAddr
	client := &http.Client{Timeout: 5 * time.Second}

	log.Info("load-gen started",
		zap.String("target", addr),
		zap.Duration("interval", cfg.LoadGen.Interval),
	)

	ticker := time.NewTicker(cfg.LoadGen.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			placeOrder(ctx, client, addr, log)
		}
	}
}

func randomOrder() models.Order {
	o := models.Order{
		ID:         1000 + rand.IntN(9000),
		CustomerID: models.Some(customers[rand.IntN(len(customers))]),
	}
	if rand.IntN(2) == 0 {
		o.AgentID = models.Some(agents[rand.IntN(len(agents))])
	}

	types := models.ProductTypes()
	for range 1 + rand.IntN(3) {
		pt := types[rand.IntN(len(types))]
		candidates := names[pt]
		o.Products = append(o.Products, models.Product{
			ID:    1000 + rand.IntN(9000),
			Name:  candidates[rand.IntN(len(candidates))],
			Type:  pt,
			Price: decimal.New(int64(500+rand.IntN(19500)), -2),
		})
	}
	return o
}

func placeOrder(ctx context.Context, client *http.Client, addr string, log *zap.Logger) {
	o := randomOrder()

	body, err := json.Marshal(o)
	if err != nil {
		log.Error("failed to encode order", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, addr+"/orders", bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		log.Warn("request failed", zap.Error(err))
		return
	}
	defer resp.Body.Close()

	var result struct {
		Notices []json.RawMessage `json:"notices"`
	}
	status := "ok"
	if resp.StatusCode >= 500 {
		status = "error"
	} else if resp.StatusCode >= 400 {
		status = "rejected"
	} else if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		status = "bad_response"
	}

	log.Info("order sent",
		zap.Int("order_id", o.ID),
		zap.String("customer_id", o.CustomerID.String()),
		zap.String("total", o.Total().StringFixed(2)),
		zap.String("status", status),
		zap.Int("http_status", resp.StatusCode),
		zap.Int("notices", len(result.Notices)),
		zap.Strings("types", productTypes(o)),
	)
}

func productTypes(o models.Order) []string {
	out := make([]string, len(o.Products))
	for i, p := range o.Products {
		out[i] = p.Type.String()
	}
	return out
}
