package order

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"order-processing/internal/models"
	"order-processing/internal/processor"
	"order-processing/internal/telemetry"
)

// spyProcessor records every order it is handed.
type spyProcessor struct {
	name  string
	log   *[]string
	calls []*models.Order
}

func (s *spyProcessor) Name() string { return s.name }

func (s *spyProcessor) Process(_ context.Context, order *models.Order) {
	s.calls = append(s.calls, order)
	*s.log = append(*s.log, s.name)
}

func newSpies() ([]*spyProcessor, []processor.Processor, *[]string) {
	var callLog []string
	names := []string{"PhysicalProduct", "Book", "Membership", "MembershipUpgrade", "Video"}
	spies := make([]*spyProcessor, len(names))
	procs := make([]processor.Processor, len(names))
	for i, n := range names {
		spies[i] = &spyProcessor{name: n, log: &callLog}
		procs[i] = spies[i]
	}
	return spies, procs, &callLog
}

func TestProcessOrder_InvokesEveryProcessorOnce(t *testing.T) {
	tests := []struct {
		name  string
		order *models.Order
	}{
		{"physical", &models.Order{ID: 1, CustomerID: models.Some("CUST001"), Products: []models.Product{
			{ID: 1, Name: "Headphones", Type: models.Physical, Price: decimal.RequireFromString("99.99")},
		}}},
		{"book", &models.Order{ID: 2, CustomerID: models.Some("CUST002"), Products: []models.Product{
			{ID: 2, Name: "Clean Code", Type: models.Book, Price: decimal.RequireFromString("49.99")},
		}}},
		{"membership", &models.Order{ID: 3, CustomerID: models.Some("CUST003"), Products: []models.Product{
			{ID: 3, Name: "Premium Membership", Type: models.Membership, Price: decimal.RequireFromString("199.99")},
		}}},
		{"membership upgrade", &models.Order{ID: 4, CustomerID: models.Some("CUST003"), Products: []models.Product{
			{ID: 4, Name: "Premium Plus Upgrade", Type: models.MembershipUpgrade, Price: decimal.RequireFromString("99.99")},
		}}},
		{"video", &models.Order{ID: 5, CustomerID: models.Some("CUST004"), Products: []models.Product{
			{ID: 5, Name: "Learning to Ski", Type: models.Video, Price: decimal.RequireFromString("29.99")},
		}}},
		{"multiple products", ExampleOrders()[6]},
		{"empty order", &models.Order{ID: 8, CustomerID: models.Some("CUST007"), Products: []models.Product{}}},
		{"nil products", &models.Order{ID: 8}},
		{"no customer id", &models.Order{ID: 9, Products: []models.Product{
			{ID: 10, Name: "Mouse", Type: models.Physical, Price: decimal.RequireFromString("29.99")},
		}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spies, procs, callLog := newSpies()
			svc := NewService(procs, nil, nil, nil)

			if err := svc.ProcessOrder(context.Background(), tt.order); err != nil {
				t.Fatalf("ProcessOrder: %v", err)
			}
			for _, s := range spies {
				if len(s.calls) != 1 {
					t.Fatalf("%s called %d times, want 1", s.name, len(s.calls))
				}
				if s.calls[0] != tt.order {
					t.Fatalf("%s received a different order pointer", s.name)
				}
			}
			want := []string{"PhysicalProduct", "Book", "Membership", "MembershipUpgrade", "Video"}
			if !reflect.DeepEqual(*callLog, want) {
				t.Fatalf("call order = %v, want %v", *callLog, want)
			}
		})
	}
}

func TestProcessOrder_NilOrder(t *testing.T) {
	spies, procs, _ := newSpies()
	svc := NewService(procs, nil, nil, nil)

	err := svc.ProcessOrder(context.Background(), nil)
	if !IsInvalidOrder(err) {
		t.Fatalf("want ErrInvalidOrder, got %v", err)
	}
	var oe *OrderError
	if !errors.As(err, &oe) || oe.Op != "ProcessOrder" {
		t.Fatalf("want *OrderError with Op ProcessOrder, got %#v", err)
	}
	if err.Error() != "order.ProcessOrder: invalid order" {
		t.Fatalf("Error() = %q", err.Error())
	}
	for _, s := range spies {
		if len(s.calls) != 0 {
			t.Fatalf("%s should not run for a nil order", s.name)
		}
	}
}

func TestOrderError_WithOrderID(t *testing.T) {
	err := &OrderError{Op: "Consume", OrderID: 42, Err: ErrInvalidOrder}
	if got, want := err.Error(), "order.Consume [42]: invalid order"; got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}

func TestNewService_CopiesProcessors(t *testing.T) {
	_, procs, callLog := newSpies()
	svc := NewService(procs, nil, nil, nil)
	procs[0] = procs[4]

	if err := svc.ProcessOrder(context.Background(), &models.Order{ID: 1}); err != nil {
		t.Fatalf("ProcessOrder: %v", err)
	}
	if (*callLog)[0] != "PhysicalProduct" {
		t.Fatalf("mutating the caller's slice changed registration: %v", *callLog)
	}
	if got := svc.Processors(); got[0] != "PhysicalProduct" || len(got) != 5 {
		t.Fatalf("Processors() = %v", got)
	}
}

func TestProcessOrder_ExampleOrdersEndToEnd(t *testing.T) {
	rec := processor.NewRecorder()
	svc := NewService(processor.Defaults(rec, nil), nil, nil, nil)

	for _, o := range ExampleOrders() {
		if err := svc.ProcessOrder(context.Background(), o); err != nil {
			t.Fatalf("ProcessOrder(%d): %v", o.ID, err)
		}
	}

	want := []string{
		"Generating packing slip for physical product: Headphones",
		"Generating commission payment for physical product: Headphones",
		"Generating packing slip for book: Clean Code",
		"Generating duplicate packing slip for royalty department: Clean Code",
		"Generating commission payment for book: Clean Code",
		"Activating membership: Premium Membership for customer: CUST003",
		"Sending membership activation email to customer: CUST003",
		"Applying membership upgrade: Premium Plus Upgrade for customer: CUST003",
		"Sending membership upgrade email to customer: CUST003",
		"Generating packing slip for video: Learning to Ski",
		`Adding free "First Aid" video to packing slip due to court decision in 1997`,
		"Generating packing slip for video: Cooking Basics",
		// order 7: processors run in registration order
		"Generating packing slip for physical product: Mouse",
		"Generating commission payment for physical product: Mouse",
		"Generating packing slip for book: Design Patterns",
		"Generating duplicate packing slip for royalty department: Design Patterns",
		"Generating commission payment for book: Design Patterns",
		"Generating packing slip for video: Learning to Ski",
		`Adding free "First Aid" video to packing slip due to court decision in 1997`,
	}
	if got := rec.Texts(); !reflect.DeepEqual(got, want) {
		t.Fatalf("notices mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestProcessOrder_Telemetry(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	metrics, err := telemetry.NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	core, logs := observer.New(zapcore.InfoLevel)

	svc := NewService(processor.Defaults(processor.NewRecorder(), nil), metrics, zap.New(core), tp.Tracer("test"))
	if err := svc.ProcessOrder(context.Background(), ExampleOrders()[6]); err != nil {
		t.Fatalf("ProcessOrder: %v", err)
	}

	var root sdktrace.ReadOnlySpan
	children := 0
	for _, s := range sr.Ended() {
		if s.Name() == "ProcessOrder" {
			root = s
		}
	}
	if root == nil {
		t.Fatalf("ProcessOrder span not recorded")
	}
	for _, s := range sr.Ended() {
		if s.Parent().SpanID() == root.SpanContext().SpanID() {
			children++
		}
	}
	if children != 5 {
		t.Fatalf("want 5 processor spans, got %d", children)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	got := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			switch data := md.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					got[md.Name] += dp.Value
				}
			case metricdata.Histogram[int64]:
				for _, dp := range data.DataPoints {
					got[md.Name] += dp.Sum
				}
			}
		}
	}
	if got["orders_processed_total"] != 1 || got["products_processed_total"] != 3 {
		t.Fatalf("unexpected counters: %v", got)
	}
	if got["order_value_cents"] != 11497 {
		t.Fatalf("order_value_cents sum = %d, want 11497", got["order_value_cents"])
	}

	entries := logs.FilterMessage("order processed").All()
	if len(entries) != 1 || entries[0].ContextMap()["order_id"] != int64(7) {
		t.Fatalf("unexpected log entries: %+v", entries)
	}
}
