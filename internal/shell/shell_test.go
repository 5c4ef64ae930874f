package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"order-processing/internal/models"
	"order-processing/internal/order"
	"order-processing/internal/processor"
)

func newTestShell(input string, opts ...Option) (*Shell, *bytes.Buffer) {
	var out bytes.Buffer
	svc := order.NewService(processor.Defaults(processor.NewWriterSink(&out), nil), nil, nil, nil)
	return New(strings.NewReader(input), &out, svc, opts...), &out
}

func sequence(start int) func() int {
	next := start
	return func() int {
		next++
		return next - 1
	}
}

func TestShell_Exit(t *testing.T) {
	sh, out := newTestShell("3\n")
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Count(out.String(), "Select an option (1-3): ") != 1 {
		t.Fatalf("menu should be shown once:\n%s", out)
	}
}

func TestShell_EndOfInput(t *testing.T) {
	sh, _ := newTestShell("")
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run should treat end of input as exit, got %v", err)
	}
}

func TestShell_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sh, out := newTestShell("1\n")
	if err := sh.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("nothing should be printed after cancel, got %q", out)
	}
}

func TestShell_CancelWhileWaitingForInput(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	var out bytes.Buffer
	d := &failingDispatcher{}
	sh := New(pr, &out, d)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sh.Run(ctx) }()

	// the write returns once the scanner has read the line; no more input follows
	if _, err := io.WriteString(pw, "2\n"); err != nil {
		t.Fatalf("write: %v", err)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run still waiting for input after cancel")
	}
}

func TestShell_CancelAtPrompt(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()

	var out bytes.Buffer
	d := &failingDispatcher{}
	sh := New(pr, &out, d)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- sh.Run(ctx) }()

	time.AfterFunc(50*time.Millisecond, cancel)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run still waiting for input after cancel")
	}
	if len(d.orders) != 0 {
		t.Fatalf("nothing should be dispatched, got %d orders", len(d.orders))
	}
}

func TestShell_InvalidOption(t *testing.T) {
	sh, out := newTestShell("7\n\nabc\n3\n")
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := out.String()
	if strings.Count(got, "Invalid option. Press Enter to continue...\n") != 1 {
		t.Fatalf("want one invalid option message:\n%s", got)
	}
	// non-numeric input re-shows the menu silently
	if strings.Count(got, "Select an option (1-3): ") != 3 {
		t.Fatalf("want menu three times:\n%s", got)
	}
}

func TestShell_ExampleOrders(t *testing.T) {
	sh, out := newTestShell("2\n\n3\n")
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := out.String()

	if !strings.Contains(got, "Processing Example Orders...") {
		t.Fatalf("missing header:\n%s", got)
	}
	if n := strings.Count(got, strings.Repeat("-", 50)+"\n"); n != len(order.ExampleOrders()) {
		t.Fatalf("want %d separators, got %d", len(order.ExampleOrders()), n)
	}
	for _, want := range []string{
		"Generating packing slip for physical product: Headphones",
		"Generating duplicate packing slip for royalty department: Clean Code",
		"Activating membership: Premium Membership for customer: CUST003",
		`Adding free "First Aid" video to packing slip due to court decision in 1997`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Count(got, `"First Aid"`) != 2 {
		t.Errorf("First Aid should be added for order 5 and the mixed order only")
	}
}

func TestShell_NewOrder(t *testing.T) {
	// new order for CUST9 with no agent: one book after two bad prices and an
	// out of range product type
	input := strings.Join([]string{
		"1", "CUST9", "",
		"2", "Go in Action", "abc", "-1", "39.95",
		"9", "0", "",
		"3",
	}, "\n") + "\n"

	sh, out := newTestShell(input, WithIDSource(sequence(1000)))
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := out.String()

	if strings.Count(got, "Invalid price, try again.") != 2 {
		t.Fatalf("want two price retries:\n%s", got)
	}
	for _, want := range []string{
		"New Order Entry\n==============\n",
		"Product added successfully!",
		"Processing Order...",
		"Generating packing slip for book: Go in Action",
		"Generating commission payment for book: Go in Action",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Count(got, "Select product type (0-5): ") != 3 {
		t.Errorf("product menu should be shown three times:\n%s", got)
	}
}

func TestShell_NewOrderWithoutProducts(t *testing.T) {
	sh, out := newTestShell("1\n\n\n0\n\n3\n")
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, "No products added to the order.") {
		t.Fatalf("missing empty order message:\n%s", got)
	}
	if strings.Contains(got, "Processing Order...") {
		t.Fatalf("empty order must not be dispatched")
	}
}

type failingDispatcher struct{ orders []*models.Order }

func (f *failingDispatcher) ProcessOrder(_ context.Context, o *models.Order) error {
	f.orders = append(f.orders, o)
	return errors.New("dispatch down")
}

func TestShell_DispatchError(t *testing.T) {
	var out bytes.Buffer
	d := &failingDispatcher{}
	input := "1\nC1\nA1\n5\nLearning to Ski\n10\n0\n\n3\n"
	sh := New(strings.NewReader(input), &out, d, WithIDSource(sequence(2000)))
	if err := sh.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Error: dispatch down") {
		t.Fatalf("dispatch error not shown:\n%s", out.String())
	}
	if len(d.orders) != 1 {
		t.Fatalf("want one dispatched order, got %d", len(d.orders))
	}

	o := d.orders[0]
	if o.ID != 2000 || o.CustomerID.String() != "C1" || o.AgentID.String() != "A1" {
		t.Fatalf("unexpected order header: %+v", o)
	}
	if len(o.Products) != 1 {
		t.Fatalf("want one product, got %+v", o.Products)
	}
	p := o.Products[0]
	if p.ID != 2001 || p.Type != models.Video || p.Name != "Learning to Ski" || p.Price.String() != "10" {
		t.Fatalf("unexpected product: %+v", p)
	}
}
