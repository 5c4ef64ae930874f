package processor

import (
	"context"
	"fmt"
	"io"
	"sync"

	"order-processing/internal/models"
)

// Kind names the fulfillment action a notice stands for.
type Kind string

const (
	KindPackingSlip          Kind = "packing_slip"
	KindRoyaltySlip          Kind = "royalty_slip"
	KindCommissionPayment    Kind = "commission_payment"
	KindMembershipActivation Kind = "membership_activation"
	KindActivationEmail      Kind = "activation_email"
	KindMembershipUpgrade    Kind = "membership_upgrade"
	KindUpgradeEmail         Kind = "upgrade_email"
	KindFreeVideo            Kind = "free_video"
)

// Notice is a single fulfillment message emitted for a product.
type Notice struct {
	OrderID     int                `json:"order_id"`
	ProductID   int                `json:"product_id"`
	ProductType models.ProductType `json:"product_type"`
	Kind        Kind               `json:"kind"`
	Text        string             `json:"text"`
}

// Sink receives notices in emission order.
type Sink interface {
	Emit(ctx context.Context, n Notice) error
}

// WriterSink writes each notice's text as one line.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Emit(_ context.Context, n Notice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := fmt.Fprintln(s.w, n.Text); err != nil {
		return fmt.Errorf("write notice: %w", err)
	}
	return nil
}

// MultiSink fans out notices to multiple sinks, stopping at the first error.
type MultiSink struct {
	sinks []Sink
}

func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) Emit(ctx context.Context, n Notice) error {
	for _, s := range m.sinks {
		if err := s.Emit(ctx, n); err != nil {
			return err
		}
	}
	return nil
}

// Recorder collects notices. It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Emit(_ context.Context, n Notice) error {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
	return nil
}

// Notices returns a copy of everything recorded so far.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Texts returns the recorded notice texts in order.
func (r *Recorder) Texts() []string {
	notices := r.Notices()
	out := make([]string, len(notices))
	for i, n := range notices {
		out[i] = n.Text
	}
	return out
}

type recorderKey struct{}

// WithRecorder attaches rec to ctx for CaptureSink.
func WithRecorder(ctx context.Context, rec *Recorder) context.Context {
	return context.WithValue(ctx, recorderKey{}, rec)
}

func recorderFrom(ctx context.Context) *Recorder {
	rec, _ := ctx.Value(recorderKey{}).(*Recorder)
	return rec
}

// CaptureSink appends notices to the Recorder carried by the context, if any.
type CaptureSink struct{}

func (CaptureSink) Emit(ctx context.Context, n Notice) error {
	if rec := recorderFrom(ctx); rec != nil {
		return rec.Emit(ctx, n)
	}
	return nil
}
