package processor

import (
	"context"

	"go.uber.org/zap"

	"order-processing/internal/models"
)

// Processor reacts to the products of one type in an order. Products of
// other types are ignored.
type Processor interface {
	Name() string
	Process(ctx context.Context, order *models.Order)
}

// Defaults returns one processor per product type, in registration order.
func Defaults(sink Sink, log *zap.Logger) []Processor {
	return []Processor{
		NewPhysicalProduct(sink, log),
		NewBook(sink, log),
		NewMembership(sink, log),
		NewMembershipUpgrade(sink, log),
		NewVideo(sink, log),
	}
}

// emitter is shared by the type-specific processors.
type emitter struct {
	productType models.ProductType
	sink        Sink
	log         *zap.Logger
}

func newEmitter(pt models.ProductType, sink Sink, log *zap.Logger) emitter {
	if log == nil {
		log = zap.NewNop()
	}
	return emitter{productType: pt, sink: sink, log: log}
}

// matching returns the order's products of the emitter's type, in order.
func (e emitter) matching(order *models.Order) []models.Product {
	var out []models.Product
	for _, p := range order.Products {
		if p.Type == e.productType {
			out = append(out, p)
		}
	}
	return out
}

// emit never fails the caller; sink errors are logged and dropped.
func (e emitter) emit(ctx context.Context, order *models.Order, p models.Product, kind Kind, text string) {
	n := Notice{
		OrderID:     order.ID,
		ProductID:   p.ID,
		ProductType: p.Type,
		Kind:        kind,
		Text:        text,
	}
	if err := e.sink.Emit(ctx, n); err != nil {
		e.log.Error("failed to emit notice",
			zap.Int("order_id", order.ID),
			zap.Int("product_id", p.ID),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}
}
