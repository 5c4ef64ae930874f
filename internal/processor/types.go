package processor

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"order-processing/internal/models"
)

// FreeVideoTitle is the one video that ships with the "First Aid" video.
const FreeVideoTitle = "Learning to Ski"

type PhysicalProduct struct{ emitter }

func NewPhysicalProduct(sink Sink, log *zap.Logger) *PhysicalProduct {
	return &PhysicalProduct{newEmitter(models.Physical, sink, log)}
}

func (p *PhysicalProduct) Name() string { return "PhysicalProduct" }

func (p *PhysicalProduct) Process(ctx context.Context, order *models.Order) {
	for _, prod := range p.matching(order) {
		p.emit(ctx, order, prod, KindPackingSlip,
			fmt.Sprintf("Generating packing slip for physical product: %s", prod.Name))
		p.emit(ctx, order, prod, KindCommissionPayment,
			fmt.Sprintf("Generating commission payment for physical product: %s", prod.Name))
	}
}

// Book also sends a duplicate packing slip to the royalty department.
type Book struct{ emitter }

func NewBook(sink Sink, log *zap.Logger) *Book {
	return &Book{newEmitter(models.Book, sink, log)}
}

func (b *Book) Name() string { return "Book" }

func (b *Book) Process(ctx context.Context, order *models.Order) {
	for _, prod := range b.matching(order) {
		b.emit(ctx, order, prod, KindPackingSlip,
			fmt.Sprintf("Generating packing slip for book: %s", prod.Name))
		b.emit(ctx, order, prod, KindRoyaltySlip,
			fmt.Sprintf("Generating duplicate packing slip for royalty department: %s", prod.Name))
		b.emit(ctx, order, prod, KindCommissionPayment,
			fmt.Sprintf("Generating commission payment for book: %s", prod.Name))
	}
}

type Membership struct{ emitter }

func NewMembership(sink Sink, log *zap.Logger) *Membership {
	return &Membership{newEmitter(models.Membership, sink, log)}
}

func (m *Membership) Name() string { return "Membership" }

func (m *Membership) Process(ctx context.Context, order *models.Order) {
	customer := order.CustomerID.String()
	for _, prod := range m.matching(order) {
		m.emit(ctx, order, prod, KindMembershipActivation,
			fmt.Sprintf("Activating membership: %s for customer: %s", prod.Name, customer))
		m.emit(ctx, order, prod, KindActivationEmail,
			fmt.Sprintf("Sending membership activation email to customer: %s", customer))
	}
}

type MembershipUpgrade struct{ emitter }

func NewMembershipUpgrade(sink Sink, log *zap.Logger) *MembershipUpgrade {
	return &MembershipUpgrade{newEmitter(models.MembershipUpgrade, sink, log)}
}

func (m *MembershipUpgrade) Name() string { return "MembershipUpgrade" }

func (m *MembershipUpgrade) Process(ctx context.Context, order *models.Order) {
	customer := order.CustomerID.String()
	for _, prod := range m.matching(order) {
		m.emit(ctx, order, prod, KindMembershipUpgrade,
			fmt.Sprintf("Applying membership upgrade: %s for customer: %s", prod.Name, customer))
		m.emit(ctx, order, prod, KindUpgradeEmail,
			fmt.Sprintf("Sending membership upgrade email to customer: %s", customer))
	}
}

type Video struct{ emitter }

func NewVideo(sink Sink, log *zap.Logger) *Video {
	return &Video{newEmitter(models.Video, sink, log)}
}

func (v *Video) Name() string { return "Video" }

func (v *Video) Process(ctx context.Context, order *models.Order) {
	for _, prod := range v.matching(order) {
		v.emit(ctx, order, prod, KindPackingSlip,
			fmt.Sprintf("Generating packing slip for video: %s", prod.Name))
		// Exact title match: court decision in 1997.
		if prod.Name == FreeVideoTitle {
			v.emit(ctx, order, prod, KindFreeVideo,
				`Adding free "First Aid" video to packing slip due to court decision in 1997`)
		}
	}
}
