package order

import (
	"github.com/shopspring/decimal"

	"order-processing/internal/models"
)

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ExampleOrders returns the canned demo orders, one per product type plus a
// mixed order.
func ExampleOrders() []*models.Order {
	return []*models.Order{
		{
			ID:         1,
			CustomerID: models.Some("CUST001"),
			AgentID:    models.Some("AGENT001"),
			Products: []models.Product{
				{ID: 1, Name: "Headphones", Type: models.Physical, Price: price("99.99")},
			},
		},
		{
			ID:         2,
			CustomerID: models.Some("CUST002"),
			AgentID:    models.Some("AGENT001"),
			Products: []models.Product{
				{ID: 2, Name: "Clean Code", Type: models.Book, Price: price("49.99")},
			},
		},
		{
			ID:         3,
			CustomerID: models.Some("CUST003"),
			Products: []models.Product{
				{ID: 3, Name: "Premium Membership", Type: models.Membership, Price: price("199.99")},
			},
		},
		{
			ID:         4,
			CustomerID: models.Some("CUST003"),
			Products: []models.Product{
				{ID: 4, Name: "Premium Plus Upgrade", Type: models.MembershipUpgrade, Price: price("99.99")},
			},
		},
		{
			ID:         5,
			CustomerID: models.Some("CUST004"),
			AgentID:    models.Some("AGENT002"),
			Products: []models.Product{
				{ID: 5, Name: "Learning to Ski", Type: models.Video, Price: price("29.99")},
			},
		},
		{
			ID:         6,
			CustomerID: models.Some("CUST005"),
			AgentID:    models.Some("AGENT002"),
			Products: []models.Product{
				{ID: 6, Name: "Cooking Basics", Type: models.Video, Price: price("19.99")},
			},
		},
		{
			ID:         7,
			CustomerID: models.Some("CUST006"),
			AgentID:    models.Some("AGENT003"),
			Products: []models.Product{
				{ID: 7, Name: "Mouse", Type: models.Physical, Price: price("29.99")},
				{ID: 8, Name: "Design Patterns", Type: models.Book, Price: price("54.99")},
				{ID: 9, Name: "Learning to Ski", Type: models.Video, Price: price("29.99")},
			},
		},
	}
}
