package models

import "github.com/shopspring/decimal"

type Order struct {
	ID         int        `json:"id"`
	CustomerID OptionalID `json:"customer_id,omitzero"`
	AgentID    OptionalID `json:"agent_id,omitzero"`
	Products   []Product  `json:"products"`
}

// Total is the sum of the order's product prices.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range o.Products {
		total = total.Add(p.Price)
	}
	return total
}
