package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrUnknownProductType = errors.New("unknown product type")

// ProductType is the closed set of product categories. The ordinal order
// matches the shell's product menu (1..5 map to 0..4).
type ProductType int

const (
	Physical ProductType = iota
	Book
	Membership
	MembershipUpgrade
	Video
)

var productTypeNames = [...]string{
	Physical:          "physical",
	Book:              "book",
	Membership:        "membership",
	MembershipUpgrade: "membership_upgrade",
	Video:             "video",
}

// ProductTypes returns every product type in ordinal order.
func ProductTypes() []ProductType {
	return []ProductType{Physical, Book, Membership, MembershipUpgrade, Video}
}

func (t ProductType) Valid() bool {
	return t >= Physical && t <= Video
}

func (t ProductType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("ProductType(%d)", int(t))
	}
	return productTypeNames[t]
}

// ParseProductType accepts the text form of a type, case-insensitively.
// "membership-upgrade" is accepted as an alias.
func ParseProductType(s string) (ProductType, error) {
	norm := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i, name := range productTypeNames {
		if name == norm {
			return ProductType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProductType, s)
}

func (t ProductType) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownProductType, int(t))
	}
	return []byte(productTypeNames[t]), nil
}

func (t *ProductType) UnmarshalText(b []byte) error {
	pt, err := ParseProductType(string(b))
	if err != nil {
		return err
	}
	*t = pt
	return nil
}

type Product struct {
	ID    int             `json:"id"`
	Name  string          `json:"name"`
	Type  ProductType     `json:"type"`
	Price decimal.Decimal `json:"price"`
}

// UnmarshalJSON rejects a product whose type is missing or null, so it never
// decodes as Physical.
func (p *Product) UnmarshalJSON(b []byte) error {
	type plain Product
	var aux struct {
		plain
		Type *ProductType `json:"type"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	if aux.Type == nil {
		return fmt.Errorf("%w: product %d has no type", ErrUnknownProductType, aux.ID)
	}
	*p = Product(aux.plain)
	p.Type = *aux.Type
	return nil
}
