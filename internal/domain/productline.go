package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductLine is a sellable variant of a product. Lines of the same product
// are ordered by DisplayOrder, which is unique within the product.
type ProductLine struct {
	ID                string           `json:"id"`
	ProductID         string           `json:"product_id"`
	ProductTypeID     string           `json:"product_type_id"`
	SKU               string           `json:"sku"`
	Slug              string           `json:"slug"`
	SecondName        string           `json:"second_name"`
	SecondDescription string           `json:"second_description"`
	Price             decimal.Decimal  `json:"price"`
	Weight            *decimal.Decimal `json:"weight,omitempty"`
	Quantity          int              `json:"quantity"`
	IsActive          bool             `json:"is_active"`
	DisplayOrder      int              `json:"display_order"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// Normalize rounds monetary and physical fields to their stored precision:
// price to 2 decimal places, weight to 3, both half up.
func (l *ProductLine) Normalize() {
	l.Price = l.Price.Round(2)
	if l.Weight != nil {
		w := l.Weight.Round(3)
		l.Weight = &w
	}
}

// LineAttributeValue links a product line to an attribute value. The pair
// (product_line_id, attribute_value_id) is unique, and service-level
// validation additionally keeps attribute names unique per line.
type LineAttributeValue struct {
	ID               string `json:"id"`
	ProductLineID    string `json:"product_line_id"`
	AttributeValueID string `json:"attribute_value_id"`

	// Denormalized for reads over the join.
	AttributeName string `json:"attribute_name,omitempty"`
	Value         string `json:"value,omitempty"`
}
