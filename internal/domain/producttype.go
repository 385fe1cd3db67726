package domain

import (
	"time"
)

// ProductType classifies products and product lines and owns the set of
// attributes its lines are permitted to carry. Types may nest; a type cannot
// be deleted while child types, products, or lines reference it.
type ProductType struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	ParentID   *string     `json:"parent_id,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Attributes []Attribute `json:"attributes,omitempty"`
}

// ProductTypeAttribute links a product type to a permitted attribute.
// The pair (product_type_id, attribute_id) is unique.
type ProductTypeAttribute struct {
	ID            string `json:"id"`
	ProductTypeID string `json:"product_type_id"`
	AttributeID   string `json:"attribute_id"`
}
