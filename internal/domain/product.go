package domain

import (
	"time"
)

// Product represents a product in the catalog. Sellable variants live on
// ProductLine; the product itself carries the shared identity and taxonomy.
type Product struct {
	ID            string    `json:"id"`
	PID           string    `json:"pid"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	IsDigital     bool      `json:"is_digital"`
	IsActive      bool      `json:"is_active"`
	CategoryID    string    `json:"category_id"`
	ProductTypeID string    `json:"product_type_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
