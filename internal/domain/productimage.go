package domain

import (
	"time"
)

// ProductImage is an image of a product line. Images of the same line are
// ordered by DisplayOrder, which is unique within the line.
type ProductImage struct {
	ID            string    `json:"id"`
	ProductLineID string    `json:"product_line_id"`
	URL           string    `json:"url"`
	AltText       string    `json:"alt_text"`
	DisplayOrder  int       `json:"display_order"`
	CreatedAt     time.Time `json:"created_at"`
}
