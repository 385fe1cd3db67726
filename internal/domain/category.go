package domain

import (
	"time"
)

// Category represents a product category with optional hierarchical nesting.
// A category cannot be deleted while child categories or products reference it.
type Category struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Slug      string      `json:"slug"`
	IsActive  bool        `json:"is_active"`
	ParentID  *string     `json:"parent_id,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Children  []*Category `json:"children,omitempty"`
}
