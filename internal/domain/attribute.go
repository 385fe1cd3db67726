package domain

import (
	"time"
)

// Attribute is a named characteristic (e.g. "Color") whose concrete values
// attach to product lines.
type Attribute struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AttributeValue is a concrete value of an attribute (e.g. "Red" for "Color").
// The value is unique within its attribute.
type AttributeValue struct {
	ID          string    `json:"id"`
	AttributeID string    `json:"attribute_id"`
	Value       string    `json:"value"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
