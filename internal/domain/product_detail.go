package domain

// ProductLineDetail is a product line enriched with its images and its
// attribute values flattened to an attribute-name keyed map.
type ProductLineDetail struct {
	ProductLine
	Attributes map[string]string `json:"attributes"`
	Images     []ProductImage    `json:"images"`
}

// ProductDetail is an enriched product response containing the category,
// product type, and lines alongside the base product fields.
type ProductDetail struct {
	Product
	Category    *Category           `json:"category,omitempty"`
	ProductType *ProductType        `json:"product_type,omitempty"`
	Lines       []ProductLineDetail `json:"lines"`
}
