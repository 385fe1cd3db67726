package repository

import (
	"context"

	"github.com/utafrali/catalog-service/internal/domain"
)

// ProductFilter defines filter criteria for listing products.
type ProductFilter struct {
	CategoryID    *string
	ProductTypeID *string
	Active        *bool
	Search        *string
	Page          int
	PerPage       int
}

// CategoryRepository defines the interface for category persistence operations.
type CategoryRepository interface {
	// Create inserts a new category into the store.
	Create(ctx context.Context, category *domain.Category) error

	// GetByID retrieves a category by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Category, error)

	// GetBySlug retrieves a category by its URL-friendly slug.
	GetBySlug(ctx context.Context, slug string) (*domain.Category, error)

	// List returns categories, optionally restricted to active ones.
	List(ctx context.Context, activeOnly bool) ([]domain.Category, error)

	// Update modifies an existing category in the store.
	Update(ctx context.Context, category *domain.Category) error

	// Delete removes a category. It fails with ErrProtected while child
	// categories or products reference it.
	Delete(ctx context.Context, id string) error
}

// BrandRepository defines the interface for brand persistence operations.
type BrandRepository interface {
	Create(ctx context.Context, brand *domain.Brand) error
	GetByID(ctx context.Context, id string) (*domain.Brand, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Brand, error)
	List(ctx context.Context, activeOnly bool) ([]domain.Brand, error)
	Update(ctx context.Context, brand *domain.Brand) error
	Delete(ctx context.Context, id string) error
}

// ProductTypeRepository defines the interface for product type persistence,
// including the permitted-attribute set each type owns.
type ProductTypeRepository interface {
	Create(ctx context.Context, pt *domain.ProductType) error
	GetByID(ctx context.Context, id string) (*domain.ProductType, error)
	List(ctx context.Context) ([]domain.ProductType, error)
	Update(ctx context.Context, pt *domain.ProductType) error

	// Delete removes a product type. It fails with ErrProtected while child
	// types, products, or product lines reference it.
	Delete(ctx context.Context, id string) error

	// AddAttribute links an attribute into the type's permitted set.
	AddAttribute(ctx context.Context, link *domain.ProductTypeAttribute) error

	// RemoveAttribute unlinks an attribute from the type's permitted set.
	RemoveAttribute(ctx context.Context, typeID, attributeID string) error

	// ListAttributes returns the type's permitted attributes.
	ListAttributes(ctx context.Context, typeID string) ([]domain.Attribute, error)

	// AllowedAttributeNames returns the names of the type's permitted
	// attributes, used by attribute schema validation.
	AllowedAttributeNames(ctx context.Context, typeID string) ([]string, error)

	// ListEligibleValues returns only the attribute values whose attribute
	// is permitted for the type, for dropdown-style narrowing.
	ListEligibleValues(ctx context.Context, typeID string) ([]domain.AttributeValue, error)
}

// AttributeRepository defines the interface for attribute and attribute value
// persistence operations.
type AttributeRepository interface {
	Create(ctx context.Context, attr *domain.Attribute) error
	GetByID(ctx context.Context, id string) (*domain.Attribute, error)
	List(ctx context.Context) ([]domain.Attribute, error)
	Update(ctx context.Context, attr *domain.Attribute) error
	Delete(ctx context.Context, id string) error

	CreateValue(ctx context.Context, value *domain.AttributeValue) error
	GetValue(ctx context.Context, id string) (*domain.AttributeValue, error)
	ListValues(ctx context.Context, attributeID string) ([]domain.AttributeValue, error)
	UpdateValue(ctx context.Context, value *domain.AttributeValue) error
	DeleteValue(ctx context.Context, id string) error

	// AttributeNameForValue resolves the owning attribute's name for an
	// attribute value, used by attribute schema validation.
	AttributeNameForValue(ctx context.Context, valueID string) (string, error)
}

// ProductRepository defines the interface for product persistence operations.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Product, error)

	// List returns products matching the given filter along with the total count.
	List(ctx context.Context, filter ProductFilter) ([]domain.Product, int, error)

	Update(ctx context.Context, product *domain.Product) error

	// Delete removes a product. It fails with ErrProtected while product
	// lines reference it.
	Delete(ctx context.Context, id string) error
}

// ProductLineRepository defines the interface for product line persistence.
// Create and Update resolve the line's display order inside their transaction.
type ProductLineRepository interface {
	// Create inserts a new line. A nil explicitOrder assigns the next free
	// order within the product; an explicit one must be unused in the scope.
	// The resolved order is written back to line.DisplayOrder.
	Create(ctx context.Context, line *domain.ProductLine, explicitOrder *int) error

	GetByID(ctx context.Context, id string) (*domain.ProductLine, error)
	GetBySKU(ctx context.Context, sku string) (*domain.ProductLine, error)

	// ListByProduct returns the product's lines ordered by display order.
	ListByProduct(ctx context.Context, productID string) ([]domain.ProductLine, error)

	// Update modifies an existing line. A nil explicitOrder keeps the stored
	// display order; an explicit one is validated against the scope with the
	// line itself excluded.
	Update(ctx context.Context, line *domain.ProductLine, explicitOrder *int) error

	Delete(ctx context.Context, id string) error

	// AttachAttributeValue links an attribute value to the line. The
	// duplicate-attribute check for attributeName runs in the same
	// transaction as the insert.
	AttachAttributeValue(ctx context.Context, link *domain.LineAttributeValue, attributeName string) error

	// RebindAttributeValue replaces the link to oldValueID with link, in one
	// transaction. The old join row is excluded from the duplicate check so
	// swapping between values of the same attribute succeeds.
	RebindAttributeValue(ctx context.Context, lineID, oldValueID string, link *domain.LineAttributeValue, attributeName string) error

	// DetachAttributeValue removes the link between the line and the value.
	DetachAttributeValue(ctx context.Context, lineID, valueID string) error

	// ListAttributeValues returns the line's attribute value links with the
	// attribute name and value denormalized.
	ListAttributeValues(ctx context.Context, lineID string) ([]domain.LineAttributeValue, error)

	// LineHasAttribute reports whether the line already carries a value of
	// the named attribute, excluding the join row identified by excludeJoinID.
	LineHasAttribute(ctx context.Context, lineID, attributeName, excludeJoinID string) (bool, error)
}

// ProductImageRepository defines the interface for product image persistence.
// Create and Update resolve the image's display order inside their transaction.
type ProductImageRepository interface {
	Create(ctx context.Context, image *domain.ProductImage, explicitOrder *int) error
	GetByID(ctx context.Context, id string) (*domain.ProductImage, error)

	// ListByLine returns the line's images ordered by display order.
	ListByLine(ctx context.Context, lineID string) ([]domain.ProductImage, error)

	Update(ctx context.Context, image *domain.ProductImage, explicitOrder *int) error
	Delete(ctx context.Context, id string) error
}
