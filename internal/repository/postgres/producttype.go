package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/catalog-service/internal/domain"
	"github.com/utafrali/catalog-service/pkg/database"
	apperrors "github.com/utafrali/catalog-service/pkg/errors"
)

const productTypeColumns = `id, name, parent_id, created_at, updated_at`

// ProductTypeRepository implements product type persistence operations using
// PostgreSQL, including the permitted-attribute set each type owns.
type ProductTypeRepository struct {
	pool database.DBTX
}

// NewProductTypeRepository creates a new PostgreSQL-backed product type repository.
func NewProductTypeRepository(pool database.DBTX) *ProductTypeRepository {
	return &ProductTypeRepository{pool: pool}
}

// Create inserts a new product type into the database.
func (r *ProductTypeRepository) Create(ctx context.Context, pt *domain.ProductType) error {
	query := `
		INSERT INTO product_types (id, name, parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query, pt.ID, pt.Name, pt.ParentID, pt.CreatedAt, pt.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product type", "name", pt.Name)
		}
		return fmt.Errorf("insert product type: %w", err)
	}

	return nil
}

// GetByID retrieves a product type by its unique identifier.
func (r *ProductTypeRepository) GetByID(ctx context.Context, id string) (*domain.ProductType, error) {
	query := fmt.Sprintf(`SELECT %s FROM product_types WHERE id = $1`, productTypeColumns)

	var pt domain.ProductType
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&pt.ID, &pt.Name, &pt.ParentID, &pt.CreatedAt, &pt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan product type: %w", err)
	}

	return &pt, nil
}

// List returns all product types ordered by name.
func (r *ProductTypeRepository) List(ctx context.Context) ([]domain.ProductType, error) {
	query := fmt.Sprintf(`SELECT %s FROM product_types ORDER BY name`, productTypeColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list product types: %w", err)
	}
	defer rows.Close()

	types := []domain.ProductType{}
	for rows.Next() {
		var pt domain.ProductType
		if err := rows.Scan(&pt.ID, &pt.Name, &pt.ParentID, &pt.CreatedAt, &pt.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product type row: %w", err)
		}
		types = append(types, pt)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product type rows: %w", err)
	}

	return types, nil
}

// Update modifies an existing product type in the database.
func (r *ProductTypeRepository) Update(ctx context.Context, pt *domain.ProductType) error {
	pt.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE product_types
		SET name = $1, parent_id = $2, updated_at = $3
		WHERE id = $4`

	ct, err := r.pool.Exec(ctx, query, pt.Name, pt.ParentID, pt.UpdatedAt, pt.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product type", "name", pt.Name)
		}
		return fmt.Errorf("update product type: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product type", pt.ID)
	}

	return nil
}

// Delete removes a product type. Types referenced by child types, products,
// or product lines are protected from deletion.
func (r *ProductTypeRepository) Delete(ctx context.Context, id string) error {
	var hasChildren, hasProducts, hasLines bool
	query := `
		SELECT
			EXISTS (SELECT 1 FROM product_types WHERE parent_id = $1),
			EXISTS (SELECT 1 FROM products WHERE product_type_id = $1),
			EXISTS (SELECT 1 FROM product_lines WHERE product_type_id = $1)`

	if err := r.pool.QueryRow(ctx, query, id).Scan(&hasChildren, &hasProducts, &hasLines); err != nil {
		return fmt.Errorf("check product type dependents: %w", err)
	}
	if hasChildren {
		return apperrors.Protected("product type", "child product types")
	}
	if hasProducts {
		return apperrors.Protected("product type", "products")
	}
	if hasLines {
		return apperrors.Protected("product type", "product lines")
	}

	ct, err := r.pool.Exec(ctx, `DELETE FROM product_types WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperrors.Protected("product type", "dependent rows")
		}
		return fmt.Errorf("delete product type: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product type", id)
	}

	return nil
}

// AddAttribute links an attribute into the type's permitted set.
func (r *ProductTypeRepository) AddAttribute(ctx context.Context, link *domain.ProductTypeAttribute) error {
	query := `
		INSERT INTO product_type_attributes (id, product_type_id, attribute_id)
		VALUES ($1, $2, $3)`

	_, err := r.pool.Exec(ctx, query, link.ID, link.ProductTypeID, link.AttributeID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product type attribute", "attribute_id", link.AttributeID)
		}
		return fmt.Errorf("insert product type attribute: %w", err)
	}

	return nil
}

// RemoveAttribute unlinks an attribute from the type's permitted set.
func (r *ProductTypeRepository) RemoveAttribute(ctx context.Context, typeID, attributeID string) error {
	query := `DELETE FROM product_type_attributes WHERE product_type_id = $1 AND attribute_id = $2`

	ct, err := r.pool.Exec(ctx, query, typeID, attributeID)
	if err != nil {
		return fmt.Errorf("delete product type attribute: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product type attribute", attributeID)
	}

	return nil
}

// ListAttributes returns the type's permitted attributes ordered by name.
func (r *ProductTypeRepository) ListAttributes(ctx context.Context, typeID string) ([]domain.Attribute, error) {
	query := `
		SELECT a.id, a.name, a.created_at, a.updated_at
		FROM attributes a
		JOIN product_type_attributes pta ON pta.attribute_id = a.id
		WHERE pta.product_type_id = $1
		ORDER BY a.name`

	rows, err := r.pool.Query(ctx, query, typeID)
	if err != nil {
		return nil, fmt.Errorf("list product type attributes: %w", err)
	}
	defer rows.Close()

	attrs := []domain.Attribute{}
	for rows.Next() {
		var a domain.Attribute
		if err := rows.Scan(&a.ID, &a.Name, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan attribute row: %w", err)
		}
		attrs = append(attrs, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attribute rows: %w", err)
	}

	return attrs, nil
}

// AllowedAttributeNames returns the names of the type's permitted attributes.
func (r *ProductTypeRepository) AllowedAttributeNames(ctx context.Context, typeID string) ([]string, error) {
	query := `
		SELECT a.name
		FROM attributes a
		JOIN product_type_attributes pta ON pta.attribute_id = a.id
		WHERE pta.product_type_id = $1`

	rows, err := r.pool.Query(ctx, query, typeID)
	if err != nil {
		return nil, fmt.Errorf("list allowed attribute names: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan attribute name: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attribute names: %w", err)
	}

	return names, nil
}

// ListEligibleValues returns only the attribute values whose attribute is
// permitted for the type.
func (r *ProductTypeRepository) ListEligibleValues(ctx context.Context, typeID string) ([]domain.AttributeValue, error) {
	query := `
		SELECT av.id, av.attribute_id, av.value, av.created_at, av.updated_at
		FROM attribute_values av
		JOIN product_type_attributes pta ON pta.attribute_id = av.attribute_id
		WHERE pta.product_type_id = $1
		ORDER BY av.value`

	rows, err := r.pool.Query(ctx, query, typeID)
	if err != nil {
		return nil, fmt.Errorf("list eligible attribute values: %w", err)
	}
	defer rows.Close()

	values := []domain.AttributeValue{}
	for rows.Next() {
		var v domain.AttributeValue
		if err := rows.Scan(&v.ID, &v.AttributeID, &v.Value, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan attribute value row: %w", err)
		}
		values = append(values, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attribute value rows: %w", err)
	}

	return values, nil
}
