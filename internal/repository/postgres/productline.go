package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/catalog-service/internal/domain"
	"github.com/utafrali/catalog-service/internal/ordering"
	"github.com/utafrali/catalog-service/internal/scope"
	"github.com/utafrali/catalog-service/pkg/database"
	apperrors "github.com/utafrali/catalog-service/pkg/errors"
)

// lineOrder assigns display orders to product lines within their product.
// The spec is validated at process start.
var lineOrder = ordering.MustAssigner(ordering.Spec{
	Table:       "product_lines",
	ScopeColumn: "product_id",
	OrderColumn: "display_order",
	IDColumn:    "id",
})

// lineAttributeNames checks attribute names over the line's value joins so
// duplicate-attribute validation can exclude the join row being re-saved.
var lineAttributeNames = scope.Query{
	From: `product_line_attribute_values lav
		JOIN attribute_values av ON av.id = lav.attribute_value_id
		JOIN attributes a ON a.id = av.attribute_id`,
	ScopeColumn: "lav.product_line_id",
	IDColumn:    "lav.id",
}

const productLineColumns = `id, product_id, product_type_id, sku, slug, second_name,
	second_description, price, weight, quantity, is_active, display_order, created_at, updated_at`

// ProductLineRepository implements product line persistence using PostgreSQL.
// Writes that touch display order run in a transaction so the orderizer reads
// and the row write see the same scope.
type ProductLineRepository struct {
	pool database.DBTX
}

// NewProductLineRepository creates a new PostgreSQL-backed product line repository.
func NewProductLineRepository(pool database.DBTX) *ProductLineRepository {
	return &ProductLineRepository{pool: pool}
}

// Create inserts a new product line, resolving its display order within the
// product inside the insert transaction.
func (r *ProductLineRepository) Create(ctx context.Context, l *domain.ProductLine, explicitOrder *int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	order, err := lineOrder.Assign(ctx, tx, l.ProductID, "", explicitOrder)
	if err != nil {
		return err
	}
	l.DisplayOrder = order

	query := `
		INSERT INTO product_lines (id, product_id, product_type_id, sku, slug, second_name,
			second_description, price, weight, quantity, is_active, display_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = tx.Exec(ctx, query,
		l.ID,
		l.ProductID,
		l.ProductTypeID,
		l.SKU,
		l.Slug,
		l.SecondName,
		l.SecondDescription,
		l.Price,
		l.Weight,
		l.Quantity,
		l.IsActive,
		l.DisplayOrder,
		l.CreatedAt,
		l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product line", "sku", l.SKU)
		}
		if isForeignKeyViolation(err) {
			return apperrors.InvalidInput("product or product type does not exist")
		}
		return fmt.Errorf("insert product line: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// GetByID retrieves a product line by its unique identifier.
func (r *ProductLineRepository) GetByID(ctx context.Context, id string) (*domain.ProductLine, error) {
	query := fmt.Sprintf(`SELECT %s FROM product_lines WHERE id = $1`, productLineColumns)
	return r.scanLine(ctx, query, id)
}

// GetBySKU retrieves a product line by its SKU.
func (r *ProductLineRepository) GetBySKU(ctx context.Context, sku string) (*domain.ProductLine, error) {
	query := fmt.Sprintf(`SELECT %s FROM product_lines WHERE sku = $1`, productLineColumns)
	return r.scanLine(ctx, query, sku)
}

// ListByProduct returns the product's lines ordered by display order.
func (r *ProductLineRepository) ListByProduct(ctx context.Context, productID string) ([]domain.ProductLine, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM product_lines
		WHERE product_id = $1
		ORDER BY display_order`, productLineColumns)

	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list product lines: %w", err)
	}
	defer rows.Close()

	lines := []domain.ProductLine{}
	for rows.Next() {
		var l domain.ProductLine
		if err := rows.Scan(
			&l.ID, &l.ProductID, &l.ProductTypeID, &l.SKU, &l.Slug, &l.SecondName,
			&l.SecondDescription, &l.Price, &l.Weight, &l.Quantity, &l.IsActive,
			&l.DisplayOrder, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product line row: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product line rows: %w", err)
	}

	return lines, nil
}

// Update modifies an existing product line. A nil explicitOrder keeps the
// stored display order; an explicit one is validated within the product with
// the line itself excluded, so re-saving a line with its own order succeeds.
func (r *ProductLineRepository) Update(ctx context.Context, l *domain.ProductLine, explicitOrder *int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if explicitOrder != nil {
		order, err := lineOrder.Assign(ctx, tx, l.ProductID, l.ID, explicitOrder)
		if err != nil {
			return err
		}
		l.DisplayOrder = order
	}

	l.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE product_lines
		SET sku = $1, slug = $2, second_name = $3, second_description = $4,
		    price = $5, weight = $6, quantity = $7, is_active = $8,
		    display_order = $9, updated_at = $10
		WHERE id = $11`

	ct, err := tx.Exec(ctx, query,
		l.SKU,
		l.Slug,
		l.SecondName,
		l.SecondDescription,
		l.Price,
		l.Weight,
		l.Quantity,
		l.IsActive,
		l.DisplayOrder,
		l.UpdatedAt,
		l.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product line", "sku", l.SKU)
		}
		return fmt.Errorf("update product line: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product line", l.ID)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// Delete removes a product line from the database by its ID. Attribute value
// links and images cascade.
func (r *ProductLineRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM product_lines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product line: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product line", id)
	}

	return nil
}

// AttachAttributeValue links an attribute value to the line. The
// duplicate-attribute check for attributeName and the insert run in one
// transaction, so two concurrent attaches of different values of the same
// attribute cannot both commit. The unique (product_line_id,
// attribute_value_id) constraint backstops same-value races.
func (r *ProductLineRepository) AttachAttributeValue(ctx context.Context, link *domain.LineAttributeValue, attributeName string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := r.insertLink(ctx, tx, link, attributeName, ""); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// RebindAttributeValue replaces the line's link to oldValueID with link. The
// lookup, the duplicate check and the swap share one transaction so a failed
// attach never leaves the line without either value.
func (r *ProductLineRepository) RebindAttributeValue(ctx context.Context, lineID, oldValueID string, link *domain.LineAttributeValue, attributeName string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var joinID string
	err = tx.QueryRow(ctx,
		`SELECT id FROM product_line_attribute_values WHERE product_line_id = $1 AND attribute_value_id = $2`,
		lineID, oldValueID,
	).Scan(&joinID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound("product line attribute value", oldValueID)
		}
		return fmt.Errorf("find product line attribute value: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM product_line_attribute_values WHERE id = $1`, joinID,
	); err != nil {
		return fmt.Errorf("delete product line attribute value: %w", err)
	}

	if err := r.insertLink(ctx, tx, link, attributeName, joinID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// insertLink runs the in-transaction duplicate check and inserts the join
// row. excludeJoinID names a row already deleted in the same transaction.
func (r *ProductLineRepository) insertLink(ctx context.Context, tx pgx.Tx, link *domain.LineAttributeValue, attributeName, excludeJoinID string) error {
	dup, err := lineAttributeNames.Exists(ctx, tx, "a.name", attributeName, link.ProductLineID, excludeJoinID)
	if err != nil {
		return fmt.Errorf("check duplicate attribute: %w", err)
	}
	if dup {
		return apperrors.DuplicateAttribute(attributeName)
	}

	query := `
		INSERT INTO product_line_attribute_values (id, product_line_id, attribute_value_id)
		VALUES ($1, $2, $3)`

	if _, err := tx.Exec(ctx, query, link.ID, link.ProductLineID, link.AttributeValueID); err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("product line attribute value", "attribute_value_id", link.AttributeValueID)
		}
		if isForeignKeyViolation(err) {
			return apperrors.NotFound("attribute value", link.AttributeValueID)
		}
		return fmt.Errorf("insert product line attribute value: %w", err)
	}

	return nil
}

// DetachAttributeValue removes the link between the line and the value.
func (r *ProductLineRepository) DetachAttributeValue(ctx context.Context, lineID, valueID string) error {
	query := `DELETE FROM product_line_attribute_values WHERE product_line_id = $1 AND attribute_value_id = $2`

	ct, err := r.pool.Exec(ctx, query, lineID, valueID)
	if err != nil {
		return fmt.Errorf("delete product line attribute value: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product line attribute value", valueID)
	}

	return nil
}

// ListAttributeValues returns the line's attribute value links with the
// attribute name and value denormalized, ordered by attribute name.
func (r *ProductLineRepository) ListAttributeValues(ctx context.Context, lineID string) ([]domain.LineAttributeValue, error) {
	query := `
		SELECT lav.id, lav.product_line_id, lav.attribute_value_id, a.name, av.value
		FROM product_line_attribute_values lav
		JOIN attribute_values av ON av.id = lav.attribute_value_id
		JOIN attributes a ON a.id = av.attribute_id
		WHERE lav.product_line_id = $1
		ORDER BY a.name`

	rows, err := r.pool.Query(ctx, query, lineID)
	if err != nil {
		return nil, fmt.Errorf("list line attribute values: %w", err)
	}
	defer rows.Close()

	links := []domain.LineAttributeValue{}
	for rows.Next() {
		var lav domain.LineAttributeValue
		if err := rows.Scan(&lav.ID, &lav.ProductLineID, &lav.AttributeValueID, &lav.AttributeName, &lav.Value); err != nil {
			return nil, fmt.Errorf("scan line attribute value row: %w", err)
		}
		links = append(links, lav)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate line attribute value rows: %w", err)
	}

	return links, nil
}

// LineHasAttribute reports whether the line already carries a value of the
// named attribute, excluding the join row identified by excludeJoinID.
func (r *ProductLineRepository) LineHasAttribute(ctx context.Context, lineID, attributeName, excludeJoinID string) (bool, error) {
	return lineAttributeNames.Exists(ctx, r.pool, "a.name", attributeName, lineID, excludeJoinID)
}

// scanLine executes a query expected to return a single product line row.
func (r *ProductLineRepository) scanLine(ctx context.Context, query string, args ...any) (*domain.ProductLine, error) {
	var l domain.ProductLine

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&l.ID, &l.ProductID, &l.ProductTypeID, &l.SKU, &l.Slug, &l.SecondName,
		&l.SecondDescription, &l.Price, &l.Weight, &l.Quantity, &l.IsActive,
		&l.DisplayOrder, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan product line: %w", err)
	}

	return &l, nil
}
