package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/utafrali/catalog-service/internal/domain"
	"github.com/utafrali/catalog-service/internal/ordering"
	"github.com/utafrali/catalog-service/pkg/database"
	apperrors "github.com/utafrali/catalog-service/pkg/errors"
)

// imageOrder assigns display orders to images within their product line.
var imageOrder = ordering.MustAssigner(ordering.Spec{
	Table:       "product_images",
	ScopeColumn: "product_line_id",
	OrderColumn: "display_order",
	IDColumn:    "id",
})

const productImageColumns = `id, product_line_id, url, alt_text, display_order, created_at`

// ProductImageRepository implements product image persistence using PostgreSQL.
type ProductImageRepository struct {
	pool database.DBTX
}

// NewProductImageRepository creates a new PostgreSQL-backed product image repository.
func NewProductImageRepository(pool database.DBTX) *ProductImageRepository {
	return &ProductImageRepository{pool: pool}
}

// Create inserts a new image, resolving its display order within the line
// inside the insert transaction.
func (r *ProductImageRepository) Create(ctx context.Context, img *domain.ProductImage, explicitOrder *int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	order, err := imageOrder.Assign(ctx, tx, img.ProductLineID, "", explicitOrder)
	if err != nil {
		return err
	}
	img.DisplayOrder = order

	query := `
		INSERT INTO product_images (id, product_line_id, url, alt_text, display_order, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err = tx.Exec(ctx, query,
		img.ID,
		img.ProductLineID,
		img.URL,
		img.AltText,
		img.DisplayOrder,
		img.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.OrderConflict("display_order", img.DisplayOrder)
		}
		return fmt.Errorf("insert product image: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// GetByID retrieves an image by its unique identifier.
func (r *ProductImageRepository) GetByID(ctx context.Context, id string) (*domain.ProductImage, error) {
	query := fmt.Sprintf(`SELECT %s FROM product_images WHERE id = $1`, productImageColumns)

	var img domain.ProductImage
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&img.ID, &img.ProductLineID, &img.URL, &img.AltText, &img.DisplayOrder, &img.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan product image: %w", err)
	}

	return &img, nil
}

// ListByLine returns the line's images ordered by display order.
func (r *ProductImageRepository) ListByLine(ctx context.Context, lineID string) ([]domain.ProductImage, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM product_images
		WHERE product_line_id = $1
		ORDER BY display_order`, productImageColumns)

	rows, err := r.pool.Query(ctx, query, lineID)
	if err != nil {
		return nil, fmt.Errorf("list product images: %w", err)
	}
	defer rows.Close()

	images := []domain.ProductImage{}
	for rows.Next() {
		var img domain.ProductImage
		if err := rows.Scan(
			&img.ID, &img.ProductLineID, &img.URL, &img.AltText, &img.DisplayOrder, &img.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product image row: %w", err)
		}
		images = append(images, img)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product image rows: %w", err)
	}

	return images, nil
}

// Update modifies an existing image. A nil explicitOrder keeps the stored
// display order; an explicit one is validated within the line with the image
// itself excluded.
func (r *ProductImageRepository) Update(ctx context.Context, img *domain.ProductImage, explicitOrder *int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if explicitOrder != nil {
		order, err := imageOrder.Assign(ctx, tx, img.ProductLineID, img.ID, explicitOrder)
		if err != nil {
			return err
		}
		img.DisplayOrder = order
	}

	query := `
		UPDATE product_images
		SET url = $1, alt_text = $2, display_order = $3
		WHERE id = $4`

	ct, err := tx.Exec(ctx, query, img.URL, img.AltText, img.DisplayOrder, img.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.OrderConflict("display_order", img.DisplayOrder)
		}
		return fmt.Errorf("update product image: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product image", img.ID)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// Delete removes an image from the database by its ID.
func (r *ProductImageRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM product_images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product image: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("product image", id)
	}

	return nil
}
