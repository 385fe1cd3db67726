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

// categoryColumns is the standard SELECT column list for categories.
const categoryColumns = `id, name, slug, is_active, parent_id, created_at, updated_at`

// CategoryRepository implements category persistence operations using PostgreSQL.
type CategoryRepository struct {
	pool database.DBTX
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(pool database.DBTX) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// Create inserts a new category into the database.
func (r *CategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	query := `
		INSERT INTO categories (id, name, slug, is_active, parent_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.Name,
		c.Slug,
		c.IsActive,
		c.ParentID,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("category", "name", c.Name)
		}
		return fmt.Errorf("insert category: %w", err)
	}

	return nil
}

// GetByID retrieves a category by its unique identifier.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE id = $1`, categoryColumns)
	return r.scanCategory(ctx, query, id)
}

// GetBySlug retrieves a category by its URL-friendly slug.
func (r *CategoryRepository) GetBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories WHERE slug = $1`, categoryColumns)
	return r.scanCategory(ctx, query, slug)
}

// List returns categories ordered by name, optionally only active ones.
func (r *CategoryRepository) List(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	query := fmt.Sprintf(`SELECT %s FROM categories`, categoryColumns)
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	categories := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Slug, &c.IsActive, &c.ParentID,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category rows: %w", err)
	}

	return categories, nil
}

// Update modifies an existing category in the database.
func (r *CategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	c.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE categories
		SET name = $1, slug = $2, is_active = $3, parent_id = $4, updated_at = $5
		WHERE id = $6`

	ct, err := r.pool.Exec(ctx, query,
		c.Name,
		c.Slug,
		c.IsActive,
		c.ParentID,
		c.UpdatedAt,
		c.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("category", "name", c.Name)
		}
		return fmt.Errorf("update category: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("category", c.ID)
	}

	return nil
}

// Delete removes a category. Categories referenced by child categories or
// products are protected from deletion.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	var hasChildren, hasProducts bool
	query := `
		SELECT
			EXISTS (SELECT 1 FROM categories WHERE parent_id = $1),
			EXISTS (SELECT 1 FROM products WHERE category_id = $1)`

	if err := r.pool.QueryRow(ctx, query, id).Scan(&hasChildren, &hasProducts); err != nil {
		return fmt.Errorf("check category dependents: %w", err)
	}
	if hasChildren {
		return apperrors.Protected("category", "child categories")
	}
	if hasProducts {
		return apperrors.Protected("category", "products")
	}

	ct, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		// FK RESTRICT backstop for dependents created between check and delete.
		if isForeignKeyViolation(err) {
			return apperrors.Protected("category", "dependent rows")
		}
		return fmt.Errorf("delete category: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("category", id)
	}

	return nil
}

// scanCategory executes a query expected to return a single category row.
func (r *CategoryRepository) scanCategory(ctx context.Context, query string, args ...any) (*domain.Category, error) {
	var c domain.Category

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&c.ID, &c.Name, &c.Slug, &c.IsActive, &c.ParentID,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan category: %w", err)
	}

	return &c, nil
}
