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

const brandColumns = `id, name, slug, is_active, created_at, updated_at`

// BrandRepository implements brand persistence operations using PostgreSQL.
type BrandRepository struct {
	pool database.DBTX
}

// NewBrandRepository creates a new PostgreSQL-backed brand repository.
func NewBrandRepository(pool database.DBTX) *BrandRepository {
	return &BrandRepository{pool: pool}
}

// Create inserts a new brand into the database.
func (r *BrandRepository) Create(ctx context.Context, b *domain.Brand) error {
	query := `
		INSERT INTO brands (id, name, slug, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query, b.ID, b.Name, b.Slug, b.IsActive, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("brand", "name", b.Name)
		}
		return fmt.Errorf("insert brand: %w", err)
	}

	return nil
}

// GetByID retrieves a brand by its unique identifier.
func (r *BrandRepository) GetByID(ctx context.Context, id string) (*domain.Brand, error) {
	query := fmt.Sprintf(`SELECT %s FROM brands WHERE id = $1`, brandColumns)
	return r.scanBrand(ctx, query, id)
}

// GetBySlug retrieves a brand by its URL-friendly slug.
func (r *BrandRepository) GetBySlug(ctx context.Context, slug string) (*domain.Brand, error) {
	query := fmt.Sprintf(`SELECT %s FROM brands WHERE slug = $1`, brandColumns)
	return r.scanBrand(ctx, query, slug)
}

// List returns brands ordered by name, optionally only active ones.
func (r *BrandRepository) List(ctx context.Context, activeOnly bool) ([]domain.Brand, error) {
	query := fmt.Sprintf(`SELECT %s FROM brands`, brandColumns)
	if activeOnly {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	brands := []domain.Brand{}
	for rows.Next() {
		var b domain.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.Slug, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan brand row: %w", err)
		}
		brands = append(brands, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate brand rows: %w", err)
	}

	return brands, nil
}

// Update modifies an existing brand in the database.
func (r *BrandRepository) Update(ctx context.Context, b *domain.Brand) error {
	b.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE brands
		SET name = $1, slug = $2, is_active = $3, updated_at = $4
		WHERE id = $5`

	ct, err := r.pool.Exec(ctx, query, b.Name, b.Slug, b.IsActive, b.UpdatedAt, b.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("brand", "name", b.Name)
		}
		return fmt.Errorf("update brand: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("brand", b.ID)
	}

	return nil
}

// Delete removes a brand from the database by its ID.
func (r *BrandRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM brands WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("brand", id)
	}

	return nil
}

// scanBrand executes a query expected to return a single brand row.
func (r *BrandRepository) scanBrand(ctx context.Context, query string, args ...any) (*domain.Brand, error) {
	var b domain.Brand

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&b.ID, &b.Name, &b.Slug, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan brand: %w", err)
	}

	return &b, nil
}
