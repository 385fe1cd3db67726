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

// AttributeRepository implements attribute and attribute value persistence
// operations using PostgreSQL.
type AttributeRepository struct {
	pool database.DBTX
}

// NewAttributeRepository creates a new PostgreSQL-backed attribute repository.
func NewAttributeRepository(pool database.DBTX) *AttributeRepository {
	return &AttributeRepository{pool: pool}
}

// Create inserts a new attribute into the database.
func (r *AttributeRepository) Create(ctx context.Context, a *domain.Attribute) error {
	query := `
		INSERT INTO attributes (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.pool.Exec(ctx, query, a.ID, a.Name, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("attribute", "name", a.Name)
		}
		return fmt.Errorf("insert attribute: %w", err)
	}

	return nil
}

// GetByID retrieves an attribute by its unique identifier.
func (r *AttributeRepository) GetByID(ctx context.Context, id string) (*domain.Attribute, error) {
	query := `SELECT id, name, created_at, updated_at FROM attributes WHERE id = $1`

	var a domain.Attribute
	err := r.pool.QueryRow(ctx, query, id).Scan(&a.ID, &a.Name, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan attribute: %w", err)
	}

	return &a, nil
}

// List returns all attributes ordered by name.
func (r *AttributeRepository) List(ctx context.Context) ([]domain.Attribute, error) {
	query := `SELECT id, name, created_at, updated_at FROM attributes ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list attributes: %w", err)
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

// Update modifies an existing attribute in the database.
func (r *AttributeRepository) Update(ctx context.Context, a *domain.Attribute) error {
	a.UpdatedAt = time.Now().UTC()

	query := `UPDATE attributes SET name = $1, updated_at = $2 WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, a.Name, a.UpdatedAt, a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("attribute", "name", a.Name)
		}
		return fmt.Errorf("update attribute: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("attribute", a.ID)
	}

	return nil
}

// Delete removes an attribute. Its values cascade.
func (r *AttributeRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM attributes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete attribute: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("attribute", id)
	}

	return nil
}

// CreateValue inserts a new attribute value into the database.
func (r *AttributeRepository) CreateValue(ctx context.Context, v *domain.AttributeValue) error {
	query := `
		INSERT INTO attribute_values (id, attribute_id, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query, v.ID, v.AttributeID, v.Value, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("attribute value", "value", v.Value)
		}
		return fmt.Errorf("insert attribute value: %w", err)
	}

	return nil
}

// GetValue retrieves an attribute value by its unique identifier.
func (r *AttributeRepository) GetValue(ctx context.Context, id string) (*domain.AttributeValue, error) {
	query := `SELECT id, attribute_id, value, created_at, updated_at FROM attribute_values WHERE id = $1`

	var v domain.AttributeValue
	err := r.pool.QueryRow(ctx, query, id).Scan(&v.ID, &v.AttributeID, &v.Value, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scan attribute value: %w", err)
	}

	return &v, nil
}

// ListValues returns the attribute's values ordered by value.
func (r *AttributeRepository) ListValues(ctx context.Context, attributeID string) ([]domain.AttributeValue, error) {
	query := `
		SELECT id, attribute_id, value, created_at, updated_at
		FROM attribute_values
		WHERE attribute_id = $1
		ORDER BY value`

	rows, err := r.pool.Query(ctx, query, attributeID)
	if err != nil {
		return nil, fmt.Errorf("list attribute values: %w", err)
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

// UpdateValue modifies an existing attribute value in the database.
func (r *AttributeRepository) UpdateValue(ctx context.Context, v *domain.AttributeValue) error {
	v.UpdatedAt = time.Now().UTC()

	query := `UPDATE attribute_values SET value = $1, updated_at = $2 WHERE id = $3`

	ct, err := r.pool.Exec(ctx, query, v.Value, v.UpdatedAt, v.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.AlreadyExists("attribute value", "value", v.Value)
		}
		return fmt.Errorf("update attribute value: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("attribute value", v.ID)
	}

	return nil
}

// DeleteValue removes an attribute value from the database by its ID.
func (r *AttributeRepository) DeleteValue(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM attribute_values WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete attribute value: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("attribute value", id)
	}

	return nil
}

// AttributeNameForValue resolves the owning attribute's name for a value.
func (r *AttributeRepository) AttributeNameForValue(ctx context.Context, valueID string) (string, error) {
	query := `
		SELECT a.name
		FROM attributes a
		JOIN attribute_values av ON av.attribute_id = a.id
		WHERE av.id = $1`

	var name string
	err := r.pool.QueryRow(ctx, query, valueID).Scan(&name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NotFound("attribute value", valueID)
		}
		return "", fmt.Errorf("resolve attribute name: %w", err)
	}

	return name, nil
}
