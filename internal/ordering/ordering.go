// Package ordering assigns per-scope display order values. Every ordered
// table (product lines within a product, images within a line) declares a
// Spec and calls Assign inside the transaction that writes the row: an unset
// order becomes max+1 within the scope, an explicit order is checked for
// uniqueness against every row in the scope except the one being saved.
package ordering

import (
	"context"
	"fmt"
	"regexp"

	apperrors "github.com/utafrali/catalog-service/pkg/errors"
	"github.com/utafrali/catalog-service/internal/scope"
	"github.com/utafrali/catalog-service/pkg/database"
)

// identRegexp matches a plain SQL identifier. Spec fields are interpolated
// into SQL, so anything else is rejected at definition time.
var identRegexp = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// Spec declares an ordered table: which table, which column partitions the
// scope, which column holds the order, and which column identifies a row.
type Spec struct {
	Table       string
	ScopeColumn string
	OrderColumn string
	IDColumn    string
}

// SpecError reports a malformed Spec. It surfaces at process start through
// MustAssigner, never at request time.
type SpecError struct {
	Field  string
	Value  string
	Reason string
}

func (e *SpecError) Error() string {
	return fmt.Sprintf("ordering spec: %s %q %s", e.Field, e.Value, e.Reason)
}

// Check validates that every Spec field is a plain SQL identifier.
func (s Spec) Check() error {
	fields := []struct {
		name  string
		value string
	}{
		{"table", s.Table},
		{"scope column", s.ScopeColumn},
		{"order column", s.OrderColumn},
		{"id column", s.IDColumn},
	}
	for _, f := range fields {
		if f.value == "" {
			return &SpecError{Field: f.name, Value: f.value, Reason: "is required"}
		}
		if !identRegexp.MatchString(f.value) {
			return &SpecError{Field: f.name, Value: f.value, Reason: "is not a valid identifier"}
		}
	}
	return nil
}

// Assigner resolves display order values for one ordered table.
type Assigner struct {
	spec  Spec
	query scope.Query
}

// NewAssigner builds an Assigner, validating the Spec first.
func NewAssigner(spec Spec) (*Assigner, error) {
	if err := spec.Check(); err != nil {
		return nil, err
	}
	return &Assigner{
		spec: spec,
		query: scope.Query{
			From:        spec.Table,
			ScopeColumn: spec.ScopeColumn,
			IDColumn:    spec.IDColumn,
		},
	}, nil
}

// MustAssigner is NewAssigner for package-level declarations. A malformed
// Spec is a programming error, so it panics and fails the process at start.
func MustAssigner(spec Spec) *Assigner {
	a, err := NewAssigner(spec)
	if err != nil {
		panic(err)
	}
	return a
}

// Assign resolves the display order for a row being saved into scopeValue.
//
// A nil explicit order means the caller did not choose one: the row takes
// max+1 within its scope, or 1 in an empty scope. An explicit order must be
// unused by every other row in the scope; selfID (empty on insert) excludes
// the row being saved so re-saving a row with its own order succeeds. A taken
// order returns an error wrapping apperrors.ErrOrderConflict.
//
// Callers run Assign inside the transaction that writes the row so the read
// and the write see the same scope.
func (a *Assigner) Assign(ctx context.Context, db database.DBTX, scopeValue any, selfID string, explicit *int) (int, error) {
	if explicit == nil {
		max, ok, err := a.query.MaxInt(ctx, db, a.spec.OrderColumn, scopeValue)
		if err != nil {
			return 0, fmt.Errorf("assign %s.%s: %w", a.spec.Table, a.spec.OrderColumn, err)
		}
		if !ok {
			return 1, nil
		}
		return max + 1, nil
	}

	taken, err := a.query.Exists(ctx, db, a.spec.OrderColumn, *explicit, scopeValue, selfID)
	if err != nil {
		return 0, fmt.Errorf("assign %s.%s: %w", a.spec.Table, a.spec.OrderColumn, err)
	}
	if taken {
		return 0, apperrors.OrderConflict(a.spec.OrderColumn, *explicit)
	}
	return *explicit, nil
}
