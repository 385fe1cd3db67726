// Package scope provides small SQL helpers for queries restricted to the rows
// sharing a scope value, such as the lines of one product or the attribute
// values of one line. Both the display-order assignment and the duplicate
// attribute check are built on it.
package scope

import (
	"context"
	"fmt"

	"github.com/utafrali/catalog-service/pkg/database"
)

// Query describes a scoped row set.
//
// From is the table or join the rows come from, ScopeColumn the column that
// partitions them, and IDColumn the column identifying a single row so it can
// be excluded from checks against itself. Column and table names are trusted
// and interpolated into SQL; they must come from code, never from input.
type Query struct {
	From        string
	ScopeColumn string
	IDColumn    string
}

// MaxInt returns the largest value of column among the rows in the given
// scope, and false when the scope holds no rows.
func (q Query) MaxInt(ctx context.Context, db database.DBTX, column string, scopeValue any) (int, bool, error) {
	sql := fmt.Sprintf(`SELECT MAX(%s) FROM %s WHERE %s = $1`, column, q.From, q.ScopeColumn)

	var max *int
	if err := db.QueryRow(ctx, sql, scopeValue).Scan(&max); err != nil {
		return 0, false, fmt.Errorf("max %s: %w", column, err)
	}
	if max == nil {
		return 0, false, nil
	}
	return *max, true, nil
}

// Exists reports whether any row in the given scope has column equal to value,
// excluding the row identified by excludeID. Pass an empty excludeID to check
// all rows, for instance before the row being validated has been inserted.
//
// The exclusion parameter travels as text because IDColumn is usually a uuid
// column and $3 appears in both a text and an ID comparison. Casting both
// sides keeps the planner from inferring conflicting types for the parameter.
func (q Query) Exists(ctx context.Context, db database.DBTX, column string, value, scopeValue any, excludeID string) (bool, error) {
	sql := fmt.Sprintf(
		`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1 AND %s = $2 AND ($3::text = '' OR %s::text <> $3::text))`,
		q.From, q.ScopeColumn, column, q.IDColumn,
	)

	var exists bool
	if err := db.QueryRow(ctx, sql, scopeValue, value, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists %s: %w", column, err)
	}
	return exists, nil
}
