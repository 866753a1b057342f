package database

import (
	"database/sql"
	"fmt"

	"github.com/shababeek/pos/internal/apperr"
	"github.com/shababeek/pos/internal/query"
)

// OrderAndPage renders the shared ORDER BY / LIMIT / OFFSET tail of a list
// query. sortColumns is the repository's allowlist mapping JSON sort fields
// to columns; unknown fields fall back to created_at. Paging placeholders
// are appended to args.
func OrderAndPage(p query.ListParams, sortColumns map[string]string, args *[]any) string {
	column, ok := sortColumns[p.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "ASC"
	if p.SortDesc {
		direction = "DESC"
	}

	clause := fmt.Sprintf(" ORDER BY %s %s", column, direction)

	if p.Limit > 0 {
		*args = append(*args, p.Limit)
		clause += fmt.Sprintf(" LIMIT $%d", len(*args))
	}
	if p.Skip > 0 {
		*args = append(*args, p.Skip)
		clause += fmt.Sprintf(" OFFSET $%d", len(*args))
	}

	return clause
}

// RequireRow turns a zero-row write into the resource's NotFound error, which
// is also what makes repeated deletes of the same id fail instead of quietly
// succeeding twice.
func RequireRow(result sql.Result, message string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return apperr.Wrap(fmt.Errorf("failed to get rows affected: %w", err))
	}
	if rows == 0 {
		return apperr.New(apperr.NotFound, message)
	}
	return nil
}
