// Package option provides composable query options for gorm statements.
package option

import (
	"strings"

	"gorm.io/gorm"
)

// Option mutates a gorm statement before execution.
type Option interface {
	Apply(stmt *gorm.DB) *gorm.DB
}

type sortBy struct {
	clause string
}

func (o sortBy) Apply(stmt *gorm.DB) *gorm.DB {
	if o.clause == "" {
		return stmt
	}
	return stmt.Order(o.clause)
}

// WithSortBy applies a raw ORDER BY clause. Empty clauses are a no-op.
func WithSortBy(clause string) Option {
	return sortBy{clause: strings.TrimSpace(clause)}
}

// WithQuerySortBy builds an ORDER BY clause from request parameters,
// allowing only whitelisted columns. Unknown columns yield an empty clause.
func WithQuerySortBy(column, order string, allowed map[string]bool) string {
	column = strings.ToLower(strings.TrimSpace(column))
	if column == "" || !allowed[column] {
		return ""
	}
	direction := "ASC"
	if strings.EqualFold(strings.TrimSpace(order), "desc") {
		direction = "DESC"
	}
	return column + " " + direction
}
