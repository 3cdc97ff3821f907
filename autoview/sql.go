package autoview

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/tomselect"
)

// Querier is the subset of pgxpool.Pool the SQL source needs.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// SQLSource searches a database with a caller-provided query. The query
// receives the search term as $1 and the result limit as $2, and must
// select exactly two columns: option id and option label.
//
//	src := autoview.NewSQLSource(pool,
//	    `SELECT id, name FROM cities
//	      WHERE name ILIKE '%' || $1 || '%'
//	      ORDER BY name LIMIT $2`)
type SQLSource struct {
	db    Querier
	query string
}

// NewSQLSource creates a source backed by a database query.
func NewSQLSource(db Querier, query string) *SQLSource {
	return &SQLSource{db: db, query: query}
}

// Search implements Source.
func (s *SQLSource) Search(ctx context.Context, term string, limit int) ([]tomselect.Result, error) {
	rows, err := s.db.Query(ctx, s.query, term, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tomselect.Result
	for rows.Next() {
		var (
			id   any
			text string
		)
		if err := rows.Scan(&id, &text); err != nil {
			return nil, err
		}
		out = append(out, tomselect.Result{ID: id, Text: text})
	}
	return out, rows.Err()
}
