package engine

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLEngine executes queries against a database/sql connection. Rows are
// scanned generically into maps keyed by column name.
type SQLEngine struct {
	db *sql.DB
}

// NewSQLEngine creates an engine over an open connection pool.
func NewSQLEngine(db *sql.DB) *SQLEngine {
	return &SQLEngine{db: db}
}

// DB returns the underlying connection pool.
func (e *SQLEngine) DB() *sql.DB { return e.db }

// Query implements Engine.
func (e *SQLEngine) Query(ctx context.Context, query string) ([]map[string]any, error) {
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", ConvertDBError(err))
	}
	defer rows.Close()

	results, err := scanRows(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan query results: %w", ConvertDBError(err))
	}

	return results, nil
}

// scanRows scans SQL rows into a slice of maps.
func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		record := make(map[string]any, len(columns))
		for i, col := range columns {
			// Normalize []byte columns so callers see strings.
			if b, ok := values[i].([]byte); ok {
				record[col] = string(b)
			} else {
				record[col] = values[i]
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}
