package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/waretrack/inventory-service/internal/query"
	"github.com/waretrack/inventory-service/internal/query/dto"
)

// PGExecutor runs guarded console statements with a row cap and timeout. The
// guard has already validated the statement; this layer only caps it.
type PGExecutor struct {
	db      *sqlx.DB
	maxRows int
	timeout time.Duration
}

func NewPGExecutor(db *sqlx.DB, maxRows int, timeout time.Duration) query.Executor {
	return &PGExecutor{
		db:      db,
		maxRows: maxRows,
		timeout: timeout,
	}
}

func (e *PGExecutor) Execute(ctx context.Context, sqlText string) (*dto.Result, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	// Wrapping caps the statement regardless of its own LIMIT. One extra row
	// tells us whether the result was truncated.
	inner := strings.TrimSuffix(strings.TrimSpace(sqlText), ";")
	capped := fmt.Sprintf("SELECT * FROM (%s) AS _console LIMIT %d", inner, e.maxRows+1)

	rows, err := e.db.QueryxContext(ctx, capped)
	if err != nil {
		return nil, fmt.Errorf("execute console query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := &dto.Result{SQL: sqlText, Columns: columns, Rows: [][]interface{}{}}
	for rows.Next() {
		if len(result.Rows) == e.maxRows {
			result.Truncated = true
			break
		}
		row, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}
		result.Rows = append(result.Rows, normalize(row))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	result.RowCount = len(result.Rows)
	return result, nil
}

// normalize makes driver byte slices JSON-friendly.
func normalize(row []interface{}) []interface{} {
	for i, v := range row {
		if b, ok := v.([]byte); ok {
			row[i] = string(b)
		}
	}
	return row
}
