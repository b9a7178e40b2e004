// Package query executes learner SQL against sandbox databases.
// Statements run exactly as given: no sanitization, no transformation,
// no restriction. The sandbox is the safety boundary, not the executor.
package query

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sqlean/sqlean/internal/errors"
	"github.com/sqlean/sqlean/pkg/types"
)

// Executor runs SQL against a database handle, capturing either a tabular
// result or the engine's failure. Engine errors never escape as process
// errors; they travel inside the Result.
type Executor struct {
	timeout time.Duration
}

// NewExecutor creates an executor with the given per-query timeout.
// A non-positive timeout disables the bound.
func NewExecutor(timeout time.Duration) *Executor {
	return &Executor{timeout: timeout}
}

// Execute runs one statement or statement batch against db.
// Column and row order are preserved exactly as the engine returned them;
// ordering decisions belong to the validator.
func (e *Executor) Execute(ctx context.Context, db *sql.DB, sqlText string) *types.Result {
	result := &types.Result{AttemptID: uuid.New().String()}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	if ReturnsRows(sqlText) {
		result.Columns, result.Rows, result.Err = e.queryRows(ctx, db, sqlText)
	} else {
		_, err := db.ExecContext(ctx, sqlText)
		result.Err = e.wrapEngineError(ctx, err)
	}
	result.Duration = time.Since(start)

	return result
}

func (e *Executor) queryRows(ctx context.Context, db *sql.DB, sqlText string) ([]string, [][]interface{}, error) {
	rows, err := db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, nil, e.wrapEngineError(ctx, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, e.wrapEngineError(ctx, err)
	}

	collected := make([][]interface{}, 0, 16)
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, e.wrapEngineError(ctx, err)
		}
		collected = append(collected, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, e.wrapEngineError(ctx, err)
	}

	return cols, collected, nil
}

// wrapEngineError converts a driver error into a recoverable query error,
// distinguishing timeouts from ordinary engine failures.
func (e *Executor) wrapEngineError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() == context.DeadlineExceeded {
		return errors.NewQueryError(errors.CodeExecutionTimeout,
			"query exceeded the time limit of "+e.timeout.String())
	}
	// The cause carries the engine's message verbatim; it is what the
	// learner sees.
	return errors.Wrap(errors.ErrCategoryQuery, errors.CodeExecutionFailed,
		"query execution failed", err)
}

// ReturnsRows reports whether the statement is expected to produce a result
// set. DML and DDL go through Exec so multi-statement batches apply fully.
// Leading comments and empty statements are skipped before the first
// keyword is read.
func ReturnsRows(sqlText string) bool {
	trimmed := strings.TrimSpace(sqlText)
scan:
	for {
		switch {
		case strings.HasPrefix(trimmed, "--"):
			i := strings.IndexByte(trimmed, '\n')
			if i < 0 {
				return false
			}
			trimmed = strings.TrimSpace(trimmed[i+1:])
		case strings.HasPrefix(trimmed, "/*"):
			i := strings.Index(trimmed[2:], "*/")
			if i < 0 {
				return false
			}
			trimmed = strings.TrimSpace(trimmed[2+i+2:])
		case strings.HasPrefix(trimmed, ";"):
			trimmed = strings.TrimSpace(trimmed[1:])
		default:
			break scan
		}
	}

	word := trimmed
	if i := strings.IndexFunc(trimmed, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '(' || r == ';'
	}); i >= 0 {
		word = trimmed[:i]
	}

	switch strings.ToUpper(word) {
	case "SELECT", "WITH", "VALUES", "PRAGMA", "EXPLAIN":
		return true
	default:
		return false
	}
}
