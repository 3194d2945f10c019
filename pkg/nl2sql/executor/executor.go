// Package executor runs validated SELECT statements against the query database.
package executor

import (
	"context"
	"database/sql"
	"time"

	"chat-budgeting-be/pkg/apperror"
	"chat-budgeting-be/pkg/nl2sql/resultset"
)

// DB is the part of *sql.DB the executor needs.
type DB interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type Executor struct {
	db       DB
	readOnly bool
	timeout  time.Duration
}

// New returns an executor. With readOnly set every statement runs inside a
// read-only transaction that is always rolled back. A zero timeout leaves the
// caller's deadline in charge.
func New(db DB, readOnly bool, timeout time.Duration) *Executor {
	return &Executor{db: db, readOnly: readOnly, timeout: timeout}
}

// Execute runs stmt and returns its rows in result order. Every failure is an
// *apperror.ExecutionError carrying the engine message.
func (e *Executor) Execute(ctx context.Context, stmt string) ([]resultset.Row, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	if !e.readOnly {
		rows, err := e.db.QueryContext(ctx, stmt)
		if err != nil {
			return nil, &apperror.ExecutionError{Err: err}
		}
		return collect(rows)
	}

	tx, err := e.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, &apperror.ExecutionError{Err: err}
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, stmt)
	if err != nil {
		return nil, &apperror.ExecutionError{Err: err}
	}
	return collect(rows)
}

func collect(rows *sql.Rows) ([]resultset.Row, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, &apperror.ExecutionError{Err: err}
	}

	result := make([]resultset.Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &apperror.ExecutionError{Err: err}
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result = append(result, resultset.Row{Columns: columns, Values: values})
	}
	if err := rows.Err(); err != nil {
		return nil, &apperror.ExecutionError{Err: err}
	}
	return result, nil
}
