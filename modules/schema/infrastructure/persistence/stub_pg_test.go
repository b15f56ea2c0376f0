package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type beginFunc func(ctx context.Context) (pgx.Tx, error)

func (f beginFunc) Begin(ctx context.Context) (pgx.Tx, error) { return f(ctx) }

// scriptTx serves scripted QueryRow/Query results in FIFO order and records
// every Exec so tests can assert SQL shape and argument order.
type scriptTx struct {
	rowResults  []stubRow
	rowsResults []*stubRows

	execSQL  []string
	execArgs [][]any
	execErr  error

	committed  bool
	rolledBack bool
	commitErr  error
}

func (t *scriptTx) Begin(context.Context) (pgx.Tx, error) { return t, nil }

func (t *scriptTx) Commit(context.Context) error {
	t.committed = true
	return t.commitErr
}

func (t *scriptTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

func (t *scriptTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *scriptTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return fakeBatchResults{} }
func (t *scriptTx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (t *scriptTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *scriptTx) Conn() *pgx.Conn { return nil }

func (t *scriptTx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.execSQL = append(t.execSQL, sql)
	t.execArgs = append(t.execArgs, args)
	return pgconn.CommandTag{}, t.execErr
}

func (t *scriptTx) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	if len(t.rowsResults) == 0 {
		return &stubRows{}, nil
	}
	out := t.rowsResults[0]
	t.rowsResults = t.rowsResults[1:]
	return out, nil
}

func (t *scriptTx) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	if len(t.rowResults) == 0 {
		return stubRow{err: errors.New("row not scripted")}
	}
	out := t.rowResults[0]
	t.rowResults = t.rowResults[1:]
	return out
}

type stubRow struct {
	vals []any
	err  error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i := range dest {
		if i >= len(r.vals) || r.vals[i] == nil {
			continue
		}
		if err := assign(dest[i], r.vals[i]); err != nil {
			return err
		}
	}
	return nil
}

func assign(dest any, val any) error {
	switch d := dest.(type) {
	case *string:
		*d = val.(string)
	case *bool:
		*d = val.(bool)
	case *int:
		*d = val.(int)
	case *int64:
		*d = val.(int64)
	case *time.Time:
		*d = val.(time.Time)
	case *[]string:
		*d = val.([]string)
	default:
		return errors.New("stub: unsupported scan destination")
	}
	return nil
}

type stubRows struct {
	rows []stubRow
	idx  int
}

func (r *stubRows) Close()                                       {}
func (r *stubRows) Err() error                                   { return nil }
func (r *stubRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }

func (r *stubRows) Next() bool {
	return r.idx < len(r.rows)
}

func (r *stubRows) Scan(dest ...any) error {
	row := r.rows[r.idx]
	r.idx++
	return row.Scan(dest...)
}

func (r *stubRows) Values() ([]any, error) { return nil, nil }
func (r *stubRows) RawValues() [][]byte    { return nil }
func (r *stubRows) Conn() *pgx.Conn        { return nil }

type fakeBatchResults struct{}

func (fakeBatchResults) Exec() (pgconn.CommandTag, error) { return pgconn.CommandTag{}, nil }
func (fakeBatchResults) Query() (pgx.Rows, error)         { return &stubRows{}, nil }
func (fakeBatchResults) QueryRow() pgx.Row                { return stubRow{} }
func (fakeBatchResults) Close() error                     { return nil }
