// Package tenanttest provides scripted fakes for the tenant.DB query surface
// so repository and permission tests run without a database.
package tenanttest

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is a scripted fake for tenant.DB. Configure the hook funcs per test;
// unconfigured calls fail with a descriptive error. Queries executed are
// recorded and retrievable with Log, which concurrency tests use to assert
// store isolation.
type DB struct {
	Tag string // identifies whose store this fake represents

	ExecFunc     func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryFunc    func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRowFunc func(ctx context.Context, sql string, args ...any) pgx.Row

	mu  sync.Mutex
	log []string
}

func (d *DB) record(sql string) {
	d.mu.Lock()
	d.log = append(d.log, sql)
	d.mu.Unlock()
}

// Log returns the SQL statements executed against this fake, in order.
func (d *DB) Log() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, len(d.log))
	copy(out, d.log)
	return out
}

func (d *DB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	d.record(sql)
	if d.ExecFunc == nil {
		return pgconn.CommandTag{}, errors.New("tenanttest: Exec not scripted")
	}
	return d.ExecFunc(ctx, sql, args...)
}

func (d *DB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	d.record(sql)
	if d.QueryFunc == nil {
		return nil, errors.New("tenanttest: Query not scripted")
	}
	return d.QueryFunc(ctx, sql, args...)
}

func (d *DB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	d.record(sql)
	if d.QueryRowFunc == nil {
		return ErrRow(errors.New("tenanttest: QueryRow not scripted"))
	}
	return d.QueryRowFunc(ctx, sql, args...)
}

// Rows returns scripted pgx.Rows yielding one row per element of values.
func Rows(values ...[]any) pgx.Rows {
	return &fakeRows{rows: values, idx: -1}
}

// ErrRows returns pgx.Rows that fail with err after yielding no rows.
func ErrRows(err error) pgx.Rows {
	return &fakeRows{err: err, idx: -1}
}

// Row returns a scripted pgx.Row scanning the given values.
func Row(values ...any) pgx.Row {
	return fakeRow{values: values}
}

// ErrRow returns a pgx.Row whose Scan fails with err.
func ErrRow(err error) pgx.Row {
	return fakeRow{err: err}
}

// NoRow returns a pgx.Row reporting pgx.ErrNoRows.
func NoRow() pgx.Row {
	return fakeRow{err: pgx.ErrNoRows}
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(dest, r.values)
}

type fakeRows struct {
	rows [][]any
	idx  int
	err  error
}

func (r *fakeRows) Next() bool {
	if r.err != nil {
		return false
	}
	r.idx++
	return r.idx < len(r.rows)
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.idx < 0 || r.idx >= len(r.rows) {
		return errors.New("tenanttest: Scan without Next")
	}
	return assign(dest, r.rows[r.idx])
}

func (r *fakeRows) Close()                                       {}
func (r *fakeRows) Err() error                                   { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error) {
	if r.idx < 0 || r.idx >= len(r.rows) {
		return nil, errors.New("tenanttest: Values without Next")
	}
	return r.rows[r.idx], nil
}
func (r *fakeRows) RawValues() [][]byte { return nil }
func (r *fakeRows) Conn() *pgx.Conn     { return nil }

// assign copies scripted values into scan destinations, converting where the
// types allow it.
func assign(dest []any, values []any) error {
	if len(dest) != len(values) {
		return errors.New("tenanttest: scan destination count mismatch")
	}
	for i, v := range values {
		dv := reflect.ValueOf(dest[i])
		if dv.Kind() != reflect.Pointer || dv.IsNil() {
			return errors.New("tenanttest: scan destination must be a non-nil pointer")
		}
		elem := dv.Elem()
		if v == nil {
			elem.SetZero()
			continue
		}
		sv := reflect.ValueOf(v)
		if !sv.Type().AssignableTo(elem.Type()) {
			if !sv.Type().ConvertibleTo(elem.Type()) {
				return errors.New("tenanttest: cannot scan " + sv.Type().String() + " into " + elem.Type().String())
			}
			sv = sv.Convert(elem.Type())
		}
		elem.Set(sv)
	}
	return nil
}
