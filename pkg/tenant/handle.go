package tenant

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the query surface repositories are allowed to use against a tenant
// store. *pgx.Conn and *pgxpool.Pool both satisfy it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Handle is an open, request-scoped session to one tenant's store. It is
// never shared between requests and is disposed exactly once at request end.
type Handle struct {
	record *Record
	db     DB
	closer func(context.Context) error

	once     sync.Once
	closeErr error
}

// NewHandle wraps an open database session for the given tenant. The closer
// may be nil for handles backed by externally managed connections (tests).
func NewHandle(record *Record, db DB, closer func(context.Context) error) *Handle {
	return &Handle{record: record, db: db, closer: closer}
}

// Tenant returns the directory record this handle was opened for.
func (h *Handle) Tenant() *Record { return h.record }

// DB returns the underlying query surface.
func (h *Handle) DB() DB { return h.db }

// Close disposes the underlying session. Safe for repeated calls; only the
// first call reaches the closer, later calls return its result.
func (h *Handle) Close(ctx context.Context) error {
	h.once.Do(func() {
		if h.closer != nil {
			h.closeErr = h.closer(ctx)
		}
	})
	return h.closeErr
}

// Connector opens a fresh handle to a tenant's store from its directory
// record. One handle per request; connectors never reuse handles across
// requests.
type Connector interface {
	Open(ctx context.Context, record *Record) (*Handle, error)
}

// ConnectorFunc adapts a function to the Connector interface.
type ConnectorFunc func(ctx context.Context, record *Record) (*Handle, error)

func (f ConnectorFunc) Open(ctx context.Context, record *Record) (*Handle, error) {
	return f(ctx, record)
}

// PgxConnector opens a dedicated pgx connection per request from the record's
// DSN. Connection pooling underneath is a tuning concern, not part of the
// contract.
type PgxConnector struct{}

func NewPgxConnector() *PgxConnector { return &PgxConnector{} }

func (c *PgxConnector) Open(ctx context.Context, record *Record) (*Handle, error) {
	conn, err := pgx.Connect(ctx, record.DSN)
	if err != nil {
		return nil, err
	}
	return NewHandle(record, conn, conn.Close), nil
}
