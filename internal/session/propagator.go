// Package session binds the caller's identity to a database connection for
// the lifetime of one logical request.
//
// The binding is connection-local state (a SQLite temp table) that the
// row-filtering predicates join against. A connection that was never bound
// has no session_identity table, so scoped queries fail closed instead of
// returning unfiltered rows.
//
// Per-request state machine: Unbound -> Binding -> Bound -> Unbinding ->
// Unbound. Both terminal success and terminal failure reach Unbound; a
// connection whose unbind fails is discarded from the pool rather than
// reused with a stale identity.
package session

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"log/slog"
	"time"

	"orgstack/internal/domain"
)

type sessionKey struct{}

// Querier is the subset of database operations repositories need. It is
// satisfied by *Session and by *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Session is a single bound connection plus the identity bound to it.
type Session struct {
	conn     *sql.Conn
	identity domain.Identity
}

// Identity returns the identity bound to this session.
func (s *Session) Identity() domain.Identity { return s.identity }

func (s *Session) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return s.conn.ExecContext(ctx, query, args...)
}

func (s *Session) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return s.conn.QueryContext(ctx, query, args...)
}

func (s *Session) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return s.conn.QueryRowContext(ctx, query, args...)
}

// BeginTx starts a transaction on the bound connection. The temp-table
// binding is connection state, so it stays visible inside the transaction.
func (s *Session) BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error) {
	return s.conn.BeginTx(ctx, opts)
}

// FromContext extracts the bound session. Repositories call this on every
// operation; running without a bound session is a programming error and is
// refused rather than silently querying unscoped.
func FromContext(ctx context.Context) (*Session, error) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	if !ok {
		return nil, fmt.Errorf("no database session bound to context")
	}
	return s, nil
}

// Propagator scopes identity bindings to pooled connections.
type Propagator struct {
	db  *sql.DB
	log *slog.Logger
}

// NewPropagator creates a Propagator over the given pool.
func NewPropagator(db *sql.DB, log *slog.Logger) *Propagator {
	return &Propagator{db: db, log: log}
}

// WithIdentity acquires a connection, binds the identity to it, invokes fn
// with the bound session in the context, and unconditionally unbinds on
// every exit path (error, panic, cancellation). A malformed identity aborts
// before any query runs.
func (p *Propagator) WithIdentity(ctx context.Context, id domain.Identity, fn func(ctx context.Context) error) error {
	if !id.Valid() {
		return domain.ErrUnauthenticated("identity subject is required")
	}

	conn, err := p.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}

	bound := false
	defer func() { p.release(conn, bound) }()

	if err := bindIdentity(ctx, conn, id); err != nil {
		return fmt.Errorf("bind identity: %w", err)
	}
	bound = true

	sess := &Session{conn: conn, identity: id}
	ctx = domain.WithIdentity(ctx, id)
	ctx = context.WithValue(ctx, sessionKey{}, sess)

	return fn(ctx)
}

// bindIdentity writes the identity into the connection-local temp table the
// scope predicates join against. DELETE-then-INSERT keeps the table a
// single-row binding even when the pool hands out a previously used
// connection.
func bindIdentity(ctx context.Context, conn *sql.Conn, id domain.Identity) error {
	stmts := []struct {
		query string
		args  []interface{}
	}{
		{query: `CREATE TEMP TABLE IF NOT EXISTS session_identity (identity_id TEXT NOT NULL)`},
		{query: `DELETE FROM session_identity`},
		{query: `INSERT INTO session_identity (identity_id) VALUES (?)`, args: []interface{}{id.ID}},
	}
	for _, s := range stmts {
		if _, err := conn.ExecContext(ctx, s.query, s.args...); err != nil {
			return err
		}
	}
	return nil
}

// release unbinds and returns the connection to the pool. It runs under a
// fresh context so a cancelled request cannot skip the unbind step. A
// connection that cannot be unbound is marked bad so the pool discards it.
func (p *Propagator) release(conn *sql.Conn, bound bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if bound {
		if _, err := conn.ExecContext(ctx, `DELETE FROM session_identity`); err != nil {
			p.log.Error("session unbind failed, discarding connection", "error", err)
			_ = conn.Raw(func(driverConn interface{}) error { return driver.ErrBadConn })
		}
	}
	_ = conn.Close()
}
