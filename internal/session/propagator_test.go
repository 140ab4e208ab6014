package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internaldb "orgstack/internal/db"
	"orgstack/internal/domain"
)

func testPropagator(t *testing.T) *Propagator {
	t.Helper()
	writeDB, _ := internaldb.OpenTestSQLite(t)
	return NewPropagator(writeDB, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func boundIdentityCount(t *testing.T, ctx context.Context) int {
	t.Helper()
	sess, err := FromContext(ctx)
	require.NoError(t, err)
	var n int
	require.NoError(t, sess.QueryRowContext(ctx, `SELECT COUNT(*) FROM session_identity`).Scan(&n))
	return n
}

func TestPropagator_BindsIdentityForCallback(t *testing.T) {
	p := testPropagator(t)

	err := p.WithIdentity(context.Background(), domain.Identity{ID: "alice"}, func(ctx context.Context) error {
		sess, err := FromContext(ctx)
		require.NoError(t, err)
		assert.Equal(t, "alice", sess.Identity().ID)

		var got string
		require.NoError(t, sess.QueryRowContext(ctx, `SELECT identity_id FROM session_identity`).Scan(&got))
		assert.Equal(t, "alice", got)

		id, ok := domain.IdentityFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, "alice", id.ID)
		return nil
	})
	require.NoError(t, err)
}

func TestPropagator_UnbindsAfterReturn(t *testing.T) {
	p := testPropagator(t)
	ctx := context.Background()

	require.NoError(t, p.WithIdentity(ctx, domain.Identity{ID: "alice"}, func(ctx context.Context) error {
		return nil
	}))

	// The write pool has a single connection, so the next binding reuses it.
	// A leaked binding would show up as a second row here.
	require.NoError(t, p.WithIdentity(ctx, domain.Identity{ID: "bob"}, func(ctx context.Context) error {
		assert.Equal(t, 1, boundIdentityCount(t, ctx))
		sess, err := FromContext(ctx)
		require.NoError(t, err)
		var got string
		require.NoError(t, sess.QueryRowContext(ctx, `SELECT identity_id FROM session_identity`).Scan(&got))
		assert.Equal(t, "bob", got)
		return nil
	}))
}

func TestPropagator_UnbindsOnError(t *testing.T) {
	p := testPropagator(t)
	ctx := context.Background()

	sentinel := errors.New("boom")
	err := p.WithIdentity(ctx, domain.Identity{ID: "alice"}, func(ctx context.Context) error {
		return sentinel
	})
	require.ErrorIs(t, err, sentinel)

	require.NoError(t, p.WithIdentity(ctx, domain.Identity{ID: "bob"}, func(ctx context.Context) error {
		assert.Equal(t, 1, boundIdentityCount(t, ctx))
		return nil
	}))
}

func TestPropagator_UnbindsOnCancellation(t *testing.T) {
	p := testPropagator(t)

	ctx, cancel := context.WithCancel(context.Background())
	err := p.WithIdentity(ctx, domain.Identity{ID: "alice"}, func(ctx context.Context) error {
		cancel()
		return ctx.Err()
	})
	require.Error(t, err)

	// Unbind runs under a fresh context, so the reused connection is clean.
	require.NoError(t, p.WithIdentity(context.Background(), domain.Identity{ID: "bob"}, func(ctx context.Context) error {
		assert.Equal(t, 1, boundIdentityCount(t, ctx))
		return nil
	}))
}

func TestPropagator_RejectsInvalidIdentity(t *testing.T) {
	p := testPropagator(t)

	called := false
	err := p.WithIdentity(context.Background(), domain.Identity{}, func(ctx context.Context) error {
		called = true
		return nil
	})
	require.Error(t, err)
	var unauthenticated *domain.UnauthenticatedError
	assert.ErrorAs(t, err, &unauthenticated)
	assert.False(t, called, "callback must not run without a binding")
}

func TestFromContext_Unbound(t *testing.T) {
	_, err := FromContext(context.Background())
	require.Error(t, err)
}
