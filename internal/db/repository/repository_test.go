package repository

import (
	"context"
	"log/slog"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"orgstack/internal/db"
	"orgstack/internal/domain"
	"orgstack/internal/session"
)

// setupRepos opens a migrated test database and returns a propagator over its
// write pool. Repository tests route everything through the write pool; the
// read/write split is covered by the db and session packages.
func setupRepos(t *testing.T) *session.Propagator {
	t.Helper()
	writeDB, _ := db.OpenTestSQLite(t)
	return session.NewPropagator(writeDB, slog.Default())
}

// as runs fn with a session bound to the given identity and fails the test on
// a propagator error. Errors from the work itself are asserted inside fn.
func as(t *testing.T, p *session.Propagator, identityID string, fn func(ctx context.Context)) {
	t.Helper()
	err := p.WithIdentity(context.Background(), domain.Identity{ID: identityID}, func(ctx context.Context) error {
		fn(ctx)
		return nil
	})
	require.NoError(t, err)
}

// mustCreateCluster creates a cluster owned by the bound identity.
func mustCreateCluster(t *testing.T, ctx context.Context, name string) *domain.Cluster {
	t.Helper()
	id, ok := domain.IdentityFromContext(ctx)
	require.True(t, ok)
	c, err := NewClusterRepo().Create(ctx, &domain.Cluster{Name: name}, id.ID)
	require.NoError(t, err)
	return c
}

func mustCreateDomain(t *testing.T, ctx context.Context, name, clusterID string) *domain.Domain {
	t.Helper()
	d, err := NewDomainRepo().Create(ctx, &domain.Domain{Name: name}, clusterID)
	require.NoError(t, err)
	return d
}

func mustCreateResource(t *testing.T, ctx context.Context, name, domainID string) *domain.Resource {
	t.Helper()
	res, err := NewResourceRepo().Create(ctx, &domain.Resource{Name: name, Type: "dataset"}, domainID)
	require.NoError(t, err)
	return res
}
