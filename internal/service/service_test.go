package service

import (
	"context"
	"log/slog"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"orgstack/internal/db"
	"orgstack/internal/db/repository"
	"orgstack/internal/domain"
	"orgstack/internal/session"
)

// services bundles the full stack over a temporary database so tests
// exercise the guard and the row filtering together.
type services struct {
	propagator  *session.Propagator
	clusters    *ClusterService
	domains     *DomainService
	resources   *ResourceService
	links       *LinkService
	memberships *MembershipService
}

func setupServices(t *testing.T) *services {
	t.Helper()

	writeDB, _ := db.OpenTestSQLite(t)

	membershipRepo := repository.NewMembershipRepo()
	linkRepo := repository.NewLinkRepo()
	guard := NewGuard(membershipRepo, linkRepo)

	clusterRepo := repository.NewClusterRepo()
	domainRepo := repository.NewDomainRepo()
	resourceRepo := repository.NewResourceRepo()

	return &services{
		propagator:  session.NewPropagator(writeDB, slog.Default()),
		clusters:    NewClusterService(guard, clusterRepo),
		domains:     NewDomainService(guard, domainRepo),
		resources:   NewResourceService(guard, resourceRepo),
		links:       NewLinkService(guard, linkRepo, domainRepo, resourceRepo),
		memberships: NewMembershipService(guard, membershipRepo),
	}
}

func (s *services) as(t *testing.T, identityID string, fn func(ctx context.Context)) {
	t.Helper()
	err := s.propagator.WithIdentity(context.Background(), domain.Identity{ID: identityID}, func(ctx context.Context) error {
		fn(ctx)
		return nil
	})
	require.NoError(t, err)
}

func (s *services) mustCluster(t *testing.T, ctx context.Context, name string) *domain.Cluster {
	t.Helper()
	c, err := s.clusters.Create(ctx, domain.CreateClusterRequest{Name: name})
	require.NoError(t, err)
	return c
}

func (s *services) mustDomain(t *testing.T, ctx context.Context, name, clusterID string) *domain.Domain {
	t.Helper()
	d, err := s.domains.Create(ctx, clusterID, domain.CreateDomainRequest{Name: name})
	require.NoError(t, err)
	return d
}

func (s *services) mustResource(t *testing.T, ctx context.Context, name, domainID string) *domain.Resource {
	t.Helper()
	res, err := s.resources.Create(ctx, domainID, domain.CreateResourceRequest{Name: name, Type: "dataset"})
	require.NoError(t, err)
	return res
}

func (s *services) mustAddMember(t *testing.T, ctx context.Context, clusterID, identityID string, role domain.Role) {
	t.Helper()
	_, err := s.memberships.AddMember(ctx, domain.AddMemberRequest{
		ClusterID: clusterID, IdentityID: identityID, Role: role,
	})
	require.NoError(t, err)
}

func ptr(s string) *string { return &s }
