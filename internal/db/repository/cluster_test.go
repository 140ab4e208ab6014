package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgstack/internal/domain"
)

func TestClusterCreateSetsOwnerMembership(t *testing.T) {
	p := setupRepos(t)

	as(t, p, "alice", func(ctx context.Context) {
		c := mustCreateCluster(t, ctx, "alpha")
		assert.NotEmpty(t, c.ID)
		assert.Equal(t, "alpha", c.Name)
		assert.Nil(t, c.DeletedAt)

		role, err := NewMembershipRepo().RoleOf(ctx, c.ID, "alice")
		require.NoError(t, err)
		assert.Equal(t, domain.RoleOwner, role)
	})
}

func TestClusterInvisibleToNonMembers(t *testing.T) {
	p := setupRepos(t)

	var clusterID string
	as(t, p, "alice", func(ctx context.Context) {
		clusterID = mustCreateCluster(t, ctx, "alpha").ID
	})

	as(t, p, "mallory", func(ctx context.Context) {
		_, err := NewClusterRepo().GetByID(ctx, clusterID, false)
		assert.ErrorAs(t, err, new(*domain.NotFoundError))

		clusters, total, err := NewClusterRepo().List(ctx, domain.ListFilter{})
		require.NoError(t, err)
		assert.Empty(t, clusters)
		assert.Zero(t, total)

		_, err = NewClusterRepo().Update(ctx, clusterID, domain.UpdateClusterRequest{Name: strPtr("stolen")})
		assert.ErrorAs(t, err, new(*domain.NotFoundError))

		err = NewClusterRepo().SoftDelete(ctx, clusterID)
		assert.ErrorAs(t, err, new(*domain.NotFoundError))
	})

	// The owner still sees the untouched cluster.
	as(t, p, "alice", func(ctx context.Context) {
		c, err := NewClusterRepo().GetByID(ctx, clusterID, false)
		require.NoError(t, err)
		assert.Equal(t, "alpha", c.Name)
	})
}

func TestClusterListFiltersAndPaginates(t *testing.T) {
	p := setupRepos(t)

	as(t, p, "alice", func(ctx context.Context) {
		mustCreateCluster(t, ctx, "analytics")
		mustCreateCluster(t, ctx, "billing")
		mustCreateCluster(t, ctx, "archive")

		clusters, total, err := NewClusterRepo().List(ctx, domain.ListFilter{
			PageRequest: domain.PageRequest{SortBy: "name", Search: "a"},
		})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		require.Len(t, clusters, 2)
		assert.Equal(t, "analytics", clusters[0].Name)
		assert.Equal(t, "archive", clusters[1].Name)

		clusters, total, err = NewClusterRepo().List(ctx, domain.ListFilter{
			PageRequest: domain.PageRequest{Page: 2, PerPage: 2, SortBy: "name"},
		})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		require.Len(t, clusters, 1)
		assert.Equal(t, "billing", clusters[0].Name)
	})
}

func TestClusterSoftDeleteExcludedByDefault(t *testing.T) {
	p := setupRepos(t)

	as(t, p, "alice", func(ctx context.Context) {
		c := mustCreateCluster(t, ctx, "alpha")

		require.NoError(t, NewClusterRepo().SoftDelete(ctx, c.ID))

		_, err := NewClusterRepo().GetByID(ctx, c.ID, false)
		assert.ErrorAs(t, err, new(*domain.NotFoundError))

		got, err := NewClusterRepo().GetByID(ctx, c.ID, true)
		require.NoError(t, err)
		assert.NotNil(t, got.DeletedAt)

		_, total, err := NewClusterRepo().List(ctx, domain.ListFilter{})
		require.NoError(t, err)
		assert.Zero(t, total)

		_, total, err = NewClusterRepo().List(ctx, domain.ListFilter{IncludeDeleted: true})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)

		// Soft delete of an already deleted cluster reports not found.
		err = NewClusterRepo().SoftDelete(ctx, c.ID)
		assert.ErrorAs(t, err, new(*domain.NotFoundError))
	})
}

func TestClusterLiveNameUniqueness(t *testing.T) {
	p := setupRepos(t)

	as(t, p, "alice", func(ctx context.Context) {
		c := mustCreateCluster(t, ctx, "alpha")

		_, err := NewClusterRepo().Create(ctx, &domain.Cluster{Name: "alpha"}, "alice")
		assert.ErrorAs(t, err, new(*domain.ConflictError))

		// The name frees up once the holder is soft-deleted.
		require.NoError(t, NewClusterRepo().SoftDelete(ctx, c.ID))
		_, err = NewClusterRepo().Create(ctx, &domain.Cluster{Name: "alpha"}, "alice")
		assert.NoError(t, err)
	})
}

func TestClusterUpdate(t *testing.T) {
	p := setupRepos(t)

	as(t, p, "alice", func(ctx context.Context) {
		c := mustCreateCluster(t, ctx, "alpha")

		got, err := NewClusterRepo().Update(ctx, c.ID, domain.UpdateClusterRequest{
			Name:        strPtr("alpha-2"),
			Description: strPtr("renamed"),
		})
		require.NoError(t, err)
		assert.Equal(t, "alpha-2", got.Name)
		assert.Equal(t, "renamed", got.Description)

		_, err = NewClusterRepo().Update(ctx, "missing", domain.UpdateClusterRequest{Name: strPtr("x")})
		assert.ErrorAs(t, err, new(*domain.NotFoundError))
	})
}

func TestClusterHardDeleteCascades(t *testing.T) {
	p := setupRepos(t)

	as(t, p, "alice", func(ctx context.Context) {
		c := mustCreateCluster(t, ctx, "alpha")
		d := mustCreateDomain(t, ctx, "sales", c.ID)

		n, err := NewClusterRepo().CountLiveDomains(ctx, c.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		require.NoError(t, NewClusterRepo().HardDelete(ctx, c.ID))

		// Membership and link rows cascade; the domain row itself survives
		// but is no longer reachable through any cluster.
		clusterIDs, err := NewLinkRepo().ClusterIDsForDomain(ctx, d.ID)
		require.NoError(t, err)
		assert.Empty(t, clusterIDs)
	})
}

func strPtr(s string) *string { return &s }
