package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgstack/internal/domain"
)

func TestDomainCreateLinksToCluster(t *testing.T) {
	p := setupRepos(t)

	as(t, p, "alice", func(ctx context.Context) {
		c := mustCreateCluster(t, ctx, "alpha")
		d := mustCreateDomain(t, ctx, "sales", c.ID)

		ids, err := NewLinkRepo().ClusterIDsForDomain(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{c.ID}, ids)
	})
}

func TestDomainCreateIntoMissingClusterFails(t *testing.T) {
	p := setupRepos(t)

	as(t, p, "alice", func(ctx context.Context) {
		_, err := NewDomainRepo().Create(ctx, &domain.Domain{Name: "sales"}, "missing")
		assert.ErrorAs(t, err, new(*domain.NotFoundError))
	})
}

func TestDomainVisibilityThroughLinks(t *testing.T) {
	p := setupRepos(t)

	var domainID string
	as(t, p, "alice", func(ctx context.Context) {
		c := mustCreateCluster(t, ctx, "alpha")
		domainID = mustCreateDomain(t, ctx, "sales", c.ID).ID
	})

	as(t, p, "mallory", func(ctx context.Context) {
		_, err := NewDomainRepo().GetByID(ctx, domainID, false)
		assert.ErrorAs(t, err, new(*domain.NotFoundError))

		_, err = NewDomainRepo().Update(ctx, domainID, domain.UpdateDomainRequest{Name: strPtr("x")})
		assert.ErrorAs(t, err, new(*domain.NotFoundError))

		err = NewDomainRepo().SoftDelete(ctx, domainID)
		assert.ErrorAs(t, err, new(*domain.NotFoundError))
	})
}

func TestDomainListForCluster(t *testing.T) {
	p := setupRepos(t)

	as(t, p, "alice", func(ctx context.Context) {
		c1 := mustCreateCluster(t, ctx, "alpha")
		c2 := mustCreateCluster(t, ctx, "beta")
		mustCreateDomain(t, ctx, "sales", c1.ID)
		mustCreateDomain(t, ctx, "marketing", c1.ID)
		mustCreateDomain(t, ctx, "ops", c2.ID)

		domains, total, err := NewDomainRepo().ListForCluster(ctx, c1.ID, domain.ListFilter{
			PageRequest: domain.PageRequest{SortBy: "name"},
		})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		require.Len(t, domains, 2)
		assert.Equal(t, "marketing", domains[0].Name)
		assert.Equal(t, "sales", domains[1].Name)
	})
}

func TestDomainSoftDeleteAndCounts(t *testing.T) {
	p := setupRepos(t)

	as(t, p, "alice", func(ctx context.Context) {
		c := mustCreateCluster(t, ctx, "alpha")
		d := mustCreateDomain(t, ctx, "sales", c.ID)
		mustCreateResource(t, ctx, "report", d.ID)

		n, err := NewDomainRepo().CountLiveResources(ctx, d.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		require.NoError(t, NewDomainRepo().SoftDelete(ctx, d.ID))

		// Soft-deleted domains drop out of cluster listings and live counts.
		_, total, err := NewDomainRepo().ListForCluster(ctx, c.ID, domain.ListFilter{})
		require.NoError(t, err)
		assert.Zero(t, total)

		liveDomains, err := NewClusterRepo().CountLiveDomains(ctx, c.ID)
		require.NoError(t, err)
		assert.Zero(t, liveDomains)
	})
}
