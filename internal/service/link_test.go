package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgstack/internal/domain"
)

func TestLinkDomainRequiresEditOnTargetCluster(t *testing.T) {
	s := setupServices(t)

	var clusterID, domainID string
	s.as(t, "alice", func(ctx context.Context) {
		clusterID = s.mustCluster(t, ctx, "alpha").ID
		domainID = s.mustDomain(t, ctx, "sales", clusterID).ID
		s.mustAddMember(t, ctx, clusterID, "bob", domain.RoleMember)
	})

	// A plain member can see the domain but may not rewire the hierarchy.
	s.as(t, "bob", func(ctx context.Context) {
		err := s.links.UnlinkDomain(ctx, clusterID, domainID)
		assert.ErrorAs(t, err, new(*domain.AccessDeniedError))
	})
}

func TestLinkDomainOutsideScopeReadsAsNotFound(t *testing.T) {
	s := setupServices(t)

	var domainID string
	s.as(t, "alice", func(ctx context.Context) {
		c := s.mustCluster(t, ctx, "alpha")
		domainID = s.mustDomain(t, ctx, "secret", c.ID).ID
	})

	s.as(t, "bob", func(ctx context.Context) {
		c := s.mustCluster(t, ctx, "beta")
		// Bob owns beta but cannot see alice's domain, so the link attempt
		// must not confirm its existence.
		err := s.links.LinkDomain(ctx, c.ID, domainID)
		assert.ErrorAs(t, err, new(*domain.NotFoundError))
	})
}

func TestLinkUnlinkIdempotentThroughService(t *testing.T) {
	s := setupServices(t)

	s.as(t, "alice", func(ctx context.Context) {
		c1 := s.mustCluster(t, ctx, "alpha")
		c2 := s.mustCluster(t, ctx, "beta")
		d := s.mustDomain(t, ctx, "sales", c1.ID)

		require.NoError(t, s.links.LinkDomain(ctx, c2.ID, d.ID))
		require.NoError(t, s.links.LinkDomain(ctx, c2.ID, d.ID))
		require.NoError(t, s.links.UnlinkDomain(ctx, c2.ID, d.ID))
		require.NoError(t, s.links.UnlinkDomain(ctx, c2.ID, d.ID))
	})
}

func TestLinkSoftDeletedDomainRefused(t *testing.T) {
	s := setupServices(t)

	s.as(t, "alice", func(ctx context.Context) {
		c1 := s.mustCluster(t, ctx, "alpha")
		c2 := s.mustCluster(t, ctx, "beta")
		d := s.mustDomain(t, ctx, "sales", c1.ID)
		require.NoError(t, s.domains.Delete(ctx, d.ID, false))

		err := s.links.LinkDomain(ctx, c2.ID, d.ID)
		assert.ErrorAs(t, err, new(*domain.NotFoundError))
	})
}

func TestLinkResourceAcrossDomains(t *testing.T) {
	s := setupServices(t)

	s.as(t, "alice", func(ctx context.Context) {
		c := s.mustCluster(t, ctx, "alpha")
		d1 := s.mustDomain(t, ctx, "sales", c.ID)
		d2 := s.mustDomain(t, ctx, "marketing", c.ID)
		res := s.mustResource(t, ctx, "report", d1.ID)

		require.NoError(t, s.links.LinkResource(ctx, d2.ID, res.ID))

		resources, total, err := s.resources.ListForDomain(ctx, d2.ID, domain.ListFilter{})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, resources, 1)
		assert.Equal(t, "report", resources[0].Name)

		require.NoError(t, s.links.UnlinkResource(ctx, d1.ID, res.ID))
		// Still reachable through the second domain.
		_, err = s.resources.Get(ctx, res.ID, false)
		assert.NoError(t, err)
	})
}
