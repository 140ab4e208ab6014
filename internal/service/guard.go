// Package service implements the application-level operations of the
// hierarchy service: the authorization guard, membership management, and
// cluster/domain/resource lifecycle.
package service

import (
	"context"

	"orgstack/internal/domain"
)

// Guard performs application-level permission checks on top of the
// database-level row filtering. Both layers read the same membership rows;
// the data layer grants coarse visibility to any member while the guard
// applies the role/action matrix.
type Guard struct {
	memberships domain.MembershipRepository
	links       domain.LinkRepository
}

// NewGuard creates a Guard backed by the membership and link repositories.
func NewGuard(memberships domain.MembershipRepository, links domain.LinkRepository) *Guard {
	return &Guard{memberships: memberships, links: links}
}

// identityID resolves the caller from the request context.
func identityID(ctx context.Context) (string, error) {
	id, ok := domain.IdentityFromContext(ctx)
	if !ok || !id.Valid() {
		return "", domain.ErrUnauthenticated("authentication required")
	}
	return id.ID, nil
}

// AuthorizeCluster checks that the caller may perform action on the cluster.
// A caller with no membership gets a not-found error so that permission
// checks never reveal whether the cluster exists.
func (g *Guard) AuthorizeCluster(ctx context.Context, clusterID string, action domain.Action) error {
	callerID, err := identityID(ctx)
	if err != nil {
		return err
	}

	role, err := g.memberships.RoleOf(ctx, clusterID, callerID)
	if err != nil {
		return err
	}
	if role == domain.RoleNone {
		return domain.ErrNotFound("cluster %s not found", clusterID)
	}
	if !role.Allows(action) {
		return domain.ErrAccessDenied("role %s may not %s on cluster %s", role, action, clusterID)
	}
	return nil
}

// AuthorizeDomain checks the action against every cluster the domain is
// linked to; holding it on any one of them is sufficient. An unlinked or
// nonexistent domain yields not found.
func (g *Guard) AuthorizeDomain(ctx context.Context, domainID string, action domain.Action) error {
	clusterIDs, err := g.links.ClusterIDsForDomain(ctx, domainID)
	if err != nil {
		return err
	}
	return g.authorizeAny(ctx, clusterIDs, action, "domain", domainID)
}

// AuthorizeResource resolves the resource's domains, then their clusters,
// and checks the action against that cluster set.
func (g *Guard) AuthorizeResource(ctx context.Context, resourceID string, action domain.Action) error {
	domainIDs, err := g.links.DomainIDsForResource(ctx, resourceID)
	if err != nil {
		return err
	}

	seen := map[string]bool{}
	var clusterIDs []string
	for _, domainID := range domainIDs {
		ids, err := g.links.ClusterIDsForDomain(ctx, domainID)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				clusterIDs = append(clusterIDs, id)
			}
		}
	}
	return g.authorizeAny(ctx, clusterIDs, action, "resource", resourceID)
}

// authorizeAny grants the action if any governing cluster does. Memberships
// elsewhere only upgrade the failure from not-found to denied: a caller who
// can see the entity but lacks the action learns it exists, nothing more.
func (g *Guard) authorizeAny(ctx context.Context, clusterIDs []string, action domain.Action, kind, id string) error {
	callerID, err := identityID(ctx)
	if err != nil {
		return err
	}

	visible := false
	for _, clusterID := range clusterIDs {
		role, err := g.memberships.RoleOf(ctx, clusterID, callerID)
		if err != nil {
			return err
		}
		if role == domain.RoleNone {
			continue
		}
		visible = true
		if role.Allows(action) {
			return nil
		}
	}
	if !visible {
		return domain.ErrNotFound("%s %s not found", kind, id)
	}
	return domain.ErrAccessDenied("%s on %s %s denied", action, kind, id)
}
