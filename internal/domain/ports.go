package domain

import "context"

// ListFilter combines pagination with the explicit soft-delete switch.
// Soft-deleted rows are excluded unless IncludeDeleted is set.
type ListFilter struct {
	PageRequest
	IncludeDeleted bool
}

// ClusterRepository persists clusters. All methods run against the
// caller's bound session; rows outside the membership closure are invisible.
type ClusterRepository interface {
	// Create inserts the cluster and the creator's owner membership in one
	// transaction.
	Create(ctx context.Context, c *Cluster, ownerIdentityID string) (*Cluster, error)
	GetByID(ctx context.Context, id string, includeDeleted bool) (*Cluster, error)
	List(ctx context.Context, filter ListFilter) ([]Cluster, int64, error)
	Update(ctx context.Context, id string, req UpdateClusterRequest) (*Cluster, error)
	SoftDelete(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
	// CountLiveDomains counts non-deleted domains linked to the cluster.
	CountLiveDomains(ctx context.Context, clusterID string) (int64, error)
}

// DomainRepository persists domains.
type DomainRepository interface {
	// Create inserts the domain and links it to the given cluster in one
	// transaction. Domains never exist unlinked.
	Create(ctx context.Context, d *Domain, clusterID string) (*Domain, error)
	GetByID(ctx context.Context, id string, includeDeleted bool) (*Domain, error)
	ListForCluster(ctx context.Context, clusterID string, filter ListFilter) ([]Domain, int64, error)
	Update(ctx context.Context, id string, req UpdateDomainRequest) (*Domain, error)
	SoftDelete(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
	// CountLiveResources counts non-deleted resources linked to the domain.
	CountLiveResources(ctx context.Context, domainID string) (int64, error)
}

// ResourceRepository persists resources.
type ResourceRepository interface {
	Create(ctx context.Context, r *Resource, domainID string) (*Resource, error)
	GetByID(ctx context.Context, id string, includeDeleted bool) (*Resource, error)
	ListForDomain(ctx context.Context, domainID string, filter ListFilter) ([]Resource, int64, error)
	Update(ctx context.Context, id string, req UpdateResourceRequest) (*Resource, error)
	SoftDelete(ctx context.Context, id string) error
	HardDelete(ctx context.Context, id string) error
}

// MembershipRepository owns per-cluster role assignments. UpdateRole and
// Remove re-check the at-least-one-owner invariant inside their transaction
// and roll back with a ConflictError when it would be violated.
type MembershipRepository interface {
	Add(ctx context.Context, req AddMemberRequest) (*ClusterMembership, error)
	UpdateRole(ctx context.Context, clusterID, identityID string, role Role) (*ClusterMembership, error)
	Remove(ctx context.Context, clusterID, identityID string) error
	// RoleOf returns RoleNone (no error) when the identity holds no membership.
	RoleOf(ctx context.Context, clusterID, identityID string) (Role, error)
	List(ctx context.Context, clusterID string, page PageRequest) ([]ClusterMembership, int64, error)
}

// LinkRepository manages the hierarchy junctions. Link and Unlink are
// idempotent: repeating a call converges on the same state without error.
type LinkRepository interface {
	LinkDomain(ctx context.Context, clusterID, domainID string) error
	UnlinkDomain(ctx context.Context, clusterID, domainID string) error
	LinkResource(ctx context.Context, domainID, resourceID string) error
	UnlinkResource(ctx context.Context, domainID, resourceID string) error
	// ClusterIDsForDomain returns the clusters a domain is linked to,
	// unrestricted by visibility; used by the guard to resolve scope.
	ClusterIDsForDomain(ctx context.Context, domainID string) ([]string, error)
	// DomainIDsForResource returns the domains a resource is linked to.
	DomainIDsForResource(ctx context.Context, resourceID string) ([]string, error)
}
