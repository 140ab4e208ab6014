package service

import (
	"context"

	"orgstack/internal/domain"
)

// ClusterService implements cluster lifecycle operations.
type ClusterService struct {
	guard    *Guard
	clusters domain.ClusterRepository
}

// NewClusterService creates a ClusterService.
func NewClusterService(guard *Guard, clusters domain.ClusterRepository) *ClusterService {
	return &ClusterService{guard: guard, clusters: clusters}
}

// Create makes a new cluster with the caller as its first owner. Any
// authenticated identity may create clusters.
func (s *ClusterService) Create(ctx context.Context, req domain.CreateClusterRequest) (*domain.Cluster, error) {
	callerID, err := identityID(ctx)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateName(req.Name); err != nil {
		return nil, err
	}
	return s.clusters.Create(ctx, &domain.Cluster{
		Name:        req.Name,
		Description: req.Description,
	}, callerID)
}

// Get returns a cluster visible to the caller.
func (s *ClusterService) Get(ctx context.Context, id string, includeDeleted bool) (*domain.Cluster, error) {
	if err := s.guard.AuthorizeCluster(ctx, id, domain.ActionView); err != nil {
		return nil, err
	}
	return s.clusters.GetByID(ctx, id, includeDeleted)
}

// List returns the clusters the caller is a member of. The data layer scopes
// the rows, so no per-row guard check is needed.
func (s *ClusterService) List(ctx context.Context, filter domain.ListFilter) ([]domain.Cluster, int64, error) {
	if _, err := identityID(ctx); err != nil {
		return nil, 0, err
	}
	return s.clusters.List(ctx, filter)
}

// Update modifies a cluster's attributes.
func (s *ClusterService) Update(ctx context.Context, id string, req domain.UpdateClusterRequest) (*domain.Cluster, error) {
	if err := s.guard.AuthorizeCluster(ctx, id, domain.ActionEdit); err != nil {
		return nil, err
	}
	if req.Name != nil {
		if err := domain.ValidateName(*req.Name); err != nil {
			return nil, err
		}
	}
	return s.clusters.Update(ctx, id, req)
}

// Delete removes a cluster, softly by default. Deletion is refused while the
// cluster still has live linked domains, for either delete flavor.
func (s *ClusterService) Delete(ctx context.Context, id string, permanent bool) error {
	if err := s.guard.AuthorizeCluster(ctx, id, domain.ActionDelete); err != nil {
		return err
	}

	n, err := s.clusters.CountLiveDomains(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConflict("cluster %s has %d linked domains; unlink or delete them first", id, n)
	}

	if permanent {
		return s.clusters.HardDelete(ctx, id)
	}
	return s.clusters.SoftDelete(ctx, id)
}
