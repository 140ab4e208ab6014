package service

import (
	"context"

	"orgstack/internal/domain"
)

// DomainService implements domain lifecycle operations. Domains always live
// inside at least one cluster; creation links them to their first cluster
// atomically.
type DomainService struct {
	guard   *Guard
	domains domain.DomainRepository
}

// NewDomainService creates a DomainService.
func NewDomainService(guard *Guard, domains domain.DomainRepository) *DomainService {
	return &DomainService{guard: guard, domains: domains}
}

// Create makes a new domain inside the given cluster.
func (s *DomainService) Create(ctx context.Context, clusterID string, req domain.CreateDomainRequest) (*domain.Domain, error) {
	if err := s.guard.AuthorizeCluster(ctx, clusterID, domain.ActionEdit); err != nil {
		return nil, err
	}
	if err := domain.ValidateName(req.Name); err != nil {
		return nil, err
	}
	return s.domains.Create(ctx, &domain.Domain{
		Name:        req.Name,
		Description: req.Description,
	}, clusterID)
}

// Get returns a domain visible to the caller.
func (s *DomainService) Get(ctx context.Context, id string, includeDeleted bool) (*domain.Domain, error) {
	if err := s.guard.AuthorizeDomain(ctx, id, domain.ActionView); err != nil {
		return nil, err
	}
	return s.domains.GetByID(ctx, id, includeDeleted)
}

// ListForCluster returns the domains linked to a cluster.
func (s *DomainService) ListForCluster(ctx context.Context, clusterID string, filter domain.ListFilter) ([]domain.Domain, int64, error) {
	if err := s.guard.AuthorizeCluster(ctx, clusterID, domain.ActionView); err != nil {
		return nil, 0, err
	}
	return s.domains.ListForCluster(ctx, clusterID, filter)
}

// Update modifies a domain's attributes.
func (s *DomainService) Update(ctx context.Context, id string, req domain.UpdateDomainRequest) (*domain.Domain, error) {
	if err := s.guard.AuthorizeDomain(ctx, id, domain.ActionEdit); err != nil {
		return nil, err
	}
	if req.Name != nil {
		if err := domain.ValidateName(*req.Name); err != nil {
			return nil, err
		}
	}
	return s.domains.Update(ctx, id, req)
}

// Delete removes a domain, softly by default. Deletion is refused while live
// resources are still linked.
func (s *DomainService) Delete(ctx context.Context, id string, permanent bool) error {
	if err := s.guard.AuthorizeDomain(ctx, id, domain.ActionDelete); err != nil {
		return err
	}

	n, err := s.domains.CountLiveResources(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return domain.ErrConflict("domain %s has %d linked resources; unlink or delete them first", id, n)
	}

	if permanent {
		return s.domains.HardDelete(ctx, id)
	}
	return s.domains.SoftDelete(ctx, id)
}

// ResourceService implements resource lifecycle operations.
type ResourceService struct {
	guard     *Guard
	resources domain.ResourceRepository
}

// NewResourceService creates a ResourceService.
func NewResourceService(guard *Guard, resources domain.ResourceRepository) *ResourceService {
	return &ResourceService{guard: guard, resources: resources}
}

// Create makes a new resource inside the given domain.
func (s *ResourceService) Create(ctx context.Context, domainID string, req domain.CreateResourceRequest) (*domain.Resource, error) {
	if err := s.guard.AuthorizeDomain(ctx, domainID, domain.ActionEdit); err != nil {
		return nil, err
	}
	if err := domain.ValidateName(req.Name); err != nil {
		return nil, err
	}
	return s.resources.Create(ctx, &domain.Resource{
		Name:   req.Name,
		Type:   req.Type,
		Config: req.Config,
	}, domainID)
}

// Get returns a resource visible to the caller.
func (s *ResourceService) Get(ctx context.Context, id string, includeDeleted bool) (*domain.Resource, error) {
	if err := s.guard.AuthorizeResource(ctx, id, domain.ActionView); err != nil {
		return nil, err
	}
	return s.resources.GetByID(ctx, id, includeDeleted)
}

// ListForDomain returns the resources linked to a domain.
func (s *ResourceService) ListForDomain(ctx context.Context, domainID string, filter domain.ListFilter) ([]domain.Resource, int64, error) {
	if err := s.guard.AuthorizeDomain(ctx, domainID, domain.ActionView); err != nil {
		return nil, 0, err
	}
	return s.resources.ListForDomain(ctx, domainID, filter)
}

// Update modifies a resource's attributes.
func (s *ResourceService) Update(ctx context.Context, id string, req domain.UpdateResourceRequest) (*domain.Resource, error) {
	if err := s.guard.AuthorizeResource(ctx, id, domain.ActionEdit); err != nil {
		return nil, err
	}
	if req.Name != nil {
		if err := domain.ValidateName(*req.Name); err != nil {
			return nil, err
		}
	}
	return s.resources.Update(ctx, id, req)
}

// Delete removes a resource, softly by default. Resources have no children,
// so no conflict check applies.
func (s *ResourceService) Delete(ctx context.Context, id string, permanent bool) error {
	if err := s.guard.AuthorizeResource(ctx, id, domain.ActionDelete); err != nil {
		return err
	}
	if permanent {
		return s.resources.HardDelete(ctx, id)
	}
	return s.resources.SoftDelete(ctx, id)
}
