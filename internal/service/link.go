package service

import (
	"context"

	"orgstack/internal/domain"
)

// LinkService manages the junction rows between hierarchy levels. Linking
// requires edit on the parent cluster's scope plus visibility of the child;
// the operations themselves are idempotent.
type LinkService struct {
	guard     *Guard
	links     domain.LinkRepository
	domains   domain.DomainRepository
	resources domain.ResourceRepository
}

// NewLinkService creates a LinkService.
func NewLinkService(guard *Guard, links domain.LinkRepository, domains domain.DomainRepository, resources domain.ResourceRepository) *LinkService {
	return &LinkService{guard: guard, links: links, domains: domains, resources: resources}
}

// LinkDomain attaches an existing domain to a cluster. The caller needs edit
// on the target cluster and view on the domain through one of its current
// clusters; a domain outside the caller's scope reads as not found.
func (s *LinkService) LinkDomain(ctx context.Context, clusterID, domainID string) error {
	if err := s.guard.AuthorizeCluster(ctx, clusterID, domain.ActionEdit); err != nil {
		return err
	}
	// Visibility check through the scoped repository; soft-deleted domains
	// cannot be linked.
	if _, err := s.domains.GetByID(ctx, domainID, false); err != nil {
		return err
	}
	return s.links.LinkDomain(ctx, clusterID, domainID)
}

// UnlinkDomain detaches a domain from a cluster. The domain may continue to
// exist linked to other clusters; detaching the last link makes it
// unreachable for everyone.
func (s *LinkService) UnlinkDomain(ctx context.Context, clusterID, domainID string) error {
	if err := s.guard.AuthorizeCluster(ctx, clusterID, domain.ActionEdit); err != nil {
		return err
	}
	return s.links.UnlinkDomain(ctx, clusterID, domainID)
}

// LinkResource attaches an existing resource to a domain.
func (s *LinkService) LinkResource(ctx context.Context, domainID, resourceID string) error {
	if err := s.guard.AuthorizeDomain(ctx, domainID, domain.ActionEdit); err != nil {
		return err
	}
	if _, err := s.resources.GetByID(ctx, resourceID, false); err != nil {
		return err
	}
	return s.links.LinkResource(ctx, domainID, resourceID)
}

// UnlinkResource detaches a resource from a domain.
func (s *LinkService) UnlinkResource(ctx context.Context, domainID, resourceID string) error {
	if err := s.guard.AuthorizeDomain(ctx, domainID, domain.ActionEdit); err != nil {
		return err
	}
	return s.links.UnlinkResource(ctx, domainID, resourceID)
}
