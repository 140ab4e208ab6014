package service

import (
	"context"

	"orgstack/internal/domain"
)

// MembershipService manages per-cluster role assignments.
type MembershipService struct {
	guard       *Guard
	memberships domain.MembershipRepository
}

// NewMembershipService creates a MembershipService.
func NewMembershipService(guard *Guard, memberships domain.MembershipRepository) *MembershipService {
	return &MembershipService{guard: guard, memberships: memberships}
}

// memberAction returns the action required to assign or revoke the given
// role. Touching an owner membership needs change_owner; everything else is
// plain member management.
func memberAction(role domain.Role) domain.Action {
	if role == domain.RoleOwner {
		return domain.ActionChangeOwner
	}
	return domain.ActionManageMembers
}

// AddMember grants an identity a role on the cluster.
func (s *MembershipService) AddMember(ctx context.Context, req domain.AddMemberRequest) (*domain.ClusterMembership, error) {
	if err := s.guard.AuthorizeCluster(ctx, req.ClusterID, memberAction(req.Role)); err != nil {
		return nil, err
	}
	if req.IdentityID == "" {
		return nil, domain.ErrFieldValidation("validation failed", map[string][]string{
			"identity_id": {"identity_id is required"},
		})
	}
	return s.memberships.Add(ctx, req)
}

// UpdateRole changes an existing member's role. Promoting to or demoting
// from owner both require change_owner on the cluster.
func (s *MembershipService) UpdateRole(ctx context.Context, clusterID, identityID string, role domain.Role) (*domain.ClusterMembership, error) {
	current, err := s.memberships.RoleOf(ctx, clusterID, identityID)
	if err != nil {
		return nil, err
	}

	action := memberAction(role)
	if current == domain.RoleOwner {
		action = domain.ActionChangeOwner
	}
	if err := s.guard.AuthorizeCluster(ctx, clusterID, action); err != nil {
		return nil, err
	}
	return s.memberships.UpdateRole(ctx, clusterID, identityID, role)
}

// RemoveMember revokes a membership. The repository refuses to remove the
// last owner.
func (s *MembershipService) RemoveMember(ctx context.Context, clusterID, identityID string) error {
	current, err := s.memberships.RoleOf(ctx, clusterID, identityID)
	if err != nil {
		return err
	}
	if err := s.guard.AuthorizeCluster(ctx, clusterID, memberAction(current)); err != nil {
		return err
	}
	return s.memberships.Remove(ctx, clusterID, identityID)
}

// ListMembers returns the cluster's membership roster. Any member may view it.
func (s *MembershipService) ListMembers(ctx context.Context, clusterID string, page domain.PageRequest) ([]domain.ClusterMembership, int64, error) {
	if err := s.guard.AuthorizeCluster(ctx, clusterID, domain.ActionView); err != nil {
		return nil, 0, err
	}
	return s.memberships.List(ctx, clusterID, page)
}
