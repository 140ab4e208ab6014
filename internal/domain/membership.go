package domain

import "time"

// Role is a per-cluster membership role.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
	RoleNone   Role = "" // no membership
)

// ParseRole validates a role string from external input.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleOwner, RoleAdmin, RoleMember:
		return Role(s), nil
	default:
		return RoleNone, ErrFieldValidation("validation failed", map[string][]string{
			"role": {"role must be one of owner, admin, member"},
		})
	}
}

// ClusterMembership grants an identity a role on a cluster.
// (cluster_id, identity_id) is unique; every cluster keeps at least one owner.
type ClusterMembership struct {
	ID         string
	ClusterID  string
	IdentityID string
	Role       Role
	Comment    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AddMemberRequest holds the attributes for a new membership.
type AddMemberRequest struct {
	ClusterID  string
	IdentityID string
	Role       Role
	Comment    string
}
