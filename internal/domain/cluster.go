package domain

import "time"

// MaxNameLength is the maximum length for cluster/domain/resource names.
const MaxNameLength = 255

// Cluster is the top-level container. It is owned collectively by its
// memberships, not by a single user column.
type Cluster struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// CreateClusterRequest holds the attributes for a new cluster.
type CreateClusterRequest struct {
	Name        string
	Description string
}

// UpdateClusterRequest holds a partial update; nil fields are untouched.
type UpdateClusterRequest struct {
	Name        *string
	Description *string
}

// ValidateName checks the shared name constraints for hierarchy entities.
func ValidateName(name string) error {
	if name == "" {
		return ErrFieldValidation("validation failed", map[string][]string{
			"name": {"name is required"},
		})
	}
	if len(name) > MaxNameLength {
		return ErrFieldValidation("validation failed", map[string][]string{
			"name": {"name must be at most 255 characters"},
		})
	}
	return nil
}
