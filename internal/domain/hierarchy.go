package domain

import "time"

// Domain is the mid-level container, in a many-to-many relation with Cluster.
type Domain struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// CreateDomainRequest holds the attributes for a new domain.
type CreateDomainRequest struct {
	Name        string
	Description string
}

// UpdateDomainRequest holds a partial update; nil fields are untouched.
type UpdateDomainRequest struct {
	Name        *string
	Description *string
}

// Resource is the leaf entity, in a many-to-many relation with Domain.
// Config is a free-form JSON object.
type Resource struct {
	ID        string
	Name      string
	Type      string
	Config    map[string]interface{}
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// CreateResourceRequest holds the attributes for a new resource.
type CreateResourceRequest struct {
	Name   string
	Type   string
	Config map[string]interface{}
}

// UpdateResourceRequest holds a partial update; nil fields are untouched.
type UpdateResourceRequest struct {
	Name   *string
	Type   *string
	Config map[string]interface{}
}
