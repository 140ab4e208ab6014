package api

import (
	"time"

	"orgstack/internal/domain"
)

type clusterJSON struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

func toClusterJSON(c *domain.Cluster) clusterJSON {
	return clusterJSON{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		DeletedAt:   c.DeletedAt,
	}
}

func toClusterList(clusters []domain.Cluster) []clusterJSON {
	out := make([]clusterJSON, 0, len(clusters))
	for i := range clusters {
		out = append(out, toClusterJSON(&clusters[i]))
	}
	return out
}

type domainJSON struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

func toDomainJSON(d *domain.Domain) domainJSON {
	return domainJSON{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		DeletedAt:   d.DeletedAt,
	}
}

func toDomainList(domains []domain.Domain) []domainJSON {
	out := make([]domainJSON, 0, len(domains))
	for i := range domains {
		out = append(out, toDomainJSON(&domains[i]))
	}
	return out
}

type resourceJSON struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Type      string                 `json:"type"`
	Config    map[string]interface{} `json:"config"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
	DeletedAt *time.Time             `json:"deleted_at,omitempty"`
}

func toResourceJSON(r *domain.Resource) resourceJSON {
	return resourceJSON{
		ID:        r.ID,
		Name:      r.Name,
		Type:      r.Type,
		Config:    r.Config,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		DeletedAt: r.DeletedAt,
	}
}

func toResourceList(resources []domain.Resource) []resourceJSON {
	out := make([]resourceJSON, 0, len(resources))
	for i := range resources {
		out = append(out, toResourceJSON(&resources[i]))
	}
	return out
}

type memberJSON struct {
	ClusterID  string    `json:"cluster_id"`
	IdentityID string    `json:"identity_id"`
	Role       string    `json:"role"`
	Comment    string    `json:"comment,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toMemberJSON(m *domain.ClusterMembership) memberJSON {
	return memberJSON{
		ClusterID:  m.ClusterID,
		IdentityID: m.IdentityID,
		Role:       string(m.Role),
		Comment:    m.Comment,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func toMemberList(members []domain.ClusterMembership) []memberJSON {
	out := make([]memberJSON, 0, len(members))
	for i := range members {
		out = append(out, toMemberJSON(&members[i]))
	}
	return out
}
