package repository

import (
	"context"

	"orgstack/internal/domain"
	"orgstack/internal/session"
)

type LinkRepo struct{}

var _ domain.LinkRepository = (*LinkRepo)(nil)

func NewLinkRepo() *LinkRepo {
	return &LinkRepo{}
}

// LinkDomain attaches a domain to a cluster. Re-linking an existing pair is a
// no-op; a missing cluster or domain surfaces as a foreign key failure.
func (r *LinkRepo) LinkDomain(ctx context.Context, clusterID, domainID string) error {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return err
	}

	if _, err := sess.ExecContext(ctx,
		`INSERT OR IGNORE INTO cluster_domain_links (cluster_id, domain_id) VALUES (?, ?)`,
		clusterID, domainID); err != nil {
		return mapDBError(err)
	}
	return nil
}

// UnlinkDomain detaches a domain from a cluster. Unlinking a pair that does
// not exist is a no-op.
func (r *LinkRepo) UnlinkDomain(ctx context.Context, clusterID, domainID string) error {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return err
	}

	if _, err := sess.ExecContext(ctx,
		`DELETE FROM cluster_domain_links WHERE cluster_id = ? AND domain_id = ?`,
		clusterID, domainID); err != nil {
		return mapDBError(err)
	}
	return nil
}

func (r *LinkRepo) LinkResource(ctx context.Context, domainID, resourceID string) error {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return err
	}

	if _, err := sess.ExecContext(ctx,
		`INSERT OR IGNORE INTO domain_resource_links (domain_id, resource_id) VALUES (?, ?)`,
		domainID, resourceID); err != nil {
		return mapDBError(err)
	}
	return nil
}

func (r *LinkRepo) UnlinkResource(ctx context.Context, domainID, resourceID string) error {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return err
	}

	if _, err := sess.ExecContext(ctx,
		`DELETE FROM domain_resource_links WHERE domain_id = ? AND resource_id = ?`,
		domainID, resourceID); err != nil {
		return mapDBError(err)
	}
	return nil
}

// ClusterIDsForDomain returns every cluster the domain is linked to,
// regardless of the caller's memberships. The authorization guard uses it to
// resolve which clusters govern a domain-scoped operation; it must not be
// exposed through any read endpoint.
func (r *LinkRepo) ClusterIDsForDomain(ctx context.Context, domainID string) ([]string, error) {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := sess.QueryContext(ctx,
		`SELECT cluster_id FROM cluster_domain_links WHERE domain_id = ?`, domainID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DomainIDsForResource is the resource-level counterpart of
// ClusterIDsForDomain.
func (r *LinkRepo) DomainIDsForResource(ctx context.Context, resourceID string) ([]string, error) {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := sess.QueryContext(ctx,
		`SELECT domain_id FROM domain_resource_links WHERE resource_id = ?`, resourceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
