package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"orgstack/internal/domain"
	"orgstack/internal/session"
)

var clusterSortColumns = map[string]string{
	"name":       "name",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

type ClusterRepo struct{}

var _ domain.ClusterRepository = (*ClusterRepo)(nil)

func NewClusterRepo() *ClusterRepo {
	return &ClusterRepo{}
}

func (r *ClusterRepo) Create(ctx context.Context, c *domain.Cluster, ownerIdentityID string) (*domain.Cluster, error) {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := sess.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	id := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO clusters (id, name, description) VALUES (?, ?, ?)`,
		id, c.Name, c.Description); err != nil {
		return nil, mapDBError(err)
	}

	// The creator becomes the first owner in the same transaction, so the
	// ownership invariant holds from the first committed state onward.
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO cluster_memberships (id, cluster_id, identity_id, role) VALUES (?, ?, ?, ?)`,
		uuid.NewString(), id, ownerIdentityID, string(domain.RoleOwner)); err != nil {
		return nil, mapDBError(err)
	}

	created, err := getCluster(ctx, tx, id, false)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *ClusterRepo) GetByID(ctx context.Context, id string, includeDeleted bool) (*domain.Cluster, error) {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	return getCluster(ctx, sess, id, includeDeleted)
}

func getCluster(ctx context.Context, q session.Querier, id string, includeDeleted bool) (*domain.Cluster, error) {
	query := `SELECT id, name, description, created_at, updated_at, deleted_at
		FROM clusters WHERE id = ? AND ` + clusterVisible("clusters")
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}

	var c domain.Cluster
	err := q.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &c, nil
}

func (r *ClusterRepo) List(ctx context.Context, filter domain.ListFilter) ([]domain.Cluster, int64, error) {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	where := clusterVisible("clusters")
	args := []interface{}{}
	if !filter.IncludeDeleted {
		where += ` AND deleted_at IS NULL`
	}
	if filter.Search != "" {
		where += ` AND (name LIKE ? ESCAPE '\' OR description LIKE ? ESCAPE '\')`
		pattern := likePattern(filter.Search)
		args = append(args, pattern, pattern)
	}

	var total int64
	if err := sess.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM clusters WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT id, name, description, created_at, updated_at, deleted_at
		FROM clusters WHERE %s ORDER BY %s %s LIMIT ? OFFSET ?`,
		where,
		sortColumn(filter.SortBy, clusterSortColumns, "created_at"),
		orderKeyword(filter.Order()))
	args = append(args, filter.Limit(), filter.Offset())

	rows, err := sess.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var clusters []domain.Cluster
	for rows.Next() {
		var c domain.Cluster
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt); err != nil {
			return nil, 0, err
		}
		clusters = append(clusters, c)
	}
	return clusters, total, rows.Err()
}

func (r *ClusterRepo) Update(ctx context.Context, id string, req domain.UpdateClusterRequest) (*domain.Cluster, error) {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	set := `updated_at = CURRENT_TIMESTAMP`
	args := []interface{}{}
	if req.Name != nil {
		set += `, name = ?`
		args = append(args, *req.Name)
	}
	if req.Description != nil {
		set += `, description = ?`
		args = append(args, *req.Description)
	}
	args = append(args, id)

	res, err := sess.ExecContext(ctx,
		`UPDATE clusters SET `+set+` WHERE id = ? AND deleted_at IS NULL AND `+clusterVisible("clusters"),
		args...)
	if err != nil {
		return nil, mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound("cluster %s not found", id)
	}
	return getCluster(ctx, sess, id, false)
}

func (r *ClusterRepo) SoftDelete(ctx context.Context, id string) error {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return err
	}

	res, err := sess.ExecContext(ctx,
		`UPDATE clusters SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL AND `+clusterVisible("clusters"), id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("cluster %s not found", id)
	}
	return nil
}

func (r *ClusterRepo) HardDelete(ctx context.Context, id string) error {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return err
	}

	// Junction rows go with the cluster via ON DELETE CASCADE.
	res, err := sess.ExecContext(ctx,
		`DELETE FROM clusters WHERE id = ? AND `+clusterVisible("clusters"), id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("cluster %s not found", id)
	}
	return nil
}

func (r *ClusterRepo) CountLiveDomains(ctx context.Context, clusterID string) (int64, error) {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return 0, err
	}

	var n int64
	err = sess.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cluster_domain_links l
		JOIN domains d ON d.id = l.domain_id
		WHERE l.cluster_id = ? AND d.deleted_at IS NULL`, clusterID).Scan(&n)
	return n, err
}
