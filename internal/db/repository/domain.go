package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"orgstack/internal/domain"
	"orgstack/internal/session"
)

var domainSortColumns = map[string]string{
	"name":       "d.name",
	"created_at": "d.created_at",
	"updated_at": "d.updated_at",
}

type DomainRepo struct{}

var _ domain.DomainRepository = (*DomainRepo)(nil)

func NewDomainRepo() *DomainRepo {
	return &DomainRepo{}
}

func (r *DomainRepo) Create(ctx context.Context, d *domain.Domain, clusterID string) (*domain.Domain, error) {
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
		`INSERT INTO domains (id, name, description) VALUES (?, ?, ?)`,
		id, d.Name, d.Description); err != nil {
		return nil, mapDBError(err)
	}

	// Domains never exist unlinked; the initial link is part of creation.
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO cluster_domain_links (cluster_id, domain_id) VALUES (?, ?)`,
		clusterID, id); err != nil {
		return nil, mapDBError(err)
	}

	created, err := getDomain(ctx, tx, id, false)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *DomainRepo) GetByID(ctx context.Context, id string, includeDeleted bool) (*domain.Domain, error) {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	return getDomain(ctx, sess, id, includeDeleted)
}

func getDomain(ctx context.Context, q session.Querier, id string, includeDeleted bool) (*domain.Domain, error) {
	query := `SELECT id, name, description, created_at, updated_at, deleted_at
		FROM domains WHERE id = ? AND ` + domainVisible("domains")
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}

	var d domain.Domain
	err := q.QueryRowContext(ctx, query, id).Scan(
		&d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt, &d.DeletedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &d, nil
}

func (r *DomainRepo) ListForCluster(ctx context.Context, clusterID string, filter domain.ListFilter) ([]domain.Domain, int64, error) {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	where := `l.cluster_id = ? AND ` + domainVisible("d")
	args := []interface{}{clusterID}
	if !filter.IncludeDeleted {
		where += ` AND d.deleted_at IS NULL`
	}
	if filter.Search != "" {
		where += ` AND (d.name LIKE ? ESCAPE '\' OR d.description LIKE ? ESCAPE '\')`
		pattern := likePattern(filter.Search)
		args = append(args, pattern, pattern)
	}

	base := `FROM domains d JOIN cluster_domain_links l ON l.domain_id = d.id WHERE ` + where

	var total int64
	if err := sess.QueryRowContext(ctx, `SELECT COUNT(*) `+base, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT d.id, d.name, d.description, d.created_at, d.updated_at, d.deleted_at %s ORDER BY %s %s LIMIT ? OFFSET ?`,
		base,
		sortColumn(filter.SortBy, domainSortColumns, "d.created_at"),
		orderKeyword(filter.Order()))
	args = append(args, filter.Limit(), filter.Offset())

	rows, err := sess.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var domains []domain.Domain
	for rows.Next() {
		var d domain.Domain
		if err := rows.Scan(&d.ID, &d.Name, &d.Description, &d.CreatedAt, &d.UpdatedAt, &d.DeletedAt); err != nil {
			return nil, 0, err
		}
		domains = append(domains, d)
	}
	return domains, total, rows.Err()
}

func (r *DomainRepo) Update(ctx context.Context, id string, req domain.UpdateDomainRequest) (*domain.Domain, error) {
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
		`UPDATE domains SET `+set+` WHERE id = ? AND deleted_at IS NULL AND `+domainVisible("domains"),
		args...)
	if err != nil {
		return nil, mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound("domain %s not found", id)
	}
	return getDomain(ctx, sess, id, false)
}

func (r *DomainRepo) SoftDelete(ctx context.Context, id string) error {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return err
	}

	res, err := sess.ExecContext(ctx,
		`UPDATE domains SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL AND `+domainVisible("domains"), id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("domain %s not found", id)
	}
	return nil
}

func (r *DomainRepo) HardDelete(ctx context.Context, id string) error {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return err
	}

	res, err := sess.ExecContext(ctx,
		`DELETE FROM domains WHERE id = ? AND `+domainVisible("domains"), id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("domain %s not found", id)
	}
	return nil
}

func (r *DomainRepo) CountLiveResources(ctx context.Context, domainID string) (int64, error) {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return 0, err
	}

	var n int64
	err = sess.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM domain_resource_links l
		JOIN resources r ON r.id = l.resource_id
		WHERE l.domain_id = ? AND r.deleted_at IS NULL`, domainID).Scan(&n)
	return n, err
}
