package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"orgstack/internal/domain"
	"orgstack/internal/session"
)

var resourceSortColumns = map[string]string{
	"name":       "r.name",
	"type":       "r.type",
	"created_at": "r.created_at",
	"updated_at": "r.updated_at",
}

type ResourceRepo struct{}

var _ domain.ResourceRepository = (*ResourceRepo)(nil)

func NewResourceRepo() *ResourceRepo {
	return &ResourceRepo{}
}

func marshalConfig(config map[string]interface{}) (string, error) {
	if config == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(config)
	if err != nil {
		return "", domain.ErrValidation("config is not serializable: %v", err)
	}
	return string(raw), nil
}

func scanResource(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Resource, error) {
	var res domain.Resource
	var rawConfig string
	if err := row.Scan(&res.ID, &res.Name, &res.Type, &rawConfig,
		&res.CreatedAt, &res.UpdatedAt, &res.DeletedAt); err != nil {
		return nil, mapDBError(err)
	}
	if err := json.Unmarshal([]byte(rawConfig), &res.Config); err != nil {
		return nil, fmt.Errorf("decode resource %s config: %w", res.ID, err)
	}
	return &res, nil
}

func (r *ResourceRepo) Create(ctx context.Context, res *domain.Resource, domainID string) (*domain.Resource, error) {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	rawConfig, err := marshalConfig(res.Config)
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
		`INSERT INTO resources (id, name, type, config) VALUES (?, ?, ?, ?)`,
		id, res.Name, res.Type, rawConfig); err != nil {
		return nil, mapDBError(err)
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO domain_resource_links (domain_id, resource_id) VALUES (?, ?)`,
		domainID, id); err != nil {
		return nil, mapDBError(err)
	}

	created, err := getResource(ctx, tx, id, false)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return created, nil
}

func (r *ResourceRepo) GetByID(ctx context.Context, id string, includeDeleted bool) (*domain.Resource, error) {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	return getResource(ctx, sess, id, includeDeleted)
}

func getResource(ctx context.Context, q session.Querier, id string, includeDeleted bool) (*domain.Resource, error) {
	query := `SELECT id, name, type, config, created_at, updated_at, deleted_at
		FROM resources WHERE id = ? AND ` + resourceVisible("resources")
	if !includeDeleted {
		query += ` AND deleted_at IS NULL`
	}
	return scanResource(q.QueryRowContext(ctx, query, id))
}

func (r *ResourceRepo) ListForDomain(ctx context.Context, domainID string, filter domain.ListFilter) ([]domain.Resource, int64, error) {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	where := `l.domain_id = ? AND ` + resourceVisible("r")
	args := []interface{}{domainID}
	if !filter.IncludeDeleted {
		where += ` AND r.deleted_at IS NULL`
	}
	if filter.Search != "" {
		where += ` AND (r.name LIKE ? ESCAPE '\' OR r.type LIKE ? ESCAPE '\')`
		pattern := likePattern(filter.Search)
		args = append(args, pattern, pattern)
	}

	base := `FROM resources r JOIN domain_resource_links l ON l.resource_id = r.id WHERE ` + where

	var total int64
	if err := sess.QueryRowContext(ctx, `SELECT COUNT(*) `+base, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT r.id, r.name, r.type, r.config, r.created_at, r.updated_at, r.deleted_at %s ORDER BY %s %s LIMIT ? OFFSET ?`,
		base,
		sortColumn(filter.SortBy, resourceSortColumns, "r.created_at"),
		orderKeyword(filter.Order()))
	args = append(args, filter.Limit(), filter.Offset())

	rows, err := sess.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var resources []domain.Resource
	for rows.Next() {
		res, err := scanResource(rows)
		if err != nil {
			return nil, 0, err
		}
		resources = append(resources, *res)
	}
	return resources, total, rows.Err()
}

func (r *ResourceRepo) Update(ctx context.Context, id string, req domain.UpdateResourceRequest) (*domain.Resource, error) {
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
	if req.Type != nil {
		set += `, type = ?`
		args = append(args, *req.Type)
	}
	if req.Config != nil {
		rawConfig, err := marshalConfig(req.Config)
		if err != nil {
			return nil, err
		}
		set += `, config = ?`
		args = append(args, rawConfig)
	}
	args = append(args, id)

	res, err := sess.ExecContext(ctx,
		`UPDATE resources SET `+set+` WHERE id = ? AND deleted_at IS NULL AND `+resourceVisible("resources"),
		args...)
	if err != nil {
		return nil, mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound("resource %s not found", id)
	}
	return getResource(ctx, sess, id, false)
}

func (r *ResourceRepo) SoftDelete(ctx context.Context, id string) error {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return err
	}

	res, err := sess.ExecContext(ctx,
		`UPDATE resources SET deleted_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND deleted_at IS NULL AND `+resourceVisible("resources"), id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("resource %s not found", id)
	}
	return nil
}

func (r *ResourceRepo) HardDelete(ctx context.Context, id string) error {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return err
	}

	res, err := sess.ExecContext(ctx,
		`DELETE FROM resources WHERE id = ? AND `+resourceVisible("resources"), id)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("resource %s not found", id)
	}
	return nil
}
