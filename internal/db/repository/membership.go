package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"orgstack/internal/domain"
	"orgstack/internal/session"
)

var membershipSortColumns = map[string]string{
	"identity":   "identity_id",
	"role":       "role",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

type MembershipRepo struct{}

var _ domain.MembershipRepository = (*MembershipRepo)(nil)

func NewMembershipRepo() *MembershipRepo {
	return &MembershipRepo{}
}

func (r *MembershipRepo) Add(ctx context.Context, req domain.AddMemberRequest) (*domain.ClusterMembership, error) {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	// Member creation is deliberately not idempotent: the UNIQUE
	// (cluster_id, identity_id) constraint resolves concurrent adds so that
	// exactly one succeeds and the rest fail with a conflict. The insert is
	// gated on the bound identity's own membership, so a cluster outside the
	// caller's closure behaves exactly like a missing one.
	res, err := sess.ExecContext(ctx,
		`INSERT INTO cluster_memberships (id, cluster_id, identity_id, role, comment)
		SELECT ?, ?, ?, ?, ?
		WHERE `+clusterMember(),
		id, req.ClusterID, req.IdentityID, string(req.Role), req.Comment, req.ClusterID)
	if err != nil {
		return nil, mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound("cluster %s not found", req.ClusterID)
	}
	return getMembership(ctx, sess, req.ClusterID, req.IdentityID)
}

func getMembership(ctx context.Context, q session.Querier, clusterID, identityID string) (*domain.ClusterMembership, error) {
	var m domain.ClusterMembership
	var role string
	err := q.QueryRowContext(ctx,
		`SELECT cm.id, cm.cluster_id, cm.identity_id, cm.role, cm.comment, cm.created_at, cm.updated_at
		FROM cluster_memberships cm
		WHERE cm.cluster_id = ? AND cm.identity_id = ? AND `+membershipVisible("cm"),
		clusterID, identityID).Scan(
		&m.ID, &m.ClusterID, &m.IdentityID, &role, &m.Comment, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	m.Role = domain.Role(role)
	return &m, nil
}

func countOwners(ctx context.Context, q session.Querier, clusterID string) (int64, error) {
	var n int64
	err := q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cluster_memberships WHERE cluster_id = ? AND role = ?`,
		clusterID, string(domain.RoleOwner)).Scan(&n)
	return n, err
}

func (r *MembershipRepo) UpdateRole(ctx context.Context, clusterID, identityID string, role domain.Role) (*domain.ClusterMembership, error) {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	tx, err := sess.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		`UPDATE cluster_memberships SET role = ?, updated_at = CURRENT_TIMESTAMP
		WHERE cluster_id = ? AND identity_id = ? AND `+clusterMember(),
		string(role), clusterID, identityID, clusterID)
	if err != nil {
		return nil, mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound("membership for identity %s not found", identityID)
	}

	// Re-check the ownership invariant against the mutated state, inside the
	// same transaction, so a demotion that strips the last owner rolls back.
	owners, err := countOwners(ctx, tx, clusterID)
	if err != nil {
		return nil, err
	}
	if owners == 0 {
		return nil, domain.ErrConflict("cluster must retain at least one owner")
	}

	updated, err := getMembership(ctx, tx, clusterID, identityID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *MembershipRepo) Remove(ctx context.Context, clusterID, identityID string) error {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return err
	}

	tx, err := sess.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	res, err := tx.ExecContext(ctx,
		`DELETE FROM cluster_memberships
		WHERE cluster_id = ? AND identity_id = ? AND `+clusterMember(),
		clusterID, identityID, clusterID)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("membership for identity %s not found", identityID)
	}

	owners, err := countOwners(ctx, tx, clusterID)
	if err != nil {
		return err
	}
	if owners == 0 {
		return domain.ErrConflict("cluster must retain at least one owner")
	}

	return tx.Commit()
}

// RoleOf is deliberately unscoped: the caller's own membership row is the
// source the visibility predicates and the guard are built from.
func (r *MembershipRepo) RoleOf(ctx context.Context, clusterID, identityID string) (domain.Role, error) {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return domain.RoleNone, err
	}

	var role string
	err = sess.QueryRowContext(ctx,
		`SELECT role FROM cluster_memberships WHERE cluster_id = ? AND identity_id = ?`,
		clusterID, identityID).Scan(&role)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RoleNone, nil
	}
	if err != nil {
		return domain.RoleNone, err
	}
	return domain.Role(role), nil
}

func (r *MembershipRepo) List(ctx context.Context, clusterID string, page domain.PageRequest) ([]domain.ClusterMembership, int64, error) {
	sess, err := session.FromContext(ctx)
	if err != nil {
		return nil, 0, err
	}

	where := `cluster_id = ? AND ` + clusterMember()
	args := []interface{}{clusterID, clusterID}
	if page.Search != "" {
		where += ` AND (identity_id LIKE ? ESCAPE '\' OR comment LIKE ? ESCAPE '\')`
		pattern := likePattern(page.Search)
		args = append(args, pattern, pattern)
	}

	var total int64
	if err := sess.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cluster_memberships WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		`SELECT id, cluster_id, identity_id, role, comment, created_at, updated_at
		FROM cluster_memberships WHERE %s ORDER BY %s %s LIMIT ? OFFSET ?`,
		where,
		sortColumn(page.SortBy, membershipSortColumns, "created_at"),
		orderKeyword(page.Order()))
	args = append(args, page.Limit(), page.Offset())

	rows, err := sess.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var members []domain.ClusterMembership
	for rows.Next() {
		var m domain.ClusterMembership
		var role string
		if err := rows.Scan(&m.ID, &m.ClusterID, &m.IdentityID, &role, &m.Comment, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, 0, err
		}
		m.Role = domain.Role(role)
		members = append(members, m)
	}
	return members, total, rows.Err()
}
