package repository

import (
	"context"
	"database/sql"

	"docvault/internal/domain"
)

var _ domain.ACLRepository = (*ACLRepo)(nil)

// ACLRepo implements domain.ACLRepository using SQLite.
//
// An artifact either has no ACL (acl_enabled = 0, workspace default policy
// applies) or it has one, possibly empty, stored in acl_entries. The flag
// keeps "no ACL" distinguishable from "ACL that grants nothing".
type ACLRepo struct {
	db *sql.DB
}

// NewACLRepo creates a new ACLRepo on the given pool.
func NewACLRepo(db *sql.DB) *ACLRepo {
	return &ACLRepo{db: db}
}

func (r *ACLRepo) artifactID(ctx context.Context, q rowQuerier, ref domain.ArtifactRef) (id string, aclEnabled bool, err error) {
	var enabled int64
	err = q.QueryRowContext(ctx,
		`SELECT id, acl_enabled FROM artifacts WHERE workspace_id = ? AND number = ?`,
		ref.WorkspaceID, ref.Number,
	).Scan(&id, &enabled)
	if err != nil {
		return "", false, mapDBError(err)
	}
	return id, enabled != 0, nil
}

// ACLOf returns the artifact's ACL, or nil when the artifact carries none.
func (r *ACLRepo) ACLOf(ctx context.Context, ref domain.ArtifactRef) (*domain.ACL, error) {
	id, enabled, err := r.artifactID(ctx, r.db, ref)
	if err != nil {
		return nil, err
	}
	if !enabled {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT principal_type, principal, permission FROM acl_entries WHERE artifact_id = ?`, id,
	)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	users := map[string]domain.Permission{}
	groups := map[string]domain.Permission{}
	for rows.Next() {
		var principalType, principal, permName string
		if err := rows.Scan(&principalType, &principal, &permName); err != nil {
			return nil, err
		}
		perm, err := domain.ParsePermission(permName)
		if err != nil {
			return nil, domain.ErrIntegrity("acl entry for artifact %s: %v", ref, err)
		}
		switch principalType {
		case "user":
			users[principal] = perm
		case "group":
			groups[principal] = perm
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return domain.NewACL(users, groups), nil
}

// SetACL replaces the artifact's ACL in one transaction.
func (r *ACLRepo) SetACL(ctx context.Context, ref domain.ArtifactRef, acl *domain.ACL) error {
	if acl == nil {
		return r.RemoveACL(ctx, ref)
	}
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		id, _, err := r.artifactID(ctx, tx, ref)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM acl_entries WHERE artifact_id = ?`, id); err != nil {
			return mapDBError(err)
		}
		for login, perm := range acl.UserEntries() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO acl_entries (artifact_id, principal_type, principal, permission) VALUES (?, 'user', ?, ?)`,
				id, login, perm.String(),
			); err != nil {
				return mapDBError(err)
			}
		}
		for name, perm := range acl.GroupEntries() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO acl_entries (artifact_id, principal_type, principal, permission) VALUES (?, 'group', ?, ?)`,
				id, name, perm.String(),
			); err != nil {
				return mapDBError(err)
			}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE artifacts SET acl_enabled = 1 WHERE id = ?`, id); err != nil {
			return mapDBError(err)
		}
		return nil
	})
}

// RemoveACL drops the artifact's ACL, reverting it to workspace default policy.
func (r *ACLRepo) RemoveACL(ctx context.Context, ref domain.ArtifactRef) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		id, _, err := r.artifactID(ctx, tx, ref)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM acl_entries WHERE artifact_id = ?`, id); err != nil {
			return mapDBError(err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE artifacts SET acl_enabled = 0 WHERE id = ?`, id); err != nil {
			return mapDBError(err)
		}
		return nil
	})
}
