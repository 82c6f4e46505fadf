package repository

import (
	"context"
	"database/sql"
	"time"

	"docvault/internal/domain"
)

var _ domain.GroupRepository = (*GroupRepo)(nil)

// GroupRepo implements domain.GroupRepository using SQLite.
type GroupRepo struct {
	db *sql.DB
}

// NewGroupRepo creates a new GroupRepo on the given pool.
func NewGroupRepo(db *sql.DB) *GroupRepo {
	return &GroupRepo{db: db}
}

func (r *GroupRepo) Create(ctx context.Context, g *domain.Group) (*domain.Group, error) {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO user_groups (workspace_id, name, created_at) VALUES (?, ?, ?)`,
		g.WorkspaceID, g.Name, now,
	)
	if err != nil {
		return nil, mapDBError(err)
	}
	created := *g
	created.CreatedAt = now
	return &created, nil
}

func (r *GroupRepo) Get(ctx context.Context, workspaceID, name string) (*domain.Group, error) {
	var g domain.Group
	err := r.db.QueryRowContext(ctx,
		`SELECT workspace_id, name, created_at FROM user_groups WHERE workspace_id = ? AND name = ?`,
		workspaceID, name,
	).Scan(&g.WorkspaceID, &g.Name, &g.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &g, nil
}

func (r *GroupRepo) Delete(ctx context.Context, workspaceID, name string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM user_groups WHERE workspace_id = ? AND name = ?`,
		workspaceID, name,
	)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("group %q not found in workspace %q", name, workspaceID)
	}
	return nil
}

func (r *GroupRepo) AddMember(ctx context.Context, workspaceID, name, login string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO group_members (workspace_id, group_name, login) VALUES (?, ?, ?)`,
		workspaceID, name, login,
	)
	return mapDBError(err)
}

func (r *GroupRepo) RemoveMember(ctx context.Context, workspaceID, name, login string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM group_members WHERE workspace_id = ? AND group_name = ? AND login = ?`,
		workspaceID, name, login,
	)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("user %q is not a member of group %q", login, name)
	}
	return nil
}

func (r *GroupRepo) ListMembers(ctx context.Context, workspaceID, name string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT login FROM group_members WHERE workspace_id = ? AND group_name = ? ORDER BY login`,
		workspaceID, name,
	)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var logins []string
	for rows.Next() {
		var login string
		if err := rows.Scan(&login); err != nil {
			return nil, err
		}
		logins = append(logins, login)
	}
	return logins, rows.Err()
}

// GroupsOf returns the names of every group in the workspace that login
// belongs to. Membership is flat; there is no group nesting to chase.
func (r *GroupRepo) GroupsOf(ctx context.Context, workspaceID, login string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT group_name FROM group_members WHERE workspace_id = ? AND login = ? ORDER BY group_name`,
		workspaceID, login,
	)
	if err != nil {
		return nil, mapDBError(err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
