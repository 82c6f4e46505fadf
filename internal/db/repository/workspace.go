package repository

import (
	"context"
	"database/sql"
	"time"

	"docvault/internal/domain"
)

var _ domain.WorkspaceRepository = (*WorkspaceRepo)(nil)

// WorkspaceRepo implements domain.WorkspaceRepository using SQLite.
type WorkspaceRepo struct {
	db *sql.DB
}

// NewWorkspaceRepo creates a new WorkspaceRepo on the given pool.
func NewWorkspaceRepo(db *sql.DB) *WorkspaceRepo {
	return &WorkspaceRepo{db: db}
}

// Create inserts a workspace.
func (r *WorkspaceRepo) Create(ctx context.Context, w *domain.Workspace) (*domain.Workspace, error) {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO workspaces (id, default_member_permission, created_at) VALUES (?, ?, ?)`,
		w.ID, w.DefaultMemberPermission.String(), now,
	)
	if err != nil {
		return nil, mapDBError(err)
	}
	created := *w
	created.CreatedAt = now
	return &created, nil
}

// Get returns the workspace with the given id.
func (r *WorkspaceRepo) Get(ctx context.Context, id string) (*domain.Workspace, error) {
	var (
		w        domain.Workspace
		permName string
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, default_member_permission, created_at FROM workspaces WHERE id = ?`, id,
	).Scan(&w.ID, &permName, &w.CreatedAt)
	if err != nil {
		return nil, mapDBError(err)
	}
	w.DefaultMemberPermission, err = domain.ParsePermission(permName)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// AddUser adds a login to the workspace member list.
func (r *WorkspaceRepo) AddUser(ctx context.Context, workspaceID, login string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO workspace_users (workspace_id, login) VALUES (?, ?)`,
		workspaceID, login,
	)
	return mapDBError(err)
}

// RemoveUser removes a login from the workspace member list.
func (r *WorkspaceRepo) RemoveUser(ctx context.Context, workspaceID, login string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM workspace_users WHERE workspace_id = ? AND login = ?`,
		workspaceID, login,
	)
	if err != nil {
		return mapDBError(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("user %q is not a member of workspace %q", login, workspaceID)
	}
	return nil
}

// IsMember reports whether login belongs to the workspace.
func (r *WorkspaceRepo) IsMember(ctx context.Context, workspaceID, login string) (bool, error) {
	var cnt int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workspace_users WHERE workspace_id = ? AND login = ?`,
		workspaceID, login,
	).Scan(&cnt)
	if err != nil {
		return false, mapDBError(err)
	}
	return cnt > 0, nil
}

// ListUsers returns a page of member logins, ordered by login.
func (r *WorkspaceRepo) ListUsers(ctx context.Context, workspaceID string, page domain.PageRequest) ([]string, int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workspace_users WHERE workspace_id = ?`, workspaceID,
	).Scan(&total)
	if err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT login FROM workspace_users WHERE workspace_id = ? ORDER BY login LIMIT ? OFFSET ?`,
		workspaceID, page.Limit(), page.Offset(),
	)
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close()

	var logins []string
	for rows.Next() {
		var login string
		if err := rows.Scan(&login); err != nil {
			return nil, 0, err
		}
		logins = append(logins, login)
	}
	return logins, total, rows.Err()
}
