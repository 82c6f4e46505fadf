package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"docvault/internal/domain"
)

var _ domain.AuditRepository = (*AuditRepo)(nil)

// AuditRepo implements domain.AuditRepository using SQLite. Inserts go to the
// write pool; listings run on the read pool.
type AuditRepo struct {
	write *sql.DB
	read  *sql.DB
}

// NewAuditRepo creates an AuditRepo on a write/read pool pair.
func NewAuditRepo(writeDB, readDB *sql.DB) *AuditRepo {
	return &AuditRepo{write: writeDB, read: readDB}
}

// Insert records a vault event.
func (r *AuditRepo) Insert(ctx context.Context, e *domain.AuditEntry) error {
	id := e.ID
	if id == "" {
		id = domain.NewID()
	}
	var label, detail sql.NullString
	if e.VersionLabel != nil {
		label = sql.NullString{String: *e.VersionLabel, Valid: true}
	}
	if e.Detail != nil {
		detail = sql.NullString{String: *e.Detail, Valid: true}
	}
	_, err := r.write.ExecContext(ctx,
		`INSERT INTO vault_events (id, workspace_id, artifact_number, principal, action, status, version_label, detail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, e.WorkspaceID, e.ArtifactNumber, e.Principal, e.Action, e.Status, label, detail, time.Now().UTC(),
	)
	return mapDBError(err)
}

// List returns a filtered, paginated slice of vault events, newest first.
func (r *AuditRepo) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	var (
		conds []string
		args  []interface{}
	)
	addFilter := func(column string, value *string) {
		if value != nil {
			conds = append(conds, column+" = ?")
			args = append(args, *value)
		}
	}
	addFilter("workspace_id", filter.WorkspaceID)
	addFilter("principal", filter.Principal)
	addFilter("action", filter.Action)
	addFilter("status", filter.Status)

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := r.read.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM vault_events`+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	listArgs := append(append([]interface{}{}, args...), filter.Page.Limit(), filter.Page.Offset())
	rows, err := r.read.QueryContext(ctx,
		`SELECT id, workspace_id, artifact_number, principal, action, status, version_label, detail, created_at
		 FROM vault_events`+where+` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		listArgs...,
	)
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	defer rows.Close()

	var entries []domain.AuditEntry
	for rows.Next() {
		var (
			e             domain.AuditEntry
			label, detail sql.NullString
		)
		if err := rows.Scan(
			&e.ID, &e.WorkspaceID, &e.ArtifactNumber, &e.Principal,
			&e.Action, &e.Status, &label, &detail, &e.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		if label.Valid {
			e.VersionLabel = &label.String
		}
		if detail.Valid {
			e.Detail = &detail.String
		}
		entries = append(entries, e)
	}
	return entries, total, rows.Err()
}
