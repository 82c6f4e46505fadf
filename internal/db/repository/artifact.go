package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"docvault/internal/domain"
)

var _ domain.ArtifactRepository = (*ArtifactRepo)(nil)

// ArtifactRepo implements the revision ledger over SQLite.
//
// All mutations run on the write pool inside a single BEGIN IMMEDIATE
// transaction, so a lock-state check and the write it guards can never
// interleave with another writer. Reads go to the read pool; WAL gives each
// read statement a consistent snapshot, so a reader sees either the
// pre-checkin or the post-checkin state, never half of one.
//
// Invariant kept across create/checkin/undo: artifacts.working_content
// equals the latest revision's content whenever the artifact is unlocked,
// so checkout only has to take the lock.
type ArtifactRepo struct {
	write *sql.DB
	read  *sql.DB
}

// NewArtifactRepo creates an ArtifactRepo on a write/read pool pair.
func NewArtifactRepo(writeDB, readDB *sql.DB) *ArtifactRepo {
	return &ArtifactRepo{write: writeDB, read: readDB}
}

// artifactRow is the scan target for the artifact master record.
type artifactRow struct {
	id           string
	workspaceID  string
	number       string
	kind         string
	name         string
	versionOrd   int64
	versionLabel string
	lockLogin    sql.NullString
	lockSince    sql.NullTime
	working      string
	createdBy    string
	createdAt    time.Time
}

const artifactColumns = `id, workspace_id, number, kind, name, version_ord, version_label,
	lock_login, lock_since, working_content, created_by, created_at`

func scanArtifact(row *sql.Row) (*artifactRow, error) {
	var a artifactRow
	err := row.Scan(
		&a.id, &a.workspaceID, &a.number, &a.kind, &a.name,
		&a.versionOrd, &a.versionLabel,
		&a.lockLogin, &a.lockSince, &a.working, &a.createdBy, &a.createdAt,
	)
	if err != nil {
		return nil, mapDBError(err)
	}
	return &a, nil
}

func (a *artifactRow) toDomain() *domain.Artifact {
	out := &domain.Artifact{
		ID:           a.id,
		WorkspaceID:  a.workspaceID,
		Number:       a.number,
		Kind:         domain.ArtifactKind(a.kind),
		Name:         a.name,
		VersionOrd:   a.versionOrd,
		VersionLabel: a.versionLabel,
		CreatedBy:    a.createdBy,
		CreatedAt:    a.createdAt,
	}
	if a.lockLogin.Valid {
		out.Lock = &domain.LockInfo{Holder: a.lockLogin.String, Since: a.lockSince.Time}
	}
	return out
}

func (r *ArtifactRepo) fetch(ctx context.Context, q rowQuerier, ref domain.ArtifactRef) (*artifactRow, error) {
	row := q.QueryRowContext(ctx,
		`SELECT `+artifactColumns+` FROM artifacts WHERE workspace_id = ? AND number = ?`,
		ref.WorkspaceID, ref.Number,
	)
	a, err := scanArtifact(row)
	if err != nil {
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			return nil, domain.ErrNotFound("artifact %s not found", ref)
		}
		return nil, err
	}
	return a, nil
}

// Create inserts the artifact together with its seed revision "A" in one
// transaction. The seed revision is authored by the artifact's creator.
func (r *ArtifactRepo) Create(ctx context.Context, a *domain.Artifact, content string) (*domain.Artifact, *domain.Revision, error) {
	now := time.Now().UTC()
	created := *a
	created.ID = domain.NewID()
	created.VersionOrd = 1
	created.VersionLabel = domain.VersionLabel(1)
	created.CreatedAt = now
	created.Lock = nil

	rev := &domain.Revision{
		ID:          domain.NewID(),
		ArtifactID:  created.ID,
		WorkspaceID: created.WorkspaceID,
		Number:      created.Number,
		Ordinal:     1,
		Label:       created.VersionLabel,
		Author:      created.CreatedBy,
		Content:     content,
		CreatedAt:   now,
	}

	err := inTx(ctx, r.write, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO artifacts (id, workspace_id, number, kind, name, version_ord, version_label,
				working_content, created_by, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			created.ID, created.WorkspaceID, created.Number, string(created.Kind), created.Name,
			created.VersionOrd, created.VersionLabel, content, created.CreatedBy, now,
		); err != nil {
			return mapDBError(err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO revisions (id, artifact_id, ordinal, label, author, content, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rev.ID, rev.ArtifactID, rev.Ordinal, rev.Label, rev.Author, rev.Content, now,
		); err != nil {
			return mapDBError(err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &created, rev, nil
}

// Get returns the artifact master record, including lock status.
func (r *ArtifactRepo) Get(ctx context.Context, ref domain.ArtifactRef) (*domain.Artifact, error) {
	a, err := r.fetch(ctx, r.read, ref)
	if err != nil {
		return nil, err
	}
	return a.toDomain(), nil
}

// Checkout acquires the exclusive edit lock for login and returns the working
// snapshot seeded from the latest revision. Repeating a checkout the caller
// already holds returns the current snapshot unchanged.
func (r *ArtifactRepo) Checkout(ctx context.Context, ref domain.ArtifactRef, login string, now time.Time) (*domain.WorkingSnapshot, error) {
	var snap *domain.WorkingSnapshot
	err := inTx(ctx, r.write, func(tx *sql.Tx) error {
		a, err := r.fetch(ctx, tx, ref)
		if err != nil {
			return err
		}
		if a.lockLogin.Valid {
			if a.lockLogin.String == login {
				snap = &domain.WorkingSnapshot{
					Ref:       ref,
					BaseLabel: a.versionLabel,
					Holder:    login,
					Since:     a.lockSince.Time,
					Content:   a.working,
				}
				return nil
			}
			return domain.ErrLocked(a.lockLogin.String, "artifact %s is checked out by %s", ref, a.lockLogin.String)
		}

		// The WHERE lock_login IS NULL guard makes the transition
		// single-winner even if the state read above went stale.
		res, err := tx.ExecContext(ctx,
			`UPDATE artifacts SET lock_login = ?, lock_since = ? WHERE id = ? AND lock_login IS NULL`,
			login, now.UTC(), a.id,
		)
		if err != nil {
			return mapDBError(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrConflict("checkout of %s raced a concurrent update", ref)
		}
		snap = &domain.WorkingSnapshot{
			Ref:       ref,
			BaseLabel: a.versionLabel,
			Holder:    login,
			Since:     now.UTC(),
			Content:   a.working,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// SaveWorking replaces the working content. Only the lock holder may call it.
func (r *ArtifactRepo) SaveWorking(ctx context.Context, ref domain.ArtifactRef, login, content string) error {
	return inTx(ctx, r.write, func(tx *sql.Tx) error {
		a, err := r.fetch(ctx, tx, ref)
		if err != nil {
			return err
		}
		if !a.lockLogin.Valid || a.lockLogin.String != login {
			return domain.ErrNotLockHolder("artifact %s is not checked out by %s", ref, login)
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE artifacts SET working_content = ? WHERE id = ? AND lock_login = ?`,
			content, a.id, login,
		)
		return mapDBError(err)
	})
}

// CheckIn appends the next revision from content and clears the lock, as one
// atomic transition. It verifies the stored label chain first; corruption is
// surfaced as an IntegrityError and nothing is written.
func (r *ArtifactRepo) CheckIn(ctx context.Context, ref domain.ArtifactRef, login, content string, now time.Time) (*domain.Revision, error) {
	var rev *domain.Revision
	err := inTx(ctx, r.write, func(tx *sql.Tx) error {
		a, err := r.fetch(ctx, tx, ref)
		if err != nil {
			return err
		}
		if !a.lockLogin.Valid || a.lockLogin.String != login {
			return domain.ErrNotLockHolder("artifact %s is not checked out by %s", ref, login)
		}

		// Ledger integrity: the master record must agree with the chain.
		if got := domain.VersionLabel(a.versionOrd); got != a.versionLabel {
			return domain.ErrIntegrity("artifact %s: version label %q does not match ordinal %d (want %q)",
				ref, a.versionLabel, a.versionOrd, got)
		}
		var maxOrd int64
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(ordinal), 0) FROM revisions WHERE artifact_id = ?`, a.id,
		).Scan(&maxOrd); err != nil {
			return mapDBError(err)
		}
		if maxOrd != a.versionOrd {
			return domain.ErrIntegrity("artifact %s: revision chain ends at ordinal %d, master record says %d",
				ref, maxOrd, a.versionOrd)
		}

		nextOrd := a.versionOrd + 1
		nextLabel := domain.VersionLabel(nextOrd)
		ts := now.UTC()

		rev = &domain.Revision{
			ID:          domain.NewID(),
			ArtifactID:  a.id,
			WorkspaceID: a.workspaceID,
			Number:      a.number,
			Ordinal:     nextOrd,
			Label:       nextLabel,
			Author:      login,
			Content:     content,
			CreatedAt:   ts,
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO revisions (id, artifact_id, ordinal, label, author, content, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rev.ID, rev.ArtifactID, rev.Ordinal, rev.Label, rev.Author, rev.Content, ts,
		); err != nil {
			return mapDBError(err)
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE artifacts
			 SET version_ord = ?, version_label = ?, lock_login = NULL, lock_since = NULL, working_content = ?
			 WHERE id = ? AND lock_login = ?`,
			nextOrd, nextLabel, content, a.id, login,
		)
		if err != nil {
			return mapDBError(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrConflict("checkin of %s raced a concurrent update", ref)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rev, nil
}

// UndoCheckout discards the working content and clears the lock without
// appending a revision. The undone checkout never consumes a version label.
func (r *ArtifactRepo) UndoCheckout(ctx context.Context, ref domain.ArtifactRef, login string) error {
	return inTx(ctx, r.write, func(tx *sql.Tx) error {
		a, err := r.fetch(ctx, tx, ref)
		if err != nil {
			return err
		}
		if !a.lockLogin.Valid || a.lockLogin.String != login {
			return domain.ErrNotLockHolder("artifact %s is not checked out by %s", ref, login)
		}

		// Working content reverts to the latest committed revision.
		res, err := tx.ExecContext(ctx,
			`UPDATE artifacts
			 SET lock_login = NULL, lock_since = NULL,
			     working_content = (SELECT content FROM revisions WHERE artifact_id = ? AND ordinal = ?)
			 WHERE id = ? AND lock_login = ?`,
			a.id, a.versionOrd, a.id, login,
		)
		if err != nil {
			return mapDBError(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return domain.ErrConflict("undo checkout of %s raced a concurrent update", ref)
		}
		return nil
	})
}

// Working returns the in-progress snapshot; only the lock holder may see it.
func (r *ArtifactRepo) Working(ctx context.Context, ref domain.ArtifactRef, login string) (*domain.WorkingSnapshot, error) {
	a, err := r.fetch(ctx, r.read, ref)
	if err != nil {
		return nil, err
	}
	if !a.lockLogin.Valid || a.lockLogin.String != login {
		return nil, domain.ErrNotLockHolder("artifact %s is not checked out by %s", ref, login)
	}
	return &domain.WorkingSnapshot{
		Ref:       ref,
		BaseLabel: a.versionLabel,
		Holder:    login,
		Since:     a.lockSince.Time,
		Content:   a.working,
	}, nil
}

const revisionColumns = `r.id, r.artifact_id, a.workspace_id, a.number, r.ordinal, r.label,
	r.author, r.content, r.created_at`

func scanRevisions(rows *sql.Rows) ([]domain.Revision, error) {
	defer rows.Close()
	var revs []domain.Revision
	for rows.Next() {
		var rev domain.Revision
		if err := rows.Scan(
			&rev.ID, &rev.ArtifactID, &rev.WorkspaceID, &rev.Number,
			&rev.Ordinal, &rev.Label, &rev.Author, &rev.Content, &rev.CreatedAt,
		); err != nil {
			return nil, err
		}
		revs = append(revs, rev)
	}
	return revs, rows.Err()
}

// LatestRevision returns the most recent committed revision of the artifact.
func (r *ArtifactRepo) LatestRevision(ctx context.Context, ref domain.ArtifactRef) (*domain.Revision, error) {
	rows, err := r.read.QueryContext(ctx,
		`SELECT `+revisionColumns+`
		 FROM revisions r JOIN artifacts a ON a.id = r.artifact_id
		 WHERE a.workspace_id = ? AND a.number = ? AND r.ordinal = a.version_ord`,
		ref.WorkspaceID, ref.Number,
	)
	if err != nil {
		return nil, mapDBError(err)
	}
	revs, err := scanRevisions(rows)
	if err != nil {
		return nil, err
	}
	if len(revs) == 0 {
		return nil, domain.ErrNotFound("artifact %s not found", ref)
	}
	return &revs[0], nil
}

// Revisions returns the artifact's full revision chain in commit order.
func (r *ArtifactRepo) Revisions(ctx context.Context, ref domain.ArtifactRef) ([]domain.Revision, error) {
	// Distinguish "no artifact" from "artifact with revisions".
	if _, err := r.fetch(ctx, r.read, ref); err != nil {
		return nil, err
	}
	rows, err := r.read.QueryContext(ctx,
		`SELECT `+revisionColumns+`
		 FROM revisions r JOIN artifacts a ON a.id = r.artifact_id
		 WHERE a.workspace_id = ? AND a.number = ?
		 ORDER BY r.ordinal`,
		ref.WorkspaceID, ref.Number,
	)
	if err != nil {
		return nil, mapDBError(err)
	}
	return scanRevisions(rows)
}

// ListLatestRevisions pages over the workspace's artifacts, returning the
// latest committed revision of each, ordered by artifact number.
func (r *ArtifactRepo) ListLatestRevisions(ctx context.Context, workspaceID string, page domain.PageRequest) ([]domain.Revision, int64, error) {
	var total int64
	if err := r.read.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM artifacts WHERE workspace_id = ?`, workspaceID,
	).Scan(&total); err != nil {
		return nil, 0, mapDBError(err)
	}

	rows, err := r.read.QueryContext(ctx,
		`SELECT `+revisionColumns+`
		 FROM revisions r JOIN artifacts a ON a.id = r.artifact_id
		 WHERE a.workspace_id = ? AND r.ordinal = a.version_ord
		 ORDER BY a.number LIMIT ? OFFSET ?`,
		workspaceID, page.Limit(), page.Offset(),
	)
	if err != nil {
		return nil, 0, mapDBError(err)
	}
	revs, err := scanRevisions(rows)
	if err != nil {
		return nil, 0, err
	}
	return revs, total, nil
}
