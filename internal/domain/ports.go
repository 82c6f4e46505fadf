package domain

import (
	"context"
	"time"
)

// WorkspaceRepository persists workspaces and their member lists. It is one
// half of the principal directory.
type WorkspaceRepository interface {
	Create(ctx context.Context, w *Workspace) (*Workspace, error)
	Get(ctx context.Context, id string) (*Workspace, error)
	AddUser(ctx context.Context, workspaceID, login string) error
	RemoveUser(ctx context.Context, workspaceID, login string) error
	IsMember(ctx context.Context, workspaceID, login string) (bool, error)
	ListUsers(ctx context.Context, workspaceID string, page PageRequest) ([]string, int64, error)
}

// GroupRepository persists groups and their memberships. GroupsOf is the
// lookup the ACL resolution engine depends on.
type GroupRepository interface {
	Create(ctx context.Context, g *Group) (*Group, error)
	Get(ctx context.Context, workspaceID, name string) (*Group, error)
	Delete(ctx context.Context, workspaceID, name string) error
	AddMember(ctx context.Context, workspaceID, name, login string) error
	RemoveMember(ctx context.Context, workspaceID, name, login string) error
	ListMembers(ctx context.Context, workspaceID, name string) ([]string, error)
	// GroupsOf returns the names of every group in the workspace that login
	// belongs to.
	GroupsOf(ctx context.Context, workspaceID, login string) ([]string, error)
}

// ACLRepository stores per-artifact ACLs. ACLOf returns nil (not an error)
// when the artifact exists but carries no ACL.
type ACLRepository interface {
	ACLOf(ctx context.Context, ref ArtifactRef) (*ACL, error)
	SetACL(ctx context.Context, ref ArtifactRef, acl *ACL) error
	RemoveACL(ctx context.Context, ref ArtifactRef) error
}

// ArtifactRepository is the revision ledger: artifact master records, their
// immutable revision chains, and the checkout lock. Every mutating method
// runs as a single transaction; lock-state checks and the corresponding
// writes are never split across transactions.
type ArtifactRepository interface {
	// Create inserts the artifact together with its seed revision "A".
	Create(ctx context.Context, a *Artifact, content string) (*Artifact, *Revision, error)
	Get(ctx context.Context, ref ArtifactRef) (*Artifact, error)

	// Checkout acquires the exclusive lock for login. Repeating a checkout
	// the caller already holds is a no-op returning the current snapshot.
	Checkout(ctx context.Context, ref ArtifactRef, login string, now time.Time) (*WorkingSnapshot, error)
	// SaveWorking replaces the working content; only the lock holder may call it.
	SaveWorking(ctx context.Context, ref ArtifactRef, login, content string) error
	// CheckIn atomically appends the next revision and clears the lock.
	CheckIn(ctx context.Context, ref ArtifactRef, login, content string, now time.Time) (*Revision, error)
	// UndoCheckout discards the working content and clears the lock without
	// appending a revision.
	UndoCheckout(ctx context.Context, ref ArtifactRef, login string) error
	// Working returns the in-progress snapshot; only the lock holder may call it.
	Working(ctx context.Context, ref ArtifactRef, login string) (*WorkingSnapshot, error)

	LatestRevision(ctx context.Context, ref ArtifactRef) (*Revision, error)
	Revisions(ctx context.Context, ref ArtifactRef) ([]Revision, error)
	// ListLatestRevisions pages over a workspace's artifacts, returning the
	// latest committed revision of each, ordered by artifact number.
	ListLatestRevisions(ctx context.Context, workspaceID string, page PageRequest) ([]Revision, int64, error)
}

// AuditRepository records and lists vault events.
type AuditRepository interface {
	Insert(ctx context.Context, e *AuditEntry) error
	List(ctx context.Context, filter AuditFilter) ([]AuditEntry, int64, error)
}
