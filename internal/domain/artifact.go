package domain

import "time"

// ArtifactKind distinguishes documents from parts. Both share the same
// versioning and locking behaviour.
type ArtifactKind string

const (
	KindDocument ArtifactKind = "document"
	KindPart     ArtifactKind = "part"
)

// ArtifactRef identifies an artifact by workspace and number.
type ArtifactRef struct {
	WorkspaceID string
	Number      string
}

func (r ArtifactRef) String() string { return r.WorkspaceID + "/" + r.Number }

// LockInfo records the exclusive checkout lock on an artifact.
type LockInfo struct {
	Holder string
	Since  time.Time
}

// Artifact is a versioned item: the master record plus its current lock and
// working state. The immutable history lives in Revisions.
type Artifact struct {
	ID          string
	WorkspaceID string
	Number      string
	Kind        ArtifactKind
	Name        string
	// VersionOrd is the 1-based ordinal of the latest committed revision;
	// VersionLabel is its letter form (A, B, ..., Z, AA, ...).
	VersionOrd   int64
	VersionLabel string
	// Lock is nil when the artifact is available for checkout.
	Lock      *LockInfo
	CreatedBy string
	CreatedAt time.Time
}

// CheckedOutBy reports whether login currently holds the checkout lock.
func (a *Artifact) CheckedOutBy(login string) bool {
	return a.Lock != nil && a.Lock.Holder == login
}

// Revision is an immutable snapshot committed by a check-in (or by artifact
// creation, which seeds revision A).
type Revision struct {
	ID          string
	ArtifactID  string
	WorkspaceID string
	Number      string
	Ordinal     int64
	Label       string
	Author      string
	Content     string
	CreatedAt   time.Time
}

// WorkingSnapshot is the mutable in-progress state visible only to the lock
// holder between checkout and check-in.
type WorkingSnapshot struct {
	Ref       ArtifactRef
	BaseLabel string // label of the revision the working copy was seeded from
	Holder    string
	Since     time.Time
	Content   string
}

// CreateArtifactRequest holds parameters for creating an artifact with its
// seed revision and, optionally, an inline ACL.
type CreateArtifactRequest struct {
	WorkspaceID string
	Number      string
	Kind        ArtifactKind
	Name        string
	Content     string
	ACL         *ACL // nil means workspace default policy
}

// Validate checks that the request is well-formed.
func (r *CreateArtifactRequest) Validate() error {
	if r.WorkspaceID == "" {
		return ErrValidation("workspace id is required")
	}
	if r.Number == "" {
		return ErrValidation("artifact number is required")
	}
	if r.Kind == "" {
		r.Kind = KindDocument
	}
	if r.Kind != KindDocument && r.Kind != KindPart {
		return ErrValidation("kind must be 'document' or 'part'")
	}
	return nil
}
