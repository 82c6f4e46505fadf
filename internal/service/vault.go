package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"docvault/internal/domain"
)

// DefaultConflictRetries bounds internal retries of transient concurrency
// conflicts before they are surfaced to the caller.
const DefaultConflictRetries = 3

// VaultService is the checkout/check-in coordinator. Every operation runs
// the authorization gate first, then the state transition as one atomic
// ledger transaction, and finally records a vault event.
type VaultService struct {
	resolver   PermissionResolver
	ledger     domain.ArtifactRepository
	workspaces domain.WorkspaceRepository
	acls       domain.ACLRepository
	audit      domain.AuditRepository
	logger     *slog.Logger
	retries    int
}

// NewVaultService creates a VaultService.
func NewVaultService(
	resolver PermissionResolver,
	ledger domain.ArtifactRepository,
	workspaces domain.WorkspaceRepository,
	acls domain.ACLRepository,
	audit domain.AuditRepository,
	logger *slog.Logger,
) *VaultService {
	return &VaultService{
		resolver:   resolver,
		ledger:     ledger,
		workspaces: workspaces,
		acls:       acls,
		audit:      audit,
		logger:     logger.With("component", "vault"),
		retries:    DefaultConflictRetries,
	}
}

// WithConflictRetries overrides how often transient write conflicts are
// retried before surfacing.
func (s *VaultService) WithConflictRetries(n int) *VaultService {
	if n >= 0 {
		s.retries = n
	}
	return s
}

// withConflictRetry re-runs fn on transient ConflictErrors. Lock-state and
// integrity failures pass through untouched: retrying them cannot help.
func (s *VaultService) withConflictRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt <= s.retries; attempt++ {
		err = fn()
		var conflict *domain.ConflictError
		if err == nil || !errors.As(err, &conflict) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
	}
	return err
}

func (s *VaultService) record(ctx context.Context, e *domain.AuditEntry) {
	if err := s.audit.Insert(ctx, e); err != nil {
		s.logger.Warn("audit insert failed",
			"action", e.Action, "artifact", e.ArtifactNumber, "error", err)
	}
}

func (s *VaultService) recordOutcome(ctx context.Context, ref domain.ArtifactRef, login, action string, err error, label *string) {
	entry := &domain.AuditEntry{
		WorkspaceID:    ref.WorkspaceID,
		ArtifactNumber: ref.Number,
		Principal:      login,
		Action:         action,
		Status:         domain.StatusAllowed,
		VersionLabel:   label,
	}
	if err != nil {
		detail := err.Error()
		entry.Detail = &detail
		entry.Status = domain.StatusError
		var denied *domain.AccessDeniedError
		var locked *domain.LockedError
		var notHolder *domain.NotLockHolderError
		if errors.As(err, &denied) || errors.As(err, &locked) || errors.As(err, &notHolder) {
			entry.Status = domain.StatusDenied
		}
	}
	s.record(ctx, entry)
}

// authorize resolves login's permission on ref and requires at least need.
func (s *VaultService) authorize(ctx context.Context, login string, ref domain.ArtifactRef, need domain.Permission) error {
	p, err := s.resolver.ResolvePermission(ctx, login, ref)
	if err != nil {
		return err
	}
	if !p.AtLeast(need) {
		return domain.ErrAccessDenied("user %q lacks %s access to %s", login, need, ref)
	}
	return nil
}

// Create makes a new artifact with its seed revision "A" authored by login.
// The creator must be a member of the workspace. An inline ACL, when given,
// is attached in the same call.
func (s *VaultService) Create(ctx context.Context, login string, req domain.CreateArtifactRequest) (*domain.Artifact, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	member, err := s.workspaces.IsMember(ctx, req.WorkspaceID, login)
	if err != nil {
		return nil, err
	}
	if !member {
		err := domain.ErrAccessDenied("user %q is not a member of workspace %q", login, req.WorkspaceID)
		s.recordOutcome(ctx, domain.ArtifactRef{WorkspaceID: req.WorkspaceID, Number: req.Number}, login, domain.ActionCreate, err, nil)
		return nil, err
	}

	artifact, rev, err := s.ledger.Create(ctx, &domain.Artifact{
		WorkspaceID: req.WorkspaceID,
		Number:      req.Number,
		Kind:        req.Kind,
		Name:        req.Name,
		CreatedBy:   login,
	}, req.Content)
	if err != nil {
		return nil, err
	}

	ref := domain.ArtifactRef{WorkspaceID: artifact.WorkspaceID, Number: artifact.Number}
	if req.ACL != nil {
		if err := s.acls.SetACL(ctx, ref, req.ACL); err != nil {
			return nil, err
		}
	}

	s.recordOutcome(ctx, ref, login, domain.ActionCreate, nil, &rev.Label)
	s.logger.Info("artifact created", "artifact", ref.String(), "kind", artifact.Kind, "by", login)
	return artifact, nil
}

// Checkout acquires the exclusive edit lock on the artifact for login and
// returns the working snapshot seeded from the latest revision.
//
// Authorization failures surface as AccessDeniedError; an artifact held by
// another user surfaces as LockedError. Callers can tell "you may never edit
// this" from "someone else is editing it".
func (s *VaultService) Checkout(ctx context.Context, login string, ref domain.ArtifactRef) (*domain.WorkingSnapshot, error) {
	if err := s.authorize(ctx, login, ref, domain.Write); err != nil {
		s.recordOutcome(ctx, ref, login, domain.ActionCheckout, err, nil)
		return nil, err
	}

	var snap *domain.WorkingSnapshot
	err := s.withConflictRetry(ctx, func() error {
		var err error
		snap, err = s.ledger.Checkout(ctx, ref, login, time.Now())
		return err
	})
	s.recordOutcome(ctx, ref, login, domain.ActionCheckout, err, nil)
	if err != nil {
		return nil, err
	}
	s.logger.Info("checked out", "artifact", ref.String(), "by", login, "base", snap.BaseLabel)
	return snap, nil
}

// SaveWorking replaces the lock holder's in-progress content without
// committing a revision.
func (s *VaultService) SaveWorking(ctx context.Context, login string, ref domain.ArtifactRef, content string) error {
	return s.withConflictRetry(ctx, func() error {
		return s.ledger.SaveWorking(ctx, ref, login, content)
	})
}

// CheckIn promotes content into the next immutable revision and releases the
// lock. Only the exact lock holder may check in; anyone else gets
// NotLockHolderError regardless of their ACL permission.
func (s *VaultService) CheckIn(ctx context.Context, login string, ref domain.ArtifactRef, content string) (*domain.Revision, error) {
	var rev *domain.Revision
	err := s.withConflictRetry(ctx, func() error {
		var err error
		rev, err = s.ledger.CheckIn(ctx, ref, login, content, time.Now())
		return err
	})
	if err != nil {
		s.recordOutcome(ctx, ref, login, domain.ActionCheckin, err, nil)
		var integrity *domain.IntegrityError
		if errors.As(err, &integrity) {
			s.logger.Error("ledger integrity fault on checkin", "artifact", ref.String(), "error", err)
		}
		return nil, err
	}
	s.recordOutcome(ctx, ref, login, domain.ActionCheckin, nil, &rev.Label)
	s.logger.Info("checked in", "artifact", ref.String(), "by", login, "version", rev.Label)
	return rev, nil
}

// UndoCheckout discards the working copy and releases the lock without
// committing anything. Only the exact lock holder may undo.
func (s *VaultService) UndoCheckout(ctx context.Context, login string, ref domain.ArtifactRef) error {
	err := s.withConflictRetry(ctx, func() error {
		return s.ledger.UndoCheckout(ctx, ref, login)
	})
	s.recordOutcome(ctx, ref, login, domain.ActionUndoCheckout, err, nil)
	if err != nil {
		return err
	}
	s.logger.Info("checkout undone", "artifact", ref.String(), "by", login)
	return nil
}

// Read returns the latest committed revision. It never exposes another
// user's in-progress working copy; the lock holder can fetch that through
// WorkingCopy.
func (s *VaultService) Read(ctx context.Context, login string, ref domain.ArtifactRef) (*domain.Revision, error) {
	if err := s.authorize(ctx, login, ref, domain.Read); err != nil {
		return nil, err
	}
	return s.ledger.LatestRevision(ctx, ref)
}

// WorkingCopy returns the caller's in-progress snapshot. Fails with
// NotLockHolderError for anyone but the current holder.
func (s *VaultService) WorkingCopy(ctx context.Context, login string, ref domain.ArtifactRef) (*domain.WorkingSnapshot, error) {
	if err := s.authorize(ctx, login, ref, domain.Write); err != nil {
		return nil, err
	}
	return s.ledger.Working(ctx, ref, login)
}

// Status returns the artifact master record, including its lock state.
// Requires Read access.
func (s *VaultService) Status(ctx context.Context, login string, ref domain.ArtifactRef) (*domain.Artifact, error) {
	if err := s.authorize(ctx, login, ref, domain.Read); err != nil {
		return nil, err
	}
	return s.ledger.Get(ctx, ref)
}

// History returns the artifact's full revision chain in commit order.
// Requires Read access.
func (s *VaultService) History(ctx context.Context, login string, ref domain.ArtifactRef) ([]domain.Revision, error) {
	if err := s.authorize(ctx, login, ref, domain.Read); err != nil {
		return nil, err
	}
	return s.ledger.Revisions(ctx, ref)
}

// ListReadable pages over the workspace's artifacts and returns the latest
// revision of each one the caller may read. Items the caller cannot read are
// silently omitted; per-item denial is filtering here, not an error.
func (s *VaultService) ListReadable(ctx context.Context, login string, workspaceID string, page domain.PageRequest) ([]domain.Revision, error) {
	revs, _, err := s.ledger.ListLatestRevisions(ctx, workspaceID, page)
	if err != nil {
		return nil, err
	}

	readable := make([]domain.Revision, 0, len(revs))
	for _, rev := range revs {
		ref := domain.ArtifactRef{WorkspaceID: rev.WorkspaceID, Number: rev.Number}
		p, err := s.resolver.ResolvePermission(ctx, login, ref)
		if err != nil {
			return nil, err
		}
		if p.AtLeast(domain.Read) {
			readable = append(readable, rev)
		}
	}
	return readable, nil
}
