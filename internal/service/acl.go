package service

import (
	"context"
	"errors"
	"log/slog"

	"docvault/internal/domain"
)

// ACLService administers per-artifact access control lists. Mutations
// require Write on the artifact, reads require Read.
type ACLService struct {
	resolver PermissionResolver
	acls     domain.ACLRepository
	audit    domain.AuditRepository
	logger   *slog.Logger
}

// NewACLService creates an ACLService.
func NewACLService(
	resolver PermissionResolver,
	acls domain.ACLRepository,
	audit domain.AuditRepository,
	logger *slog.Logger,
) *ACLService {
	return &ACLService{
		resolver: resolver,
		acls:     acls,
		audit:    audit,
		logger:   logger.With("component", "acl"),
	}
}

func (s *ACLService) authorize(ctx context.Context, login string, ref domain.ArtifactRef, need domain.Permission) error {
	p, err := s.resolver.ResolvePermission(ctx, login, ref)
	if err != nil {
		return err
	}
	if !p.AtLeast(need) {
		return domain.ErrAccessDenied("user %q lacks %s access to %s", login, need, ref)
	}
	return nil
}

func (s *ACLService) record(ctx context.Context, ref domain.ArtifactRef, login, action string, err error) {
	entry := &domain.AuditEntry{
		WorkspaceID:    ref.WorkspaceID,
		ArtifactNumber: ref.Number,
		Principal:      login,
		Action:         action,
		Status:         domain.StatusAllowed,
	}
	if err != nil {
		detail := err.Error()
		entry.Detail = &detail
		entry.Status = domain.StatusError
		var denied *domain.AccessDeniedError
		if errors.As(err, &denied) {
			entry.Status = domain.StatusDenied
		}
	}
	if insErr := s.audit.Insert(ctx, entry); insErr != nil {
		s.logger.Warn("audit insert failed", "action", action, "artifact", ref.String(), "error", insErr)
	}
}

// GetACL returns the artifact's ACL, or nil when it has none and the
// workspace default policy applies. Requires Read access.
func (s *ACLService) GetACL(ctx context.Context, login string, ref domain.ArtifactRef) (*domain.ACL, error) {
	if err := s.authorize(ctx, login, ref, domain.Read); err != nil {
		return nil, err
	}
	return s.acls.ACLOf(ctx, ref)
}

// SetACL replaces the artifact's ACL wholesale. The caller must hold Write
// under the ACL in force before the change.
func (s *ACLService) SetACL(ctx context.Context, login string, ref domain.ArtifactRef, acl *domain.ACL) error {
	if err := s.authorize(ctx, login, ref, domain.Write); err != nil {
		s.record(ctx, ref, login, domain.ActionSetACL, err)
		return err
	}
	err := s.acls.SetACL(ctx, ref, acl)
	s.record(ctx, ref, login, domain.ActionSetACL, err)
	if err != nil {
		return err
	}
	s.logger.Info("acl set", "artifact", ref.String(), "by", login)
	return nil
}

// RemoveACL deletes the artifact's ACL so the workspace default policy
// applies again. Requires Write access.
func (s *ACLService) RemoveACL(ctx context.Context, login string, ref domain.ArtifactRef) error {
	if err := s.authorize(ctx, login, ref, domain.Write); err != nil {
		s.record(ctx, ref, login, domain.ActionRemoveACL, err)
		return err
	}
	err := s.acls.RemoveACL(ctx, ref)
	s.record(ctx, ref, login, domain.ActionRemoveACL, err)
	if err != nil {
		return err
	}
	s.logger.Info("acl removed", "artifact", ref.String(), "by", login)
	return nil
}
