package service

import (
	"context"

	"docvault/internal/domain"
)

// AuditService exposes the vault event trail to operators.
type AuditService struct {
	audit domain.AuditRepository
}

// NewAuditService creates an AuditService.
func NewAuditService(audit domain.AuditRepository) *AuditService {
	return &AuditService{audit: audit}
}

// List pages over audit entries, newest first, optionally filtered by
// workspace, principal, action, or status.
func (s *AuditService) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, int64, error) {
	return s.audit.List(ctx, filter)
}
