package service

import (
	"context"
	"log/slog"

	"docvault/internal/domain"
)

// WorkspaceService administers workspaces and their memberships.
type WorkspaceService struct {
	workspaces domain.WorkspaceRepository
	logger     *slog.Logger
}

// NewWorkspaceService creates a WorkspaceService.
func NewWorkspaceService(workspaces domain.WorkspaceRepository, logger *slog.Logger) *WorkspaceService {
	return &WorkspaceService{
		workspaces: workspaces,
		logger:     logger.With("component", "workspace"),
	}
}

// Create makes a new workspace with the given default member permission.
func (s *WorkspaceService) Create(ctx context.Context, req domain.CreateWorkspaceRequest) (*domain.Workspace, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	w, err := s.workspaces.Create(ctx, &domain.Workspace{
		ID:                      req.ID,
		DefaultMemberPermission: req.DefaultMemberPermission,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("workspace created", "workspace", w.ID, "default_permission", w.DefaultMemberPermission)
	return w, nil
}

// Get returns a workspace by id.
func (s *WorkspaceService) Get(ctx context.Context, id string) (*domain.Workspace, error) {
	if id == "" {
		return nil, domain.ErrValidation("workspace id is required")
	}
	return s.workspaces.Get(ctx, id)
}

// AddUser enrolls login as a workspace member.
func (s *WorkspaceService) AddUser(ctx context.Context, workspaceID, login string) error {
	if workspaceID == "" || login == "" {
		return domain.ErrValidation("workspace id and login are required")
	}
	if _, err := s.workspaces.Get(ctx, workspaceID); err != nil {
		return err
	}
	if err := s.workspaces.AddUser(ctx, workspaceID, login); err != nil {
		return err
	}
	s.logger.Info("user added", "workspace", workspaceID, "login", login)
	return nil
}

// RemoveUser revokes login's workspace membership.
func (s *WorkspaceService) RemoveUser(ctx context.Context, workspaceID, login string) error {
	if workspaceID == "" || login == "" {
		return domain.ErrValidation("workspace id and login are required")
	}
	if err := s.workspaces.RemoveUser(ctx, workspaceID, login); err != nil {
		return err
	}
	s.logger.Info("user removed", "workspace", workspaceID, "login", login)
	return nil
}

// ListUsers pages over workspace members in login order.
func (s *WorkspaceService) ListUsers(ctx context.Context, workspaceID string, page domain.PageRequest) ([]string, int64, error) {
	if workspaceID == "" {
		return nil, 0, domain.ErrValidation("workspace id is required")
	}
	return s.workspaces.ListUsers(ctx, workspaceID, page)
}
