package service

import (
	"context"
	"log/slog"

	"docvault/internal/domain"
)

// GroupService administers workspace groups and their members.
type GroupService struct {
	groups     domain.GroupRepository
	workspaces domain.WorkspaceRepository
	logger     *slog.Logger
}

// NewGroupService creates a GroupService.
func NewGroupService(groups domain.GroupRepository, workspaces domain.WorkspaceRepository, logger *slog.Logger) *GroupService {
	return &GroupService{
		groups:     groups,
		workspaces: workspaces,
		logger:     logger.With("component", "group"),
	}
}

// Create makes a new empty group in the workspace.
func (s *GroupService) Create(ctx context.Context, req domain.CreateGroupRequest) (*domain.Group, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.workspaces.Get(ctx, req.WorkspaceID); err != nil {
		return nil, err
	}
	g, err := s.groups.Create(ctx, &domain.Group{
		WorkspaceID: req.WorkspaceID,
		Name:        req.Name,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("group created", "workspace", g.WorkspaceID, "group", g.Name)
	return g, nil
}

// Get returns a group by workspace and name.
func (s *GroupService) Get(ctx context.Context, workspaceID, name string) (*domain.Group, error) {
	if workspaceID == "" || name == "" {
		return nil, domain.ErrValidation("workspace id and group name are required")
	}
	return s.groups.Get(ctx, workspaceID, name)
}

// Delete removes the group and its memberships. ACL entries naming the
// group stop matching anyone once it is gone.
func (s *GroupService) Delete(ctx context.Context, workspaceID, name string) error {
	if workspaceID == "" || name == "" {
		return domain.ErrValidation("workspace id and group name are required")
	}
	if err := s.groups.Delete(ctx, workspaceID, name); err != nil {
		return err
	}
	s.logger.Info("group deleted", "workspace", workspaceID, "group", name)
	return nil
}

// AddMember puts login into the group. Members must already belong to the
// workspace.
func (s *GroupService) AddMember(ctx context.Context, req domain.GroupMemberRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	member, err := s.workspaces.IsMember(ctx, req.WorkspaceID, req.Login)
	if err != nil {
		return err
	}
	if !member {
		return domain.ErrValidation("user %q is not a member of workspace %q", req.Login, req.WorkspaceID)
	}
	if err := s.groups.AddMember(ctx, req.WorkspaceID, req.GroupName, req.Login); err != nil {
		return err
	}
	s.logger.Info("group member added", "workspace", req.WorkspaceID, "group", req.GroupName, "login", req.Login)
	return nil
}

// RemoveMember takes login out of the group.
func (s *GroupService) RemoveMember(ctx context.Context, req domain.GroupMemberRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := s.groups.RemoveMember(ctx, req.WorkspaceID, req.GroupName, req.Login); err != nil {
		return err
	}
	s.logger.Info("group member removed", "workspace", req.WorkspaceID, "group", req.GroupName, "login", req.Login)
	return nil
}

// ListMembers returns the group's member logins in order.
func (s *GroupService) ListMembers(ctx context.Context, workspaceID, name string) ([]string, error) {
	if workspaceID == "" || name == "" {
		return nil, domain.ErrValidation("workspace id and group name are required")
	}
	return s.groups.ListMembers(ctx, workspaceID, name)
}
