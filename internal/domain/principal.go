package domain

import "time"

// Workspace is the collaboration boundary. Users and groups are scoped to a
// workspace, and artifacts without an ACL fall back to the workspace's
// default member permission.
type Workspace struct {
	ID string
	// DefaultMemberPermission is what a workspace member resolves to on an
	// artifact with no ACL. Non-members always resolve to Forbidden.
	DefaultMemberPermission Permission
	CreatedAt               time.Time
}

// Group is a named collection of user logins within a workspace. Membership
// is flat; groups do not nest.
type Group struct {
	WorkspaceID string
	Name        string
	CreatedAt   time.Time
}

// CreateWorkspaceRequest holds parameters for creating a workspace.
type CreateWorkspaceRequest struct {
	ID                      string
	DefaultMemberPermission Permission
}

// Validate checks that the request is well-formed.
func (r *CreateWorkspaceRequest) Validate() error {
	if r.ID == "" {
		return ErrValidation("workspace id is required")
	}
	return nil
}

// CreateGroupRequest holds parameters for creating a group.
type CreateGroupRequest struct {
	WorkspaceID string
	Name        string
}

// Validate checks that the request is well-formed.
func (r *CreateGroupRequest) Validate() error {
	if r.WorkspaceID == "" {
		return ErrValidation("workspace id is required")
	}
	if r.Name == "" {
		return ErrValidation("group name is required")
	}
	return nil
}

// GroupMemberRequest identifies a (group, login) pair for membership changes.
type GroupMemberRequest struct {
	WorkspaceID string
	GroupName   string
	Login       string
}

// Validate checks that the request is well-formed.
func (r *GroupMemberRequest) Validate() error {
	if r.WorkspaceID == "" {
		return ErrValidation("workspace id is required")
	}
	if r.GroupName == "" {
		return ErrValidation("group name is required")
	}
	if r.Login == "" {
		return ErrValidation("login is required")
	}
	return nil
}
