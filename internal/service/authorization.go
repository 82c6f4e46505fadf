// Package service implements the vault's business logic on top of the
// domain repository interfaces.
package service

import (
	"context"

	"docvault/internal/domain"
)

// PermissionResolver is the authorization gate consumed by the coordinator.
type PermissionResolver interface {
	ResolvePermission(ctx context.Context, login string, ref domain.ArtifactRef) (domain.Permission, error)
}

// AuthorizationService computes the effective permission a user has on an
// artifact from its ACL, the user's group memberships, and the workspace
// default policy.
//
// Resolution is deterministic for a fixed ACL and membership snapshot:
//  1. no ACL: workspace members get the workspace's default member
//     permission, everyone else Forbidden;
//  2. a user entry for the login wins outright, whatever the groups say;
//  3. otherwise the highest permission among the user's groups that have
//     entries;
//  4. otherwise Forbidden.
type AuthorizationService struct {
	workspaces domain.WorkspaceRepository
	groups     domain.GroupRepository
	acls       domain.ACLRepository
}

var _ PermissionResolver = (*AuthorizationService)(nil)

// NewAuthorizationService creates an AuthorizationService backed by domain
// repositories.
func NewAuthorizationService(
	workspaces domain.WorkspaceRepository,
	groups domain.GroupRepository,
	acls domain.ACLRepository,
) *AuthorizationService {
	return &AuthorizationService{
		workspaces: workspaces,
		groups:     groups,
		acls:       acls,
	}
}

// ResolvePermission returns the effective permission login has on the
// artifact. It has no side effects; callers must re-resolve after ACL or
// membership changes.
func (s *AuthorizationService) ResolvePermission(ctx context.Context, login string, ref domain.ArtifactRef) (domain.Permission, error) {
	acl, err := s.acls.ACLOf(ctx, ref)
	if err != nil {
		return domain.Forbidden, err
	}

	if acl == nil {
		return s.defaultPermission(ctx, ref.WorkspaceID, login)
	}

	if p, ok := acl.UserEntry(login); ok {
		// User-level entries take precedence over any group entry.
		return p, nil
	}

	groups, err := s.groups.GroupsOf(ctx, ref.WorkspaceID, login)
	if err != nil {
		return domain.Forbidden, err
	}

	effective := domain.Forbidden
	matched := false
	for _, name := range groups {
		if p, ok := acl.GroupEntry(name); ok {
			effective = effective.Max(p)
			matched = true
		}
	}
	if !matched {
		return domain.Forbidden, nil
	}
	return effective, nil
}

// defaultPermission applies the workspace default policy for artifacts
// without an ACL.
func (s *AuthorizationService) defaultPermission(ctx context.Context, workspaceID, login string) (domain.Permission, error) {
	member, err := s.workspaces.IsMember(ctx, workspaceID, login)
	if err != nil {
		return domain.Forbidden, err
	}
	if !member {
		return domain.Forbidden, nil
	}
	w, err := s.workspaces.Get(ctx, workspaceID)
	if err != nil {
		return domain.Forbidden, err
	}
	return w.DefaultMemberPermission, nil
}
