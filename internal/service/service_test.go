package service

import (
	"context"
	"io"
	"log/slog"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/stretchr/testify/require"

	internaldb "docvault/internal/db"
	"docvault/internal/db/repository"
	"docvault/internal/domain"
)

// fixture wires every service against a fresh on-disk SQLite pair, with a
// workspace "acme" (default member permission WRITE) and members alice, bob,
// and carol. dave exists outside the workspace.
type fixture struct {
	ctx        context.Context
	authz      *AuthorizationService
	vault      *VaultService
	acl        *ACLService
	workspaces *WorkspaceService
	groups     *GroupService
	audit      *AuditService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	writeDB, readDB := internaldb.OpenTestSQLite(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	wsRepo := repository.NewWorkspaceRepo(writeDB)
	groupRepo := repository.NewGroupRepo(writeDB)
	aclRepo := repository.NewACLRepo(writeDB)
	artifactRepo := repository.NewArtifactRepo(writeDB, readDB)
	auditRepo := repository.NewAuditRepo(writeDB, readDB)

	authz := NewAuthorizationService(wsRepo, groupRepo, aclRepo)

	f := &fixture{
		ctx:        context.Background(),
		authz:      authz,
		vault:      NewVaultService(authz, artifactRepo, wsRepo, aclRepo, auditRepo, logger),
		acl:        NewACLService(authz, aclRepo, auditRepo, logger),
		workspaces: NewWorkspaceService(wsRepo, logger),
		groups:     NewGroupService(groupRepo, wsRepo, logger),
		audit:      NewAuditService(auditRepo),
	}

	_, err := f.workspaces.Create(f.ctx, domain.CreateWorkspaceRequest{
		ID:                      "acme",
		DefaultMemberPermission: domain.Write,
	})
	require.NoError(t, err)

	for _, login := range []string{"alice", "bob", "carol"} {
		require.NoError(t, f.workspaces.AddUser(f.ctx, "acme", login))
	}

	return f
}

// createArtifact makes "acme/DOC-001" authored by bob with no ACL.
func (f *fixture) createArtifact(t *testing.T) domain.ArtifactRef {
	t.Helper()

	_, err := f.vault.Create(f.ctx, "bob", domain.CreateArtifactRequest{
		WorkspaceID: "acme",
		Number:      "DOC-001",
		Kind:        domain.KindDocument,
		Name:        "assembly notes",
		Content:     "v1 content",
	})
	require.NoError(t, err)

	return domain.ArtifactRef{WorkspaceID: "acme", Number: "DOC-001"}
}

// group makes a workspace group with the given members.
func (f *fixture) group(t *testing.T, name string, members ...string) {
	t.Helper()

	_, err := f.groups.Create(f.ctx, domain.CreateGroupRequest{WorkspaceID: "acme", Name: name})
	require.NoError(t, err)
	for _, login := range members {
		err := f.groups.AddMember(f.ctx, domain.GroupMemberRequest{
			WorkspaceID: "acme", GroupName: name, Login: login,
		})
		require.NoError(t, err)
	}
}
