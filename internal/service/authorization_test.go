package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docvault/internal/domain"
)

func TestResolveNoACLUsesWorkspaceDefault(t *testing.T) {
	f := newFixture(t)
	ref := f.createArtifact(t)

	// Members fall back to the workspace default, WRITE here.
	p, err := f.authz.ResolvePermission(f.ctx, "alice", ref)
	require.NoError(t, err)
	assert.Equal(t, domain.Write, p)

	// Non-members get nothing.
	p, err = f.authz.ResolvePermission(f.ctx, "dave", ref)
	require.NoError(t, err)
	assert.Equal(t, domain.Forbidden, p)
}

func TestResolveUserEntryBeatsGroupEntry(t *testing.T) {
	f := newFixture(t)
	ref := f.createArtifact(t)
	f.group(t, "engineers", "alice")

	// alice's explicit READ must win even though engineers has WRITE.
	acl := domain.NewACL(
		map[string]domain.Permission{"alice": domain.Read},
		map[string]domain.Permission{"engineers": domain.Write},
	)
	require.NoError(t, f.acl.SetACL(f.ctx, "bob", ref, acl))

	p, err := f.authz.ResolvePermission(f.ctx, "alice", ref)
	require.NoError(t, err)
	assert.Equal(t, domain.Read, p)
}

func TestResolveUserForbiddenEntryBlocksGroupGrant(t *testing.T) {
	f := newFixture(t)
	ref := f.createArtifact(t)
	f.group(t, "engineers", "alice")

	acl := domain.NewACL(
		map[string]domain.Permission{"alice": domain.Forbidden},
		map[string]domain.Permission{"engineers": domain.Write},
	)
	require.NoError(t, f.acl.SetACL(f.ctx, "bob", ref, acl))

	p, err := f.authz.ResolvePermission(f.ctx, "alice", ref)
	require.NoError(t, err)
	assert.Equal(t, domain.Forbidden, p)
}

func TestResolveHighestGroupWins(t *testing.T) {
	f := newFixture(t)
	ref := f.createArtifact(t)
	f.group(t, "viewers", "alice")
	f.group(t, "editors", "alice")
	f.group(t, "blocked", "alice")

	acl := domain.NewACL(nil, map[string]domain.Permission{
		"viewers": domain.Read,
		"editors": domain.Write,
		"blocked": domain.Forbidden,
	})
	require.NoError(t, f.acl.SetACL(f.ctx, "bob", ref, acl))

	p, err := f.authz.ResolvePermission(f.ctx, "alice", ref)
	require.NoError(t, err)
	assert.Equal(t, domain.Write, p)
}

func TestResolveNoMatchingEntryIsForbidden(t *testing.T) {
	f := newFixture(t)
	ref := f.createArtifact(t)

	// carol is a workspace member, but once an ACL exists the workspace
	// default no longer applies and she matches nothing.
	acl := domain.NewACL(map[string]domain.Permission{"alice": domain.Write}, nil)
	require.NoError(t, f.acl.SetACL(f.ctx, "bob", ref, acl))

	p, err := f.authz.ResolvePermission(f.ctx, "carol", ref)
	require.NoError(t, err)
	assert.Equal(t, domain.Forbidden, p)
}

func TestResolveEmptyACLDiffersFromNoACL(t *testing.T) {
	f := newFixture(t)
	ref := f.createArtifact(t)

	require.NoError(t, f.acl.SetACL(f.ctx, "bob", ref, domain.NewACL(nil, nil)))

	// An empty ACL locks everyone out, including members who would have
	// had the workspace default.
	p, err := f.authz.ResolvePermission(f.ctx, "alice", ref)
	require.NoError(t, err)
	assert.Equal(t, domain.Forbidden, p)
}

func TestResolveIsRepeatable(t *testing.T) {
	f := newFixture(t)
	ref := f.createArtifact(t)
	f.group(t, "engineers", "alice")

	acl := domain.NewACL(nil, map[string]domain.Permission{"engineers": domain.Write})
	require.NoError(t, f.acl.SetACL(f.ctx, "bob", ref, acl))

	for i := 0; i < 5; i++ {
		p, err := f.authz.ResolvePermission(f.ctx, "alice", ref)
		require.NoError(t, err)
		assert.Equal(t, domain.Write, p)
	}
}

func TestResolveMissingArtifact(t *testing.T) {
	f := newFixture(t)

	_, err := f.authz.ResolvePermission(f.ctx, "alice", domain.ArtifactRef{
		WorkspaceID: "acme", Number: "NOPE",
	})
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestRemoveACLRestoresWorkspaceDefault(t *testing.T) {
	f := newFixture(t)
	ref := f.createArtifact(t)

	acl := domain.NewACL(map[string]domain.Permission{"bob": domain.Write}, nil)
	require.NoError(t, f.acl.SetACL(f.ctx, "bob", ref, acl))

	p, err := f.authz.ResolvePermission(f.ctx, "alice", ref)
	require.NoError(t, err)
	assert.Equal(t, domain.Forbidden, p)

	require.NoError(t, f.acl.RemoveACL(f.ctx, "bob", ref))

	p, err = f.authz.ResolvePermission(f.ctx, "alice", ref)
	require.NoError(t, err)
	assert.Equal(t, domain.Write, p)
}

func TestSetACLRequiresWrite(t *testing.T) {
	f := newFixture(t)
	ref := f.createArtifact(t)

	// Demote alice to READ, then she may no longer change the ACL.
	acl := domain.NewACL(map[string]domain.Permission{
		"alice": domain.Read,
		"bob":   domain.Write,
	}, nil)
	require.NoError(t, f.acl.SetACL(f.ctx, "bob", ref, acl))

	err := f.acl.SetACL(f.ctx, "alice", ref, domain.NewACL(
		map[string]domain.Permission{"alice": domain.Write}, nil))
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)

	got, err := f.acl.GetACL(f.ctx, "alice", ref)
	require.NoError(t, err)
	readBack, ok := got.UserEntry("alice")
	require.True(t, ok)
	assert.Equal(t, domain.Read, readBack)
}
