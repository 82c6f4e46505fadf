package service

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"docvault/internal/domain"
)

func TestCreateRequiresMembership(t *testing.T) {
	f := newFixture(t)

	_, err := f.vault.Create(f.ctx, "dave", domain.CreateArtifactRequest{
		WorkspaceID: "acme",
		Number:      "DOC-001",
		Name:        "notes",
		Content:     "x",
	})
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)
}

func TestCreateWithInlineACL(t *testing.T) {
	f := newFixture(t)

	_, err := f.vault.Create(f.ctx, "bob", domain.CreateArtifactRequest{
		WorkspaceID: "acme",
		Number:      "DOC-001",
		Name:        "notes",
		Content:     "x",
		ACL: domain.NewACL(map[string]domain.Permission{
			"bob": domain.Write,
		}, nil),
	})
	require.NoError(t, err)

	ref := domain.ArtifactRef{WorkspaceID: "acme", Number: "DOC-001"}

	// The ACL is in force from the first moment: alice matches nothing.
	_, err = f.vault.Read(f.ctx, "alice", ref)
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)

	rev, err := f.vault.Read(f.ctx, "bob", ref)
	require.NoError(t, err)
	assert.Equal(t, "A", rev.Label)
}

func TestCheckoutCheckinRoundTrip(t *testing.T) {
	f := newFixture(t)
	ref := f.createArtifact(t)

	snap, err := f.vault.Checkout(f.ctx, "alice", ref)
	require.NoError(t, err)
	assert.Equal(t, "A", snap.BaseLabel)
	assert.Equal(t, "v1 content", snap.Content)

	rev, err := f.vault.CheckIn(f.ctx, "alice", ref, "v2 content")
	require.NoError(t, err)
	assert.Equal(t, "B", rev.Label)
	assert.Equal(t, "alice", rev.Author)

	got, err := f.vault.Read(f.ctx, "bob", ref)
	require.NoError(t, err)
	assert.Equal(t, "v2 content", got.Content)

	// The lock is gone, so bob can take the next turn.
	_, err = f.vault.Checkout(f.ctx, "bob", ref)
	require.NoError(t, err)
}

func TestCheckoutRequiresWrite(t *testing.T) {
	f := newFixture(t)
	ref := f.createArtifact(t)

	acl := domain.NewACL(map[string]domain.Permission{
		"alice": domain.Read,
		"bob":   domain.Write,
	}, nil)
	require.NoError(t, f.acl.SetACL(f.ctx, "bob", ref, acl))

	_, err := f.vault.Checkout(f.ctx, "alice", ref)
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)
}

func TestCheckoutHeldByOtherIsLocked(t *testing.T) {
	f := newFixture(t)
	ref := f.createArtifact(t)

	_, err := f.vault.Checkout(f.ctx, "bob", ref)
	require.NoError(t, err)

	_, err = f.vault.Checkout(f.ctx, "alice", ref)
	var locked *domain.LockedError
	require.ErrorAs(t, err, &locked)
	assert.Equal(t, "bob", locked.Holder)
}

func TestCheckoutIsIdempotentForHolder(t *testing.T) {
	f := newFixture(t)
	ref := f.createArtifact(t)

	_, err := f.vault.Checkout(f.ctx, "bob", ref)
	require.NoError(t, err)
	require.NoError(t, f.vault.SaveWorking(f.ctx, "bob", ref, "draft"))

	// A repeat checkout by the holder keeps the draft.
	snap, err := f.vault.Checkout(f.ctx, "bob", ref)
	require.NoError(t, err)
	assert.Equal(t, "draft", snap.Content)
}

func TestCheckInWithoutLockIsRejected(t *testing.T) {
	f := newFixture(t)
	ref := f.createArtifact(t)

	_, err := f.vault.CheckIn(f.ctx, "alice", ref, "sneaky")
	var notHolder *domain.NotLockHolderError
	require.ErrorAs(t, err, &notHolder)

	// Write permission does not substitute for holding the lock.
	_, err = f.vault.Checkout(f.ctx, "bob", ref)
	require.NoError(t, err)
	_, err = f.vault.CheckIn(f.ctx, "alice", ref, "sneaky")
	require.ErrorAs(t, err, &notHolder)

	rev, err := f.vault.Read(f.ctx, "alice", ref)
	require.NoError(t, err)
	assert.Equal(t, "A", rev.Label)
	assert.Equal(t, "v1 content", rev.Content)
}

func TestUndoCheckoutDiscardsDraftAndLabel(t *testing.T) {
	f := newFixture(t)
	ref := f.createArtifact(t)

	_, err := f.vault.Checkout(f.ctx, "alice", ref)
	require.NoError(t, err)
	require.NoError(t, f.vault.SaveWorking(f.ctx, "alice", ref, "abandoned"))
	require.NoError(t, f.vault.UndoCheckout(f.ctx, "alice", ref))

	// Nothing was committed and the label was not consumed: the next
	// check-in still produces B.
	_, err = f.vault.Checkout(f.ctx, "bob", ref)
	require.NoError(t, err)
	rev, err := f.vault.CheckIn(f.ctx, "bob", ref, "v2")
	require.NoError(t, err)
	assert.Equal(t, "B", rev.Label)

	history, err := f.vault.History(f.ctx, "bob", ref)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "v1 content", history[0].Content)
	assert.Equal(t, "v2", history[1].Content)
}

func TestUndoCheckoutByNonHolderIsRejected(t *testing.T) {
	f := newFixture(t)
	ref := f.createArtifact(t)

	_, err := f.vault.Checkout(f.ctx, "alice", ref)
	require.NoError(t, err)

	err = f.vault.UndoCheckout(f.ctx, "bob", ref)
	var notHolder *domain.NotLockHolderError
	require.ErrorAs(t, err, &notHolder)

	status, err := f.vault.Status(f.ctx, "bob", ref)
	require.NoError(t, err)
	require.NotNil(t, status.Lock)
	assert.Equal(t, "alice", status.Lock.Holder)
}

func TestReadNeverExposesWorkingCopy(t *testing.T) {
	f := newFixture(t)
	ref := f.createArtifact(t)

	_, err := f.vault.Checkout(f.ctx, "alice", ref)
	require.NoError(t, err)
	require.NoError(t, f.vault.SaveWorking(f.ctx, "alice", ref, "half done"))

	rev, err := f.vault.Read(f.ctx, "bob", ref)
	require.NoError(t, err)
	assert.Equal(t, "v1 content", rev.Content)

	// The holder sees the draft through WorkingCopy, bob does not.
	snap, err := f.vault.WorkingCopy(f.ctx, "alice", ref)
	require.NoError(t, err)
	assert.Equal(t, "half done", snap.Content)

	_, err = f.vault.WorkingCopy(f.ctx, "bob", ref)
	var notHolder *domain.NotLockHolderError
	require.ErrorAs(t, err, &notHolder)
}

func TestReadForbiddenIsDenied(t *testing.T) {
	f := newFixture(t)
	ref := f.createArtifact(t)

	acl := domain.NewACL(map[string]domain.Permission{"bob": domain.Write}, nil)
	require.NoError(t, f.acl.SetACL(f.ctx, "bob", ref, acl))

	_, err := f.vault.Read(f.ctx, "alice", ref)
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)
}

func TestListReadableFiltersSilently(t *testing.T) {
	f := newFixture(t)

	for _, number := range []string{"DOC-001", "DOC-002", "DOC-003"} {
		_, err := f.vault.Create(f.ctx, "bob", domain.CreateArtifactRequest{
			WorkspaceID: "acme",
			Number:      number,
			Name:        "doc " + number,
			Content:     "content " + number,
		})
		require.NoError(t, err)
	}

	// Hide DOC-002 from everyone but bob.
	hidden := domain.ArtifactRef{WorkspaceID: "acme", Number: "DOC-002"}
	acl := domain.NewACL(map[string]domain.Permission{"bob": domain.Write}, nil)
	require.NoError(t, f.acl.SetACL(f.ctx, "bob", hidden, acl))

	revs, err := f.vault.ListReadable(f.ctx, "alice", "acme", domain.PageRequest{})
	require.NoError(t, err)
	require.Len(t, revs, 2)
	assert.Equal(t, "DOC-001", revs[0].Number)
	assert.Equal(t, "DOC-003", revs[1].Number)

	// Targeting the hidden artifact directly is an error, not a filter.
	_, err = f.vault.Read(f.ctx, "alice", hidden)
	var denied *domain.AccessDeniedError
	require.ErrorAs(t, err, &denied)

	revs, err = f.vault.ListReadable(f.ctx, "bob", "acme", domain.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, revs, 3)
}

func TestConcurrentCheckoutsSingleWinner(t *testing.T) {
	f := newFixture(t)
	ref := f.createArtifact(t)

	const contenders = 16

	var wins atomic.Int64
	var lockRejections atomic.Int64
	var eg errgroup.Group
	for i := 0; i < contenders; i++ {
		eg.Go(func() error {
			_, err := f.vault.Checkout(f.ctx, "alice", ref)
			if err == nil {
				wins.Add(1)
				return nil
			}
			var locked *domain.LockedError
			if assert.ErrorAs(t, err, &locked) {
				lockRejections.Add(1)
				return nil
			}
			return err
		})
	}
	require.NoError(t, eg.Wait())

	// All goroutines act as alice, so holder-idempotent repeats count as
	// wins too. Run distinct principals to force a single winner.
	assert.Equal(t, int64(contenders), wins.Load()+lockRejections.Load())

	f2 := newFixture(t)
	ref2 := f2.createArtifact(t)
	logins := []string{"alice", "bob", "carol"}

	var wins2 atomic.Int64
	var eg2 errgroup.Group
	for i := 0; i < contenders; i++ {
		login := logins[i%len(logins)]
		eg2.Go(func() error {
			_, err := f2.vault.Checkout(f2.ctx, login, ref2)
			if err == nil {
				wins2.Add(1)
				return nil
			}
			var locked *domain.LockedError
			if assert.ErrorAs(t, err, &locked) {
				return nil
			}
			return err
		})
	}
	require.NoError(t, eg2.Wait())

	// Exactly one principal holds the lock; only that principal's
	// goroutines could have succeeded.
	status, err := f2.vault.Status(f2.ctx, "alice", ref2)
	require.NoError(t, err)
	require.NotNil(t, status.Lock)
	assert.GreaterOrEqual(t, wins2.Load(), int64(1))
	assert.LessOrEqual(t, wins2.Load(), int64(contenders/len(logins))+1)
}

func TestAuditTrailRecordsOutcomes(t *testing.T) {
	f := newFixture(t)
	ref := f.createArtifact(t)

	_, err := f.vault.Checkout(f.ctx, "alice", ref)
	require.NoError(t, err)
	_, err = f.vault.CheckIn(f.ctx, "alice", ref, "v2")
	require.NoError(t, err)
	_, err = f.vault.Checkout(f.ctx, "dave", ref)
	require.Error(t, err)

	denied := domain.StatusDenied
	entries, _, err := f.audit.List(f.ctx, domain.AuditFilter{Status: &denied})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "dave", entries[0].Principal)
	assert.Equal(t, domain.ActionCheckout, entries[0].Action)

	checkin := domain.ActionCheckin
	entries, _, err = f.audit.List(f.ctx, domain.AuditFilter{Action: &checkin})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].VersionLabel)
	assert.Equal(t, "B", *entries[0].VersionLabel)
}
