package services

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type releaseRecorder struct {
	mu   sync.Mutex
	refs []DocumentRef
}

func (r *releaseRecorder) release(ref DocumentRef) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refs = append(r.refs, ref)
}

func (r *releaseRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.refs)
}

func newTestDraftService() (*DraftService, *releaseRecorder) {
	rec := &releaseRecorder{}
	return NewDraftService(time.Hour, rec.release), rec
}

func localDoc(name string, seq int) DocumentRef {
	return DocumentRef{URL: "/uploads/documents/" + name, Name: name, IsRemote: false, LocalPath: "/tmp/" + name, Seq: seq}
}

func remoteDoc(name string, seq int) DocumentRef {
	return DocumentRef{URL: "https://cdn.example.com/" + name, Name: name, IsRemote: true, Seq: seq}
}

func TestResizeTargetsCountMinusOne(t *testing.T) {
	svc, _ := newTestDraftService()

	for count := MinGuests; count <= MaxGuests; count++ {
		draft := svc.Create()
		require.NoError(t, svc.Resize(draft.Token, count))

		got, err := svc.Get(draft.Token)
		require.NoError(t, err)
		assert.Len(t, got.Additional, count-1, "count=%d", count)
		assert.Equal(t, count, got.NumberOfGuests)
	}
}

func TestResizeRejectsOutOfRange(t *testing.T) {
	svc, _ := newTestDraftService()
	draft := svc.Create()

	for _, count := range []int{0, -1, 11, 100} {
		err := svc.Resize(draft.Token, count)
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr, "count=%d", count)
		assert.Contains(t, vErr.Fields, "numberOfGuests")
	}
}

func TestResizePreservesSurvivingEntries(t *testing.T) {
	svc, _ := newTestDraftService()
	draft := svc.Create()

	require.NoError(t, svc.Resize(draft.Token, 4))
	require.NoError(t, svc.UpdateAdditionalGuest(draft.Token, 0, AdditionalGuestForm{
		Name: "B. Sharma", Nationality: "Indian", IDType: "aadhar", IDNumber: "WXYZ5678",
	}))
	require.NoError(t, svc.UpdateAdditionalGuest(draft.Token, 1, AdditionalGuestForm{
		Name: "C. Sharma", Nationality: "Indian", IDType: "voter", IDNumber: "QRST1234",
	}))

	// Shrink past the second entry, then grow back.
	require.NoError(t, svc.Resize(draft.Token, 3))
	require.NoError(t, svc.Resize(draft.Token, 5))

	got, err := svc.Get(draft.Token)
	require.NoError(t, err)
	require.Len(t, got.Additional, 4)
	assert.Equal(t, "B. Sharma", got.Additional[0].Name)
	assert.Equal(t, "C. Sharma", got.Additional[1].Name)
	assert.Empty(t, got.Additional[2].Name, "regrown slots start blank")
}

func TestResizeIdempotent(t *testing.T) {
	svc, _ := newTestDraftService()
	draft := svc.Create()

	require.NoError(t, svc.Resize(draft.Token, 3))
	require.NoError(t, svc.UpdateAdditionalGuest(draft.Token, 0, AdditionalGuestForm{Name: "B"}))

	require.NoError(t, svc.Resize(draft.Token, 3))
	require.NoError(t, svc.Resize(draft.Token, 3))

	got, err := svc.Get(draft.Token)
	require.NoError(t, err)
	require.Len(t, got.Additional, 2)
	assert.Equal(t, "B", got.Additional[0].Name)
}

func TestShrinkReleasesRemovedGuestDocuments(t *testing.T) {
	svc, rec := newTestDraftService()
	draft := svc.Create()
	require.NoError(t, svc.Resize(draft.Token, 3))

	require.NoError(t, svc.appendDocument(draft.Token, 1, draft.Generation, localDoc("tail.jpg", 1)))
	require.NoError(t, svc.appendDocument(draft.Token, 0, draft.Generation, remoteDoc("keep.jpg", 2)))

	require.NoError(t, svc.Resize(draft.Token, 2))

	require.Equal(t, 1, rec.count())
	assert.Equal(t, "tail.jpg", rec.refs[0].Name)

	got, err := svc.Get(draft.Token)
	require.NoError(t, err)
	require.Len(t, got.Additional, 1)
	assert.Len(t, got.Additional[0].Documents, 1)
}

func TestRemoveDocumentReleasesLocalRef(t *testing.T) {
	svc, rec := newTestDraftService()
	draft := svc.Create()

	require.NoError(t, svc.appendDocument(draft.Token, SlotPrimary, draft.Generation, remoteDoc("a.jpg", 1)))
	require.NoError(t, svc.appendDocument(draft.Token, SlotPrimary, draft.Generation, localDoc("b.jpg", 2)))

	require.NoError(t, svc.RemoveDocument(draft.Token, SlotPrimary, 1))
	require.Equal(t, 1, rec.count())
	assert.Equal(t, "b.jpg", rec.refs[0].Name)

	// Removing the remote ref triggers no release.
	require.NoError(t, svc.RemoveDocument(draft.Token, SlotPrimary, 0))
	assert.Equal(t, 1, rec.count())
}

func TestAppendKeepsSubmissionOrder(t *testing.T) {
	svc, _ := newTestDraftService()
	draft := svc.Create()

	// Completion order differs from the reserved sequence order.
	require.NoError(t, svc.appendDocument(draft.Token, SlotPrimary, draft.Generation, remoteDoc("third.jpg", 3)))
	require.NoError(t, svc.appendDocument(draft.Token, SlotPrimary, draft.Generation, remoteDoc("first.jpg", 1)))
	require.NoError(t, svc.appendDocument(draft.Token, SlotPrimary, draft.Generation, remoteDoc("second.jpg", 2)))

	got, err := svc.Get(draft.Token)
	require.NoError(t, err)
	require.Len(t, got.Primary, 3)
	assert.Equal(t, "first.jpg", got.Primary[0].Name)
	assert.Equal(t, "second.jpg", got.Primary[1].Name)
	assert.Equal(t, "third.jpg", got.Primary[2].Name)
}

func TestAppendRejectsStaleGeneration(t *testing.T) {
	svc, _ := newTestDraftService()
	draft := svc.Create()

	oldGen := draft.Generation
	svc.finishSubmission(draft.Token)

	err := svc.appendDocument(draft.Token, SlotPrimary, oldGen, remoteDoc("late.jpg", 1))
	require.ErrorIs(t, err, errStaleDraft)

	got, getErr := svc.Get(draft.Token)
	require.NoError(t, getErr)
	assert.Empty(t, got.Primary)
}

func TestAbandonReleasesEverything(t *testing.T) {
	svc, rec := newTestDraftService()
	draft := svc.Create()
	require.NoError(t, svc.Resize(draft.Token, 2))

	require.NoError(t, svc.appendDocument(draft.Token, SlotPrimary, draft.Generation, localDoc("p.jpg", 1)))
	require.NoError(t, svc.appendDocument(draft.Token, 0, draft.Generation, localDoc("a.jpg", 2)))

	require.NoError(t, svc.Abandon(draft.Token))
	assert.Equal(t, 2, rec.count())

	_, err := svc.Get(draft.Token)
	assert.ErrorIs(t, err, ErrDraftNotFound)
}

func TestExpiredDraftIsEvictedAndReleased(t *testing.T) {
	rec := &releaseRecorder{}
	svc := NewDraftService(time.Hour, rec.release)

	draft := svc.Create()
	require.NoError(t, svc.appendDocument(draft.Token, SlotPrimary, draft.Generation, localDoc("p.jpg", 1)))

	// Move the clock past the TTL.
	svc.Store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	_, err := svc.Get(draft.Token)
	assert.ErrorIs(t, err, ErrDraftExpired)
	assert.Equal(t, 1, rec.count())
}

func TestSweepExpired(t *testing.T) {
	rec := &releaseRecorder{}
	svc := NewDraftService(time.Hour, rec.release)

	a := svc.Create()
	require.NoError(t, svc.appendDocument(a.Token, SlotPrimary, a.Generation, localDoc("p.jpg", 1)))
	svc.Create()

	svc.Store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	assert.Equal(t, 2, svc.Store.SweepExpired())
	assert.Equal(t, 1, rec.count())
}
