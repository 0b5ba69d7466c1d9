package services

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SlotPrimary addresses the primary guest's document list; additional
// guests are addressed by their zero-based index.
const SlotPrimary = -1

// GuestSlot is one additional guest's in-progress state: the text fields
// entered so far plus the documents attached to that guest.
type GuestSlot struct {
	Name        string        `json:"name"`
	Nationality string        `json:"nationality"`
	IDType      string        `json:"idType"`
	IDNumber    string        `json:"idNumber"`
	Documents   []DocumentRef `json:"documents"`
}

// Draft is one registration form instance. It owns its document lists
// exclusively; all mutation goes through the store's lock. Generation is
// bumped whenever the instance is reset so in-flight upload completions
// against the old instance can be detected and discarded.
type Draft struct {
	Token          string
	Generation     uint64
	ExpiresAt      time.Time
	NumberOfGuests int
	Primary        []DocumentRef
	Additional     []GuestSlot

	nextSeq int
}

func (d *Draft) localRefs() []DocumentRef {
	var refs []DocumentRef
	for _, ref := range d.Primary {
		if !ref.IsRemote {
			refs = append(refs, ref)
		}
	}
	for _, slot := range d.Additional {
		for _, ref := range slot.Documents {
			if !ref.IsRemote {
				refs = append(refs, ref)
			}
		}
	}
	return refs
}

// slotDocs returns a pointer to the document list for a slot, or nil when
// the slot does not exist.
func (d *Draft) slotDocs(slot int) *[]DocumentRef {
	if slot == SlotPrimary {
		return &d.Primary
	}
	if slot < 0 || slot >= len(d.Additional) {
		return nil
	}
	return &d.Additional[slot].Documents
}

// insertBySeq keeps a guest's document list in submission order regardless
// of upload completion order.
func insertBySeq(docs []DocumentRef, ref DocumentRef) []DocumentRef {
	docs = append(docs, ref)
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].Seq < docs[j].Seq })
	return docs
}

// DraftStore holds registration drafts in process memory, keyed by opaque
// token, each with a TTL. Local document files are only meaningful on this
// node, so drafts are deliberately not persisted. onRelease is invoked for
// every local ref a dying draft still owns.
type DraftStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	drafts    map[string]*Draft
	onRelease func(DocumentRef)
	now       func() time.Time
}

func NewDraftStore(ttl time.Duration, onRelease func(DocumentRef)) *DraftStore {
	if onRelease == nil {
		onRelease = func(DocumentRef) {}
	}
	return &DraftStore{
		ttl:       ttl,
		drafts:    make(map[string]*Draft),
		onRelease: onRelease,
		now:       time.Now,
	}
}

func (s *DraftStore) Create() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := &Draft{
		Token:          uuid.NewString(),
		Generation:     1,
		ExpiresAt:      s.now().Add(s.ttl),
		NumberOfGuests: 1,
		nextSeq:        1,
	}
	s.drafts[d.Token] = d
	return snapshot(d)
}

// update runs fn on the live draft under the store lock. Expired drafts are
// evicted (their local refs released) and reported as such.
func (s *DraftStore) update(token string, fn func(*Draft) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.liveLocked(token)
	if err != nil {
		return err
	}
	return fn(d)
}

// View returns a deep copy of the draft; callers can read it without
// holding the lock.
func (s *DraftStore) View(token string) (Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.liveLocked(token)
	if err != nil {
		return Draft{}, err
	}
	return snapshot(d), nil
}

// Remove evicts the draft and releases every local ref it still owns.
func (s *DraftStore) Remove(token string) error {
	s.mu.Lock()
	d, ok := s.drafts[token]
	if ok {
		delete(s.drafts, token)
	}
	s.mu.Unlock()

	if !ok {
		return ErrDraftNotFound
	}
	for _, ref := range d.localRefs() {
		s.onRelease(ref)
	}
	return nil
}

// SweepExpired evicts every expired draft. The janitor calls this
// periodically; access paths also evict lazily.
func (s *DraftStore) SweepExpired() int {
	s.mu.Lock()
	now := s.now()
	var dead []*Draft
	for token, d := range s.drafts {
		if now.After(d.ExpiresAt) {
			dead = append(dead, d)
			delete(s.drafts, token)
		}
	}
	s.mu.Unlock()

	for _, d := range dead {
		for _, ref := range d.localRefs() {
			s.onRelease(ref)
		}
	}
	return len(dead)
}

func (s *DraftStore) liveLocked(token string) (*Draft, error) {
	d, ok := s.drafts[token]
	if !ok {
		return nil, ErrDraftNotFound
	}
	if s.now().After(d.ExpiresAt) {
		delete(s.drafts, token)
		for _, ref := range d.localRefs() {
			s.onRelease(ref)
		}
		return nil, ErrDraftExpired
	}
	return d, nil
}

func snapshot(d *Draft) Draft {
	cp := *d
	cp.Primary = append([]DocumentRef(nil), d.Primary...)
	cp.Additional = make([]GuestSlot, len(d.Additional))
	for i, slot := range d.Additional {
		cp.Additional[i] = slot
		cp.Additional[i].Documents = append([]DocumentRef(nil), slot.Documents...)
	}
	return cp
}
