package services

import (
	"context"
	"log"
	"time"
)

const (
	MinGuests = 1
	MaxGuests = 10
)

// AdditionalGuestForm carries the text fields of one additional guest.
type AdditionalGuestForm struct {
	Name        string `json:"name"`
	Nationality string `json:"nationality"`
	IDType      string `json:"idType"`
	IDNumber    string `json:"idNumber"`
}

// DraftService manages registration form instances: the declared guest
// count, each guest's entered fields, and the attached documents.
type DraftService struct {
	Store   *DraftStore
	release func(DocumentRef)
}

// NewDraftService builds the service with the given draft TTL. releaseRef
// frees a local-fallback document; it runs for every local ref that is
// removed, truncated away, superseded, abandoned, or expired.
func NewDraftService(ttl time.Duration, releaseRef func(DocumentRef)) *DraftService {
	if releaseRef == nil {
		releaseRef = func(DocumentRef) {}
	}
	return &DraftService{
		Store:   NewDraftStore(ttl, releaseRef),
		release: releaseRef,
	}
}

func (s *DraftService) Create() Draft {
	return s.Store.Create()
}

func (s *DraftService) Get(token string) (Draft, error) {
	return s.Store.View(token)
}

// Resize re-derives the additional-guest list from the declared guest
// count: grow appends blank slots, shrink truncates from the tail and
// releases documents owned by removed slots. Surviving slots keep their
// data, and calling again with the same count changes nothing.
func (s *DraftService) Resize(token string, newCount int) error {
	if newCount < MinGuests || newCount > MaxGuests {
		return newValidationError("numberOfGuests", "number of guests must be between 1 and 10")
	}

	var dropped []DocumentRef
	err := s.Store.update(token, func(d *Draft) error {
		d.NumberOfGuests = newCount
		target := newCount - 1

		for len(d.Additional) < target {
			d.Additional = append(d.Additional, GuestSlot{Documents: []DocumentRef{}})
		}
		if len(d.Additional) > target {
			for _, slot := range d.Additional[target:] {
				for _, ref := range slot.Documents {
					if !ref.IsRemote {
						dropped = append(dropped, ref)
					}
				}
			}
			d.Additional = d.Additional[:target]
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, ref := range dropped {
		s.release(ref)
	}
	return nil
}

// UpdateAdditionalGuest saves the entered fields for one additional guest
// without touching its documents.
func (s *DraftService) UpdateAdditionalGuest(token string, index int, form AdditionalGuestForm) error {
	return s.Store.update(token, func(d *Draft) error {
		if index < 0 || index >= len(d.Additional) {
			return newValidationError("additionalGuests", "guest index out of range")
		}
		slot := &d.Additional[index]
		slot.Name = form.Name
		slot.Nationality = form.Nationality
		slot.IDType = form.IDType
		slot.IDNumber = form.IDNumber
		return nil
	})
}

// RemoveDocument drops one document from a guest's list by index,
// releasing it if it was a local fallback.
func (s *DraftService) RemoveDocument(token string, slot, index int) error {
	var removed *DocumentRef
	err := s.Store.update(token, func(d *Draft) error {
		docs := d.slotDocs(slot)
		if docs == nil {
			return newValidationError("slot", "guest slot out of range")
		}
		if index < 0 || index >= len(*docs) {
			return newValidationError("document", "document index out of range")
		}
		ref := (*docs)[index]
		*docs = append((*docs)[:index], (*docs)[index+1:]...)
		if !ref.IsRemote {
			removed = &ref
		}
		return nil
	})
	if err != nil {
		return err
	}
	if removed != nil {
		s.release(*removed)
	}
	return nil
}

// Abandon discards the draft and frees everything it owned.
func (s *DraftService) Abandon(token string) error {
	return s.Store.Remove(token)
}

// StartJanitor sweeps expired drafts until ctx is done.
func (s *DraftService) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.Store.SweepExpired(); n > 0 {
					log.Printf("draft janitor: evicted %d expired drafts", n)
				}
			}
		}
	}()
}

// beginUpload reserves a sequence number and captures the draft generation
// before a potentially slow store call. appendDocument later refuses the
// result if the generation moved on.
func (s *DraftService) beginUpload(token string, slot int) (gen uint64, seq int, err error) {
	err = s.Store.update(token, func(d *Draft) error {
		if d.slotDocs(slot) == nil {
			return newValidationError("slot", "guest slot out of range")
		}
		gen = d.Generation
		seq = d.nextSeq
		d.nextSeq++
		return nil
	})
	return gen, seq, err
}

// appendDocument attaches a completed upload to its guest's list, in
// sequence order. A stale generation means the form instance the upload
// belonged to is gone; the caller must release local refs it gets back.
func (s *DraftService) appendDocument(token string, slot int, gen uint64, ref DocumentRef) error {
	err := s.Store.update(token, func(d *Draft) error {
		if d.Generation != gen {
			return errStaleDraft
		}
		docs := d.slotDocs(slot)
		if docs == nil {
			return errStaleDraft
		}
		*docs = insertBySeq(*docs, ref)
		return nil
	})
	return err
}

// finishSubmission returns the draft to its pristine state under a new
// generation and releases the submitted session's local refs. It reports
// how many refs were released.
func (s *DraftService) finishSubmission(token string) int {
	var locals []DocumentRef
	_ = s.Store.update(token, func(d *Draft) error {
		locals = d.localRefs()
		d.Generation++
		d.NumberOfGuests = 1
		d.Primary = nil
		d.Additional = nil
		d.nextSeq = 1
		return nil
	})
	for _, ref := range locals {
		s.release(ref)
	}
	return len(locals)
}
