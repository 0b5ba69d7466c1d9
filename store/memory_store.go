package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"guest-registration-backend/models"
)

// MemoryGuestStore is an in-process GuestStore used by tests and local
// development when no database is configured. Records are copied on the way
// in and out so callers cannot mutate stored state.
type MemoryGuestStore struct {
	mu     sync.RWMutex
	nextID uint
	items  map[uint]models.GuestRecord
}

func NewMemoryGuestStore() *MemoryGuestStore {
	return &MemoryGuestStore{
		nextID: 1,
		items:  make(map[uint]models.GuestRecord),
	}
}

func (s *MemoryGuestStore) Create(_ context.Context, record *models.GuestRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record.ID = s.nextID
	s.nextID++
	record.RegistrationDate = time.Now().UTC()
	if record.Status == "" {
		record.Status = models.StatusPending
	}
	record.CreatedAt = record.RegistrationDate
	record.UpdatedAt = record.RegistrationDate

	s.items[record.ID] = *record
	return nil
}

func (s *MemoryGuestStore) List(_ context.Context, filter ListFilter) ([]models.GuestRecord, error) {
	if filter.Status != "" && !validStatus(filter.Status) {
		return nil, ErrInvalidStatus
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(filter.Search))

	records := make([]models.GuestRecord, 0, len(s.items))
	for _, rec := range s.items {
		if filter.Status != "" && rec.Status != filter.Status {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(rec.Name), search) &&
			!strings.Contains(rec.ContactNumber, search) &&
			!strings.Contains(strings.ToLower(rec.Nationality), search) {
			continue
		}
		records = append(records, rec)
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].RegistrationDate.Equal(records[j].RegistrationDate) {
			return records[i].ID > records[j].ID
		}
		return records[i].RegistrationDate.After(records[j].RegistrationDate)
	})
	return records, nil
}

func (s *MemoryGuestStore) Get(_ context.Context, id uint) (*models.GuestRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.items[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return &rec, nil
}

func (s *MemoryGuestStore) UpdateStatus(_ context.Context, id uint, status string) error {
	if !validStatus(status) {
		return ErrInvalidStatus
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.items[id]
	if !ok {
		return ErrRecordNotFound
	}
	rec.Status = status
	rec.UpdatedAt = time.Now().UTC()
	s.items[id] = rec
	return nil
}

func (s *MemoryGuestStore) Delete(_ context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return ErrRecordNotFound
	}
	delete(s.items, id)
	return nil
}
