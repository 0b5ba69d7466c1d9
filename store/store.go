package store

import (
	"context"
	"errors"

	"guest-registration-backend/models"
)

var (
	ErrRecordNotFound = errors.New("guest record not found")
	ErrInvalidStatus  = errors.New("invalid status value")
)

// ListFilter narrows a listing the way the admin panel filters client-side:
// Search matches name, contact number or nationality as a substring,
// Status keeps only records in that state. Zero values mean "all".
type ListFilter struct {
	Search string
	Status string
}

// GuestStore persists guest records. Create assigns the identifier and the
// server-side registration date; both are immutable afterwards, and
// UpdateStatus is the only mutation the moderation surface is allowed.
type GuestStore interface {
	Create(ctx context.Context, record *models.GuestRecord) error
	List(ctx context.Context, filter ListFilter) ([]models.GuestRecord, error)
	Get(ctx context.Context, id uint) (*models.GuestRecord, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
}

func validStatus(status string) bool {
	switch status {
	case models.StatusPending, models.StatusApproved, models.StatusRejected:
		return true
	}
	return false
}
