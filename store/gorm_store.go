package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"guest-registration-backend/models"
)

// GormGuestStore persists guest records in MySQL via gorm.
type GormGuestStore struct {
	DB *gorm.DB
}

func NewGormGuestStore(db *gorm.DB) *GormGuestStore {
	return &GormGuestStore{DB: db}
}

func (s *GormGuestStore) Create(ctx context.Context, record *models.GuestRecord) error {
	record.ID = 0
	record.RegistrationDate = time.Now().UTC()
	if record.Status == "" {
		record.Status = models.StatusPending
	}
	return s.DB.WithContext(ctx).Create(record).Error
}

func (s *GormGuestStore) List(ctx context.Context, filter ListFilter) ([]models.GuestRecord, error) {
	q := s.DB.WithContext(ctx).Model(&models.GuestRecord{})

	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR contact_number LIKE ? OR LOWER(nationality) LIKE ?",
			like, like, like,
		)
	}
	if filter.Status != "" {
		if !validStatus(filter.Status) {
			return nil, ErrInvalidStatus
		}
		q = q.Where("status = ?", filter.Status)
	}

	var records []models.GuestRecord
	if err := q.Order("registration_date DESC, id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (s *GormGuestStore) Get(ctx context.Context, id uint) (*models.GuestRecord, error) {
	var record models.GuestRecord
	if err := s.DB.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func (s *GormGuestStore) UpdateStatus(ctx context.Context, id uint, status string) error {
	if !validStatus(status) {
		return ErrInvalidStatus
	}
	res := s.DB.WithContext(ctx).
		Model(&models.GuestRecord{}).
		Where("id = ?", id).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (s *GormGuestStore) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.GuestRecord{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
