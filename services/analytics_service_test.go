package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guest-registration-backend/models"
	"guest-registration-backend/store"
)

type fixedListStore struct {
	store.GuestStore
	records []models.GuestRecord
}

func (f *fixedListStore) List(context.Context, store.ListFilter) ([]models.GuestRecord, error) {
	return f.records, nil
}

func TestAnalyticsSummary(t *testing.T) {
	now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)

	records := []models.GuestRecord{
		{
			Status:           models.StatusPending,
			IDType:           models.IDTypeAadhar,
			Nationality:      "Indian",
			RegistrationDate: time.Date(2026, time.August, 10, 9, 0, 0, 0, time.UTC),
			CheckinDate:      time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC),
			AdditionalGuests: []models.AdditionalGuest{{Name: "B"}, {Name: "C"}},
		},
		{
			Status:           models.StatusApproved,
			IDType:           models.IDTypePassport,
			Nationality:      "British",
			RegistrationDate: time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC),
			CheckinDate:      time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			Status:           models.StatusApproved,
			IDType:           models.IDTypeAadhar,
			Nationality:      "Indian",
			RegistrationDate: time.Date(2025, time.December, 20, 9, 0, 0, 0, time.UTC),
			CheckinDate:      time.Date(2026, time.August, 29, 0, 0, 0, 0, time.UTC),
		},
	}

	svc := NewAnalyticsService(&fixedListStore{records: records})
	svc.now = func() time.Time { return now }

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalRegistrations)
	assert.Equal(t, 5, summary.TotalGuests)
	assert.Equal(t, map[string]int{models.StatusPending: 1, models.StatusApproved: 2}, summary.ByStatus)
	assert.Equal(t, map[string]int{models.IDTypeAadhar: 2, models.IDTypePassport: 1}, summary.ByIDType)
	assert.Equal(t, map[string]int{"Indian": 2, "British": 1}, summary.ByNationality)

	// Only the two 2026 registrations land in the monthly series.
	require.Len(t, summary.Monthly, 12)
	assert.Equal(t, 1, summary.Monthly[time.August-1].Registrations)
	assert.Equal(t, 3, summary.Monthly[time.August-1].TotalGuests)
	assert.Equal(t, 1, summary.Monthly[time.March-1].Registrations)
	assert.Equal(t, 0, summary.Monthly[time.December-1].Registrations)

	// August 2026 has 31 days; the one current-month registration was on
	// the 10th.
	require.Len(t, summary.CurrentMonthDaily, 31)
	assert.Equal(t, 1, summary.CurrentMonthDaily[9].Registrations)
	assert.Equal(t, 3, summary.CurrentMonthDaily[9].TotalGuests)

	// Check-ins today or later count as upcoming; March is long past.
	assert.Equal(t, 2, summary.UpcomingCheckins)
}

func TestAnalyticsSummaryEmpty(t *testing.T) {
	svc := NewAnalyticsService(store.NewMemoryGuestStore())

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Zero(t, summary.TotalRegistrations)
	assert.Zero(t, summary.TotalGuests)
	assert.Empty(t, summary.ByStatus)
	require.Len(t, summary.Monthly, 12)
	assert.Equal(t, time.January, summary.Monthly[0].Month)
}
