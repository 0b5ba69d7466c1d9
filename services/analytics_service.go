package services

import (
	"context"
	"time"

	"guest-registration-backend/store"
)

// MonthlyPoint is one month's registration and head counts. TotalGuests
// counts the primary guest plus every additional guest.
type MonthlyPoint struct {
	Month         time.Month `json:"month"`
	Registrations int        `json:"registrations"`
	TotalGuests   int        `json:"totalGuests"`
}

// DailyPoint is one day of the current month.
type DailyPoint struct {
	Day           int `json:"day"`
	Registrations int `json:"registrations"`
	TotalGuests   int `json:"totalGuests"`
}

// AnalyticsSummary feeds the admin dashboard charts.
type AnalyticsSummary struct {
	TotalRegistrations int            `json:"totalRegistrations"`
	TotalGuests        int            `json:"totalGuests"`
	ByStatus           map[string]int `json:"byStatus"`
	ByIDType           map[string]int `json:"byIdType"`
	ByNationality      map[string]int `json:"byNationality"`
	Monthly            []MonthlyPoint `json:"monthly"`
	CurrentMonthDaily  []DailyPoint   `json:"currentMonthDaily"`
	UpcomingCheckins   int            `json:"upcomingCheckins"`
}

// AnalyticsService aggregates guest records for the dashboard. Aggregation
// happens in Go rather than SQL so the memory and gorm stores behave
// identically.
type AnalyticsService struct {
	Guests store.GuestStore

	now func() time.Time
}

func NewAnalyticsService(guests store.GuestStore) *AnalyticsService {
	return &AnalyticsService{Guests: guests, now: time.Now}
}

func (s *AnalyticsService) Summary(ctx context.Context) (*AnalyticsSummary, error) {
	records, err := s.Guests.List(ctx, store.ListFilter{})
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	daysInMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, now.Location()).Day()

	summary := &AnalyticsSummary{
		ByStatus:          map[string]int{},
		ByIDType:          map[string]int{},
		ByNationality:     map[string]int{},
		Monthly:           make([]MonthlyPoint, 12),
		CurrentMonthDaily: make([]DailyPoint, daysInMonth),
	}
	for m := range summary.Monthly {
		summary.Monthly[m].Month = time.Month(m + 1)
	}
	for d := range summary.CurrentMonthDaily {
		summary.CurrentMonthDaily[d].Day = d + 1
	}

	for _, rec := range records {
		heads := 1 + len(rec.AdditionalGuests)

		summary.TotalRegistrations++
		summary.TotalGuests += heads
		summary.ByStatus[rec.Status]++
		summary.ByIDType[rec.IDType]++
		summary.ByNationality[rec.Nationality]++

		reg := rec.RegistrationDate.In(now.Location())
		if reg.Year() == now.Year() {
			point := &summary.Monthly[int(reg.Month())-1]
			point.Registrations++
			point.TotalGuests += heads

			if reg.Month() == now.Month() {
				day := &summary.CurrentMonthDaily[reg.Day()-1]
				day.Registrations++
				day.TotalGuests += heads
			}
		}

		if !rec.CheckinDate.Before(today) {
			summary.UpcomingCheckins++
		}
	}

	return summary, nil
}
