package services

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"guest-registration-backend/models"
)

func sampleRecord() models.GuestRecord {
	return models.GuestRecord{
		ID:               7,
		Name:             "A. Sharma",
		NumberOfGuests:   2,
		ContactNumber:    "9876543210",
		Nationality:      "Indian",
		IDType:           models.IDTypeAadhar,
		IDNumber:         "ABCD1234",
		CheckinDate:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		CheckoutDate:     time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC),
		RegistrationDate: time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC),
		Status:           models.StatusApproved,
		IdentityDocumentURLs: []string{
			"https://cdn.example.com/a.jpg",
			"/uploads/documents/b.pdf",
		},
		IdentityDocumentNames: []string{"a.jpg", "b.pdf"},
		AdditionalGuests: []models.AdditionalGuest{
			{Name: "B. Sharma", Nationality: "Indian", IDType: models.IDTypePassport, IDNumber: "P9988776"},
		},
	}
}

func TestIDTypeLabel(t *testing.T) {
	assert.Equal(t, "Aadhar Card", IDTypeLabel(models.IDTypeAadhar))
	assert.Equal(t, "Driving License", IDTypeLabel(models.IDTypeDriving))
	assert.Equal(t, "Voter ID", IDTypeLabel(models.IDTypeVoter))
	assert.Equal(t, "Passport", IDTypeLabel(models.IDTypePassport))
	assert.Equal(t, "unknown", IDTypeLabel("unknown"))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	svc := NewExportService()

	require.NoError(t, svc.WriteCSV(&buf, []models.GuestRecord{sampleRecord()}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, exportHeader, rows[0])

	row := rows[1]
	assert.Equal(t, "A. Sharma", row[0])
	assert.Equal(t, "2", row[1])
	assert.Equal(t, "Aadhar Card", row[4])
	assert.Equal(t, "2026-09-01", row[6])
	assert.Equal(t, "2026-09-03", row[7])
	assert.Equal(t, models.StatusApproved, row[8])
	assert.Equal(t, "https://cdn.example.com/a.jpg\n/uploads/documents/b.pdf", row[10])
	assert.Equal(t, "B. Sharma (Passport P9988776)", row[11])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	svc := NewExportService()

	require.NoError(t, svc.WriteCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1, "header only")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	svc := NewExportService()

	require.NoError(t, svc.WriteXLSX(&buf, []models.GuestRecord{sampleRecord()}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Guest Registrations"}, f.GetSheetList())

	got, err := f.GetRows("Guest Registrations")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, exportHeader, got[0])
	assert.Equal(t, "A. Sharma", got[1][0])
	assert.Equal(t, "2026-09-01", got[1][6])
}
