package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"guest-registration-backend/models"
)

// IDTypeLabel maps the stored id-type value to its display label.
func IDTypeLabel(idType string) string {
	switch idType {
	case models.IDTypeAadhar:
		return "Aadhar Card"
	case models.IDTypeDriving:
		return "Driving License"
	case models.IDTypeVoter:
		return "Voter ID"
	case models.IDTypePassport:
		return "Passport"
	}
	return idType
}

var exportHeader = []string{
	"Name",
	"No. of Guests",
	"Contact Number",
	"Nationality",
	"ID Type",
	"ID Number",
	"Check-in Date",
	"Check-out Date",
	"Status",
	"Registration Date",
	"Documents",
	"Additional Guests",
}

// ExportService renders guest records as CSV or Excel, one row per record,
// mirroring the columns the admin panel shows.
type ExportService struct{}

func NewExportService() *ExportService { return &ExportService{} }

func exportRow(rec models.GuestRecord) []string {
	additional := make([]string, 0, len(rec.AdditionalGuests))
	for _, g := range rec.AdditionalGuests {
		additional = append(additional, fmt.Sprintf("%s (%s %s)", g.Name, IDTypeLabel(g.IDType), g.IDNumber))
	}

	return []string{
		rec.Name,
		strconv.Itoa(rec.NumberOfGuests),
		rec.ContactNumber,
		rec.Nationality,
		IDTypeLabel(rec.IDType),
		rec.IDNumber,
		rec.CheckinDate.Format(dateLayout),
		rec.CheckoutDate.Format(dateLayout),
		rec.Status,
		rec.RegistrationDate.Format("2006-01-02 15:04:05"),
		strings.Join(rec.IdentityDocumentURLs, "\n"),
		strings.Join(additional, "; "),
	}
}

func (s *ExportService) WriteCSV(w io.Writer, records []models.GuestRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, rec := range records {
		if err := cw.Write(exportRow(rec)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *ExportService) WriteXLSX(w io.Writer, records []models.GuestRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Guest Registrations"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	for col, title := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return err
		}
	}

	for row, rec := range records {
		for col, value := range exportRow(rec) {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}
