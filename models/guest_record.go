package models

import (
	"time"

	"gorm.io/datatypes"
)

// Registration status values. A record is created as pending and only the
// moderation endpoints may move it to approved/rejected.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Accepted identity document types.
const (
	IDTypeAadhar   = "aadhar"
	IDTypeDriving  = "driving"
	IDTypeVoter    = "voter"
	IDTypePassport = "passport"
)

// AdditionalGuest is embedded in a GuestRecord as JSON; guests beyond the
// first share the primary guest's check-in/check-out dates.
type AdditionalGuest struct {
	Name                  string   `json:"name"`
	Nationality           string   `json:"nationality"`
	IDType                string   `json:"idType"`
	IDNumber              string   `json:"idNumber"`
	IdentityDocumentURLs  []string `json:"identityDocumentUrl"`
	IdentityDocumentNames []string `json:"identityDocumentName"`
}

// GuestRecord is one registration submission: the primary guest plus
// numberOfGuests-1 additional guests. The document URL and name slices are
// parallel, index-aligned, ordered by upload sequence.
type GuestRecord struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Name           string `gorm:"size:255" json:"name"`
	NumberOfGuests int    `gorm:"column:number_of_guests" json:"numberOfGuests"`
	ContactNumber  string `gorm:"size:32" json:"contactNumber"`
	Nationality    string `gorm:"size:128" json:"nationality"`

	IDType   string `gorm:"size:32;column:id_type" json:"idType"`
	IDNumber string `gorm:"size:64;column:id_number" json:"idNumber"`

	CheckinDate  time.Time `gorm:"column:checkin_date" json:"checkinDate"`
	CheckoutDate time.Time `gorm:"column:checkout_date" json:"checkoutDate"`

	IdentityDocumentURLs  datatypes.JSONSlice[string] `gorm:"column:identity_document_urls" json:"identityDocumentUrl"`
	IdentityDocumentNames datatypes.JSONSlice[string] `gorm:"column:identity_document_names" json:"identityDocumentName"`

	AdditionalGuests datatypes.JSONSlice[AdditionalGuest] `gorm:"column:additional_guests" json:"additionalGuests"`

	// Set once by the store at create time, immutable after.
	RegistrationDate time.Time `gorm:"column:registration_date" json:"registrationDate"`

	Status string `gorm:"size:16;default:pending;index" json:"status"`
}
