package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"guest-registration-backend/models"
	"guest-registration-backend/store"
)

// SubmitRequest is the final form payload. Text fields travel with the
// request; documents were already attached to the draft by the upload
// coordinator. AdditionalGuests may be omitted when the fields were saved
// incrementally through the draft endpoints.
type SubmitRequest struct {
	Name             string                `json:"name"`
	NumberOfGuests   int                   `json:"numberOfGuests"`
	ContactNumber    string                `json:"contactNumber"`
	Nationality      string                `json:"nationality"`
	IDType           string                `json:"idType"`
	IDNumber         string                `json:"idNumber"`
	CheckinDate      string                `json:"checkinDate"`
	CheckoutDate     string                `json:"checkoutDate"`
	AdditionalGuests []AdditionalGuestForm `json:"additionalGuests"`
}

// RegistrationService runs the submission protocol: validate the aggregate
// form state, assemble one composite record, write it once, clean up.
type RegistrationService struct {
	Drafts *DraftService
	Guests store.GuestStore

	now func() time.Time
}

func NewRegistrationService(drafts *DraftService, guests store.GuestStore) *RegistrationService {
	return &RegistrationService{
		Drafts: drafts,
		Guests: guests,
		now:    time.Now,
	}
}

// Submit validates the whole form and persists it as a single record.
// Validation failure returns a ValidationError naming every failing field
// and leaves the draft untouched. A store failure returns a StoreError
// with the draft equally untouched, so retry reuses the already-obtained
// document references. Only a successful write resets the form.
func (s *RegistrationService) Submit(ctx context.Context, token string, req SubmitRequest) (*models.GuestRecord, error) {
	// Guest-set shape first: the declared count drives how many
	// additional-guest slots exist before anything is validated.
	if req.NumberOfGuests >= MinGuests && req.NumberOfGuests <= MaxGuests {
		if err := s.Drafts.Resize(token, req.NumberOfGuests); err != nil {
			return nil, err
		}
	}

	if len(req.AdditionalGuests) > 0 {
		if req.NumberOfGuests >= MinGuests && len(req.AdditionalGuests) != req.NumberOfGuests-1 {
			return nil, newValidationError("additionalGuests",
				fmt.Sprintf("expected %d additional guests", req.NumberOfGuests-1))
		}
		for i, form := range req.AdditionalGuests {
			if err := s.Drafts.UpdateAdditionalGuest(token, i, form); err != nil {
				return nil, err
			}
		}
	}

	draft, err := s.Drafts.Get(token)
	if err != nil {
		return nil, err
	}

	if errs := validateSubmission(req, draft, s.now()); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	record := assembleRecord(req, draft, s.now().Location())

	if err := s.Guests.Create(ctx, record); err != nil {
		return nil, &StoreError{Op: "create", Err: err}
	}

	// Cleanup only after the write landed: release this session's local
	// fallback references and return the form to its pristine state.
	released := s.Drafts.finishSubmission(token)
	if released > 0 {
		log.Printf("registration %d: released %d local document references", record.ID, released)
	}

	return record, nil
}

func assembleRecord(req SubmitRequest, draft Draft, loc *time.Location) *models.GuestRecord {
	checkin, _ := time.ParseInLocation(dateLayout, req.CheckinDate, loc)
	checkout, _ := time.ParseInLocation(dateLayout, req.CheckoutDate, loc)

	urls, names := documentColumns(draft.Primary)

	additional := make([]models.AdditionalGuest, len(draft.Additional))
	for i, slot := range draft.Additional {
		slotURLs, slotNames := documentColumns(slot.Documents)
		additional[i] = models.AdditionalGuest{
			Name:                  slot.Name,
			Nationality:           slot.Nationality,
			IDType:                slot.IDType,
			IDNumber:              slot.IDNumber,
			IdentityDocumentURLs:  slotURLs,
			IdentityDocumentNames: slotNames,
		}
	}

	return &models.GuestRecord{
		Name:                  req.Name,
		NumberOfGuests:        req.NumberOfGuests,
		ContactNumber:         req.ContactNumber,
		Nationality:           req.Nationality,
		IDType:                req.IDType,
		IDNumber:              req.IDNumber,
		CheckinDate:           checkin,
		CheckoutDate:          checkout,
		IdentityDocumentURLs:  urls,
		IdentityDocumentNames: names,
		AdditionalGuests:      additional,
		Status:                models.StatusPending,
	}
}

// documentColumns flattens refs into the parallel, index-aligned url/name
// slices the record schema requires.
func documentColumns(docs []DocumentRef) ([]string, []string) {
	urls := make([]string, len(docs))
	names := make([]string, len(docs))
	for i, ref := range docs {
		urls[i] = ref.URL
		names[i] = ref.Name
	}
	return urls, names
}
