package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"guest-registration-backend/models"
)

var contactNumberPattern = regexp.MustCompile(`^[0-9]{10,12}$`)

// Rule is one field's validation set. Checks run in order and the first
// unmet one becomes the field's error message.
type Rule struct {
	Required   string
	MinLen     int
	MinLenMsg  string
	Pattern    *regexp.Regexp
	PatternMsg string
	OneOf      []string
	OneOfMsg   string
}

func (r Rule) apply(value string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return r.Required
	}
	if r.MinLen > 0 && len([]rune(v)) < r.MinLen {
		return r.MinLenMsg
	}
	if r.Pattern != nil && !r.Pattern.MatchString(v) {
		return r.PatternMsg
	}
	if len(r.OneOf) > 0 {
		ok := false
		for _, allowed := range r.OneOf {
			if v == allowed {
				ok = true
				break
			}
		}
		if !ok {
			return r.OneOfMsg
		}
	}
	return ""
}

// guestSchema is consumed by both the primary-guest and additional-guest
// validators; the identity fields carry identical constraints for every
// guest on the registration.
var guestSchema = map[string]Rule{
	"name": {
		Required:  "Name is required",
		MinLen:    2,
		MinLenMsg: "Name must be at least 2 characters",
	},
	"contactNumber": {
		Required:   "Contact number is required",
		Pattern:    contactNumberPattern,
		PatternMsg: "Please enter a valid contact number",
	},
	"nationality": {
		Required:  "Nationality is required",
		MinLen:    2,
		MinLenMsg: "Please enter valid nationality",
	},
	"idType": {
		Required: "ID type is required",
		OneOf: []string{
			models.IDTypeAadhar,
			models.IDTypeDriving,
			models.IDTypeVoter,
			models.IDTypePassport,
		},
		OneOfMsg: "ID type is invalid",
	},
	"idNumber": {
		Required:  "ID number is required",
		MinLen:    4,
		MinLenMsg: "ID number must be at least 4 characters",
	},
}

func checkField(errs map[string]string, field, prefix, value string) {
	rule, ok := guestSchema[field]
	if !ok {
		return
	}
	if msg := rule.apply(value); msg != "" {
		errs[prefix+field] = msg
	}
}

const dateLayout = "2006-01-02"

// validateSubmission checks every field of the primary guest and of every
// additional guest independently, so the caller sees all problems at once.
func validateSubmission(req SubmitRequest, draft Draft, now time.Time) map[string]string {
	errs := make(map[string]string)

	checkField(errs, "name", "", req.Name)
	checkField(errs, "contactNumber", "", req.ContactNumber)
	checkField(errs, "nationality", "", req.Nationality)
	checkField(errs, "idType", "", req.IDType)
	checkField(errs, "idNumber", "", req.IDNumber)

	if req.NumberOfGuests < MinGuests {
		errs["numberOfGuests"] = "At least 1 guest required"
	} else if req.NumberOfGuests > MaxGuests {
		errs["numberOfGuests"] = "Maximum 10 guests allowed"
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	checkin, checkinErr := time.ParseInLocation(dateLayout, req.CheckinDate, now.Location())
	switch {
	case strings.TrimSpace(req.CheckinDate) == "":
		errs["checkinDate"] = "Check-in date is required"
	case checkinErr != nil:
		errs["checkinDate"] = "Check-in date is invalid"
	case checkin.Before(today):
		errs["checkinDate"] = "Check-in date cannot be in the past"
	}

	checkout, checkoutErr := time.ParseInLocation(dateLayout, req.CheckoutDate, now.Location())
	switch {
	case strings.TrimSpace(req.CheckoutDate) == "":
		errs["checkoutDate"] = "Check-out date is required"
	case checkoutErr != nil:
		errs["checkoutDate"] = "Check-out date is invalid"
	case checkinErr == nil && !checkout.After(checkin):
		errs["checkoutDate"] = "Check-out date must be after check-in date"
	}

	if len(draft.Primary) == 0 {
		errs["identityDocument"] = "At least one identity document is required"
	}

	for i, slot := range draft.Additional {
		prefix := fmt.Sprintf("additionalGuests[%d].", i)
		checkField(errs, "name", prefix, slot.Name)
		checkField(errs, "nationality", prefix, slot.Nationality)
		checkField(errs, "idType", prefix, slot.IDType)
		checkField(errs, "idNumber", prefix, slot.IDNumber)
		if len(slot.Documents) == 0 {
			errs[prefix+"identityDocument"] = "At least one identity document is required"
		}
	}

	return errs
}
