package availability

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DateLayout = "2006-01-02"

	// The queryable range is [today - MaxDaysBack, today + MaxDaysAhead].
	MaxDaysBack  = 1
	MaxDaysAhead = 90
)

// Query is the raw, unvalidated availability request.
type Query struct {
	ProviderID string
	Date       string
	ListingID  string // optional
}

// Request is a Query that passed validation.
type Request struct {
	ProviderID string
	ListingID  string
	DateText   string
	Date       time.Time
}

// ValidateQuery checks a query in a fixed order and returns the first failure.
// now decides which calendar day counts as today; pass it already converted
// to the service's location.
func ValidateQuery(q Query, now time.Time) (Request, error) {
	providerID, dateText, listingID := q.ProviderID, q.Date, q.ListingID

	// Blank counts as missing. Padded values are not trimmed, so they fail
	// the format checks below and the echoed values stay verbatim.
	if strings.TrimSpace(providerID) == "" || strings.TrimSpace(dateText) == "" {
		return Request{}, ErrMissingRequiredField
	}
	if !isCanonicalUUID(providerID) {
		return Request{}, ErrInvalidProviderID
	}
	if listingID != "" && !isCanonicalUUID(listingID) {
		return Request{}, ErrInvalidListingID
	}

	date, err := time.Parse(DateLayout, dateText)
	if err != nil {
		return Request{}, ErrInvalidDate
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	earliest := today.AddDate(0, 0, -MaxDaysBack)
	latest := today.AddDate(0, 0, MaxDaysAhead)
	if date.Before(earliest) || date.After(latest) {
		return Request{}, ErrDateOutOfRange
	}

	return Request{
		ProviderID: providerID,
		ListingID:  listingID,
		DateText:   dateText,
		Date:       date,
	}, nil
}

// isCanonicalUUID accepts only the hyphenated 8-4-4-4-12 form, in any case.
// uuid.Parse alone would also accept braces, urn prefixes and bare hex.
func isCanonicalUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
