package listing

import "errors"

var ErrNotFound = errors.New("listing not found")

// Config is the scheduling part of a listing. Nil fields were never set by the provider.
type Config struct {
	ListingID       string
	DurationMinutes *int
	WorkHoursStart  *string // "HH:mm"
	WorkHoursEnd    *string // "HH:mm"
}
