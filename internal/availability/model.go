package availability

import (
	"net/http"

	"github.com/nekogravitycat/service-marketplace-backend/internal/pkg/apperror"
)

const (
	// SlotGranularity is the spacing between candidate start times, in minutes.
	SlotGranularity = 30

	DefaultDurationMinutes = 60
	DefaultWorkHoursStart  = "09:00"
	DefaultWorkHoursEnd    = "18:00"
)

var (
	ErrMissingRequiredField = apperror.New(http.StatusBadRequest, "missing_required_field", "provider_id and date are required")
	ErrInvalidProviderID    = apperror.New(http.StatusBadRequest, "invalid_provider_id", "provider_id must be a valid UUID")
	ErrInvalidListingID     = apperror.New(http.StatusBadRequest, "invalid_listing_id", "listing_id must be a valid UUID")
	ErrInvalidDate          = apperror.New(http.StatusBadRequest, "invalid_date", "date must be a valid calendar date (YYYY-MM-DD)")
	ErrDateOutOfRange       = apperror.New(http.StatusBadRequest, "date_out_of_range", "date must be between yesterday and 90 days from today")
	ErrUpstreamFailure      = apperror.New(http.StatusInternalServerError, "upstream_failure", "failed to load availability, please try again")
)

// BookingRecord is one confirmed hold on the provider's time for the queried day.
type BookingRecord struct {
	StartTime       string // "HH:mm"; empty when the booking has no recorded start
	DurationMinutes int    // duration of the booked service; <= 0 means unknown
}

// Interval is a half-open [Start, End) range of wall-clock times.
type Interval struct {
	Start string
	End   string
}

// WorkingWindow is the range of the day in which slots are offered.
type WorkingWindow struct {
	Start string
	End   string
}

// ListingConfig carries the optional per-listing settings.
// Nil fields fall back to the package defaults.
type ListingConfig struct {
	DurationMinutes *int
	WorkHoursStart  *string
	WorkHoursEnd    *string
}

// Input is everything a single calculation needs.
type Input struct {
	Date       string
	ProviderID string
	Bookings   []BookingRecord
	Listing    *ListingConfig
}

// Result is the availability of one provider on one day.
type Result struct {
	Date                   string
	ProviderID             string
	BusySlots              []Interval
	AllSlots               []string
	UnavailableSlots       []string
	CurrentListingDuration int
	WorkHoursStart         string
	WorkHoursEnd           string
}
