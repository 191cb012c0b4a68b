package http

import (
	"github.com/nekogravitycat/service-marketplace-backend/internal/availability"
)

// AvailabilityQuery holds the raw query parameters of the availability endpoint.
// Field checks happen in the service so every failure maps to a typed error.
type AvailabilityQuery struct {
	ProviderID string
	Date       string
	ListingID  string
}

func (q AvailabilityQuery) toQuery() availability.Query {
	return availability.Query{
		ProviderID: q.ProviderID,
		Date:       q.Date,
		ListingID:  q.ListingID,
	}
}

type SlotRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type AvailabilityResponse struct {
	Date                   string      `json:"date"`
	ProviderID             string      `json:"providerId"`
	BusySlots              []SlotRange `json:"busySlots"`
	AllSlots               []string    `json:"allSlots"`
	UnavailableSlots       []string    `json:"unavailableSlots"`
	CurrentListingDuration int         `json:"currentListingDuration"`
	WorkHoursStart         string      `json:"workHoursStart"`
	WorkHoursEnd           string      `json:"workHoursEnd"`
}

func NewAvailabilityResponse(r *availability.Result) AvailabilityResponse {
	// Lists are always encoded as arrays, never null
	busy := make([]SlotRange, len(r.BusySlots))
	for i, b := range r.BusySlots {
		busy[i] = SlotRange{Start: b.Start, End: b.End}
	}
	all := make([]string, len(r.AllSlots))
	copy(all, r.AllSlots)
	unavailable := make([]string, len(r.UnavailableSlots))
	copy(unavailable, r.UnavailableSlots)

	return AvailabilityResponse{
		Date:                   r.Date,
		ProviderID:             r.ProviderID,
		BusySlots:              busy,
		AllSlots:               all,
		UnavailableSlots:       unavailable,
		CurrentListingDuration: r.CurrentListingDuration,
		WorkHoursStart:         r.WorkHoursStart,
		WorkHoursEnd:           r.WorkHoursEnd,
	}
}
