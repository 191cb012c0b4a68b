package availability

// DeriveBusy turns booking records into busy intervals, one per record, in input order.
// Each interval ends after the booking's own duration. Records without a usable
// start time are skipped. Intervals are not clamped to the working window.
func DeriveBusy(records []BookingRecord) []Interval {
	busy := make([]Interval, 0, len(records))
	for _, r := range records {
		start, ok := parseClock(r.StartTime)
		if !ok {
			continue
		}

		duration := r.DurationMinutes
		if duration <= 0 {
			duration = DefaultDurationMinutes
		}

		busy = append(busy, Interval{
			Start: formatClock(start),
			End:   formatClock(start + duration),
		})
	}
	return busy
}

// GenerateGrid lists candidate start times every SlotGranularity minutes from
// the window start while before the window end. The end itself is appended when
// it falls on a granularity tick, since it is still a valid start time.
// A window that ends at or before its start yields an empty grid.
func GenerateGrid(window WorkingWindow) []string {
	grid := []string{}

	start, okStart := parseClock(window.Start)
	end, okEnd := parseClock(window.End)
	if !okStart || !okEnd || end <= start {
		return grid
	}

	for m := start; m < end; m += SlotGranularity {
		grid = append(grid, formatClock(m))
	}
	if end%SlotGranularity == 0 {
		grid = append(grid, formatClock(end))
	}
	return grid
}

type span struct {
	start, end int
}

// ResolveUnavailable returns the grid slots whose [slot, slot+duration) range
// overlaps any busy interval. Touching endpoints do not overlap.
// Output keeps grid order.
func ResolveUnavailable(grid []string, duration int, busy []Interval) []string {
	spans := make([]span, 0, len(busy))
	for _, b := range busy {
		s, okS := parseClock(b.Start)
		e, okE := parseEndClock(b.End)
		if !okS || !okE {
			continue
		}
		spans = append(spans, span{start: s, end: e})
	}

	unavailable := []string{}
	for _, slot := range grid {
		s, ok := parseClock(slot)
		if !ok {
			continue
		}
		e := s + duration
		for _, b := range spans {
			if s < b.end && e > b.start {
				unavailable = append(unavailable, slot)
				break
			}
		}
	}
	return unavailable
}

// Effective resolves the duration and working window to use, substituting
// defaults for every absent or unusable field.
func (c *ListingConfig) Effective() (int, WorkingWindow) {
	duration := DefaultDurationMinutes
	window := WorkingWindow{Start: DefaultWorkHoursStart, End: DefaultWorkHoursEnd}
	if c == nil {
		return duration, window
	}

	if c.DurationMinutes != nil && *c.DurationMinutes > 0 {
		duration = *c.DurationMinutes
	}
	if c.WorkHoursStart != nil {
		if m, ok := parseClock(*c.WorkHoursStart); ok {
			window.Start = formatClock(m)
		}
	}
	if c.WorkHoursEnd != nil {
		if m, ok := parseClock(*c.WorkHoursEnd); ok {
			window.End = formatClock(m)
		}
	}
	return duration, window
}

// Calculate computes the availability for one provider and day.
// It performs no I/O and always returns the same result for the same input.
func Calculate(in Input) Result {
	duration, window := in.Listing.Effective()

	busy := DeriveBusy(in.Bookings)
	grid := GenerateGrid(window)

	return Result{
		Date:                   in.Date,
		ProviderID:             in.ProviderID,
		BusySlots:              busy,
		AllSlots:               grid,
		UnavailableSlots:       ResolveUnavailable(grid, duration, busy),
		CurrentListingDuration: duration,
		WorkHoursStart:         window.Start,
		WorkHoursEnd:           window.End,
	}
}
