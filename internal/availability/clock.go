package availability

import (
	"fmt"
	"strconv"
	"strings"
)

// splitClock reads "HH:mm" or "HH:mm:ss". Minutes and seconds must be two
// digits; the hour must have at least two.
func splitClock(s string) (hour, minute, second int, ok bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, false
	}

	fields := make([]int, 3)
	for i, p := range parts {
		if len(p) < 2 || (i > 0 && len(p) != 2) {
			return 0, 0, 0, false
		}
		for _, r := range p {
			if r < '0' || r > '9' {
				return 0, 0, 0, false
			}
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, 0, 0, false
		}
		fields[i] = n
	}

	if fields[1] > 59 || fields[2] > 59 {
		return 0, 0, 0, false
	}
	return fields[0], fields[1], fields[2], true
}

// parseClock converts a wall-clock "HH:mm" (or "HH:mm:ss") into minutes since
// midnight. 24:00 is accepted as the end of the day.
func parseClock(s string) (int, bool) {
	h, m, sec, ok := splitClock(s)
	if !ok || h > 24 || (h == 24 && (m != 0 || sec != 0)) {
		return 0, false
	}
	return h*60 + m, true
}

// parseEndClock is like parseClock but also accepts ends that run past
// midnight, as produced for long bookings late in the day.
func parseEndClock(s string) (int, bool) {
	h, m, _, ok := splitClock(s)
	if !ok {
		return 0, false
	}
	return h*60 + m, true
}

// formatClock renders minutes since midnight as zero-padded "HH:mm".
// Values past midnight are not wrapped.
func formatClock(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
