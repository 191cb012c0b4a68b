package booking

import "errors"

var ErrInvalidStatus = errors.New("invalid booking status")

type Status string

const (
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
	StatusRejected   Status = "rejected"
)

// HoldStatuses are the statuses that reserve the provider's time.
var HoldStatuses = []Status{StatusAccepted, StatusInProgress}

// ParseStatus validates a raw status value.
func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusPending, StatusAccepted, StatusInProgress, StatusCompleted, StatusCancelled, StatusRejected:
		return st, nil
	default:
		return "", ErrInvalidStatus
	}
}

// HoldsTime reports whether a booking in this status blocks the provider's schedule.
func (s Status) HoldsTime() bool {
	for _, h := range HoldStatuses {
		if s == h {
			return true
		}
	}
	return false
}

// Hold is the part of a booking the availability engine needs.
type Hold struct {
	StartTime       string // "HH:mm"
	DurationMinutes int    // 0 when the booked listing has no duration
}
