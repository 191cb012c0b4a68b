package cache

import (
	"context"
	"time"

	"github.com/nekogravitycat/service-marketplace-backend/internal/availability"
)

// Noop never stores anything. Used when redis is not configured.
type Noop struct{}

func (Noop) Get(context.Context, string) (*availability.Result, time.Duration, error) {
	return nil, 0, nil
}

func (Noop) Set(context.Context, string, *availability.Result, time.Duration) error {
	return nil
}
