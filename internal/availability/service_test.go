package availability

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/service-marketplace-backend/internal/booking"
	"github.com/nekogravitycat/service-marketplace-backend/internal/listing"
	"github.com/nekogravitycat/service-marketplace-backend/internal/pkg/apperror"
)

type fakeBookingRepo struct {
	holds []*booking.Hold
	err   error
	calls int
}

func (f *fakeBookingRepo) ListHolds(ctx context.Context, providerID string, date time.Time) ([]*booking.Hold, error) {
	f.calls++
	return f.holds, f.err
}

type fakeListingRepo struct {
	configs map[string]*listing.Config
	err     error
	calls   int
}

func (f *fakeListingRepo) GetConfig(ctx context.Context, listingID string) (*listing.Config, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.configs[listingID]
	if !ok {
		return nil, listing.ErrNotFound
	}
	return c, nil
}

type memoryCache struct {
	mu     sync.Mutex
	items  map[string]Result
	getErr error
	setErr error
	ttls   []time.Duration
	// remaining overrides the lifetime reported on a hit when non-zero.
	remaining time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string]Result{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) (*Result, time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, 0, c.getErr
	}
	r, ok := c.items[key]
	if !ok {
		return nil, 0, nil
	}
	if c.remaining != 0 {
		return &r, c.remaining, nil
	}
	return &r, c.ttls[len(c.ttls)-1], nil
}

func (c *memoryCache) Set(ctx context.Context, key string, result *Result, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.items[key] = *result
	c.ttls = append(c.ttls, ttl)
	return nil
}

func fixedClock() time.Time { return testNow }

func newTestService(b *fakeBookingRepo, l *fakeListingRepo, c Cache) Service {
	return NewService(b, l, c, Options{
		CacheTTL: time.Minute,
		Location: time.UTC,
		Now:      fixedClock,
	})
}

func TestGetAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("End to end with listing settings", func(t *testing.T) {
		b := &fakeBookingRepo{holds: []*booking.Hold{{StartTime: "10:00", DurationMinutes: 45}}}
		l := &fakeListingRepo{configs: map[string]*listing.Config{
			testListingID: {ListingID: testListingID, DurationMinutes: intPtr(30), WorkHoursStart: strPtr("09:00"), WorkHoursEnd: strPtr("12:00")},
		}}
		svc := newTestService(b, l, nil)

		got, fresh, err := svc.GetAvailability(ctx, Query{ProviderID: testProviderID, Date: day(1), ListingID: testListingID})
		require.NoError(t, err)

		assert.Equal(t, Freshness{MaxAge: time.Minute}, fresh)
		assert.Equal(t, day(1), got.Date)
		assert.Equal(t, testProviderID, got.ProviderID)
		assert.Equal(t, []Interval{{Start: "10:00", End: "10:45"}}, got.BusySlots)
		assert.Equal(t, []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "12:00"}, got.AllSlots)
		assert.Equal(t, []string{"10:00", "10:30"}, got.UnavailableSlots)
		assert.Equal(t, 30, got.CurrentListingDuration)
	})

	t.Run("Defaults when listing is omitted", func(t *testing.T) {
		b := &fakeBookingRepo{}
		l := &fakeListingRepo{}
		svc := newTestService(b, l, nil)

		got, _, err := svc.GetAvailability(ctx, Query{ProviderID: testProviderID, Date: day(0)})
		require.NoError(t, err)

		assert.Equal(t, 60, got.CurrentListingDuration)
		assert.Equal(t, "09:00", got.WorkHoursStart)
		assert.Equal(t, "18:00", got.WorkHoursEnd)
		assert.Equal(t, 0, l.calls, "listing store must not be queried without listing_id")
	})

	t.Run("Defaults when listing is unknown", func(t *testing.T) {
		svc := newTestService(&fakeBookingRepo{}, &fakeListingRepo{}, nil)

		got, _, err := svc.GetAvailability(ctx, Query{ProviderID: testProviderID, Date: day(0), ListingID: testListingID})
		require.NoError(t, err)

		assert.Equal(t, 60, got.CurrentListingDuration)
		assert.Equal(t, "09:00", got.WorkHoursStart)
		assert.Equal(t, "18:00", got.WorkHoursEnd)
	})

	t.Run("Holds without start time are ignored", func(t *testing.T) {
		b := &fakeBookingRepo{holds: []*booking.Hold{{StartTime: ""}, nil, {StartTime: "09:00", DurationMinutes: 30}}}
		svc := newTestService(b, &fakeListingRepo{}, nil)

		got, _, err := svc.GetAvailability(ctx, Query{ProviderID: testProviderID, Date: day(0)})
		require.NoError(t, err)

		assert.Equal(t, []Interval{{Start: "09:00", End: "09:30"}}, got.BusySlots)
	})

	t.Run("Validation failures skip the stores", func(t *testing.T) {
		b := &fakeBookingRepo{}
		l := &fakeListingRepo{}
		c := newMemoryCache()
		svc := newTestService(b, l, c)

		queries := map[error]Query{
			ErrMissingRequiredField: {Date: day(0)},
			ErrInvalidProviderID:    {ProviderID: "nope", Date: day(0)},
			ErrInvalidListingID:     {ProviderID: testProviderID, Date: day(0), ListingID: "nope"},
			ErrInvalidDate:          {ProviderID: testProviderID, Date: "08/02/2026"},
			ErrDateOutOfRange:       {ProviderID: testProviderID, Date: day(91)},
		}
		for want, q := range queries {
			_, _, err := svc.GetAvailability(ctx, q)
			assert.ErrorIs(t, err, want)
		}

		assert.Equal(t, 0, b.calls)
		assert.Equal(t, 0, l.calls)
		assert.Empty(t, c.items)
	})

	t.Run("Booking store failure is an upstream failure", func(t *testing.T) {
		cause := errors.New("dial tcp 10.0.0.5:5432: connection refused")
		svc := newTestService(&fakeBookingRepo{err: cause}, &fakeListingRepo{}, nil)

		_, _, err := svc.GetAvailability(ctx, Query{ProviderID: testProviderID, Date: day(0)})

		assert.ErrorIs(t, err, ErrUpstreamFailure)
		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, http.StatusInternalServerError, appErr.Code)
		assert.NotContains(t, appErr.Error(), "10.0.0.5")
	})

	t.Run("Listing store failure is an upstream failure", func(t *testing.T) {
		b := &fakeBookingRepo{}
		svc := newTestService(b, &fakeListingRepo{err: errors.New("timeout")}, nil)

		_, _, err := svc.GetAvailability(ctx, Query{ProviderID: testProviderID, Date: day(0), ListingID: testListingID})

		assert.ErrorIs(t, err, ErrUpstreamFailure)
		assert.Equal(t, 1, b.calls, "no retry")
	})
}

func TestGetAvailabilityCache(t *testing.T) {
	ctx := context.Background()
	q := Query{ProviderID: testProviderID, Date: day(2), ListingID: testListingID}

	t.Run("Second call is served from cache", func(t *testing.T) {
		b := &fakeBookingRepo{holds: []*booking.Hold{{StartTime: "13:00", DurationMinutes: 60}}}
		l := &fakeListingRepo{}
		c := newMemoryCache()
		svc := newTestService(b, l, c)

		first, fresh, err := svc.GetAvailability(ctx, q)
		require.NoError(t, err)
		assert.False(t, fresh.Cached)

		second, fresh, err := svc.GetAvailability(ctx, q)
		require.NoError(t, err)
		assert.Equal(t, Freshness{Cached: true, MaxAge: time.Minute}, fresh)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, b.calls)
		assert.Equal(t, 1, l.calls)
		assert.Equal(t, []time.Duration{time.Minute}, c.ttls)
	})

	t.Run("Key separates listings and dates", func(t *testing.T) {
		b := &fakeBookingRepo{}
		c := newMemoryCache()
		svc := newTestService(b, &fakeListingRepo{}, c)

		_, _, _ = svc.GetAvailability(ctx, Query{ProviderID: testProviderID, Date: day(2)})
		_, _, _ = svc.GetAvailability(ctx, Query{ProviderID: testProviderID, Date: day(2), ListingID: testListingID})
		_, _, _ = svc.GetAvailability(ctx, Query{ProviderID: testProviderID, Date: day(3)})

		assert.Equal(t, 3, b.calls)
		assert.Len(t, c.items, 3)
	})

	t.Run("Cache errors fall through to the stores", func(t *testing.T) {
		b := &fakeBookingRepo{}
		c := newMemoryCache()
		c.getErr = errors.New("redis down")
		c.setErr = errors.New("redis down")
		svc := newTestService(b, &fakeListingRepo{}, c)

		got, fresh, err := svc.GetAvailability(ctx, q)
		require.NoError(t, err)
		assert.False(t, fresh.Cached)
		assert.Len(t, got.AllSlots, 19)
		assert.Equal(t, 1, b.calls)
	})

	t.Run("Zero TTL disables caching", func(t *testing.T) {
		b := &fakeBookingRepo{}
		c := newMemoryCache()
		svc := NewService(b, &fakeListingRepo{}, c, Options{Location: time.UTC, Now: fixedClock})

		_, _, _ = svc.GetAvailability(ctx, q)
		_, fresh, _ := svc.GetAvailability(ctx, q)

		assert.Equal(t, Freshness{}, fresh)
		assert.Equal(t, 2, b.calls)
		assert.Empty(t, c.items)
	})
}

func TestGetAvailabilityHitAdvertisesRemainingLifetime(t *testing.T) {
	ctx := context.Background()
	q := Query{ProviderID: testProviderID, Date: day(2)}

	tests := []struct {
		name      string
		remaining time.Duration
		want      time.Duration
	}{
		{"Nearly expired entry", 5 * time.Second, 5 * time.Second},
		{"Entry older than the current TTL allows", 10 * time.Minute, time.Minute},
		{"Entry without expiry", -1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newMemoryCache()
			c.remaining = tt.remaining
			svc := newTestService(&fakeBookingRepo{}, &fakeListingRepo{}, c)

			_, _, err := svc.GetAvailability(ctx, q)
			require.NoError(t, err)

			_, fresh, err := svc.GetAvailability(ctx, q)
			require.NoError(t, err)
			assert.True(t, fresh.Cached)
			assert.Equal(t, tt.want, fresh.MaxAge)
		})
	}
}

func TestGetAvailabilityUsesServiceLocation(t *testing.T) {
	// 23:30 UTC on Feb 8 is already Feb 9 at UTC+9, so Feb 7 is out of range there.
	late := func() time.Time { return time.Date(2026, 2, 8, 23, 30, 0, 0, time.UTC) }
	svc := NewService(&fakeBookingRepo{}, &fakeListingRepo{}, nil, Options{
		Location: time.FixedZone("UTC+9", 9*60*60),
		Now:      late,
	})

	_, _, err := svc.GetAvailability(context.Background(), Query{ProviderID: testProviderID, Date: "2026-02-07"})
	assert.ErrorIs(t, err, ErrDateOutOfRange)
}
