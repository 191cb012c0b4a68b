package availability

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/service-marketplace-backend/internal/booking"
	"github.com/nekogravitycat/service-marketplace-backend/internal/db"
	"github.com/nekogravitycat/service-marketplace-backend/internal/listing"
	"github.com/nekogravitycat/service-marketplace-backend/internal/pkg/apperror"
)

// Cache stores computed results for a short time.
// Get reports a miss as a nil result; on a hit ttl is the entry's remaining lifetime.
type Cache interface {
	Get(ctx context.Context, key string) (result *Result, ttl time.Duration, err error)
	Set(ctx context.Context, key string, result *Result, ttl time.Duration) error
}

// Freshness tells callers where a result came from and how long it may be reused.
type Freshness struct {
	Cached bool
	MaxAge time.Duration
}

type Service interface {
	// GetAvailability validates q, loads the provider's bookings and listing
	// settings and computes the day's slots.
	GetAvailability(ctx context.Context, q Query) (*Result, Freshness, error)
}

// Options tune a Service. Zero values pick sensible defaults.
type Options struct {
	CacheTTL time.Duration
	Location *time.Location
	Now      func() time.Time
	Logger   *zap.Logger
}

type service struct {
	bookingRepo booking.Repository
	listingRepo listing.Repository
	cache       Cache
	ttl         time.Duration
	loc         *time.Location
	now         func() time.Time
	logger      *zap.Logger
}

func NewService(bookingRepo booking.Repository, listingRepo listing.Repository, cache Cache, opts Options) Service {
	s := &service{
		bookingRepo: bookingRepo,
		listingRepo: listingRepo,
		cache:       cache,
		ttl:         opts.CacheTTL,
		loc:         opts.Location,
		now:         opts.Now,
		logger:      opts.Logger,
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// cacheKey identifies a result. Inputs are used verbatim so the echoed
// provider id and date always match the caller's.
func cacheKey(req Request) string {
	listingID := req.ListingID
	if listingID == "" {
		listingID = "-"
	}
	return req.ProviderID + ":" + req.DateText + ":" + listingID
}

func (s *service) GetAvailability(ctx context.Context, q Query) (*Result, Freshness, error) {
	// 1. Validate before touching any store
	req, err := ValidateQuery(q, s.now().In(s.loc))
	if err != nil {
		return nil, Freshness{}, err
	}

	key := cacheKey(req)
	log := s.logger.With(
		zap.String("provider_id", req.ProviderID),
		zap.String("date", req.DateText),
		zap.String("listing_id", req.ListingID),
	)

	// 2. Serve from cache when possible
	if s.cache != nil && s.ttl > 0 {
		cached, remaining, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Warn("availability cache read failed", zap.Error(err))
		} else if cached != nil {
			return cached, Freshness{Cached: true, MaxAge: s.remainingAge(remaining)}, nil
		}
	}

	// 3. Load bookings and listing settings
	holds, err := s.bookingRepo.ListHolds(ctx, req.ProviderID, req.Date)
	if err != nil {
		log.Error("failed to load bookings", zap.String("class", db.Classify(err)), zap.Error(err))
		return nil, Freshness{}, apperror.Wrap(ErrUpstreamFailure, err)
	}

	var cfg *ListingConfig
	if req.ListingID != "" {
		lc, err := s.listingRepo.GetConfig(ctx, req.ListingID)
		switch {
		case errors.Is(err, listing.ErrNotFound):
			// Unknown listing: defaults apply.
		case err != nil:
			log.Error("failed to load listing", zap.String("class", db.Classify(err)), zap.Error(err))
			return nil, Freshness{}, apperror.Wrap(ErrUpstreamFailure, err)
		default:
			cfg = &ListingConfig{
				DurationMinutes: lc.DurationMinutes,
				WorkHoursStart:  lc.WorkHoursStart,
				WorkHoursEnd:    lc.WorkHoursEnd,
			}
		}
	}

	records := make([]BookingRecord, 0, len(holds))
	for _, h := range holds {
		if h == nil || h.StartTime == "" {
			continue
		}
		records = append(records, BookingRecord{StartTime: h.StartTime, DurationMinutes: h.DurationMinutes})
	}

	// 4. Compute
	result := Calculate(Input{
		Date:       req.DateText,
		ProviderID: req.ProviderID,
		Bookings:   records,
		Listing:    cfg,
	})

	if s.cache != nil && s.ttl > 0 {
		if err := s.cache.Set(ctx, key, &result, s.ttl); err != nil {
			log.Warn("availability cache write failed", zap.Error(err))
		}
	}

	return &result, Freshness{MaxAge: s.ttl}, nil
}

// remainingAge bounds a cache entry's remaining lifetime by the configured TTL.
func (s *service) remainingAge(remaining time.Duration) time.Duration {
	if remaining <= 0 {
		return 0
	}
	if remaining > s.ttl {
		return s.ttl
	}
	return remaining
}
