package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nekogravitycat/service-marketplace-backend/internal/availability"
)

const keyPrefix = "availability:"

// NewRedisClient connects to redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RedisCache stores availability results as JSON.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Get returns the cached result and its remaining lifetime. A miss is (nil, 0, nil).
func (c *RedisCache) Get(ctx context.Context, key string) (*availability.Result, time.Duration, error) {
	pipe := c.client.Pipeline()
	getCmd := pipe.Get(ctx, keyPrefix+key)
	ttlCmd := pipe.PTTL(ctx, keyPrefix+key)
	if _, err := pipe.Exec(ctx); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("redis get: %w", err)
	}

	raw, err := getCmd.Bytes()
	if err != nil {
		return nil, 0, fmt.Errorf("redis get: %w", err)
	}

	var entry entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, 0, fmt.Errorf("decode cached availability: %w", err)
	}
	result := entry.toResult()

	// PTTL reports -1 for keys without expiry.
	ttl := ttlCmd.Val()
	if ttl < 0 {
		ttl = 0
	}
	return &result, ttl, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, result *availability.Result, ttl time.Duration) error {
	if result == nil || ttl <= 0 {
		return nil
	}

	raw, err := json.Marshal(newEntry(result))
	if err != nil {
		return fmt.Errorf("encode availability: %w", err)
	}
	if err := c.client.Set(ctx, keyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// entry is the stored form of a result.
type entry struct {
	Date             string     `json:"date"`
	ProviderID       string     `json:"provider_id"`
	BusySlots        []interval `json:"busy_slots"`
	AllSlots         []string   `json:"all_slots"`
	UnavailableSlots []string   `json:"unavailable_slots"`
	Duration         int        `json:"duration"`
	WorkHoursStart   string     `json:"work_hours_start"`
	WorkHoursEnd     string     `json:"work_hours_end"`
}

type interval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func newEntry(r *availability.Result) entry {
	busy := make([]interval, len(r.BusySlots))
	for i, b := range r.BusySlots {
		busy[i] = interval{Start: b.Start, End: b.End}
	}
	return entry{
		Date:             r.Date,
		ProviderID:       r.ProviderID,
		BusySlots:        busy,
		AllSlots:         r.AllSlots,
		UnavailableSlots: r.UnavailableSlots,
		Duration:         r.CurrentListingDuration,
		WorkHoursStart:   r.WorkHoursStart,
		WorkHoursEnd:     r.WorkHoursEnd,
	}
}

func (e entry) toResult() availability.Result {
	busy := make([]availability.Interval, len(e.BusySlots))
	for i, b := range e.BusySlots {
		busy[i] = availability.Interval{Start: b.Start, End: b.End}
	}
	all := e.AllSlots
	if all == nil {
		all = []string{}
	}
	unavailable := e.UnavailableSlots
	if unavailable == nil {
		unavailable = []string{}
	}
	return availability.Result{
		Date:                   e.Date,
		ProviderID:             e.ProviderID,
		BusySlots:              busy,
		AllSlots:               all,
		UnavailableSlots:       unavailable,
		CurrentListingDuration: e.Duration,
		WorkHoursStart:         e.WorkHoursStart,
		WorkHoursEnd:           e.WorkHoursEnd,
	}
}
