package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	// ListHolds returns the bookings that hold the provider's time on the given day,
	// ordered by start time. Bookings without a start time are excluded.
	ListHolds(ctx context.Context, providerID string, date time.Time) ([]*Hold, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func buildListHoldsQuery(providerID string, date time.Time) (string, []any, error) {
	statuses := make([]string, len(HoldStatuses))
	for i, s := range HoldStatuses {
		statuses[i] = string(s)
	}

	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return psql.Select(
		"b.status::text",
		"to_char(b.start_time, 'HH24:MI')",
		"COALESCE(l.duration_minutes, 0)",
	).
		From("public.bookings b").
		LeftJoin("public.listings l ON b.listing_id = l.id").
		Where(squirrel.Eq{"b.provider_id": providerID}).
		Where(squirrel.Eq{"b.booking_date": date.Format("2006-01-02")}).
		Where(squirrel.Eq{"b.status": statuses}).
		Where(squirrel.NotEq{"b.start_time": nil}).
		OrderBy("b.start_time ASC").
		ToSql()
}

func (r *pgxRepository) ListHolds(ctx context.Context, providerID string, date time.Time) ([]*Hold, error) {
	query, args, err := buildListHoldsQuery(providerID, date)
	if err != nil {
		return nil, fmt.Errorf("build list holds query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list holds failed: %w", err)
	}
	defer rows.Close()

	var holds []*Hold
	for rows.Next() {
		var (
			h   Hold
			raw string
		)
		if err := rows.Scan(&raw, &h.StartTime, &h.DurationMinutes); err != nil {
			return nil, fmt.Errorf("scan hold failed: %w", err)
		}
		// Status values unknown to this service never block time.
		if st, err := ParseStatus(raw); err != nil || !st.HoldsTime() {
			continue
		}
		holds = append(holds, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate holds failed: %w", err)
	}

	return holds, nil
}
