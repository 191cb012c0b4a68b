package listing

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines data access methods for listings.
type Repository interface {
	GetConfig(ctx context.Context, listingID string) (*Config, error)
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

func buildGetConfigQuery(listingID string) (string, []any, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	return psql.Select(
		"id",
		"duration_minutes",
		"to_char(work_hours_start, 'HH24:MI')",
		"to_char(work_hours_end, 'HH24:MI')",
	).
		From("public.listings").
		Where(squirrel.Eq{"id": listingID}).
		ToSql()
}

func (r *pgxRepository) GetConfig(ctx context.Context, listingID string) (*Config, error) {
	query, args, err := buildGetConfigQuery(listingID)
	if err != nil {
		return nil, fmt.Errorf("build get listing config query failed: %w", err)
	}

	var c Config
	err = r.pool.QueryRow(ctx, query, args...).
		Scan(&c.ListingID, &c.DurationMinutes, &c.WorkHoursStart, &c.WorkHoursEnd)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get listing config failed: %w", err)
	}
	return &c, nil
}
