package db

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"canceled", fmt.Errorf("query: %w", context.Canceled), ClassCanceled},
		{"deadline", context.DeadlineExceeded, ClassTimeout},
		{"connection failure", &pgconn.PgError{Code: pgerrcode.ConnectionFailure}, ClassConnection},
		{"statement timeout", &pgconn.PgError{Code: pgerrcode.QueryCanceled}, ClassTimeout},
		{"too many connections", &pgconn.PgError{Code: pgerrcode.TooManyConnections}, ClassResources},
		{"admin shutdown", &pgconn.PgError{Code: pgerrcode.AdminShutdown}, ClassResources},
		{"missing table", &pgconn.PgError{Code: pgerrcode.UndefinedTable}, ClassSchema},
		{"bad datetime", fmt.Errorf("scan: %w", &pgconn.PgError{Code: pgerrcode.InvalidDatetimeFormat}), ClassData},
		{"unique violation", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, ClassServer},
		{"plain error", errors.New("boom"), ClassUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}
