package db

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Error classes reported by Classify.
const (
	ClassCanceled   = "canceled"
	ClassTimeout    = "timeout"
	ClassConnection = "connection"
	ClassResources  = "insufficient_resources"
	ClassSchema     = "schema"
	ClassData       = "data"
	ClassServer     = "server"
	ClassUnknown    = "unknown"
)

// Classify maps a storage error to a coarse class for logging.
// It never exposes SQL or connection detail.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, context.Canceled):
		return ClassCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return ClassTimeout
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		if pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
			return ClassConnection
		}
		return ClassUnknown
	}

	switch {
	case pgerrcode.IsConnectionException(pgErr.Code):
		return ClassConnection
	case pgErr.Code == pgerrcode.QueryCanceled:
		return ClassTimeout
	case pgerrcode.IsInsufficientResources(pgErr.Code), pgerrcode.IsOperatorIntervention(pgErr.Code):
		return ClassResources
	case pgerrcode.IsSyntaxErrororAccessRuleViolation(pgErr.Code), pgerrcode.IsInvalidCatalogName(pgErr.Code):
		return ClassSchema
	case pgerrcode.IsDataException(pgErr.Code):
		return ClassData
	default:
		return ClassServer
	}
}
