package postgres

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/calendar"
)

const (
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// classify maps driver errors onto domain errors. notFound is returned for
// pgx.ErrNoRows.
func classify(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return domain.Unavailable(err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return domain.ErrProjectNotFound
		case pgCheckViolation:
			return domain.ErrInvalidStatus
		}
		return err
	}

	var connectErr *pgconn.ConnectError
	var netErr net.Error
	if errors.As(err, &connectErr) || errors.As(err, &netErr) || pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return domain.Unavailable(err)
	}
	return err
}

func toPgDate(d calendar.Date) pgtype.Date {
	if d.IsZero() {
		return pgtype.Date{}
	}
	return pgtype.Date{
		Time:  time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC),
		Valid: true,
	}
}

func fromPgDate(d pgtype.Date) calendar.Date {
	if !d.Valid {
		return calendar.Date{}
	}
	// pgx decodes DATE as midnight UTC; read the triple in UTC.
	return calendar.FromTime(d.Time.UTC())
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 500
	}
	return limit
}
