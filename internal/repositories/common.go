package repositories

import (
	"database/sql"
	"errors"
	"time"

	"busbooking/internal/domain"
)

type rowScanner interface {
	Scan(dest ...any) error
}

// storeErr wraps err as a StoreError unless it already is a domain error.
func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if domain.IsNotFound(err) || domain.IsConflict(err) || domain.IsSeatTaken(err) ||
		domain.IsValidation(err) || domain.IsStore(err) {
		return err
	}
	return domain.StoreError{Op: op, Err: err}
}

func notFoundOr(op, resource, id string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFoundError{Resource: resource, ID: id}
	}
	return storeErr(op, err)
}

func formatNullDate(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format("2006-01-02")
}

func nullTimeOrZero(t sql.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}
