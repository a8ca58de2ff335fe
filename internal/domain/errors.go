package domain

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError covers period, bus, passenger and operator lookups.
type NotFoundError struct {
	Resource string
	ID       string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// FieldError is one failed rule on one input field.
type FieldError struct {
	Field string `json:"field"`
	Msg   string `json:"message"`
}

// ValidationError carries either a single field (Field/Msg) or the full list
// collected by a validator run (Fields).
type ValidationError struct {
	Field  string
	Msg    string
	Fields []FieldError
	Err    error
}

func (e ValidationError) Error() string {
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Msg))
		}
		return strings.Join(parts, "; ")
	}
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// FieldErrors returns the field list, folding the single-field form in.
func (e ValidationError) FieldErrors() []FieldError {
	if len(e.Fields) > 0 {
		return e.Fields
	}
	if e.Field != "" {
		return []FieldError{{Field: e.Field, Msg: e.Msg}}
	}
	return nil
}

type ConflictError struct {
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// PeriodLockedError is returned when a bus or passenger write targets a
// LOCKED or ARCHIVED period.
type PeriodLockedError struct {
	PeriodID string
	Status   string
}

func (e PeriodLockedError) Error() string {
	return fmt.Sprintf("periode %s berstatus %s, data tidak bisa diubah", e.PeriodID, e.Status)
}

type SeatTakenError struct {
	BusID      string
	SeatNumber int
	Err        error
}

func (e SeatTakenError) Error() string {
	return fmt.Sprintf("kursi %d pada bus %s sudah terisi", e.SeatNumber, e.BusID)
}

func (e SeatTakenError) Unwrap() error { return e.Err }

type SeatOutOfRangeError struct {
	BusID      string
	SeatNumber int
	Max        int
}

func (e SeatOutOfRangeError) Error() string {
	return fmt.Sprintf("kursi %d di luar rentang 1..%d", e.SeatNumber, e.Max)
}

// StoreError wraps a failed data-store call. Op names the operation and,
// for multi-step writes, the stage that failed.
type StoreError struct {
	Op  string
	Err error
}

func (e StoreError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("store error: %v", e.Err)
	}
	return fmt.Sprintf("store error (%s): %v", e.Op, e.Err)
}

func (e StoreError) Unwrap() error { return e.Err }

type UnauthorizedError struct {
	Msg string
}

func (e UnauthorizedError) Error() string {
	if e.Msg == "" {
		return "unauthorized"
	}
	return e.Msg
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

// NotFoundResource reports which resource was missing, or "" if err is not a NotFoundError.
func NotFoundResource(err error) string {
	var target NotFoundError
	if errors.As(err, &target) {
		return target.Resource
	}
	return ""
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsPeriodLocked(err error) bool {
	var target PeriodLockedError
	return errors.As(err, &target)
}

func IsSeatTaken(err error) bool {
	var target SeatTakenError
	return errors.As(err, &target)
}

func IsSeatOutOfRange(err error) bool {
	var target SeatOutOfRangeError
	return errors.As(err, &target)
}

func IsStore(err error) bool {
	var target StoreError
	return errors.As(err, &target)
}

func IsUnauthorized(err error) bool {
	var target UnauthorizedError
	return errors.As(err, &target)
}
