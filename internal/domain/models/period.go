package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodStatus is the lifecycle state of an operational period.
type PeriodStatus string

const (
	PeriodDraft    PeriodStatus = "DRAFT"
	PeriodActive   PeriodStatus = "ACTIVE"
	PeriodLocked   PeriodStatus = "LOCKED"
	PeriodArchived PeriodStatus = "ARCHIVED"
)

// Period scopes buses and passengers (one travel season, e.g. "Mudik 2025").
type Period struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Type        string              `json:"type,omitempty"`
	StartDate   string              `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate     string              `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status      PeriodStatus        `json:"status"`
	DefaultFare decimal.NullDecimal `json:"default_fare"`
	Notes       string              `json:"notes,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// Mutable reports whether buses and passengers of the period may be written.
func (p Period) Mutable() bool {
	return p.Status == PeriodDraft || p.Status == PeriodActive
}

// PeriodInput is the editable part of a period. Status is never taken from input.
type PeriodInput struct {
	Name        string           `json:"name" validate:"required"`
	Type        string           `json:"type"`
	StartDate   string           `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate     string           `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	DefaultFare *decimal.Decimal `json:"default_fare"`
	Notes       string           `json:"notes"`
}
