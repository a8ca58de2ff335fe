package services

import (
	"fmt"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

// PeriodEvent is an operator action on a period.
type PeriodEvent string

const (
	EvActivate PeriodEvent = "activate"
	EvLock     PeriodEvent = "lock"
	EvArchive  PeriodEvent = "archive"
	EvDelete   PeriodEvent = "delete"
)

// periodTransition is one allowed edge. An empty To means the period is removed.
type periodTransition struct {
	From  models.PeriodStatus
	Event PeriodEvent
	To    models.PeriodStatus
}

var periodTransitions = []periodTransition{
	// activation forces the current active period to LOCKED first
	{From: models.PeriodDraft, Event: EvActivate, To: models.PeriodActive},
	{From: models.PeriodLocked, Event: EvActivate, To: models.PeriodActive},
	{From: models.PeriodArchived, Event: EvActivate, To: models.PeriodActive},

	{From: models.PeriodActive, Event: EvLock, To: models.PeriodLocked},
	{From: models.PeriodDraft, Event: EvLock, To: models.PeriodLocked},

	{From: models.PeriodDraft, Event: EvArchive, To: models.PeriodArchived},
	{From: models.PeriodLocked, Event: EvArchive, To: models.PeriodArchived},

	// cascade delete of buses and passengers
	{From: models.PeriodDraft, Event: EvDelete},
	{From: models.PeriodLocked, Event: EvDelete},
	{From: models.PeriodArchived, Event: EvDelete},
}

// periodTransitionFor returns the allowed edge for status+event.
func periodTransitionFor(from models.PeriodStatus, ev PeriodEvent) (periodTransition, bool) {
	for _, tr := range periodTransitions {
		if tr.From == from && tr.Event == ev {
			return tr, true
		}
	}
	return periodTransition{}, false
}

func checkTransition(p models.Period, ev PeriodEvent) (periodTransition, error) {
	tr, ok := periodTransitionFor(p.Status, ev)
	if !ok {
		return periodTransition{}, domain.ConflictError{
			Resource: "period",
			Msg:      fmt.Sprintf("periode berstatus %s tidak bisa di-%s", p.Status, ev),
		}
	}
	return tr, nil
}

// AssertMutable fails with PeriodLockedError unless buses and passengers of
// p may be written (DRAFT or ACTIVE).
func AssertMutable(p models.Period) error {
	if p.Mutable() {
		return nil
	}
	return domain.PeriodLockedError{PeriodID: p.ID, Status: string(p.Status)}
}
