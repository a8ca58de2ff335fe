package services

import (
	"context"
	"fmt"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
	"busbooking/internal/events"
	"busbooking/internal/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PeriodService owns the period lifecycle. Every write is followed by a
// change notification.
type PeriodService struct {
	Periods   PeriodStore
	Notifier  Notifier
	RequestID string
}

func (s PeriodService) List(ctx context.Context) ([]models.Period, error) {
	return s.Periods.List(ctx)
}

func (s PeriodService) Get(ctx context.Context, id string) (models.Period, error) {
	return s.Periods.Get(ctx, id)
}

// GetActive returns nil, nil when no period is active.
func (s PeriodService) GetActive(ctx context.Context) (*models.Period, error) {
	return s.Periods.GetActive(ctx)
}

// Create always starts the period in DRAFT.
func (s PeriodService) Create(ctx context.Context, in models.PeriodInput) (models.Period, error) {
	in = normalizePeriodInput(in)
	if err := ValidatePeriodInput(in); err != nil {
		return models.Period{}, err
	}

	p := models.Period{
		ID:        uuid.NewString(),
		Status:    models.PeriodDraft,
		CreatedAt: utils.NowUTC(),
	}
	applyPeriodInput(&p, in)

	out, err := s.Periods.Insert(ctx, p)
	if err != nil {
		return models.Period{}, err
	}
	utils.LogEvent(s.RequestID, "period", "create", "period_id="+out.ID)
	publish(s.Notifier, TablePeriods, events.KindInsert, out.ID)
	return out, nil
}

// Update edits the descriptive fields in any status. Status is never changed here.
func (s PeriodService) Update(ctx context.Context, id string, in models.PeriodInput) (models.Period, error) {
	p, err := s.Periods.Get(ctx, id)
	if err != nil {
		return models.Period{}, err
	}
	in = normalizePeriodInput(in)
	if err := ValidatePeriodInput(in); err != nil {
		return models.Period{}, err
	}
	applyPeriodInput(&p, in)

	out, err := s.Periods.Update(ctx, p)
	if err != nil {
		return models.Period{}, err
	}
	utils.LogEvent(s.RequestID, "period", "update", "period_id="+id)
	publish(s.Notifier, TablePeriods, events.KindUpdate, id)
	return out, nil
}

// Activate makes id the only ACTIVE period. Activating the active period is a no-op.
func (s PeriodService) Activate(ctx context.Context, id string) (models.Period, error) {
	p, err := s.Periods.Get(ctx, id)
	if err != nil {
		return models.Period{}, err
	}
	if p.Status == models.PeriodActive {
		return p, nil
	}
	if _, err := checkTransition(p, EvActivate); err != nil {
		return models.Period{}, err
	}

	locked, err := s.Periods.Activate(ctx, id)
	if err != nil {
		return models.Period{}, err
	}
	for _, other := range locked {
		utils.LogEvent(s.RequestID, "period", "auto_lock", "period_id="+other)
		publish(s.Notifier, TablePeriods, events.KindUpdate, other)
	}
	utils.LogEvent(s.RequestID, "period", "activate", "period_id="+id)
	publish(s.Notifier, TablePeriods, events.KindUpdate, id)

	p.Status = models.PeriodActive
	return p, nil
}

func (s PeriodService) Lock(ctx context.Context, id string) (models.Period, error) {
	return s.move(ctx, id, EvLock)
}

func (s PeriodService) Archive(ctx context.Context, id string) (models.Period, error) {
	return s.move(ctx, id, EvArchive)
}

func (s PeriodService) move(ctx context.Context, id string, ev PeriodEvent) (models.Period, error) {
	p, err := s.Periods.Get(ctx, id)
	if err != nil {
		return models.Period{}, err
	}
	tr, err := checkTransition(p, ev)
	if err != nil {
		return models.Period{}, err
	}
	if err := s.Periods.SetStatus(ctx, id, tr.To); err != nil {
		return models.Period{}, err
	}
	utils.LogEvent(s.RequestID, "period", string(ev), fmt.Sprintf("period_id=%s from=%s to=%s", id, p.Status, tr.To))
	publish(s.Notifier, TablePeriods, events.KindUpdate, id)

	p.Status = tr.To
	return p, nil
}

// Delete removes a non-active period together with its buses and passengers.
func (s PeriodService) Delete(ctx context.Context, id string) error {
	p, err := s.Periods.Get(ctx, id)
	if err != nil {
		return err
	}
	if _, err := checkTransition(p, EvDelete); err != nil {
		return err
	}
	if err := s.Periods.DeleteCascade(ctx, id); err != nil {
		utils.LogEvent(s.RequestID, "period", "delete_failed", fmt.Sprintf("period_id=%s err=%v", id, err))
		return err
	}
	utils.LogEvent(s.RequestID, "period", "delete", "period_id="+id)
	publish(s.Notifier, TableBuses, events.KindDelete, id)
	publish(s.Notifier, TablePassengers, events.KindDelete, id)
	publish(s.Notifier, TablePeriods, events.KindDelete, id)
	return nil
}

// LoadMutable fetches a period and fails with PeriodLockedError unless its
// buses and passengers may be written.
func (s PeriodService) LoadMutable(ctx context.Context, id string) (models.Period, error) {
	p, err := s.Periods.Get(ctx, id)
	if err != nil {
		return models.Period{}, err
	}
	if err := AssertMutable(p); err != nil {
		return models.Period{}, err
	}
	return p, nil
}

func normalizePeriodInput(in models.PeriodInput) models.PeriodInput {
	in.Name = utils.NormalizeSpace(in.Name)
	in.Type = utils.NormalizeSpace(in.Type)
	in.StartDate = utils.NormalizeDate(in.StartDate)
	in.EndDate = utils.NormalizeDate(in.EndDate)
	in.Notes = utils.NormalizeSpace(in.Notes)
	return in
}

// ValidatePeriodInput checks tags plus date order and a non-negative fare.
func ValidatePeriodInput(in models.PeriodInput) error {
	err := validateStruct(in)
	var extra []domain.FieldError
	if in.DefaultFare != nil && in.DefaultFare.IsNegative() {
		extra = append(extra, domain.FieldError{Field: "default_fare", Msg: "tidak boleh negatif"})
	}
	if err == nil && in.StartDate != "" && in.EndDate != "" {
		start, errStart := utils.ParseDate(in.StartDate)
		end, errEnd := utils.ParseDate(in.EndDate)
		if errStart == nil && errEnd == nil && end.Before(start) {
			extra = append(extra, domain.FieldError{Field: "end_date", Msg: "tidak boleh sebelum start_date"})
		}
	}
	return mergeValidation(err, extra...)
}

func applyPeriodInput(p *models.Period, in models.PeriodInput) {
	p.Name = in.Name
	p.Type = in.Type
	p.StartDate = in.StartDate
	p.EndDate = in.EndDate
	p.Notes = in.Notes
	p.DefaultFare = decimal.NullDecimal{}
	if in.DefaultFare != nil {
		p.DefaultFare = decimal.NewNullDecimal(*in.DefaultFare)
	}
}
