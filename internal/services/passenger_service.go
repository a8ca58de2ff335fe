package services

import (
	"context"
	"fmt"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
	"busbooking/internal/events"
	"busbooking/internal/utils"

	"github.com/google/uuid"
)

// PassengerService books, edits and removes passengers. Writes pass the
// period gate, then seat validation, then billing, before they are stored.
type PassengerService struct {
	Periods    PeriodStore
	Buses      BusStore
	Passengers PassengerStore
	Notifier   Notifier
	RequestID  string
	// Operator is the logged-in petugas, if any.
	Operator *domain.Operator
}

// PassengerQuery narrows a period's passenger list.
type PassengerQuery struct {
	BusID      string `form:"bus_id"`
	Unassigned bool   `form:"unassigned"`
	Gender     string `form:"gender"`
	Status     string `form:"status"`
	Name       string `form:"q"`
	SortBy     string `form:"sort"`
	Desc       bool   `form:"desc"`
}

func (s PassengerService) periods() PeriodService {
	return PeriodService{Periods: s.Periods, Notifier: s.Notifier, RequestID: s.RequestID}
}

func (s PassengerService) seats() SeatService {
	return SeatService{Buses: s.Buses, Passengers: s.Passengers, RequestID: s.RequestID}
}

func (s PassengerService) List(ctx context.Context, periodID string, q PassengerQuery) ([]models.Passenger, error) {
	if _, err := s.Periods.Get(ctx, periodID); err != nil {
		return nil, err
	}
	filters := []domain.Filter{domain.Eq("period_id", periodID)}
	switch {
	case q.Unassigned:
		filters = append(filters, domain.Eq("bus_id", ""))
	case q.BusID != "":
		filters = append(filters, domain.Eq("bus_id", q.BusID))
	}
	if q.Gender != "" {
		filters = append(filters, domain.Eq("gender", q.Gender))
	}
	if q.Status != "" {
		filters = append(filters, domain.Eq("status", q.Status))
	}
	if name := utils.NormalizeSpace(q.Name); name != "" {
		filters = append(filters, domain.Like("name", name))
	}

	var sorts []domain.Sort
	if q.SortBy != "" {
		dir := "asc"
		if q.Desc {
			dir = "desc"
		}
		sorts = append(sorts, domain.Sort{Field: q.SortBy, Direction: dir})
	} else if q.BusID != "" {
		sorts = append(sorts, domain.Sort{Field: "bus_seat_number", Direction: "asc"})
	}
	return s.Passengers.List(ctx, filters, sorts)
}

func (s PassengerService) Get(ctx context.Context, periodID, id string) (models.Passenger, error) {
	p, err := s.Passengers.Get(ctx, id)
	if err != nil {
		return models.Passenger{}, err
	}
	if p.PeriodID != periodID {
		return models.Passenger{}, domain.NotFoundError{Resource: "passenger", ID: id}
	}
	return p, nil
}

// Create books a new passenger on a seat. A bus is mandatory here.
func (s PassengerService) Create(ctx context.Context, periodID string, in models.PassengerInput) (models.Passenger, error) {
	if _, err := s.periods().LoadMutable(ctx, periodID); err != nil {
		return models.Passenger{}, err
	}
	in = s.normalizeInput(in)
	if err := ValidatePassengerInput(in, true); err != nil {
		return models.Passenger{}, err
	}

	p := models.Passenger{
		ID:        uuid.NewString(),
		PeriodID:  periodID,
		CreatedAt: utils.NowUTC(),
	}
	if err := s.place(ctx, &p, in); err != nil {
		return models.Passenger{}, err
	}

	out, err := s.Passengers.Insert(ctx, p)
	if err != nil {
		return models.Passenger{}, err
	}
	utils.LogEvent(s.RequestID, "passenger", "create", fmt.Sprintf("passenger_id=%s bus_id=%s seat=%d", out.ID, out.BusID, out.BusSeatNumber))
	publish(s.Notifier, TablePassengers, events.KindInsert, out.ID)
	return out, nil
}

// Update re-validates the seat (on the new bus when it changed) and re-prices.
func (s PassengerService) Update(ctx context.Context, periodID, id string, in models.PassengerInput) (models.Passenger, error) {
	if _, err := s.periods().LoadMutable(ctx, periodID); err != nil {
		return models.Passenger{}, err
	}
	p, err := s.Get(ctx, periodID, id)
	if err != nil {
		return models.Passenger{}, err
	}
	in = s.normalizeInput(in)
	if err := ValidatePassengerInput(in, false); err != nil {
		return models.Passenger{}, err
	}
	if err := s.place(ctx, &p, in); err != nil {
		return models.Passenger{}, err
	}

	out, err := s.Passengers.Update(ctx, p)
	if err != nil {
		return models.Passenger{}, err
	}
	utils.LogEvent(s.RequestID, "passenger", "update", fmt.Sprintf("passenger_id=%s bus_id=%s seat=%d", id, out.BusID, out.BusSeatNumber))
	publish(s.Notifier, TablePassengers, events.KindUpdate, id)
	return out, nil
}

func (s PassengerService) Delete(ctx context.Context, periodID, id string) error {
	if _, err := s.periods().LoadMutable(ctx, periodID); err != nil {
		return err
	}
	if _, err := s.Get(ctx, periodID, id); err != nil {
		return err
	}
	if err := s.Passengers.Delete(ctx, id); err != nil {
		return err
	}
	utils.LogEvent(s.RequestID, "passenger", "delete", "passenger_id="+id)
	publish(s.Notifier, TablePassengers, events.KindDelete, id)
	return nil
}

// place copies input onto p, checks the seat and computes billing from the
// stored bus record.
func (s PassengerService) place(ctx context.Context, p *models.Passenger, in models.PassengerInput) error {
	p.Name = in.Name
	p.Gender = in.Gender
	p.Address = in.Address
	p.Phone = in.Phone
	p.Status = in.Status
	p.Petugas = in.Petugas
	if in.Status == models.StatusUmum {
		p.DaerahPondok = in.DaerahPondok
		p.Kelompok = in.Kelompok
	} else {
		p.DaerahPondok = ""
		p.Kelompok = ""
		p.GroupPondok = in.GroupPondok
	}
	p.GroupPondok = p.GroupLabel()

	if in.BusID == "" {
		p.BusID = ""
		p.BusSeatNumber = 0
		applyBilling(p, Billing{})
		return nil
	}

	bus, err := s.Buses.Get(ctx, in.BusID)
	if err != nil {
		return err
	}
	if bus.PeriodID != p.PeriodID {
		return domain.NotFoundError{Resource: "bus", ID: in.BusID}
	}
	if err := s.seats().assignOnBus(ctx, bus, in.BusSeatNumber, p.ID); err != nil {
		return err
	}

	p.BusID = bus.ID
	p.BusSeatNumber = in.BusSeatNumber
	p.Destination = bus.Destination
	applyBilling(p, ComputeBilling(bus, in.Status, in.MealCount))
	return nil
}

func (s PassengerService) normalizeInput(in models.PassengerInput) models.PassengerInput {
	in.Name = utils.NormalizeSpace(in.Name)
	in.Address = utils.NormalizeSpace(in.Address)
	in.Phone = utils.NormalizeSpace(in.Phone)
	in.GroupPondok = utils.NormalizeSpace(in.GroupPondok)
	in.DaerahPondok = utils.NormalizeSpace(in.DaerahPondok)
	in.Kelompok = utils.NormalizeSpace(in.Kelompok)
	in.Petugas = utils.NormalizeSpace(in.Petugas)
	if in.Petugas == "" && s.Operator != nil {
		in.Petugas = s.Operator.Name
	}
	return in
}

// ValidatePassengerInput is the single check used by create and update.
// requireBus is set on create; edits may leave a passenger unassigned.
func ValidatePassengerInput(in models.PassengerInput, requireBus bool) error {
	err := validateStruct(in)
	var extra []domain.FieldError
	if requireBus && in.BusID == "" {
		extra = append(extra, domain.FieldError{Field: "bus_id", Msg: "wajib diisi"})
	}
	return mergeValidation(err, extra...)
}
