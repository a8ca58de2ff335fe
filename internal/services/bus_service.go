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

// bus_number races between two creators surface as a unique-key conflict;
// the loser retries with a fresh number.
const busNumberAttempts = 3

type BusService struct {
	Periods    PeriodStore
	Buses      BusStore
	Passengers PassengerStore
	Notifier   Notifier
	RequestID  string
}

func (s BusService) periods() PeriodService {
	return PeriodService{Periods: s.Periods, Notifier: s.Notifier, RequestID: s.RequestID}
}

// List returns the period's buses ordered by destination and bus_number with seat usage.
func (s BusService) List(ctx context.Context, periodID string) ([]models.BusWithOccupancy, error) {
	if _, err := s.Periods.Get(ctx, periodID); err != nil {
		return nil, err
	}
	buses, err := s.Buses.ListByPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	counts, err := s.Passengers.CountsByPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	out := make([]models.BusWithOccupancy, 0, len(buses))
	for _, b := range buses {
		out = append(out, withOccupancy(b, counts[b.ID]))
	}
	return out, nil
}

func (s BusService) Get(ctx context.Context, periodID, busID string) (models.BusWithOccupancy, error) {
	b, err := s.loadInPeriod(ctx, periodID, busID)
	if err != nil {
		return models.BusWithOccupancy{}, err
	}
	n, err := s.Passengers.CountByBus(ctx, busID)
	if err != nil {
		return models.BusWithOccupancy{}, err
	}
	return withOccupancy(b, n), nil
}

// Create adds a bus numbered max+1 within (period, destination). A missing
// fare falls back to the period's default fare.
func (s BusService) Create(ctx context.Context, periodID string, in models.BusInput) (models.Bus, error) {
	period, err := s.periods().LoadMutable(ctx, periodID)
	if err != nil {
		return models.Bus{}, err
	}
	in.Destination = utils.NormalizeSpace(in.Destination)
	if in.FarePerPassenger == nil && period.DefaultFare.Valid {
		fare := period.DefaultFare.Decimal
		in.FarePerPassenger = &fare
	}
	if err := ValidateBusInput(in, true); err != nil {
		return models.Bus{}, err
	}

	b := models.Bus{
		ID:               uuid.NewString(),
		PeriodID:         periodID,
		Destination:      in.Destination,
		MaxPassengers:    in.MaxPassengers,
		FarePerPassenger: *in.FarePerPassenger,
		MealCount:        intOrZero(in.MealCount),
		MealPrice:        decimalOrZero(in.MealPrice),
		CreatedAt:        utils.NowUTC(),
	}

	var out models.Bus
	for attempt := 1; ; attempt++ {
		b.BusNumber, err = s.Buses.NextBusNumber(ctx, periodID, b.Destination)
		if err != nil {
			return models.Bus{}, err
		}
		out, err = s.Buses.Insert(ctx, b)
		if err == nil {
			break
		}
		if !domain.IsConflict(err) || attempt == busNumberAttempts {
			return models.Bus{}, err
		}
	}

	utils.LogEvent(s.RequestID, "bus", "create", fmt.Sprintf("bus_id=%s period_id=%s label=%q", out.ID, periodID, out.Label()))
	publish(s.Notifier, TableBuses, events.KindInsert, out.ID)
	return out, nil
}

// Update edits capacity and pricing. Capacity may not drop below the highest
// occupied seat; a price change re-prices every passenger on the bus.
func (s BusService) Update(ctx context.Context, periodID, busID string, in models.BusInput) (models.Bus, error) {
	if _, err := s.periods().LoadMutable(ctx, periodID); err != nil {
		return models.Bus{}, err
	}
	cur, err := s.loadInPeriod(ctx, periodID, busID)
	if err != nil {
		return models.Bus{}, err
	}
	in.Destination = cur.Destination
	if in.FarePerPassenger == nil {
		fare := cur.FarePerPassenger
		in.FarePerPassenger = &fare
	}
	if in.MealPrice == nil {
		price := cur.MealPrice
		in.MealPrice = &price
	}
	if in.MealCount == nil {
		meals := cur.MealCount
		in.MealCount = &meals
	}
	if err := ValidateBusInput(in, false); err != nil {
		return models.Bus{}, err
	}

	seats, err := s.Passengers.OccupiedSeats(ctx, busID)
	if err != nil {
		return models.Bus{}, err
	}
	if len(seats) > 0 {
		if highest := seats[len(seats)-1].SeatNumber; in.MaxPassengers < highest {
			return models.Bus{}, domain.ValidationError{
				Field: "max_passengers",
				Msg:   fmt.Sprintf("tidak boleh kurang dari kursi terisi tertinggi (%d)", highest),
			}
		}
	}

	next := cur
	next.MaxPassengers = in.MaxPassengers
	next.FarePerPassenger = *in.FarePerPassenger
	next.MealCount = *in.MealCount
	next.MealPrice = *in.MealPrice

	if cur.FarePerPassenger.Equal(next.FarePerPassenger) && cur.MealPrice.Equal(next.MealPrice) {
		out, err := s.Buses.Update(ctx, next)
		if err != nil {
			return models.Bus{}, err
		}
		utils.LogEvent(s.RequestID, "bus", "update", "bus_id="+busID)
		publish(s.Notifier, TableBuses, events.KindUpdate, busID)
		return out, nil
	}

	out, repriced, err := s.Buses.UpdateAndReprice(ctx, next, repriceFor(next))
	if err != nil {
		utils.LogEvent(s.RequestID, "bus", "update_failed", fmt.Sprintf("bus_id=%s err=%v", busID, err))
		return models.Bus{}, err
	}
	utils.LogEvent(s.RequestID, "bus", "update", fmt.Sprintf("bus_id=%s repriced=%d", busID, len(repriced)))
	publish(s.Notifier, TableBuses, events.KindUpdate, busID)
	for _, id := range repriced {
		publish(s.Notifier, TablePassengers, events.KindUpdate, id)
	}
	return out, nil
}

// repriceFor recomputes a passenger's billing against bus, keeping the meal count.
func repriceFor(bus models.Bus) func(models.Passenger) models.Passenger {
	return func(p models.Passenger) models.Passenger {
		mealCount := p.MealCount
		applyBilling(&p, ComputeBilling(bus, p.Status, &mealCount))
		return p
	}
}

// loadInPeriod treats a bus of another period as missing.
func (s BusService) loadInPeriod(ctx context.Context, periodID, busID string) (models.Bus, error) {
	b, err := s.Buses.Get(ctx, busID)
	if err != nil {
		return models.Bus{}, err
	}
	if b.PeriodID != periodID {
		return models.Bus{}, domain.NotFoundError{Resource: "bus", ID: busID}
	}
	return b, nil
}

// ValidateBusInput is shared by create and update. requireFare is set on
// create, where no stored fare exists yet.
func ValidateBusInput(in models.BusInput, requireFare bool) error {
	err := validateStruct(in)
	var extra []domain.FieldError
	switch {
	case in.FarePerPassenger == nil && requireFare:
		extra = append(extra, domain.FieldError{Field: "fare_per_passenger", Msg: "wajib diisi (periode tidak punya tarif default)"})
	case in.FarePerPassenger != nil && in.FarePerPassenger.IsNegative():
		extra = append(extra, domain.FieldError{Field: "fare_per_passenger", Msg: "tidak boleh negatif"})
	}
	if in.MealPrice != nil && in.MealPrice.IsNegative() {
		extra = append(extra, domain.FieldError{Field: "meal_price", Msg: "tidak boleh negatif"})
	}
	return mergeValidation(err, extra...)
}

func withOccupancy(b models.Bus, occupied int) models.BusWithOccupancy {
	return models.BusWithOccupancy{Bus: b, Occupied: occupied, Available: b.MaxPassengers - occupied}
}

func intOrZero(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
