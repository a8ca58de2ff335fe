package services

import (
	"context"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
	"busbooking/internal/events"
)

// PeriodStore persists periods. Missing rows yield domain.NotFoundError,
// storage failures domain.StoreError.
type PeriodStore interface {
	List(ctx context.Context) ([]models.Period, error)
	Get(ctx context.Context, id string) (models.Period, error)
	// GetActive returns nil without error when no period is active.
	GetActive(ctx context.Context) (*models.Period, error)
	Insert(ctx context.Context, p models.Period) (models.Period, error)
	Update(ctx context.Context, p models.Period) (models.Period, error)
	SetStatus(ctx context.Context, id string, status models.PeriodStatus) error
	// Activate locks every other active period and activates id as one unit.
	// It returns the ids that were locked.
	Activate(ctx context.Context, id string) ([]string, error)
	// DeleteCascade removes buses, passengers and the period, all or nothing.
	DeleteCascade(ctx context.Context, id string) error
}

type BusStore interface {
	// ListByPeriod orders by destination, then bus_number.
	ListByPeriod(ctx context.Context, periodID string) ([]models.Bus, error)
	Get(ctx context.Context, id string) (models.Bus, error)
	NextBusNumber(ctx context.Context, periodID, destination string) (int, error)
	Insert(ctx context.Context, b models.Bus) (models.Bus, error)
	Update(ctx context.Context, b models.Bus) (models.Bus, error)
	// UpdateAndReprice writes b and passes every passenger on the bus through
	// price, all or nothing. It returns the ids of the repriced passengers.
	UpdateAndReprice(ctx context.Context, b models.Bus, price func(models.Passenger) models.Passenger) (models.Bus, []string, error)
}

type PassengerStore interface {
	List(ctx context.Context, filters []domain.Filter, sorts []domain.Sort) ([]models.Passenger, error)
	Get(ctx context.Context, id string) (models.Passenger, error)
	CountByBus(ctx context.Context, busID string) (int, error)
	// CountsByPeriod maps bus id to passenger count.
	CountsByPeriod(ctx context.Context, periodID string) (map[string]int, error)
	// OccupiedSeats is ordered by seat number ascending.
	OccupiedSeats(ctx context.Context, busID string) ([]models.OccupiedSeat, error)
	// Insert and Update return domain.SeatTakenError when the seat is held.
	Insert(ctx context.Context, p models.Passenger) (models.Passenger, error)
	Update(ctx context.Context, p models.Passenger) (models.Passenger, error)
	Delete(ctx context.Context, id string) error
}

type OperatorStore interface {
	// FindByUsername returns the operator and its bcrypt hash.
	FindByUsername(ctx context.Context, username string) (domain.Operator, string, error)
	Insert(ctx context.Context, op domain.Operator, passwordHash string) error
}

// Notifier receives a change after every committed write.
type Notifier interface {
	Publish(events.Change)
}

type nopNotifier struct{}

func (nopNotifier) Publish(events.Change) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}

func publish(n Notifier, table, kind, id string) {
	notifierOrNop(n).Publish(events.Change{Table: table, Kind: kind, ID: id})
}

// Table names carried by change notifications.
const (
	TablePeriods    = "periods"
	TableBuses      = "buses"
	TablePassengers = "passengers"
)
