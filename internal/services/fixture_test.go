package services

import (
	"context"
	"sync"
	"testing"

	"busbooking/internal/domain/models"
	"busbooking/internal/events"
	"busbooking/internal/memstore"

	"github.com/shopspring/decimal"
)

type recordingNotifier struct {
	mu      sync.Mutex
	changes []events.Change
}

func (n *recordingNotifier) Publish(c events.Change) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changes = append(n.changes, c)
}

func (n *recordingNotifier) count(table, kind string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, ch := range n.changes {
		if ch.Table == table && ch.Kind == kind {
			c++
		}
	}
	return c
}

type fixture struct {
	ctx        context.Context
	store      *memstore.Store
	notifier   *recordingNotifier
	periods    PeriodService
	buses      BusService
	passengers PassengerService
	seats      SeatService
	manifest   ManifestService
	docs       DocsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	n := &recordingNotifier{}
	return &fixture{
		ctx:        context.Background(),
		store:      store,
		notifier:   n,
		periods:    PeriodService{Periods: store.Periods(), Notifier: n, RequestID: "test"},
		buses:      BusService{Periods: store.Periods(), Buses: store.Buses(), Passengers: store.Passengers(), Notifier: n, RequestID: "test"},
		passengers: PassengerService{Periods: store.Periods(), Buses: store.Buses(), Passengers: store.Passengers(), Notifier: n, RequestID: "test"},
		seats:      SeatService{Buses: store.Buses(), Passengers: store.Passengers(), RequestID: "test"},
		manifest:   ManifestService{Periods: store.Periods(), Buses: store.Buses(), Passengers: store.Passengers(), RequestID: "test"},
		docs:       DocsService{Buses: store.Buses(), Passengers: store.Passengers(), RequestID: "test"},
	}
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func intPtr(v int) *int { return &v }

func (f *fixture) period(t *testing.T, name string) models.Period {
	t.Helper()
	p, err := f.periods.Create(f.ctx, models.PeriodInput{Name: name})
	if err != nil {
		t.Fatalf("create period %s: %v", name, err)
	}
	return p
}

// bus creates a bus with the reference pricing: fare 50000, one meal at 10000.
func (f *fixture) bus(t *testing.T, periodID, destination string, capacity int) models.Bus {
	t.Helper()
	b, err := f.buses.Create(f.ctx, periodID, models.BusInput{
		Destination:      destination,
		MaxPassengers:    capacity,
		FarePerPassenger: dec(50000),
		MealCount:        intPtr(1),
		MealPrice:        dec(10000),
	})
	if err != nil {
		t.Fatalf("create bus %s: %v", destination, err)
	}
	return b
}

func pondokInput(name, busID string, seat int) models.PassengerInput {
	return models.PassengerInput{
		Name:          name,
		Gender:        models.GenderMale,
		Address:       "Jl. Pesantren 1",
		Status:        models.StatusPondok,
		GroupPondok:   "Santri Baru",
		BusID:         busID,
		BusSeatNumber: seat,
		Petugas:       "Ust. Hadi",
	}
}

func umumInput(name, busID string, seat int, meals *int) models.PassengerInput {
	return models.PassengerInput{
		Name:          name,
		Gender:        models.GenderFemale,
		Address:       "Jl. Merdeka 2",
		Phone:         "081234567890",
		Status:        models.StatusUmum,
		DaerahPondok:  "Kediri",
		Kelompok:      "Alumni",
		BusID:         busID,
		BusSeatNumber: seat,
		MealCount:     meals,
		Petugas:       "Ust. Hadi",
	}
}

func (f *fixture) passenger(t *testing.T, periodID string, in models.PassengerInput) models.Passenger {
	t.Helper()
	p, err := f.passengers.Create(f.ctx, periodID, in)
	if err != nil {
		t.Fatalf("create passenger %s: %v", in.Name, err)
	}
	return p
}
