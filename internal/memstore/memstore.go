// Package memstore keeps periods, buses, passengers and operators in memory
// with the same uniqueness rules as the MySQL schema. It backs
// STORE_DRIVER=memory and the service tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

type state struct {
	periods    map[string]models.Period
	buses      map[string]models.Bus
	passengers map[string]models.Passenger
	operators  map[string]operatorRow
}

type operatorRow struct {
	op   domain.Operator
	hash string
}

// Store is the shared in-memory state. Use the typed views for each table.
type Store struct {
	mu    sync.RWMutex
	state state
}

func New() *Store {
	return &Store{state: state{
		periods:    map[string]models.Period{},
		buses:      map[string]models.Bus{},
		passengers: map[string]models.Passenger{},
		operators:  map[string]operatorRow{},
	}}
}

func (s *Store) Periods() PeriodStore { return PeriodStore{s: s} }
func (s *Store) Buses() BusStore { return BusStore{s: s} }
func (s *Store) Passengers() PassengerStore { return PassengerStore{s: s} }
func (s *Store) Operators() OperatorStore { return OperatorStore{s: s} }

// PeriodStore is the periods table view.
type PeriodStore struct{ s *Store }

func (v PeriodStore) List(ctx context.Context) ([]models.Period, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	out := make([]models.Period, 0, len(v.s.state.periods))
	for _, p := range v.s.state.periods {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (v PeriodStore) Get(ctx context.Context, id string) (models.Period, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	p, ok := v.s.state.periods[id]
	if !ok {
		return models.Period{}, domain.NotFoundError{Resource: "period", ID: id}
	}
	return p, nil
}

func (v PeriodStore) GetActive(ctx context.Context) (*models.Period, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	for _, p := range v.s.state.periods {
		if p.Status == models.PeriodActive {
			active := p
			return &active, nil
		}
	}
	return nil, nil
}

func (v PeriodStore) Insert(ctx context.Context, p models.Period) (models.Period, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if _, exists := v.s.state.periods[p.ID]; exists {
		return models.Period{}, domain.ConflictError{Resource: "period", Msg: "id periode sudah dipakai"}
	}
	v.s.state.periods[p.ID] = p
	return p, nil
}

func (v PeriodStore) Update(ctx context.Context, p models.Period) (models.Period, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	cur, ok := v.s.state.periods[p.ID]
	if !ok {
		return models.Period{}, domain.NotFoundError{Resource: "period", ID: p.ID}
	}
	cur.Name = p.Name
	cur.Type = p.Type
	cur.StartDate = p.StartDate
	cur.EndDate = p.EndDate
	cur.DefaultFare = p.DefaultFare
	cur.Notes = p.Notes
	v.s.state.periods[p.ID] = cur
	return cur, nil
}

func (v PeriodStore) SetStatus(ctx context.Context, id string, status models.PeriodStatus) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	p, ok := v.s.state.periods[id]
	if !ok {
		return domain.NotFoundError{Resource: "period", ID: id}
	}
	p.Status = status
	v.s.state.periods[id] = p
	return nil
}

func (v PeriodStore) Activate(ctx context.Context, id string) ([]string, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	target, ok := v.s.state.periods[id]
	if !ok {
		return nil, domain.NotFoundError{Resource: "period", ID: id}
	}

	var locked []string
	for pid, p := range v.s.state.periods {
		if pid == id || p.Status != models.PeriodActive {
			continue
		}
		p.Status = models.PeriodLocked
		v.s.state.periods[pid] = p
		locked = append(locked, pid)
	}
	sort.Strings(locked)

	target.Status = models.PeriodActive
	v.s.state.periods[id] = target
	return locked, nil
}

func (v PeriodStore) DeleteCascade(ctx context.Context, id string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if _, ok := v.s.state.periods[id]; !ok {
		return domain.NotFoundError{Resource: "period", ID: id}
	}
	for bid, b := range v.s.state.buses {
		if b.PeriodID == id {
			delete(v.s.state.buses, bid)
		}
	}
	for pid, p := range v.s.state.passengers {
		if p.PeriodID == id {
			delete(v.s.state.passengers, pid)
		}
	}
	delete(v.s.state.periods, id)
	return nil
}

// BusStore is the buses table view.
type BusStore struct{ s *Store }

func (v BusStore) ListByPeriod(ctx context.Context, periodID string) ([]models.Bus, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	out := []models.Bus{}
	for _, b := range v.s.state.buses {
		if b.PeriodID == periodID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := strings.ToLower(out[i].Destination), strings.ToLower(out[j].Destination)
		if di != dj {
			return di < dj
		}
		return out[i].BusNumber < out[j].BusNumber
	})
	return out, nil
}

func (v BusStore) Get(ctx context.Context, id string) (models.Bus, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	b, ok := v.s.state.buses[id]
	if !ok {
		return models.Bus{}, domain.NotFoundError{Resource: "bus", ID: id}
	}
	return b, nil
}

func (v BusStore) NextBusNumber(ctx context.Context, periodID, destination string) (int, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	highest := 0
	for _, b := range v.s.state.buses {
		if b.PeriodID == periodID && strings.EqualFold(b.Destination, destination) && b.BusNumber > highest {
			highest = b.BusNumber
		}
	}
	return highest + 1, nil
}

func (v BusStore) Insert(ctx context.Context, b models.Bus) (models.Bus, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if _, ok := v.s.state.periods[b.PeriodID]; !ok {
		return models.Bus{}, domain.NotFoundError{Resource: "period", ID: b.PeriodID}
	}
	for _, other := range v.s.state.buses {
		if other.ID == b.ID {
			return models.Bus{}, domain.ConflictError{Resource: "bus", Msg: "id bus sudah dipakai"}
		}
		if other.PeriodID == b.PeriodID && strings.EqualFold(other.Destination, b.Destination) && other.BusNumber == b.BusNumber {
			return models.Bus{}, domain.ConflictError{Resource: "bus", Msg: "nomor bus sudah dipakai untuk tujuan ini"}
		}
	}
	v.s.state.buses[b.ID] = b
	return b, nil
}

func (v BusStore) Update(ctx context.Context, b models.Bus) (models.Bus, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	cur, ok := v.s.state.buses[b.ID]
	if !ok {
		return models.Bus{}, domain.NotFoundError{Resource: "bus", ID: b.ID}
	}
	cur.MaxPassengers = b.MaxPassengers
	cur.FarePerPassenger = b.FarePerPassenger
	cur.MealCount = b.MealCount
	cur.MealPrice = b.MealPrice
	v.s.state.buses[b.ID] = cur
	return cur, nil
}

// UpdateAndReprice applies the bus change and reprices its passengers under
// one lock, so readers never see the new price with stale passenger totals.
func (v BusStore) UpdateAndReprice(ctx context.Context, b models.Bus, price func(models.Passenger) models.Passenger) (models.Bus, []string, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	cur, ok := v.s.state.buses[b.ID]
	if !ok {
		return models.Bus{}, nil, domain.NotFoundError{Resource: "bus", ID: b.ID}
	}
	cur.MaxPassengers = b.MaxPassengers
	cur.FarePerPassenger = b.FarePerPassenger
	cur.MealCount = b.MealCount
	cur.MealPrice = b.MealPrice

	repriced := map[string]models.Passenger{}
	for id, p := range v.s.state.passengers {
		if p.BusID != b.ID {
			continue
		}
		next := price(p)
		p.MealCount = next.MealCount
		p.MealPayment = next.MealPayment
		p.TotalPayment = next.TotalPayment
		repriced[id] = p
	}

	v.s.state.buses[b.ID] = cur
	ids := make([]string, 0, len(repriced))
	for id, p := range repriced {
		v.s.state.passengers[id] = p
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return cur, ids, nil
}

// OperatorStore is the operators table view.
type OperatorStore struct{ s *Store }

func (v OperatorStore) FindByUsername(ctx context.Context, username string) (domain.Operator, string, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	row, ok := v.s.state.operators[strings.ToLower(username)]
	if !ok {
		return domain.Operator{}, "", domain.NotFoundError{Resource: "operator", ID: username}
	}
	return row.op, row.hash, nil
}

func (v OperatorStore) Insert(ctx context.Context, op domain.Operator, passwordHash string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	key := strings.ToLower(op.Username)
	if _, exists := v.s.state.operators[key]; exists {
		return domain.ConflictError{Resource: "operator", Msg: "username sudah terdaftar"}
	}
	v.s.state.operators[key] = operatorRow{op: op, hash: passwordHash}
	return nil
}
