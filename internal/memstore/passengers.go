package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

// PassengerStore is the passengers table view.
type PassengerStore struct{ s *Store }

func (v PassengerStore) List(ctx context.Context, filters []domain.Filter, sorts []domain.Sort) ([]models.Passenger, error) {
	match, err := compileFilters(filters)
	if err != nil {
		return nil, err
	}
	less, err := compileSorts(sorts)
	if err != nil {
		return nil, err
	}

	v.s.mu.RLock()
	out := []models.Passenger{}
	for _, p := range v.s.state.passengers {
		if match(p) {
			out = append(out, p)
		}
	}
	v.s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out, nil
}

func (v PassengerStore) Get(ctx context.Context, id string) (models.Passenger, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	p, ok := v.s.state.passengers[id]
	if !ok {
		return models.Passenger{}, domain.NotFoundError{Resource: "passenger", ID: id}
	}
	return p, nil
}

func (v PassengerStore) CountByBus(ctx context.Context, busID string) (int, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	n := 0
	for _, p := range v.s.state.passengers {
		if p.BusID == busID {
			n++
		}
	}
	return n, nil
}

func (v PassengerStore) CountsByPeriod(ctx context.Context, periodID string) (map[string]int, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	counts := map[string]int{}
	for _, p := range v.s.state.passengers {
		if p.PeriodID == periodID && p.BusID != "" {
			counts[p.BusID]++
		}
	}
	return counts, nil
}

func (v PassengerStore) OccupiedSeats(ctx context.Context, busID string) ([]models.OccupiedSeat, error) {
	v.s.mu.RLock()
	defer v.s.mu.RUnlock()

	out := []models.OccupiedSeat{}
	for _, p := range v.s.state.passengers {
		if p.BusID == busID && p.BusSeatNumber > 0 {
			out = append(out, models.OccupiedSeat{PassengerID: p.ID, Gender: p.Gender, SeatNumber: p.BusSeatNumber})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeatNumber < out[j].SeatNumber })
	return out, nil
}

func (v PassengerStore) Insert(ctx context.Context, p models.Passenger) (models.Passenger, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if _, exists := v.s.state.passengers[p.ID]; exists {
		return models.Passenger{}, domain.ConflictError{Resource: "passenger", Msg: "id penumpang sudah dipakai"}
	}
	if err := v.checkRefsLocked(p); err != nil {
		return models.Passenger{}, err
	}
	v.s.state.passengers[p.ID] = p
	return p, nil
}

func (v PassengerStore) Update(ctx context.Context, p models.Passenger) (models.Passenger, error) {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	cur, ok := v.s.state.passengers[p.ID]
	if !ok {
		return models.Passenger{}, domain.NotFoundError{Resource: "passenger", ID: p.ID}
	}
	if err := v.checkRefsLocked(p); err != nil {
		return models.Passenger{}, err
	}
	p.PeriodID = cur.PeriodID
	p.CreatedAt = cur.CreatedAt
	v.s.state.passengers[p.ID] = p
	return p, nil
}

func (v PassengerStore) Delete(ctx context.Context, id string) error {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()

	if _, ok := v.s.state.passengers[id]; !ok {
		return domain.NotFoundError{Resource: "passenger", ID: id}
	}
	delete(v.s.state.passengers, id)
	return nil
}

// checkRefsLocked mirrors the foreign keys and the (bus_id, bus_seat_number) key.
func (v PassengerStore) checkRefsLocked(p models.Passenger) error {
	if _, ok := v.s.state.periods[p.PeriodID]; !ok {
		return domain.NotFoundError{Resource: "period", ID: p.PeriodID}
	}
	if p.BusID == "" {
		return nil
	}
	if _, ok := v.s.state.buses[p.BusID]; !ok {
		return domain.NotFoundError{Resource: "bus", ID: p.BusID}
	}
	if p.BusSeatNumber == 0 {
		return nil
	}
	for _, other := range v.s.state.passengers {
		if other.ID != p.ID && other.BusID == p.BusID && other.BusSeatNumber == p.BusSeatNumber {
			return domain.SeatTakenError{BusID: p.BusID, SeatNumber: p.BusSeatNumber}
		}
	}
	return nil
}

func compileFilters(filters []domain.Filter) (func(models.Passenger) bool, error) {
	preds := make([]func(models.Passenger) bool, 0, len(filters))
	for _, f := range filters {
		value := strings.TrimSpace(fmt.Sprint(f.Value))
		op := f.Op
		if op == "" {
			op = domain.OpEq
		}
		if f.Field == "name" && op == domain.OpLike {
			needle := strings.ToLower(value)
			preds = append(preds, func(p models.Passenger) bool {
				return strings.Contains(strings.ToLower(p.Name), needle)
			})
			continue
		}
		if op != domain.OpEq {
			return nil, domain.ValidationError{Field: "filter", Msg: fmt.Sprintf("operator %s tidak didukung untuk %s", op, f.Field)}
		}
		var get func(models.Passenger) string
		switch f.Field {
		case "period_id":
			get = func(p models.Passenger) string { return p.PeriodID }
		case "bus_id":
			get = func(p models.Passenger) string { return p.BusID }
		case "gender":
			get = func(p models.Passenger) string { return string(p.Gender) }
		case "status":
			get = func(p models.Passenger) string { return string(p.Status) }
		case "name":
			get = func(p models.Passenger) string { return p.Name }
		default:
			return nil, domain.ValidationError{Field: "filter", Msg: "field filter tidak dikenal: " + f.Field}
		}
		preds = append(preds, func(p models.Passenger) bool { return get(p) == value })
	}
	return func(p models.Passenger) bool {
		for _, pred := range preds {
			if !pred(p) {
				return false
			}
		}
		return true
	}, nil
}

func compileSorts(sorts []domain.Sort) (func(a, b models.Passenger) bool, error) {
	type cmpFn func(a, b models.Passenger) int
	cmps := make([]cmpFn, 0, len(sorts)+1)
	for _, s := range sorts {
		var cmp cmpFn
		switch s.Field {
		case "name":
			cmp = func(a, b models.Passenger) int { return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)) }
		case "bus_seat_number":
			cmp = func(a, b models.Passenger) int { return a.BusSeatNumber - b.BusSeatNumber }
		case "destination":
			cmp = func(a, b models.Passenger) int { return strings.Compare(a.Destination, b.Destination) }
		case "created_at":
			cmp = func(a, b models.Passenger) int { return a.CreatedAt.Compare(b.CreatedAt) }
		default:
			return nil, domain.ValidationError{Field: "sort", Msg: "field sort tidak dikenal: " + s.Field}
		}
		if strings.EqualFold(s.Direction, "desc") {
			asc := cmp
			cmp = func(a, b models.Passenger) int { return -asc(a, b) }
		}
		cmps = append(cmps, cmp)
	}
	// stable tiebreak so results do not depend on map order
	cmps = append(cmps,
		func(a, b models.Passenger) int { return a.CreatedAt.Compare(b.CreatedAt) },
		func(a, b models.Passenger) int { return strings.Compare(a.ID, b.ID) },
	)
	return func(a, b models.Passenger) bool {
		for _, cmp := range cmps {
			if c := cmp(a, b); c != 0 {
				return c < 0
			}
		}
		return false
	}, nil
}
