package services

import (
	"testing"

	"busbooking/internal/domain"
)

func rowNumbers(t *testing.T, capacity int) [][]int {
	t.Helper()
	var out [][]int
	for _, row := range SeatLayout(capacity) {
		var nums []int
		for _, c := range row {
			if c.Aisle {
				nums = append(nums, 0)
				continue
			}
			nums = append(nums, c.Number)
		}
		out = append(out, nums)
	}
	return out
}

func TestSeatLayout(t *testing.T) {
	rows := rowNumbers(t, 50)
	if len(rows) != 12 {
		t.Fatalf("expected 12 rows, got %d", len(rows))
	}
	first := rows[0]
	if len(first) != 5 || first[0] != 1 || first[1] != 2 || first[2] != 0 || first[3] != 3 || first[4] != 4 {
		t.Fatalf("unexpected first row %v", first)
	}
	back := rows[len(rows)-1]
	if len(back) != 6 || back[0] != 45 || back[5] != 50 {
		t.Fatalf("unexpected back row %v", back)
	}

	if rows := rowNumbers(t, 2); len(rows) != 1 || len(rows[0]) != 2 {
		t.Fatalf("capacity 2: %v", rows)
	}
	if rows := rowNumbers(t, 7); len(rows) != 2 || len(rows[1]) != 3 || rows[1][0] != 5 {
		t.Fatalf("capacity 7: %v", rows)
	}
	if rows := rowNumbers(t, 0); len(rows) != 0 {
		t.Fatalf("capacity 0: %v", rows)
	}
}

func TestAssignSeat(t *testing.T) {
	f := newFixture(t)
	p := f.period(t, "Mudik")
	b := f.bus(t, p.ID, "Bandung", 4)
	a := f.passenger(t, p.ID, pondokInput("Ahmad", b.ID, 2))

	cases := []struct {
		name        string
		seat        int
		passengerID string
		check       func(error) bool
	}{
		{"free seat", 1, "", func(err error) bool { return err == nil }},
		{"taken by other", 2, "", domain.IsSeatTaken},
		{"own seat", 2, a.ID, func(err error) bool { return err == nil }},
		{"zero", 0, "", domain.IsSeatOutOfRange},
		{"past capacity", 5, "", domain.IsSeatOutOfRange},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := f.seats.AssignSeat(f.ctx, b.ID, tc.seat, tc.passengerID); !tc.check(err) {
				t.Fatalf("unexpected result: %v", err)
			}
		})
	}

	if err := f.seats.AssignSeat(f.ctx, "missing", 1, ""); domain.NotFoundResource(err) != "bus" {
		t.Fatalf("expected bus not found, got %v", err)
	}
}

func TestSeatCountsAndMap(t *testing.T) {
	f := newFixture(t)
	p := f.period(t, "Mudik")
	b := f.bus(t, p.ID, "Bandung", 8)
	a := f.passenger(t, p.ID, pondokInput("Ahmad", b.ID, 3))
	f.passenger(t, p.ID, umumInput("Siti", b.ID, 8, nil))

	avail, err := f.seats.AvailableSeatsCount(f.ctx, b.ID)
	if err != nil || avail != 6 {
		t.Fatalf("available = %d, %v", avail, err)
	}
	ok, _ := f.seats.IsSeatAvailable(f.ctx, b.ID, 3)
	if ok {
		t.Fatalf("seat 3 should be taken")
	}
	ok, _ = f.seats.IsSeatAvailable(f.ctx, b.ID, 4)
	if !ok {
		t.Fatalf("seat 4 should be free")
	}

	m, err := f.seats.SeatMap(f.ctx, b.ID)
	if err != nil {
		t.Fatalf("seat map: %v", err)
	}
	if m.Occupied+m.Available != m.MaxPassengers || m.Occupied != 2 {
		t.Fatalf("counts do not add up: %+v", m)
	}
	seat3 := m.Rows[0][3]
	if seat3.Number != 3 || !seat3.Occupied || seat3.PassengerID != a.ID || seat3.Gender != "L" {
		t.Fatalf("unexpected seat 3: %+v", seat3)
	}
	seat8 := m.Rows[1][3]
	if seat8.Number != 8 || !seat8.Occupied || seat8.Gender != "P" {
		t.Fatalf("unexpected seat 8: %+v", seat8)
	}

	if err := f.passengers.Delete(f.ctx, p.ID, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ok, _ = f.seats.IsSeatAvailable(f.ctx, b.ID, 3)
	if !ok {
		t.Fatalf("seat 3 should be free after delete")
	}
}
