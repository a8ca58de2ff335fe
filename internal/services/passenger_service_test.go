package services

import (
	"testing"

	"busbooking/internal/domain"
	"busbooking/internal/domain/models"

	"github.com/shopspring/decimal"
)

func TestPassengerValidation(t *testing.T) {
	f := newFixture(t)
	p := f.period(t, "Mudik")
	b := f.bus(t, p.ID, "Bandung", 4)

	in := umumInput("Siti", b.ID, 1, nil)
	in.Phone = " "
	in.Petugas = ""
	in.Kelompok = ""
	_, err := f.passengers.Create(f.ctx, p.ID, in)
	var ve domain.ValidationError
	if !asValidation(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := fieldSet(ve)
	if fields["phone"] != "wajib diisi untuk status umum" || fields["petugas"] == "" || fields["kelompok"] == "" {
		t.Fatalf("unexpected field errors: %+v", ve.Fields)
	}

	noBus := pondokInput("Ahmad", "", 0)
	_, err = f.passengers.Create(f.ctx, p.ID, noBus)
	if !asValidation(err, &ve) || fieldSet(ve)["bus_id"] == "" {
		t.Fatalf("expected bus_id error, got %v", err)
	}

	bad := pondokInput("Ahmad", b.ID, 1)
	bad.Gender = "X"
	bad.GroupPondok = ""
	_, err = f.passengers.Create(f.ctx, p.ID, bad)
	if !asValidation(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields = fieldSet(ve)
	if fields["gender"] != "harus salah satu dari: L, P" || fields["group_pondok"] == "" {
		t.Fatalf("unexpected field errors: %+v", ve.Fields)
	}
}

func TestPondokNeverPaysMeals(t *testing.T) {
	f := newFixture(t)
	p := f.period(t, "Mudik")
	b := f.bus(t, p.ID, "Bandung", 4)

	in := pondokInput("Ahmad", b.ID, 1)
	in.MealCount = intPtr(5)
	got := f.passenger(t, p.ID, in)
	if got.MealCount != 0 || !got.MealPayment.IsZero() || !got.TotalPayment.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("pondok charged meals: %+v", got)
	}

	umum := f.passenger(t, p.ID, umumInput("Siti", b.ID, 2, nil))
	if umum.MealCount != 1 || !umum.TotalPayment.Equal(decimal.NewFromInt(60000)) {
		t.Fatalf("umum should default to bus meal count: %+v", umum)
	}
}

func TestReseatPassenger(t *testing.T) {
	f := newFixture(t)
	p := f.period(t, "Mudik")
	b1 := f.bus(t, p.ID, "Bandung", 4)
	b2, err := f.buses.Create(f.ctx, p.ID, models.BusInput{Destination: "Jakarta", MaxPassengers: 2, FarePerPassenger: dec(80000)})
	if err != nil {
		t.Fatalf("create bus: %v", err)
	}
	a := f.passenger(t, p.ID, pondokInput("Ahmad", b1.ID, 1))
	f.passenger(t, p.ID, pondokInput("Budi", b2.ID, 1))

	// own seat never conflicts
	same, err := f.passengers.Update(f.ctx, p.ID, a.ID, pondokInput("Ahmad Fauzi", b1.ID, 1))
	if err != nil {
		t.Fatalf("re-save own seat: %v", err)
	}
	if same.Name != "Ahmad Fauzi" || same.CreatedAt != a.CreatedAt {
		t.Fatalf("unexpected update: %+v", same)
	}

	// the new bus is checked, not the old one
	if _, err := f.passengers.Update(f.ctx, p.ID, a.ID, pondokInput("Ahmad", b2.ID, 1)); !domain.IsSeatTaken(err) {
		t.Fatalf("expected SeatTaken on new bus, got %v", err)
	}
	if _, err := f.passengers.Update(f.ctx, p.ID, a.ID, pondokInput("Ahmad", b2.ID, 3)); !domain.IsSeatOutOfRange(err) {
		t.Fatalf("expected SeatOutOfRange, got %v", err)
	}
	moved, err := f.passengers.Update(f.ctx, p.ID, a.ID, pondokInput("Ahmad", b2.ID, 2))
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if moved.BusID != b2.ID || moved.Destination != "Jakarta" || !moved.TotalPayment.Equal(decimal.NewFromInt(80000)) {
		t.Fatalf("move not applied: %+v", moved)
	}

	// edits may leave the passenger unassigned
	loose, err := f.passengers.Update(f.ctx, p.ID, a.ID, pondokInput("Ahmad", "", 0))
	if err != nil {
		t.Fatalf("unassign: %v", err)
	}
	if loose.HasSeat() || !loose.TotalPayment.IsZero() || loose.Destination != "Jakarta" {
		t.Fatalf("unexpected unassigned passenger: %+v", loose)
	}
}

func TestUmumGroupLabelFromParts(t *testing.T) {
	f := newFixture(t)
	p := f.period(t, "Mudik")
	b := f.bus(t, p.ID, "Bandung", 4)

	in := umumInput("Siti", b.ID, 1, nil)
	in.DaerahPondok = "Jawa-Timur"
	in.Kelompok = "Putri"
	got := f.passenger(t, p.ID, in)
	if got.GroupPondok != "U-Jawa-Timur-Putri" || got.DaerahPondok != "Jawa-Timur" || got.Kelompok != "Putri" {
		t.Fatalf("unexpected group: %+v", got)
	}

	// switching to pondok drops the umum parts
	back, err := f.passengers.Update(f.ctx, p.ID, got.ID, pondokInput("Siti", b.ID, 1))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if back.GroupPondok != "Santri Baru" || back.DaerahPondok != "" || back.Kelompok != "" {
		t.Fatalf("unexpected pondok group: %+v", back)
	}
}

func TestPetugasFromOperator(t *testing.T) {
	f := newFixture(t)
	p := f.period(t, "Mudik")
	b := f.bus(t, p.ID, "Bandung", 4)

	svc := f.passengers
	svc.Operator = &domain.Operator{ID: "o1", Username: "hadi", Name: "Ust. Hadi"}
	in := pondokInput("Ahmad", b.ID, 1)
	in.Petugas = ""
	got, err := svc.Create(f.ctx, p.ID, in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if got.Petugas != "Ust. Hadi" {
		t.Fatalf("petugas %q", got.Petugas)
	}
}

func TestPassengerListFilters(t *testing.T) {
	f := newFixture(t)
	p := f.period(t, "Mudik")
	b1 := f.bus(t, p.ID, "Bandung", 10)
	b2 := f.bus(t, p.ID, "Jakarta", 10)
	f.passenger(t, p.ID, pondokInput("Ahmad", b1.ID, 3))
	f.passenger(t, p.ID, umumInput("Siti Aminah", b1.ID, 1, nil))
	f.passenger(t, p.ID, umumInput("Aminah", b2.ID, 1, nil))

	onBus, err := f.passengers.List(f.ctx, p.ID, PassengerQuery{BusID: b1.ID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(onBus) != 2 || onBus[0].BusSeatNumber != 1 {
		t.Fatalf("expected seat order on bus: %+v", onBus)
	}

	women, _ := f.passengers.List(f.ctx, p.ID, PassengerQuery{Gender: "P", Name: "amin"})
	if len(women) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(women))
	}
	pondok, _ := f.passengers.List(f.ctx, p.ID, PassengerQuery{Status: "pondok"})
	if len(pondok) != 1 || pondok[0].Name != "Ahmad" {
		t.Fatalf("unexpected pondok list: %+v", pondok)
	}
	byName, _ := f.passengers.List(f.ctx, p.ID, PassengerQuery{SortBy: "name", Desc: true})
	if len(byName) != 3 || byName[0].Name != "Siti Aminah" {
		t.Fatalf("unexpected sort: %+v", byName)
	}
	if _, err := f.passengers.List(f.ctx, p.ID, PassengerQuery{SortBy: "phone"}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeletePassenger(t *testing.T) {
	f := newFixture(t)
	p := f.period(t, "Mudik")
	b := f.bus(t, p.ID, "Bandung", 2)
	a := f.passenger(t, p.ID, pondokInput("Ahmad", b.ID, 1))

	if err := f.passengers.Delete(f.ctx, p.ID, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.passengers.Get(f.ctx, p.ID, a.ID); domain.NotFoundResource(err) != "passenger" {
		t.Fatalf("expected passenger not found, got %v", err)
	}
	// bus stays after its last passenger leaves
	if _, err := f.buses.Get(f.ctx, p.ID, b.ID); err != nil {
		t.Fatalf("bus gone: %v", err)
	}
}
