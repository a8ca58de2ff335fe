package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	intconfig "busbooking/internal/config"
	intdb "busbooking/internal/db"
	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

type PassengerRepository struct {
	DB *sql.DB
}

func (r PassengerRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const passengerColumns = `id, period_id, name, gender, address, COALESCE(phone,''), destination, status,
	group_pondok, COALESCE(daerah_pondok,''), COALESCE(kelompok,''), COALESCE(bus_id,''),
	COALESCE(bus_seat_number,0), meal_count, meal_payment, total_payment, petugas, created_at`

// filterable and sortable passenger columns
var (
	passengerFilterColumns = map[string]string{
		"period_id": "period_id",
		"bus_id":    "bus_id",
		"gender":    "gender",
		"status":    "status",
		"name":      "name",
	}
	passengerSortColumns = map[string]string{
		"name":            "name",
		"bus_seat_number": "bus_seat_number",
		"destination":     "destination",
		"created_at":      "created_at",
	}
)

func scanPassenger(sc rowScanner) (models.Passenger, error) {
	var (
		p              models.Passenger
		gender, status string
		createdAt      sql.NullTime
	)
	err := sc.Scan(&p.ID, &p.PeriodID, &p.Name, &gender, &p.Address, &p.Phone, &p.Destination, &status,
		&p.GroupPondok, &p.DaerahPondok, &p.Kelompok, &p.BusID,
		&p.BusSeatNumber, &p.MealCount, &p.MealPayment, &p.TotalPayment, &p.Petugas, &createdAt)
	if err != nil {
		return models.Passenger{}, err
	}
	p.Gender = models.Gender(gender)
	p.Status = models.PassengerStatus(status)
	p.CreatedAt = nullTimeOrZero(createdAt)
	return p, nil
}

// buildPassengerQuery turns filters and sorts into SQL over whitelisted columns only.
func buildPassengerQuery(filters []domain.Filter, sorts []domain.Sort) (string, []any, error) {
	var (
		where []string
		args  []any
	)
	for _, f := range filters {
		col, ok := passengerFilterColumns[f.Field]
		if !ok {
			return "", nil, domain.ValidationError{Field: "filter", Msg: "field filter tidak dikenal: " + f.Field}
		}
		value := strings.TrimSpace(fmt.Sprint(f.Value))
		switch {
		case f.Op == domain.OpLike && f.Field == "name":
			where = append(where, col+" LIKE ?")
			args = append(args, "%"+value+"%")
		case f.Op == domain.OpEq || f.Op == "":
			if f.Field == "bus_id" && value == "" {
				where = append(where, "bus_id IS NULL")
				continue
			}
			where = append(where, col+"=?")
			args = append(args, value)
		default:
			return "", nil, domain.ValidationError{Field: "filter", Msg: fmt.Sprintf("operator %s tidak didukung untuk %s", f.Op, f.Field)}
		}
	}

	order := make([]string, 0, len(sorts)+2)
	for _, s := range sorts {
		col, ok := passengerSortColumns[s.Field]
		if !ok {
			return "", nil, domain.ValidationError{Field: "sort", Msg: "field sort tidak dikenal: " + s.Field}
		}
		dir := "ASC"
		if strings.EqualFold(s.Direction, "desc") {
			dir = "DESC"
		}
		order = append(order, col+" "+dir)
	}
	order = append(order, "created_at ASC", "id ASC")

	q := `SELECT ` + passengerColumns + ` FROM passengers`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	q += ` ORDER BY ` + strings.Join(order, ", ")
	return q, args, nil
}

func (r PassengerRepository) List(ctx context.Context, filters []domain.Filter, sorts []domain.Sort) ([]models.Passenger, error) {
	q, args, err := buildPassengerQuery(filters, sorts)
	if err != nil {
		return nil, err
	}
	rows, err := r.db().QueryContext(ctx, q, args...)
	if err != nil {
		return nil, storeErr("list_passengers", err)
	}
	defer rows.Close()

	out := []models.Passenger{}
	for rows.Next() {
		p, err := scanPassenger(rows)
		if err != nil {
			return nil, storeErr("list_passengers", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list_passengers", err)
	}
	return out, nil
}

func (r PassengerRepository) Get(ctx context.Context, id string) (models.Passenger, error) {
	p, err := scanPassenger(r.db().QueryRowContext(ctx, `SELECT `+passengerColumns+` FROM passengers WHERE id=? LIMIT 1`, id))
	if err != nil {
		return models.Passenger{}, notFoundOr("get_passenger", "passenger", id, err)
	}
	return p, nil
}

func (r PassengerRepository) CountByBus(ctx context.Context, busID string) (int, error) {
	var n int
	if err := r.db().QueryRowContext(ctx, `SELECT COUNT(*) FROM passengers WHERE bus_id=?`, busID).Scan(&n); err != nil {
		return 0, storeErr("count_passengers", err)
	}
	return n, nil
}

func (r PassengerRepository) CountsByPeriod(ctx context.Context, periodID string) (map[string]int, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT bus_id, COUNT(*)
		FROM passengers
		WHERE period_id=? AND bus_id IS NOT NULL
		GROUP BY bus_id`, periodID)
	if err != nil {
		return nil, storeErr("count_passengers_by_bus", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var (
			busID string
			n     int
		)
		if err := rows.Scan(&busID, &n); err != nil {
			return nil, storeErr("count_passengers_by_bus", err)
		}
		out[busID] = n
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("count_passengers_by_bus", err)
	}
	return out, nil
}

func (r PassengerRepository) OccupiedSeats(ctx context.Context, busID string) ([]models.OccupiedSeat, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, gender, bus_seat_number
		FROM passengers
		WHERE bus_id=? AND bus_seat_number IS NOT NULL
		ORDER BY bus_seat_number ASC`, busID)
	if err != nil {
		return nil, storeErr("occupied_seats", err)
	}
	defer rows.Close()

	out := []models.OccupiedSeat{}
	for rows.Next() {
		var (
			s      models.OccupiedSeat
			gender string
		)
		if err := rows.Scan(&s.PassengerID, &gender, &s.SeatNumber); err != nil {
			return nil, storeErr("occupied_seats", err)
		}
		s.Gender = models.Gender(gender)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("occupied_seats", err)
	}
	return out, nil
}

func (r PassengerRepository) Insert(ctx context.Context, p models.Passenger) (models.Passenger, error) {
	_, err := r.db().ExecContext(ctx, `
		INSERT INTO passengers (id, period_id, name, gender, address, phone, destination, status,
			group_pondok, daerah_pondok, kelompok, bus_id, bus_seat_number,
			meal_count, meal_payment, total_payment, petugas, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.PeriodID, p.Name, string(p.Gender), p.Address, intdb.NullIfEmpty(p.Phone), p.Destination, string(p.Status),
		p.GroupPondok, intdb.NullIfEmpty(p.DaerahPondok), intdb.NullIfEmpty(p.Kelompok),
		intdb.NullIfEmpty(p.BusID), intdb.NullIfZero(p.BusSeatNumber),
		p.MealCount, p.MealPayment, p.TotalPayment, p.Petugas, p.CreatedAt,
	)
	if err != nil {
		return models.Passenger{}, passengerWriteErr("insert_passenger", p, err)
	}
	return p, nil
}

// Update rewrites every mutable column; period_id and created_at are kept.
func (r PassengerRepository) Update(ctx context.Context, p models.Passenger) (models.Passenger, error) {
	if _, err := r.Get(ctx, p.ID); err != nil {
		return models.Passenger{}, err
	}
	_, err := r.db().ExecContext(ctx, `
		UPDATE passengers
		SET name=?, gender=?, address=?, phone=?, destination=?, status=?,
			group_pondok=?, daerah_pondok=?, kelompok=?, bus_id=?, bus_seat_number=?,
			meal_count=?, meal_payment=?, total_payment=?, petugas=?
		WHERE id=?`,
		p.Name, string(p.Gender), p.Address, intdb.NullIfEmpty(p.Phone), p.Destination, string(p.Status),
		p.GroupPondok, intdb.NullIfEmpty(p.DaerahPondok), intdb.NullIfEmpty(p.Kelompok),
		intdb.NullIfEmpty(p.BusID), intdb.NullIfZero(p.BusSeatNumber),
		p.MealCount, p.MealPayment, p.TotalPayment, p.Petugas, p.ID,
	)
	if err != nil {
		return models.Passenger{}, passengerWriteErr("update_passenger", p, err)
	}
	return r.Get(ctx, p.ID)
}

func (r PassengerRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db().ExecContext(ctx, `DELETE FROM passengers WHERE id=?`, id)
	if err != nil {
		return storeErr("delete_passenger", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NotFoundError{Resource: "passenger", ID: id}
	}
	return nil
}

// passengerWriteErr maps the (bus_id, bus_seat_number) unique key to SeatTaken.
func passengerWriteErr(op string, p models.Passenger, err error) error {
	if intdb.IsDuplicate(err) {
		if p.BusID != "" && p.BusSeatNumber > 0 {
			return domain.SeatTakenError{BusID: p.BusID, SeatNumber: p.BusSeatNumber, Err: err}
		}
		return domain.ConflictError{Resource: "passenger", Msg: "id penumpang sudah dipakai", Err: err}
	}
	if intdb.IsForeignKeyMissing(err) {
		// the bus (or period) was deleted between the seat check and the write
		if p.BusID != "" {
			return domain.NotFoundError{Resource: "bus", ID: p.BusID, Err: err}
		}
		return domain.NotFoundError{Resource: "period", ID: p.PeriodID, Err: err}
	}
	return storeErr(op, err)
}
