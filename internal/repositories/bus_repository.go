package repositories

import (
	"context"
	"database/sql"

	intconfig "busbooking/internal/config"
	intdb "busbooking/internal/db"
	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

type BusRepository struct {
	DB *sql.DB
}

func (r BusRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const busColumns = `id, period_id, destination, bus_number, max_passengers, fare_per_passenger, meal_count, meal_price, created_at`

func scanBus(sc rowScanner) (models.Bus, error) {
	var (
		b         models.Bus
		createdAt sql.NullTime
	)
	err := sc.Scan(&b.ID, &b.PeriodID, &b.Destination, &b.BusNumber, &b.MaxPassengers,
		&b.FarePerPassenger, &b.MealCount, &b.MealPrice, &createdAt)
	if err != nil {
		return models.Bus{}, err
	}
	b.CreatedAt = nullTimeOrZero(createdAt)
	return b, nil
}

func (r BusRepository) ListByPeriod(ctx context.Context, periodID string) ([]models.Bus, error) {
	rows, err := r.db().QueryContext(ctx,
		`SELECT `+busColumns+` FROM buses WHERE period_id=? ORDER BY destination ASC, bus_number ASC`, periodID)
	if err != nil {
		return nil, storeErr("list_buses", err)
	}
	defer rows.Close()

	out := []models.Bus{}
	for rows.Next() {
		b, err := scanBus(rows)
		if err != nil {
			return nil, storeErr("list_buses", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list_buses", err)
	}
	return out, nil
}

func (r BusRepository) Get(ctx context.Context, id string) (models.Bus, error) {
	b, err := scanBus(r.db().QueryRowContext(ctx, `SELECT `+busColumns+` FROM buses WHERE id=? LIMIT 1`, id))
	if err != nil {
		return models.Bus{}, notFoundOr("get_bus", "bus", id, err)
	}
	return b, nil
}

// NextBusNumber is max(bus_number)+1 within (period, destination), starting at 1.
func (r BusRepository) NextBusNumber(ctx context.Context, periodID, destination string) (int, error) {
	var next int
	err := r.db().QueryRowContext(ctx,
		`SELECT COALESCE(MAX(bus_number),0)+1 FROM buses WHERE period_id=? AND destination=?`,
		periodID, destination).Scan(&next)
	if err != nil {
		return 0, storeErr("next_bus_number", err)
	}
	return next, nil
}

func (r BusRepository) Insert(ctx context.Context, b models.Bus) (models.Bus, error) {
	_, err := r.db().ExecContext(ctx, `
		INSERT INTO buses (id, period_id, destination, bus_number, max_passengers, fare_per_passenger, meal_count, meal_price, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.PeriodID, b.Destination, b.BusNumber, b.MaxPassengers,
		b.FarePerPassenger, b.MealCount, b.MealPrice, b.CreatedAt,
	)
	if err != nil {
		if intdb.IsDuplicate(err) {
			return models.Bus{}, domain.ConflictError{Resource: "bus", Msg: "nomor bus sudah dipakai untuk tujuan ini", Err: err}
		}
		if intdb.IsForeignKeyMissing(err) {
			return models.Bus{}, domain.NotFoundError{Resource: "period", ID: b.PeriodID, Err: err}
		}
		return models.Bus{}, storeErr("insert_bus", err)
	}
	return b, nil
}

// Update writes capacity and pricing. Destination and bus_number never change.
func (r BusRepository) Update(ctx context.Context, b models.Bus) (models.Bus, error) {
	_, err := r.db().ExecContext(ctx, `
		UPDATE buses
		SET max_passengers=?, fare_per_passenger=?, meal_count=?, meal_price=?
		WHERE id=?`,
		b.MaxPassengers, b.FarePerPassenger, b.MealCount, b.MealPrice, b.ID,
	)
	if err != nil {
		return models.Bus{}, storeErr("update_bus", err)
	}
	return r.Get(ctx, b.ID)
}

// UpdateAndReprice writes the bus and the billing of every passenger on it in
// one transaction. A failing stage rolls everything back and is named in
// StoreError.Op.
func (r BusRepository) UpdateAndReprice(ctx context.Context, b models.Bus, price func(models.Passenger) models.Passenger) (models.Bus, []string, error) {
	var repriced []string
	err := intdb.WithTx(ctx, r.db(), func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE buses
			SET max_passengers=?, fare_per_passenger=?, meal_count=?, meal_price=?
			WHERE id=?`,
			b.MaxPassengers, b.FarePerPassenger, b.MealCount, b.MealPrice, b.ID,
		)
		if err != nil {
			return domain.StoreError{Op: "update_bus.bus", Err: err}
		}

		rows, err := tx.QueryContext(ctx,
			`SELECT `+passengerColumns+` FROM passengers WHERE bus_id=? ORDER BY bus_seat_number FOR UPDATE`, b.ID)
		if err != nil {
			return domain.StoreError{Op: "update_bus.load_passengers", Err: err}
		}
		var passengers []models.Passenger
		for rows.Next() {
			p, err := scanPassenger(rows)
			if err != nil {
				rows.Close()
				return domain.StoreError{Op: "update_bus.load_passengers", Err: err}
			}
			passengers = append(passengers, p)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return domain.StoreError{Op: "update_bus.load_passengers", Err: err}
		}

		for _, p := range passengers {
			next := price(p)
			if _, err := tx.ExecContext(ctx,
				`UPDATE passengers SET meal_count=?, meal_payment=?, total_payment=? WHERE id=?`,
				next.MealCount, next.MealPayment, next.TotalPayment, p.ID); err != nil {
				return domain.StoreError{Op: "update_bus.reprice", Err: err}
			}
			repriced = append(repriced, p.ID)
		}
		return nil
	})
	if err != nil {
		return models.Bus{}, nil, storeErr("update_bus", err)
	}
	out, err := r.Get(ctx, b.ID)
	return out, repriced, err
}
