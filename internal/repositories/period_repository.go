package repositories

import (
	"context"
	"database/sql"
	"errors"

	intconfig "busbooking/internal/config"
	intdb "busbooking/internal/db"
	"busbooking/internal/domain"
	"busbooking/internal/domain/models"
)

type PeriodRepository struct {
	DB *sql.DB
}

func (r PeriodRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const periodColumns = `id, name, COALESCE(type,''), start_date, end_date, status, default_fare, COALESCE(notes,''), created_at`

func scanPeriod(sc rowScanner) (models.Period, error) {
	var (
		p          models.Period
		start, end sql.NullTime
		status     string
		createdAt  sql.NullTime
	)
	if err := sc.Scan(&p.ID, &p.Name, &p.Type, &start, &end, &status, &p.DefaultFare, &p.Notes, &createdAt); err != nil {
		return models.Period{}, err
	}
	p.StartDate = formatNullDate(start)
	p.EndDate = formatNullDate(end)
	p.Status = models.PeriodStatus(status)
	p.CreatedAt = nullTimeOrZero(createdAt)
	return p, nil
}

// List returns every period, newest first.
func (r PeriodRepository) List(ctx context.Context) ([]models.Period, error) {
	rows, err := r.db().QueryContext(ctx, `SELECT `+periodColumns+` FROM periods ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, storeErr("list_periods", err)
	}
	defer rows.Close()

	out := []models.Period{}
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, storeErr("list_periods", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("list_periods", err)
	}
	return out, nil
}

func (r PeriodRepository) Get(ctx context.Context, id string) (models.Period, error) {
	p, err := scanPeriod(r.db().QueryRowContext(ctx, `SELECT `+periodColumns+` FROM periods WHERE id=? LIMIT 1`, id))
	if err != nil {
		return models.Period{}, notFoundOr("get_period", "period", id, err)
	}
	return p, nil
}

func (r PeriodRepository) GetActive(ctx context.Context) (*models.Period, error) {
	p, err := scanPeriod(r.db().QueryRowContext(ctx,
		`SELECT `+periodColumns+` FROM periods WHERE status=? ORDER BY created_at DESC LIMIT 1`, models.PeriodActive))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get_active_period", err)
	}
	return &p, nil
}

func (r PeriodRepository) Insert(ctx context.Context, p models.Period) (models.Period, error) {
	_, err := r.db().ExecContext(ctx, `
		INSERT INTO periods (id, name, type, start_date, end_date, status, default_fare, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, intdb.NullIfEmpty(p.Type), intdb.NullIfEmpty(p.StartDate), intdb.NullIfEmpty(p.EndDate),
		string(p.Status), p.DefaultFare, intdb.NullIfEmpty(p.Notes), p.CreatedAt,
	)
	if err != nil {
		if intdb.IsDuplicate(err) {
			return models.Period{}, domain.ConflictError{Resource: "period", Msg: "id periode sudah dipakai", Err: err}
		}
		return models.Period{}, storeErr("insert_period", err)
	}
	return p, nil
}

// Update writes the editable fields; status and created_at are left alone.
func (r PeriodRepository) Update(ctx context.Context, p models.Period) (models.Period, error) {
	_, err := r.db().ExecContext(ctx, `
		UPDATE periods
		SET name=?, type=?, start_date=?, end_date=?, default_fare=?, notes=?
		WHERE id=?`,
		p.Name, intdb.NullIfEmpty(p.Type), intdb.NullIfEmpty(p.StartDate), intdb.NullIfEmpty(p.EndDate),
		p.DefaultFare, intdb.NullIfEmpty(p.Notes), p.ID,
	)
	if err != nil {
		return models.Period{}, storeErr("update_period", err)
	}
	return r.Get(ctx, p.ID)
}

func (r PeriodRepository) SetStatus(ctx context.Context, id string, status models.PeriodStatus) error {
	if _, err := r.Get(ctx, id); err != nil {
		return err
	}
	if _, err := r.db().ExecContext(ctx, `UPDATE periods SET status=? WHERE id=?`, string(status), id); err != nil {
		return storeErr("set_period_status", err)
	}
	return nil
}

// Activate locks the currently active periods and activates id in one transaction.
func (r PeriodRepository) Activate(ctx context.Context, id string) ([]string, error) {
	var locked []string
	err := intdb.WithTx(ctx, r.db(), func(tx *sql.Tx) error {
		var status string
		err := tx.QueryRowContext(ctx, `SELECT status FROM periods WHERE id=? FOR UPDATE`, id).Scan(&status)
		if err != nil {
			return notFoundOr("activate_period.load", "period", id, err)
		}

		rows, err := tx.QueryContext(ctx,
			`SELECT id FROM periods WHERE status=? AND id<>? ORDER BY id FOR UPDATE`, models.PeriodActive, id)
		if err != nil {
			return storeErr("activate_period.find_active", err)
		}
		for rows.Next() {
			var other string
			if err := rows.Scan(&other); err != nil {
				rows.Close()
				return storeErr("activate_period.find_active", err)
			}
			locked = append(locked, other)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return storeErr("activate_period.find_active", err)
		}

		if len(locked) > 0 {
			if _, err := tx.ExecContext(ctx,
				`UPDATE periods SET status=? WHERE status=? AND id<>?`,
				models.PeriodLocked, models.PeriodActive, id); err != nil {
				return storeErr("activate_period.lock_previous", err)
			}
		}
		if _, err := tx.ExecContext(ctx, `UPDATE periods SET status=? WHERE id=?`, models.PeriodActive, id); err != nil {
			return storeErr("activate_period.activate", err)
		}
		return nil
	})
	if err != nil {
		return nil, storeErr("activate_period", err)
	}
	return locked, nil
}

// DeleteCascade removes buses, passengers and the period itself. Any failing
// stage rolls back the whole deletion and is named in StoreError.Op.
func (r PeriodRepository) DeleteCascade(ctx context.Context, id string) error {
	err := intdb.WithTx(ctx, r.db(), func(tx *sql.Tx) error {
		var found string
		if err := tx.QueryRowContext(ctx, `SELECT id FROM periods WHERE id=? FOR UPDATE`, id).Scan(&found); err != nil {
			return notFoundOr("delete_period.load", "period", id, err)
		}
		stages := []struct {
			op    string
			query string
		}{
			{"delete_period.buses", `DELETE FROM buses WHERE period_id=?`},
			{"delete_period.passengers", `DELETE FROM passengers WHERE period_id=?`},
			{"delete_period.period", `DELETE FROM periods WHERE id=?`},
		}
		for _, st := range stages {
			if _, err := tx.ExecContext(ctx, st.query, id); err != nil {
				return domain.StoreError{Op: st.op, Err: err}
			}
		}
		return nil
	})
	return storeErr("delete_period", err)
}
