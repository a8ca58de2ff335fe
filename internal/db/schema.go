package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

var schema = []struct {
	table string
	ddl   string
}{
	{"periods", `
		CREATE TABLE IF NOT EXISTS periods (
			id CHAR(36) NOT NULL PRIMARY KEY,
			name VARCHAR(150) NOT NULL,
			type VARCHAR(50) NULL,
			start_date DATE NULL,
			end_date DATE NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'DRAFT',
			default_fare DECIMAL(12,2) NULL,
			notes TEXT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			KEY idx_periods_status (status)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"buses", `
		CREATE TABLE IF NOT EXISTS buses (
			id CHAR(36) NOT NULL PRIMARY KEY,
			period_id CHAR(36) NOT NULL,
			destination VARCHAR(100) NOT NULL,
			bus_number INT NOT NULL,
			max_passengers INT NOT NULL,
			fare_per_passenger DECIMAL(12,2) NOT NULL DEFAULT 0,
			meal_count INT NOT NULL DEFAULT 0,
			meal_price DECIMAL(12,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_buses_period_dest_number (period_id, destination, bus_number),
			CONSTRAINT fk_buses_period FOREIGN KEY (period_id) REFERENCES periods(id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"passengers", `
		CREATE TABLE IF NOT EXISTS passengers (
			id CHAR(36) NOT NULL PRIMARY KEY,
			period_id CHAR(36) NOT NULL,
			name VARCHAR(150) NOT NULL,
			gender CHAR(1) NOT NULL,
			address VARCHAR(255) NOT NULL,
			phone VARCHAR(30) NULL,
			destination VARCHAR(100) NOT NULL,
			status VARCHAR(10) NOT NULL,
			group_pondok VARCHAR(150) NOT NULL DEFAULT '',
			daerah_pondok VARCHAR(100) NULL,
			kelompok VARCHAR(100) NULL,
			bus_id CHAR(36) NULL,
			bus_seat_number INT NULL,
			meal_count INT NOT NULL DEFAULT 0,
			meal_payment DECIMAL(12,2) NOT NULL DEFAULT 0,
			total_payment DECIMAL(12,2) NOT NULL DEFAULT 0,
			petugas VARCHAR(100) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uq_passengers_bus_seat (bus_id, bus_seat_number),
			KEY idx_passengers_period (period_id),
			CONSTRAINT fk_passengers_period FOREIGN KEY (period_id) REFERENCES periods(id),
			CONSTRAINT fk_passengers_bus FOREIGN KEY (bus_id) REFERENCES buses(id) ON DELETE SET NULL
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"operators", `
		CREATE TABLE IF NOT EXISTS operators (
			id CHAR(36) NOT NULL PRIMARY KEY,
			username VARCHAR(50) NOT NULL UNIQUE,
			name VARCHAR(100) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
}

// Tables lists the managed tables in creation order.
func Tables() []string {
	out := make([]string, 0, len(schema))
	for _, s := range schema {
		out = append(out, s.table)
	}
	return out
}

// CheckSchema reports the managed tables that do not exist.
func CheckSchema(ctx context.Context, q QueryRower) error {
	var missing []string
	for _, table := range Tables() {
		if !HasTable(ctx, q, table) {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("tabel belum ada: %s", strings.Join(missing, ", "))
	}
	return nil
}

// EnsureSchema creates missing tables. Existing tables are left untouched.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, s := range schema {
		if _, err := db.ExecContext(ctx, s.ddl); err != nil {
			return fmt.Errorf("ensure table %s: %w", s.table, err)
		}
	}
	return nil
}
