package repositories

import (
	"context"
	"database/sql"

	intconfig "busbooking/internal/config"
	intdb "busbooking/internal/db"
	"busbooking/internal/domain"
)

type OperatorRepository struct {
	DB *sql.DB
}

func (r OperatorRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r OperatorRepository) FindByUsername(ctx context.Context, username string) (domain.Operator, string, error) {
	var (
		op   domain.Operator
		hash string
	)
	err := r.db().QueryRowContext(ctx, `
		SELECT id, username, name, password_hash
		FROM operators
		WHERE username=?
		LIMIT 1`, username).Scan(&op.ID, &op.Username, &op.Name, &hash)
	if err != nil {
		return domain.Operator{}, "", notFoundOr("find_operator", "operator", username, err)
	}
	return op, hash, nil
}

func (r OperatorRepository) Insert(ctx context.Context, op domain.Operator, passwordHash string) error {
	_, err := r.db().ExecContext(ctx, `
		INSERT INTO operators (id, username, name, password_hash)
		VALUES (?, ?, ?, ?)`, op.ID, op.Username, op.Name, passwordHash)
	if err != nil {
		if intdb.IsDuplicate(err) {
			return domain.ConflictError{Resource: "operator", Msg: "username sudah terdaftar", Err: err}
		}
		return storeErr("insert_operator", err)
	}
	return nil
}
