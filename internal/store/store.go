// Package store holds the SQL for every persisted record. Functions take the
// shared connection pool explicitly and wrap failures with the operation name.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when the addressed record does not exist.
var ErrNotFound = errors.New("not found")

// insertID runs an INSERT and returns the new row id. PostgreSQL has no
// LastInsertId, so the id is read back with RETURNING there.
func insertID(ctx context.Context, ext sqlx.ExtContext, query string, args ...any) (int64, error) {
	query = ext.Rebind(query)

	if ext.DriverName() == "postgres" {
		var id int64
		if err := ext.QueryRowxContext(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	result, err := ext.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// exists reports whether a row with the given id exists in table.
func exists(ctx context.Context, db *sqlx.DB, table string, id int64) (bool, error) {
	var n int
	err := db.GetContext(ctx, &n, db.Rebind(`SELECT COUNT(*) FROM `+table+` WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", table, err)
	}
	return n > 0, nil
}
