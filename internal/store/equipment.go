package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/erazemk/armazem/internal/equipment"
	"github.com/erazemk/armazem/internal/model"
)

const equipmentColumns = `id, name, type, local, observation, last_used_at, created_at`

// ListEquipment returns every equipment unit.
func ListEquipment(ctx context.Context, db *sqlx.DB) ([]model.Equipment, error) {
	items := []model.Equipment{}
	err := db.SelectContext(ctx, &items, `SELECT `+equipmentColumns+` FROM inventory ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing equipment: %w", err)
	}
	return items, nil
}

// GetEquipment returns an equipment unit by ID.
func GetEquipment(ctx context.Context, db *sqlx.DB, id int64) (*model.Equipment, error) {
	var e model.Equipment
	err := db.GetContext(ctx, &e, db.Rebind(`SELECT `+equipmentColumns+` FROM inventory WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting equipment: %w", err)
	}
	return &e, nil
}

// CreateEquipment creates count units of the same name and type, all stored
// at local. The units are created in one transaction: either all exist
// afterwards or none do.
func CreateEquipment(ctx context.Context, db *sqlx.DB, name, typ, local string, count int) ([]int64, error) {
	if count <= 0 {
		return nil, fmt.Errorf("count must be positive")
	}

	initial, err := equipment.Initial(local)
	if err != nil {
		return nil, err
	}
	loc, obs := equipment.Encode(initial)

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	ids := make([]int64, 0, count)
	for range count {
		id, err := insertID(ctx, tx,
			`INSERT INTO inventory (name, type, local, observation) VALUES (?, ?, ?, ?)`,
			name, typ, loc, obs,
		)
		if err != nil {
			return nil, fmt.Errorf("creating equipment: %w", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing equipment: %w", err)
	}
	return ids, nil
}

// TransitionEquipment moves a unit to next and returns the updated unit.
// The read and the update share one transaction; the last-used timestamp is
// only written when the transition counts as usage, so a concurrent move
// cannot roll it back to an older value.
func TransitionEquipment(ctx context.Context, db *sqlx.DB, id int64, next equipment.State, now time.Time) (*model.Equipment, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + equipmentColumns + ` FROM inventory WHERE id = ?`
	if tx.DriverName() != "sqlite" {
		query += ` FOR UPDATE`
	}
	var unit model.Equipment
	err = tx.GetContext(ctx, &unit, tx.Rebind(query), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting equipment: %w", err)
	}

	prev, _ := equipment.Decode(unit.Local, unit.Observation)
	equipment.Apply(&unit, next, now)

	var result sql.Result
	if equipment.Touches(prev, next) {
		result, err = tx.ExecContext(ctx,
			tx.Rebind(`UPDATE inventory SET local = ?, observation = ?, last_used_at = ? WHERE id = ?`),
			unit.Local, unit.Observation, now, id,
		)
	} else {
		result, err = tx.ExecContext(ctx,
			tx.Rebind(`UPDATE inventory SET local = ?, observation = ? WHERE id = ?`),
			unit.Local, unit.Observation, id,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("updating equipment state: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing equipment state: %w", err)
	}
	return &unit, nil
}

// DeleteEquipment removes an equipment unit.
func DeleteEquipment(ctx context.Context, db *sqlx.DB, id int64) error {
	result, err := db.ExecContext(ctx, db.Rebind(`DELETE FROM inventory WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("deleting equipment: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
