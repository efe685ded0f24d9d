package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Lookup tables.
const (
	LookupProductTypes     = "product_types"
	LookupStorageLocations = "storage_locations"
)

func validLookup(table string) bool {
	return table == LookupProductTypes || table == LookupStorageLocations
}

// ListLookup returns the names in a lookup table, alphabetically.
func ListLookup(ctx context.Context, db *sqlx.DB, table string) ([]string, error) {
	if !validLookup(table) {
		return nil, fmt.Errorf("unknown lookup table %q", table)
	}
	names := []string{}
	if err := db.SelectContext(ctx, &names, `SELECT name FROM `+table+` ORDER BY name`); err != nil {
		return nil, fmt.Errorf("listing %s: %w", table, err)
	}
	return names, nil
}

// AddLookup inserts a name into a lookup table.
func AddLookup(ctx context.Context, db *sqlx.DB, table, name string) error {
	if !validLookup(table) {
		return fmt.Errorf("unknown lookup table %q", table)
	}
	if _, err := insertID(ctx, db, `INSERT INTO `+table+` (name) VALUES (?)`, name); err != nil {
		return fmt.Errorf("adding to %s: %w", table, err)
	}
	return nil
}
