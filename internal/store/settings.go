package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// insertIgnore returns the dialect's "insert unless the key exists" statement
// for the settings table.
func insertIgnore(driver string) string {
	switch driver {
	case "mysql":
		return "INSERT IGNORE INTO settings (`key`, value) VALUES (?, ?)"
	case "postgres":
		return `INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT (key) DO NOTHING`
	}
	return `INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`
}

func selectSetting(driver string) string {
	if driver == "mysql" {
		return "SELECT value FROM settings WHERE `key` = ?"
	}
	return `SELECT value FROM settings WHERE key = ?`
}

// GetJWTSecret retrieves the JWT secret from the database.
// If no secret exists, it generates one, stores it, and returns it.
// Uses insert-or-ignore + re-SELECT to avoid a race on concurrent startup.
func GetJWTSecret(ctx context.Context, db *sqlx.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating jwt secret: %w", err)
	}
	candidate := hex.EncodeToString(buf)

	driver := db.DriverName()
	_, err := db.ExecContext(ctx, db.Rebind(insertIgnore(driver)), "jwt_secret", candidate)
	if err != nil {
		return "", fmt.Errorf("storing jwt_secret: %w", err)
	}

	// Always read back (either our insert or the existing value).
	var secret string
	if err := db.GetContext(ctx, &secret, db.Rebind(selectSetting(driver)), "jwt_secret"); err != nil {
		return "", fmt.Errorf("querying jwt_secret: %w", err)
	}
	return secret, nil
}
