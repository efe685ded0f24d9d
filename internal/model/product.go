package model

import "time"

// Product is a stock-keeping entry with an absolute quantity.
type Product struct {
	ID              int64     `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Quantity        int       `json:"quantity" db:"quantity"`
	Type            *string   `json:"type" db:"type"`
	StorageLocation *string   `json:"storage_location" db:"storage_location"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}
