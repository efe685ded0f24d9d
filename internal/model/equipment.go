package model

import "time"

// Equipment is a single tracked unit. Quantities of equipment are represented
// by multiple rows, never by a count field.
//
// Local and Observation are the storage encoding of the unit's state: exactly
// one of them is set. See package equipment for the state machine.
type Equipment struct {
	ID          int64      `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Type        string     `json:"type" db:"type"`
	Local       *string    `json:"local" db:"local"`
	Observation *string    `json:"observation" db:"observation"`
	LastUsedAt  *time.Time `json:"lastUsedAt" db:"last_used_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}
