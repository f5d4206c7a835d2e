package models

import "time"

// Timestamps holds the creation and modification times of a row.
type Timestamps struct {
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
