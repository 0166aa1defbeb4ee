package model

import (
	"time"

	"github.com/google/uuid"
)

// Owner is a coach account. Every athlete and, transitively, every
// evaluation record belongs to exactly one owner.
type Owner struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	Name         string    `db:"name"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
