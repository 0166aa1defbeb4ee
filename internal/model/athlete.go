package model

import (
	"time"

	"github.com/google/uuid"
)

// Athlete is always scoped by its owning coach. OwnerID is immutable after
// creation and every repository access carries it in the query predicate.
type Athlete struct {
	ID        uuid.UUID `db:"id" json:"id"`
	OwnerID   uuid.UUID `db:"owner_id" json:"owner_id"`
	FullName  string    `db:"full_name" json:"full_name"`
	BirthDate time.Time `db:"birth_date" json:"birth_date"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AthleteDetails is an athlete plus its associated classification codes.
type AthleteDetails struct {
	Athlete
	Classifications []Classification `json:"classifications"`
}
