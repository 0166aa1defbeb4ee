package model

import "github.com/google/uuid"

// Catalog entities are globally shared reference data, seeded by migration
// and never owner-scoped.

type Classification struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Description string    `db:"description" json:"description"`
}

type Modality struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Name     string    `db:"name" json:"name"`
	Category string    `db:"category" json:"category"`
}

type MetricType struct {
	ID   uuid.UUID `db:"id" json:"id"`
	Name string    `db:"name" json:"name"`
	Unit string    `db:"unit" json:"unit"`
}
