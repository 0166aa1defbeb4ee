package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Session kinds for an evaluation record.
const (
	KindPre  = "PRE"
	KindPost = "POST"
)

// EvaluationDetails is an evaluation record with its modality and
// metric-type labels joined in, ready to serialize in one round trip.
type EvaluationDetails struct {
	ID               uuid.UUID       `db:"id" json:"id"`
	AthleteID        uuid.UUID       `db:"athlete_id" json:"athlete_id"`
	ModalityID       uuid.UUID       `db:"modality_id" json:"modality_id"`
	ModalityName     string          `db:"modality_name" json:"modality_name"`
	ModalityCategory string          `db:"modality_category" json:"modality_category"`
	Kind             string          `db:"kind" json:"kind"`
	Notes            string          `db:"notes" json:"notes"`
	RecordedAt       time.Time       `db:"recorded_at" json:"recorded_at"`
	Analysis         json.RawMessage `db:"analysis" json:"analysis,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updated_at"`

	Results []MetricResultDetails `db:"-" json:"results"`
}

// MetricResultDetails is one measured value with its metric-type label.
// Value is a fixed-precision decimal so that 12.5 round-trips as 12.5.
type MetricResultDetails struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	RecordID     uuid.UUID       `db:"record_id" json:"-"`
	MetricTypeID uuid.UUID       `db:"metric_type_id" json:"metric_type_id"`
	MetricName   string          `db:"metric_name" json:"metric_name"`
	MetricUnit   string          `db:"metric_unit" json:"metric_unit"`
	Value        decimal.Decimal `db:"value" json:"value"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}
