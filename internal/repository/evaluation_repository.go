package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"github.com/voidnire/APANEsportes-sub000/internal/model"
)

// ResultInput is one incoming measurement. Value is already a
// fixed-precision decimal by the time it reaches the repository; no float64
// ever touches the write path.
type ResultInput struct {
	MetricTypeID uuid.UUID
	Value        decimal.Decimal
}

// RecordInput is a fully authorized evaluation write: the athlete id has
// already passed the ownership guard.
type RecordInput struct {
	AthleteID  uuid.UUID
	ModalityID uuid.UUID
	Kind       string
	Notes      string
	RecordedAt *time.Time
	Results    []ResultInput
}

// HistoryFilter composes the optional read-side filters conjunctively.
// Both date bounds are inclusive; end-of-day normalization for date-only
// upper bounds happens before the filter is built.
type HistoryFilter struct {
	ModalityID *uuid.UUID
	Kind       string
	From       *time.Time
	To         *time.Time
}

type EvaluationRepository interface {
	CreateWithResults(ctx context.Context, in *RecordInput) (*model.EvaluationDetails, error)
	ListByAthlete(ctx context.Context, athleteID uuid.UUID, filter HistoryFilter) ([]model.EvaluationDetails, error)
	StoreAnalysis(ctx context.Context, recordID, ownerID uuid.UUID, payload json.RawMessage) error
	StoreAnalysisResult(ctx context.Context, recordID uuid.UUID, payload json.RawMessage) error
	SetAnalysisVideoKey(ctx context.Context, recordID, ownerID uuid.UUID, objectKey string) error
}

type postgresEvaluationRepository struct {
	db *sqlx.DB
}

func NewPostgresEvaluationRepository(db *sqlx.DB) EvaluationRepository {
	return &postgresEvaluationRepository{db: db}
}

const evaluationDetailsQuery = `
	SELECT e.id, e.athlete_id, e.modality_id,
	       m.name AS modality_name, m.category AS modality_category,
	       e.kind, e.notes, e.recorded_at, e.analysis, e.created_at, e.updated_at
	FROM evaluation_records e
	JOIN modalities m ON m.id = e.modality_id
`

const resultDetailsQuery = `
	SELECT r.id, r.record_id, r.metric_type_id,
	       t.name AS metric_name, t.unit AS metric_unit,
	       r.value, r.created_at, r.updated_at
	FROM metric_results r
	JOIN metric_types t ON t.id = r.metric_type_id
`

// CreateWithResults writes the parent record and all of its results inside
// one transaction and re-reads the display-ready record before committing.
// A failure at any step, such as an unknown metric type id tripping the
// foreign key, rolls the whole write back: no parent without results and no
// orphaned results are ever observable.
func (r *postgresEvaluationRepository) CreateWithResults(ctx context.Context, in *RecordInput) (*model.EvaluationDetails, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	insertRecord := `
		INSERT INTO evaluation_records (athlete_id, modality_id, kind, notes, recorded_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()))
		RETURNING id
	`

	var recordID uuid.UUID
	err = tx.QueryRowxContext(ctx, insertRecord, in.AthleteID, in.ModalityID, in.Kind, in.Notes, in.RecordedAt).Scan(&recordID)
	if err != nil {
		return nil, err
	}

	placeholders := make([]string, 0, len(in.Results))
	args := make([]interface{}, 0, len(in.Results)*3)
	argID := 1
	for _, res := range in.Results {
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d)", argID, argID+1, argID+2))
		args = append(args, recordID, res.MetricTypeID, res.Value)
		argID += 3
	}

	insertResults := `INSERT INTO metric_results (record_id, metric_type_id, value) VALUES ` + strings.Join(placeholders, ", ")
	if _, err := tx.ExecContext(ctx, insertResults, args...); err != nil {
		return nil, err
	}

	var details model.EvaluationDetails
	err = tx.GetContext(ctx, &details, evaluationDetailsQuery+` WHERE e.id = $1`, recordID)
	if err != nil {
		return nil, err
	}

	var results []model.MetricResultDetails
	err = tx.SelectContext(ctx, &results, resultDetailsQuery+` WHERE r.record_id = $1 ORDER BY t.name ASC`, recordID)
	if err != nil {
		return nil, err
	}
	details.Results = results

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &details, nil
}

// ListByAthlete builds the WHERE clause dynamically, applying each optional
// filter only when present, and always orders most-recent-first.
func (r *postgresEvaluationRepository) ListByAthlete(ctx context.Context, athleteID uuid.UUID, filter HistoryFilter) ([]model.EvaluationDetails, error) {
	query := evaluationDetailsQuery + ` WHERE e.athlete_id = $1`
	args := []interface{}{athleteID}
	argID := 2

	if filter.ModalityID != nil {
		query += fmt.Sprintf(" AND e.modality_id = $%d", argID)
		args = append(args, *filter.ModalityID)
		argID++
	}
	if filter.Kind != "" {
		query += fmt.Sprintf(" AND e.kind = $%d", argID)
		args = append(args, filter.Kind)
		argID++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND e.recorded_at >= $%d", argID)
		args = append(args, *filter.From)
		argID++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND e.recorded_at <= $%d", argID)
		args = append(args, *filter.To)
		argID++
	}

	query += " ORDER BY e.recorded_at DESC"

	var records []model.EvaluationDetails
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, err
	}

	if len(records) == 0 {
		return []model.EvaluationDetails{}, nil
	}

	recordIDs := make([]uuid.UUID, len(records))
	for i, rec := range records {
		recordIDs[i] = rec.ID
	}

	resultsQuery, inArgs, err := sqlx.In(resultDetailsQuery+` WHERE r.record_id IN (?) ORDER BY r.record_id, t.name ASC`, recordIDs)
	if err != nil {
		return nil, err
	}
	resultsQuery = r.db.Rebind(resultsQuery)

	var results []model.MetricResultDetails
	if err := r.db.SelectContext(ctx, &results, resultsQuery, inArgs...); err != nil {
		return nil, err
	}

	byRecord := make(map[uuid.UUID][]model.MetricResultDetails, len(records))
	for _, res := range results {
		byRecord[res.RecordID] = append(byRecord[res.RecordID], res)
	}
	for i := range records {
		records[i].Results = byRecord[records[i].ID]
	}

	return records, nil
}

// StoreAnalysis persists an opaque analysis payload on a record the caller
// owns. Ownership resolves through the parent athlete inside the same
// UPDATE, so a non-owned record id is indistinguishable from a missing one.
func (r *postgresEvaluationRepository) StoreAnalysis(ctx context.Context, recordID, ownerID uuid.UUID, payload json.RawMessage) error {
	query := `
		UPDATE evaluation_records e
		SET analysis = $3, updated_at = now()
		FROM athletes a
		WHERE e.id = $1 AND e.athlete_id = a.id AND a.owner_id = $2
	`
	result, err := r.db.ExecContext(ctx, query, recordID, ownerID, payload)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// StoreAnalysisResult is the trusted ingest path for payloads arriving from
// the analysis worker over the event bus; it bypasses the owner predicate
// because the worker authenticates at the transport, not per tenant.
func (r *postgresEvaluationRepository) StoreAnalysisResult(ctx context.Context, recordID uuid.UUID, payload json.RawMessage) error {
	query := `UPDATE evaluation_records SET analysis = $2, updated_at = now() WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, recordID, payload)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *postgresEvaluationRepository) SetAnalysisVideoKey(ctx context.Context, recordID, ownerID uuid.UUID, objectKey string) error {
	query := `
		UPDATE evaluation_records e
		SET analysis_video_key = $3, updated_at = now()
		FROM athletes a
		WHERE e.id = $1 AND e.athlete_id = a.id AND a.owner_id = $2
	`
	result, err := r.db.ExecContext(ctx, query, recordID, ownerID, objectKey)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
