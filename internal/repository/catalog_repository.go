package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/voidnire/APANEsportes-sub000/internal/model"
)

// CatalogRepository reads the globally shared reference data that drives
// the dynamic evaluation forms upstream. Nothing here is owner-scoped.
type CatalogRepository interface {
	ListClassifications(ctx context.Context) ([]model.Classification, error)
	FindClassification(ctx context.Context, id uuid.UUID) (*model.Classification, error)
	ListModalities(ctx context.Context) ([]model.Modality, error)
	FindModality(ctx context.Context, id uuid.UUID) (*model.Modality, error)
	ListMetricTypesByModality(ctx context.Context, modalityID uuid.UUID) ([]model.MetricType, error)
}

type postgresCatalogRepository struct {
	db *sqlx.DB
}

func NewPostgresCatalogRepository(db *sqlx.DB) CatalogRepository {
	return &postgresCatalogRepository{db: db}
}

func (r *postgresCatalogRepository) ListClassifications(ctx context.Context) ([]model.Classification, error) {
	var classifications []model.Classification
	query := `SELECT id, code, description FROM classifications ORDER BY code ASC`
	err := r.db.SelectContext(ctx, &classifications, query)
	return classifications, err
}

func (r *postgresCatalogRepository) FindClassification(ctx context.Context, id uuid.UUID) (*model.Classification, error) {
	var classification model.Classification
	query := `SELECT id, code, description FROM classifications WHERE id = $1`
	err := r.db.GetContext(ctx, &classification, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &classification, nil
}

func (r *postgresCatalogRepository) ListModalities(ctx context.Context) ([]model.Modality, error) {
	var modalities []model.Modality
	query := `SELECT id, name, category FROM modalities ORDER BY name ASC`
	err := r.db.SelectContext(ctx, &modalities, query)
	return modalities, err
}

func (r *postgresCatalogRepository) FindModality(ctx context.Context, id uuid.UUID) (*model.Modality, error) {
	var modality model.Modality
	query := `SELECT id, name, category FROM modalities WHERE id = $1`
	err := r.db.GetContext(ctx, &modality, query, id)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &modality, nil
}

func (r *postgresCatalogRepository) ListMetricTypesByModality(ctx context.Context, modalityID uuid.UUID) ([]model.MetricType, error) {
	var metricTypes []model.MetricType
	query := `
		SELECT t.id, t.name, t.unit
		FROM metric_types t
		JOIN modality_metric_types mmt ON mmt.metric_type_id = t.id
		WHERE mmt.modality_id = $1
		ORDER BY t.name ASC
	`
	err := r.db.SelectContext(ctx, &metricTypes, query, modalityID)

	if err != nil {
		return nil, err
	}

	if metricTypes == nil {
		metricTypes = []model.MetricType{}
	}

	return metricTypes, nil
}
