package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/voidnire/APANEsportes-sub000/internal/model"
	"github.com/voidnire/APANEsportes-sub000/internal/repository"
)

// CatalogService serves the shared lookup data behind the dynamic forms:
// classifications for athlete profiles, modalities, and the metric types
// each modality expects.
type CatalogService interface {
	ListClassifications(ctx context.Context) ([]model.Classification, error)
	ListModalities(ctx context.Context) ([]model.Modality, error)
	ListMetricTypesByModality(ctx context.Context, modalityID uuid.UUID) ([]model.MetricType, error)
}

type catalogService struct {
	catalogRepo repository.CatalogRepository
}

func NewCatalogService(catalogRepo repository.CatalogRepository) CatalogService {
	return &catalogService{catalogRepo: catalogRepo}
}

func (s *catalogService) ListClassifications(ctx context.Context) ([]model.Classification, error) {
	return s.catalogRepo.ListClassifications(ctx)
}

func (s *catalogService) ListModalities(ctx context.Context) ([]model.Modality, error) {
	return s.catalogRepo.ListModalities(ctx)
}

func (s *catalogService) ListMetricTypesByModality(ctx context.Context, modalityID uuid.UUID) ([]model.MetricType, error) {
	if _, err := s.catalogRepo.FindModality(ctx, modalityID); err != nil {
		return nil, err
	}

	return s.catalogRepo.ListMetricTypesByModality(ctx, modalityID)
}
