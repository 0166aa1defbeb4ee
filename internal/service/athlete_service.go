package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/voidnire/APANEsportes-sub000/internal/events"
	"github.com/voidnire/APANEsportes-sub000/internal/model"
	"github.com/voidnire/APANEsportes-sub000/internal/repository"
)

type AthleteService interface {
	Create(ctx context.Context, ownerID uuid.UUID, fullName string, birthDate time.Time) (*model.Athlete, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]model.Athlete, error)
	Get(ctx context.Context, id, ownerID uuid.UUID) (*model.AthleteDetails, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, fullName string, birthDate time.Time) (*model.Athlete, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	AssociateClassification(ctx context.Context, athleteID, classificationID, ownerID uuid.UUID) error
	DisassociateClassification(ctx context.Context, athleteID, classificationID, ownerID uuid.UUID) error
}

type athleteService struct {
	athleteRepo repository.AthleteRepository
	catalogRepo repository.CatalogRepository
	publisher   events.EventPublisher
}

func NewAthleteService(athleteRepo repository.AthleteRepository, catalogRepo repository.CatalogRepository, publisher events.EventPublisher) AthleteService {
	return &athleteService{
		athleteRepo: athleteRepo,
		catalogRepo: catalogRepo,
		publisher:   publisher,
	}
}

func (s *athleteService) Create(ctx context.Context, ownerID uuid.UUID, fullName string, birthDate time.Time) (*model.Athlete, error) {
	athlete := &model.Athlete{
		OwnerID:   ownerID,
		FullName:  fullName,
		BirthDate: birthDate,
	}

	newID, err := s.athleteRepo.Create(ctx, athlete)
	if err != nil {
		return nil, err
	}

	athlete.ID = newID

	go s.publisher.PublishAthleteCreated(athlete)

	return athlete, nil
}

func (s *athleteService) List(ctx context.Context, ownerID uuid.UUID) ([]model.Athlete, error) {
	return s.athleteRepo.ListByOwner(ctx, ownerID)
}

func (s *athleteService) Get(ctx context.Context, id, ownerID uuid.UUID) (*model.AthleteDetails, error) {
	athlete, err := s.athleteRepo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	classifications, err := s.athleteRepo.ListClassifications(ctx, athlete.ID)
	if err != nil {
		return nil, err
	}

	return &model.AthleteDetails{Athlete: *athlete, Classifications: classifications}, nil
}

func (s *athleteService) Update(ctx context.Context, id, ownerID uuid.UUID, fullName string, birthDate time.Time) (*model.Athlete, error) {
	athlete := &model.Athlete{
		ID:        id,
		OwnerID:   ownerID,
		FullName:  fullName,
		BirthDate: birthDate,
	}

	return s.athleteRepo.Update(ctx, athlete)
}

func (s *athleteService) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	// Evaluation records and their results go with the athlete via
	// ON DELETE CASCADE.
	return s.athleteRepo.Delete(ctx, id, ownerID)
}

func (s *athleteService) AssociateClassification(ctx context.Context, athleteID, classificationID, ownerID uuid.UUID) error {
	if _, err := s.athleteRepo.FindByID(ctx, athleteID, ownerID); err != nil {
		return err
	}

	if _, err := s.catalogRepo.FindClassification(ctx, classificationID); err != nil {
		return err
	}

	return s.athleteRepo.AddClassification(ctx, athleteID, classificationID)
}

func (s *athleteService) DisassociateClassification(ctx context.Context, athleteID, classificationID, ownerID uuid.UUID) error {
	return s.athleteRepo.RemoveClassification(ctx, athleteID, classificationID, ownerID)
}
