package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/voidnire/APANEsportes-sub000/internal/events"
	"github.com/voidnire/APANEsportes-sub000/internal/model"
	"github.com/voidnire/APANEsportes-sub000/internal/repository"
)

var (
	// ErrNoResults rejects evaluations with an empty results array at the
	// boundary; an evaluation without measurements is meaningless.
	ErrNoResults = errors.New("at least one metric result is required")
	ErrBadDate   = errors.New("invalid date filter, use YYYY-MM-DD or RFC 3339")
	// ErrUploadsDisabled is returned when no object storage is configured.
	ErrUploadsDisabled = errors.New("video uploads are not configured")
)

const dateOnlyLayout = "2006-01-02"

// HistoryQuery carries the raw optional filters of a history read. Date
// bounds arrive as strings so that a date-only upper bound can still be
// told apart from a full timestamp and normalized to end of day.
type HistoryQuery struct {
	AthleteID  uuid.UUID
	ModalityID *uuid.UUID
	Kind       string
	DateFrom   string
	DateTo     string
}

// AnalysisPresigner hands out upload URLs for raw analysis video objects.
type AnalysisPresigner interface {
	PresignUpload(ctx context.Context, objectKey string) (string, error)
}

type EvaluationService interface {
	Record(ctx context.Context, ownerID uuid.UUID, in *repository.RecordInput) (*model.EvaluationDetails, error)
	History(ctx context.Context, ownerID uuid.UUID, q HistoryQuery) ([]model.EvaluationDetails, error)
	AttachAnalysis(ctx context.Context, ownerID, recordID uuid.UUID, payload json.RawMessage) error
	AnalysisUploadURL(ctx context.Context, ownerID, recordID uuid.UUID) (string, error)
}

type evaluationService struct {
	evaluationRepo repository.EvaluationRepository
	athleteRepo    repository.AthleteRepository
	publisher      events.EventPublisher
	presigner      AnalysisPresigner
}

func NewEvaluationService(
	evaluationRepo repository.EvaluationRepository,
	athleteRepo repository.AthleteRepository,
	publisher events.EventPublisher,
	presigner AnalysisPresigner,
) EvaluationService {
	return &evaluationService{
		evaluationRepo: evaluationRepo,
		athleteRepo:    athleteRepo,
		publisher:      publisher,
		presigner:      presigner,
	}
}

// Record runs the ownership guard on the athlete, then hands the fully
// authorized input to the transactional write. Failures inside the
// transaction are logged with context and surfaced opaquely; they are never
// retried here because a blind retry could double-record a session.
func (s *evaluationService) Record(ctx context.Context, ownerID uuid.UUID, in *repository.RecordInput) (*model.EvaluationDetails, error) {
	if len(in.Results) == 0 {
		return nil, ErrNoResults
	}

	if _, err := s.athleteRepo.FindByID(ctx, in.AthleteID, ownerID); err != nil {
		return nil, err
	}

	details, err := s.evaluationRepo.CreateWithResults(ctx, in)
	if err != nil {
		slog.ErrorContext(ctx, "evaluation write rolled back",
			slog.String("athlete_id", in.AthleteID.String()),
			slog.String("modality_id", in.ModalityID.String()),
			slog.Int("result_count", len(in.Results)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	go s.publisher.PublishEvaluationRecorded(details)

	return details, nil
}

func (s *evaluationService) History(ctx context.Context, ownerID uuid.UUID, q HistoryQuery) ([]model.EvaluationDetails, error) {
	if _, err := s.athleteRepo.FindByID(ctx, q.AthleteID, ownerID); err != nil {
		return nil, err
	}

	filter := repository.HistoryFilter{
		ModalityID: q.ModalityID,
		Kind:       q.Kind,
	}

	from, err := parseDateFrom(q.DateFrom)
	if err != nil {
		return nil, err
	}
	filter.From = from

	to, err := parseDateTo(q.DateTo)
	if err != nil {
		return nil, err
	}
	filter.To = to

	return s.evaluationRepo.ListByAthlete(ctx, q.AthleteID, filter)
}

func (s *evaluationService) AttachAnalysis(ctx context.Context, ownerID, recordID uuid.UUID, payload json.RawMessage) error {
	return s.evaluationRepo.StoreAnalysis(ctx, recordID, ownerID, payload)
}

func (s *evaluationService) AnalysisUploadURL(ctx context.Context, ownerID, recordID uuid.UUID) (string, error) {
	if s.presigner == nil {
		return "", ErrUploadsDisabled
	}

	objectKey := fmt.Sprintf("analysis/%s/raw.mp4", recordID)

	// Recording the key doubles as the transitive ownership check.
	if err := s.evaluationRepo.SetAnalysisVideoKey(ctx, recordID, ownerID, objectKey); err != nil {
		return "", err
	}

	return s.presigner.PresignUpload(ctx, objectKey)
}

func parseDateFrom(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(dateOnlyLayout, value); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}

	return nil, ErrBadDate
}

// parseDateTo keeps the upper bound inclusive: a date-only value means the
// whole calendar day, so it is pushed to 23:59:59.999999999 rather than
// midnight.
func parseDateTo(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}

	if t, err := time.Parse(dateOnlyLayout, value); err == nil {
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		return &endOfDay, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}

	return nil, ErrBadDate
}
