package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/voidnire/APANEsportes-sub000/internal/events"
	"github.com/voidnire/APANEsportes-sub000/internal/model"
	"github.com/voidnire/APANEsportes-sub000/internal/repository"
	"github.com/voidnire/APANEsportes-sub000/internal/service"
)

type fakeAthleteRepo struct {
	athlete *model.Athlete
	findErr error
}

func (f *fakeAthleteRepo) Create(ctx context.Context, a *model.Athlete) (uuid.UUID, error) {
	return uuid.New(), nil
}

func (f *fakeAthleteRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.Athlete, error) {
	return nil, nil
}

func (f *fakeAthleteRepo) FindByID(ctx context.Context, id, ownerID uuid.UUID) (*model.Athlete, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.athlete, nil
}

func (f *fakeAthleteRepo) Update(ctx context.Context, a *model.Athlete) (*model.Athlete, error) {
	return a, nil
}

func (f *fakeAthleteRepo) Delete(ctx context.Context, id, ownerID uuid.UUID) error { return nil }

func (f *fakeAthleteRepo) AddClassification(ctx context.Context, athleteID, classificationID uuid.UUID) error {
	return nil
}

func (f *fakeAthleteRepo) RemoveClassification(ctx context.Context, athleteID, classificationID, ownerID uuid.UUID) error {
	return nil
}

func (f *fakeAthleteRepo) ListClassifications(ctx context.Context, athleteID uuid.UUID) ([]model.Classification, error) {
	return nil, nil
}

type fakeEvaluationRepo struct {
	created      *repository.RecordInput
	lastFilter   repository.HistoryFilter
	listedFor    uuid.UUID
	createResult *model.EvaluationDetails
	createErr    error
}

func (f *fakeEvaluationRepo) CreateWithResults(ctx context.Context, in *repository.RecordInput) (*model.EvaluationDetails, error) {
	f.created = in
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createResult != nil {
		return f.createResult, nil
	}
	return &model.EvaluationDetails{ID: uuid.New(), AthleteID: in.AthleteID}, nil
}

func (f *fakeEvaluationRepo) ListByAthlete(ctx context.Context, athleteID uuid.UUID, filter repository.HistoryFilter) ([]model.EvaluationDetails, error) {
	f.listedFor = athleteID
	f.lastFilter = filter
	return []model.EvaluationDetails{}, nil
}

func (f *fakeEvaluationRepo) StoreAnalysis(ctx context.Context, recordID, ownerID uuid.UUID, payload json.RawMessage) error {
	return nil
}

func (f *fakeEvaluationRepo) StoreAnalysisResult(ctx context.Context, recordID uuid.UUID, payload json.RawMessage) error {
	return nil
}

func (f *fakeEvaluationRepo) SetAnalysisVideoKey(ctx context.Context, recordID, ownerID uuid.UUID, objectKey string) error {
	return nil
}

func newEvaluationFixture(findErr error) (service.EvaluationService, *fakeEvaluationRepo) {
	evalRepo := &fakeEvaluationRepo{}
	athleteRepo := &fakeAthleteRepo{athlete: &model.Athlete{ID: uuid.New()}, findErr: findErr}
	svc := service.NewEvaluationService(evalRepo, athleteRepo, events.NoopPublisher{}, nil)
	return svc, evalRepo
}

func TestEvaluationService_Record_RejectsEmptyResults(t *testing.T) {
	svc, evalRepo := newEvaluationFixture(nil)

	_, err := svc.Record(context.Background(), uuid.New(), &repository.RecordInput{
		AthleteID:  uuid.New(),
		ModalityID: uuid.New(),
		Kind:       model.KindPre,
	})
	require.ErrorIs(t, err, service.ErrNoResults)
	require.Nil(t, evalRepo.created)
}

func TestEvaluationService_Record_GuardBlocksForeignAthlete(t *testing.T) {
	svc, evalRepo := newEvaluationFixture(repository.ErrNotFound)

	_, err := svc.Record(context.Background(), uuid.New(), &repository.RecordInput{
		AthleteID:  uuid.New(),
		ModalityID: uuid.New(),
		Kind:       model.KindPre,
		Results:    []repository.ResultInput{{MetricTypeID: uuid.New(), Value: decimal.NewFromInt(5)}},
	})
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.Nil(t, evalRepo.created)
}

func TestEvaluationService_History_GuardRunsBeforeListing(t *testing.T) {
	svc, evalRepo := newEvaluationFixture(repository.ErrNotFound)

	_, err := svc.History(context.Background(), uuid.New(), service.HistoryQuery{AthleteID: uuid.New()})
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.Equal(t, uuid.Nil, evalRepo.listedFor)
}

func TestEvaluationService_History_DateOnlyUpperBoundCoversWholeDay(t *testing.T) {
	svc, evalRepo := newEvaluationFixture(nil)

	_, err := svc.History(context.Background(), uuid.New(), service.HistoryQuery{
		AthleteID: uuid.New(),
		DateTo:    "2026-03-15",
	})
	require.NoError(t, err)
	require.NotNil(t, evalRepo.lastFilter.To)

	to := *evalRepo.lastFilter.To
	require.Equal(t, 2026, to.Year())
	require.Equal(t, time.March, to.Month())
	require.Equal(t, 15, to.Day())
	require.Equal(t, 23, to.Hour())
	require.Equal(t, 59, to.Minute())
	require.Equal(t, 59, to.Second())
}

func TestEvaluationService_History_TimestampUpperBoundKeptExact(t *testing.T) {
	svc, evalRepo := newEvaluationFixture(nil)

	_, err := svc.History(context.Background(), uuid.New(), service.HistoryQuery{
		AthleteID: uuid.New(),
		DateTo:    "2026-03-15T10:30:00Z",
	})
	require.NoError(t, err)
	require.NotNil(t, evalRepo.lastFilter.To)
	require.Equal(t, 10, evalRepo.lastFilter.To.Hour())
	require.Equal(t, 30, evalRepo.lastFilter.To.Minute())
}

func TestEvaluationService_History_BadDateRejected(t *testing.T) {
	svc, _ := newEvaluationFixture(nil)

	_, err := svc.History(context.Background(), uuid.New(), service.HistoryQuery{
		AthleteID: uuid.New(),
		DateFrom:  "15/03/2026",
	})
	require.ErrorIs(t, err, service.ErrBadDate)
}

func TestEvaluationService_AnalysisUploadURL_DisabledWithoutStorage(t *testing.T) {
	svc, _ := newEvaluationFixture(nil)

	_, err := svc.AnalysisUploadURL(context.Background(), uuid.New(), uuid.New())
	require.ErrorIs(t, err, service.ErrUploadsDisabled)
}
