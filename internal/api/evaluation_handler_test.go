package api_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/voidnire/APANEsportes-sub000/internal/api"
	"github.com/voidnire/APANEsportes-sub000/internal/model"
	"github.com/voidnire/APANEsportes-sub000/internal/repository"
	"github.com/voidnire/APANEsportes-sub000/internal/service"
	"github.com/voidnire/APANEsportes-sub000/internal/session"
)

type fakeEvaluationService struct {
	recorded  *repository.RecordInput
	lastQuery service.HistoryQuery
	recordErr error
}

func (f *fakeEvaluationService) Record(ctx context.Context, ownerID uuid.UUID, in *repository.RecordInput) (*model.EvaluationDetails, error) {
	f.recorded = in
	if f.recordErr != nil {
		return nil, f.recordErr
	}
	return &model.EvaluationDetails{ID: uuid.New(), AthleteID: in.AthleteID, Kind: in.Kind}, nil
}

func (f *fakeEvaluationService) History(ctx context.Context, ownerID uuid.UUID, q service.HistoryQuery) ([]model.EvaluationDetails, error) {
	f.lastQuery = q
	return []model.EvaluationDetails{}, nil
}

func (f *fakeEvaluationService) AttachAnalysis(ctx context.Context, ownerID, recordID uuid.UUID, payload json.RawMessage) error {
	return nil
}

func (f *fakeEvaluationService) AnalysisUploadURL(ctx context.Context, ownerID, recordID uuid.UUID) (string, error) {
	return "https://storage.example.com/signed", nil
}

func newEvaluationApp(svc service.EvaluationService) (*fiber.App, string) {
	store := session.NewMemoryStore(time.Hour)
	sessionID, _ := store.Create(context.Background(), session.Claims{OwnerID: uuid.New(), Role: "coach"})

	handler := api.NewEvaluationHandler(svc)
	app := fiber.New()
	app.Use(api.CookieSessionMiddleware(store))
	group := app.Group("/evaluations", api.AuthMiddleware(store))
	group.Post("/", handler.Record)
	group.Get("/", handler.History)

	return app, sessionID
}

func TestEvaluationHandler_Record_PreservesDecimalLiteral(t *testing.T) {
	svc := &fakeEvaluationService{}
	app, sessionID := newEvaluationApp(svc)

	body := `{
		"athlete_id": "` + uuid.NewString() + `",
		"modality_id": "` + uuid.NewString() + `",
		"kind": "PRE",
		"results": [{"metric_type_id": "` + uuid.NewString() + `", "value": 12.5}]
	}`

	req := jsonRequest("POST", "/evaluations/", body)
	req.Header.Set("Authorization", "Bearer "+sessionID)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	require.NotNil(t, svc.recorded)
	require.Len(t, svc.recorded.Results, 1)
	// The JSON literal 12.5 must survive exactly; a float64 detour would
	// make this flaky for values like 3.2.
	require.Equal(t, "12.5", svc.recorded.Results[0].Value.String())
}

func TestEvaluationHandler_Record_RejectsEmptyResults(t *testing.T) {
	svc := &fakeEvaluationService{}
	app, sessionID := newEvaluationApp(svc)

	body := `{
		"athlete_id": "` + uuid.NewString() + `",
		"modality_id": "` + uuid.NewString() + `",
		"kind": "PRE",
		"results": []
	}`

	req := jsonRequest("POST", "/evaluations/", body)
	req.Header.Set("Authorization", "Bearer "+sessionID)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Nil(t, svc.recorded)
}

func TestEvaluationHandler_Record_RejectsNonPositiveValue(t *testing.T) {
	svc := &fakeEvaluationService{}
	app, sessionID := newEvaluationApp(svc)

	body := `{
		"athlete_id": "` + uuid.NewString() + `",
		"modality_id": "` + uuid.NewString() + `",
		"kind": "POST",
		"results": [{"metric_type_id": "` + uuid.NewString() + `", "value": -1}]
	}`

	req := jsonRequest("POST", "/evaluations/", body)
	req.Header.Set("Authorization", "Bearer "+sessionID)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Nil(t, svc.recorded)
}

func TestEvaluationHandler_Record_RejectsBadKind(t *testing.T) {
	svc := &fakeEvaluationService{}
	app, sessionID := newEvaluationApp(svc)

	body := `{
		"athlete_id": "` + uuid.NewString() + `",
		"modality_id": "` + uuid.NewString() + `",
		"kind": "DURING",
		"results": [{"metric_type_id": "` + uuid.NewString() + `", "value": 1}]
	}`

	req := jsonRequest("POST", "/evaluations/", body)
	req.Header.Set("Authorization", "Bearer "+sessionID)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestEvaluationHandler_History_RequiresAthleteID(t *testing.T) {
	svc := &fakeEvaluationService{}
	app, sessionID := newEvaluationApp(svc)

	req := httptest.NewRequest("GET", "/evaluations/", nil)
	req.Header.Set("Authorization", "Bearer "+sessionID)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestEvaluationHandler_History_PassesFiltersThrough(t *testing.T) {
	svc := &fakeEvaluationService{}
	app, sessionID := newEvaluationApp(svc)

	athleteID := uuid.New()
	modalityID := uuid.New()
	target := "/evaluations/?athleteId=" + athleteID.String() +
		"&modalityId=" + modalityID.String() +
		"&kind=POST&dateFrom=2026-01-01&dateTo=2026-01-31"

	req := httptest.NewRequest("GET", target, nil)
	req.Header.Set("Authorization", "Bearer "+sessionID)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Equal(t, athleteID, svc.lastQuery.AthleteID)
	require.NotNil(t, svc.lastQuery.ModalityID)
	require.Equal(t, modalityID, *svc.lastQuery.ModalityID)
	require.Equal(t, "POST", svc.lastQuery.Kind)
	require.Equal(t, "2026-01-01", svc.lastQuery.DateFrom)
	require.Equal(t, "2026-01-31", svc.lastQuery.DateTo)
}
