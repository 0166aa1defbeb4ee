package api

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/voidnire/APANEsportes-sub000/internal/repository"
	"github.com/voidnire/APANEsportes-sub000/internal/service"
)

type EvaluationHandler struct {
	evaluationService service.EvaluationService
	validate          *validator.Validate
}

func NewEvaluationHandler(evaluationService service.EvaluationService) *EvaluationHandler {
	return &EvaluationHandler{
		evaluationService: evaluationService,
		validate:          validator.New(),
	}
}

// MetricResultRequest decodes the measurement value straight into a
// fixed-precision decimal; it never passes through a float64.
type MetricResultRequest struct {
	MetricTypeID uuid.UUID       `json:"metric_type_id" validate:"required"`
	Value        decimal.Decimal `json:"value"`
}

type RecordEvaluationRequest struct {
	AthleteID  uuid.UUID             `json:"athlete_id" validate:"required"`
	ModalityID uuid.UUID             `json:"modality_id" validate:"required"`
	Kind       string                `json:"kind" validate:"required,oneof=PRE POST"`
	Notes      string                `json:"notes,omitempty" validate:"max=1000"`
	RecordedAt *time.Time            `json:"recorded_at,omitempty"`
	Results    []MetricResultRequest `json:"results" validate:"required,min=1,dive"`
}

func (h *EvaluationHandler) Record(c *fiber.Ctx) error {
	ownerID, err := GetOwnerIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var request RecordEvaluationRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	results := make([]repository.ResultInput, len(request.Results))
	for i, res := range request.Results {
		if !res.Value.IsPositive() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Metric values must be positive numbers"})
		}
		results[i] = repository.ResultInput{
			MetricTypeID: res.MetricTypeID,
			Value:        res.Value,
		}
	}

	input := &repository.RecordInput{
		AthleteID:  request.AthleteID,
		ModalityID: request.ModalityID,
		Kind:       request.Kind,
		Notes:      request.Notes,
		RecordedAt: request.RecordedAt,
		Results:    results,
	}

	details, err := h.evaluationService.Record(c.Context(), ownerID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoResults):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Athlete not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not record evaluation"})
		}
	}

	return c.Status(fiber.StatusCreated).JSON(details)
}

func (h *EvaluationHandler) History(c *fiber.Ctx) error {
	ownerID, err := GetOwnerIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	athleteID, err := uuid.Parse(c.Query("athleteId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Query param 'athleteId' is required and must be a UUID"})
	}

	query := service.HistoryQuery{
		AthleteID: athleteID,
		Kind:      c.Query("kind"),
		DateFrom:  c.Query("dateFrom"),
		DateTo:    c.Query("dateTo"),
	}

	if query.Kind != "" && query.Kind != "PRE" && query.Kind != "POST" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Query param 'kind' must be 'PRE' or 'POST'"})
	}

	if raw := c.Query("modalityId"); raw != "" {
		modalityID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Query param 'modalityId' must be a UUID"})
		}
		query.ModalityID = &modalityID
	}

	records, err := h.evaluationService.History(c.Context(), ownerID, query)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBadDate):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, repository.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Athlete not found"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch history"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(records)
}

func (h *EvaluationHandler) AttachAnalysis(c *fiber.Ctx) error {
	ownerID, err := GetOwnerIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	recordID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record ID format"})
	}

	payload := c.Body()
	if len(payload) == 0 || !json.Valid(payload) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Body must be a JSON payload"})
	}

	if err := h.evaluationService.AttachAnalysis(c.Context(), ownerID, recordID, json.RawMessage(payload)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Evaluation not found"})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not store analysis"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Analysis stored successfully"})
}

func (h *EvaluationHandler) AnalysisUploadURL(c *fiber.Ctx) error {
	ownerID, err := GetOwnerIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	recordID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid record ID format"})
	}

	uploadURL, err := h.evaluationService.AnalysisUploadURL(c.Context(), ownerID, recordID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Evaluation not found"})
		case errors.Is(err, service.ErrUploadsDisabled):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not generate upload URL"})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"upload_url": uploadURL})
}
