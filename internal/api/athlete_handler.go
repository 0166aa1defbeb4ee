package api

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/voidnire/APANEsportes-sub000/internal/repository"
	"github.com/voidnire/APANEsportes-sub000/internal/service"
)

type AthleteHandler struct {
	athleteService service.AthleteService
	validate       *validator.Validate
}

func NewAthleteHandler(athleteService service.AthleteService) *AthleteHandler {
	return &AthleteHandler{
		athleteService: athleteService,
		validate:       validator.New(),
	}
}

type AthleteRequest struct {
	FullName  string `json:"full_name" validate:"required,min=2,max=120"`
	BirthDate string `json:"birth_date" validate:"required,datetime=2006-01-02"`
}

func (h *AthleteHandler) Create(c *fiber.Ctx) error {
	ownerID, err := GetOwnerIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var request AthleteRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	birthDate, _ := time.Parse("2006-01-02", request.BirthDate)

	athlete, err := h.athleteService.Create(c.Context(), ownerID, request.FullName, birthDate)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create athlete"})
	}

	return c.Status(fiber.StatusCreated).JSON(athlete)
}

func (h *AthleteHandler) List(c *fiber.Ctx) error {
	ownerID, err := GetOwnerIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	athletes, err := h.athleteService.List(c.Context(), ownerID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch athletes"})
	}

	return c.Status(fiber.StatusOK).JSON(athletes)
}

func (h *AthleteHandler) Get(c *fiber.Ctx) error {
	ownerID, err := GetOwnerIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	athleteID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid athlete ID format"})
	}

	details, err := h.athleteService.Get(c.Context(), athleteID, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Athlete not found"})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch athlete"})
	}

	return c.Status(fiber.StatusOK).JSON(details)
}

func (h *AthleteHandler) Update(c *fiber.Ctx) error {
	ownerID, err := GetOwnerIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	athleteID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid athlete ID format"})
	}

	var request AthleteRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	birthDate, _ := time.Parse("2006-01-02", request.BirthDate)

	athlete, err := h.athleteService.Update(c.Context(), athleteID, ownerID, request.FullName, birthDate)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Athlete not found"})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update athlete"})
	}

	return c.Status(fiber.StatusOK).JSON(athlete)
}

func (h *AthleteHandler) Delete(c *fiber.Ctx) error {
	ownerID, err := GetOwnerIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	athleteID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid athlete ID format"})
	}

	if err := h.athleteService.Delete(c.Context(), athleteID, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Athlete not found"})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not delete athlete"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": "Athlete deleted successfully"})
}

func (h *AthleteHandler) AssociateClassification(c *fiber.Ctx) error {
	return h.classificationChange(c, h.athleteService.AssociateClassification, "Classification associated successfully")
}

func (h *AthleteHandler) DisassociateClassification(c *fiber.Ctx) error {
	return h.classificationChange(c, h.athleteService.DisassociateClassification, "Classification removed successfully")
}

func (h *AthleteHandler) classificationChange(
	c *fiber.Ctx,
	change func(ctx context.Context, athleteID, classificationID, ownerID uuid.UUID) error,
	successMessage string,
) error {
	ownerID, err := GetOwnerIDFromClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	athleteID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid athlete ID format"})
	}

	classificationID, err := uuid.Parse(c.Params("classificationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid classification ID format"})
	}

	if err := change(c.Context(), athleteID, classificationID, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update classifications"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"message": successMessage})
}
