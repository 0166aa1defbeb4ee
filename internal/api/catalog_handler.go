package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/voidnire/APANEsportes-sub000/internal/repository"
	"github.com/voidnire/APANEsportes-sub000/internal/service"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

func (h *CatalogHandler) ListClassifications(c *fiber.Ctx) error {
	classifications, err := h.catalogService.ListClassifications(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch classifications"})
	}

	return c.Status(fiber.StatusOK).JSON(classifications)
}

func (h *CatalogHandler) ListModalities(c *fiber.Ctx) error {
	modalities, err := h.catalogService.ListModalities(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch modalities"})
	}

	return c.Status(fiber.StatusOK).JSON(modalities)
}

func (h *CatalogHandler) ListMetricTypes(c *fiber.Ctx) error {
	modalityID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid modality ID format"})
	}

	metricTypes, err := h.catalogService.ListMetricTypesByModality(c.Context(), modalityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Modality not found"})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch metric types"})
	}

	return c.Status(fiber.StatusOK).JSON(metricTypes)
}
