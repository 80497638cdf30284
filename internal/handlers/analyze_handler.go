package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/ismyjobsafe/jobsafe-backend/internal/dto"
	"github.com/ismyjobsafe/jobsafe-backend/internal/services"
)

type AnalyzeHandler struct {
	analysisService *services.AnalysisService
}

func NewAnalyzeHandler(analysisService *services.AnalysisService) *AnalyzeHandler {
	return &AnalyzeHandler{analysisService: analysisService}
}

// Analyze runs the free replaceability analysis. No authentication: the
// analysis is anonymous until a purchase binds it to an account.
func (h *AnalyzeHandler) Analyze(c *fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("Invalid request body"))
	}

	result, analysisID, err := h.analysisService.Analyze(c.Context(), req.Profile)
	if err != nil {
		return c.Status(services.HTTPStatus(err, fiber.StatusInternalServerError)).JSON(dto.Error(err.Error()))
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"analysisId": analysisID,
		"result":     result,
	})
}
