package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/ismyjobsafe/jobsafe-backend/internal/dto"
	"github.com/ismyjobsafe/jobsafe-backend/internal/services"
	"github.com/ismyjobsafe/jobsafe-backend/internal/session"
)

type CheckoutHandler struct {
	checkoutService *services.CheckoutService
	authService     *services.AuthService
	analysisService *services.AnalysisService
}

func NewCheckoutHandler(checkoutService *services.CheckoutService, authService *services.AuthService, analysisService *services.AnalysisService) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		authService:     authService,
		analysisService: analysisService,
	}
}

// Create opens a hosted checkout for the given analysis. The analysis must
// exist before payment so the webhook can freeze it into a report.
func (h *CheckoutHandler) Create(c *fiber.Ctx) error {
	userID, ok := session.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("Unauthorized"))
	}

	var req dto.CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("Invalid request body"))
	}
	analysisID, err := uuid.Parse(req.AnalysisID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("Invalid analysisId"))
	}

	if _, err := h.analysisService.FindAnalysis(analysisID); err != nil {
		if errors.Is(err, services.ErrAnalysisNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.Error("Analysis not found"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("Failed to load analysis"))
	}

	user, err := h.authService.FindUser(userID)
	if err != nil {
		if errors.Is(err, services.ErrAccountNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("Unauthorized"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("Failed to load account"))
	}

	url, err := h.checkoutService.CreateCheckout(c.Context(), user, analysisID.String())
	if err != nil {
		return c.Status(services.HTTPStatus(err, fiber.StatusInternalServerError)).JSON(dto.Error(err.Error()))
	}

	return c.JSON(dto.CheckoutResponse{Success: true, CheckoutURL: url})
}
