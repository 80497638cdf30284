package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/ismyjobsafe/jobsafe-backend/internal/config"
	"github.com/ismyjobsafe/jobsafe-backend/internal/dto"
	"github.com/ismyjobsafe/jobsafe-backend/internal/services"
	"github.com/ismyjobsafe/jobsafe-backend/internal/session"
)

// devBypassKey namespaces artifacts generated while the development
// premium bypass is on, so they never collide with real user caches.
const devBypassKey = "dev-bypass"

type PremiumHandler struct {
	premiumService *services.PremiumService
	cfg            *config.Config
}

func NewPremiumHandler(premiumService *services.PremiumService, cfg *config.Config) *PremiumHandler {
	return &PremiumHandler{premiumService: premiumService, cfg: cfg}
}

// authorize resolves the caller's identity, checks the access gate, and
// returns the cache key to generate under. With the dev bypass enabled
// the gate is skipped entirely.
func (h *PremiumHandler) authorize(c *fiber.Ctx, analysisID uuid.UUID) (string, error) {
	if h.cfg.PremiumBypassEnabled() {
		return devBypassKey, nil
	}

	userID, ok := session.UserID(c)
	if !ok {
		return "", services.NewStatusError(fiber.StatusUnauthorized, "Unauthorized")
	}
	email, ok := session.Email(c)
	if !ok {
		return "", services.NewStatusError(fiber.StatusUnauthorized, "Unauthorized")
	}
	email = services.NormalizeEmail(email)

	if err := h.premiumService.Authorize(userID, email, analysisID); err != nil {
		return "", err
	}
	return email, nil
}

func parseAnalysisID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, services.NewStatusError(fiber.StatusBadRequest, "Invalid analysisId")
	}
	return id, nil
}

func (h *PremiumHandler) respond(c *fiber.Ctx, payload json.RawMessage, cached bool, err error) error {
	if err != nil {
		return c.Status(services.HTTPStatus(err, fiber.StatusInternalServerError)).JSON(dto.Error(err.Error()))
	}
	return c.JSON(fiber.Map{
		"success": true,
		"cached":  cached,
		"data":    payload,
	})
}

func (h *PremiumHandler) ProtectionPlan(c *fiber.Ctx) error {
	var req dto.PremiumRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("Invalid request body"))
	}
	analysisID, err := parseAnalysisID(req.AnalysisID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(err.Error()))
	}

	userKey, err := h.authorize(c, analysisID)
	if err != nil {
		return c.Status(services.HTTPStatus(err, fiber.StatusInternalServerError)).JSON(dto.Error(err.Error()))
	}

	payload, cached, err := h.premiumService.ProtectionPlan(c.Context(), userKey, analysisID)
	return h.respond(c, payload, cached, err)
}

func (h *PremiumHandler) SalaryProjection(c *fiber.Ctx) error {
	var req dto.SalaryProjectionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("Invalid request body"))
	}
	// Input validation runs before any database or model work.
	if req.Salary <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("Salary must be a positive number"))
	}
	if req.Country == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("Country is required"))
	}
	analysisID, err := parseAnalysisID(req.AnalysisID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(err.Error()))
	}

	userKey, err := h.authorize(c, analysisID)
	if err != nil {
		return c.Status(services.HTTPStatus(err, fiber.StatusInternalServerError)).JSON(dto.Error(err.Error()))
	}

	payload, cached, err := h.premiumService.SalaryProjection(c.Context(), userKey, analysisID, req.Salary, req.Country)
	return h.respond(c, payload, cached, err)
}

func (h *PremiumHandler) MarketComparison(c *fiber.Ctx) error {
	var req dto.PremiumRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("Invalid request body"))
	}
	analysisID, err := parseAnalysisID(req.AnalysisID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(err.Error()))
	}

	userKey, err := h.authorize(c, analysisID)
	if err != nil {
		return c.Status(services.HTTPStatus(err, fiber.StatusInternalServerError)).JSON(dto.Error(err.Error()))
	}

	payload, cached, err := h.premiumService.MarketComparison(c.Context(), userKey, analysisID)
	return h.respond(c, payload, cached, err)
}

func (h *PremiumHandler) AISimulation(c *fiber.Ctx) error {
	var req dto.PremiumRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("Invalid request body"))
	}
	analysisID, err := parseAnalysisID(req.AnalysisID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error(err.Error()))
	}

	userKey, err := h.authorize(c, analysisID)
	if err != nil {
		return c.Status(services.HTTPStatus(err, fiber.StatusInternalServerError)).JSON(dto.Error(err.Error()))
	}

	payload, cached, err := h.premiumService.AISimulation(c.Context(), userKey, analysisID)
	return h.respond(c, payload, cached, err)
}
