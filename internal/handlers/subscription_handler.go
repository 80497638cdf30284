package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/ismyjobsafe/jobsafe-backend/internal/config"
	"github.com/ismyjobsafe/jobsafe-backend/internal/dto"
	"github.com/ismyjobsafe/jobsafe-backend/internal/services"
	"github.com/ismyjobsafe/jobsafe-backend/internal/session"
)

type SubscriptionHandler struct {
	subscriptionService *services.SubscriptionService
	cfg                 *config.Config
}

func NewSubscriptionHandler(subscriptionService *services.SubscriptionService, cfg *config.Config) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptionService: subscriptionService, cfg: cfg}
}

// Status reports whether the caller currently has premium access. With an
// analysisId query parameter a one-time purchase of that analysis also
// counts as access.
func (h *SubscriptionHandler) Status(c *fiber.Ctx) error {
	if h.cfg.PremiumBypassEnabled() {
		return c.JSON(dto.SubscriptionStatusResponse{Active: true, Status: "dev-bypass"})
	}

	userID, ok := session.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("Unauthorized"))
	}
	email, ok := session.Email(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("Unauthorized"))
	}
	email = services.NormalizeEmail(email)

	if raw := c.Query("analysisId"); raw != "" {
		analysisID, err := uuid.Parse(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.Error("Invalid analysisId"))
		}
		report, err := h.subscriptionService.FindOwnedReport(userID, email, analysisID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("Failed to check access"))
		}
		if report != nil {
			return c.JSON(dto.SubscriptionStatusResponse{Active: true, Status: "purchased"})
		}
	}

	sub, err := h.subscriptionService.FindByEmail(email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("Failed to check subscription"))
	}
	if sub == nil {
		return c.JSON(dto.SubscriptionStatusResponse{Active: false, Status: "none"})
	}

	return c.JSON(dto.SubscriptionStatusResponse{
		Active:           services.IsActive(sub, time.Now()),
		Status:           sub.Status,
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
	})
}
