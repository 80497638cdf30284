package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/ismyjobsafe/jobsafe-backend/internal/dto"
	"github.com/ismyjobsafe/jobsafe-backend/internal/payments"
	"github.com/ismyjobsafe/jobsafe-backend/internal/services"
)

type WebhookHandler struct {
	registry            *payments.Registry
	subscriptionService *services.SubscriptionService
}

func NewWebhookHandler(registry *payments.Registry, subscriptionService *services.SubscriptionService) *WebhookHandler {
	return &WebhookHandler{registry: registry, subscriptionService: subscriptionService}
}

// Handle receives provider webhooks. Signature verification runs over the
// raw request bytes before any parsing; unrecognized event types are
// acknowledged without side effects so providers stop redelivering them.
func (h *WebhookHandler) Handle(c *fiber.Ctx) error {
	provider, ok := h.registry.Get(c.Params("provider"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.Error("Unknown payment provider"))
	}

	signature := c.Get(provider.SignatureHeader())
	if signature == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("Missing webhook signature"))
	}

	rawBody := c.Body()
	if !provider.VerifySignature(rawBody, signature) {
		slog.Warn("webhook signature verification failed", "provider", provider.Name())
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("Invalid webhook signature"))
	}

	event, err := provider.ParseEvent(rawBody)
	if err != nil {
		if errors.Is(err, payments.ErrMalformedPayload) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.Error("Malformed webhook payload"))
		}
		slog.Error("webhook parsing failed", "provider", provider.Name(), "error", err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("Failed to process webhook"))
	}

	if event.Type == "" {
		// Verified but not an event we act on.
		return c.JSON(fiber.Map{"success": true, "ignored": true, "event": event.RawType})
	}

	if err := h.subscriptionService.HandleEvent(event); err != nil {
		slog.Error("webhook reconciliation failed",
			"provider", provider.Name(), "event", event.Type, "error", err.Error())
		return c.Status(services.HTTPStatus(err, fiber.StatusInternalServerError)).JSON(dto.Error(err.Error()))
	}

	slog.Info("webhook processed", "provider", provider.Name(), "event", event.Type)
	return c.JSON(fiber.Map{"success": true, "event": event.Type})
}
