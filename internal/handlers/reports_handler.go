package handlers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/ismyjobsafe/jobsafe-backend/internal/dto"
	"github.com/ismyjobsafe/jobsafe-backend/internal/models"
	"github.com/ismyjobsafe/jobsafe-backend/internal/services"
	"github.com/ismyjobsafe/jobsafe-backend/internal/session"
)

type ReportsHandler struct {
	subscriptionService *services.SubscriptionService
}

func NewReportsHandler(subscriptionService *services.SubscriptionService) *ReportsHandler {
	return &ReportsHandler{subscriptionService: subscriptionService}
}

// List returns every purchased report owned by the caller.
func (h *ReportsHandler) List(c *fiber.Ctx) error {
	userID, ok := session.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("Unauthorized"))
	}
	email, ok := session.Email(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("Unauthorized"))
	}

	reports, err := h.subscriptionService.ListReports(userID, services.NormalizeEmail(email))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("Failed to load reports"))
	}

	out := make([]dto.ReportResponse, 0, len(reports))
	for i := range reports {
		out = append(out, toReportResponse(&reports[i]))
	}
	return c.JSON(fiber.Map{"success": true, "reports": out})
}

// Get returns one owned report by analysis id.
func (h *ReportsHandler) Get(c *fiber.Ctx) error {
	userID, ok := session.UserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("Unauthorized"))
	}
	email, ok := session.Email(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.Error("Unauthorized"))
	}

	analysisID, err := uuid.Parse(c.Params("analysisId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Error("Invalid analysisId"))
	}

	report, err := h.subscriptionService.FindOwnedReport(userID, services.NormalizeEmail(email), analysisID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.Error("Failed to load report"))
	}
	if report == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.Error("Report not found"))
	}

	return c.JSON(fiber.Map{"success": true, "report": toReportResponse(report)})
}

func toReportResponse(r *models.Report) dto.ReportResponse {
	return dto.ReportResponse{
		ID:         r.ID.String(),
		AnalysisID: r.SourceAnalysisID.String(),
		PaymentID:  r.PaymentID,
		CreatedAt:  r.CreatedAt,
		ReportData: json.RawMessage(r.ReportData),
	}
}
