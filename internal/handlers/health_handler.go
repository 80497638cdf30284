package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/ismyjobsafe/jobsafe-backend/internal/database"
	"github.com/ismyjobsafe/jobsafe-backend/internal/dto"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	resp := dto.HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		DB:        "up",
	}
	if err := database.Ping(h.db); err != nil {
		resp.Status = "degraded"
		resp.DB = "down"
		return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
	}
	return c.JSON(resp)
}
