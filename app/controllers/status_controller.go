package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"

	"github.com/arxeon/arxeon-api/app/models"
	"github.com/arxeon/arxeon-api/internal/pkg/database"
)

// HandleHealth reports gateway readiness and background queue depth for
// monitoring. Queue counters are best effort; a cache outage must not
// fail the probe.
func HandleHealth(c *fiber.Ctx) error {
	resp := fiber.Map{
		"status":            "ok",
		"stripe_configured": gateway.Configured(),
	}
	if jobQueue != nil {
		ctx := c.Context()
		if n, err := jobQueue.GetQueueSize(ctx); err == nil {
			resp["jobs_pending"] = n
		}
		if n, err := jobQueue.GetDelayedSize(ctx); err == nil {
			resp["jobs_delayed"] = n
		}
		if n, err := jobQueue.GetProcessingSize(ctx); err == nil {
			resp["jobs_processing"] = n
		}
	}
	return c.JSON(resp)
}

// CreateStatusCheckRequest is a monitoring client ping.
type CreateStatusCheckRequest struct {
	ClientName string `json:"client_name" validate:"required"`
}

// HandleCreateStatusCheck records a liveness ping.
func HandleCreateStatusCheck(c *fiber.Ctx) error {
	var req CreateStatusCheckRequest
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}

	check := models.StatusCheck{
		ID:         uuid.New().String(),
		ClientName: req.ClientName,
	}
	if err := database.GetDB().Create(&check).Error; err != nil {
		log.Errorf("[API] Failed to store status check: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal_error",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(check)
}

// HandleListStatusChecks returns the most recent liveness pings.
func HandleListStatusChecks(c *fiber.Ctx) error {
	var checks []models.StatusCheck
	if err := database.GetDB().Order("timestamp DESC").Limit(100).Find(&checks).Error; err != nil {
		log.Errorf("[API] Failed to list status checks: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal_error",
		})
	}
	return c.JSON(checks)
}
