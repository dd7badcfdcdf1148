package controllers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/arxeon/arxeon-api/internal/pkg/audit"
)

// SubmitAuditRequest is the lead-qualification form payload.
type SubmitAuditRequest struct {
	FullName        string   `json:"full_name" validate:"required"`
	Email           string   `json:"email" validate:"required,email"`
	Company         string   `json:"company" validate:"required"`
	Website         string   `json:"website"`
	OrderID         string   `json:"order_id"`
	SocialPlatforms []string `json:"social_platforms"`
	SocialLinks     string   `json:"social_links"`
	HasGMB          bool     `json:"has_gmb"`
	GMBLink         string   `json:"gmb_link"`
	AdsPlatforms    []string `json:"ads_platforms"`
	MainObjective   string   `json:"main_objective" validate:"required"`
	Notes           string   `json:"notes"`
}

// HandleSubmitAudit accepts a form submission and returns its id right
// away; evaluation and delivery run on the background queue.
func HandleSubmitAudit(c *fiber.Ctx) error {
	var req SubmitAuditRequest
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}

	record, err := auditPipeline.Intake(c.Context(), audit.IntakeInput{
		FullName:        req.FullName,
		Email:           req.Email,
		Company:         req.Company,
		Website:         req.Website,
		OrderID:         req.OrderID,
		SocialPlatforms: req.SocialPlatforms,
		SocialLinks:     req.SocialLinks,
		HasGMB:          req.HasGMB,
		GMBLink:         req.GMBLink,
		AdsPlatforms:    req.AdsPlatforms,
		MainObjective:   req.MainObjective,
		Notes:           req.Notes,
	})
	if err != nil {
		log.Errorf("[API] Audit intake failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "intake_failed",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":     record.ID,
		"status": record.Status,
	})
}

// HandleGetAudit returns the audit request with its evaluation state.
func HandleGetAudit(c *fiber.Ctx) error {
	record, err := auditPipeline.Get(c.Params("id"))
	if err != nil {
		if isNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "audit_not_found",
			})
		}
		log.Errorf("[API] Audit lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal_error",
		})
	}
	return c.JSON(record)
}
