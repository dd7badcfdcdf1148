package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/arxeon/arxeon-api/internal/pkg/payments"
)

// HandleStripeWebhook authenticates and applies a gateway event. Duplicate
// deliveries and unknown event types are acknowledged with 200 so Stripe
// stops retrying them; only authentication failures get a 400.
func HandleStripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	signature := c.Get("Stripe-Signature")

	ev, err := gateway.VerifyAndParseEvent(payload, signature)
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrInvalidSignature):
			log.Warnf("[Webhook] Rejected delivery with invalid signature: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid_signature",
			})
		case errors.Is(err, payments.ErrInvalidPayload):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid_payload",
			})
		default:
			log.Errorf("[Webhook] Failed to parse delivery: %v", err)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid_payload",
			})
		}
	}

	outcome, err := reconciler.Process(c.Context(), ev, payload)
	if err != nil {
		log.Errorf("[Webhook] Failed to process event %s (%s): %v", ev.ID, ev.Type, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "processing_failed",
		})
	}

	resp := fiber.Map{"received": true}
	if outcome.Duplicate {
		resp["duplicate"] = true
	}
	if outcome.Ignored {
		resp["ignored"] = true
	}
	return c.JSON(resp)
}
