package controllers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/arxeon/arxeon-api/internal/pkg/billing"
	"github.com/arxeon/arxeon-api/internal/pkg/payments"
)

// CreateCheckoutSessionRequest is the bundle the client wants to buy.
type CreateCheckoutSessionRequest struct {
	Package       string   `json:"package" validate:"required"`
	Addons        []string `json:"addons"`
	Category      string   `json:"category"`
	Platform      string   `json:"platform"`
	CustomerEmail string   `json:"customer_email" validate:"omitempty,email"`
}

// HandleCreateCheckoutSession validates the requested bundle, creates the
// pending subscription and returns the gateway redirect URL.
func HandleCreateCheckoutSession(c *fiber.Ctx) error {
	var req CreateCheckoutSessionRequest
	if ok, err := parseAndValidate(c, &req); !ok {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Context(), appConfig.GatewayTimeout)
	defer cancel()

	result, err := checkoutSvc.CreateCheckout(ctx, billing.CheckoutInput{
		PackageCode:   req.Package,
		AddonCodes:    req.Addons,
		Category:      req.Category,
		Platform:      req.Platform,
		CustomerEmail: req.CustomerEmail,
	})
	if err != nil {
		if code, ok := bundleErrorCode(err); ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   code,
				"message": err.Error(),
			})
		}
		if errors.Is(err, payments.ErrGatewayNotConfigured) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "stripe_not_configured",
			})
		}
		log.Errorf("[API] Checkout session creation failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "gateway_error",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"subscription_id": result.SubscriptionID,
		"session_id":      result.SessionID,
		"url":             result.URL,
	})
}

// HandleGetSubscription returns the local subscription record.
func HandleGetSubscription(c *fiber.Ctx) error {
	sub, err := checkoutSvc.GetSubscription(c.Params("id"))
	if err != nil {
		if isNotFound(err) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "subscription_not_found",
			})
		}
		log.Errorf("[API] Subscription lookup failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal_error",
		})
	}
	return c.JSON(sub)
}

// HandleVerifySession checks a checkout session against the gateway and
// returns its payment status together with the local record, so the
// thank-you page can render without waiting for the webhook.
func HandleVerifySession(c *fiber.Ctx) error {
	sessionID := c.Params("session_id")

	ctx, cancel := context.WithTimeout(c.Context(), appConfig.GatewayTimeout)
	defer cancel()

	info, err := gateway.RetrieveSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, payments.ErrGatewayNotConfigured) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "stripe_not_configured",
			})
		}
		log.Warnf("[API] Session verification failed for %s: %v", sessionID, err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"valid": false,
			"error": "session_not_found",
		})
	}

	resp := fiber.Map{
		"valid":          info.PaymentStatus == "paid",
		"payment_status": info.PaymentStatus,
	}
	if subID := info.Metadata["subscription_id"]; subID != "" {
		if sub, err := checkoutSvc.GetSubscription(subID); err == nil {
			resp["subscription"] = sub
		}
	}
	return c.JSON(resp)
}
