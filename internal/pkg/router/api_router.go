package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/arxeon/arxeon-api/app/controllers"
)

type ApiRouter struct {
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	// The webhook route stays outside the limiter: gateway retries must
	// never be throttled into delivery failures.
	app.Post("/api/webhook/stripe", controllers.HandleStripeWebhook)

	api := app.Group("/api", limiter.New(limiter.Config{Max: 60}))
	api.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Arxéon API",
		})
	})

	api.Get("/health", controllers.HandleHealth)
	api.Get("/catalog", controllers.HandleGetCatalog)
	api.Get("/config/stripe", controllers.HandleGetStripeConfig)

	api.Post("/checkout/sessions", controllers.HandleCreateCheckoutSession)
	api.Get("/checkout/verify/:session_id", controllers.HandleVerifySession)
	api.Get("/subscriptions/:id", controllers.HandleGetSubscription)

	api.Post("/audits", controllers.HandleSubmitAudit)
	api.Get("/audits/:id", controllers.HandleGetAudit)

	api.Post("/status", controllers.HandleCreateStatusCheck)
	api.Get("/status", controllers.HandleListStatusChecks)
}

func NewApiRouter() *ApiRouter {
	return &ApiRouter{}
}
