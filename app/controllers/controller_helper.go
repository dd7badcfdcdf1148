package controllers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/arxeon/arxeon-api/internal/pkg/audit"
	"github.com/arxeon/arxeon-api/internal/pkg/billing"
	"github.com/arxeon/arxeon-api/internal/pkg/catalog"
	"github.com/arxeon/arxeon-api/internal/pkg/config"
	"github.com/arxeon/arxeon-api/internal/pkg/jobqueue"
	"github.com/arxeon/arxeon-api/internal/pkg/payments"
)

var (
	appConfig     *config.Config
	appCatalog    *catalog.Catalog
	checkoutSvc   *billing.CheckoutService
	reconciler    *billing.Reconciler
	gateway       *payments.Client
	auditPipeline *audit.Pipeline
	jobQueue      *jobqueue.Queue
	validate      = validator.New()
)

// Initialize wires the controllers with their collaborators. Must be called
// once before the routes are installed.
func Initialize(
	cfg *config.Config,
	cat *catalog.Catalog,
	checkout *billing.CheckoutService,
	rec *billing.Reconciler,
	gw *payments.Client,
	pipeline *audit.Pipeline,
	queue *jobqueue.Queue,
) {
	appConfig = cfg
	appCatalog = cat
	checkoutSvc = checkout
	reconciler = rec
	gateway = gw
	auditPipeline = pipeline
	jobQueue = queue
}

// parseAndValidate decodes the JSON body into dst and runs struct
// validation. On failure it writes a client-fixable 400 and reports
// ok=false so the handler must stop before touching any collaborator.
func parseAndValidate(c *fiber.Ctx, dst interface{}) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "invalid_body",
			"message": err.Error(),
		})
	}
	if err := validate.Struct(dst); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "validation_failed",
			"message": err.Error(),
		})
	}
	return true, nil
}

// bundleErrorCode maps a catalog validation error to its API error code.
func bundleErrorCode(err error) (string, bool) {
	switch {
	case errors.Is(err, catalog.ErrUnknownPackage):
		return "unknown_package", true
	case errors.Is(err, catalog.ErrUnknownAddon):
		return "unknown_addon", true
	case errors.Is(err, catalog.ErrAddonNotAllowed):
		return "addon_not_allowed", true
	case errors.Is(err, catalog.ErrMissingCategory):
		return "missing_category", true
	default:
		return "", false
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
