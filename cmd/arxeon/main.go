package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/arxeon/arxeon-api/app/controllers"
	"github.com/arxeon/arxeon-api/internal/pkg/audit"
	"github.com/arxeon/arxeon-api/internal/pkg/billing"
	"github.com/arxeon/arxeon-api/internal/pkg/cache"
	"github.com/arxeon/arxeon-api/internal/pkg/catalog"
	"github.com/arxeon/arxeon-api/internal/pkg/config"
	"github.com/arxeon/arxeon-api/internal/pkg/database"
	"github.com/arxeon/arxeon-api/internal/pkg/env"
	"github.com/arxeon/arxeon-api/internal/pkg/jobqueue"
	"github.com/arxeon/arxeon-api/internal/pkg/mail"
	"github.com/arxeon/arxeon-api/internal/pkg/payments"
	"github.com/arxeon/arxeon-api/internal/pkg/router"
	"github.com/arxeon/arxeon-api/internal/pkg/textgen"
)

func main() {
	app, cfg := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort))
	log.Fatal(err)
}

// NewApplication wires the full service graph and returns the configured
// fiber app.
func NewApplication() (*fiber.App, *config.Config) {
	env.SetupEnvFile()
	cfg := config.Load()
	database.SetupDatabase()
	cache.SetupCache(cfg)

	db := database.GetDB()
	cat := catalog.Default()
	gateway := payments.NewClient(cfg)
	mailer := mail.NewSMTPMailer(cfg)

	billingRepo := billing.NewRepository(db)
	checkoutSvc := billing.NewCheckoutService(billingRepo, cat, gateway, cfg)
	reconciler := billing.NewReconciler(billingRepo, cat, mailer)

	manager := jobqueue.GetManager()
	scheduler := jobqueue.NewAuditScheduler(manager.GetQueue())
	pipeline := audit.NewPipeline(audit.NewRepository(db), textgen.NewClient(cfg), mailer, scheduler, cfg)
	jobqueue.RegisterAuditProcessors(manager.GetQueue(), pipeline)
	manager.Start()

	controllers.Initialize(cfg, cat, checkoutSvc, reconciler, gateway, pipeline, manager.GetQueue())

	app := fiber.New(fiber.Config{
		AppName: "Arxéon API",
	})
	corsConf := cors.Config{AllowOrigins: cfg.FrontendURL}
	if env.IsDev() {
		corsConf.AllowOrigins = "*"
	}
	app.Use(recover.New(), logger.New(), cors.New(corsConf))

	router.InstallRouter(app)

	return app, cfg
}
