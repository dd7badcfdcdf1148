package controllers

import (
	"github.com/gofiber/fiber/v2"
)

// HandleGetCatalog returns the public package/add-on listing. Prices are
// CHF centesimi; no gateway identifiers leak into the response.
func HandleGetCatalog(c *fiber.Ctx) error {
	packages := make([]fiber.Map, 0)
	for _, pkg := range appCatalog.Packages() {
		packages = append(packages, fiber.Map{
			"code":              pkg.Code,
			"name":              pkg.Name,
			"monthly_price":     pkg.MonthlyPrice,
			"requires_category": pkg.RequiresCategory,
		})
	}

	addons := make([]fiber.Map, 0)
	for _, addon := range appCatalog.Addons() {
		eligible := make([]string, 0, len(addon.EligibleWith))
		for _, pkg := range appCatalog.Packages() {
			if addon.EligibleWith[pkg.Code] {
				eligible = append(eligible, pkg.Code)
			}
		}
		addons = append(addons, fiber.Map{
			"code":          addon.Code,
			"name":          addon.Name,
			"price":         addon.Price,
			"billing_type":  addon.BillingType,
			"eligible_with": eligible,
		})
	}

	return c.JSON(fiber.Map{
		"packages":   packages,
		"addons":     addons,
		"categories": appCatalog.Categories(),
	})
}

// HandleGetStripeConfig exposes the publishable key the frontend needs to
// initialize its Stripe client.
func HandleGetStripeConfig(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"publishable_key": appConfig.StripePublishableKey,
	})
}
