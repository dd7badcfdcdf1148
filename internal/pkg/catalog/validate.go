package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownPackage  = errors.New("unknown package")
	ErrUnknownAddon    = errors.New("unknown addon")
	ErrAddonNotAllowed = errors.New("addon not allowed for package")
	ErrMissingCategory = errors.New("missing or invalid category")
)

// LineItem is one priced component of a validated bundle.
type LineItem struct {
	Code        string
	Name        string
	Price       int64
	BillingType string
}

// ValidatedBundle is the result of bundle validation and pricing.
type ValidatedBundle struct {
	Package      PackageDefinition
	Category     string
	Platform     string
	AddonCodes   []string
	Items        []LineItem
	TotalMonthly int64
	TotalOneTime int64
}

// ValidateBundle enforces eligibility and computes totals for a requested
// bundle. It is pure and deterministic. Duplicate add-on codes are kept as
// given; totals count every occurrence.
func (c *Catalog) ValidateBundle(packageCode string, addonCodes []string, category, platform string) (*ValidatedBundle, error) {
	pkg, ok := c.Package(packageCode)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPackage, packageCode)
	}

	if pkg.RequiresCategory {
		if category == "" || !c.IsValidCategory(category) {
			return nil, fmt.Errorf("%w: package %q requires one of the valid categories", ErrMissingCategory, packageCode)
		}
	}

	bundle := &ValidatedBundle{
		Package:  pkg,
		Category: category,
		Platform: platform,
	}
	bundle.Items = append(bundle.Items, LineItem{
		Code:        pkg.Code,
		Name:        pkg.Name,
		Price:       pkg.MonthlyPrice,
		BillingType: BillingRecurring,
	})
	bundle.TotalMonthly = pkg.MonthlyPrice

	for _, code := range addonCodes {
		addon, ok := c.Addon(code)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAddon, code)
		}
		if !addon.EligibleWith[pkg.Code] {
			return nil, fmt.Errorf("%w: addon %q with package %q", ErrAddonNotAllowed, code, pkg.Code)
		}

		bundle.AddonCodes = append(bundle.AddonCodes, code)
		bundle.Items = append(bundle.Items, LineItem{
			Code:        addon.Code,
			Name:        addon.Name,
			Price:       addon.Price,
			BillingType: addon.BillingType,
		})
		switch addon.BillingType {
		case BillingOneTime:
			bundle.TotalOneTime += addon.Price
		default:
			bundle.TotalMonthly += addon.Price
		}
	}

	return bundle, nil
}
