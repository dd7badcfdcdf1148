package catalog

// Billing types for catalog entries.
const (
	BillingRecurring = "recurring"
	BillingOneTime   = "one_time"
)

// Package codes.
const (
	PackageBasic   = "basic"
	PackagePremium = "premium"
	PackageGold    = "gold"
)

// PackageDefinition describes a bookable package tier. Prices are CHF
// centesimi per month; packages are always recurring.
type PackageDefinition struct {
	Code             string
	Name             string
	MonthlyPrice     int64
	RequiresCategory bool
}

// AddonDefinition describes an optional add-on and the packages that may
// include it.
type AddonDefinition struct {
	Code         string
	Name         string
	Price        int64
	BillingType  string
	EligibleWith map[string]bool
}

// Catalog is the immutable package/add-on mapping built once at process
// start. It carries no state and is safe for unsynchronized concurrent
// reads.
type Catalog struct {
	packages   map[string]PackageDefinition
	addons     map[string]AddonDefinition
	categories map[string]bool
}

// New builds a catalog from explicit definitions.
func New(packages []PackageDefinition, addons []AddonDefinition, categories []string) *Catalog {
	c := &Catalog{
		packages:   make(map[string]PackageDefinition, len(packages)),
		addons:     make(map[string]AddonDefinition, len(addons)),
		categories: make(map[string]bool, len(categories)),
	}
	for _, p := range packages {
		c.packages[p.Code] = p
	}
	for _, a := range addons {
		c.addons[a.Code] = a
	}
	for _, cat := range categories {
		c.categories[cat] = true
	}
	return c
}

func eligible(codes ...string) map[string]bool {
	m := make(map[string]bool, len(codes))
	for _, code := range codes {
		m[code] = true
	}
	return m
}

// Default returns the production catalog.
func Default() *Catalog {
	return New(
		[]PackageDefinition{
			{Code: PackageBasic, Name: "Pacchetto Basic", MonthlyPrice: 79000},
			{Code: PackagePremium, Name: "Pacchetto Premium", MonthlyPrice: 149000, RequiresCategory: true},
			{Code: PackageGold, Name: "Pacchetto Gold", MonthlyPrice: 249000},
		},
		[]AddonDefinition{
			{Code: "extra_social", Name: "Canale social aggiuntivo", Price: 29000, BillingType: BillingRecurring, EligibleWith: eligible(PackageBasic, PackagePremium, PackageGold)},
			{Code: "ads_management", Name: "Gestione campagne Ads", Price: 49000, BillingType: BillingRecurring, EligibleWith: eligible(PackagePremium, PackageGold)},
			{Code: "monthly_report", Name: "Report mensile avanzato", Price: 19000, BillingType: BillingRecurring, EligibleWith: eligible(PackageGold)},
			{Code: "landing_page", Name: "Landing page dedicata", Price: 99000, BillingType: BillingOneTime, EligibleWith: eligible(PackageBasic, PackagePremium, PackageGold)},
			{Code: "branding_kit", Name: "Kit branding completo", Price: 149000, BillingType: BillingOneTime, EligibleWith: eligible(PackagePremium, PackageGold)},
			{Code: "seo_setup", Name: "Setup SEO iniziale", Price: 89000, BillingType: BillingOneTime, EligibleWith: eligible(PackageGold)},
		},
		[]string{"social", "ads", "seo", "content"},
	)
}

// Package looks up a package definition by code.
func (c *Catalog) Package(code string) (PackageDefinition, bool) {
	p, ok := c.packages[code]
	return p, ok
}

// Addon looks up an add-on definition by code.
func (c *Catalog) Addon(code string) (AddonDefinition, bool) {
	a, ok := c.addons[code]
	return a, ok
}

// IsValidCategory reports whether the category is in the fixed valid set.
func (c *Catalog) IsValidCategory(category string) bool {
	return c.categories[category]
}

// Packages returns all package definitions in a stable order.
func (c *Catalog) Packages() []PackageDefinition {
	out := make([]PackageDefinition, 0, len(c.packages))
	for _, code := range []string{PackageBasic, PackagePremium, PackageGold} {
		if p, ok := c.packages[code]; ok {
			out = append(out, p)
		}
	}
	// Include any non-standard packages deterministically after the known tiers.
	for code, p := range c.packages {
		switch code {
		case PackageBasic, PackagePremium, PackageGold:
		default:
			out = append(out, p)
		}
	}
	return out
}

// Addons returns all add-on definitions.
func (c *Catalog) Addons() []AddonDefinition {
	out := make([]AddonDefinition, 0, len(c.addons))
	for _, a := range c.addons {
		out = append(out, a)
	}
	return out
}

// Categories returns the valid included-category codes.
func (c *Catalog) Categories() []string {
	out := make([]string, 0, len(c.categories))
	for cat := range c.categories {
		out = append(out, cat)
	}
	return out
}
