package catalog

import (
	"errors"
	"testing"
)

func TestValidateBundle_Totals(t *testing.T) {
	cat := Default()

	tests := []struct {
		name        string
		pkg         string
		addons      []string
		category    string
		wantMonthly int64
		wantOneTime int64
	}{
		{name: "basic alone", pkg: PackageBasic, wantMonthly: 79000},
		{name: "gold alone", pkg: PackageGold, wantMonthly: 249000},
		{name: "premium with category", pkg: PackagePremium, category: "social", wantMonthly: 149000},
		{
			name: "basic with recurring addon", pkg: PackageBasic,
			addons: []string{"extra_social"}, wantMonthly: 79000 + 29000,
		},
		{
			name: "basic with one-time addon", pkg: PackageBasic,
			addons: []string{"landing_page"}, wantMonthly: 79000, wantOneTime: 99000,
		},
		{
			name: "gold with mixed addons", pkg: PackageGold,
			addons:      []string{"extra_social", "ads_management", "monthly_report", "landing_page", "branding_kit", "seo_setup"},
			wantMonthly: 249000 + 29000 + 49000 + 19000,
			wantOneTime: 99000 + 149000 + 89000,
		},
		{
			name: "duplicate addons count twice", pkg: PackageBasic,
			addons: []string{"extra_social", "extra_social"}, wantMonthly: 79000 + 2*29000,
		},
	}

	for _, tt := range tests {
		bundle, err := cat.ValidateBundle(tt.pkg, tt.addons, tt.category, "")
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.name, err)
		}
		if bundle.TotalMonthly != tt.wantMonthly {
			t.Fatalf("%s: TotalMonthly = %d, want %d", tt.name, bundle.TotalMonthly, tt.wantMonthly)
		}
		if bundle.TotalOneTime != tt.wantOneTime {
			t.Fatalf("%s: TotalOneTime = %d, want %d", tt.name, bundle.TotalOneTime, tt.wantOneTime)
		}
		if len(bundle.Items) != 1+len(tt.addons) {
			t.Fatalf("%s: got %d line items, want %d", tt.name, len(bundle.Items), 1+len(tt.addons))
		}
	}
}

func TestValidateBundle_AddonOrderPreserved(t *testing.T) {
	cat := Default()

	bundle, err := cat.ValidateBundle(PackageGold, []string{"seo_setup", "extra_social", "monthly_report"}, "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"seo_setup", "extra_social", "monthly_report"}
	for i, code := range want {
		if bundle.AddonCodes[i] != code {
			t.Fatalf("AddonCodes[%d] = %q, want %q", i, bundle.AddonCodes[i], code)
		}
	}
}

func TestValidateBundle_Eligibility(t *testing.T) {
	cat := Default()

	// Every add-on against every package it is NOT eligible with.
	ineligible := []struct {
		pkg   string
		addon string
	}{
		{PackageBasic, "ads_management"},
		{PackageBasic, "monthly_report"},
		{PackageBasic, "branding_kit"},
		{PackageBasic, "seo_setup"},
		{PackagePremium, "monthly_report"},
		{PackagePremium, "seo_setup"},
	}
	for _, tt := range ineligible {
		category := ""
		if tt.pkg == PackagePremium {
			category = "social"
		}
		_, err := cat.ValidateBundle(tt.pkg, []string{tt.addon}, category, "")
		if !errors.Is(err, ErrAddonNotAllowed) {
			t.Fatalf("ValidateBundle(%s, %s): err = %v, want ErrAddonNotAllowed", tt.pkg, tt.addon, err)
		}
	}

	eligible := []struct {
		pkg   string
		addon string
	}{
		{PackageBasic, "extra_social"},
		{PackageBasic, "landing_page"},
		{PackagePremium, "extra_social"},
		{PackagePremium, "ads_management"},
		{PackagePremium, "landing_page"},
		{PackagePremium, "branding_kit"},
		{PackageGold, "extra_social"},
		{PackageGold, "ads_management"},
		{PackageGold, "monthly_report"},
		{PackageGold, "landing_page"},
		{PackageGold, "branding_kit"},
		{PackageGold, "seo_setup"},
	}
	for _, tt := range eligible {
		category := ""
		if tt.pkg == PackagePremium {
			category = "ads"
		}
		if _, err := cat.ValidateBundle(tt.pkg, []string{tt.addon}, category, ""); err != nil {
			t.Fatalf("ValidateBundle(%s, %s): unexpected error: %v", tt.pkg, tt.addon, err)
		}
	}
}

func TestValidateBundle_CategoryRules(t *testing.T) {
	cat := Default()

	if _, err := cat.ValidateBundle(PackagePremium, nil, "", ""); !errors.Is(err, ErrMissingCategory) {
		t.Fatalf("premium without category: err = %v, want ErrMissingCategory", err)
	}
	if _, err := cat.ValidateBundle(PackagePremium, nil, "billboards", ""); !errors.Is(err, ErrMissingCategory) {
		t.Fatalf("premium with invalid category: err = %v, want ErrMissingCategory", err)
	}
	for _, category := range cat.Categories() {
		if _, err := cat.ValidateBundle(PackagePremium, nil, category, ""); err != nil {
			t.Fatalf("premium with category %q: unexpected error: %v", category, err)
		}
	}

	// Non-premium packages accept an absent category; a provided one is
	// carried through untouched.
	bundle, err := cat.ValidateBundle(PackageBasic, nil, "social", "instagram")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bundle.Category != "social" || bundle.Platform != "instagram" {
		t.Fatalf("category/platform not carried: %q / %q", bundle.Category, bundle.Platform)
	}
}

func TestValidateBundle_UnknownCodes(t *testing.T) {
	cat := Default()

	if _, err := cat.ValidateBundle("platinum", nil, "", ""); !errors.Is(err, ErrUnknownPackage) {
		t.Fatalf("unknown package: err = %v, want ErrUnknownPackage", err)
	}
	if _, err := cat.ValidateBundle(PackageBasic, []string{"crypto_bundle"}, "", ""); !errors.Is(err, ErrUnknownAddon) {
		t.Fatalf("unknown addon: err = %v, want ErrUnknownAddon", err)
	}
}
