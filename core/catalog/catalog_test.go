package catalog

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"quote-engine/core/types"
	"quote-engine/internal/errors"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	if errs := Default.Validate(DefaultValidationRules()); len(errs) != 0 {
		t.Fatalf("default catalog invalid: %v", errs)
	}
	if Default.Len() != 4 {
		t.Fatalf("expected 4 plans, got %d", Default.Len())
	}
}

// TestCatalogPartitionsValueLine checks ranges have no gaps or overlaps
func TestCatalogPartitionsValueLine(t *testing.T) {
	list := Default.Plans()
	for i := 1; i < len(list); i++ {
		prev := list[i-1]
		if prev.MaxProjectValue == nil {
			t.Fatalf("%s is unbounded but not last", prev.ID)
		}
		if list[i].MinProjectValue != *prev.MaxProjectValue+1 {
			t.Errorf("%s starts at %d, expected %d", list[i].ID, list[i].MinProjectValue, *prev.MaxProjectValue+1)
		}
	}
	if !Default.Last().IsUnbounded() {
		t.Error("last plan must be unbounded")
	}
}

func TestLookup(t *testing.T) {
	plan, ok := Default.Lookup("estandar")
	if !ok {
		t.Fatal("estandar not found")
	}
	if plan.Name != "Plan Estándar" || plan.BasePrice != 220000 {
		t.Errorf("unexpected plan: %+v", plan)
	}

	if _, ok := Default.Lookup("oro"); ok {
		t.Error("unknown plan id should not be found")
	}
}

func TestPlansAreCopies(t *testing.T) {
	plan, _ := Default.Lookup("basico")
	*plan.MaxProjectValue = 1
	plan.BasePrice = 1

	again, _ := Default.Lookup("basico")
	if *again.MaxProjectValue != 2500000 || again.BasePrice != 150000 {
		t.Fatalf("catalog was mutated through a returned plan: %+v", again)
	}

	list := Default.Plans()
	list[0].Name = "changed"
	if Default.First().Name != "Plan Básico" {
		t.Fatal("catalog was mutated through Plans()")
	}
}

func TestValidationRulesCatchBrokenCatalogs(t *testing.T) {
	tests := []struct {
		name    string
		plans   []types.PricingPlan
		wantErr string
	}{
		{
			name:    "empty",
			plans:   nil,
			wantErr: "no plans",
		},
		{
			name: "gap",
			plans: []types.PricingPlan{
				{ID: "a", BasePrice: 1, MinProjectValue: 0, MaxProjectValue: bound(100)},
				{ID: "b", BasePrice: 1, MinProjectValue: 150},
			},
			wantErr: "gap or overlap",
		},
		{
			name: "overlap",
			plans: []types.PricingPlan{
				{ID: "a", BasePrice: 1, MinProjectValue: 0, MaxProjectValue: bound(100)},
				{ID: "b", BasePrice: 1, MinProjectValue: 50},
			},
			wantErr: "gap or overlap",
		},
		{
			name: "unbounded in the middle",
			plans: []types.PricingPlan{
				{ID: "a", BasePrice: 1, MinProjectValue: 0},
				{ID: "b", BasePrice: 1, MinProjectValue: 50, MaxProjectValue: bound(60)},
			},
			wantErr: "only the last plan may be unbounded",
		},
		{
			name: "duplicate id",
			plans: []types.PricingPlan{
				{ID: "a", BasePrice: 1, MinProjectValue: 0, MaxProjectValue: bound(10)},
				{ID: "a", BasePrice: 1, MinProjectValue: 11},
			},
			wantErr: "duplicate plan id",
		},
		{
			name: "inverted range",
			plans: []types.PricingPlan{
				{ID: "a", BasePrice: 1, MinProjectValue: 10, MaxProjectValue: bound(5)},
				{ID: "b", BasePrice: 1, MinProjectValue: 6},
			},
			wantErr: "below min",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := New(tt.plans).Validate(DefaultValidationRules())
			if len(errs) == 0 {
				t.Fatal("expected validation errors")
			}
			found := false
			for _, err := range errs {
				if strings.Contains(err.Error(), tt.wantErr) {
					found = true
				}
			}
			if !found {
				t.Errorf("expected an error containing %q, got %v", tt.wantErr, errs)
			}
		})
	}
}

func TestMustValidatePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic for an empty catalog")
		}
	}()
	New(nil).MustValidate()
}

func TestFactorTables(t *testing.T) {
	tests := []struct {
		name   string
		lookup func() (types.FactorEntry, error)
		want   string
	}{
		{"complexity small", func() (types.FactorEntry, error) { return Complexity.Lookup(types.ComplexitySmall) }, "0.85"},
		{"complexity industrial", func() (types.FactorEntry, error) { return Complexity.Lookup(types.ComplexityIndustrial) }, "1.35"},
		{"material luxury", func() (types.FactorEntry, error) { return Material.Lookup(types.MaterialLuxury) }, "1.5"},
		{"brand economic", func() (types.FactorEntry, error) { return Brand.Lookup(types.BrandEconomic) }, "0.9"},
		{"urgency priority", func() (types.FactorEntry, error) { return Urgency.Lookup(types.UrgencyPriority) }, "1.15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := tt.lookup()
			if err != nil {
				t.Fatalf("lookup failed: %v", err)
			}
			if !entry.Factor.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("factor = %s, want %s", entry.Factor, tt.want)
			}
			if entry.Description == "" {
				t.Error("description must not be empty")
			}
		})
	}
}

func TestFactorLookupUnknownLevelFails(t *testing.T) {
	_, err := Urgency.Lookup("yesterday")
	if err == nil {
		t.Fatal("expected error for unknown urgency level")
	}
	if !errors.IsType(err, errors.TypeInput) {
		t.Errorf("expected INPUT_ERROR, got %v", err)
	}

	if _, err := Complexity.Parse("huge"); err == nil {
		t.Error("Parse should reject unknown levels")
	}
	level, err := Brand.Parse("premium")
	if err != nil || level != types.BrandPremium {
		t.Errorf("Parse(premium) = %q, %v", level, err)
	}
}

func TestLevelsOrder(t *testing.T) {
	got := Complexity.Levels()
	want := []types.Complexity{types.ComplexitySmall, types.ComplexityMedium, types.ComplexityLarge, types.ComplexityIndustrial}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("level %d = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestBillingDiscounts(t *testing.T) {
	want := map[types.BillingCycle]string{
		types.BillingMonthly:   "0",
		types.BillingQuarterly: "0.03",
		types.BillingSemestral: "0.08",
		types.BillingAnnual:    "0.15",
	}
	for cycle, rate := range want {
		got, err := BillingDiscount(cycle)
		if err != nil {
			t.Fatalf("%s: %v", cycle, err)
		}
		if !got.Equal(decimal.RequireFromString(rate)) {
			t.Errorf("%s discount = %s, want %s", cycle, got, rate)
		}
	}

	if _, err := BillingDiscount("weekly"); err == nil {
		t.Error("expected error for unknown cycle")
	}
	if _, err := ParseBillingCycle("biennial"); err == nil {
		t.Error("expected parse error for unknown cycle")
	}
}

func TestFeatureValue(t *testing.T) {
	plan, _ := Default.Lookup("empresarial")
	enabled, text := FeatureValue(plan.Features, "warranty_months")
	if !enabled || text != "5 años" {
		t.Errorf("warranty = %v %q", enabled, text)
	}

	basic, _ := Default.Lookup("basico")
	if enabled, _ := FeatureValue(basic.Features, "monitoring"); enabled {
		t.Error("basico should not include monitoring")
	}
	if _, text := FeatureValue(basic.Features, "warranty_months"); text != "1 año" {
		t.Errorf("basico warranty text = %q", text)
	}
	for _, label := range FeatureLabels {
		if label.Key == "" || label.Label == "" || label.Category == "" {
			t.Errorf("incomplete feature label %+v", label)
		}
	}
}
