// Package catalog - Catalog validation
// Ensures catalog integrity and enforces invariants.
package catalog

import (
	"fmt"

	"quote-engine/core/types"
)

// ValidationRule is a catalog validation rule over the ordered plan list
type ValidationRule func(plans []types.PricingPlan) []error

// DefaultValidationRules returns the standard validation rules
func DefaultValidationRules() []ValidationRule {
	return []ValidationRule{
		validateNotEmpty,
		validateUniqueIDs,
		validatePlanRanges,
		validateContiguity,
		validateSingleUnboundedTail,
	}
}

// Validate checks the catalog against validation rules
func (c *Catalog) Validate(rules []ValidationRule) []error {
	var errs []error
	for _, rule := range rules {
		errs = append(errs, rule(c.plans)...)
	}
	return errs
}

func validateNotEmpty(plans []types.PricingPlan) []error {
	if len(plans) == 0 {
		return []error{fmt.Errorf("catalog has no plans")}
	}
	return nil
}

func validateUniqueIDs(plans []types.PricingPlan) []error {
	var errs []error
	seen := make(map[string]bool, len(plans))
	for _, p := range plans {
		if p.ID == "" {
			errs = append(errs, fmt.Errorf("plan %q has an empty id", p.Name))
			continue
		}
		if seen[p.ID] {
			errs = append(errs, fmt.Errorf("%s: duplicate plan id", p.ID))
		}
		seen[p.ID] = true
	}
	return errs
}

func validatePlanRanges(plans []types.PricingPlan) []error {
	var errs []error
	for _, p := range plans {
		if p.BasePrice <= 0 {
			errs = append(errs, fmt.Errorf("%s: base price must be positive", p.ID))
		}
		if p.MaxProjectValue != nil && *p.MaxProjectValue < p.MinProjectValue {
			errs = append(errs, fmt.Errorf("%s: max %d below min %d", p.ID, *p.MaxProjectValue, p.MinProjectValue))
		}
	}
	return errs
}

// validateContiguity requires each plan to start right after the previous one ends
func validateContiguity(plans []types.PricingPlan) []error {
	var errs []error
	for i := 1; i < len(plans); i++ {
		prev, cur := plans[i-1], plans[i]
		if prev.MaxProjectValue == nil {
			continue
		}
		if want := *prev.MaxProjectValue + 1; cur.MinProjectValue != want {
			errs = append(errs, fmt.Errorf("%s: min %d does not follow %s max %d (gap or overlap)",
				cur.ID, cur.MinProjectValue, prev.ID, *prev.MaxProjectValue))
		}
	}
	return errs
}

func validateSingleUnboundedTail(plans []types.PricingPlan) []error {
	var errs []error
	for i, p := range plans {
		last := i == len(plans)-1
		if p.MaxProjectValue == nil && !last {
			errs = append(errs, fmt.Errorf("%s: only the last plan may be unbounded", p.ID))
		}
		if p.MaxProjectValue != nil && last {
			errs = append(errs, fmt.Errorf("%s: last plan must be unbounded", p.ID))
		}
	}
	return errs
}

// MustValidate panics if validation fails
func (c *Catalog) MustValidate() {
	errs := c.Validate(DefaultValidationRules())
	if len(errs) > 0 {
		panic(fmt.Sprintf("catalog has %d validation errors: %v", len(errs), errs))
	}
}

func init() {
	Default.MustValidate()
}
