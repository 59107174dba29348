package quote

import (
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"quote-engine/core/catalog"
	"quote-engine/core/pricing"
	"quote-engine/core/types"
	"quote-engine/internal/errors"
	"quote-engine/internal/logging"
)

// Quote is a priced selection
type Quote struct {
	Selection Selection `json:"selection"`

	// Plan is the plan the breakdown is priced with
	Plan types.PricingPlan `json:"plan"`

	// RecommendedPlan is the plan whose range holds the project value
	RecommendedPlan types.PricingPlan `json:"recommended_plan"`

	// AutoSelected is set when the requested plan was replaced by the
	// recommended one
	AutoSelected bool `json:"auto_selected"`

	ShouldRecommendPlan bool                           `json:"should_recommend_plan"`
	Validation          types.PlanValidation           `json:"validation"`
	Breakdown           *types.ProjectPriceBreakdown   `json:"breakdown"`
	Comparisons         []types.BillingCycleComparison `json:"billing_comparisons"`
	BestBillingCycle    types.BillingCycleComparison   `json:"best_billing_cycle"`
}

// Calculator prices selections with one engine, one set of defaults and one
// value range.
type Calculator struct {
	engine   *pricing.Engine
	defaults Selection
	bounds   Bounds
}

// NewCalculator creates a calculator
func NewCalculator(engine *pricing.Engine, defaults Selection, bounds Bounds) *Calculator {
	return &Calculator{engine: engine, defaults: defaults, bounds: bounds}
}

// Default uses the published catalog and the stock defaults
var Default = NewCalculator(pricing.Default, DefaultSelection(), DefaultBounds)

// Engine returns the pricing engine
func (c *Calculator) Engine() *pricing.Engine {
	return c.engine
}

// Defaults returns the initial selection
func (c *Calculator) Defaults() Selection {
	return c.defaults
}

// Bounds returns the accepted project value range
func (c *Calculator) Bounds() Bounds {
	return c.bounds
}

// ParseSelection restores a selection from URL state. It never fails: a
// missing or unrecognised key keeps its default and the project value is
// clamped into the calculator bounds.
func (c *Calculator) ParseSelection(q url.Values) Selection {
	s := c.defaults
	f := c.engine.Factors()

	if id := q.Get(KeyPlan); id != "" {
		if plan, ok := c.engine.FindPricingPlan(id); ok {
			s.PlanID = plan.ID
		} else {
			s.PlanID = c.engine.Catalog().First().ID
		}
	}
	if raw := q.Get(KeyValue); raw != "" {
		if v, ok := leadingInt(raw); ok {
			s.ProjectValue = c.bounds.Clamp(v)
		}
	}
	if cycle := types.BillingCycle(q.Get(KeyBilling)); cycle.IsValid() {
		s.BillingCycle = cycle
	}
	if l := types.Complexity(q.Get(KeyComplexity)); f.Complexity.Has(l) {
		s.Complexity = l
	}
	if l := types.MaterialQuality(q.Get(KeyMaterial)); f.Material.Has(l) {
		s.Material = l
	}
	if l := types.BrandPreference(q.Get(KeyBrand)); f.Brand.Has(l) {
		s.Brand = l
	}
	if l := types.Urgency(q.Get(KeyUrgency)); f.Urgency.Has(l) {
		s.Urgency = l
	}
	if b, err := strconv.ParseBool(q.Get(KeyOverride)); err == nil {
		s.ManualOverride = b
	}
	return s
}

// leadingInt parses the optional sign and digits at the start of raw.
// Digit runs too long for int64 saturate so Clamp can pin them to a bound.
func leadingInt(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	end := 0
	if end < len(raw) && (raw[end] == '-' || raw[end] == '+') {
		end++
	}
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	v, err := strconv.ParseInt(raw[:end], 10, 64)
	if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
		return v, true
	}
	return v, err == nil
}

// Request is a selection in raw form, as received from a form or flag set.
// Empty fields take the calculator default.
type Request struct {
	Plan           string `json:"plan,omitempty" yaml:"plan"`
	Value          int64  `json:"value,omitempty" yaml:"value"`
	Billing        string `json:"billing,omitempty" yaml:"billing"`
	Complexity     string `json:"complexity,omitempty" yaml:"complexity"`
	Material       string `json:"material,omitempty" yaml:"material"`
	Brand          string `json:"brand,omitempty" yaml:"brand"`
	Urgency        string `json:"urgency,omitempty" yaml:"urgency"`
	ManualOverride bool   `json:"manual_override,omitempty" yaml:"manual_override"`
}

// NewSelection validates a request. Unlike ParseSelection it rejects
// unknown keys and out-of-range values with an INPUT_ERROR.
func (c *Calculator) NewSelection(req Request) (Selection, error) {
	s := c.defaults
	f := c.engine.Factors()
	var err error

	if req.Plan != "" {
		plan, ok := c.engine.FindPricingPlan(req.Plan)
		if !ok {
			return Selection{}, errors.Newf(errors.TypeInput, "unknown plan: %q", req.Plan).WithContext("plan", req.Plan)
		}
		s.PlanID = plan.ID
	}
	if req.Value != 0 {
		if !c.bounds.Contains(req.Value) {
			return Selection{}, errors.Newf(errors.TypeInput, "project value %d outside %d..%d", req.Value, c.bounds.Min, c.bounds.Max).
				WithContext("value", req.Value)
		}
		s.ProjectValue = req.Value
	}
	if req.Billing != "" {
		if s.BillingCycle, err = catalog.ParseBillingCycle(req.Billing); err != nil {
			return Selection{}, err
		}
	}
	if req.Complexity != "" {
		if s.Complexity, err = f.Complexity.Parse(req.Complexity); err != nil {
			return Selection{}, err
		}
	}
	if req.Material != "" {
		if s.Material, err = f.Material.Parse(req.Material); err != nil {
			return Selection{}, err
		}
	}
	if req.Brand != "" {
		if s.Brand, err = f.Brand.Parse(req.Brand); err != nil {
			return Selection{}, err
		}
	}
	if req.Urgency != "" {
		if s.Urgency, err = f.Urgency.Parse(req.Urgency); err != nil {
			return Selection{}, err
		}
	}
	s.ManualOverride = req.ManualOverride
	return s, nil
}

// Calculate prices a selection. Without a manual override the plan follows
// the project value; with one the requested plan is priced as is, even when
// the value falls outside its range.
func (c *Calculator) Calculate(sel Selection) (*Quote, error) {
	requested, ok := c.engine.FindPricingPlan(sel.PlanID)
	if !ok {
		return nil, errors.NotFound("plan", sel.PlanID)
	}

	recommended := c.engine.FindPlanByProjectValue(sel.ProjectValue)
	plan := requested
	if !sel.ManualOverride {
		plan = recommended
	}

	validation := c.engine.ValidatePlanForProject(plan, sel.ProjectValue)
	breakdown, err := c.engine.CalculateProjectPriceBreakdown(
		plan,
		sel.ProjectValue,
		sel.Complexity,
		sel.Material,
		sel.Brand,
		sel.Urgency,
		sel.BillingCycle,
	)
	if err != nil {
		return nil, err
	}

	comparisons := c.engine.CompareBillingCycles(breakdown.AdjustedBasePrice)
	sel.PlanID = plan.ID

	q := &Quote{
		Selection:           sel,
		Plan:                plan,
		RecommendedPlan:     recommended,
		AutoSelected:        !sel.ManualOverride && requested.ID != plan.ID,
		ShouldRecommendPlan: !sel.ManualOverride && recommended.ID != plan.ID && validation.IsValid,
		Validation:          validation,
		Breakdown:           breakdown,
		Comparisons:         comparisons,
		BestBillingCycle:    comparisons[0],
	}

	logging.Debug("quote computed",
		zap.String("plan", plan.ID),
		zap.Int64("project_value", sel.ProjectValue),
		zap.String("billing_cycle", string(sel.BillingCycle)),
		zap.Int64("final_price", breakdown.FinalPrice),
	)
	return q, nil
}
