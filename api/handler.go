// Package api - HTTP handlers for catalog and pricing
// These handlers wrap the calculator - they contain NO pricing logic.
package api

import (
	"net/http"
	"strconv"

	"quote-engine/core/catalog"
	"quote-engine/core/pricing"
	"quote-engine/core/quote"
	"quote-engine/core/types"
	"quote-engine/internal/errors"
)

// handleListPlans handles GET /plans
func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.calculator.Engine().Catalog().Plans(), http.StatusOK)
}

// handleGetPlan handles GET /plans/{id}
func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	plan, ok := s.calculator.Engine().FindPricingPlan(id)
	if !ok {
		s.fail(w, errors.NotFound("plan", id))
		return
	}
	s.writeJSON(w, plan, http.StatusOK)
}

// handleMatchPlan handles GET /plans/match?value=
func (s *Server) handleMatchPlan(w http.ResponseWriter, r *http.Request) {
	value, err := queryInt(r, "value")
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, s.calculator.Engine().FindPlanByProjectValue(value), http.StatusOK)
}

// handleFactors handles GET /factors
func (s *Server) handleFactors(w http.ResponseWriter, r *http.Request) {
	f := s.calculator.Engine().Factors()
	resp := FactorsResponse{
		Complexity: f.Complexity.Entries(),
		Material:   f.Material.Entries(),
		Brand:      f.Brand.Entries(),
		Urgency:    f.Urgency.Entries(),
	}
	for _, c := range types.BillingCycles {
		d, err := catalog.BillingDiscount(c)
		if err != nil {
			s.fail(w, err)
			return
		}
		resp.BillingCycles = append(resp.BillingCycles, BillingCycleInfo{
			Cycle:    c,
			Label:    c.Label(),
			Months:   c.Months(),
			Discount: d.String(),
		})
	}
	s.writeJSON(w, resp, http.StatusOK)
}

// handleValidate handles POST /validate
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	engine := s.calculator.Engine()
	plan, ok := engine.FindPricingPlan(req.PlanID)
	if !ok {
		s.fail(w, errors.NotFound("plan", req.PlanID))
		return
	}
	s.writeJSON(w, ValidateResponse{
		Validation:      engine.ValidatePlanForProject(plan, req.ProjectValue),
		RecommendedPlan: engine.FindPlanByProjectValue(req.ProjectValue),
	}, http.StatusOK)
}

// handleBreakdown handles POST /breakdown
func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	var req BreakdownRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if req.ProjectValue < 0 || req.ProjectValue > pricing.MaxAmount {
		s.fail(w, errors.Newf(errors.TypeInput, "project_value must be between 0 and %d", pricing.MaxAmount))
		return
	}
	engine := s.calculator.Engine()
	plan, ok := engine.FindPricingPlan(req.PlanID)
	if !ok {
		s.fail(w, errors.NotFound("plan", req.PlanID))
		return
	}
	cycle, err := catalog.ParseBillingCycle(req.BillingCycle)
	if err != nil {
		s.fail(w, err)
		return
	}

	bd, err := engine.CalculateProjectPriceBreakdown(
		plan,
		req.ProjectValue,
		types.Complexity(req.Complexity),
		types.MaterialQuality(req.Material),
		types.BrandPreference(req.Brand),
		types.Urgency(req.Urgency),
		cycle,
	)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, bd, http.StatusOK)
}

// handleCompare handles GET /billing/compare?base=
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	base, err := queryInt(r, "base")
	if err != nil {
		s.fail(w, err)
		return
	}
	if base < 0 || base > pricing.MaxAmount {
		s.fail(w, errors.Newf(errors.TypeInput, "base must be between 0 and %d", pricing.MaxAmount))
		return
	}
	comps := s.calculator.Engine().CompareBillingCycles(base)
	s.writeJSON(w, CompareResponse{
		BasePrice:   base,
		Comparisons: comps,
		Best:        comps[0],
	}, http.StatusOK)
}

// handleQuoteFromQuery handles GET /quote. Query keys restore a shared
// selection; missing or unknown values fall back to the defaults.
func (s *Server) handleQuoteFromQuery(w http.ResponseWriter, r *http.Request) {
	s.respondQuote(w, s.calculator.ParseSelection(r.URL.Query()))
}

// handleQuote handles POST /quote
func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	var req quote.Request
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	sel, err := s.calculator.NewSelection(req)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respondQuote(w, sel)
}

func (s *Server) respondQuote(w http.ResponseWriter, sel quote.Selection) {
	q, err := s.calculator.Calculate(sel)
	if err != nil {
		s.fail(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.RecordQuote(q.Plan.ID, string(q.Selection.BillingCycle))
	}

	resp := QuoteResponse{Quote: q, Currency: types.CurrencyCLP, Share: q.Selection.Values().Encode()}
	if s.contact != nil {
		if resp.Contact, err = s.contact.Links(q); err != nil {
			s.fail(w, err)
			return
		}
	}
	s.writeJSON(w, resp, http.StatusOK)
}

// queryInt reads a required integer query parameter
func queryInt(r *http.Request, key string) (int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, errors.Newf(errors.TypeInput, "missing query parameter %q", key)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.TypeInput, err, "invalid query parameter %q", key)
	}
	return v, nil
}
