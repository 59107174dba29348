package api

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"quote-engine/adapters/storage"
	"quote-engine/internal/errors"
)

// handleListQuotes handles GET /quotes?limit=&offset=
func (s *Server) handleListQuotes(w http.ResponseWriter, r *http.Request) {
	filter := &storage.ListFilter{}
	for key, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			s.fail(w, errors.Newf(errors.TypeInput, "invalid query parameter %q", key))
			return
		}
		*dst = v
	}

	quotes, err := s.store.ListQuotes(r.Context(), filter)
	if err != nil {
		s.fail(w, err)
		return
	}
	if quotes == nil {
		quotes = []*storage.Quote{}
	}
	s.writeJSON(w, ListQuotesResponse{Quotes: quotes, Count: len(quotes)}, http.StatusOK)
}

// handleCreateQuote handles POST /quotes
func (s *Server) handleCreateQuote(w http.ResponseWriter, r *http.Request) {
	var req CreateQuoteRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}

	q := &req.Quote
	if req.Calculation != nil {
		sel, err := s.calculator.NewSelection(*req.Calculation)
		if err != nil {
			s.fail(w, err)
			return
		}
		calc, err := s.calculator.Calculate(sel)
		if err != nil {
			s.fail(w, err)
			return
		}
		q = storage.FromCalculation(calc, req.ClientName, req.ClientRUT)
		if req.ProjectTitle != "" {
			q.ProjectTitle = req.ProjectTitle
		}
		if req.ProjectDescription != "" {
			q.ProjectDescription = req.ProjectDescription
		}
		q.Notes = req.Notes
	}
	if q.ClientName == "" {
		s.fail(w, errors.Input("client_name is required"))
		return
	}

	if err := s.store.CreateQuote(r.Context(), q); err != nil {
		s.fail(w, err)
		return
	}
	if s.metrics != nil {
		s.metrics.QuotesSaved.Inc()
	}
	s.logger.Info("quote saved", zap.String("id", q.ID), zap.Int("line_items", len(q.LineItems)))
	s.writeJSON(w, q, http.StatusCreated)
}

// handleGetQuote handles GET /quotes/{id}
func (s *Server) handleGetQuote(w http.ResponseWriter, r *http.Request) {
	q, err := s.store.GetQuote(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, q, http.StatusOK)
}

// handleUpdateQuote handles PATCH /quotes/{id}
func (s *Server) handleUpdateQuote(w http.ResponseWriter, r *http.Request) {
	var patch storage.QuotePatch
	if err := decodeJSON(r, &patch); err != nil {
		s.fail(w, err)
		return
	}
	q, err := s.store.UpdateQuote(r.Context(), r.PathValue("id"), &patch)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, q, http.StatusOK)
}

// handleDeleteQuote handles DELETE /quotes/{id}
func (s *Server) handleDeleteQuote(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteQuote(r.Context(), r.PathValue("id")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleAddLineItem handles POST /quotes/{id}/items
func (s *Server) handleAddLineItem(w http.ResponseWriter, r *http.Request) {
	var item storage.LineItem
	if err := decodeJSON(r, &item); err != nil {
		s.fail(w, err)
		return
	}
	if item.Title == "" {
		s.fail(w, errors.Input("title is required"))
		return
	}
	if err := s.store.AddLineItem(r.Context(), r.PathValue("id"), &item); err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, item, http.StatusCreated)
}

// handleUpdateLineItem handles PATCH /quotes/{id}/items/{item}
func (s *Server) handleUpdateLineItem(w http.ResponseWriter, r *http.Request) {
	if err := s.checkItemOwner(r); err != nil {
		s.fail(w, err)
		return
	}
	var patch storage.LineItemPatch
	if err := decodeJSON(r, &patch); err != nil {
		s.fail(w, err)
		return
	}
	item, err := s.store.UpdateLineItem(r.Context(), r.PathValue("item"), &patch)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, item, http.StatusOK)
}

// handleDeleteLineItem handles DELETE /quotes/{id}/items/{item}
func (s *Server) handleDeleteLineItem(w http.ResponseWriter, r *http.Request) {
	if err := s.checkItemOwner(r); err != nil {
		s.fail(w, err)
		return
	}
	if err := s.store.DeleteLineItem(r.Context(), r.PathValue("item")); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// checkItemOwner rejects item paths whose item belongs to another quote
func (s *Server) checkItemOwner(r *http.Request) error {
	quoteID, itemID := r.PathValue("id"), r.PathValue("item")
	q, err := s.store.GetQuote(r.Context(), quoteID)
	if err != nil {
		return err
	}
	for _, item := range q.LineItems {
		if item.ID == itemID {
			return nil
		}
	}
	return errors.NotFound("line item", itemID)
}
