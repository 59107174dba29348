package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"quote-engine/internal/errors"
)

// MemoryStore is an in-memory storage backend
type MemoryStore struct {
	quotes map[string]*Quote
	items  map[string]*LineItem
	mu     sync.RWMutex
}

// NewMemoryStore creates a memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		quotes: make(map[string]*Quote),
		items:  make(map[string]*LineItem),
	}
}

func (s *MemoryStore) CreateQuote(ctx context.Context, q *Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q.ID = uuid.New().String()
	now := time.Now().UTC()
	q.CreatedAt = now
	q.UpdatedAt = now

	s.quotes[q.ID] = cloneQuote(q)

	for i := range q.LineItems {
		s.insertItem(q.ID, &q.LineItems[i])
	}
	return nil
}

func (s *MemoryStore) insertItem(quoteID string, item *LineItem) {
	item.ID = uuid.New().String()
	item.QuoteID = quoteID
	stored := *item
	s.items[item.ID] = &stored
}

func (s *MemoryStore) GetQuote(ctx context.Context, id string) (*Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.quotes[id]
	if !ok {
		return nil, errors.NotFound("quote", id)
	}
	out := cloneQuote(q)
	out.LineItems = s.itemsOf(id)
	return out, nil
}

// itemsOf returns copies of a quote's line items by order, then ID
func (s *MemoryStore) itemsOf(quoteID string) []LineItem {
	var items []LineItem
	for _, item := range s.items {
		if item.QuoteID == quoteID {
			items = append(items, *item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Order != items[j].Order {
			return items[i].Order < items[j].Order
		}
		return items[i].ID < items[j].ID
	})
	return items
}

func (s *MemoryStore) ListQuotes(ctx context.Context, filter *ListFilter) ([]*Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*Quote, 0, len(s.quotes))
	for _, q := range s.quotes {
		results = append(results, cloneQuote(q))
	}
	sort.Slice(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.After(results[j].CreatedAt)
		}
		return results[i].ID > results[j].ID
	})

	if filter != nil {
		if filter.Offset > 0 {
			if filter.Offset >= len(results) {
				return []*Quote{}, nil
			}
			results = results[filter.Offset:]
		}
		if filter.Limit > 0 && filter.Limit < len(results) {
			results = results[:filter.Limit]
		}
	}
	return results, nil
}

func (s *MemoryStore) UpdateQuote(ctx context.Context, id string, patch *QuotePatch) (*Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.quotes[id]
	if !ok {
		return nil, errors.NotFound("quote", id)
	}
	patch.apply(q)
	q.UpdatedAt = time.Now().UTC()

	out := cloneQuote(q)
	out.LineItems = s.itemsOf(id)
	return out, nil
}

func (s *MemoryStore) DeleteQuote(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.quotes[id]; !ok {
		return errors.NotFound("quote", id)
	}
	for itemID, item := range s.items {
		if item.QuoteID == id {
			delete(s.items, itemID)
		}
	}
	delete(s.quotes, id)
	return nil
}

func (s *MemoryStore) AddLineItem(ctx context.Context, quoteID string, item *LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.quotes[quoteID]
	if !ok {
		return errors.NotFound("quote", quoteID)
	}
	s.insertItem(quoteID, item)
	q.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) UpdateLineItem(ctx context.Context, id string, patch *LineItemPatch) (*LineItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[id]
	if !ok {
		return nil, errors.NotFound("line item", id)
	}
	patch.apply(item)
	out := *item
	return &out, nil
}

func (s *MemoryStore) DeleteLineItem(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return errors.NotFound("line item", id)
	}
	delete(s.items, id)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func cloneQuote(q *Quote) *Quote {
	out := *q
	out.LineItems = nil
	if q.TotalValue != nil {
		v := *q.TotalValue
		out.TotalValue = &v
	}
	return &out
}

// Ensure interfaces are implemented
var _ Store = (*MemoryStore)(nil)
