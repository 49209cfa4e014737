// Package cart holds the shopper's cart and keeps it persisted between runs.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"atelier/internal/pricing"
	"atelier/internal/snapshot"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// SnapshotKey is the storage key of the persisted cart.
const SnapshotKey = "cart"

// Item is a cart line. Items are unique by ID.
type Item struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Price         decimal.Decimal   `json:"price"`
	Image         string            `json:"image,omitempty"`
	Quantity      int               `json:"quantity"`
	Customization map[string]string `json:"customization,omitempty"`
}

// ItemFromQuote turns a priced studio design into a cart item created at now.
func ItemFromQuote(q *pricing.Quote, now time.Time) Item {
	return Item{
		ID:            q.ItemID(now),
		Name:          q.ItemName(),
		Price:         q.Total,
		Image:         q.Type.Image,
		Quantity:      1,
		Customization: q.Customization(),
	}
}

// Store is a cart backed by snapshot storage. It is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	items   []Item
	loaded  bool
	storage snapshot.Storage
	logger  zerolog.Logger
}

// NewStore creates an empty, unloaded cart.
func NewStore(storage snapshot.Storage, logger zerolog.Logger) *Store {
	return &Store{
		storage: storage,
		logger:  logger.With().Str("component", "cart").Logger(),
	}
}

// Load restores the persisted cart. A missing or corrupt snapshot leaves the
// cart empty. Mutations made before Load are kept in memory only, so an
// unloaded cart never overwrites what is on disk.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.storage.Load(ctx, SnapshotKey)
	if err != nil && !errors.Is(err, snapshot.ErrNotFound) {
		s.logger.Error().Err(err).Msg("failed to read cart snapshot")
		return fmt.Errorf("failed to load cart: %w", err)
	}

	var items []Item
	if err == nil {
		if jsonErr := json.Unmarshal(data, &items); jsonErr != nil {
			s.logger.Warn().Err(jsonErr).Msg("ignoring corrupt cart snapshot")
			items = nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = normalize(items)
	s.loaded = true
	s.logger.Debug().Int("items", len(s.items)).Msg("cart loaded")
	return nil
}

// normalize drops lines that could not have been produced by the store.
func normalize(items []Item) []Item {
	out := make([]Item, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		if it.ID == "" || it.Quantity < 1 || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		out = append(out, it)
	}
	return out
}

// Add puts item in the cart with quantity 1, or bumps the quantity of the
// existing line with the same ID.
func (s *Store) Add(ctx context.Context, item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i].Quantity++
			s.persist(ctx)
			return
		}
	}

	item.Quantity = 1
	s.items = append(s.items, item)
	s.persist(ctx)
}

// Remove deletes the line with id. Unknown ids are ignored.
func (s *Store) Remove(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.remove(id)
	s.persist(ctx)
}

func (s *Store) remove(id string) {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity sets the quantity of the line with id. A quantity below 1
// removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.remove(id)
		s.persist(ctx)
		return
	}

	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			break
		}
	}
	s.persist(ctx)
}

// Clear empties the cart.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.persist(ctx)
}

// Items returns a copy of the cart lines in insertion order.
func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// TotalItems is the sum of quantities.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, it := range s.items {
		total += it.Quantity
	}
	return total
}

// TotalPrice is the sum of price × quantity.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := make([]pricing.Line, len(s.items))
	for i, it := range s.items {
		lines[i] = pricing.Line{Price: it.Price, Quantity: it.Quantity}
	}
	return pricing.Total(lines)
}

// persist writes the full cart. Failures are logged and the in-memory cart
// is kept. Callers hold s.mu.
func (s *Store) persist(ctx context.Context) {
	if !s.loaded {
		return
	}

	items := s.items
	if items == nil {
		items = []Item{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to encode cart")
		return
	}

	if err := s.storage.Save(ctx, SnapshotKey, data); err != nil {
		s.logger.Warn().Err(err).Int("items", len(items)).Msg("failed to persist cart")
	}
}
