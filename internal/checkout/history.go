package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"atelier/internal/cart"
	"atelier/internal/snapshot"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// HistoryKey is the storage key of the local order history.
const HistoryKey = "orders"

// Record is the shopper's local copy of a placed order.
type Record struct {
	ID        string          `json:"id"`
	OrderID   int64           `json:"orderId,omitempty"`
	Customer  Form            `json:"customer"`
	Items     []cart.Item     `json:"items"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"createdAt"`
}

// History keeps placed orders newest first, persisted like the cart.
type History struct {
	mu      sync.Mutex
	records []Record
	loaded  bool
	storage snapshot.Storage
	logger  zerolog.Logger
}

// NewHistory creates an empty, unloaded history.
func NewHistory(storage snapshot.Storage, logger zerolog.Logger) *History {
	return &History{
		storage: storage,
		logger:  logger.With().Str("component", "order-history").Logger(),
	}
}

// Load restores persisted records. A corrupt snapshot is logged and ignored.
func (h *History) Load(ctx context.Context) error {
	data, err := h.storage.Load(ctx, HistoryKey)
	if err != nil && !errors.Is(err, snapshot.ErrNotFound) {
		return fmt.Errorf("failed to load order history: %w", err)
	}

	var records []Record
	if err == nil {
		if jsonErr := json.Unmarshal(data, &records); jsonErr != nil {
			h.logger.Warn().Err(jsonErr).Msg("ignoring corrupt order history")
			records = nil
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = records
	h.loaded = true
	return nil
}

// Add prepends a record for a placed order and persists the history.
func (h *History) Add(ctx context.Context, orderID int64, customer Form, items []cart.Item, total decimal.Decimal) Record {
	rec := Record{
		ID:        uuid.NewString(),
		OrderID:   orderID,
		Customer:  customer,
		Items:     append([]cart.Item(nil), items...),
		Total:     total,
		CreatedAt: time.Now().UTC(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.records = append([]Record{rec}, h.records...)
	h.persist(ctx)
	return rec
}

// Records returns a copy of the history, newest first.
func (h *History) Records() []Record {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Record, len(h.records))
	copy(out, h.records)
	return out
}

func (h *History) persist(ctx context.Context) {
	if !h.loaded {
		return
	}

	data, err := json.Marshal(h.records)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to encode order history")
		return
	}
	if err := h.storage.Save(ctx, HistoryKey, data); err != nil {
		h.logger.Warn().Err(err).Msg("failed to persist order history")
	}
}
