package cart

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"atelier/internal/pricing"
	"atelier/internal/snapshot"
	"atelier/internal/snapshot/snapshottest"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ring() Item {
	return Item{ID: "ring-1", Name: "Solitaire Ring", Price: decimal.NewFromInt(1200), Image: "/images/Ring.jpg"}
}

func necklace() Item {
	return Item{ID: "necklace-1", Name: "Pearl Necklace", Price: decimal.RequireFromString("899.50")}
}

func loadedStore(t *testing.T, storage snapshot.Storage) *Store {
	t.Helper()
	s := NewStore(storage, zerolog.Nop())
	require.NoError(t, s.Load(context.Background()))
	return s
}

func TestStore_AddDeduplicates(t *testing.T) {
	ctx := context.Background()
	s := loadedStore(t, snapshottest.NewStorage())

	s.Add(ctx, ring())
	s.Add(ctx, ring())
	s.Add(ctx, necklace())

	items := s.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "ring-1", items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, 3, s.TotalItems())
	assert.True(t, decimal.RequireFromString("3299.50").Equal(s.TotalPrice()), s.TotalPrice().String())
}

func TestStore_AddIgnoresIncomingQuantity(t *testing.T) {
	s := loadedStore(t, snapshottest.NewStorage())

	item := ring()
	item.Quantity = 7
	s.Add(context.Background(), item)

	assert.Equal(t, 1, s.TotalItems())
}

func TestStore_UpdateQuantity(t *testing.T) {
	tests := []struct {
		name      string
		quantity  int
		wantLines int
		wantItems int
	}{
		{name: "Set to three", quantity: 3, wantLines: 1, wantItems: 3},
		{name: "Zero removes", quantity: 0, wantLines: 0, wantItems: 0},
		{name: "Negative removes", quantity: -1, wantLines: 0, wantItems: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s := loadedStore(t, snapshottest.NewStorage())
			s.Add(ctx, ring())

			s.UpdateQuantity(ctx, "ring-1", tt.quantity)

			assert.Len(t, s.Items(), tt.wantLines)
			assert.Equal(t, tt.wantItems, s.TotalItems())
		})
	}
}

func TestStore_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	s := loadedStore(t, snapshottest.NewStorage())
	s.Add(ctx, ring())
	s.Add(ctx, necklace())

	s.Remove(ctx, "unknown")
	assert.Len(t, s.Items(), 2)

	s.Remove(ctx, "ring-1")
	require.Len(t, s.Items(), 1)
	assert.Equal(t, "necklace-1", s.Items()[0].ID)

	s.Clear(ctx)
	assert.Empty(t, s.Items())
	assert.Equal(t, 0, s.TotalItems())
	assert.True(t, decimal.Zero.Equal(s.TotalPrice()))
}

func TestStore_ItemsReturnsCopy(t *testing.T) {
	s := loadedStore(t, snapshottest.NewStorage())
	s.Add(context.Background(), ring())

	items := s.Items()
	items[0].Quantity = 99

	assert.Equal(t, 1, s.TotalItems())
}

func TestStore_PersistsAndRestores(t *testing.T) {
	ctx := context.Background()
	storage := snapshottest.NewStorage()

	s := loadedStore(t, storage)
	s.Add(ctx, ring())
	s.UpdateQuantity(ctx, "ring-1", 4)

	restored := loadedStore(t, storage)
	items := restored.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
	assert.True(t, ring().Price.Equal(items[0].Price))
}

func TestStore_ClearPersistsEmptyArray(t *testing.T) {
	ctx := context.Background()
	storage := snapshottest.NewStorage()

	s := loadedStore(t, storage)
	s.Add(ctx, ring())
	s.Clear(ctx)

	data, err := storage.Load(ctx, SnapshotKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))
}

func TestStore_NoPersistBeforeLoad(t *testing.T) {
	ctx := context.Background()
	storage := snapshottest.NewStorage()
	saved, err := json.Marshal([]Item{necklace()})
	require.NoError(t, err)
	require.NoError(t, storage.Save(ctx, SnapshotKey, saved))

	s := NewStore(storage, zerolog.Nop())
	s.Add(ctx, ring())

	data, err := storage.Load(ctx, SnapshotKey)
	require.NoError(t, err)
	assert.JSONEq(t, string(saved), string(data), "unloaded cart must not overwrite the snapshot")
}

func TestStore_LoadCorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	storage := snapshottest.NewStorage()
	require.NoError(t, storage.Save(ctx, SnapshotKey, []byte(`{not json`)))

	s := loadedStore(t, storage)
	assert.Empty(t, s.Items())

	s.Add(ctx, ring())
	assert.Equal(t, 1, s.TotalItems())
}

func TestStore_LoadDropsInvalidLines(t *testing.T) {
	ctx := context.Background()
	storage := snapshottest.NewStorage()
	require.NoError(t, storage.Save(ctx, SnapshotKey, []byte(
		`[{"id":"a","name":"A","price":"1","quantity":1},{"id":"a","name":"dup","price":"1","quantity":2},{"id":"b","name":"B","price":"1","quantity":0},{"id":"","name":"C","price":"1","quantity":1}]`,
	)))

	s := loadedStore(t, storage)
	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "A", items[0].Name)
}

type failingStorage struct {
	loadErr error
	saveErr error
	saves   int
}

func (f *failingStorage) Load(context.Context, string) ([]byte, error) {
	return nil, f.loadErr
}

func (f *failingStorage) Save(context.Context, string, []byte) error {
	f.saves++
	return f.saveErr
}

func TestStore_LoadError(t *testing.T) {
	storage := &failingStorage{loadErr: errors.New("disk unreadable")}
	s := NewStore(storage, zerolog.Nop())

	err := s.Load(context.Background())
	require.Error(t, err)

	s.Add(context.Background(), ring())
	assert.Equal(t, 0, storage.saves)
	assert.Equal(t, 1, s.TotalItems())
}

func TestStore_SaveFailureKeepsMemory(t *testing.T) {
	storage := &failingStorage{loadErr: snapshot.ErrNotFound, saveErr: errors.New("quota exceeded")}
	s := loadedStore(t, storage)

	s.Add(context.Background(), ring())
	s.Add(context.Background(), necklace())

	assert.Equal(t, 2, storage.saves)
	assert.Len(t, s.Items(), 2)
}

func TestItemFromQuote(t *testing.T) {
	q, err := pricing.DefaultCatalog().Quote(pricing.DefaultDesign())
	require.NoError(t, err)

	item := ItemFromQuote(q, time.UnixMilli(1700000000000))
	assert.Equal(t, "custom-1700000000000", item.ID)
	assert.Equal(t, "Custom Ring", item.Name)
	assert.True(t, q.Total.Equal(item.Price))
	assert.Equal(t, "/images/Ring.jpg", item.Image)
	assert.Equal(t, "Diamond", item.Customization["gemstone"])
}
