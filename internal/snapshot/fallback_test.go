package snapshot_test

import (
	"context"
	"errors"
	"testing"

	"atelier/internal/snapshot"
	"atelier/internal/snapshot/snapshottest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockStorage is a function-backed Storage for testing.
type mockStorage struct {
	loadFunc func(ctx context.Context, key string) ([]byte, error)
	saveFunc func(ctx context.Context, key string, data []byte) error
}

func (m *mockStorage) Load(ctx context.Context, key string) ([]byte, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, key)
	}
	return nil, errors.New("not implemented")
}

func (m *mockStorage) Save(ctx context.Context, key string, data []byte) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, key, data)
	}
	return errors.New("not implemented")
}

func TestFallbackStorage_PrimarySuccess(t *testing.T) {
	primary := &mockStorage{
		loadFunc: func(ctx context.Context, key string) ([]byte, error) {
			return []byte("primary"), nil
		},
	}
	secondary := &mockStorage{
		loadFunc: func(ctx context.Context, key string) ([]byte, error) {
			t.Error("secondary should not be read when primary succeeds")
			return nil, errors.New("should not be called")
		},
	}

	storage := snapshot.NewFallbackStorage(primary, secondary, true, zerolog.Nop())
	data, err := storage.Load(context.Background(), "cart")
	require.NoError(t, err)
	assert.Equal(t, "primary", string(data))
}

func TestFallbackStorage_PrimaryFailsFallsBack(t *testing.T) {
	primary := &mockStorage{
		loadFunc: func(ctx context.Context, key string) ([]byte, error) {
			return nil, errors.New("network down")
		},
	}
	secondary := snapshottest.NewStorage()
	require.NoError(t, secondary.Save(context.Background(), "cart", []byte("local")))

	storage := snapshot.NewFallbackStorage(primary, secondary, true, zerolog.Nop())
	data, err := storage.Load(context.Background(), "cart")
	require.NoError(t, err)
	assert.Equal(t, "local", string(data))
}

func TestFallbackStorage_DisabledSkipsPrimary(t *testing.T) {
	primary := &mockStorage{
		loadFunc: func(ctx context.Context, key string) ([]byte, error) {
			t.Error("primary should not be used when disabled")
			return nil, nil
		},
		saveFunc: func(ctx context.Context, key string, data []byte) error {
			t.Error("primary should not be used when disabled")
			return nil
		},
	}
	secondary := snapshottest.NewStorage()

	storage := snapshot.NewFallbackStorage(primary, secondary, false, zerolog.Nop())
	require.NoError(t, storage.Save(context.Background(), "cart", []byte("x")))

	data, err := storage.Load(context.Background(), "cart")
	require.NoError(t, err)
	assert.Equal(t, "x", string(data))
}

func TestFallbackStorage_NilPrimary(t *testing.T) {
	storage := snapshot.NewFallbackStorage(nil, snapshottest.NewStorage(), true, zerolog.Nop())

	_, err := storage.Load(context.Background(), "cart")
	assert.ErrorIs(t, err, snapshot.ErrNotFound)
}

func TestFallbackStorage_Save(t *testing.T) {
	failing := &mockStorage{
		saveFunc: func(ctx context.Context, key string, data []byte) error {
			return errors.New("write failed")
		},
	}

	tests := []struct {
		name      string
		primary   snapshot.Storage
		secondary snapshot.Storage
		wantErr   bool
	}{
		{name: "Both succeed", primary: snapshottest.NewStorage(), secondary: snapshottest.NewStorage()},
		{name: "Primary fails", primary: failing, secondary: snapshottest.NewStorage()},
		{name: "Secondary fails", primary: snapshottest.NewStorage(), secondary: failing},
		{name: "Both fail", primary: failing, secondary: failing, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := snapshot.NewFallbackStorage(tt.primary, tt.secondary, true, zerolog.Nop())
			err := storage.Save(context.Background(), "cart", []byte("x"))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
