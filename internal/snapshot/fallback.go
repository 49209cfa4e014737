package snapshot

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// fallbackStorage reads from primary first and falls back to secondary.
type fallbackStorage struct {
	primary   Storage
	secondary Storage
	enabled   bool
	logger    zerolog.Logger
}

// NewFallbackStorage creates a storage that prefers primary when enabled.
// If primary is nil or disabled, only secondary is used.
func NewFallbackStorage(primary, secondary Storage, enabled bool, logger zerolog.Logger) Storage {
	return &fallbackStorage{
		primary:   primary,
		secondary: secondary,
		enabled:   enabled,
		logger:    logger.With().Str("component", "fallback-snapshot").Logger(),
	}
}

func (s *fallbackStorage) usePrimary() bool {
	return s.enabled && s.primary != nil
}

// Load tries primary, then secondary.
func (s *fallbackStorage) Load(ctx context.Context, key string) ([]byte, error) {
	if s.usePrimary() {
		data, err := s.primary.Load(ctx, key)
		if err == nil {
			return data, nil
		}

		s.logger.Warn().
			Err(err).
			Str("key", key).
			Msg("failed to load from primary, falling back to secondary")
	} else {
		s.logger.Debug().
			Bool("enabled", s.enabled).
			Bool("has_primary", s.primary != nil).
			Msg("primary disabled or not configured, using secondary")
	}

	return s.secondary.Load(ctx, key)
}

// Save writes to both stores and succeeds if either write succeeds.
func (s *fallbackStorage) Save(ctx context.Context, key string, data []byte) error {
	secondaryErr := s.secondary.Save(ctx, key, data)
	if !s.usePrimary() {
		return secondaryErr
	}

	primaryErr := s.primary.Save(ctx, key, data)
	if primaryErr != nil && secondaryErr != nil {
		return errors.Join(primaryErr, secondaryErr)
	}
	if primaryErr != nil {
		s.logger.Warn().Err(primaryErr).Str("key", key).Msg("primary save failed, kept secondary copy")
	}
	if secondaryErr != nil {
		s.logger.Warn().Err(secondaryErr).Str("key", key).Msg("secondary save failed, kept primary copy")
	}
	return nil
}
