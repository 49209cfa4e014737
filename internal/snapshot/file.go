package snapshot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// fileStorage implements Storage with one JSON file per key.
type fileStorage struct {
	dir    string
	logger zerolog.Logger
}

// NewFileStorage creates a file-backed storage rooted at dir.
func NewFileStorage(dir string, logger zerolog.Logger) Storage {
	return &fileStorage{
		dir:    dir,
		logger: logger.With().Str("component", "file-snapshot").Logger(),
	}
}

func (s *fileStorage) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load reads <dir>/<key>.json.
func (s *fileStorage) Load(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := s.path(key)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug().Str("file", path).Msg("no snapshot on disk")
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Error().Err(err).Str("file", path).Msg("failed to read snapshot")
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	return data, nil
}

// Save writes to a temp file in the same directory and renames it over the
// target, so readers never observe a partial snapshot.
func (s *fileStorage) Save(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir %s: %w", s.dir, err)
	}

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}

	path := s.path(key)
	if err := os.Rename(tmpName, path); err != nil {
		s.logger.Error().Err(err).Str("file", path).Msg("failed to replace snapshot")
		return fmt.Errorf("failed to replace snapshot %s: %w", path, err)
	}

	s.logger.Debug().Str("file", path).Int("bytes", len(data)).Msg("snapshot saved")
	return nil
}
