package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/treb-bindgen/internal/domain"
	"github.com/trebuchet-org/treb-bindgen/internal/domain/config"
	"github.com/trebuchet-org/treb-bindgen/internal/usecase"
)

// FingerprintStoreAdapter implements FingerprintStore using the file system
type FingerprintStoreAdapter struct {
	dir string
}

// NewFingerprintStoreAdapter creates a new FingerprintStoreAdapter
func NewFingerprintStoreAdapter(cfg *config.RuntimeConfig) *FingerprintStoreAdapter {
	return &FingerprintStoreAdapter{
		dir: filepath.Join(cfg.DataDir, "fingerprints"),
	}
}

func (s *FingerprintStoreAdapter) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load reads a run record from disk. Returns nil when the file does not exist.
func (s *FingerprintStoreAdapter) Load(_ context.Context, key string) (*domain.RunRecord, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read run record: %w", err)
	}

	var record domain.RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse run record: %w", err)
	}
	return &record, nil
}

// Save writes a run record to disk, creating the directory if needed.
func (s *FingerprintStoreAdapter) Save(_ context.Context, key string, record *domain.RunRecord) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create fingerprint directory: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run record: %w", err)
	}

	tmp := s.path(key) + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write run record: %w", err)
	}
	if err := os.Rename(tmp, s.path(key)); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write run record: %w", err)
	}
	return nil
}

// Delete removes a run record from disk.
func (s *FingerprintStoreAdapter) Delete(_ context.Context, key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete run record: %w", err)
	}
	return nil
}

// Ensure FingerprintStoreAdapter implements FingerprintStore
var _ usecase.FingerprintStore = (*FingerprintStoreAdapter)(nil)
