package fs

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/treb-bindgen/internal/usecase"
)

// WrapperWriterAdapter handles file system operations for generated wrappers
type WrapperWriterAdapter struct{}

// NewWrapperWriterAdapter creates a new wrapper writer adapter
func NewWrapperWriterAdapter() *WrapperWriterAdapter {
	return &WrapperWriterAdapter{}
}

// Write stores content at path, leaving the file untouched when it already matches
func (w *WrapperWriterAdapter) Write(_ context.Context, path string, content []byte) (bool, error) {
	existing, err := os.ReadFile(path)
	if err == nil && bytes.Equal(existing, content) {
		return false, nil
	}
	if err != nil && !os.IsNotExist(err) {
		return false, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("failed to create package directory: %w", err)
	}

	// Write through a temp file so readers never see a truncated wrapper
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return false, err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return false, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return false, err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return false, err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return false, err
	}
	return true, nil
}

// Remove deletes a wrapper and any package directories it leaves empty
func (w *WrapperWriterAdapter) Remove(_ context.Context, path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	removeEmptyParents(filepath.Dir(path))
	return nil
}

// Hash returns the keccak256 of an existing file
func (w *WrapperWriterAdapter) Hash(_ context.Context, path string) (common.Hash, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return common.Hash{}, false, nil
		}
		return common.Hash{}, false, err
	}
	return crypto.Keccak256Hash(data), true, nil
}

// removeEmptyParents walks up from dir removing empty directories.
// os.Remove refuses non-empty directories, which ends the walk.
func removeEmptyParents(dir string) {
	for {
		if err := os.Remove(dir); err != nil {
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// Ensure the adapter implements the interface
var _ usecase.WrapperWriter = (*WrapperWriterAdapter)(nil)
