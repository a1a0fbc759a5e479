package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trebuchet-org/treb-bindgen/internal/domain/config"
)

// CleanResult lists what was removed for one source set
type CleanResult struct {
	SourceSet string   `json:"sourceSet"`
	Removed   []string `json:"removed"`
	HadRecord bool     `json:"hadRecord"`
}

// CleanOutputs removes recorded wrappers and the persisted record
type CleanOutputs struct {
	store  FingerprintStore
	writer WrapperWriter
	log    *slog.Logger
}

// NewCleanOutputs creates a new CleanOutputs use case
func NewCleanOutputs(store FingerprintStore, writer WrapperWriter, log *slog.Logger) *CleanOutputs {
	return &CleanOutputs{store: store, writer: writer, log: log}
}

// Run deletes every output the record knows about, then the record itself
func (uc *CleanOutputs) Run(ctx context.Context, set config.SourceSet) (*CleanResult, error) {
	key := StateKey(set.SourceRoot, set.Target)
	result := &CleanResult{SourceSet: set.Name}

	record, err := uc.store.Load(ctx, key)
	if err != nil {
		uc.log.Warn("run record unreadable, removing it", "sourceSet", set.Name, "error", err)
	}
	if record != nil {
		result.HadRecord = true
		for _, unit := range record.Outputs {
			if err := uc.writer.Remove(ctx, unit.OutputPath); err != nil {
				return result, fmt.Errorf("failed to remove %s: %w", unit.OutputPath, err)
			}
			result.Removed = append(result.Removed, unit.OutputPath)
		}
	}

	if err := uc.store.Delete(ctx, key); err != nil {
		return result, err
	}
	return result, nil
}
