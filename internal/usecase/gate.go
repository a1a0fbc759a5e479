package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-bindgen/internal/domain"
)

// Gate decides whether a source set must be regenerated.
// It is FRESH only when a complete record matches the current fingerprint
// and every recorded output is still on disk unmodified.
type Gate struct {
	store  FingerprintStore
	writer WrapperWriter
	log    *slog.Logger
	now    func() time.Time
}

// NewGate creates a new incremental build gate
func NewGate(store FingerprintStore, writer WrapperWriter, log *slog.Logger) *Gate {
	return &Gate{
		store:  store,
		writer: writer,
		log:    log.With("component", "gate"),
		now:    time.Now,
	}
}

// Evaluate compares the current fingerprint against the persisted record
func (g *Gate) Evaluate(ctx context.Context, key string, fp *domain.RunFingerprint, rerun bool) (*domain.GateDecision, error) {
	record, err := g.store.Load(ctx, key)
	if err != nil {
		// An unreadable record only costs a regeneration
		g.log.Warn("ignoring unreadable run record", "key", key, "error", err)
		return stale("previous run record is unreadable", nil), nil
	}

	switch {
	case record == nil:
		return stale("no previous successful run", nil), nil
	case record.Status == domain.RecordPending:
		return stale("previous run did not complete", record), nil
	case !record.Usable():
		return stale("previous run failed", record), nil
	case rerun:
		return stale("rerun requested", record), nil
	case !record.Fingerprint.Equal(fp):
		return stale(describeChange(&record.Fingerprint, fp), record), nil
	}

	for _, unit := range record.Outputs {
		hash, exists, err := g.writer.Hash(ctx, unit.OutputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to check output %s: %w", unit.OutputPath, err)
		}
		if !exists {
			return stale(fmt.Sprintf("output %s is missing", unit.OutputPath), record), nil
		}
		if hash != unit.ContentHash {
			return stale(fmt.Sprintf("output %s was modified", unit.OutputPath), record), nil
		}
	}

	return &domain.GateDecision{
		State:  domain.GateFresh,
		Reason: "inputs and outputs unchanged",
		Record: record,
	}, nil
}

// Begin replaces any complete record with a pending one before outputs are touched,
// so a run aborted by the host is never mistaken for a cache hit.
func (g *Gate) Begin(ctx context.Context, key string, sourceRoot string, target domain.GenerationTarget, previous *domain.RunRecord) error {
	record := &domain.RunRecord{
		Status:     domain.RecordPending,
		SourceRoot: sourceRoot,
		Target:     target,
		Outputs:    knownOutputs(previous, nil),
	}
	if err := g.store.Save(ctx, key, record); err != nil {
		return fmt.Errorf("failed to mark run as pending: %w", err)
	}
	return nil
}

// Commit persists the record of a run that completed without failures
func (g *Gate) Commit(ctx context.Context, key string, record *domain.RunRecord) error {
	record.Status = domain.RecordComplete
	if record.CompletedAt.IsZero() {
		record.CompletedAt = g.now()
	}
	if err := g.store.Save(ctx, key, record); err != nil {
		return fmt.Errorf("failed to persist run record: %w", err)
	}
	g.log.Debug("persisted run record", "key", key, "digest", record.Fingerprint.Digest.Hex())
	return nil
}

// Fail records a failed run. No fingerprint is kept, only the outputs known so far.
// The context is not consulted so that cancelled runs are recorded too.
func (g *Gate) Fail(key string, sourceRoot string, target domain.GenerationTarget, partial []domain.WrapperUnit) error {
	ctx := context.Background()

	previous, err := g.store.Load(ctx, key)
	if err != nil {
		g.log.Warn("ignoring unreadable run record", "key", key, "error", err)
		previous = nil
	}
	if previous == nil && len(partial) == 0 {
		return nil
	}

	record := &domain.RunRecord{
		Status:     domain.RecordFailed,
		SourceRoot: sourceRoot,
		Target:     target,
		Outputs:    knownOutputs(previous, partial),
	}
	if err := g.store.Save(ctx, key, record); err != nil {
		return fmt.Errorf("failed to record failed run: %w", err)
	}
	return nil
}

// knownOutputs merges recorded outputs with newly written ones, newest wins
func knownOutputs(previous *domain.RunRecord, written []domain.WrapperUnit) []domain.WrapperUnit {
	var outputs []domain.WrapperUnit
	if previous != nil {
		outputs = append(outputs, previous.Outputs...)
	}
	outputs = append(outputs, written...)

	byPath := lo.KeyBy(outputs, func(u domain.WrapperUnit) string { return u.OutputPath })
	merged := lo.Values(byPath)
	sortUnits(merged)
	return merged
}

func stale(reason string, record *domain.RunRecord) *domain.GateDecision {
	return &domain.GateDecision{State: domain.GateStale, Reason: reason, Record: record}
}
