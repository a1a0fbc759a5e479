package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-bindgen/internal/domain"
	"github.com/trebuchet-org/treb-bindgen/internal/domain/config"
	"golang.org/x/sync/errgroup"
)

// GenerateParams contains the inputs of one generation run
type GenerateParams struct {
	SourceSet config.SourceSet
	Rerun     bool
}

// GenerateWrappers is the use case that runs Catalog -> Filter -> Generator behind the gate
type GenerateWrappers struct {
	catalog          ArtifactCatalog
	binder           WrapperBinder
	writer           WrapperWriter
	gate             *Gate
	progress         ProgressSink
	log              *slog.Logger
	concurrency      int
	generatorVersion string
}

// NewGenerateWrappers creates a new GenerateWrappers use case
func NewGenerateWrappers(
	cfg *config.RuntimeConfig,
	catalog ArtifactCatalog,
	binder WrapperBinder,
	writer WrapperWriter,
	gate *Gate,
	progress ProgressSink,
	log *slog.Logger,
	generatorVersion GeneratorVersion,
) *GenerateWrappers {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &GenerateWrappers{
		catalog:          catalog,
		binder:           binder,
		writer:           writer,
		gate:             gate,
		progress:         progress,
		log:              log.With("component", "generate"),
		concurrency:      concurrency,
		generatorVersion: string(generatorVersion),
	}
}

// GeneratorVersion is the version string mixed into every run fingerprint
type GeneratorVersion string

// Run executes one generation pass for a source set.
// The result is always returned; the error joins every collected error when the run FAILED.
func (uc *GenerateWrappers) Run(ctx context.Context, params GenerateParams) (*domain.RunResult, error) {
	start := time.Now()
	set := params.SourceSet
	key := StateKey(set.SourceRoot, set.Target)
	log := uc.log.With("sourceSet", set.Name)

	result := &domain.RunResult{SourceSet: set.Name}
	var written []domain.WrapperUnit

	fail := func(errs ...error) (*domain.RunResult, error) {
		result.Outcome = domain.OutcomeFailed
		result.Errors = append(result.Errors, errs...)
		result.Generated = written
		result.Duration = time.Since(start)
		if err := uc.gate.Fail(key, set.SourceRoot, set.Target, written); err != nil {
			log.Warn("could not record failed run", "error", err)
		}
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: string(domain.OutcomeFailed)})
		return result, result.Err()
	}

	if err := set.Target.Validate(); err != nil {
		return fail(err)
	}

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageScanning, Message: set.SourceRoot, Spinner: true})
	catalog, err := uc.catalog.Scan(ctx, set.SourceRoot)
	if err != nil {
		return fail(err)
	}
	log.Debug("scanned catalog", "root", set.SourceRoot, "contracts", catalog.Len())

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageFiltering, Total: catalog.Len()})
	if set.Filter.ExclusionsIgnored() {
		log.Warn("excluded contracts are ignored because included contracts are set",
			"included", set.Filter.IncludedNames, "excluded", set.Filter.ExcludedNames)
	}
	selected, err := SelectContracts(catalog, set.Filter)
	if err != nil {
		return fail(err)
	}
	selectedNames := lo.Map(selected, func(a *domain.ContractArtifact, _ int) string { return a.Name })
	result.Skipped = lo.Without(catalog.Names(), selectedNames...)

	fp := ComputeFingerprint(catalog, set.Filter, set.Target, uc.generatorVersion)
	result.Fingerprint = fp

	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageChecking})
	decision, err := uc.gate.Evaluate(ctx, key, fp, params.Rerun)
	if err != nil {
		return fail(err)
	}
	result.Reason = decision.Reason
	log.Debug("gate evaluated", "state", decision.State, "reason", decision.Reason)

	if decision.State == domain.GateFresh {
		result.Outcome = domain.OutcomeUpToDate
		result.Generated = decision.Record.Outputs
		result.Duration = time.Since(start)
		uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: string(domain.OutcomeUpToDate)})
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	if err := uc.gate.Begin(ctx, key, set.SourceRoot, set.Target, decision.Record); err != nil {
		return fail(err)
	}

	units, genErrs := uc.generate(ctx, selected, set.Target)
	written = units
	if err := ctx.Err(); err != nil {
		return fail(append(genErrs, err)...)
	}
	if len(genErrs) > 0 {
		return fail(genErrs...)
	}

	result.Removed = uc.prune(ctx, log, decision.Record, units)

	record := &domain.RunRecord{
		SourceRoot:  set.SourceRoot,
		Target:      set.Target,
		Fingerprint: *fp,
		Outputs:     units,
	}
	if err := uc.gate.Commit(ctx, key, record); err != nil {
		return fail(err)
	}

	result.Outcome = domain.OutcomeSuccess
	result.Generated = units
	result.Duration = time.Since(start)
	uc.progress.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: string(domain.OutcomeSuccess)})
	log.Info("generated wrappers", "count", len(units), "package", set.Target.PackageName)
	return result, nil
}

// generate binds every selected artifact on a bounded worker pool.
// Failures are collected per contract and never stop the other workers.
func (uc *GenerateWrappers) generate(ctx context.Context, selected []*domain.ContractArtifact, target domain.GenerationTarget) ([]domain.WrapperUnit, []error) {
	var (
		mu    sync.Mutex
		units = make([]domain.WrapperUnit, 0, len(selected))
		errs  []*domain.GenerationError
		done  int
	)

	var g errgroup.Group
	g.SetLimit(uc.concurrency)

	for _, artifact := range selected {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			unit, err := uc.generateOne(ctx, artifact, target)

			mu.Lock()
			defer mu.Unlock()
			done++
			if err != nil {
				errs = append(errs, &domain.GenerationError{Contract: artifact.Name, Err: err})
				uc.progress.Error(fmt.Sprintf("%s: %v", artifact.Name, err))
				return nil
			}
			units = append(units, *unit)
			uc.progress.OnProgress(ctx, ProgressEvent{
				Stage:   StageGenerating,
				Current: done,
				Total:   len(selected),
				Message: artifact.Name,
				Spinner: true,
			})
			return nil
		})
	}
	_ = g.Wait()

	sortUnits(units)
	sort.Slice(errs, func(i, j int) bool { return errs[i].Contract < errs[j].Contract })
	return units, lo.Map(errs, func(e *domain.GenerationError, _ int) error { return e })
}

func (uc *GenerateWrappers) generateOne(ctx context.Context, artifact *domain.ContractArtifact, target domain.GenerationTarget) (*domain.WrapperUnit, error) {
	content, err := uc.binder.Bind(ctx, artifact, target)
	if err != nil {
		return nil, err
	}

	path := target.OutputPath(artifact.Name)
	changed, err := uc.writer.Write(ctx, path, content)
	if err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	uc.log.Debug("wrapper written", "contract", artifact.Name, "path", path, "changed", changed)

	return &domain.WrapperUnit{
		ContractName: artifact.Name,
		PackageName:  target.PackageName,
		OutputPath:   path,
		ContentHash:  crypto.Keccak256Hash(content),
	}, nil
}

// prune removes wrappers of the previous run that this run did not produce
func (uc *GenerateWrappers) prune(ctx context.Context, log *slog.Logger, previous *domain.RunRecord, current []domain.WrapperUnit) []string {
	if previous == nil {
		return nil
	}
	stalePaths, _ := lo.Difference(outputPaths(previous.Outputs), outputPaths(current))

	var removed []string
	for _, path := range stalePaths {
		if err := uc.writer.Remove(ctx, path); err != nil {
			log.Warn("failed to remove stale wrapper", "path", path, "error", err)
			continue
		}
		removed = append(removed, path)
	}
	sort.Strings(removed)
	return removed
}

func outputPaths(units []domain.WrapperUnit) []string {
	return lo.Map(units, func(u domain.WrapperUnit, _ int) string { return u.OutputPath })
}

func sortUnits(units []domain.WrapperUnit) {
	sort.Slice(units, func(i, j int) bool {
		if units[i].ContractName != units[j].ContractName {
			return units[i].ContractName < units[j].ContractName
		}
		return units[i].OutputPath < units[j].OutputPath
	})
}

// IsCancelled reports whether a run failed because its context ended
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
