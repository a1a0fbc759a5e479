package usecase

import (
	"context"
	"log/slog"

	"github.com/trebuchet-org/treb-bindgen/internal/domain"
	"github.com/trebuchet-org/treb-bindgen/internal/domain/config"
)

// StatusResult describes the gate state of one source set
type StatusResult struct {
	SourceSet   string                 `json:"sourceSet"`
	State       domain.GateState       `json:"state"`
	Reason      string                 `json:"reason"`
	Contracts   int                    `json:"contracts"`
	Selected    []string               `json:"selected"`
	Fingerprint *domain.RunFingerprint `json:"fingerprint"`
	Record      *domain.RunRecord      `json:"record,omitempty"`
}

// ShowStatus evaluates the gate without generating anything
type ShowStatus struct {
	catalog          ArtifactCatalog
	gate             *Gate
	log              *slog.Logger
	generatorVersion string
}

// NewShowStatus creates a new ShowStatus use case
func NewShowStatus(catalog ArtifactCatalog, gate *Gate, log *slog.Logger, generatorVersion GeneratorVersion) *ShowStatus {
	return &ShowStatus{
		catalog:          catalog,
		gate:             gate,
		log:              log,
		generatorVersion: string(generatorVersion),
	}
}

// Run reports whether the next generation of the source set would be skipped
func (uc *ShowStatus) Run(ctx context.Context, set config.SourceSet, rerun bool) (*StatusResult, error) {
	if err := set.Target.Validate(); err != nil {
		return nil, err
	}
	catalog, err := uc.catalog.Scan(ctx, set.SourceRoot)
	if err != nil {
		return nil, err
	}
	selected, err := SelectContracts(catalog, set.Filter)
	if err != nil {
		return nil, err
	}

	fp := ComputeFingerprint(catalog, set.Filter, set.Target, uc.generatorVersion)
	decision, err := uc.gate.Evaluate(ctx, StateKey(set.SourceRoot, set.Target), fp, rerun)
	if err != nil {
		return nil, err
	}

	result := &StatusResult{
		SourceSet:   set.Name,
		State:       decision.State,
		Reason:      decision.Reason,
		Contracts:   catalog.Len(),
		Fingerprint: fp,
		Record:      decision.Record,
	}
	for _, a := range selected {
		result.Selected = append(result.Selected, a.Name)
	}
	return result, nil
}
