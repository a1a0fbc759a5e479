package usecase

import (
	"context"

	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-bindgen/internal/domain"
	"github.com/trebuchet-org/treb-bindgen/internal/domain/config"
)

// ContractEntry is one catalog row of the list command
type ContractEntry struct {
	Artifact *domain.ContractArtifact
	Selected bool
	Summary  *domain.ABISummary
	ABIError error
}

// ContractListResult contains the catalog of one source set
type ContractListResult struct {
	SourceSet string
	Mode      domain.FilterMode
	Entries   []ContractEntry
}

// ListContracts shows the catalog and what the filter would select
type ListContracts struct {
	catalog   ArtifactCatalog
	inspector ABIInspector
}

// NewListContracts creates a new ListContracts use case
func NewListContracts(catalog ArtifactCatalog, inspector ABIInspector) *ListContracts {
	return &ListContracts{catalog: catalog, inspector: inspector}
}

// Run scans the source set and marks the selected contracts
func (uc *ListContracts) Run(ctx context.Context, set config.SourceSet) (*ContractListResult, error) {
	catalog, err := uc.catalog.Scan(ctx, set.SourceRoot)
	if err != nil {
		return nil, err
	}
	selected, err := SelectContracts(catalog, set.Filter)
	if err != nil {
		return nil, err
	}
	selectedNames := lo.Map(selected, func(a *domain.ContractArtifact, _ int) string { return a.Name })

	result := &ContractListResult{SourceSet: set.Name, Mode: set.Filter.Mode()}
	for _, artifact := range catalog.Artifacts {
		entry := ContractEntry{
			Artifact: artifact,
			Selected: lo.Contains(selectedNames, artifact.Name),
		}
		entry.Summary, entry.ABIError = uc.inspector.Describe(artifact)
		result.Entries = append(result.Entries, entry)
	}
	return result, nil
}
