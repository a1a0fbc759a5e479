package usecase

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-bindgen/internal/domain"
)

const maxSuggestions = 3

// SelectContracts applies the filter to the catalog.
//
// With a non-empty include list exactly those contracts are returned and every
// listed name missing from the catalog is reported in one NotFoundError.
// Otherwise every contract not excluded is returned; unknown excluded names are
// tolerated. The result keeps catalog order.
func SelectContracts(catalog *domain.Catalog, filter domain.FilterConfig) ([]*domain.ContractArtifact, error) {
	if err := validateNames("included_contracts", filter.IncludedNames); err != nil {
		return nil, err
	}
	if err := validateNames("excluded_contracts", filter.ExcludedNames); err != nil {
		return nil, err
	}

	switch filter.Mode() {
	case domain.FilterModeInclude:
		names := catalog.Names()
		missing := lo.Without(filter.IncludedNames, names...)
		if len(missing) > 0 {
			return nil, &domain.NotFoundError{
				Names:       missing,
				Suggestions: suggest(missing, names),
			}
		}
		return lo.Filter(catalog.Artifacts, func(a *domain.ContractArtifact, _ int) bool {
			return lo.Contains(filter.IncludedNames, a.Name)
		}), nil

	case domain.FilterModeExclude:
		return lo.Reject(catalog.Artifacts, func(a *domain.ContractArtifact, _ int) bool {
			return lo.Contains(filter.ExcludedNames, a.Name)
		}), nil

	default:
		out := make([]*domain.ContractArtifact, len(catalog.Artifacts))
		copy(out, catalog.Artifacts)
		return out, nil
	}
}

func validateNames(field string, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return &domain.ConfigurationError{Field: field, Reason: "contract names must not be blank"}
		}
		if seen[name] {
			return &domain.ConfigurationError{Field: field, Reason: fmt.Sprintf("contract %s listed twice", name)}
		}
		seen[name] = true
	}
	return nil
}

func suggest(missing, names []string) map[string][]string {
	out := make(map[string][]string)
	for _, name := range missing {
		matches := fuzzy.Find(name, names)
		if len(matches) == 0 {
			continue
		}
		var hints []string
		for i, m := range matches {
			if i == maxSuggestions {
				break
			}
			hints = append(hints, m.Str)
		}
		out[name] = hints
	}
	return out
}
