package domain

// FilterMode tells which of the two filter lists drives selection
type FilterMode string

const (
	FilterModeAll     FilterMode = "all"
	FilterModeInclude FilterMode = "include"
	FilterModeExclude FilterMode = "exclude"
)

// FilterConfig selects contracts by name.
// A non-empty IncludedNames is exhaustive and makes ExcludedNames inert.
type FilterConfig struct {
	IncludedNames []string `json:"includedNames,omitempty" yaml:"includedNames,omitempty"`
	ExcludedNames []string `json:"excludedNames,omitempty" yaml:"excludedNames,omitempty"`
}

// Mode returns the effective selection mode
func (f FilterConfig) Mode() FilterMode {
	switch {
	case len(f.IncludedNames) > 0:
		return FilterModeInclude
	case len(f.ExcludedNames) > 0:
		return FilterModeExclude
	default:
		return FilterModeAll
	}
}

// ExclusionsIgnored reports whether excluded names were given but lose to the include list
func (f FilterConfig) ExclusionsIgnored() bool {
	return len(f.IncludedNames) > 0 && len(f.ExcludedNames) > 0
}
