package usecase_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/treb-bindgen/internal/domain"
	"github.com/trebuchet-org/treb-bindgen/internal/usecase"
)

func names(artifacts []*domain.ContractArtifact) []string {
	out := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		out = append(out, a.Name)
	}
	return out
}

func TestSelectContracts(t *testing.T) {
	catalog := newTestCatalog("Token", "StandardToken", "Ownable")

	tests := []struct {
		name     string
		filter   domain.FilterConfig
		expected []string
	}{
		{
			name:     "no filter selects everything",
			filter:   domain.FilterConfig{},
			expected: []string{"Ownable", "StandardToken", "Token"},
		},
		{
			name:     "exclude removes named contracts",
			filter:   domain.FilterConfig{ExcludedNames: []string{"Token"}},
			expected: []string{"Ownable", "StandardToken"},
		},
		{
			name:     "unknown excluded names are tolerated",
			filter:   domain.FilterConfig{ExcludedNames: []string{"Missing"}},
			expected: []string{"Ownable", "StandardToken", "Token"},
		},
		{
			name:     "include is exhaustive and keeps catalog order",
			filter:   domain.FilterConfig{IncludedNames: []string{"Token", "Ownable"}},
			expected: []string{"Ownable", "Token"},
		},
		{
			name: "include wins over exclude",
			filter: domain.FilterConfig{
				IncludedNames: []string{"Token"},
				ExcludedNames: []string{"Token", "Ownable"},
			},
			expected: []string{"Token"},
		},
		{
			name:     "excluding everything selects nothing",
			filter:   domain.FilterConfig{ExcludedNames: []string{"Token", "StandardToken", "Ownable"}},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selected, err := usecase.SelectContracts(catalog, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, names(selected))
		})
	}
}

func TestSelectContracts_IncludeMissing(t *testing.T) {
	catalog := newTestCatalog("Token", "StandardToken")

	_, err := usecase.SelectContracts(catalog, domain.FilterConfig{
		IncludedNames: []string{"Token", "StandardTokn", "Nope"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	var notFound *domain.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.ElementsMatch(t, []string{"StandardTokn", "Nope"}, notFound.Names)
	assert.Contains(t, notFound.Suggestions["StandardTokn"], "StandardToken")
	assert.Contains(t, err.Error(), "did you mean StandardToken")
}

func TestSelectContracts_InvalidNames(t *testing.T) {
	catalog := newTestCatalog("Token")

	tests := []struct {
		name   string
		filter domain.FilterConfig
	}{
		{name: "blank include", filter: domain.FilterConfig{IncludedNames: []string{" "}}},
		{name: "blank exclude", filter: domain.FilterConfig{ExcludedNames: []string{""}}},
		{name: "duplicate include", filter: domain.FilterConfig{IncludedNames: []string{"Token", "Token"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := usecase.SelectContracts(catalog, tt.filter)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrConfiguration))
			assert.True(t, domain.IsFatal(err))
		})
	}
}
