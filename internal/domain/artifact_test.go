package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_SortedLookup(t *testing.T) {
	catalog := NewCatalog("/src", []*ContractArtifact{
		{Name: "Token"},
		{Name: "StandardToken"},
		{Name: "Broken"},
	})

	assert.Equal(t, []string{"Broken", "StandardToken", "Token"}, catalog.Names())
	assert.Equal(t, 3, catalog.Len())
	require.NotNil(t, catalog.Get("Token"))
	assert.Equal(t, "Token", catalog.Get("Token").Name)
	assert.Nil(t, catalog.Get("token"))
}

func TestFilterConfig_Mode(t *testing.T) {
	tests := []struct {
		name    string
		filter  FilterConfig
		mode    FilterMode
		ignored bool
	}{
		{name: "empty", filter: FilterConfig{}, mode: FilterModeAll},
		{name: "exclude", filter: FilterConfig{ExcludedNames: []string{"Token"}}, mode: FilterModeExclude},
		{name: "include", filter: FilterConfig{IncludedNames: []string{"Token"}}, mode: FilterModeInclude},
		{name: "include wins", filter: FilterConfig{IncludedNames: []string{"Token"}, ExcludedNames: []string{"Token"}}, mode: FilterModeInclude, ignored: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.mode, tt.filter.Mode())
			assert.Equal(t, tt.ignored, tt.filter.ExclusionsIgnored())
		})
	}
}
