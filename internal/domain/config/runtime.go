package config

import (
	"time"

	"github.com/trebuchet-org/treb-bindgen/internal/domain"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string
	DataDir     string // holds persisted run records, never inside an output root

	// Foundry profile used when bindgen settings come from foundry.toml
	Profile string

	// Execution settings
	Debug       bool
	JSON        bool
	Timeout     time.Duration
	Rerun       bool // treat every source set as stale
	Concurrency int
	ReportPath  string

	// Config source tracking: "bindgen.toml", "foundry.toml" or "defaults"
	ConfigSource string

	// Resolved source sets, sorted by name
	SourceSets []SourceSet
}

// SourceSet is one (source root, target) pair with its filter.
// It is passed by value into the generation pipeline.
type SourceSet struct {
	Name       string
	SourceRoot string
	Target     domain.GenerationTarget
	Filter     domain.FilterConfig
}

// SourceSet returns the named source set
func (c *RuntimeConfig) SourceSet(name string) (SourceSet, bool) {
	for _, s := range c.SourceSets {
		if s.Name == name {
			return s, true
		}
	}
	return SourceSet{}, false
}
