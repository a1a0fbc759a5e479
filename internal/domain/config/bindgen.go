package config

// BindgenFileConfig represents bindgen.toml, or the [profile.<name>.bindgen]
// table of foundry.toml
type BindgenFileConfig struct {
	Package           string                     `toml:"package"`
	Output            string                     `toml:"output"`
	Flavor            string                     `toml:"flavor"`
	Concurrency       int                        `toml:"concurrency"`
	IncludedContracts []string                   `toml:"included_contracts"`
	ExcludedContracts []string                   `toml:"excluded_contracts"`
	SourceSets        map[string]SourceSetConfig `toml:"source_sets"`
}

// SourceSetConfig represents a [source_sets.<name>] section.
// Empty fields inherit the top-level value; nil lists inherit, empty lists clear.
type SourceSetConfig struct {
	Src               string   `toml:"src"`
	Output            string   `toml:"output"`
	Package           string   `toml:"package"`
	IncludedContracts []string `toml:"included_contracts"`
	ExcludedContracts []string `toml:"excluded_contracts"`
}
