package config

// FoundryConfig is the subset of foundry.toml bindgen reads
type FoundryConfig struct {
	Profile map[string]ProfileConfig `toml:"profile"`
}

// ProfileConfig represents a [profile.<name>] section
type ProfileConfig struct {
	SrcPath string             `toml:"src,omitempty"`
	OutPath string             `toml:"out,omitempty"`
	Bindgen *BindgenFileConfig `toml:"bindgen,omitempty"`
}
