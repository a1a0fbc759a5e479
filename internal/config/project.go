package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/treb-bindgen/internal/domain"
	"github.com/trebuchet-org/treb-bindgen/internal/domain/config"
)

const (
	BindgenFile = "bindgen.toml"
	FoundryFile = "foundry.toml"

	SourceBindgen  = "bindgen.toml"
	SourceFoundry  = "foundry.toml"
	SourceDefaults = "defaults"
)

// loadProjectConfig loads bindgen settings for the project.
// bindgen.toml wins; otherwise the [profile.<profile>.bindgen] table of foundry.toml is used.
// It also returns the default source root (the forge out directory).
func loadProjectConfig(projectRoot, profile string) (*config.BindgenFileConfig, string, string, error) {
	loadEnvFiles(projectRoot)

	foundry, err := loadFoundryConfig(projectRoot)
	if err != nil {
		return nil, "", "", err
	}

	defaultSrc := DefaultSourceRoot
	var profileCfg config.ProfileConfig
	if foundry != nil {
		profileCfg = foundry.Profile[profile]
		if profileCfg.OutPath == "" {
			profileCfg.OutPath = foundry.Profile["default"].OutPath
		}
		if profileCfg.OutPath != "" {
			defaultSrc = profileCfg.OutPath
		}
	}

	bindgenPath := filepath.Join(projectRoot, BindgenFile)
	if _, err := os.Stat(bindgenPath); err == nil {
		var cfg config.BindgenFileConfig
		if _, err := toml.DecodeFile(bindgenPath, &cfg); err != nil {
			return nil, "", "", &domain.ConfigurationError{Field: BindgenFile, Reason: "failed to parse", Err: err}
		}
		expandEnv(&cfg)
		return &cfg, SourceBindgen, defaultSrc, nil
	}

	if profileCfg.Bindgen != nil {
		cfg := *profileCfg.Bindgen
		expandEnv(&cfg)
		return &cfg, SourceFoundry, defaultSrc, nil
	}

	return &config.BindgenFileConfig{}, SourceDefaults, defaultSrc, nil
}

// loadFoundryConfig parses foundry.toml. Returns (nil, nil) when it does not exist.
func loadFoundryConfig(projectRoot string) (*config.FoundryConfig, error) {
	foundryPath := filepath.Join(projectRoot, FoundryFile)
	if _, err := os.Stat(foundryPath); os.IsNotExist(err) {
		return nil, nil
	}

	var cfg config.FoundryConfig
	if _, err := toml.DecodeFile(foundryPath, &cfg); err != nil {
		return nil, &domain.ConfigurationError{Field: FoundryFile, Reason: "failed to parse", Err: err}
	}
	return &cfg, nil
}

// loadEnvFiles loads .env files for variable expansion
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// expandEnv expands environment variables in path-like fields
func expandEnv(cfg *config.BindgenFileConfig) {
	cfg.Package = os.ExpandEnv(cfg.Package)
	cfg.Output = os.ExpandEnv(cfg.Output)
	for name, set := range cfg.SourceSets {
		set.Src = os.ExpandEnv(set.Src)
		set.Output = os.ExpandEnv(set.Output)
		set.Package = os.ExpandEnv(set.Package)
		cfg.SourceSets[name] = set
	}
}
