package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-bindgen/internal/domain"
	"github.com/trebuchet-org/treb-bindgen/internal/domain/config"
)

const (
	// DataDirName is the directory under the project root holding persisted state
	DataDirName = ".bindgen"

	// DefaultSourceSet is used when the project declares no source sets
	DefaultSourceSet = "main"

	// DefaultSourceRoot matches forge's default out directory
	DefaultSourceRoot = "out"
)

// DefaultOutputRoot returns the output root used when a source set declares none
func DefaultOutputRoot(sourceSet string) string {
	return filepath.Join("build", "generated", "sources", "bindgen", sourceSet, "go")
}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}
	projectRoot, err := filepath.Abs(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot: projectRoot,
		DataDir:     filepath.Join(projectRoot, DataDirName),
		Profile:     v.GetString("profile"),
		Debug:       v.GetBool("debug"),
		JSON:        v.GetBool("json"),
		Timeout:     v.GetDuration("timeout"),
		Rerun:       v.GetBool("rerun"),
		ReportPath:  v.GetString("report"),
	}

	fileCfg, source, defaultSrc, err := loadProjectConfig(projectRoot, cfg.Profile)
	if err != nil {
		return nil, err
	}
	cfg.ConfigSource = source

	cfg.Concurrency = fileCfg.Concurrency
	if v.IsSet("concurrency") {
		cfg.Concurrency = v.GetInt("concurrency")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.NumCPU()
	}

	sets, err := resolveSourceSets(projectRoot, fileCfg, defaultSrc, v)
	if err != nil {
		return nil, err
	}
	cfg.SourceSets = sets

	if name := v.GetString("source_set"); name != "" {
		set, ok := cfg.SourceSet(name)
		if !ok {
			return nil, &domain.ConfigurationError{
				Field:  "source-set",
				Reason: fmt.Sprintf("unknown source set %q (available: %s)", name, strings.Join(sourceSetNames(sets), ", ")),
			}
		}
		cfg.SourceSets = []config.SourceSet{set}
	}

	return cfg, nil
}

// resolveSourceSets merges file settings with flag/env overrides.
// With several source sets an inherited output root is split per set name.
func resolveSourceSets(projectRoot string, fileCfg *config.BindgenFileConfig, defaultSrc string, v *viper.Viper) ([]config.SourceSet, error) {
	declared := fileCfg.SourceSets
	if len(declared) == 0 {
		declared = map[string]config.SourceSetConfig{DefaultSourceSet: {}}
	}
	shared := len(declared) > 1

	var sets []config.SourceSet
	for name, sc := range declared {
		set := config.SourceSet{
			Name:       name,
			SourceRoot: firstNonEmpty(sc.Src, defaultSrc),
			Target: domain.GenerationTarget{
				PackageName: firstNonEmpty(sc.Package, fileCfg.Package),
				OutputRoot:  firstNonEmpty(sc.Output, inheritedOutput(fileCfg.Output, name, shared), DefaultOutputRoot(name)),
				Flavor:      domain.BindingFlavor(firstNonEmpty(fileCfg.Flavor, string(domain.FlavorV2))),
			},
			Filter: domain.FilterConfig{
				IncludedNames: inherit(sc.IncludedContracts, fileCfg.IncludedContracts),
				ExcludedNames: inherit(sc.ExcludedContracts, fileCfg.ExcludedContracts),
			},
		}

		if v.IsSet("package") {
			set.Target.PackageName = v.GetString("package")
		}
		if v.IsSet("output") {
			set.Target.OutputRoot = inheritedOutput(v.GetString("output"), name, shared)
		}
		if v.IsSet("flavor") {
			set.Target.Flavor = domain.BindingFlavor(strings.ToLower(v.GetString("flavor")))
		}
		if v.IsSet("include") {
			set.Filter.IncludedNames = v.GetStringSlice("include")
		}
		if v.IsSet("exclude") {
			set.Filter.ExcludedNames = v.GetStringSlice("exclude")
		}

		set.SourceRoot = absPath(projectRoot, os.ExpandEnv(set.SourceRoot))
		set.Target.OutputRoot = absPath(projectRoot, os.ExpandEnv(set.Target.OutputRoot))

		if err := set.Target.Validate(); err != nil {
			return nil, fmt.Errorf("source set %s: %w", name, err)
		}
		sets = append(sets, set)
	}

	sort.Slice(sets, func(i, j int) bool { return sets[i].Name < sets[j].Name })
	if err := checkDistinctOutputs(sets); err != nil {
		return nil, err
	}
	return sets, nil
}

func inheritedOutput(output, sourceSet string, shared bool) string {
	if output == "" || !shared {
		return output
	}
	return filepath.Join(output, sourceSet)
}

// checkDistinctOutputs rejects source sets that write into the same package directory
func checkDistinctOutputs(sets []config.SourceSet) error {
	seen := make(map[string]string, len(sets))
	for _, set := range sets {
		dir := set.Target.PackageDir()
		if other, ok := seen[dir]; ok {
			return &domain.ConfigurationError{
				Field:  "output",
				Reason: fmt.Sprintf("source sets %s and %s both write to %s", other, set.Name, dir),
			}
		}
		seen[dir] = set.Name
	}
	return nil
}

// FindProjectRoot walks up from current directory to find bindgen.toml or foundry.toml
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, marker := range []string{BindgenFile, FoundryFile} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a bindgen project (%s or %s not found)", BindgenFile, FoundryFile)
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix("BINDGEN")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("profile", "default")
	v.SetDefault("timeout", "5m")
	v.SetDefault("debug", false)
	v.SetDefault("project_root", projectRoot)

	// Only flags the user actually set override the project file
	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if !f.Changed {
				return
			}
			key := strings.ReplaceAll(f.Name, "-", "_")
			if sv, ok := f.Value.(pflag.SliceValue); ok {
				v.Set(key, sv.GetSlice())
				return
			}
			v.Set(key, f.Value.String())
		})
	}

	return v
}

func sourceSetNames(sets []config.SourceSet) []string {
	names := make([]string, 0, len(sets))
	for _, s := range sets {
		names = append(names, s.Name)
	}
	return names
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func inherit(own, parent []string) []string {
	if own != nil {
		return own
	}
	return parent
}

func absPath(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
