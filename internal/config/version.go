package config

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// SetBuildFlags records values injected with -ldflags
func SetBuildFlags(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date
}

// GeneratorVersion identifies the wrapper generator in run fingerprints.
// Bump the suffix whenever generated output changes for identical inputs.
func GeneratorVersion() string {
	return "treb-bindgen/" + Version + "+abigen.1"
}
