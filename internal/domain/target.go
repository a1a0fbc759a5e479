package domain

import (
	"go/token"
	"path/filepath"
	"strings"
	"unicode"
)

// BindingFlavor selects the abigen output flavour
type BindingFlavor string

const (
	FlavorV1 BindingFlavor = "v1"
	FlavorV2 BindingFlavor = "v2"
)

// WrapperExt is the extension of every generated wrapper
const WrapperExt = ".go"

// GenerationTarget defines where wrapper units land
type GenerationTarget struct {
	PackageName string        `json:"packageName" yaml:"packageName"`
	OutputRoot  string        `json:"outputRoot" yaml:"outputRoot"`
	Flavor      BindingFlavor `json:"flavor" yaml:"flavor"`
}

// PackageSegments splits a dotted package name into its path segments
func (t GenerationTarget) PackageSegments() []string {
	var segments []string
	for _, s := range strings.Split(t.PackageName, ".") {
		if s = strings.TrimSpace(s); s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// PackageDir returns the directory wrappers for this target are written to
func (t GenerationTarget) PackageDir() string {
	return filepath.Join(append([]string{t.OutputRoot}, t.PackageSegments()...)...)
}

// OutputPath returns the wrapper path for a contract
func (t GenerationTarget) OutputPath(contractName string) string {
	return filepath.Join(t.PackageDir(), contractName+WrapperExt)
}

// GoPackage returns the Go package clause name: the last segment,
// lowercased and reduced to identifier characters.
func (t GenerationTarget) GoPackage() string {
	segments := t.PackageSegments()
	if len(segments) == 0 {
		return ""
	}
	last := strings.ToLower(segments[len(segments)-1])

	var b strings.Builder
	for i, r := range last {
		switch {
		case unicode.IsLetter(r) || r == '_':
			b.WriteRune(r)
		case unicode.IsDigit(r) && i > 0:
			b.WriteRune(r)
		}
	}
	name := b.String()
	if token.IsKeyword(name) {
		name += "_"
	}
	return name
}

// Validate checks that the target can produce a well-formed package
func (t GenerationTarget) Validate() error {
	if strings.TrimSpace(t.PackageName) == "" {
		return &ConfigurationError{Field: "package", Reason: "package name is required"}
	}
	for _, s := range strings.Split(t.PackageName, ".") {
		if strings.TrimSpace(s) == "" || strings.ContainsAny(s, `/\`) {
			return &ConfigurationError{Field: "package", Reason: "malformed package name " + t.PackageName}
		}
	}
	if t.GoPackage() == "" {
		return &ConfigurationError{Field: "package", Reason: "no valid Go package name in " + t.PackageName}
	}
	if strings.TrimSpace(t.OutputRoot) == "" {
		return &ConfigurationError{Field: "output", Reason: "output root is required"}
	}
	switch t.Flavor {
	case FlavorV1, FlavorV2:
	default:
		return &ConfigurationError{Field: "flavor", Reason: "unknown binding flavor " + string(t.Flavor) + " (valid: v1, v2)"}
	}
	return nil
}
