package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrConfiguration is returned for a missing source root or a malformed filter/target
	ErrConfiguration = errors.New("invalid configuration")

	// ErrConflict is returned when two artifacts in one scan share a contract name
	ErrConflict = errors.New("conflicting contracts")

	// ErrNotFound is returned when an included contract is not in the catalog
	ErrNotFound = errors.New("not found")

	// ErrGeneration is returned when a wrapper cannot be generated for one contract
	ErrGeneration = errors.New("generation failed")
)

// ConfigurationError is fatal and aborts a run before any generation.
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrConfiguration, e.Err}
	}
	return []error{ErrConfiguration}
}

// ConflictError names both source locations of a duplicated contract.
type ConflictError struct {
	Name   string
	First  string
	Second string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("duplicate contract %s found in %s and %s", e.Name, e.First, e.Second)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// NotFoundError lists every included name missing from the catalog.
type NotFoundError struct {
	Names       []string
	Suggestions map[string][]string
}

func (e *NotFoundError) Error() string {
	names := make([]string, len(e.Names))
	copy(names, e.Names)
	sort.Strings(names)

	var lines []string
	for _, name := range names {
		line := fmt.Sprintf("  - %s", name)
		if hints := e.Suggestions[name]; len(hints) > 0 {
			line += fmt.Sprintf(" (did you mean %s?)", strings.Join(hints, ", "))
		}
		lines = append(lines, line)
	}

	noun := "contract"
	if len(names) > 1 {
		noun = "contracts"
	}
	return fmt.Sprintf("included %s not found in catalog:\n%s", noun, strings.Join(lines, "\n"))
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// GenerationError is recoverable: it fails one contract and leaves the others alone.
type GenerationError struct {
	Contract string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to generate wrapper for %s: %v", e.Contract, e.Err)
}

func (e *GenerationError) Unwrap() []error {
	return []error{ErrGeneration, e.Err}
}

// IsFatal reports whether err must abort a run before generation starts.
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfiguration) || errors.Is(err, ErrConflict) || errors.Is(err, ErrNotFound)
}
