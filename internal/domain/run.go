package domain

import (
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Outcome is the overall result of a generation run
type Outcome string

const (
	OutcomeSuccess  Outcome = "SUCCESS"
	OutcomeUpToDate Outcome = "UP_TO_DATE"
	OutcomeFailed   Outcome = "FAILED"
)

// GateState is the state of the incremental build gate
type GateState string

const (
	// GateStale means wrappers must be regenerated
	GateStale GateState = "STALE"
	// GateFresh means the persisted run still matches all inputs
	GateFresh GateState = "FRESH"
)

// WrapperUnit is one generated wrapper source file
type WrapperUnit struct {
	ContractName string      `json:"contractName" yaml:"contractName"`
	PackageName  string      `json:"packageName" yaml:"packageName"`
	OutputPath   string      `json:"outputPath" yaml:"outputPath"`
	ContentHash  common.Hash `json:"contentHash" yaml:"contentHash"`
}

// RunFingerprint summarizes every input that affects generation output
type RunFingerprint struct {
	CatalogDigest    common.Hash `json:"catalogDigest" yaml:"catalogDigest"`
	FilterDigest     common.Hash `json:"filterDigest" yaml:"filterDigest"`
	TargetDigest     common.Hash `json:"targetDigest" yaml:"targetDigest"`
	GeneratorVersion string      `json:"generatorVersion" yaml:"generatorVersion"`
	Digest           common.Hash `json:"digest" yaml:"digest"`
}

// Equal compares the aggregate digests
func (f *RunFingerprint) Equal(other *RunFingerprint) bool {
	if f == nil || other == nil {
		return false
	}
	return f.Digest == other.Digest
}

// RecordStatus tells whether a persisted record may be used as a cache hit
type RecordStatus string

const (
	// RecordComplete records a run that finished with zero failures
	RecordComplete RecordStatus = "complete"
	// RecordPending is written before any wrapper is touched
	RecordPending RecordStatus = "pending"
	// RecordFailed records a run that ended FAILED
	RecordFailed RecordStatus = "failed"
)

// RunRecord is the persisted state of one (source root, output root) pair.
// Only a complete record carries a fingerprint; pending and failed records
// keep the known outputs so later runs can prune them.
type RunRecord struct {
	Status      RecordStatus     `json:"status"`
	SourceRoot  string           `json:"sourceRoot"`
	Target      GenerationTarget `json:"target"`
	Fingerprint RunFingerprint   `json:"fingerprint"`
	Outputs     []WrapperUnit    `json:"outputs"`
	CompletedAt time.Time        `json:"completedAt"`
}

// Usable reports whether the record can produce a cache hit
func (r *RunRecord) Usable() bool {
	return r != nil && r.Status == RecordComplete
}

// GateDecision explains why the gate is in its state
type GateDecision struct {
	State  GateState
	Reason string
	Record *RunRecord
}

// RunResult is what a generation run reports back
type RunResult struct {
	SourceSet   string          `json:"sourceSet" yaml:"sourceSet"`
	Outcome     Outcome         `json:"outcome" yaml:"outcome"`
	Reason      string          `json:"reason,omitempty" yaml:"reason,omitempty"`
	Generated   []WrapperUnit   `json:"generated" yaml:"generated"`
	Skipped     []string        `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Removed     []string        `json:"removed,omitempty" yaml:"removed,omitempty"`
	Errors      []error         `json:"-" yaml:"-"`
	Fingerprint *RunFingerprint `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	Duration    time.Duration   `json:"duration" yaml:"duration"`
}

// GeneratedPaths returns the output path of every generated unit
func (r *RunResult) GeneratedPaths() []string {
	paths := make([]string, 0, len(r.Generated))
	for _, u := range r.Generated {
		paths = append(paths, u.OutputPath)
	}
	return paths
}

// GenerationErrors returns the per-contract failures
func (r *RunResult) GenerationErrors() []*GenerationError {
	var out []*GenerationError
	for _, err := range r.Errors {
		var genErr *GenerationError
		if errors.As(err, &genErr) {
			out = append(out, genErr)
		}
	}
	return out
}

// Err joins every collected error, nil when the run did not fail
func (r *RunResult) Err() error {
	if r.Outcome != OutcomeFailed {
		return nil
	}
	return errors.Join(r.Errors...)
}
