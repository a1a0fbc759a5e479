package usecase

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/treb-bindgen/internal/domain"
)

// ArtifactCatalog discovers compiled contracts beneath a source root
type ArtifactCatalog interface {
	Scan(ctx context.Context, sourceRoot string) (*domain.Catalog, error)
}

// WrapperBinder renders the wrapper source for one contract.
// Output must depend only on the artifact and the target.
type WrapperBinder interface {
	Bind(ctx context.Context, artifact *domain.ContractArtifact, target domain.GenerationTarget) ([]byte, error)
}

// ABIInspector summarizes a contract ABI
type ABIInspector interface {
	Describe(artifact *domain.ContractArtifact) (*domain.ABISummary, error)
}

// WrapperWriter handles file system operations for generated wrappers
type WrapperWriter interface {
	// Write stores content at path and reports whether the file changed
	Write(ctx context.Context, path string, content []byte) (bool, error)
	// Remove deletes a previously generated wrapper; missing files are ignored
	Remove(ctx context.Context, path string) error
	// Hash returns the content hash of an existing file
	Hash(ctx context.Context, path string) (hash common.Hash, exists bool, err error)
}

// FingerprintStore persists the record of the last successful run per state key
type FingerprintStore interface {
	// Load returns nil, nil when no record exists
	Load(ctx context.Context, key string) (*domain.RunRecord, error)
	Save(ctx context.Context, key string, record *domain.RunRecord) error
	Delete(ctx context.Context, key string) error
}

// Progress tracking interfaces

// Stages reported through ProgressSink
const (
	StageScanning   = "scanning"
	StageFiltering  = "filtering"
	StageChecking   = "checking"
	StageGenerating = "generating"
	StageCompleted  = "completed"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Current  int
	Total    int
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
