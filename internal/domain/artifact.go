package domain

import (
	"encoding/json"
	"sort"

	"github.com/ethereum/go-ethereum/common"
)

// ArtifactFormat identifies the compiler output layout an artifact was read from
type ArtifactFormat string

const (
	// FormatSolc is a <Name>.abi file with an optional <Name>.bin sibling
	FormatSolc ArtifactFormat = "solc"
	// FormatFoundry is a forge build output <File>.sol/<Name>.json
	FormatFoundry ArtifactFormat = "foundry"
)

// ContractArtifact is one compiled contract discovered by a catalog scan.
// It is immutable once scanned.
type ContractArtifact struct {
	Name              string          `json:"name"`
	SourcePath        string          `json:"sourcePath"`
	Format            ArtifactFormat  `json:"format"`
	ABI               json.RawMessage `json:"abi"`
	Bytecode          string          `json:"bytecode,omitempty"` // hex without 0x, may hold link placeholders
	SourceFingerprint common.Hash     `json:"sourceFingerprint"`
}

// Catalog is the full set of artifacts found beneath one source root
type Catalog struct {
	SourceRoot string
	Artifacts  []*ContractArtifact
}

// NewCatalog builds a catalog with artifacts sorted by name
func NewCatalog(sourceRoot string, artifacts []*ContractArtifact) *Catalog {
	sorted := make([]*ContractArtifact, len(artifacts))
	copy(sorted, artifacts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	return &Catalog{SourceRoot: sourceRoot, Artifacts: sorted}
}

// Names returns the contract names in catalog order
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.Artifacts))
	for _, a := range c.Artifacts {
		names = append(names, a.Name)
	}
	return names
}

// Get returns the artifact with the given name, or nil
func (c *Catalog) Get(name string) *ContractArtifact {
	for _, a := range c.Artifacts {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Len returns the number of artifacts
func (c *Catalog) Len() int {
	return len(c.Artifacts)
}

// ABISummary counts the callable surface of a contract
type ABISummary struct {
	HasConstructor bool
	Methods        []string
	Events         []string
	Errors         []string
}
