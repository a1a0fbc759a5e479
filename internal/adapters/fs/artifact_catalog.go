package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-bindgen/internal/domain"
	"github.com/trebuchet-org/treb-bindgen/internal/usecase"
)

// ArtifactCatalog discovers compiled contract artifacts on disk.
// It understands solc output (<Name>.abi + <Name>.bin) and forge output
// (<File>.sol/<Name>.json).
type ArtifactCatalog struct {
	log *slog.Logger
}

// NewArtifactCatalog creates a new artifact catalog
func NewArtifactCatalog(log *slog.Logger) *ArtifactCatalog {
	return &ArtifactCatalog{log: log.With("component", "catalog")}
}

// foundryArtifact is the subset of a forge build artifact bindgen needs
type foundryArtifact struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode struct {
		Object string `json:"object"`
	} `json:"bytecode"`
	Metadata json.RawMessage `json:"metadata"`
}

type foundryMetadata struct {
	Settings struct {
		CompilationTarget map[string]string `json:"compilationTarget"`
	} `json:"settings"`
}

// Scan walks sourceRoot and returns a snapshot of every artifact beneath it
func (c *ArtifactCatalog) Scan(ctx context.Context, sourceRoot string) (*domain.Catalog, error) {
	info, err := os.Stat(sourceRoot)
	if err != nil {
		return nil, &domain.ConfigurationError{Field: "source root", Reason: fmt.Sprintf("%s is not readable", sourceRoot), Err: err}
	}
	if !info.IsDir() {
		return nil, &domain.ConfigurationError{Field: "source root", Reason: fmt.Sprintf("%s is not a directory", sourceRoot)}
	}

	found := make(map[string]*domain.ContractArtifact)
	var conflicts []error

	err = filepath.WalkDir(sourceRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if d.IsDir() {
			// Skip build info directories
			if d.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}

		var artifact *domain.ContractArtifact
		switch filepath.Ext(path) {
		case ".abi":
			artifact, err = readSolcArtifact(path)
		case ".json":
			artifact, err = c.readFoundryArtifact(path)
		default:
			return nil
		}
		if err != nil {
			return err
		}
		if artifact == nil {
			return nil
		}

		artifact.SourcePath, _ = filepath.Rel(sourceRoot, path)
		if existing, ok := found[artifact.Name]; ok {
			conflicts = append(conflicts, &domain.ConflictError{
				Name:   artifact.Name,
				First:  existing.SourcePath,
				Second: artifact.SourcePath,
			})
			return nil
		}
		found[artifact.Name] = artifact
		return nil
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &domain.ConfigurationError{Field: "source root", Reason: fmt.Sprintf("failed to scan %s", sourceRoot), Err: err}
	}
	if len(conflicts) > 0 {
		return nil, errors.Join(conflicts...)
	}

	return domain.NewCatalog(sourceRoot, lo.Values(found)), nil
}

// readSolcArtifact reads <Name>.abi and its optional <Name>.bin sibling
func readSolcArtifact(abiPath string) (*domain.ContractArtifact, error) {
	abiData, err := os.ReadFile(abiPath)
	if err != nil {
		return nil, err
	}

	var bytecode string
	binPath := strings.TrimSuffix(abiPath, ".abi") + ".bin"
	if binData, err := os.ReadFile(binPath); err == nil {
		bytecode = normalizeBytecode(string(binData))
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	abi := bytes.TrimSpace(abiData)
	return &domain.ContractArtifact{
		Name:              strings.TrimSuffix(filepath.Base(abiPath), ".abi"),
		Format:            domain.FormatSolc,
		ABI:               json.RawMessage(abi),
		Bytecode:          bytecode,
		SourceFingerprint: usecase.ArtifactFingerprint(abi, []byte(bytecode)),
	}, nil
}

// readFoundryArtifact returns nil for JSON files that are not forge artifacts.
// Undecodable JSON inside a <File>.sol directory is kept with its raw bytes as
// the ABI so that binding reports it as a failed contract.
func (c *ArtifactCatalog) readFoundryArtifact(path string) (*domain.ContractArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var artifact foundryArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		if !inForgeArtifactDir(path) {
			c.log.Debug("skipping non-artifact json", "path", path, "error", err)
			return nil, nil
		}
		c.log.Debug("keeping undecodable forge artifact", "path", path, "error", err)
		raw := bytes.TrimSpace(data)
		return &domain.ContractArtifact{
			Name:              strings.TrimSuffix(filepath.Base(path), ".json"),
			Format:            domain.FormatFoundry,
			ABI:               json.RawMessage(raw),
			SourceFingerprint: usecase.ArtifactFingerprint(raw, nil),
		}, nil
	}
	if len(artifact.ABI) == 0 || string(artifact.ABI) == "null" {
		c.log.Debug("skipping json without abi", "path", path)
		return nil, nil
	}

	name := strings.TrimSuffix(filepath.Base(path), ".json")
	var meta foundryMetadata
	if len(artifact.Metadata) > 0 && json.Unmarshal(artifact.Metadata, &meta) == nil {
		// There should only be one entry
		for _, contract := range meta.Settings.CompilationTarget {
			name = contract
		}
	}

	bytecode := normalizeBytecode(artifact.Bytecode.Object)
	abi := []byte(artifact.ABI)
	return &domain.ContractArtifact{
		Name:              name,
		Format:            domain.FormatFoundry,
		ABI:               artifact.ABI,
		Bytecode:          bytecode,
		SourceFingerprint: usecase.ArtifactFingerprint(abi, []byte(bytecode)),
	}, nil
}

// inForgeArtifactDir reports whether path follows forge's <File>.sol/<Name>.json layout
func inForgeArtifactDir(path string) bool {
	return strings.HasSuffix(filepath.Base(filepath.Dir(path)), ".sol")
}

func normalizeBytecode(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "0x")
	return strings.TrimPrefix(s, "0X")
}

// Ensure the adapter implements the interface
var _ usecase.ArtifactCatalog = (*ArtifactCatalog)(nil)
