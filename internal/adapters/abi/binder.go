package abi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"go/format"
	"log/slog"
	"regexp"
	"sort"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/abigen"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"
	"github.com/trebuchet-org/treb-bindgen/internal/domain"
	"github.com/trebuchet-org/treb-bindgen/internal/usecase"
)

// linkPlaceholder matches an unlinked library reference in solc bytecode
var linkPlaceholder = regexp.MustCompile(`__\$[0-9a-fA-F]{34}\$__`)

// Binder renders Go wrappers with go-ethereum's abigen
type Binder struct {
	log *slog.Logger
}

// NewBinder creates a new abigen binder
func NewBinder(log *slog.Logger) *Binder {
	return &Binder{log: log.With("component", "binder")}
}

// Bind generates the wrapper source for one artifact
func (b *Binder) Bind(ctx context.Context, artifact *domain.ContractArtifact, target domain.GenerationTarget) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := parseABI(artifact.ABI); err != nil {
		return nil, err
	}
	if err := validateBytecode(artifact.Bytecode); err != nil {
		return nil, err
	}

	var (
		types     = []string{artifact.Name}
		abis      = []string{string(artifact.ABI)}
		bytecodes = []string{artifact.Bytecode}
		libs      = make(map[string]string)
		aliases   = make(map[string]string)
		pkg       = target.GoPackage()
	)

	var (
		code string
		err  error
	)
	switch target.Flavor {
	case domain.FlavorV1:
		fsigs := []map[string]string{nil}
		code, err = abigen.Bind(types, abis, bytecodes, fsigs, pkg, libs, aliases)
	case domain.FlavorV2:
		code, err = abigen.BindV2(types, abis, bytecodes, pkg, libs, aliases)
	default:
		return nil, fmt.Errorf("unknown binding flavor %q", target.Flavor)
	}
	if err != nil {
		return nil, fmt.Errorf("abigen: %w", err)
	}

	// abigen already formats its output; this normalizes line endings and spacing
	formatted, err := format.Source([]byte(code))
	if err != nil {
		return nil, fmt.Errorf("generated code does not parse: %w", err)
	}
	b.log.Debug("bound contract", "contract", artifact.Name, "flavor", target.Flavor, "bytes", len(formatted))
	return formatted, nil
}

// Describe summarizes the methods, events and errors of an artifact
func (b *Binder) Describe(artifact *domain.ContractArtifact) (*domain.ABISummary, error) {
	parsed, err := parseABI(artifact.ABI)
	if err != nil {
		return nil, err
	}

	var entries []abiEntry
	if err := json.Unmarshal(artifact.ABI, &entries); err != nil {
		return nil, fmt.Errorf("malformed ABI: %w", err)
	}

	summary := &domain.ABISummary{
		HasConstructor: lo.ContainsBy(entries, func(e abiEntry) bool { return e.Type == "constructor" }),
		Methods:        sortedSigs(lo.MapToSlice(parsed.Methods, func(_ string, m abi.Method) string { return m.Sig })),
		Events:         sortedSigs(lo.MapToSlice(parsed.Events, func(_ string, e abi.Event) string { return e.Sig })),
		Errors:         sortedSigs(lo.MapToSlice(parsed.Errors, func(_ string, e abi.Error) string { return e.Sig })),
	}
	return summary, nil
}

type abiEntry struct {
	Type string `json:"type"`
}

func parseABI(raw json.RawMessage) (*abi.ABI, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("malformed ABI: empty")
	}
	parsed, err := abi.JSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("malformed ABI: %w", err)
	}
	return &parsed, nil
}

// validateBytecode accepts hex with unlinked library placeholders
func validateBytecode(code string) error {
	stripped := linkPlaceholder.ReplaceAllString(code, "")
	if stripped == "" {
		return nil
	}
	if _, err := hexutil.Decode("0x" + stripped); err != nil {
		return fmt.Errorf("malformed bytecode: %w", err)
	}
	return nil
}

func sortedSigs(sigs []string) []string {
	sort.Strings(sigs)
	return sigs
}

// Ensure Binder implements the ports
var (
	_ usecase.WrapperBinder = (*Binder)(nil)
	_ usecase.ABIInspector  = (*Binder)(nil)
)
