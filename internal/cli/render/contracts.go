package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/treb-bindgen/internal/domain"
	"github.com/trebuchet-org/treb-bindgen/internal/usecase"
)

// ContractsRenderer renders the artifact catalog of each source set
type ContractsRenderer struct {
	out io.Writer
}

// NewContractsRenderer creates a new contracts renderer
func NewContractsRenderer(out io.Writer) *ContractsRenderer {
	return &ContractsRenderer{out: out}
}

// Render prints one table per source set
func (r *ContractsRenderer) Render(results []*usecase.ContractListResult) error {
	for i, result := range results {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		headerStyle.Fprintf(r.out, "Source set %s", result.SourceSet)
		faintStyle.Fprintf(r.out, " (filter: %s)\n", result.Mode)

		if len(result.Entries) == 0 {
			fmt.Fprintln(r.out, "  No contract artifacts found")
			continue
		}

		t := newTable()
		t.AppendHeader([]interface{}{"  CONTRACT", "FORMAT", "METHODS", "EVENTS", "ERRORS", "DEPLOYABLE"})
		for _, entry := range result.Entries {
			t.AppendRow(r.row(entry))
		}
		fmt.Fprintln(r.out, t.Render())
	}
	return nil
}

func (r *ContractsRenderer) row(entry usecase.ContractEntry) []interface{} {
	name := entry.Artifact.Name
	if entry.Selected {
		name = successStyle.Sprint("● " + name)
	} else {
		name = faintStyle.Sprint("○ " + name)
	}

	if entry.ABIError != nil {
		return []interface{}{name, entry.Artifact.Format, failedStyle.Sprint("invalid ABI"), "", "", ""}
	}
	return []interface{}{
		name,
		entry.Artifact.Format,
		len(entry.Summary.Methods),
		len(entry.Summary.Events),
		len(entry.Summary.Errors),
		deployable(entry.Artifact),
	}
}

func deployable(a *domain.ContractArtifact) string {
	if a.Bytecode == "" {
		return "no"
	}
	return "yes"
}

// Ensure ContractsRenderer implements Renderer
var _ Renderer[[]*usecase.ContractListResult] = (*ContractsRenderer)(nil)
