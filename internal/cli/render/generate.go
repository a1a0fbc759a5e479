package render

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/trebuchet-org/treb-bindgen/internal/domain"
)

// GenerateRenderer renders the results of a generate run
type GenerateRenderer struct {
	out         io.Writer
	projectRoot string
}

// NewGenerateRenderer creates a new generate renderer
func NewGenerateRenderer(out io.Writer, projectRoot string) *GenerateRenderer {
	return &GenerateRenderer{out: out, projectRoot: projectRoot}
}

// Render prints one block per source set
func (r *GenerateRenderer) Render(results []*domain.RunResult) error {
	for i, result := range results {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		r.renderResult(result)
	}
	return nil
}

func (r *GenerateRenderer) renderResult(result *domain.RunResult) {
	headerStyle.Fprintf(r.out, "Source set %s: ", result.SourceSet)
	outcomeStyle(result.Outcome).Fprintln(r.out, humanize(string(result.Outcome)))
	if result.Reason != "" {
		faintStyle.Fprintf(r.out, "  %s\n", result.Reason)
	}

	switch result.Outcome {
	case domain.OutcomeUpToDate:
		fmt.Fprintf(r.out, "  %d wrapper(s) already up to date\n", len(result.Generated))
		return
	case domain.OutcomeFailed:
		if len(result.Generated) > 0 {
			fmt.Fprintf(r.out, "  Generated before failure:\n")
			r.renderUnits(result.Generated)
		}
		for _, err := range result.Errors {
			fmt.Fprintf(r.out, "  %s\n", FormatError(err.Error()))
		}
		return
	}

	r.renderUnits(result.Generated)
	if len(result.Skipped) > 0 {
		faintStyle.Fprintf(r.out, "  Skipped: %v\n", result.Skipped)
	}
	for _, path := range result.Removed {
		warnStyle.Fprintf(r.out, "  - removed %s\n", r.rel(path))
	}
	fmt.Fprintf(r.out, "  %s\n", FormatSuccess(fmt.Sprintf("Generated %d wrapper(s) in %s", len(result.Generated), result.Duration.Round(time.Millisecond))))
}

func (r *GenerateRenderer) renderUnits(units []domain.WrapperUnit) {
	if len(units) == 0 {
		return
	}
	t := newTable()
	for _, unit := range units {
		t.AppendRow([]interface{}{"  " + unit.ContractName, unit.PackageName, r.rel(unit.OutputPath)})
	}
	fmt.Fprintln(r.out, t.Render())
}

func (r *GenerateRenderer) rel(path string) string {
	if r.projectRoot == "" {
		return path
	}
	if rel, err := filepath.Rel(r.projectRoot, path); err == nil {
		return rel
	}
	return path
}

func outcomeStyle(outcome domain.Outcome) *color.Color {
	switch outcome {
	case domain.OutcomeSuccess:
		return successStyle
	case domain.OutcomeUpToDate:
		return upToDateStyle
	default:
		return failedStyle
	}
}

// Ensure GenerateRenderer implements Renderer
var _ Renderer[[]*domain.RunResult] = (*GenerateRenderer)(nil)
