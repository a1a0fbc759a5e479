package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/treb-bindgen/internal/domain"
	"github.com/trebuchet-org/treb-bindgen/internal/usecase"
)

// StatusRenderer renders gate states
type StatusRenderer struct {
	out io.Writer
}

// NewStatusRenderer creates a new status renderer
func NewStatusRenderer(out io.Writer) *StatusRenderer {
	return &StatusRenderer{out: out}
}

// Render prints a table with one row per source set
func (r *StatusRenderer) Render(results []*usecase.StatusResult) error {
	if len(results) == 0 {
		fmt.Fprintln(r.out, "No source sets configured")
		return nil
	}

	t := newTable()
	t.AppendHeader([]interface{}{"SOURCE SET", "STATE", "CONTRACTS", "SELECTED", "REASON"})
	for _, res := range results {
		state := humanize(string(res.State))
		if res.State == domain.GateFresh {
			state = successStyle.Sprint(state)
		} else {
			state = warnStyle.Sprint(state)
		}
		t.AppendRow([]interface{}{res.SourceSet, state, res.Contracts, len(res.Selected), res.Reason})
	}
	fmt.Fprintln(r.out, t.Render())

	for _, res := range results {
		if res.Record != nil && !res.Record.CompletedAt.IsZero() && res.Record.Usable() {
			faintStyle.Fprintf(r.out, "%s last generated %s\n", res.SourceSet, res.Record.CompletedAt.Local().Format("2006-01-02 15:04:05"))
		}
	}
	return nil
}

// Ensure StatusRenderer implements Renderer
var _ Renderer[[]*usecase.StatusResult] = (*StatusRenderer)(nil)
