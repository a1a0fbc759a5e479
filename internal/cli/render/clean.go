package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/treb-bindgen/internal/usecase"
)

// CleanRenderer renders what the clean command removed
type CleanRenderer struct {
	out io.Writer
}

// NewCleanRenderer creates a new clean renderer
func NewCleanRenderer(out io.Writer) *CleanRenderer {
	return &CleanRenderer{out: out}
}

// Render prints the removed wrappers per source set
func (r *CleanRenderer) Render(results []*usecase.CleanResult) error {
	for _, result := range results {
		if !result.HadRecord {
			faintStyle.Fprintf(r.out, "Source set %s: nothing to clean\n", result.SourceSet)
			continue
		}
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Source set %s: removed %d wrapper(s)", result.SourceSet, len(result.Removed))))
	}
	return nil
}

// Ensure CleanRenderer implements Renderer
var _ Renderer[[]*usecase.CleanResult] = (*CleanRenderer)(nil)
