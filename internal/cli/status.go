package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-bindgen/internal/cli/render"
	"github.com/trebuchet-org/treb-bindgen/internal/usecase"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show whether each source set is up to date",
		Long: `Evaluate the incremental build gate of every source set without generating
anything. A source set is FRESH when the next generate would be skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var results []*usecase.StatusResult
			for _, set := range app.Config.SourceSets {
				result, err := app.ShowStatus.Run(cmd.Context(), set, app.Config.Rerun)
				if err != nil {
					return fmt.Errorf("source set %s: %w", set.Name, err)
				}
				results = append(results, result)
			}

			if app.Config.JSON {
				data, err := json.MarshalIndent(results, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			return render.NewStatusRenderer(cmd.OutOrStdout()).Render(results)
		},
	}

	cmd.Flags().Bool("rerun", false, "Report the state a forced rerun would see")

	return cmd
}
