package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-bindgen/internal/cli/render"
	"github.com/trebuchet-org/treb-bindgen/internal/usecase"
)

// NewCleanCmd creates the clean command
func NewCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove generated wrappers and their run records",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var results []*usecase.CleanResult
			for _, set := range app.Config.SourceSets {
				result, err := app.CleanOutputs.Run(cmd.Context(), set)
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

			return render.NewCleanRenderer(cmd.OutOrStdout()).Render(results)
		},
	}

	return cmd
}
