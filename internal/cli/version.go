package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-bindgen/internal/config"
)

// NewVersionCmd creates the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version of treb-bindgen",
		RunE: func(cmd *cobra.Command, args []string) error {
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				data, err := json.MarshalIndent(map[string]string{
					"version":   config.Version,
					"commit":    config.Commit,
					"date":      config.Date,
					"generator": config.GeneratorVersion(),
				}, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "treb-bindgen version %s (commit %s, built %s)\n", config.Version, config.Commit, config.Date)
			fmt.Fprintf(cmd.OutOrStdout(), "generator %s\n", config.GeneratorVersion())
			return nil
		},
	}
}
