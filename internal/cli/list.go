package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-bindgen/internal/cli/render"
	"github.com/trebuchet-org/treb-bindgen/internal/usecase"
)

type listedContract struct {
	Name       string   `json:"name"`
	SourcePath string   `json:"sourcePath"`
	Format     string   `json:"format"`
	Selected   bool     `json:"selected"`
	Deployable bool     `json:"deployable"`
	Methods    []string `json:"methods,omitempty"`
	Events     []string `json:"events,omitempty"`
	Errors     []string `json:"errors,omitempty"`
	ABIError   string   `json:"abiError,omitempty"`
}

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List contract artifacts and what the filter selects",
		Example: `  # List the catalog of every source set
  treb-bindgen list

  # Preview an include list
  treb-bindgen list --include StandardToken`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var results []*usecase.ContractListResult
			for _, set := range app.Config.SourceSets {
				result, err := app.ListContracts.Run(cmd.Context(), set)
				if err != nil {
					return fmt.Errorf("source set %s: %w", set.Name, err)
				}
				results = append(results, result)
			}

			if app.Config.JSON {
				out := make(map[string][]listedContract)
				for _, result := range results {
					out[result.SourceSet] = toListedContracts(result)
				}
				data, err := json.MarshalIndent(out, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			return render.NewContractsRenderer(cmd.OutOrStdout()).Render(results)
		},
	}

	return cmd
}

func toListedContracts(result *usecase.ContractListResult) []listedContract {
	contracts := make([]listedContract, 0, len(result.Entries))
	for _, entry := range result.Entries {
		c := listedContract{
			Name:       entry.Artifact.Name,
			SourcePath: entry.Artifact.SourcePath,
			Format:     string(entry.Artifact.Format),
			Selected:   entry.Selected,
			Deployable: entry.Artifact.Bytecode != "",
		}
		if entry.ABIError != nil {
			c.ABIError = entry.ABIError.Error()
		} else if entry.Summary != nil {
			c.Methods = entry.Summary.Methods
			c.Events = entry.Summary.Events
			c.Errors = entry.Summary.Errors
		}
		contracts = append(contracts, c)
	}
	return contracts
}
