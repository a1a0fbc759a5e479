package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-bindgen/internal/cli/render"
	"github.com/trebuchet-org/treb-bindgen/internal/config"
	"github.com/trebuchet-org/treb-bindgen/internal/domain"
	"github.com/trebuchet-org/treb-bindgen/internal/usecase"
	"gopkg.in/yaml.v3"
)

// NewGenerateCmd creates the generate command
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate Go wrappers for compiled contracts",
		Long: `Generate Go wrappers for every contract artifact of each source set.

Included contracts take precedence over excluded contracts. A source set is
skipped when the artifacts, filter and target are unchanged since the last
successful run and its wrappers are still on disk.`,
		Example: `  # Generate wrappers for all source sets
  treb-bindgen generate

  # Only generate two contracts into a custom package
  treb-bindgen generate --package org.web3j --include StandardToken,Ownable

  # Regenerate even when up to date
  treb-bindgen generate --rerun`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var (
				results []*domain.RunResult
				runErr  error
			)
			for _, set := range app.Config.SourceSets {
				result, err := app.GenerateWrappers.Run(cmd.Context(), usecase.GenerateParams{
					SourceSet: set,
					Rerun:     app.Config.Rerun,
				})
				results = append(results, result)
				if err != nil {
					runErr = errors.Join(runErr, fmt.Errorf("source set %s: %w", set.Name, err))
					if usecase.IsCancelled(err) {
						break
					}
				}
			}

			if app.Config.ReportPath != "" {
				if err := writeReport(app.Config.ReportPath, results); err != nil {
					return err
				}
			}

			if app.Config.JSON {
				data, err := json.MarshalIndent(newRunReport(results), "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
			} else if err := render.NewGenerateRenderer(cmd.OutOrStdout(), app.Config.ProjectRoot).Render(results); err != nil {
				return err
			}

			return runErr
		},
	}

	cmd.Flags().Bool("rerun", false, "Regenerate even when the source set is up to date")
	cmd.Flags().IntP("concurrency", "j", 0, "Maximum number of wrappers generated in parallel (default: number of CPUs)")
	cmd.Flags().String("report", "", "Write a YAML report of the run to this file")

	return cmd
}

// runReport is the machine-readable summary of a generate invocation
type runReport struct {
	GeneratorVersion string        `json:"generatorVersion" yaml:"generatorVersion"`
	GeneratedAt      time.Time     `json:"generatedAt" yaml:"generatedAt"`
	SourceSets       []reportedRun `json:"sourceSets" yaml:"sourceSets"`
}

type reportedRun struct {
	domain.RunResult `yaml:",inline"`
	ErrorMessages    []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func newRunReport(results []*domain.RunResult) *runReport {
	report := &runReport{
		GeneratorVersion: config.GeneratorVersion(),
		GeneratedAt:      time.Now().UTC(),
	}
	for _, result := range results {
		run := reportedRun{RunResult: *result}
		for _, err := range result.Errors {
			run.ErrorMessages = append(run.ErrorMessages, err.Error())
		}
		report.SourceSets = append(report.SourceSets, run)
	}
	return report
}

func writeReport(path string, results []*domain.RunResult) error {
	data, err := yaml.Marshal(newRunReport(results))
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create report directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
