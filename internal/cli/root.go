package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/treb-bindgen/internal/adapters/progress"
	"github.com/trebuchet-org/treb-bindgen/internal/app"
	"github.com/trebuchet-org/treb-bindgen/internal/config"
	"github.com/trebuchet-org/treb-bindgen/internal/usecase"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "treb-bindgen",
		Short: "Generate Go contract wrappers from compiled Solidity artifacts",
		Long: `treb-bindgen turns solc and forge build artifacts into typed Go wrappers
using go-ethereum's abigen. Runs are incremental: when neither the artifacts,
the contract filter, nor the target package changed, generation is skipped.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if skipsApp(cmd.Name()) {
				return nil
			}

			projectRoot, _ := cmd.Flags().GetString("project-root")
			if projectRoot == "" {
				var err error
				projectRoot, err = config.FindProjectRoot()
				if err != nil {
					return err
				}
			}

			v := config.SetupViper(projectRoot, cmd)

			appInstance, err := app.InitApp(v, newSink(v.GetBool("json"), v.GetBool("debug")))
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, appKey, appInstance)

			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.Bool("debug", false, "Enable debug output")
	flags.Bool("json", false, "Output results as JSON")
	flags.String("project-root", "", "Project root (defaults to the nearest directory with bindgen.toml or foundry.toml)")
	flags.String("profile", "", "Foundry profile to read settings from (default \"default\")")
	flags.StringP("source-set", "s", "", "Only process this source set")
	flags.StringP("package", "p", "", "Dotted package name of the generated wrappers")
	flags.StringP("output", "o", "", "Output root for generated wrappers")
	flags.String("flavor", "", "Binding flavor: v1 or v2")
	flags.StringSlice("include", nil, "Only generate these contracts")
	flags.StringSlice("exclude", nil, "Generate every contract except these")

	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	generateCmd := NewGenerateCmd()
	generateCmd.GroupID = "main"
	rootCmd.AddCommand(generateCmd)

	statusCmd := NewStatusCmd()
	statusCmd.GroupID = "main"
	rootCmd.AddCommand(statusCmd)

	listCmd := NewListCmd()
	listCmd.GroupID = "management"
	rootCmd.AddCommand(listCmd)

	cleanCmd := NewCleanCmd()
	cleanCmd.GroupID = "management"
	rootCmd.AddCommand(cleanCmd)

	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

func skipsApp(name string) bool {
	return name == "version" || name == "help" || name == "completion" || name == "treb-bindgen"
}

// newSink picks the progress sink for the current output mode
func newSink(jsonOutput, debug bool) usecase.ProgressSink {
	if jsonOutput || debug {
		return progress.NewNopSink()
	}
	return progress.NewSpinnerSink()
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
