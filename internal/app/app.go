package app

import (
	"github.com/trebuchet-org/treb-bindgen/internal/domain/config"
	"github.com/trebuchet-org/treb-bindgen/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Use cases
	GenerateWrappers *usecase.GenerateWrappers
	ShowStatus       *usecase.ShowStatus
	ListContracts    *usecase.ListContracts
	CleanOutputs     *usecase.CleanOutputs
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	generateWrappers *usecase.GenerateWrappers,
	showStatus *usecase.ShowStatus,
	listContracts *usecase.ListContracts,
	cleanOutputs *usecase.CleanOutputs,
) (*App, error) {
	return &App{
		Config:           cfg,
		GenerateWrappers: generateWrappers,
		ShowStatus:       showStatus,
		ListContracts:    listContracts,
		CleanOutputs:     cleanOutputs,
	}, nil
}
