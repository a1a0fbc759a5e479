//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/treb-bindgen/internal/adapters"
	"github.com/trebuchet-org/treb-bindgen/internal/config"
	"github.com/trebuchet-org/treb-bindgen/internal/logging"
	"github.com/trebuchet-org/treb-bindgen/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewGate,
		usecase.NewGenerateWrappers,
		usecase.NewShowStatus,
		usecase.NewListContracts,
		usecase.NewCleanOutputs,

		// App
		NewApp,
	)
	return nil, nil
}
