//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"

	"github.com/chainseed-org/chainseed/internal/adapters"
	"github.com/chainseed-org/chainseed/internal/config"
	"github.com/chainseed-org/chainseed/internal/logging"
	"github.com/chainseed-org/chainseed/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Configuration and logging
		config.Provider,
		logging.NewLogger,

		// Adapters
		adapters.AllAdapters,

		// Use cases
		usecase.NewProvisionChain,
		usecase.NewVerifyChain,
		usecase.NewManageNode,

		// App
		NewApp,
	)
	return nil, nil
}
