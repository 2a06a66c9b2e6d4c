package app

import (
	"log/slog"

	"github.com/chainseed-org/chainseed/internal/config"
	"github.com/chainseed-org/chainseed/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig
	Logger *slog.Logger

	// Use cases
	ProvisionChain *usecase.ProvisionChain
	VerifyChain    *usecase.VerifyChain
	ManageNode     *usecase.ManageNode

	// Adapters (needed for special cases like log streaming)
	NodeManager usecase.NodeManager
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	logger *slog.Logger,
	provisionChain *usecase.ProvisionChain,
	verifyChain *usecase.VerifyChain,
	manageNode *usecase.ManageNode,
	nodeManager usecase.NodeManager,
) (*App, error) {
	return &App{
		Config:         cfg,
		Logger:         logger,
		ProvisionChain: provisionChain,
		VerifyChain:    verifyChain,
		ManageNode:     manageNode,
		NodeManager:    nodeManager,
	}, nil
}
