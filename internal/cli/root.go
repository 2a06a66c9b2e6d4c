package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chainseed-org/chainseed/internal/adapters/progress"
	"github.com/chainseed-org/chainseed/internal/app"
	"github.com/chainseed-org/chainseed/internal/config"
	"github.com/chainseed-org/chainseed/internal/usecase"
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
		Use:   "chainseed",
		Short: "Declarative provisioning for local Ethereum development chains",
		Long: `Chainseed reads a declarative manifest describing the contracts, storage
state and transactions a development chain should have, then drives a local
node into that state. Re-running against an already provisioned chain is a
no-op: every contract with a known address is probed before any work is done.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			v := config.SetupViper(cmd)

			var sink usecase.ProgressSink = progress.NewSpinnerSink()
			if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
				sink = usecase.NopProgress{}
			}

			appInstance, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)
			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("manifest", "m", "", "Path to the manifest (defaults to Chainseed.toml)")
	rootCmd.PersistentFlags().IntP("port", "p", 0, "Port of the local node (defaults to 8545)")
	rootCmd.PersistentFlags().String("rpc-url", "", "RPC endpoint (overrides --port)")
	rootCmd.PersistentFlags().Uint64("chain-id", 0, "Expected chain ID (defaults to 31337)")
	rootCmd.PersistentFlags().String("deployer-key", "", "Deployer private key (defaults to the first dev account)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Per-receipt confirmation timeout")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Suppress progress output")

	rootCmd.AddCommand(NewProvisionCmd())
	rootCmd.AddCommand(NewVerifyCmd())
	rootCmd.AddCommand(NewNodeCmd())
	rootCmd.AddCommand(NewInitCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
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
