package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/chainseed-org/chainseed/internal/cli/render"
	"github.com/chainseed-org/chainseed/internal/usecase"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Run the manifest's checks against a provisioned chain",
		Long: `Verify runs the read-only checks declared in the manifest without
deploying or mutating anything. Failed checks are reported as warnings;
the command only fails when the chain itself cannot be reached.

Examples:
  # Check the chain behind ./Chainseed.toml
  chainseed verify

  # Against a custom endpoint
  chainseed verify --rpc-url http://127.0.0.1:9545`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			results, err := app.VerifyChain.Run(cmd.Context(), usecase.VerifyParams{
				ManifestPath: app.Config.ManifestPath,
			})
			if err != nil {
				return err
			}

			return render.NewVerifyRenderer(os.Stdout).Render(results)
		},
	}

	return cmd
}
