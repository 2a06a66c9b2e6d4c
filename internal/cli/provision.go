package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/chainseed-org/chainseed/internal/cli/render"
	"github.com/chainseed-org/chainseed/internal/usecase"
)

// NewProvisionCmd creates the provision command
func NewProvisionCmd() *cobra.Command {
	var skipChecks bool

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Drive the chain into the state declared by the manifest",
		Long: `Provision reads the manifest and makes the chain match it:

- Contracts with a declared address are probed first; anything already on
  chain is skipped, so repeated runs against the same node are no-ops.
- Contracts declared by build artifact are deployed through regular signed
  transactions, constructor arguments ABI-encoded from the manifest.
- Contracts declared by raw bytecode are written directly into chain state,
  together with any declared storage slots.
- Post-deployment transactions then run in declaration order, with #name
  references resolved against the addresses recorded so far.

The first failed step aborts the run; state already written is left as is.

Examples:
  # Provision using ./Chainseed.toml against localhost:8545
  chainseed provision

  # A different manifest and port
  chainseed provision -m testnet.toml -p 9545

  # Skip the declared checks
  chainseed provision --skip-checks`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ProvisionChain.Run(cmd.Context(), usecase.ProvisionParams{
				ManifestPath: app.Config.ManifestPath,
				SkipChecks:   skipChecks,
			})
			if result != nil {
				r := render.NewProvisionRenderer(os.Stdout)
				if rerr := r.Render(result); rerr != nil {
					return rerr
				}
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&skipChecks, "skip-checks", false, "Do not run the declared verification checks")

	return cmd
}
