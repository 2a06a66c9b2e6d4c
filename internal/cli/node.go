package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/chainseed-org/chainseed/internal/cli/render"
	"github.com/chainseed-org/chainseed/internal/domain"
	"github.com/chainseed-org/chainseed/internal/usecase"
)

// NewNodeCmd creates the node command group
func NewNodeCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage the local development chain node",
		Long: `Manage a local anvil instance for provisioning to target.

If a node is already answering on the configured port, start reuses it
instead of spawning another one.`,
	}

	cmd.PersistentFlags().StringVar(&name, "name", "default", "Instance name")

	cmd.AddCommand(newNodeOpCmd("start", "Start the local node", &name))
	cmd.AddCommand(newNodeOpCmd("stop", "Stop the local node", &name))
	cmd.AddCommand(newNodeOpCmd("status", "Show node status", &name))
	cmd.AddCommand(newNodeLogsCmd(&name))

	return cmd
}

func newNodeOpCmd(op, short string, name *string) *cobra.Command {
	return &cobra.Command{
		Use:          op,
		Short:        short,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ManageNode.Execute(cmd.Context(), usecase.ManageNodeParams{
				Operation: op,
				Name:      *name,
				Port:      app.Config.Port,
				ChainID:   app.Config.ChainID,
			})
			if err != nil {
				return err
			}

			return render.NewNodeRenderer().Render(result)
		},
	}
}

func newNodeLogsCmd(name *string) *cobra.Command {
	return &cobra.Command{
		Use:          "logs",
		Short:        "Stream node logs",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ManageNode.Execute(cmd.Context(), usecase.ManageNodeParams{
				Operation: "status",
				Name:      *name,
				Port:      app.Config.Port,
				ChainID:   app.Config.ChainID,
			})
			if err != nil {
				return err
			}

			renderer := render.NewNodeRenderer()
			if err := renderer.RenderLogsHeader(result); err != nil {
				return err
			}

			instance := &domain.NodeInstance{
				Name:    *name,
				Port:    app.Config.Port,
				ChainID: app.Config.ChainID,
			}
			return app.NodeManager.StreamLogs(cmd.Context(), instance, os.Stdout)
		},
	}
}
