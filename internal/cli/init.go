package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chainseed-org/chainseed/internal/config"
)

const starterManifest = `# Chainseed manifest. Entries are processed top to bottom; a #name
# reference may only point at an entry declared above it.

[[contracts]]
name = "token"
contract_json_path = "out/Token.sol/Token.json"
constructor_args = [
    { type = "address", value = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266" },
]

# [[transactions]]
# name = "approve"
# target = "#token"
# function_signature = "approve(address,uint256)"
# args = [
#     { type = "address", value = "#token" },
#     { type = "uint256", value = "1000000" },
# ]

# [[checks]]
# name = "total-supply"
# target = "#token"
# function_signature = "totalSupply()"
`

// NewInitCmd creates the init command
func NewInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "init",
		Short:        "Create a starter manifest in the current directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			wd, err := os.Getwd()
			if err != nil {
				return err
			}
			path := filepath.Join(wd, config.DefaultManifestName)

			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", config.DefaultManifestName)
			}

			if err := os.WriteFile(path, []byte(starterManifest), 0o644); err != nil {
				return fmt.Errorf("failed to write manifest: %w", err)
			}

			color.New(color.FgGreen).Printf("✓ Created %s\n", config.DefaultManifestName)
			fmt.Println("Edit it, then run: chainseed provision")
			return nil
		},
	}
}
