package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// DefaultManifestName is looked up in the working directory when no
	// manifest path is given.
	DefaultManifestName = "Chainseed.toml"

	// DefaultDeployerKey is the first pre-funded anvil account
	// (0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266).
	DefaultDeployerKey = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
)

// Provider creates RuntimeConfig for Wire dependency injection.
func Provider(v *viper.Viper) (*RuntimeConfig, error) {
	workDir := v.GetString("work_dir")
	if workDir == "" {
		var err error
		workDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve working directory: %w", err)
		}
	}

	cfg := &RuntimeConfig{
		WorkDir:      workDir,
		ManifestPath: v.GetString("manifest"),
		Port:         v.GetInt("port"),
		RPCURL:       v.GetString("rpc_url"),
		ChainID:      v.GetUint64("chain_id"),
		DeployerKey:  v.GetString("deployer_key"),
		Debug:        v.GetBool("debug"),
		Timeout:      v.GetDuration("timeout"),
		GasCap:       v.GetUint64("gas_cap"),
	}

	if cfg.ManifestPath == "" {
		cfg.ManifestPath = filepath.Join(workDir, DefaultManifestName)
	} else if !filepath.IsAbs(cfg.ManifestPath) {
		cfg.ManifestPath = filepath.Join(workDir, cfg.ManifestPath)
	}

	if cfg.RPCURL == "" {
		cfg.RPCURL = fmt.Sprintf("http://127.0.0.1:%d", cfg.Port)
	}

	return cfg, nil
}

// SetupViper creates and configures a viper instance. Values resolve in the
// usual precedence: flags, then CHAINSEED_* environment variables (a .env
// file in the working directory is honored), then defaults.
func SetupViper(cmd *cobra.Command) *viper.Viper {
	// Best effort; a missing .env is not an error.
	_ = godotenv.Load()

	v := viper.New()

	v.SetEnvPrefix("CHAINSEED")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("port", 8545)
	v.SetDefault("chain_id", 31337)
	v.SetDefault("timeout", "30s")
	v.SetDefault("gas_cap", uint64(0x500000))
	v.SetDefault("deployer_key", DefaultDeployerKey)
	v.SetDefault("debug", false)

	bindFlags(v, cmd)
	return v
}

// bindFlags binds any flags that were explicitly set on the command.
func bindFlags(v *viper.Viper, cmd *cobra.Command) {
	for _, name := range []string{"manifest", "port", "rpc-url", "chain-id", "deployer-key", "timeout", "debug"} {
		if flag := cmd.Flags().Lookup(name); flag != nil && flag.Changed {
			key := strings.ReplaceAll(name, "-", "_")
			v.Set(key, flag.Value.String())
		}
	}
}
