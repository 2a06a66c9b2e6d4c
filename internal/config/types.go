package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration.
// This is injected into use cases and contains all resolved settings.
type RuntimeConfig struct {
	// Core settings
	WorkDir      string
	ManifestPath string

	// Chain endpoint
	Port    int
	RPCURL  string // derived from Port when not set explicitly
	ChainID uint64

	// The single funded account signing all deployment and call transactions.
	DeployerKey string // 0x-prefixed hex private key

	// Execution settings
	Debug   bool
	Timeout time.Duration // overall receipt-wait timeout per transaction
	GasCap  uint64        // gas limit for provisioning transactions
}
