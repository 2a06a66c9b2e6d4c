package adapters

import (
	"github.com/google/wire"

	"github.com/chainseed-org/chainseed/internal/adapters/abi"
	"github.com/chainseed-org/chainseed/internal/adapters/artifacts"
	"github.com/chainseed-org/chainseed/internal/adapters/chain"
	"github.com/chainseed-org/chainseed/internal/adapters/node"
	"github.com/chainseed-org/chainseed/internal/config"
	"github.com/chainseed-org/chainseed/internal/usecase"
)

// ChainSet provides the JSON-RPC chain client.
var ChainSet = wire.NewSet(
	chain.NewClient,
	wire.Bind(new(usecase.ChainClient), new(*chain.Client)),
)

// ArtifactSet provides bytecode loading from build artifacts.
var ArtifactSet = wire.NewSet(
	artifacts.NewStore,
	wire.Bind(new(usecase.ArtifactStore), new(*artifacts.Store)),
)

// EncoderSet provides ABI call encoding.
var EncoderSet = wire.NewSet(
	abi.NewEncoder,
	wire.Bind(new(usecase.CallEncoder), new(*abi.Encoder)),
)

// ManifestSet provides manifest loading.
var ManifestSet = wire.NewSet(
	config.NewManifestLoader,
	wire.Bind(new(usecase.ManifestLoader), new(*config.ManifestLoader)),
)

// NodeSet provides local node process management.
var NodeSet = wire.NewSet(
	node.NewManager,
	wire.Bind(new(usecase.NodeManager), new(*node.Manager)),
)

// AllAdapters includes all adapter sets.
var AllAdapters = wire.NewSet(
	ChainSet,
	ArtifactSet,
	EncoderSet,
	ManifestSet,
	NodeSet,
)
