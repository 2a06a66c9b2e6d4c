package usecase

import (
	"context"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/chainseed-org/chainseed/internal/domain"
)

// ChainClient is the JSON-RPC boundary to the development chain. One
// outstanding call at a time: nonce assignment and the forward-only registry
// depend on strict completion order.
type ChainClient interface {
	// Connect dials the endpoint and verifies the chain ID.
	Connect(ctx context.Context) error
	Close()

	DeployerAddress() common.Address
	ChainID() uint64

	// HasCode is the idempotency probe for fixed-address contracts.
	HasCode(ctx context.Context, addr common.Address) (bool, error)

	// PendingNonce seeds the run-scoped nonce counter.
	PendingNonce(ctx context.Context) (uint64, error)

	// SetCode and SetStorage are the privileged state-injection channel,
	// bypassing the transaction and gas model.
	SetCode(ctx context.Context, entry string, addr common.Address, code []byte) error
	SetStorage(ctx context.Context, entry string, addr common.Address, slot, value common.Hash) error

	// SendTransaction signs with the deployer key and submits. A nil target
	// creates a contract.
	SendTransaction(ctx context.Context, entry string, to *common.Address, data []byte, nonce uint64) (common.Hash, error)

	// WaitReceipt blocks until the receipt is available, bounded by the
	// configured timeout.
	WaitReceipt(ctx context.Context, entry string, txHash common.Hash) (*types.Receipt, error)

	// Call performs a read-only call for verification checks.
	Call(ctx context.Context, to common.Address, data []byte) ([]byte, error)
}

// ArtifactStore loads bytecode from compiler build artifacts.
type ArtifactStore interface {
	CreationBytecode(path string) ([]byte, error)
	RuntimeBytecode(path string) ([]byte, error)
}

// CallEncoder converts tagged manifest values into canonical ABI encodings.
type CallEncoder interface {
	EncodeArgs(entry string, args []domain.ArgValue, reg *domain.Registry) ([]byte, error)
	EncodeCall(entry, signature string, args []domain.ArgValue, reg *domain.Registry) ([]byte, error)
}

// ManifestLoader parses and validates the declarative manifest.
type ManifestLoader interface {
	Load(path string) (*domain.Manifest, error)
}

// NodeManager manages local development chain node processes.
type NodeManager interface {
	Start(ctx context.Context, instance *domain.NodeInstance) error
	Stop(ctx context.Context, instance *domain.NodeInstance) error
	GetStatus(ctx context.Context, instance *domain.NodeInstance) (*domain.NodeStatus, error)
	StreamLogs(ctx context.Context, instance *domain.NodeInstance, writer io.Writer) error
}

// ProgressSink receives user-facing progress messages during a run.
type ProgressSink interface {
	StepStart(message string)
	StepDone(message string)
	Info(message string)
	Warn(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink.
type NopProgress struct{}

func (NopProgress) StepStart(string) {}
func (NopProgress) StepDone(string)  {}
func (NopProgress) Info(string)      {}
func (NopProgress) Warn(string)      {}
func (NopProgress) Error(string)     {}
