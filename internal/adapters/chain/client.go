package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/chainseed-org/chainseed/internal/config"
	"github.com/chainseed-org/chainseed/internal/domain"
	"github.com/chainseed-org/chainseed/internal/usecase"
)

// Client talks to the development chain over JSON-RPC. It carries the single
// deployer key used for every transaction in a run; callers are expected to
// keep at most one RPC outstanding at a time.
type Client struct {
	url     string
	wantID  uint64
	gasCap  uint64
	timeout time.Duration

	eth     *ethclient.Client
	rpc     *rpc.Client
	signer  types.Signer
	key     *ecdsa.PrivateKey
	from    common.Address
	chainID *big.Int
}

// NewClient prepares a client for the configured endpoint. The connection
// is established by Connect.
func NewClient(cfg *config.RuntimeConfig) (*Client, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.DeployerKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid deployer key: %w", err)
	}
	return &Client{
		url:     cfg.RPCURL,
		wantID:  cfg.ChainID,
		gasCap:  cfg.GasCap,
		timeout: cfg.Timeout,
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// Connect dials the chain endpoint and verifies the chain ID when one is
// configured.
func (c *Client) Connect(ctx context.Context) error {
	rpcClient, err := rpc.DialContext(ctx, c.url)
	if err != nil {
		return &domain.RpcError{Op: "dial", Err: err}
	}
	eth := ethclient.NewClient(rpcClient)

	chainID, err := eth.ChainID(ctx)
	if err != nil {
		rpcClient.Close()
		return &domain.RpcError{Op: "eth_chainId", Err: fmt.Errorf("%w: %v", domain.ErrChainUnreachable, err)}
	}
	if c.wantID != 0 && chainID.Uint64() != c.wantID {
		rpcClient.Close()
		return fmt.Errorf("chain ID mismatch: expected %d, got %d", c.wantID, chainID.Uint64())
	}

	c.rpc = rpcClient
	c.eth = eth
	c.chainID = chainID
	c.signer = types.LatestSignerForChainID(chainID)
	return nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	if c.rpc != nil {
		c.rpc.Close()
	}
}

// DeployerAddress returns the address of the funded deployer account.
func (c *Client) DeployerAddress() common.Address {
	return c.from
}

// ChainID returns the connected chain's ID.
func (c *Client) ChainID() uint64 {
	return c.chainID.Uint64()
}

// HasCode probes for deployed code at addr. This is the idempotency check
// for fixed-address contracts when reattaching to a running chain.
func (c *Client) HasCode(ctx context.Context, addr common.Address) (bool, error) {
	code, err := c.eth.CodeAt(ctx, addr, nil)
	if err != nil {
		return false, &domain.RpcError{Op: "eth_getCode", Err: err}
	}
	return len(code) > 0, nil
}

// PendingNonce returns the deployer account's next nonce. Called once per
// run; afterwards the engine increments its own counter.
func (c *Client) PendingNonce(ctx context.Context) (uint64, error) {
	nonce, err := c.eth.PendingNonceAt(ctx, c.from)
	if err != nil {
		return 0, &domain.RpcError{Op: "eth_getTransactionCount", Err: err}
	}
	return nonce, nil
}

// SetCode writes runtime bytecode directly at addr through the node's
// privileged state-mutation RPC, bypassing the transaction and gas model.
func (c *Client) SetCode(ctx context.Context, entry string, addr common.Address, code []byte) error {
	if err := c.rpc.CallContext(ctx, nil, "anvil_setCode", addr, hexutil.Encode(code)); err != nil {
		return c.stateError(entry, "anvil_setCode", err)
	}
	return nil
}

// SetStorage writes one 32-byte storage slot at addr through the privileged
// channel.
func (c *Client) SetStorage(ctx context.Context, entry string, addr common.Address, slot, value common.Hash) error {
	if err := c.rpc.CallContext(ctx, nil, "anvil_setStorageAt", addr, slot, value); err != nil {
		return c.stateError(entry, "anvil_setStorageAt", err)
	}
	return nil
}

// SendTransaction signs and submits a transaction from the deployer account.
// A nil `to` creates a contract. The caller owns nonce assignment.
func (c *Client) SendTransaction(ctx context.Context, entry string, to *common.Address, data []byte, nonce uint64) (common.Hash, error) {
	gasPrice, err := c.eth.SuggestGasPrice(ctx)
	if err != nil {
		return common.Hash{}, &domain.RpcError{Op: "eth_gasPrice", Err: err}
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       to,
		Gas:      c.gasCap,
		GasPrice: gasPrice,
		Data:     data,
	})
	signed, err := types.SignTx(tx, c.signer, c.key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%s: sign tx: %w", entry, err)
	}

	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		if isNodeError(err) {
			return common.Hash{}, &domain.ChainError{Entry: entry, Reason: "transaction rejected: " + err.Error()}
		}
		return common.Hash{}, &domain.RpcError{Op: "eth_sendRawTransaction", Err: err}
	}
	return signed.Hash(), nil
}

// WaitReceipt polls for the transaction receipt with exponential backoff,
// bounded by the configured timeout. A receipt that never arrives is a
// ChainError wrapping ErrReceiptTimeout; a status-0 receipt is a revert.
func (c *Client) WaitReceipt(ctx context.Context, entry string, txHash common.Hash) (*types.Receipt, error) {
	receipt, err := backoff.Retry(ctx, func() (*types.Receipt, error) {
		r, err := c.eth.TransactionReceipt(ctx, txHash)
		if err != nil {
			if errors.Is(err, ethereum.NotFound) {
				return nil, err // still pending, keep polling
			}
			return nil, backoff.Permanent(&domain.RpcError{Op: "eth_getTransactionReceipt", Err: err})
		}
		return r, nil
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxElapsedTime(c.timeout))
	if err != nil {
		var rpcErr *domain.RpcError
		if errors.As(err, &rpcErr) {
			return nil, err
		}
		return nil, &domain.ChainError{
			Entry:  entry,
			Reason: domain.ErrReceiptTimeout.Error(),
			TxHash: txHash.Hex(),
		}
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, &domain.ChainError{Entry: entry, Reason: "transaction reverted", TxHash: txHash.Hex()}
	}
	return receipt, nil
}

// Call performs a read-only eth_call against the latest block.
func (c *Client) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	out, err := c.eth.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		if isNodeError(err) {
			return nil, fmt.Errorf("call reverted: %w", err)
		}
		return nil, &domain.RpcError{Op: "eth_call", Err: err}
	}
	return out, nil
}

// stateError classifies a failed privileged state mutation: an error
// response from the node is a rejected injection, anything else is
// transport.
func (c *Client) stateError(entry, op string, err error) error {
	if isNodeError(err) {
		return &domain.ChainError{Entry: entry, Reason: op + " rejected: " + err.Error()}
	}
	return &domain.RpcError{Op: op, Err: err}
}

// isNodeError reports whether err is an error response from the chain node
// rather than a transport failure.
func isNodeError(err error) bool {
	var rpcErr rpc.Error
	return errors.As(err, &rpcErr)
}

// Ensure the adapter implements the interface
var _ usecase.ChainClient = (*Client)(nil)
