package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrChainUnreachable is returned when the chain endpoint can't be reached
	ErrChainUnreachable = errors.New("chain unreachable")

	// ErrReceiptTimeout is returned when a transaction receipt never arrives
	ErrReceiptTimeout = errors.New("timed out waiting for receipt")
)

// ConfigError reports a structurally invalid manifest: a malformed file, a
// missing required field, or the wrong count of deployment/payload modes.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config at %s: %s", e.Field, e.Reason)
}

// ReferenceError reports a `#name` token whose name is not in the registry at
// the point of use, either undefined or defined later in file order.
type ReferenceError struct {
	Entry string // declarative entry using the token
	Name  string // referenced contract name, without '#'
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s: reference to unknown contract #%s (references resolve in file order)", e.Entry, e.Name)
}

// EncodingError reports an unsupported type tag, a literal that doesn't parse
// for its declared type, or a wrong-length storage key.
type EncodingError struct {
	Field  string
	Type   ArgType
	Reason string
}

func (e *EncodingError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("%s: cannot encode as %s: %s", e.Field, e.Type, e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// RpcError reports a transport failure talking to the chain endpoint. The
// underlying error text is preserved for diagnostics.
type RpcError struct {
	Op  string // RPC method or logical operation
	Err error
}

func (e *RpcError) Error() string {
	return fmt.Sprintf("rpc %s: %v", e.Op, e.Err)
}

func (e *RpcError) Unwrap() error { return e.Err }

// ChainError reports an on-chain failure: a reverted or dropped transaction,
// or a rejected state injection.
type ChainError struct {
	Entry  string
	Reason string
	TxHash string
}

func (e *ChainError) Error() string {
	if e.TxHash != "" {
		return fmt.Sprintf("%s: %s (tx %s)", e.Entry, e.Reason, e.TxHash)
	}
	return fmt.Sprintf("%s: %s", e.Entry, e.Reason)
}
