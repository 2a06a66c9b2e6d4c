package domain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ArgType tags a manifest argument value with its ABI type.
type ArgType string

const (
	ArgAddress ArgType = "address"
	ArgUint256 ArgType = "uint256"
	ArgUint    ArgType = "uint"
	ArgUint32  ArgType = "uint32"
	ArgUint8   ArgType = "uint8"
	ArgString  ArgType = "string"
	ArgBytes   ArgType = "bytes"
	ArgBool    ArgType = "bool"
)

// Known reports whether the tag is part of the supported set.
func (t ArgType) Known() bool {
	switch t {
	case ArgAddress, ArgUint256, ArgUint, ArgUint32, ArgUint8, ArgString, ArgBytes, ArgBool:
		return true
	}
	return false
}

// ArgValue is a typed argument from the manifest. Value is either a literal
// for the tagged type or a `#name` reference to a previously resolved contract.
type ArgValue struct {
	Type  ArgType
	Value string
}

// Reference returns the referenced contract name when Value is a `#name` token.
func (a ArgValue) Reference() (string, bool) {
	return refName(a.Value)
}

// SlotValue is a storage slot value: exactly one of Ref, Hex or Num is set.
type SlotValue struct {
	Ref string   // contract name from a `#name` token
	Hex string   // 0x-prefixed hex literal
	Num *big.Int // decimal literal
}

// SlotEntry is a single storage write, key already normalized to 32 bytes.
type SlotEntry struct {
	Key   common.Hash
	Value SlotValue
}

// DeployMode selects how a contract reaches the chain.
type DeployMode int

const (
	// ModeArtifact submits a contract-creation transaction built from the
	// creation bytecode in a compiler artifact.
	ModeArtifact DeployMode = iota
	// ModeInlineCode injects literal runtime bytecode at a fixed address.
	ModeInlineCode
	// ModeCodeArtifact injects runtime bytecode loaded from a compiler
	// artifact at a fixed address.
	ModeCodeArtifact
)

// ContractSpec is one ordered contract entry from the manifest. The loader
// guarantees exactly one deployment mode is populated.
type ContractSpec struct {
	Name            string
	Address         *common.Address
	ArtifactPath    string
	ConstructorArgs []ArgValue
	Bytecode        string
	BytecodePath    string
	Storage         []SlotEntry
}

// Mode returns the deployment mode implied by the populated fields.
func (c *ContractSpec) Mode() DeployMode {
	switch {
	case c.ArtifactPath != "":
		return ModeArtifact
	case c.Bytecode != "":
		return ModeInlineCode
	default:
		return ModeCodeArtifact
	}
}

// FixedAddress reports whether the operator pinned the contract's address.
func (c *ContractSpec) FixedAddress() bool {
	return c.Address != nil
}

// TransactionSpec is one ordered post-deployment call from the manifest.
// The loader guarantees exactly one payload mode is populated.
type TransactionSpec struct {
	Name      string
	Target    string // hex address or `#name`
	Signature string // canonical textual signature, e.g. initialize(address)
	Args      []ArgValue
	Data      string // raw 0x-prefixed calldata
}

// CheckSpec is an optional read-only verification call executed after
// provisioning. Check failures never abort a run.
type CheckSpec struct {
	Name      string
	Target    string
	Signature string
	Args      []ArgValue
	Data      string
	Expect    string // 0x-prefixed expected return data, empty = call must just succeed
}

// Manifest is the parsed, validated declarative configuration in file order.
type Manifest struct {
	Contracts    []ContractSpec
	Transactions []TransactionSpec
	Checks       []CheckSpec
}

func refName(token string) (string, bool) {
	if len(token) > 1 && token[0] == '#' {
		return token[1:], true
	}
	return "", false
}
