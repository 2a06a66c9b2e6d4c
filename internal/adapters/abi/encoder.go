package abi

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/chainseed-org/chainseed/internal/domain"
	"github.com/chainseed-org/chainseed/internal/usecase"
)

// Encoder packs manifest argument values into canonical ABI encodings.
// Address arguments carrying `#name` references are resolved against the
// run's registry before packing.
type Encoder struct{}

// NewEncoder creates a new encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Selector returns the 4-byte function selector for the canonical textual
// signature, e.g. "approve(address,uint256)".
func Selector(signature string) [4]byte {
	var sel [4]byte
	copy(sel[:], crypto.Keccak256([]byte(signature))[:4])
	return sel
}

// EncodeCall builds complete calldata: the 4-byte selector of signature
// followed by the packed, order-preserving argument tuple.
func (e *Encoder) EncodeCall(entry, signature string, args []domain.ArgValue, reg *domain.Registry) ([]byte, error) {
	packed, err := e.EncodeArgs(entry, args, reg)
	if err != nil {
		return nil, err
	}
	sel := Selector(signature)
	return append(sel[:], packed...), nil
}

// EncodeArgs packs the arguments as a standard ABI tuple. Dynamic types
// (string, bytes) get the usual offset/length layout, scalars are padded to
// 32 bytes.
func (e *Encoder) EncodeArgs(entry string, args []domain.ArgValue, reg *domain.Registry) ([]byte, error) {
	if len(args) == 0 {
		return nil, nil
	}

	arguments := make(abi.Arguments, 0, len(args))
	values := make([]any, 0, len(args))

	for i, arg := range args {
		field := fmt.Sprintf("%s.args[%d]", entry, i)

		abiType, value, err := e.argValue(field, arg, reg)
		if err != nil {
			return nil, err
		}
		arguments = append(arguments, abi.Argument{Type: abiType})
		values = append(values, value)
	}

	packed, err := arguments.Pack(values...)
	if err != nil {
		return nil, &domain.EncodingError{Field: entry, Reason: err.Error()}
	}
	return packed, nil
}

// argValue converts one tagged manifest value into its abi.Type and the Go
// value accounts/abi packs for that type.
func (e *Encoder) argValue(field string, arg domain.ArgValue, reg *domain.Registry) (abi.Type, any, error) {
	fail := func(reason string) (abi.Type, any, error) {
		return abi.Type{}, nil, &domain.EncodingError{Field: field, Type: arg.Type, Reason: reason}
	}

	switch arg.Type {
	case domain.ArgAddress:
		addr, err := reg.Resolve(field, arg.Value)
		if err != nil {
			return abi.Type{}, nil, err
		}
		return mustType("address"), addr, nil

	case domain.ArgUint256, domain.ArgUint:
		n, err := parseUint(arg.Value)
		if err != nil {
			return fail(err.Error())
		}
		if n.BitLen() > 256 {
			return fail("value does not fit in 256 bits")
		}
		return mustType("uint256"), n, nil

	case domain.ArgUint32:
		n, err := parseUint(arg.Value)
		if err != nil {
			return fail(err.Error())
		}
		if n.BitLen() > 32 {
			return fail("value does not fit in 32 bits")
		}
		return mustType("uint32"), uint32(n.Uint64()), nil

	case domain.ArgUint8:
		n, err := parseUint(arg.Value)
		if err != nil {
			return fail(err.Error())
		}
		if n.BitLen() > 8 {
			return fail("value does not fit in 8 bits")
		}
		return mustType("uint8"), uint8(n.Uint64()), nil

	case domain.ArgString:
		return mustType("string"), arg.Value, nil

	case domain.ArgBytes:
		data, err := decodeHex(arg.Value)
		if err != nil {
			return fail(err.Error())
		}
		return mustType("bytes"), data, nil

	case domain.ArgBool:
		switch arg.Value {
		case "true":
			return mustType("bool"), true, nil
		case "false":
			return mustType("bool"), false, nil
		default:
			return fail("not a bool literal: " + arg.Value)
		}

	default:
		return fail(fmt.Sprintf("unsupported type tag %q", arg.Type))
	}
}

func mustType(name string) abi.Type {
	t, err := abi.NewType(name, "", nil)
	if err != nil {
		panic(fmt.Sprintf("abi type %s: %v", name, err))
	}
	return t
}

func parseUint(s string) (*big.Int, error) {
	base := 10
	digits := s
	if strings.HasPrefix(s, "0x") {
		base = 16
		digits = s[2:]
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("not an unsigned integer: %s", s)
	}
	return n, nil
}

func decodeHex(s string) ([]byte, error) {
	if !strings.HasPrefix(s, "0x") {
		return nil, fmt.Errorf("hex literal must start with 0x: %s", s)
	}
	data, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex literal %s: %v", s, err)
	}
	return data, nil
}

var _ usecase.CallEncoder = (*Encoder)(nil)
