package abi

import (
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainseed-org/chainseed/internal/domain"
)

func TestSelector(t *testing.T) {
	// Well-known ERC20 selectors.
	assert.Equal(t, "095ea7b3", hex.EncodeToString(sel4(Selector("approve(address,uint256)"))))
	assert.Equal(t, "a9059cbb", hex.EncodeToString(sel4(Selector("transfer(address,uint256)"))))
	assert.Equal(t, "70a08231", hex.EncodeToString(sel4(Selector("balanceOf(address)"))))
	assert.Equal(t, "18160ddd", hex.EncodeToString(sel4(Selector("totalSupply()"))))
}

func sel4(s [4]byte) []byte { return s[:] }

func TestEncodeArgs_Scalars(t *testing.T) {
	enc := NewEncoder()
	reg := domain.NewRegistry()

	args := []domain.ArgValue{
		{Type: domain.ArgAddress, Value: "0x000000000000000000000000000000000000beef"},
		{Type: domain.ArgUint256, Value: "1000000000000000000000"},
		{Type: domain.ArgBool, Value: "true"},
		{Type: domain.ArgUint8, Value: "255"},
	}

	packed, err := enc.EncodeArgs("test", args, reg)
	require.NoError(t, err)
	require.Len(t, packed, 4*32)

	// address: left-padded to a 32-byte word
	assert.Equal(t,
		"000000000000000000000000000000000000000000000000000000000000beef",
		hex.EncodeToString(packed[0:32]))
	// 1e21 = 0x3635c9adc5dea00000
	assert.Equal(t,
		"00000000000000000000000000000000000000000000003635c9adc5dea00000",
		hex.EncodeToString(packed[32:64]))
	// bool true
	assert.Equal(t,
		"0000000000000000000000000000000000000000000000000000000000000001",
		hex.EncodeToString(packed[64:96]))
	// uint8 255
	assert.Equal(t,
		"00000000000000000000000000000000000000000000000000000000000000ff",
		hex.EncodeToString(packed[96:128]))
}

func TestEncodeArgs_DynamicString(t *testing.T) {
	enc := NewEncoder()
	packed, err := enc.EncodeArgs("test", []domain.ArgValue{
		{Type: domain.ArgString, Value: "hi"},
	}, domain.NewRegistry())
	require.NoError(t, err)

	// offset word, length word, padded content
	require.Len(t, packed, 3*32)
	assert.Equal(t,
		"0000000000000000000000000000000000000000000000000000000000000020",
		hex.EncodeToString(packed[0:32]))
	assert.Equal(t,
		"0000000000000000000000000000000000000000000000000000000000000002",
		hex.EncodeToString(packed[32:64]))
	assert.Equal(t,
		"6869000000000000000000000000000000000000000000000000000000000000",
		hex.EncodeToString(packed[64:96]))
}

func TestEncodeArgs_ResolvesReferences(t *testing.T) {
	enc := NewEncoder()
	reg := domain.NewRegistry()
	token := common.HexToAddress("0x1111111111111111111111111111111111111111")
	require.NoError(t, reg.Record("token", token))

	packed, err := enc.EncodeArgs("test", []domain.ArgValue{
		{Type: domain.ArgAddress, Value: "#token"},
	}, reg)
	require.NoError(t, err)
	assert.Equal(t,
		"0000000000000000000000001111111111111111111111111111111111111111",
		hex.EncodeToString(packed))
}

func TestEncodeArgs_UnknownReference(t *testing.T) {
	enc := NewEncoder()
	_, err := enc.EncodeArgs("contract staking", []domain.ArgValue{
		{Type: domain.ArgAddress, Value: "#token"},
	}, domain.NewRegistry())

	var refErr *domain.ReferenceError
	require.ErrorAs(t, err, &refErr)
	assert.Equal(t, "token", refErr.Name)
}

func TestEncodeArgs_BadLiterals(t *testing.T) {
	enc := NewEncoder()
	reg := domain.NewRegistry()

	tests := []struct {
		name string
		arg  domain.ArgValue
	}{
		{"negative uint", domain.ArgValue{Type: domain.ArgUint256, Value: "-1"}},
		{"uint8 overflow", domain.ArgValue{Type: domain.ArgUint8, Value: "300"}},
		{"uint32 overflow", domain.ArgValue{Type: domain.ArgUint32, Value: "4294967296"}},
		{"bad bool", domain.ArgValue{Type: domain.ArgBool, Value: "yes"}},
		{"bytes without prefix", domain.ArgValue{Type: domain.ArgBytes, Value: "deadbeef"}},
		{"unsupported tag", domain.ArgValue{Type: domain.ArgType("int128"), Value: "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := enc.EncodeArgs("test", []domain.ArgValue{tt.arg}, reg)
			var encErr *domain.EncodingError
			require.ErrorAs(t, err, &encErr)
		})
	}
}

func TestEncodeCall(t *testing.T) {
	enc := NewEncoder()
	reg := domain.NewRegistry()
	staking := common.HexToAddress("0x2222222222222222222222222222222222222222")
	require.NoError(t, reg.Record("staking", staking))

	data, err := enc.EncodeCall("tx approve", "approve(address,uint256)", []domain.ArgValue{
		{Type: domain.ArgAddress, Value: "#staking"},
		{Type: domain.ArgUint256, Value: "500"},
	}, reg)
	require.NoError(t, err)

	require.Len(t, data, 4+2*32)
	assert.Equal(t, "095ea7b3", hex.EncodeToString(data[:4]))
	assert.Equal(t,
		"0000000000000000000000002222222222222222222222222222222222222222",
		hex.EncodeToString(data[4:36]))
	assert.Equal(t,
		"00000000000000000000000000000000000000000000000000000000000001f4",
		hex.EncodeToString(data[36:68]))
}

func TestEncodeCall_NoArgs(t *testing.T) {
	enc := NewEncoder()
	data, err := enc.EncodeCall("check", "totalSupply()", nil, domain.NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, "18160ddd", hex.EncodeToString(data))
}
