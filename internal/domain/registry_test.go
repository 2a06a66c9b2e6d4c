package domain

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RecordAndLookup(t *testing.T) {
	reg := NewRegistry()
	token := common.HexToAddress("0x1111111111111111111111111111111111111111")
	staking := common.HexToAddress("0x2222222222222222222222222222222222222222")

	require.NoError(t, reg.Record("token", token))
	require.NoError(t, reg.Record("staking", staking))

	got, ok := reg.Lookup("token")
	require.True(t, ok)
	assert.Equal(t, token, got)

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"token", "staking"}, reg.Names())
}

func TestRegistry_RecordDuplicate(t *testing.T) {
	reg := NewRegistry()
	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")
	require.NoError(t, reg.Record("token", addr))

	err := reg.Record("token", addr)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestRegistry_Resolve(t *testing.T) {
	reg := NewRegistry()
	token := common.HexToAddress("0x1111111111111111111111111111111111111111")
	require.NoError(t, reg.Record("token", token))

	t.Run("reference", func(t *testing.T) {
		got, err := reg.Resolve("tx approve", "#token")
		require.NoError(t, err)
		assert.Equal(t, token, got)
	})

	t.Run("literal address", func(t *testing.T) {
		got, err := reg.Resolve("tx approve", "0x000000000000000000000000000000000000beef")
		require.NoError(t, err)
		assert.Equal(t, common.HexToAddress("0x000000000000000000000000000000000000beef"), got)
	})

	t.Run("forward reference fails", func(t *testing.T) {
		_, err := reg.Resolve("contract staking", "#defined-later")
		var refErr *ReferenceError
		require.ErrorAs(t, err, &refErr)
		assert.Equal(t, "defined-later", refErr.Name)
		assert.Equal(t, "contract staking", refErr.Entry)
	})

	t.Run("malformed literal fails", func(t *testing.T) {
		_, err := reg.Resolve("tx approve", "0x1234")
		var encErr *EncodingError
		require.ErrorAs(t, err, &encErr)
	})
}
