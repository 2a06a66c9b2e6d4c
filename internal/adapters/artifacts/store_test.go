package artifacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainseed-org/chainseed/internal/config"
	"github.com/chainseed-org/chainseed/internal/domain"
)

func newStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	return NewStore(&config.RuntimeConfig{WorkDir: dir}), dir
}

func writeArtifact(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestStore_FoundryArtifact(t *testing.T) {
	store, dir := newStore(t)
	writeArtifact(t, dir, "Token.json", `{
		"abi": [],
		"bytecode": {"object": "0x600160"},
		"deployedBytecode": {"object": "0x6001"}
	}`)

	creation, err := store.CreationBytecode("Token.json")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x01, 0x60}, creation)

	runtime, err := store.RuntimeBytecode("Token.json")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x01}, runtime)
}

func TestStore_BrownieArtifact(t *testing.T) {
	store, dir := newStore(t)
	writeArtifact(t, dir, "Token.json", `{
		"bytecode": "0xdeadbeef",
		"deployedBytecode": "0xbeef"
	}`)

	creation, err := store.CreationBytecode("Token.json")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, creation)
}

func TestStore_RawHexFile(t *testing.T) {
	store, dir := newStore(t)
	writeArtifact(t, dir, "runtime.hex", "0x6001600101\n")

	code, err := store.RuntimeBytecode("runtime.hex")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x01, 0x60, 0x01, 0x01}, code)
}

func TestStore_Errors(t *testing.T) {
	store, dir := newStore(t)

	t.Run("missing file", func(t *testing.T) {
		_, err := store.CreationBytecode("nope.json")
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorContains(t, err, "nope.json")
	})

	t.Run("missing field", func(t *testing.T) {
		writeArtifact(t, dir, "nobytecode.json", `{"abi": []}`)
		_, err := store.CreationBytecode("nobytecode.json")
		assert.ErrorContains(t, err, "has no bytecode")
	})

	t.Run("empty bytecode", func(t *testing.T) {
		writeArtifact(t, dir, "empty.json", `{"bytecode": {"object": "0x"}}`)
		_, err := store.CreationBytecode("empty.json")
		assert.ErrorContains(t, err, "empty")
	})

	t.Run("bad hex", func(t *testing.T) {
		writeArtifact(t, dir, "bad.json", `{"bytecode": {"object": "0xzz"}}`)
		_, err := store.CreationBytecode("bad.json")
		assert.ErrorContains(t, err, "invalid")
	})
}

func TestStore_AbsolutePath(t *testing.T) {
	store, _ := newStore(t)
	other := t.TempDir()
	writeArtifact(t, other, "Token.json", `{"bytecode": {"object": "0x6001"}}`)

	code, err := store.CreationBytecode(filepath.Join(other, "Token.json"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x01}, code)
}
