package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainseed-org/chainseed/internal/domain"
)

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadManifest_TOML(t *testing.T) {
	path := writeManifest(t, "Chainseed.toml", `
[[contracts]]
name = "token"
contract_json_path = "out/Token.sol/Token.json"
constructor_args = [
    { type = "address", value = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266" },
    { type = "uint256", value = "1000000000000000000000" },
]

[[contracts]]
name = "oracle"
address = "0x000000000000000000000000000000000000beef"
bytecode = "0x6001600101"

[contracts.storage]
"0x0" = "#token"
"0x1" = 42

[[transactions]]
name = "approve"
target = "#token"
function_signature = "approve(address,uint256)"
args = [
    { type = "address", value = "#oracle" },
    { type = "uint256", value = "500" },
]

[[checks]]
name = "owner"
target = "#token"
function_signature = "owner()"
expect = "0x000000000000000000000000f39fd6e51aad88f6f4ce6ab8827279cfffb92266"
`)

	m, err := LoadManifest(path)
	require.NoError(t, err)

	require.Len(t, m.Contracts, 2)

	token := m.Contracts[0]
	assert.Equal(t, "token", token.Name)
	assert.Equal(t, domain.ModeArtifact, token.Mode())
	assert.False(t, token.FixedAddress())
	require.Len(t, token.ConstructorArgs, 2)
	assert.Equal(t, domain.ArgAddress, token.ConstructorArgs[0].Type)
	assert.Equal(t, domain.ArgUint256, token.ConstructorArgs[1].Type)

	oracle := m.Contracts[1]
	assert.Equal(t, domain.ModeInlineCode, oracle.Mode())
	require.True(t, oracle.FixedAddress())
	assert.Equal(t, common.HexToAddress("0x000000000000000000000000000000000000beef"), *oracle.Address)
	require.Len(t, oracle.Storage, 2)
	// Slots come back sorted by normalized key.
	assert.Equal(t, common.HexToHash("0x0"), oracle.Storage[0].Key)
	assert.Equal(t, "token", oracle.Storage[0].Value.Ref)
	assert.Equal(t, common.HexToHash("0x1"), oracle.Storage[1].Key)
	require.NotNil(t, oracle.Storage[1].Value.Num)
	assert.EqualValues(t, 42, oracle.Storage[1].Value.Num.Int64())

	require.Len(t, m.Transactions, 1)
	tx := m.Transactions[0]
	assert.Equal(t, "#token", tx.Target)
	assert.Equal(t, "approve(address,uint256)", tx.Signature)
	ref, isRef := tx.Args[0].Reference()
	require.True(t, isRef)
	assert.Equal(t, "oracle", ref)

	require.Len(t, m.Checks, 1)
	assert.Equal(t, "owner()", m.Checks[0].Signature)
	assert.NotEmpty(t, m.Checks[0].Expect)
}

func TestLoadManifest_YAML(t *testing.T) {
	path := writeManifest(t, "chainseed.yaml", `
contracts:
  - name: token
    contract_json_path: out/Token.sol/Token.json
transactions:
  - name: seed
    target: "#token"
    data: "0xdeadbeef"
`)

	m, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Contracts, 1)
	require.Len(t, m.Transactions, 1)
	assert.Equal(t, "0xdeadbeef", m.Transactions[0].Data)
	assert.Empty(t, m.Transactions[0].Signature)
}

func TestLoadManifest_MissingFile(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "nope.toml"))
	var cfgErr *domain.ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestLoadManifest_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		manifest string
		wantIn   string
	}{
		{
			name: "duplicate contract name",
			manifest: `
[[contracts]]
name = "token"
contract_json_path = "a.json"
[[contracts]]
name = "token"
contract_json_path = "b.json"
`,
			wantIn: "duplicate",
		},
		{
			name: "no deployment mode",
			manifest: `
[[contracts]]
name = "token"
`,
			wantIn: "exactly one of",
		},
		{
			name: "two deployment modes",
			manifest: `
[[contracts]]
name = "token"
contract_json_path = "a.json"
bytecode = "0x60016001"
`,
			wantIn: "exactly one of",
		},
		{
			name: "injection without address",
			manifest: `
[[contracts]]
name = "oracle"
bytecode = "0x60016001"
`,
			wantIn: "explicit address",
		},
		{
			name: "constructor args without artifact",
			manifest: `
[[contracts]]
name = "oracle"
address = "0x000000000000000000000000000000000000beef"
bytecode = "0x60016001"
constructor_args = [{ type = "uint256", value = "1" }]
`,
			wantIn: "constructor_args",
		},
		{
			name: "storage on artifact deployment",
			manifest: `
[[contracts]]
name = "token"
contract_json_path = "a.json"
[contracts.storage]
"0x0" = 1
`,
			wantIn: "storage",
		},
		{
			name: "transaction with both payload modes",
			manifest: `
[[contracts]]
name = "token"
contract_json_path = "a.json"
[[transactions]]
target = "#token"
function_signature = "f()"
data = "0x01"
`,
			wantIn: "exactly one of",
		},
		{
			name: "transaction with neither payload mode",
			manifest: `
[[contracts]]
name = "token"
contract_json_path = "a.json"
[[transactions]]
target = "#token"
`,
			wantIn: "exactly one of",
		},
		{
			name: "args combined with raw data",
			manifest: `
[[transactions]]
target = "0x000000000000000000000000000000000000beef"
data = "0x01"
args = [{ type = "uint256", value = "1" }]
`,
			wantIn: "args cannot be combined",
		},
		{
			name: "reference on non-address arg",
			manifest: `
[[transactions]]
target = "0x000000000000000000000000000000000000beef"
function_signature = "f(uint256)"
args = [{ type = "uint256", value = "#token" }]
`,
			wantIn: "references are only valid for address",
		},
		{
			name: "unsupported type tag",
			manifest: `
[[transactions]]
target = "0x000000000000000000000000000000000000beef"
function_signature = "f(int128)"
args = [{ type = "int128", value = "1" }]
`,
			wantIn: "unsupported type tag",
		},
		{
			name: "uint8 out of bounds",
			manifest: `
[[transactions]]
target = "0x000000000000000000000000000000000000beef"
function_signature = "f(uint8)"
args = [{ type = "uint8", value = "256" }]
`,
			wantIn: "does not fit",
		},
		{
			name: "odd-length bytecode",
			manifest: `
[[contracts]]
name = "oracle"
address = "0x000000000000000000000000000000000000beef"
bytecode = "0x123"
`,
			wantIn: "odd length",
		},
		{
			name: "storage key wider than 32 bytes",
			manifest: `
[[contracts]]
name = "oracle"
address = "0x000000000000000000000000000000000000beef"
bytecode = "0x60016001"
[contracts.storage]
"0x` + strings.Repeat("0", 65) + `1" = 1
`,
			wantIn: "longer than 32 bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, "Chainseed.toml", tt.manifest)
			_, err := LoadManifest(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantIn)
		})
	}
}

func TestNormalizeSlotKey(t *testing.T) {
	tests := []struct {
		key  string
		want common.Hash
	}{
		{"0x1", common.HexToHash("0x1")},
		{"0x01", common.HexToHash("0x1")},
		{"1", common.HexToHash("0x1")},
		{"0", common.Hash{}},
		{"255", common.HexToHash("0xff")},
	}
	for _, tt := range tests {
		got, err := normalizeSlotKey(tt.key)
		require.NoError(t, err, tt.key)
		assert.Equal(t, tt.want, got, tt.key)
	}

	// All spellings of slot 1 normalize to the same canonical key.
	a, _ := normalizeSlotKey("0x1")
	b, _ := normalizeSlotKey("0x01")
	c, _ := normalizeSlotKey("1")
	assert.Equal(t, a, b)
	assert.Equal(t, b, c)
}
