package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/chainseed-org/chainseed/internal/config"
	"github.com/chainseed-org/chainseed/internal/domain"
	"github.com/chainseed-org/chainseed/internal/usecase"
)

// Store loads contract bytecode out of build artifacts. Foundry and Hardhat
// artifacts keep bytecode under {bytecode,deployedBytecode}.object, Brownie
// uses plain strings, and a non-JSON file is treated as raw hex.
type Store struct {
	root string
}

// NewStore creates a store resolving relative artifact paths against the
// working directory.
func NewStore(cfg *config.RuntimeConfig) *Store {
	return &Store{root: cfg.WorkDir}
}

// CreationBytecode returns the contract-creation bytecode from the artifact
// at path, ready to be extended with encoded constructor arguments.
func (s *Store) CreationBytecode(path string) ([]byte, error) {
	return s.load(path, "bytecode")
}

// RuntimeBytecode returns the deployed (runtime) bytecode from the artifact
// at path, as written on chain by code injection.
func (s *Store) RuntimeBytecode(path string) ([]byte, error) {
	return s.load(path, "deployedBytecode")
}

func (s *Store) load(path, key string) ([]byte, error) {
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(s.root, path)
	}

	content, err := os.ReadFile(full)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("artifact %s: %w", path, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read artifact %s: %w", path, err)
	}

	raw := extractBytecode(content, key)
	if raw == "" {
		return nil, fmt.Errorf("artifact %s has no %s", path, key)
	}

	code, err := hexutil.Decode(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("artifact %s: invalid %s hex: %w", path, key, err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("artifact %s has empty %s", path, key)
	}
	return code, nil
}

// extractBytecode pulls the hex string for key out of a JSON artifact,
// falling back to the file content itself for plain hex files.
func extractBytecode(content []byte, key string) string {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(content, &doc); err != nil {
		return strings.TrimSpace(string(content))
	}

	field, ok := doc[key]
	if !ok {
		return ""
	}

	// Foundry / Hardhat: {"object": "0x..."}
	var object struct {
		Object string `json:"object"`
	}
	if err := json.Unmarshal(field, &object); err == nil && object.Object != "" {
		return object.Object
	}

	// Brownie: "0x..."
	var plain string
	if err := json.Unmarshal(field, &plain); err == nil {
		return plain
	}
	return ""
}

var _ usecase.ArtifactStore = (*Store)(nil)
