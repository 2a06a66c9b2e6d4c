package config

import (
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"

	"github.com/chainseed-org/chainseed/internal/domain"
)

// Raw manifest shapes as they appear on disk. TOML is the primary format
// (repeated [[contracts]] / [[transactions]] / [[checks]] tables); YAML is
// accepted with the same field names.
type rawManifest struct {
	Contracts    []rawContract    `toml:"contracts" yaml:"contracts"`
	Transactions []rawTransaction `toml:"transactions" yaml:"transactions"`
	Checks       []rawCheck       `toml:"checks" yaml:"checks"`
}

type rawContract struct {
	Name                 string         `toml:"name" yaml:"name"`
	Address              string         `toml:"address" yaml:"address"`
	ContractJSONPath     string         `toml:"contract_json_path" yaml:"contract_json_path"`
	Bytecode             string         `toml:"bytecode" yaml:"bytecode"`
	DeployedBytecodePath string         `toml:"deployed_bytecode_path" yaml:"deployed_bytecode_path"`
	ConstructorArgs      []rawArg       `toml:"constructor_args" yaml:"constructor_args"`
	Storage              map[string]any `toml:"storage" yaml:"storage"`
}

type rawTransaction struct {
	Name              string   `toml:"name" yaml:"name"`
	Target            string   `toml:"target" yaml:"target"`
	FunctionSignature string   `toml:"function_signature" yaml:"function_signature"`
	Args              []rawArg `toml:"args" yaml:"args"`
	Data              string   `toml:"data" yaml:"data"`
}

type rawCheck struct {
	Name              string   `toml:"name" yaml:"name"`
	Target            string   `toml:"target" yaml:"target"`
	FunctionSignature string   `toml:"function_signature" yaml:"function_signature"`
	Args              []rawArg `toml:"args" yaml:"args"`
	Data              string   `toml:"data" yaml:"data"`
	Expect            string   `toml:"expect" yaml:"expect"`
}

type rawArg struct {
	Type  string `toml:"type" yaml:"type"`
	Value any    `toml:"value" yaml:"value"`
}

// ManifestLoader adapts LoadManifest for use-case injection.
type ManifestLoader struct{}

// NewManifestLoader creates a manifest loader.
func NewManifestLoader() *ManifestLoader {
	return &ManifestLoader{}
}

// Load parses and validates the manifest at path.
func (l *ManifestLoader) Load(path string) (*domain.Manifest, error) {
	return LoadManifest(path)
}

// LoadManifest parses and validates the declarative manifest at path. All
// structural invariants are enforced here, before any RPC activity: unique
// contract names, exactly one deployment mode per contract, exactly one
// payload mode per transaction, 32-byte storage keys, and literals that
// parse for their declared type.
func LoadManifest(path string) (*domain.Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.ConfigError{Field: path, Reason: fmt.Sprintf("cannot read manifest: %v", err)}
	}

	var raw rawManifest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = toml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, &domain.ConfigError{Field: path, Reason: fmt.Sprintf("cannot parse manifest: %v", err)}
	}

	return buildManifest(&raw)
}

func buildManifest(raw *rawManifest) (*domain.Manifest, error) {
	m := &domain.Manifest{}
	seen := make(map[string]bool)

	for i, rc := range raw.Contracts {
		spec, err := buildContract(i, rc, seen)
		if err != nil {
			return nil, err
		}
		seen[spec.Name] = true
		m.Contracts = append(m.Contracts, *spec)
	}

	for i, rt := range raw.Transactions {
		spec, err := buildTransaction(i, rt)
		if err != nil {
			return nil, err
		}
		m.Transactions = append(m.Transactions, *spec)
	}

	for i, rc := range raw.Checks {
		spec, err := buildCheck(i, rc)
		if err != nil {
			return nil, err
		}
		m.Checks = append(m.Checks, *spec)
	}

	return m, nil
}

func buildContract(i int, rc rawContract, seen map[string]bool) (*domain.ContractSpec, error) {
	field := fmt.Sprintf("contracts[%d]", i)
	if rc.Name == "" {
		return nil, &domain.ConfigError{Field: field, Reason: "contract name is required"}
	}
	field = fmt.Sprintf("%s (%s)", field, rc.Name)
	if seen[rc.Name] {
		return nil, &domain.ConfigError{Field: field, Reason: "duplicate contract name"}
	}

	modes := 0
	for _, set := range []bool{rc.ContractJSONPath != "", rc.Bytecode != "", rc.DeployedBytecodePath != ""} {
		if set {
			modes++
		}
	}
	if modes != 1 {
		return nil, &domain.ConfigError{
			Field:  field,
			Reason: "exactly one of contract_json_path, bytecode or deployed_bytecode_path is required",
		}
	}
	if rc.ContractJSONPath == "" && rc.Address == "" {
		return nil, &domain.ConfigError{Field: field, Reason: "bytecode injection requires an explicit address"}
	}
	if rc.ContractJSONPath == "" && len(rc.ConstructorArgs) > 0 {
		return nil, &domain.ConfigError{Field: field, Reason: "constructor_args require contract_json_path"}
	}
	if rc.ContractJSONPath != "" && len(rc.Storage) > 0 {
		return nil, &domain.ConfigError{Field: field, Reason: "storage is only valid for bytecode injection"}
	}

	spec := &domain.ContractSpec{
		Name:         rc.Name,
		ArtifactPath: rc.ContractJSONPath,
		BytecodePath: rc.DeployedBytecodePath,
	}

	if rc.Address != "" {
		if !common.IsHexAddress(rc.Address) {
			return nil, &domain.ConfigError{Field: field + ".address", Reason: "not a valid hex address: " + rc.Address}
		}
		addr := common.HexToAddress(rc.Address)
		spec.Address = &addr
	}

	if rc.Bytecode != "" {
		if err := checkHexLiteral(rc.Bytecode); err != nil {
			return nil, &domain.ConfigError{Field: field + ".bytecode", Reason: err.Error()}
		}
		spec.Bytecode = rc.Bytecode
	}

	for j, ra := range rc.ConstructorArgs {
		av, err := buildArg(fmt.Sprintf("%s.constructor_args[%d]", field, j), ra)
		if err != nil {
			return nil, err
		}
		spec.ConstructorArgs = append(spec.ConstructorArgs, *av)
	}

	storage, err := buildStorage(field, rc.Storage)
	if err != nil {
		return nil, err
	}
	spec.Storage = storage

	return spec, nil
}

func buildTransaction(i int, rt rawTransaction) (*domain.TransactionSpec, error) {
	name := rt.Name
	if name == "" {
		name = fmt.Sprintf("transactions[%d]", i)
	}
	field := fmt.Sprintf("transactions[%d] (%s)", i, name)

	if rt.Target == "" {
		return nil, &domain.ConfigError{Field: field, Reason: "transaction target is required"}
	}
	sig, args, data, err := buildPayload(field, rt.FunctionSignature, rt.Args, rt.Data)
	if err != nil {
		return nil, err
	}

	return &domain.TransactionSpec{
		Name:      name,
		Target:    rt.Target,
		Signature: sig,
		Args:      args,
		Data:      data,
	}, nil
}

func buildCheck(i int, rc rawCheck) (*domain.CheckSpec, error) {
	name := rc.Name
	if name == "" {
		name = fmt.Sprintf("checks[%d]", i)
	}
	field := fmt.Sprintf("checks[%d] (%s)", i, name)

	if rc.Target == "" {
		return nil, &domain.ConfigError{Field: field, Reason: "check target is required"}
	}
	sig, args, data, err := buildPayload(field, rc.FunctionSignature, rc.Args, rc.Data)
	if err != nil {
		return nil, err
	}
	if rc.Expect != "" {
		if err := checkHexLiteral(rc.Expect); err != nil {
			return nil, &domain.ConfigError{Field: field + ".expect", Reason: err.Error()}
		}
	}

	return &domain.CheckSpec{
		Name:      name,
		Target:    rc.Target,
		Signature: sig,
		Args:      args,
		Data:      data,
		Expect:    rc.Expect,
	}, nil
}

// buildPayload enforces the exactly-one payload mode invariant shared by
// transactions and checks.
func buildPayload(field, sig string, rawArgs []rawArg, data string) (string, []domain.ArgValue, string, error) {
	if (sig == "") == (data == "") {
		return "", nil, "", &domain.ConfigError{
			Field:  field,
			Reason: "exactly one of function_signature or data is required",
		}
	}

	if data != "" {
		if len(rawArgs) > 0 {
			return "", nil, "", &domain.ConfigError{Field: field, Reason: "args cannot be combined with raw data"}
		}
		if err := checkHexLiteral(data); err != nil {
			return "", nil, "", &domain.ConfigError{Field: field + ".data", Reason: err.Error()}
		}
		return "", nil, data, nil
	}

	var args []domain.ArgValue
	for j, ra := range rawArgs {
		av, err := buildArg(fmt.Sprintf("%s.args[%d]", field, j), ra)
		if err != nil {
			return "", nil, "", err
		}
		args = append(args, *av)
	}
	return sig, args, "", nil
}

func buildArg(field string, ra rawArg) (*domain.ArgValue, error) {
	t := domain.ArgType(ra.Type)
	if !t.Known() {
		return nil, &domain.EncodingError{Field: field, Reason: fmt.Sprintf("unsupported type tag %q", ra.Type)}
	}

	value, err := scalarString(ra.Value)
	if err != nil {
		return nil, &domain.EncodingError{Field: field, Type: t, Reason: err.Error()}
	}

	av := domain.ArgValue{Type: t, Value: value}
	if _, isRef := av.Reference(); isRef {
		if t != domain.ArgAddress {
			return nil, &domain.ConfigError{
				Field:  field,
				Reason: fmt.Sprintf("references are only valid for address arguments, not %s", t),
			}
		}
		return &av, nil
	}

	if err := checkArgLiteral(t, value); err != nil {
		return nil, &domain.EncodingError{Field: field, Type: t, Reason: err.Error()}
	}
	return &av, nil
}

// checkArgLiteral rejects literals that cannot encode as the declared type.
// The ABI encoder performs the same parse again at encode time; failing here
// keeps malformed manifests from reaching the chain at all.
func checkArgLiteral(t domain.ArgType, value string) error {
	switch t {
	case domain.ArgAddress:
		if !common.IsHexAddress(value) {
			return fmt.Errorf("not a valid hex address: %s", value)
		}
	case domain.ArgUint256, domain.ArgUint, domain.ArgUint32, domain.ArgUint8:
		n, err := parseUint(value)
		if err != nil {
			return err
		}
		if err := checkUintBounds(t, n); err != nil {
			return err
		}
	case domain.ArgBytes:
		if err := checkHexLiteral(value); err != nil {
			return err
		}
	case domain.ArgBool:
		if value != "true" && value != "false" {
			return fmt.Errorf("not a bool literal: %s", value)
		}
	case domain.ArgString:
		// any string is valid
	}
	return nil
}

func buildStorage(field string, raw map[string]any) ([]domain.SlotEntry, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	entries := make([]domain.SlotEntry, 0, len(raw))
	for key, value := range raw {
		slotField := fmt.Sprintf("%s.storage[%s]", field, key)

		slot, err := normalizeSlotKey(key)
		if err != nil {
			return nil, &domain.EncodingError{Field: slotField, Reason: err.Error()}
		}
		sv, err := buildSlotValue(value)
		if err != nil {
			return nil, &domain.EncodingError{Field: slotField, Reason: err.Error()}
		}
		entries = append(entries, domain.SlotEntry{Key: slot, Value: *sv})
	}

	// TOML tables are unordered; write slots in key order so runs are
	// reproducible.
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key.Cmp(entries[j].Key) < 0
	})
	return entries, nil
}

func buildSlotValue(value any) (*domain.SlotValue, error) {
	s, err := scalarString(value)
	if err != nil {
		return nil, err
	}

	if name, ok := strings.CutPrefix(s, "#"); ok && name != "" {
		return &domain.SlotValue{Ref: name}, nil
	}
	if strings.HasPrefix(s, "0x") {
		if err := checkHexDigits(s); err != nil {
			return nil, err
		}
		if len(s)-2 > 64 {
			return nil, fmt.Errorf("storage value longer than 32 bytes: %s", s)
		}
		return &domain.SlotValue{Hex: s}, nil
	}
	if n, err := parseUint(s); err == nil {
		return &domain.SlotValue{Num: n}, nil
	}
	return nil, fmt.Errorf("storage value must be a hex literal, a number or a #name reference: %s", s)
}

// normalizeSlotKey turns a hex or decimal slot key into its canonical
// 32-byte form, left-padded with zeros. Keys wider than 32 bytes are
// rejected.
func normalizeSlotKey(key string) (common.Hash, error) {
	if strings.HasPrefix(key, "0x") {
		if err := checkHexDigits(key); err != nil {
			return common.Hash{}, err
		}
		if len(key)-2 > 64 {
			return common.Hash{}, fmt.Errorf("storage key longer than 32 bytes: %s", key)
		}
		return common.HexToHash(key), nil
	}
	n, err := parseUint(key)
	if err != nil {
		return common.Hash{}, fmt.Errorf("storage key must be hex or decimal: %s", key)
	}
	if n.BitLen() > 256 {
		return common.Hash{}, fmt.Errorf("storage key longer than 32 bytes: %s", key)
	}
	return common.BigToHash(n), nil
}

// scalarString normalizes the loosely-typed manifest values (TOML/YAML may
// decode them as strings, integers or booleans) into their string form.
func scalarString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case int:
		return fmt.Sprintf("%d", val), nil
	case int64:
		return fmt.Sprintf("%d", val), nil
	case uint64:
		return fmt.Sprintf("%d", val), nil
	case bool:
		return fmt.Sprintf("%t", val), nil
	case nil:
		return "", fmt.Errorf("value is required")
	default:
		return "", fmt.Errorf("unsupported value %v (%T)", v, v)
	}
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

func checkUintBounds(t domain.ArgType, n *big.Int) error {
	var bits int
	switch t {
	case domain.ArgUint8:
		bits = 8
	case domain.ArgUint32:
		bits = 32
	default:
		bits = 256
	}
	if n.BitLen() > bits {
		return fmt.Errorf("value %s does not fit in %d bits", n, bits)
	}
	return nil
}

func checkHexLiteral(s string) error {
	if err := checkHexDigits(s); err != nil {
		return err
	}
	if len(s)%2 != 0 {
		return fmt.Errorf("hex literal has odd length: %s", s)
	}
	return nil
}

// checkHexDigits validates 0x-prefixed hex without requiring whole bytes;
// storage slots like "0x1" are normalized by left-padding.
func checkHexDigits(s string) error {
	if !strings.HasPrefix(s, "0x") {
		return fmt.Errorf("hex literal must start with 0x: %s", s)
	}
	for _, c := range s[2:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return fmt.Errorf("invalid hex literal: %s", s)
		}
	}
	return nil
}
