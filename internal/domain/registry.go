package domain

import (
	"github.com/ethereum/go-ethereum/common"
)

// Registry maps contract names to on-chain addresses for a single run.
// It only grows: names are recorded as contracts are skipped, injected or
// deployed, and resolution is forward-only. It is rebuilt from chain probes
// when reattaching to a persistent chain, never restored from a prior run.
type Registry struct {
	addrs map[string]common.Address
	order []string
}

// NewRegistry creates an empty run-scoped registry.
func NewRegistry() *Registry {
	return &Registry{addrs: make(map[string]common.Address)}
}

// Record adds a resolved contract address. Recording a duplicate name is a
// ConfigError; the loader already rejects duplicates, so hitting this means
// the manifest bypassed validation.
func (r *Registry) Record(name string, addr common.Address) error {
	if _, ok := r.addrs[name]; ok {
		return &ConfigError{Field: name, Reason: "contract name recorded twice"}
	}
	r.addrs[name] = addr
	r.order = append(r.order, name)
	return nil
}

// Lookup returns the address recorded for name.
func (r *Registry) Lookup(name string) (common.Address, bool) {
	addr, ok := r.addrs[name]
	return addr, ok
}

// Names returns recorded names in recording order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Resolve substitutes a `#name` token with its recorded address, or parses a
// literal hex address. Tokens referencing names not yet recorded fail with a
// ReferenceError; resolution is single-pass, so manifests must be ordered by
// dependency.
func (r *Registry) Resolve(entry, token string) (common.Address, error) {
	if name, ok := refName(token); ok {
		addr, ok := r.addrs[name]
		if !ok {
			return common.Address{}, &ReferenceError{Entry: entry, Name: name}
		}
		return addr, nil
	}
	if !common.IsHexAddress(token) {
		return common.Address{}, &EncodingError{
			Field:  entry,
			Type:   ArgAddress,
			Reason: "not a valid hex address: " + token,
		}
	}
	return common.HexToAddress(token), nil
}
