package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/chainseed-org/chainseed/internal/config"
	"github.com/chainseed-org/chainseed/internal/domain"
)

// ProvisionChain walks the manifest in file order and brings the chain to
// the declared state: contracts first, then transactions, then checks.
// Execution is strictly sequential with one outstanding RPC at a time; the
// first hard failure aborts everything that remains. Already-committed
// on-chain effects are not rolled back.
type ProvisionChain struct {
	cfg       *config.RuntimeConfig
	manifests ManifestLoader
	chain     ChainClient
	artifacts ArtifactStore
	encoder   CallEncoder
	progress  ProgressSink
	log       *slog.Logger
}

// NewProvisionChain creates the provisioning use case.
func NewProvisionChain(
	cfg *config.RuntimeConfig,
	manifests ManifestLoader,
	chain ChainClient,
	artifacts ArtifactStore,
	encoder CallEncoder,
	progress ProgressSink,
	log *slog.Logger,
) *ProvisionChain {
	return &ProvisionChain{
		cfg:       cfg,
		manifests: manifests,
		chain:     chain,
		artifacts: artifacts,
		encoder:   encoder,
		progress:  progress,
		log:       log,
	}
}

// ProvisionParams contains parameters for a provisioning run.
type ProvisionParams struct {
	ManifestPath string // empty means the configured default
	SkipChecks   bool
}

// slotWrite is a fully resolved storage write.
type slotWrite struct {
	Key   common.Hash
	Value common.Hash
}

// Run executes one provisioning run against one chain endpoint.
func (p *ProvisionChain) Run(ctx context.Context, params ProvisionParams) (*domain.ProvisionResult, error) {
	path := params.ManifestPath
	if path == "" {
		path = p.cfg.ManifestPath
	}

	manifest, err := p.manifests.Load(path)
	if err != nil {
		return nil, err
	}

	if err := p.chain.Connect(ctx); err != nil {
		return nil, err
	}
	defer p.chain.Close()

	p.log.Debug("connected to chain",
		"chainId", p.chain.ChainID(),
		"deployer", p.chain.DeployerAddress(),
		"contracts", len(manifest.Contracts),
		"transactions", len(manifest.Transactions),
	)

	// Single nonce counter for the whole run, seeded once and incremented
	// only after successful submission.
	nonce, err := p.chain.PendingNonce(ctx)
	if err != nil {
		return nil, err
	}

	reg := domain.NewRegistry()
	result := &domain.ProvisionResult{Addresses: make(map[string]common.Address)}

	for i := range manifest.Contracts {
		res, err := p.provisionContract(ctx, reg, &manifest.Contracts[i], &nonce)
		result.Contracts = append(result.Contracts, res)
		if err != nil {
			p.progress.Error(err.Error())
			return result, err
		}
	}

	for i := range manifest.Transactions {
		res, err := p.executeTransaction(ctx, reg, &manifest.Transactions[i], &nonce)
		if err != nil {
			p.progress.Error(err.Error())
			return result, err
		}
		result.Transactions = append(result.Transactions, res)
	}

	if !params.SkipChecks {
		for i := range manifest.Checks {
			result.Checks = append(result.Checks, runCheck(ctx, p.chain, p.encoder, reg, &manifest.Checks[i]))
		}
	}

	for _, name := range reg.Names() {
		addr, _ := reg.Lookup(name)
		result.Addresses[name] = addr
	}
	return result, nil
}

// provisionContract drives one contract through the state machine
// Pending -> Probing -> {Skipped | Injecting | Deploying} -> terminal.
func (p *ProvisionChain) provisionContract(ctx context.Context, reg *domain.Registry, spec *domain.ContractSpec, nonce *uint64) (domain.ContractResult, error) {
	entry := fmt.Sprintf("contract %q", spec.Name)
	res := domain.ContractResult{Name: spec.Name, Status: domain.StatusPending}

	// Resolve every reference this entry carries before touching the chain:
	// an unresolved name must abort without issuing a single RPC for it.
	var (
		ctorData []byte
		slots    []slotWrite
		err      error
	)
	if spec.Mode() == domain.ModeArtifact {
		ctorData, err = p.encoder.EncodeArgs(entry, spec.ConstructorArgs, reg)
	} else {
		slots, err = resolveStorage(entry, spec.Storage, reg)
	}
	if err != nil {
		res.Status = domain.StatusFailed
		return res, err
	}

	if spec.FixedAddress() {
		res.Status = domain.StatusProbing
		exists, err := p.chain.HasCode(ctx, *spec.Address)
		if err != nil {
			res.Status = domain.StatusFailed
			return res, fmt.Errorf("%s: %w", entry, err)
		}
		if exists {
			res.Status = domain.StatusSkipped
			res.Address = *spec.Address
			if err := reg.Record(spec.Name, *spec.Address); err != nil {
				res.Status = domain.StatusFailed
				return res, err
			}
			p.progress.StepDone(fmt.Sprintf("%s already has code at %s, skipping", entry, spec.Address.Hex()))
			return res, nil
		}
	}

	if spec.Mode() == domain.ModeArtifact {
		return p.deployContract(ctx, reg, spec, entry, ctorData, nonce, res)
	}
	return p.injectContract(ctx, reg, spec, entry, slots, res)
}

// injectContract writes runtime bytecode and storage directly into chain
// state. This path bypasses the transaction and gas model entirely, so it
// can only fail on malformed input or transport failure.
func (p *ProvisionChain) injectContract(ctx context.Context, reg *domain.Registry, spec *domain.ContractSpec, entry string, slots []slotWrite, res domain.ContractResult) (domain.ContractResult, error) {
	res.Status = domain.StatusInjecting
	p.progress.StepStart(fmt.Sprintf("Injecting %s at %s", entry, spec.Address.Hex()))

	var code []byte
	if spec.Mode() == domain.ModeInlineCode {
		code, _ = hexutil.Decode(spec.Bytecode) // validated by the loader
	} else {
		var err error
		code, err = p.artifacts.RuntimeBytecode(spec.BytecodePath)
		if err != nil {
			res.Status = domain.StatusFailed
			return res, fmt.Errorf("%s: %w", entry, err)
		}
	}

	addr := *spec.Address
	if err := p.chain.SetCode(ctx, entry, addr, code); err != nil {
		res.Status = domain.StatusFailed
		return res, err
	}
	for _, w := range slots {
		if err := p.chain.SetStorage(ctx, entry, addr, w.Key, w.Value); err != nil {
			res.Status = domain.StatusFailed
			return res, err
		}
	}

	if err := reg.Record(spec.Name, addr); err != nil {
		res.Status = domain.StatusFailed
		return res, err
	}
	res.Status = domain.StatusInjected
	res.Address = addr
	p.progress.StepDone(fmt.Sprintf("%s injected at %s (%d storage slots)", entry, addr.Hex(), len(slots)))
	return res, nil
}

// deployContract submits a contract-creation transaction and records the
// receipt-derived address. The contract becomes referenceable only from
// here on, so manifests must declare it before any entry that uses it.
func (p *ProvisionChain) deployContract(ctx context.Context, reg *domain.Registry, spec *domain.ContractSpec, entry string, ctorData []byte, nonce *uint64, res domain.ContractResult) (domain.ContractResult, error) {
	res.Status = domain.StatusDeploying
	p.progress.StepStart(fmt.Sprintf("Deploying %s", entry))

	code, err := p.artifacts.CreationBytecode(spec.ArtifactPath)
	if err != nil {
		res.Status = domain.StatusFailed
		return res, fmt.Errorf("%s: %w", entry, err)
	}
	data := append(code, ctorData...)

	txHash, err := p.chain.SendTransaction(ctx, entry, nil, data, *nonce)
	if err != nil {
		res.Status = domain.StatusFailed
		return res, err
	}
	*nonce++

	receipt, err := p.chain.WaitReceipt(ctx, entry, txHash)
	if err != nil {
		res.Status = domain.StatusFailed
		res.TxHash = txHash
		return res, err
	}
	if receipt.ContractAddress == (common.Address{}) {
		res.Status = domain.StatusFailed
		res.TxHash = txHash
		return res, &domain.ChainError{Entry: entry, Reason: "receipt carries no contract address", TxHash: txHash.Hex()}
	}

	if spec.FixedAddress() && receipt.ContractAddress != *spec.Address {
		p.progress.Warn(fmt.Sprintf("%s deployed at %s, not the configured %s",
			entry, receipt.ContractAddress.Hex(), spec.Address.Hex()))
	}

	if err := reg.Record(spec.Name, receipt.ContractAddress); err != nil {
		res.Status = domain.StatusFailed
		return res, err
	}
	res.Status = domain.StatusDeployed
	res.Address = receipt.ContractAddress
	res.TxHash = txHash
	p.progress.StepDone(fmt.Sprintf("%s deployed at %s", entry, receipt.ContractAddress.Hex()))
	return res, nil
}

// executeTransaction resolves, signs, submits and confirms one
// post-deployment call.
func (p *ProvisionChain) executeTransaction(ctx context.Context, reg *domain.Registry, spec *domain.TransactionSpec, nonce *uint64) (domain.TransactionResult, error) {
	entry := fmt.Sprintf("transaction %q", spec.Name)
	var res domain.TransactionResult

	target, err := reg.Resolve(entry, spec.Target)
	if err != nil {
		return res, err
	}

	var data []byte
	if spec.Data != "" {
		data, _ = hexutil.Decode(spec.Data) // validated by the loader
	} else {
		data, err = p.encoder.EncodeCall(entry, spec.Signature, spec.Args, reg)
		if err != nil {
			return res, err
		}
	}

	p.progress.StepStart(fmt.Sprintf("Executing %s against %s", entry, target.Hex()))

	txHash, err := p.chain.SendTransaction(ctx, entry, &target, data, *nonce)
	if err != nil {
		return res, err
	}
	*nonce++

	receipt, err := p.chain.WaitReceipt(ctx, entry, txHash)
	if err != nil {
		return res, err
	}

	res = domain.TransactionResult{
		Name:    spec.Name,
		Target:  target,
		TxHash:  txHash,
		GasUsed: receipt.GasUsed,
	}
	p.progress.StepDone(fmt.Sprintf("%s confirmed in tx %s", entry, txHash.Hex()))
	return res, nil
}

// resolveStorage turns manifest slot values into concrete 32-byte words:
// numbers big-endian zero-padded, references resolved to left-padded
// addresses, hex literals used as-is.
func resolveStorage(entry string, storage []domain.SlotEntry, reg *domain.Registry) ([]slotWrite, error) {
	if len(storage) == 0 {
		return nil, nil
	}
	writes := make([]slotWrite, 0, len(storage))
	for _, slot := range storage {
		var value common.Hash
		switch {
		case slot.Value.Ref != "":
			addr, err := reg.Resolve(entry, "#"+slot.Value.Ref)
			if err != nil {
				return nil, err
			}
			value = common.BytesToHash(addr.Bytes())
		case slot.Value.Num != nil:
			value = common.BigToHash(slot.Value.Num)
		default:
			value = common.HexToHash(slot.Value.Hex)
		}
		writes = append(writes, slotWrite{Key: slot.Key, Value: value})
	}
	return writes, nil
}
