package domain

import (
	"github.com/ethereum/go-ethereum/common"
)

// ContractStatus is a state in the per-contract provisioning state machine:
// Pending -> Probing -> {Skipped | Injecting | Deploying} -> terminal.
// Skipped, Injected, Deployed and Failed are terminal.
type ContractStatus string

const (
	StatusPending   ContractStatus = "pending"
	StatusProbing   ContractStatus = "probing"
	StatusSkipped   ContractStatus = "skipped"
	StatusInjecting ContractStatus = "injecting"
	StatusInjected  ContractStatus = "injected"
	StatusDeploying ContractStatus = "deploying"
	StatusDeployed  ContractStatus = "deployed"
	StatusFailed    ContractStatus = "failed"
)

// Terminal reports whether the status ends the contract's state machine.
func (s ContractStatus) Terminal() bool {
	switch s {
	case StatusSkipped, StatusInjected, StatusDeployed, StatusFailed:
		return true
	}
	return false
}

// ContractResult records how one contract entry finished.
type ContractResult struct {
	Name    string
	Status  ContractStatus
	Address common.Address
	TxHash  common.Hash // set for deployed contracts only
}

// TransactionResult records one confirmed post-deployment call.
type TransactionResult struct {
	Name    string
	Target  common.Address
	TxHash  common.Hash
	GasUsed uint64
}

// CheckResult records one verification call. Failed checks are warnings,
// never run failures.
type CheckResult struct {
	Name     string
	Passed   bool
	Expected string
	Actual   string
	Err      error
}

// ProvisionResult is the outcome of a full provisioning run.
type ProvisionResult struct {
	Contracts    []ContractResult
	Transactions []TransactionResult
	Checks       []CheckResult

	// Addresses is the final registry content, name -> address.
	Addresses map[string]common.Address
}

// AllSkipped reports whether every contract was already on chain, i.e. the
// run reattached to a fully provisioned chain and performed no deployments.
func (r *ProvisionResult) AllSkipped() bool {
	for _, c := range r.Contracts {
		if c.Status != StatusSkipped {
			return false
		}
	}
	return len(r.Contracts) > 0
}
