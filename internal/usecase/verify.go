package usecase

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/chainseed-org/chainseed/internal/config"
	"github.com/chainseed-org/chainseed/internal/domain"
)

// VerifyChain runs the manifest's read-only checks against a chain that was
// provisioned earlier. Check failures are reported, never fatal; the
// verifier exists for diagnostics only.
type VerifyChain struct {
	cfg       *config.RuntimeConfig
	manifests ManifestLoader
	chain     ChainClient
	encoder   CallEncoder
	progress  ProgressSink
	log       *slog.Logger
}

// NewVerifyChain creates the verification use case.
func NewVerifyChain(
	cfg *config.RuntimeConfig,
	manifests ManifestLoader,
	chain ChainClient,
	encoder CallEncoder,
	progress ProgressSink,
	log *slog.Logger,
) *VerifyChain {
	return &VerifyChain{
		cfg:       cfg,
		manifests: manifests,
		chain:     chain,
		encoder:   encoder,
		progress:  progress,
		log:       log,
	}
}

// VerifyParams contains parameters for a standalone verification run.
type VerifyParams struct {
	ManifestPath string
}

// Run rebuilds the registry by probing fixed-address contracts, then
// executes every check. Names of deploying-mode contracts cannot be
// reconstructed without a run, so checks referencing them report a
// resolution failure.
func (v *VerifyChain) Run(ctx context.Context, params VerifyParams) ([]domain.CheckResult, error) {
	path := params.ManifestPath
	if path == "" {
		path = v.cfg.ManifestPath
	}

	manifest, err := v.manifests.Load(path)
	if err != nil {
		return nil, err
	}

	if err := v.chain.Connect(ctx); err != nil {
		return nil, err
	}
	defer v.chain.Close()

	reg := domain.NewRegistry()
	for i := range manifest.Contracts {
		spec := &manifest.Contracts[i]
		if !spec.FixedAddress() {
			continue
		}
		exists, err := v.chain.HasCode(ctx, *spec.Address)
		if err != nil {
			return nil, fmt.Errorf("contract %q: %w", spec.Name, err)
		}
		if exists {
			if err := reg.Record(spec.Name, *spec.Address); err != nil {
				return nil, err
			}
		}
	}

	results := make([]domain.CheckResult, 0, len(manifest.Checks))
	for i := range manifest.Checks {
		results = append(results, runCheck(ctx, v.chain, v.encoder, reg, &manifest.Checks[i]))
	}
	return results, nil
}

// runCheck executes one read-only check. Any failure, including reference
// resolution, is folded into the result as a warning.
func runCheck(ctx context.Context, chain ChainClient, encoder CallEncoder, reg *domain.Registry, spec *domain.CheckSpec) domain.CheckResult {
	entry := fmt.Sprintf("check %q", spec.Name)
	res := domain.CheckResult{Name: spec.Name, Expected: spec.Expect}

	target, err := reg.Resolve(entry, spec.Target)
	if err != nil {
		res.Err = err
		return res
	}

	var data []byte
	if spec.Data != "" {
		data, _ = hexutil.Decode(spec.Data) // validated by the loader
	} else {
		data, err = encoder.EncodeCall(entry, spec.Signature, spec.Args, reg)
		if err != nil {
			res.Err = err
			return res
		}
	}

	out, err := chain.Call(ctx, target, data)
	if err != nil {
		res.Err = fmt.Errorf("%s: %w", entry, err)
		return res
	}
	res.Actual = hexutil.Encode(out)

	if spec.Expect == "" {
		res.Passed = true
		return res
	}
	expected, _ := hexutil.Decode(spec.Expect) // validated by the loader
	res.Passed = bytes.Equal(out, expected)
	return res
}
