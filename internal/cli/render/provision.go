package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"

	"github.com/chainseed-org/chainseed/internal/domain"
)

var (
	deployedStyle = color.New(color.FgGreen)
	injectedStyle = color.New(color.FgCyan)
	skippedStyle  = color.New(color.Faint)
	failedStyle   = color.New(color.FgRed)
	nameStyle     = color.New(color.Bold)
	hashStyle     = color.New(color.Faint)
	passStyle     = color.New(color.FgGreen)
	warnStyle     = color.New(color.FgYellow)
	headerStyle   = color.New(color.Bold, color.FgHiWhite)
)

// ProvisionRenderer renders the outcome of a provisioning run: per-entry
// statuses, post-deployment transactions, checks and the address summary.
type ProvisionRenderer struct {
	out io.Writer
}

// NewProvisionRenderer creates a new provision renderer.
func NewProvisionRenderer(out io.Writer) *ProvisionRenderer {
	return &ProvisionRenderer{out: out}
}

// Render renders the full provisioning result.
func (r *ProvisionRenderer) Render(result *domain.ProvisionResult) error {
	fmt.Fprintln(r.out)

	if result.AllSkipped() {
		skippedStyle.Fprintln(r.out, "Chain already provisioned; nothing to do.")
	}

	for _, c := range result.Contracts {
		fmt.Fprintf(r.out, "  %s %s %s\n",
			statusBadge(c.Status),
			nameStyle.Sprint(c.Name),
			c.Address.Hex())
		if c.Status == domain.StatusDeployed {
			fmt.Fprintf(r.out, "      %s\n", hashStyle.Sprintf("tx %s", c.TxHash.Hex()))
		}
	}

	for _, tx := range result.Transactions {
		fmt.Fprintf(r.out, "  %s %s → %s\n",
			deployedStyle.Sprint("✓"),
			nameStyle.Sprint(tx.Name),
			tx.Target.Hex())
		fmt.Fprintf(r.out, "      %s\n",
			hashStyle.Sprintf("tx %s (gas %d)", tx.TxHash.Hex(), tx.GasUsed))
	}

	r.renderChecks(result.Checks)
	r.renderAddresses(result.Addresses)
	r.renderSummary(result)
	return nil
}

func (r *ProvisionRenderer) renderChecks(checks []domain.CheckResult) {
	if len(checks) == 0 {
		return
	}
	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%s\n", headerStyle.Sprint("CHECKS"))
	for _, c := range checks {
		if c.Passed {
			fmt.Fprintf(r.out, "  %s %s\n", passStyle.Sprint("✓"), c.Name)
			continue
		}
		if c.Err != nil {
			fmt.Fprintf(r.out, "  %s %s: %v\n", warnStyle.Sprint("!"), c.Name, c.Err)
		} else {
			fmt.Fprintf(r.out, "  %s %s: expected %s, got %s\n",
				warnStyle.Sprint("!"), c.Name, c.Expected, c.Actual)
		}
	}
}

// renderAddresses prints the final name -> address registry as a table so
// addresses can be copied into client configuration.
func (r *ProvisionRenderer) renderAddresses(addrs map[string]common.Address) {
	if len(addrs) == 0 {
		return
	}

	names := lo.Keys(addrs)
	sort.Strings(names)

	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"NAME", "ADDRESS"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
	})
	for _, name := range names {
		t.AppendRow(table.Row{name, addrs[name].Hex()})
	}

	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%s\n", headerStyle.Sprint("ADDRESSES"))
	t.Render()
}

func (r *ProvisionRenderer) renderSummary(result *domain.ProvisionResult) {
	counts := lo.CountValuesBy(result.Contracts, func(c domain.ContractResult) domain.ContractStatus {
		return c.Status
	})
	passed := lo.CountBy(result.Checks, func(c domain.CheckResult) bool { return c.Passed })

	fmt.Fprintln(r.out)
	fmt.Fprintf(r.out, "%d deployed, %d injected, %d skipped",
		counts[domain.StatusDeployed],
		counts[domain.StatusInjected],
		counts[domain.StatusSkipped])
	if n := counts[domain.StatusFailed]; n > 0 {
		fmt.Fprintf(r.out, ", %s", failedStyle.Sprintf("%d failed", n))
	}
	if len(result.Checks) > 0 {
		fmt.Fprintf(r.out, "; checks %d/%d passed", passed, len(result.Checks))
	}
	fmt.Fprintln(r.out)
}

func statusBadge(s domain.ContractStatus) string {
	switch s {
	case domain.StatusDeployed:
		return deployedStyle.Sprint("✓ deployed")
	case domain.StatusInjected:
		return injectedStyle.Sprint("✓ injected")
	case domain.StatusSkipped:
		return skippedStyle.Sprint("- skipped ")
	case domain.StatusFailed:
		return failedStyle.Sprint("✗ failed  ")
	default:
		return string(s)
	}
}
