package render

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/chainseed-org/chainseed/internal/usecase"
)

// NodeRenderer renders node management results.
type NodeRenderer struct{}

// NewNodeRenderer creates a new node renderer.
func NewNodeRenderer() *NodeRenderer {
	return &NodeRenderer{}
}

// Render renders the node operation result.
func (r *NodeRenderer) Render(result *usecase.ManageNodeResult) error {
	switch result.Operation {
	case "start":
		return r.renderStart(result)
	case "stop":
		return r.renderStop(result)
	case "status":
		return r.renderStatus(result)
	default:
		return fmt.Errorf("unknown operation: %s", result.Operation)
	}
}

func (r *NodeRenderer) renderStart(result *usecase.ManageNodeResult) error {
	color.New(color.FgGreen).Printf("✓ %s\n", result.Message)
	if result.Status != nil {
		color.New(color.FgBlue).Printf("RPC URL: %s\n", result.Status.RPCURL)
		if result.Instance.LogFile != "" {
			color.New(color.FgYellow).Printf("Logs: %s\n", result.Instance.LogFile)
		}
	}
	return nil
}

func (r *NodeRenderer) renderStop(result *usecase.ManageNodeResult) error {
	color.New(color.FgGreen).Printf("✓ %s\n", result.Message)
	return nil
}

func (r *NodeRenderer) renderStatus(result *usecase.ManageNodeResult) error {
	color.New(color.FgCyan, color.Bold).Printf("Node '%s':\n", result.Instance.Name)

	if result.Status == nil || !result.Status.Running {
		color.New(color.FgRed).Println("Status: not running")
		return nil
	}

	color.New(color.FgGreen).Printf("Status: running (PID %d)\n", result.Status.PID)
	color.New(color.FgBlue).Printf("RPC URL: %s\n", result.Status.RPCURL)
	if result.Status.RPCHealthy {
		color.New(color.FgGreen).Println("RPC Health: responding")
	} else {
		color.New(color.FgRed).Println("RPC Health: not responding")
	}
	return nil
}

// RenderLogsHeader renders the header for log streaming.
func (r *NodeRenderer) RenderLogsHeader(result *usecase.ManageNodeResult) error {
	color.New(color.FgCyan, color.Bold).Printf("Showing node '%s' logs (Ctrl+C to exit):\n", result.Instance.Name)
	if result.Instance.LogFile != "" {
		color.New(color.FgHiBlack).Printf("Log file: %s\n\n", result.Instance.LogFile)
	}
	return nil
}
