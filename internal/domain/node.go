package domain

// NodeInstance describes a local development chain node process. The
// provisioning core itself never requires a managed node; it simply talks to
// whatever is listening on the configured port.
type NodeInstance struct {
	Name    string `json:"name"`
	Port    int    `json:"port"`
	ChainID uint64 `json:"chainId,omitempty"`
	PidFile string `json:"pidFile"`
	LogFile string `json:"logFile"`
}

// NodeStatus reports whether a node instance is up and answering RPC.
type NodeStatus struct {
	Running    bool   `json:"running"`
	PID        int    `json:"pid,omitempty"`
	RPCURL     string `json:"rpcUrl,omitempty"`
	RPCHealthy bool   `json:"rpcHealthy"`
	Error      string `json:"error,omitempty"`
}
