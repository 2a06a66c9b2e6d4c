package node

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainseed-org/chainseed/internal/domain"
)

func TestBuildArgs_Basic(t *testing.T) {
	instance := &domain.NodeInstance{Port: 8545}
	args := buildArgs(instance)
	assert.Equal(t, []string{"--port", "8545", "--host", "127.0.0.1"}, args)
}

func TestBuildArgs_WithChainID(t *testing.T) {
	instance := &domain.NodeInstance{Port: 9000, ChainID: 31337}
	args := buildArgs(instance)
	assert.Equal(t, []string{"--port", "9000", "--host", "127.0.0.1", "--chain-id", "31337"}, args)
}

func TestSetFilePaths_Defaults(t *testing.T) {
	m := NewManager()
	instance := &domain.NodeInstance{}
	m.setFilePaths(instance)

	assert.Equal(t, "anvil", instance.Name)
	assert.Equal(t, DefaultPort, instance.Port)
	assert.Equal(t, "/tmp/chainseed-anvil.pid", instance.PidFile)
	assert.Equal(t, "/tmp/chainseed-anvil.log", instance.LogFile)
}

func TestSetFilePaths_NamedInstance(t *testing.T) {
	m := NewManager()
	instance := &domain.NodeInstance{Name: "testnet", Port: 9000}
	m.setFilePaths(instance)

	assert.Equal(t, "/tmp/chainseed-testnet.pid", instance.PidFile)
	assert.Equal(t, "/tmp/chainseed-testnet.log", instance.LogFile)
}

func TestSetFilePaths_PresetPathsPreserved(t *testing.T) {
	m := NewManager()
	instance := &domain.NodeInstance{
		Name:    "testnet",
		Port:    9000,
		PidFile: "/custom/my.pid",
		LogFile: "/custom/my.log",
	}
	m.setFilePaths(instance)

	assert.Equal(t, "/custom/my.pid", instance.PidFile)
	assert.Equal(t, "/custom/my.log", instance.LogFile)
}

// serverPort extracts the port of a httptest server bound to 127.0.0.1.
func serverPort(t *testing.T, server *httptest.Server) int {
	t.Helper()
	parts := strings.Split(server.URL, ":")
	port, err := strconv.Atoi(parts[len(parts)-1])
	require.NoError(t, err)
	return port
}

func TestGetStatus_ExternalNodeCountsAsRunning(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID json.RawMessage `json:"id"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"jsonrpc": "2.0",
			"result":  "0x1",
			"id":      req.ID,
		})
	}))
	defer server.Close()

	m := NewManager()
	instance := &domain.NodeInstance{
		Name:    "test",
		Port:    serverPort(t, server),
		PidFile: "/tmp/chainseed-nonexistent-test.pid",
		LogFile: "/tmp/chainseed-nonexistent-test.log",
	}

	status, err := m.GetStatus(context.Background(), instance)
	require.NoError(t, err)
	assert.True(t, status.RPCHealthy)
	assert.True(t, status.Running)
}

func TestGetStatus_NothingRunning(t *testing.T) {
	m := NewManager()
	instance := &domain.NodeInstance{
		Name:    "gone",
		Port:    1, // nothing listens here
		PidFile: "/tmp/chainseed-nonexistent-gone.pid",
	}

	status, err := m.GetStatus(context.Background(), instance)
	require.NoError(t, err)
	assert.False(t, status.Running)
	assert.False(t, status.RPCHealthy)
}
