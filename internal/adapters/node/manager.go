package node

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/chainseed-org/chainseed/internal/domain"
	"github.com/chainseed-org/chainseed/internal/usecase"
)

const (
	// DefaultPort is anvil's default listen port.
	DefaultPort = 8545

	readyAttempts = 16
	readyInterval = 250 * time.Millisecond
)

// Manager starts, stops and inspects local anvil processes. PID and log
// files live under /tmp so instances survive across chainseed invocations.
type Manager struct{}

// NewManager creates a new node manager.
func NewManager() *Manager {
	return &Manager{}
}

// Start spawns an anvil process for the instance and blocks until its RPC
// endpoint answers, or fails after a bounded number of attempts.
func (m *Manager) Start(ctx context.Context, instance *domain.NodeInstance) error {
	m.setFilePaths(instance)

	logFile, err := os.Create(instance.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	cmd := exec.Command("anvil", buildArgs(instance)...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		logFile.Close()
		return fmt.Errorf("failed to start anvil: %w", err)
	}

	if err := os.WriteFile(instance.PidFile, []byte(strconv.Itoa(cmd.Process.Pid)), 0644); err != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("failed to write pid file: %w", err)
	}

	// Let it run detached; readiness is confirmed over RPC.
	go func() {
		_ = cmd.Wait()
		logFile.Close()
	}()

	if err := m.WaitReady(ctx, instance); err != nil {
		_ = cmd.Process.Kill()
		return err
	}
	return nil
}

// Stop terminates the instance's process and removes its pid file.
func (m *Manager) Stop(ctx context.Context, instance *domain.NodeInstance) error {
	m.setFilePaths(instance)

	pid, err := readPid(instance.PidFile)
	if err != nil {
		return fmt.Errorf("node %q does not appear to be running: %w", instance.Name, err)
	}

	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil && err != syscall.ESRCH {
		return fmt.Errorf("failed to stop pid %d: %w", pid, err)
	}
	_ = os.Remove(instance.PidFile)
	return nil
}

// GetStatus reports process and RPC health for the instance.
func (m *Manager) GetStatus(ctx context.Context, instance *domain.NodeInstance) (*domain.NodeStatus, error) {
	m.setFilePaths(instance)

	status := &domain.NodeStatus{
		RPCURL: rpcURL(instance),
	}

	if pid, err := readPid(instance.PidFile); err == nil {
		if syscall.Kill(pid, 0) == nil {
			status.Running = true
			status.PID = pid
		}
	}

	if err := ping(ctx, instance); err == nil {
		status.RPCHealthy = true
		// An externally started node answers RPC without our pid file.
		status.Running = true
	} else if status.Running {
		status.Error = err.Error()
	}

	return status, nil
}

// StreamLogs copies the instance's log file to the writer.
func (m *Manager) StreamLogs(ctx context.Context, instance *domain.NodeInstance, w io.Writer) error {
	m.setFilePaths(instance)

	f, err := os.Open(instance.LogFile)
	if err != nil {
		return fmt.Errorf("no log file for node %q: %w", instance.Name, err)
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}

// WaitReady polls the instance's RPC endpoint until it answers
// eth_blockNumber, with bounded attempts.
func (m *Manager) WaitReady(ctx context.Context, instance *domain.NodeInstance) error {
	var lastErr error
	for i := 0; i < readyAttempts; i++ {
		if err := ping(ctx, instance); err == nil {
			return nil
		} else {
			lastErr = err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(readyInterval):
		}
	}
	return fmt.Errorf("node on port %d not ready after %d attempts: %w", instance.Port, readyAttempts, lastErr)
}

func (m *Manager) setFilePaths(instance *domain.NodeInstance) {
	if instance.Name == "" {
		instance.Name = "anvil"
	}
	if instance.Port == 0 {
		instance.Port = DefaultPort
	}
	if instance.PidFile == "" {
		instance.PidFile = fmt.Sprintf("/tmp/chainseed-%s.pid", instance.Name)
	}
	if instance.LogFile == "" {
		instance.LogFile = fmt.Sprintf("/tmp/chainseed-%s.log", instance.Name)
	}
}

func buildArgs(instance *domain.NodeInstance) []string {
	args := []string{"--port", strconv.Itoa(instance.Port), "--host", "127.0.0.1"}
	if instance.ChainID != 0 {
		args = append(args, "--chain-id", strconv.FormatUint(instance.ChainID, 10))
	}
	return args
}

func ping(ctx context.Context, instance *domain.NodeInstance) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	client, err := ethclient.DialContext(ctx, rpcURL(instance))
	if err != nil {
		return err
	}
	defer client.Close()

	_, err = client.BlockNumber(ctx)
	return err
}

func rpcURL(instance *domain.NodeInstance) string {
	return fmt.Sprintf("http://127.0.0.1:%d", instance.Port)
}

func readPid(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

var _ usecase.NodeManager = (*Manager)(nil)
