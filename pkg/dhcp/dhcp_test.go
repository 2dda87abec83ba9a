package dhcp

import (
	"Topolab/api"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

type fakeExec struct {
	cmds     [][]string
	detached [][]string
	running  bool
	pid      int
	exitCode int
}

func (f *fakeExec) Exec(_ context.Context, node string, cmd []string, _ io.Writer) (int, error) {
	f.cmds = append(f.cmds, append([]string{node}, cmd...))
	return f.exitCode, nil
}

func (f *fakeExec) ExecDetached(_ context.Context, node string, cmd []string) (string, error) {
	f.detached = append(f.detached, append([]string{node}, cmd...))
	return "exec-1", nil
}

func (f *fakeExec) ExecPid(_ context.Context, execID string) (int, bool, error) {
	if execID != "exec-1" {
		return 0, false, errors.New("unknown exec")
	}
	return f.pid, f.running, nil
}

func TestCommand(t *testing.T) {
	s := New(zap.NewNop(), &fakeExec{}, api.DHCPServer{Host: "h1"})
	assert.Equal(t, []string{
		"/usr/sbin/dhcpd", "-4", "-f",
		"-pf", "/run/dhcp-server-dhcpd.pid",
		"-cf", ContainerConfigFile,
		"-lf", "/var/lib/dhcp/dhcpd.leases",
		"h1-eth0",
	}, s.Command("h1-eth0"))
}

func TestStartStop(t *testing.T) {
	f := &fakeExec{running: true, pid: 4242}
	s := New(zap.NewNop(), f, api.DHCPServer{Host: "h1"})

	var killed []int
	s.kill = func(pid int, sig syscall.Signal) error {
		assert.Equal(t, unix.SIGTERM, sig)
		killed = append(killed, pid)
		return nil
	}

	require.NoError(t, s.Start(context.Background(), "h1-eth0"))
	require.Len(t, f.cmds, 1)
	assert.Equal(t, "h1", f.cmds[0][0])
	assert.True(t, strings.Contains(strings.Join(f.cmds[0], " "), "touch /var/lib/dhcp/dhcpd.leases"))
	require.Len(t, f.detached, 1)
	assert.Equal(t, "h1-eth0", f.detached[0][len(f.detached[0])-1])

	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, []int{4242}, killed)

	// second stop is a no-op
	require.NoError(t, s.Stop(context.Background()))
	assert.Equal(t, []int{4242}, killed)
}

func TestStartReportsEarlyExit(t *testing.T) {
	s := New(zap.NewNop(), &fakeExec{running: false}, api.DHCPServer{Host: "h1"})
	err := s.Start(context.Background(), "h1-eth0")
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestStartFailsOnLeasePrep(t *testing.T) {
	f := &fakeExec{exitCode: 1}
	s := New(zap.NewNop(), f, api.DHCPServer{Host: "h1"})
	assert.Error(t, s.Start(context.Background(), "h1-eth0"))
	assert.Empty(t, f.detached)
}

func TestStopAfterExit(t *testing.T) {
	f := &fakeExec{running: true, pid: 7}
	s := New(zap.NewNop(), f, api.DHCPServer{Host: "h1"})
	s.kill = func(int, syscall.Signal) error {
		t.Fatal("kill must not be called for an exited server")
		return nil
	}
	require.NoError(t, s.Start(context.Background(), "h1-eth0"))
	f.running = false
	assert.NoError(t, s.Stop(context.Background()))
}

func TestStopIgnoresVanishedProcess(t *testing.T) {
	f := &fakeExec{running: true, pid: 7}
	s := New(zap.NewNop(), f, api.DHCPServer{Host: "h1"})
	s.kill = func(int, syscall.Signal) error { return unix.ESRCH }
	require.NoError(t, s.Start(context.Background(), "h1-eth0"))
	assert.NoError(t, s.Stop(context.Background()))
}

func TestBind(t *testing.T) {
	conf := filepath.Join(t.TempDir(), "dhcpd.conf")
	require.NoError(t, os.WriteFile(conf, []byte("subnet 10.0.0.0 netmask 255.255.0.0 {}\n"), 0644))

	bind, err := Bind(conf)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(strings.Split(bind, ":")[0]))
	assert.True(t, strings.HasSuffix(bind, ":"+ContainerConfigFile+":ro"))

	_, err = Bind(filepath.Join(t.TempDir(), "missing.conf"))
	assert.Error(t, err)
}
