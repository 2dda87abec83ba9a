package dhcp

import (
	"Topolab/api"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

const (
	DefaultBinary    = "/usr/sbin/dhcpd"
	DefaultPidFile   = "/run/dhcp-server-dhcpd.pid"
	DefaultLeaseFile = "/var/lib/dhcp/dhcpd.leases"

	// ContainerConfigFile is where the host's config file is mounted.
	ContainerConfigFile = "/etc/topolab/dhcpd.conf"
)

var ErrNotRunning = errors.New("dhcp server not running")

// Executor runs commands on emulated hosts.
type Executor interface {
	Exec(ctx context.Context, node string, cmd []string, out io.Writer) (int, error)
	ExecDetached(ctx context.Context, node string, cmd []string) (string, error)
	ExecPid(ctx context.Context, execID string) (int, bool, error)
}

// Server is one dhcpd process on one emulated host.
type Server struct {
	cfg    api.DHCPServer
	exec   Executor
	log    *zap.Logger
	execID string

	kill func(pid int, sig syscall.Signal) error
}

func New(log *zap.Logger, e Executor, cfg api.DHCPServer) *Server {
	if cfg.Binary == "" {
		cfg.Binary = DefaultBinary
	}
	if cfg.PidFile == "" {
		cfg.PidFile = DefaultPidFile
	}
	if cfg.LeaseFile == "" {
		cfg.LeaseFile = DefaultLeaseFile
	}
	return &Server{
		cfg:  cfg,
		exec: e,
		log:  log.Named("dhcp"),
		kill: unix.Kill,
	}
}

// Bind returns the docker bind mount that exposes the config file to the host.
func Bind(configFile string) (string, error) {
	abs, err := filepath.Abs(configFile)
	if err != nil {
		return "", fmt.Errorf("resolve dhcp config %s: %w", configFile, err)
	}
	// docker would create a directory in place of a missing file
	if _, err = os.Stat(abs); err != nil {
		return "", fmt.Errorf("dhcp config: %w", err)
	}
	return abs + ":" + ContainerConfigFile + ":ro", nil
}

// Command returns the dhcpd command line serving intf. dhcpd stays in the
// foreground so the process can be tracked and signalled directly.
func (s *Server) Command(intf string) []string {
	return []string{
		s.cfg.Binary, "-4", "-f",
		"-pf", s.cfg.PidFile,
		"-cf", ContainerConfigFile,
		"-lf", s.cfg.LeaseFile,
		intf,
	}
}

// Start launches dhcpd on the configured host, bound to intf.
func (s *Server) Start(ctx context.Context, intf string) error {
	// dhcpd refuses to start without an existing lease database
	prep := []string{"sh", "-c", fmt.Sprintf("mkdir -p %s && touch %s", filepath.Dir(s.cfg.LeaseFile), s.cfg.LeaseFile)}
	if code, err := s.exec.Exec(ctx, s.cfg.Host, prep, io.Discard); err != nil {
		return fmt.Errorf("prepare lease file on %s: %w", s.cfg.Host, err)
	} else if code != 0 {
		return fmt.Errorf("prepare lease file on %s: exit code %d", s.cfg.Host, code)
	}

	cmd := s.Command(intf)
	id, err := s.exec.ExecDetached(ctx, s.cfg.Host, cmd)
	if err != nil {
		return fmt.Errorf("start dhcpd on %s: %w", s.cfg.Host, err)
	}
	s.execID = id

	pid, running, err := s.exec.ExecPid(ctx, id)
	if err != nil {
		return err
	}
	if !running {
		return fmt.Errorf("start dhcpd on %s: %w", s.cfg.Host, ErrNotRunning)
	}
	s.log.Info("dhcp server started", zap.String("node", s.cfg.Host), zap.String("intf", intf),
		zap.Int("pid", pid), zap.Strings("cmd", cmd))
	return nil
}

// Stop terminates the process started by Start. Stopping a server that has
// already exited is not an error.
func (s *Server) Stop(ctx context.Context) error {
	if s.execID == "" {
		return nil
	}
	pid, running, err := s.exec.ExecPid(ctx, s.execID)
	if err != nil {
		return err
	}
	s.execID = ""
	if !running || pid <= 0 {
		s.log.Warn("dhcp server already exited", zap.String("node", s.cfg.Host))
		return nil
	}
	if err = s.kill(pid, unix.SIGTERM); err != nil && !errors.Is(err, unix.ESRCH) {
		return fmt.Errorf("kill dhcpd (pid %d) on %s: %w", pid, s.cfg.Host, err)
	}
	s.log.Info("dhcp server stopped", zap.String("node", s.cfg.Host), zap.Int("pid", pid))
	return nil
}
