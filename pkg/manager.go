package pkg

import (
	"Topolab/api"
	"Topolab/pkg/util"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"

	"go.uber.org/zap"
)

type SwitchBackend interface {
	AddSwitch(name, topology string) error
	SetController(name string, c api.Controller) error
	AddPort(name, port string, ofport int) error
	DeleteSwitch(name string) error
}

type HostBackend interface {
	AddHost(ctx context.Context, n api.Node, topology string) (string, error)
	DeleteHost(ctx context.Context, name string) error
	Exec(ctx context.Context, name string, cmd []string, out io.Writer) (int, error)
	ExecDetached(ctx context.Context, name string, cmd []string) (string, error)
	ExecPid(ctx context.Context, execID string) (int, bool, error)
}

type LinkBackend interface {
	AddLink(l *api.LinkState) error
	DeleteLink(l *api.LinkState) error
}

// Manager brings a topology up on the three backends and tears it down again.
// Switches come first so the controller sees them before any port appears,
// then hosts, then links in declaration order.
type Manager struct {
	Nodes map[string]*api.NodeState // map node name to node
	Links []*api.LinkState

	order    []string
	topology string
	switches SwitchBackend
	hosts    HostBackend
	links    LinkBackend
	log      *zap.Logger

	// created resources, for teardown
	startedSwitches []string
	startedHosts    []string
	startedLinks    []*api.LinkState
}

func NewManager(log *zap.Logger, s SwitchBackend, h HostBackend, l LinkBackend) *Manager {
	return &Manager{
		Nodes:    make(map[string]*api.NodeState),
		switches: s,
		hosts:    h,
		links:    l,
		log:      log,
	}
}

func (m *Manager) Start(ctx context.Context, t *api.Topology, c api.Controller) error {
	m.topology = t.Name
	for _, n := range t.Nodes {
		if _, existed := m.Nodes[n.Name]; existed {
			return fmt.Errorf("node %s already exists", n.Name)
		}
		m.Nodes[n.Name] = &api.NodeState{Node: n}
		m.order = append(m.order, n.Name)
	}

	for _, name := range m.order {
		n := m.Nodes[name]
		if !n.IsSwitch() {
			continue
		}
		if err := m.switches.AddSwitch(name, t.Name); err != nil {
			return fmt.Errorf("add switch %s: %w", name, err)
		}
		m.startedSwitches = append(m.startedSwitches, name)
		if err := m.switches.SetController(name, c); err != nil {
			return fmt.Errorf("attach %s to controller %s: %w", name, c.Name, err)
		}
		m.log.Info("switch up", zap.String("node", name))
	}

	seq := 0
	for _, name := range m.order {
		n := m.Nodes[name]
		if !n.IsHost() {
			continue
		}
		seq++
		if n.IP == "" {
			n.IP = util.AutoIpv4(seq)
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		netNs, err := m.hosts.AddHost(ctx, n.Node, t.Name)
		if err != nil {
			return fmt.Errorf("add host %s: %w", name, err)
		}
		m.startedHosts = append(m.startedHosts, name)
		n.NetNs = netNs
		m.log.Info("host up", zap.String("node", name), zap.String("ip", n.IP))
	}

	for _, l := range t.Links {
		a, okA := m.Nodes[l.NodeA]
		b, okB := m.Nodes[l.NodeB]
		if !okA || !okB {
			return fmt.Errorf("link %s: endpoint not found", l)
		}
		state := &api.LinkState{Link: l, IntfA: m.nextIntf(a), IntfB: m.nextIntf(b)}
		if err := m.links.AddLink(state); err != nil {
			return fmt.Errorf("add link %s: %w", l, err)
		}
		m.startedLinks = append(m.startedLinks, state)

		for _, end := range []struct {
			node *api.NodeState
			intf api.NodeInterface
		}{{a, state.IntfA}, {b, state.IntfB}} {
			end.node.Intfs = append(end.node.Intfs, end.intf)
			if end.node.IsSwitch() {
				if err := m.switches.AddPort(end.node.Name, end.intf.Name, end.intf.Port); err != nil {
					return fmt.Errorf("add link %s: %w", l, err)
				}
			}
		}
		m.Links = append(m.Links, state)
		m.log.Info("link up", zap.Stringer("link", l), zap.String("a", state.IntfA.Name), zap.String("b", state.IntfB.Name))
	}
	return nil
}

// nextIntf names the next interface of n the Mininet way: hosts count from
// eth0, switches from eth1 so the port number matches the OpenFlow port.
// Only a host's first interface carries its address and MAC.
func (m *Manager) nextIntf(n *api.NodeState) api.NodeInterface {
	port := len(n.Intfs)
	if n.IsSwitch() {
		port++
	}
	intf := api.NodeInterface{
		Name:     fmt.Sprintf("%s-eth%d", n.Name, port),
		NodeName: n.Name,
		NetNs:    n.NetNs,
		Port:     port,
	}
	if n.IsSwitch() {
		intf.BrName = n.Name
	} else if port == 0 {
		intf.Ipv4 = n.IP
		intf.Mac = n.MAC
	}
	return intf
}

// Stop removes everything Start created, in reverse order, and keeps going on
// failure.
func (m *Manager) Stop(ctx context.Context) error {
	var errs []error
	for i := len(m.startedLinks) - 1; i >= 0; i-- {
		if err := m.links.DeleteLink(m.startedLinks[i]); err != nil {
			errs = append(errs, fmt.Errorf("delete link %s: %w", m.startedLinks[i].Link, err))
		}
	}
	m.startedLinks = nil

	for i := len(m.startedHosts) - 1; i >= 0; i-- {
		if err := m.hosts.DeleteHost(ctx, m.startedHosts[i]); err != nil {
			errs = append(errs, fmt.Errorf("delete host %s: %w", m.startedHosts[i], err))
		}
	}
	m.startedHosts = nil

	for i := len(m.startedSwitches) - 1; i >= 0; i-- {
		if err := m.switches.DeleteSwitch(m.startedSwitches[i]); err != nil {
			errs = append(errs, fmt.Errorf("delete switch %s: %w", m.startedSwitches[i], err))
		}
	}
	m.startedSwitches = nil

	m.log.Info("network stopped", zap.String("topology", m.topology), zap.Int("errors", len(errs)))
	return errors.Join(errs...)
}

// NodeList returns the running nodes in declaration order.
func (m *Manager) NodeList() []*api.NodeState {
	out := make([]*api.NodeState, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.Nodes[name])
	}
	return out
}

func (m *Manager) LinkList() []*api.LinkState {
	return m.Links
}

func (m *Manager) Node(name string) (*api.NodeState, error) {
	n, ok := m.Nodes[name]
	if !ok {
		return nil, fmt.Errorf("node %s not found", name)
	}
	return n, nil
}

// Interfaces returns the node's interfaces in creation order.
func (m *Manager) Interfaces(name string) ([]api.NodeInterface, error) {
	n, err := m.Node(name)
	if err != nil {
		return nil, err
	}
	return n.Intfs, nil
}

// DefaultIntf returns the name of the node's first interface.
func (m *Manager) DefaultIntf(name string) (string, error) {
	n, ok := m.Nodes[name]
	if !ok {
		return "", fmt.Errorf("node %s not found", name)
	}
	intf, ok := n.DefaultIntf()
	if !ok {
		return "", fmt.Errorf("node %s has no interfaces", name)
	}
	return intf.Name, nil
}

// Exec runs cmd on a node: inside the container for hosts, in the root
// namespace for switches.
func (m *Manager) Exec(ctx context.Context, name string, cmd []string, out io.Writer) (int, error) {
	n, ok := m.Nodes[name]
	if !ok {
		return -1, fmt.Errorf("node %s not found", name)
	}
	if len(cmd) == 0 {
		return -1, errors.New("empty command")
	}
	if n.IsHost() {
		return m.hosts.Exec(ctx, name, cmd, out)
	}

	c := exec.CommandContext(ctx, cmd[0], cmd[1:]...)
	c.Stdout = out
	c.Stderr = out
	err := c.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if err != nil {
		return -1, err
	}
	return 0, nil
}

func (m *Manager) ExecDetached(ctx context.Context, name string, cmd []string) (string, error) {
	if n, ok := m.Nodes[name]; !ok || !n.IsHost() {
		return "", fmt.Errorf("host %s not found", name)
	}
	return m.hosts.ExecDetached(ctx, name, cmd)
}

func (m *Manager) ExecPid(ctx context.Context, execID string) (int, bool, error) {
	return m.hosts.ExecPid(ctx, execID)
}
