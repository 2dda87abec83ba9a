package pkg

import (
	"Topolab/api"
	"Topolab/pkg/cli"
	"Topolab/pkg/dhcp"
	"Topolab/pkg/topo"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"go.uber.org/zap"
)

type RunOptions struct {
	Controller api.Controller
	DHCP       *api.DHCPServer // nil runs no DHCP server

	// Interactive opens the shell on In/Out; otherwise Run blocks until ctx is done.
	Interactive bool
	In          io.Reader
	Out         io.Writer
}

// Runner starts a topology, keeps it up for the session and always tears it
// down afterwards.
type Runner struct {
	m   *Manager
	log *zap.Logger
}

func NewRunner(log *zap.Logger, m *Manager) *Runner {
	return &Runner{m: m, log: log}
}

func (r *Runner) Run(ctx context.Context, t *api.Topology, opts RunOptions) (err error) {
	if err = topo.Validate(t); err != nil {
		return fmt.Errorf("topology %q: %w", t.Name, err)
	}
	if opts.DHCP != nil {
		if t, err = withDHCPBind(t, *opts.DHCP); err != nil {
			return err
		}
	}

	// teardown must not inherit the cancellation that usually ends the session
	stopCtx := context.WithoutCancel(ctx)
	defer func() {
		if stopErr := r.m.Stop(stopCtx); stopErr != nil {
			err = errors.Join(err, stopErr)
		}
	}()

	switches, hosts := topo.Counts(t)
	r.log.Info("starting network", zap.String("topology", t.Name), zap.Int("switches", switches),
		zap.Int("hosts", hosts), zap.Int("links", len(t.Links)), zap.String("controller", opts.Controller.Name))
	if err = r.m.Start(ctx, t, opts.Controller); err != nil {
		return err
	}

	if opts.DHCP != nil {
		intf, err := r.m.DefaultIntf(opts.DHCP.Host)
		if err != nil {
			return fmt.Errorf("dhcp server: %w", err)
		}
		server := dhcp.New(r.log, r.m, *opts.DHCP)
		defer func() {
			if stopErr := server.Stop(stopCtx); stopErr != nil {
				r.log.Error("failed to stop dhcp server", zap.Error(stopErr))
			}
		}()
		if err = server.Start(ctx, intf); err != nil {
			return err
		}
	}

	if opts.Interactive {
		return cli.New(r.m, opts.In, opts.Out).Run(ctx)
	}
	<-ctx.Done()
	return nil
}

// withDHCPBind returns a copy of t whose DHCP host mounts the server's config file.
func withDHCPBind(t *api.Topology, d api.DHCPServer) (*api.Topology, error) {
	n, ok := topo.Node(t, d.Host)
	if !ok || !n.IsHost() {
		return nil, fmt.Errorf("dhcp server: host %s not in topology %q", d.Host, t.Name)
	}
	if d.ConfigFile == "" {
		return t, nil
	}
	bind, err := dhcp.Bind(d.ConfigFile)
	if err != nil {
		return nil, err
	}

	out := *t
	out.Nodes = make([]api.Node, len(t.Nodes))
	copy(out.Nodes, t.Nodes)
	for i := range out.Nodes {
		if out.Nodes[i].Name == d.Host {
			out.Nodes[i].Binds = append(append([]string(nil), out.Nodes[i].Binds...), bind)
		}
	}
	return &out, nil
}

// ShowNodes prints the declared nodes of t.
func ShowNodes(w io.Writer, t *api.Topology) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Node", "Kind", "IPv4", "MAC"})
	for _, n := range t.Nodes {
		ip := n.IP
		if n.IsHost() {
			switch ip {
			case "":
				ip = "auto"
			case api.Unassigned:
				ip = "unassigned"
			}
		}
		table.Append([]string{n.Name, string(n.Kind), ip, n.MAC})
	}
	table.Render()
}

// ShowLinks prints the declared links of t.
func ShowLinks(w io.Writer, t *api.Topology) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Link", "Node A", "Node B", "TC", "Bw (Mbps)", "Delay (ms)", "Loss (%)"})
	for i, l := range t.Links {
		tc := ""
		if l.Shaped {
			tc = "yes"
		}
		table.Append([]string{
			fmt.Sprint(i), l.NodeA, l.NodeB, tc,
			fmt.Sprint(l.Properties.Rate), fmt.Sprint(l.Properties.Latency), fmt.Sprintf("%.2f", l.Properties.Loss),
		})
	}
	table.Render()
}
