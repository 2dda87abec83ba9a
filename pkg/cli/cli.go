package cli

import (
	"Topolab/api"
	"Topolab/pkg/util"
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
)

const Prompt = "topolab> "

// Network is what the shell operates on.
type Network interface {
	NodeList() []*api.NodeState
	LinkList() []*api.LinkState
	Interfaces(node string) ([]api.NodeInterface, error)
	Exec(ctx context.Context, node string, cmd []string, out io.Writer) (int, error)
}

// CLI is a line-oriented shell over a running network. Lines starting with a
// node name run the rest of the line on that node.
type CLI struct {
	net Network
	in  io.Reader
	out io.Writer
}

func New(net Network, in io.Reader, out io.Writer) *CLI {
	return &CLI{net: net, in: in, out: out}
}

// Run reads commands until exit, EOF or ctx is done.
func (c *CLI) Run(ctx context.Context) error {
	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	for {
		fmt.Fprint(c.out, Prompt)
		select {
		case <-ctx.Done():
			fmt.Fprintln(c.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(c.out)
				return nil
			}
			if !c.Execute(ctx, line) {
				return nil
			}
		}
	}
}

// Execute runs one command line and reports whether the shell should go on.
func (c *CLI) Execute(ctx context.Context, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return true
	}

	switch fields[0] {
	case "exit", "quit":
		return false
	case "help", "?":
		c.help()
	case "nodes":
		c.nodes()
	case "net", "links":
		c.links()
	case "intfs":
		c.intfs(fields[1:])
	case "dump":
		c.dump()
	case "pingall":
		c.pingall(ctx)
	default:
		if !c.isNode(fields[0]) {
			fmt.Fprintf(c.out, "*** Unknown command: %s\n", line)
			return true
		}
		if len(fields) == 1 {
			fmt.Fprintf(c.out, "*** Enter a command for node: %s <cmd>\n", fields[0])
			return true
		}
		if _, err := c.net.Exec(ctx, fields[0], fields[1:], c.out); err != nil {
			fmt.Fprintf(c.out, "*** Error: %v\n", err)
		}
	}
	return true
}

func (c *CLI) isNode(name string) bool {
	for _, n := range c.net.NodeList() {
		if n.Name == name {
			return true
		}
	}
	return false
}

func (c *CLI) help() {
	fmt.Fprint(c.out, `Documented commands:
  nodes            list nodes
  net | links      list links
  intfs [node...]  list interfaces of all or the given nodes
  dump             show interfaces and addresses
  pingall          ping between all addressed hosts
  <node> <cmd>     run cmd on node
  exit | quit      leave the shell and stop the network
`)
}

func (c *CLI) nodes() {
	var names []string
	for _, n := range c.net.NodeList() {
		names = append(names, n.Name)
	}
	fmt.Fprintf(c.out, "available nodes are: \n%s\n", strings.Join(names, " "))
}

func (c *CLI) links() {
	for _, l := range c.net.LinkList() {
		fmt.Fprintf(c.out, "%s:%s <-> %s:%s\n", l.NodeA, l.IntfA.Name, l.NodeB, l.IntfB.Name)
	}
}

func (c *CLI) intfs(names []string) {
	if len(names) == 0 {
		for _, n := range c.net.NodeList() {
			names = append(names, n.Name)
		}
	}
	for _, name := range names {
		intfs, err := c.net.Interfaces(name)
		if err != nil {
			fmt.Fprintf(c.out, "*** Error: %v\n", err)
			continue
		}
		var list []string
		for _, intf := range intfs {
			list = append(list, intf.Name)
		}
		fmt.Fprintf(c.out, "%s: %s\n", name, strings.Join(list, ","))
	}
}

func (c *CLI) dump() {
	table := tablewriter.NewWriter(c.out)
	table.SetHeader([]string{"Node", "Kind", "Interface", "IPv4", "MAC"})
	for _, n := range c.net.NodeList() {
		if len(n.Intfs) == 0 {
			table.Append([]string{n.Name, string(n.Kind), "", "", ""})
		}
		for _, intf := range n.Intfs {
			table.Append([]string{n.Name, string(n.Kind), intf.Name, intf.Ipv4, intf.Mac})
		}
	}
	table.Render()
}

// pingall pings every other host that has a declared address once from
// each host. DHCP clients have none and are only used as sources.
func (c *CLI) pingall(ctx context.Context) {
	var hosts []*api.NodeState
	for _, n := range c.net.NodeList() {
		if n.IsHost() {
			hosts = append(hosts, n)
		}
	}

	fmt.Fprintln(c.out, "*** Ping: testing ping reachability")
	sent, received := 0, 0
	for _, src := range hosts {
		fmt.Fprintf(c.out, "%s -> ", src.Name)
		for _, dst := range hosts {
			if dst == src {
				continue
			}
			if dst.IP == "" || dst.IP == api.Unassigned {
				fmt.Fprint(c.out, "- ")
				continue
			}
			sent++
			code, err := c.net.Exec(ctx, src.Name, []string{"ping", "-c1", "-W1", util.SplitCIDR(dst.IP)}, io.Discard)
			if err == nil && code == 0 {
				received++
				fmt.Fprintf(c.out, "%s ", dst.Name)
			} else {
				fmt.Fprint(c.out, "X ")
			}
		}
		fmt.Fprintln(c.out)
	}

	dropped := 0
	if sent > 0 {
		dropped = 100 * (sent - received) / sent
	}
	fmt.Fprintf(c.out, "*** Results: %d%% dropped (%d/%d received)\n", dropped, received, sent)
}
