package cli

import (
	"Topolab/api"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNet struct {
	nodes []*api.NodeState
	links []*api.LinkState
	execs [][]string
	// pings to these addresses fail
	unreachable map[string]bool
}

func (f *fakeNet) NodeList() []*api.NodeState { return f.nodes }

func (f *fakeNet) LinkList() []*api.LinkState { return f.links }

func (f *fakeNet) Interfaces(node string) ([]api.NodeInterface, error) {
	for _, n := range f.nodes {
		if n.Name == node {
			return n.Intfs, nil
		}
	}
	return nil, fmt.Errorf("node %s not found", node)
}

func (f *fakeNet) Exec(_ context.Context, node string, cmd []string, out io.Writer) (int, error) {
	f.execs = append(f.execs, append([]string{node}, cmd...))
	if cmd[0] == "ping" && f.unreachable[cmd[len(cmd)-1]] {
		return 1, nil
	}
	io.WriteString(out, "ran "+strings.Join(cmd, " ")+"\n")
	return 0, nil
}

func newFakeNet() *fakeNet {
	h1 := &api.NodeState{Node: api.HostWith("h1", "10.0.2.100/16", ""), Intfs: []api.NodeInterface{{Name: "h1-eth0", Ipv4: "10.0.2.100/16"}}}
	h2 := &api.NodeState{Node: api.HostWith("h2", api.Unassigned, ""), Intfs: []api.NodeInterface{{Name: "h2-eth0"}}}
	h4 := &api.NodeState{Node: api.HostWith("h4", "10.0.3.100/16", ""), Intfs: []api.NodeInterface{{Name: "h4-eth0"}}}
	s1 := &api.NodeState{Node: api.Switch("s1"), Intfs: []api.NodeInterface{{Name: "s1-eth1"}, {Name: "s1-eth2"}}}
	return &fakeNet{
		nodes: []*api.NodeState{h1, h2, h4, s1},
		links: []*api.LinkState{
			{Link: api.NewLink("s1", "h1"), IntfA: api.NodeInterface{Name: "s1-eth1"}, IntfB: api.NodeInterface{Name: "h1-eth0"}},
		},
		unreachable: map[string]bool{},
	}
}

func TestExecute(t *testing.T) {
	tests := []struct {
		line     string
		contains string
		goOn     bool
	}{
		{"nodes", "h1 h2 h4 s1", true},
		{"net", "s1:s1-eth1 <-> h1:h1-eth0", true},
		{"links", "s1:s1-eth1 <-> h1:h1-eth0", true},
		{"help", "pingall", true},
		{"dump", "S1-ETH2", true},
		{"intfs", "s1: s1-eth1,s1-eth2", true},
		{"intfs h1", "h1: h1-eth0", true},
		{"intfs h9", "node h9 not found", true},
		{"h1 ip addr", "ran ip addr", true},
		{"h1", "Enter a command for node", true},
		{"bogus", "Unknown command: bogus", true},
		{"", "", true},
		{"exit", "", false},
		{"quit", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			var out bytes.Buffer
			c := New(newFakeNet(), strings.NewReader(""), &out)
			assert.Equal(t, tt.goOn, c.Execute(context.Background(), tt.line))
			assert.Contains(t, strings.ToUpper(out.String()), strings.ToUpper(tt.contains))
		})
	}
}

func TestPingall(t *testing.T) {
	net := newFakeNet()
	net.unreachable["10.0.3.100"] = true

	var out bytes.Buffer
	c := New(net, strings.NewReader(""), &out)
	c.Execute(context.Background(), "pingall")

	// h1->h4 fails, h2->h1 and h4->h1 succeed, h2 is never a target
	assert.Contains(t, out.String(), "h1 -> - X")
	assert.Contains(t, out.String(), "h2 -> h1 X")
	assert.Contains(t, out.String(), "*** Results: 50% dropped (2/4 received)")
	for _, e := range net.execs {
		assert.NotEqual(t, "0.0.0.0", e[len(e)-1])
	}
}

func TestRunStopsOnExitAndEOF(t *testing.T) {
	net := newFakeNet()
	var out bytes.Buffer
	c := New(net, strings.NewReader("h1 hostname\nexit\nh1 never\n"), &out)
	require.NoError(t, c.Run(context.Background()))
	require.Len(t, net.execs, 1)
	assert.Equal(t, []string{"h1", "hostname"}, net.execs[0])

	out.Reset()
	c = New(net, strings.NewReader("nodes\n"), &out)
	require.NoError(t, c.Run(context.Background()))
	assert.Contains(t, out.String(), "available nodes are")
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r, w := io.Pipe()
	defer w.Close()
	c := New(newFakeNet(), r, io.Discard)
	assert.NoError(t, c.Run(ctx))
}
