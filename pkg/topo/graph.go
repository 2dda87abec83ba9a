package topo

import "Topolab/api"

// Node returns the node called name.
func Node(t *api.Topology, name string) (api.Node, bool) {
	for _, n := range t.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return api.Node{}, false
}

// Switches returns the switch nodes in declaration order.
func Switches(t *api.Topology) []api.Node {
	return filter(t, api.KindSwitch)
}

// Hosts returns the host nodes in declaration order.
func Hosts(t *api.Topology) []api.Node {
	return filter(t, api.KindHost)
}

func filter(t *api.Topology, kind api.NodeKind) []api.Node {
	var out []api.Node
	for _, n := range t.Nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

func Counts(t *api.Topology) (switches, hosts int) {
	for _, n := range t.Nodes {
		switch n.Kind {
		case api.KindSwitch:
			switches++
		case api.KindHost:
			hosts++
		}
	}
	return switches, hosts
}

// HasCycle reports whether the links, taken as undirected edges, close a loop.
// Parallel links between the same pair count as a cycle.
func HasCycle(t *api.Topology) bool {
	parent := make(map[string]string, len(t.Nodes))
	var find func(string) string
	find = func(x string) string {
		p, ok := parent[x]
		if !ok || p == x {
			parent[x] = x
			return x
		}
		root := find(p)
		parent[x] = root
		return root
	}

	for _, l := range t.Links {
		ra, rb := find(l.NodeA), find(l.NodeB)
		if ra == rb {
			return true
		}
		parent[ra] = rb
	}
	return false
}
