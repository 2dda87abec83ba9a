package api

type NodeKind string

const (
	KindSwitch NodeKind = "switch"
	KindHost   NodeKind = "host"
)

// Unassigned is the host address meaning "bring the interface up without an address",
// e.g. for hosts that are expected to obtain one over DHCP.
const Unassigned = "0.0.0.0"

type Node struct {
	Name  string   `yaml:"name"`
	Kind  NodeKind `yaml:"kind"`
	IP    string   `yaml:"ip,omitempty"`  // CIDR, Unassigned, or empty for auto-assignment
	MAC   string   `yaml:"mac,omitempty"` // empty leaves the kernel-assigned address
	Image string   `yaml:"image,omitempty"`
	Binds []string `yaml:"binds,omitempty"` // docker bind mounts, hosts only
}

func Switch(name string) Node {
	return Node{Name: name, Kind: KindSwitch}
}

func Host(name string) Node {
	return Node{Name: name, Kind: KindHost}
}

// HostWith declares a host with a literal address and hardware address.
// Either may be empty.
func HostWith(name, ip, mac string) Node {
	return Node{Name: name, Kind: KindHost, IP: ip, MAC: mac}
}

func (n Node) IsSwitch() bool { return n.Kind == KindSwitch }

func (n Node) IsHost() bool { return n.Kind == KindHost }

// NodeInterface is a node's end of a link once the network is running.
type NodeInterface struct {
	Name     string
	Mac      string
	Ipv4     string
	NetNs    string
	NodeName string
	Port     int
	BrName   string
}

// NodeState is a node once the network is running.
type NodeState struct {
	Node
	NetNs string // empty for nodes living in the root namespace
	Intfs []NodeInterface
}

// DefaultIntf returns the node's first interface.
func (s *NodeState) DefaultIntf() (NodeInterface, bool) {
	if len(s.Intfs) == 0 {
		return NodeInterface{}, false
	}
	return s.Intfs[0], true
}
