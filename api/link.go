package api

type Link struct {
	NodeA      string         `yaml:"nodeA"`
	NodeB      string         `yaml:"nodeB"`
	Shaped     bool           `yaml:"shaped,omitempty"` // traffic-control link
	Properties LinkProperties `yaml:"properties,omitempty"`
}

type LinkProperties struct {
	Latency uint32  `yaml:"latency,omitempty"` // in ms
	Loss    float32 `yaml:"loss,omitempty"`    // in percentage
	Rate    uint64  `yaml:"rate,omitempty"`    // in mbps
}

func NewLink(a, b string) Link {
	return Link{NodeA: a, NodeB: b}
}

// NewShapedLink declares a link that is set up with traffic control,
// with or without shaping parameters.
func NewShapedLink(a, b string) Link {
	return Link{NodeA: a, NodeB: b, Shaped: true}
}

func (p LinkProperties) IsZero() bool {
	return p.Latency == 0 && p.Loss == 0 && p.Rate == 0
}

func (l Link) String() string {
	return l.NodeA + "-" + l.NodeB
}

// LinkState records the interfaces created for a link.
type LinkState struct {
	Link
	IntfA NodeInterface
	IntfB NodeInterface
}
