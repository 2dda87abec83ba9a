package topo

import "Topolab/api"

// FinalProjectName is the registry key of the only lab that runs a DHCP server.
const FinalProjectName = "mytopo"

func init() {
	Register(FinalProjectName, FinalProject)
	Register("topo_part2_109550206", Lab1Part2)
	Register("topo_part3_109550206", Lab1Part3)
	Register("topo", Lab2Loop)
}

// FinalProject is a tree of three switches with a DHCP server on h1,
// two DHCP clients (h2, h3) and two statically addressed hosts behind s3.
// Every link is a traffic-control link.
func FinalProject() *api.Topology {
	return &api.Topology{
		Name: FinalProjectName,
		Nodes: []api.Node{
			api.HostWith("h1", "10.0.2.100/16", "ea:e9:78:fb:fd:01"),
			api.HostWith("h2", api.Unassigned, "ea:e9:78:fb:fd:02"),
			api.HostWith("h3", api.Unassigned, "ea:e9:78:fb:fd:03"),
			api.HostWith("h4", "10.0.3.100/16", "ea:e9:78:fb:fd:04"),
			api.HostWith("h5", "10.0.3.101/16", "ea:e9:78:fb:fd:05"),
			api.Switch("s1"),
			api.Switch("s2"),
			api.Switch("s3"),
		},
		Links: []api.Link{
			api.NewShapedLink("s1", "h1"),
			api.NewShapedLink("s1", "h2"),
			api.NewShapedLink("s1", "h3"),
			api.NewShapedLink("s3", "h4"),
			api.NewShapedLink("s3", "h5"),
			api.NewShapedLink("s1", "s2"),
			api.NewShapedLink("s2", "s3"),
		},
	}
}

// Lab1Part2 hangs three bare hosts off s1..s3, all joined through s4.
func Lab1Part2() *api.Topology {
	return &api.Topology{
		Name: "topo_part2_109550206",
		Nodes: []api.Node{
			api.Host("h1"),
			api.Host("h2"),
			api.Host("h3"),
			api.Switch("s1"),
			api.Switch("s2"),
			api.Switch("s3"),
			api.Switch("s4"),
		},
		Links: lab1Links(),
	}
}

// Lab1Part3 is Lab1Part2 with the hosts in 192.168.0.0/27.
func Lab1Part3() *api.Topology {
	return &api.Topology{
		Name: "topo_part3_109550206",
		Nodes: []api.Node{
			api.HostWith("h1", "192.168.0.1/27", ""),
			api.HostWith("h2", "192.168.0.2/27", ""),
			api.HostWith("h3", "192.168.0.3/27", ""),
			api.Switch("s1"),
			api.Switch("s2"),
			api.Switch("s3"),
			api.Switch("s4"),
		},
		Links: lab1Links(),
	}
}

func lab1Links() []api.Link {
	return []api.Link{
		// host/switch
		api.NewLink("h1", "s1"),
		api.NewLink("h2", "s2"),
		api.NewLink("h3", "s3"),
		// switch/switch
		api.NewLink("s1", "s4"),
		api.NewLink("s2", "s4"),
		api.NewLink("s3", "s4"),
	}
}

// Lab2Loop connects s1, s2 and s3 in a triangle so the controller has to
// cope with a forwarding loop.
func Lab2Loop() *api.Topology {
	return &api.Topology{
		Name: "topo",
		Nodes: []api.Node{
			api.Switch("s1"),
			api.Switch("s2"),
			api.Switch("s3"),
			api.Host("h1"),
			api.Host("h2"),
		},
		Links: []api.Link{
			api.NewLink("h1", "s1"),
			api.NewLink("h2", "s2"),
			api.NewLink("s1", "s2"),
			api.NewLink("s2", "s3"),
			api.NewLink("s3", "s1"),
		},
	}
}
