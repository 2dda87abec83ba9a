package api

// Topology is a fixed node set plus link set.
type Topology struct {
	Name  string `yaml:"name"`
	Nodes []Node `yaml:"nodes"`
	Links []Link `yaml:"links"`
}

// Controller is the remote SDN controller switches connect to.
type Controller struct {
	Name     string `mapstructure:"name"`
	IP       string `mapstructure:"ip"`
	Port     int    `mapstructure:"port"`
	Protocol string `mapstructure:"protocol"`
}

// DHCPServer describes the dhcpd instance launched on one host.
type DHCPServer struct {
	Host       string `mapstructure:"host"`
	Binary     string `mapstructure:"binary"`
	PidFile    string `mapstructure:"pid_file"`
	ConfigFile string `mapstructure:"config_file"`
	LeaseFile  string `mapstructure:"lease_file"`
}
