package topo

import (
	"Topolab/api"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a YAML topology file and validates it.
func Load(path string) (*api.Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading YAML file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*api.Topology, error) {
	var t api.Topology
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("error unmarshaling YAML file: %w", err)
	}
	if err := Validate(&t); err != nil {
		return nil, fmt.Errorf("topology %q: %w", t.Name, err)
	}
	return &t, nil
}

// Save writes t as YAML, in the format Load reads.
func Save(t *api.Topology, path string) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return fmt.Errorf("error marshaling topology %q: %w", t.Name, err)
	}
	return os.WriteFile(path, data, 0644)
}
