package topo

import (
	"Topolab/api"
	"errors"
	"fmt"
	"sort"
)

var ErrUnknownTopology = errors.New("unknown topology")

// Constructor returns a freshly built topology on every call.
type Constructor func() *api.Topology

var registry = map[string]Constructor{}

// Register adds a topology constructor under name.
// Each lab topology calls this in its init().
func Register(name string, c Constructor) {
	if _, existed := registry[name]; existed {
		panic("topo: duplicate registration of " + name)
	}
	registry[name] = c
}

// Lookup returns the constructor registered under name.
func Lookup(name string) (Constructor, error) {
	c, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %v)", ErrUnknownTopology, name, Names())
	}
	return c, nil
}

// Build looks up name and invokes its constructor.
func Build(name string) (*api.Topology, error) {
	c, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return c(), nil
}

// Names returns the registered keys in sorted order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
