package topo

import (
	"Topolab/api"
	"Topolab/pkg/util"
	"errors"
	"fmt"
)

var (
	ErrDuplicateNode  = errors.New("duplicate node")
	ErrDanglingLink   = errors.New("link endpoint not declared")
	ErrInvalidAddress = errors.New("invalid address")
	ErrInvalidMAC     = errors.New("invalid mac address")
	ErrInvalidNode    = errors.New("invalid node")
)

// Validate checks the structural invariants of t and reports every violation.
func Validate(t *api.Topology) error {
	var errs []error

	seen := make(map[string]bool, len(t.Nodes))
	for _, n := range t.Nodes {
		if n.Name == "" {
			errs = append(errs, fmt.Errorf("%w: empty name", ErrInvalidNode))
			continue
		}
		if seen[n.Name] {
			errs = append(errs, fmt.Errorf("%w: %s", ErrDuplicateNode, n.Name))
		}
		seen[n.Name] = true
		if err := validateNode(n); err != nil {
			errs = append(errs, err)
		}
	}

	// endpoints must be declared before use, so only look at nodes, never links
	for i, l := range t.Links {
		if !seen[l.NodeA] {
			errs = append(errs, fmt.Errorf("%w: link %d (%s) references %q", ErrDanglingLink, i, l, l.NodeA))
		}
		if !seen[l.NodeB] {
			errs = append(errs, fmt.Errorf("%w: link %d (%s) references %q", ErrDanglingLink, i, l, l.NodeB))
		}
	}

	return errors.Join(errs...)
}

func validateNode(n api.Node) error {
	var errs []error
	switch n.Kind {
	case api.KindSwitch:
		if n.IP != "" {
			errs = append(errs, fmt.Errorf("%w: switch %s carries address %q", ErrInvalidNode, n.Name, n.IP))
		}
		if n.MAC != "" {
			errs = append(errs, fmt.Errorf("%w: switch %s carries mac %q", ErrInvalidNode, n.Name, n.MAC))
		}
	case api.KindHost:
		if n.IP != "" && n.IP != api.Unassigned && !util.CheckIpv4CIDR(n.IP) {
			errs = append(errs, fmt.Errorf("%w: host %s: %q", ErrInvalidAddress, n.Name, n.IP))
		}
		if n.MAC != "" && !util.CheckMac(n.MAC) {
			errs = append(errs, fmt.Errorf("%w: host %s: %q", ErrInvalidMAC, n.Name, n.MAC))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %s has unknown kind %q", ErrInvalidNode, n.Name, n.Kind))
	}
	return errors.Join(errs...)
}
