package link

import (
	"Topolab/api"
	"errors"
	"fmt"
	"net"

	ns "github.com/containernetworking/plugins/pkg/ns"
	"github.com/vishvananda/netlink"
	"go.uber.org/zap"
)

const DefaultMTU = 1500

// LinkManager turns links into veth pairs. Ends with a NetNs are moved into
// that namespace, the others stay in the root namespace for OVS.
type LinkManager struct {
	log *zap.Logger
}

func NewLinkManager(log *zap.Logger) *LinkManager {
	return &LinkManager{log: log.Named("link")}
}

// AddLink creates the veth pair for l, configures both ends and applies
// traffic control to shaped links.
func (lm *LinkManager) AddLink(l *api.LinkState) error {
	linkAttr := netlink.NewLinkAttrs()
	linkAttr.Name = l.IntfA.Name
	linkAttr.MTU = DefaultMTU

	veth := &netlink.Veth{
		LinkAttrs: linkAttr,
		PeerName:  l.IntfB.Name,
	}
	if err := netlink.LinkAdd(veth); err != nil {
		return fmt.Errorf("failed to create veth pair %s<->%s: %w", l.IntfA.Name, l.IntfB.Name, err)
	}

	for _, intf := range []*api.NodeInterface{&l.IntfA, &l.IntfB} {
		if err := lm.setupEnd(intf); err != nil {
			lm.discard(l)
			return fmt.Errorf("link %s: %w", l.Link, err)
		}
	}

	if l.Shaped && !l.Properties.IsZero() {
		for _, intf := range []api.NodeInterface{l.IntfA, l.IntfB} {
			if err := lm.Shape(intf, l.Properties); err != nil {
				lm.discard(l)
				return fmt.Errorf("link %s: %w", l.Link, err)
			}
		}
	}
	lm.log.Debug("link added", zap.Stringer("link", l.Link), zap.String("a", l.IntfA.Name), zap.String("b", l.IntfB.Name))
	return nil
}

// setupEnd moves intf into its namespace, sets MAC and address and brings it up.
// The kernel-assigned MAC is recorded when none was requested.
func (lm *LinkManager) setupEnd(intf *api.NodeInterface) error {
	link, err := netlink.LinkByName(intf.Name)
	if err != nil {
		return fmt.Errorf("failed to get link %s: %w", intf.Name, err)
	}

	if intf.NetNs != "" {
		targetNs, err := ns.GetNS(intf.NetNs)
		if err != nil {
			return fmt.Errorf("failed to get namespace for %s: %w", intf.NodeName, err)
		}
		defer targetNs.Close()

		if err = netlink.LinkSetNsFd(link, int(targetNs.Fd())); err != nil {
			return fmt.Errorf("failed to move %s into %s: %w", intf.Name, intf.NodeName, err)
		}
	}

	return inNs(intf.NetNs, func() error {
		link, err := netlink.LinkByName(intf.Name)
		if err != nil {
			return fmt.Errorf("failed to get link %s in %s: %w", intf.Name, intf.NodeName, err)
		}

		if intf.Mac != "" {
			hw, err := net.ParseMAC(intf.Mac)
			if err != nil {
				return fmt.Errorf("invalid mac %s for %s: %w", intf.Mac, intf.Name, err)
			}
			if err = netlink.LinkSetHardwareAddr(link, hw); err != nil {
				return fmt.Errorf("failed to set mac on %s: %w", intf.Name, err)
			}
		}

		if intf.Ipv4 != "" && intf.Ipv4 != api.Unassigned {
			addr, err := netlink.ParseAddr(intf.Ipv4)
			if err != nil {
				return fmt.Errorf("failed to parse CIDR %s: %w", intf.Ipv4, err)
			}
			if err = netlink.AddrAdd(link, addr); err != nil {
				return fmt.Errorf("failed to add address to %s: %w", intf.Name, err)
			}
		}

		if err = netlink.LinkSetUp(link); err != nil {
			return fmt.Errorf("failed to set %s up: %w", intf.Name, err)
		}

		if intf.Mac == "" {
			// re-read, the address is only final once the link exists in its namespace
			if link, err = netlink.LinkByName(intf.Name); err == nil {
				intf.Mac = link.Attrs().HardwareAddr.String()
			}
		}
		return nil
	})
}

// DeleteLink removes the veth pair through whichever end is still in the
// root namespace. Pairs living entirely in host namespaces go away with them.
func (lm *LinkManager) DeleteLink(l *api.LinkState) error {
	for _, intf := range []api.NodeInterface{l.IntfA, l.IntfB} {
		if intf.NetNs != "" {
			continue
		}
		return lm.DeleteInterface(intf.Name)
	}
	return nil
}

// discard removes a pair AddLink could not finish. Each end is looked up in
// the root namespace and in its target namespace, since setup may have
// stopped before or after the move.
func (lm *LinkManager) discard(l *api.LinkState) {
	for _, intf := range []api.NodeInterface{l.IntfA, l.IntfB} {
		err := lm.DeleteInterface(intf.Name)
		if err == nil && intf.NetNs != "" {
			err = inNs(intf.NetNs, func() error { return lm.DeleteInterface(intf.Name) })
		}
		if err != nil {
			lm.log.Warn("failed to remove veth end", zap.String("intf", intf.Name), zap.Error(err))
		}
	}
}

// DeleteInterface deletes a root-namespace interface, ignoring missing ones.
func (lm *LinkManager) DeleteInterface(name string) error {
	link, err := netlink.LinkByName(name)
	if err != nil {
		var notFound netlink.LinkNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to get link %s: %w", name, err)
	}
	if err = netlink.LinkDel(link); err != nil {
		return fmt.Errorf("failed to delete link %s: %w", name, err)
	}
	return nil
}

// inNs runs fn inside the namespace at path, or in the current one for "".
func inNs(path string, fn func() error) error {
	if path == "" {
		return fn()
	}
	return ns.WithNetNSPath(path, func(_ ns.NetNS) error {
		return fn()
	})
}
