package link

import (
	"Topolab/api"
	"fmt"

	"github.com/vishvananda/netlink"
	"go.uber.org/zap"
)

// Traffic control for shaped links, applied to both ends of the pair so each
// direction is limited on egress:
//
//	rate > 0: tc qdisc add dev X root handle 1: htb default 1
//	          tc class add dev X parent 1: classid 1:1 htb rate <rate>mbit burst 10000
//	          tc qdisc add dev X parent 1:1 handle 10: netem delay <latency>ms loss <loss>%
//	rate = 0: tc qdisc add dev X root handle 10: netem delay <latency>ms loss <loss>%

const (
	netemLimit = 300000
	htbBuffer  = 10000
)

var (
	htbRootHandle = netlink.MakeHandle(1, 0)
	htbClassid    = netlink.MakeHandle(1, 1)
	netemHandle   = netlink.MakeHandle(10, 0)
)

// Shape applies p to intf.
func (lm *LinkManager) Shape(intf api.NodeInterface, p api.LinkProperties) error {
	return inNs(intf.NetNs, func() error {
		link, err := netlink.LinkByName(intf.Name)
		if err != nil {
			return fmt.Errorf("failed to get link by name %s: %w", intf.Name, err)
		}
		for _, q := range Qdiscs(link.Attrs().Index, p) {
			if err := netlink.QdiscAdd(q); err != nil {
				return fmt.Errorf("failed to add %s qdisc to %s: %w", q.Type(), intf.Name, err)
			}
			if htb, ok := q.(*netlink.Htb); ok {
				if err := netlink.ClassAdd(htbClass(htb.LinkIndex, p)); err != nil {
					return fmt.Errorf("failed to add HTB class to %s: %w", intf.Name, err)
				}
			}
		}
		lm.log.Debug("link shaped", zap.String("intf", intf.Name), zap.String("node", intf.NodeName),
			zap.Uint64("rate", p.Rate), zap.Uint32("latency", p.Latency), zap.Float32("loss", p.Loss))
		return nil
	})
}

// Qdiscs returns the qdiscs for p in the order they must be added.
func Qdiscs(linkIndex int, p api.LinkProperties) []netlink.Qdisc {
	var out []netlink.Qdisc
	netemParent := uint32(netlink.HANDLE_ROOT)

	if p.Rate > 0 {
		root := netlink.NewHtb(netlink.QdiscAttrs{
			LinkIndex: linkIndex,
			Handle:    htbRootHandle,
			Parent:    netlink.HANDLE_ROOT,
		})
		root.Defcls = 1 // default classid 1:1
		out = append(out, root)
		netemParent = htbClassid
	}

	if p.Latency > 0 || p.Loss > 0 {
		out = append(out, netlink.NewNetem(netlink.QdiscAttrs{
			LinkIndex: linkIndex,
			Parent:    netemParent,
			Handle:    netemHandle,
		}, netlink.NetemQdiscAttrs{
			Latency: p.Latency * 1000, // in us
			Loss:    p.Loss,
			Limit:   netemLimit,
		}))
	}
	return out
}

func htbClass(linkIndex int, p api.LinkProperties) *netlink.HtbClass {
	return netlink.NewHtbClass(
		netlink.ClassAttrs{
			LinkIndex: linkIndex,
			Handle:    htbClassid,
			Parent:    htbRootHandle,
		},
		netlink.HtbClassAttrs{
			Rate:   p.Rate * 1000 * 1000, // in bit/s
			Buffer: htbBuffer,
			Prio:   1,
		},
	)
}
