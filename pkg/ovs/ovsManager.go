package ovs

import (
	"Topolab/api"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/digitalocean/go-openvswitch/ovs"
	"go.uber.org/zap"
)

var ErrOfportMismatch = errors.New("unexpected openflow port")

// ExternalIDKey marks bridges created by topolab, the value is the topology name.
const ExternalIDKey = "topolab"

// OvsManager runs every emulated switch as its own OVS bridge, named after the switch.
type OvsManager struct {
	oClient   *ovs.Client
	protocols []string
	failMode  ovs.FailMode
	log       *zap.Logger

	// vsctl runs ovs-vsctl for the settings the client library does not cover.
	vsctl func(args ...string) (string, error)
}

func NewOvsManager(log *zap.Logger, protocols []string, failMode string) *OvsManager {
	return &OvsManager{
		oClient:   ovs.New(),
		protocols: protocols,
		failMode:  ovs.FailMode(failMode),
		log:       log.Named("ovs"),
		vsctl:     runVsctl,
	}
}

func runVsctl(args ...string) (string, error) {
	output, err := exec.Command("ovs-vsctl", args...).Output()
	if err != nil {
		return "", fmt.Errorf("ovs-vsctl %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(string(output)), nil
}

// ControllerTarget renders c the way ovs-vsctl set-controller expects it.
func ControllerTarget(c api.Controller) string {
	protocol := c.Protocol
	if protocol == "" {
		protocol = "tcp"
	}
	return fmt.Sprintf("%s:%s:%d", protocol, c.IP, c.Port)
}

func (om *OvsManager) AddSwitch(name, topology string) error {
	if err := om.oClient.VSwitch.AddBridge(name); err != nil {
		return fmt.Errorf("failed to add bridge %s: %w", name, err)
	}
	if om.failMode != "" {
		if err := om.oClient.VSwitch.SetFailMode(name, om.failMode); err != nil {
			return fmt.Errorf("failed to set fail mode on %s: %w", name, err)
		}
	}
	if len(om.protocols) > 0 {
		if err := om.oClient.VSwitch.Set.Bridge(name, ovs.BridgeOptions{Protocols: om.protocols}); err != nil {
			return fmt.Errorf("failed to set protocols on %s: %w", name, err)
		}
	}
	if _, err := om.vsctl("br-set-external-id", name, ExternalIDKey, topology); err != nil {
		return err
	}
	om.log.Debug("switch added", zap.String("bridge", name), zap.Strings("protocols", om.protocols))
	return nil
}

func (om *OvsManager) SetController(name string, c api.Controller) error {
	target := ControllerTarget(c)
	if err := om.oClient.VSwitch.SetController(name, target); err != nil {
		return fmt.Errorf("failed to set controller %s on %s: %w", target, name, err)
	}
	om.log.Debug("controller set", zap.String("bridge", name), zap.String("controller", c.Name), zap.String("target", target))
	return nil
}

// AddPort adds the switch side of a veth pair to the bridge and requests
// ofport as its OpenFlow port number.
func (om *OvsManager) AddPort(name, port string, ofport int) error {
	if err := om.oClient.VSwitch.AddPort(name, port); err != nil {
		return fmt.Errorf("failed to add %s to OVS bridge %s: %w", port, name, err)
	}
	return om.requestOfport(name, port, ofport)
}

// requestOfport pins port to ofport and checks OVS honoured it, a port number
// already taken on the bridge is silently replaced by another one.
func (om *OvsManager) requestOfport(name, port string, ofport int) error {
	if _, err := om.vsctl("set", "Interface", port, "ofport_request="+strconv.Itoa(ofport)); err != nil {
		return err
	}
	got, err := om.GetPortId(port)
	if err != nil {
		return err
	}
	if got != ofport {
		return fmt.Errorf("%w: %s on %s got %d, requested %d", ErrOfportMismatch, port, name, got, ofport)
	}
	om.log.Debug("port added", zap.String("bridge", name), zap.String("port", port), zap.Int("ofport", got))
	return nil
}

func (om *OvsManager) DeleteSwitch(name string) error {
	if err := om.oClient.VSwitch.DeleteBridge(name); err != nil {
		return fmt.Errorf("failed to delete bridge %s: %w", name, err)
	}
	return nil
}

// Owned lists the bridges tagged by AddSwitch together with their ports.
func (om *OvsManager) Owned() (map[string][]string, error) {
	bridges, err := om.oClient.VSwitch.ListBridges()
	if err != nil {
		return nil, fmt.Errorf("failed to list bridges: %w", err)
	}
	owned := make(map[string][]string)
	for _, br := range bridges {
		id, err := om.vsctl("br-get-external-id", br, ExternalIDKey)
		if err != nil || id == "" {
			continue
		}
		ports, err := om.oClient.VSwitch.ListPorts(br)
		if err != nil {
			return nil, fmt.Errorf("failed to list ports of %s: %w", br, err)
		}
		owned[br] = ports
	}
	return owned, nil
}

// GetPortId returns the OpenFlow port number OVS assigned to port.
func (om *OvsManager) GetPortId(port string) (int, error) {
	resultStr, err := om.vsctl("get", "Interface", port, "ofport")
	if err != nil {
		return -1, err
	}
	resultInt, err := strconv.Atoi(resultStr)
	if err != nil {
		return -1, fmt.Errorf("error converting port %s id %s to int: %w", port, resultStr, err)
	}
	return resultInt, nil
}
