package pkg

import (
	"Topolab/api"
	"context"
	"fmt"
	"io"
)

// recorder collects backend calls in order, e.g. "switch s1", "port s1 s1-eth1 1".
type recorder struct {
	calls  []string
	failOn string
}

func (r *recorder) record(format string, args ...any) error {
	call := fmt.Sprintf(format, args...)
	r.calls = append(r.calls, call)
	if r.failOn != "" && call == r.failOn {
		return fmt.Errorf("injected failure: %s", call)
	}
	return nil
}

type fakeSwitches struct{ *recorder }

func (f fakeSwitches) AddSwitch(name, topology string) error {
	return f.record("switch %s", name)
}

func (f fakeSwitches) SetController(name string, c api.Controller) error {
	return f.record("controller %s %s:%d", name, c.IP, c.Port)
}

func (f fakeSwitches) AddPort(name, port string, ofport int) error {
	return f.record("port %s %s %d", name, port, ofport)
}

func (f fakeSwitches) DeleteSwitch(name string) error {
	return f.record("del-switch %s", name)
}

type fakeHosts struct {
	*recorder
	added   map[string]api.Node
	running bool
}

func (f fakeHosts) AddHost(_ context.Context, n api.Node, topology string) (string, error) {
	f.added[n.Name] = n
	return "/proc/1/ns/" + n.Name, f.record("host %s %s", n.Name, n.IP)
}

func (f fakeHosts) DeleteHost(_ context.Context, name string) error {
	return f.record("del-host %s", name)
}

func (f fakeHosts) Exec(_ context.Context, name string, cmd []string, out io.Writer) (int, error) {
	return 0, f.record("exec %s %v", name, cmd)
}

func (f fakeHosts) ExecDetached(_ context.Context, name string, cmd []string) (string, error) {
	return "exec-" + name, f.record("detach %s %s", name, cmd[len(cmd)-1])
}

func (f fakeHosts) ExecPid(_ context.Context, execID string) (int, bool, error) {
	return 0, f.running, nil
}

type fakeLinks struct{ *recorder }

func (f fakeLinks) AddLink(l *api.LinkState) error {
	return f.record("link %s %s", l.IntfA.Name, l.IntfB.Name)
}

func (f fakeLinks) DeleteLink(l *api.LinkState) error {
	return f.record("del-link %s", l.Link)
}
