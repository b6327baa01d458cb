//go:build linux

package supervisor

import (
	"strings"

	"github.com/pilebones/go-udev/netlink"

	"github.com/interception-tools/core/internal/ierrors"
)

// HotplugEvent is a single add/remove notification translated from the
// udev netlink wire format into the fields the supervisor needs.
type HotplugEvent struct {
	Action  string // "add" or "remove"
	SysPath string
	Devnode string
}

// Monitor is the supervisor's hotplug source, abstracted so tests can
// substitute a fake instead of a real netlink socket.
type Monitor interface {
	Events() <-chan HotplugEvent
	Errors() <-chan error
	Close() error
}

// udevMonitor wraps github.com/pilebones/go-udev/netlink's kernel
// uevent socket, the Go substitute for libudev's
// udev_monitor_new_from_netlink + select loop.
type udevMonitor struct {
	conn   *netlink.UEventConn
	events chan HotplugEvent
	errs   chan error
	quit   chan struct{}
}

// NewUdevMonitor opens the kernel uevent netlink socket and starts
// translating "input" subsystem add/remove events.
func NewUdevMonitor() (Monitor, error) {
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return nil, ierrors.New(ierrors.KindIO, "connect udev netlink", err)
	}

	m := &udevMonitor{
		conn:   conn,
		events: make(chan HotplugEvent),
		errs:   make(chan error),
		quit:   make(chan struct{}),
	}

	raw := make(chan netlink.UEvent)
	rawErrs := make(chan error)
	matcher := &netlink.RuleDefinitions{Rules: []netlink.RuleDefinition{
		{Env: map[string]string{"SUBSYSTEM": "input"}},
	}}
	stop := conn.Monitor(raw, rawErrs, matcher)

	go func() {
		defer close(m.events)
		defer close(m.errs)
		for {
			select {
			case <-m.quit:
				stop <- struct{}{}
				return
			case uevent := <-raw:
				if ev, ok := translate(uevent); ok {
					m.events <- ev
				}
			case err := <-rawErrs:
				m.errs <- err
			}
		}
	}()

	return m, nil
}

func translate(uevent netlink.UEvent) (HotplugEvent, bool) {
	action := strings.ToLower(string(uevent.Action))
	if action != "add" && action != "remove" {
		return HotplugEvent{}, false
	}
	devname, ok := uevent.Env["DEVNAME"]
	if !ok {
		return HotplugEvent{}, false
	}
	return HotplugEvent{
		Action:  action,
		SysPath: uevent.KObj,
		Devnode: "/dev/" + devname,
	}, true
}

func (m *udevMonitor) Events() <-chan HotplugEvent { return m.events }
func (m *udevMonitor) Errors() <-chan error        { return m.errs }
func (m *udevMonitor) Close() error {
	close(m.quit)
	return m.conn.Close()
}
