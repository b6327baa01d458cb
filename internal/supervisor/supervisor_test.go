//go:build linux

package supervisor_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"syscall"
	"testing"
	"time"
	"unsafe"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/interception-tools/core/internal/supervisor"
)

const (
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
	testEvKey    = 0x01
	testKeyA     = 30
)

type testUinputUserDev struct {
	Name         [80]byte
	ID           [4]uint16
	FfEffectsMax uint32
	Absmax       [64]int32
	Absmin       [64]int32
	Absfuzz      [64]int32
	Absflat      [64]int32
}

func rawIoctl(fd, req, arg uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, arg)
	if errno != 0 {
		return errno
	}
	return nil
}

// spawnFakeKeyboard creates a transient virtual keyboard via /dev/uinput
// and returns its devnode and a teardown closure. Tests skip when
// /dev/uinput is unavailable (container without device access).
func spawnFakeKeyboard(t *testing.T, name string) (devnode string, destroy func()) {
	t.Helper()
	f, err := os.OpenFile("/dev/uinput", os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		t.Skipf("/dev/uinput unavailable: %v", err)
	}

	fd := f.Fd()
	require.NoError(t, rawIoctl(fd, uiSetEvBit, testEvKey))
	require.NoError(t, rawIoctl(fd, uiSetKeyBit, testKeyA))

	var dev testUinputUserDev
	copy(dev.Name[:], name)
	buf := (*[unsafe.Sizeof(dev)]byte)(unsafe.Pointer(&dev))[:]
	_, err = f.Write(buf)
	require.NoError(t, err)
	require.NoError(t, rawIoctl(fd, uiDevCreate, 0))

	node := findEventNodeUnder(t, "/sys/devices/virtual/input")
	if node == "" {
		rawIoctl(fd, uiDevDestroy, 0)
		f.Close()
		t.Skip("could not locate virtual event node")
	}

	return node, func() {
		rawIoctl(fd, uiDevDestroy, 0)
		f.Close()
	}
}

func findEventNodeUnder(t *testing.T, root string) string {
	t.Helper()
	entries, err := os.ReadDir(root)
	if err != nil {
		return ""
	}
	for _, e := range entries {
		sub, err := os.ReadDir(filepath.Join(root, e.Name()))
		if err != nil {
			continue
		}
		for _, s := range sub {
			if len(s.Name()) > 5 && s.Name()[:5] == "event" {
				return filepath.Join("/dev/input", s.Name())
			}
		}
	}
	return ""
}

// fakeMonitor is an in-memory Monitor a test can drive directly.
type fakeMonitor struct {
	events chan supervisor.HotplugEvent
	errs   chan error
}

func newFakeMonitor() *fakeMonitor {
	return &fakeMonitor{
		events: make(chan supervisor.HotplugEvent, 4),
		errs:   make(chan error, 1),
	}
}

func (m *fakeMonitor) Events() <-chan supervisor.HotplugEvent { return m.events }
func (m *fakeMonitor) Errors() <-chan error                   { return m.errs }
func (m *fakeMonitor) Close() error                           { close(m.events); return nil }

// TestSupervisorMatchSpawnTerminate is Scenario 5: a rule
// matching NAME: "Test.*" spawns a job writing $DEVNODE to a file on
// add; removal delivers SIGTERM to the job's process group.
func TestSupervisorMatchSpawnTerminate(t *testing.T) {
	devnode, destroy := spawnFakeKeyboard(t, "interception-supervisor-test")
	defer destroy()

	dir := t.TempDir()
	captured := filepath.Join(dir, "captured")
	pidfile := filepath.Join(dir, "pid")
	rule := supervisor.Rule{
		Jobs: []string{fmt.Sprintf("echo $DEVNODE > %s; echo $$ > %s; sleep 5", captured, pidfile)},
		Name: regexp.MustCompile("interception-supervisor-test"),
	}

	mon := newFakeMonitor()
	sv := supervisor.New([]supervisor.Rule{rule}, mon, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- sv.Run(ctx) }()

	mon.events <- supervisor.HotplugEvent{Action: "add", Devnode: devnode}

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(captured)
		return err == nil && len(data) > 0
	}, 3*time.Second, 50*time.Millisecond, "job did not write its captured file")
	require.Eventually(t, func() bool {
		_, err := os.Stat(pidfile)
		return err == nil
	}, 3*time.Second, 50*time.Millisecond, "job did not write its pid file")

	data, err := os.ReadFile(captured)
	require.NoError(t, err)
	require.Contains(t, string(data), devnode)

	pid := readPid(t, pidfile)
	require.True(t, pidAlive(pid), "job process should still be running before remove")

	mon.events <- supervisor.HotplugEvent{Action: "remove", Devnode: devnode}

	require.Eventually(t, func() bool {
		return !pidAlive(pid)
	}, 3*time.Second, 50*time.Millisecond, "job process was not terminated by SIGTERM")

	cancel()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("supervisor did not exit after context cancellation")
	}
}

func readPid(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var pid int
	_, err = fmt.Sscanf(string(data), "%d", &pid)
	require.NoError(t, err)
	return pid
}

func pidAlive(pid int) bool {
	return syscall.Kill(pid, 0) == nil
}
