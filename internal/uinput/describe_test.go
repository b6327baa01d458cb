//go:build linux

package uinput_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/interception-tools/core/internal/evdev"
	"github.com/interception-tools/core/internal/uinput"
)

// Describe/instantiate round-trip invariant: instantiate(describe(D))
// produces a virtual device whose description, for the intersection of
// supported-and-writable attributes, equals describe(D).
func TestDescribeInstantiateRoundTrip(t *testing.T) {
	if _, err := os.Stat("/dev/uinput"); err != nil {
		t.Skipf("skipping: /dev/uinput unavailable: %v", err)
	}

	max := int32(1023)
	source := &uinput.Description{
		Name:    "interception-roundtrip",
		BusType: "BUS_VIRTUAL",
		Events: map[string]*uinput.EventDesc{
			"EV_KEY": {Codes: []string{"KEY_A", "KEY_B", "KEY_ENTER"}},
			"EV_ABS": {Abs: map[string]*uinput.AbsDesc{
				"ABS_X": {Min: 0, Max: &max},
			}},
		},
	}

	vd, err := uinput.Instantiate(source)
	if err != nil {
		t.Skipf("skipping: could not instantiate virtual device: %v", err)
	}
	defer vd.Close()

	node := findEventNode(t)
	dev, err := evdev.Open(node)
	require.NoError(t, err)
	defer dev.Close()

	got := uinput.Describe(dev)
	require.Equal(t, "interception-roundtrip", got.Name)
	require.ElementsMatch(t, []string{"KEY_A", "KEY_B", "KEY_ENTER"}, got.Events["EV_KEY"].Codes)
	require.Equal(t, int32(1023), *got.Events["EV_ABS"].Abs["ABS_X"].Max)
	// VALUE was absent on the source axis so Instantiate primed it to
	// MAX.
	require.Equal(t, int32(1023), *got.Events["EV_ABS"].Abs["ABS_X"].Value)
}

func findEventNode(t *testing.T) string {
	entries, err := os.ReadDir("/sys/devices/virtual/input")
	require.NoError(t, err)
	var newest string
	for _, e := range entries {
		sub, err := os.ReadDir("/sys/devices/virtual/input/" + e.Name())
		if err != nil {
			continue
		}
		for _, s := range sub {
			if len(s.Name()) > 5 && s.Name()[:5] == "event" {
				newest = "/dev/input/" + s.Name()
			}
		}
	}
	if newest == "" {
		t.Skip("skipping: could not locate created virtual device node")
	}
	return newest
}
