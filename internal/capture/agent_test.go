package capture_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/interception-tools/core/internal/capture"
	"github.com/interception-tools/core/internal/ievent"
)

func writeAll(t *testing.T, buf *bytes.Buffer, evs ...ievent.Event) {
	for _, ev := range evs {
		require.NoError(t, ievent.WriteOne(buf, ev))
	}
}

func readAll(t *testing.T, buf *bytes.Buffer) []ievent.Event {
	var got []ievent.Event
	for {
		ev, err := ievent.ReadOne(buf)
		if err != nil {
			break
		}
		got = append(got, ev)
	}
	return got
}

func TestRunForwardsOrdinaryEvents(t *testing.T) {
	var in, out bytes.Buffer
	writeAll(t, &in,
		ievent.Event{Type: 1, Code: 30, Value: 1},
		ievent.Event{Type: ievent.EvSyn, Code: ievent.SynReport, Value: 0},
	)

	a := capture.New(nil)
	require.NoError(t, a.Run(&in, &out))

	got := readAll(t, &out)
	require.Len(t, got, 2)
	require.Equal(t, uint16(30), got[0].Code)
	require.Equal(t, uint16(ievent.SynReport), got[1].Code)
}

func TestRunSwallowsResyncBurst(t *testing.T) {
	var in, out bytes.Buffer
	writeAll(t, &in,
		ievent.Event{Type: 1, Code: 30, Value: 1}, // ordinary key down, before drop
		ievent.Event{Type: ievent.EvSyn, Code: ievent.SynDropped, Value: 0},
		ievent.Event{Type: 1, Code: 30, Value: 0},   // synthetic resync state, must be swallowed
		ievent.Event{Type: 3, Code: 0, Value: 512},  // synthetic resync state, must be swallowed
		ievent.Event{Type: ievent.EvSyn, Code: ievent.SynReport, Value: 0}, // burst terminator, swallowed
		ievent.Event{Type: 1, Code: 31, Value: 1}, // normal input resumes
		ievent.Event{Type: ievent.EvSyn, Code: ievent.SynReport, Value: 0},
	)

	a := capture.New(nil)
	require.NoError(t, a.Run(&in, &out))

	got := readAll(t, &out)
	require.Len(t, got, 3)
	require.Equal(t, uint16(30), got[0].Code)
	require.Equal(t, uint16(31), got[1].Code)
	require.Equal(t, uint16(ievent.SynReport), got[2].Code)
}

func TestRunCleanEOFReturnsNil(t *testing.T) {
	var in, out bytes.Buffer
	a := capture.New(nil)
	require.NoError(t, a.Run(&in, &out))
	require.Equal(t, 0, out.Len())
}
