package mux_test

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/interception-tools/core/internal/ievent"
	"github.com/interception-tools/core/internal/mux"
)

func writeEvents(t *testing.T, n int) *bytes.Buffer {
	var buf bytes.Buffer
	for i := 0; i < n; i++ {
		require.NoError(t, ievent.WriteOne(&buf, ievent.Event{Value: int32(i)}))
	}
	return &buf
}

func drainN(t *testing.T, q *mux.Queue, n int) []ievent.Event {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	got := make([]ievent.Event, 0, n)
	for i := 0; i < n; i++ {
		ev, err := q.Receive(ctx)
		require.NoError(t, err)
		got = append(got, ev)
	}
	return got
}

// Scenario 3: create queues a and b (capacity 100). Feed 50
// events to an output-role process bound to {a,b}. Two input-role
// processes each drain one queue; each produces the same 50 events in
// order.
func TestFanOut(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, mux.RunCreate(dir, []mux.QueueSpec{{Name: "a", Capacity: 100}, {Name: "b", Capacity: 100}}))

	source := writeEvents(t, 50)
	require.NoError(t, mux.RunOutput(dir, []string{"a", "b"}, source))

	qa, err := mux.Open(dir, "a")
	require.NoError(t, err)
	defer qa.Close()
	qb, err := mux.Open(dir, "b")
	require.NoError(t, err)
	defer qb.Close()

	gotA := drainN(t, qa, 50)
	gotB := drainN(t, qb, 50)

	for i := 0; i < 50; i++ {
		require.Equal(t, int32(i), gotA[i].Value)
		require.Equal(t, int32(i), gotB[i].Value)
	}
}

type fakeRecorder struct {
	forwarded map[string]int
	dropped   map[string]int
	depth     map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{forwarded: map[string]int{}, dropped: map[string]int{}, depth: map[string]int{}}
}

func (f *fakeRecorder) Forwarded(queue string)            { f.forwarded[queue]++ }
func (f *fakeRecorder) Dropped(queue string)              { f.dropped[queue]++ }
func (f *fakeRecorder) QueueDepth(queue string, depth int) { f.depth[queue] = depth }

func TestRunOutputMeteredReportsForwardedAndDepth(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, mux.RunCreate(dir, []mux.QueueSpec{{Name: "a", Capacity: 100}}))

	rec := newFakeRecorder()
	source := writeEvents(t, 5)
	require.NoError(t, mux.RunOutputMetered(dir, []string{"a"}, source, rec))

	require.Equal(t, 5, rec.forwarded["a"])
	require.Equal(t, 0, rec.dropped["a"])
	require.Equal(t, 5, rec.depth["a"])
}

func TestRunOutputMeteredReportsDropped(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, mux.RunCreate(dir, []mux.QueueSpec{{Name: "c", Capacity: 4}}))

	rec := newFakeRecorder()
	source := writeEvents(t, 5)
	err := mux.RunOutputMetered(dir, []string{"c"}, source, rec)
	require.Error(t, err)
	require.Equal(t, 1, rec.dropped["c"])
}

func TestOutputBackpressureIsFatal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, mux.RunCreate(dir, []mux.QueueSpec{{Name: "c", Capacity: 4}}))

	source := writeEvents(t, 5)
	err := mux.RunOutput(dir, []string{"c"}, source)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Backpressure")
}

// Scenario 4: switch with default group {out1} and
// selector-keyed group {out2}. 10 events go to out1, a selector record
// flips to out2, 10 more events go to out2.
func TestSwitch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, mux.RunCreate(dir, []mux.QueueSpec{
		{Name: "out1", Capacity: 100},
		{Name: "out2", Capacity: 100},
		{Name: "sel", Capacity: 10},
	}))

	r, w := io.Pipe()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	spec := mux.SwitchSpec{
		DefaultGroup: []string{"out1"},
		Groups:       []mux.SwitchGroup{{Selector: "sel", Members: []string{"out2"}}},
	}

	done := make(chan error, 1)
	go func() { done <- mux.RunSwitch(ctx, dir, spec, r) }()

	for i := 0; i < 10; i++ {
		require.NoError(t, ievent.WriteOne(w, ievent.Event{Value: int32(i)}))
	}

	selQ, err := mux.Open(dir, "sel")
	require.NoError(t, err)
	ok, err := selQ.TrySend(ievent.Event{})
	require.NoError(t, err)
	require.True(t, ok)
	selQ.Close()

	// Give the selector-listener goroutine a moment to observe the
	// activity record and flip `current` before more events arrive.
	time.Sleep(300 * time.Millisecond)

	for i := 10; i < 20; i++ {
		require.NoError(t, ievent.WriteOne(w, ievent.Event{Value: int32(i)}))
	}
	w.Close()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("RunSwitch did not exit after stdin EOF")
	}

	out1, err := mux.Open(dir, "out1")
	require.NoError(t, err)
	defer out1.Close()
	out2, err := mux.Open(dir, "out2")
	require.NoError(t, err)
	defer out2.Close()

	got1 := drainN(t, out1, 10)
	got2 := drainN(t, out2, 10)
	for i := 0; i < 10; i++ {
		require.Equal(t, int32(i), got1[i].Value)
		require.Equal(t, int32(i+10), got2[i].Value)
	}
}
