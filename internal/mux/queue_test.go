package mux_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/interception-tools/core/internal/ievent"
	"github.com/interception-tools/core/internal/mux"
)

func TestCreateIsIdempotent(t *testing.T) {
	dir := t.TempDir()

	q1, err := mux.Create(dir, "a", 4)
	require.NoError(t, err)
	ok, err := q1.TrySend(ievent.Event{Value: 1})
	require.NoError(t, err)
	require.True(t, ok)
	q1.Close()

	q2, err := mux.Create(dir, "a", 4)
	require.NoError(t, err)
	defer q2.Close()

	_, ok, err = q2.TryReceive()
	require.NoError(t, err)
	require.False(t, ok, "re-create must discard the prior queue's contents")
}

func TestSendReceiveFIFO(t *testing.T) {
	dir := t.TempDir()
	q, err := mux.Create(dir, "fifo", 10)
	require.NoError(t, err)
	defer q.Close()

	for i := 0; i < 5; i++ {
		ok, err := q.TrySend(ievent.Event{Value: int32(i)})
		require.NoError(t, err)
		require.True(t, ok)
	}

	for i := 0; i < 5; i++ {
		ev, ok, err := q.TryReceive()
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, int32(i), ev.Value)
	}

	_, ok, err := q.TryReceive()
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSendFullQueueBackpressure(t *testing.T) {
	dir := t.TempDir()
	q, err := mux.Create(dir, "small", 4)
	require.NoError(t, err)
	defer q.Close()

	for i := 0; i < 4; i++ {
		ok, err := q.TrySend(ievent.Event{Value: int32(i)})
		require.NoError(t, err)
		require.True(t, ok)
	}

	ok, err := q.TrySend(ievent.Event{Value: 99})
	require.NoError(t, err)
	require.False(t, ok, "5th send into a capacity-4 queue must report full")
}

func TestDepthTracksSendsAndReceives(t *testing.T) {
	dir := t.TempDir()
	q, err := mux.Create(dir, "depth", 10)
	require.NoError(t, err)
	defer q.Close()

	depth, err := q.Depth()
	require.NoError(t, err)
	require.Equal(t, 0, depth)

	for i := 0; i < 3; i++ {
		ok, err := q.TrySend(ievent.Event{Value: int32(i)})
		require.NoError(t, err)
		require.True(t, ok)
	}
	depth, err = q.Depth()
	require.NoError(t, err)
	require.Equal(t, 3, depth)

	_, ok, err := q.TryReceive()
	require.NoError(t, err)
	require.True(t, ok)
	depth, err = q.Depth()
	require.NoError(t, err)
	require.Equal(t, 2, depth)
}
