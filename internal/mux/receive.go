package mux

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/interception-tools/core/internal/ievent"
)

// pollFallback bounds how long Receive ever waits between TryReceive
// attempts even without an fsnotify wakeup, guarding against a missed
// or coalesced event.
const pollFallback = 200 * time.Millisecond

// Receive blocks until a record is available and pops it. It wakes on a
// fsnotify write to the queue file rather than busy-polling.
func (q *Queue) Receive(ctx context.Context) (ievent.Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err == nil {
		defer watcher.Close()
		_ = watcher.Add(q.Path())
	}

	for {
		ev, ok, err := q.TryReceive()
		if err != nil {
			return ievent.Event{}, err
		}
		if ok {
			return ev, nil
		}

		if watcher == nil {
			select {
			case <-ctx.Done():
				return ievent.Event{}, ctx.Err()
			case <-time.After(pollFallback):
			}
			continue
		}

		select {
		case <-ctx.Done():
			return ievent.Event{}, ctx.Err()
		case <-watcher.Events:
		case <-watcher.Errors:
		case <-time.After(pollFallback):
		}
	}
}
