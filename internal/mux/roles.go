package mux

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	"github.com/interception-tools/core/internal/ierrors"
	"github.com/interception-tools/core/internal/ievent"
)

// Recorder receives per-event accounting from the output and switch
// roles. It is a small local interface, not internal/metrics itself, so
// mux stays free of a dependency on the metrics package; cmd/mux adapts
// a *metrics.Collectors to it.
type Recorder interface {
	Forwarded(queue string)
	Dropped(queue string)
	QueueDepth(queue string, depth int)
}

type noopRecorder struct{}

func (noopRecorder) Forwarded(string)       {}
func (noopRecorder) Dropped(string)         {}
func (noopRecorder) QueueDepth(string, int) {}

// reportDepth reads q's current depth and forwards it to rec, best
// effort: a Depth error here would duplicate one TrySend will already
// have surfaced, so it's swallowed.
func reportDepth(rec Recorder, q *Queue) {
	if depth, err := q.Depth(); err == nil {
		rec.QueueDepth(q.Name, depth)
	}
}

// QueueSpec is one (name, capacity) pair for the create role.
type QueueSpec struct {
	Name     string
	Capacity int
}

// RunCreate implements the create role: for each spec, remove any prior
// queue of that name and create a fresh one. Idempotent from the
// caller's perspective.
func RunCreate(dir string, specs []QueueSpec) error {
	for _, s := range specs {
		capacity := s.Capacity
		if capacity == 0 {
			capacity = 100 // default queue capacity
		}
		q, err := Create(dir, s.Name, capacity)
		if err != nil {
			return err
		}
		q.Close()
	}
	return nil
}

// RunInput implements the input role: blocking-receive from one named
// queue, emitting each record to sink.
func RunInput(ctx context.Context, dir, name string, sink io.Writer) error {
	q, err := Open(dir, name)
	if err != nil {
		return err
	}
	defer q.Close()

	for {
		ev, err := q.Receive(ctx)
		if err != nil {
			return err
		}
		if err := ievent.WriteOne(sink, ev); err != nil {
			return err
		}
	}
}

// RunOutput implements the output (fan-out) role: read one record from
// source, non-blocking-send to each named queue in list order; any full
// queue is fatal. EOF on source exits cleanly.
func RunOutput(dir string, names []string, source io.Reader) error {
	return runOutput(dir, names, source, noopRecorder{})
}

// RunOutputMetered is RunOutput with per-queue forwarded/dropped
// counters reported to rec.
func RunOutputMetered(dir string, names []string, source io.Reader, rec Recorder) error {
	return runOutput(dir, names, source, rec)
}

func runOutput(dir string, names []string, source io.Reader, rec Recorder) error {
	queues := make([]*Queue, 0, len(names))
	for _, name := range names {
		q, err := Open(dir, name)
		if err != nil {
			return err
		}
		defer q.Close()
		queues = append(queues, q)
	}

	for {
		ev, err := ievent.ReadOne(source)
		if err != nil {
			if errors.Is(err, ierrors.ErrEndOfStream) {
				return nil
			}
			return err
		}

		for _, q := range queues {
			ok, err := q.TrySend(ev)
			if err != nil {
				return err
			}
			if !ok {
				rec.Dropped(q.Name)
				return ierrors.New(ierrors.KindBackpressure, "queue full: "+q.Name, nil)
			}
			rec.Forwarded(q.Name)
			reportDepth(rec, q)
		}
	}
}

// SwitchSpec configures the switch role: a default group plus one
// selector-keyed group per entry.
type SwitchSpec struct {
	DefaultGroup []string
	Groups       []SwitchGroup
}

// SwitchGroup pairs a selector queue name with the group of member
// queue names it activates.
type SwitchGroup struct {
	Selector string
	Members  []string
}

// RunSwitch implements the switch role: one selector-listener
// goroutine per non-default group updates a shared atomic "current"
// group index; the main loop reads from source and non-blocking-sends
// each event to every queue in the currently selected group.
func RunSwitch(ctx context.Context, dir string, spec SwitchSpec, source io.Reader) error {
	return runSwitch(ctx, dir, spec, source, noopRecorder{})
}

// RunSwitchMetered is RunSwitch with per-queue forwarded/dropped
// counters reported to rec.
func RunSwitchMetered(ctx context.Context, dir string, spec SwitchSpec, source io.Reader, rec Recorder) error {
	return runSwitch(ctx, dir, spec, source, rec)
}

func runSwitch(ctx context.Context, dir string, spec SwitchSpec, source io.Reader, rec Recorder) error {
	groups := make([][]string, 0, len(spec.Groups)+1)
	groups = append(groups, spec.DefaultGroup)
	for _, g := range spec.Groups {
		groups = append(groups, g.Members)
	}

	opened := make(map[string]*Queue)
	open := func(name string) (*Queue, error) {
		if q, ok := opened[name]; ok {
			return q, nil
		}
		q, err := Open(dir, name)
		if err != nil {
			return nil, err
		}
		opened[name] = q
		return q, nil
	}
	defer func() {
		for _, q := range opened {
			q.Close()
		}
	}()

	groupQueues := make([][]*Queue, len(groups))
	for i, names := range groups {
		for _, name := range names {
			q, err := open(name)
			if err != nil {
				return err
			}
			groupQueues[i] = append(groupQueues[i], q)
		}
	}

	var current atomic.Int32

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for i, g := range spec.Groups {
		selQueue, err := open(g.Selector)
		if err != nil {
			return err
		}
		groupIndex := int32(i + 1)
		go func(sel *Queue, idx int32) {
			for {
				_, err := sel.Receive(ctx)
				if err != nil {
					return
				}
				current.Store(idx)
			}
		}(selQueue, groupIndex)
	}

	for {
		ev, err := ievent.ReadOne(source)
		if err != nil {
			if errors.Is(err, ierrors.ErrEndOfStream) {
				return nil
			}
			return err
		}

		cur := current.Load()
		for _, q := range groupQueues[cur] {
			ok, err := q.TrySend(ev)
			if err != nil {
				return err
			}
			if !ok {
				rec.Dropped(q.Name)
				return ierrors.New(ierrors.KindBackpressure, "queue full: "+q.Name, nil)
			}
			rec.Forwarded(q.Name)
			reportDepth(rec, q)
		}
	}
}
