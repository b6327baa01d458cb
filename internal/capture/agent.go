// Package capture implements the capture agent: exclusive acquisition
// of a real input device, a blocking read loop, and SYN_DROPPED
// resynchronization handling.
package capture

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/interception-tools/core/internal/evdev"
	"github.com/interception-tools/core/internal/ierrors"
	"github.com/interception-tools/core/internal/ievent"
)

var defaultLogger = zerolog.New(os.Stderr).With().Str("subsystem", "capture").Logger()

// Agent runs the capture read loop for one device.
type Agent struct {
	log *zerolog.Logger
}

// New builds an Agent. A nil logger falls back to a stderr logger tagged
// with subsystem=capture.
func New(log *zerolog.Logger) *Agent {
	if log == nil {
		log = &defaultLogger
	}
	return &Agent{log: log}
}

// Capture opens devnode, optionally grabs it exclusively, and runs the
// read loop until the device disappears, ctx is cancelled, or an
// unrecoverable read error occurs.
func (a *Agent) Capture(ctx context.Context, devnode string, grab bool, sink io.Writer) error {
	dev, err := evdev.Open(devnode)
	if err != nil {
		return err
	}
	defer dev.Close()

	if grab {
		if err := dev.Grab(); err != nil {
			return err
		}
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			dev.File.Close()
		case <-done:
		}
	}()

	a.log.Info().Str("devnode", devnode).Bool("grab", grab).Msg("capture started")
	err = a.Run(dev.File, sink)
	a.log.Info().Str("devnode", devnode).Err(err).Msg("capture stopped")
	return err
}

// Run drives the read/resync/forward loop against an already-open event
// source. It is the unit tested independently of any real device: tests
// feed it a pipe of synthetic records.
//
// On SYN_DROPPED the loop enters a resync state and swallows every event
// (including the terminating SYN_REPORT) until the burst ends; those
// records are kernel state reconciliation, not user input, and must
// never reach the sink.
func (a *Agent) Run(source io.Reader, sink io.Writer) error {
	resyncing := false

	for {
		ev, err := ievent.ReadOne(source)
		if err != nil {
			if errors.Is(err, ierrors.ErrEndOfStream) {
				return nil
			}
			return err
		}

		if ev.IsSync() {
			switch ev.Code {
			case ievent.SynDropped:
				resyncing = true
				continue
			case ievent.SynReport:
				if resyncing {
					resyncing = false
					continue
				}
			}
		}
		if resyncing {
			continue
		}

		if err := ievent.WriteOne(sink, ev); err != nil {
			return err
		}
	}
}
