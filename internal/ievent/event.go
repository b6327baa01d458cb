// Package ievent implements the fixed-size binary event record that
// crosses every component boundary in the interception pipeline
// (capture -> mux -> uinput). It mirrors the host kernel's
// struct input_event layout and performs no endian conversion: the wire
// format is whatever the host kernel produces.
package ievent

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"syscall"

	"github.com/interception-tools/core/internal/ierrors"
)

// Event is the atomic unit exchanged between every component. Its layout
// matches struct input_event on 64-bit Linux: a struct timeval (two
// int64 fields), followed by type, code (uint16) and value (int32), with
// no implicit padding between the fields when read/written sequentially.
type Event struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// Size is sizeof(struct input_event) on the host: 24 bytes.
const Size = 24

// Well-known EV_SYN codes relevant to resync handling and description.
const (
	EvSyn = 0x00

	SynReport    = 0
	SynConfig    = 1
	SynMTReport  = 2
	SynDropped   = 3
)

// ReadOne reads exactly one event record from source. It returns
// ierrors.ErrEndOfStream on a clean EOF with zero bytes read, and
// ierrors.ErrShortRead (wrapped as a KindIO error) if EOF arrives after a
// partial record — partial records are never silently truncated.
func ReadOne(source io.Reader) (Event, error) {
	var buf [Size]byte
	n, err := io.ReadFull(source, buf[:])
	switch {
	case err == io.EOF && n == 0:
		return Event{}, ierrors.ErrEndOfStream
	case err == io.ErrUnexpectedEOF || (err == io.EOF && n > 0):
		return Event{}, ierrors.New(ierrors.KindIO, "short read", ierrors.ErrShortRead)
	case err != nil:
		return Event{}, ierrors.New(ierrors.KindIO, "read event record", err)
	}

	var ev Event
	if err := binary.Read(bytes.NewReader(buf[:]), binary.NativeEndian, &ev); err != nil {
		return Event{}, ierrors.New(ierrors.KindIO, "decode event record", err)
	}
	return ev, nil
}

// WriteOne writes a single event record to sink. Callers are responsible
// for ensuring sink is unbuffered or explicitly flushed afterwards — the
// codec itself performs one Write per record and nothing more.
func WriteOne(sink io.Writer, ev Event) error {
	if err := binary.Write(sink, binary.NativeEndian, &ev); err != nil {
		return ierrors.New(ierrors.KindIO, "write event record", err)
	}
	return nil
}

// IsSync reports whether ev is an EV_SYN event; callers inspect ev.Code
// for the specific SYN_* code.
func (ev Event) IsSync() bool { return ev.Type == EvSyn }

func (ev Event) String() string {
	return fmt.Sprintf("Event{type=%d code=%d value=%d}", ev.Type, ev.Code, ev.Value)
}
