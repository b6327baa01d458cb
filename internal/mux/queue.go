// Package mux implements the mux fabric: named persistent event queues
// with create/input/output/switch roles, fan-out and an activity-driven
// switch.
//
// The original source used boost::interprocess::message_queue, a
// SysV/POSIX-backed named queue with no direct Go equivalent in this
// codebase's dependency surface. Queues here are files under a shared
// directory instead, guarded by an flock-based exclusive lock for every
// mutation (golang.org/x/sys/unix, already a dependency), with fsnotify
// watching the queue file so a blocking Receive wakes promptly instead
// of busy-polling.
package mux

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/interception-tools/core/internal/ierrors"
	"github.com/interception-tools/core/internal/ievent"
)

const headerSize = 32

// header is the fixed-size ring buffer control block at offset 0 of a
// queue file.
type header struct {
	Capacity   uint32
	RecordSize uint32
	Head       uint64
	Tail       uint64
	Count      uint32
	_          uint32 // padding
}

// Queue is a named persistent, bounded FIFO of event records.
type Queue struct {
	Name string
	file *os.File
}

func queuePath(dir, name string) string {
	return filepath.Join(dir, name)
}

// Create removes any prior queue of this name and creates a fresh one
// with the given capacity, mirroring the create role's idempotent
// contract.
func Create(dir, name string, capacity int) (*Queue, error) {
	if err := Remove(dir, name); err != nil {
		return nil, err
	}

	path := queuePath(dir, name)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, ierrors.New(ierrors.KindIO, "create queue", err)
	}

	q := &Queue{Name: name, file: f}
	h := header{Capacity: uint32(capacity), RecordSize: ievent.Size}
	if err := q.writeHeader(h); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.Truncate(int64(headerSize + capacity*ievent.Size)); err != nil {
		f.Close()
		return nil, ierrors.New(ierrors.KindIO, "truncate queue", err)
	}
	return q, nil
}

// Open opens an existing queue by name.
func Open(dir, name string) (*Queue, error) {
	f, err := os.OpenFile(queuePath(dir, name), os.O_RDWR, 0o600)
	if err != nil {
		return nil, ierrors.New(ierrors.KindIO, "open queue", err)
	}
	q := &Queue{Name: name, file: f}
	h, err := q.readHeader()
	if err != nil {
		f.Close()
		return nil, err
	}
	if h.RecordSize != ievent.Size {
		f.Close()
		return nil, ierrors.New(ierrors.KindProtocol, "queue record size mismatch", nil)
	}
	return q, nil
}

// Remove deletes a queue's backing file. It is not an error for the
// queue to not already exist.
func Remove(dir, name string) error {
	if err := os.Remove(queuePath(dir, name)); err != nil && !os.IsNotExist(err) {
		return ierrors.New(ierrors.KindIO, "remove queue", err)
	}
	return nil
}

// Path returns the queue's backing file path, used by callers that need
// to fsnotify.Watch it.
func (q *Queue) Path() string { return q.file.Name() }

// Depth returns the number of records currently queued.
func (q *Queue) Depth() (int, error) {
	h, err := q.readHeader()
	if err != nil {
		return 0, err
	}
	return int(h.Count), nil
}

func (q *Queue) Close() error { return q.file.Close() }

func (q *Queue) lock() error {
	if err := unix.Flock(int(q.file.Fd()), unix.LOCK_EX); err != nil {
		return ierrors.New(ierrors.KindIO, "flock queue", err)
	}
	return nil
}

func (q *Queue) unlock() error {
	return unix.Flock(int(q.file.Fd()), unix.LOCK_UN)
}

func (q *Queue) readHeader() (header, error) {
	var buf [headerSize]byte
	if _, err := q.file.ReadAt(buf[:], 0); err != nil {
		return header{}, ierrors.New(ierrors.KindIO, "read queue header", err)
	}
	var h header
	h.Capacity = binary.LittleEndian.Uint32(buf[0:4])
	h.RecordSize = binary.LittleEndian.Uint32(buf[4:8])
	h.Head = binary.LittleEndian.Uint64(buf[8:16])
	h.Tail = binary.LittleEndian.Uint64(buf[16:24])
	h.Count = binary.LittleEndian.Uint32(buf[24:28])
	return h, nil
}

func (q *Queue) writeHeader(h header) error {
	var buf [headerSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], h.Capacity)
	binary.LittleEndian.PutUint32(buf[4:8], h.RecordSize)
	binary.LittleEndian.PutUint64(buf[8:16], h.Head)
	binary.LittleEndian.PutUint64(buf[16:24], h.Tail)
	binary.LittleEndian.PutUint32(buf[24:28], h.Count)
	if _, err := q.file.WriteAt(buf[:], 0); err != nil {
		return ierrors.New(ierrors.KindIO, "write queue header", err)
	}
	return nil
}

func recordOffset(slot uint64) int64 {
	return int64(headerSize) + int64(slot)*int64(ievent.Size)
}

// TrySend attempts a non-blocking send of ev. ok is false if the queue
// is full.
func (q *Queue) TrySend(ev ievent.Event) (ok bool, err error) {
	if err := q.lock(); err != nil {
		return false, err
	}
	defer q.unlock()

	h, err := q.readHeader()
	if err != nil {
		return false, err
	}
	if h.Count >= h.Capacity {
		return false, nil
	}

	var buf bytes.Buffer
	if err := ievent.WriteOne(&buf, ev); err != nil {
		return false, err
	}
	if _, err := q.file.WriteAt(buf.Bytes(), recordOffset(h.Tail)); err != nil {
		return false, ierrors.New(ierrors.KindIO, "write queue record", err)
	}

	h.Tail = (h.Tail + 1) % uint64(h.Capacity)
	h.Count++
	if err := q.writeHeader(h); err != nil {
		return false, err
	}
	return true, nil
}

// TryReceive attempts a non-blocking pop. ok is false if the queue is
// empty.
func (q *Queue) TryReceive() (ev ievent.Event, ok bool, err error) {
	if err := q.lock(); err != nil {
		return ievent.Event{}, false, err
	}
	defer q.unlock()

	h, err := q.readHeader()
	if err != nil {
		return ievent.Event{}, false, err
	}
	if h.Count == 0 {
		return ievent.Event{}, false, nil
	}

	var buf [ievent.Size]byte
	if _, err := q.file.ReadAt(buf[:], recordOffset(h.Head)); err != nil {
		return ievent.Event{}, false, ierrors.New(ierrors.KindIO, "read queue record", err)
	}
	ev, err = ievent.ReadOne(bytes.NewReader(buf[:]))
	if err != nil {
		return ievent.Event{}, false, err
	}

	h.Head = (h.Head + 1) % uint64(h.Capacity)
	h.Count--
	if err := q.writeHeader(h); err != nil {
		return ievent.Event{}, false, err
	}
	return ev, true, nil
}
