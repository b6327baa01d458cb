//go:build linux

// Package evdev implements the device handle: opening an input device
// node, querying its metadata and capability map via evdev ioctls, and
// grabbing it exclusively. It is shared by the capture agent
// (B), the uinput replayer's Describe operation (D) and the supervisor's
// rule matcher (E).
package evdev

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// evdev ioctl request codes, from linux/input.h. Go has no macro
// preprocessor so the EVIOCGBIT/EVIOCGABS family (parameterized by
// event type / axis number) is computed with the same _IOC encoding the
// kernel headers use.
const (
	iocNone  = 0
	iocWrite = 1
	iocRead  = 2

	iocNrBits   = 8
	iocTypeBits = 8
	iocSizeBits = 14
	iocDirBits  = 2

	iocNrShift   = 0
	iocTypeShift = iocNrShift + iocNrBits
	iocSizeShift = iocTypeShift + iocTypeBits
	iocDirShift  = iocSizeShift + iocSizeBits

	evIOCType = 'E'
)

func ioc(dir, nr, size uintptr) uintptr {
	return (dir << iocDirShift) | (evIOCType << iocTypeShift) | (nr << iocNrShift) | (size << iocSizeShift)
}

// Fixed-size ioctls.
var (
	EVIOCGVERSION = ioc(iocRead, 0x01, 4)
	EVIOCGID      = ioc(iocRead, 0x02, 8) // struct input_id
	EVIOCGREP     = ioc(iocRead, 0x03, 8) // 2x unsigned int
	EVIOCSREP     = ioc(iocWrite, 0x03, 8)
	EVIOCGNAME    = func(size uintptr) uintptr { return ioc(iocRead, 0x06, size) }
	EVIOCGPHYS    = func(size uintptr) uintptr { return ioc(iocRead, 0x07, size) }
	EVIOCGUNIQ    = func(size uintptr) uintptr { return ioc(iocRead, 0x08, size) }
	EVIOCGPROP    = func(size uintptr) uintptr { return ioc(iocRead, 0x09, size) }
	EVIOCGRAB     = ioc(iocWrite, 0x90, 4)
)

// EVIOCGBIT(type, len) fetches the bitmask of supported codes for a
// given event type (type 0 fetches supported event types themselves).
func EVIOCGBIT(evType int, length uintptr) uintptr {
	return ioc(iocRead, uintptr(0x20+evType), length)
}

// EVIOCGABS(abs) fetches the struct input_absinfo for an absolute axis.
func EVIOCGABS(abs int) uintptr {
	return ioc(iocRead, uintptr(0x40+abs), uintptr(unsafe.Sizeof(AbsInfo{})))
}

// AbsInfo mirrors struct input_absinfo.
type AbsInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

// InputID mirrors struct input_id.
type InputID struct {
	BusType uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

func ioctl(fd uintptr, req uintptr, arg unsafe.Pointer) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, uintptr(arg))
	if errno != 0 {
		return errno
	}
	return nil
}
