//go:build linux

package uinput

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Legacy /dev/uinput ioctl requests, from linux/uinput.h. This is the
// older UI_SET_*BIT + uinput_user_dev API (not the newer UI_DEV_SETUP /
// UI_ABS_SETUP one), matching the shape the kernel has supported since
// the original uinput facility and the pattern shown consistently
// across openstadia-go-uinput__uinputdefs.go and
// whisthq-whist__uinputdefs.go.
const (
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
	uiSetRelBit  = 0x40045566
	uiSetAbsBit  = 0x40045567
	uiSetPropBit = 0x4004556e

	uinputMaxNameSize = 80
	absSize           = 64
)

type uinputID struct {
	BusType uint16
	Vendor  uint16
	Product uint16
	Version uint16
}

// uinputUserDev mirrors struct uinput_user_dev (the legacy API layout).
type uinputUserDev struct {
	Name       [uinputMaxNameSize]byte
	ID         uinputID
	EffectsMax uint32
	Absmax     [absSize]int32
	Absmin     [absSize]int32
	Absfuzz    [absSize]int32
	Absflat    [absSize]int32
}

type rawInputEvent struct {
	Time  syscall.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

func ioctl(fd uintptr, req uintptr, arg uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, arg)
	if errno != 0 {
		return errno
	}
	return nil
}

func ioctlPtr(fd uintptr, req uintptr, arg unsafe.Pointer) error {
	return ioctl(fd, req, uintptr(arg))
}
