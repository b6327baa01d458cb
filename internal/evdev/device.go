package evdev

import (
	"bytes"
	"os"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/interception-tools/core/internal/ierrors"
)

const maxNameSize = 256

// AbsAxis is one EV_ABS axis's current capability info.
type AbsAxis struct {
	Code       int
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

// RepeatInfo mirrors EV_REP's delay/period pair.
type RepeatInfo struct {
	Delay  uint32
	Period uint32
}

// Device is an opened input node and its queried metadata/capability map
//.
type Device struct {
	Path string
	File *os.File

	Name string
	Phys string
	Uniq string

	BusType uint16
	Vendor  uint16
	Product uint16
	Version uint16

	EvdevVersion int

	Properties []int
	// EventTypes lists every event type the device advertises as
	// supported (including types like EV_REP that carry no per-code
	// bitmap of their own).
	EventTypes []int
	// Codes holds, for every supported event type, the set of supported
	// codes (EVIOCGBIT per type). EV_ABS entries are also present here
	// with the raw code list; richer per-axis info lives in Abs.
	Codes map[int][]int
	Abs   map[int]AbsAxis
	Rep   RepeatInfo

	grabbed bool
}

// Open opens an input device node and queries its full metadata and
// capability map in one call.
func Open(path string) (*Device, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ierrors.New(ierrors.KindIO, "open device node", err)
	}

	dev := &Device{Path: path, File: f}
	if err := dev.queryInfo(); err != nil {
		f.Close()
		return nil, err
	}
	if err := dev.queryCapabilities(); err != nil {
		f.Close()
		return nil, err
	}
	return dev, nil
}

func (d *Device) fd() uintptr { return d.File.Fd() }

func (d *Device) queryInfo() error {
	var id InputID
	if err := ioctl(d.fd(), EVIOCGID, unsafe.Pointer(&id)); err != nil {
		return ierrors.New(ierrors.KindIO, "EVIOCGID", err)
	}
	d.BusType, d.Vendor, d.Product, d.Version = id.BusType, id.Vendor, id.Product, id.Version

	var name [maxNameSize]byte
	if err := ioctl(d.fd(), EVIOCGNAME(maxNameSize), unsafe.Pointer(&name)); err != nil {
		return ierrors.New(ierrors.KindIO, "EVIOCGNAME", err)
	}
	d.Name = cString(name[:])

	// Physical topology and unique id are best-effort: not every device
	// node populates them.
	var phys, uniq [maxNameSize]byte
	if ioctl(d.fd(), EVIOCGPHYS(maxNameSize), unsafe.Pointer(&phys)) == nil {
		d.Phys = cString(phys[:])
	}
	if ioctl(d.fd(), EVIOCGUNIQ(maxNameSize), unsafe.Pointer(&uniq)) == nil {
		d.Uniq = cString(uniq[:])
	}

	var version int32
	if err := ioctl(d.fd(), EVIOCGVERSION, unsafe.Pointer(&version)); err != nil {
		return ierrors.New(ierrors.KindIO, "EVIOCGVERSION", err)
	}
	d.EvdevVersion = int(version)

	var rep [2]uint32
	if ioctl(d.fd(), EVIOCGREP, unsafe.Pointer(&rep)) == nil {
		d.Rep = RepeatInfo{Delay: rep[0], Period: rep[1]}
	}

	var props [(InputPropMax + 7) / 8]byte
	if ioctl(d.fd(), EVIOCGPROP(uintptr(len(props))), unsafe.Pointer(&props)) == nil {
		for bit := 0; bit <= InputPropMax; bit++ {
			if props[bit/8]&(1<<uint(bit%8)) != 0 {
				d.Properties = append(d.Properties, bit)
			}
		}
	}

	return nil
}

func (d *Device) queryCapabilities() error {
	d.Codes = make(map[int][]int)
	d.Abs = make(map[int]AbsAxis)

	var evBits [(EV_MAX + 7) / 8]byte
	if err := ioctl(d.fd(), EVIOCGBIT(0, uintptr(len(evBits))), unsafe.Pointer(&evBits)); err != nil {
		return ierrors.New(ierrors.KindIO, "EVIOCGBIT(0)", err)
	}

	for evType := 0; evType <= EV_MAX; evType++ {
		if evBits[evType/8]&(1<<uint(evType%8)) == 0 {
			continue
		}
		d.EventTypes = append(d.EventTypes, evType)

		var codeBits [(KEY_MAX + 7) / 8]byte
		if err := ioctl(d.fd(), EVIOCGBIT(evType, uintptr(len(codeBits))), unsafe.Pointer(&codeBits)); err != nil {
			if err == syscall.EINVAL {
				// Some types (e.g. EV_REP) report supported in evBits but
				// reject a per-code bitmap query; the type still counts
				// as supported.
				continue
			}
			return ierrors.New(ierrors.KindIO, "EVIOCGBIT(type)", err)
		}

		var codes []int
		maxCode := KEY_MAX
		if evType == EV_ABS {
			maxCode = ABS_MAX
		}
		for code := 0; code <= maxCode; code++ {
			if codeBits[code/8]&(1<<uint(code%8)) != 0 {
				codes = append(codes, code)
			}
		}
		if len(codes) == 0 {
			continue
		}
		d.Codes[evType] = codes

		if evType == EV_ABS {
			for _, code := range codes {
				var info AbsInfo
				if err := ioctl(d.fd(), EVIOCGABS(code), unsafe.Pointer(&info)); err != nil {
					continue
				}
				d.Abs[code] = AbsAxis{
					Code: code, Value: info.Value, Minimum: info.Minimum,
					Maximum: info.Maximum, Fuzz: info.Fuzz, Flat: info.Flat,
					Resolution: info.Resolution,
				}
			}
		}
	}

	return nil
}

// Grab takes exclusive access to the device. A
// conflicting grab held by another process surfaces as KindDeviceBusy.
func (d *Device) Grab() error {
	one := int32(1)
	if err := ioctl(d.fd(), EVIOCGRAB, unsafe.Pointer(&one)); err != nil {
		if err == unix.EBUSY {
			return ierrors.New(ierrors.KindDeviceBusy, "device already grabbed", err)
		}
		return ierrors.New(ierrors.KindIO, "EVIOCGRAB", err)
	}
	d.grabbed = true
	return nil
}

// Ungrab releases a grab previously taken with Grab. It is a no-op if
// the device was never grabbed.
func (d *Device) Ungrab() error {
	if !d.grabbed {
		return nil
	}
	zero := int32(0)
	if err := ioctl(d.fd(), EVIOCGRAB, unsafe.Pointer(&zero)); err != nil {
		return ierrors.New(ierrors.KindIO, "EVIOCGRAB release", err)
	}
	d.grabbed = false
	return nil
}

// Close ungrabs (if grabbed) and closes the underlying file.
func (d *Device) Close() error {
	_ = d.Ungrab()
	return d.File.Close()
}

// HasProperty reports whether the device advertises the given
// INPUT_PROP_* bit.
func (d *Device) HasProperty(prop int) bool {
	for _, p := range d.Properties {
		if p == prop {
			return true
		}
	}
	return false
}

// HasEventType reports whether the device advertises support for evType.
func (d *Device) HasEventType(evType int) bool {
	for _, t := range d.EventTypes {
		if t == evType {
			return true
		}
	}
	return false
}

// SupportsCode reports whether the device's capability map lists code
// under evType.
func (d *Device) SupportsCode(evType, code int) bool {
	for _, c := range d.Codes[evType] {
		if c == code {
			return true
		}
	}
	return false
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
