//go:build linux

package uinput

import (
	"os"
	"unsafe"

	"github.com/interception-tools/core/internal/evdev"
	"github.com/interception-tools/core/internal/ierrors"
	"github.com/interception-tools/core/internal/ievent"
)

// VirtualDevice is a created /dev/uinput device; once created it lives
// until Close, which the replayer calls on exit.
type VirtualDevice struct {
	file *os.File
}

// Instantiate builds a virtual device from a (possibly already-merged)
// description. Callers that have several descriptions should pass
// Merge(descs) first.
func Instantiate(desc *Description) (*VirtualDevice, error) {
	f, err := os.OpenFile("/dev/uinput", os.O_WRONLY, 0)
	if err != nil {
		return nil, ierrors.New(ierrors.KindIO, "open /dev/uinput", err)
	}

	var dev uinputUserDev
	copy(dev.Name[:], desc.Name)
	if bus, ok := evdev.BusNumber(desc.BusType); ok {
		dev.ID.BusType = bus
	}
	dev.ID.Vendor = desc.Vendor
	dev.ID.Product = desc.Product
	dev.ID.Version = uint16(desc.DriverVersion)

	if err := setEvBits(f, desc, &dev); err != nil {
		f.Close()
		return nil, err
	}
	if err := setPropBits(f, desc); err != nil {
		f.Close()
		return nil, err
	}

	buf := (*[unsafe.Sizeof(dev)]byte)(unsafe.Pointer(&dev))[:]
	if _, err := f.Write(buf); err != nil {
		f.Close()
		return nil, ierrors.New(ierrors.KindIO, "write uinput_user_dev", err)
	}
	if err := ioctl(f.Fd(), uiDevCreate, 0); err != nil {
		f.Close()
		return nil, ierrors.New(ierrors.KindIO, "UI_DEV_CREATE", err)
	}

	vd := &VirtualDevice{file: f}
	if err := vd.primeAbsValues(desc); err != nil {
		vd.Close()
		return nil, err
	}
	return vd, nil
}

// primeAbsValues establishes each EV_ABS axis's initial current value.
// The legacy uinput_user_dev struct carries no "current value" field —
// absmax/absmin/absfuzz/absflat only — so the starting value is
// established the same way any other input event is: by writing it.
func (v *VirtualDevice) primeAbsValues(desc *Description) error {
	ev, ok := desc.Events["EV_ABS"]
	if !ok {
		return nil
	}
	wrote := false
	for axisName, axis := range ev.Abs {
		code, ok := evdev.EventCodeNumber(evdev.EV_ABS, axisName)
		if !ok {
			continue
		}
		if err := v.Inject(evdev.EV_ABS, uint16(code), absValueOrDefault(axis)); err != nil {
			return err
		}
		wrote = true
	}
	if wrote {
		return v.Inject(evdev.EV_SYN, evdev.SYN_REPORT, 0)
	}
	return nil
}

func setEvBits(f *os.File, desc *Description, dev *uinputUserDev) error {
	for typeName, ev := range desc.Events {
		evType, ok := evdev.EventTypeNumber(typeName)
		if !ok {
			continue
		}
		if err := ioctl(f.Fd(), uiSetEvBit, uintptr(evType)); err != nil {
			return ierrors.New(ierrors.KindIO, "UI_SET_EVBIT", err)
		}

		switch evType {
		case evdev.EV_REP:
			// EV_REP has no per-code bitmap. Only the type bit is set:
			// the description's REP_DELAY/REP_PERIOD are not applied to
			// the created device.

		case evdev.EV_ABS:
			for axisName, axis := range ev.Abs {
				code, ok := evdev.EventCodeNumber(evdev.EV_ABS, axisName)
				if !ok || code >= absSize {
					continue
				}
				if err := ioctl(f.Fd(), uiSetAbsBit, uintptr(code)); err != nil {
					return ierrors.New(ierrors.KindIO, "UI_SET_ABSBIT", err)
				}
				if axis.Max != nil {
					dev.Absmax[code] = *axis.Max
				}
				dev.Absmin[code] = axis.Min
				if axis.Fuzz != nil {
					dev.Absfuzz[code] = *axis.Fuzz
				}
				if axis.Flat != nil {
					dev.Absflat[code] = *axis.Flat
				}
			}

		default:
			bitReq, ok := setBitRequest(evType)
			if !ok {
				// No code-bit ioctl wired for this type: only the type
				// bit (UI_SET_EVBIT above) is set, and the codes listed
				// under it (e.g. EV_MSC, EV_LED, EV_SW) are not enabled.
				continue
			}
			for _, codeName := range ev.Codes {
				code, ok := evdev.EventCodeNumber(evType, codeName)
				if !ok {
					continue
				}
				if err := ioctl(f.Fd(), bitReq, uintptr(code)); err != nil {
					return ierrors.New(ierrors.KindIO, "UI_SET_*BIT", err)
				}
			}
		}
	}
	return nil
}

// setBitRequest returns the UI_SET_*BIT ioctl used to enable individual
// codes of an event type. Only EV_KEY and EV_REL are handled; every
// other type reports ok=false.
func setBitRequest(evType int) (uintptr, bool) {
	switch evType {
	case evdev.EV_KEY:
		return uiSetKeyBit, true
	case evdev.EV_REL:
		return uiSetRelBit, true
	default:
		return 0, false
	}
}

func setPropBits(f *os.File, desc *Description) error {
	for _, name := range desc.Properties {
		prop, ok := evdev.PropertyNumber(name)
		if !ok {
			continue
		}
		if err := ioctl(f.Fd(), uiSetPropBit, uintptr(prop)); err != nil {
			return ierrors.New(ierrors.KindIO, "UI_SET_PROPBIT", err)
		}
	}
	return nil
}

// absValueOrDefault applies the EV_ABS default: if VALUE is absent,
// default to MAX when present else MIN.
func absValueOrDefault(axis *AbsDesc) int32 {
	if axis.Value != nil {
		return *axis.Value
	}
	if axis.Max != nil {
		return *axis.Max
	}
	return axis.Min
}

// Inject writes one (type, code, value) triple into the virtual device.
func (v *VirtualDevice) Inject(evType, code uint16, value int32) error {
	ev := rawInputEvent{Type: evType, Code: code, Value: value}
	buf := (*[unsafe.Sizeof(ev)]byte)(unsafe.Pointer(&ev))[:]
	if _, err := v.file.Write(buf); err != nil {
		return ierrors.New(ierrors.KindIO, "write input event", err)
	}
	return nil
}

// InjectEvent replays a codec-decoded event record into the device.
func (v *VirtualDevice) InjectEvent(ev ievent.Event) error {
	return v.Inject(ev.Type, ev.Code, ev.Value)
}

// Close destroys the uinput device and closes its handle.
func (v *VirtualDevice) Close() error {
	_ = ioctl(v.file.Fd(), uiDevDestroy, 0)
	return v.file.Close()
}
