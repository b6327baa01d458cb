package evdev

import "strconv"

// Event type numbers (linux/input-event-codes.h).
const (
	EV_SYN = 0x00
	EV_KEY = 0x01
	EV_REL = 0x02
	EV_ABS = 0x03
	EV_MSC = 0x04
	EV_SW  = 0x05
	EV_LED = 0x11
	EV_SND = 0x12
	EV_REP = 0x14
	EV_FF  = 0x15
	EV_PWR = 0x16
	EV_FF_STATUS = 0x17
	EV_MAX = 0x1f

	SYN_REPORT    = 0
	SYN_CONFIG    = 1
	SYN_MT_REPORT = 2
	SYN_DROPPED   = 3

	REP_DELAY  = 0x00
	REP_PERIOD = 0x01

	KEY_MAX = 0x2ff
)

// input property bits (INPUT_PROP_*).
const (
	InputPropPointer       = 0x00
	InputPropDirect        = 0x01
	InputPropButtonpad     = 0x02
	InputPropSemiMT        = 0x03
	InputPropTopButtonPad  = 0x04
	InputPropPointingStick = 0x05
	InputPropAccelerometer = 0x06
	InputPropMax           = 0x1f
)

var propertyNames = map[int]string{
	InputPropPointer:       "INPUT_PROP_POINTER",
	InputPropDirect:        "INPUT_PROP_DIRECT",
	InputPropButtonpad:     "INPUT_PROP_BUTTONPAD",
	InputPropSemiMT:        "INPUT_PROP_SEMI_MT",
	InputPropTopButtonPad:  "INPUT_PROP_TOPBUTTONPAD",
	InputPropPointingStick: "INPUT_PROP_POINTING_STICK",
	InputPropAccelerometer: "INPUT_PROP_ACCELEROMETER",
}

var propertyByName = reverse(propertyNames)

var eventTypeNames = map[int]string{
	EV_SYN: "EV_SYN", EV_KEY: "EV_KEY", EV_REL: "EV_REL", EV_ABS: "EV_ABS",
	EV_MSC: "EV_MSC", EV_SW: "EV_SW", EV_LED: "EV_LED", EV_SND: "EV_SND",
	EV_REP: "EV_REP", EV_FF: "EV_FF", EV_PWR: "EV_PWR", EV_FF_STATUS: "EV_FF_STATUS",
}

var eventTypeByName = reverse(eventTypeNames)

// Bus types.
const (
	BUS_PCI           = 0x01
	BUS_ISAPNP        = 0x02
	BUS_USB           = 0x03
	BUS_HIL           = 0x04
	BUS_BLUETOOTH     = 0x05
	BUS_VIRTUAL       = 0x06
	BUS_ISA           = 0x10
	BUS_I8042         = 0x11
	BUS_XTKBD         = 0x12
	BUS_RS232         = 0x13
	BUS_GAMEPORT      = 0x14
	BUS_PARPORT       = 0x15
	BUS_AMIGA         = 0x16
	BUS_ADB           = 0x17
	BUS_I2C           = 0x18
	BUS_HOST          = 0x19
	BUS_GSC           = 0x1A
	BUS_ATARI         = 0x1B
	BUS_SPI           = 0x1C
	BUS_RMI           = 0x1D
	BUS_CEC           = 0x1E
	BUS_INTEL_ISHTP   = 0x1F
)

var busNames = map[int]string{
	BUS_PCI: "BUS_PCI", BUS_ISAPNP: "BUS_ISAPNP", BUS_USB: "BUS_USB",
	BUS_HIL: "BUS_HIL", BUS_BLUETOOTH: "BUS_BLUETOOTH", BUS_VIRTUAL: "BUS_VIRTUAL",
	BUS_ISA: "BUS_ISA", BUS_I8042: "BUS_I8042", BUS_XTKBD: "BUS_XTKBD",
	BUS_RS232: "BUS_RS232", BUS_GAMEPORT: "BUS_GAMEPORT", BUS_PARPORT: "BUS_PARPORT",
	BUS_AMIGA: "BUS_AMIGA", BUS_ADB: "BUS_ADB", BUS_I2C: "BUS_I2C",
	BUS_HOST: "BUS_HOST", BUS_GSC: "BUS_GSC", BUS_ATARI: "BUS_ATARI",
	BUS_SPI: "BUS_SPI", BUS_RMI: "BUS_RMI", BUS_CEC: "BUS_CEC",
	BUS_INTEL_ISHTP: "BUS_INTEL_ISHTP",
}

var busByName = reverse(busNames)

// BusName returns the canonical BUS_* symbolic name for a bus type
// number, or its decimal string if unknown.
func BusName(bustype uint16) string {
	if name, ok := busNames[int(bustype)]; ok {
		return name
	}
	return strconv.Itoa(int(bustype))
}

// BusNumber resolves a symbolic BUS_* name (or numeric string) to its
// bus type number. ok is false if the name is unrecognized.
func BusNumber(name string) (uint16, bool) {
	if n, ok := busByName[name]; ok {
		return uint16(n), true
	}
	if n, err := strconv.Atoi(name); err == nil {
		return uint16(n), true
	}
	return 0, false
}

// EventTypeName returns the canonical EV_* name, or the decimal number
// as a string if unknown.
func EventTypeName(evType int) string {
	if name, ok := eventTypeNames[evType]; ok {
		return name
	}
	return strconv.Itoa(evType)
}

// EventTypeNumber resolves a symbolic EV_* name (or numeric string).
func EventTypeNumber(name string) (int, bool) {
	if n, ok := eventTypeByName[name]; ok {
		return n, true
	}
	if n, err := strconv.Atoi(name); err == nil {
		return n, true
	}
	return 0, false
}

// PropertyName returns the symbolic INPUT_PROP_* name, or the decimal
// number as a string if unknown.
func PropertyName(prop int) string {
	if name, ok := propertyNames[prop]; ok {
		return name
	}
	return strconv.Itoa(prop)
}

// PropertyNumber resolves a symbolic INPUT_PROP_* name (or numeric
// string). ok is false if unrecognized, in which case a merge should
// simply drop the entry rather than fail.
func PropertyNumber(name string) (int, bool) {
	if n, ok := propertyByName[name]; ok {
		return n, true
	}
	if n, err := strconv.Atoi(name); err == nil {
		return n, true
	}
	return 0, false
}

// EventCodeName returns the canonical name for (type, code) from the
// per-type code table, or the decimal number if the type/code pair is
// not in the table.
func EventCodeName(evType, code int) string {
	if table, ok := codeNames[evType]; ok {
		if name, ok := table[code]; ok {
			return name
		}
	}
	return strconv.Itoa(code)
}

// EventCodeNumber resolves a symbolic code name (e.g. "KEY_A") against a
// specific event type's table, or parses it as a bare number.
func EventCodeNumber(evType int, name string) (int, bool) {
	if table, ok := codeByName[evType]; ok {
		if n, ok := table[name]; ok {
			return n, true
		}
	}
	if n, err := strconv.Atoi(name); err == nil {
		return n, true
	}
	return 0, false
}

func reverse(m map[int]string) map[string]int {
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}
