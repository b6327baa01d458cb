package evdev

// Per-event-type code name tables (linux/input-event-codes.h). These are
// not exhaustive: a numeric value is always accepted where a name would
// fit, and unknown codes fall back to their decimal form, which
// EventCodeName/EventCodeNumber already do.
// The tables below cover the codes a keyboard/mouse/touchpad pipeline
// actually exercises.

const (
	KEY_RESERVED = 0
	KEY_ESC      = 1
	KEY_1        = 2
	KEY_2        = 3
	KEY_3        = 4
	KEY_4        = 5
	KEY_5        = 6
	KEY_6        = 7
	KEY_7        = 8
	KEY_8        = 9
	KEY_9        = 10
	KEY_0        = 11
	KEY_MINUS    = 12
	KEY_EQUAL    = 13
	KEY_BACKSPACE = 14
	KEY_TAB      = 15
	KEY_Q        = 16
	KEY_W        = 17
	KEY_E        = 18
	KEY_R        = 19
	KEY_T        = 20
	KEY_Y        = 21
	KEY_U        = 22
	KEY_I        = 23
	KEY_O        = 24
	KEY_P        = 25
	KEY_LEFTBRACE  = 26
	KEY_RIGHTBRACE = 27
	KEY_ENTER      = 28
	KEY_LEFTCTRL   = 29
	KEY_A = 30
	KEY_S = 31
	KEY_D = 32
	KEY_F = 33
	KEY_G = 34
	KEY_H = 35
	KEY_J = 36
	KEY_K = 37
	KEY_L = 38
	KEY_SEMICOLON  = 39
	KEY_APOSTROPHE = 40
	KEY_GRAVE      = 41
	KEY_LEFTSHIFT  = 42
	KEY_BACKSLASH  = 43
	KEY_Z = 44
	KEY_X = 45
	KEY_C = 46
	KEY_V = 47
	KEY_B = 48
	KEY_N = 49
	KEY_M = 50
	KEY_COMMA  = 51
	KEY_DOT    = 52
	KEY_SLASH  = 53
	KEY_RIGHTSHIFT = 54
	KEY_KPASTERISK = 55
	KEY_LEFTALT    = 56
	KEY_SPACE      = 57
	KEY_CAPSLOCK   = 58
	KEY_F1  = 59
	KEY_F2  = 60
	KEY_F3  = 61
	KEY_F4  = 62
	KEY_F5  = 63
	KEY_F6  = 64
	KEY_F7  = 65
	KEY_F8  = 66
	KEY_F9  = 67
	KEY_F10 = 68
	KEY_NUMLOCK    = 69
	KEY_SCROLLLOCK = 70
	KEY_F11 = 87
	KEY_F12 = 88
	KEY_RIGHTCTRL = 97
	KEY_RIGHTALT  = 100
	KEY_HOME  = 102
	KEY_UP    = 103
	KEY_PAGEUP = 104
	KEY_LEFT  = 105
	KEY_RIGHT = 106
	KEY_END   = 107
	KEY_DOWN  = 108
	KEY_PAGEDOWN = 109
	KEY_INSERT   = 110
	KEY_DELETE   = 111
	KEY_LEFTMETA  = 125
	KEY_RIGHTMETA = 126

	BTN_LEFT   = 0x110
	BTN_RIGHT  = 0x111
	BTN_MIDDLE = 0x112
	BTN_SIDE   = 0x113
	BTN_EXTRA  = 0x114
	BTN_TOUCH  = 0x14a

	REL_X      = 0x00
	REL_Y      = 0x01
	REL_Z      = 0x02
	REL_HWHEEL = 0x06
	REL_DIAL   = 0x07
	REL_WHEEL  = 0x08

	ABS_X        = 0x00
	ABS_Y        = 0x01
	ABS_Z        = 0x02
	ABS_RX       = 0x03
	ABS_RY       = 0x04
	ABS_RZ       = 0x05
	ABS_HAT0X    = 0x10
	ABS_HAT0Y    = 0x11
	ABS_PRESSURE = 0x18
	ABS_MT_SLOT       = 0x2f
	ABS_MT_POSITION_X = 0x35
	ABS_MT_POSITION_Y = 0x36
	ABS_MAX           = 0x3f

	MSC_SCAN = 0x04

	LED_NUML    = 0x00
	LED_CAPSL   = 0x01
	LED_SCROLLL = 0x02
	LED_COMPOSE = 0x03
	LED_KANA    = 0x04
)

var keyNames = map[int]string{
	KEY_ESC: "KEY_ESC", KEY_1: "KEY_1", KEY_2: "KEY_2", KEY_3: "KEY_3", KEY_4: "KEY_4",
	KEY_5: "KEY_5", KEY_6: "KEY_6", KEY_7: "KEY_7", KEY_8: "KEY_8", KEY_9: "KEY_9", KEY_0: "KEY_0",
	KEY_MINUS: "KEY_MINUS", KEY_EQUAL: "KEY_EQUAL", KEY_BACKSPACE: "KEY_BACKSPACE", KEY_TAB: "KEY_TAB",
	KEY_Q: "KEY_Q", KEY_W: "KEY_W", KEY_E: "KEY_E", KEY_R: "KEY_R", KEY_T: "KEY_T", KEY_Y: "KEY_Y",
	KEY_U: "KEY_U", KEY_I: "KEY_I", KEY_O: "KEY_O", KEY_P: "KEY_P",
	KEY_LEFTBRACE: "KEY_LEFTBRACE", KEY_RIGHTBRACE: "KEY_RIGHTBRACE", KEY_ENTER: "KEY_ENTER",
	KEY_LEFTCTRL: "KEY_LEFTCTRL",
	KEY_A: "KEY_A", KEY_S: "KEY_S", KEY_D: "KEY_D", KEY_F: "KEY_F", KEY_G: "KEY_G",
	KEY_H: "KEY_H", KEY_J: "KEY_J", KEY_K: "KEY_K", KEY_L: "KEY_L",
	KEY_SEMICOLON: "KEY_SEMICOLON", KEY_APOSTROPHE: "KEY_APOSTROPHE", KEY_GRAVE: "KEY_GRAVE",
	KEY_LEFTSHIFT: "KEY_LEFTSHIFT", KEY_BACKSLASH: "KEY_BACKSLASH",
	KEY_Z: "KEY_Z", KEY_X: "KEY_X", KEY_C: "KEY_C", KEY_V: "KEY_V", KEY_B: "KEY_B", KEY_N: "KEY_N", KEY_M: "KEY_M",
	KEY_COMMA: "KEY_COMMA", KEY_DOT: "KEY_DOT", KEY_SLASH: "KEY_SLASH", KEY_RIGHTSHIFT: "KEY_RIGHTSHIFT",
	KEY_KPASTERISK: "KEY_KPASTERISK", KEY_LEFTALT: "KEY_LEFTALT", KEY_SPACE: "KEY_SPACE", KEY_CAPSLOCK: "KEY_CAPSLOCK",
	KEY_F1: "KEY_F1", KEY_F2: "KEY_F2", KEY_F3: "KEY_F3", KEY_F4: "KEY_F4", KEY_F5: "KEY_F5",
	KEY_F6: "KEY_F6", KEY_F7: "KEY_F7", KEY_F8: "KEY_F8", KEY_F9: "KEY_F9", KEY_F10: "KEY_F10",
	KEY_NUMLOCK: "KEY_NUMLOCK", KEY_SCROLLLOCK: "KEY_SCROLLLOCK", KEY_F11: "KEY_F11", KEY_F12: "KEY_F12",
	KEY_RIGHTCTRL: "KEY_RIGHTCTRL", KEY_RIGHTALT: "KEY_RIGHTALT",
	KEY_HOME: "KEY_HOME", KEY_UP: "KEY_UP", KEY_PAGEUP: "KEY_PAGEUP", KEY_LEFT: "KEY_LEFT",
	KEY_RIGHT: "KEY_RIGHT", KEY_END: "KEY_END", KEY_DOWN: "KEY_DOWN", KEY_PAGEDOWN: "KEY_PAGEDOWN",
	KEY_INSERT: "KEY_INSERT", KEY_DELETE: "KEY_DELETE",
	KEY_LEFTMETA: "KEY_LEFTMETA", KEY_RIGHTMETA: "KEY_RIGHTMETA",
	BTN_LEFT: "BTN_LEFT", BTN_RIGHT: "BTN_RIGHT", BTN_MIDDLE: "BTN_MIDDLE",
	BTN_SIDE: "BTN_SIDE", BTN_EXTRA: "BTN_EXTRA", BTN_TOUCH: "BTN_TOUCH",
}

var relNames = map[int]string{
	REL_X: "REL_X", REL_Y: "REL_Y", REL_Z: "REL_Z",
	REL_HWHEEL: "REL_HWHEEL", REL_DIAL: "REL_DIAL", REL_WHEEL: "REL_WHEEL",
}

var absNames = map[int]string{
	ABS_X: "ABS_X", ABS_Y: "ABS_Y", ABS_Z: "ABS_Z",
	ABS_RX: "ABS_RX", ABS_RY: "ABS_RY", ABS_RZ: "ABS_RZ",
	ABS_HAT0X: "ABS_HAT0X", ABS_HAT0Y: "ABS_HAT0Y", ABS_PRESSURE: "ABS_PRESSURE",
	ABS_MT_SLOT: "ABS_MT_SLOT", ABS_MT_POSITION_X: "ABS_MT_POSITION_X", ABS_MT_POSITION_Y: "ABS_MT_POSITION_Y",
}

var mscNames = map[int]string{MSC_SCAN: "MSC_SCAN"}

var ledNames = map[int]string{
	LED_NUML: "LED_NUML", LED_CAPSL: "LED_CAPSL", LED_SCROLLL: "LED_SCROLLL",
	LED_COMPOSE: "LED_COMPOSE", LED_KANA: "LED_KANA",
}

var synNames = map[int]string{
	SYN_REPORT: "SYN_REPORT", SYN_CONFIG: "SYN_CONFIG",
	SYN_MT_REPORT: "SYN_MT_REPORT", SYN_DROPPED: "SYN_DROPPED",
}

var codeNames = map[int]map[int]string{
	EV_KEY: keyNames,
	EV_REL: relNames,
	EV_ABS: absNames,
	EV_MSC: mscNames,
	EV_LED: ledNames,
	EV_SYN: synNames,
}

var codeByName = map[int]map[string]int{
	EV_KEY: reverse(keyNames),
	EV_REL: reverse(relNames),
	EV_ABS: reverse(absNames),
	EV_MSC: reverse(mscNames),
	EV_LED: reverse(ledNames),
	EV_SYN: reverse(synNames),
}
