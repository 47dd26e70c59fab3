//go:build !darwin

package hotkey

import "strconv"

// Windows virtual-key codes.
var rawcodes = func() map[string][]uint16 {
	m := map[string][]uint16{
		"ctrl":  {162, 163}, // VK_LCONTROL, VK_RCONTROL
		"alt":   {164, 165}, // VK_LMENU, VK_RMENU
		"shift": {160, 161}, // VK_LSHIFT, VK_RSHIFT
		"cmd":   {91, 92},   // VK_LWIN, VK_RWIN

		"space": {32}, "enter": {13}, "return": {13}, "esc": {27}, "escape": {27},
		"tab": {9}, "backspace": {8}, "delete": {46}, "del": {46},
		"insert": {45}, "ins": {45}, "home": {36}, "end": {35},
		"pageup": {33}, "pgup": {33}, "pagedown": {34}, "pgdn": {34},
		"left": {37}, "up": {38}, "right": {39}, "down": {40},
	}
	// A-Z are 0x41-0x5A, 0-9 are 0x30-0x39, F1-F24 are 0x70-0x87.
	for c := 'a'; c <= 'z'; c++ {
		m[string(c)] = []uint16{uint16(65 + c - 'a')}
	}
	for c := '0'; c <= '9'; c++ {
		m[string(c)] = []uint16{uint16(48 + c - '0')}
	}
	for n := 1; n <= 24; n++ {
		m["f"+strconv.Itoa(n)] = []uint16{uint16(111 + n)}
	}
	return m
}()

