//go:build darwin

package hotkey

// macOS virtual key codes (Carbon kVK_*).
var rawcodes = map[string][]uint16{
	"cmd":   {55, 54},
	"shift": {56, 60},
	"alt":   {58, 61},
	"ctrl":  {59, 62},

	"a": {0}, "s": {1}, "d": {2}, "f": {3}, "h": {4}, "g": {5}, "z": {6}, "x": {7},
	"c": {8}, "v": {9}, "b": {11}, "q": {12}, "w": {13}, "e": {14}, "r": {15},
	"y": {16}, "t": {17}, "o": {31}, "u": {32}, "i": {34}, "p": {35}, "l": {37},
	"j": {38}, "k": {40}, "n": {45}, "m": {46},

	"1": {18}, "2": {19}, "3": {20}, "4": {21}, "5": {23}, "6": {22}, "7": {26},
	"8": {28}, "9": {25}, "0": {29},

	"f1": {122}, "f2": {120}, "f3": {99}, "f4": {118}, "f5": {96}, "f6": {97},
	"f7": {98}, "f8": {100}, "f9": {101}, "f10": {109}, "f11": {103}, "f12": {111},

	"enter": {36}, "return": {36}, "tab": {48}, "space": {49},
	"backspace": {51}, "esc": {53}, "escape": {53},
	"left": {123}, "right": {124}, "down": {125}, "up": {126},
}
