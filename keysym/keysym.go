// Copyright 2026 The XKB-Go Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package keysym implements the keysym catalog: name<->code lookup
// for the subset of X11 keysyms this module supports, plus the
// Unicode keysym range and the small case-folding table the state
// machine uses to implement Caps Lock (spec §4.6, §4.7).
//
// The static table shape (a plain Go name->code map built once)
// mirrors the style of the teacher's per-terminal key tables (see
// gdamore-tcell's key.go and terminfo database registration), and the
// case-fold table is the Go equivalent of libxkbcommon's small
// hand-written upper/lower keysym pair table.
package keysym

import "strings"

// Keysym is a 32-bit logical symbol identifier.
type Keysym uint32

// NoSymbol denotes the absence of a keysym in a level.
const NoSymbol Keysym = 0

// Unicode keysyms occupy 0x01000100..0x0110FFFF, each encoding
// 0x01000000 + codepoint for codepoints above the Latin-1 range that
// already has dedicated keysyms.
const (
	unicodeOffset Keysym = 0x01000000
	unicodeMin    Keysym = 0x01000100
	unicodeMax    Keysym = 0x0110FFFF
)

// core is the subset of the X11 keysym table this module knows by
// name. It intentionally covers the keysyms exercised by common
// evdev/pc104 layouts: letters, digits, punctuation, the modifier and
// function keysyms, and the keypad. Keysyms outside this table can
// still be produced via the Unicode range.
var core = map[string]Keysym{
	"NoSymbol": NoSymbol,
	"VoidSymbol": 0xFFFFFF,

	// TTY functions
	"BackSpace": 0xFF08,
	"Tab":       0xFF09,
	"Linefeed":  0xFF0A,
	"Clear":     0xFF0B,
	"Return":    0xFF0D,
	"Pause":     0xFF13,
	"Scroll_Lock": 0xFF14,
	"Sys_Req":    0xFF15,
	"Escape":     0xFF1B,
	"Delete":     0xFFFF,

	// Cursor control
	"Home":      0xFF50,
	"Left":      0xFF51,
	"Up":        0xFF52,
	"Right":     0xFF53,
	"Down":      0xFF54,
	"Prior":     0xFF55,
	"Page_Up":   0xFF55,
	"Next":      0xFF56,
	"Page_Down": 0xFF56,
	"End":       0xFF57,
	"Begin":     0xFF58,

	// Misc functions
	"Select":       0xFF60,
	"Print":        0xFF61,
	"Execute":      0xFF62,
	"Insert":       0xFF63,
	"Undo":         0xFF65,
	"Redo":         0xFF66,
	"Menu":         0xFF67,
	"Find":         0xFF68,
	"Cancel":       0xFF69,
	"Help":         0xFF6A,
	"Break":        0xFF6B,
	"Mode_switch":  0xFF7E,
	"Num_Lock":     0xFF7F,

	// Keypad
	"KP_Space":    0xFF80,
	"KP_Tab":      0xFF89,
	"KP_Enter":    0xFF8D,
	"KP_F1":       0xFF91,
	"KP_F2":       0xFF92,
	"KP_F3":       0xFF93,
	"KP_F4":       0xFF94,
	"KP_Home":     0xFF95,
	"KP_Left":     0xFF96,
	"KP_Up":       0xFF97,
	"KP_Right":    0xFF98,
	"KP_Down":     0xFF99,
	"KP_Prior":    0xFF9A,
	"KP_Page_Up":  0xFF9A,
	"KP_Next":     0xFF9B,
	"KP_Page_Down": 0xFF9B,
	"KP_End":      0xFF9C,
	"KP_Begin":    0xFF9D,
	"KP_Insert":   0xFF9E,
	"KP_Delete":   0xFF9F,
	"KP_Equal":    0xFFBD,
	"KP_Multiply": 0xFFAA,
	"KP_Add":      0xFFAB,
	"KP_Separator": 0xFFAC,
	"KP_Subtract": 0xFFAD,
	"KP_Decimal":  0xFFAE,
	"KP_Divide":   0xFFAF,
	"KP_0":        0xFFB0,
	"KP_1":        0xFFB1,
	"KP_2":        0xFFB2,
	"KP_3":        0xFFB3,
	"KP_4":        0xFFB4,
	"KP_5":        0xFFB5,
	"KP_6":        0xFFB6,
	"KP_7":        0xFFB7,
	"KP_8":        0xFFB8,
	"KP_9":        0xFFB9,

	// Function keys
	"F1": 0xFFBE, "F2": 0xFFBF, "F3": 0xFFC0, "F4": 0xFFC1,
	"F5": 0xFFC2, "F6": 0xFFC3, "F7": 0xFFC4, "F8": 0xFFC5,
	"F9": 0xFFC6, "F10": 0xFFC7, "F11": 0xFFC8, "F12": 0xFFC9,
	"F13": 0xFFCA, "F14": 0xFFCB, "F15": 0xFFCC, "F16": 0xFFCD,
	"F17": 0xFFCE, "F18": 0xFFCF, "F19": 0xFFD0, "F20": 0xFFD1,
	"F21": 0xFFD2, "F22": 0xFFD3, "F23": 0xFFD4, "F24": 0xFFD5,

	// Modifiers
	"Shift_L":    0xFFE1,
	"Shift_R":    0xFFE2,
	"Control_L":  0xFFE3,
	"Control_R":  0xFFE4,
	"Caps_Lock":  0xFFE5,
	"Shift_Lock": 0xFFE6,
	"Meta_L":     0xFFE7,
	"Meta_R":     0xFFE8,
	"Alt_L":      0xFFE9,
	"Alt_R":      0xFFEA,
	"Super_L":    0xFFEB,
	"Super_R":    0xFFEC,
	"Hyper_L":    0xFFED,
	"Hyper_R":    0xFFEE,
	"ISO_Level3_Shift": 0xFE03,
	"ISO_Level3_Latch": 0xFE04,
	"ISO_Level3_Lock":  0xFE05,
	"ISO_Next_Group":   0xFE08,
	"ISO_Prev_Group":   0xFE0A,

	// Latin-1
	"space": 0x0020, "exclam": 0x0021, "quotedbl": 0x0022,
	"numbersign": 0x0023, "dollar": 0x0024, "percent": 0x0025,
	"ampersand": 0x0026, "apostrophe": 0x0027, "parenleft": 0x0028,
	"parenright": 0x0029, "asterisk": 0x002a, "plus": 0x002b,
	"comma": 0x002c, "minus": 0x002d, "period": 0x002e, "slash": 0x002f,
	"0": 0x0030, "1": 0x0031, "2": 0x0032, "3": 0x0033, "4": 0x0034,
	"5": 0x0035, "6": 0x0036, "7": 0x0037, "8": 0x0038, "9": 0x0039,
	"colon": 0x003a, "semicolon": 0x003b, "less": 0x003c, "equal": 0x003d,
	"greater": 0x003e, "question": 0x003f, "at": 0x0040,

	"A": 0x0041, "B": 0x0042, "C": 0x0043, "D": 0x0044, "E": 0x0045,
	"F": 0x0046, "G": 0x0047, "H": 0x0048, "I": 0x0049, "J": 0x004a,
	"K": 0x004b, "L": 0x004c, "M": 0x004d, "N": 0x004e, "O": 0x004f,
	"P": 0x0050, "Q": 0x0051, "R": 0x0052, "S": 0x0053, "T": 0x0054,
	"U": 0x0055, "V": 0x0056, "W": 0x0057, "X": 0x0058, "Y": 0x0059,
	"Z": 0x005a,

	"bracketleft": 0x005b, "backslash": 0x005c, "bracketright": 0x005d,
	"asciicircum": 0x005e, "underscore": 0x005f, "grave": 0x0060,

	"a": 0x0061, "b": 0x0062, "c": 0x0063, "d": 0x0064, "e": 0x0065,
	"f": 0x0066, "g": 0x0067, "h": 0x0068, "i": 0x0069, "j": 0x006a,
	"k": 0x006b, "l": 0x006c, "m": 0x006d, "n": 0x006e, "o": 0x006f,
	"p": 0x0070, "q": 0x0071, "r": 0x0072, "s": 0x0073, "t": 0x0074,
	"u": 0x0075, "v": 0x0076, "w": 0x0077, "x": 0x0078, "y": 0x0079,
	"z": 0x007a,

	"braceleft": 0x007b, "bar": 0x007c, "braceright": 0x007d,
	"asciitilde": 0x007e,

	"adiaeresis": 0x00e4, "Adiaeresis": 0x00c4,
	"odiaeresis": 0x00f6, "Odiaeresis": 0x00d6,
	"udiaeresis": 0x00fc, "Udiaeresis": 0x00dc,
	"ssharp":     0x00df,
}

var byCode map[Keysym]string

func init() {
	byCode = make(map[Keysym]string, len(core))
	for name, code := range core {
		// When several names alias one code (Prior/Page_Up,
		// Next/Page_Down), prefer the shorter, more traditional name
		// for the canonical reverse lookup, matching the original
		// compiler's preference for the first table entry.
		if _, ok := byCode[code]; !ok || preferredName(name, byCode[code]) {
			byCode[code] = name
		}
	}
}

func preferredName(a, b string) bool {
	preferred := map[string]bool{"Prior": true, "Next": true}
	return preferred[a] && !preferred[b]
}

// FromName resolves a keysym name to its code. The reserved aliases
// Any/NoSymbol and None/VoidSymbol are matched case-insensitively;
// every other name is matched case-sensitively, per spec §4.6.
func FromName(name string) (Keysym, bool) {
	switch strings.ToLower(name) {
	case "any", "nosymbol":
		return NoSymbol, true
	case "none", "voidsymbol":
		return core["VoidSymbol"], true
	}

	if code, ok := core[name]; ok {
		return code, true
	}

	if u, ok := unicodeFromName(name); ok {
		return u, true
	}

	return 0, false
}

// unicodeFromName parses the "U+XXXX" / "UXXXX" spellings XKB files
// use for keysyms outside the named table.
func unicodeFromName(name string) (Keysym, bool) {
	s := name
	switch {
	case strings.HasPrefix(s, "U+"):
		s = s[2:]
	case strings.HasPrefix(s, "U") && len(s) > 1:
		s = s[1:]
	default:
		return 0, false
	}
	var cp uint32
	for _, r := range s {
		var d uint32
		switch {
		case r >= '0' && r <= '9':
			d = uint32(r - '0')
		case r >= 'A' && r <= 'F':
			d = uint32(r-'A') + 10
		case r >= 'a' && r <= 'f':
			d = uint32(r-'a') + 10
		default:
			return 0, false
		}
		cp = cp*16 + d
	}
	return FromRune(rune(cp)), true
}

// GetName returns the canonical name for a keysym code, or "" if the
// code is not known to the catalog (Unicode keysyms always resolve).
func GetName(k Keysym) string {
	if k == NoSymbol {
		return "NoSymbol"
	}
	if name, ok := byCode[k]; ok {
		return name
	}
	if r, ok := ToRune(k); ok {
		return "U" + runeHex(r)
	}
	return ""
}

func runeHex(r rune) string {
	const hex = "0123456789ABCDEF"
	if r == 0 {
		return "0000"
	}
	var buf [8]byte
	n := len(buf)
	v := uint32(r)
	for v > 0 {
		n--
		buf[n] = hex[v&0xf]
		v >>= 4
	}
	for len(buf)-n < 4 {
		n--
		buf[n] = '0'
	}
	return string(buf[n:])
}

// FromRune maps a Unicode codepoint to its keysym, preferring the
// dedicated Latin-1 keysym range (which is numerically identical to
// the codepoint for U+0020..U+00FF) before falling back to the
// 0x01000000+codepoint convention.
func FromRune(r rune) Keysym {
	if r >= 0x20 && r <= 0xff {
		return Keysym(r)
	}
	return unicodeOffset + Keysym(r)
}

// ToRune maps a keysym back to a Unicode codepoint, if it denotes
// one: either a Latin-1 keysym or one in the Unicode keysym range.
func ToRune(k Keysym) (rune, bool) {
	if k >= 0x20 && k <= 0xff {
		return rune(k), true
	}
	if k >= unicodeMin && k <= unicodeMax {
		return rune(k - unicodeOffset), true
	}
	// the rest of Latin-1 supplement block used directly by X11
	if name, ok := byCode[k]; ok {
		if len(name) == 1 {
			return rune(name[0]), true
		}
	}
	return 0, false
}

// caseFold holds the small set of keysym pairs the state machine uses
// to implement Caps Lock: lower -> upper.
var caseFold = map[Keysym]Keysym{}

func init() {
	for lower := Keysym('a'); lower <= 'z'; lower++ {
		caseFold[lower] = lower - ('a' - 'A')
	}
	caseFold[core["adiaeresis"]] = core["Adiaeresis"]
	caseFold[core["odiaeresis"]] = core["Odiaeresis"]
	caseFold[core["udiaeresis"]] = core["Udiaeresis"]
}

// ToUpper returns the upper-case keysym for k if the catalog has a
// case pairing for it (per spec §4.7's Caps Lock rule); otherwise it
// returns k unchanged.
func ToUpper(k Keysym) Keysym {
	if u, ok := caseFold[k]; ok {
		return u
	}
	return k
}

// IsUpper reports whether k is the upper member of a known case pair,
// used by the ALPHABETIC type-shape classifier (spec §4.5).
func IsUpper(k Keysym) bool {
	for _, u := range caseFold {
		if u == k {
			return true
		}
	}
	return false
}

// IsLower reports whether k is the lower member of a known case pair.
func IsLower(k Keysym) bool {
	_, ok := caseFold[k]
	return ok
}

// IsKeypad reports whether k is one of the keypad keysyms, used by
// the KEYPAD type-shape classifier (spec §4.5).
func IsKeypad(k Keysym) bool {
	return k >= 0xFF80 && k <= 0xFFBD
}
