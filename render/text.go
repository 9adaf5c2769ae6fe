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

// Package render formats compiled keymap pieces back to XKB text, for
// keymap_get_as_string and for diagnostic messages (spec §4.9,
// grounded directly on original_source/src/text.h's name tables).
package render

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/xkbgo/xkbcommon/keysym"
	"github.com/xkbgo/xkbcommon/xkb"
)

// ModMaskText renders mask as a '+'-joined list of modifier names, or
// "none" when empty.
func ModMaskText(km *xkb.Keymap, mask xkb.ModMask) string {
	if mask == 0 {
		return "none"
	}
	var parts []string
	for i := 0; i < xkb.MaxMods; i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		name := km.ModName(i)
		if name == "" {
			name = fmt.Sprintf("(mod%d)", i)
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, "+")
}

// VModMaskText renders only the virtual-modifier bits (index >=
// xkb.NumRealMods) of mask.
func VModMaskText(km *xkb.Keymap, mask xkb.ModMask) string {
	return ModMaskText(km, mask&^0xFF)
}

// ActionTypeText returns the canonical mixed-case action name for k,
// matching original_source/src/xkbcomp/action.c's actionStrings
// canonical spellings (the first entry of each alias group).
func ActionTypeText(k xkb.ActionKind) string {
	switch k {
	case xkb.ActionNone:
		return "NoAction"
	case xkb.ActionSetMods:
		return "SetMods"
	case xkb.ActionLatchMods:
		return "LatchMods"
	case xkb.ActionLockMods:
		return "LockMods"
	case xkb.ActionSetGroup:
		return "SetGroup"
	case xkb.ActionLatchGroup:
		return "LatchGroup"
	case xkb.ActionLockGroup:
		return "LockGroup"
	case xkb.ActionMovePtr:
		return "MovePtr"
	case xkb.ActionPtrBtn:
		return "PtrBtn"
	case xkb.ActionLockPtrBtn:
		return "LockPtrBtn"
	case xkb.ActionSetPtrDflt:
		return "SetPtrDflt"
	case xkb.ActionISOLock:
		return "ISOLock"
	case xkb.ActionTerminate:
		return "Terminate"
	case xkb.ActionSwitchScreen:
		return "SwitchScreen"
	case xkb.ActionSetControls:
		return "SetControls"
	case xkb.ActionLockControls:
		return "LockControls"
	case xkb.ActionMessage:
		return "ActionMessage"
	case xkb.ActionRedirectKey:
		return "RedirectKey"
	case xkb.ActionDeviceBtn:
		return "DeviceBtn"
	case xkb.ActionLockDeviceBtn:
		return "LockDeviceBtn"
	case xkb.ActionDeviceValuator:
		return "DeviceValuator"
	default:
		return "Private"
	}
}

// KeysymText renders a keysym name as returned by keysym.GetName,
// printing "NoSymbol" for the empty name GetName gives a code it does
// not know.
func KeysymText(name string) string {
	if name == "" {
		return "NoSymbol"
	}
	return name
}

// KeyNameText renders a 4-octet key name as `<NAME>`.
func KeyNameText(name string) string {
	return "<" + name + ">"
}

// PadRight pads s to width display columns using go-runewidth, the
// same way tcell's tscreen.go aligns cells by rune display width
// rather than byte or rune count. KeymapString does not use it.
func PadRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// KeyTypeString renders one key type's body as it would appear inside
// an `xkb_types` section.
func KeyTypeString(km *xkb.Keymap, t *xkb.KeyType) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\ttype %q {\n", km.Context().Atoms.Lookup(t.Name))
	fmt.Fprintf(&b, "\t\tmodifiers= %s;\n", ModMaskText(km, t.Mods))
	for _, e := range t.Entries {
		if !e.Active {
			continue
		}
		fmt.Fprintf(&b, "\t\tmap[%s]= Level%d;\n", ModMaskText(km, e.Mods), e.Level+1)
		if e.Preserve != 0 {
			fmt.Fprintf(&b, "\t\tpreserve[%s]= %s;\n", ModMaskText(km, e.Mods), ModMaskText(km, e.Preserve))
		}
	}
	for i, ln := range t.LevelNames {
		if ln == 0 {
			continue
		}
		fmt.Fprintf(&b, "\t\tlevel_name[Level%d]= %q;\n", i+1, km.Context().Atoms.Lookup(ln))
	}
	b.WriteString("\t};\n")
	return b.String()
}

// KeymapString renders the whole compiled keymap as a single
// `xkb_keymap { ... }` document (spec §6 "keymap_get_as_string").
// It is a best-effort canonicalization, not guaranteed byte-identical
// to any particular source file that compiled to the same tables.
func KeymapString(km *xkb.Keymap) string {
	var b strings.Builder
	b.WriteString("xkb_keymap {\n")

	b.WriteString("\txkb_keycodes {\n")
	for i := range km.Keys {
		k := &km.Keys[i]
		if k.Name == 0 {
			continue
		}
		fmt.Fprintf(&b, "\t\t%s = %d;\n", KeyNameText(km.Context().Atoms.Lookup(k.Name)), k.Keycode)
	}
	b.WriteString("\t};\n")

	b.WriteString("\txkb_types {\n")
	for i := range km.Types {
		b.WriteString(KeyTypeString(km, &km.Types[i]))
	}
	b.WriteString("\t};\n")

	b.WriteString("\txkb_symbols {\n")
	for i := range km.Keys {
		k := &km.Keys[i]
		if k.Name == 0 || len(k.Groups) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\t\tkey %s {\n", KeyNameText(km.Context().Atoms.Lookup(k.Name)))
		for gi, g := range k.Groups {
			var syms []string
			for _, lvl := range g.Levels {
				if len(lvl.Syms) == 0 {
					syms = append(syms, "NoSymbol")
					continue
				}
				syms = append(syms, KeysymText(keysym.GetName(lvl.Syms[0])))
			}
			fmt.Fprintf(&b, "\t\t\tsymbols[Group%d]= [ %s ];\n", gi+1, strings.Join(syms, ", "))
		}
		b.WriteString("\t\t};\n")
	}
	b.WriteString("\t};\n")

	b.WriteString("};\n")
	return b.String()
}
