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

// Package xkb holds the compiled keymap data model and the keyboard
// state machine (spec §3, §4.7). It is the public surface of this
// module, the way tcell's root package is the public surface over
// vt, terminfo and tty.
package xkb

import (
	"github.com/xkbgo/xkbcommon/atom"
	"github.com/xkbgo/xkbcommon/keysym"
)

// ModMask is a 32-bit set of modifier indices (spec §3 "Modifier
// index"). Bits 0..7 are the eight real modifiers; 8..31 are virtual
// modifiers, named by the keymap's VirtualMods table.
type ModMask uint32

// The eight real modifier bit positions, fixed by the X11 protocol.
const (
	ModIndexShift = iota
	ModIndexLock
	ModIndexControl
	ModIndexMod1
	ModIndexMod2
	ModIndexMod3
	ModIndexMod4
	ModIndexMod5
	NumRealMods = 8
	MaxMods     = 32
)

const (
	ModMaskShift   ModMask = 1 << ModIndexShift
	ModMaskLock    ModMask = 1 << ModIndexLock
	ModMaskControl ModMask = 1 << ModIndexControl
	ModMaskMod1    ModMask = 1 << ModIndexMod1
	ModMaskMod2    ModMask = 1 << ModIndexMod2
	ModMaskMod3    ModMask = 1 << ModIndexMod3
	ModMaskMod4    ModMask = 1 << ModIndexMod4
	ModMaskMod5    ModMask = 1 << ModIndexMod5
)

// realModNames are the canonical, case-sensitive real modifier names
// as they occur in XKB sources and in diagnostics.
var realModNames = [NumRealMods]string{
	"Shift", "Lock", "Control", "Mod1", "Mod2", "Mod3", "Mod4", "Mod5",
}

// GroupsWrap selects out-of-range group handling (spec §4.7 step 3).
type GroupsWrap int

const (
	GroupsWrapClamp GroupsWrap = iota
	GroupsWrapRedirect
	GroupsWrapWrap
)

// MapEntry pairs a modifier mask with the level it selects and the
// subset of that mask not consumed when chosen (spec §3 "Key type").
type MapEntry struct {
	Mods     ModMask
	Level    int
	Preserve ModMask
	Active   bool // false for a synthesized "no map entry" placeholder
}

// KeyType is an atom-named record describing how a key's effective
// modifiers select a level (spec §3 "Key type").
type KeyType struct {
	Name       atom.Atom
	Mods       ModMask
	NumLevels  int
	Entries    []MapEntry
	LevelNames []atom.Atom // len == NumLevels; ATOM_NONE where unset
}

// findEntry returns the first map entry whose mask equals masked, and
// whether one was found (spec §4.7 step 2: "pick the first map entry
// whose mask equals masked").
func (t *KeyType) findEntry(masked ModMask) (MapEntry, bool) {
	for _, e := range t.Entries {
		if e.Active && e.Mods == masked {
			return e, true
		}
	}
	return MapEntry{}, false
}

// Level is one (group, level) cell of a key: the keysyms shown and
// the action run, if any.
type Level struct {
	Syms   []keysym.Keysym
	Action *Action // nil if this level carries no action
}

// Group is one layout's worth of levels for a key, bound to a key
// type by name.
type Group struct {
	Type   int // index into Keymap.Types
	Levels []Level
}

// Key is a physical-keycode record (spec §3 "Key").
type Key struct {
	Keycode    uint32
	Name       atom.Atom
	Groups     []Group
	Repeats    bool
	ModMapMods ModMask
	GroupsWrap GroupsWrap
	OutOfRangeGroupNumber int // target group when GroupsWrap == GroupsWrapRedirect
}

// Interp is a symbol-interpretation rule (spec §3 "Symbol
// interpretation (compat)", §4.5 "Symbol interpretations").
type InterpPredicate int

const (
	PredicateAnyOfOrNone InterpPredicate = iota
	PredicateAnyOf
	PredicateNoneOf
	PredicateAllOf
	PredicateExactly
	PredicateNone // unqualified: keysym alone, no modifier predicate
)

type Interp struct {
	Sym        keysym.Keysym
	Predicate  InterpPredicate
	Mods       ModMask
	Action     *Action
	VirtualMod int // -1 if none; else index (>= NumRealMods) of the virtual modifier this interp contributes to
	Repeat     bool
	LockingKey bool
}

// Matches reports whether the interp's (predicate, mods) test is
// satisfied by the modifiers observed on a key's base level.
func (in *Interp) Matches(observed ModMask) bool {
	switch in.Predicate {
	case PredicateAnyOfOrNone:
		return observed == 0 || (observed&in.Mods) != 0
	case PredicateAnyOf:
		return (observed & in.Mods) != 0
	case PredicateNoneOf:
		return (observed & in.Mods) == 0
	case PredicateAllOf:
		return (observed & in.Mods) == in.Mods
	case PredicateExactly:
		return observed == in.Mods
	default:
		return true
	}
}

// LED is an indicator record (spec §3 "Keymap").
type LED struct {
	Name       atom.Atom
	WhichGroups GroupsWrap
	Groups     uint32 // bitmask of group indices that light this LED, when WhichMods/WhichGroups call for group comparison
	WhichMods  LEDWhichMods
	Mods       ModMask
	Ctrls      uint32
}

// LEDWhichMods selects which of a state's modifier components an LED
// compares against.
type LEDWhichMods int

const (
	LEDUseBase LEDWhichMods = 1 << iota
	LEDUseLatched
	LEDUseLocked
	LEDUseEffective
	LEDUseCompat
)

// VirtualMod is one virtual-modifier definition: a name and the real
// modifier mask it currently resolves to (spec §4.5 "Virtual modifier
// resolution").
type VirtualMod struct {
	Name atom.Atom
	Mods ModMask // always a subset of the 8 real-modifier bits
}

// Keymap is the immutable, compiled result of §4.5's section
// compilers (spec §3 "Keymap"). Once returned from NewKeymapFromString
// or NewKeymapFromNames it is read-only; any number of States may be
// driven from it concurrently (spec §5).
type Keymap struct {
	ctx *Context

	Keycodes atom.Atom
	Symbols  atom.Atom
	Types    []KeyType
	Compat   atom.Atom

	Keys       []Key // indexed by Keycode - MinKeycode
	MinKeycode uint32
	MaxKeycode uint32

	VirtualMods []VirtualMod // index i+NumRealMods is modifier index i+8

	Interps      []Interp
	LEDs         []LED
	NumGroups    int
	GroupNames   []atom.Atom
}

// NewKeymap returns an empty Keymap bound to ctx, for package xkbcomp's
// section compilers to populate field by field once every section has
// been merged (spec §4.5 final step).
func NewKeymap(ctx *Context) *Keymap { return &Keymap{ctx: ctx} }

// Context returns the context this keymap was compiled under.
func (k *Keymap) Context() *Context { return k.ctx }

// KeyByKeycode returns the Key for kc, and whether one exists.
func (k *Keymap) KeyByKeycode(kc uint32) (*Key, bool) {
	if kc < k.MinKeycode || kc > k.MaxKeycode {
		return nil, false
	}
	idx := int(kc - k.MinKeycode)
	if idx < 0 || idx >= len(k.Keys) {
		return nil, false
	}
	if k.Keys[idx].Keycode == 0 && kc != 0 {
		return nil, false
	}
	return &k.Keys[idx], true
}

// ModName returns the name of modifier index idx, or "" if out of
// range.
func (k *Keymap) ModName(idx int) string {
	if idx < 0 {
		return ""
	}
	if idx < NumRealMods {
		return realModNames[idx]
	}
	vi := idx - NumRealMods
	if vi >= len(k.VirtualMods) {
		return ""
	}
	return k.ctx.Atoms.Lookup(k.VirtualMods[vi].Name)
}

// ModIndexFromName resolves a real or virtual modifier name
// (case-insensitive) to its bit index, and whether it was found.
func (k *Keymap) ModIndexFromName(name string) (int, bool) {
	for i, n := range realModNames {
		if equalFold(n, name) {
			return i, true
		}
	}
	for i, vm := range k.VirtualMods {
		if equalFold(k.ctx.Atoms.Lookup(vm.Name), name) {
			return i + NumRealMods, true
		}
	}
	return 0, false
}

// VirtualModsToReal expands every virtual-modifier bit in mask to its
// resolved real-modifier bits, folding them into the low 8 bits
// (spec §4.5 "Virtual modifier resolution" fixpoint result is
// consumed here at lookup time).
func (k *Keymap) VirtualModsToReal(mask ModMask) ModMask {
	real := mask & 0xFF
	for i, vm := range k.VirtualMods {
		bit := ModMask(1) << uint(i+NumRealMods)
		if mask&bit != 0 {
			real |= vm.Mods
		}
	}
	return real
}

func equalFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'A' && ca <= 'Z' {
			ca += 'a' - 'A'
		}
		if cb >= 'A' && cb <= 'Z' {
			cb += 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}
