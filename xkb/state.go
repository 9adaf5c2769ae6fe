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

package xkb

import "github.com/xkbgo/xkbcommon/keysym"

// KeyDirection is the direction of a key event (spec §6
// "state_update_key").
type KeyDirection int

const (
	KeyUp KeyDirection = iota
	KeyDown
)

// StateComponent is a bitmask of the pieces of state a query or
// update touches (spec §6 "changed-components mask").
type StateComponent uint32

const (
	StateModsDepressed StateComponent = 1 << iota
	StateModsLatched
	StateModsLocked
	StateModsEffective
	StateGroupBase
	StateGroupLatched
	StateGroupLocked
	StateGroupEffective
	StateLEDs
)

// ModsKind selects which modifier component a query inspects (spec §6
// "kind ∈ {depressed,latched,locked,effective}").
type ModsKind int

const (
	ModsDepressed ModsKind = iota
	ModsLatched
	ModsLocked
	ModsEffective
)

// MatchKind selects how state_mod_names_are_active combines several
// names (spec §6 "match ∈ {any,all,non-exclusive}").
type MatchKind int

const (
	MatchAny MatchKind = iota
	MatchAll          // All of the given names are active, and no others
	MatchNonExclusive // All of the given names are active; others may be too
)

// modState holds depressed/latched/locked components for one axis
// (modifiers or group), plus the derived effective value (spec §3
// "Keyboard state").
type modState struct {
	Base      ModMask
	Latched   ModMask
	Locked    ModMask
	Effective ModMask
}

type groupState struct {
	Base      int32
	Latched   int32
	Locked    int32
	Effective int
}

// State is bound to one Keymap (shared; the keymap must outlive every
// state created from it, spec §3 "Lifecycles"). All mutation happens
// through UpdateKey/UpdateMask; callers must serialize access to one
// State the way spec §5 requires for any keymap/context/state object.
type State struct {
	km *Keymap

	mods  modState
	group groupState

	// modKeyCount has one slot per modifier bit but is not consulted by
	// any filter: releasing a SetMods or LatchMods key clears its bits
	// from the depressed component even while another key holding the
	// same modifier is still down.
	modKeyCount [MaxMods]int

	filters []filter

	leds uint32 // cached StateLEDs-derived bitmask, one bit per LED index

	// pendingLatchMods/pendingLatchGroup track a just-latched
	// component waiting to be consumed by the next different key
	// pressed, or re-armed/locked by a second press of the same key
	// (spec §4.7 "SetMods / LatchMods / LockMods").
	pendingLatchMods       ModMask
	pendingLatchModsKC     uint32
	pendingLatchModsToLock bool
	pendingLatchModsActive bool

	pendingLatchGroup       int32
	pendingLatchGroupKC     uint32
	pendingLatchGroupToLock bool
	pendingLatchGroupActive bool

	// Observable, non-modifier action state (spec §4.7 "surfaced as
	// events the host can observe").
	PointerButtonsDown   uint8 // bit (button-1)
	PointerButtonsLocked uint8
	Controls             uint32
	LastMessage          *Action
	LastRedirect         *Action
	LastSwitchScreen     *Action

	// Observer, if set, is notified for every action whose effect is
	// purely observable (PtrBtn/LockPtrBtn, SwitchScreen, SetControls,
	// LockControls, ActionMessage, RedirectKey) rather than a
	// modifier/group mutation.
	Observer func(kc uint32, act *Action, dir KeyDirection)
}

// NewState creates a State bound to km (spec §6 "state_new").
func NewState(km *Keymap) *State {
	return &State{km: km}
}

// Keymap returns the keymap this state is bound to.
func (s *State) Keymap() *Keymap { return s.km }

// UpdateKey processes one physical key event through the action
// filter chain and returns which state components changed (spec
// §4.7, §6 "state_update_key").
func (s *State) UpdateKey(kc uint32, dir KeyDirection) StateComponent {
	key, ok := s.km.KeyByKeycode(kc)
	if !ok {
		return 0
	}

	var changed StateComponent

	if dir == KeyDown {
		changed |= s.modKeyDown(key, kc)
	} else {
		changed |= s.modKeyUp(key, kc)
	}

	changed |= s.recomputeEffective()
	return changed
}

// modKeyDown runs the press half of the filter chain: consult
// existing filters, then (if none consumed the event) look up the
// key's action at its currently-selected level and install a new
// filter for it.
func (s *State) modKeyDown(key *Key, kc uint32) StateComponent {
	for _, f := range s.filters {
		if f.handles(kc) {
			return f.onEvent(s, kc, KeyDown)
		}
	}

	act := s.lookupAction(key)

	// A different key than the one a latch is pending on: the latch
	// applies to this event (already reflected in effective mods used
	// by lookupAction above) and is then consumed.
	var changed StateComponent
	if s.pendingLatchModsActive && s.pendingLatchModsKC != kc {
		s.mods.Latched &^= s.pendingLatchMods
		s.pendingLatchModsActive = false
		changed |= StateModsLatched
	}
	if s.pendingLatchGroupActive && s.pendingLatchGroupKC != kc {
		s.group.Latched -= s.pendingLatchGroup
		s.pendingLatchGroupActive = false
		changed |= StateGroupLatched
	}

	if act == nil {
		return changed
	}

	if obs, ok := observableKind(act.Kind); ok {
		s.applyObservable(act, kc, KeyDown)
		if s.Observer != nil {
			s.Observer(kc, act, KeyDown)
		}
		return changed | obs
	}

	nf := newFilter(act, kc)
	if nf == nil {
		return changed
	}
	s.filters = append(s.filters, nf)
	return changed | nf.onEvent(s, kc, KeyDown)
}

// observableKind reports the StateComponent touched by an action kind
// that is surfaced to the host but never participates in the filter
// chain (spec §4.7: "SwitchScreen / SetControls / LockControls /
// ActionMessage / RedirectKey").
func observableKind(k ActionKind) (StateComponent, bool) {
	switch k {
	case ActionSwitchScreen, ActionMessage, ActionRedirectKey:
		return 0, true
	case ActionSetControls, ActionLockControls:
		return 0, true
	default:
		return 0, false
	}
}

func (s *State) applyObservable(act *Action, kc uint32, dir KeyDirection) {
	switch act.Kind {
	case ActionSetControls:
		if dir == KeyDown {
			s.Controls |= act.Controls
		}
	case ActionLockControls:
		if dir == KeyDown {
			s.Controls ^= act.Controls
		}
	case ActionMessage:
		if dir == KeyDown && act.MessageFlags&MessageOnPress != 0 {
			s.LastMessage = act
		} else if dir == KeyUp && act.MessageFlags&MessageOnRelease != 0 {
			s.LastMessage = act
		}
	case ActionRedirectKey:
		if dir == KeyDown {
			s.LastRedirect = act
		}
	case ActionSwitchScreen:
		if dir == KeyDown {
			s.LastSwitchScreen = act
		}
	}
}

func (s *State) modKeyUp(key *Key, kc uint32) StateComponent {
	var changed StateComponent
	remaining := s.filters[:0]
	for _, f := range s.filters {
		if f.handles(kc) {
			changed |= f.onEvent(s, kc, KeyUp)
			if !f.done() {
				remaining = append(remaining, f)
			}
			continue
		}
		remaining = append(remaining, f)
	}
	s.filters = remaining
	return changed
}

// lookupAction finds the action at the key's currently effective
// group/level, consulting compat interpretations as a fallback for
// group 0 level 0 (spec §4.5 "Symbol interpretations ... contributes
// its action to that key's group-0/level-0 action slot when the key
// lacks an explicit action there").
func (s *State) lookupAction(key *Key) *Action {
	group := s.effectiveKeyGroup(key)
	if group < 0 || group >= len(key.Groups) {
		return nil
	}
	g := key.Groups[group]
	if g.Type < 0 || g.Type >= len(s.km.Types) {
		return nil
	}
	typ := &s.km.Types[g.Type]
	level := s.levelForType(typ)
	if level < 0 || level >= len(g.Levels) {
		return nil
	}
	return g.Levels[level].Action
}

// effectiveKeyGroup normalizes s.group.Effective into [0, len(key.Groups))
// using the key's own out-of-range policy (spec §4.7 step 3).
func (s *State) effectiveKeyGroup(key *Key) int {
	n := len(key.Groups)
	if n == 0 {
		return -1
	}
	g := s.group.Effective
	if g >= 0 && g < n {
		return g
	}
	switch key.GroupsWrap {
	case GroupsWrapWrap:
		m := g % n
		if m < 0 {
			m += n
		}
		return m
	case GroupsWrapRedirect:
		t := key.OutOfRangeGroupNumber
		if t < 0 || t >= n {
			return 0
		}
		return t
	default: // clamp
		if g < 0 {
			return 0
		}
		return n - 1
	}
}

// levelForType runs the modifier-to-level lookup of spec §4.7 step 2
// for one type, given the state's current effective modifiers.
func (s *State) levelForType(typ *KeyType) int {
	masked := s.km.VirtualModsToReal(s.mods.Effective) & typ.Mods
	if e, ok := typ.findEntry(masked); ok {
		return e.Level
	}
	return 0
}

// recomputeEffective derives effective modifiers and group from the
// depressed/latched/locked components (spec §4.7 step 1, 3) and
// refreshes LED state (step 4).
func (s *State) recomputeEffective() StateComponent {
	var changed StateComponent

	newMods := s.mods.Base | s.mods.Latched | s.mods.Locked
	if newMods != s.mods.Effective {
		s.mods.Effective = newMods
		changed |= StateModsEffective
	}

	n := s.km.NumGroups
	if n <= 0 {
		n = 1
	}
	raw := int(s.group.Base + s.group.Latched + s.group.Locked)
	eff := raw % n
	if eff < 0 {
		eff += n
	}
	if eff != s.group.Effective {
		s.group.Effective = eff
		changed |= StateGroupEffective
	}

	if s.recomputeLEDs() {
		changed |= StateLEDs
	}
	return changed
}

// recomputeLEDs implements spec §4.7 step 4's LED derivation and
// reports whether the cached bitmask changed.
func (s *State) recomputeLEDs() bool {
	var leds uint32
	for i := range s.km.LEDs {
		if s.ledActive(&s.km.LEDs[i]) {
			leds |= 1 << uint(i)
		}
	}
	changed := leds != s.leds
	s.leds = leds
	return changed
}

func (s *State) ledActive(l *LED) bool {
	modsOK := true
	if l.Mods != 0 {
		var observed ModMask
		if l.WhichMods&LEDUseBase != 0 {
			observed |= s.mods.Base
		}
		if l.WhichMods&LEDUseLatched != 0 {
			observed |= s.mods.Latched
		}
		if l.WhichMods&LEDUseLocked != 0 {
			observed |= s.mods.Locked
		}
		if l.WhichMods&LEDUseEffective != 0 || l.WhichMods == 0 {
			observed |= s.mods.Effective
		}
		modsOK = (l.Mods &^ observed) == 0
	}
	groupOK := true
	if l.Groups != 0 {
		groupOK = l.Groups&(1<<uint(s.group.Effective)) != 0
	}
	return modsOK && groupOK
}

// UpdateMask is a bulk mask replacement, e.g. for fanning in
// serialized state from a display server (spec §6
// "state_update_mask"). It preempts any in-flight filters (spec §5
// "Ordering": "Bulk update_mask preempts any in-flight filters").
func (s *State) UpdateMask(base, latched, locked ModMask, baseGroup, latchedGroup, lockedGroup int32) StateComponent {
	s.filters = nil
	s.pendingLatchModsActive = false
	s.pendingLatchGroupActive = false
	s.mods.Base, s.mods.Latched, s.mods.Locked = base, latched, locked
	s.group.Base, s.group.Latched, s.group.Locked = baseGroup, latchedGroup, lockedGroup
	return s.recomputeEffective() | StateModsDepressed | StateModsLatched | StateModsLocked |
		StateGroupBase | StateGroupLatched | StateGroupLocked
}

// modsForKind returns the requested modifier component.
func (s *State) modsForKind(kind ModsKind) ModMask {
	switch kind {
	case ModsDepressed:
		return s.mods.Base
	case ModsLatched:
		return s.mods.Latched
	case ModsLocked:
		return s.mods.Locked
	default:
		return s.mods.Effective
	}
}

// ModIndexIsActive reports whether modifier idx is set in the
// requested component (spec §6 "state_mod_index_is_active").
func (s *State) ModIndexIsActive(idx int, kind ModsKind) bool {
	if idx < 0 || idx >= MaxMods {
		return false
	}
	return s.modsForKind(kind)&(1<<uint(idx)) != 0
}

// ModNameIsActive resolves name to a modifier index and checks it
// (spec §6 "state_mod_name_is_active").
func (s *State) ModNameIsActive(name string, kind ModsKind) bool {
	idx, ok := s.km.ModIndexFromName(name)
	if !ok {
		return false
	}
	return s.ModIndexIsActive(idx, kind)
}

// ModNamesAreActive checks several modifier names at once, combined
// per match (spec §6 "state_mod_names_are_active").
func (s *State) ModNamesAreActive(kind ModsKind, match MatchKind, names ...string) bool {
	var want ModMask
	for _, n := range names {
		idx, ok := s.km.ModIndexFromName(n)
		if !ok {
			return false
		}
		want |= 1 << uint(idx)
	}
	observed := s.modsForKind(kind)
	switch match {
	case MatchAll:
		return observed == want
	case MatchNonExclusive:
		return observed&want == want
	default: // any
		return observed&want != 0
	}
}

// SerializeMods returns the requested modifier component as a plain
// mask (spec §6 "state_serialize_mods").
func (s *State) SerializeMods(kind ModsKind) ModMask {
	return s.modsForKind(kind)
}

// SerializeGroup returns the requested group component (spec §6
// "state_serialize_group").
func (s *State) SerializeGroup(kind ModsKind) int32 {
	switch kind {
	case ModsDepressed:
		return s.group.Base
	case ModsLatched:
		return s.group.Latched
	case ModsLocked:
		return s.group.Locked
	default:
		return int32(s.group.Effective)
	}
}

// SerializeLEDs returns the current LED bitmask (spec §6
// "state_serialize_leds").
func (s *State) SerializeLEDs() uint32 { return s.leds }

// consumedForKey computes spec §4.7's "consumed modifiers for a key
// event": the union, over every group/level actually consulted, of
// type.Mods minus the preserve mask of the chosen entry.
func (s *State) consumedForKey(key *Key) ModMask {
	group := s.effectiveKeyGroup(key)
	if group < 0 || group >= len(key.Groups) {
		return 0
	}
	g := key.Groups[group]
	if g.Type < 0 || g.Type >= len(s.km.Types) {
		return 0
	}
	typ := &s.km.Types[g.Type]
	masked := s.km.VirtualModsToReal(s.mods.Effective) & typ.Mods
	e, ok := typ.findEntry(masked)
	if !ok {
		return typ.Mods
	}
	return typ.Mods &^ e.Preserve
}

// KeyGetModMaskRemoveConsumed returns mask with this key's consumed
// modifiers cleared (spec §6 "key_get_mod_mask_remove_consumed").
func (s *State) KeyGetModMaskRemoveConsumed(kc uint32, mask ModMask) ModMask {
	key, ok := s.km.KeyByKeycode(kc)
	if !ok {
		return mask
	}
	return mask &^ s.consumedForKey(key)
}

// KeyGetSyms returns the keysyms shown at kc's effective group/level
// (spec §4.7 "Symbol lookup", §6 "state_key_get_syms"). A single
// effective Caps Lock that was not consumed by the type's chosen map
// entry upper-cases a single-symbol level's result (spec §4.7
// "Caps-Lock behavior").
func (s *State) KeyGetSyms(kc uint32) []keysym.Keysym {
	key, ok := s.km.KeyByKeycode(kc)
	if !ok {
		return nil
	}
	group := s.effectiveKeyGroup(key)
	if group < 0 || group >= len(key.Groups) {
		return nil
	}
	g := key.Groups[group]
	if g.Type < 0 || g.Type >= len(s.km.Types) {
		return nil
	}
	typ := &s.km.Types[g.Type]
	level := s.levelForType(typ)
	if level < 0 || level >= len(g.Levels) {
		return nil
	}
	syms := g.Levels[level].Syms

	capsLockEffective := s.mods.Effective&ModMaskLock != 0
	consumedLock := s.consumedForKey(key)&ModMaskLock != 0
	if capsLockEffective && !consumedLock && len(syms) == 1 {
		out := make([]keysym.Keysym, 1)
		out[0] = keysym.ToUpper(syms[0])
		return out
	}
	return syms
}
