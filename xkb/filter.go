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

// filter is installed by an action when its key is pressed and
// consulted on every subsequent event for that key, until the key is
// released (spec §4.7: "A filter ... consumes the event, transforms
// the pending state component, and removes itself when its
// originating key is released").
type filter interface {
	handles(kc uint32) bool
	onEvent(s *State, kc uint32, dir KeyDirection) StateComponent
	done() bool
}

// newFilter constructs the filter for act, or nil if act's kind
// doesn't install one (e.g. it was already handled as a purely
// observable action by the caller, or it is ActionNone/ActionPrivate).
func newFilter(act *Action, kc uint32) filter {
	switch act.Kind {
	case ActionSetMods, ActionLatchMods, ActionLockMods:
		return &modsFilter{kc: kc, act: act}
	case ActionSetGroup, ActionLatchGroup, ActionLockGroup:
		return &groupFilter{kc: kc, act: act}
	case ActionPtrBtn, ActionLockPtrBtn:
		return &ptrBtnFilter{kc: kc, act: act}
	case ActionISOLock:
		return &isoLockFilter{kc: kc, act: act}
	default:
		return nil
	}
}

// --- SetMods / LatchMods / LockMods ---

type modsFilter struct {
	kc       uint32
	act      *Action
	finished bool
	locking  bool // this activation is the "second press" that locks on release
}

func (f *modsFilter) handles(kc uint32) bool { return kc == f.kc }
func (f *modsFilter) done() bool             { return f.finished }

func (f *modsFilter) onEvent(s *State, kc uint32, dir KeyDirection) StateComponent {
	mods := s.km.VirtualModsToReal(f.act.Mods)

	switch f.act.Kind {
	case ActionLockMods:
		if dir == KeyDown {
			if f.act.ClearLocks {
				s.mods.Locked &^= ^mods
			}
			s.mods.Locked ^= mods
			return StateModsLocked
		}
		f.finished = true
		return 0

	case ActionSetMods:
		if dir == KeyDown {
			s.mods.Base |= mods
			return StateModsDepressed
		}
		s.mods.Base &^= mods
		f.finished = true
		return StateModsDepressed

	default: // ActionLatchMods
		if dir == KeyDown {
			if s.pendingLatchModsActive && s.pendingLatchModsKC == kc && f.act.LatchToLock {
				f.locking = true
			}
			s.mods.Base |= mods
			return StateModsDepressed
		}
		// release
		s.mods.Base &^= mods
		if f.locking {
			s.mods.Locked |= mods
			s.mods.Latched &^= mods
			s.pendingLatchModsActive = false
			f.finished = true
			return StateModsDepressed | StateModsLocked | StateModsLatched
		}
		s.mods.Latched |= mods
		s.pendingLatchMods = mods
		s.pendingLatchModsKC = kc
		s.pendingLatchModsToLock = f.act.LatchToLock
		s.pendingLatchModsActive = true
		f.finished = true
		return StateModsDepressed | StateModsLatched
	}
}

// --- SetGroup / LatchGroup / LockGroup ---

type groupFilter struct {
	kc       uint32
	act      *Action
	finished bool
	locking  bool
}

func (f *groupFilter) handles(kc uint32) bool { return kc == f.kc }
func (f *groupFilter) done() bool             { return f.finished }

func (f *groupFilter) onEvent(s *State, kc uint32, dir KeyDirection) StateComponent {
	switch f.act.Kind {
	case ActionLockGroup:
		if dir == KeyDown {
			if f.act.GroupAbsolute {
				s.group.Locked = f.act.Group
			} else {
				s.group.Locked += f.act.Group
			}
			return StateGroupLocked
		}
		f.finished = true
		return 0

	case ActionSetGroup:
		if dir == KeyDown {
			if f.act.GroupAbsolute {
				s.group.Base = f.act.Group
			} else {
				s.group.Base += f.act.Group
			}
			return StateGroupBase
		}
		if f.act.GroupAbsolute {
			s.group.Base = 0
		} else {
			s.group.Base -= f.act.Group
		}
		f.finished = true
		return StateGroupBase

	default: // ActionLatchGroup
		delta := f.act.Group
		if dir == KeyDown {
			if s.pendingLatchGroupActive && s.pendingLatchGroupKC == kc && f.act.LatchToLock {
				f.locking = true
			}
			if f.act.GroupAbsolute {
				s.group.Base = delta
			} else {
				s.group.Base += delta
			}
			return StateGroupBase
		}
		if f.act.GroupAbsolute {
			s.group.Base = 0
		} else {
			s.group.Base -= delta
		}
		if f.locking {
			if f.act.GroupAbsolute {
				s.group.Locked = delta
			} else {
				s.group.Locked += delta
			}
			s.group.Latched -= s.pendingLatchGroup
			s.pendingLatchGroupActive = false
			f.finished = true
			return StateGroupBase | StateGroupLocked | StateGroupLatched
		}
		if f.act.GroupAbsolute {
			s.group.Latched = delta
		} else {
			s.group.Latched += delta
		}
		s.pendingLatchGroup = delta
		s.pendingLatchGroupKC = kc
		s.pendingLatchGroupToLock = f.act.LatchToLock
		s.pendingLatchGroupActive = true
		f.finished = true
		return StateGroupBase | StateGroupLatched
	}
}

// --- PtrBtn / LockPtrBtn ---

type ptrBtnFilter struct {
	kc       uint32
	act      *Action
	finished bool
}

func (f *ptrBtnFilter) handles(kc uint32) bool { return kc == f.kc }
func (f *ptrBtnFilter) done() bool             { return f.finished }

func (f *ptrBtnFilter) onEvent(s *State, kc uint32, dir KeyDirection) StateComponent {
	if f.act.Button < 1 || f.act.Button > 8 {
		f.finished = true
		return 0
	}
	bit := uint8(1) << uint(f.act.Button-1)

	if f.act.Kind == ActionLockPtrBtn {
		if dir == KeyDown {
			locked := s.PointerButtonsLocked&bit != 0
			if locked && f.act.NoUnlockFlag {
				f.finished = true
				return 0
			}
			if !locked && f.act.NoLockFlag {
				f.finished = true
				return 0
			}
			s.PointerButtonsLocked ^= bit
			if s.PointerButtonsLocked&bit != 0 {
				s.PointerButtonsDown |= bit
			} else {
				s.PointerButtonsDown &^= bit
			}
			return 0
		}
		f.finished = true
		return 0
	}

	// ActionPtrBtn
	if dir == KeyDown {
		s.PointerButtonsDown |= bit
		return 0
	}
	if s.PointerButtonsLocked&bit == 0 {
		s.PointerButtonsDown &^= bit
	}
	f.finished = true
	return 0
}

// --- ISO-lock ---

// isoLockFilter implements HandleISOLock's runtime behavior (spec §9
// "Open questions"): the original source tests `else if (F_Affect)`,
// a nonzero constant, so that branch is always taken regardless of
// which field the user actually set; this implementation tests
// act.ISOAffect by its resolved kind instead, so ISOAffectCtrls,
// ISOAffectGroup and ISOAffectMods are only honored when the action
// actually names them.
type isoLockFilter struct {
	kc       uint32
	act      *Action
	finished bool
}

func (f *isoLockFilter) handles(kc uint32) bool { return kc == f.kc }
func (f *isoLockFilter) done() bool             { return f.finished }

func (f *isoLockFilter) onEvent(s *State, kc uint32, dir KeyDirection) StateComponent {
	if dir == KeyDown {
		return 0
	}
	f.finished = true

	switch f.act.ISOAffect {
	case ISOAffectCtrls:
		if f.act.NoLockFlag && s.Controls&f.act.Controls == 0 {
			return 0
		}
		s.Controls ^= f.act.Controls
		return 0
	case ISOAffectGroup:
		s.group.Locked += f.act.Group
		return StateGroupLocked
	case ISOAffectMods:
		s.mods.Locked ^= s.km.VirtualModsToReal(f.act.Mods)
		return StateModsLocked
	default:
		if f.act.ISODfltIsGroup {
			s.group.Locked += f.act.Group
			return StateGroupLocked
		}
		s.mods.Locked ^= s.km.VirtualModsToReal(f.act.Mods)
		return StateModsLocked
	}
}
