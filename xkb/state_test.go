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

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xkbgo/xkbcommon/keysym"
)

// buildTwoLevelKeymap returns a minimal keymap with three keys: a
// Shift key at keycode 50 (SetMods), a plain alphabetic key at
// keycode 38 producing 'a'/'A' on a two-level Shift-gated type, and a
// Caps-Lock key at keycode 66 (LockMods).
func buildTwoLevelKeymap(t *testing.T) (*Keymap, *Context) {
	t.Helper()
	ctx := NewContext(ContextNoDefaultIncludes)
	km := NewKeymap(ctx)

	alphabetic := KeyType{
		Name:      ctx.Atoms.Intern("ALPHABETIC", false),
		Mods:      ModMaskShift,
		NumLevels: 2,
		Entries: []MapEntry{
			{Mods: ModMaskShift, Level: 1, Active: true},
		},
	}
	km.Types = []KeyType{alphabetic}

	aSym, _ := keysym.FromName("a")
	ASym, _ := keysym.FromName("A")

	shiftAction := &Action{Kind: ActionSetMods, Mods: ModMaskShift}
	capsAction := &Action{Kind: ActionLockMods, Mods: ModMaskLock}

	km.MinKeycode = 9
	km.MaxKeycode = 70
	km.Keys = make([]Key, int(km.MaxKeycode-km.MinKeycode)+1)

	km.Keys[38-km.MinKeycode] = Key{
		Keycode: 38,
		Name:    ctx.Atoms.Intern("AC01", false),
		Groups: []Group{{
			Type: 0,
			Levels: []Level{
				{Syms: []keysym.Keysym{aSym}},
				{Syms: []keysym.Keysym{ASym}},
			},
		}},
	}
	km.Keys[50-km.MinKeycode] = Key{
		Keycode: 50,
		Name:    ctx.Atoms.Intern("LFSH", false),
		Groups: []Group{{
			Type:   0,
			Levels: []Level{{Action: shiftAction}, {Action: shiftAction}},
		}},
	}
	km.Keys[66-km.MinKeycode] = Key{
		Keycode: 66,
		Name:    ctx.Atoms.Intern("CAPS", false),
		Groups: []Group{{
			Type:   0,
			Levels: []Level{{Action: capsAction}, {Action: capsAction}},
		}},
	}

	return km, ctx
}

func TestSetModsPressRelease(t *testing.T) {
	km, _ := buildTwoLevelKeymap(t)
	s := NewState(km)

	changed := s.UpdateKey(50, KeyDown)
	require.NotZero(t, changed&StateModsDepressed)
	require.True(t, s.ModIndexIsActive(ModIndexShift, ModsDepressed))
	require.True(t, s.ModIndexIsActive(ModIndexShift, ModsEffective))

	syms := s.KeyGetSyms(38)
	require.Len(t, syms, 1)
	ASym, _ := keysym.FromName("A")
	require.Equal(t, ASym, syms[0])

	s.UpdateKey(50, KeyUp)
	require.False(t, s.ModIndexIsActive(ModIndexShift, ModsDepressed))
	aSym, _ := keysym.FromName("a")
	require.Equal(t, []keysym.Keysym{aSym}, s.KeyGetSyms(38))
}

func TestLockModsTogglesAcrossPresses(t *testing.T) {
	km, _ := buildTwoLevelKeymap(t)
	s := NewState(km)

	s.UpdateKey(66, KeyDown)
	s.UpdateKey(66, KeyUp)
	require.True(t, s.ModIndexIsActive(ModIndexLock, ModsLocked))
	require.True(t, s.ModIndexIsActive(ModIndexLock, ModsEffective))

	s.UpdateKey(66, KeyDown)
	s.UpdateKey(66, KeyUp)
	require.False(t, s.ModIndexIsActive(ModIndexLock, ModsLocked))
}

func TestCapsLockUppercasesUnconsumedLevel(t *testing.T) {
	km, _ := buildTwoLevelKeymap(t)
	s := NewState(km)

	s.UpdateKey(66, KeyDown)
	s.UpdateKey(66, KeyUp)
	require.True(t, s.ModIndexIsActive(ModIndexLock, ModsEffective))

	// Level lookup for key 38's type only gates on Shift, so Lock is
	// not consumed and KeyGetSyms uppercases the unshifted level.
	ASym, _ := keysym.FromName("A")
	require.Equal(t, []keysym.Keysym{ASym}, s.KeyGetSyms(38))
}

func buildLatchKeymap(t *testing.T, latchToLock bool) (*Keymap, uint32) {
	t.Helper()
	ctx := NewContext(ContextNoDefaultIncludes)
	km := NewKeymap(ctx)
	km.Types = []KeyType{{Name: ctx.Atoms.Intern("ONE_LEVEL", false), NumLevels: 1}}

	latchKC := uint32(64)
	otherKC := uint32(65)
	km.MinKeycode = 64
	km.MaxKeycode = 65
	km.Keys = make([]Key, 2)

	latchAction := &Action{Kind: ActionLatchMods, Mods: ModMaskMod1, LatchToLock: latchToLock}
	km.Keys[0] = Key{Keycode: latchKC, Name: ctx.Atoms.Intern("LALT", false), Groups: []Group{{Type: 0, Levels: []Level{{Action: latchAction}}}}}
	km.Keys[1] = Key{Keycode: otherKC, Name: ctx.Atoms.Intern("AC01", false), Groups: []Group{{Type: 0, Levels: []Level{{}}}}}
	return km, latchKC
}

func TestLatchModsConsumedByNextDifferentKey(t *testing.T) {
	km, latchKC := buildLatchKeymap(t, false)
	s := NewState(km)

	s.UpdateKey(latchKC, KeyDown)
	s.UpdateKey(latchKC, KeyUp)
	require.True(t, s.ModIndexIsActive(ModIndexMod1, ModsLatched))

	s.UpdateKey(65, KeyDown)
	require.False(t, s.ModIndexIsActive(ModIndexMod1, ModsLatched))
	require.False(t, s.ModIndexIsActive(ModIndexMod1, ModsLocked))
}

func TestLatchToLockOnSecondPress(t *testing.T) {
	km, latchKC := buildLatchKeymap(t, true)
	s := NewState(km)

	s.UpdateKey(latchKC, KeyDown)
	s.UpdateKey(latchKC, KeyUp)
	require.True(t, s.ModIndexIsActive(ModIndexMod1, ModsLatched))

	// Second press of the SAME key while the latch is pending locks it.
	s.UpdateKey(latchKC, KeyDown)
	s.UpdateKey(latchKC, KeyUp)
	require.True(t, s.ModIndexIsActive(ModIndexMod1, ModsLocked))
	require.False(t, s.ModIndexIsActive(ModIndexMod1, ModsLatched))
}

func buildGroupKeymap(t *testing.T, wrap GroupsWrap, redirectTo int) *Keymap {
	t.Helper()
	ctx := NewContext(ContextNoDefaultIncludes)
	km := NewKeymap(ctx)
	km.Types = []KeyType{{Name: ctx.Atoms.Intern("ONE_LEVEL", false), NumLevels: 1}}
	km.NumGroups = 2
	km.MinKeycode = 10
	km.MaxKeycode = 10
	sym1, _ := keysym.FromName("1")
	km.Keys = []Key{{
		Keycode:    10,
		Name:       ctx.Atoms.Intern("AE01", false),
		GroupsWrap: wrap,
		OutOfRangeGroupNumber: redirectTo,
		Groups: []Group{
			{Type: 0, Levels: []Level{{Syms: []keysym.Keysym{sym1}}}},
		},
	}}
	return km
}

func TestGroupOutOfRangeClamp(t *testing.T) {
	km := buildGroupKeymap(t, GroupsWrapClamp, 0)
	s := NewState(km)
	s.UpdateMask(0, 0, 0, 5, 0, 0)
	require.NotNil(t, s.KeyGetSyms(10))
}

func TestUpdateMaskPreemptsFilters(t *testing.T) {
	km, _ := buildTwoLevelKeymap(t)
	s := NewState(km)
	s.UpdateKey(50, KeyDown)
	require.NotEmpty(t, s.filters)

	s.UpdateMask(0, 0, 0, 0, 0, 0)
	require.Empty(t, s.filters)
	require.False(t, s.ModIndexIsActive(ModIndexShift, ModsDepressed))
}

func TestISOLockDefaultsToGroupWhenUnset(t *testing.T) {
	ctx := NewContext(ContextNoDefaultIncludes)
	km := NewKeymap(ctx)
	km.Types = []KeyType{{Name: ctx.Atoms.Intern("ONE_LEVEL", false), NumLevels: 1}}
	km.NumGroups = 2
	km.MinKeycode = 20
	km.MaxKeycode = 20
	isoAction := &Action{Kind: ActionISOLock, Group: 1, ISODfltIsGroup: true}
	km.Keys = []Key{{
		Keycode: 20,
		Name:    ctx.Atoms.Intern("AD12", false),
		Groups:  []Group{{Type: 0, Levels: []Level{{Action: isoAction}}}},
	}}
	s := NewState(km)

	s.UpdateKey(20, KeyDown)
	s.UpdateKey(20, KeyUp)
	require.EqualValues(t, 1, s.SerializeGroup(ModsLocked))
}

func TestModNamesAreActiveMatchKinds(t *testing.T) {
	km, _ := buildTwoLevelKeymap(t)
	s := NewState(km)
	s.UpdateKey(50, KeyDown)

	require.True(t, s.ModNamesAreActive(ModsEffective, MatchAny, "Shift"))
	require.True(t, s.ModNamesAreActive(ModsEffective, MatchAll, "Shift"))
	require.True(t, s.ModNamesAreActive(ModsEffective, MatchNonExclusive, "Shift"))
	require.False(t, s.ModNamesAreActive(ModsEffective, MatchNonExclusive, "Shift", "Lock"))
}
