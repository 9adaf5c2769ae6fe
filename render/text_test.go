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

package render_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xkbgo/xkbcommon/keysym"
	"github.com/xkbgo/xkbcommon/render"
	"github.com/xkbgo/xkbcommon/xkb"
)

func buildKeymap(t *testing.T) *xkb.Keymap {
	t.Helper()
	ctx := xkb.NewContext(xkb.ContextNoDefaultIncludes)
	km := xkb.NewKeymap(ctx)
	km.Types = []xkb.KeyType{{
		Name:      ctx.Atoms.Intern("TWO_LEVEL", false),
		Mods:      xkb.ModMaskShift,
		NumLevels: 2,
		Entries:   []xkb.MapEntry{{Mods: xkb.ModMaskShift, Level: 1, Active: true}},
	}}
	aSym, _ := keysym.FromName("a")
	ASym, _ := keysym.FromName("A")
	km.MinKeycode = 24
	km.MaxKeycode = 24
	km.Keys = []xkb.Key{{
		Keycode: 24,
		Name:    ctx.Atoms.Intern("AD01", false),
		Groups: []xkb.Group{{
			Type:   0,
			Levels: []xkb.Level{{Syms: []keysym.Keysym{aSym}}, {Syms: []keysym.Keysym{ASym}}},
		}},
	}}
	return km
}

func TestModMaskTextNoneAndCombined(t *testing.T) {
	km := buildKeymap(t)
	require.Equal(t, "none", render.ModMaskText(km, 0))
	require.Equal(t, "Shift", render.ModMaskText(km, xkb.ModMaskShift))
	require.Equal(t, "Shift+Control", render.ModMaskText(km, xkb.ModMaskShift|xkb.ModMaskControl))
}

func TestKeyTypeStringRendersMapEntries(t *testing.T) {
	km := buildKeymap(t)
	out := render.KeyTypeString(km, &km.Types[0])
	require.Contains(t, out, `type "TWO_LEVEL"`)
	require.Contains(t, out, "modifiers= Shift;")
	require.Contains(t, out, "map[Shift]= Level2;")
}

func TestKeymapStringRendersKeysAndSymbols(t *testing.T) {
	km := buildKeymap(t)
	out := render.KeymapString(km)
	require.Contains(t, out, "<AD01> = 24;")
	require.Contains(t, out, "symbols[Group1]= [ a, A ];")
}

func TestPadRightUsesDisplayWidth(t *testing.T) {
	require.Equal(t, "ab  ", render.PadRight("ab", 4))
	require.Equal(t, "abcd", render.PadRight("abcd", 2))
}
