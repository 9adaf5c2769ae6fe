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

package keysym_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xkbgo/xkbcommon/keysym"
)

func TestFromNameKnown(t *testing.T) {
	cases := map[string]keysym.Keysym{
		"q":         0x0071,
		"Q":         0x0051,
		"Return":    0xFF0D,
		"Shift_L":   0xFFE1,
		"space":     0x0020,
		"NoSymbol":  keysym.NoSymbol,
		"VoidSymbol": 0xFFFFFF,
	}
	for name, want := range cases {
		got, ok := keysym.FromName(name)
		require.True(t, ok, name)
		require.Equal(t, want, got, name)
	}
}

func TestAnyNoneAliasesCaseInsensitive(t *testing.T) {
	for _, n := range []string{"any", "ANY", "NoSymbol", "nosymbol"} {
		got, ok := keysym.FromName(n)
		require.True(t, ok)
		require.Equal(t, keysym.NoSymbol, got)
	}
	for _, n := range []string{"none", "NONE", "VoidSymbol"} {
		got, ok := keysym.FromName(n)
		require.True(t, ok)
		require.Equal(t, keysym.Keysym(0xFFFFFF), got)
	}
}

func TestUnicodeRange(t *testing.T) {
	got, ok := keysym.FromName("U+20AC") // EURO SIGN
	require.True(t, ok)
	require.Equal(t, keysym.Keysym(0x010020AC), got)

	r, ok := keysym.ToRune(got)
	require.True(t, ok)
	require.Equal(t, rune(0x20AC), r)
}

func TestGetNameRoundTrip(t *testing.T) {
	for _, name := range []string{"q", "Return", "F1", "KP_Enter"} {
		k, ok := keysym.FromName(name)
		require.True(t, ok)
		require.Equal(t, name, keysym.GetName(k))
	}
}

func TestCaseFold(t *testing.T) {
	q, _ := keysym.FromName("q")
	Q, _ := keysym.FromName("Q")
	require.Equal(t, Q, keysym.ToUpper(q))
	require.True(t, keysym.IsLower(q))
	require.True(t, keysym.IsUpper(Q))
	require.False(t, keysym.IsLower(Q))
}

func TestIsKeypad(t *testing.T) {
	kp, _ := keysym.FromName("KP_5")
	require.True(t, keysym.IsKeypad(kp))
	q, _ := keysym.FromName("q")
	require.False(t, keysym.IsKeypad(q))
}
