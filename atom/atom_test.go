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

package atom_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xkbgo/xkbcommon/atom"
)

func TestInternRoundTrip(t *testing.T) {
	tbl := atom.NewTable()
	for _, s := range []string{"Shift", "Control", "Mod1", "LevelThree", "AE01", ""} {
		a := tbl.Intern(s, false)
		require.Equal(t, s, tbl.Lookup(a))
	}
}

func TestInternIdempotent(t *testing.T) {
	tbl := atom.NewTable()
	a1 := tbl.Intern("Shift", false)
	a2 := tbl.Intern("Shift", false)
	require.Equal(t, a1, a2)
	require.Equal(t, 1, tbl.Len())
}

func TestNoneAtom(t *testing.T) {
	tbl := atom.NewTable()
	require.Equal(t, atom.None, tbl.Intern("", false))
	require.Equal(t, "", tbl.Lookup(atom.None))
	require.Equal(t, "", tbl.Lookup(atom.Atom(9999)))
}

func TestDistinctStrings(t *testing.T) {
	tbl := atom.NewTable()
	a := tbl.Intern("Shift", false)
	b := tbl.Intern("Control", false)
	require.NotEqual(t, a, b)
}
