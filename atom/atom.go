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

// Package atom implements a string interning table. It is the Go
// rendering of libxkbcommon's atom_table: a set of small opaque
// integer handles that are cheap to compare and copy, each mapping
// back to exactly one string within the table that produced it.
package atom

import "sync"

// Atom is an opaque, context-scoped handle for an interned string.
// The zero value, None, denotes the absence of a string.
type Atom uint32

// None is the atom that denotes "no atom". It is never returned by
// Table.Intern for a real string.
const None Atom = 0

// Table interns strings into Atoms. The zero Table is not usable;
// construct one with NewTable. A Table is safe for concurrent reads
// once all inserts have quiesced, matching the concurrency model of
// the surrounding Context (see the xkb.Keymap and xkb.State docs).
type Table struct {
	mu      sync.RWMutex
	strings []string       // index 0 is always empty, atoms are 1-based
	byText  map[string]Atom
}

// NewTable creates an empty atom table.
func NewTable() *Table {
	return &Table{
		strings: []string{""},
		byText:  make(map[string]Atom),
	}
}

// Intern returns the Atom for s, creating a new entry if s has not
// been seen before in this table. Intern is idempotent: two calls
// with equal strings return equal Atoms. The steal flag exists to
// mirror the C API's ownership-transfer optimization; in Go there is
// no ownership to transfer, so steal only affects whether the
// returned Atom's backing string is s itself (true) or a copy (false,
// the default-safe choice used internally).
func (t *Table) Intern(s string, steal bool) Atom {
	if s == "" {
		return None
	}

	t.mu.RLock()
	if a, ok := t.byText[s]; ok {
		t.mu.RUnlock()
		return a
	}
	t.mu.RUnlock()

	t.mu.Lock()
	defer t.mu.Unlock()

	if a, ok := t.byText[s]; ok {
		return a
	}

	if !steal {
		// copy, so callers mutating their buffer afterward cannot
		// corrupt the table's storage.
		s = string([]byte(s))
	}

	a := Atom(len(t.strings))
	t.strings = append(t.strings, s)
	t.byText[s] = a
	return a
}

// Lookup returns the string for a, or "" if a is None or unknown to
// this table.
func (t *Table) Lookup(a Atom) string {
	if a == None {
		return ""
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(a) >= len(t.strings) {
		return ""
	}
	return t.strings[a]
}

// Dup returns an owned copy of the string for a. In Go, strings are
// already immutable value types, so Dup is equivalent to Lookup; it
// is kept as a distinct method to mirror atom_strdup's call sites in
// the original compiler, where ownership is explicit.
func (t *Table) Dup(a Atom) string {
	return t.Lookup(a)
}

// Len reports the number of distinct strings interned so far
// (excluding the reserved None slot).
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.strings) - 1
}
