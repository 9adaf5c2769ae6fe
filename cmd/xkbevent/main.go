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

// Command xkbevent is a live demo of package xkb's keyboard-state
// machine. It compiles a keymap from a names tuple (default: a plain
// "us" layout), puts the controlling terminal into raw mode, and
// drives an xkb.State off the bytes the terminal hands back, printing
// the resulting keysyms and active modifiers after every keystroke
// (mirroring demos/beep's read-loop-then-print-state shape).
//
// A real keycode event stream comes from the kernel's evdev layer,
// which requires raw access to /dev/input and is not reachable from a
// terminal; this demo instead resolves each typed rune back to
// a compiled key that produces that symbol on any level of its first
// group, so
// it can exercise xkb.State's SetMods/LatchMods/LockMods/group filters
// with an everyday keyboard and terminal, at the cost of only ever
// observing synthetic down+up pairs rather than independent key-up
// events.
//
// Usage:
//
//	xkbevent [-layout us] [-variant intl] [-options grp:alt_shift_toggle]
//
// Press Ctrl-C or Esc to quit.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/term"

	"github.com/xkbgo/xkbcommon/keysym"
	"github.com/xkbgo/xkbcommon/names"
	"github.com/xkbgo/xkbcommon/render"
	"github.com/xkbgo/xkbcommon/xkb"
	"github.com/xkbgo/xkbcommon/xkbcomp"
)

// buildSymIndex maps each keysym a compiled keymap can produce on any
// level of a key's first group to that key's keycode (the lowest such
// keycode wins), so an incoming
// terminal rune can be turned back into a synthetic key press.
func buildSymIndex(km *xkb.Keymap) map[keysym.Keysym]uint32 {
	idx := map[keysym.Keysym]uint32{}
	for kc := km.MinKeycode; kc <= km.MaxKeycode; kc++ {
		key, ok := km.KeyByKeycode(kc)
		if !ok || len(key.Groups) == 0 {
			continue
		}
		for _, lvl := range key.Groups[0].Levels {
			if len(lvl.Syms) == 0 {
				continue
			}
			if _, exists := idx[lvl.Syms[0]]; !exists {
				idx[lvl.Syms[0]] = kc
			}
		}
	}
	return idx
}

func printState(km *xkb.Keymap, s *xkb.State, kc uint32) {
	syms := s.KeyGetSyms(kc)
	names := make([]string, len(syms))
	for i, sym := range syms {
		names[i] = keysym.GetName(sym)
	}
	mods := render.ModMaskText(km, s.SerializeMods(xkb.ModsEffective))
	fmt.Printf("key <%d> -> %v  mods=%s  group=%d\r\n", kc, names, mods, s.SerializeGroup(xkb.ModsEffective))
}

func main() {
	var layout, variant, options, rules, model string
	flag.StringVar(&layout, "layout", "us", "comma-separated layout list")
	flag.StringVar(&variant, "variant", "", "comma-separated variant list")
	flag.StringVar(&options, "options", "", "comma-separated option list")
	flag.StringVar(&rules, "rules", "", "rules base name")
	flag.StringVar(&model, "model", "", "keyboard model")
	flag.Parse()

	ctx := xkb.NewContext(0)
	km, err := xkbcomp.NewKeymapFromNames(ctx, names.Names{
		Rules: rules, Model: model, Layout: layout, Variant: variant, Options: options,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	state := xkb.NewState(km)
	symIndex := buildSymIndex(km)

	tty, err := term.Open("/dev/tty", term.RawMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer tty.Restore()
	defer tty.Close()

	fmt.Println("xkbevent: press keys, Ctrl-C or Esc to quit\r")

	buf := make([]byte, 1)
	for {
		n, err := tty.Read(buf)
		if err != nil || n == 0 {
			return
		}
		b := buf[0]
		if b == 0x03 || b == 0x1b {
			return
		}

		kc, ok := symIndex[keysym.FromRune(rune(b))]
		if !ok {
			continue
		}
		state.UpdateKey(kc, xkb.KeyDown)
		printState(km, state, kc)
		state.UpdateKey(kc, xkb.KeyUp)
	}
}
