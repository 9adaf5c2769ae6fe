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

// Package names resolves a (rules, model, layout, variant, options)
// component tuple into the include statements that make up a
// complete XKB source document (spec §4.10, added by SPEC_FULL as the
// out-of-scope collaborator referenced but not specified by
// keymap_new_from_names). The real rules-file preprocessor is a
// database lookup over a system's installed rules files; that part
// stays out of scope per spec.md §1. SimpleResolver instead maps the
// common evdev/pc104 shape straight onto include strings.
package names

import "strings"

// Names is the component tuple accepted by keymap_new_from_names
// (spec §6).
type Names struct {
	Rules   string
	Model   string
	Layout  string // comma-separated list, one per group
	Variant string // comma-separated, aligned with Layout
	Options string // comma-separated
}

// Resolver turns a Names tuple into XKB source fragments for each
// section, ready to hand to the parser.
type Resolver interface {
	Resolve(n Names) (keycodes, types, compat, symbols string, err error)
}

// SimpleResolver is a deliberately simplified Resolver: it does not
// consult an on-disk rules database, but synthesizes the same
// `xkb_keycodes "evdev" { include "evdev" };`-style wrapper sections
// the real evdev+pc104 rules would produce for a plain layout list,
// enough to make spec.md §8's scenarios 1-6 compile.
type SimpleResolver struct{}

// Resolve implements Resolver.
func (SimpleResolver) Resolve(n Names) (keycodes, types, compat, symbols string, err error) {
	model := n.Model
	if model == "" {
		model = "pc104"
	}
	layouts := splitNonEmpty(n.Layout)
	if len(layouts) == 0 {
		layouts = []string{"us"}
	}
	variants := splitNonEmpty(n.Variant)
	options := splitNonEmpty(n.Options)

	keycodes = `default xkb_keycodes "evdev" { include "evdev" };`
	types = `default xkb_types "complete" { include "complete" };`
	compat = `default xkb_compatibility "complete" { include "complete" };`

	var b strings.Builder
	b.WriteString(`default xkb_symbols "` + symbolsMapName(model, layouts, variants) + `" {`)
	b.WriteString("\n\tinclude \"pc+" + layoutSpec(layouts[0], variantAt(variants, 0)) + "\"")
	for i := 1; i < len(layouts); i++ {
		b.WriteString("\n\tinclude \"" + layoutSpec(layouts[i], variantAt(variants, i)) + ":" + itoa(i+1) + "\"")
	}
	for _, opt := range options {
		b.WriteString("\n\tinclude \"" + opt + "\"")
	}
	b.WriteString("\n};\n")
	symbols = b.String()
	return keycodes, types, compat, symbols, nil
}

func layoutSpec(layout, variant string) string {
	if variant == "" {
		return layout
	}
	return layout + "(" + variant + ")"
}

func variantAt(variants []string, i int) string {
	if i < len(variants) {
		return variants[i]
	}
	return ""
}

func symbolsMapName(model string, layouts, variants []string) string {
	return model + "+" + strings.Join(layouts, "+")
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func itoa(i int) string {
	if i == 0 {
		return "0"
	}
	neg := i < 0
	if neg {
		i = -i
	}
	var digits []byte
	for i > 0 {
		digits = append([]byte{byte('0' + i%10)}, digits...)
		i /= 10
	}
	if neg {
		return "-" + string(digits)
	}
	return string(digits)
}
