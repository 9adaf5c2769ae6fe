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

// Command xkbcomp compiles an XKB keymap source file (or a resolved
// rules/model/layout/variant/options tuple) and writes its canonical
// text form, mirroring mkinfo.go's flag-driven generator-tool shape.
//
// Usage:
//
//	xkbcomp [-I dir]... [-o file] [file.xkb]
//	xkbcomp [-I dir]... [-o file] -rules base -model pc105 -layout us,de
//
// With a positional file argument (or none, reading stdin), the file
// is compiled directly. With -layout (or any of -rules/-model/
// -variant/-options) given instead, the names are resolved into XKB
// source via names.SimpleResolver.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/xkbgo/xkbcommon/names"
	"github.com/xkbgo/xkbcommon/xkb"
	"github.com/xkbgo/xkbcommon/xkbcomp"
)

// includePathList accumulates repeated -I flags in order, the way
// cc(1)'s -I works.
type includePathList []string

func (l *includePathList) String() string { return fmt.Sprint([]string(*l)) }

func (l *includePathList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

func main() {
	var includes includePathList
	var (
		output  string
		rules   string
		model   string
		layout  string
		variant string
		options string
		quiet   bool
	)

	flag.Var(&includes, "I", "append a directory to the include search path (repeatable)")
	flag.StringVar(&output, "o", "-", "output file, or - for stdout")
	flag.StringVar(&rules, "rules", "", "rules base name")
	flag.StringVar(&model, "model", "", "keyboard model")
	flag.StringVar(&layout, "layout", "", "comma-separated layout list")
	flag.StringVar(&variant, "variant", "", "comma-separated variant list")
	flag.StringVar(&options, "options", "", "comma-separated option list")
	flag.BoolVar(&quiet, "quiet", false, "suppress diagnostic output")
	flag.Parse()

	level := xkb.SevWarn
	if quiet {
		level = xkb.SevError
	}
	ctx := xkb.NewContext(0, xkb.WithLogger(xkb.NewStdLogger(level)), xkb.WithIncludePath(includes...))

	var km *xkb.Keymap
	var err error
	if layout != "" || rules != "" || model != "" || variant != "" || options != "" {
		km, err = xkbcomp.NewKeymapFromNames(ctx, names.Names{
			Rules: rules, Model: model, Layout: layout, Variant: variant, Options: options,
		})
	} else {
		var src []byte
		if args := flag.Args(); len(args) > 0 {
			src, err = os.ReadFile(args[0])
		} else {
			src, err = io.ReadAll(os.Stdin)
		}
		if err == nil {
			km, err = xkbcomp.NewKeymapFromString(ctx, src, xkbcomp.FormatTextV1)
		}
	}
	if err != nil {
		if ce, ok := err.(*xkbcomp.CompileError); ok {
			for _, d := range ce.Diagnostics {
				fmt.Fprintln(os.Stderr, d.String())
			}
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}

	out := os.Stdout
	if output != "-" {
		f, err := os.Create(output)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	fmt.Fprint(out, xkbcomp.GetAsString(km, xkbcomp.FormatTextV1))
}
