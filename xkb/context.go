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
	"os"

	"github.com/xkbgo/xkbcommon/atom"
)

// ContextFlags mirrors context_new's "default-paths flag" input
// (spec §6).
type ContextFlags int

const (
	// ContextNoDefaultIncludes skips seeding the include search path
	// from XKB_CONFIG_ROOT/XDG_CONFIG_HOME.
	ContextNoDefaultIncludes ContextFlags = 1 << iota
)

// Context holds the atom table, include search paths and log sink
// shared by every Keymap compiled from it (spec §3 "Context"). Unlike
// tcell's Screen, which owns OS resources, a Context owns no file
// descriptors outside of the span of an include-resolution call (spec
// §5 "Shared resources").
type Context struct {
	Atoms        *atom.Table
	IncludePaths []string
	Logger       Logger
}

// Option configures a new Context, in the style of tcell's
// constructor-option structs (e.g. NewTerminfoScreenFromTty) rather
// than a config-file format (SPEC_FULL §2.1).
type Option func(*Context)

// WithLogger overrides the default logger, which discards every message.
func WithLogger(l Logger) Option {
	return func(c *Context) { c.Logger = l }
}

// WithIncludePath seeds the context's search path.
func WithIncludePath(paths ...string) Option {
	return func(c *Context) { c.IncludePaths = append(c.IncludePaths, paths...) }
}

// NewContext creates a Context (spec §6 "context_new"). With flags ==
// 0, XKB_CONFIG_ROOT and XDG_CONFIG_HOME (if set) seed the include
// search path, per spec §6 "Environment".
func NewContext(flags ContextFlags, opts ...Option) *Context {
	c := &Context{
		Atoms:  atom.NewTable(),
		Logger: discardLogger{},
	}
	if flags&ContextNoDefaultIncludes == 0 {
		if root := os.Getenv("XKB_CONFIG_ROOT"); root != "" {
			c.IncludePaths = append(c.IncludePaths, root)
		}
		if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
			c.IncludePaths = append(c.IncludePaths, home+"/xkb")
		}
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// IncludePathAppend adds path to the search list used by the include
// resolver (spec §6 "context_include_path_append"). It fails if path
// does not exist.
func (c *Context) IncludePathAppend(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "include_path_append", Path: path, Err: os.ErrInvalid}
	}
	c.IncludePaths = append(c.IncludePaths, path)
	return nil
}
