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

package xkbcomp

import "github.com/xkbgo/xkbcommon/xkb"

// controlsNames mirrors original_source/src/xkbcomp/action.c's
// ctrlNames lookup table, used to resolve SetControls/LockControls
// "controls=" mask expressions.
var controlsNames = map[string]uint32{
	"repeatkeys":       1 << 0,
	"repeat":           1 << 0,
	"autorepeat":       1 << 0,
	"slowkeys":         1 << 1,
	"bouncekeys":       1 << 2,
	"stickykeys":       1 << 3,
	"mousekeys":        1 << 4,
	"mousekeysaccel":   1 << 5,
	"accessxkeys":      1 << 6,
	"accessxtimeout":   1 << 7,
	"accessxfeedback":  1 << 8,
	"audiblebell":      1 << 9,
	"ignoregrouplock":  1 << 10,
	"all":              0x7FF,
	"overlay1":         0,
	"overlay2":         0,
	"none":             0,
}

// isoAffectNames mirrors action.c's isoNames table's non-mask
// members: the three "affect" kinds an ISOLock action can explicitly
// name, used by EnumValue("isoAffect", ...).
var isoAffectNames = map[string]xkb.ISOAffectKind{
	"mods":      xkb.ISOAffectMods,
	"modifiers": xkb.ISOAffectMods,
	"group":     xkb.ISOAffectGroup,
	"groups":    xkb.ISOAffectGroup,
	"ctrls":     xkb.ISOAffectCtrls,
	"controls":  xkb.ISOAffectCtrls,
}

// lockWhichNames mirrors action.c's lockWhich table, used by
// LockPtrBtn/SetPtrDflt's "affect=" field: a single enum choice of
// which half of the lock toggle to suppress, not a combinable
// component list (that form belongs to ISOLock's own "affect=" field,
// resolved separately against isoAffectNames via the "isoAffect" enum
// table in env.go).
var lockWhichNames = map[string]uint32{
	"both":    0,
	"lock":    lockNoUnlockBit,
	"unlock":  lockNoLockBit,
	"neither": lockNoLockBit | lockNoUnlockBit,
}

const (
	lockNoLockBit   = 1 << 0 // XkbSA_LockNoLock: suppress the lock half
	lockNoUnlockBit = 1 << 1 // XkbSA_LockNoUnlock: suppress the unlock half
)

// messageEventNames mirrors action.c's evNames table for
// ActionMessage's "report=" field.
var messageEventNames = map[string]uint32{
	"press":      uint32(xkb.MessageOnPress),
	"keypress":   uint32(xkb.MessageOnPress),
	"release":    uint32(xkb.MessageOnRelease),
	"keyrelease": uint32(xkb.MessageOnRelease),
	"all":        uint32(xkb.MessageOnPress | xkb.MessageOnRelease),
	"none":       0,
}
