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

import (
	"strings"

	"github.com/xkbgo/xkbcommon/ast"
	"github.com/xkbgo/xkbcommon/xkb"
)

// actionNames is the complete actionStrings alias table from
// original_source/src/xkbcomp/action.c, mapping every spelling the
// compiler accepts onto its canonical ActionKind (spec.md §10
// "Supplemented Features").
var actionNames = map[string]xkb.ActionKind{
	"noaction":           xkb.ActionNone,
	"setmods":            xkb.ActionSetMods,
	"latchmods":          xkb.ActionLatchMods,
	"lockmods":           xkb.ActionLockMods,
	"setgroup":           xkb.ActionSetGroup,
	"latchgroup":         xkb.ActionLatchGroup,
	"lockgroup":          xkb.ActionLockGroup,
	"moveptr":            xkb.ActionMovePtr,
	"movepointer":        xkb.ActionMovePtr,
	"ptrbtn":             xkb.ActionPtrBtn,
	"pointerbutton":      xkb.ActionPtrBtn,
	"lockptrbtn":         xkb.ActionLockPtrBtn,
	"lockpointerbutton":  xkb.ActionLockPtrBtn,
	"lockptrbutton":      xkb.ActionLockPtrBtn,
	"lockpointerbtn":     xkb.ActionLockPtrBtn,
	"setptrdflt":         xkb.ActionSetPtrDflt,
	"setpointerdefault":  xkb.ActionSetPtrDflt,
	"isolock":            xkb.ActionISOLock,
	"terminate":          xkb.ActionTerminate,
	"terminateserver":    xkb.ActionTerminate,
	"switchscreen":       xkb.ActionSwitchScreen,
	"setcontrols":        xkb.ActionSetControls,
	"lockcontrols":       xkb.ActionLockControls,
	"actionmessage":      xkb.ActionMessage,
	"messageaction":      xkb.ActionMessage,
	"message":            xkb.ActionMessage,
	"redirect":           xkb.ActionRedirectKey,
	"redirectkey":        xkb.ActionRedirectKey,
	"devbtn":             xkb.ActionDeviceBtn,
	"devicebtn":          xkb.ActionDeviceBtn,
	"devbutton":          xkb.ActionDeviceBtn,
	"devicebutton":       xkb.ActionDeviceBtn,
	"lockdevbtn":         xkb.ActionLockDeviceBtn,
	"lockdevicebtn":      xkb.ActionLockDeviceBtn,
	"lockdevbutton":      xkb.ActionLockDeviceBtn,
	"lockdevicebutton":   xkb.ActionLockDeviceBtn,
	"devval":             xkb.ActionDeviceValuator,
	"deviceval":          xkb.ActionDeviceValuator,
	"devvaluator":        xkb.ActionDeviceValuator,
	"devicevaluator":     xkb.ActionDeviceValuator,
	"private":            xkb.ActionPrivate,
}

// fieldNames is the complete fieldStrings alias table from action.c,
// normalizing every spelling an action call's argument names can take
// onto one canonical key used by the switch statements below.
var fieldNames = map[string]string{
	"clearlocks":       "clearLocks",
	"latchtolock":      "latchToLock",
	"genkeyevent":      "genKeyEvent",
	"generatekeyevent": "genKeyEvent",
	"report":           "report",
	"default":          "default",
	"affect":           "affect",
	"increment":        "increment",
	"modifiers":        "modifiers",
	"mods":             "modifiers",
	"group":            "group",
	"x":                "x",
	"y":                "y",
	"accel":            "accel",
	"accelerate":       "accel",
	"repeat":           "accel",
	"button":           "button",
	"value":            "value",
	"controls":         "controls",
	"ctrls":            "controls",
	"type":             "type",
	"count":            "count",
	"screen":           "screen",
	"same":             "same",
	"sameserver":       "same",
	"data":             "data",
	"device":           "device",
	"dev":              "device",
	"key":              "key",
	"keycode":          "key",
}

// actionDefaults seeds per-kind field defaults, keyed by (kind,
// canonical field), mirroring action.c's "global defaults per action"
// (spec §9 "Design notes"; spec.md §10).
var actionDefaults = map[xkb.ActionKind]map[string]bool{
	xkb.ActionLockMods:  {"clearLocks": false},
	xkb.ActionLatchMods: {"latchToLock": false},
}

// buildAction constructs an *xkb.Action from one `Name(field=value,
// ...)` action call, applying defaults first and then each explicit
// argument in source order (spec §4.5's action template; spec.md §9
// "Global defaults per action").
func (b *builder) buildAction(call *ast.ActionCallExpr) *xkb.Action {
	kind, ok := actionNames[strings.ToLower(call.Name)]
	if !ok {
		b.errorf(call.Pos, xkb.SemanticError, "unknown action %q", call.Name)
		return nil
	}
	act := &xkb.Action{Kind: kind}
	if defs, ok := actionDefaults[kind]; ok {
		if v, ok := defs["clearLocks"]; ok {
			act.ClearLocks = v
		}
		if v, ok := defs["latchToLock"]; ok {
			act.LatchToLock = v
		}
	}

	for _, arg := range call.Args {
		field, ok := fieldNames[strings.ToLower(arg.Field)]
		if !ok {
			b.warnf(call.Pos, "unknown field %q in %s action", arg.Field, call.Name)
			continue
		}
		b.applyActionField(act, field, arg.Value)
	}
	return act
}

func (b *builder) applyActionField(act *xkb.Action, field string, value ast.Expr) {
	switch act.Kind {
	case xkb.ActionSetMods, xkb.ActionLatchMods, xkb.ActionLockMods:
		b.applyModsField(act, field, value)
	case xkb.ActionSetGroup, xkb.ActionLatchGroup, xkb.ActionLockGroup:
		b.applyGroupField(act, field, value)
	case xkb.ActionPtrBtn, xkb.ActionLockPtrBtn:
		b.applyPtrBtnField(act, field, value)
	case xkb.ActionSetPtrDflt:
		b.applySetPtrDfltField(act, field, value)
	case xkb.ActionMovePtr:
		b.applyMovePtrField(act, field, value)
	case xkb.ActionISOLock:
		b.applyISOLockField(act, field, value)
	case xkb.ActionSwitchScreen:
		b.applySwitchScreenField(act, field, value)
	case xkb.ActionSetControls, xkb.ActionLockControls:
		b.applyControlsField(act, field, value)
	case xkb.ActionMessage:
		b.applyMessageField(act, field, value)
	case xkb.ActionRedirectKey:
		b.applyRedirectField(act, field, value)
	case xkb.ActionDeviceBtn, xkb.ActionLockDeviceBtn:
		b.applyDeviceBtnField(act, field, value)
	case xkb.ActionDeviceValuator:
		b.applyDeviceValuatorField(act, field, value)
	}
}

func (b *builder) applyModsField(act *xkb.Action, field string, value ast.Expr) {
	switch field {
	case "modifiers":
		v, err := ast.Eval(value, ast.KindModMask, b)
		if err == nil {
			act.Mods = xkb.ModMask(v.Mask)
		}
	case "clearLocks":
		v, err := ast.Eval(value, ast.KindBool, b)
		if err == nil {
			act.ClearLocks = v.Bool
		}
	case "latchToLock":
		v, err := ast.Eval(value, ast.KindBool, b)
		if err == nil {
			act.LatchToLock = v.Bool
		}
	}
}

func (b *builder) applyGroupField(act *xkb.Action, field string, value ast.Expr) {
	switch field {
	case "group":
		v, err := ast.Eval(value, ast.KindGroup, b)
		if err == nil {
			act.Group = int32(v.Int)
			act.GroupAbsolute = v.Sign == ast.GroupAbsolute
			if v.Sign == ast.GroupNegative {
				act.Group = -act.Group
			}
		}
	case "clearLocks":
		v, err := ast.Eval(value, ast.KindBool, b)
		if err == nil {
			act.ClearLocks = v.Bool
		}
	case "latchToLock":
		v, err := ast.Eval(value, ast.KindBool, b)
		if err == nil {
			act.LatchToLock = v.Bool
		}
	}
}

func (b *builder) applyPtrBtnField(act *xkb.Action, field string, value ast.Expr) {
	switch field {
	case "button":
		v, err := ast.Eval(value, ast.KindButton, b)
		if err == nil {
			act.Button = int(v.Int)
		}
	case "count":
		v, err := ast.Eval(value, ast.KindInt, b)
		if err == nil {
			act.Count = int32(v.Int)
		}
	case "affect":
		resolveLockWhich(act, value, b)
	}
}

// resolveLockWhich handles LockPtrBtn/SetPtrDflt's "affect=" field
// (action.c's HandlePtrBtn/HandleSetPtrDflt resolve it via the
// lockWhich enum, not the ISOLock affect mask): "both" toggles
// normally, "lock"/"unlock" suppress the other half, and "neither"
// suppresses both.
func resolveLockWhich(act *xkb.Action, value ast.Expr, b *builder) {
	v, err := ast.EvalEnum(value, "lockWhich", b)
	if err != nil {
		return
	}
	flags := uint32(v.Int)
	act.NoLockFlag = flags&lockNoLockBit != 0
	act.NoUnlockFlag = flags&lockNoUnlockBit != 0
}

func (b *builder) applySetPtrDfltField(act *xkb.Action, field string, value ast.Expr) {
	switch field {
	case "affect":
		resolveLockWhich(act, value, b)
	case "value":
		v, err := ast.Eval(value, ast.KindInt, b)
		if err == nil {
			act.DfltBtn = int(v.Int)
			act.DfltBtnAbsolute = true
		}
	}
}

func (b *builder) applyMovePtrField(act *xkb.Action, field string, value ast.Expr) {
	switch field {
	case "x":
		v, err := ast.Eval(value, ast.KindInt, b)
		if err == nil {
			act.PtrDX = int32(v.Int)
		}
	case "y":
		v, err := ast.Eval(value, ast.KindInt, b)
		if err == nil {
			act.PtrDY = int32(v.Int)
		}
	case "accel":
		v, err := ast.Eval(value, ast.KindBool, b)
		if err == nil {
			act.PtrAccel = v.Bool
		}
	}
}

// applyISOLockField implements HandleISOLock (spec §9 "Open
// questions"): the source tests `else if (F_Affect)`, a nonzero
// constant that is always true, so any field other than Modifiers/
// Group falls into the affect branch regardless of its real name.
// This builder instead dispatches on the resolved field key, so only
// "affect" sets ISOAffect (or, for a lockWhich name such as "unlock",
// the NoLock/NoUnlock flags) and every other field keeps its own
// meaning.
func (b *builder) applyISOLockField(act *xkb.Action, field string, value ast.Expr) {
	switch field {
	case "modifiers":
		v, err := ast.Eval(value, ast.KindModMask, b)
		if err == nil {
			act.Mods = xkb.ModMask(v.Mask)
			act.ISODfltIsGroup = false
		}
	case "group":
		// ISOLock always locks the group relative to its current value
		// (xkb/filter.go's isoLockFilter does s.group.Locked += act.Group),
		// so v.Sign only decides whether evalGroup decremented a bare
		// 1-based index and whether act.Group is negated for a '-' sign;
		// act.Group itself is never treated as absolute for this kind.
		v, err := ast.Eval(value, ast.KindGroup, b)
		if err == nil {
			act.Group = int32(v.Int)
			if v.Sign == ast.GroupNegative {
				act.Group = -act.Group
			}
			act.ISODfltIsGroup = true
		}
	case "affect":
		v, err := ast.EvalEnum(value, "isoAffect", b)
		if err == nil {
			act.ISOAffect = xkb.ISOAffectKind(v.Int)
			return
		}
		resolveLockWhich(act, value, b)
	}
}

func (b *builder) applySwitchScreenField(act *xkb.Action, field string, value ast.Expr) {
	switch field {
	case "screen":
		v, err := ast.Eval(value, ast.KindInt, b)
		if err == nil {
			act.Screen = int(v.Int)
			act.ScreenAbsolute = true
		}
	case "same":
		v, err := ast.Eval(value, ast.KindBool, b)
		if err == nil {
			act.SameServer = v.Bool
		}
	}
}

func (b *builder) applyControlsField(act *xkb.Action, field string, value ast.Expr) {
	if field != "controls" {
		return
	}
	v, err := ast.EvalMask(value, "controls", b)
	if err == nil {
		act.Controls = v.Mask
	}
}

// applyMessageField implements HandleActionMessage, including its
// observed (and, per spec §9, intentionally preserved) "report="
// behavior: the handler clears the press/release bits and then
// ASSIGNS the new mask rather than OR-ing it in, so a prior
// genKeyEvent= true set before report= is silently dropped.
func (b *builder) applyMessageField(act *xkb.Action, field string, value ast.Expr) {
	switch field {
	case "report":
		v, err := ast.EvalMask(value, "evNames", b)
		if err != nil {
			return
		}
		act.MessageFlags = uint8(v.Mask) & (xkb.MessageOnPress | xkb.MessageOnRelease)
	case "genKeyEvent":
		v, err := ast.Eval(value, ast.KindBool, b)
		if err != nil {
			return
		}
		if v.Bool {
			act.MessageFlags |= xkb.MessageGenKeyEvent
		} else {
			act.MessageFlags &^= xkb.MessageGenKeyEvent
		}
	case "data":
		v, err := ast.Eval(value, ast.KindString, b)
		if err != nil {
			return
		}
		n := copy(act.MessageData[:], v.Str)
		_ = n
	}
}

func (b *builder) applyRedirectField(act *xkb.Action, field string, value ast.Expr) {
	switch field {
	case "key":
		if kn, ok := value.(*ast.KeyNameLit); ok {
			if kc, ok := b.keyCode[kn.Name]; ok {
				act.RedirectKeycode = uint8(kc)
			}
			return
		}
		v, err := ast.Eval(value, ast.KindInt, b)
		if err == nil {
			act.RedirectKeycode = uint8(v.Int)
		}
	case "modifiers":
		v, err := ast.Eval(value, ast.KindModMask, b)
		if err == nil {
			act.RedirectMods = xkb.ModMask(v.Mask)
		}
	}
}

func (b *builder) applyDeviceBtnField(act *xkb.Action, field string, value ast.Expr) {
	switch field {
	case "device":
		v, err := ast.Eval(value, ast.KindInt, b)
		if err == nil {
			act.Device = int(v.Int)
		}
	case "button":
		v, err := ast.Eval(value, ast.KindInt, b)
		if err == nil {
			act.DeviceButton = int(v.Int)
		}
	case "affect":
		resolveLockWhich(act, value, b)
	}
}

func (b *builder) applyDeviceValuatorField(act *xkb.Action, field string, value ast.Expr) {
	switch field {
	case "device":
		v, err := ast.Eval(value, ast.KindInt, b)
		if err == nil {
			act.Device = int(v.Int)
		}
	case "count", "type": // valuator index, aliased via "type"/"count" in the source table
		v, err := ast.Eval(value, ast.KindInt, b)
		if err == nil {
			act.Valuator = int(v.Int)
		}
	case "value":
		v, err := ast.Eval(value, ast.KindInt, b)
		if err == nil {
			act.ValuatorValue = int(v.Int)
		}
	}
}
