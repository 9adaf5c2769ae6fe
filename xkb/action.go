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

// ActionKind tags the 22 action variants a key level may carry. Every
// kind shares one Action payload, the same way the source keys a small
// union on action->type; a Go struct with kind-specific fields reads
// better than reintroducing a union via unsafe or interfaces for a
// fixed, closed set like this one.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionSetMods
	ActionLatchMods
	ActionLockMods
	ActionSetGroup
	ActionLatchGroup
	ActionLockGroup
	ActionMovePtr
	ActionPtrBtn
	ActionLockPtrBtn
	ActionSetPtrDflt
	ActionISOLock
	ActionTerminate
	ActionSwitchScreen
	ActionSetControls
	ActionLockControls
	ActionMessage
	ActionRedirectKey
	ActionDeviceBtn
	ActionLockDeviceBtn
	ActionDeviceValuator
	ActionPrivate
)

func (k ActionKind) String() string {
	switch k {
	case ActionNone:
		return "NoAction"
	case ActionSetMods:
		return "SetMods"
	case ActionLatchMods:
		return "LatchMods"
	case ActionLockMods:
		return "LockMods"
	case ActionSetGroup:
		return "SetGroup"
	case ActionLatchGroup:
		return "LatchGroup"
	case ActionLockGroup:
		return "LockGroup"
	case ActionMovePtr:
		return "MovePtr"
	case ActionPtrBtn:
		return "PtrBtn"
	case ActionLockPtrBtn:
		return "LockPtrBtn"
	case ActionSetPtrDflt:
		return "SetPtrDflt"
	case ActionISOLock:
		return "ISOLock"
	case ActionTerminate:
		return "Terminate"
	case ActionSwitchScreen:
		return "SwitchScreen"
	case ActionSetControls:
		return "SetControls"
	case ActionLockControls:
		return "LockControls"
	case ActionMessage:
		return "ActionMessage"
	case ActionRedirectKey:
		return "RedirectKey"
	case ActionDeviceBtn:
		return "DeviceBtn"
	case ActionLockDeviceBtn:
		return "LockDeviceBtn"
	case ActionDeviceValuator:
		return "DeviceValuator"
	case ActionPrivate:
		return "Private"
	default:
		return "Unknown"
	}
}

// ISOAffectKind tells HandleISOLock's filter which component an
// xkb_isolock() action's "affect" field names. ISOAffectDefault means
// the field was never set explicitly; the filter falls back to
// ISODfltIsGroup to choose between locking mods and locking the group.
type ISOAffectKind int

const (
	ISOAffectDefault ISOAffectKind = iota
	ISOAffectMods
	ISOAffectGroup
	ISOAffectCtrls
	ISOAffectPtr
)

// MessageFlag bits, OR'd into Action.MessageFlags.
const (
	MessageOnPress    uint8 = 1 << 0
	MessageOnRelease  uint8 = 1 << 1
	MessageGenKeyEvent uint8 = 1 << 2
)

// AffectLockKind selects which of Lock/Unlock a SetMods/LatchMods/
// SetGroup/LatchGroup action's "clearLocks" style fields target; kept
// separate from the boolean ClearLocks/LatchToLock fields below
// because LockPtrBtn and ISOLock additionally gate on NoLock/NoUnlock.
type AffectLockKind int

const (
	AffectLockAndUnlock AffectLockKind = iota
	AffectLockOnly
	AffectUnlockOnly
)

// Action is the uniform payload carried by every key level that has
// one (spec §3: "a tagged variant over ~15 kinds ... a small fixed-size
// payload"). Only the fields relevant to Kind are meaningful; the rest
// sit at their zero value. See xkbcomp/action.go for how
// field assignments during compilation populate this struct.
type Action struct {
	Kind ActionKind

	// SetMods / LatchMods / LockMods, and the mods half of ISOLock.
	Mods        ModMask
	ClearLocks  bool
	LatchToLock bool

	// SetGroup / LatchGroup / LockGroup, and the group half of ISOLock.
	Group         int32
	GroupAbsolute bool

	// MovePtr
	PtrDX, PtrDY int32
	PtrAccel     bool

	// PtrBtn / LockPtrBtn / SetPtrDflt
	Button          int
	Count           int32
	NoLockFlag      bool
	NoUnlockFlag    bool
	DfltBtn         int
	DfltBtnAbsolute bool

	// ISOLock
	ISOAffect        ISOAffectKind
	ISODfltIsGroup   bool
	ISONoLock        bool
	ISONoUnlock      bool
	ISOUseModMapMods bool

	// SwitchScreen
	Screen         int
	ScreenAbsolute bool
	SameServer     bool

	// SetControls / LockControls
	Controls uint32

	// ActionMessage
	MessageFlags uint8
	MessageData  [6]byte

	// RedirectKey
	RedirectKeycode uint8
	RedirectMods    ModMask

	// DeviceBtn / LockDeviceBtn / DeviceValuator
	Device        int
	DeviceButton  int
	Valuator      int
	ValuatorValue int

	// Private
	PrivateType byte
	PrivateData [7]byte
}
