package controller

import "strings"

// Action is a recognized input intent. Raw key identifiers are mapped to
// actions at the input boundary by a KeyMap.
type Action int

const (
	ActionNone Action = iota
	Forward
	Back
	TurnLeft
	TurnRight
	SpeedModifier
	ToggleView
	LookButton

	actionCount
)

var actionNames = [actionCount]string{
	ActionNone:    "none",
	Forward:       "forward",
	Back:          "back",
	TurnLeft:      "turn_left",
	TurnRight:     "turn_right",
	SpeedModifier: "speed_modifier",
	ToggleView:    "toggle_view",
	LookButton:    "look_button",
}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return "unknown"
	}
	return actionNames[a]
}

// ParseAction resolves an action by its config name.
func ParseAction(name string) (Action, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range actionNames {
		if Action(a) != ActionNone && n == name {
			return Action(a), true
		}
	}
	return ActionNone, false
}

// KeyMap maps lower-case raw key identifiers to actions.
type KeyMap map[string]Action

// DefaultKeyMap binds WASD movement, shift for speed and c for the view toggle.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		"w":     Forward,
		"s":     Back,
		"a":     TurnLeft,
		"d":     TurnRight,
		"shift": SpeedModifier,
		"c":     ToggleView,
	}
}

// Lookup is case-insensitive, so "C" and "c" resolve alike.
func (m KeyMap) Lookup(key string) (Action, bool) {
	a, ok := m[strings.ToLower(key)]
	if !ok || a == ActionNone {
		return ActionNone, false
	}
	return a, true
}

// ButtonMask is the set of pointer buttons held during a pointer event.
type ButtonMask uint8

const (
	ButtonLeft ButtonMask = 1 << iota
	ButtonRight
	ButtonMiddle
)

func (b ButtonMask) Has(o ButtonMask) bool {
	return o != 0 && b&o == o
}

// ParseButton resolves a button by its config name.
func ParseButton(name string) (ButtonMask, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "left":
		return ButtonLeft, true
	case "right":
		return ButtonRight, true
	case "middle":
		return ButtonMiddle, true
	}
	return 0, false
}

// InputState holds the pressed state of every action.
type InputState [actionCount]bool

func (s *InputState) set(a Action, held bool) {
	if a <= ActionNone || a >= actionCount {
		return
	}
	s[a] = held
}

// Held reports whether a is currently held.
func (s *InputState) Held(a Action) bool {
	if a <= ActionNone || a >= actionCount {
		return false
	}
	return s[a]
}
