package input

import "gonum.org/v1/gonum/spatial/r2"

// Action is a bindable movement control.
type Action uint8

const (
	ActionNone Action = iota
	ActionForward
	ActionBackward
	ActionLeft
	ActionRight
)

func (a Action) String() string {
	switch a {
	case ActionForward:
		return "forward"
	case ActionBackward:
		return "backward"
	case ActionLeft:
		return "left"
	case ActionRight:
		return "right"
	default:
		return "none"
	}
}

// Bindings maps platform key codes to actions.
type Bindings map[int32]Action

// Keyboard tracks held movement keys. Events arrive from the window loop;
// the vessel reads the resulting intent once per tick.
type Keyboard struct {
	bindings Bindings
	held     map[int32]bool
	enabled  bool
}

// NewKeyboard creates an enabled keyboard source with the given bindings.
func NewKeyboard(bindings Bindings) *Keyboard {
	return &Keyboard{
		bindings: bindings,
		held:     make(map[int32]bool),
		enabled:  true,
	}
}

// Press records a key going down. Unbound keys are ignored.
func (k *Keyboard) Press(key int32) {
	if !k.enabled {
		return
	}
	if _, ok := k.bindings[key]; ok {
		k.held[key] = true
	}
}

// Release records a key going up.
func (k *Keyboard) Release(key int32) {
	delete(k.held, key)
}

// Blur clears every held key, as when the window loses focus and release
// events would otherwise be missed.
func (k *Keyboard) Blur() {
	clear(k.held)
}

// SetEnabled turns input on or off. Disabling also clears held keys.
func (k *Keyboard) SetEnabled(enabled bool) {
	k.enabled = enabled
	if !enabled {
		k.Blur()
	}
}

// Enabled reports whether input is accepted.
func (k *Keyboard) Enabled() bool { return k.enabled }

// ControlFlags returns the currently held controls.
func (k *Keyboard) ControlFlags() Flags {
	var f Flags
	for key := range k.held {
		switch k.bindings[key] {
		case ActionForward:
			f.Forward = true
		case ActionBackward:
			f.Backward = true
		case ActionLeft:
			f.Left = true
		case ActionRight:
			f.Right = true
		}
	}
	return f
}

// MovementVector returns the normalized intent for the held controls.
func (k *Keyboard) MovementVector() r2.Vec {
	return k.ControlFlags().Vector()
}

// Keys returns every key bound to the action.
func (k *Keyboard) Keys(a Action) []int32 {
	var keys []int32
	for key, act := range k.bindings {
		if act == a {
			keys = append(keys, key)
		}
	}
	return keys
}
