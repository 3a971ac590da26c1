package vehicle

import (
	"strings"
	"sync/atomic"
)

// Key identifies a directional key as delivered by a key-event source.
type Key string

const (
	KeyUp    Key = "ArrowUp"
	KeyDown  Key = "ArrowDown"
	KeyLeft  Key = "ArrowLeft"
	KeyRight Key = "ArrowRight"
)

// ParseKey accepts the key identifiers above plus the short names
// "up", "down", "left" and "right", ignoring case.
func ParseKey(s string) (Key, bool) {
	switch strings.ToLower(s) {
	case "arrowup", "up":
		return KeyUp, true
	case "arrowdown", "down":
		return KeyDown, true
	case "arrowleft", "left":
		return KeyLeft, true
	case "arrowright", "right":
		return KeyRight, true
	}
	return "", false
}

// Intents is a snapshot of the driver's input.
type Intents struct {
	Accelerate bool
	Brake      bool
	TurnLeft   bool
	TurnRight  bool
}

// Input holds the four driving intents. Each field has exactly one writer
// (the key it is bound to), so plain atomic stores are enough.
type Input struct {
	accelerate atomic.Bool
	brake      atomic.Bool
	turnLeft   atomic.Bool
	turnRight  atomic.Bool
}

// NewInput returns an input with every intent released.
func NewInput() *Input {
	return &Input{}
}

// SetKey records a press or release. Unknown keys are ignored.
func (in *Input) SetKey(key Key, pressed bool) {
	if in == nil {
		return
	}
	switch key {
	case KeyUp:
		in.accelerate.Store(pressed)
	case KeyDown:
		in.brake.Store(pressed)
	case KeyLeft:
		in.turnLeft.Store(pressed)
	case KeyRight:
		in.turnRight.Store(pressed)
	}
}

func (in *Input) OnKeyDown(key Key) { in.SetKey(key, true) }

func (in *Input) OnKeyUp(key Key) { in.SetKey(key, false) }

// Read returns the current intents.
func (in *Input) Read() Intents {
	if in == nil {
		return Intents{}
	}
	return Intents{
		Accelerate: in.accelerate.Load(),
		Brake:      in.brake.Load(),
		TurnLeft:   in.turnLeft.Load(),
		TurnRight:  in.turnRight.Load(),
	}
}

// Reset releases every intent.
func (in *Input) Reset() {
	if in == nil {
		return
	}
	in.accelerate.Store(false)
	in.brake.Store(false)
	in.turnLeft.Store(false)
	in.turnRight.Store(false)
}
