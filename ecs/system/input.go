package system

import (
	"errors"
	"fmt"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/drivesim/ecs"
	"github.com/milk9111/drivesim/vehicle"
)

// Binding maps a driving key to the physical keys and gamepad buttons that
// hold it down.
type Binding struct {
	Key     vehicle.Key
	Keys    []ebiten.Key
	Buttons []ebiten.StandardGamepadButton
}

func DefaultBindings() []Binding {
	return []Binding{
		{Key: vehicle.KeyUp, Keys: []ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW}, Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonLeftTop, ebiten.StandardGamepadButtonRightBottom}},
		{Key: vehicle.KeyDown, Keys: []ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS}, Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonLeftBottom, ebiten.StandardGamepadButtonRightRight}},
		{Key: vehicle.KeyLeft, Keys: []ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA}, Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonLeftLeft}},
		{Key: vehicle.KeyRight, Keys: []ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD}, Buttons: []ebiten.StandardGamepadButton{ebiten.StandardGamepadButtonLeftRight}},
	}
}

var ErrUnknownBinding = errors.New("input: unknown binding")

// BindingsFromConfig starts from DefaultBindings and replaces the keyboard keys
// of every driving key named in keys. Gamepad buttons are kept.
func BindingsFromConfig(keys map[string][]string) ([]Binding, error) {
	bindings := DefaultBindings()
	for name, keyNames := range keys {
		key, ok := vehicle.ParseKey(name)
		if !ok {
			return nil, fmt.Errorf("%w: driving key %q", ErrUnknownBinding, name)
		}
		mapped := make([]ebiten.Key, 0, len(keyNames))
		for _, keyName := range keyNames {
			var k ebiten.Key
			if err := k.UnmarshalText([]byte(keyName)); err != nil {
				return nil, fmt.Errorf("%w: %s: key %q", ErrUnknownBinding, key, keyName)
			}
			mapped = append(mapped, k)
		}
		for i := range bindings {
			if bindings[i].Key == key {
				bindings[i].Keys = mapped
			}
		}
	}
	return bindings, nil
}

// InputSystem polls the keyboard and first gamepad and turns state changes
// into key-down/key-up events on the vehicle input.
type InputSystem struct {
	input    *vehicle.Input
	bindings []Binding
	held     map[vehicle.Key]bool

	keyPressed    func(ebiten.Key) bool
	buttonPressed func(ebiten.StandardGamepadButton) bool
	stickX        func() float64
}

func NewInputSystem(input *vehicle.Input, bindings []Binding) *InputSystem {
	if bindings == nil {
		bindings = DefaultBindings()
	}
	return &InputSystem{
		input:         input,
		bindings:      bindings,
		held:          make(map[vehicle.Key]bool, len(bindings)),
		keyPressed:    ebiten.IsKeyPressed,
		buttonPressed: firstGamepadButton,
		stickX:        firstGamepadStickX,
	}
}

func (s *InputSystem) Update(_ *ecs.World) {
	if s == nil || s.input == nil {
		return
	}

	const stickDeadzone = 0.3
	stick := s.stickX()

	for _, b := range s.bindings {
		pressed := false
		for _, k := range b.Keys {
			if s.keyPressed(k) {
				pressed = true
				break
			}
		}
		for _, btn := range b.Buttons {
			if pressed {
				break
			}
			pressed = s.buttonPressed(btn)
		}
		if !pressed && math.Abs(stick) > stickDeadzone {
			pressed = (b.Key == vehicle.KeyLeft && stick < 0) || (b.Key == vehicle.KeyRight && stick > 0)
		}

		if pressed == s.held[b.Key] {
			continue
		}
		s.held[b.Key] = pressed
		if pressed {
			s.input.OnKeyDown(b.Key)
		} else {
			s.input.OnKeyUp(b.Key)
		}
	}
}

// Release forgets every held key, e.g. when the game is paused.
func (s *InputSystem) Release() {
	for k := range s.held {
		s.held[k] = false
	}
	s.input.Reset()
}

func firstGamepadButton(btn ebiten.StandardGamepadButton) bool {
	ids := ebiten.AppendGamepadIDs(nil)
	if len(ids) == 0 {
		return false
	}
	return ebiten.IsStandardGamepadButtonPressed(ids[0], btn)
}

func firstGamepadStickX() float64 {
	ids := ebiten.AppendGamepadIDs(nil)
	if len(ids) == 0 {
		return 0
	}
	return ebiten.StandardGamepadAxisValue(ids[0], ebiten.StandardGamepadAxisLeftStickHorizontal)
}
