package component

import "image/color"

// Box is an axis-aligned cuboid centred on the entity's transform before
// rotation. Width runs along X, Height along Y and Depth along Z.
type Box struct {
	Width  float64
	Height float64
	Depth  float64
	Color  color.Color
}

var BoxComponent = NewComponent[Box]()
