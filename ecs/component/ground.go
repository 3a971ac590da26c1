package component

import "image/color"

// Ground is the square plane at Y=0 centred on the origin.
type Ground struct {
	Size     float64
	GridStep float64
	Color    color.Color
}

var GroundComponent = NewComponent[Ground]()
