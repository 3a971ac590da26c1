package component

import "image/color"

type Environment struct {
	Sky color.Color
}

var EnvironmentComponent = NewComponent[Environment]()
