package component

// Transform places an entity in world space. Y is up; RotationY is the yaw in
// radians applied about the vertical axis.
type Transform struct {
	X, Y, Z   float64
	RotationY float64
}

var TransformComponent = NewComponent[Transform]()
