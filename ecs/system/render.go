package system

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/drivesim/camera"
	"github.com/milk9111/drivesim/ecs"
	"github.com/milk9111/drivesim/ecs/component"
	"golang.org/x/image/colornames"
)

// clipEpsilon keeps projected points off the eye plane.
const clipEpsilon = 1e-3

// RenderSystem draws the scene as a wireframe seen from the last submitted
// camera pose. Render only records the request; Draw does the work on the
// ebiten draw callback.
type RenderSystem struct {
	lens   camera.Lens
	width  int
	height int

	scene   *ecs.World
	pose    camera.Pose
	hasPose bool

	LineWidth float32
}

func NewRenderSystem(lens camera.Lens, width, height int) *RenderSystem {
	return &RenderSystem{lens: lens, width: width, height: height, LineWidth: 1.5}
}

func (r *RenderSystem) Render(scene *ecs.World, pose camera.Pose) {
	r.scene = scene
	r.pose = pose
	r.hasPose = true
}

// SetViewportSize is called from Layout whenever the window is resized.
func (r *RenderSystem) SetViewportSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.width = width
	r.height = height
}

func (r *RenderSystem) ViewportSize() (int, int) {
	return r.width, r.height
}

func (r *RenderSystem) SetLens(lens camera.Lens) {
	r.lens = lens
}

// ViewProjection returns the combined matrix for the current pose and
// viewport.
func (r *RenderSystem) ViewProjection() mgl64.Mat4 {
	aspect := 1.0
	if r.height > 0 {
		aspect = float64(r.width) / float64(r.height)
	}
	proj := mgl64.Perspective(mgl64.DegToRad(r.lens.FOV), aspect, r.lens.Near, r.lens.Far)
	return proj.Mul4(lookAt(r.pose))
}

func lookAt(pose camera.Pose) mgl64.Mat4 {
	eye := mgl64.Vec3{pose.Eye.X, pose.Eye.Y, pose.Eye.Z}
	target := mgl64.Vec3{pose.Target.X, pose.Target.Y, pose.Target.Z}
	up := mgl64.Vec3{0, 1, 0}
	// Looking straight down: world -Z becomes screen up.
	if dir := target.Sub(eye); dir.Cross(up).Len() < 1e-9 {
		up = mgl64.Vec3{0, 0, -1}
	}
	return mgl64.LookAtV(eye, target, up)
}

// Project maps a world point to screen pixels. ok is false when the point is
// behind the eye.
func (r *RenderSystem) Project(p mgl64.Vec3) (x, y float64, ok bool) {
	clip := r.ViewProjection().Mul4x1(p.Vec4(1))
	if clip.W() <= clipEpsilon {
		return 0, 0, false
	}
	sx, sy := r.toScreen(clip)
	return sx, sy, true
}

func (r *RenderSystem) toScreen(clip mgl64.Vec4) (float64, float64) {
	nx := clip.X() / clip.W()
	ny := clip.Y() / clip.W()
	return (nx + 1) * 0.5 * float64(r.width), (1 - ny) * 0.5 * float64(r.height)
}

func (r *RenderSystem) Draw(screen *ebiten.Image) {
	sky := color.Color(colornames.Skyblue)
	if r.scene != nil {
		if e, ok := ecs.First(r.scene, component.EnvironmentComponent.Kind()); ok {
			if env, ok := ecs.Get(r.scene, e, component.EnvironmentComponent.Kind()); ok && env.Sky != nil {
				sky = env.Sky
			}
		}
	}
	screen.Fill(sky)
	if !r.hasPose || r.scene == nil {
		return
	}

	vp := r.ViewProjection()

	ecs.ForEach(r.scene, component.GroundComponent.Kind(), func(_ ecs.Entity, g *component.Ground) {
		r.drawGround(screen, vp, g)
	})

	ecs.ForEach2(r.scene, component.TransformComponent.Kind(), component.BoxComponent.Kind(), func(_ ecs.Entity, tr *component.Transform, box *component.Box) {
		r.drawBox(screen, vp, tr, box)
	})
}

func (r *RenderSystem) drawGround(screen *ebiten.Image, vp mgl64.Mat4, g *component.Ground) {
	half := g.Size / 2
	step := g.GridStep
	if step <= 0 {
		step = g.Size
	}
	clr := g.Color
	if clr == nil {
		clr = colornames.Dimgray
	}
	for v := -half; v <= half+1e-9; v += step {
		r.line(screen, vp, mgl64.Vec3{v, 0, -half}, mgl64.Vec3{v, 0, half}, clr)
		r.line(screen, vp, mgl64.Vec3{-half, 0, v}, mgl64.Vec3{half, 0, v}, clr)
	}
}

// boxEdges indexes pairs of corners from boxCorners.
var boxEdges = [12][2]int{
	{0, 1}, {1, 2}, {2, 3}, {3, 0},
	{4, 5}, {5, 6}, {6, 7}, {7, 4},
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

func boxCorners(tr *component.Transform, box *component.Box) [8]mgl64.Vec3 {
	hx, hy, hz := box.Width/2, box.Height/2, box.Depth/2
	model := mgl64.Translate3D(tr.X, tr.Y, tr.Z).Mul4(mgl64.HomogRotate3DY(tr.RotationY))
	local := [8]mgl64.Vec3{
		{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz},
		{-hx, hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}, {-hx, hy, hz},
	}
	var out [8]mgl64.Vec3
	for i, p := range local {
		out[i] = model.Mul4x1(p.Vec4(1)).Vec3()
	}
	return out
}

func (r *RenderSystem) drawBox(screen *ebiten.Image, vp mgl64.Mat4, tr *component.Transform, box *component.Box) {
	clr := box.Color
	if clr == nil {
		clr = colornames.Gray
	}
	corners := boxCorners(tr, box)
	for _, e := range boxEdges {
		r.line(screen, vp, corners[e[0]], corners[e[1]], clr)
	}
}

// line clips the segment against the eye plane before projecting it.
func (r *RenderSystem) line(screen *ebiten.Image, vp mgl64.Mat4, a, b mgl64.Vec3, clr color.Color) {
	ca := vp.Mul4x1(a.Vec4(1))
	cb := vp.Mul4x1(b.Vec4(1))
	if ca.W() <= clipEpsilon && cb.W() <= clipEpsilon {
		return
	}
	if ca.W() <= clipEpsilon {
		ca = clipToEye(cb, ca)
	} else if cb.W() <= clipEpsilon {
		cb = clipToEye(ca, cb)
	}

	x0, y0 := r.toScreen(ca)
	x1, y1 := r.toScreen(cb)
	if math.IsNaN(x0) || math.IsNaN(y0) || math.IsNaN(x1) || math.IsNaN(y1) {
		return
	}
	vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), r.LineWidth, clr, true)
}

// clipToEye moves behind toward front until it sits just in front of the eye.
func clipToEye(front, behind mgl64.Vec4) mgl64.Vec4 {
	t := (front.W() - clipEpsilon) / (front.W() - behind.W())
	return front.Add(behind.Sub(front).Mul(t))
}
