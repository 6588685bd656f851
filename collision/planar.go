// Package collision resolves zoom rays against level geometry. Obstacles
// live on the ground plane, so queries project the 3D ray onto XZ and run
// it through a chipmunk space of static shapes.
package collision

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/stagecam/scene"
)

// Planar is a scene.Raycaster backed by a 2D physics space. The X axis of
// the space maps to world X and the Y axis to world Z.
type Planar struct {
	space *cp.Space
}

func NewPlanar() *Planar {
	return &Planar{space: cp.NewSpace()}
}

// AddBox inserts an axis-aligned static obstacle given its XZ extents.
func (p *Planar) AddBox(min, max mgl64.Vec2) {
	bb := cp.BB{L: min.X(), B: min.Y(), R: max.X(), T: max.Y()}
	shape := cp.NewBox2(p.space.StaticBody, bb, 0)
	p.space.AddShape(shape)
}

// AddSegment inserts a static wall segment given its XZ endpoints.
func (p *Planar) AddSegment(a, b mgl64.Vec2, thickness float64) {
	shape := cp.NewSegment(p.space.StaticBody,
		cp.Vector{X: a.X(), Y: a.Y()},
		cp.Vector{X: b.X(), Y: b.Y()},
		thickness)
	p.space.AddShape(shape)
}

// Load rebuilds the space from a set of obstacle specs.
func (p *Planar) Load(obstacles []scene.ObstacleSpec) {
	p.space = cp.NewSpace()
	for _, o := range obstacles {
		p.AddBox(mgl64.Vec2{o.Min[0], o.Min[1]}, mgl64.Vec2{o.Max[0], o.Max[1]})
	}
}

// Raycast projects the ray onto the ground plane and returns the first
// obstacle it crosses. Rays that are near-vertical have no planar extent
// and never hit.
func (p *Planar) Raycast(origin, dir mgl64.Vec3, maxDist float64) (scene.Hit, bool) {
	if maxDist <= 0 {
		return scene.Hit{}, false
	}
	flat := mgl64.Vec2{dir.X(), dir.Z()}
	if flat.Len() < 1e-9 {
		return scene.Hit{}, false
	}

	end := origin.Add(dir.Mul(maxDist))
	a := cp.Vector{X: origin.X(), Y: origin.Z()}
	b := cp.Vector{X: end.X(), Y: end.Z()}

	info := p.space.SegmentQueryFirst(a, b, 0, cp.SHAPE_FILTER_ALL)
	if info.Shape == nil {
		return scene.Hit{}, false
	}
	return scene.Hit{
		Fraction: info.Alpha,
		Normal:   mgl64.Vec3{info.Normal.X, 0, info.Normal.Y},
	}, true
}
