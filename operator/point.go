package operator

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/stagecam/common"
	"github.com/milk9111/stagecam/curve"
	"github.com/milk9111/stagecam/scene"
)

// MotionPoint is one target of a motion sequence: where the look anchor
// should end up, how the camera should be oriented and zoomed there, and how
// fast to get there. Either fill the fields directly or set Checkpoint to
// have them resolved from the scene.
type MotionPoint struct {
	// Object attaches the camera to a world object for this point and the
	// ones after it; empty detaches.
	Object scene.ObjectID

	// Checkpoint, when set, resolves Position/Look/Object and the optional
	// metadata from the scene's checkpoint registry.
	Checkpoint string

	Position mgl64.Vec3
	Look     mgl64.Vec3 // pitch/yaw/roll, degrees
	Zoom     float64
	Speed    float64

	// EaseInOut ramps speed up and back down across the segment ending at
	// this point.
	EaseInOut bool

	// UseBezier curves the segment ending at this point instead of running
	// it straight.
	UseBezier bool

	// Anchor, when HasAnchor is set, is the explicit exit tangent used as a
	// Bezier control offset for the segment leaving this point.
	Anchor    mgl64.Vec3
	HasAnchor bool

	// Derived when the point joins a sequence.
	camPos     mgl64.Vec3
	tangent    mgl64.Vec3
	hasTangent bool
	path       *curve.Bezier
	distance   float64
	duration   float64
}

// CameraPosition returns the derived world position of the camera at this
// point (look-anchor position plus the rotated zoom offset).
func (p *MotionPoint) CameraPosition() mgl64.Vec3 {
	return p.camPos
}

// Duration returns the derived segment duration in seconds for the segment
// ending at this point. Zero means instantaneous placement.
func (p *MotionPoint) Duration() float64 {
	return p.duration
}

// translate rigidly shifts the point and everything derived from it.
func (p *MotionPoint) translate(delta mgl64.Vec3) {
	p.Position = p.Position.Add(delta)
	p.camPos = p.camPos.Add(delta)
	if p.path != nil {
		p.path.Translate(delta)
	}
}

// rotateByAngles rotates v by pitch/yaw/roll Euler angles in degrees: yaw
// about Y, then pitch about X, then roll about Z.
func rotateByAngles(look mgl64.Vec3, v mgl64.Vec3) mgl64.Vec3 {
	pitch := mgl64.DegToRad(look.X())
	yaw := mgl64.DegToRad(look.Y())
	roll := mgl64.DegToRad(look.Z())
	m := mgl64.Rotate3DY(yaw).Mul3(mgl64.Rotate3DX(pitch)).Mul3(mgl64.Rotate3DZ(roll))
	return m.Mul3x1(v)
}

// cameraOffset is the camera-local zoom offset expressed in world space: the
// camera sits zoom units behind the look anchor along the view axis.
func cameraOffset(look mgl64.Vec3, zoom float64) mgl64.Vec3 {
	if zoom == 0 {
		return mgl64.Vec3{}
	}
	return rotateByAngles(look, mgl64.Vec3{0, 0, zoom})
}

// shortestLook rewrites to so that every axis rotates at most 180 degrees
// away from from.
func shortestLook(from, to mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		common.ShortRotation(from.X(), to.X()),
		common.ShortRotation(from.Y(), to.Y()),
		common.ShortRotation(from.Z(), to.Z()),
	}
}

func lerpLook(from, to mgl64.Vec3, t float64) mgl64.Vec3 {
	return mgl64.Vec3{
		common.Lerp(from.X(), to.X(), t),
		common.Lerp(from.Y(), to.Y(), t),
		common.Lerp(from.Z(), to.Z(), t),
	}
}

// pathProgress maps time progress tp in [0, 1] to normalized path progress
// for the segment from prev to seg, honoring the segment's speed model:
//
//   - eased: speed ramps prev.Speed -> seg.Speed over the first half and back
//     over the second; progress is the running time-integral of speed over
//     the chord distance. The symmetric ramp integrates to exactly the chord
//     by the end of the duration.
//   - linear speeds: speed lerps across the whole duration.
//   - both speeds zero: progress equals time progress.
func pathProgress(prev, seg *MotionPoint, tp float64) float64 {
	tp = common.Clamp01(tp)
	s0, s1 := prev.Speed, seg.Speed
	if (s0 == 0 && s1 == 0) || seg.distance <= 0 || seg.duration <= 0 {
		return tp
	}

	eased := prev.EaseInOut || seg.EaseInOut
	t := tp * seg.duration
	var covered float64
	if !eased {
		cur := common.Lerp(s0, s1, tp)
		covered = (s0 + cur) / 2 * t
	} else {
		half := seg.duration / 2
		if t <= half {
			cur := common.Lerp(s0, s1, t/half)
			covered = (s0 + cur) / 2 * t
		} else {
			cur := common.Lerp(s1, s0, (t-half)/half)
			covered = (s0+s1)/2*half + (s1+cur)/2*(t-half)
		}
	}
	return common.Clamp01(covered / seg.distance)
}

// groundTiltTarget derives the signed roll tilt, in degrees, that aligns the
// camera with the ground plane described by normal, as seen from the given
// look orientation. A world-up normal yields zero.
func groundTiltTarget(look, normal mgl64.Vec3, factor float64) (float64, bool) {
	if normal.Len() == 0 {
		return 0, false
	}
	n := normal.Normalize()
	right := rotateByAngles(look, mgl64.Vec3{1, 0, 0})
	s := common.Clamp(n.Dot(right), -1, 1)
	return mgl64.RadToDeg(math.Asin(s)) * factor, true
}
