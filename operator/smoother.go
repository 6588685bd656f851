package operator

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/stagecam/common"
	"github.com/milk9111/stagecam/config"
)

// updateSmoothing runs the free-look frame: wrap correction, exponential
// approach of look/zoom/tilt toward their targets, and collision clamping of
// zoom. Only called when no motion sequence is active.
func (o *Operator) updateSmoothing(dt float64) {
	o.wrapLookAxes()
	for i := 0; i < 3; i++ {
		o.look[i] = approach(o.look[i], o.lookTarget[i], o.cfg.LookSmoothing, dt)
	}
	o.groundTilt = approach(o.groundTilt, o.groundTiltTarget, o.cfg.GroundSmoothing, dt)

	o.probeZoomObstacle()
	target := o.zoomTarget
	if o.obstructed && o.obstructedZoom < target {
		target = o.obstructedZoom
	}
	o.zoom = approach(o.zoom, target, o.cfg.ZoomSmoothing, dt)
	if o.obstructed && o.zoom > o.obstructedZoom {
		// Never leave the camera inside geometry while it eases back.
		o.zoom = o.obstructedZoom
	}
}

// approach moves cur toward target with an exponential-decay step clamped so
// it never overshoots, even for large dt. A non-positive time constant
// snaps.
func approach(cur, target, timeConstant, dt float64) float64 {
	delta := target - cur
	if timeConstant <= 0 {
		return target
	}
	step := delta * dt / timeConstant
	if math.Abs(step) >= math.Abs(delta) {
		return target
	}
	return cur + step
}

// wrapLookAxes pulls an axis back into its configured range once both the
// current and target values have drifted past the same bound. A delta of
// 360 or more means a deliberate multi-turn is in progress and must not be
// snapped; axes with a span of 720+ spin freely and are never touched.
func (o *Operator) wrapLookAxes() {
	for i := 0; i < 3; i++ {
		b := o.cfg.Axis(i)
		if b.Unbounded() {
			continue
		}
		cur, tgt := o.look[i], o.lookTarget[i]
		if math.Abs(tgt-cur) >= 360 {
			continue
		}
		if (cur > b.Max && tgt > b.Max) || (cur < b.Min && tgt < b.Min) {
			o.look[i] = wrapIntoRange(cur, b)
			o.lookTarget[i] = wrapIntoRange(tgt, b)
		}
	}
}

func wrapIntoRange(v float64, b config.AxisBounds) float64 {
	for v > b.Max {
		v -= 360
	}
	for v < b.Min {
		v += 360
	}
	return common.Clamp(v, b.Min, b.Max)
}

func clampAxis(v float64, b config.AxisBounds) float64 {
	return common.Clamp(v, b.Min, b.Max)
}

// probeZoomObstacle casts from the look anchor along the camera's
// back-vector over the target zoom plus margin. A hit establishes the zoom
// ceiling the camera may not ease past.
func (o *Operator) probeZoomObstacle() {
	o.obstructed = false
	if o.env.Collision == nil {
		return
	}
	total := o.zoomTarget + o.cfg.CollisionMargin
	if total <= 0 {
		return
	}
	back := rotateByAngles(o.look, mgl64.Vec3{0, 0, 1})
	hit, ok := o.env.Collision.Raycast(o.pos, back, total)
	if !ok {
		return
	}
	ceiling := total*hit.Fraction - o.cfg.CollisionMargin
	if ceiling < 0 {
		ceiling = 0
	}
	if ceiling >= o.zoomTarget {
		return
	}
	o.obstructed = true
	o.obstructedZoom = ceiling
}
