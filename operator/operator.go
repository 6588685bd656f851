// Package operator drives a virtual camera: it flies it along motion
// sequences built from checkpoints, smooths free-look and zoom input toward
// their targets, keeps the camera out of the environment, follows the object
// it is attached to, and tilts with the ground. Everything happens inside a
// single Update call per frame; the operator owns no goroutines.
package operator

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/milk9111/stagecam/config"
	"github.com/milk9111/stagecam/scene"
)

// Environment bundles the external collaborators the operator consults. Any
// field may be nil; the matching feature is then inert.
type Environment struct {
	Objects     scene.Source
	Checkpoints scene.CheckpointResolver
	Collision   scene.Raycaster
}

// Operator is the camera controller. Not safe for concurrent use; call
// everything from the frame loop.
type Operator struct {
	name string
	cfg  config.OperatorSpec
	env  Environment
	log  zerolog.Logger

	// pos is the look-anchor position; the camera itself sits zoom units
	// behind it along the view axis.
	pos  mgl64.Vec3
	look mgl64.Vec3 // pitch/yaw/roll, degrees
	zoom float64

	lookTarget mgl64.Vec3
	zoomTarget float64

	groundTilt       float64
	groundTiltTarget float64

	attached    scene.ObjectID
	attachedPos mgl64.Vec3

	// obstructedZoom is the zoom ceiling imposed by the last collision hit;
	// manual zoom input resumes from it instead of the pre-collision target.
	obstructed     bool
	obstructedZoom float64

	active          bool
	internalControl bool

	seq    *sequence
	events EventQueue
}

// New creates an operator with identity look and zero zoom.
func New(name string, cfg config.OperatorSpec, env Environment, log zerolog.Logger) *Operator {
	if cfg.CurveSamples < 2 {
		cfg.CurveSamples = config.Default().CurveSamples
	}
	return &Operator{
		name:            name,
		cfg:             cfg,
		env:             env,
		log:             log.With().Str("operator", name).Logger().Level(zerolog.InfoLevel),
		internalControl: true,
	}
}

// Name returns the operator's name, used in attach notifications.
func (o *Operator) Name() string {
	return o.name
}

// Update advances the operator by dt seconds. Motion sequences and free-look
// smoothing are mutually exclusive: while a sequence is active it owns the
// camera completely.
func (o *Operator) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}
	o.updateAttachment()
	if o.seq != nil {
		o.updateMotion(dt)
		return
	}
	o.updateSmoothing(dt)
}

// Warp places the operator immediately, resetting all smoothing targets.
func (o *Operator) Warp(pos, look mgl64.Vec3, zoom float64) {
	o.pos = pos
	o.look = look
	o.zoom = zoom
	o.lookTarget = look
	o.zoomTarget = zoom
	o.obstructed = false
}

// Activate gives the operator camera focus.
func (o *Operator) Activate() {
	if o.active {
		return
	}
	o.active = true
	o.log.Debug().Msg("activated")
}

// Deactivate removes camera focus; manual input is ignored until the next
// Activate.
func (o *Operator) Deactivate() {
	if !o.active {
		return
	}
	o.active = false
	o.log.Debug().Msg("deactivated")
}

// Active reports whether the operator has camera focus.
func (o *Operator) Active() bool {
	return o.active
}

// SetInternalControl gates manual look/zoom input separately from focus.
func (o *Operator) SetInternalControl(enabled bool) {
	o.internalControl = enabled
}

// SetDebug raises or lowers the operator's log level.
func (o *Operator) SetDebug(enabled bool) {
	if enabled {
		o.log = o.log.Level(zerolog.DebugLevel)
	} else {
		o.log = o.log.Level(zerolog.InfoLevel)
	}
}

// ManualControl applies normalized pointer/key input: horizontal and
// vertical steer the look target, zoom steps the zoom target. Ignored while
// inactive, externally controlled, or in motion.
func (o *Operator) ManualControl(horizontal, vertical, zoom float64) {
	if !o.active || !o.internalControl || o.seq != nil {
		return
	}

	o.lookTarget[1] += horizontal * o.cfg.LookSensitivity
	o.lookTarget[0] += vertical * o.cfg.LookSensitivity
	if !o.cfg.Pitch.Unbounded() {
		o.lookTarget[0] = clampAxis(o.lookTarget[0], o.cfg.Pitch)
	}

	if zoom != 0 {
		if o.obstructed {
			// Resume from the obstacle boundary, not the pre-collision
			// target.
			o.zoomTarget = o.obstructedZoom
		}
		o.zoomTarget += zoom * o.cfg.ZoomStep
		if o.zoomTarget < o.cfg.ZoomMin {
			o.zoomTarget = o.cfg.ZoomMin
		}
		if o.zoomTarget > o.cfg.ZoomMax {
			o.zoomTarget = o.cfg.ZoomMax
		}
	}
}

// GroundNormal feeds the terrain normal under the attached object, typically
// once per frame. Zero-length normals are ignored.
func (o *Operator) GroundNormal(normal mgl64.Vec3) {
	if tilt, ok := groundTiltTarget(o.look, normal, o.cfg.GroundAlignFactor); ok {
		o.groundTiltTarget = tilt
	}
}

// Position returns the look-anchor world position.
func (o *Operator) Position() mgl64.Vec3 {
	return o.pos
}

// Look returns the smoothed look angles in degrees, without ground tilt.
func (o *Operator) Look() mgl64.Vec3 {
	return o.look
}

// ViewLook returns the look angles with the ground-alignment tilt folded
// into roll. This is what a renderer should use.
func (o *Operator) ViewLook() mgl64.Vec3 {
	return mgl64.Vec3{o.look.X(), o.look.Y(), o.look.Z() + o.groundTilt}
}

// Zoom returns the current zoom distance.
func (o *Operator) Zoom() float64 {
	return o.zoom
}

// GroundTilt returns the current ground-alignment roll in degrees.
func (o *Operator) GroundTilt() float64 {
	return o.groundTilt
}

// CameraPosition returns the camera's world position: the look anchor plus
// the rotated zoom offset.
func (o *Operator) CameraPosition() mgl64.Vec3 {
	return o.pos.Add(cameraOffset(o.ViewLook(), o.zoom))
}

// InMotion reports whether a motion sequence currently owns the camera.
func (o *Operator) InMotion() bool {
	return o.seq != nil
}

// MotionPath returns the remaining motion path as one polyline per pending
// segment: the curve's arc-length samples for curved segments, the two
// endpoints for straight ones. Nil when no sequence is active.
func (o *Operator) MotionPath() [][]mgl64.Vec3 {
	if o.seq == nil {
		return nil
	}
	path := make([][]mgl64.Vec3, 0, o.seq.segmentsRemaining())
	for i := 1; i < len(o.seq.points); i++ {
		seg := o.seq.points[i]
		if seg.path != nil {
			path = append(path, seg.path.Samples())
			continue
		}
		path = append(path, []mgl64.Vec3{o.seq.points[i-1].camPos, seg.camPos})
	}
	return path
}

// Attached returns the ID of the attached object, or "" when detached.
func (o *Operator) Attached() scene.ObjectID {
	return o.attached
}

// Events returns the outbound notification queue. Drain it once per frame.
func (o *Operator) Events() *EventQueue {
	return &o.events
}
