package operator

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/stagecam/common"
	"github.com/milk9111/stagecam/curve"
)

// sequence is an in-flight motion request. points[0] is always the live
// state the camera started the current segment from; points[1] is the
// segment target. The sequence is consumed from the front as segments
// complete.
type sequence struct {
	points   []*MotionPoint
	observer Observer
	timer    float64
}

func (s *sequence) segmentsRemaining() int {
	return len(s.points) - 1
}

// FollowSequence replaces any active motion with a new one through the given
// points, notifying obs as waypoints are reached. Points referencing
// checkpoints are resolved through the environment; unresolvable points are
// dropped. A request with no usable points is ignored entirely.
func (o *Operator) FollowSequence(points []MotionPoint, obs Observer) {
	resolved := make([]*MotionPoint, 0, len(points))
	for _, p := range points {
		if mp, ok := o.resolvePoint(p); ok {
			resolved = append(resolved, mp)
		}
	}
	if len(resolved) == 0 {
		o.log.Warn().Msg("follow request with no usable points ignored")
		return
	}

	o.interruptActive()
	o.collapseZoom()

	start := &MotionPoint{
		Object:   o.attached,
		Position: o.pos,
		Look:     o.look,
		camPos:   o.pos,
	}
	pts := append([]*MotionPoint{start}, resolved...)

	// Each point's look is rewritten relative to its predecessor so no axis
	// ever rotates more than half a turn.
	for i := 1; i < len(pts); i++ {
		pts[i].Look = shortestLook(pts[i-1].Look, pts[i].Look)
		pts[i].camPos = pts[i].Position.Add(cameraOffset(pts[i].Look, pts[i].Zoom))
	}

	// Tangents for Bezier continuity: explicit anchors win; interior points
	// adjoining a curved segment get a Catmull-Rom style tangent along the
	// previous->next direction, scaled by half the incoming chord.
	for i, p := range pts {
		if p.HasAnchor {
			p.tangent = p.Anchor
			p.hasTangent = true
			continue
		}
		if i == 0 || i == len(pts)-1 {
			continue
		}
		if !pts[i].UseBezier && !pts[i+1].UseBezier {
			continue
		}
		chord := pts[i].camPos.Sub(pts[i-1].camPos).Len()
		dir := pts[i+1].camPos.Sub(pts[i-1].camPos)
		if chord == 0 || dir.Len() == 0 {
			continue
		}
		p.tangent = dir.Normalize().Mul(chord / 2)
		p.hasTangent = true
	}

	o.seq = &sequence{points: pts, observer: obs}
	o.startSegment()
	o.log.Debug().Int("segments", o.seq.segmentsRemaining()).Msg("following sequence")
}

// FollowPoint is FollowSequence with a single target.
func (o *Operator) FollowPoint(point MotionPoint, obs Observer) {
	o.FollowSequence([]MotionPoint{point}, obs)
}

// Unfollow abandons the active motion sequence, if any. The interruption is
// reported under the same rule as displacement by a new request.
func (o *Operator) Unfollow() {
	o.interruptActive()
}

// resolvePoint fills a point from its checkpoint reference, if it has one,
// and derives the point's camera position.
func (o *Operator) resolvePoint(p MotionPoint) (*MotionPoint, bool) {
	mp := p
	if p.Checkpoint != "" {
		if o.env.Checkpoints == nil {
			o.log.Error().Str("checkpoint", p.Checkpoint).Msg("no checkpoint resolver configured")
			return nil, false
		}
		cp, ok := o.env.Checkpoints.Checkpoint(p.Checkpoint)
		if !ok {
			o.log.Error().Str("checkpoint", p.Checkpoint).Msg("unknown checkpoint")
			return nil, false
		}
		mp.Position = cp.Position
		mp.Look = cp.Look
		mp.Object = cp.Parent
		if cp.Zoom != nil {
			mp.Zoom = *cp.Zoom
		}
		if cp.Speed != nil {
			mp.Speed = *cp.Speed
		}
		if cp.EaseInOut != nil {
			mp.EaseInOut = *cp.EaseInOut
		}
		if cp.Bezier != nil {
			mp.UseBezier = *cp.Bezier
		}
	}
	mp.camPos = mp.Position.Add(cameraOffset(mp.Look, mp.Zoom))
	return &mp, true
}

// interruptActive drops the active sequence. The observer hears about it
// only when more than one segment was still pending; a motion on its final
// segment is considered already done.
func (o *Operator) interruptActive() {
	if o.seq == nil {
		return
	}
	if o.seq.segmentsRemaining() > 1 {
		o.events.Push(Event{Type: EventMotionInterrupted})
		if o.seq.observer != nil {
			o.seq.observer.MotionInterrupted()
		}
	}
	o.seq = nil
}

// collapseZoom folds the camera-local zoom offset into the world position so
// the motion engine can interpolate a single point.
func (o *Operator) collapseZoom() {
	o.pos = o.pos.Add(cameraOffset(o.look, o.zoom))
	o.zoom = 0
	o.zoomTarget = 0
	o.obstructed = false
}

// startSegment prepares the segment from points[0] to points[1]: attachment
// handover, then chord/duration/curve construction.
func (o *Operator) startSegment() {
	prev, seg := o.seq.points[0], o.seq.points[1]
	if seg.Object != o.attached {
		o.attachTo(seg.Object)
	}
	o.buildSegment(prev, seg)
}

func (o *Operator) buildSegment(prev, seg *MotionPoint) {
	seg.path = nil
	seg.distance = seg.camPos.Sub(prev.camPos).Len()

	avg := (prev.Speed + seg.Speed) / 2
	if avg > 0 && seg.distance > 0 {
		seg.duration = seg.distance / avg
	} else {
		seg.duration = 0
	}

	if !seg.UseBezier || seg.distance == 0 {
		return
	}
	ctrl := make([]mgl64.Vec3, 0, 4)
	ctrl = append(ctrl, prev.camPos)
	if prev.hasTangent {
		ctrl = append(ctrl, prev.camPos.Add(prev.tangent))
	}
	if seg.hasTangent {
		ctrl = append(ctrl, seg.camPos.Sub(seg.tangent))
	}
	ctrl = append(ctrl, seg.camPos)
	if len(ctrl) == 2 {
		// No tangents: a straight segment needs no curve.
		return
	}
	path, err := curve.New(ctrl, o.cfg.CurveSamples)
	if err != nil {
		o.log.Error().Err(err).Msg("segment curve build failed")
		return
	}
	seg.path = path
}

// updateMotion advances the active sequence by dt. Completing a segment with
// time left over glides straight into the next one in the same call, so an
// update always accounts for exactly dt no matter how many boundaries it
// crosses.
func (o *Operator) updateMotion(dt float64) {
	for o.seq != nil {
		seg := o.seq.points[1]
		o.seq.timer += dt

		tp := 1.0
		if seg.duration > 0 {
			tp = o.seq.timer / seg.duration
		}
		if tp < 1 {
			o.applySegment(tp)
			return
		}

		overtime := o.seq.timer - seg.duration
		if len(o.seq.points) == 2 {
			o.finishMotion()
			return
		}

		// Intermediate waypoint reached: report it, drop the segment, and
		// continue with the overtime as the new dt.
		o.pos = seg.camPos
		o.look = seg.Look
		o.lookTarget = seg.Look
		o.events.Push(Event{Type: EventMotionPoint, Object: seg.Object, Checkpoint: seg.Checkpoint})
		if o.seq.observer != nil {
			o.seq.observer.MotionPoint(seg.Object, seg.Checkpoint)
		}
		o.seq.points = o.seq.points[1:]
		o.seq.timer = 0
		o.startSegment()
		dt = overtime
	}
}

// applySegment positions the camera at time progress tp within the current
// segment. Look follows a fixed smoothstep of path progress regardless of
// how the position is eased.
func (o *Operator) applySegment(tp float64) {
	prev, seg := o.seq.points[0], o.seq.points[1]
	p := pathProgress(prev, seg, tp)
	if seg.path != nil {
		o.pos = seg.path.UniformPosition(p)
	} else {
		o.pos = prev.camPos.Add(seg.camPos.Sub(prev.camPos).Mul(p))
	}
	o.look = lerpLook(prev.Look, seg.Look, common.SmoothStep(p))
	o.lookTarget = o.look
}

// finishMotion snaps to the final point, restores zoom as a camera-local
// offset, and clears the sequence.
func (o *Operator) finishMotion() {
	seg := o.seq.points[1]
	o.pos = seg.Position
	o.look = seg.Look
	o.zoom = seg.Zoom
	o.lookTarget = seg.Look
	o.zoomTarget = seg.Zoom
	o.obstructed = false

	o.events.Push(Event{Type: EventMotionFinished, Object: seg.Object, Checkpoint: seg.Checkpoint})
	if o.seq.observer != nil {
		o.seq.observer.MotionFinished(seg.Object, seg.Checkpoint)
	}
	o.seq = nil
	o.log.Debug().Str("checkpoint", seg.Checkpoint).Msg("motion finished")
}
