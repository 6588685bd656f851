package operator

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/stagecam/scene"
)

// Attach rigidly couples the operator to a world object: from now on the
// object's movement carries the camera and any in-flight motion path with
// it. Idempotent; attaching to a new object detaches from the old one first.
func (o *Operator) Attach(id scene.ObjectID) {
	o.attachTo(id)
}

// Detach releases the current attachment, if any.
func (o *Operator) Detach() {
	o.attachTo("")
}

func (o *Operator) attachTo(id scene.ObjectID) {
	if id == o.attached {
		return
	}
	o.releaseAttachment()
	if id == "" {
		return
	}
	if o.env.Objects == nil {
		o.log.Warn().Str("object", string(id)).Msg("no object source; attach ignored")
		return
	}
	obj, ok := o.env.Objects.Object(id)
	if !ok {
		o.log.Warn().Str("object", string(id)).Msg("attach target does not exist")
		return
	}
	o.attached = id
	o.attachedPos = obj.Position()
	if l, ok := obj.(scene.AttachListener); ok {
		l.OperatorAttached(o.name)
	}
	o.events.Push(Event{Type: EventAttached, Object: id})
	o.log.Debug().Str("object", string(id)).Msg("attached")
}

func (o *Operator) releaseAttachment() {
	if o.attached == "" {
		return
	}
	id := o.attached
	o.attached = ""
	if o.env.Objects != nil {
		if obj, ok := o.env.Objects.Object(id); ok {
			if l, ok := obj.(scene.AttachListener); ok {
				l.OperatorDetached(o.name)
			}
		}
	}
	o.events.Push(Event{Type: EventDetached, Object: id})
	o.log.Debug().Str("object", string(id)).Msg("detached")
}

// updateAttachment re-resolves the attached object and applies its movement
// since last frame to the operator and every in-flight motion point. Objects
// are looked up by ID each frame; one that vanished detaches silently.
func (o *Operator) updateAttachment() {
	if o.attached == "" || o.env.Objects == nil {
		return
	}
	obj, ok := o.env.Objects.Object(o.attached)
	if !ok {
		o.log.Debug().Str("object", string(o.attached)).Msg("attached object gone")
		o.attached = ""
		return
	}
	pos := obj.Position()
	delta := pos.Sub(o.attachedPos)
	if delta == (mgl64.Vec3{}) {
		return
	}
	o.attachedPos = pos
	o.pos = o.pos.Add(delta)
	if o.seq != nil {
		for _, p := range o.seq.points {
			p.translate(delta)
		}
	}
}
