package operator

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"

	"github.com/milk9111/stagecam/config"
	"github.com/milk9111/stagecam/scene"
)

type stubObject struct {
	pos      mgl64.Vec3
	attached []string
	detached []string
}

func (s *stubObject) Position() mgl64.Vec3 { return s.pos }

func (s *stubObject) OperatorAttached(op string) { s.attached = append(s.attached, op) }
func (s *stubObject) OperatorDetached(op string) { s.detached = append(s.detached, op) }

type stubSource map[scene.ObjectID]*stubObject

func (s stubSource) Object(id scene.ObjectID) (scene.Object, bool) {
	obj, ok := s[id]
	if !ok {
		return nil, false
	}
	return obj, true
}

type stubResolver map[string]scene.Checkpoint

func (r stubResolver) Checkpoint(name string) (scene.Checkpoint, bool) {
	cp, ok := r[name]
	return cp, ok
}

type stubRaycaster struct {
	hit        scene.Hit
	ok         bool
	lastOrigin mgl64.Vec3
	lastDir    mgl64.Vec3
	lastDist   float64
}

func (r *stubRaycaster) Raycast(origin, dir mgl64.Vec3, maxDist float64) (scene.Hit, bool) {
	r.lastOrigin, r.lastDir, r.lastDist = origin, dir, maxDist
	return r.hit, r.ok
}

type recObserver struct {
	points      []string
	finished    []string
	interrupted int
}

func (r *recObserver) MotionPoint(_ scene.ObjectID, checkpoint string) {
	r.points = append(r.points, checkpoint)
}

func (r *recObserver) MotionFinished(_ scene.ObjectID, checkpoint string) {
	r.finished = append(r.finished, checkpoint)
}

func (r *recObserver) MotionInterrupted() { r.interrupted++ }

// snapCfg disables smoothing so free-look assertions are exact.
func snapCfg() config.OperatorSpec {
	cfg := config.Default()
	cfg.LookSmoothing = 0
	cfg.ZoomSmoothing = 0
	cfg.GroundSmoothing = 0
	return cfg
}

func newTestOperator(cfg config.OperatorSpec, env Environment) *Operator {
	return New("cam", cfg, env, zerolog.Nop())
}

func vecNear(t *testing.T, got, want mgl64.Vec3, tol float64) {
	t.Helper()
	if got.Sub(want).Len() > tol {
		t.Fatalf("got %v, want %v (tol %v)", got, want, tol)
	}
}

func TestManualControlGating(t *testing.T) {
	cases := []struct {
		name     string
		setup    func(o *Operator)
		wantMove bool
	}{
		{"inactive", func(o *Operator) {}, false},
		{"active", func(o *Operator) { o.Activate() }, true},
		{"external_control", func(o *Operator) {
			o.Activate()
			o.SetInternalControl(false)
		}, false},
		{"in_motion", func(o *Operator) {
			o.Activate()
			o.FollowPoint(MotionPoint{Position: mgl64.Vec3{10, 0, 0}, Speed: 2}, nil)
		}, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			o := newTestOperator(snapCfg(), Environment{})
			c.setup(o)
			before := o.lookTarget
			o.ManualControl(0.5, 0, 0)
			moved := o.lookTarget != before
			if moved != c.wantMove {
				t.Fatalf("look target moved = %v, want %v", moved, c.wantMove)
			}
		})
	}
}

func TestActivateIdempotent(t *testing.T) {
	o := newTestOperator(snapCfg(), Environment{})
	o.Activate()
	o.Activate()
	if !o.Active() {
		t.Fatalf("operator should be active")
	}
	o.Deactivate()
	if o.Active() {
		t.Fatalf("operator should be inactive")
	}
}

func TestAttachNotifications(t *testing.T) {
	cart := &stubObject{pos: mgl64.Vec3{1, 0, 0}}
	sled := &stubObject{pos: mgl64.Vec3{2, 0, 0}}
	src := stubSource{"cart": cart, "sled": sled}
	o := newTestOperator(snapCfg(), Environment{Objects: src})

	o.Attach("cart")
	o.Attach("cart") // no-op
	if o.Attached() != "cart" {
		t.Fatalf("attached = %q, want cart", o.Attached())
	}
	if len(cart.attached) != 1 || cart.attached[0] != "cam" {
		t.Fatalf("cart attach notifications = %v", cart.attached)
	}

	o.Attach("sled")
	if len(cart.detached) != 1 {
		t.Fatalf("cart should have been notified of detach, got %v", cart.detached)
	}
	if len(sled.attached) != 1 {
		t.Fatalf("sled attach notifications = %v", sled.attached)
	}

	o.Detach()
	o.Detach() // no-op
	if len(sled.detached) != 1 {
		t.Fatalf("sled detach notifications = %v", sled.detached)
	}

	var types []EventType
	for _, evt := range o.Events().Drain() {
		types = append(types, evt.Type)
	}
	want := []EventType{EventAttached, EventDetached, EventAttached, EventDetached}
	if len(types) != len(want) {
		t.Fatalf("events = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("events = %v, want %v", types, want)
		}
	}
}

func TestAttachUnknownObject(t *testing.T) {
	o := newTestOperator(snapCfg(), Environment{Objects: stubSource{}})
	o.Attach("ghost")
	if o.Attached() != "" {
		t.Fatalf("attach to a missing object should not stick")
	}
	if evts := o.Events().Drain(); len(evts) != 0 {
		t.Fatalf("no events expected, got %v", evts)
	}
}

func TestAttachedObjectCarriesOperator(t *testing.T) {
	cart := &stubObject{pos: mgl64.Vec3{0, 0, 0}}
	src := stubSource{"cart": cart}
	o := newTestOperator(snapCfg(), Environment{Objects: src})
	o.Warp(mgl64.Vec3{1, 2, 3}, mgl64.Vec3{}, 0)

	o.Attach("cart")
	cart.pos = mgl64.Vec3{0, 0, 5}
	o.Update(1.0 / 60)
	vecNear(t, o.Position(), mgl64.Vec3{1, 2, 8}, 1e-9)
}

func TestVanishedObjectDetachesSilently(t *testing.T) {
	cart := &stubObject{}
	src := stubSource{"cart": cart}
	o := newTestOperator(snapCfg(), Environment{Objects: src})
	o.Attach("cart")
	o.Events().Drain()

	delete(src, "cart")
	o.Update(1.0 / 60)
	if o.Attached() != "" {
		t.Fatalf("vanished object should clear attachment")
	}
	if evts := o.Events().Drain(); len(evts) != 0 {
		t.Fatalf("silent detach expected, got %v", evts)
	}
}

func TestAttachedObjectMovesInFlightPath(t *testing.T) {
	cart := &stubObject{pos: mgl64.Vec3{0, 0, 0}}
	src := stubSource{"cart": cart}
	o := newTestOperator(snapCfg(), Environment{Objects: src})
	o.Attach("cart")
	o.Events().Drain()

	// Chord 10, speeds 0 -> 10, no easing: duration 2s.
	o.FollowPoint(MotionPoint{Object: "cart", Position: mgl64.Vec3{10, 0, 0}, Speed: 10}, nil)
	o.Update(1)

	cart.pos = mgl64.Vec3{0, 0, 5}
	o.Update(1)
	if o.InMotion() {
		t.Fatalf("motion should be finished")
	}
	// The whole path moved with the cart, so the end point did too.
	vecNear(t, o.Position(), mgl64.Vec3{10, 0, 5}, 1e-9)
}
