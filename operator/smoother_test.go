package operator

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/milk9111/stagecam/config"
	"github.com/milk9111/stagecam/scene"
)

func TestApproach(t *testing.T) {
	cases := []struct {
		name                           string
		cur, target, timeConstant, dt  float64
		want                           float64
	}{
		{"zero_constant_snaps", 0, 10, 0, 0.016, 10},
		{"half_step", 0, 10, 1, 0.5, 5},
		{"huge_dt_never_overshoots", 0, 10, 0.5, 10, 10},
		{"negative_delta", 10, 0, 1, 0.5, 5},
		{"at_target", 7, 7, 1, 0.5, 7},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := approach(c.cur, c.target, c.timeConstant, c.dt)
			if math.Abs(got-c.want) > 1e-9 {
				t.Fatalf("approach = %v, want %v", got, c.want)
			}
		})
	}
}

func TestLookSmoothingConvergesWithoutOscillation(t *testing.T) {
	cfg := config.Default()
	cfg.LookSmoothing = 0.2
	o := newTestOperator(cfg, Environment{})
	o.Activate()
	o.ManualControl(1, 0, 0) // yaw target +90 with default sensitivity

	prev := o.Look().Y()
	for i := 0; i < 300; i++ {
		o.Update(1.0 / 60)
		cur := o.Look().Y()
		if cur < prev-1e-9 || cur > 90+1e-9 {
			t.Fatalf("yaw moved non-monotonically or overshot: %v -> %v", prev, cur)
		}
		prev = cur
	}
	if math.Abs(prev-90) > 0.5 {
		t.Fatalf("yaw should have converged near 90, got %v", prev)
	}
}

func TestWrapClampsDriftedAxis(t *testing.T) {
	cfg := snapCfg()
	cfg.Yaw = config.AxisBounds{Min: 0, Max: 360}
	o := newTestOperator(cfg, Environment{})
	o.Warp(mgl64.Vec3{}, mgl64.Vec3{0, 370, 0}, 0)
	o.lookTarget = mgl64.Vec3{0, 380, 0}

	o.Update(1.0 / 60)
	if y := o.Look().Y(); math.Abs(y-20) > 1e-9 {
		t.Fatalf("wrapped yaw = %v, want 20", y)
	}
}

func TestWrapSkipsMultiTurnDelta(t *testing.T) {
	cfg := snapCfg()
	cfg.Yaw = config.AxisBounds{Min: 0, Max: 360}
	cfg.LookSmoothing = 10 // keep the approach step tiny
	o := newTestOperator(cfg, Environment{})
	o.Warp(mgl64.Vec3{}, mgl64.Vec3{0, 370, 0}, 0)
	o.lookTarget = mgl64.Vec3{0, 750, 0}

	o.Update(1.0 / 60)
	// A 380 degree remaining turn is deliberate; must not snap into range.
	if y := o.Look().Y(); y < 360 {
		t.Fatalf("multi-turn yaw was wrapped: %v", y)
	}
}

func TestWrapSkipsUnboundedAxis(t *testing.T) {
	o := newTestOperator(snapCfg(), Environment{}) // default yaw is free-spinning
	o.Warp(mgl64.Vec3{}, mgl64.Vec3{0, 700, 0}, 0)
	o.Update(1.0 / 60)
	if y := o.Look().Y(); math.Abs(y-700) > 1e-9 {
		t.Fatalf("unbounded yaw should be untouched, got %v", y)
	}
}

func TestZoomCollisionClampsToObstacle(t *testing.T) {
	ray := &stubRaycaster{hit: scene.Hit{Fraction: 0.5, Normal: mgl64.Vec3{0, 0, -1}}, ok: true}
	cfg := snapCfg()
	cfg.CollisionMargin = 0.25
	o := newTestOperator(cfg, Environment{Collision: ray})
	o.Warp(mgl64.Vec3{}, mgl64.Vec3{}, 10)

	o.Update(1.0 / 60)

	// (10 + 0.25) * 0.5 - 0.25
	want := 4.875
	if math.Abs(o.Zoom()-want) > 1e-9 {
		t.Fatalf("clamped zoom = %v, want %v", o.Zoom(), want)
	}
	if math.Abs(ray.lastDist-10.25) > 1e-9 {
		t.Fatalf("ray distance = %v, want 10.25", ray.lastDist)
	}
	// Identity look: the back-vector points along +Z.
	vecNear(t, ray.lastDir, mgl64.Vec3{0, 0, 1}, 1e-9)
}

func TestZoomCollisionResume(t *testing.T) {
	ray := &stubRaycaster{hit: scene.Hit{Fraction: 0.5}, ok: true}
	cfg := snapCfg()
	cfg.CollisionMargin = 0.25
	cfg.ZoomStep = 2
	o := newTestOperator(cfg, Environment{Collision: ray})
	o.Activate()
	o.Warp(mgl64.Vec3{}, mgl64.Vec3{}, 10)
	o.Update(1.0 / 60)
	ceiling := o.Zoom() // 4.875

	// Zoom out resumes from the obstacle boundary, not the old target of 10.
	o.ManualControl(0, 0, 1)
	if math.Abs(o.zoomTarget-(ceiling+2)) > 1e-9 {
		t.Fatalf("zoom-out target = %v, want %v", o.zoomTarget, ceiling+2)
	}

	// Re-probe, then zoom in: the target starts at the ceiling and moves
	// closer, never past it.
	o.Update(1.0 / 60)
	o.ManualControl(0, 0, -1)
	if o.zoomTarget > ceiling {
		t.Fatalf("zoom-in target %v moved past the obstacle ceiling %v", o.zoomTarget, ceiling)
	}
}

func TestZoomNoCollisionLeavesTargetAlone(t *testing.T) {
	ray := &stubRaycaster{ok: false}
	o := newTestOperator(snapCfg(), Environment{Collision: ray})
	o.Warp(mgl64.Vec3{}, mgl64.Vec3{}, 8)
	o.Update(1.0 / 60)
	if o.Zoom() != 8 {
		t.Fatalf("zoom = %v, want 8", o.Zoom())
	}
}

func TestGroundAlignment(t *testing.T) {
	cfg := snapCfg()
	cfg.GroundAlignFactor = 0.5
	o := newTestOperator(cfg, Environment{})

	o.GroundNormal(mgl64.Vec3{0, 1, 0})
	o.Update(1.0 / 60)
	if o.GroundTilt() != 0 {
		t.Fatalf("flat ground should give zero tilt, got %v", o.GroundTilt())
	}

	// Normal leaning 30 degrees toward the camera's right axis.
	o.GroundNormal(mgl64.Vec3{0.5, math.Sqrt(3) / 2, 0})
	o.Update(1.0 / 60)
	if math.Abs(o.GroundTilt()-15) > 1e-9 {
		t.Fatalf("tilt = %v, want 15", o.GroundTilt())
	}
	if math.Abs(o.ViewLook().Z()-15) > 1e-9 {
		t.Fatalf("view roll = %v, want 15", o.ViewLook().Z())
	}

	o.GroundNormal(mgl64.Vec3{}) // zero-length normals are ignored
	o.Update(1.0 / 60)
	if math.Abs(o.GroundTilt()-15) > 1e-9 {
		t.Fatalf("zero normal should not change the tilt target")
	}
}
