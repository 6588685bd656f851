package common

import (
	"math"
	"testing"
)

func TestWrapDeg(t *testing.T) {
	cases := []struct {
		name string
		in   float64
		want float64
	}{
		{"zero", 0, 0},
		{"small_positive", 20, 20},
		{"small_negative", -20, -20},
		{"wrap_positive", 200, -160},
		{"wrap_negative", -200, 160},
		{"full_turn", 360, 0},
		{"multi_turn", 740, 20},
		{"boundary", 180, 180},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := WrapDeg(c.in)
			if math.Abs(got-c.want) > 1e-9 {
				t.Fatalf("WrapDeg(%v) = %v, want %v", c.in, got, c.want)
			}
		})
	}
}

func TestShortRotation(t *testing.T) {
	cases := []struct {
		name     string
		from, to float64
		want     float64
	}{
		{"wrap_up", 350, 10, 370},
		{"wrap_down", 10, 350, -10},
		{"no_wrap", 30, 120, 120},
		{"same", 45, 45, 45},
		{"half_turn", 0, 180, 180},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := ShortRotation(c.from, c.to)
			if math.Abs(got-c.want) > 1e-9 {
				t.Fatalf("ShortRotation(%v, %v) = %v, want %v", c.from, c.to, got, c.want)
			}
			if d := math.Abs(got - c.from); d > 180+1e-9 {
				t.Fatalf("rotation distance %v exceeds 180", d)
			}
		})
	}
}

func TestSmoothStep(t *testing.T) {
	if SmoothStep(0) != 0 || SmoothStep(1) != 1 {
		t.Fatalf("SmoothStep endpoints should be exact")
	}
	if SmoothStep(-2) != 0 || SmoothStep(2) != 1 {
		t.Fatalf("SmoothStep should clamp outside [0,1]")
	}
	if SmoothStep(0.5) != 0.5 {
		t.Fatalf("SmoothStep(0.5) = %v, want 0.5", SmoothStep(0.5))
	}
	prev := 0.0
	for i := 1; i <= 100; i++ {
		v := SmoothStep(float64(i) / 100)
		if v < prev {
			t.Fatalf("SmoothStep not monotonic at %d", i)
		}
		prev = v
	}
}
