// Package curve provides Bezier paths parametrized by arc length, so a point
// advancing at constant progress moves at constant world speed even when the
// control polygon is lopsided.
package curve

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"gonum.org/v1/gonum/floats"

	"github.com/milk9111/stagecam/common"
)

// evalStepsPerSample controls how fine the parameter grid is relative to the
// requested sample count when measuring arc length.
const evalStepsPerSample = 8

// Bezier is a degree 1..3 Bezier curve pre-sampled at uniform arc-length
// intervals.
type Bezier struct {
	samples []mgl64.Vec3
	length  float64
}

// New builds a Bezier from 2 to 4 control points (degree = len-1) and
// pre-samples sampleCount points spaced uniformly along true arc length.
func New(points []mgl64.Vec3, sampleCount int) (*Bezier, error) {
	if len(points) < 2 || len(points) > 4 {
		return nil, fmt.Errorf("curve: need 2 to 4 control points, got %d", len(points))
	}
	if sampleCount < 2 {
		return nil, fmt.Errorf("curve: need at least 2 samples, got %d", sampleCount)
	}

	steps := sampleCount * evalStepsPerSample
	fine := make([]mgl64.Vec3, steps+1)
	for i := 0; i <= steps; i++ {
		fine[i] = eval(points, float64(i)/float64(steps))
	}

	// Cumulative chord length over the fine grid. cum[i] is the length of
	// the curve up to fine[i].
	cum := make([]float64, steps+1)
	for i := 1; i <= steps; i++ {
		cum[i] = fine[i].Sub(fine[i-1]).Len()
	}
	floats.CumSum(cum, cum)
	total := cum[steps]

	b := &Bezier{
		samples: make([]mgl64.Vec3, sampleCount),
		length:  total,
	}
	b.samples[0] = points[0]
	b.samples[sampleCount-1] = points[len(points)-1]

	if total <= 0 {
		// Degenerate polygon: every control point coincides.
		for i := range b.samples {
			b.samples[i] = points[0]
		}
		return b, nil
	}

	for k := 1; k < sampleCount-1; k++ {
		target := total * float64(k) / float64(sampleCount-1)
		j := sort.SearchFloat64s(cum, target)
		if j <= 0 {
			b.samples[k] = fine[0]
			continue
		}
		if j > steps {
			j = steps
		}
		span := cum[j] - cum[j-1]
		frac := 0.0
		if span > 0 {
			frac = (target - cum[j-1]) / span
		}
		b.samples[k] = lerpVec(fine[j-1], fine[j], frac)
	}

	return b, nil
}

// UniformPosition returns the point at the given normalized arc-length
// progress. Progress outside [0, 1] is clamped.
func (b *Bezier) UniformPosition(progress float64) mgl64.Vec3 {
	progress = common.Clamp01(progress)
	f := progress * float64(len(b.samples)-1)
	i := int(f)
	if i >= len(b.samples)-1 {
		return b.samples[len(b.samples)-1]
	}
	return lerpVec(b.samples[i], b.samples[i+1], f-float64(i))
}

// Samples returns the uniform arc-length sample points. The slice is the
// curve's own backing store; callers must not modify it.
func (b *Bezier) Samples() []mgl64.Vec3 {
	return b.samples
}

// Length returns the measured arc length of the curve.
func (b *Bezier) Length() float64 {
	return b.length
}

// Translate rigidly shifts the whole sampled curve. Used when the object a
// path is anchored to moves mid-flight.
func (b *Bezier) Translate(delta mgl64.Vec3) {
	for i := range b.samples {
		b.samples[i] = b.samples[i].Add(delta)
	}
}

// eval evaluates the Bezier defined by points at parameter t using de
// Casteljau's algorithm.
func eval(points []mgl64.Vec3, t float64) mgl64.Vec3 {
	var tmp [4]mgl64.Vec3
	n := copy(tmp[:], points)
	for k := n - 1; k > 0; k-- {
		for i := 0; i < k; i++ {
			tmp[i] = lerpVec(tmp[i], tmp[i+1], t)
		}
	}
	return tmp[0]
}

func lerpVec(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}
