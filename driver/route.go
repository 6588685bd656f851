// Package driver moves scripted objects through the world. Routes are
// authored as Tengo scripts so level designers can express dolly targets,
// patrol carts and test rigs without recompiling.
package driver

import (
	"fmt"
	"os"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/rs/zerolog"
)

// Waypoint is one stop on a route. Speed is the travel speed toward this
// waypoint from the previous one, in units per second.
type Waypoint struct {
	Pos   mgl64.Vec3
	Speed float64
}

// Route is a world object driven along a scripted polyline. It satisfies
// the operator's object and attach-listener contracts, so cameras can
// attach to it and read the ground slope under it.
type Route struct {
	name      string
	waypoints []Waypoint
	loop      bool

	idx      int
	pos      mgl64.Vec3
	done     bool
	operator string

	log zerolog.Logger
}

// New compiles a route script and places the route at its first waypoint.
//
// The script declares its route through globals:
//
//	waypoints := [[0, 0, 0, 2], [10, 0, 5, 3]]  // x, y, z, speed
//	loop := true
func New(name string, src []byte, log zerolog.Logger) (*Route, error) {
	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("driver: compile route %s: %w", name, err)
	}
	if err := compiled.Run(); err != nil {
		return nil, fmt.Errorf("driver: run route %s: %w", name, err)
	}

	if !compiled.IsDefined("waypoints") {
		return nil, fmt.Errorf("driver: route %s defines no waypoints", name)
	}
	waypoints, err := parseWaypoints(compiled.Get("waypoints").Array())
	if err != nil {
		return nil, fmt.Errorf("driver: route %s: %w", name, err)
	}
	if len(waypoints) == 0 {
		return nil, fmt.Errorf("driver: route %s has an empty waypoint list", name)
	}

	r := &Route{
		name:      name,
		waypoints: waypoints,
		pos:       waypoints[0].Pos,
		log:       log.With().Str("route", name).Logger(),
	}
	if compiled.IsDefined("loop") {
		r.loop = compiled.Get("loop").Bool()
	}
	return r, nil
}

// LoadFile reads a route script from disk. The route name is the file's
// base name without extension.
func LoadFile(path string, log zerolog.Logger) (*Route, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("driver: load route %s: %w", path, err)
	}
	base := path
	if i := strings.LastIndexAny(base, "/\\"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return New(base, src, log)
}

func parseWaypoints(raw []interface{}) ([]Waypoint, error) {
	waypoints := make([]Waypoint, 0, len(raw))
	for i, entry := range raw {
		row, ok := entry.([]interface{})
		if !ok || len(row) < 3 {
			return nil, fmt.Errorf("waypoint %d: want [x, y, z] or [x, y, z, speed]", i)
		}
		var vals [4]float64
		vals[3] = 1
		for j := 0; j < len(row) && j < 4; j++ {
			f, ok := scriptFloat(row[j])
			if !ok {
				return nil, fmt.Errorf("waypoint %d: element %d is not a number", i, j)
			}
			vals[j] = f
		}
		if vals[3] < 0 {
			return nil, fmt.Errorf("waypoint %d: negative speed", i)
		}
		waypoints = append(waypoints, Waypoint{
			Pos:   mgl64.Vec3{vals[0], vals[1], vals[2]},
			Speed: vals[3],
		})
	}
	return waypoints, nil
}

func scriptFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

// Update advances the route. A leg whose speed is zero parks the route
// until the script is reloaded.
func (r *Route) Update(dt float64) {
	if r.done || dt <= 0 {
		return
	}
	zeroHops := 0
	for dt > 0 {
		next := r.idx + 1
		if next >= len(r.waypoints) {
			if !r.loop {
				r.done = true
				return
			}
			next = 0
		}
		target := r.waypoints[next]
		if target.Speed <= 0 {
			return
		}
		remaining := target.Pos.Sub(r.pos)
		dist := remaining.Len()
		if dist <= target.Speed*dt {
			r.pos = target.Pos
			r.idx = next
			if !r.loop && r.idx == len(r.waypoints)-1 {
				r.done = true
				return
			}
			if dist > 0 {
				dt -= dist / target.Speed
				zeroHops = 0
			} else {
				// Coincident waypoints consume no time; bail after a full
				// lap so a degenerate looping route cannot spin forever.
				zeroHops++
				if zeroHops > len(r.waypoints) {
					return
				}
			}
			continue
		}
		r.pos = r.pos.Add(remaining.Mul(target.Speed * dt / dist))
		return
	}
}

// Position implements scene.Object.
func (r *Route) Position() mgl64.Vec3 {
	return r.pos
}

// Done reports whether a non-looping route has reached its last waypoint.
func (r *Route) Done() bool {
	return r.done
}

// Name returns the route's script name.
func (r *Route) Name() string {
	return r.name
}

// Operator returns the name of the operator currently attached, if any.
func (r *Route) Operator() (string, bool) {
	return r.operator, r.operator != ""
}

// OperatorAttached implements scene.AttachListener.
func (r *Route) OperatorAttached(operator string) {
	r.operator = operator
	r.log.Debug().Str("operator", operator).Msg("operator attached")
}

// OperatorDetached implements scene.AttachListener.
func (r *Route) OperatorDetached(operator string) {
	if r.operator == operator {
		r.operator = ""
	}
	r.log.Debug().Str("operator", operator).Msg("operator detached")
}

// GroundNormal derives the slope normal under the route from its current
// leg: the world up vector tilted perpendicular to the direction of travel.
// Flat or degenerate legs report straight up.
func (r *Route) GroundNormal() mgl64.Vec3 {
	up := mgl64.Vec3{0, 1, 0}
	next := r.idx + 1
	if next >= len(r.waypoints) {
		if !r.loop {
			return up
		}
		next = 0
	}
	d := r.waypoints[next].Pos.Sub(r.waypoints[r.idx].Pos)
	if d.Len() < 1e-9 {
		return up
	}
	d = d.Normalize()
	n := up.Sub(d.Mul(d.Dot(up)))
	if n.Len() < 1e-9 {
		return up
	}
	return n.Normalize()
}
