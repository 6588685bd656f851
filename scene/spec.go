package scene

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// CheckpointSpec is the YAML form of a checkpoint.
type CheckpointSpec struct {
	Name     string     `yaml:"name"`
	Parent   string     `yaml:"parent"`
	Position [3]float64 `yaml:"position"`
	Look     [3]float64 `yaml:"look"`
	Zoom     *float64   `yaml:"zoom"`
	Speed    *float64   `yaml:"speed"`
	InOut    *bool      `yaml:"inout"`
	Bezier   *bool      `yaml:"bezier"`
}

// ObstacleSpec is an axis-aligned box on the XZ plane, used by the planar
// collision adapter.
type ObstacleSpec struct {
	Min [2]float64 `yaml:"min"`
	Max [2]float64 `yaml:"max"`
}

// Spec is a full scene file: checkpoints the operator can be sent to and
// obstacles its zoom raycast should respect.
type Spec struct {
	Checkpoints []CheckpointSpec `yaml:"checkpoints"`
	Obstacles   []ObstacleSpec   `yaml:"obstacles"`
}

// Registry holds a loaded scene and resolves checkpoint names.
type Registry struct {
	checkpoints map[string]Checkpoint
	obstacles   []ObstacleSpec
}

// NewRegistry builds a registry from a parsed spec.
func NewRegistry(spec Spec) (*Registry, error) {
	r := &Registry{
		checkpoints: make(map[string]Checkpoint, len(spec.Checkpoints)),
		obstacles:   append([]ObstacleSpec(nil), spec.Obstacles...),
	}
	for _, cs := range spec.Checkpoints {
		if cs.Name == "" {
			return nil, fmt.Errorf("scene: checkpoint without a name")
		}
		if _, ok := r.checkpoints[cs.Name]; ok {
			return nil, fmt.Errorf("scene: duplicate checkpoint %q", cs.Name)
		}
		r.checkpoints[cs.Name] = Checkpoint{
			Name:      cs.Name,
			Parent:    ObjectID(cs.Parent),
			Position:  mgl64.Vec3{cs.Position[0], cs.Position[1], cs.Position[2]},
			Look:      mgl64.Vec3{cs.Look[0], cs.Look[1], cs.Look[2]},
			Zoom:      cs.Zoom,
			Speed:     cs.Speed,
			EaseInOut: cs.InOut,
			Bezier:    cs.Bezier,
		}
	}
	return r, nil
}

// LoadFile reads and parses a YAML scene file into a registry.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", path, err)
	}
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("scene: unmarshal %s: %w", path, err)
	}
	return NewRegistry(spec)
}

// Checkpoint implements CheckpointResolver.
func (r *Registry) Checkpoint(name string) (Checkpoint, bool) {
	cp, ok := r.checkpoints[name]
	return cp, ok
}

// Names returns all checkpoint names, in no particular order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.checkpoints))
	for name := range r.checkpoints {
		names = append(names, name)
	}
	return names
}

// Obstacles returns the scene's planar obstacle boxes.
func (r *Registry) Obstacles() []ObstacleSpec {
	return r.obstacles
}
