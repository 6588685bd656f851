// Package scene defines the contracts the camera operator consults about the
// world around it: live objects, named checkpoints, and collision queries.
// The operator never holds object pointers across frames; it re-resolves IDs
// through a Source every update.
package scene

import "github.com/go-gl/mathgl/mgl64"

// ObjectID names a world object. The empty ID means "no object".
type ObjectID string

// Object is a world object the operator can attach to or follow.
type Object interface {
	Position() mgl64.Vec3
}

// AttachListener is implemented by objects that want to know when an
// operator attaches to or detaches from them.
type AttachListener interface {
	OperatorAttached(operator string)
	OperatorDetached(operator string)
}

// Source resolves object IDs to live objects. A false return means the
// object no longer exists.
type Source interface {
	Object(id ObjectID) (Object, bool)
}

// Checkpoint is a named waypoint with orientation and motion metadata.
// Optional fields are nil when the checkpoint does not override them.
type Checkpoint struct {
	Name      string
	Parent    ObjectID
	Position  mgl64.Vec3
	Look      mgl64.Vec3 // pitch/yaw/roll, degrees
	Zoom      *float64
	Speed     *float64
	EaseInOut *bool
	Bezier    *bool
}

// CheckpointResolver resolves checkpoint names to their metadata.
type CheckpointResolver interface {
	Checkpoint(name string) (Checkpoint, bool)
}

// Hit describes where a ray struck the environment.
type Hit struct {
	Fraction float64 // 0..1 along the queried distance
	Normal   mgl64.Vec3
}

// Raycaster answers environment ray queries. dir need not be normalized;
// maxDist is measured along dir's direction.
type Raycaster interface {
	Raycast(origin, dir mgl64.Vec3, maxDist float64) (Hit, bool)
}
