package geometry

import "github.com/df07/portal-gi/pkg/core"

// Vertex is a position plus texture coordinates and its index in the
// scene's vertex array.
type Vertex struct {
	Position core.Vec3
	UV       core.Vec2
	Index    int
}
