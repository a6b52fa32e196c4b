// Package geom holds the abstract geometric primitives the engine consumes:
// polylines (one per course), planes, and triangle meshes. It also produces
// courses from a mesh and two boundary polylines (see MeshContours).
//
// All coordinates are gonum r3.Vec values.
package geom
