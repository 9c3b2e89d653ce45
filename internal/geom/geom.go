// Package geom provides the minimal world-space vector math the game
// core needs.
package geom

import "math"

// Vec3 is a point in world space. The city model uses Y-up coordinates.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// DistSq returns the squared Euclidean distance between a and b.
// Objective checks compare squared distances to avoid a sqrt per frame.
func DistSq(a, b Vec3) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return dx*dx + dy*dy + dz*dz
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b Vec3) float64 {
	return math.Sqrt(DistSq(a, b))
}
