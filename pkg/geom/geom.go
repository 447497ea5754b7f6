// Package geom is the vector and transform vocabulary used by the topology
// kernel. It is a thin layer over the github.com/deadsy/sdfx vector and
// matrix types so that the kernel never does its own linear algebra.
package geom

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vec is a 3D position or direction.
type Vec = v3.Vec

// Matrix is a 4x4 homogeneous transform.
type Matrix = sdf.M44

// Transform maps a point to a point. Every extrusion operator applies one
// uniformly to every position it sweeps.
type Transform func(Vec) Vec

// V is shorthand for a Vec literal.
func V(x, y, z float64) Vec {
	return Vec{X: x, Y: y, Z: z}
}

// Translate returns a transform adding v to every point.
func Translate(v Vec) Transform {
	return func(a Vec) Vec { return a.Add(v) }
}

// Affine returns a transform applying the homogeneous matrix m.
func Affine(m Matrix) Transform {
	return func(a Vec) Vec { return m.MulPosition(a) }
}

// Rotation returns the matrix rotating by angle radians about axis
// (right hand rule).
func Rotation(axis Vec, angle float64) Matrix {
	return sdf.Rotate3d(axis, angle)
}

// Translation returns the matrix translating by v.
func Translation(v Vec) Matrix {
	return sdf.Translate3d(v)
}

// Identity returns the identity matrix.
func Identity() Matrix {
	return sdf.Identity3d()
}

// RotateAbout rotates v by angle radians about axis.
func RotateAbout(axis Vec, angle float64, v Vec) Vec {
	return sdf.Rotate3d(axis, angle).MulPosition(v)
}

// Revolve returns a transform rotating points by angle radians about the
// line through origin with direction axis.
func Revolve(origin, axis Vec, angle float64) Transform {
	m := sdf.Translate3d(origin).Mul(sdf.Rotate3d(axis, angle)).Mul(sdf.Translate3d(origin.Neg()))
	return Affine(m)
}

// Norm returns the Euclidean length of v.
func Norm(v Vec) float64 {
	return v.Length()
}

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged.
func Normalize(v Vec) Vec {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.DivScalar(l)
}

// Near reports whether a and b are within eps of each other.
func Near(a, b Vec, eps float64) bool {
	return a.Sub(b).Length() <= eps
}

// AreParallel reports whether a and b point along the same line.
func AreParallel(a, b Vec) bool {
	return 1e-6 > 1.0-math.Abs(Normalize(a).Dot(Normalize(b)))
}

// ArePerpendicular reports whether a and b are orthogonal.
func ArePerpendicular(a, b Vec) bool {
	return 1e-6 > math.Abs(Normalize(a).Dot(Normalize(b)))
}
