package sprig

import "math"

// identityAffine is the identity affine matrix.
var identityAffine = [6]float64{1, 0, 0, 1, 0, 0}

// Transform is a decomposed affine map: translation, rotation (radians), and
// scale. The five-parameter form cannot represent shear; composing two
// rotated, non-uniformly scaled transforms produces shear that FromMatrix
// silently discards. That lossiness is a documented property of the model,
// not something Compose papers over.
type Transform struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	ScaleX   float64 `json:"scaleX"`
	ScaleY   float64 `json:"scaleY"`
}

// IdentityTransform returns the identity transform.
func IdentityTransform() Transform {
	return Transform{ScaleX: 1, ScaleY: 1}
}

// IsIdentity reports whether t maps every point to itself.
func (t Transform) IsIdentity() bool {
	return t.X == 0 && t.Y == 0 && t.Rotation == 0 && t.ScaleX == 1 && t.ScaleY == 1
}

// ToMatrix converts t to an affine matrix. Scale applies first, then
// rotation, then translation.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func (t Transform) ToMatrix() [6]float64 {
	sin, cos := math.Sincos(t.Rotation)
	return [6]float64{
		cos * t.ScaleX,
		sin * t.ScaleX,
		-sin * t.ScaleY,
		cos * t.ScaleY,
		t.X,
		t.Y,
	}
}

// FromMatrix decomposes an affine matrix back into the five parameters.
// Any shear present in the matrix is discarded.
func FromMatrix(m [6]float64) Transform {
	return Transform{
		X:        m[4],
		Y:        m[5],
		Rotation: math.Atan2(m[1], m[0]),
		ScaleX:   math.Hypot(m[0], m[1]),
		ScaleY:   math.Hypot(m[2], m[3]),
	}
}

// Compose returns the transform equivalent to applying child's local
// transform inside parent's space, with parent applied last. Composing with
// the identity returns the other operand exactly, bypassing the lossy
// matrix round trip.
func Compose(parent, child Transform) Transform {
	if parent.IsIdentity() {
		return child
	}
	if child.IsIdentity() {
		return parent
	}
	return FromMatrix(mulAffine(parent.ToMatrix(), child.ToMatrix()))
}

// Apply maps the point (x, y) through t.
func (t Transform) Apply(x, y float64) (float64, float64) {
	return applyAffine(t.ToMatrix(), x, y)
}

// Inverse returns the inverse transform. A singular transform (zero scale)
// is treated as "no transform" and inverts to the identity rather than
// failing.
func (t Transform) Inverse() Transform {
	return FromMatrix(invertAffine(t.ToMatrix()))
}

// mulAffine multiplies two affine matrices: result = parent * child.
func mulAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of an affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ≈ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityAffine
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// applyAffine applies an affine matrix to a point.
func applyAffine(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}
