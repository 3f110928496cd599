// transform.go - Matrix and color transform stacks used while walking the
// display tree.
package display

// Matrix is an affine 2D transform: [a c tx; b d ty; 0 0 1].
type Matrix struct {
	A, B, C, D, Tx, Ty float64
}

// Identity is the no-op transform.
var Identity = Matrix{A: 1, D: 1}

// Concat returns the transform that applies m first and then n (n is the
// parent, m is the child), the usual local-to-global composition order.
func (n Matrix) Concat(m Matrix) Matrix {
	return Matrix{
 A: n.A*m.A + n.C*m.B,
 B: n.B*m.A + n.D*m.B,
 C: n.A*m.C + n.C*m.D,
 D: n.B*m.C + n.D*m.D,
 Tx: n.A*m.Tx + n.C*m.Ty + n.Tx,
 Ty: n.B*m.Tx + n.D*m.Ty + n.Ty,
	}
}

// TransformPoint maps a local-space point into the space this matrix
// transforms into.
func (n Matrix) TransformPoint(x, y float64) (float64, float64) {
	return n.A*x + n.C*y + n.Tx, n.B*x + n.D*y + n.Ty
}

// Invert returns the inverse transform, used to map a global hit-test
// point back into a node's local space.
func (n Matrix) Invert() Matrix {
	det := n.A*n.D - n.B*n.C
	if det == 0 {
 return Identity
	}
	inv := 1 / det
	return Matrix{
 A: n.D * inv,
 B: -n.B * inv,
 C: -n.C * inv,
 D: n.A * inv,
 Tx: (n.C*n.Ty - n.D*n.Tx) * inv,
 Ty: (n.B*n.Tx - n.A*n.Ty) * inv,
	}
}

// ColorTransform is the standard SWF color transform: per-channel
// multiply then add.
type ColorTransform struct {
	RMul, GMul, BMul, AMul float64
	RAdd, GAdd, BAdd, AAdd float64
}

// IdentityColor is the no-op color transform.
var IdentityColor = ColorTransform{RMul: 1, GMul: 1, BMul: 1, AMul: 1}

// Concat composes child color transform c with parent p: c is applied
// first, then p.
func (c ColorTransform) Concat(p ColorTransform) ColorTransform {
	return ColorTransform{
 RMul: c.RMul * p.RMul, GMul: c.GMul * p.GMul, BMul: c.BMul * p.BMul, AMul: c.AMul * p.AMul,
 RAdd: c.RAdd*p.RMul + p.RAdd, GAdd: c.GAdd*p.GMul + p.GAdd,
 BAdd: c.BAdd*p.BMul + p.BAdd, AAdd: c.AAdd*p.AMul + p.AAdd,
	}
}
