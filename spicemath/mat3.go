package spicemath

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// Mat3 is a row-major 3x3 matrix, branded for diagnostics. Never expose the
// backing array as a mutable alias; Array always copies.
type Mat3 struct {
	rows [9]float64
}

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return NewMat3([9]float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	})
}

// NewMat3 builds a Mat3 from row-major elements, canonicalizing negative
// zero in every slot (spec §4.1).
func NewMat3(rows [9]float64) Mat3 {
	var m Mat3
	for i, v := range rows {
		m.rows[i] = czero(v)
	}
	return m
}

// Array returns a copy of the row-major elements.
func (m Mat3) Array() [9]float64 { return m.rows }

func (m Mat3) dense() *mat.Dense {
	return mat.NewDense(3, 3, m.rows[:])
}

func mat3FromDense(d mat.Matrix) Mat3 {
	var rows [9]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rows[i*3+j] = czero(d.At(i, j))
		}
	}
	return Mat3{rows: rows}
}

// Mat3Mul computes a*b, row-major, via gonum's dense matrix multiply.
func Mat3Mul(a, b Mat3) Mat3 {
	var out mat.Dense
	out.Mul(a.dense(), b.dense())
	return mat3FromDense(&out)
}

// Mat3MulVec computes m*v.
func Mat3MulVec(m Mat3, v Vec3) Vec3 {
	r := m.dense()
	var x, y, z float64
	vv := [3]float64{v.V.X, v.V.Y, v.V.Z}
	for i := 0; i < 3; i++ {
		s := 0.0
		for j := 0; j < 3; j++ {
			s += r.At(i, j) * vv[j]
		}
		switch i {
		case 0:
			x = s
		case 1:
			y = s
		case 2:
			z = s
		}
	}
	return NewVec3(x, y, z)
}

// Mat3TMulVec computes m^T*v.
func Mat3TMulVec(m Mat3, v Vec3) Vec3 {
	return Mat3MulVec(Mat3Transpose(m), v)
}

// Mat3Transpose returns the transpose of m.
func Mat3Transpose(m Mat3) Mat3 {
	var rows [9]float64
	a := m.rows
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			rows[j*3+i] = a[i*3+j]
		}
	}
	return NewMat3(rows)
}

// axisVec maps the reduced axis index (0, 1, or 2) to a unit basis vector.
func axisVec(idx int) Vec3 {
	switch idx {
	case 0:
		return NewVec3(1, 0, 0)
	case 1:
		return NewVec3(0, 1, 0)
	default:
		return NewVec3(0, 0, 1)
	}
}

// ReduceAxis maps an arbitrary iaxis onto {1, 2, 3} meaning X/Y/Z, per spec
// §4.1: "iaxis reduction is ((iaxis mod 3)+3) mod 3, mapping 0 to 3".
func ReduceAxis(iaxis int) int {
	r := ((iaxis % 3) + 3) % 3
	if r == 0 {
		return 3
	}
	return r
}

// Rotate builds the elementary rotation matrix about the given axis
// (1=X, 2=Y, 3=Z) by angle radians: the right-handed rotation AxisAngle
// builds for that basis vector, so Rotate(angle, 3) is
// [cos -sin 0; sin cos 0; 0 0 1] (the transpose of CSPICE's rotate).
// iaxis is reduced with ReduceAxis before use.
func Rotate(angle float64, iaxis int) Mat3 {
	return AxisAngle(angle, axisVec(ReduceAxis(iaxis)-1))
}

// AxisAngle builds the rotation matrix for a right-handed rotation of angle
// radians about axis, via Rodrigues' formula (gonum's quaternion-backed
// r3.Rotation). The identity is returned when axis is the zero vector.
func AxisAngle(angle float64, axis Vec3) Mat3 {
	if axis.V == (r3.Vec{}) {
		return Identity3()
	}
	rot := r3.NewRotation(angle, axis.V)
	cols := [3]r3.Vec{
		rot.Rotate(r3.Vec{X: 1}),
		rot.Rotate(r3.Vec{Y: 1}),
		rot.Rotate(r3.Vec{Z: 1}),
	}
	var rows [9]float64
	rows[0], rows[3], rows[6] = cols[0].X, cols[0].Y, cols[0].Z
	rows[1], rows[4], rows[7] = cols[1].X, cols[1].Y, cols[1].Z
	rows[2], rows[5], rows[8] = cols[2].X, cols[2].Y, cols[2].Z
	return NewMat3(rows)
}

// RotateZDeriv returns d/dtheta Rz(theta), the closed-form derivative used
// by sxform's lower-left block (spec §4.5).
func RotateZDeriv(theta float64) Mat3 {
	sinT, cosT := math.Sincos(theta)
	return NewMat3([9]float64{
		-sinT, -cosT, 0,
		cosT, -sinT, 0,
		0, 0, 0,
	})
}
