package spicemath

import "gonum.org/v1/gonum/mat"

// Mat6 is a row-major 6x6 matrix, used only for the sxform block
// [[R, 0], [dR, R]].
type Mat6 struct {
	rows [36]float64
}

// Identity6 returns the 6x6 identity matrix.
func Identity6() Mat6 {
	var rows [36]float64
	for i := 0; i < 6; i++ {
		rows[i*6+i] = 1
	}
	return Mat6{rows: rows}
}

// NewMat6Blocks assembles a Mat6 from four 3x3 blocks:
//
//	[ upperLeft   upperRight ]
//	[ lowerLeft   lowerRight ]
func NewMat6Blocks(upperLeft, upperRight, lowerLeft, lowerRight Mat3) Mat6 {
	var rows [36]float64
	place := func(block Mat3, rowOff, colOff int) {
		b := block.Array()
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				rows[(rowOff+i)*6+(colOff+j)] = czero(b[i*3+j])
			}
		}
	}
	place(upperLeft, 0, 0)
	place(upperRight, 0, 3)
	place(lowerLeft, 3, 0)
	place(lowerRight, 3, 3)
	return Mat6{rows: rows}
}

// Array returns a copy of the row-major elements.
func (m Mat6) Array() [36]float64 { return m.rows }

func (m Mat6) dense() *mat.Dense {
	return mat.NewDense(6, 6, m.rows[:])
}

// MulStateVector computes m*s for a 6-vector [x,y,z,vx,vy,vz] (spec's mxv6).
func MulStateVector(m Mat6, s [6]float64) [6]float64 {
	r := m.dense()
	var out [6]float64
	for i := 0; i < 6; i++ {
		sum := 0.0
		for j := 0; j < 6; j++ {
			sum += r.At(i, j) * s[j]
		}
		out[i] = czero(sum)
	}
	return out
}
