// Package cmatrix holds the small dense complex matrices used for line and
// transformer primitives, with the arithmetic and inverse their assembly
// needs.
package cmatrix

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
)

// ErrSingular is returned when a matrix has no inverse.
var ErrSingular = errors.New("cmatrix: matrix is singular")

// ErrDimension is returned when operand dimensions do not agree.
var ErrDimension = errors.New("cmatrix: dimension mismatch")

const pivotTolerance = 1e-300

// Matrix is a small row-major dense complex matrix
type Matrix struct {
	rows int
	cols int
	data []complex128
}

// New returns a zeroed rows x cols matrix
func New(rows, cols int) *Matrix {
	return &Matrix{rows, cols, make([]complex128, rows*cols)}
}

// Identity returns the n x n identity matrix
func Identity(n int) *Matrix {
	m := New(n, n)
	for i := 0; i < n; i++ {
		m.Set(i, i, 1)
	}
	return m
}

// FromReal builds a matrix from real row-major values
func FromReal(rows, cols int, values []float64) *Matrix {
	m := New(rows, cols)
	for i, v := range values {
		m.data[i] = complex(v, 0)
	}
	return m
}

// Dims returns the row and column counts
func (m *Matrix) Dims() (int, int) {
	return m.rows, m.cols
}

// Size is the number of elements
func (m *Matrix) Size() int {
	return m.rows * m.cols
}

func (m *Matrix) At(i, j int) complex128 {
	return m.data[i*m.cols+j]
}

func (m *Matrix) Set(i, j int, v complex128) {
	m.data[i*m.cols+j] = v
}

// SetSymmetric writes v at (i,j) and (j,i)
func (m *Matrix) SetSymmetric(i, j int, v complex128) {
	m.Set(i, j, v)
	m.Set(j, i, v)
}

// Clone returns a deep copy
func (m *Matrix) Clone() *Matrix {
	c := New(m.rows, m.cols)
	copy(c.data, m.data)
	return c
}

// Scale returns s*m
func (m *Matrix) Scale(s complex128) *Matrix {
	c := m.Clone()
	for i := range c.data {
		c.data[i] *= s
	}
	return c
}

// Sub returns m-o
func (m *Matrix) Sub(o *Matrix) (*Matrix, error) {
	if m.rows != o.rows || m.cols != o.cols {
		return nil, fmt.Errorf("%w: %dx%d - %dx%d", ErrDimension, m.rows, m.cols, o.rows, o.cols)
	}
	c := m.Clone()
	for i := range c.data {
		c.data[i] -= o.data[i]
	}
	return c, nil
}

// Mul returns m*o
func (m *Matrix) Mul(o *Matrix) (*Matrix, error) {
	if m.cols != o.rows {
		return nil, fmt.Errorf("%w: %dx%d * %dx%d", ErrDimension, m.rows, m.cols, o.rows, o.cols)
	}
	c := New(m.rows, o.cols)
	for i := 0; i < m.rows; i++ {
		for k := 0; k < m.cols; k++ {
			a := m.At(i, k)
			if a == 0 {
				continue
			}
			for j := 0; j < o.cols; j++ {
				c.data[i*c.cols+j] += a * o.At(k, j)
			}
		}
	}
	return c, nil
}

// MulChain multiplies the matrices left to right
func MulChain(ms ...*Matrix) (*Matrix, error) {
	if len(ms) == 0 {
		return nil, ErrDimension
	}
	acc := ms[0]
	for _, m := range ms[1:] {
		var err error
		if acc, err = acc.Mul(m); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// T returns the transpose. Entries are not conjugated.
func (m *Matrix) T() *Matrix {
	c := New(m.cols, m.rows)
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			c.Set(j, i, m.At(i, j))
		}
	}
	return c
}

// Slice returns the sub-matrix of rows [r0,r1) and columns [c0,c1)
func (m *Matrix) Slice(r0, r1, c0, c1 int) *Matrix {
	c := New(r1-r0, c1-c0)
	for i := r0; i < r1; i++ {
		for j := c0; j < c1; j++ {
			c.Set(i-r0, j-c0, m.At(i, j))
		}
	}
	return c
}

// Delete removes row i and column i from a square matrix
func (m *Matrix) Delete(i int) *Matrix {
	n := m.rows - 1
	c := New(n, m.cols-1)
	for r, rr := 0, 0; r < m.rows; r++ {
		if r == i {
			continue
		}
		for k, kk := 0, 0; k < m.cols; k++ {
			if k == i {
				continue
			}
			c.Set(rr, kk, m.At(r, k))
			kk++
		}
		rr++
	}
	return c
}

// Inverse computes the inverse by Gauss-Jordan elimination with partial pivoting.
func (m *Matrix) Inverse() (*Matrix, error) {
	if m.rows != m.cols {
		return nil, fmt.Errorf("%w: inverse of %dx%d", ErrDimension, m.rows, m.cols)
	}
	n := m.rows
	a := m.Clone()
	inv := Identity(n)

	for col := 0; col < n; col++ {
		pivot := col
		best := cmplx.Abs(a.At(col, col))
		for r := col + 1; r < n; r++ {
			if v := cmplx.Abs(a.At(r, col)); v > best {
				best, pivot = v, r
			}
		}
		if best < pivotTolerance || math.IsNaN(best) {
			return nil, ErrSingular
		}
		if pivot != col {
			a.swapRows(pivot, col)
			inv.swapRows(pivot, col)
		}

		p := a.At(col, col)
		for j := 0; j < n; j++ {
			a.Set(col, j, a.At(col, j)/p)
			inv.Set(col, j, inv.At(col, j)/p)
		}

		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			f := a.At(r, col)
			if f == 0 {
				continue
			}
			for j := 0; j < n; j++ {
				a.Set(r, j, a.At(r, j)-f*a.At(col, j))
				inv.Set(r, j, inv.At(r, j)-f*inv.At(col, j))
			}
		}
	}

	for _, v := range inv.data {
		if cmplx.IsNaN(v) || cmplx.IsInf(v) {
			return nil, ErrSingular
		}
	}
	return inv, nil
}

func (m *Matrix) swapRows(i, j int) {
	for k := 0; k < m.cols; k++ {
		a, b := m.At(i, k), m.At(j, k)
		m.Set(i, k, b)
		m.Set(j, k, a)
	}
}

// KronReduce eliminates every conductor at index >= n:
// Zabc = Zij - Zin * inv(Znn) * Znj
func (m *Matrix) KronReduce(n int) (*Matrix, error) {
	if m.rows != m.cols || n <= 0 || n > m.rows {
		return nil, fmt.Errorf("%w: kron reduce %dx%d at %d", ErrDimension, m.rows, m.cols, n)
	}
	if n == m.rows {
		return m.Clone(), nil
	}
	zij := m.Slice(0, n, 0, n)
	zin := m.Slice(0, n, n, m.cols)
	znj := m.Slice(n, m.rows, 0, n)
	znn := m.Slice(n, m.rows, n, m.cols)

	invZnn, err := znn.Inverse()
	if err != nil {
		return nil, err
	}
	prod, err := MulChain(zin, invZnn, znj)
	if err != nil {
		return nil, err
	}
	return zij.Sub(prod)
}

// AdmittanceOf returns -(length*z)^-1, the primitive admittance stamped for a line segment
func AdmittanceOf(z *Matrix, length float64) (*Matrix, error) {
	inv, err := z.Scale(complex(length, 0)).Inverse()
	if err != nil {
		return nil, err
	}
	return inv.Scale(-1), nil
}
