package cmatrix

import (
	"errors"
	"math/cmplx"
	"testing"

	"gotest.tools/v3/assert"
)

func near(a, b complex128) bool {
	return cmplx.Abs(a-b) <= 1e-9*(1+cmplx.Abs(b))
}

func TestInverseIdentity(t *testing.T) {
	m := New(3, 3)
	m.Set(0, 0, complex(2, 1))
	m.Set(0, 1, complex(0.5, 0.2))
	m.Set(1, 0, complex(0.5, 0.2))
	m.Set(1, 1, complex(3, -1))
	m.Set(1, 2, complex(0.1, 0.1))
	m.Set(2, 1, complex(0.1, 0.1))
	m.Set(2, 2, complex(1, 4))

	inv, err := m.Inverse()
	assert.NilError(t, err)

	prod, err := m.Mul(inv)
	assert.NilError(t, err)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := complex128(0)
			if i == j {
				want = 1
			}
			assert.Assert(t, near(prod.At(i, j), want), "(%d,%d) = %v", i, j, prod.At(i, j))
		}
	}
}

func TestInverseNeedsPivot(t *testing.T) {
	m := FromReal(2, 2, []float64{0, 1, 1, 0})
	inv, err := m.Inverse()
	assert.NilError(t, err)
	assert.Equal(t, inv.At(0, 1), complex128(1))
	assert.Equal(t, inv.At(1, 0), complex128(1))
}

func TestInverseSingular(t *testing.T) {
	m := FromReal(2, 2, []float64{1, 2, 2, 4})
	_, err := m.Inverse()
	assert.Assert(t, errors.Is(err, ErrSingular))

	_, err = New(1, 1).Inverse()
	assert.Assert(t, errors.Is(err, ErrSingular))
}

func TestDelete(t *testing.T) {
	m := FromReal(3, 3, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	d := m.Delete(1)
	r, c := d.Dims()
	assert.Equal(t, r, 2)
	assert.Equal(t, c, 2)
	assert.Equal(t, d.At(0, 0), complex128(1))
	assert.Equal(t, d.At(0, 1), complex128(3))
	assert.Equal(t, d.At(1, 0), complex128(7))
	assert.Equal(t, d.At(1, 1), complex128(9))
}

func TestTransposeAndMul(t *testing.T) {
	a := FromReal(2, 3, []float64{1, 2, 3, 4, 5, 6})
	p, err := a.Mul(a.T())
	assert.NilError(t, err)
	assert.Equal(t, p.At(0, 0), complex128(14))
	assert.Equal(t, p.At(0, 1), complex128(32))
	assert.Equal(t, p.At(1, 1), complex128(77))

	_, err = a.Mul(a)
	assert.Assert(t, errors.Is(err, ErrDimension))
}

func TestKronReduceByHand(t *testing.T) {
	zaa := complex(0.4, 1.2)
	zan := complex(0.05, 0.5)
	znn := complex(0.6, 1.3)

	z := New(2, 2)
	z.Set(0, 0, zaa)
	z.SetSymmetric(0, 1, zan)
	z.Set(1, 1, znn)

	red, err := z.KronReduce(1)
	assert.NilError(t, err)
	want := zaa - zan*zan/znn
	assert.Assert(t, near(red.At(0, 0), want))
}

func TestAdmittanceOf(t *testing.T) {
	z := New(1, 1)
	z.Set(0, 0, complex(1, 1))
	y, err := AdmittanceOf(z, 2)
	assert.NilError(t, err)
	assert.Assert(t, near(y.At(0, 0), -1/complex(2, 2)))
}
