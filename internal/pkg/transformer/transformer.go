// Package transformer builds transformer primitives with the nodal
// formulation Ycomp = A N B inv(Zb) B' N' A' and stamps them into a Ybus.
package transformer

import (
	"errors"
	"fmt"
	"math"

	"github.com/ohowland/ybus_core/internal/pkg/cmatrix"
	"github.com/ohowland/ybus_core/internal/pkg/ybus"
)

// ErrUnsupportedTopology is a winding arrangement with no primitive model
var ErrUnsupportedTopology = errors.New("unsupported transformer topology")

// Skip reasons
const (
	ReasonUnsupportedTopology = "transformer_unsupported_topology"
	ReasonIncomplete          = "transformer_incomplete"
	ReasonMalformed           = "transformer_malformed"
)

// Connection is the winding connection of a transformer end
type Connection int

const (
	Wye Connection = iota
	Delta
)

func (c Connection) String() string {
	if c == Delta {
		return "D"
	}
	return "Y"
}

// ParseConnection accepts the CIM winding connection kinds Y, Yn and D
func ParseConnection(s string) (Connection, error) {
	switch s {
	case "Y", "Yn":
		return Wye, nil
	case "D":
		return Delta, nil
	}
	return 0, fmt.Errorf("unsupported winding connection %q", s)
}

// Builder stamps transformer primitives into a Ybus
type Builder struct {
	ybus    *ybus.Matrix
	skipped ybus.Skipped
}

// NewBuilder returns a Builder writing into m
func NewBuilder(m *ybus.Matrix, skipped ybus.Skipped) *Builder {
	return &Builder{ybus: m, skipped: skipped}
}

// set returns a zero rows x cols matrix with v written at every index pair
func set(rows, cols int, v float64, at ...[2]int) *cmatrix.Matrix {
	m := cmatrix.New(rows, cols)
	for _, p := range at {
		m.Set(p[0], p[1], complex(v, 0))
	}
	return m
}

var (
	y1 = set(4, 12, 1, [2]int{0, 0}, [2]int{1, 4}, [2]int{2, 8}, [2]int{3, 1}, [2]int{3, 5}, [2]int{3, 9})
	y2 = set(4, 12, 1, [2]int{0, 2}, [2]int{1, 6}, [2]int{2, 10}, [2]int{3, 3}, [2]int{3, 7}, [2]int{3, 11})
	d1 = set(4, 12, 1, [2]int{0, 0}, [2]int{0, 9}, [2]int{1, 1}, [2]int{1, 4}, [2]int{2, 5}, [2]int{2, 8})
	d2 = set(4, 12, 1, [2]int{0, 2}, [2]int{0, 11}, [2]int{1, 3}, [2]int{1, 6}, [2]int{2, 7}, [2]int{2, 10})
)

// incidence stacks the primary and secondary connection matrices
func incidence(primary, secondary Connection) *cmatrix.Matrix {
	top, bottom := y1, y2
	if primary == Delta {
		top = d1
	}
	if secondary == Delta {
		bottom = d2
	}
	a := cmatrix.New(8, 12)
	for i := 0; i < 4; i++ {
		for j := 0; j < 12; j++ {
			a.Set(i, j, top.At(i, j))
			a.Set(i+4, j, bottom.At(i, j))
		}
	}
	return a
}

// nodal computes A N B inv(Zb) B' N' A'
func nodal(a, n, b, zb *cmatrix.Matrix) (*cmatrix.Matrix, error) {
	invZb, err := zb.Inverse()
	if err != nil {
		return nil, err
	}
	return cmatrix.MulChain(a, n, b, invZb, b.T(), n.T(), a.T())
}

// ThreePhase is the 6x6 primitive of a three-phase two-winding bank
// with per-phase short-circuit impedance zsc. Rows are primary A, B, C
// then secondary A, B, C.
func ThreePhase(primary, secondary Connection, u1, u2 float64, zsc complex128) (*cmatrix.Matrix, error) {
	vp, vs := u1, u2
	if primary == Wye {
		vp = u1 / math.Sqrt(3.0)
	}
	if secondary == Wye {
		vs = u2 / math.Sqrt(3.0)
	}

	b := set(6, 3, 1, [2]int{0, 0}, [2]int{2, 1}, [2]int{4, 2})
	for _, p := range [][2]int{{1, 0}, {3, 1}, {5, 2}} {
		b.Set(p[0], p[1], -1)
	}

	n := cmatrix.New(12, 6)
	for _, p := range [][2]int{{0, 0}, {4, 2}, {8, 4}} {
		n.Set(p[0], p[1], complex(1/vp, 0))
	}
	for _, p := range [][2]int{{1, 0}, {5, 2}, {9, 4}} {
		n.Set(p[0], p[1], complex(-1/vp, 0))
	}
	for _, p := range [][2]int{{2, 1}, {6, 3}, {10, 5}} {
		n.Set(p[0], p[1], complex(1/vs, 0))
	}
	for _, p := range [][2]int{{3, 1}, {7, 3}, {11, 5}} {
		n.Set(p[0], p[1], complex(-1/vs, 0))
	}

	zb := cmatrix.New(3, 3)
	for i := 0; i < 3; i++ {
		zb.Set(i, i, zsc)
	}

	y, err := nodal(incidence(primary, secondary), n, b, zb)
	if err != nil {
		return nil, err
	}
	// drop the neutral rows of each side
	return y.Delete(7).Delete(3), nil
}

// SinglePhase is the 2x2 primitive of a single-phase two-winding tank
func SinglePhase(u1, u2 float64, zsc complex128) (*cmatrix.Matrix, error) {
	n := cmatrix.New(4, 2)
	n.Set(0, 0, complex(1/u1, 0))
	n.Set(1, 0, complex(-1/u1, 0))
	n.Set(2, 1, complex(1/u2, 0))
	n.Set(3, 1, complex(-1/u2, 0))
	b := cmatrix.FromReal(2, 1, []float64{1, -1})
	zb := cmatrix.New(1, 1)
	zb.Set(0, 0, zsc)

	y, err := nodal(cmatrix.Identity(4), n, b, zb)
	if err != nil {
		return nil, err
	}
	return y.Delete(3).Delete(1), nil
}

// SplitPhase is the 3x3 primitive of a center-tapped single-phase tank.
// The second secondary winding is wound in reverse.
func SplitPhase(u1, u2, u3 float64, zsc, zod complex128) (*cmatrix.Matrix, error) {
	n := cmatrix.New(6, 3)
	n.Set(0, 0, complex(1/u1, 0))
	n.Set(1, 0, complex(-1/u1, 0))
	n.Set(2, 1, complex(1/u2, 0))
	n.Set(3, 1, complex(-1/u2, 0))
	n.Set(4, 2, complex(-1/u3, 0))
	n.Set(5, 2, complex(1/u3, 0))
	b := cmatrix.FromReal(3, 2, []float64{1, 1, -1, 0, 0, 1})
	zb := cmatrix.New(2, 2)
	zb.Set(0, 0, zsc)
	zb.Set(1, 1, zsc)
	zb.SetSymmetric(1, 0, 0.5*(zsc+zsc-zod))

	y, err := nodal(cmatrix.Identity(6), n, b, zb)
	if err != nil {
		return nil, err
	}
	return y.Delete(4).Delete(3).Delete(1), nil
}
