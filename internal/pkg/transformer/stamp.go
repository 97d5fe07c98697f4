package transformer

import (
	"fmt"

	"github.com/ohowland/ybus_core/internal/pkg/cmatrix"
	"github.com/ohowland/ybus_core/internal/pkg/ybus"
)

// Stamp6x6 places a three-phase primitive between bus1 and bus2. Same-bus
// terms accumulate; cross-bus terms are unique fills. dy selects the
// cross-phase placement of a delta-wye bank.
func Stamp6x6(m *ybus.Matrix, bus1, bus2 string, dy bool, y *cmatrix.Matrix) error {
	if r, c := y.Dims(); r != 6 || c != 6 {
		return fmt.Errorf("%w: %dx%d transformer primitive", cmatrix.ErrDimension, r, c)
	}
	p := ybus.ThreePhase(bus1)
	s := ybus.ThreePhase(bus2)

	m.Add(p[0], p[0], y.At(0, 0))
	m.Add(p[1], p[0], y.At(1, 0))
	m.Add(p[1], p[1], y.At(1, 1))
	m.Add(p[2], p[0], y.At(2, 0))
	m.Add(p[2], p[1], y.At(2, 1))
	m.Add(p[2], p[2], y.At(2, 2))
	m.SetUnique(s[0], p[0], y.At(3, 0))
	m.Add(s[0], s[0], y.At(3, 3))
	m.SetUnique(s[1], p[1], y.At(4, 1))
	m.Add(s[1], s[0], y.At(4, 3))
	m.Add(s[1], s[1], y.At(4, 4))
	m.SetUnique(s[2], p[2], y.At(5, 2))
	m.Add(s[2], s[0], y.At(5, 3))
	m.Add(s[2], s[1], y.At(5, 4))
	m.Add(s[2], s[2], y.At(5, 5))

	if dy {
		m.SetUnique(s[0], p[1], y.At(4, 0))
		m.SetUnique(s[0], p[2], y.At(5, 0))
		m.SetUnique(s[1], p[0], y.At(3, 1))
		m.SetUnique(s[1], p[2], y.At(5, 1))
		m.SetUnique(s[2], p[0], y.At(3, 2))
		m.SetUnique(s[2], p[1], y.At(4, 2))
	} else {
		m.SetUnique(s[1], p[0], y.At(4, 0))
		m.SetUnique(s[2], p[0], y.At(5, 0))
		m.SetUnique(s[0], p[1], y.At(3, 1))
		m.SetUnique(s[2], p[1], y.At(5, 1))
		m.SetUnique(s[0], p[2], y.At(3, 2))
		m.SetUnique(s[1], p[2], y.At(4, 2))
	}
	return nil
}

// stampNodes places an n x n single-phase primitive on nodes: the first
// node accumulates, the rest pair with it uniquely and accumulate with
// each other.
func stampNodes(m *ybus.Matrix, nodes []ybus.NodeKey, y *cmatrix.Matrix) error {
	if r, c := y.Dims(); r != len(nodes) || c != len(nodes) {
		return fmt.Errorf("%w: %dx%d primitive for %d nodes", cmatrix.ErrDimension, r, c, len(nodes))
	}
	m.Add(nodes[0], nodes[0], y.At(0, 0))
	for i := 1; i < len(nodes); i++ {
		m.SetUnique(nodes[i], nodes[0], y.At(i, 0))
		for j := 1; j <= i; j++ {
			m.Add(nodes[i], nodes[j], y.At(i, j))
		}
	}
	return nil
}
