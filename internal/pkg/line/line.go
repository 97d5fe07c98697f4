// Package line stamps the impedance-parameterised line representations:
// per-length phase impedance, per-length sequence impedance and
// ACLineSegment lines carrying their own sequence values.
package line

import (
	"fmt"

	"github.com/ohowland/ybus_core/internal/pkg/cmatrix"
	"github.com/ohowland/ybus_core/internal/pkg/ybus"
)

// Skip reasons
const (
	ReasonUnknownConfig = "line_unknown_config"
	ReasonDuplicate     = "line_duplicate"
	ReasonMalformed     = "line_malformed"
)

// Seen tracks the line names already stamped. A line is stamped by at
// most one representation per build.
type Seen map[string]bool

// Claim marks name stamped. It returns false if it already was.
func (s Seen) Claim(name string) bool {
	if s[name] {
		return false
	}
	s[name] = true
	return true
}

// Builder stamps line primitives into a Ybus
type Builder struct {
	ybus    *ybus.Matrix
	seen    Seen
	skipped ybus.Skipped
}

// NewBuilder returns a Builder writing into m. seen is shared with every
// other line representation of the same build.
func NewBuilder(m *ybus.Matrix, seen Seen, skipped ybus.Skipped) *Builder {
	if seen == nil {
		seen = Seen{}
	}
	return &Builder{ybus: m, seen: seen, skipped: skipped}
}

// Seen is a getter for the stamped line set
func (b *Builder) Seen() Seen {
	return b.seen
}

// Stamp computes -(length*z)^-1 and stamps it between the terminals.
// A singular impedance is returned wrapped with the line name.
func Stamp(m *ybus.Matrix, name string, from, to []ybus.NodeKey, z *cmatrix.Matrix, length float64) error {
	y, err := cmatrix.AdmittanceOf(z, length)
	if err != nil {
		return fmt.Errorf("line %v: %w", name, err)
	}
	if err := m.StampBranch(from, to, y); err != nil {
		return fmt.Errorf("line %v: %w", name, err)
	}
	return nil
}

// SequenceToPhase converts positive and zero sequence values into the
// full 3x3 phase impedance matrix of a transposed line.
func SequenceToPhase(r1, x1, r0, x0 float64) *cmatrix.Matrix {
	zs := complex((r0+2.0*r1)/3.0, (x0+2.0*x1)/3.0)
	zm := complex((r0-r1)/3.0, (x0-x1)/3.0)
	z := cmatrix.New(3, 3)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i == j {
				z.Set(i, j, zs)
			} else {
				z.Set(i, j, zm)
			}
		}
	}
	return z
}

func threePhaseTerminals(bus1, bus2 string) ([]ybus.NodeKey, []ybus.NodeKey) {
	a, b := ybus.ThreePhase(bus1), ybus.ThreePhase(bus2)
	return a[:], b[:]
}
