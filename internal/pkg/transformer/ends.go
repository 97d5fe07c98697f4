package transformer

import (
	"fmt"
	"math"

	"github.com/ohowland/ybus_core/internal/pkg/model"
)

// winding is one end of a transformer. Ratings are whole volt-amperes and
// volts.
type winding struct {
	bus        string
	connection string
	ratedS     float64
	ratedU     float64
	r          float64
}

func (w winding) valid() bool {
	return w.ratedS > 0 && w.ratedU > 0
}

// endSet indexes the windings of every transformer by end number, in
// first-seen order.
type endSet struct {
	order []string
	ends  map[string]map[int]winding
}

func newEndSet() *endSet {
	return &endSet{ends: make(map[string]map[int]winding)}
}

func (s *endSet) put(name string, number int, w winding) {
	if _, ok := s.ends[name]; !ok {
		s.ends[name] = make(map[int]winding)
		s.order = append(s.order, name)
	}
	s.ends[name][number] = w
}

// PowerTransformerEnds stamps three-phase two-winding PowerTransformerEnd
// transformers and returns the number stamped. Three-winding
// transformers are skipped.
func (b *Builder) PowerTransformerEnds(impedances []model.EndImpedance, names []model.EndName) (int, error) {
	if len(impedances) == 0 || len(names) == 0 {
		return 0, nil
	}
	meshX := make(map[string]float64, len(impedances))
	for _, z := range impedances {
		meshX[*z.XfmrName] = *z.MeshX
	}

	set := newEndSet()
	for _, n := range names {
		set.put(*n.XfmrName, *n.EndNumber, winding{
			bus:        *n.Bus,
			connection: *n.Connection,
			ratedS:     math.Trunc(*n.RatedS),
			ratedU:     math.Trunc(*n.RatedU),
			r:          *n.R,
		})
	}

	stamped := 0
	for _, name := range set.order {
		ends := set.ends[name]
		if e3, ok := ends[3]; ok {
			err := fmt.Errorf("%w: 3-winding, 3-phase PowerTransformerEnd, buses %v %v %v",
				ErrUnsupportedTopology, ends[1].bus, ends[2].bus, e3.bus)
			b.skipped.Note("Transformer", ReasonUnsupportedTopology, name, err)
			continue
		}
		e1, ok1 := ends[1]
		e2, ok2 := ends[2]
		x, okx := meshX[name]
		if !ok1 || !ok2 || !okx {
			b.skipped.Note("Transformer", ReasonIncomplete, name, "missing end or mesh impedance")
			continue
		}
		ok, err := b.threePhase(name, e1, e2, x)
		if err != nil {
			return stamped, err
		}
		if ok {
			stamped++
		}
	}
	return stamped, nil
}

// threePhase stamps a three-phase two-winding bank whose leakage
// reactance x is referred to the primary.
func (b *Builder) threePhase(name string, e1, e2 winding, x float64) (bool, error) {
	c1, err := ParseConnection(e1.connection)
	if err != nil {
		b.skipped.Note("Transformer", ReasonMalformed, name, err)
		return false, nil
	}
	c2, err := ParseConnection(e2.connection)
	if err != nil {
		b.skipped.Note("Transformer", ReasonMalformed, name, err)
		return false, nil
	}
	if !e1.valid() || !e2.valid() {
		b.skipped.Note("Transformer", ReasonMalformed, name, "non-positive rating")
		return false, nil
	}

	zBaseP := e1.ratedU * e1.ratedU / e1.ratedS
	zsc := complex(2.0*e1.r/zBaseP, x/zBaseP) * complex(3.0/e1.ratedS, 0)
	y, err := ThreePhase(c1, c2, e1.ratedU, e2.ratedU, zsc)
	if err != nil {
		return false, fmt.Errorf("transformer %v: %w", name, err)
	}
	dy := c1 == Delta && c2 == Wye
	if err := Stamp6x6(b.ybus, e1.bus, e2.bus, dy, y); err != nil {
		return false, fmt.Errorf("transformer %v: %w", name, err)
	}
	return true, nil
}
