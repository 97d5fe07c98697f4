package transformer

import (
	"fmt"
	"math"

	"github.com/ohowland/ybus_core/internal/pkg/model"
	"github.com/ohowland/ybus_core/internal/pkg/ybus"
)

// Topology is the winding arrangement of a transformer tank
type Topology int

const (
	ThreePhaseTwoWinding Topology = iota
	SinglePhaseTwoWinding
	SplitPhaseThreeWinding
)

func (t Topology) String() string {
	switch t {
	case ThreePhaseTwoWinding:
		return "3p"
	case SinglePhaseTwoWinding:
		return "2w"
	case SplitPhaseThreeWinding:
		return "3w"
	}
	return "unknown"
}

type tankEnd struct {
	winding
	phase string
}

// TankTopology classifies a tank from the phase of end 1 and whether an
// end 3 exists. A three-phase tank with a third end is unsupported.
func TankTopology(phase1 string, hasEnd3 bool) (Topology, error) {
	if phase1 == "ABC" {
		if hasEnd3 {
			return 0, fmt.Errorf("%w: 3-winding, 3-phase TransformerTank", ErrUnsupportedTopology)
		}
		return ThreePhaseTwoWinding, nil
	}
	if hasEnd3 {
		return SplitPhaseThreeWinding, nil
	}
	return SinglePhaseTwoWinding, nil
}

// Tanks stamps TransformerTank transformers and returns the number stamped
func (b *Builder) Tanks(rated []model.TankRated, sct []model.TankShortCircuit, names []model.TankName) (int, error) {
	if len(rated) == 0 || len(names) == 0 {
		return 0, nil
	}
	ratings := newEndSet()
	for _, r := range rated {
		ratings.put(*r.XfmrName, *r.EndNumber, winding{
			connection: *r.Connection,
			ratedS:     math.Trunc(*r.RatedS),
			ratedU:     math.Trunc(*r.RatedU),
			r:          *r.R,
		})
	}
	leakage := make(map[string]map[int]float64)
	for _, s := range sct {
		if leakage[*s.XfmrName] == nil {
			leakage[*s.XfmrName] = make(map[int]float64)
		}
		leakage[*s.XfmrName][*s.EndNumber] = *s.LeakageZ
	}
	type terminal struct{ bus, phase string }
	terminals := make(map[string]map[int]terminal)
	order := []string{}
	for _, n := range names {
		if terminals[*n.XfmrName] == nil {
			terminals[*n.XfmrName] = make(map[int]terminal)
			order = append(order, *n.XfmrName)
		}
		terminals[*n.XfmrName][*n.EndNumber] = terminal{*n.Bus, *n.Phase}
	}

	stamped := 0
	for _, name := range order {
		ends := make(map[int]tankEnd)
		for number, t := range terminals[name] {
			w, ok := ratings.ends[name][number]
			if !ok {
				continue
			}
			w.bus = t.bus
			ends[number] = tankEnd{w, t.phase}
		}
		ok, err := b.tank(name, ends, leakage[name])
		if err != nil {
			return stamped, err
		}
		if ok {
			stamped++
		}
	}
	return stamped, nil
}

func (b *Builder) tank(name string, ends map[int]tankEnd, leak map[int]float64) (bool, error) {
	e1, ok1 := ends[1]
	e2, ok2 := ends[2]
	l1, okl := leak[1]
	if !ok1 || !ok2 || !okl {
		b.skipped.Note("Transformer", ReasonIncomplete, name, "missing end or short-circuit test")
		return false, nil
	}
	e3, has3 := ends[3]
	topology, err := TankTopology(e1.phase, has3)
	if err != nil {
		b.skipped.Note("Transformer", ReasonUnsupportedTopology, name, err)
		return false, nil
	}
	if !e1.valid() || !e2.valid() || (has3 && !e3.valid()) {
		b.skipped.Note("Transformer", ReasonMalformed, name, "non-positive rating")
		return false, nil
	}

	zBaseP := e1.ratedU * e1.ratedU / e1.ratedS
	zBaseS := e2.ratedU * e2.ratedU / e2.ratedS
	rpu := e1.r / zBaseP
	xpu := l1 / zBaseP

	switch topology {
	case ThreePhaseTwoWinding:
		return b.threePhase(name, e1.winding, e2.winding, l1)

	case SplitPhaseThreeWinding:
		l2, ok := leak[2]
		if !ok {
			b.skipped.Note("Transformer", ReasonIncomplete, name, "missing end 2 short-circuit test")
			return false, nil
		}
		nodes, ok := b.tankNodes(name, e1, e2, e3)
		if !ok {
			return false, nil
		}
		zsc := complex(3.0*rpu, xpu) / complex(e1.ratedS, 0)
		zod := complex(2.0*e2.r, l2) / complex(zBaseS, 0) / complex(e2.ratedS, 0)
		y, err := SplitPhase(e1.ratedU, e2.ratedU, e3.ratedU, zsc, zod)
		if err != nil {
			return false, fmt.Errorf("transformer %v: %w", name, err)
		}
		return true, stampNodes(b.ybus, nodes, y)

	default:
		nodes, ok := b.tankNodes(name, e1, e2)
		if !ok {
			return false, nil
		}
		zsc := complex(2.0*rpu, xpu) / complex(e1.ratedS, 0)
		y, err := SinglePhase(e1.ratedU, e2.ratedU, zsc)
		if err != nil {
			return false, fmt.Errorf("transformer %v: %w", name, err)
		}
		return true, stampNodes(b.ybus, nodes, y)
	}
}

func (b *Builder) tankNodes(name string, ends ...tankEnd) ([]ybus.NodeKey, bool) {
	nodes := make([]ybus.NodeKey, len(ends))
	for i, e := range ends {
		idx, ok := ybus.PhaseIndex(e.phase)
		if !ok || idx == ybus.PhaseN {
			b.skipped.Note("Transformer", ReasonMalformed, name, fmt.Sprintf("end %d phase %q", i+1, e.phase))
			return nil, false
		}
		nodes[i] = ybus.NewNodeKey(e.bus, idx)
	}
	return nodes, true
}
