// Package shunt aggregates capacitor and transformer core admittances
// onto the diagonal of an assembled Ybus.
package shunt

import (
	"math"
	"sort"

	"github.com/ohowland/ybus_core/internal/pkg/model"
	"github.com/ohowland/ybus_core/internal/pkg/transformer"
	"github.com/ohowland/ybus_core/internal/pkg/ybus"
)

// Sums accumulates per-node shunt admittance
type Sums map[ybus.NodeKey]complex128

func (s Sums) add(n ybus.NodeKey, v complex128) {
	s[n] += v
}

// Apply adds every sum onto its node's existing diagonal, in node order
func (s Sums) Apply(m *ybus.Matrix) {
	nodes := make([]ybus.NodeKey, 0, len(s))
	for n := range s {
		nodes = append(nodes, n)
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Less(nodes[j]) })
	for _, n := range nodes {
		m.AddShunt(n, s[n])
	}
}

// nodes resolves a bus and phase designation. An empty phase or ABC is
// all three phases.
func nodes(bus, phase string) []ybus.NodeKey {
	if phase == "" || phase == "ABC" {
		all := ybus.ThreePhase(bus)
		return all[:]
	}
	idx, ok := ybus.PhaseIndex(phase)
	if !ok {
		return nil
	}
	return []ybus.NodeKey{ybus.NewNodeKey(bus, idx)}
}

// Capacitors sums b_per_section per node
func Capacitors(caps []model.Capacitor) Sums {
	s := Sums{}
	for _, c := range caps {
		phase := ""
		if c.Phase != nil {
			phase = *c.Phase
		}
		for _, n := range nodes(*c.Bus, phase) {
			s.add(n, complex(0, *c.BPerSection))
		}
	}
	return s
}

// Magnetizing returns the core conductance and susceptance of a tank from
// its no-load test, referred to a winding of ratedS and ratedU. When the
// loss exceeds the exciting admittance the susceptance is clamped to it.
func Magnetizing(noLoadKW, iExciting, ratedS, ratedU float64) (g, b float64) {
	g = noLoadKW * 1000.0 / (ratedU * ratedU)
	ym := iExciting / 100.0 * ratedS / ratedU / ratedU
	sq := ym*ym - g*g
	if sq < 0 {
		return g, ym
	}
	return g, math.Sqrt(sq)
}

type rating struct{ s, u float64 }

// TankCores sums the core admittance of every tank at the nodes of its
// ends numbered 2 and above, using the end 2 rating. Tanks the transformer
// builder cannot model contribute nothing.
func TankCores(rated []model.TankRated, names []model.TankName, noLoad []model.TankNoLoad) Sums {
	phase1 := make(map[string]string)
	hasEnd3 := make(map[string]bool)
	for _, n := range names {
		switch *n.EndNumber {
		case 1:
			phase1[*n.XfmrName] = *n.Phase
		case 3:
			hasEnd3[*n.XfmrName] = true
		}
	}
	end2 := make(map[string]rating)
	for _, r := range rated {
		if *r.EndNumber == 2 {
			end2[*r.XfmrName] = rating{math.Trunc(*r.RatedS), math.Trunc(*r.RatedU)}
		}
	}
	nlt := make(map[string]model.TankNoLoad)
	for _, t := range noLoad {
		nlt[*t.XfmrName] = t
	}

	s := Sums{}
	for _, n := range names {
		if *n.EndNumber < 2 {
			continue
		}
		if _, err := transformer.TankTopology(phase1[*n.XfmrName], hasEnd3[*n.XfmrName]); err != nil {
			continue
		}
		r, ok := end2[*n.XfmrName]
		t, okt := nlt[*n.XfmrName]
		if !ok || !okt || r.u <= 0 {
			continue
		}
		g, b := Magnetizing(*t.NoLoadLossKW, *t.IExciting, r.s, r.u)
		for _, node := range nodes(*n.Bus, *n.Phase) {
			s.add(node, complex(g, -b))
		}
	}
	return s
}

// EndCores sums the core admittance of every PowerTransformerEnd
// transformer at its end 2 bus, referred through the square of the turns
// ratio. Three-winding transformers are not modelled and contribute
// nothing.
func EndCores(names []model.EndName, admittances []model.EndAdmittance) Sums {
	ratedU := make(map[string]map[int]float64)
	for _, n := range names {
		if ratedU[*n.XfmrName] == nil {
			ratedU[*n.XfmrName] = make(map[int]float64)
		}
		ratedU[*n.XfmrName][*n.EndNumber] = math.Trunc(*n.RatedU)
	}
	ys := make(map[string]model.EndAdmittance)
	for _, a := range admittances {
		ys[*a.XfmrName] = a
	}

	s := Sums{}
	for _, n := range names {
		if *n.EndNumber != 2 {
			continue
		}
		if _, three := ratedU[*n.XfmrName][3]; three {
			continue
		}
		y, ok := ys[*n.XfmrName]
		u1, ok1 := ratedU[*n.XfmrName][1]
		u2 := ratedU[*n.XfmrName][2]
		if !ok || !ok1 || u2 <= 0 {
			continue
		}
		ratio := (u1 / u2) * (u1 / u2)
		for _, node := range nodes(*n.Bus, "") {
			s.add(node, complex(*y.G*ratio, -*y.B*ratio))
		}
	}
	return s
}
