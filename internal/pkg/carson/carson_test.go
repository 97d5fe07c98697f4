package carson

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/ohowland/ybus_core/internal/pkg/cmatrix"
	"github.com/ohowland/ybus_core/internal/pkg/line"
	"github.com/ohowland/ybus_core/internal/pkg/model"
	"github.com/ohowland/ybus_core/internal/pkg/ybus"
	"gotest.tools/v3/assert"
)

func relNear(a, b complex128) bool {
	return cmplx.Abs(a-b) <= 1e-9*cmplx.Abs(b)
}

func spacing(name string, cable bool, points ...Point) []model.WireSpacing {
	out := []model.WireSpacing{}
	for i, p := range points {
		out = append(out, model.WireSpacing{
			WireSpacingInfo: model.String(name),
			Cable:           model.Bool(cable),
			Seq:             model.Int(i + 1),
			X:               model.Float(p.X),
			Y:               model.Float(p.Y),
		})
	}
	return out
}

func binding(name, phase, wire, family, sp string, length float64) model.WireInfoLine {
	return model.WireInfoLine{
		LineName:        model.String(name),
		Length:          model.Float(length),
		Bus1:            model.String("b1"),
		Bus2:            model.String("b2"),
		WireSpacingInfo: model.String(sp),
		Wire:            model.String(wire),
		Phase:           model.String(phase),
		WireInfo:        model.String(family),
	}
}

func overheadWire(name string, gmr, r25 float64) model.OverheadWire {
	return model.OverheadWire{Wire: model.String(name), GMR: model.Float(gmr), R25: model.Float(r25)}
}

func TestConstants(t *testing.T) {
	assert.Assert(t, math.Abs(Rg-5.921762640653615e-05) < 1e-15)
	assert.Assert(t, math.Abs(X0-7.539822368615503e-05) < 1e-15)
	assert.Assert(t, Xg > 0)
}

// One phase conductor and a neutral reduce to a single admittance that
// can be computed by hand.
func TestKronRoundTrip(t *testing.T) {
	const length = 150.0
	lib := NewLibrary(
		spacing("sp2", false, Point{0, 8}, Point{0.6, 7.2}),
		[]model.OverheadWire{overheadWire("phase_w", 0.00446, 0.000306), overheadWire("neutral_w", 0.00248, 0.000592)},
		nil, nil,
	)
	lines := []model.WireInfoLine{
		binding("l1", "N", "neutral_w", "OverheadWireInfo", "sp2", length),
		binding("l1", "A", "phase_w", "OverheadWireInfo", "sp2", length),
	}

	m := ybus.NewMatrix()
	n, err := NewBuilder(m, nil, nil).WireInfo(lib, lines)
	assert.NilError(t, err)
	assert.Equal(t, n, 1)

	d := math.Hypot(0.6, 0.8)
	zaa := complex(0.000306+Rg, X0*math.Log(1/0.00446)+Xg)
	znn := complex(0.000592+Rg, X0*math.Log(1/0.00248)+Xg)
	zan := complex(Rg, X0*math.Log(1/d)+Xg)
	zred := zaa - zan*zan/znn
	want := -1 / (complex(length, 0) * zred)

	got, ok := m.Get(ybus.NewNodeKey("b1", 1), ybus.NewNodeKey("b2", 1))
	assert.Assert(t, ok)
	assert.Assert(t, relNear(got, want), "got %v want %v", got, want)

	self, _ := m.Get(ybus.NewNodeKey("b1", 1), ybus.NewNodeKey("b1", 1))
	assert.Assert(t, relNear(self, -want))
	_, ok = m.Get(ybus.NewNodeKey("b1", 4), ybus.NewNodeKey("b1", 4))
	assert.Assert(t, !ok, "neutral must be reduced out")
	assert.Equal(t, m.Count(), 3)
}

func TestOverheadThreePhase(t *testing.T) {
	lib := NewLibrary(
		spacing("sp4", false, Point{-1.2, 9}, Point{0, 9}, Point{1.2, 9}, Point{0, 7.5}),
		[]model.OverheadWire{overheadWire("w", 0.00446, 0.000306)},
		nil, nil,
	)
	lines := []model.WireInfoLine{}
	for _, p := range []string{"C", "N", "A", "B"} {
		lines = append(lines, binding("l3", p, "w", "OverheadWireInfo", "sp4", 300))
	}
	m := ybus.NewMatrix()
	n, err := NewBuilder(m, nil, nil).WireInfo(lib, lines)
	assert.NilError(t, err)
	assert.Equal(t, n, 1)
	assert.NilError(t, m.CheckSymmetry())
	assert.Equal(t, m.Count(), 21)

	// untransposed geometry: outer phases see each other farther apart
	ab, _ := m.Get(ybus.NewNodeKey("b1", 1), ybus.NewNodeKey("b2", 2))
	ac, _ := m.Get(ybus.NewNodeKey("b1", 1), ybus.NewNodeKey("b2", 3))
	assert.Assert(t, !relNear(ab, ac))
}

func TestConcentricNeutralSingleCable(t *testing.T) {
	cn := model.ConcentricNeutralCable{
		Wire:           model.String("cn1"),
		GMR:            model.Float(0.00636),
		R25:            model.Float(0.000253),
		DiameterJacket: model.Float(0.0325),
		StrandCount:    model.Int(13),
		StrandRadius:   model.Float(0.000814),
		StrandGMR:      model.Float(0.000634),
		StrandRDC:      model.Float(0.00906),
	}
	lib := NewLibrary(spacing("spc", true, Point{0, -1}), nil, []model.ConcentricNeutralCable{cn}, nil)
	lines := []model.WireInfoLine{binding("ug", "A", "cn1", "ConcentricNeutralCableInfo", "spc", 100)}

	m := ybus.NewMatrix()
	n, err := NewBuilder(m, nil, nil).WireInfo(lib, lines)
	assert.NilError(t, err)
	assert.Equal(t, n, 1)

	R := (0.0325 - 2*0.000814) / 2
	k := 13.0
	gmrcn := math.Pow(0.000634*k*math.Pow(R, k-1), 1/k)
	zpp := complex(0.000253+Rg, X0*math.Log(1/0.00636)+Xg)
	znn := complex(0.00906/k+Rg, X0*math.Log(1/gmrcn)+Xg)
	zpn := complex(Rg, X0*math.Log(1/R)+Xg)
	want := -1 / (100 * (zpp - zpn*zpn/znn))

	got, ok := m.Get(ybus.NewNodeKey("b1", 1), ybus.NewNodeKey("b2", 1))
	assert.Assert(t, ok)
	assert.Assert(t, relNear(got, want), "got %v want %v", got, want)
}

func TestConcentricNeutralThreeCables(t *testing.T) {
	cn := model.ConcentricNeutralCable{
		Wire:           model.String("cn1"),
		GMR:            model.Float(0.00636),
		R25:            model.Float(0.000253),
		DiameterJacket: model.Float(0.0325),
		StrandCount:    model.Int(13),
		StrandRadius:   model.Float(0.000814),
		StrandGMR:      model.Float(0.000634),
		StrandRDC:      model.Float(0.00906),
	}
	lib := NewLibrary(spacing("spc3", true, Point{-0.15, -1}, Point{0, -1}, Point{0.15, -1}), nil, []model.ConcentricNeutralCable{cn}, nil)
	lines := []model.WireInfoLine{
		binding("ug3", "B", "cn1", "ConcentricNeutralCableInfo", "spc3", 100),
		binding("ug3", "A", "cn1", "ConcentricNeutralCableInfo", "spc3", 100),
		binding("ug3", "C", "cn1", "ConcentricNeutralCableInfo", "spc3", 100),
	}
	m := ybus.NewMatrix()
	n, err := NewBuilder(m, nil, nil).WireInfo(lib, lines)
	assert.NilError(t, err)
	assert.Equal(t, n, 1)
	assert.NilError(t, m.CheckSymmetry())
	assert.Equal(t, m.Count(), 21)
}

func TestCNTableIsComplete(t *testing.T) {
	table := newCNTable()
	for dim := 1; dim <= 3; dim++ {
		for i := 2; i <= 2*dim; i++ {
			for j := 1; j < i; j++ {
				_, ok := table[cnKey{dim, i, j}]
				assert.Assert(t, ok, "missing entry dim %d (%d,%d)", dim, i, j)
			}
		}
	}
	assert.Equal(t, len(table), 1+6+15)
}

func tapeShieldLibrary(positions ...Point) *Library {
	ts := model.TapeShieldCable{
		Wire:           model.String("ts1"),
		GMR:            model.Float(0.00853),
		R25:            model.Float(0.000497),
		DiameterScreen: model.Float(0.0224),
		TapeThickness:  model.Float(0.000127),
	}
	return NewLibrary(
		spacing("spt", true, positions...),
		[]model.OverheadWire{overheadWire("neutral_w", 0.00208, 0.000365)},
		nil, []model.TapeShieldCable{ts},
	)
}

func TestTapeShield(t *testing.T) {
	lib := tapeShieldLibrary(Point{0, -1}, Point{0.0762, -1})
	lines := []model.WireInfoLine{
		binding("tl", "A", "ts1", "TapeShieldCableInfo", "spt", 50),
		binding("tl", "N", "neutral_w", "OverheadWireInfo", "spt", 50),
	}
	m := ybus.NewMatrix()
	n, err := NewBuilder(m, nil, nil).WireInfo(lib, lines)
	assert.NilError(t, err)
	assert.Equal(t, n, 1)

	w := lib.Wires["ts1"]
	shield, err := Self(TapeShield, w, true)
	assert.NilError(t, err)
	z := cmatrix.New(3, 3)
	z.Set(0, 0, complex(0.000497+Rg, X0*math.Log(1/0.00853)+Xg))
	z.SetSymmetric(1, 0, Mutual(w.TS.ShieldDistance()))
	z.Set(1, 1, shield)
	z.SetSymmetric(2, 0, Mutual(0.0762))
	z.SetSymmetric(2, 1, Mutual(0.0762))
	z.Set(2, 2, complex(0.000365+Rg, X0*math.Log(1/0.00208)+Xg))
	zred, err := z.KronReduce(1)
	assert.NilError(t, err)
	want := -1 / (50 * zred.At(0, 0))

	got, ok := m.Get(ybus.NewNodeKey("b1", 1), ybus.NewNodeKey("b2", 1))
	assert.Assert(t, ok)
	assert.Assert(t, relNear(got, want), "got %v want %v", got, want)
}

func TestTapeShieldNeedsTwoPositions(t *testing.T) {
	lib := tapeShieldLibrary(Point{0, -1}, Point{0.05, -1}, Point{0.1, -1})
	lines := []model.WireInfoLine{
		binding("tl", "A", "ts1", "TapeShieldCableInfo", "spt", 50),
		binding("tl", "N", "neutral_w", "OverheadWireInfo", "spt", 50),
	}
	skipped := ybus.Skipped{}
	m := ybus.NewMatrix()
	n, err := NewBuilder(m, nil, skipped).WireInfo(lib, lines)
	assert.NilError(t, err)
	assert.Equal(t, n, 0)
	assert.Equal(t, m.Len(), 0)
	assert.Equal(t, skipped[ReasonUnsupported], 1)
}

func TestMissingSpacingIsSkipped(t *testing.T) {
	lib := NewLibrary(nil, []model.OverheadWire{overheadWire("w", 0.004, 0.0003)}, nil, nil)
	skipped := ybus.Skipped{}
	m := ybus.NewMatrix()
	n, err := NewBuilder(m, nil, skipped).WireInfo(lib, []model.WireInfoLine{
		binding("l", "A", "w", "OverheadWireInfo", "nowhere", 10),
		binding("l", "N", "w", "OverheadWireInfo", "nowhere", 10),
	})
	assert.NilError(t, err)
	assert.Equal(t, n, 0)
	assert.Equal(t, skipped[ReasonMissingData], 1)
}

func TestAlreadyStampedLineIsLeftAlone(t *testing.T) {
	lib := NewLibrary(
		spacing("sp2", false, Point{0, 8}, Point{0.6, 7.2}),
		[]model.OverheadWire{overheadWire("w", 0.00446, 0.000306)},
		nil, nil,
	)
	seen := line.Seen{"l1": true}
	skipped := ybus.Skipped{}
	m := ybus.NewMatrix()
	n, err := NewBuilder(m, seen, skipped).WireInfo(lib, []model.WireInfoLine{
		binding("l1", "A", "w", "OverheadWireInfo", "sp2", 10),
		binding("l1", "N", "w", "OverheadWireInfo", "sp2", 10),
	})
	assert.NilError(t, err)
	assert.Equal(t, n, 0)
	assert.Equal(t, m.Len(), 0)
	assert.Equal(t, skipped[line.ReasonDuplicate], 1)
}
