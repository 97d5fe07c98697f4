package transformer

import (
	"errors"
	"math/cmplx"
	"testing"

	"github.com/ohowland/ybus_core/internal/pkg/model"
	"github.com/ohowland/ybus_core/internal/pkg/ybus"
	"gotest.tools/v3/assert"
)

func near(a, b complex128) bool {
	return cmplx.Abs(a-b) <= 1e-9*(1+cmplx.Abs(b))
}

func end(name string, number int, bus, conn string, s, u, r float64) model.EndName {
	return model.EndName{
		XfmrName:   model.String(name),
		EndNumber:  model.Int(number),
		Bus:        model.String(bus),
		Connection: model.String(conn),
		RatedS:     model.Float(s),
		RatedU:     model.Float(u),
		R:          model.Float(r),
	}
}

func mesh(name string, x float64) model.EndImpedance {
	return model.EndImpedance{XfmrName: model.String(name), MeshX: model.Float(x)}
}

func buildEnds(t *testing.T, secondary string) (*ybus.Matrix, ybus.Skipped) {
	t.Helper()
	m := ybus.NewMatrix()
	skipped := ybus.Skipped{}
	n, err := NewBuilder(m, skipped).PowerTransformerEnds(
		[]model.EndImpedance{mesh("xf", 10)},
		[]model.EndName{
			end("xf", 1, "hv", "Y", 500000, 12470, 0.5),
			end("xf", 2, "lv", secondary, 500000, 480, 0.001),
		})
	assert.NilError(t, err)
	assert.Equal(t, n, 1)
	assert.NilError(t, m.CheckSymmetry())
	return m, skipped
}

func TestWyeWyeVersusWyeDelta(t *testing.T) {
	yy, _ := buildEnds(t, "Y")
	yd, _ := buildEnds(t, "D")
	assert.Assert(t, !yy.Equal(yd))

	hv := ybus.ThreePhase("hv")
	lv := ybus.ThreePhase("lv")

	// a wye-wye bank keeps the phases apart
	_, ok := yy.Get(lv[1], hv[0])
	assert.Assert(t, !ok)
	_, ok = yy.Get(lv[0], hv[0])
	assert.Assert(t, ok)

	// the delta secondary couples across phases
	_, ok = yd.Get(lv[1], hv[0])
	assert.Assert(t, ok)
}

func TestStamp6x6CrossPhasePlacement(t *testing.T) {
	y, err := ThreePhase(Delta, Wye, 12470, 480, complex(1e-6, 2e-5))
	assert.NilError(t, err)
	r, c := y.Dims()
	assert.Equal(t, r, 6)
	assert.Equal(t, c, 6)

	p := ybus.ThreePhase("p")
	s := ybus.ThreePhase("s")

	dy := ybus.NewMatrix()
	assert.NilError(t, Stamp6x6(dy, "p", "s", true, y))
	v, _ := dy.Get(s[0], p[1])
	assert.Equal(t, v, y.At(4, 0))
	v, _ = dy.Get(s[2], p[1])
	assert.Equal(t, v, y.At(4, 2))

	plain := ybus.NewMatrix()
	assert.NilError(t, Stamp6x6(plain, "p", "s", false, y))
	v, _ = plain.Get(s[1], p[0])
	assert.Equal(t, v, y.At(4, 0))
	v, _ = plain.Get(s[1], p[2])
	assert.Equal(t, v, y.At(4, 2))

	assert.Assert(t, !dy.Equal(plain))
	assert.Equal(t, len(dy.Anomalies()), 0)
}

func TestThreeWindingEndsAreSkipped(t *testing.T) {
	m := ybus.NewMatrix()
	skipped := ybus.Skipped{}
	n, err := NewBuilder(m, skipped).PowerTransformerEnds(
		[]model.EndImpedance{mesh("xf3", 10), mesh("xf", 10)},
		[]model.EndName{
			end("xf3", 1, "a", "Y", 500000, 12470, 0.5),
			end("xf3", 2, "b", "Y", 500000, 4160, 0.1),
			end("xf3", 3, "c", "Y", 500000, 480, 0.001),
			end("xf", 1, "hv", "Y", 500000, 12470, 0.5),
			end("xf", 2, "lv", "D", 500000, 480, 0.001),
		})
	assert.NilError(t, err)
	assert.Equal(t, n, 1)
	assert.Equal(t, skipped[ReasonUnsupportedTopology], 1)
	for _, node := range m.Nodes() {
		assert.Assert(t, node.Bus != "A" && node.Bus != "B" && node.Bus != "C", node.String())
	}
}

func TestMissingMeshImpedanceIsSkipped(t *testing.T) {
	m := ybus.NewMatrix()
	skipped := ybus.Skipped{}
	n, err := NewBuilder(m, skipped).PowerTransformerEnds(
		[]model.EndImpedance{mesh("other", 10)},
		[]model.EndName{
			end("xf", 1, "hv", "Y", 500000, 12470, 0.5),
			end("xf", 2, "lv", "Y", 500000, 480, 0.001),
		})
	assert.NilError(t, err)
	assert.Equal(t, n, 0)
	assert.Equal(t, skipped[ReasonIncomplete], 1)
}

func TestTankTopology(t *testing.T) {
	top, err := TankTopology("ABC", false)
	assert.NilError(t, err)
	assert.Equal(t, top, ThreePhaseTwoWinding)

	top, err = TankTopology("A", true)
	assert.NilError(t, err)
	assert.Equal(t, top, SplitPhaseThreeWinding)

	top, err = TankTopology("C", false)
	assert.NilError(t, err)
	assert.Equal(t, top, SinglePhaseTwoWinding)

	_, err = TankTopology("ABC", true)
	assert.Assert(t, errors.Is(err, ErrUnsupportedTopology))
}

type tankFixture struct {
	rated []model.TankRated
	sct   []model.TankShortCircuit
	names []model.TankName
}

func (f *tankFixture) end(name string, number int, bus, phase string, s, u, r, leak float64) {
	f.rated = append(f.rated, model.TankRated{
		XfmrName: model.String(name), EndNumber: model.Int(number), Connection: model.String("I"),
		RatedS: model.Float(s), RatedU: model.Float(u), R: model.Float(r),
	})
	f.sct = append(f.sct, model.TankShortCircuit{
		XfmrName: model.String(name), EndNumber: model.Int(number), GroundedEnd: model.Int(number + 1),
		LeakageZ: model.Float(leak),
	})
	f.names = append(f.names, model.TankName{
		XfmrName: model.String(name), EndNumber: model.Int(number), Bus: model.String(bus),
		BaseV: model.Float(u), Phase: model.String(phase),
	})
}

func TestSinglePhaseTank(t *testing.T) {
	f := &tankFixture{}
	f.end("t1", 1, "hv", "A", 50000, 7200, 1.5, 40)
	f.end("t1", 2, "lv", "A", 50000, 240, 0.002, 0)

	m := ybus.NewMatrix()
	n, err := NewBuilder(m, nil).Tanks(f.rated, f.sct, f.names)
	assert.NilError(t, err)
	assert.Equal(t, n, 1)
	assert.NilError(t, m.CheckSymmetry())
	assert.Equal(t, m.Count(), 3)

	hv := ybus.NewNodeKey("hv", 1)
	lv := ybus.NewNodeKey("lv", 1)
	self, _ := m.Get(hv, hv)
	mutual, _ := m.Get(lv, hv)
	// the mutual is the primary self term scaled by the turns ratio
	assert.Assert(t, near(mutual, -self*complex(7200.0/240.0, 0)))
}

func TestSplitPhaseTank(t *testing.T) {
	f := &tankFixture{}
	f.end("t2", 1, "hv", "B", 25000, 7200, 1.5, 40)
	f.end("t2", 2, "sec", "s1", 25000, 120, 0.002, 0.05)
	f.end("t2", 3, "sec", "s2", 25000, 120, 0.002, 0.05)

	m := ybus.NewMatrix()
	n, err := NewBuilder(m, nil).Tanks(f.rated, f.sct, f.names)
	assert.NilError(t, err)
	assert.Equal(t, n, 1)
	assert.NilError(t, m.CheckSymmetry())

	for _, k := range []ybus.NodeKey{ybus.NewNodeKey("hv", 2), ybus.NewNodeKey("sec", 1), ybus.NewNodeKey("sec", 2)} {
		_, ok := m.Get(k, k)
		assert.Assert(t, ok, k.String())
	}
	assert.Equal(t, m.Count(), 6)
}

func TestThreePhaseThreeWindingTankIsSkipped(t *testing.T) {
	f := &tankFixture{}
	f.end("t3", 1, "a", "ABC", 500000, 12470, 0.5, 10)
	f.end("t3", 2, "b", "ABC", 500000, 4160, 0.1, 10)
	f.end("t3", 3, "c", "ABC", 500000, 480, 0.001, 10)
	f.end("t1", 1, "hv", "A", 50000, 7200, 1.5, 40)
	f.end("t1", 2, "lv", "A", 50000, 240, 0.002, 0)

	skipped := ybus.Skipped{}
	m := ybus.NewMatrix()
	n, err := NewBuilder(m, skipped).Tanks(f.rated, f.sct, f.names)
	assert.NilError(t, err)
	assert.Equal(t, n, 1)
	assert.Equal(t, skipped[ReasonUnsupportedTopology], 1)
	assert.Equal(t, m.Len(), 2)
}

func TestParseConnection(t *testing.T) {
	for s, want := range map[string]Connection{"Y": Wye, "Yn": Wye, "D": Delta} {
		c, err := ParseConnection(s)
		assert.NilError(t, err, s)
		assert.Equal(t, c, want, s)
	}
	for _, s := range []string{"", "Z", "y"} {
		_, err := ParseConnection(s)
		assert.ErrorContains(t, err, "unsupported winding connection", s)
	}
}
