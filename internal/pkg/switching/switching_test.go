package switching

import (
	"testing"

	"github.com/ohowland/ybus_core/internal/pkg/model"
	"github.com/ohowland/ybus_core/internal/pkg/ybus"
	"gotest.tools/v3/assert"
)

func sw(open bool, phases string) model.Switch {
	return model.Switch{
		Name:        model.String("sw1"),
		Kind:        model.String("LoadBreakSwitch"),
		IsOpen:      model.Bool(open),
		Bus1:        model.String("n1"),
		Bus2:        model.String("n2"),
		PhasesSide1: model.String(phases),
	}
}

func TestOpenSwitchContributesNothing(t *testing.T) {
	m := ybus.NewMatrix()
	n := Stamp(m, []model.Switch{sw(true, "A")})
	assert.Equal(t, n, 0)
	assert.Equal(t, m.Len(), 0)
}

func TestClosedSwitch(t *testing.T) {
	m := ybus.NewMatrix()
	n := Stamp(m, []model.Switch{sw(false, "A")})
	assert.Equal(t, n, 1)

	a := ybus.NewNodeKey("n1", 1)
	b := ybus.NewNodeKey("n2", 1)
	v, ok := m.Get(a, b)
	assert.Assert(t, ok)
	assert.Equal(t, v, complex(-500, 500))
	v, _ = m.Get(a, a)
	assert.Equal(t, v, complex(500, -500))
	v, _ = m.Get(b, b)
	assert.Equal(t, v, complex(500, -500))
	assert.Equal(t, m.Count(), 3)
	assert.NilError(t, m.CheckSymmetry())
}

func TestThreePhaseSwitch(t *testing.T) {
	m := ybus.NewMatrix()
	Stamp(m, []model.Switch{sw(false, "")})
	assert.Equal(t, m.Count(), 9)
}

func TestPhases(t *testing.T) {
	assert.DeepEqual(t, Phases(""), []uint8{1, 2, 3})
	assert.DeepEqual(t, Phases("CA"), []uint8{3, 1})
	assert.DeepEqual(t, Phases("AN"), []uint8{1})
	assert.DeepEqual(t, Phases("s1s2"), []uint8{})
}

func TestParseKind(t *testing.T) {
	assert.Equal(t, ParseKind("Fuse"), Fuse)
	assert.Equal(t, ParseKind("Something"), Unknown)
}
