package line

import (
	"github.com/ohowland/ybus_core/internal/pkg/cmatrix"
	"github.com/ohowland/ybus_core/internal/pkg/model"
)

// SequenceImpedance stamps every per-length sequence impedance line as a
// three-phase branch and returns the number of lines stamped.
func (b *Builder) SequenceImpedance(configs []model.SequenceImpedanceConfig, lines []model.SequenceImpedanceLine) (int, error) {
	if len(configs) == 0 || len(lines) == 0 {
		return 0, nil
	}
	zabc := make(map[string]*cmatrix.Matrix, len(configs))
	for _, c := range configs {
		zabc[*c.LineConfig] = SequenceToPhase(*c.R1, *c.X1, *c.R0, *c.X0)
	}

	stamped := 0
	for _, l := range lines {
		name := *l.LineName
		z, ok := zabc[*l.LineConfig]
		if !ok {
			b.skipped.Note("Line", ReasonUnknownConfig, name, *l.LineConfig)
			continue
		}
		if !b.seen.Claim(name) {
			b.skipped.Note("Line", ReasonDuplicate, name, "already stamped by another representation")
			continue
		}
		from, to := threePhaseTerminals(*l.Bus1, *l.Bus2)
		if err := Stamp(b.ybus, name, from, to, z, *l.Length); err != nil {
			return stamped, err
		}
		stamped++
	}
	return stamped, nil
}

// RX stamps ACLineSegment lines, whose sequence values are carried on the
// line itself.
func (b *Builder) RX(lines []model.RXLine) (int, error) {
	stamped := 0
	for _, l := range lines {
		name := *l.LineName
		if !b.seen.Claim(name) {
			b.skipped.Note("Line", ReasonDuplicate, name, "already stamped by another representation")
			continue
		}
		z := SequenceToPhase(*l.R1, *l.X1, *l.R0, *l.X0)
		from, to := threePhaseTerminals(*l.Bus1, *l.Bus2)
		if err := Stamp(b.ybus, name, from, to, z, *l.Length); err != nil {
			return stamped, err
		}
		stamped++
	}
	return stamped, nil
}
