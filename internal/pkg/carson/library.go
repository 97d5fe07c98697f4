package carson

import (
	"github.com/ohowland/ybus_core/internal/pkg/model"
)

// Library is the spacing and wire data referenced by wire-info lines
type Library struct {
	Spacings map[string]Spacing
	Wires    map[string]Wire
}

// NewLibrary indexes the spacing and conductor records. A wire listed
// under more than one family keeps the GMR and R25 of the last record seen.
func NewLibrary(spacings []model.WireSpacing, overhead []model.OverheadWire, cn []model.ConcentricNeutralCable, ts []model.TapeShieldCable) *Library {
	lib := &Library{
		Spacings: make(map[string]Spacing),
		Wires:    make(map[string]Wire),
	}
	for _, s := range spacings {
		sp, ok := lib.Spacings[*s.WireSpacingInfo]
		if !ok {
			sp = Spacing{Cable: *s.Cable, Positions: make(map[int]Point)}
		}
		sp.Positions[*s.Seq] = Point{*s.X, *s.Y}
		lib.Spacings[*s.WireSpacingInfo] = sp
	}
	for _, w := range overhead {
		wire := lib.Wires[*w.Wire]
		wire.GMR, wire.R25 = *w.GMR, *w.R25
		lib.Wires[*w.Wire] = wire
	}
	for _, w := range cn {
		wire := lib.Wires[*w.Wire]
		wire.GMR, wire.R25 = *w.GMR, *w.R25
		wire.CN = &CNStrands{
			DiameterJacket: *w.DiameterJacket,
			Count:          *w.StrandCount,
			Radius:         *w.StrandRadius,
			GMR:            *w.StrandGMR,
			RDC:            *w.StrandRDC,
		}
		lib.Wires[*w.Wire] = wire
	}
	for _, w := range ts {
		wire := lib.Wires[*w.Wire]
		wire.GMR, wire.R25 = *w.GMR, *w.R25
		wire.TS = &TapeScreen{DiameterScreen: *w.DiameterScreen, Thickness: *w.TapeThickness}
		lib.Wires[*w.Wire] = wire
	}
	return lib
}
