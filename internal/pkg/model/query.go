package model

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ohowland/ybus_core/internal/pkg/logging"
)

// ErrNoElements is returned for an area with no resolvable element set
var ErrNoElements = errors.New("area has no elements")

// Source yields the raw records of one category for an area
type Source interface {
	Records(ctx context.Context, areaID string, c Category) ([]Record, error)
}

// Observer is notified of every record excluded by validation
type Observer interface {
	RecordExcluded(c Category)
}

// Query is the Element Query Layer for one area. Each method returns only
// the records that passed validation.
type Query struct {
	source   Source
	areaID   string
	observer Observer
}

// NewQuery binds a Source to an area
func NewQuery(src Source, areaID string) *Query {
	return &Query{source: src, areaID: areaID}
}

// SetObserver registers an exclusion observer
func (q *Query) SetObserver(o Observer) {
	q.observer = o
}

// AreaID is an accessor for the bound area
func (q *Query) AreaID() string {
	return q.areaID
}

// Probe counts the raw records across all categories. An area with
// none returns ErrNoElements.
func (q *Query) Probe(ctx context.Context) (int, error) {
	total := 0
	for _, c := range Categories {
		records, err := q.source.Records(ctx, q.areaID, c)
		if err != nil {
			return 0, fmt.Errorf("probe %v for area %v: %w", c, q.areaID, err)
		}
		total += len(records)
	}
	if total == 0 {
		return 0, fmt.Errorf("%v: %w", q.areaID, ErrNoElements)
	}
	return total, nil
}

func (q *Query) each(ctx context.Context, c Category, decode func(Record) error) error {
	logging.Debugf("Query", "performing %v query for distributed area: %v", c, q.areaID)
	records, err := q.source.Records(ctx, q.areaID, c)
	if err != nil {
		return fmt.Errorf("query %v for area %v: %w", c, q.areaID, err)
	}
	for i, r := range records {
		err := decode(r)
		if err == nil {
			continue
		}
		if !IsExcluded(err) {
			return err
		}
		log.Printf("[Query] %v: excluding record %d: %v", q.areaID, i, err)
		if q.observer != nil {
			q.observer.RecordExcluded(c)
		}
	}
	return nil
}

// PhaseImpedanceConfigs returns every phase impedance matrix cell
func (q *Query) PhaseImpedanceConfigs(ctx context.Context) ([]PhaseImpedanceConfig, error) {
	out := []PhaseImpedanceConfig{}
	err := q.each(ctx, PhaseImpedanceLineConfigs, func(r Record) error {
		v := PhaseImpedanceConfig{}
		if err := Decode(PhaseImpedanceLineConfigs, r, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// PhaseImpedanceLines returns the per-phase records of phase impedance lines
func (q *Query) PhaseImpedanceLines(ctx context.Context) ([]PhaseImpedanceLine, error) {
	out := []PhaseImpedanceLine{}
	err := q.each(ctx, PhaseImpedanceLineNames, func(r Record) error {
		v := PhaseImpedanceLine{}
		if err := Decode(PhaseImpedanceLineNames, r, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// SequenceImpedanceConfigs returns the sequence impedance configs
func (q *Query) SequenceImpedanceConfigs(ctx context.Context) ([]SequenceImpedanceConfig, error) {
	out := []SequenceImpedanceConfig{}
	err := q.each(ctx, SequenceImpedanceLineConfigs, func(r Record) error {
		v := SequenceImpedanceConfig{}
		if err := Decode(SequenceImpedanceLineConfigs, r, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// SequenceImpedanceLines returns the lines using a sequence config
func (q *Query) SequenceImpedanceLines(ctx context.Context) ([]SequenceImpedanceLine, error) {
	out := []SequenceImpedanceLine{}
	err := q.each(ctx, SequenceImpedanceLineNames, func(r Record) error {
		v := SequenceImpedanceLine{}
		if err := Decode(SequenceImpedanceLineNames, r, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// RXLines returns ACLineSegments that carry their own impedances
func (q *Query) RXLines(ctx context.Context) ([]RXLine, error) {
	out := []RXLine{}
	err := q.each(ctx, ACLineSegmentLineNames, func(r Record) error {
		v := RXLine{}
		if err := Decode(ACLineSegmentLineNames, r, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// WireSpacings returns the conductor positions of every spacing
func (q *Query) WireSpacings(ctx context.Context) ([]WireSpacing, error) {
	out := []WireSpacing{}
	err := q.each(ctx, WireInfoSpacing, func(r Record) error {
		v := WireSpacing{}
		if err := Decode(WireInfoSpacing, r, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// OverheadWires returns the overhead conductor library
func (q *Query) OverheadWires(ctx context.Context) ([]OverheadWire, error) {
	out := []OverheadWire{}
	err := q.each(ctx, WireInfoOverhead, func(r Record) error {
		v := OverheadWire{}
		if err := Decode(WireInfoOverhead, r, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// ConcentricNeutralCables returns the concentric neutral cable library
func (q *Query) ConcentricNeutralCables(ctx context.Context) ([]ConcentricNeutralCable, error) {
	out := []ConcentricNeutralCable{}
	err := q.each(ctx, WireInfoConcentricNeutral, func(r Record) error {
		v := ConcentricNeutralCable{}
		if err := Decode(WireInfoConcentricNeutral, r, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// TapeShieldCables returns the tape shield cable library
func (q *Query) TapeShieldCables(ctx context.Context) ([]TapeShieldCable, error) {
	out := []TapeShieldCable{}
	err := q.each(ctx, WireInfoTapeShield, func(r Record) error {
		v := TapeShieldCable{}
		if err := Decode(WireInfoTapeShield, r, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// WireInfoLines returns the conductor bindings of geometry-based lines
func (q *Query) WireInfoLines(ctx context.Context) ([]WireInfoLine, error) {
	out := []WireInfoLine{}
	err := q.each(ctx, WireInfoLineNames, func(r Record) error {
		v := WireInfoLine{}
		if err := Decode(WireInfoLineNames, r, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// EndImpedances returns PowerTransformerEnd mesh impedances
func (q *Query) EndImpedances(ctx context.Context) ([]EndImpedance, error) {
	out := []EndImpedance{}
	err := q.each(ctx, PowerTransformerEndXfmrImpedances, func(r Record) error {
		v := EndImpedance{}
		if err := Decode(PowerTransformerEndXfmrImpedances, r, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// EndNames returns PowerTransformerEnd windings
func (q *Query) EndNames(ctx context.Context) ([]EndName, error) {
	out := []EndName{}
	err := q.each(ctx, PowerTransformerEndXfmrNames, func(r Record) error {
		v := EndName{}
		if err := Decode(PowerTransformerEndXfmrNames, r, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// EndAdmittances returns PowerTransformerEnd core admittances
func (q *Query) EndAdmittances(ctx context.Context) ([]EndAdmittance, error) {
	out := []EndAdmittance{}
	err := q.each(ctx, PowerTransformerEndXfmrAdmittances, func(r Record) error {
		v := EndAdmittance{}
		if err := Decode(PowerTransformerEndXfmrAdmittances, r, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// TankRatings returns TransformerTank winding ratings
func (q *Query) TankRatings(ctx context.Context) ([]TankRated, error) {
	out := []TankRated{}
	err := q.each(ctx, TransformerTankXfmrRated, func(r Record) error {
		v := TankRated{}
		if err := Decode(TransformerTankXfmrRated, r, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// TankShortCircuits returns TransformerTank short-circuit tests
func (q *Query) TankShortCircuits(ctx context.Context) ([]TankShortCircuit, error) {
	out := []TankShortCircuit{}
	err := q.each(ctx, TransformerTankXfmrSct, func(r Record) error {
		v := TankShortCircuit{}
		if err := Decode(TransformerTankXfmrSct, r, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// TankNames returns TransformerTank terminals
func (q *Query) TankNames(ctx context.Context) ([]TankName, error) {
	out := []TankName{}
	err := q.each(ctx, TransformerTankXfmrNames, func(r Record) error {
		v := TankName{}
		if err := Decode(TransformerTankXfmrNames, r, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// TankNoLoads returns TransformerTank no-load tests
func (q *Query) TankNoLoads(ctx context.Context) ([]TankNoLoad, error) {
	out := []TankNoLoad{}
	err := q.each(ctx, TransformerTankXfmrNlt, func(r Record) error {
		v := TankNoLoad{}
		if err := Decode(TransformerTankXfmrNlt, r, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// Switches returns every switching device, open or closed
func (q *Query) Switches(ctx context.Context) ([]Switch, error) {
	out := []Switch{}
	err := q.each(ctx, SwitchingEquipmentSwitchNames, func(r Record) error {
		v := Switch{}
		if err := Decode(SwitchingEquipmentSwitchNames, r, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}

// Capacitors returns linear shunt compensators
func (q *Query) Capacitors(ctx context.Context) ([]Capacitor, error) {
	out := []Capacitor{}
	err := q.each(ctx, ShuntElementCapNames, func(r Record) error {
		v := Capacitor{}
		if err := Decode(ShuntElementCapNames, r, &v); err != nil {
			return err
		}
		out = append(out, v)
		return nil
	})
	return out, err
}
