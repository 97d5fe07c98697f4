// Package calculator assembles the Ybus of one distributed area by running
// every element builder in a fixed order.
package calculator

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/ohowland/ybus_core/internal/pkg/carson"
	"github.com/ohowland/ybus_core/internal/pkg/line"
	"github.com/ohowland/ybus_core/internal/pkg/logging"
	"github.com/ohowland/ybus_core/internal/pkg/model"
	"github.com/ohowland/ybus_core/internal/pkg/shunt"
	"github.com/ohowland/ybus_core/internal/pkg/switching"
	"github.com/ohowland/ybus_core/internal/pkg/transformer"
	"github.com/ohowland/ybus_core/internal/pkg/ybus"
)

// Summary describes one build
type Summary struct {
	AreaID             string         `json:"area_id"`
	LineEntries        int            `json:"line_entries"`
	TransformerEntries int            `json:"transformer_entries"`
	SwitchEntries      int            `json:"switch_entries"`
	TotalEntries       int            `json:"total_entries"`
	Stamped            map[string]int `json:"stamped"`
	Skipped            ybus.Skipped   `json:"skipped"`
	Anomalies          map[string]int `json:"anomalies"`
	Duration           time.Duration  `json:"duration"`
}

// Calculate builds the Ybus of the area bound to q. Local data problems
// are logged and counted in the Summary. A query failure or a singular
// primitive aborts the build.
func Calculate(ctx context.Context, q *model.Query) (*ybus.Matrix, Summary, error) {
	start := time.Now()
	area := q.AreaID()
	s := Summary{
		AreaID:    area,
		Stamped:   make(map[string]int),
		Skipped:   ybus.Skipped{},
		Anomalies: make(map[string]int),
	}
	m := ybus.NewMatrix()

	seen := line.Seen{}
	if err := lines(ctx, q, m, seen, &s); err != nil {
		return nil, s, err
	}
	s.LineEntries = m.Count()
	log.Printf("[Calculator] %v: Ybus entries after lines: %d", area, s.LineEntries)

	if err := transformers(ctx, q, m, &s); err != nil {
		return nil, s, err
	}
	s.TransformerEntries = m.Count() - s.LineEntries
	log.Printf("[Calculator] %v: Ybus entries from transformers: %d", area, s.TransformerEntries)

	switches, err := q.Switches(ctx)
	if err != nil {
		return nil, s, err
	}
	s.Stamped["switch"] = switching.Stamp(m, switches)
	s.SwitchEntries = m.Count() - s.LineEntries - s.TransformerEntries
	log.Printf("[Calculator] %v: Ybus entries from switches: %d", area, s.SwitchEntries)
	dump(area, "switches", m)

	if err := shunts(ctx, q, m); err != nil {
		return nil, s, err
	}
	dump(area, "shunts", m)

	s.TotalEntries = m.Count()
	for _, a := range m.Anomalies() {
		s.Anomalies[a.Kind.String()]++
	}
	s.Duration = time.Since(start)
	log.Printf("[Calculator] %v: Ybus complete, %d entries in %v", area, s.TotalEntries, s.Duration)
	return m, s, nil
}

func lines(ctx context.Context, q *model.Query, m *ybus.Matrix, seen line.Seen, s *Summary) error {
	b := line.NewBuilder(m, seen, s.Skipped)

	phaseConfigs, err := q.PhaseImpedanceConfigs(ctx)
	if err != nil {
		return err
	}
	phaseLines, err := q.PhaseImpedanceLines(ctx)
	if err != nil {
		return err
	}
	if s.Stamped["phase_impedance_line"], err = b.PhaseImpedance(phaseConfigs, phaseLines); err != nil {
		return err
	}
	dump(s.AreaID, "phase impedance lines", m)

	seqConfigs, err := q.SequenceImpedanceConfigs(ctx)
	if err != nil {
		return err
	}
	seqLines, err := q.SequenceImpedanceLines(ctx)
	if err != nil {
		return err
	}
	if s.Stamped["sequence_impedance_line"], err = b.SequenceImpedance(seqConfigs, seqLines); err != nil {
		return err
	}
	dump(s.AreaID, "sequence impedance lines", m)

	rx, err := q.RXLines(ctx)
	if err != nil {
		return err
	}
	if s.Stamped["ac_line_segment"], err = b.RX(rx); err != nil {
		return err
	}
	dump(s.AreaID, "ACLineSegment lines", m)

	spacings, err := q.WireSpacings(ctx)
	if err != nil {
		return err
	}
	overhead, err := q.OverheadWires(ctx)
	if err != nil {
		return err
	}
	cn, err := q.ConcentricNeutralCables(ctx)
	if err != nil {
		return err
	}
	ts, err := q.TapeShieldCables(ctx)
	if err != nil {
		return err
	}
	wireLines, err := q.WireInfoLines(ctx)
	if err != nil {
		return err
	}
	lib := carson.NewLibrary(spacings, overhead, cn, ts)
	if s.Stamped["wire_info_line"], err = carson.NewBuilder(m, seen, s.Skipped).WireInfo(lib, wireLines); err != nil {
		return err
	}
	dump(s.AreaID, "wire info lines", m)
	return nil
}

func transformers(ctx context.Context, q *model.Query, m *ybus.Matrix, s *Summary) error {
	b := transformer.NewBuilder(m, s.Skipped)

	impedances, err := q.EndImpedances(ctx)
	if err != nil {
		return err
	}
	names, err := q.EndNames(ctx)
	if err != nil {
		return err
	}
	if s.Stamped["power_transformer_end"], err = b.PowerTransformerEnds(impedances, names); err != nil {
		return err
	}
	dump(s.AreaID, "PowerTransformerEnd transformers", m)

	rated, err := q.TankRatings(ctx)
	if err != nil {
		return err
	}
	sct, err := q.TankShortCircuits(ctx)
	if err != nil {
		return err
	}
	tanks, err := q.TankNames(ctx)
	if err != nil {
		return err
	}
	if s.Stamped["transformer_tank"], err = b.Tanks(rated, sct, tanks); err != nil {
		return err
	}
	dump(s.AreaID, "TransformerTank transformers", m)
	return nil
}

func shunts(ctx context.Context, q *model.Query, m *ybus.Matrix) error {
	caps, err := q.Capacitors(ctx)
	if err != nil {
		return err
	}
	rated, err := q.TankRatings(ctx)
	if err != nil {
		return err
	}
	tanks, err := q.TankNames(ctx)
	if err != nil {
		return err
	}
	nlt, err := q.TankNoLoads(ctx)
	if err != nil {
		return err
	}
	ends, err := q.EndNames(ctx)
	if err != nil {
		return err
	}
	ys, err := q.EndAdmittances(ctx)
	if err != nil {
		return err
	}

	shunt.Capacitors(caps).Apply(m)
	shunt.TankCores(rated, tanks, nlt).Apply(m)
	shunt.EndCores(ends, ys).Apply(m)
	return nil
}

func dump(area, stage string, m *ybus.Matrix) {
	if !logging.DebugEnabled() {
		return
	}
	data, err := json.Marshal(m)
	if err != nil {
		logging.Debugf("Calculator", "%v: could not dump Ybus after %v: %v", area, stage, err)
		return
	}
	logging.Debugf("Calculator", "%v: Ybus after %v: %s", area, stage, data)
}
