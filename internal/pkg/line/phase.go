package line

import (
	"fmt"
	"sort"

	"github.com/ohowland/ybus_core/internal/pkg/cmatrix"
	"github.com/ohowland/ybus_core/internal/pkg/model"
	"github.com/ohowland/ybus_core/internal/pkg/ybus"
)

// PhaseConfigs assembles the per-length Zabc of every line config from its
// (row, col) entries. Configs with an unsupported conductor count and
// entries outside the declared count are dropped.
func (b *Builder) PhaseConfigs(configs []model.PhaseImpedanceConfig) map[string]*cmatrix.Matrix {
	zabc := make(map[string]*cmatrix.Matrix)
	for _, c := range configs {
		name, count := *c.LineConfig, *c.Count
		row, col := *c.Row, *c.Col
		if count < 1 || count > 3 {
			b.skipped.Note("Line", ReasonMalformed, name, fmt.Sprintf("conductor count %d", count))
			continue
		}
		z, ok := zabc[name]
		if !ok {
			z = cmatrix.New(count, count)
			zabc[name] = z
		}
		if n, _ := z.Dims(); row < 1 || col < 1 || row > n || col > n {
			b.skipped.Note("Line", ReasonMalformed, name, fmt.Sprintf("entry (%d,%d) outside %dx%d", row, col, n, n))
			continue
		}
		z.SetSymmetric(row-1, col-1, complex(*c.R, *c.X))
	}
	return zabc
}

// PhaseImpedance stamps every per-length phase impedance line and returns
// the number of lines stamped.
func (b *Builder) PhaseImpedance(configs []model.PhaseImpedanceConfig, lines []model.PhaseImpedanceLine) (int, error) {
	if len(configs) == 0 || len(lines) == 0 {
		return 0, nil
	}
	zabc := b.PhaseConfigs(configs)

	sorted := make([]model.PhaseImpedanceLine, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		if *sorted[i].LineName != *sorted[j].LineName {
			return *sorted[i].LineName < *sorted[j].LineName
		}
		return *sorted[i].Phase < *sorted[j].Phase
	})

	stamped := 0
	for start := 0; start < len(sorted); {
		end := start + 1
		for end < len(sorted) && *sorted[end].LineName == *sorted[start].LineName {
			end++
		}
		ok, err := b.phaseLine(zabc, sorted[start:end])
		if err != nil {
			return stamped, err
		}
		if ok {
			stamped++
		}
		start = end
	}
	return stamped, nil
}

// phaseLine stamps one line from its per-phase bindings, sorted by phase.
func (b *Builder) phaseLine(zabc map[string]*cmatrix.Matrix, phases []model.PhaseImpedanceLine) (bool, error) {
	first := phases[0]
	name := *first.LineName
	z, ok := zabc[*first.LineConfig]
	if !ok {
		b.skipped.Note("Line", ReasonUnknownConfig, name, *first.LineConfig)
		return false, nil
	}
	if n, _ := z.Dims(); n != len(phases) {
		b.skipped.Note("Line", ReasonMalformed, name, fmt.Sprintf("%d phases bound to a %d conductor config", len(phases), n))
		return false, nil
	}

	from := make([]ybus.NodeKey, len(phases))
	to := make([]ybus.NodeKey, len(phases))
	for i, p := range phases {
		idx, ok := ybus.PhaseIndex(*p.Phase)
		if !ok || idx == ybus.PhaseN {
			b.skipped.Note("Line", ReasonMalformed, name, fmt.Sprintf("phase %q", *p.Phase))
			return false, nil
		}
		from[i] = ybus.NewNodeKey(*p.Bus1, idx)
		to[i] = ybus.NewNodeKey(*p.Bus2, idx)
	}

	if !b.seen.Claim(name) {
		b.skipped.Note("Line", ReasonDuplicate, name, "already stamped by another representation")
		return false, nil
	}
	if err := Stamp(b.ybus, name, from, to, z, *first.Length); err != nil {
		return false, err
	}
	return true, nil
}
