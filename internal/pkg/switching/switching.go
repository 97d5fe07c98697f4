// Package switching stamps closed switching devices as near-short branches.
package switching

import (
	"log"

	"github.com/ohowland/ybus_core/internal/pkg/model"
	"github.com/ohowland/ybus_core/internal/pkg/ybus"
)

// Kind is the CIM class of a switching device
type Kind int

const (
	Unknown Kind = iota
	LoadBreakSwitch
	Recloser
	Breaker
	Fuse
	Sectionaliser
	Jumper
	Disconnector
	GroundDisconnector
)

var kindNames = map[string]Kind{
	"LoadBreakSwitch":    LoadBreakSwitch,
	"Recloser":           Recloser,
	"Breaker":            Breaker,
	"Fuse":               Fuse,
	"Sectionaliser":      Sectionaliser,
	"Jumper":             Jumper,
	"Disconnector":       Disconnector,
	"GroundDisconnector": GroundDisconnector,
}

// ParseKind returns Unknown for classes outside the switching hierarchy
func ParseKind(s string) Kind {
	if k, ok := kindNames[s]; ok {
		return k
	}
	return Unknown
}

// Phases returns the phase nodes a switch connects. An empty side-1 phase
// list is a three-phase switch; letters other than A, B and C are ignored.
func Phases(phasesSide1 string) []uint8 {
	if phasesSide1 == "" {
		return []uint8{ybus.PhaseA, ybus.PhaseB, ybus.PhaseC}
	}
	out := []uint8{}
	for _, r := range phasesSide1 {
		switch r {
		case 'A':
			out = append(out, ybus.PhaseA)
		case 'B':
			out = append(out, ybus.PhaseB)
		case 'C':
			out = append(out, ybus.PhaseC)
		}
	}
	return out
}

// Stamp writes every closed switch into m and returns the number stamped.
// Open switches contribute nothing.
func Stamp(m *ybus.Matrix, switches []model.Switch) int {
	stamped := 0
	for _, sw := range switches {
		if sw.Kind != nil && ParseKind(*sw.Kind) == Unknown {
			log.Printf("[Switching] %v has unrecognised class %q, treating as a switch", *sw.Name, *sw.Kind)
		}
		if *sw.IsOpen {
			continue
		}
		for _, p := range Phases(*sw.PhasesSide1) {
			a := ybus.NewNodeKey(*sw.Bus1, p)
			b := ybus.NewNodeKey(*sw.Bus2, p)
			m.SetSwitch(b, a)
			m.AddSwitchSelf(a)
			m.AddSwitchSelf(b)
		}
		stamped++
	}
	return stamped
}
