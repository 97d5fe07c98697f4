package ybus

import (
	"fmt"
	"strconv"
	"strings"
)

// Phase indexes used in node keys.
const (
	PhaseA uint8 = 1
	PhaseB uint8 = 2
	PhaseC uint8 = 3
	PhaseN uint8 = 4
)

// NodeKey identifies one bus-phase node of the admittance matrix
type NodeKey struct {
	Bus   string
	Phase uint8
}

// NewNodeKey upper-cases the bus name so every builder resolves to the same node
func NewNodeKey(bus string, phase uint8) NodeKey {
	return NodeKey{strings.ToUpper(bus), phase}
}

func (k NodeKey) String() string {
	return k.Bus + "." + strconv.Itoa(int(k.Phase))
}

// WithPhase returns the node on the same bus at another phase
func (k NodeKey) WithPhase(phase uint8) NodeKey {
	return NodeKey{k.Bus, phase}
}

// Less orders by bus name, then phase
func (k NodeKey) Less(o NodeKey) bool {
	if k.Bus != o.Bus {
		return k.Bus < o.Bus
	}
	return k.Phase < o.Phase
}

// ParseNodeKey is the inverse of NodeKey.String
func ParseNodeKey(s string) (NodeKey, error) {
	i := strings.LastIndex(s, ".")
	if i <= 0 || i == len(s)-1 {
		return NodeKey{}, fmt.Errorf("malformed node key %q", s)
	}
	p, err := strconv.Atoi(s[i+1:])
	if err != nil || p < 1 || p > 4 {
		return NodeKey{}, fmt.Errorf("malformed node key %q", s)
	}
	return NewNodeKey(s[:i], uint8(p)), nil
}

// PhaseIndex maps a phase letter to its node index. Secondary legs
// s1 and s2 share indexes 1 and 2 with phases A and B.
func PhaseIndex(letter string) (uint8, bool) {
	switch letter {
	case "A", "s1":
		return PhaseA, true
	case "B", "s2":
		return PhaseB, true
	case "C":
		return PhaseC, true
	case "N":
		return PhaseN, true
	}
	return 0, false
}

// ThreePhase returns the A, B and C nodes of a bus
func ThreePhase(bus string) [3]NodeKey {
	return [3]NodeKey{NewNodeKey(bus, PhaseA), NewNodeKey(bus, PhaseB), NewNodeKey(bus, PhaseC)}
}
