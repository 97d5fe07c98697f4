package ybus

import (
	"fmt"
	"log"
	"sort"
)

// AnomalyKind classifies stamping events that were tolerated but are suspicious
type AnomalyKind int

const (
	// Overwrite is a unique-fill onto an entry that was already populated
	Overwrite AnomalyKind = iota
	// MissingDiagonal is a shunt added to a node with no self-admittance yet
	MissingDiagonal
)

func (k AnomalyKind) String() string {
	switch k {
	case Overwrite:
		return "overwrite"
	case MissingDiagonal:
		return "missing_diagonal"
	}
	return "unknown"
}

// Anomaly records one tolerated stamping event
type Anomaly struct {
	Kind AnomalyKind
	A    NodeKey
	B    NodeKey
}

func (a Anomaly) String() string {
	return fmt.Sprintf("%v Ybus[%v][%v]", a.Kind, a.A, a.B)
}

// Matrix is the sparse symmetric complex bus admittance matrix.
// Entries equal to zero are never stored.
type Matrix struct {
	entries   map[NodeKey]map[NodeKey]complex128
	anomalies []Anomaly
}

// NewMatrix returns an empty Ybus
func NewMatrix() *Matrix {
	return &Matrix{entries: make(map[NodeKey]map[NodeKey]complex128)}
}

// Get returns the entry at (a,b) and whether it is present
func (m *Matrix) Get(a, b NodeKey) (complex128, bool) {
	v, ok := m.entries[a][b]
	return v, ok
}

func (m *Matrix) has(a, b NodeKey) bool {
	_, ok := m.entries[a][b]
	return ok
}

func (m *Matrix) put(a, b NodeKey, v complex128) {
	if m.entries[a] == nil {
		m.entries[a] = make(map[NodeKey]complex128)
	}
	if m.entries[b] == nil {
		m.entries[b] = make(map[NodeKey]complex128)
	}
	if v == 0 {
		delete(m.entries[a], b)
		delete(m.entries[b], a)
		m.prune(a)
		m.prune(b)
		return
	}
	m.entries[a][b] = v
	m.entries[b][a] = v
}

func (m *Matrix) prune(k NodeKey) {
	if len(m.entries[k]) == 0 {
		delete(m.entries, k)
	}
}

func (m *Matrix) flag(kind AnomalyKind, a, b NodeKey) {
	m.anomalies = append(m.anomalies, Anomaly{kind, a, b})
}

// SetUnique writes v at (a,b) and (b,a). An existing entry is overwritten
// and recorded as an Overwrite anomaly.
func (m *Matrix) SetUnique(a, b NodeKey, v complex128) {
	if v == 0 {
		return
	}
	if m.has(a, b) {
		log.Printf("[Ybus] unexpected existing value found for Ybus[%v][%v] when filling model value", a, b)
		m.flag(Overwrite, a, b)
	}
	m.put(a, b, v)
}

// Add accumulates v into (a,b) and its mirror
func (m *Matrix) Add(a, b NodeKey, v complex128) {
	if v == 0 {
		return
	}
	if cur, ok := m.Get(a, b); ok {
		m.put(a, b, cur+v)
		return
	}
	m.put(a, b, v)
}

// SetUniqueCrossSwap is SetUnique on (a,b) that also writes v at the pair
// obtained by exchanging the phases of a and b.
func (m *Matrix) SetUniqueCrossSwap(a, b NodeKey, v complex128) {
	if v == 0 {
		return
	}
	if m.has(a, b) {
		log.Printf("[Ybus] unexpected existing value found for Ybus[%v][%v] when filling line model value", a, b)
		m.flag(Overwrite, a, b)
	}
	m.put(a, b, v)
	m.put(a.WithPhase(b.Phase), b.WithPhase(a.Phase), v)
}

// StampLine is the two-port rule for a conductor pair with the same
// phase mapping at both ends: mutual once, each self term decremented.
func (m *Matrix) StampLine(a, b NodeKey, v complex128) {
	m.SetUnique(b, a, v)
	m.Add(a, a, -v)
	m.Add(b, b, -v)
}

// StampSwapLine is the two-port rule for a cross-phase mutual term of an
// untransposed line. The decrements land on the cross-phase self terms.
func (m *Matrix) StampSwapLine(a, b NodeKey, v complex128) {
	m.SetUniqueCrossSwap(b, a, v)
	m.Add(a, a.WithPhase(b.Phase), -v)
	m.Add(b.WithPhase(a.Phase), b, -v)
}

// AddShunt adds a diagonal-only contribution. The diagonal must already exist.
func (m *Matrix) AddShunt(n NodeKey, v complex128) {
	if v == 0 {
		return
	}
	cur, ok := m.Get(n, n)
	if !ok {
		log.Printf("[Ybus] existing value not found for Ybus[%v][%v] when adding shunt element model contribution", n, n)
		m.flag(MissingDiagonal, n, n)
		return
	}
	m.put(n, n, cur+v)
}

// SwitchAdmittance approximates a closed switch as a near short.
const SwitchAdmittance = complex(-500.0, 500.0)

// SetSwitch writes the closed-switch mutual term
func (m *Matrix) SetSwitch(a, b NodeKey) {
	if m.has(a, b) {
		log.Printf("[Ybus] unexpected existing value found for Ybus[%v][%v] when filling switching equipment value", a, b)
		m.flag(Overwrite, a, b)
	}
	m.put(a, b, SwitchAdmittance)
}

// AddSwitchSelf accumulates the closed-switch self term
func (m *Matrix) AddSwitchSelf(n NodeKey) {
	m.Add(n, n, -SwitchAdmittance)
}

// Anomalies returns a copy of the tolerated stamping events, in order
func (m *Matrix) Anomalies() []Anomaly {
	out := make([]Anomaly, len(m.anomalies))
	copy(out, m.anomalies)
	return out
}

// Len is the number of nodes with at least one entry
func (m *Matrix) Len() int {
	return len(m.entries)
}

// Nodes returns all nodes in sorted order
func (m *Matrix) Nodes() []NodeKey {
	nodes := make([]NodeKey, 0, len(m.entries))
	for k := range m.entries {
		nodes = append(nodes, k)
	}
	sortKeys(nodes)
	return nodes
}

// Row returns the sorted column keys of a node
func (m *Matrix) Row(a NodeKey) []NodeKey {
	cols := make([]NodeKey, 0, len(m.entries[a]))
	for k := range m.entries[a] {
		cols = append(cols, k)
	}
	sortKeys(cols)
	return cols
}

func sortKeys(keys []NodeKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
}

// Count is the number of unique off-diagonal pairs plus diagonal entries
func (m *Matrix) Count() int {
	off, diag := 0, 0
	for a, row := range m.entries {
		for b := range row {
			if a == b {
				diag++
			} else {
				off++
			}
		}
	}
	return off/2 + diag
}

// CheckSymmetry returns an error naming the first pair whose orientations differ
func (m *Matrix) CheckSymmetry() error {
	for _, a := range m.Nodes() {
		for _, b := range m.Row(a) {
			v := m.entries[a][b]
			w, ok := m.entries[b][a]
			if !ok || v != w {
				return fmt.Errorf("asymmetric entry Ybus[%v][%v]=%v, Ybus[%v][%v]=%v", a, b, v, b, a, w)
			}
			if v == 0 {
				return fmt.Errorf("zero stored at Ybus[%v][%v]", a, b)
			}
		}
	}
	return nil
}

// Equal reports whether both matrices hold identical entries
func (m *Matrix) Equal(o *Matrix) bool {
	if len(m.entries) != len(o.entries) {
		return false
	}
	for a, row := range m.entries {
		orow, ok := o.entries[a]
		if !ok || len(orow) != len(row) {
			return false
		}
		for b, v := range row {
			if w, ok := orow[b]; !ok || w != v {
				return false
			}
		}
	}
	return true
}
