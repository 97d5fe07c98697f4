package carson

import (
	"fmt"
	"math"
)

// Point is a conductor position in metres
type Point struct {
	X float64
	Y float64
}

// Spacing holds the conductor positions of one wire spacing, keyed by
// sequence number starting at 1.
type Spacing struct {
	Cable     bool
	Positions map[int]Point
}

// Dim is the number of conductor positions
func (s Spacing) Dim() int {
	return len(s.Positions)
}

// Distance between positions i and j
func (s Spacing) Distance(i, j int) (float64, error) {
	pi, ok := s.Positions[i]
	if !ok {
		return 0, fmt.Errorf("spacing has no position %d", i)
	}
	pj, ok := s.Positions[j]
	if !ok {
		return 0, fmt.Errorf("spacing has no position %d", j)
	}
	return math.Hypot(pi.X-pj.X, pi.Y-pj.Y), nil
}

type cnDistance int

const (
	// strand circle radius of the cable itself
	cnRadius cnDistance = iota
	// centre to centre distance between two cable positions
	cnCenter
	// centre of one cable to the neutral strands of another
	cnCenterRadius
)

type cnKey struct {
	dim int
	i   int
	j   int
}

type cnEntry struct {
	kind cnDistance
	ii   int
	jj   int
}

// cnTable maps (positions, row, col) of a CN cable primitive matrix to the
// distance used for that mutual term. Rows 1..dim are the phase
// conductors and rows dim+1..2dim their neutrals.
type cnTable map[cnKey]cnEntry

func newCNTable() cnTable {
	r := func() cnEntry { return cnEntry{kind: cnRadius} }
	d := func(ii, jj int) cnEntry { return cnEntry{cnCenter, ii, jj} }
	dr := func(ii, jj int) cnEntry { return cnEntry{cnCenterRadius, ii, jj} }

	return cnTable{
		{1, 2, 1}: r(),

		{2, 2, 1}: d(2, 1),
		{2, 3, 1}: r(),
		{2, 3, 2}: dr(2, 1),
		{2, 4, 1}: dr(2, 1),
		{2, 4, 2}: r(),
		{2, 4, 3}: d(2, 1),

		{3, 2, 1}: d(2, 1),
		{3, 3, 1}: d(3, 1),
		{3, 3, 2}: d(3, 2),
		{3, 4, 1}: r(),
		{3, 4, 2}: dr(2, 1),
		{3, 4, 3}: dr(3, 1),
		{3, 5, 1}: dr(2, 1),
		{3, 5, 2}: r(),
		{3, 5, 3}: dr(3, 2),
		{3, 5, 4}: d(2, 1),
		{3, 6, 1}: dr(3, 1),
		{3, 6, 2}: dr(3, 2),
		{3, 6, 3}: r(),
		{3, 6, 4}: d(3, 1),
		{3, 6, 5}: d(3, 2),
	}
}

// distance resolves the CN mutual distance of row i, col j, both 1-based
// with i > j.
func (t cnTable) distance(i, j int, sp Spacing, w Wire) (float64, error) {
	e, ok := t[cnKey{sp.Dim(), i, j}]
	if !ok {
		return 0, fmt.Errorf("no concentric neutral distance for %d positions at (%d,%d)", sp.Dim(), i, j)
	}
	if e.kind == cnCenter {
		return sp.Distance(e.ii, e.jj)
	}
	if w.CN == nil {
		return 0, fmt.Errorf("cable has no concentric neutral data")
	}
	R := w.CN.StrandCircle()
	if e.kind == cnRadius {
		return R, nil
	}
	d, err := sp.Distance(e.ii, e.jj)
	if err != nil {
		return 0, err
	}
	k := float64(w.CN.Count)
	return math.Pow(math.Pow(d, k)-math.Pow(R, k), 1.0/k), nil
}

// mutual is the off-diagonal primitive impedance between rows i and j
// (1-based) for a conductor of family f.
func (t cnTable) mutual(f Family, i, j int, sp Spacing, w Wire) (complex128, error) {
	var d float64
	var err error
	switch f {
	case Overhead:
		d, err = sp.Distance(i, j)
	case ConcentricNeutral:
		d, err = t.distance(i, j, sp, w)
	case TapeShield:
		if w.TS == nil {
			return 0, fmt.Errorf("cable has no tape shield data")
		}
		d = w.TS.ShieldDistance()
	}
	if err != nil {
		return 0, err
	}
	return Mutual(d), nil
}
