// Package carson builds line primitives from conductor geometry using
// Carson's equations (60 Hz, 100 ohm-m earth) and Kron reduction.
package carson

import (
	"fmt"
	"math"
)

const (
	mu0   = 4.0 * math.Pi * 1e-7
	omega = 2.0 * math.Pi * 60.0
	rho   = 100.0
	freq  = 60.0

	// Rg is the earth return resistance per metre
	Rg = mu0 * omega / 8.0
	// X0 is the reactance coefficient applied to ln(1/distance)
	X0 = mu0 * omega / (2.0 * math.Pi)
)

// Xg is the earth return reactance per metre
var Xg = X0 * math.Log(658.5*math.Sqrt(rho/freq))

// Family is the conductor construction of a wire
type Family int

const (
	Overhead Family = iota
	ConcentricNeutral
	TapeShield
)

func (f Family) String() string {
	switch f {
	case Overhead:
		return "OverheadWireInfo"
	case ConcentricNeutral:
		return "ConcentricNeutralCableInfo"
	case TapeShield:
		return "TapeShieldCableInfo"
	}
	return "unknown"
}

// ParseFamily maps the wireinfo class name of a line binding
func ParseFamily(s string) (Family, error) {
	switch s {
	case "OverheadWireInfo":
		return Overhead, nil
	case "ConcentricNeutralCableInfo":
		return ConcentricNeutral, nil
	case "TapeShieldCableInfo":
		return TapeShield, nil
	}
	return 0, fmt.Errorf("unknown wire family %q", s)
}

// Wire is the electrical data of one conductor type. CN and TS are only
// set for cables of that family.
type Wire struct {
	GMR float64
	R25 float64
	CN  *CNStrands
	TS  *TapeScreen
}

// CNStrands describes the concentric neutral of a cable
type CNStrands struct {
	DiameterJacket float64
	Count          int
	Radius         float64
	GMR            float64
	RDC            float64
}

// StrandCircle is the radius of the circle through the strand centres
func (c *CNStrands) StrandCircle() float64 {
	return (c.DiameterJacket - c.Radius*2.0) / 2.0
}

// TapeScreen describes the shield of a tape-shield cable
type TapeScreen struct {
	DiameterScreen float64
	Thickness      float64
}

func (s *TapeScreen) outer() float64 {
	return s.DiameterScreen + 2.0*s.Thickness
}

// ShieldDistance is the mean radius of the tape
func (s *TapeScreen) ShieldDistance() float64 {
	return 0.5 * (s.outer() - s.Thickness)
}

func carson(r, dist float64) complex128 {
	return complex(r+Rg, X0*math.Log(1.0/dist)+Xg)
}

// Mutual is the off-diagonal primitive impedance at distance d
func Mutual(d float64) complex128 {
	return complex(Rg, X0*math.Log(1.0/d)+Xg)
}

// Self is the diagonal primitive impedance of a conductor. neutral selects
// the concentric neutral of a CN cable or the shield of a TS cable.
func Self(f Family, w Wire, neutral bool) (complex128, error) {
	switch {
	case f == ConcentricNeutral && neutral:
		if w.CN == nil {
			return 0, fmt.Errorf("cable has no concentric neutral data")
		}
		k := float64(w.CN.Count)
		gmr := math.Pow(w.CN.GMR*k*math.Pow(w.CN.StrandCircle(), k-1), 1.0/k)
		return carson(w.CN.RDC/k, gmr), nil
	case f == TapeShield && neutral:
		if w.TS == nil {
			return 0, fmt.Errorf("cable has no tape shield data")
		}
		t := w.TS.Thickness
		ds := w.TS.outer()
		rshield := 0.3183 * 2.3718e-8 / (ds * t * math.Sqrt(50.0/(100.0-20.0)))
		return carson(rshield, w.TS.ShieldDistance()), nil
	}
	return carson(w.R25, w.GMR), nil
}
