package ybus

import (
	"encoding/json"
	"math"
)

// Serializable is the wire form of a Ybus: node -> node -> [real, imag]
type Serializable map[string]map[string][2]float64

// Serializable converts the matrix to its wire form. Both orientations of
// every off-diagonal pair are present.
func (m *Matrix) Serializable() Serializable {
	out := make(Serializable, len(m.entries))
	for a, row := range m.entries {
		r := make(map[string][2]float64, len(row))
		for b, v := range row {
			r[b.String()] = [2]float64{real(v), imag(v)}
		}
		out[a.String()] = r
	}
	return out
}

// MarshalJSON emits the wire form with sorted keys
func (m *Matrix) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Serializable())
}

// UnmarshalJSON reads the wire form back into m
func (m *Matrix) UnmarshalJSON(data []byte) error {
	s := Serializable{}
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := s.Matrix()
	if err != nil {
		return err
	}
	*m = *parsed
	return nil
}

// Matrix rebuilds a Matrix from its wire form
func (s Serializable) Matrix() (*Matrix, error) {
	m := NewMatrix()
	for a, row := range s {
		ka, err := ParseNodeKey(a)
		if err != nil {
			return nil, err
		}
		for b, v := range row {
			kb, err := ParseNodeKey(b)
			if err != nil {
				return nil, err
			}
			c := complex(v[0], v[1])
			if c == 0 {
				continue
			}
			if m.entries[ka] == nil {
				m.entries[ka] = make(map[NodeKey]complex128)
			}
			m.entries[ka][kb] = c
		}
	}
	return m, nil
}

// EntryError is the difference of one entry between two Ybus results
type EntryError struct {
	Error        [2]float64 `json:"error"`
	PercentError [2]float64 `json:"percentError"`
}

// DiffReport holds only the entries that differ
type DiffReport map[string]map[string]EntryError

// Diff compares every entry of reference against the first candidate that
// holds the same entry. Entries no candidate holds are not reported.
// A zero reference component yields a zero percent error for that component.
func Diff(reference Serializable, candidates ...Serializable) DiffReport {
	report := DiffReport{}
	for a, row := range reference {
		for b, ref := range row {
			var got [2]float64
			found := false
			for _, c := range candidates {
				if v, ok := c[a][b]; ok {
					got, found = v, true
					break
				}
			}
			if !found {
				continue
			}
			e := [2]float64{ref[0] - got[0], ref[1] - got[1]}
			if e[0] == 0 && e[1] == 0 {
				continue
			}
			if report[a] == nil {
				report[a] = make(map[string]EntryError)
			}
			report[a][b] = EntryError{e, [2]float64{percent(e[0], ref[0]), percent(e[1], ref[1])}}
		}
	}
	return report
}

func percent(e, ref float64) float64 {
	if ref == 0 || math.IsNaN(ref) {
		return 0
	}
	return e * 100.0 / ref
}
