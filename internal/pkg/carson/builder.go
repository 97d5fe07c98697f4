package carson

import (
	"fmt"
	"sort"

	"github.com/ohowland/ybus_core/internal/pkg/cmatrix"
	"github.com/ohowland/ybus_core/internal/pkg/line"
	"github.com/ohowland/ybus_core/internal/pkg/model"
	"github.com/ohowland/ybus_core/internal/pkg/ybus"
)

// Skip reasons
const (
	ReasonMissingData = "wireinfo_missing_data"
	ReasonMalformed   = "wireinfo_malformed"
	ReasonUnsupported = "wireinfo_unsupported"
)

type skipError struct {
	reason string
	err    error
}

func (e *skipError) Error() string {
	return e.err.Error()
}

func skip(reason, format string, args ...interface{}) error {
	return &skipError{reason, fmt.Errorf(format, args...)}
}

type conductor struct {
	phase  uint8
	family Family
	wire   Wire
}

// Builder stamps wire-info lines into a Ybus
type Builder struct {
	ybus    *ybus.Matrix
	seen    line.Seen
	skipped ybus.Skipped
	table   cnTable
}

// NewBuilder returns a Builder writing into m. Lines already in seen are
// left to the representation that stamped them.
func NewBuilder(m *ybus.Matrix, seen line.Seen, skipped ybus.Skipped) *Builder {
	if seen == nil {
		seen = line.Seen{}
	}
	return &Builder{ybus: m, seen: seen, skipped: skipped, table: newCNTable()}
}

func order(phase string) uint8 {
	idx, _ := ybus.PhaseIndex(phase)
	return idx
}

// WireInfo stamps every line binding of lines and returns the number of
// lines stamped. Bindings are grouped by line name with the neutral last.
func (b *Builder) WireInfo(lib *Library, lines []model.WireInfoLine) (int, error) {
	if len(lines) == 0 {
		return 0, nil
	}
	sorted := make([]model.WireInfoLine, len(lines))
	copy(sorted, lines)
	sort.SliceStable(sorted, func(i, j int) bool {
		if *sorted[i].LineName != *sorted[j].LineName {
			return *sorted[i].LineName < *sorted[j].LineName
		}
		return order(*sorted[i].Phase) < order(*sorted[j].Phase)
	})

	stamped := 0
	for start := 0; start < len(sorted); {
		end := start + 1
		for end < len(sorted) && *sorted[end].LineName == *sorted[start].LineName {
			end++
		}
		ok, err := b.line(lib, sorted[start:end])
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

func (b *Builder) line(lib *Library, group []model.WireInfoLine) (bool, error) {
	first := group[0]
	name := *first.LineName

	z, nphase, err := b.primitive(lib, group)
	if err != nil {
		reason := ReasonMalformed
		if s, ok := err.(*skipError); ok {
			reason = s.reason
		}
		b.skipped.Note("Carson", reason, name, err)
		return false, nil
	}

	zabc, err := z.KronReduce(nphase)
	if err != nil {
		return false, fmt.Errorf("line %v: %w", name, err)
	}

	if !b.seen.Claim(name) {
		b.skipped.Note("Carson", line.ReasonDuplicate, name, "already stamped by another representation")
		return false, nil
	}

	from := make([]ybus.NodeKey, nphase)
	to := make([]ybus.NodeKey, nphase)
	for i := 0; i < nphase; i++ {
		idx := order(*group[i].Phase)
		from[i] = ybus.NewNodeKey(*group[i].Bus1, idx)
		to[i] = ybus.NewNodeKey(*group[i].Bus2, idx)
	}
	if err := line.Stamp(b.ybus, name, from, to, zabc, *first.Length); err != nil {
		return false, err
	}
	return true, nil
}

// primitive resolves the conductors of one line and assembles its
// unreduced impedance matrix. It returns the number of phase conductors,
// which lead the matrix.
func (b *Builder) primitive(lib *Library, group []model.WireInfoLine) (*cmatrix.Matrix, int, error) {
	sp, ok := lib.Spacings[*group[0].WireSpacingInfo]
	if !ok {
		return nil, 0, skip(ReasonMissingData, "unknown wire spacing %q", *group[0].WireSpacingInfo)
	}

	cs := make([]conductor, len(group))
	for i, rec := range group {
		idx, ok := ybus.PhaseIndex(*rec.Phase)
		if !ok {
			return nil, 0, skip(ReasonMalformed, "phase %q", *rec.Phase)
		}
		family, err := ParseFamily(*rec.WireInfo)
		if err != nil {
			return nil, 0, skip(ReasonMalformed, "%v", err)
		}
		wire, ok := lib.Wires[*rec.Wire]
		if !ok {
			return nil, 0, skip(ReasonMissingData, "unknown wire %q", *rec.Wire)
		}
		cs[i] = conductor{idx, family, wire}
	}

	switch cs[0].family {
	case Overhead:
		return b.overhead(sp, cs)
	case ConcentricNeutral:
		return b.concentricNeutral(sp, cs)
	case TapeShield:
		return b.tapeShield(sp, cs)
	}
	return nil, 0, skip(ReasonMalformed, "unknown wire family")
}

// overhead conductors are the phases followed by an optional neutral, one
// per spacing position.
func (b *Builder) overhead(sp Spacing, cs []conductor) (*cmatrix.Matrix, int, error) {
	n := len(cs)
	if sp.Dim() != n {
		return nil, 0, skip(ReasonMalformed, "%d conductors on a %d position spacing", n, sp.Dim())
	}
	nphase := 0
	for i, c := range cs {
		if c.family != Overhead {
			return nil, 0, skip(ReasonMalformed, "%v conductor on an overhead line", c.family)
		}
		if c.phase != ybus.PhaseN {
			nphase++
		} else if i != n-1 {
			return nil, 0, skip(ReasonMalformed, "more than one neutral")
		}
	}
	if nphase == 0 {
		return nil, 0, skip(ReasonMalformed, "no phase conductors")
	}

	z := cmatrix.New(n, n)
	for r := 0; r < n; r++ {
		if err := b.fillRow(z, r, Overhead, false, sp, cs[r].wire); err != nil {
			return nil, 0, err
		}
	}
	return z, nphase, nil
}

// concentricNeutral cables occupy one spacing position per phase. The
// matrix carries the phase conductors then one neutral row per cable.
func (b *Builder) concentricNeutral(sp Spacing, cs []conductor) (*cmatrix.Matrix, int, error) {
	phases := make([]conductor, 0, len(cs))
	for _, c := range cs {
		if c.phase == ybus.PhaseN {
			continue
		}
		if c.family != ConcentricNeutral || c.wire.CN == nil {
			return nil, 0, skip(ReasonMissingData, "phase %d has no concentric neutral data", c.phase)
		}
		phases = append(phases, c)
	}
	dim := sp.Dim()
	if dim < 1 || dim > 3 {
		return nil, 0, skip(ReasonUnsupported, "%d position concentric neutral spacing", dim)
	}
	if len(phases) != dim {
		return nil, 0, skip(ReasonMalformed, "%d cables on a %d position spacing", len(phases), dim)
	}

	z := cmatrix.New(2*dim, 2*dim)
	for r := 0; r < dim; r++ {
		if err := b.fillRow(z, r, ConcentricNeutral, false, sp, phases[r].wire); err != nil {
			return nil, 0, err
		}
	}
	last := phases[dim-1].wire
	for r := dim; r < 2*dim; r++ {
		if err := b.fillRow(z, r, ConcentricNeutral, true, sp, last); err != nil {
			return nil, 0, err
		}
	}
	return z, dim, nil
}

// tapeShield supports a single phase cable plus a separate neutral wire on
// a two position spacing: rows are phase, shield, neutral.
func (b *Builder) tapeShield(sp Spacing, cs []conductor) (*cmatrix.Matrix, int, error) {
	if sp.Dim() != 2 {
		return nil, 0, skip(ReasonUnsupported, "%d position tape shield spacing", sp.Dim())
	}
	if len(cs) != 2 || cs[1].phase != ybus.PhaseN {
		return nil, 0, skip(ReasonUnsupported, "tape shield line with %d conductors", len(cs))
	}
	cable, neutral := cs[0], cs[1]

	z := cmatrix.New(3, 3)
	if err := b.fillRow(z, 0, TapeShield, false, sp, cable.wire); err != nil {
		return nil, 0, err
	}
	if err := b.fillRow(z, 1, TapeShield, true, sp, cable.wire); err != nil {
		return nil, 0, err
	}

	// the neutral wire sits at position 2, relative to the cable at 1
	m, err := b.table.mutual(neutral.family, 2, 1, sp, neutral.wire)
	if err != nil {
		return nil, 0, skip(ReasonMissingData, "%v", err)
	}
	z.SetSymmetric(2, 0, m)
	z.SetSymmetric(2, 1, m)
	self, err := Self(neutral.family, neutral.wire, true)
	if err != nil {
		return nil, 0, skip(ReasonMissingData, "%v", err)
	}
	z.Set(2, 2, self)
	return z, 1, nil
}

// fillRow writes the diagonal and the mutual terms against every earlier
// row of row r.
func (b *Builder) fillRow(z *cmatrix.Matrix, r int, f Family, neutral bool, sp Spacing, w Wire) error {
	self, err := Self(f, w, neutral)
	if err != nil {
		return skip(ReasonMissingData, "%v", err)
	}
	z.Set(r, r, self)
	for c := 0; c < r; c++ {
		m, err := b.table.mutual(f, r+1, c+1, sp, w)
		if err != nil {
			return skip(ReasonMissingData, "%v", err)
		}
		z.SetSymmetric(r, c, m)
	}
	return nil
}
