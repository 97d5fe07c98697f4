package ybus

import (
	"fmt"

	"github.com/ohowland/ybus_core/internal/pkg/cmatrix"
)

// StampBranch places a line's primitive admittance between the nodes at
// its two ends. from[i] and to[i] are the terminals of conductor i. The
// diagonal of y is stamped with StampLine, the lower triangle with
// StampSwapLine pairing from[i] against to[j].
func (m *Matrix) StampBranch(from, to []NodeKey, y *cmatrix.Matrix) error {
	rows, cols := y.Dims()
	if rows != cols || rows != len(from) || len(from) != len(to) {
		return fmt.Errorf("%w: %dx%d admittance for %d/%d terminals", cmatrix.ErrDimension, rows, cols, len(from), len(to))
	}
	for i := 0; i < rows; i++ {
		for j := 0; j < i; j++ {
			m.StampSwapLine(from[i], to[j], y.At(i, j))
		}
		m.StampLine(from[i], to[i], y.At(i, i))
	}
	return nil
}
