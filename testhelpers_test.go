package protoclust

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

// symDenseFromRows builds a *mat.SymDense from a dense symmetric matrix
// literal, for tests that need to construct a Statistics value directly
// without running computeStatistics over a synthetic cluster.
func symDenseFromRows(t *testing.T, rows [][]float64) *mat.SymDense {
	t.Helper()
	n := len(rows)
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, rows[i][j])
		}
	}
	return sym
}
