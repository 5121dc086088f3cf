package simulator

import "math"

// MeshArray models a physical mesh of Rows x Cols compute units that a larger product
// is tiled onto.
type MeshArray struct {
	Rows int
	Cols int
}

// NewMeshArray builds an array with the provided geometry.
func NewMeshArray(rows, cols int) MeshArray {
	if rows <= 0 {
		rows = 1
	}
	if cols <= 0 {
		cols = 1
	}
	return MeshArray{Rows: rows, Cols: cols}
}

// EstimateMatmulCycles returns the lockstep rounds needed for an m×k by k×n product
// (m rows of outputs, n columns of outputs, k accumulation depth). Each tile costs a
// ramp of Rows+Cols-2 rounds until the far corner starts, plus k rounds of steady
// state.
func (a MeshArray) EstimateMatmulCycles(m, n, k int) int {
	if m <= 0 || n <= 0 || k <= 0 {
		return 0
	}

	tileRows := int(math.Ceil(float64(m) / float64(a.Rows)))
	tileCols := int(math.Ceil(float64(n) / float64(a.Cols)))
	ramp := a.Rows + a.Cols - 2
	return (k + ramp) * tileRows * tileCols
}

// EstimateMeshCycles is the latency of a mesh sized exactly for the product, one unit
// per output cell: k + m + n - 2.
func EstimateMeshCycles(m, n, k int) int {
	return NewMeshArray(m, n).EstimateMatmulCycles(m, n, k)
}
