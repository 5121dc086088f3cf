package mesh

import (
	"fmt"

	meshErrors "meshmul/src/errors"
)

// Dimensions is shared by every process of one multiplication: RowCount (M) is the left
// matrix row count, ColumnCount (N) the right matrix column count and InnerSize (K) the
// dimension both operands agree on.
type Dimensions struct {
	RowCount    int
	ColumnCount int
	InnerSize   int
}

// Units returns the number of compute units, one per output cell.
func (d Dimensions) Units() int {
	return d.RowCount * d.ColumnCount
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d (k=%d)", d.RowCount, d.ColumnCount, d.InnerSize)
}

// Validate rejects meshes without cells or without an accumulation depth.
func (d Dimensions) Validate() error {
	if d.RowCount <= 0 || d.ColumnCount <= 0 || d.InnerSize <= 0 {
		return meshErrors.InputValidation("mesh dimensions %s must all be positive", d)
	}
	return nil
}

// CheckProcesses fails when the process group cannot be laid onto the mesh.
func (d Dimensions) CheckProcesses(processes int) error {
	if processes != d.Units() {
		return meshErrors.TopologyMismatch(d.Units(), processes)
	}
	return nil
}
