package mesh

import (
	"context"
	"slices"

	"go.uber.org/zap"

	meshErrors "meshmul/src/errors"
	"meshmul/src/matrix"
	"meshmul/src/simulator/noc"
)

// Work is a validated multiplication: the mesh dimensions plus the operand stream of
// every edge unit. Rows[i] feeds the first-column unit of grid row i and Columns[j]
// feeds the first-row unit of grid column j.
type Work[T matrix.Element] struct {
	Dims    Dimensions
	Rows    [][]T
	Columns [][]T
}

// Plan validates both operands and lays them out for the mesh. The left matrix must be
// row-major; the right matrix may be given either way and is handed out column-wise.
// Every rejection is an input validation error.
func Plan[T matrix.Element](left, right *matrix.Matrix[T]) (*Work[T], error) {
	if err := checkOperand("left", left); err != nil {
		return nil, err
	}
	if err := checkOperand("right", right); err != nil {
		return nil, err
	}
	if left.Orientation != matrix.RowMajor {
		return nil, meshErrors.New(meshErrors.PhaseValidate, meshErrors.KindInvalidInput).
			Path("left").
			Detail("left matrix must be %s, got %s", matrix.RowMajor, left.Orientation).
			Build()
	}
	if left.Cols != right.Rows {
		return nil, meshErrors.InputValidation(
			"left matrix column count %d does not match right matrix row count %d", left.Cols, right.Rows)
	}

	columns, err := right.ColumnMajor()
	if err != nil {
		return nil, meshErrors.New(meshErrors.PhaseValidate, meshErrors.KindInvalidInput).
			Path("right").
			Detail("transpose right matrix").
			Cause(err).
			Build()
	}

	work := &Work[T]{
		Dims: Dimensions{
			RowCount:    left.Rows,
			ColumnCount: right.Cols,
			InnerSize:   left.Cols,
		},
		Rows:    left.Data,
		Columns: columns.Data,
	}
	if err := work.Dims.Validate(); err != nil {
		return nil, err
	}
	return work, nil
}

func checkOperand[T matrix.Element](name string, m *matrix.Matrix[T]) error {
	if m == nil {
		return meshErrors.New(meshErrors.PhaseValidate, meshErrors.KindInvalidInput).
			Path(name).
			Detail("matrix is missing").
			Build()
	}
	if m.Failed {
		return meshErrors.New(meshErrors.PhaseValidate, meshErrors.KindInvalidInput).
			Path(name).
			Detail("matrix is not correct: %s", m.Reason).
			Build()
	}
	if m.Rows <= 0 || m.Cols <= 0 {
		return meshErrors.New(meshErrors.PhaseValidate, meshErrors.KindInvalidInput).
			Path(name).
			Detail("matrix is %dx%d", m.Rows, m.Cols).
			Build()
	}
	if !m.CheckRectangular() {
		return meshErrors.New(meshErrors.PhaseValidate, meshErrors.KindInvalidInput).
			Path(name).
			Detail("matrix is not rectangular").
			Build()
	}
	return nil
}

// Coordinator is the single entry point of a run. It lives on CoordinatorRank.
type Coordinator[T matrix.Element] struct {
	transport Transport
	left      *matrix.Matrix[T]
	right     *matrix.Matrix[T]
}

// NewCoordinator binds the operands to the coordinator's transport.
func NewCoordinator[T matrix.Element](transport Transport, left, right *matrix.Matrix[T]) *Coordinator[T] {
	return &Coordinator[T]{transport: transport, left: left, right: right}
}

// Run validates the input, checks the process group against the mesh, broadcasts the
// dimensions and sends every edge unit but its own its operand stream. Nothing is sent
// before validation and the topology check pass. It returns the dimensions together
// with the row and column stream the coordinator keeps for its own unit. On error the
// whole group has already been aborted.
func (c *Coordinator[T]) Run(ctx context.Context) (Dimensions, []T, []T, error) {
	work, err := Plan(c.left, c.right)
	if err != nil {
		c.transport.Abort(err)
		return Dimensions{}, nil, nil, err
	}
	dims := work.Dims

	if err := dims.CheckProcesses(c.transport.Size()); err != nil {
		c.transport.Abort(err)
		return Dimensions{}, nil, nil, err
	}

	Logger().Info("coordinator validated input",
		zap.Int("rows", dims.RowCount),
		zap.Int("columns", dims.ColumnCount),
		zap.Int("inner", dims.InnerSize))

	if _, err := c.transport.Broadcast(ctx, CoordinatorRank, dims); err != nil {
		return Dimensions{}, nil, nil, err
	}

	for i := 1; i < dims.RowCount; i++ {
		dst := i * dims.ColumnCount
		if err := c.transport.Send(ctx, dst, noc.LaneRowOperands, slices.Clone(work.Rows[i])); err != nil {
			return Dimensions{}, nil, nil, err
		}
		Logger().Debug("row operands sent",
			zap.Int("row", i),
			zap.Int("rank", dst),
			zap.Int("hops", ManhattanDistance(MeshCoordinate{}, Coordinate(dst, dims.ColumnCount))))
	}

	for j := 1; j < dims.ColumnCount; j++ {
		if err := c.transport.Send(ctx, j, noc.LaneColumnOperands, slices.Clone(work.Columns[j])); err != nil {
			return Dimensions{}, nil, nil, err
		}
		Logger().Debug("column operands sent",
			zap.Int("column", j),
			zap.Int("rank", j),
			zap.Int("hops", j))
	}

	return dims, slices.Clone(work.Rows[0]), slices.Clone(work.Columns[0]), nil
}

// receiveWork is the non-coordinator half of the startup barrier: learn the
// dimensions, check the group size and, on an edge unit, receive its operand stream.
func receiveWork[T matrix.Element](ctx context.Context, transport Transport) (Dimensions, []T, []T, error) {
	payload, err := transport.Broadcast(ctx, CoordinatorRank, nil)
	if err != nil {
		return Dimensions{}, nil, nil, err
	}
	dims, ok := payload.(Dimensions)
	if !ok {
		err := meshErrors.Transport(meshErrors.KindTypeMismatch, "expected dimensions broadcast, got %T", payload)
		transport.Abort(err)
		return Dimensions{}, nil, nil, err
	}
	if err := dims.CheckProcesses(transport.Size()); err != nil {
		transport.Abort(err)
		return Dimensions{}, nil, nil, err
	}

	rank := transport.Rank()
	var rows, columns []T
	switch {
	case IsFirstColumn(rank, dims.ColumnCount):
		rows, err = receiveVector[T](ctx, transport, CoordinatorRank, noc.LaneRowOperands)
	case IsFirstRow(rank, dims.ColumnCount):
		columns, err = receiveVector[T](ctx, transport, CoordinatorRank, noc.LaneColumnOperands)
	}
	if err != nil {
		return Dimensions{}, nil, nil, err
	}
	return dims, rows, columns, nil
}
