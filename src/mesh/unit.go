package mesh

import (
	"context"

	"go.uber.org/zap"

	meshErrors "meshmul/src/errors"
	"meshmul/src/matrix"
	"meshmul/src/simulator/noc"
)

// ComputeUnit owns one output cell. Each round it obtains A from its row stream or its
// left neighbour and B from its column stream or its up neighbour, accumulates A*B and
// forwards A to the right and B downwards. Rounds are not numbered on the wire: a unit
// simply waits for the next value on each lane, and per-lane FIFO order keeps the mesh
// in step.
type ComputeUnit[T matrix.Element] struct {
	transport Transport
	dims      Dimensions
	rank      int
	rows      *operandStream[T]
	columns   *operandStream[T]
	registers Registers[T]
}

// NewComputeUnit prepares the unit for transport.Rank(). rows must be set for
// first-column units and columns for first-row units; other units ignore them.
func NewComputeUnit[T matrix.Element](transport Transport, dims Dimensions, rows, columns []T) *ComputeUnit[T] {
	return &ComputeUnit[T]{
		transport: transport,
		dims:      dims,
		rank:      transport.Rank(),
		rows:      newOperandStream(rows),
		columns:   newOperandStream(columns),
	}
}

// Registers returns a copy of the unit's registers.
func (u *ComputeUnit[T]) Registers() Registers[T] {
	return u.registers
}

// Run executes InnerSize rounds and returns the accumulated dot product.
func (u *ComputeUnit[T]) Run(ctx context.Context) (T, error) {
	columnCount := u.dims.ColumnCount
	firstColumn := IsFirstColumn(u.rank, columnCount)
	firstRow := IsFirstRow(u.rank, columnCount)
	lastColumn := IsLastColumn(u.rank, columnCount)
	lastRow := IsLastRow(u.rank, u.dims.RowCount, columnCount)

	for iteration := 0; iteration < u.dims.InnerSize; iteration++ {
		a, err := u.obtain(ctx, firstColumn, u.rows, Left(u.rank), noc.LaneA)
		if err != nil {
			return u.registers.C, err
		}
		b, err := u.obtain(ctx, firstRow, u.columns, Up(u.rank, columnCount), noc.LaneB)
		if err != nil {
			return u.registers.C, err
		}

		u.registers.Load(a, b)
		u.registers.Accumulate()

		if ce := Logger().Check(zap.DebugLevel, "unit round"); ce != nil {
			ce.Write(
				zap.Int("rank", u.rank),
				zap.Int("iteration", iteration),
				zap.Int64("a", int64(a)),
				zap.Int64("b", int64(b)),
				zap.Int64("c", int64(u.registers.C)))
		}

		if !lastColumn {
			if err := u.transport.Send(ctx, Right(u.rank), noc.LaneA, a); err != nil {
				return u.registers.C, err
			}
		}
		if !lastRow {
			if err := u.transport.Send(ctx, Down(u.rank, columnCount), noc.LaneB, b); err != nil {
				return u.registers.C, err
			}
		}
	}

	return u.registers.C, nil
}

func (u *ComputeUnit[T]) obtain(ctx context.Context, local bool, stream *operandStream[T], neighbour int, lane noc.Lane) (T, error) {
	if !local {
		return receiveScalar[T](ctx, u.transport, neighbour, lane)
	}

	value, ok := stream.Pop()
	if !ok {
		err := meshErrors.New(meshErrors.PhaseCompute, meshErrors.KindExhausted).
			Value(u.rank).
			Detail("rank %d ran out of local operands for lane %s", u.rank, lane).
			Build()
		u.transport.Abort(err)
		var zero T
		return zero, err
	}
	return value, nil
}
