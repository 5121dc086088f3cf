package mesh

import (
	"context"

	"go.uber.org/zap"

	"meshmul/src/matrix"
	"meshmul/src/simulator/noc"
)

// Gather collects one accumulator per rank on the coordinator. own is the coordinator's
// value for rank 0; every other rank is received in increasing rank order, so the
// product never depends on which unit finished first.
func Gather[T matrix.Element](ctx context.Context, transport Transport, dims Dimensions, own T) (*matrix.Matrix[T], error) {
	product := &matrix.Matrix[T]{
		Orientation: matrix.RowMajor,
		Rows:        dims.RowCount,
		Cols:        dims.ColumnCount,
		Data:        make([][]T, 0, dims.RowCount),
	}

	row := make([]T, 0, dims.ColumnCount)
	for rank := 0; rank < dims.Units(); rank++ {
		value := own
		if rank != CoordinatorRank {
			var err error
			value, err = receiveScalar[T](ctx, transport, rank, noc.LaneResult)
			if err != nil {
				return nil, err
			}
		}

		row = append(row, value)
		if IsLastColumn(rank, dims.ColumnCount) {
			product.Data = append(product.Data, row)
			row = make([]T, 0, dims.ColumnCount)
		}
	}

	Logger().Info("product gathered", zap.Stringer("dims", dims))
	return product, nil
}
