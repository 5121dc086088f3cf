package mesh

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"meshmul/src/matrix"
	"meshmul/src/simulator/noc"
)

// Options describes the process group a multiplication runs on.
type Options struct {
	// Processes is the externally assigned group size. Zero derives rows*columns from
	// the operands, the way a launcher sizes the group for the mesh.
	Processes int
	// LaneDepth is the buffer capacity of every lane; zero makes sends rendezvous.
	LaneDepth int
	// Stats, when set, receives the lane traffic of the run.
	Stats *noc.Stats
}

// Multiply computes left*right on a mesh of one goroutine per rank. Every process runs
// the same program on its own endpoint; rank 0 additionally coordinates and gathers.
// The first fatal error of any process aborts the group and is returned; no partial
// product is ever returned.
func Multiply[T matrix.Element](ctx context.Context, left, right *matrix.Matrix[T], opts Options) (*matrix.Matrix[T], error) {
	processes := opts.Processes
	if processes <= 0 {
		processes = 1
		if left != nil && right != nil && left.Rows > 0 && right.Cols > 0 {
			processes = left.Rows * right.Cols
		}
	}

	world := noc.NewWorld(processes, opts.LaneDepth, opts.Stats)
	Logger().Debug("process group created",
		zap.Int("processes", processes),
		zap.Int("lane_depth", opts.LaneDepth))

	var (
		wg      sync.WaitGroup
		product *matrix.Matrix[T]
	)
	for rank := 0; rank < processes; rank++ {
		wg.Add(1)
		go func(rank int) {
			defer wg.Done()
			result, err := runProcess(ctx, world.Endpoint(rank), left, right)
			if err != nil {
				world.Abort(err)
				return
			}
			if rank == CoordinatorRank {
				product = result
			}
		}(rank)
	}
	wg.Wait()

	if cause := world.Err(); cause != nil {
		return nil, cause
	}
	return product, nil
}

// runProcess is the program every rank executes. Only the coordinator returns a
// product.
func runProcess[T matrix.Element](ctx context.Context, transport Transport, left, right *matrix.Matrix[T]) (*matrix.Matrix[T], error) {
	var (
		dims          Dimensions
		rows, columns []T
		err           error
	)

	rank := transport.Rank()
	if rank == CoordinatorRank {
		dims, rows, columns, err = NewCoordinator(transport, left, right).Run(ctx)
	} else {
		dims, rows, columns, err = receiveWork[T](ctx, transport)
	}
	if err != nil {
		return nil, err
	}

	c, err := NewComputeUnit(transport, dims, rows, columns).Run(ctx)
	if err != nil {
		return nil, err
	}

	if rank != CoordinatorRank {
		return nil, transport.Send(ctx, CoordinatorRank, noc.LaneResult, c)
	}
	return Gather(ctx, transport, dims, c)
}
