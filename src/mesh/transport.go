package mesh

import (
	"context"

	meshErrors "meshmul/src/errors"
	"meshmul/src/matrix"
	"meshmul/src/simulator/noc"
)

// CoordinatorRank is the process that validates input, distributes operands and
// gathers the product. It also runs a compute unit.
const CoordinatorRank = 0

// Transport is the point-to-point message layer a process uses. noc.Endpoint
// implements it.
type Transport interface {
	Rank() int
	Size() int
	Send(ctx context.Context, dst int, lane noc.Lane, payload any) error
	Receive(ctx context.Context, src int, lane noc.Lane) (any, error)
	Broadcast(ctx context.Context, root int, payload any) (any, error)
	Abort(cause error)
}

func receiveAs[V any](ctx context.Context, transport Transport, src int, lane noc.Lane) (V, error) {
	var zero V

	payload, err := transport.Receive(ctx, src, lane)
	if err != nil {
		return zero, err
	}
	value, ok := payload.(V)
	if !ok {
		err := meshErrors.Transport(meshErrors.KindTypeMismatch,
			"rank %d expected %T from rank %d on lane %s, got %T", transport.Rank(), zero, src, lane, payload)
		transport.Abort(err)
		return zero, err
	}
	return value, nil
}

func receiveScalar[T matrix.Element](ctx context.Context, transport Transport, src int, lane noc.Lane) (T, error) {
	return receiveAs[T](ctx, transport, src, lane)
}

func receiveVector[T matrix.Element](ctx context.Context, transport Transport, src int, lane noc.Lane) ([]T, error) {
	return receiveAs[[]T](ctx, transport, src, lane)
}
