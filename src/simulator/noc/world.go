package noc

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"

	meshErrors "meshmul/src/errors"
)

type linkKey struct {
	src  int
	dst  int
	lane Lane
}

// World is an in-process process group. Every (source, destination, lane) triple owns
// one buffered Go channel, so values between a fixed pair on a fixed lane are consumed
// in the order they were sent.
type World struct {
	size  int
	depth int
	stats *Stats

	mu    sync.Mutex
	links map[linkKey]chan any

	done      chan struct{}
	abortOnce sync.Once
	cause     error
}

// NewWorld creates a group of size endpoints whose lanes buffer up to depth values.
// A depth of 0 makes every send a rendezvous with its receive. stats may be nil.
func NewWorld(size, depth int, stats *Stats) *World {
	if size <= 0 {
		panic(fmt.Sprintf("noc: world size %d <= 0", size))
	}
	if depth < 0 {
		depth = 0
	}
	return &World{
		size:  size,
		depth: depth,
		stats: stats,
		links: make(map[linkKey]chan any),
		done:  make(chan struct{}),
	}
}

// Size returns the number of endpoints.
func (w *World) Size() int {
	return w.size
}

// Stats returns the traffic record, possibly nil.
func (w *World) Stats() *Stats {
	return w.stats
}

// Endpoint returns the handle used by the process with the given rank.
func (w *World) Endpoint(rank int) *Endpoint {
	w.checkRank(rank)
	return &Endpoint{world: w, rank: rank}
}

// Abort terminates the whole group. The first cause wins; every blocked and future
// send or receive returns an aborted error wrapping it.
func (w *World) Abort(cause error) {
	w.abortOnce.Do(func() {
		w.cause = cause
		close(w.done)
		Logger().Warn("process group aborted", zap.Error(cause))
	})
}

// Err returns the abort cause, or nil while the group is healthy.
func (w *World) Err() error {
	select {
	case <-w.done:
		return w.cause
	default:
		return nil
	}
}

func (w *World) abortError() error {
	return meshErrors.Aborted(w.cause)
}

func (w *World) checkRank(rank int) {
	if rank < 0 || rank >= w.size {
		panic(fmt.Sprintf("noc: rank %d outside process group of %d", rank, w.size))
	}
}

func (w *World) link(src, dst int, lane Lane) chan any {
	w.checkRank(src)
	w.checkRank(dst)

	key := linkKey{src: src, dst: dst, lane: lane}

	w.mu.Lock()
	defer w.mu.Unlock()

	ch, ok := w.links[key]
	if !ok {
		ch = make(chan any, w.depth)
		w.links[key] = ch
	}
	return ch
}

// Endpoint is one process's view of the world.
type Endpoint struct {
	world *World
	rank  int
}

// Rank returns the rank of the local process.
func (e *Endpoint) Rank() int {
	return e.rank
}

// Size returns the number of processes in the group.
func (e *Endpoint) Size() int {
	return e.world.size
}

// Send delivers payload to dst on lane. It returns once the lane buffer accepted the
// value; with a zero depth that is when dst received it.
func (e *Endpoint) Send(ctx context.Context, dst int, lane Lane, payload any) error {
	ch := e.world.link(e.rank, dst, lane)
	if e.world.Err() != nil {
		return e.world.abortError()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	select {
	case ch <- payload:
		e.world.stats.Record(lane, valueCount(payload))
		return nil
	case <-e.world.done:
		return e.world.abortError()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Receive blocks until src delivers the next value on lane.
func (e *Endpoint) Receive(ctx context.Context, src int, lane Lane) (any, error) {
	ch := e.world.link(src, e.rank, lane)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	select {
	case payload := <-ch:
		return payload, nil
	case <-e.world.done:
		return nil, e.world.abortError()
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Broadcast hands payload from root to every other process. Root gets its own payload
// back; everyone else gets the value root sent.
func (e *Endpoint) Broadcast(ctx context.Context, root int, payload any) (any, error) {
	if e.rank != root {
		return e.Receive(ctx, root, LaneBroadcast)
	}
	for rank := 0; rank < e.world.size; rank++ {
		if rank == root {
			continue
		}
		if err := e.Send(ctx, rank, LaneBroadcast, payload); err != nil {
			return nil, err
		}
	}
	return payload, nil
}

// Abort terminates the whole group on behalf of this process.
func (e *Endpoint) Abort(cause error) {
	e.world.Abort(cause)
}

func valueCount(payload any) int {
	v := reflect.ValueOf(payload)
	if v.Kind() == reflect.Slice || v.Kind() == reflect.Array {
		return v.Len()
	}
	return 1
}
