package simulator

import (
	"context"

	"meshmul/src/matrix"
	"meshmul/src/mesh"
	"meshmul/src/simulator/noc"
)

// MeshPlatform runs the message-passing mesh: one goroutine per unit, synchronised
// only by lane traffic. A single Cycle runs the whole protocol.
type MeshPlatform[T matrix.Element] struct {
	ctx      context.Context
	job      *Job[T]
	stats    *noc.Stats
	product  *matrix.Matrix[T]
	finished bool
}

func (this *MeshPlatform[T]) Init(ctx context.Context, job *Job[T]) error {
	this.ctx = ctx
	this.job = job
	this.stats = noc.NewStats()
	this.product = nil
	this.finished = false
	return nil
}

func (this *MeshPlatform[T]) Fini() {
	this.job = nil
}

func (this *MeshPlatform[T]) IsFinished() bool {
	return this.finished
}

func (this *MeshPlatform[T]) Cycle() error {
	if this.finished {
		return nil
	}

	product, err := mesh.Multiply(this.ctx, this.job.Left, this.job.Right, mesh.Options{
		Processes: this.job.Processes,
		LaneDepth: this.job.LaneDepth,
		Stats:     this.stats,
	})
	this.finished = true
	if err != nil {
		return err
	}
	this.product = product
	return nil
}

func (this *MeshPlatform[T]) Product() *matrix.Matrix[T] {
	return this.product
}

func (this *MeshPlatform[T]) Cycles() int {
	return 0
}

func (this *MeshPlatform[T]) Stats() *noc.Stats {
	return this.stats
}
