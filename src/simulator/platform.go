package simulator

import (
	"context"

	meshErrors "meshmul/src/errors"
	"meshmul/src/matrix"
	"meshmul/src/misc"
	"meshmul/src/simulator/noc"
)

// Job is one multiplication handed to a platform.
type Job[T matrix.Element] struct {
	Left  *matrix.Matrix[T]
	Right *matrix.Matrix[T]
	// Processes is the externally assigned group size, 0 to size it for the mesh.
	Processes int
	LaneDepth int
}

// Platform executes a Job. The driver calls Init once, Cycle until IsFinished, then
// reads the product and calls Fini.
type Platform[T matrix.Element] interface {
	Init(ctx context.Context, job *Job[T]) error
	Fini()
	IsFinished() bool
	Cycle() error
	Product() *matrix.Matrix[T]
	// Cycles returns the number of lockstep rounds the run took, 0 when the platform
	// is not cycle driven.
	Cycles() int
	Stats() *noc.Stats
}

func newPlatformForMode[T matrix.Element](mode misc.PlatformMode) (Platform[T], error) {
	switch mode {
	case misc.PlatformModeMesh:
		return new(MeshPlatform[T]), nil
	case misc.PlatformModeSystolic:
		return new(SystolicPlatform[T]), nil
	default:
		return nil, meshErrors.New(meshErrors.PhaseConfig, meshErrors.KindInvalidOption).
			Value(string(mode)).
			Detail("unsupported platform mode: %s", mode).
			Build()
	}
}
