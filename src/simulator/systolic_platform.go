package simulator

import (
	"context"

	"go.uber.org/zap"

	meshErrors "meshmul/src/errors"
	"meshmul/src/matrix"
	"meshmul/src/mesh"
	"meshmul/src/simulator/noc"
)

// systolicUnit is the lockstep image of a compute unit: its registers, the edge
// stream it owns and the operands its neighbours latched into it.
type systolicUnit[T matrix.Element] struct {
	registers mesh.Registers[T]
	rows      []T
	columns   []T
	inA       []T
	inB       []T
	iteration int
	firstFire int
}

type latch[T matrix.Element] struct {
	dst   int
	lane  noc.Lane
	value T
}

// SystolicPlatform steps the same protocol as the mesh platform in lockstep. Each
// cycle every unit whose operands are present fires once; the operands it forwards
// become visible to its neighbours on the next cycle. Unit (i, j) first fires at cycle
// i+j and the run takes InnerSize+RowCount+ColumnCount-2 cycles.
type SystolicPlatform[T matrix.Element] struct {
	dims     mesh.Dimensions
	units    []systolicUnit[T]
	cycle    int
	finished int
	stats    *noc.Stats
	ctx      context.Context
}

func (this *SystolicPlatform[T]) Init(ctx context.Context, job *Job[T]) error {
	work, err := mesh.Plan(job.Left, job.Right)
	if err != nil {
		return err
	}
	if job.Processes > 0 {
		if err := work.Dims.CheckProcesses(job.Processes); err != nil {
			return err
		}
	}

	this.ctx = ctx
	this.dims = work.Dims
	this.cycle = 0
	this.finished = 0
	this.stats = noc.NewStats()
	this.units = make([]systolicUnit[T], work.Dims.Units())

	columnCount := work.Dims.ColumnCount
	for rank := range this.units {
		unit := &this.units[rank]
		unit.firstFire = -1
		if mesh.IsFirstColumn(rank, columnCount) {
			unit.rows = work.Rows[mesh.GridRow(rank, columnCount)]
		}
		if mesh.IsFirstRow(rank, columnCount) {
			unit.columns = work.Columns[mesh.GridColumn(rank, columnCount)]
		}
	}

	Logger().Info("systolic platform initialised",
		zap.Stringer("dims", work.Dims),
		zap.Int("expected_cycles", EstimateMeshCycles(work.Dims.RowCount, work.Dims.ColumnCount, work.Dims.InnerSize)))
	return nil
}

func (this *SystolicPlatform[T]) Fini() {
	this.units = nil
}

func (this *SystolicPlatform[T]) IsFinished() bool {
	return this.units != nil && this.finished == len(this.units)
}

// Cycle fires every ready unit once.
func (this *SystolicPlatform[T]) Cycle() error {
	if err := this.ctx.Err(); err != nil {
		return err
	}

	dims := this.dims
	latches := make([]latch[T], 0, 2*len(this.units))
	fired := 0

	for rank := range this.units {
		unit := &this.units[rank]
		if unit.iteration >= dims.InnerSize {
			continue
		}

		firstColumn := mesh.IsFirstColumn(rank, dims.ColumnCount)
		firstRow := mesh.IsFirstRow(rank, dims.ColumnCount)
		if (firstColumn && len(unit.rows) == 0) || (!firstColumn && len(unit.inA) == 0) {
			continue
		}
		if (firstRow && len(unit.columns) == 0) || (!firstRow && len(unit.inB) == 0) {
			continue
		}

		var a, b T
		if firstColumn {
			a, unit.rows = unit.rows[0], unit.rows[1:]
		} else {
			a, unit.inA = unit.inA[0], unit.inA[1:]
		}
		if firstRow {
			b, unit.columns = unit.columns[0], unit.columns[1:]
		} else {
			b, unit.inB = unit.inB[0], unit.inB[1:]
		}

		unit.registers.Load(a, b)
		unit.registers.Accumulate()
		unit.iteration++
		if unit.firstFire < 0 {
			unit.firstFire = this.cycle
		}
		fired++

		if !mesh.IsLastColumn(rank, dims.ColumnCount) {
			latches = append(latches, latch[T]{dst: mesh.Right(rank), lane: noc.LaneA, value: a})
		}
		if !mesh.IsLastRow(rank, dims.RowCount, dims.ColumnCount) {
			latches = append(latches, latch[T]{dst: mesh.Down(rank, dims.ColumnCount), lane: noc.LaneB, value: b})
		}
		if unit.iteration == dims.InnerSize {
			this.finished++
			if rank != mesh.CoordinatorRank {
				this.stats.Record(noc.LaneResult, 1)
			}
		}
	}

	if fired == 0 {
		return meshErrors.New(meshErrors.PhaseCompute, meshErrors.KindExhausted).
			Detail("systolic mesh stalled at cycle %d with %d of %d units finished",
				this.cycle, this.finished, len(this.units)).
			Build()
	}

	for _, l := range latches {
		unit := &this.units[l.dst]
		if l.lane == noc.LaneA {
			unit.inA = append(unit.inA, l.value)
		} else {
			unit.inB = append(unit.inB, l.value)
		}
		this.stats.Record(l.lane, 1)
	}

	if ce := Logger().Check(zap.DebugLevel, "systolic cycle"); ce != nil {
		ce.Write(zap.Int("cycle", this.cycle), zap.Int("fired", fired), zap.Int("finished", this.finished))
	}
	this.cycle++
	return nil
}

// Product assembles the accumulators in rank order once every unit is done.
func (this *SystolicPlatform[T]) Product() *matrix.Matrix[T] {
	if !this.IsFinished() {
		return nil
	}

	data := make([][]T, this.dims.RowCount)
	for i := range data {
		data[i] = make([]T, this.dims.ColumnCount)
		for j := range data[i] {
			data[i][j] = this.units[mesh.RankOf(mesh.MeshCoordinate{X: j, Y: i}, this.dims.ColumnCount)].registers.C
		}
	}
	return matrix.New(data)
}

func (this *SystolicPlatform[T]) Cycles() int {
	return this.cycle
}

// FirstFire returns the cycle at which rank performed its first round, -1 if never.
func (this *SystolicPlatform[T]) FirstFire(rank int) int {
	return this.units[rank].firstFire
}

func (this *SystolicPlatform[T]) Stats() *noc.Stats {
	return this.stats
}
