package simulator

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	meshErrors "meshmul/src/errors"
	"meshmul/src/matrix"
	"meshmul/src/mesh"
	"meshmul/src/misc"
	"meshmul/src/simulator/noc"
)

func runSimulator[T matrix.Element](t *testing.T, mode misc.PlatformMode, job *Job[T]) *Simulator[T] {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	sim := new(Simulator[T])
	if err := sim.Init(ctx, mode, job); err != nil {
		t.Fatalf("init %s: %v", mode, err)
	}
	t.Cleanup(sim.Fini)

	if err := sim.Run(); err != nil {
		t.Fatalf("run %s: %v", mode, err)
	}
	return sim
}

func randomMatrix(rng *rand.Rand, rows, cols int) *matrix.Matrix[int32] {
	data := make([][]int32, rows)
	for i := range data {
		data[i] = make([]int32, cols)
		for j := range data[i] {
			data[i][j] = int32(rng.Intn(201) - 100)
		}
	}
	return matrix.New(data)
}

func TestSystolicPlatformTwoByTwo(t *testing.T) {
	job := &Job[int32]{
		Left:  matrix.New([][]int32{{1, 2}, {3, 4}}),
		Right: matrix.New([][]int32{{5, 6}, {7, 8}}),
	}
	sim := runSimulator(t, misc.PlatformModeSystolic, job)

	want := matrix.New([][]int32{{19, 22}, {43, 50}})
	if got := sim.Product(); !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want.Data, got.Data)
	}
	if cycles := sim.platform.Cycles(); cycles != 4 {
		t.Fatalf("expected 4 cycles, got %d", cycles)
	}
}

func TestSystolicCycleCount(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	shapes := []struct{ m, n, k int }{
		{1, 1, 1}, {1, 1, 5}, {1, 4, 3}, {4, 1, 3}, {3, 3, 3}, {2, 5, 7}, {6, 2, 1},
	}

	for _, shape := range shapes {
		job := &Job[int32]{
			Left:  randomMatrix(rng, shape.m, shape.k),
			Right: randomMatrix(rng, shape.k, shape.n),
		}
		sim := runSimulator(t, misc.PlatformModeSystolic, job)

		want := EstimateMeshCycles(shape.m, shape.n, shape.k)
		if got := sim.platform.Cycles(); got != want {
			t.Fatalf("%dx%dx%d: expected %d cycles, got %d", shape.m, shape.n, shape.k, want, got)
		}
		if want != shape.k+shape.m+shape.n-2 {
			t.Fatalf("%dx%dx%d: estimate %d disagrees with k+m+n-2", shape.m, shape.n, shape.k, want)
		}
	}
}

func TestSystolicFirstFireIsHopDistance(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	job := &Job[int32]{
		Left:  randomMatrix(rng, 3, 4),
		Right: randomMatrix(rng, 4, 5),
	}
	sim := runSimulator(t, misc.PlatformModeSystolic, job)
	platform := sim.platform.(*SystolicPlatform[int32])

	origin := mesh.Coordinate(mesh.CoordinatorRank, 5)
	for rank := 0; rank < 15; rank++ {
		want := mesh.ManhattanDistance(origin, mesh.Coordinate(rank, 5))
		if got := platform.FirstFire(rank); got != want {
			t.Fatalf("rank %d: expected first fire at %d, got %d", rank, want, got)
		}
	}
}

func TestPlatformsAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 10; trial++ {
		m, n, k := 1+rng.Intn(5), 1+rng.Intn(5), 1+rng.Intn(6)
		left, right := randomMatrix(rng, m, k), randomMatrix(rng, k, n)

		meshSim := runSimulator(t, misc.PlatformModeMesh, &Job[int32]{Left: left, Right: right, LaneDepth: trial % 3})
		systolicSim := runSimulator(t, misc.PlatformModeSystolic, &Job[int32]{Left: left, Right: right})

		if !meshSim.Product().Equal(systolicSim.Product()) {
			t.Fatalf("trial %d: mesh %v and systolic %v disagree",
				trial, meshSim.Product().Data, systolicSim.Product().Data)
		}

		meshStats, systolicStats := meshSim.platform.Stats(), systolicSim.platform.Stats()
		for _, lane := range []noc.Lane{noc.LaneA, noc.LaneB, noc.LaneResult} {
			if meshStats.LaneMessages(lane) != systolicStats.LaneMessages(lane) {
				t.Fatalf("trial %d: expected %d %s messages, got %d",
					trial, meshStats.LaneMessages(lane), lane, systolicStats.LaneMessages(lane))
			}
		}
	}
}

func TestSystolicRejectsInvalidInput(t *testing.T) {
	sim := new(Simulator[int32])
	err := sim.Init(context.Background(), misc.PlatformModeSystolic, &Job[int32]{
		Left:  matrix.New([][]int32{{1, 2, 3}}),
		Right: matrix.New([][]int32{{1}, {2}}),
	})
	if !errors.Is(err, meshErrors.InputValidation("")) {
		t.Fatalf("expected an input validation error, got %v", err)
	}
}

func TestSystolicRejectsProcessMismatch(t *testing.T) {
	sim := new(Simulator[int32])
	err := sim.Init(context.Background(), misc.PlatformModeSystolic, &Job[int32]{
		Left:      matrix.New([][]int32{{1, 2}, {3, 4}}),
		Right:     matrix.New([][]int32{{5, 6}, {7, 8}}),
		Processes: 3,
	})
	var structured *meshErrors.Error
	if !errors.As(err, &structured) || structured.Kind != meshErrors.KindTopologyMismatch {
		t.Fatalf("expected a topology mismatch, got %v", err)
	}
}

func TestMeshPlatformRejectsProcessMismatch(t *testing.T) {
	sim := new(Simulator[int32])
	err := sim.Init(context.Background(), misc.PlatformModeMesh, &Job[int32]{
		Left:      matrix.New([][]int32{{1, 2}, {3, 4}}),
		Right:     matrix.New([][]int32{{5, 6}, {7, 8}}),
		Processes: 5,
	})
	if err != nil {
		t.Fatalf("init: %v", err)
	}

	err = sim.Run()
	var structured *meshErrors.Error
	if !errors.As(err, &structured) || structured.Kind != meshErrors.KindTopologyMismatch {
		t.Fatalf("expected a topology mismatch, got %v", err)
	}
	if sim.Product() != nil {
		t.Fatalf("expected no product after a failed run")
	}
}

func TestUnknownPlatformMode(t *testing.T) {
	sim := new(Simulator[int32])
	err := sim.Init(context.Background(), misc.PlatformMode("gpu"), &Job[int32]{})
	if !errors.Is(err, meshErrors.New(meshErrors.PhaseConfig, meshErrors.KindInvalidOption).Build()) {
		t.Fatalf("expected an invalid option error, got %v", err)
	}
	if !sim.IsFinished() {
		t.Fatalf("expected a simulator without platform to report finished")
	}
}

func TestSystolicHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sim := new(Simulator[int32])
	if err := sim.Init(ctx, misc.PlatformModeSystolic, &Job[int32]{
		Left:  matrix.New([][]int32{{1, 2}, {3, 4}}),
		Right: matrix.New([][]int32{{5, 6}, {7, 8}}),
	}); err != nil {
		t.Fatalf("init: %v", err)
	}
	cancel()

	if err := sim.Run(); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDumpAndLines(t *testing.T) {
	job := &Job[int32]{
		Left:  matrix.New([][]int32{{-3, 4}}),
		Right: matrix.New([][]int32{{2}, {-1}}),
	}
	sim := runSimulator(t, misc.PlatformModeMesh, job)

	var buf bytes.Buffer
	if err := sim.Dump(&buf, false); err != nil {
		t.Fatalf("dump: %v", err)
	}
	if got := buf.String(); got != "1:1\n-10\n" {
		t.Fatalf("expected %q, got %q", "1:1\n-10\n", got)
	}

	lines, err := sim.Lines()
	if err != nil {
		t.Fatalf("lines: %v", err)
	}
	if strings.Join(lines, "|") != "1:1|-10" {
		t.Fatalf("expected [1:1 -10], got %v", lines)
	}

	buf.Reset()
	if err := sim.Dump(&buf, true); err != nil {
		t.Fatalf("styled dump: %v", err)
	}
	if !strings.Contains(buf.String(), "-10") {
		t.Fatalf("expected styled output to contain -10, got %q", buf.String())
	}
}
