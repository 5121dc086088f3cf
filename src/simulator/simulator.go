package simulator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"meshmul/src/matrix"
	"meshmul/src/misc"
	"meshmul/src/simulator/noc"
)

type Simulator[T matrix.Element] struct {
	mode     misc.PlatformMode
	job      *Job[T]
	platform Platform[T]
}

func (this *Simulator[T]) Init(ctx context.Context, mode misc.PlatformMode, job *Job[T]) error {
	this.mode = mode
	this.job = job

	platform, err := newPlatformForMode[T](mode)
	if err != nil {
		return err
	}
	if err := platform.Init(ctx, job); err != nil {
		return err
	}

	this.platform = platform
	return nil
}

func (this *Simulator[T]) Fini() {
	if this.platform != nil {
		this.platform.Fini()
	}
}

func (this *Simulator[T]) IsFinished() bool {
	if this.platform == nil {
		return true
	}

	return this.platform.IsFinished()
}

func (this *Simulator[T]) Cycle() error {
	if this.platform == nil {
		return nil
	}

	return this.platform.Cycle()
}

// Run cycles the platform until it finishes or fails.
func (this *Simulator[T]) Run() error {
	for !this.IsFinished() {
		if err := this.Cycle(); err != nil {
			return err
		}
	}
	return nil
}

func (this *Simulator[T]) Product() *matrix.Matrix[T] {
	if this.platform == nil {
		return nil
	}

	return this.platform.Product()
}

// Lines renders the product in the plain text format.
func (this *Simulator[T]) Lines() ([]string, error) {
	product := this.Product()
	if product == nil {
		return nil, fmt.Errorf("platform %s has no product", this.mode)
	}

	var buf bytes.Buffer
	if err := matrix.Write(&buf, product); err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n"), nil
}

// Dump writes the product to w and logs the run's cycle and traffic figures.
func (this *Simulator[T]) Dump(w io.Writer, styled bool) error {
	product := this.Product()
	if product == nil {
		return fmt.Errorf("platform %s has no product", this.mode)
	}

	stats := this.platform.Stats()
	messages, values := stats.Totals()
	fields := []zap.Field{
		zap.String("platform", string(this.mode)),
		zap.Int("rows", product.Rows),
		zap.Int("cols", product.Cols),
		zap.Int64("messages", messages),
		zap.Int64("values", values),
	}
	for _, lane := range noc.Lanes() {
		fields = append(fields, zap.Int64(lane.String()+"_messages", stats.LaneMessages(lane)))
	}
	if cycles := this.platform.Cycles(); cycles > 0 {
		fields = append(fields, zap.Int("cycles", cycles))
	}
	if this.job != nil && this.job.Left != nil {
		fields = append(fields, zap.Int("estimated_cycles",
			EstimateMeshCycles(product.Rows, product.Cols, this.job.Left.Cols)))
	}
	Logger().Info("run finished", fields...)

	if styled {
		return matrix.WriteStyled(w, product)
	}
	return matrix.Write(w, product)
}
