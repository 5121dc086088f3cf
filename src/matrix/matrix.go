package matrix

import (
	"fmt"

	"golang.org/x/exp/constraints"
)

// Element is the set of values a mesh can multiply: signed fixed-width integers whose
// overflow wraps the way the platform's integer arithmetic does.
type Element interface {
	constraints.Signed
}

// Orientation tells whether Data holds row vectors or column vectors.
type Orientation int

const (
	RowMajor Orientation = iota
	ColumnMajor
)

func (o Orientation) String() string {
	switch o {
	case RowMajor:
		return "row-major"
	case ColumnMajor:
		return "column-major"
	default:
		return fmt.Sprintf("orientation(%d)", int(o))
	}
}

// Matrix is a dense integer matrix together with the verdict of whoever produced it.
// Rows and Cols always describe the mathematical matrix, independent of Orientation.
type Matrix[T Element] struct {
	Orientation Orientation
	Rows        int
	Cols        int
	Failed      bool
	Reason      string
	Data        [][]T
}

// New builds a row-major matrix from rows. The slices are used as given.
func New[T Element](rows [][]T) *Matrix[T] {
	m := &Matrix[T]{Orientation: RowMajor, Data: rows}
	m.Rows = len(rows)
	if len(rows) > 0 {
		m.Cols = len(rows[0])
	}
	return m
}

// Failf marks the matrix as rejected.
func (m *Matrix[T]) Failf(format string, args ...any) {
	m.Failed = true
	m.Reason = fmt.Sprintf(format, args...)
}

// CheckRectangular verifies that every vector in Data has the same length and that the
// vector count and length agree with Rows and Cols.
func (m *Matrix[T]) CheckRectangular() bool {
	if m == nil {
		return false
	}

	vectors, length := m.Rows, m.Cols
	if m.Orientation == ColumnMajor {
		vectors, length = m.Cols, m.Rows
	}

	if len(m.Data) != vectors {
		return false
	}
	for _, vector := range m.Data {
		if len(vector) != length {
			return false
		}
	}
	return true
}

// At returns element (row, col) regardless of orientation.
func (m *Matrix[T]) At(row, col int) T {
	if m.Orientation == ColumnMajor {
		return m.Data[col][row]
	}
	return m.Data[row][col]
}

// ColumnMajor returns the matrix re-laid as column vectors. The buffer is allocated
// fresh and sized exactly by Cols.
func (m *Matrix[T]) ColumnMajor() (*Matrix[T], error) {
	if m.Orientation == ColumnMajor {
		return m, nil
	}
	if m.Cols <= 0 {
		return nil, fmt.Errorf("cannot transpose a matrix with %d columns", m.Cols)
	}
	if !m.CheckRectangular() {
		return nil, fmt.Errorf("cannot transpose a ragged matrix")
	}

	columns := make([][]T, m.Cols)
	for j := range columns {
		columns[j] = make([]T, m.Rows)
	}
	for i, row := range m.Data {
		for j, value := range row {
			columns[j][i] = value
		}
	}

	return &Matrix[T]{
		Orientation: ColumnMajor,
		Rows:        m.Rows,
		Cols:        m.Cols,
		Data:        columns,
	}, nil
}

// Vector returns the i-th stored vector: a row when row-major, a column when
// column-major.
func (m *Matrix[T]) Vector(i int) []T {
	return m.Data[i]
}

// Equal reports whether both matrices hold the same values.
func (m *Matrix[T]) Equal(other *Matrix[T]) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.Rows != other.Rows || m.Cols != other.Cols {
		return false
	}
	for i := 0; i < m.Rows; i++ {
		for j := 0; j < m.Cols; j++ {
			if m.At(i, j) != other.At(i, j) {
				return false
			}
		}
	}
	return true
}
