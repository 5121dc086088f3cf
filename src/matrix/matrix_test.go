package matrix

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	meshErrors "meshmul/src/errors"
)

func TestColumnMajorTransposes(t *testing.T) {
	m := New([][]int64{{1, 2, 3}, {4, 5, 6}})

	columns, err := m.ColumnMajor()
	if err != nil {
		t.Fatalf("transpose: %v", err)
	}
	if columns.Orientation != ColumnMajor {
		t.Fatalf("expected %s, got %s", ColumnMajor, columns.Orientation)
	}
	if len(columns.Data) != 3 {
		t.Fatalf("expected 3 column vectors, got %d", len(columns.Data))
	}
	if got := columns.Vector(1); got[0] != 2 || got[1] != 5 {
		t.Fatalf("expected column [2 5], got %v", got)
	}
	if !columns.CheckRectangular() {
		t.Fatalf("transposed matrix should be rectangular")
	}
	if !columns.Equal(m) {
		t.Fatalf("orientation must not change the values")
	}
}

func TestColumnMajorRejectsEmptyAndRagged(t *testing.T) {
	if _, err := (&Matrix[int32]{}).ColumnMajor(); err == nil {
		t.Fatalf("expected an error for a matrix without columns")
	}

	ragged := New([][]int32{{1, 2}, {3}})
	if ragged.CheckRectangular() {
		t.Fatalf("ragged matrix reported as rectangular")
	}
	if _, err := ragged.ColumnMajor(); err == nil {
		t.Fatalf("expected an error for a ragged matrix")
	}
}

func TestParseLeftMatrix(t *testing.T) {
	m, err := Parse[int64](strings.NewReader("2\n1 -2 3\n\n4 5 -6\n"), HeaderRows)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.Failed {
		t.Fatalf("unexpected failure: %s", m.Reason)
	}
	if m.Rows != 2 || m.Cols != 3 {
		t.Fatalf("expected 2x3, got %dx%d", m.Rows, m.Cols)
	}
	if m.At(0, 1) != -2 || m.At(1, 2) != -6 {
		t.Fatalf("unexpected values %v", m.Data)
	}
}

func TestParseRightMatrixDeclaresColumns(t *testing.T) {
	m, err := Parse[int32](strings.NewReader("3\n1 2 3\r\n4 5 6\n"), HeaderColumns)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m.Failed {
		t.Fatalf("unexpected failure: %s", m.Reason)
	}
	if m.Rows != 2 || m.Cols != 3 {
		t.Fatalf("expected 2x3, got %dx%d", m.Rows, m.Cols)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		header Header
		reason string
	}{
		{"non-numeric", "1\n1 a 3\n", HeaderRows, "unexpected character"},
		{"tab separator", "1\n1\t3\n", HeaderRows, "unexpected character"},
		{"double sign", "1\n--3\n", HeaderRows, "malformed number"},
		{"trailing sign", "1\n3-\n", HeaderRows, "malformed number"},
		{"lone sign", "1\n1 - 2\n", HeaderRows, "malformed number"},
		{"ragged", "2\n1 2\n3\n", HeaderRows, "row 2 has 1 values"},
		{"row count", "3\n1 2\n3 4\n", HeaderRows, "declared 3 rows"},
		{"column count", "3\n1 2\n3 4\n", HeaderColumns, "declared 3 columns"},
		{"bad size", "x\n1 2\n", HeaderRows, "invalid matrix size"},
		{"no rows", "2\n\n", HeaderRows, "no rows"},
		{"empty", "", HeaderRows, "missing matrix size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse[int64](strings.NewReader(tt.input), tt.header)
			if err != nil {
				t.Fatalf("unexpected reader error: %v", err)
			}
			if !m.Failed {
				t.Fatalf("expected %q to be rejected", tt.input)
			}
			if !strings.Contains(m.Reason, tt.reason) {
				t.Fatalf("expected reason containing %q, got %q", tt.reason, m.Reason)
			}
		})
	}
}

func TestParseRangeFollowsElementWidth(t *testing.T) {
	m, err := Parse[int8](strings.NewReader("1\n127 -128\n"), HeaderRows)
	if err != nil || m.Failed {
		t.Fatalf("expected int8 bounds to parse, got err=%v reason=%q", err, m.Reason)
	}

	m, err = Parse[int8](strings.NewReader("1\n128\n"), HeaderRows)
	if err != nil {
		t.Fatalf("unexpected reader error: %v", err)
	}
	if !m.Failed || !strings.Contains(m.Reason, "out of range") {
		t.Fatalf("expected out of range failure, got %q", m.Reason)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestParseReportsReaderErrors(t *testing.T) {
	_, err := Parse[int64](failingReader{}, HeaderRows)
	if err == nil {
		t.Fatalf("expected reader error")
	}
	if !errors.Is(err, meshErrors.New(meshErrors.PhaseParse, meshErrors.KindIO).Build()) {
		t.Fatalf("expected parse io error, got %v", err)
	}
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mat1")
	if err := os.WriteFile(path, []byte("1\n7 8\n"), 0o644); err != nil {
		t.Fatalf("write matrix: %v", err)
	}

	m, err := ParseFile[int64](path, HeaderRows)
	if err != nil || m.Failed {
		t.Fatalf("parse file: err=%v reason=%q", err, m.Reason)
	}
	if m.At(0, 1) != 8 {
		t.Fatalf("expected 8, got %d", m.At(0, 1))
	}

	if _, err := ParseFile[int64](filepath.Join(t.TempDir(), "missing"), HeaderRows); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestWrite(t *testing.T) {
	var out bytes.Buffer
	if err := Write(&out, New([][]int32{{19, 22}, {43, -50}})); err != nil {
		t.Fatalf("write: %v", err)
	}
	expected := "2:2\n19 22\n43 -50\n"
	if out.String() != expected {
		t.Fatalf("expected %q, got %q", expected, out.String())
	}
}

func TestWriteStyled(t *testing.T) {
	var out bytes.Buffer
	if err := WriteStyled(&out, New([][]int64{{1, -200}, {3, 4}})); err != nil {
		t.Fatalf("write styled: %v", err)
	}
	for _, s := range []string{"2 x 2", "-200", "   3"} {
		if !strings.Contains(out.String(), s) {
			t.Errorf("styled output %q does not contain %q", out.String(), s)
		}
	}
}
