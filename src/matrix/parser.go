package matrix

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"
	"unsafe"

	meshErrors "meshmul/src/errors"
)

// Header tells what the count on the first line of a matrix file declares.
type Header int

const (
	// HeaderRows is used for the left operand: the count is the number of rows.
	HeaderRows Header = iota
	// HeaderColumns is used for the right operand: the count is the number of columns.
	HeaderColumns
)

// ParseFile reads a matrix file. See Parse for the format.
func ParseFile[T Element](path string, header Header) (*Matrix[T], error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, meshErrors.New(meshErrors.PhaseParse, meshErrors.KindIO).
			Path(path).
			Detail("open matrix file").
			Cause(err).
			Build()
	}
	defer file.Close()

	return Parse[T](file, header)
}

// Parse reads a matrix in the text format
//
//	<count>
//	<v11> <v12> ... <v1n>
//	...
//
// where count is the row count (HeaderRows) or the column count (HeaderColumns). Only
// digits, '-' and ' ' may appear on value lines and blank lines are skipped. Content
// problems do not produce an error: the returned matrix is marked Failed with a Reason,
// leaving the verdict to the coordinator. A non-nil error means the reader failed.
func Parse[T Element](r io.Reader, header Header) (*Matrix[T], error) {
	m := &Matrix[T]{Orientation: RowMajor}
	bits := int(unsafe.Sizeof(T(0))) * 8

	scanner := bufio.NewScanner(r)
	declared := -1
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if declared < 0 {
			count, err := strconv.Atoi(strings.TrimSpace(line))
			if err != nil || count < 0 {
				m.Failf("line %d: invalid matrix size %q", lineNumber, line)
				return m, nil
			}
			declared = count
			continue
		}

		row, reason := parseRow[T](line, bits)
		if reason != "" {
			m.Failf("line %d: %s", lineNumber, reason)
			return m, nil
		}
		m.Data = append(m.Data, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, meshErrors.New(meshErrors.PhaseParse, meshErrors.KindIO).
			Detail("read matrix").
			Cause(err).
			Build()
	}

	if declared < 0 {
		m.Failf("missing matrix size line")
		return m, nil
	}
	if len(m.Data) == 0 {
		m.Failf("matrix has no rows")
		return m, nil
	}

	m.Rows = len(m.Data)
	m.Cols = len(m.Data[0])
	for i, row := range m.Data {
		if len(row) != m.Cols {
			m.Failf("row %d has %d values, expected %d", i+1, len(row), m.Cols)
			return m, nil
		}
	}

	switch header {
	case HeaderRows:
		if declared != m.Rows {
			m.Failf("declared %d rows, found %d", declared, m.Rows)
		}
	case HeaderColumns:
		if declared != m.Cols {
			m.Failf("declared %d columns, found %d", declared, m.Cols)
		}
	}

	return m, nil
}

func parseRow[T Element](line string, bits int) ([]T, string) {
	for _, character := range line {
		if !isNumber(character) && character != '-' && character != ' ' {
			return nil, "unexpected character " + strconv.QuoteRune(character)
		}
	}

	tokens := strings.Split(line, " ")
	row := make([]T, 0, len(tokens))
	for _, token := range tokens {
		if token == "" {
			continue
		}
		if !wellFormed(token) {
			return nil, "malformed number " + strconv.Quote(token)
		}
		value, err := strconv.ParseInt(token, 10, bits)
		if err != nil {
			return nil, "number " + strconv.Quote(token) + " out of range"
		}
		row = append(row, T(value))
	}
	return row, ""
}

// wellFormed accepts an optional leading '-' followed by at least one digit.
func wellFormed(token string) bool {
	digits := strings.TrimPrefix(token, "-")
	if digits == "" {
		return false
	}
	for _, character := range digits {
		if !isNumber(character) {
			return false
		}
	}
	return true
}

func isNumber(character rune) bool {
	return '0' <= character && character <= '9'
}
