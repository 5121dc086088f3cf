package matrix

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#666666")).
			Padding(0, 1)
)

// Write prints m as "rows:cols" followed by one space-separated line per row.
func Write[T Element](w io.Writer, m *Matrix[T]) error {
	if _, err := fmt.Fprintf(w, "%d:%d\n", m.Rows, m.Cols); err != nil {
		return err
	}
	for i := 0; i < m.Rows; i++ {
		line := make([]string, m.Cols)
		for j := 0; j < m.Cols; j++ {
			line[j] = strconv.FormatInt(int64(m.At(i, j)), 10)
		}
		if _, err := io.WriteString(w, strings.Join(line, " ")+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteStyled prints m as an aligned grid inside a terminal frame.
func WriteStyled[T Element](w io.Writer, m *Matrix[T]) error {
	cells := make([][]string, m.Rows)
	width := 1
	for i := range cells {
		cells[i] = make([]string, m.Cols)
		for j := range cells[i] {
			cells[i][j] = strconv.FormatInt(int64(m.At(i, j)), 10)
			if len(cells[i][j]) > width {
				width = len(cells[i][j])
			}
		}
	}

	lines := make([]string, 0, m.Rows)
	for _, row := range cells {
		padded := make([]string, len(row))
		for j, cell := range row {
			padded[j] = cellStyle.Render(fmt.Sprintf("%*s", width, cell))
		}
		lines = append(lines, strings.Join(padded, " "))
	}

	title := titleStyle.Render(fmt.Sprintf("%d x %d", m.Rows, m.Cols))
	body := frameStyle.Render(strings.Join(lines, "\n"))
	_, err := io.WriteString(w, lipgloss.JoinVertical(lipgloss.Left, title, body)+"\n")
	return err
}
