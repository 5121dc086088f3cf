package misc

import (
	"os"
	"path/filepath"
	"strings"
)

// FileDumper writes text artefacts of a run.
type FileDumper struct {
	path string
}

func (this *FileDumper) Init(path string) {
	this.path = path
}

func (this *FileDumper) Path() string {
	return this.path
}

// WriteLines replaces the file with lines, each terminated by a newline.
func (this *FileDumper) WriteLines(lines []string) error {
	if dir := filepath.Dir(this.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return os.WriteFile(this.path, []byte(b.String()), 0o644)
}
