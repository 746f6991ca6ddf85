package misc

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
)

// FileDumper writes text lines to a single file, creating parent directories.
type FileDumper struct {
	path string
}

func (this *FileDumper) Init(path string) {
	this.path = path
}

func (this *FileDumper) Path() string {
	return this.path
}

// WriteLines replaces the file content with lines, one per line.
func (this *FileDumper) WriteLines(lines []string) error {
	if dir := filepath.Dir(this.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	file, err := os.Create(this.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", this.path, err)
	}

	writer := bufio.NewWriter(file)
	for _, line := range lines {
		if _, err := writer.WriteString(line + "\n"); err != nil {
			file.Close()
			return fmt.Errorf("write %s: %w", this.path, err)
		}
	}
	if err := writer.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("write %s: %w", this.path, err)
	}
	return file.Close()
}

// WriteString replaces the file content with text as given.
func (this *FileDumper) WriteString(text string) error {
	if dir := filepath.Dir(this.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(this.path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", this.path, err)
	}
	return nil
}
