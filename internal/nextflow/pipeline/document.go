package pipeline

import (
	"fmt"
	"io"
	"os"
)

// WriteFile writes the generated pipeline to path.
func (d *Document) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(d.Contents), 0o644); err != nil {
		return fmt.Errorf("writing pipeline file %q: %w", path, err)
	}
	return nil
}

// WriteTo writes the generated pipeline to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, d.Contents)
	return int64(n), err
}
