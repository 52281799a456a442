// Package shellscript contains helpers for dealing with the shell
// command lines embedded in generated pipelines.
package shellscript

import (
	"fmt"
	"strings"

	"github.com/buildkite/shellwords"
)

// Validate checks that a user-supplied shell snippet tokenizes as a
// command line, catching unbalanced quoting before it is baked into a
// generated pipeline file.
func Validate(line string) error {
	if strings.TrimSpace(line) == "" {
		return fmt.Errorf("empty shell command")
	}
	if _, err := shellwords.Split(line); err != nil {
		return fmt.Errorf("parsing shell command %q: %w", line, err)
	}
	return nil
}

// Join combines command lines into a single `;`-separated line,
// skipping empties.
func Join(cmds ...string) string {
	parts := make([]string, 0, len(cmds))
	for _, c := range cmds {
		if s := strings.TrimSpace(c); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "; ")
}
