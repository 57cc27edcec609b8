// Package source resolves where the list of target paths comes from.
package source

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
)

// PathProvider determines and retrieves the target path list.
type PathProvider struct{}

// New creates a new PathProvider.
func New() *PathProvider {
	return &PathProvider{}
}

// GetPaths returns the paths to patch. Positional arguments win; with none,
// a newline-separated list is read from stdin (if piped) or the clipboard.
func (pp *PathProvider) GetPaths(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	stat, err := os.Stdin.Stat()
	isPiped := err == nil && (stat.Mode()&os.ModeCharDevice) == 0

	if isPiped {
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read path list from stdin: %w", err)
		}
		return splitPathList(string(content)), nil
	}

	content, err := clipboard.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read path list from clipboard: %w", err)
	}
	return splitPathList(content), nil
}

// splitPathList splits newline-separated content into paths, dropping blank
// lines and surrounding whitespace.
func splitPathList(content string) []string {
	var paths []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paths = append(paths, line)
		}
	}
	return paths
}
