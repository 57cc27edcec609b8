// Package diff renders unified diffs between original and patched file
// contents for the print-only output modes.
package diff

import (
	"fmt"

	"github.com/pmezard/go-difflib/difflib"
)

// Unified returns a unified diff between the original and patched content
// of the file at path, labeled a/<path> and b/<path>. It returns an empty
// string when the contents are identical.
func Unified(path, original, patched string) (string, error) {
	if original == patched {
		return "", nil
	}

	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(original),
		B:        difflib.SplitLines(patched),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return "", fmt.Errorf("failed to render diff for '%s': %w", path, err)
	}
	return text, nil
}
