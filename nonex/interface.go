package nonex

import (
	"fmt"

	"github.com/sokinpui/nonex/cli"
	"github.com/sokinpui/nonex/internal/patch"
)

// Config for using nonex as a library.
type Config struct {
	// Report what would change, as a unified diff on stdout, without
	// writing any file.
	DryRun bool
	// Extensions to patch when walking directories (e.g., ".rs").
	Extensions []string
}

// Patch applies the substitution to a text value and returns the patched
// text along with the number of inserted marker lines. It performs no I/O.
func Patch(text string) (string, int) {
	return patch.Apply(text)
}

// Run patches the given paths in order and returns a summary of the
// operations in a map. Directories are walked using the configured
// extension filter.
func Run(paths []string, config Config) (map[string][]string, error) {
	cliCfg := &cli.Config{
		DryRun:     config.DryRun,
		Extensions: config.Extensions,
		Paths:      paths,
	}

	app, err := New(cliCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize nonex app: %w", err)
	}

	summary, err := app.processPaths()
	result := map[string][]string{
		"Modified":  summary.Modified,
		"Unchanged": summary.Unchanged,
		"Failed":    summary.Failed,
	}
	if err != nil {
		return result, err
	}
	return result, nil
}
