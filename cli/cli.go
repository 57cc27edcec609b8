package cli

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Config holds all the command-line flag values.
type Config struct {
	DryRun      bool
	OutputDiff  bool
	Undo        bool
	Redo        bool
	NoAnimation bool
	Extensions  []string
	Paths       []string
}

// ParseFlags defines and parses command-line flags using pflag.
func ParseFlags() (*Config, error) {
	cfg := &Config{}

	// Define flags
	pflag.BoolVarP(&cfg.DryRun, "dry-run", "n", false, "Print a unified diff of what would change, plus a summary, without writing any file.")
	pflag.BoolVarP(&cfg.OutputDiff, "output-diff", "o", false, "Print a unified diff of each change to stdout instead of writing.")
	pflag.BoolVar(&cfg.NoAnimation, "no-animation", false, "Disable loading spinner and progress updates.")
	pflag.StringSliceVarP(&cfg.Extensions, "extension", "e", []string{"rs"}, "Extensions to patch when walking directories (e.g., 'rs').")

	// Mutually exclusive history group
	pflag.BoolVarP(&cfg.Undo, "undo", "u", false, "Undo the last patch run.")
	pflag.BoolVarP(&cfg.Redo, "redo", "r", false, "Redo the last undone patch run.")

	pflag.Usage = func() {
		fmt.Println("Usage: nonex [flags] [path ...]")
		fmt.Println("\nInsert #[cfg(not(feature = \"allow_exhaustive_enum\"))] above every")
		fmt.Println("__Nonexhaustive enum variant in the given files or directories.")
		fmt.Println("\nWith no paths, a newline-separated path list is read from stdin (pipe) or the clipboard.")
		fmt.Println("\nExample: nonex src/")
		fmt.Println("\nFlags:")
		pflag.PrintDefaults()
	}

	pflag.Parse()
	cfg.Paths = pflag.Args()

	// Validate mutually exclusive flags
	if cfg.Undo && cfg.Redo {
		return nil, fmt.Errorf("error: --undo and --redo are mutually exclusive")
	}
	if cfg.DryRun && cfg.OutputDiff {
		return nil, fmt.Errorf("error: --dry-run and --output-diff are mutually exclusive")
	}

	// Normalize extensions
	for i, ext := range cfg.Extensions {
		if len(ext) > 0 && ext[0] != '.' {
			cfg.Extensions[i] = "." + ext
		}
	}

	return cfg, nil
}
