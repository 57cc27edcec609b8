package nonex

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/sokinpui/nonex/cli"
	"github.com/sokinpui/nonex/internal/diff"
	"github.com/sokinpui/nonex/internal/fs"
	"github.com/sokinpui/nonex/internal/patch"
	"github.com/sokinpui/nonex/internal/source"
	"github.com/sokinpui/nonex/internal/state"
	"github.com/sokinpui/nonex/model"
)

// ProgressUpdate is a callback function to report progress.
type ProgressUpdate func(current, total int)

// App orchestrates the entire application logic.
type App struct {
	cfg              *cli.Config
	stateManager     *state.Manager
	pathProvider     *source.PathProvider
	progressCallback ProgressUpdate
}

// DetailedError enhances a standard error with a stack trace.
type DetailedError struct {
	Err   error
	Stack []byte
}

func (e *DetailedError) Error() string {
	return e.Err.Error()
}

func (e *DetailedError) Unwrap() error {
	return e.Err
}

// New creates a new App instance.
func New(cfg *cli.Config) (*App, error) {
	stateManager, err := state.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize state manager: %w", err)
	}

	return &App{
		cfg:          cfg,
		stateManager: stateManager,
		pathProvider: source.New(),
	}, nil
}

// SetProgressCallback sets a function to be called for progress updates.
func (a *App) SetProgressCallback(cb ProgressUpdate) {
	a.progressCallback = cb
}

// Execute executes the main application logic based on parsed flags.
func (a *App) Execute() (summary model.Summary, err error) {
	// Centralized panic recovery.
	defer func() {
		if r := recover(); r != nil {
			err = &DetailedError{
				Err:   fmt.Errorf("internal panic: %v", r),
				Stack: debug.Stack(),
			}
		}
	}()

	switch {
	case a.cfg.Undo:
		return a.undoLastRun()
	case a.cfg.Redo:
		return a.redoLastRun()
	default:
		return a.processPaths()
	}
}

// processPaths patches every target file in order. The first I/O failure
// aborts the rest of the batch; files patched before it stay patched.
func (a *App) processPaths() (model.Summary, error) {
	paths, err := a.pathProvider.GetPaths(a.cfg.Paths)
	if err != nil {
		return model.Summary{}, err
	}
	if len(paths) == 0 {
		return model.Summary{Message: "No paths given. Nothing to patch."}, nil
	}

	targets, err := fs.CollectTargets(paths, a.cfg.Extensions)
	if err != nil {
		return model.Summary{}, err
	}
	if len(targets) == 0 {
		return model.Summary{Message: "No matching files found. Nothing to patch."}, nil
	}

	writeBack := !a.cfg.DryRun && !a.cfg.OutputDiff

	var backupDir string
	if writeBack {
		backupDir, err = a.stateManager.NewBackupDir()
		if err != nil {
			return model.Summary{}, err
		}
	}

	total := len(targets)
	if a.progressCallback != nil {
		a.progressCallback(0, total)
	}

	var summary model.Summary
	var ops []state.Operation
	for i, path := range targets {
		if err := a.processFile(path, i, backupDir, &summary, &ops); err != nil {
			// Record the history of what was written before failing, so a
			// partially applied batch is still undoable.
			if writeBack {
				a.stateManager.Write(ops)
			}
			a.relativizeSummaryPaths(&summary)
			return summary, err
		}
		if a.progressCallback != nil {
			a.progressCallback(i+1, total)
		}
	}

	if writeBack {
		if err := a.stateManager.Write(ops); err != nil {
			return summary, err
		}
	}

	if a.cfg.DryRun {
		summary.Message = "Dry run: no files were written."
	}
	a.relativizeSummaryPaths(&summary)
	return summary, nil
}

// processFile reads, patches and (depending on the output mode) writes back
// a single file, appending the outcome to summary and ops.
func (a *App) processFile(path string, index int, backupDir string, summary *model.Summary, ops *[]state.Operation) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	data, err := os.ReadFile(path)
	if err != nil {
		summary.Failed = append(summary.Failed, absPath)
		return fmt.Errorf("failed to read '%s': %w", path, err)
	}

	original := string(data)
	patched, insertions := patch.Apply(original)
	if insertions == 0 {
		summary.Unchanged = append(summary.Unchanged, absPath)
		return nil
	}

	switch {
	case a.cfg.OutputDiff, a.cfg.DryRun:
		text, err := diff.Unified(path, original, patched)
		if err != nil {
			summary.Failed = append(summary.Failed, absPath)
			return err
		}
		fmt.Print(text)
	default:
		backupPath := filepath.Join(backupDir, fmt.Sprintf("%04d_%s", index, filepath.Base(path)))
		if err := fs.CopyFile(path, backupPath); err != nil {
			summary.Failed = append(summary.Failed, absPath)
			return fmt.Errorf("failed to back up '%s': %w", path, err)
		}
		if err := fs.WriteFileAtomic(path, []byte(patched), 0644); err != nil {
			summary.Failed = append(summary.Failed, absPath)
			return err
		}

		hash, err := fs.FileSHA256(path)
		if err != nil {
			// Undo will refuse to touch the file if the hash is missing.
			hash = ""
		}
		*ops = append(*ops, state.Operation{
			Path:        absPath,
			ContentHash: hash,
			BackupPath:  backupPath,
		})
	}

	summary.Modified = append(summary.Modified, absPath)
	return nil
}

// undoLastRun restores the pre-patch backups of the last run. Files whose
// content changed since the run are left alone and reported as failed.
func (a *App) undoLastRun() (model.Summary, error) {
	ops, err := a.stateManager.OperationsToUndo()
	if err != nil {
		return model.Summary{}, err
	}
	if len(ops) == 0 {
		return model.Summary{Message: "No patch run to undo."}, nil
	}

	total := len(ops)
	if a.progressCallback != nil {
		a.progressCallback(0, total)
	}

	summary := model.Summary{Message: "Undid last patch run."}
	for i, op := range ops {
		if a.restoreBackup(op) {
			summary.Modified = append(summary.Modified, op.Path)
		} else {
			summary.Failed = append(summary.Failed, op.Path)
		}
		if a.progressCallback != nil {
			a.progressCallback(i+1, total)
		}
	}

	a.relativizeSummaryPaths(&summary)
	return summary, nil
}

func (a *App) restoreBackup(op state.Operation) bool {
	current, err := fs.FileSHA256(op.Path)
	if err != nil || op.ContentHash == "" || current != op.ContentHash {
		// The file was edited (or removed) after patching; restoring the
		// backup would discard those edits.
		return false
	}
	backup, err := os.ReadFile(op.BackupPath)
	if err != nil {
		return false
	}
	return fs.WriteFileAtomic(op.Path, backup, 0644) == nil
}

// redoLastRun re-applies the patch to the files of the last undone run.
func (a *App) redoLastRun() (model.Summary, error) {
	ops, err := a.stateManager.OperationsToRedo()
	if err != nil {
		return model.Summary{}, err
	}
	if len(ops) == 0 {
		return model.Summary{Message: "No patch run to redo."}, nil
	}

	total := len(ops)
	if a.progressCallback != nil {
		a.progressCallback(0, total)
	}

	summary := model.Summary{Message: "Redid last undone patch run."}
	for i, op := range ops {
		if a.repatch(op) {
			summary.Modified = append(summary.Modified, op.Path)
		} else {
			summary.Failed = append(summary.Failed, op.Path)
		}
		if a.progressCallback != nil {
			a.progressCallback(i+1, total)
		}
	}

	a.relativizeSummaryPaths(&summary)
	return summary, nil
}

func (a *App) repatch(op state.Operation) bool {
	data, err := os.ReadFile(op.Path)
	if err != nil {
		return false
	}
	patched, insertions := patch.Apply(string(data))
	if insertions == 0 {
		return false
	}
	return fs.WriteFileAtomic(op.Path, []byte(patched), 0644) == nil
}

// relativizeSummaryPaths converts absolute file paths in a summary to be
// relative to the current working directory for cleaner display.
func (a *App) relativizeSummaryPaths(summary *model.Summary) {
	wd, err := os.Getwd()
	if err != nil {
		// Cannot get CWD, so we can't make paths relative.
		// Return without changing anything.
		return
	}

	makeRelative := func(absPaths []string) []string {
		if absPaths == nil {
			return nil
		}
		relPaths := make([]string, len(absPaths))
		for i, p := range absPaths {
			rel, err := filepath.Rel(wd, p)
			if err != nil {
				relPaths[i] = p // Fallback to absolute path
			} else {
				relPaths[i] = rel
			}
		}
		return relPaths
	}

	summary.Modified = makeRelative(summary.Modified)
	summary.Unchanged = makeRelative(summary.Unchanged)
	summary.Failed = makeRelative(summary.Failed)
}
