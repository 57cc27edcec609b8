// Package state persists the run history so patch runs can be undone and
// redone. The state lives in a .nonex directory at the repository root,
// alongside per-run backups of the original file contents.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	stateDirName  = ".nonex"
	stateFileName = "state.json"
	backupDirName = "backups"
)

// Operation records one patched file within a run.
type Operation struct {
	// Path is the absolute path of the patched file.
	Path string `json:"path"`
	// ContentHash is the SHA256 of the file content after patching.
	ContentHash string `json:"content_hash"`
	// BackupPath holds a copy of the file content from before patching.
	BackupPath string `json:"backup_path"`
}

// HistoryEntry represents one complete run of the tool.
type HistoryEntry struct {
	Timestamp  int64       `json:"timestamp"`
	Operations []Operation `json:"operations"`
}

// State is the persisted history with a pointer to the current position.
type State struct {
	History      []HistoryEntry `json:"history"`
	CurrentIndex int            `json:"current_index"`
}

// Manager handles the lifecycle of the state file.
type Manager struct {
	statePath string
	state     *State
	StateDir  string
}

// findGitRoot finds the root of the enclosing git repository.
func findGitRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(output)), nil
}

// New creates and loads a state manager rooted at the git toplevel, falling
// back to the current working directory.
func New() (*Manager, error) {
	rootDir, err := findGitRoot()
	if err != nil {
		rootDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("could not get current working directory: %w", err)
		}
	}
	return NewAt(rootDir)
}

// NewAt creates and loads a state manager rooted at the given directory.
func NewAt(rootDir string) (*Manager, error) {
	stateDir := filepath.Join(rootDir, stateDirName)
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("could not create state directory: %w", err)
	}
	m := &Manager{
		statePath: filepath.Join(stateDir, stateFileName),
		StateDir:  stateDir,
	}
	if err := m.load(); err != nil {
		// A corrupt state file should not brick the tool; start over.
		m.state = &State{CurrentIndex: -1, History: []HistoryEntry{}}
	}
	return m, nil
}

func (m *Manager) load() error {
	data, err := os.ReadFile(m.statePath)
	if err != nil {
		if os.IsNotExist(err) {
			m.state = &State{CurrentIndex: -1, History: []HistoryEntry{}}
			return nil
		}
		return err
	}

	state := &State{}
	if err := json.Unmarshal(data, state); err != nil {
		return fmt.Errorf("invalid state file: %w", err)
	}
	m.state = state
	return nil
}

func (m *Manager) save() error {
	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return fmt.Errorf("could not encode state: %w", err)
	}
	if err := os.WriteFile(m.statePath, data, 0644); err != nil {
		return fmt.Errorf("could not write state file: %w", err)
	}
	return nil
}

// NewBackupDir creates a fresh directory for one run's pre-patch backups
// and returns its path.
func (m *Manager) NewBackupDir() (string, error) {
	dir := filepath.Join(m.StateDir, backupDirName, strconv.FormatInt(time.Now().UnixNano(), 10))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("could not create backup directory: %w", err)
	}
	return dir, nil
}

// Write adds a new set of operations to the history. Any entries ahead of
// the current position (from prior undos) are discarded.
func (m *Manager) Write(operations []Operation) error {
	if len(operations) == 0 {
		return nil
	}
	if m.state.CurrentIndex < len(m.state.History)-1 {
		m.state.History = m.state.History[:m.state.CurrentIndex+1]
	}

	m.state.History = append(m.state.History, HistoryEntry{
		Timestamp:  time.Now().UTC().Unix(),
		Operations: operations,
	})
	m.state.CurrentIndex++
	return m.save()
}

// OperationsToUndo returns the current entry's operations and moves the
// history pointer back. It returns nil when there is nothing to undo. If
// the moved pointer cannot be persisted, the pointer is rolled back and no
// operations are returned.
func (m *Manager) OperationsToUndo() ([]Operation, error) {
	if m.state.CurrentIndex < 0 {
		return nil, nil
	}
	ops := m.state.History[m.state.CurrentIndex].Operations
	m.state.CurrentIndex--
	if err := m.save(); err != nil {
		m.state.CurrentIndex++
		return nil, err
	}
	return ops, nil
}

// OperationsToRedo returns the next entry's operations and advances the
// history pointer. It returns nil when there is nothing to redo. If the
// moved pointer cannot be persisted, the pointer is rolled back and no
// operations are returned.
func (m *Manager) OperationsToRedo() ([]Operation, error) {
	nextIndex := m.state.CurrentIndex + 1
	if nextIndex >= len(m.state.History) {
		return nil, nil
	}
	m.state.CurrentIndex = nextIndex
	ops := m.state.History[m.state.CurrentIndex].Operations
	if err := m.save(); err != nil {
		m.state.CurrentIndex--
		return nil, err
	}
	return ops, nil
}
