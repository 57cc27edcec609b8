package fs

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestWriteFileAtomicReplacesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.rs")
	if err := os.WriteFile(path, []byte("old"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if err := WriteFileAtomic(path, []byte("new"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read back: %v", err)
	}
	if string(got) != "new" {
		t.Errorf("content = %q, want %q", got, "new")
	}

	// No temporary file may be left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to list dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the target file in %s, found %d entries", dir, len(entries))
	}
}

func TestWriteFileAtomicPreservesPermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file.rs")
	if err := os.WriteFile(path, []byte("old"), 0600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	if err := WriteFileAtomic(path, []byte("new"), 0644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("failed to stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("permissions = %o, want 0600", perm)
	}
}

func TestCollectTargetsWalksDirectories(t *testing.T) {
	dir := t.TempDir()
	mustWrite(t, filepath.Join(dir, "a.rs"), "a")
	mustWrite(t, filepath.Join(dir, "b.txt"), "b")
	mustWrite(t, filepath.Join(dir, "sub", "c.rs"), "c")

	targets, err := CollectTargets([]string{dir}, []string{".rs"})
	if err != nil {
		t.Fatalf("CollectTargets failed: %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.rs"),
		filepath.Join(dir, "sub", "c.rs"),
	}
	if !reflect.DeepEqual(targets, want) {
		t.Errorf("CollectTargets = %v, want %v", targets, want)
	}
}

func TestCollectTargetsKeepsExplicitFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	mustWrite(t, path, "text")
	missing := filepath.Join(dir, "missing.rs")

	// Explicit file paths bypass the extension filter, and nonexistent
	// paths are kept so the read fails loudly later.
	targets, err := CollectTargets([]string{path, missing}, []string{".rs"})
	if err != nil {
		t.Fatalf("CollectTargets failed: %v", err)
	}
	want := []string{path, missing}
	if !reflect.DeepEqual(targets, want) {
		t.Errorf("CollectTargets = %v, want %v", targets, want)
	}
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.rs")
	mustWrite(t, src, "content")
	dst := filepath.Join(dir, "backups", "0001_src.rs")

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("failed to read copy: %v", err)
	}
	if string(got) != "content" {
		t.Errorf("copy content = %q, want %q", got, "content")
	}
}

func TestCopyFileMissingSource(t *testing.T) {
	dir := t.TempDir()

	err := CopyFile(filepath.Join(dir, "missing"), filepath.Join(dir, "dst"))
	if err == nil {
		t.Fatal("expected an error for a missing source")
	}
}

func TestFileSHA256(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "file")
	mustWrite(t, path, "hello")

	// SHA256("hello")
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	got, err := FileSHA256(path)
	if err != nil {
		t.Fatalf("FileSHA256 failed: %v", err)
	}
	if got != want {
		t.Errorf("FileSHA256 = %s, want %s", got, want)
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}
