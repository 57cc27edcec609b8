package diff

import (
	"strings"
	"testing"
)

func TestUnified(t *testing.T) {
	original := "enum E {\n    __Nonexhaustive,\n}\n"
	patched := "enum E {\n    #[cfg(not(feature = \"allow_exhaustive_enum\"))]\n    __Nonexhaustive,\n}\n"

	got, err := Unified("src/error.rs", original, patched)
	if err != nil {
		t.Fatalf("Unified failed: %v", err)
	}

	for _, want := range []string{
		"--- a/src/error.rs",
		"+++ b/src/error.rs",
		"+    #[cfg(not(feature = \"allow_exhaustive_enum\"))]",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("diff missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "-    __Nonexhaustive,") {
		t.Errorf("diff should not remove the variant line:\n%s", got)
	}
}

func TestUnifiedIdenticalContent(t *testing.T) {
	got, err := Unified("x.rs", "same\n", "same\n")
	if err != nil {
		t.Fatalf("Unified failed: %v", err)
	}
	if got != "" {
		t.Errorf("Unified = %q, want empty for identical content", got)
	}
}
