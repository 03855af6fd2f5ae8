package ui

import (
	"os"
	"path/filepath"
	"testing"
)

func TestListFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.csv", "a.CSV", "recode.rmp", "notes.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.csv"), 0755); err != nil {
		t.Fatal(err)
	}

	got, err := listFiles(dir, ".csv", ".rmp")
	if err != nil {
		t.Fatalf("listFiles: %v", err)
	}
	want := []string{"a.CSV", "b.csv", "recode.rmp"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	if _, err := listFiles(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected an error for a missing folder")
	}
}
