package cache

import (
	"os"
	"path/filepath"
	"testing"
)

type runSummary struct {
	Pixels int     `json:"pixels"`
	Water  float64 `json:"water"`
}

func TestFileCacheRoundTrip(t *testing.T) {
	fc := NewFileCacheAt[runSummary](filepath.Join(t.TempDir(), "runs"))
	key := fc.GenerateKey("scene.csv", "p3v3", 0.0123)

	if _, ok := fc.Get(key); ok {
		t.Fatal("empty cache returned an entry")
	}
	want := runSummary{Pixels: 100, Water: 0.25}
	if err := fc.Set(key, want); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, ok := fc.Get(key)
	if !ok || got != want {
		t.Fatalf("Get = %+v, %v; want %+v", got, ok, want)
	}
}

func TestFileCacheRejectsTamperedEntry(t *testing.T) {
	dir := t.TempDir()
	fc := NewFileCacheAt[runSummary](dir)
	key := fc.GenerateKey("a")
	if err := fc.Set(key, runSummary{Pixels: 1}); err != nil {
		t.Fatal(err)
	}
	tampered := `{"data":{"pixels":2,"water":0},"created_at":"2024-01-01T00:00:00Z","checksum":"0"}`
	if err := os.WriteFile(filepath.Join(dir, key+".json"), []byte(tampered), 0644); err != nil {
		t.Fatal(err)
	}
	if _, ok := fc.Get(key); ok {
		t.Fatal("tampered entry accepted")
	}
}

func TestFileKeyTracksContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.csv")
	fc := NewFileCacheAt[runSummary](dir)

	if err := os.WriteFile(path, []byte("x,y\n0,0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	first, err := fc.FileKey(path, "p3v3")
	if err != nil {
		t.Fatal(err)
	}
	again, _ := fc.FileKey(path, "p3v3")
	otherVersion, _ := fc.FileKey(path, "espa-v2")
	if first != again || first == otherVersion {
		t.Fatalf("keys: %s %s %s", first, again, otherVersion)
	}

	if err := os.WriteFile(path, []byte("x,y\n1,1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	changed, _ := fc.FileKey(path, "p3v3")
	if changed == first {
		t.Fatal("key did not change with file content")
	}
	if _, err := fc.FileKey(filepath.Join(dir, "missing.csv")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
