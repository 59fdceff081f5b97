package cachedir

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSizeMissingDirIsZero(t *testing.T) {
	size, err := Size(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatal(err)
	}
	if size != 0 {
		t.Fatalf("got %d, want 0", size)
	}
}

func TestSizeExcludesWebView(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bundles", "a.bundle"), 100)
	writeFile(t, filepath.Join(dir, "cache", "nested", "b.bin"), 50)
	writeFile(t, filepath.Join(dir, webviewDir, "runtime.dll"), 4096)

	size, err := Size(dir)
	if err != nil {
		t.Fatal(err)
	}
	if size != 150 {
		t.Fatalf("got %d bytes, want 150 (WebView runtime excluded)", size)
	}
}

func TestClearRemovesOnlyWhitelist(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bundles", "a.bundle"), 100)
	writeFile(t, filepath.Join(dir, "temp", "t.tmp"), 10)
	writeFile(t, filepath.Join(dir, "settings", "keep.json"), 5)
	writeFile(t, filepath.Join(dir, webviewDir, "runtime.dll"), 4096)

	res, err := Clear(dir)
	if err != nil {
		t.Fatal(err)
	}

	if res.FoldersRemoved != 2 {
		t.Fatalf("got %d folders removed, want 2", res.FoldersRemoved)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("got %d errors, want 0", len(res.Errors))
	}
	if res.BytesCleared != 110 {
		t.Fatalf("got %d bytes cleared, want 110", res.BytesCleared)
	}

	for _, gone := range []string{"bundles", "temp"} {
		if _, err := os.Stat(filepath.Join(dir, gone)); !os.IsNotExist(err) {
			t.Fatalf("%s must be removed", gone)
		}
	}
	for _, kept := range []string{"settings", webviewDir} {
		if _, err := os.Stat(filepath.Join(dir, kept)); err != nil {
			t.Fatalf("%s must be kept: %v", kept, err)
		}
	}
}

func TestClearEmptyDir(t *testing.T) {
	res, err := Clear(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if res.FoldersRemoved != 0 || res.BytesCleared != 0 {
		t.Fatalf("got %+v, want zero result", res)
	}
}

func TestDirRespectsOverride(t *testing.T) {
	t.Setenv("FM_CACHE_DIR", "/custom/cache")
	dir, err := Dir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != "/custom/cache" {
		t.Fatalf("got %q", dir)
	}
}

func TestDirDefault(t *testing.T) {
	t.Setenv("FM_CACHE_DIR", "")
	dir, err := Dir()
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(dir) != "skinforge" {
		t.Fatalf("default cache dir must end in skinforge: %q", dir)
	}
}
