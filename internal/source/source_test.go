package source

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("// test\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDiscover_FindsSortedTypeScriptFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "zeta.ts"))
	writeFile(t, filepath.Join(root, "src", "alpha.ts"))
	writeFile(t, filepath.Join(root, "src", "readme.md"))

	got, err := Discover([]string{filepath.Join(root, "src")}, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	want := []string{
		filepath.Join(root, "src", "alpha.ts"),
		filepath.Join(root, "src", "zeta.ts"),
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDiscover_AppliesExcludeGlobsToAnyPathComponent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "tools.ts"))
	writeFile(t, filepath.Join(root, "src", "node_modules", "dep.ts"))
	writeFile(t, filepath.Join(root, "src", "dist", "out.ts"))

	got, err := Discover([]string{filepath.Join(root, "src")}, []string{"node_modules", "dist"})
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}

	if len(got) != 1 || got[0] != filepath.Join(root, "src", "tools.ts") {
		t.Errorf("expected only tools.ts, got %v", got)
	}
}

func TestDiscover_DeduplicatesAcrossOverlappingSourceDirs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "widgets.ts"))

	got, err := Discover([]string{filepath.Join(root, "src"), filepath.Join(root, "src")}, nil)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected deduplication, got %v", got)
	}
}
