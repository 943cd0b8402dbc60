package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCompareIdenticalInputs(t *testing.T) {
	dir := t.TempDir()
	content := "libssl.so,123456,65000,1\nlibnss3.so,99,100,0\n"
	from := writeManifest(t, dir, "a.txt", content)
	to := writeManifest(t, dir, "b.txt", content)
	out := filepath.Join(dir, "diff.txt")

	differs, err := Compare(from, to, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if differs {
		t.Error("identical inputs reported as differing")
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 0 {
		t.Errorf("diff output = %q, want empty", data)
	}
}

func TestCompareVolatileOnlyDifference(t *testing.T) {
	dir := t.TempDir()
	from := writeManifest(t, dir, "a.txt", "libfoo.so,1024,512,1\n")
	to := writeManifest(t, dir, "b.txt", "libfoo.so,2048,512,1\n")
	out := filepath.Join(dir, "diff.txt")

	differs, err := Compare(from, to, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if differs {
		t.Error("volatile-only difference reported as divergence")
	}
}

func TestCompareGenuineDifference(t *testing.T) {
	dir := t.TempDir()
	from := writeManifest(t, dir, "a.txt", "libfoo.so,1024,512,1\n")
	to := writeManifest(t, dir, "b.txt", "libbar.so,1024,512,1\n")
	out := filepath.Join(dir, "diff.txt")

	differs, err := Compare(from, to, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !differs {
		t.Fatal("genuine difference not reported")
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	diff := string(data)

	if !strings.Contains(diff, "-libfoo.so,<NUM>,<NUM>,1") {
		t.Errorf("diff missing removal line:\n%s", diff)
	}
	if !strings.Contains(diff, "+libbar.so,<NUM>,<NUM>,1") {
		t.Errorf("diff missing addition line:\n%s", diff)
	}
}

func TestCompareLastColumnDifferenceSurfaces(t *testing.T) {
	dir := t.TempDir()
	from := writeManifest(t, dir, "a.txt", "libfoo.so,1024,512\n")
	to := writeManifest(t, dir, "b.txt", "libfoo.so,1024,768\n")
	out := filepath.Join(dir, "diff.txt")

	differs, err := Compare(from, to, out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !differs {
		t.Fatal("differing last numeric column was masked")
	}
}

func TestCompareDeterministic(t *testing.T) {
	dir := t.TempDir()
	from := writeManifest(t, dir, "a.txt", "libfoo.so,1,2,1\nlibbar.so,3,4,0\n")
	to := writeManifest(t, dir, "b.txt", "libfoo.so,5,6,1\nlibbaz.so,7,8,0\n")
	out := filepath.Join(dir, "diff.txt")

	if _, err := Compare(from, to, out); err != nil {
		t.Fatal(err)
	}
	first, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := Compare(from, to, out); err != nil {
		t.Fatal(err)
	}
	second, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	if string(first) != string(second) {
		t.Error("repeated runs produced different output")
	}
}

func TestCompareMissingInput(t *testing.T) {
	dir := t.TempDir()
	to := writeManifest(t, dir, "b.txt", "x\n")

	_, err := Compare(filepath.Join(dir, "absent.txt"), to, filepath.Join(dir, "diff.txt"))
	if err == nil {
		t.Fatal("expected error for missing input file")
	}
}
