package extract

import (
	"archive/tar"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func tarOf(t *testing.T, entries ...tarEntry) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, e := range entries {
		header := &tar.Header{
			Name:     e.name,
			Mode:     0755,
			Typeflag: e.typeflag,
			Size:     int64(len(e.body)),
		}
		if err := tw.WriteHeader(header); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write([]byte(e.body)); err != nil {
			t.Fatal(err)
		}
	}
	tw.Close()
	return &buf
}

type tarEntry struct {
	name     string
	typeflag byte
	body     string
}

func TestUntarFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "app-linux-amd64")
	buf := tarOf(t, tarEntry{name: "main", typeflag: tar.TypeReg, body: "binary-bytes"})

	size, err := untarFile(buf, dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if size != int64(len("binary-bytes")) {
		t.Errorf("size = %d, want %d", size, len("binary-bytes"))
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "binary-bytes" {
		t.Errorf("content = %q", data)
	}

	info, err := os.Stat(dest)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&0111 == 0 {
		t.Error("executable bit not set")
	}
}

func TestUntarFileSkipsDirectories(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out")
	buf := tarOf(t,
		tarEntry{name: "dist/", typeflag: tar.TypeDir},
		tarEntry{name: "dist/main", typeflag: tar.TypeReg, body: "x"},
	)

	if _, err := untarFile(buf, dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUntarFileEmptyArchive(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out")
	buf := tarOf(t)

	if _, err := untarFile(buf, dest); err == nil {
		t.Fatal("expected error for archive without a regular file")
	}
}

func TestManifestFilename(t *testing.T) {
	if got := ManifestFilename(false); got != "libs-dynamic.txt" {
		t.Errorf("ManifestFilename(false) = %q", got)
	}
	if got := ManifestFilename(true); got != "libs-static.txt" {
		t.Errorf("ManifestFilename(true) = %q", got)
	}
}
