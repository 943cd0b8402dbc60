package extract

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/quaylabs/bindle/internal/paths"
)

// Reads a tar stream containing exactly one regular file and writes it to
// dest with the executable bit set.
//
// The archive comes from the build container and is expected to hold the
// packaged binary alone. Directory entries are tolerated and skipped; a
// stream with no regular file at all means the build step never produced
// the artifact.
func untarFile(r io.Reader, dest string) (int64, error) {
	tr := tar.NewReader(r)

	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return 0, fmt.Errorf("%w: archive contains no regular file", ErrExtract)
		}
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrExtract, err)
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}

		return writeFile(tr, dest)
	}
}

// Writes the stream to dest and returns the number of bytes written.
func writeFile(r io.Reader, dest string) (int64, error) {
	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, paths.ExecFileMode)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrExtract, err)
	}

	size, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		return 0, fmt.Errorf("%w: %v", ErrExtract, err)
	}

	if err := f.Close(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrExtract, err)
	}

	return size, nil
}
