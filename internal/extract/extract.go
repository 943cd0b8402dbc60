package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/opencontainers/go-digest"

	"github.com/quaylabs/bindle/internal/paths"
	"github.com/quaylabs/bindle/internal/runtime"
)

// An artifact copied out of a build container.
type Artifact struct {
	Path     string        // Host path of the extracted executable.
	Size     int64         // Size in bytes.
	Digest   digest.Digest // Content digest of the executable.
	Platform string        // Platform the artifact was built for.
}

// Copies the executable at the fixed in-container path to the host output
// directory.
//
// The container streams the file out as a tar archive, spooled to the
// staging directory so a failed transfer never leaves a truncated artifact
// in the output directory. The single regular file inside the archive is
// then written to outputDir named by the container's platform, with the
// executable bit restored. The returned artifact carries the file's size
// and content digest.
func Run(ctx context.Context, ctr *runtime.Container, outputDir string) (*Artifact, error) {
	if err := os.MkdirAll(outputDir, paths.DefaultDirMode); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtract, err)
	}

	spool, err := spoolArchive(ctx, ctr)
	if err != nil {
		return nil, err
	}
	defer os.Remove(spool)

	dest := paths.Artifact(outputDir, ctr.Platform())

	f, err := os.Open(spool)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtract, err)
	}
	defer f.Close()

	size, err := untarFile(f, dest)
	if err != nil {
		return nil, err
	}

	dgst, err := fileDigest(dest)
	if err != nil {
		return nil, err
	}

	slog.Info("artifact extracted", "path", dest, "size", size, "digest", dgst)

	return &Artifact{
		Path:     dest,
		Size:     size,
		Digest:   dgst,
		Platform: ctr.Platform(),
	}, nil
}

// Streams the in-container artifact to a tar spool file in the staging
// directory and returns the spool path.
func spoolArchive(ctx context.Context, ctr *runtime.Container) (string, error) {
	if err := os.MkdirAll(paths.Staging(), paths.DefaultDirMode); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtract, err)
	}

	spool := filepath.Join(paths.Staging(), fmt.Sprintf("artifact-%s.tar", paths.PlatformSlug(ctr.Platform())))

	f, err := os.Create(spool)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtract, err)
	}

	if err := ctr.CopyFrom(ctx, f, paths.ContainerArtifact); err != nil {
		f.Close()
		os.Remove(spool)
		return "", fmt.Errorf("%w: %v", ErrExtract, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(spool)
		return "", fmt.Errorf("%w: %v", ErrExtract, err)
	}

	return spool, nil
}

// Computes the canonical content digest of a file.
func fileDigest(path string) (digest.Digest, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtract, err)
	}
	defer f.Close()

	dgst, err := digest.Canonical.FromReader(f)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtract, err)
	}
	return dgst, nil
}
