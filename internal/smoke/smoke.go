package smoke

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	specs "github.com/opencontainers/runtime-spec/specs-go"

	"github.com/quaylabs/bindle/internal/paths"
	"github.com/quaylabs/bindle/internal/runtime"
)

// Mount point of the host output directory inside the smoke container.
const mountPoint = "/artifacts"

// Controls a smoke test run.
type Options struct {
	Image     string        // Minimal image the artifact is executed in.
	Platform  string        // Target platform. Empty uses the host.
	OutputDir string        // Host directory holding the extracted artifact.
	Tag       string        // Name prefix for the smoke container ID.
	Timeout   time.Duration // Upper bound on the artifact's runtime.
}

// Outcome of a smoke test.
type Result struct {
	ExitCode    int      // Exit code of the artifact.
	Stdout      string   // Captured standard output.
	Stderr      string   // Captured standard error.
	MissingLibs []string // Shared libraries the loader reported missing.
}

// Executes the extracted artifact inside a minimal container.
//
// The host output directory is bind-mounted read-only and the artifact for
// the target platform is run directly, without a shell. The test passes
// when the binary exits zero; a missing shared library is surfaced as its
// own failure so library composition regressions are attributable.
func Run(ctx context.Context, rt *runtime.Runtime, opts Options) (*Result, error) {
	if opts.Platform == "" {
		opts.Platform = runtime.DefaultPlatform()
	}

	artifact := paths.Artifact(opts.OutputDir, opts.Platform)
	if _, err := os.Stat(artifact); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrArtifactMissing, err)
	}

	absOutput, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSmoke, err)
	}

	slog.Info("smoke testing",
		"artifact", artifact,
		"image", opts.Image,
		"platform", opts.Platform,
	)

	id := fmt.Sprintf("%s-%s-smoke", opts.Tag, paths.PlatformSlug(opts.Platform))

	ctr, err := rt.StartContainer(ctx, runtime.ContainerOptions{
		Image:    opts.Image,
		ID:       id,
		Platform: opts.Platform,
		Mounts: []specs.Mount{{
			Destination: mountPoint,
			Type:        "bind",
			Source:      absOutput,
			Options:     []string{"rbind", "ro"},
		}},
	})
	if err != nil {
		return nil, err
	}
	defer ctr.Destroy(context.WithoutCancel(ctx))

	execCtx := ctx
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	target := filepath.Join(mountPoint, filepath.Base(artifact))
	execResult, err := ctr.ExecArgs(execCtx, []string{target})
	if err != nil {
		return nil, err
	}

	result := &Result{
		ExitCode:    execResult.ExitCode,
		Stdout:      execResult.Stdout,
		Stderr:      execResult.Stderr,
		MissingLibs: ParseMissingLibraries(execResult.Stderr),
	}

	switch {
	case len(result.MissingLibs) > 0:
		return result, fmt.Errorf("%w: %v", ErrMissingLibraries, result.MissingLibs)
	case result.ExitCode != 0:
		return result, fmt.Errorf("%w: exit code %d", ErrSmoke, result.ExitCode)
	}

	slog.Info("smoke test passed", "artifact", artifact)
	return result, nil
}
