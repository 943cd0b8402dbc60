package bundle

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/quaylabs/bindle/internal/paths"
	"github.com/quaylabs/bindle/internal/recipe"
	"github.com/quaylabs/bindle/internal/runtime"
)

// Shell used for all build steps. The build image is Debian-based.
const buildShell = "/bin/sh"

// Holds shared state for one packaging run inside a build container.
//
// Environment variables accumulate across steps, the way a Dockerfile's ENV
// lines persist for the rest of the build.
type session struct {
	ctr *runtime.Container // Build container all steps run in.
	rcp recipe.Recipe      // Pipeline description.
	env map[string]string  // Environment applied to every step.
}

// Creates a session for the given container and recipe.
func newSession(ctr *runtime.Container, rcp recipe.Recipe) *session {
	return &session{
		ctr: ctr,
		rcp: rcp,
		env: map[string]string{
			// Install the browser into the package directory instead of the
			// user cache, so the packager picks it up with the library.
			"PLAYWRIGHT_BROWSERS_PATH": "0",
			"DEBIAN_FRONTEND":          "noninteractive",
		},
	}
}

// Creates the working directory and copies the entry script into it.
func (s *session) prepare(ctx context.Context, root string) error {
	if err := s.ctr.MkdirAll(ctx, paths.ContainerWorkdir); err != nil {
		return err
	}

	src := s.rcp.Bundle.Entrypoint
	if !filepath.IsAbs(src) {
		src = filepath.Join(root, src)
	}

	return s.copyFileTo(ctx, src, filepath.Base(s.rcp.Bundle.Entrypoint))
}

// Installs the packager and, for static builds, the linker toolchain.
func (s *session) installTools(ctx context.Context) error {
	pkgs := "playwright pyinstaller"
	if s.rcp.Bundle.Static {
		pkgs += " staticx"
		if _, err := s.run(ctx, "apt-get update && apt-get install -y --no-install-recommends binutils patchelf"); err != nil {
			return err
		}
	}

	_, err := s.run(ctx, "pip install --no-cache-dir "+pkgs)
	return err
}

// Installs the browser engine and, unless skipped, its OS dependencies.
func (s *session) installBrowser(ctx context.Context) error {
	engine := s.rcp.Browser.Engine

	if _, err := s.run(ctx, "python -m playwright install "+engine); err != nil {
		return err
	}

	if s.rcp.Browser.SkipOSDeps {
		return nil
	}
	_, err := s.run(ctx, "python -m playwright install-deps "+engine)
	return err
}

// Invokes the packager on the entry script with one --add-binary argument
// per staged library.
//
// The output name is forced so the artifact always lands at the fixed
// in-container path regardless of the entry script's name.
func (s *session) pack(ctx context.Context, libs []Library) error {
	var b strings.Builder
	b.WriteString("python -m PyInstaller --onefile --noupx")
	b.WriteString(" --collect-all playwright --copy-metadata=playwright")
	b.WriteString(" --name " + filepath.Base(paths.ContainerArtifact))
	for _, lib := range libs {
		fmt.Fprintf(&b, " --add-binary %s/%s:lib", stagingDir, lib.Name)
	}
	b.WriteString(" " + filepath.Base(s.rcp.Bundle.Entrypoint))

	_, err := s.run(ctx, b.String())
	return err
}

// Strips the packaged binary and relinks it statically in place.
func (s *session) staticLink(ctx context.Context) error {
	artifact := paths.ContainerArtifact

	if _, err := s.run(ctx, fmt.Sprintf("strip --strip-unneeded %s", artifact)); err != nil {
		return err
	}

	_, err := s.run(ctx, fmt.Sprintf("staticx %s %s.static && mv %s.static %s",
		artifact, artifact, artifact, artifact))
	return err
}

// Confirms the packager placed an executable at the fixed artifact path.
func (s *session) verifyArtifact(ctx context.Context) error {
	result, err := s.exec(ctx, fmt.Sprintf("test -f %s && test -x %s", paths.ContainerArtifact, paths.ContainerArtifact))
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("%w: %s", ErrArtifactMissing, paths.ContainerArtifact)
	}
	return nil
}

// Runs a shell command in the working directory and fails on a non-zero
// exit, carrying the step's stderr in the error.
func (s *session) run(ctx context.Context, command string) (*runtime.ExecResult, error) {
	slog.Debug("run", "command", command)

	result, err := s.exec(ctx, command)
	if err != nil {
		return nil, err
	}
	if result.ExitCode != 0 {
		return nil, fmt.Errorf("%w: %q: exit code %d: %s", ErrCommandFailed, command, result.ExitCode, tail(result.Stderr))
	}
	return result, nil
}

// Runs a shell command without failing on a non-zero exit. Used for
// best-effort lookups where an empty result is meaningful.
func (s *session) tryRun(ctx context.Context, command string) *runtime.ExecResult {
	result, err := s.exec(ctx, command)
	if err != nil {
		slog.Warn("step failed", "command", command, "error", err)
		return &runtime.ExecResult{ExitCode: -1}
	}
	return result
}

// Executes a shell command with the session environment.
func (s *session) exec(ctx context.Context, command string) (*runtime.ExecResult, error) {
	return s.ctr.Exec(ctx, buildShell, command, s.environ(), paths.ContainerWorkdir)
}

// Formats the session environment as "key=value" strings.
func (s *session) environ() []string {
	env := make([]string, 0, len(s.env))
	for k, v := range s.env {
		env = append(env, k+"="+v)
	}
	return env
}

// Copies a host file into the container's working directory under the given
// archive name, preserving its mode.
func (s *session) copyFileTo(ctx context.Context, hostPath, name string) error {
	info, err := os.Stat(hostPath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuild, err)
	}

	pr, pw := io.Pipe()

	go func() {
		tw := tar.NewWriter(pw)
		writeErr := writeFileToTar(tw, hostPath, info, name)
		tw.Close()
		pw.CloseWithError(writeErr)
	}()

	if err := s.ctr.CopyTo(ctx, pr, paths.ContainerWorkdir); err != nil {
		return fmt.Errorf("%w: %v", ErrBuild, err)
	}

	return nil
}

// Writes a single file to a tar writer with the given archive name.
func writeFileToTar(tw *tar.Writer, hostPath string, info os.FileInfo, name string) error {
	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = name

	if err := tw.WriteHeader(header); err != nil {
		return err
	}

	f, err := os.Open(hostPath)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(tw, f)
	return err
}

// Returns the last non-empty line of command output, for compact errors.
func tail(out string) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
