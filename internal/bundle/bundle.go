package bundle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quaylabs/bindle/internal/paths"
	"github.com/quaylabs/bindle/internal/recipe"
	"github.com/quaylabs/bindle/internal/runtime"
)

// Directory inside the build container where collected libraries are staged
// before being handed to the packager.
const stagingDir = "/build_libs"

// Controls a packaging run.
type Options struct {
	Recipe   recipe.Recipe // Pipeline description.
	Tag      string        // Build environment name, used as the container ID prefix.
	Platform string        // Target platform (e.g., "linux/amd64"). Empty uses the host.
	Root     string        // Host directory containing the entry script.
}

// Returned after a successful packaging run.
type Result struct {
	Container *runtime.Container // Build container holding the artifact. Destroyed by the caller.
	Artifact  string             // Fixed in-container path of the packaged executable.
	Libraries []Library          // Libraries staged into the bundle.
}

// Packages the entry script into a self-contained executable inside a build
// container.
//
// The pipeline installs the packager and the headless browser engine,
// locates the engine's headless_shell binary, collects its shared library
// dependencies plus the NSS set, stages them, and invokes the packager.
// On success the executable sits at the fixed in-container artifact path;
// the caller extracts it and destroys the container.
func Run(ctx context.Context, rt *runtime.Runtime, opts Options) (*Result, error) {
	if opts.Platform == "" {
		opts.Platform = runtime.DefaultPlatform()
	}

	slog.Info("packaging",
		"tag", opts.Tag,
		"platform", opts.Platform,
		"image", opts.Recipe.Bundle.Image,
		"entrypoint", opts.Recipe.Bundle.Entrypoint,
		"static", opts.Recipe.Bundle.Static,
	)

	id := fmt.Sprintf("%s-%s-build", sanitizeID(opts.Tag), paths.PlatformSlug(opts.Platform))

	ctr, err := rt.StartContainer(ctx, runtime.ContainerOptions{
		Image:    opts.Recipe.Bundle.Image,
		ID:       id,
		Platform: opts.Platform,
	})
	if err != nil {
		return nil, err
	}

	s := newSession(ctr, opts.Recipe)

	libs, err := s.execute(ctx, opts.Root)
	if err != nil {
		ctr.Destroy(ctx)
		return nil, err
	}

	return &Result{
		Container: ctr,
		Artifact:  paths.ContainerArtifact,
		Libraries: libs,
	}, nil
}

// Runs the packaging phases in order and returns the staged libraries.
func (s *session) execute(ctx context.Context, root string) ([]Library, error) {
	if err := s.prepare(ctx, root); err != nil {
		return nil, err
	}
	if err := s.installTools(ctx); err != nil {
		return nil, err
	}
	if err := s.installBrowser(ctx); err != nil {
		return nil, err
	}

	libs, err := s.collectLibraries(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.pack(ctx, libs); err != nil {
		return nil, err
	}
	if s.rcp.Bundle.Static {
		if err := s.staticLink(ctx); err != nil {
			return nil, err
		}
	}

	return libs, s.verifyArtifact(ctx)
}

// Replaces characters that are not valid in containerd container IDs.
func sanitizeID(s string) string {
	out := []byte(s)
	for i, b := range out {
		switch {
		case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9', b == '-', b == '_', b == '.':
		default:
			out[i] = '-'
		}
	}
	return string(out)
}
