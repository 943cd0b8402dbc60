// Package bundle orchestrates the packaging pipeline inside a build
// container.
//
// A run starts a container from the recipe's build image, installs the
// packager and the headless browser engine, and discovers the shared
// libraries the browser needs at runtime: loader-linked dependencies via
// ldd, the NSS set by name (it is dlopen-loaded and invisible to ldd), and
// best-effort extras by glob. Everything found is staged and handed to the
// packager, which produces a single self-contained executable at a fixed
// in-container path. Static builds additionally strip and relink the
// result.
//
// Core loader libraries (ld-linux, libc, and friends) are never bundled:
// they define the host ABI and must come from the system the artifact
// eventually runs on.
//
// Example usage:
//
//	result, err := bundle.Run(ctx, rt, bundle.Options{
//	    Recipe:   rcp,
//	    Tag:      "bindle-build",
//	    Platform: "linux/amd64",
//	    Root:     ".",
//	})
//	if err != nil {
//	    return err
//	}
//	defer result.Container.Destroy(ctx)
package bundle
